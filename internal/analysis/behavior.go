package analysis

import (
	"context"
	"time"
)

// conversationGap separates one conversation from the next; the first message
// after it counts as an initiation.
const conversationGap = 8 * time.Hour

// CalcBehavior derives reply-rhythm statistics: how fast each participant
// answers and who opens conversations. It runs concurrently with the
// synchronous calculators, so it checks ctx between passes.
func CalcBehavior(ctx context.Context, t Transcript, self, other string) (Behavior, error) {
	if err := ctx.Err(); err != nil {
		return Behavior{}, err
	}
	selfGaps, otherGaps := replyGaps(t, self, other)

	if err := ctx.Err(); err != nil {
		return Behavior{}, err
	}
	selfInits, otherInits := 0, 0
	for i, m := range t {
		if i > 0 && m.Time.Sub(t[i-1].Time) < conversationGap {
			continue
		}
		switch m.Sender {
		case self:
			selfInits++
		case other:
			otherInits++
		}
	}

	behavior := Behavior{
		Self:  ParticipantBehavior{Name: self, MedianReplySeconds: median(selfGaps)},
		Other: ParticipantBehavior{Name: other, MedianReplySeconds: median(otherGaps)},
	}
	if total := selfInits + otherInits; total > 0 {
		behavior.Self.InitiationRate = float64(selfInits) / float64(total)
		behavior.Other.InitiationRate = float64(otherInits) / float64(total)
	}
	return behavior, nil
}
