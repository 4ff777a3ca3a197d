// Package analysis parses exported talk histories and computes the
// compatibility analytics delivered back to the user.
package analysis

import "time"

// Kind classifies a transcript line by content type.
type Kind string

const (
	KindText    Kind = "text"
	KindSticker Kind = "sticker"
	KindImage   Kind = "image"
	KindVideo   Kind = "video"
	KindFile    Kind = "file"
	KindCall    Kind = "call"
)

// Message is one line of an exported talk history.
type Message struct {
	Time   time.Time
	Sender string
	Text   string
	Kind   Kind
}

// Transcript is the ordered sequence of parsed chat lines.
type Transcript []Message

// Senders returns distinct sender names in order of first appearance.
func (t Transcript) Senders() []string {
	var names []string
	seen := make(map[string]bool, 2)
	for _, m := range t {
		if !seen[m.Sender] {
			seen[m.Sender] = true
			names = append(names, m.Sender)
		}
	}
	return names
}

// Result aggregates the five analytics computations for one transcript.
type Result struct {
	Records       Records
	Compatibility Compatibility
	Habits        Habits
	Behavior      Behavior
	Zodiac        Zodiac
}

// RadarEntry pairs a compatibility category with its 0-100 score.
type RadarEntry struct {
	Category string
	Score    float64
}

// Compatibility holds the radar scores and their weighted overall. Radar
// order is fixed at computation time and determines tie-breaks.
type Compatibility struct {
	Overall float64
	Radar   []RadarEntry
}

// LowestCategory returns the radar category with the minimum score. Ties keep
// the earlier entry.
func (c Compatibility) LowestCategory() string {
	if len(c.Radar) == 0 {
		return ""
	}
	lowest := c.Radar[0]
	for _, e := range c.Radar[1:] {
		if e.Score < lowest.Score {
			lowest = e
		}
	}
	return lowest.Category
}

// ParticipantRecords are per-participant volume counters.
type ParticipantRecords struct {
	Name       string
	Messages   int
	Characters int
	Stickers   int
	Images     int
}

// Records summarizes message volume over the whole transcript.
type Records struct {
	Self              ParticipantRecords
	Other             ParticipantRecords
	TotalMessages     int
	FirstAt           time.Time
	LastAt            time.Time
	SpanDays          int
	ActiveDays        int
	DailyAverage      float64
	BusiestHour       int
	LongestStreakDays int
}

// ParticipantHabits describe one participant's messaging style.
type ParticipantHabits struct {
	Name             string
	AvgMessageLength float64
	EmojiRate        float64
	TopHours         []int
}

// Habits pairs both participants' styles.
type Habits struct {
	Self  ParticipantHabits
	Other ParticipantHabits
}

// ParticipantBehavior describes one participant's conversational rhythm.
type ParticipantBehavior struct {
	Name               string
	MedianReplySeconds float64
	InitiationRate     float64
}

// Behavior pairs both participants' rhythms.
type Behavior struct {
	Self  ParticipantBehavior
	Other ParticipantBehavior
}

// AnimalScore is one animal archetype's score for the pair.
type AnimalScore struct {
	Animal string
	Score  float64
}

// Zodiac is the animal-type classification with all per-type scores in
// canonical order.
type Zodiac struct {
	AnimalType string
	Scores     []AnimalScore
}
