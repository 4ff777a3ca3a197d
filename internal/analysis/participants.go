package analysis

import (
	"fmt"
	"strings"
)

// ResolveParticipants decides which transcript sender is the uploading user.
// hint is the display name reported by the platform profile; exported names
// are sometimes truncated, so containment in either direction also matches.
// When the hint matches nobody, the first sender is assumed to be the user.
func ResolveParticipants(t Transcript, hint string) (self, other string, err error) {
	senders := t.Senders()
	if len(senders) < 2 {
		return "", "", fmt.Errorf("transcript has %d participant(s), need at least 2", len(senders))
	}

	counts := make(map[string]int, len(senders))
	for _, m := range t {
		counts[m.Sender]++
	}

	self = matchSender(senders, hint)
	if self == "" {
		self = senders[0]
	}

	// The other participant is the busiest remaining sender; group exports
	// can list more than two names.
	for _, name := range senders {
		if name == self {
			continue
		}
		if other == "" || counts[name] > counts[other] {
			other = name
		}
	}
	return self, other, nil
}

func matchSender(senders []string, hint string) string {
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return ""
	}
	for _, name := range senders {
		if name == hint {
			return name
		}
	}
	for _, name := range senders {
		if strings.Contains(name, hint) || strings.Contains(hint, name) {
			return name
		}
	}
	return ""
}
