package analysis

import (
	"sort"
	"unicode/utf8"
)

// CalcHabits derives per-participant style statistics: average text length,
// emoji usage, and the hours each participant is most active.
func CalcHabits(t Transcript, self, other string) Habits {
	return Habits{
		Self:  participantHabits(t, self),
		Other: participantHabits(t, other),
	}
}

func participantHabits(t Transcript, name string) ParticipantHabits {
	h := ParticipantHabits{Name: name}
	var (
		textMessages int
		totalRunes   int
		withEmoji    int
		hours        [24]int
	)
	for _, m := range t {
		if m.Sender != name {
			continue
		}
		hours[m.Time.Hour()]++
		if m.Kind != KindText {
			continue
		}
		textMessages++
		totalRunes += utf8.RuneCountInString(m.Text)
		if containsEmoji(m.Text) {
			withEmoji++
		}
	}
	if textMessages > 0 {
		h.AvgMessageLength = float64(totalRunes) / float64(textMessages)
		h.EmojiRate = float64(withEmoji) / float64(textMessages)
	}
	h.TopHours = topHours(hours, 3)
	return h
}

func containsEmoji(s string) bool {
	for _, r := range s {
		switch {
		case r >= 0x1F300 && r <= 0x1FAFF: // pictographs
			return true
		case r >= 0x2600 && r <= 0x27BF: // misc symbols, dingbats
			return true
		case r == '♡' || r == '♪' || r == '！':
			return true
		}
	}
	return false
}

func topHours(hours [24]int, n int) []int {
	type hourCount struct{ hour, count int }
	counts := make([]hourCount, 0, 24)
	for hour, count := range hours {
		if count > 0 {
			counts = append(counts, hourCount{hour, count})
		}
	}
	sort.SliceStable(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return counts[i].hour < counts[j].hour
	})
	if len(counts) > n {
		counts = counts[:n]
	}
	result := make([]int, 0, len(counts))
	for _, c := range counts {
		result = append(result, c.hour)
	}
	return result
}
