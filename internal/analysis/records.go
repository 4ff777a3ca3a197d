package analysis

import (
	"time"
	"unicode/utf8"
)

// CalcRecords computes volume statistics over the whole transcript.
func CalcRecords(t Transcript, self, other string) Records {
	rec := Records{
		Self:  ParticipantRecords{Name: self},
		Other: ParticipantRecords{Name: other},
	}
	if len(t) == 0 {
		return rec
	}

	days := make(map[string]bool)
	var hours [24]int
	for _, m := range t {
		p := participantFor(&rec, m.Sender)
		if p == nil {
			continue
		}
		rec.TotalMessages++
		p.Messages++
		switch m.Kind {
		case KindText:
			p.Characters += utf8.RuneCountInString(m.Text)
		case KindSticker:
			p.Stickers++
		case KindImage:
			p.Images++
		}
		days[m.Time.Format(time.DateOnly)] = true
		hours[m.Time.Hour()]++

		if rec.FirstAt.IsZero() || m.Time.Before(rec.FirstAt) {
			rec.FirstAt = m.Time
		}
		if m.Time.After(rec.LastAt) {
			rec.LastAt = m.Time
		}
	}

	rec.ActiveDays = len(days)
	if !rec.FirstAt.IsZero() {
		// Calendar-day difference in the transcript's own zone; wall-clock
		// truncation would cut at UTC boundaries instead.
		first := calendarDate(rec.FirstAt)
		last := calendarDate(rec.LastAt)
		rec.SpanDays = int(last.Sub(first).Hours()/24) + 1
	}
	if rec.ActiveDays > 0 {
		rec.DailyAverage = float64(rec.TotalMessages) / float64(rec.ActiveDays)
	}
	for hour, n := range hours {
		if n > hours[rec.BusiestHour] {
			rec.BusiestHour = hour
		}
	}
	rec.LongestStreakDays = longestStreak(days)
	return rec
}

// calendarDate pins t's local date to UTC midnight so date subtraction is
// always a whole number of days.
func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func participantFor(rec *Records, sender string) *ParticipantRecords {
	switch sender {
	case rec.Self.Name:
		return &rec.Self
	case rec.Other.Name:
		return &rec.Other
	}
	return nil
}

func longestStreak(days map[string]bool) int {
	longest := 0
	for day := range days {
		start, err := time.Parse(time.DateOnly, day)
		if err != nil {
			continue
		}
		// Only count from the first day of a run.
		if days[start.AddDate(0, 0, -1).Format(time.DateOnly)] {
			continue
		}
		run := 1
		for days[start.AddDate(0, 0, run).Format(time.DateOnly)] {
			run++
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}
