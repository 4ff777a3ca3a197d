package analysis_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aishoubot/aishou/internal/analysis"
)

func fixtureTranscript() analysis.Transcript {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)
	at := func(d, hour, minute int) time.Time {
		return day.AddDate(0, 0, d).Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
	}
	return analysis.Transcript{
		{Time: at(0, 9, 0), Sender: "Alice", Text: "おはよう", Kind: analysis.KindText},
		{Time: at(0, 9, 2), Sender: "Bob", Text: "おはよう！", Kind: analysis.KindText},
		{Time: at(0, 9, 5), Sender: "Alice", Text: "[スタンプ]", Kind: analysis.KindSticker},
		{Time: at(0, 21, 0), Sender: "Bob", Text: "今日どうだった", Kind: analysis.KindText},
		{Time: at(0, 21, 4), Sender: "Alice", Text: "今日は楽しかった", Kind: analysis.KindText},
		{Time: at(1, 9, 10), Sender: "Alice", Text: "おはよう", Kind: analysis.KindText},
		{Time: at(1, 9, 15), Sender: "Bob", Text: "おはよう", Kind: analysis.KindText},
		{Time: at(2, 22, 30), Sender: "Bob", Text: "[写真]", Kind: analysis.KindImage},
		{Time: at(2, 22, 31), Sender: "Alice", Text: "いいね", Kind: analysis.KindText},
	}
}

func TestCalcRecords(t *testing.T) {
	t.Parallel()

	tr := fixtureTranscript()
	rec := analysis.CalcRecords(tr, "Alice", "Bob")

	assert.Equal(t, 9, rec.TotalMessages)
	assert.Equal(t, 5, rec.Self.Messages)
	assert.Equal(t, 4, rec.Other.Messages)
	assert.Equal(t, 1, rec.Self.Stickers)
	assert.Equal(t, 1, rec.Other.Images)
	assert.Equal(t, 3, rec.ActiveDays)
	assert.Equal(t, 3, rec.SpanDays)
	assert.Equal(t, 3, rec.LongestStreakDays)
	assert.Equal(t, 9, rec.BusiestHour)
	assert.InDelta(t, 3.0, rec.DailyAverage, 0.001)
}

func TestCalcRecords_SpanDaysUsesCalendarDays(t *testing.T) {
	t.Parallel()

	// In a UTC+9 zone a morning timestamp falls on the previous UTC day;
	// wall-clock truncation would report a 3-day span here.
	jst := time.FixedZone("JST", 9*60*60)
	tr := analysis.Transcript{
		{Time: time.Date(2024, 1, 1, 8, 0, 0, 0, jst), Sender: "Alice", Text: "おはよう", Kind: analysis.KindText},
		{Time: time.Date(2024, 1, 2, 23, 0, 0, 0, jst), Sender: "Bob", Text: "おやすみ", Kind: analysis.KindText},
	}
	rec := analysis.CalcRecords(tr, "Alice", "Bob")

	assert.Equal(t, 2, rec.SpanDays)
	assert.Equal(t, 2, rec.ActiveDays)
}

func TestCalcCompatibility_RadarOrderAndBounds(t *testing.T) {
	t.Parallel()

	tr := fixtureTranscript()
	rec := analysis.CalcRecords(tr, "Alice", "Bob")
	comp := analysis.CalcCompatibility(tr, "Alice", "Bob", rec)

	require.Len(t, comp.Radar, 5)
	for i, category := range analysis.RadarCategories {
		assert.Equal(t, category, comp.Radar[i].Category)
		assert.GreaterOrEqual(t, comp.Radar[i].Score, 0.0)
		assert.LessOrEqual(t, comp.Radar[i].Score, 100.0)
	}
	assert.Greater(t, comp.Overall, 0.0)
	assert.LessOrEqual(t, comp.Overall, 100.0)
}

func TestLowestCategory_FirstEncounteredTie(t *testing.T) {
	t.Parallel()

	comp := analysis.Compatibility{
		Radar: []analysis.RadarEntry{
			{Category: "time", Score: 80},
			{Category: "balance", Score: 60},
			{Category: "tempo", Score: 60},
		},
	}
	assert.Equal(t, "balance", comp.LowestCategory())
}

func TestCalcHabits(t *testing.T) {
	t.Parallel()

	tr := fixtureTranscript()
	habits := analysis.CalcHabits(tr, "Alice", "Bob")

	assert.Equal(t, "Alice", habits.Self.Name)
	assert.Greater(t, habits.Self.AvgMessageLength, 0.0)
	assert.NotEmpty(t, habits.Self.TopHours)
	// Bob's "おはよう！" carries an emphasis mark, counted as expressive.
	assert.Greater(t, habits.Other.EmojiRate, 0.0)
}

func TestCalcBehavior(t *testing.T) {
	t.Parallel()

	tr := fixtureTranscript()
	behavior, err := analysis.CalcBehavior(context.Background(), tr, "Alice", "Bob")
	require.NoError(t, err)

	// Four conversation openers: Alice d0 morning and d1 morning, Bob d0
	// evening and d2 night.
	assert.InDelta(t, 0.5, behavior.Self.InitiationRate, 0.001)
	assert.InDelta(t, 0.5, behavior.Other.InitiationRate, 0.001)
	assert.Greater(t, behavior.Self.MedianReplySeconds, 0.0)
	assert.Greater(t, behavior.Other.MedianReplySeconds, 0.0)
}

func TestCalcBehavior_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := analysis.CalcBehavior(ctx, fixtureTranscript(), "Alice", "Bob")
	assert.Error(t, err)
}

func TestCalcZodiac_Deterministic(t *testing.T) {
	t.Parallel()

	tr := fixtureTranscript()
	rec := analysis.CalcRecords(tr, "Alice", "Bob")

	first := analysis.CalcZodiac(tr, "Alice", "Bob", rec)
	second := analysis.CalcZodiac(tr, "Alice", "Bob", rec)

	require.Len(t, first.Scores, len(analysis.Animals))
	assert.Equal(t, first.AnimalType, second.AnimalType)
	assert.Equal(t, first.Scores, second.Scores)
	assert.NotEmpty(t, first.AnimalType)

	// Scores follow canonical animal order.
	for i, animal := range analysis.Animals {
		assert.Equal(t, animal, first.Scores[i].Animal)
	}
}
