package analysis

import (
	"math"
	"strings"
	"time"
)

// Radar categories in render order. The order is load-bearing: the lowest
// category with a tied score resolves to the earlier entry.
const (
	CategoryTime    = "time"
	CategoryBalance = "balance"
	CategoryTempo   = "tempo"
	CategoryType    = "type"
	CategoryWords   = "words"
)

// RadarCategories lists the categories in their canonical order.
var RadarCategories = []string{CategoryTime, CategoryBalance, CategoryTempo, CategoryType, CategoryWords}

var radarWeights = map[string]float64{
	CategoryTime:    0.20,
	CategoryBalance: 0.25,
	CategoryTempo:   0.20,
	CategoryType:    0.15,
	CategoryWords:   0.20,
}

// CalcCompatibility derives the five radar scores and their weighted overall.
// All scores are 0-100, rounded to one decimal.
func CalcCompatibility(t Transcript, self, other string, rec Records) Compatibility {
	scores := map[string]float64{
		CategoryTime:    timeScore(t, self, other),
		CategoryBalance: balanceScore(rec),
		CategoryTempo:   tempoScore(t, self, other),
		CategoryType:    typeScore(t, self, other),
		CategoryWords:   wordsScore(t, self, other),
	}

	comp := Compatibility{Radar: make([]RadarEntry, 0, len(RadarCategories))}
	var overall float64
	for _, category := range RadarCategories {
		score := round1(scores[category])
		comp.Radar = append(comp.Radar, RadarEntry{Category: category, Score: score})
		overall += score * radarWeights[category]
	}
	comp.Overall = round1(overall)
	return comp
}

// timeScore compares the two participants' hour-of-day activity profiles.
func timeScore(t Transcript, self, other string) float64 {
	var selfHours, otherHours [24]float64
	for _, m := range t {
		switch m.Sender {
		case self:
			selfHours[m.Time.Hour()]++
		case other:
			otherHours[m.Time.Hour()]++
		}
	}
	return distributionSimilarity(selfHours[:], otherHours[:])
}

// balanceScore measures how evenly the two share message volume.
func balanceScore(rec Records) float64 {
	a, b := float64(rec.Self.Messages), float64(rec.Other.Messages)
	if a == 0 || b == 0 {
		return 0
	}
	return 100 * math.Min(a, b) / math.Max(a, b)
}

// tempoScore compares median reply latencies.
func tempoScore(t Transcript, self, other string) float64 {
	selfGaps, otherGaps := replyGaps(t, self, other)
	a, b := median(selfGaps), median(otherGaps)
	if a == 0 && b == 0 {
		return 100
	}
	if a == 0 || b == 0 {
		return 50
	}
	return 100 * math.Min(a, b) / math.Max(a, b)
}

// typeScore compares the mix of content kinds (text, stickers, photos, ...).
func typeScore(t Transcript, self, other string) float64 {
	kinds := []Kind{KindText, KindSticker, KindImage, KindVideo, KindFile, KindCall}
	selfMix := make([]float64, len(kinds))
	otherMix := make([]float64, len(kinds))
	index := make(map[Kind]int, len(kinds))
	for i, k := range kinds {
		index[k] = i
	}
	for _, m := range t {
		switch m.Sender {
		case self:
			selfMix[index[m.Kind]]++
		case other:
			otherMix[index[m.Kind]]++
		}
	}
	return distributionSimilarity(selfMix, otherMix)
}

// wordsScore measures shared vocabulary via a Dice coefficient over character
// bigrams, which behaves sensibly for Japanese text without tokenization.
func wordsScore(t Transcript, self, other string) float64 {
	selfGrams := bigrams(t, self)
	otherGrams := bigrams(t, other)
	if len(selfGrams) == 0 || len(otherGrams) == 0 {
		return 0
	}
	shared := 0
	for g := range selfGrams {
		if otherGrams[g] {
			shared++
		}
	}
	dice := 2 * float64(shared) / float64(len(selfGrams)+len(otherGrams))
	return 100 * dice
}

func bigrams(t Transcript, sender string) map[string]bool {
	grams := make(map[string]bool)
	for _, m := range t {
		if m.Sender != sender || m.Kind != KindText {
			continue
		}
		runes := []rune(strings.ToLower(m.Text))
		for i := 0; i+1 < len(runes); i++ {
			grams[string(runes[i:i+2])] = true
		}
	}
	return grams
}

// replyGaps collects turn-taking latencies per participant. Gaps longer than
// six hours are treated as new conversations, not replies.
func replyGaps(t Transcript, self, other string) (selfGaps, otherGaps []float64) {
	const maxReplyGap = 6 * time.Hour
	for i := 1; i < len(t); i++ {
		prev, cur := t[i-1], t[i]
		if prev.Sender == cur.Sender {
			continue
		}
		gap := cur.Time.Sub(prev.Time)
		if gap < 0 || gap > maxReplyGap {
			continue
		}
		switch cur.Sender {
		case self:
			selfGaps = append(selfGaps, gap.Seconds())
		case other:
			otherGaps = append(otherGaps, gap.Seconds())
		}
	}
	return selfGaps, otherGaps
}

// distributionSimilarity normalizes both vectors and returns 100 minus half
// the L1 distance, so identical profiles score 100 and disjoint ones 0.
func distributionSimilarity(a, b []float64) float64 {
	var sumA, sumB float64
	for i := range a {
		sumA += a[i]
		sumB += b[i]
	}
	if sumA == 0 || sumB == 0 {
		return 0
	}
	var l1 float64
	for i := range a {
		l1 += math.Abs(a[i]/sumA - b[i]/sumB)
	}
	return 100 * (1 - l1/2)
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j] < sorted[j-1]; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
