package analysis

import "math"

// Animals is the canonical eto order; ties between animal scores resolve to
// the earlier entry.
var Animals = []string{"鼠", "牛", "虎", "兎", "龍", "蛇", "馬", "羊", "猿", "鶏", "犬", "猪"}

// Each animal archetype weighs the five pair features:
// volume, balance, nocturnality, sticker rate, burstiness.
var animalWeights = map[string][5]float64{
	"鼠": {0.9, 0.3, 0.6, 0.4, 0.8},
	"牛": {0.2, 0.8, 0.1, 0.2, 0.3},
	"虎": {0.8, 0.2, 0.4, 0.3, 0.9},
	"兎": {0.5, 0.6, 0.3, 0.9, 0.4},
	"龍": {0.7, 0.4, 0.7, 0.2, 0.7},
	"蛇": {0.3, 0.5, 0.9, 0.3, 0.2},
	"馬": {0.9, 0.5, 0.2, 0.5, 0.6},
	"羊": {0.4, 0.9, 0.2, 0.7, 0.3},
	"猿": {0.8, 0.4, 0.5, 0.8, 0.7},
	"鶏": {0.6, 0.7, 0.1, 0.4, 0.5},
	"犬": {0.5, 0.9, 0.3, 0.5, 0.5},
	"猪": {0.7, 0.3, 0.6, 0.3, 0.9},
}

// CalcZodiac scores the pair against the twelve animal archetypes and picks
// the closest. The features are normalized to 0-1 so scores land on 0-100.
func CalcZodiac(t Transcript, self, other string, rec Records) Zodiac {
	features := pairFeatures(t, rec)

	z := Zodiac{Scores: make([]AnimalScore, 0, len(Animals))}
	best := math.Inf(-1)
	for _, animal := range Animals {
		weights := animalWeights[animal]
		var dot, norm float64
		for i, w := range weights {
			dot += w * features[i]
			norm += w
		}
		score := round1(100 * dot / norm)
		z.Scores = append(z.Scores, AnimalScore{Animal: animal, Score: score})
		if score > best {
			best = score
			z.AnimalType = animal
		}
	}
	return z
}

func pairFeatures(t Transcript, rec Records) [5]float64 {
	var features [5]float64

	// volume: saturates around 50 messages per active day
	features[0] = clamp01(rec.DailyAverage / 50)

	a, b := float64(rec.Self.Messages), float64(rec.Other.Messages)
	if a > 0 && b > 0 {
		features[1] = math.Min(a, b) / math.Max(a, b)
	}

	night, stickers := 0, 0
	for _, m := range t {
		hour := m.Time.Hour()
		if hour >= 22 || hour < 4 {
			night++
		}
		if m.Kind == KindSticker {
			stickers++
		}
	}
	if len(t) > 0 {
		features[2] = float64(night) / float64(len(t))
		features[3] = clamp01(5 * float64(stickers) / float64(len(t)))
	}

	if rec.SpanDays > 0 {
		features[4] = clamp01(float64(rec.LongestStreakDays) / float64(rec.SpanDays))
	}
	return features
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
