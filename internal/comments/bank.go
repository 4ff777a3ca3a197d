// Package comments holds the static comment bank: score-banded templates per
// compatibility category plus display metadata for the animal types. The
// bank is loaded once at startup and read-only afterwards.
package comments

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Category is the first-level lookup key.
type Category string

const (
	CategoryOverall    Category = "overall"
	CategoryTime       Category = "time"
	CategoryBalance    Category = "balance"
	CategoryTempo      Category = "tempo"
	CategoryType       Category = "type"
	CategoryWords      Category = "words"
	CategorySevenPoint Category = "7p"
)

// Band is a discrete score-range bucket.
type Band string

const (
	Band95 Band = "95"
	Band90 Band = "90"
	Band85 Band = "85"
	Band80 Band = "80"
	Band70 Band = "70"
	Band60 Band = "60"
	Band50 Band = "50"
	Band49 Band = "49"
)

// BandFor maps a numeric score to its band. Thresholds are closed and checked
// from the top down, so a score of exactly 95 lands in Band95.
func BandFor(score float64) Band {
	switch {
	case score >= 95:
		return Band95
	case score >= 90:
		return Band90
	case score >= 85:
		return Band85
	case score >= 80:
		return Band80
	case score >= 70:
		return Band70
	case score >= 60:
		return Band60
	case score >= 50:
		return Band50
	default:
		return Band49
	}
}

// PlaceholderOther is the token templates use for the other participant's
// name.
const PlaceholderOther = "（相手）"

// AnimalInfo is display metadata for one animal type.
type AnimalInfo struct {
	Name        string `json:"name"`
	Emoji       string `json:"emoji"`
	Tagline     string `json:"tagline"`
	Description string `json:"description"`
}

// Bank is the two-level comment table. The second-level key is a band for
// score categories and a category name for the seven-point advice table.
type Bank struct {
	categories  map[Category]map[string]string
	animalTypes map[string]AnimalInfo
}

type bankFile struct {
	Overall     map[string]string     `json:"overall"`
	Time        map[string]string     `json:"time"`
	Balance     map[string]string     `json:"balance"`
	Tempo       map[string]string     `json:"tempo"`
	Type        map[string]string     `json:"type"`
	Words       map[string]string     `json:"words"`
	SevenPoint  map[string]string     `json:"7p"`
	AnimalTypes map[string]AnimalInfo `json:"animalTypes"`
}

//go:embed comments.json
var defaultBank []byte

// Load reads the comment bank from path, or the embedded defaults when path
// is empty.
func Load(path string) (*Bank, error) {
	data := defaultBank
	if path != "" {
		fileData, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read comment bank: %w", err)
		}
		data = fileData
	}
	var file bankFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode comment bank: %w", err)
	}
	return &Bank{
		categories: map[Category]map[string]string{
			CategoryOverall:    file.Overall,
			CategoryTime:       file.Time,
			CategoryBalance:    file.Balance,
			CategoryTempo:      file.Tempo,
			CategoryType:       file.Type,
			CategoryWords:      file.Words,
			CategorySevenPoint: file.SevenPoint,
		},
		animalTypes: file.AnimalTypes,
	}, nil
}

// Lookup returns the template for category and key, or "" when either level
// is missing. Missing entries are never an error.
func (b *Bank) Lookup(category Category, key string) string {
	table, ok := b.categories[category]
	if !ok {
		return ""
	}
	return table[key]
}

// LookupScore selects a template by mapping score to its band.
func (b *Bank) LookupScore(category Category, score float64) string {
	return b.Lookup(category, string(BandFor(score)))
}

// Animal returns display metadata for an animal-type key.
func (b *Bank) Animal(key string) (AnimalInfo, bool) {
	info, ok := b.animalTypes[key]
	return info, ok
}

// Render substitutes every other-participant placeholder in template.
func Render(template, otherName string) string {
	return strings.ReplaceAll(template, PlaceholderOther, otherName)
}
