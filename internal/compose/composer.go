// Package compose turns an analytics result into the multi-page flex
// carousel delivered to the user, and measures the serialized payload against
// the platform's size ceiling.
package compose

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/aishoubot/aishou/internal/analysis"
	"github.com/aishoubot/aishou/internal/comments"
	"github.com/aishoubot/aishou/internal/line"
)

// SizeLimit is the delivery channel's documented ceiling for one flex
// message. Oversized messages may be silently rejected or truncated, so the
// guard warns; it does not block delivery.
const SizeLimit = 25000

var categoryLabels = map[string]string{
	analysis.CategoryTime:    "時間帯",
	analysis.CategoryBalance: "バランス",
	analysis.CategoryTempo:   "テンポ",
	analysis.CategoryType:    "タイプ",
	analysis.CategoryWords:   "ことば",
}

// Composer builds result carousels from the static comment bank.
type Composer struct {
	bank         *comments.Bank
	baseURL      string
	promoLinkURL string
	logger       *slog.Logger
}

// New creates a Composer. baseURL is the public origin for static assets and
// may be empty, in which case the promotional image page is omitted.
func New(bank *comments.Bank, baseURL, promoLinkURL string, log *slog.Logger) *Composer {
	if log == nil {
		log = slog.Default()
	}
	return &Composer{
		bank:         bank,
		baseURL:      strings.TrimRight(baseURL, "/"),
		promoLinkURL: promoLinkURL,
		logger:       log.With(slog.String("component", "composer")),
	}
}

// Compose builds the full result carousel: overview, one page per radar
// category, the weakest-category advice, the animal type, and the records
// page.
func (c *Composer) Compose(res analysis.Result, self, other string) (*line.FlexMessage, error) {
	if len(res.Compatibility.Radar) == 0 {
		return nil, fmt.Errorf("compatibility radar is empty")
	}

	bubbles := []line.Bubble{c.overviewBubble(res, self, other)}
	for _, entry := range res.Compatibility.Radar {
		bubbles = append(bubbles, c.categoryBubble(entry, res, other))
	}
	bubbles = append(bubbles,
		c.adviceBubble(res, other),
		c.animalBubble(res.Zodiac),
		c.recordsBubble(res.Records),
	)

	msg := line.NewFlexMessage("相性診断の結果が届きました", line.NewCarousel(bubbles...))
	return &msg, nil
}

// SizeReport is the measured footprint of one composed message.
type SizeReport struct {
	PageSizes []int
	TotalSize int
	Oversize  bool
}

// CheckSize serializes each page and the whole message, logs the byte sizes,
// and flags the total against SizeLimit.
func (c *Composer) CheckSize(msg *line.FlexMessage) (SizeReport, error) {
	var report SizeReport

	if carousel, ok := msg.Contents.(line.Carousel); ok {
		for i, bubble := range carousel.Contents {
			page := line.NewFlexMessage(fmt.Sprintf("ページ%d", i+1), bubble)
			data, err := json.Marshal(page)
			if err != nil {
				return SizeReport{}, fmt.Errorf("serialize page %d: %w", i+1, err)
			}
			report.PageSizes = append(report.PageSizes, len(data))
			c.logger.Info("page size", slog.Int("page", i+1), slog.Int("bytes", len(data)))
		}
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return SizeReport{}, fmt.Errorf("serialize message: %w", err)
	}
	report.TotalSize = len(data)
	report.Oversize = report.TotalSize > SizeLimit
	if report.Oversize {
		c.logger.Warn("flex message exceeds size ceiling",
			slog.Int("bytes", report.TotalSize),
			slog.Int("limit", SizeLimit),
		)
	} else {
		c.logger.Info("total message size", slog.Int("bytes", report.TotalSize))
	}
	return report, nil
}

func (c *Composer) overviewBubble(res analysis.Result, self, other string) line.Bubble {
	comment := comments.Render(c.bank.LookupScore(comments.CategoryOverall, res.Compatibility.Overall), other)

	rows := []line.FlexComponent{}
	for _, entry := range res.Compatibility.Radar {
		rows = append(rows, radarRow(categoryLabels[entry.Category], entry.Score))
	}

	bubble := line.NewBubble()
	bubble.Header = headerBox("相性診断", fmt.Sprintf("%s × %s", self, other))
	bubble.Body = line.NewBox("vertical",
		scoreText(res.Compatibility.Overall),
		line.NewSeparator(),
		line.NewBox("vertical", rows...),
		commentText(comment),
	)
	bubble.Body.Spacing = "md"
	return bubble
}

func (c *Composer) categoryBubble(entry analysis.RadarEntry, res analysis.Result, other string) line.Bubble {
	comment := comments.Render(c.bank.LookupScore(comments.Category(entry.Category), entry.Score), other)

	bubble := line.NewBubble()
	bubble.Header = headerBox(categoryLabels[entry.Category], "")
	bubble.Body = line.NewBox("vertical",
		scoreText(entry.Score),
		commentText(comment),
	)
	bubble.Body.Spacing = "md"
	return bubble
}

func (c *Composer) adviceBubble(res analysis.Result, other string) line.Bubble {
	lowest := res.Compatibility.LowestCategory()
	comment := comments.Render(c.bank.Lookup(comments.CategorySevenPoint, lowest), other)

	bubble := line.NewBubble()
	bubble.Header = headerBox("もっと仲良くなるには", "")
	bubble.Body = line.NewBox("vertical", commentText(comment))
	return bubble
}

func (c *Composer) animalBubble(z analysis.Zodiac) line.Bubble {
	title := "ふたりのタイプ"
	body := []line.FlexComponent{}
	if info, ok := c.bank.Animal(z.AnimalType); ok {
		heading := line.NewText(info.Emoji + " " + info.Name)
		heading.Size = "xl"
		heading.Weight = "bold"
		heading.Align = "center"
		body = append(body, heading)
		if info.Tagline != "" {
			tagline := line.NewText(info.Tagline)
			tagline.Align = "center"
			tagline.Color = "#888888"
			body = append(body, tagline)
		}
		body = append(body, commentText(info.Description))
	} else {
		body = append(body, commentText("タイプ判定の結果が見つかりませんでした。"))
	}
	for _, s := range topAnimalScores(z.Scores, 3) {
		body = append(body, radarRow(s.Animal, s.Score))
	}

	bubble := line.NewBubble()
	bubble.Header = headerBox(title, "")
	bubble.Body = line.NewBox("vertical", body...)
	bubble.Body.Spacing = "sm"
	return bubble
}

// topAnimalScores returns the n strongest matches; equal scores keep their
// original relative order.
func topAnimalScores(scores []analysis.AnimalScore, n int) []analysis.AnimalScore {
	sorted := make([]analysis.AnimalScore, len(scores))
	copy(sorted, scores)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func (c *Composer) recordsBubble(rec analysis.Records) line.Bubble {
	bubble := line.NewBubble()
	bubble.Header = headerBox("ふたりの記録", "")
	bubble.Body = line.NewBox("vertical",
		recordRow("総メッセージ数", fmt.Sprintf("%d", rec.TotalMessages)),
		recordRow("トーク日数", fmt.Sprintf("%d日", rec.ActiveDays)),
		recordRow("1日平均", fmt.Sprintf("%.1f通", rec.DailyAverage)),
		recordRow("最長連続記録", fmt.Sprintf("%d日", rec.LongestStreakDays)),
		recordRow("いちばん話す時間", fmt.Sprintf("%d時ごろ", rec.BusiestHour)),
	)
	bubble.Body.Spacing = "sm"

	if c.baseURL != "" {
		bubble.Hero = line.NewImage(c.baseURL + "/images/promotion.png")
		bubble.Hero.AspectRatio = "20:13"
		bubble.Hero.AspectMode = "cover"
	}
	if c.promoLinkURL != "" {
		bubble.Footer = line.NewBox("vertical", line.NewURIButton("くわしい解説を読む", c.promoLinkURL))
	}
	return bubble
}

func headerBox(title, subtitle string) *line.FlexBox {
	titleText := line.NewText(title)
	titleText.Size = "lg"
	titleText.Weight = "bold"
	titleText.Color = "#FFFFFF"
	contents := []line.FlexComponent{titleText}
	if subtitle != "" {
		sub := line.NewText(subtitle)
		sub.Size = "sm"
		sub.Color = "#FFFFFFCC"
		contents = append(contents, sub)
	}
	box := line.NewBox("vertical", contents...)
	box.BackgroundColor = "#FF6B81"
	box.PaddingAll = "16px"
	return box
}

func scoreText(score float64) *line.FlexText {
	t := line.NewText(fmt.Sprintf("%.0f点", score))
	t.Size = "3xl"
	t.Weight = "bold"
	t.Align = "center"
	return t
}

func commentText(comment string) *line.FlexText {
	t := line.NewText(comment)
	t.Size = "sm"
	t.Margin = "md"
	return t
}

func radarRow(label string, score float64) *line.FlexBox {
	name := line.NewText(label)
	name.Size = "sm"
	name.Color = "#555555"
	value := line.NewText(fmt.Sprintf("%.0f", score))
	value.Size = "sm"
	value.Align = "end"
	return line.NewBox("horizontal", name, value)
}

func recordRow(label, value string) *line.FlexBox {
	name := line.NewText(label)
	name.Size = "sm"
	name.Color = "#555555"
	val := line.NewText(value)
	val.Size = "sm"
	val.Align = "end"
	return line.NewBox("horizontal", name, val)
}
