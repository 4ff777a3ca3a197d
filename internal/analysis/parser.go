package analysis

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrParse marks input that cannot be read as an exported talk history.
var ErrParse = errors.New("transcript parse failed")

var (
	// 2024/01/02(火) or 2024.1.2(Tue); the weekday suffix is optional.
	dateLineRe = regexp.MustCompile(`^(\d{4})[/.](\d{1,2})[/.](\d{1,2})(\([^)]+\))?$`)
	clockRe    = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
)

// Parse reads the LINE talk-history export format: a saved-at header, date
// lines introducing each day, and tab-separated "HH:MM<TAB>sender<TAB>text"
// message lines. Bare lines after the first message continue the previous
// message body. An input with no recognizable messages fails with ErrParse.
func Parse(raw string) (Transcript, error) {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")

	var (
		transcript Transcript
		day        time.Time
		haveDay    bool
	)
	for _, rawLine := range strings.Split(raw, "\n") {
		line := strings.TrimRight(rawLine, " \t")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if m := dateLineRe.FindStringSubmatch(trimmed); m != nil {
			year, _ := strconv.Atoi(m[1])
			month, _ := strconv.Atoi(m[2])
			dom, _ := strconv.Atoi(m[3])
			day = time.Date(year, time.Month(month), dom, 0, 0, 0, 0, time.Local)
			haveDay = true
			continue
		}
		if haveDay {
			if parts := strings.SplitN(line, "\t", 3); len(parts) == 3 {
				if clock, ok := parseClock(parts[0]); ok {
					text := parts[2]
					transcript = append(transcript, Message{
						Time:   day.Add(clock),
						Sender: strings.TrimSpace(parts[1]),
						Text:   text,
						Kind:   classify(text),
					})
					continue
				}
			}
		}
		// Header lines before the first day are dropped; anything else is a
		// continuation of the previous message.
		if len(transcript) > 0 {
			last := &transcript[len(transcript)-1]
			last.Text += "\n" + line
		}
	}
	if len(transcript) == 0 {
		return nil, fmt.Errorf("%w: no messages found", ErrParse)
	}
	return transcript, nil
}

func parseClock(s string) (time.Duration, bool) {
	m := clockRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, false
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return 0, false
	}
	return time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute, true
}

func classify(text string) Kind {
	switch strings.TrimSpace(text) {
	case "[スタンプ]":
		return KindSticker
	case "[写真]", "[画像]":
		return KindImage
	case "[動画]":
		return KindVideo
	case "[ファイル]":
		return KindFile
	}
	if strings.HasPrefix(text, "☎") {
		return KindCall
	}
	return KindText
}
