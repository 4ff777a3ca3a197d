// Package pipeline runs one accepted file event end to end: content fetch,
// transcript analysis, carousel composition, and push delivery with its
// fallback policy. The webhook handler has already acknowledged the platform
// by the time Run executes, so every outcome here reaches the user by push.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/aishoubot/aishou/internal/analysis"
	"github.com/aishoubot/aishou/internal/compose"
	"github.com/aishoubot/aishou/internal/line"
)

// Stage-specific apology texts. The user always gets one of these or the
// result; an accepted upload is never answered with silence.
const (
	apologyFetch    = "⚠️ ファイルの読み込み中にエラーが発生しました"
	apologyParse    = "⚠️ トーク履歴の解析に失敗しました"
	apologyGeneric  = "⚠️ 分析中にエラーが発生しました。もう一度お試しください。"
	apologyDelivery = "⚠️ 結果の送信に失敗しました"
)

var (
	// ErrFetchTimeout marks a content retrieval that lost the timeout race.
	ErrFetchTimeout = errors.New("content fetch timed out")
	// ErrFetch marks any other content-retrieval failure.
	ErrFetch = errors.New("content fetch failed")
)

// DefaultFetchTimeout bounds the content-fetch stage; no other stage carries
// an explicit deadline.
const DefaultFetchTimeout = 5 * time.Second

// PlatformClient is the messaging-platform surface the pipeline needs.
type PlatformClient interface {
	GetMessageContent(ctx context.Context, messageID string) (io.ReadCloser, error)
	GetProfile(ctx context.Context, userID string) (line.Profile, error)
	Reply(ctx context.Context, replyToken string, messages ...line.Message) error
	Push(ctx context.Context, to string, messages ...line.Message) error
}

// Composer builds and measures the outbound carousel.
type Composer interface {
	Compose(res analysis.Result, self, other string) (*line.FlexMessage, error)
	CheckSize(msg *line.FlexMessage) (compose.SizeReport, error)
}

// Pipeline orchestrates the per-event processing chain. All state is
// per-invocation; a Pipeline is safe for concurrent Run calls.
type Pipeline struct {
	client       PlatformClient
	composer     Composer
	fetchTimeout time.Duration
	logger       *slog.Logger
}

// New creates a Pipeline. A non-positive fetchTimeout falls back to
// DefaultFetchTimeout.
func New(client PlatformClient, composer Composer, fetchTimeout time.Duration, log *slog.Logger) *Pipeline {
	if fetchTimeout <= 0 {
		fetchTimeout = DefaultFetchTimeout
	}
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		client:       client,
		composer:     composer,
		fetchTimeout: fetchTimeout,
		logger:       log.With(slog.String("component", "pipeline")),
	}
}

// Run processes one file-message event. It never returns an error: every
// failure terminates in a user-visible apology, and a failed apology is
// logged as the terminal state.
func (p *Pipeline) Run(ctx context.Context, ev line.Event) {
	userID := ev.Source.UserID
	log := p.logger.With(
		slog.String("proc_id", uuid.NewString()),
		slog.String("message_id", ev.Message.ID),
		slog.String("user_id", userID),
	)
	log.Info("event processing started", slog.String("file_name", ev.Message.FileName))

	rawText, err := p.fetchContent(ctx, ev.Message.ID)
	if err != nil {
		log.Error("content fetch failed", slog.Any("error", err))
		p.pushApology(ctx, log, userID, apologyFetch)
		return
	}

	transcript, err := analysis.Parse(rawText)
	if err != nil {
		log.Error("transcript parse failed", slog.Any("error", err))
		p.pushApology(ctx, log, userID, apologyParse)
		return
	}
	log.Info("transcript parsed", slog.Int("messages", len(transcript)))

	msg, err := p.analyzeAndCompose(ctx, transcript, userID)
	if err != nil {
		log.Error("analysis failed", slog.Any("error", err))
		p.pushApology(ctx, log, userID, apologyGeneric)
		return
	}

	if _, err := p.composer.CheckSize(msg); err != nil {
		log.Warn("size check failed", slog.Any("error", err))
	}

	if err := p.client.Push(ctx, userID, *msg); err != nil {
		log.Error("result push failed", slog.Any("error", err))
		p.pushApology(ctx, log, userID, apologyDelivery)
		return
	}
	log.Info("result delivered")
}

// fetchContent races the platform retrieval against the fetch timeout. On
// timeout the read keeps running in its own goroutine and completes into a
// buffered channel, so the abandoned result is dropped without blocking
// anything.
func (p *Pipeline) fetchContent(ctx context.Context, messageID string) (string, error) {
	type fetchResult struct {
		text string
		err  error
	}
	done := make(chan fetchResult, 1)
	go func() {
		body, err := p.client.GetMessageContent(ctx, messageID)
		if err != nil {
			done <- fetchResult{err: fmt.Errorf("%w: %v", ErrFetch, err)}
			return
		}
		defer body.Close()
		data, err := io.ReadAll(body)
		if err != nil {
			done <- fetchResult{err: fmt.Errorf("%w: %v", ErrFetch, err)}
			return
		}
		done <- fetchResult{text: string(data)}
	}()

	timer := time.NewTimer(p.fetchTimeout)
	defer timer.Stop()
	select {
	case res := <-done:
		return res.text, res.err
	case <-timer.C:
		return "", fmt.Errorf("%w after %s", ErrFetchTimeout, p.fetchTimeout)
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %v", ErrFetch, ctx.Err())
	}
}

// analyzeAndCompose runs participant resolution and the five calculators,
// then builds the carousel. The behavior stage runs concurrently with the
// synchronous ones. Any failure propagates undifferentiated; no partial
// result is ever composed.
func (p *Pipeline) analyzeAndCompose(ctx context.Context, transcript analysis.Transcript, userID string) (*line.FlexMessage, error) {
	profile, err := p.client.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	self, other, err := analysis.ResolveParticipants(transcript, profile.DisplayName)
	if err != nil {
		return nil, fmt.Errorf("resolve participants: %w", err)
	}

	records := analysis.CalcRecords(transcript, self, other)

	var behavior analysis.Behavior
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b, err := analysis.CalcBehavior(gctx, transcript, self, other)
		if err != nil {
			return fmt.Errorf("behavior analysis: %w", err)
		}
		behavior = b
		return nil
	})

	compatibility := analysis.CalcCompatibility(transcript, self, other, records)
	habits := analysis.CalcHabits(transcript, self, other)
	zodiac := analysis.CalcZodiac(transcript, self, other, records)

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := analysis.Result{
		Records:       records,
		Compatibility: compatibility,
		Habits:        habits,
		Behavior:      behavior,
		Zodiac:        zodiac,
	}
	msg, err := p.composer.Compose(result, self, other)
	if err != nil {
		return nil, fmt.Errorf("compose result: %w", err)
	}
	return msg, nil
}

// pushApology is the user-visible fallback. A failure here is logged and
// nothing more; the event is terminally failed.
func (p *Pipeline) pushApology(ctx context.Context, log *slog.Logger, userID, text string) {
	if err := p.client.Push(ctx, userID, line.NewTextMessage(text)); err != nil {
		log.Error("apology push failed", slog.Any("error", err))
	}
}
