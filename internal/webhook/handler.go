// Package webhook is the ingress controller: it validates and acknowledges
// platform webhook calls, filters duplicate events, and hands accepted file
// events to the pipeline without coupling the acknowledgment to pipeline
// latency.
package webhook

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aishoubot/aishou/internal/dedup"
	"github.com/aishoubot/aishou/internal/line"
)

const maxBodyBytes int64 = 1 << 20 // 1 MiB

// noticeProcessing is replied synchronously while the reply token is still
// valid; the result itself always arrives later by push.
const noticeProcessing = "📝 トーク履歴を分析中です...\nしばらくお待ちください（1-2分程度）"

// EventRunner executes one accepted file event's pipeline.
type EventRunner interface {
	Run(ctx context.Context, ev line.Event)
}

// Replier sends the synchronous processing notice through a reply token.
type Replier interface {
	Reply(ctx context.Context, replyToken string, messages ...line.Message) error
}

// Options control per-event dispatch behavior.
type Options struct {
	// ChannelSecret enables signature verification when non-empty.
	ChannelSecret string
	// SendProcessingNotice replies a "processing" text before dispatch.
	SendProcessingNotice bool
	// ConcurrentEvents runs sibling events in parallel instead of in order.
	ConcurrentEvents bool
}

// Handler receives Messaging API webhook callbacks.
type Handler struct {
	logger     *slog.Logger
	cache      *dedup.Cache
	runner     EventRunner
	replier    Replier
	dispatcher *Dispatcher
	opts       Options
}

// NewHandler creates a webhook handler.
func NewHandler(log *slog.Logger, cache *dedup.Cache, runner EventRunner, replier Replier, dispatcher *Dispatcher, opts Options) *Handler {
	if log == nil {
		log = slog.Default()
	}
	if dispatcher == nil {
		dispatcher = NewDispatcher(log)
	}
	return &Handler{
		logger:     log.With(slog.String("handler", "line_webhook")),
		cache:      cache,
		runner:     runner,
		replier:    replier,
		dispatcher: dispatcher,
		opts:       opts,
	}
}

// Register registers webhook routes. Only POST is accepted; echo answers
// every other verb on the path with 405. Health checks go to /ping.
func (h *Handler) Register(e *echo.Echo) {
	e.POST("/webhook", h.Handle)
}

// Handle validates one webhook call, dispatches its file events, and
// acknowledges with an empty 200 before any pipeline finishes.
func (h *Handler) Handle(c echo.Context) error {
	if h.cache == nil || h.runner == nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "webhook dependencies not configured")
	}

	payload, err := io.ReadAll(io.LimitReader(c.Request().Body, maxBodyBytes+1))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("read body: %v", err))
	}
	if int64(len(payload)) > maxBodyBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, fmt.Sprintf("payload too large: max %d bytes", maxBodyBytes))
	}

	if h.opts.ChannelSecret != "" {
		signature := c.Request().Header.Get(line.SignatureHeader)
		if !line.ValidateSignature(h.opts.ChannelSecret, payload, signature) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid webhook signature")
		}
	}

	body, err := line.ParseWebhookBody(payload)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid webhook payload: %v", err))
	}

	// Pipelines outlive this request; the request context dies with the ack.
	h.dispatchEvents(context.WithoutCancel(c.Request().Context()), body.Events)

	return c.JSON(http.StatusOK, map[string]any{})
}

// dispatchEvents filters and dedups synchronously (the cheap part), sends
// optional processing notices while reply tokens are fresh, then backgrounds
// the pipelines.
func (h *Handler) dispatchEvents(ctx context.Context, events []line.Event) {
	var accepted []line.Event
	for _, ev := range events {
		if !ev.IsFileMessage() {
			continue
		}
		if !h.cache.ShouldProcess(ev.Message.ID) {
			h.logger.Info("duplicate event skipped", slog.String("message_id", ev.Message.ID))
			continue
		}
		if h.opts.SendProcessingNotice && h.replier != nil && ev.ReplyToken != "" {
			if err := h.replier.Reply(ctx, ev.ReplyToken, line.NewTextMessage(noticeProcessing)); err != nil {
				// The token is single-use and short-lived; a failed notice is
				// not fatal, the result still arrives by push.
				h.logger.Warn("processing notice failed",
					slog.String("message_id", ev.Message.ID),
					slog.Any("error", err),
				)
			}
		}
		accepted = append(accepted, ev)
	}

	if h.opts.ConcurrentEvents {
		for _, ev := range accepted {
			ev := ev
			h.dispatcher.Go(func() { h.runEvent(ctx, ev) })
		}
		return
	}
	if len(accepted) > 0 {
		events := accepted
		h.dispatcher.Go(func() {
			for _, ev := range events {
				h.runEvent(ctx, ev)
			}
		})
	}
}

// runEvent isolates one event's pipeline: a panic here must not take down
// sibling events in sequential mode.
func (h *Handler) runEvent(ctx context.Context, ev line.Event) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("event pipeline panicked",
				slog.String("message_id", ev.Message.ID),
				slog.Any("panic", r),
			)
		}
	}()
	h.runner.Run(ctx, ev)
}
