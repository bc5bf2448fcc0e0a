package lead

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"lead_handler/mail"
	"lead_handler/ratelimit"
	"lead_handler/sms"
)

const maxBodyBytes = 64 << 10

// Limiter is the per-client submission budget.
type Limiter interface {
	CheckAndIncrement(key string) ratelimit.Decision
}

// Response is the JSON body of every reply.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Options wires a Handler. Limiter, Sender and Renderer are required.
type Options struct {
	Limiter     Limiter
	Stats       ratelimit.StatsStore
	Sender      mail.Sender
	Renderer    *Renderer
	From        string
	To          []string
	SendTimeout time.Duration
	Alerter     Alerter
	Now         func() time.Time
}

// Handler is the lead submission endpoint.
type Handler struct {
	opts Options
}

func NewHandler(opts Options) *Handler {
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = 10 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Handler{opts: opts}
}

// Register mounts the endpoint for POST and the CORS preflight.
func (h *Handler) Register(r gin.IRoutes, path string) {
	r.POST(path, h.Submit)
	r.OPTIONS(path, h.Submit)
}

// Submission is one call into the pipeline.
type Submission struct {
	ID       string
	ClientID string
	Route    string
	Body     []byte
}

// Submit is the gin entry point.
func (h *Handler) Submit(c *gin.Context) {
	if c.Request.Method == http.MethodOptions {
		c.String(http.StatusOK, "ok")
		return
	}

	id := uuid.NewString()
	c.Header("X-Request-ID", id)

	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[%s] panic while handling submission: %v", id, rec)
			h.respond(c, ErrInternal)
		}
	}()

	sub := Submission{
		ID:       id,
		ClientID: ratelimit.ClientKey(c.Request),
		Route:    c.Request.Method + " " + c.FullPath(),
	}

	// an unreadable or oversized body is left empty and rejected as malformed
	if body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)); err == nil {
		sub.Body = body
	}

	h.respond(c, h.Process(c.Request.Context(), sub))
}

func (h *Handler) respond(c *gin.Context, err error) {
	status, msg := Classify(err)

	var rlErr *RateLimitError
	if errors.As(err, &rlErr) && rlErr.RetryAfter > 0 {
		c.Header("Retry-After", strconv.Itoa(int(rlErr.RetryAfter.Seconds())))
	}

	c.JSON(status, Response{Success: err == nil, Error: msg})
}

// Process runs one submission through rate limiting, validation, rendering and
// delivery. It returns nil once the provider accepted the message.
func (h *Handler) Process(ctx context.Context, sub Submission) error {
	dec := h.opts.Limiter.CheckAndIncrement(sub.ClientID)
	h.recordDecision(ctx, sub, dec.Allowed)
	if !dec.Allowed {
		log.Printf("[%s] rate limited client=%s attempt=%d", sub.ID, sub.ClientID, dec.Count)
		return &RateLimitError{RetryAfter: dec.RetryAfter(h.opts.Now())}
	}

	raw, err := Parse(sub.Body)
	if err != nil {
		log.Printf("[%s] malformed payload from client=%s", sub.ID, sub.ClientID)
		return err
	}

	l, err := Validate(raw)
	if err != nil {
		log.Printf("[%s] validation failed: %v", sub.ID, err)
		return err
	}

	html, err := h.opts.Renderer.HTML(l)
	if err != nil {
		log.Printf("[%s] %v", sub.ID, err)
		return fmt.Errorf("%w: %w", ErrInternal, err)
	}

	sendCtx, cancel := context.WithTimeout(ctx, h.opts.SendTimeout)
	defer cancel()

	msg := mail.Message{
		From:    h.opts.From,
		To:      h.opts.To,
		Subject: Subject(l),
		HTML:    html,
	}
	if err := h.opts.Sender.Send(sendCtx, msg); err != nil {
		log.Printf("[%s] email delivery failed: %v", sub.ID, err)
		return fmt.Errorf("%w: %w", ErrProviderDeliveryFailed, err)
	}

	log.Printf("[%s] lead delivered source=%q phone=%s", sub.ID, l.Source, sms.MaskPhone(l.PhoneHref()))
	if h.opts.Alerter != nil {
		h.opts.Alerter.LeadDelivered(l)
	}
	return nil
}

func (h *Handler) recordDecision(ctx context.Context, sub Submission, allowed bool) {
	if h.opts.Stats == nil {
		return
	}
	ev := ratelimit.StatsEvent{Key: sub.ClientID, Allowed: allowed, Route: sub.Route, At: h.opts.Now()}
	if err := h.opts.Stats.Record(ctx, ev); err != nil {
		log.Printf("[%s] rate stats: %v", sub.ID, err)
	}
}
