package mail

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// ThrottledSender caps the rate of provider calls across all requests.
type ThrottledSender struct {
	next    Sender
	limiter *rate.Limiter
}

func NewThrottledSender(next Sender, r rate.Limit, burst int) *ThrottledSender {
	return &ThrottledSender{next: next, limiter: rate.NewLimiter(r, burst)}
}

// Send waits for a token, bounded by ctx, then delegates.
func (s *ThrottledSender) Send(ctx context.Context, msg Message) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("mail throttle: %w", err)
	}
	return s.next.Send(ctx, msg)
}
