package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

type breakerSender struct {
	next Sender
	cb   *gobreaker.CircuitBreaker
}

// WithBreaker stops calling next for timeout once it has failed failures times in a row.
// While open, Send fails fast with gobreaker.ErrOpenState.
func WithBreaker(next Sender, name string, failures uint32, timeout time.Duration, log *slog.Logger) Sender {
	if failures == 0 {
		failures = 1
	}
	return &breakerSender{
		next: next,
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        name,
			MaxRequests: 1,
			Timeout:     timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= failures
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				log.Warn("mail circuit breaker changed state", "breaker", name, "from", from.String(), "to", to.String())
			},
		}),
	}
}

func (b *breakerSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.next.Send(ctx, to, subject, htmlBody)
	})
	return err
}
