// Package dispatch delivers decided notifications to the push platform,
// single-target or multicast, and turns delivery results into outcomes.
package dispatch

import (
	"context"

	"github.com/go-push-reactor/internal/domain"
	"github.com/rs/zerolog"
)

// Sender is the push-delivery backend. Implemented by the FCM and SNS
// infrastructure packages.
type Sender interface {
	Send(ctx context.Context, token string, msg domain.PushMessage) error
	SendEach(ctx context.Context, tokens []string, msg domain.PushMessage) (domain.BatchResult, error)
}

// Dispatcher performs best-effort, at-most-once delivery. Nothing here
// retries: the triggering mutation has already committed and there is no
// compensating action, so failures are logged and absorbed.
type Dispatcher struct {
	sender Sender
	log    zerolog.Logger
}

func NewDispatcher(sender Sender, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{sender: sender, log: log}
}

// Deliver sends the message to all of its targets. Single-target messages use
// one send call; multi-target messages use one batched multicast call and log
// the per-target success count. Partial multicast failure is a normal
// outcome, not an error.
func (d *Dispatcher) Deliver(ctx context.Context, msg domain.PushMessage) domain.Outcome {
	switch len(msg.Tokens) {
	case 0:
		return domain.OutcomeNoop
	case 1:
		if err := d.sender.Send(ctx, msg.Tokens[0], msg); err != nil {
			d.log.Error().Str("title", msg.Title).Err(err).Msg("push delivery failed")
			return domain.OutcomeDeliveryFailed
		}
		return domain.OutcomeDispatched
	default:
		res, err := d.sender.SendEach(ctx, msg.Tokens, msg)
		if err != nil {
			d.log.Error().Str("title", msg.Title).Err(err).Msg("multicast delivery failed")
			return domain.OutcomeDeliveryFailed
		}
		d.log.Info().
			Str("title", msg.Title).
			Int("success", res.Success).
			Int("attempted", len(msg.Tokens)).
			Msgf("multicast delivered to %d of %d recipients", res.Success, len(msg.Tokens))
		if res.Failure > 0 {
			return domain.OutcomePartialFailure
		}
		return domain.OutcomeDispatched
	}
}
