// Package account reacts to user document updates: when a user's active flag
// flips, the user's own device is notified.
package account

import (
	"context"

	"github.com/go-push-reactor/internal/domain"
	"github.com/rs/zerolog"
)

type Service interface {
	HandleUserChange(ctx context.Context, ev domain.ChangeEvent) (domain.Outcome, error)
}

type pusher interface {
	Deliver(ctx context.Context, msg domain.PushMessage) domain.Outcome
}

type service struct {
	push pusher
	log  zerolog.Logger
}

func NewService(push pusher, log zerolog.Logger) Service {
	return &service{push: push, log: log}
}

func (s *service) HandleUserChange(ctx context.Context, ev domain.ChangeEvent) (domain.Outcome, error) {
	before, err := domain.DecodeUserSnapshot(ev.Before)
	if err != nil {
		return domain.OutcomeNoop, err
	}
	after, err := domain.DecodeUserSnapshot(ev.After)
	if err != nil {
		return domain.OutcomeNoop, err
	}

	msg := decideActivation(before, after)
	if msg == nil {
		s.log.Debug().Str("user_id", ev.ID).Msg("user change requires no notification")
		return domain.OutcomeNoop, nil
	}

	outcome := s.push.Deliver(ctx, *msg)
	if outcome == domain.OutcomeDispatched {
		s.log.Info().Str("user_id", ev.ID).Msg("account status notification sent")
	}
	return outcome, nil
}

// decideActivation maps a user update to a notification payload, or nil when
// no notification is warranted. Pure; target token comes from the after
// snapshot.
func decideActivation(before, after *domain.UserSnapshot) *domain.PushMessage {
	if before == nil || after == nil {
		return nil
	}
	if before.IsActive == after.IsActive {
		return nil
	}
	if after.FCMToken == nil || *after.FCMToken == "" {
		return nil
	}

	body := "Your account has been deactivated."
	if after.IsActive {
		body = "Your account has been activated!"
	}
	return &domain.PushMessage{
		Tokens:   []string{*after.FCMToken},
		Title:    "Account update",
		Body:     body,
		Priority: domain.PriorityNormal,
	}
}
