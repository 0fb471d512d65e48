// Package fcm delivers push notifications through Firebase Cloud Messaging.
package fcm

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/go-push-reactor/internal/config"
	"github.com/go-push-reactor/internal/domain"
	"google.golang.org/api/option"
)

// Sender sends push messages via the FCM admin API.
type Sender struct {
	client *messaging.Client
}

// NewSender initialises the Firebase app and its messaging client. Without an
// explicit credentials file it falls back to application default credentials.
func NewSender(ctx context.Context, cfg *config.Config) (*Sender, error) {
	var opts []option.ClientOption
	if cfg.FCMCredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.FCMCredentialsFile))
	}
	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("init fcm client: %w", err)
	}
	return &Sender{client: client}, nil
}

func (s *Sender) Send(ctx context.Context, token string, msg domain.PushMessage) error {
	m := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
	}
	if msg.Priority == domain.PriorityHigh {
		m.Android = &messaging.AndroidConfig{Priority: "high"}
		m.APNS = &messaging.APNSConfig{
			Headers: map[string]string{"apns-priority": "10"},
		}
	}
	_, err := s.client.Send(ctx, m)
	return err
}

// SendEach delivers one payload to a set of tokens in a single batched call
// and reports the per-target breakdown.
func (s *Sender) SendEach(ctx context.Context, tokens []string, msg domain.PushMessage) (domain.BatchResult, error) {
	mm := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
	}
	if msg.Priority == domain.PriorityHigh {
		mm.Android = &messaging.AndroidConfig{Priority: "high"}
		mm.APNS = &messaging.APNSConfig{
			Headers: map[string]string{"apns-priority": "10"},
		}
	}
	resp, err := s.client.SendEachForMulticast(ctx, mm)
	if err != nil {
		return domain.BatchResult{}, err
	}
	return domain.BatchResult{Success: resp.SuccessCount, Failure: resp.FailureCount}, nil
}
