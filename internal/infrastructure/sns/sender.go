// Package sns delivers push notifications through AWS SNS platform endpoints.
// Device "tokens" on this path are SNS endpoint ARNs. SNS has no batched
// multicast publish, so SendEach fans out concurrently and counts per-target
// results itself.
package sns

import (
	"context"
	"sync"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/go-push-reactor/internal/config"
	"github.com/go-push-reactor/internal/domain"
	"github.com/rs/zerolog"
)

type Sender struct {
	client *sns.Client
	log    zerolog.Logger
}

func NewSender(cfg *config.Config, log zerolog.Logger) (*Sender, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.SNSRegion),
	)
	if err != nil {
		return nil, err
	}
	return &Sender{client: sns.NewFromConfig(awsCfg), log: log}, nil
}

func (s *Sender) Send(ctx context.Context, token string, msg domain.PushMessage) error {
	payload, err := buildPayload(msg)
	if err != nil {
		return err
	}
	structure := "json"
	_, err = s.client.Publish(ctx, &sns.PublishInput{
		TargetArn:        &token,
		Message:          &payload,
		MessageStructure: &structure,
	})
	return err
}

func (s *Sender) SendEach(ctx context.Context, tokens []string, msg domain.PushMessage) (domain.BatchResult, error) {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for _, token := range tokens {
		wg.Add(1)
		go func(token string) {
			defer wg.Done()
			if err := s.Send(ctx, token, msg); err != nil {
				s.log.Warn().Str("target_arn", token).Err(err).Msg("sns publish failed")
				return
			}
			mu.Lock()
			success++
			mu.Unlock()
		}(token)
	}
	wg.Wait()
	return domain.BatchResult{Success: success, Failure: len(tokens) - success}, nil
}
