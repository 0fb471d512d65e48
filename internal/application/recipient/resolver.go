// Package recipient translates user ids into device push tokens.
package recipient

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/go-push-reactor/internal/domain"
	"github.com/rs/zerolog"
)

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

// Resolver looks up device tokens for users. A user without a registered
// device is a legitimate steady state, so "no token" is never an error.
type Resolver struct {
	users userStore
	log   zerolog.Logger
}

func NewResolver(users userStore, log zerolog.Logger) *Resolver {
	return &Resolver{users: users, log: log}
}

// Token returns the user's push token, or "" when the user does not exist or
// has no token registered. Only infrastructure failures return an error.
func (r *Resolver) Token(ctx context.Context, userID string) (string, error) {
	u, err := r.users.Get(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if u.FCMToken == nil || *u.FCMToken == "" {
		return "", nil
	}
	return *u.FCMToken, nil
}

// Tokens resolves every id concurrently and returns the deduplicated set of
// found tokens, sorted for deterministic fan-out. A missing user, missing
// token, or lookup failure for any individual id never aborts the others;
// failures are logged and absorbed.
func (r *Resolver) Tokens(ctx context.Context, userIDs []string) []string {
	results := make([]string, len(userIDs))
	var wg sync.WaitGroup
	for i, userID := range userIDs {
		wg.Add(1)
		go func(i int, userID string) {
			defer wg.Done()
			token, err := r.Token(ctx, userID)
			if err != nil {
				r.log.Warn().Str("user_id", userID).Err(err).Msg("token lookup failed, skipping recipient")
				return
			}
			results[i] = token
		}(i, userID)
	}
	wg.Wait()

	seen := make(map[string]struct{}, len(results))
	tokens := make([]string, 0, len(results))
	for _, token := range results {
		if token == "" {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	return tokens
}
