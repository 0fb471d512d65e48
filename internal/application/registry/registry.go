// Package registry maps (event source, event kind) pairs to reaction
// handlers. It replaces the hosting runtime's implicit trigger wiring with an
// explicit table that every event source dispatches through.
package registry

import (
	"context"

	"github.com/go-push-reactor/internal/domain"
	"github.com/rs/zerolog"
)

// Handler reacts to a single change event. It returns an Outcome for
// observability; a non-nil error means the invocation must be surfaced to the
// host for retry (cascade-cleanup commit failure is the only such case).
type Handler func(ctx context.Context, ev domain.ChangeEvent) (domain.Outcome, error)

type binding struct {
	source string
	kind   domain.EventKind
}

// Registry is the dispatch table. Bind all handlers during startup; Dispatch
// is safe for concurrent use once binding is done.
type Registry struct {
	handlers map[binding]Handler
	log      zerolog.Logger
}

func New(log zerolog.Logger) *Registry {
	return &Registry{
		handlers: make(map[binding]Handler),
		log:      log,
	}
}

// Bind registers a handler for the given source and kind, replacing any
// previous binding.
func (r *Registry) Bind(source string, kind domain.EventKind, h Handler) {
	r.handlers[binding{source: source, kind: kind}] = h
}

// Dispatch routes the event to its bound handler. Events with no binding are
// ignored as no-ops.
func (r *Registry) Dispatch(ctx context.Context, ev domain.ChangeEvent) (domain.Outcome, error) {
	h, ok := r.handlers[binding{source: ev.Source, kind: ev.Kind}]
	if !ok {
		r.log.Debug().Str("source", ev.Source).Str("kind", string(ev.Kind)).Msg("no handler bound for event")
		return domain.OutcomeNoop, nil
	}
	return h(ctx, ev)
}
