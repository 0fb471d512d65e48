package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/go-push-reactor/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// --- mocks ---

type mockSender struct{ mock.Mock }

func (m *mockSender) Send(ctx context.Context, token string, msg domain.PushMessage) error {
	return m.Called(ctx, token, msg).Error(0)
}

func (m *mockSender) SendEach(ctx context.Context, tokens []string, msg domain.PushMessage) (domain.BatchResult, error) {
	args := m.Called(ctx, tokens, msg)
	return args.Get(0).(domain.BatchResult), args.Error(1)
}

// --- tests ---

func TestDeliver_NoTargetsIsNoop(t *testing.T) {
	s := &mockSender{}
	d := NewDispatcher(s, zerolog.Nop())

	outcome := d.Deliver(context.Background(), domain.PushMessage{Title: "t"})

	assert.Equal(t, domain.OutcomeNoop, outcome)
	s.AssertExpectations(t)
}

func TestDeliver_SingleTarget(t *testing.T) {
	msg := domain.PushMessage{Tokens: []string{"tok-1"}, Title: "t", Body: "b"}
	s := &mockSender{}
	s.On("Send", mock.Anything, "tok-1", msg).Return(nil)

	outcome := NewDispatcher(s, zerolog.Nop()).Deliver(context.Background(), msg)

	assert.Equal(t, domain.OutcomeDispatched, outcome)
	s.AssertExpectations(t)
}

func TestDeliver_SingleTargetFailureIsAbsorbed(t *testing.T) {
	msg := domain.PushMessage{Tokens: []string{"tok-1"}, Title: "t"}
	s := &mockSender{}
	s.On("Send", mock.Anything, "tok-1", msg).Return(errors.New("unregistered token"))

	outcome := NewDispatcher(s, zerolog.Nop()).Deliver(context.Background(), msg)

	assert.Equal(t, domain.OutcomeDeliveryFailed, outcome)
}

func TestDeliver_MulticastAllSucceed(t *testing.T) {
	msg := domain.PushMessage{Tokens: []string{"a", "b", "c"}, Title: "t"}
	s := &mockSender{}
	s.On("SendEach", mock.Anything, msg.Tokens, msg).Return(domain.BatchResult{Success: 3}, nil)

	outcome := NewDispatcher(s, zerolog.Nop()).Deliver(context.Background(), msg)

	assert.Equal(t, domain.OutcomeDispatched, outcome)
}

func TestDeliver_MulticastPartialFailureIsNotAnError(t *testing.T) {
	msg := domain.PushMessage{Tokens: []string{"a", "b", "c"}, Title: "t"}
	s := &mockSender{}
	s.On("SendEach", mock.Anything, msg.Tokens, msg).Return(domain.BatchResult{Success: 2, Failure: 1}, nil)

	outcome := NewDispatcher(s, zerolog.Nop()).Deliver(context.Background(), msg)

	assert.Equal(t, domain.OutcomePartialFailure, outcome)
}

func TestDeliver_MulticastTransportFailure(t *testing.T) {
	msg := domain.PushMessage{Tokens: []string{"a", "b"}, Title: "t"}
	s := &mockSender{}
	s.On("SendEach", mock.Anything, msg.Tokens, msg).Return(domain.BatchResult{}, errors.New("service unavailable"))

	outcome := NewDispatcher(s, zerolog.Nop()).Deliver(context.Background(), msg)

	assert.Equal(t, domain.OutcomeDeliveryFailed, outcome)
}
