package order

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/go-push-reactor/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockCompanyStore struct{ mock.Mock }

func (m *mockCompanyStore) Get(ctx context.Context, companyID string) (*domain.Company, error) {
	args := m.Called(ctx, companyID)
	if c, _ := args.Get(0).(*domain.Company); c != nil {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockResolver struct{ mock.Mock }

func (m *mockResolver) Token(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *mockResolver) Tokens(ctx context.Context, userIDs []string) []string {
	return m.Called(ctx, userIDs).Get(0).([]string)
}

type mockPusher struct{ mock.Mock }

func (m *mockPusher) Deliver(ctx context.Context, msg domain.PushMessage) domain.Outcome {
	return m.Called(ctx, msg).Get(0).(domain.Outcome)
}

// --- helpers ---

func orderEvent(t *testing.T, kind domain.EventKind, before, after map[string]any) domain.ChangeEvent {
	t.Helper()
	ev := domain.ChangeEvent{
		Source:    domain.SourceOrders,
		Kind:      kind,
		ID:        "o1",
		CompanyID: "c1",
	}
	if before != nil {
		b, err := json.Marshal(before)
		require.NoError(t, err)
		ev.Before = b
	}
	if after != nil {
		a, err := json.Marshal(after)
		require.NoError(t, err)
		ev.After = a
	}
	return ev
}

func newTestService(cs *mockCompanyStore, r *mockResolver, p *mockPusher) Service {
	return NewService(cs, r, p, zerolog.Nop())
}

// --- status change tests ---

func TestHandleStatusChange_UnchangedStatusIsNoop(t *testing.T) {
	p := &mockPusher{}
	svc := newTestService(&mockCompanyStore{}, &mockResolver{}, p)

	ev := orderEvent(t, domain.EventUpdate,
		map[string]any{"status": "pending", "employeeId": "e1"},
		map[string]any{"status": "pending", "employeeId": "e1"},
	)
	outcome, err := svc.HandleStatusChange(context.Background(), ev)

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeNoop, outcome)
	p.AssertExpectations(t)
}

func TestHandleStatusChange_UnrecognizedStatusIsSilentlyIgnored(t *testing.T) {
	p := &mockPusher{}
	svc := newTestService(&mockCompanyStore{}, &mockResolver{}, p)

	for _, status := range []string{"pending", "on_hold", "archived"} {
		ev := orderEvent(t, domain.EventUpdate,
			map[string]any{"status": "approved", "employeeId": "e1"},
			map[string]any{"status": status, "employeeId": "e1"},
		)
		outcome, err := svc.HandleStatusChange(context.Background(), ev)

		require.NoError(t, err)
		assert.Equal(t, domain.OutcomeNoop, outcome, "status %q must be ignored", status)
	}
	p.AssertExpectations(t)
}

func TestHandleStatusChange_ApprovedNotifiesEmployeeAtHighPriority(t *testing.T) {
	r := &mockResolver{}
	r.On("Token", mock.Anything, "e1").Return("tok-e1", nil)
	p := &mockPusher{}
	p.On("Deliver", mock.Anything, domain.PushMessage{
		Tokens:   []string{"tok-e1"},
		Title:    "Order approved!",
		Body:     "Your order has been approved.",
		Priority: domain.PriorityHigh,
	}).Return(domain.OutcomeDispatched)
	svc := newTestService(&mockCompanyStore{}, r, p)

	ev := orderEvent(t, domain.EventUpdate,
		map[string]any{"status": "pending", "employeeId": "e1"},
		map[string]any{"status": "approved", "employeeId": "e1"},
	)
	outcome, err := svc.HandleStatusChange(context.Background(), ev)

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeDispatched, outcome)
	p.AssertExpectations(t)
}

func TestHandleStatusChange_RejectedTitle(t *testing.T) {
	r := &mockResolver{}
	r.On("Token", mock.Anything, "e1").Return("tok-e1", nil)
	p := &mockPusher{}
	p.On("Deliver", mock.Anything, mock.MatchedBy(func(msg domain.PushMessage) bool {
		return msg.Title == "Order rejected" && msg.Priority == domain.PriorityHigh
	})).Return(domain.OutcomeDispatched)
	svc := newTestService(&mockCompanyStore{}, r, p)

	ev := orderEvent(t, domain.EventUpdate,
		map[string]any{"status": "pending", "employeeId": "e1"},
		map[string]any{"status": "rejected", "employeeId": "e1"},
	)
	outcome, err := svc.HandleStatusChange(context.Background(), ev)

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeDispatched, outcome)
}

func TestHandleStatusChange_MissingEmployeeIDIsNoop(t *testing.T) {
	svc := newTestService(&mockCompanyStore{}, &mockResolver{}, &mockPusher{})

	ev := orderEvent(t, domain.EventUpdate,
		map[string]any{"status": "pending"},
		map[string]any{"status": "approved"},
	)
	outcome, err := svc.HandleStatusChange(context.Background(), ev)

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeNoop, outcome)
}

func TestHandleStatusChange_EmployeeWithoutTokenIsNoop(t *testing.T) {
	r := &mockResolver{}
	r.On("Token", mock.Anything, "e1").Return("", nil)
	svc := newTestService(&mockCompanyStore{}, r, &mockPusher{})

	ev := orderEvent(t, domain.EventUpdate,
		map[string]any{"status": "pending", "employeeId": "e1"},
		map[string]any{"status": "approved", "employeeId": "e1"},
	)
	outcome, err := svc.HandleStatusChange(context.Background(), ev)

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeNoop, outcome)
}

func TestHandleStatusChange_ResolverFailureDoesNotPropagate(t *testing.T) {
	r := &mockResolver{}
	r.On("Token", mock.Anything, "e1").Return("", errors.New("dynamo down"))
	svc := newTestService(&mockCompanyStore{}, r, &mockPusher{})

	ev := orderEvent(t, domain.EventUpdate,
		map[string]any{"status": "pending", "employeeId": "e1"},
		map[string]any{"status": "approved", "employeeId": "e1"},
	)
	outcome, err := svc.HandleStatusChange(context.Background(), ev)

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeNoop, outcome)
}

// --- new order tests ---

func TestHandleCreated_BroadcastsToResolvedAdminTokens(t *testing.T) {
	cs := &mockCompanyStore{}
	cs.On("Get", mock.Anything, "c1").Return(&domain.Company{
		CompanyID: "c1",
		Admins:    []string{"a", "b", "c"},
	}, nil)
	r := &mockResolver{}
	r.On("Tokens", mock.Anything, []string{"a", "b", "c"}).Return([]string{"tok-a", "tok-c"})
	p := &mockPusher{}
	p.On("Deliver", mock.Anything, domain.PushMessage{
		Tokens:   []string{"tok-a", "tok-c"},
		Title:    "New order pending approval",
		Body:     "Grace has submitted a new order.",
		Priority: domain.PriorityNormal,
	}).Return(domain.OutcomeDispatched)
	svc := newTestService(cs, r, p)

	ev := orderEvent(t, domain.EventCreate, nil,
		map[string]any{"status": "pending", "employeeId": "e1", "employeeName": "Grace"},
	)
	outcome, err := svc.HandleCreated(context.Background(), ev)

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeDispatched, outcome)
	p.AssertExpectations(t)
}

func TestHandleCreated_MissingEmployeeNameUsesFallback(t *testing.T) {
	cs := &mockCompanyStore{}
	cs.On("Get", mock.Anything, "c1").Return(&domain.Company{CompanyID: "c1", Admins: []string{"a"}}, nil)
	r := &mockResolver{}
	r.On("Tokens", mock.Anything, []string{"a"}).Return([]string{"tok-a"})
	p := &mockPusher{}
	p.On("Deliver", mock.Anything, mock.MatchedBy(func(msg domain.PushMessage) bool {
		return msg.Body == "An employee has submitted a new order."
	})).Return(domain.OutcomeDispatched)
	svc := newTestService(cs, r, p)

	ev := orderEvent(t, domain.EventCreate, nil, map[string]any{"status": "pending"})
	outcome, err := svc.HandleCreated(context.Background(), ev)

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeDispatched, outcome)
	p.AssertExpectations(t)
}

func TestHandleCreated_NoAdminsIsNoop(t *testing.T) {
	cs := &mockCompanyStore{}
	cs.On("Get", mock.Anything, "c1").Return(&domain.Company{CompanyID: "c1"}, nil)
	svc := newTestService(cs, &mockResolver{}, &mockPusher{})

	ev := orderEvent(t, domain.EventCreate, nil, map[string]any{"status": "pending"})
	outcome, err := svc.HandleCreated(context.Background(), ev)

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeNoop, outcome)
}

func TestHandleCreated_CompanyNotFoundIsNoop(t *testing.T) {
	cs := &mockCompanyStore{}
	cs.On("Get", mock.Anything, "c1").Return(nil, domain.ErrNotFound)
	svc := newTestService(cs, &mockResolver{}, &mockPusher{})

	ev := orderEvent(t, domain.EventCreate, nil, map[string]any{"status": "pending"})
	outcome, err := svc.HandleCreated(context.Background(), ev)

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeNoop, outcome)
}

func TestHandleCreated_NoAdminTokensIsNoop(t *testing.T) {
	cs := &mockCompanyStore{}
	cs.On("Get", mock.Anything, "c1").Return(&domain.Company{CompanyID: "c1", Admins: []string{"a", "b"}}, nil)
	r := &mockResolver{}
	r.On("Tokens", mock.Anything, []string{"a", "b"}).Return([]string{})
	svc := newTestService(cs, r, &mockPusher{})

	ev := orderEvent(t, domain.EventCreate, nil, map[string]any{"status": "pending"})
	outcome, err := svc.HandleCreated(context.Background(), ev)

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeNoop, outcome)
}

func TestHandleCreated_PartialMulticastFailureDoesNotPropagate(t *testing.T) {
	cs := &mockCompanyStore{}
	cs.On("Get", mock.Anything, "c1").Return(&domain.Company{CompanyID: "c1", Admins: []string{"a", "b", "c"}}, nil)
	r := &mockResolver{}
	r.On("Tokens", mock.Anything, []string{"a", "b", "c"}).Return([]string{"tok-a", "tok-b", "tok-c"})
	p := &mockPusher{}
	p.On("Deliver", mock.Anything, mock.Anything).Return(domain.OutcomePartialFailure)
	svc := newTestService(cs, r, p)

	ev := orderEvent(t, domain.EventCreate, nil, map[string]any{"status": "pending", "employeeName": "Grace"})
	outcome, err := svc.HandleCreated(context.Background(), ev)

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomePartialFailure, outcome)
}
