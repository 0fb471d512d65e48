// Package order reacts to order document mutations: a status change notifies
// the employee who placed the order, a new order notifies every company
// admin.
package order

import (
	"context"
	"errors"

	"github.com/go-push-reactor/internal/domain"
	"github.com/rs/zerolog"
)

// employeeNameFallback is interpolated into the admin broadcast when the
// order document carries no employee name.
const employeeNameFallback = "An employee"

type Service interface {
	HandleStatusChange(ctx context.Context, ev domain.ChangeEvent) (domain.Outcome, error)
	HandleCreated(ctx context.Context, ev domain.ChangeEvent) (domain.Outcome, error)
}

type tokenResolver interface {
	Token(ctx context.Context, userID string) (string, error)
	Tokens(ctx context.Context, userIDs []string) []string
}

type companyStore interface {
	Get(ctx context.Context, companyID string) (*domain.Company, error)
}

type pusher interface {
	Deliver(ctx context.Context, msg domain.PushMessage) domain.Outcome
}

type service struct {
	companies companyStore
	resolver  tokenResolver
	push      pusher
	log       zerolog.Logger
}

func NewService(companies companyStore, resolver tokenResolver, push pusher, log zerolog.Logger) Service {
	return &service{companies: companies, resolver: resolver, push: push, log: log}
}

// HandleStatusChange notifies the employee when their order is approved or
// rejected. Any other status transition, including ones introduced later, is
// silently ignored.
func (s *service) HandleStatusChange(ctx context.Context, ev domain.ChangeEvent) (domain.Outcome, error) {
	before, err := domain.DecodeOrderSnapshot(ev.Before)
	if err != nil {
		return domain.OutcomeNoop, err
	}
	after, err := domain.DecodeOrderSnapshot(ev.After)
	if err != nil {
		return domain.OutcomeNoop, err
	}

	msg := decideStatusChange(before, after)
	if msg == nil {
		s.log.Debug().Str("order_id", ev.ID).Msg("order status change requires no notification")
		return domain.OutcomeNoop, nil
	}

	token, err := s.resolver.Token(ctx, *after.EmployeeID)
	if err != nil {
		s.log.Error().Str("order_id", ev.ID).Str("employee_id", *after.EmployeeID).Err(err).
			Msg("could not resolve employee token")
		return domain.OutcomeNoop, nil
	}
	if token == "" {
		s.log.Info().Str("order_id", ev.ID).Str("employee_id", *after.EmployeeID).
			Msg("employee has no registered device")
		return domain.OutcomeNoop, nil
	}

	msg.Tokens = []string{token}
	outcome := s.push.Deliver(ctx, *msg)
	if outcome == domain.OutcomeDispatched {
		s.log.Info().Str("order_id", ev.ID).Str("status", after.Status).
			Str("employee_id", *after.EmployeeID).Msg("order status notification sent")
	}
	return outcome, nil
}

// HandleCreated broadcasts one notification to every company admin with a
// registered device when a new order arrives.
func (s *service) HandleCreated(ctx context.Context, ev domain.ChangeEvent) (domain.Outcome, error) {
	after, err := domain.DecodeOrderSnapshot(ev.After)
	if err != nil {
		return domain.OutcomeNoop, err
	}
	if after == nil {
		return domain.OutcomeNoop, nil
	}

	company, err := s.companies.Get(ctx, ev.CompanyID)
	if errors.Is(err, domain.ErrNotFound) {
		s.log.Info().Str("company_id", ev.CompanyID).Msg("company not found, skipping admin broadcast")
		return domain.OutcomeNoop, nil
	}
	if err != nil {
		s.log.Error().Str("company_id", ev.CompanyID).Err(err).Msg("could not load company")
		return domain.OutcomeNoop, nil
	}
	if len(company.Admins) == 0 {
		s.log.Info().Str("company_id", ev.CompanyID).Msg("company has no admins")
		return domain.OutcomeNoop, nil
	}

	tokens := s.resolver.Tokens(ctx, company.Admins)
	if len(tokens) == 0 {
		s.log.Info().Str("company_id", ev.CompanyID).Msg("no admin has a registered device")
		return domain.OutcomeNoop, nil
	}

	name := employeeNameFallback
	if after.EmployeeName != nil && *after.EmployeeName != "" {
		name = *after.EmployeeName
	}

	msg := newOrderMessage(name)
	msg.Tokens = tokens
	return s.push.Deliver(ctx, msg), nil
}

// decideStatusChange maps an order update to a notification payload, or nil
// when no notification is warranted. Pure; the target token is resolved by
// the caller. Approve/reject notifications carry elevated delivery priority.
func decideStatusChange(before, after *domain.OrderSnapshot) *domain.PushMessage {
	if before == nil || after == nil {
		return nil
	}
	if before.Status == after.Status {
		return nil
	}
	if after.EmployeeID == nil || *after.EmployeeID == "" {
		return nil
	}

	var title, body string
	switch after.Status {
	case domain.OrderStatusApproved:
		title = "Order approved!"
		body = "Your order has been approved."
	case domain.OrderStatusRejected:
		title = "Order rejected"
		body = "Your order has been rejected."
	default:
		return nil
	}

	return &domain.PushMessage{
		Title:    title,
		Body:     body,
		Priority: domain.PriorityHigh,
	}
}

func newOrderMessage(employeeName string) domain.PushMessage {
	return domain.PushMessage{
		Title:    "New order pending approval",
		Body:     employeeName + " has submitted a new order.",
		Priority: domain.PriorityNormal,
	}
}
