// Package cleanup restores referential integrity the store does not enforce
// natively: when a supplier is deleted, every product still referencing it is
// removed in one atomic batch.
package cleanup

import (
	"context"
	"fmt"

	"github.com/go-push-reactor/internal/domain"
	"github.com/rs/zerolog"
)

type Service interface {
	HandleSupplierDeleted(ctx context.Context, ev domain.ChangeEvent) (domain.Outcome, error)
}

type productStore interface {
	ListBySupplier(ctx context.Context, companyID, supplierID string) ([]domain.Product, error)
	DeleteAll(ctx context.Context, products []domain.Product) error
}

type service struct {
	products productStore
	log      zerolog.Logger
}

func NewService(products productStore, log zerolog.Logger) Service {
	return &service{products: products, log: log}
}

// HandleSupplierDeleted removes every product of the company that references
// the deleted supplier. Unlike the notification handlers, a failure here is
// propagated: leaving orphaned products behind silently would violate the
// store's integrity expectation, so the host must be able to retry.
// Idempotent — a re-run after a completed cleanup finds nothing to delete.
func (s *service) HandleSupplierDeleted(ctx context.Context, ev domain.ChangeEvent) (domain.Outcome, error) {
	supplierID := ev.ID
	s.log.Info().Str("supplier_id", supplierID).Str("company_id", ev.CompanyID).
		Msg("supplier deleted, starting product cleanup")

	products, err := s.products.ListBySupplier(ctx, ev.CompanyID, supplierID)
	if err != nil {
		return domain.OutcomeNoop, fmt.Errorf("list products of supplier %s: %w", supplierID, err)
	}
	if len(products) == 0 {
		s.log.Info().Str("supplier_id", supplierID).Msg("no products reference the supplier, cleanup done")
		return domain.OutcomeNoop, nil
	}

	if err := s.products.DeleteAll(ctx, products); err != nil {
		return domain.OutcomeNoop, fmt.Errorf("cascade delete for supplier %s: %w", supplierID, err)
	}

	s.log.Info().Str("supplier_id", supplierID).Int("deleted", len(products)).
		Msg("cleanup done, removed all products of the supplier")
	return domain.OutcomeCleaned, nil
}
