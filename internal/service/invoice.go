package service

import (
	"context"
	"fmt"
	"time"

	"expoevents-backend/internal/apperror"
	"expoevents-backend/internal/domain"
	"expoevents-backend/internal/repository"
)

type invoiceService struct {
	invoiceRepo repository.InvoiceRepository
	now         func() time.Time
}

func NewInvoiceService(invoiceRepo repository.InvoiceRepository) InvoiceService {
	return &invoiceService{invoiceRepo: invoiceRepo, now: time.Now}
}

// invoiceNumber derives the number from the creation instant. Millisecond
// resolution keeps numbers unique in practice for a single billing desk.
func invoiceNumber(at time.Time) string {
	return fmt.Sprintf("INV-%d", at.UnixMilli())
}

func (s *invoiceService) Create(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error) {
	inv.InvoiceNumber = invoiceNumber(s.now())
	if inv.Currency == "" {
		inv.Currency = "INR"
	}
	if inv.Status == "" {
		inv.Status = domain.InvoiceStatusPending
	}
	if inv.Items == nil {
		inv.Items = domain.JSONList{}
	}

	if err := s.invoiceRepo.Create(ctx, inv); err != nil {
		return nil, apperror.Wrap(apperror.CodeSystem, "Failed to create invoice.", err)
	}
	return inv, nil
}

func (s *invoiceService) List(ctx context.Context) ([]domain.Invoice, error) {
	invoices, err := s.invoiceRepo.List(ctx)
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeSystem, "Failed to list invoices.", err)
	}
	return invoices, nil
}
