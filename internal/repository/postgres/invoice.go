package postgres

import (
	"context"
	"database/sql"

	"expoevents-backend/internal/domain"
	"expoevents-backend/internal/repository"
)

type invoiceRepository struct {
	db     *sql.DB
	schema repository.SchemaRepository
}

func NewInvoiceRepository(db *sql.DB, schema repository.SchemaRepository) repository.InvoiceRepository {
	return &invoiceRepository{db: db, schema: schema}
}

func (r *invoiceRepository) Create(ctx context.Context, inv *domain.Invoice) error {
	query := `INSERT INTO invoices (invoice_number, organization_id, billing_email, billing_address, tax_id,
	              plan_type, amount, currency, due_date, payment_method, items, notes, terms_accepted, status, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW())
	          RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, query,
		inv.InvoiceNumber, inv.OrganizationID, inv.BillingEmail, inv.BillingAddress, inv.TaxID,
		inv.PlanType, inv.Amount, inv.Currency, inv.DueDate, inv.PaymentMethod,
		inv.Items, inv.Notes, inv.TermsAccepted, inv.Status,
	).Scan(&inv.ID, &inv.CreatedAt)
}

// List joins the issuing organization's name. The organizations name
// column drifts across schema generations, so it is resolved from the
// live column set.
func (r *invoiceRepository) List(ctx context.Context) ([]domain.Invoice, error) {
	orgCols, err := r.schema.Columns(ctx, "organizations")
	if err != nil {
		return nil, err
	}
	nameExpr := "''"
	if c := firstColumn(orgCols, "org_name", "name", "organization_name"); c != "" {
		nameExpr = "COALESCE(o." + c + ", '')"
	}

	query := `SELECT i.id, i.invoice_number, i.organization_id, COALESCE(i.billing_email, ''),
	              COALESCE(i.billing_address, ''), COALESCE(i.tax_id, ''), COALESCE(i.plan_type, ''),
	              i.amount, i.currency, i.due_date, COALESCE(i.payment_method, ''), i.items,
	              COALESCE(i.notes, ''), i.terms_accepted, i.status, i.created_at, ` + nameExpr + `
	          FROM invoices i
	          LEFT JOIN organizations o ON o.id = i.organization_id
	          ORDER BY i.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []domain.Invoice
	for rows.Next() {
		inv := domain.Invoice{}
		err := rows.Scan(&inv.ID, &inv.InvoiceNumber, &inv.OrganizationID, &inv.BillingEmail,
			&inv.BillingAddress, &inv.TaxID, &inv.PlanType,
			&inv.Amount, &inv.Currency, &inv.DueDate, &inv.PaymentMethod, &inv.Items,
			&inv.Notes, &inv.TermsAccepted, &inv.Status, &inv.CreatedAt, &inv.OrganizationName)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}
