package postgres

import (
	"database/sql"

	"expoevents-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.SchemaRepository
	repository.OrganizationRepository
	repository.InviteRepository
	repository.EventRepository
	repository.ExhibitorRepository
	repository.VisitorRepository
	repository.LeadRepository
	repository.PlanRepository
	repository.InvoiceRepository
}

func NewStore(db *sql.DB) *Store {
	schema := NewSchemaRepository(db)
	return &Store{
		db:                     db,
		SchemaRepository:       schema,
		OrganizationRepository: NewOrganizationRepository(db, schema),
		InviteRepository:       NewInviteRepository(db, schema),
		EventRepository:        NewEventRepository(db),
		ExhibitorRepository:    NewExhibitorRepository(db),
		VisitorRepository:      NewVisitorRepository(db),
		LeadRepository:         NewLeadRepository(db),
		PlanRepository:         NewPlanRepository(db),
		InvoiceRepository:      NewInvoiceRepository(db, schema),
	}
}
