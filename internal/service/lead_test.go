package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"expoevents-backend/internal/apperror"
	"expoevents-backend/internal/repository"
	"expoevents-backend/internal/sqlbuild"
)

func TestLeadService_Capture(t *testing.T) {
	ctx := context.Background()

	leadCols := sqlbuild.NewColumnSet([]string{
		"id", "exhibitor_id", "event_id", "name", "email", "phone",
		"source", "status", "scanned_at", "updated_at",
	})

	t.Run("requires an exhibitor", func(t *testing.T) {
		svc := NewLeadService(new(MockLeadRepo), new(MockSchemaRepo))
		_, err := svc.Capture(ctx, map[string]any{"name": "Asha"})
		assert.Equal(t, apperror.CodeValidation, apperror.CodeOf(err))
	})

	t.Run("applies source and status defaults", func(t *testing.T) {
		leadRepo := new(MockLeadRepo)
		schema := new(MockSchemaRepo)
		schema.On("Columns", ctx, "leads").Return(leadCols, nil)

		var captured *sqlbuild.Statement
		leadRepo.On("Insert", ctx, mock.AnythingOfType("*sqlbuild.Statement")).
			Run(func(args mock.Arguments) {
				captured = args.Get(1).(*sqlbuild.Statement)
			}).
			Return(repository.Record{"id": int64(5)}, nil)

		svc := NewLeadService(leadRepo, schema)
		_, err := svc.Capture(ctx, map[string]any{"exhibitorId": float64(8), "name": "Asha"})
		require.NoError(t, err)
		assert.True(t, captured.Has("source"))
		assert.True(t, captured.Has("status"))
		assert.True(t, captured.Has("scanned_at"))
	})
}

func TestLeadService_NotFoundMapping(t *testing.T) {
	ctx := context.Background()

	leadCols := sqlbuild.NewColumnSet([]string{"id", "name", "status", "updated_at"})

	t.Run("update maps a wrapped not-found", func(t *testing.T) {
		leadRepo := new(MockLeadRepo)
		schema := new(MockSchemaRepo)
		schema.On("Columns", ctx, "leads").Return(leadCols, nil)
		leadRepo.On("Update", ctx, int64(99), mock.AnythingOfType("*sqlbuild.Statement")).
			Return(nil, fmt.Errorf("updating lead 99: %w", repository.ErrNotFound))

		svc := NewLeadService(leadRepo, schema)
		_, err := svc.Update(ctx, 99, map[string]any{"status": "Contacted"})
		assert.Equal(t, apperror.CodeNotFound, apperror.CodeOf(err))
	})

	t.Run("delete maps a wrapped not-found", func(t *testing.T) {
		leadRepo := new(MockLeadRepo)
		leadRepo.On("Delete", ctx, int64(99)).
			Return(fmt.Errorf("deleting lead 99: %w", repository.ErrNotFound))

		svc := NewLeadService(leadRepo, new(MockSchemaRepo))
		err := svc.Delete(ctx, 99)
		assert.Equal(t, apperror.CodeNotFound, apperror.CodeOf(err))
	})
}
