package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"expoevents-backend/internal/apperror"
	"expoevents-backend/internal/repository"
	"expoevents-backend/internal/sqlbuild"
)

func newEventService(eventRepo *MockEventRepo, schema *MockSchemaRepo) EventService {
	notifier, _, _ := newTestNotifier()
	return NewEventService(eventRepo, schema, nil, notifier, testConfig())
}

func TestEventService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("requires a name", func(t *testing.T) {
		svc := newEventService(new(MockEventRepo), new(MockSchemaRepo))
		_, err := svc.Create(ctx, map[string]any{"organizationId": float64(1)})
		assert.Equal(t, apperror.CodeValidation, apperror.CodeOf(err))
	})

	t.Run("requires an organization", func(t *testing.T) {
		svc := newEventService(new(MockEventRepo), new(MockSchemaRepo))
		_, err := svc.Create(ctx, map[string]any{"eventName": "Auto Expo"})
		assert.Equal(t, apperror.CodeValidation, apperror.CodeOf(err))
	})

	t.Run("writes event_name only on current schemas", func(t *testing.T) {
		eventRepo := new(MockEventRepo)
		schema := new(MockSchemaRepo)
		schema.On("Columns", ctx, "events").Return(sqlbuild.NewColumnSet([]string{
			"id", "organization_id", "event_name", "status", "qr_token", "created_at", "updated_at",
		}), nil)

		var captured *sqlbuild.Statement
		eventRepo.On("Insert", ctx, mock.AnythingOfType("*sqlbuild.Statement")).
			Run(func(args mock.Arguments) {
				captured = args.Get(1).(*sqlbuild.Statement)
			}).
			Return(repository.Record{"event_name": "Auto Expo"}, nil)

		svc := newEventService(eventRepo, schema)
		_, err := svc.Create(ctx, map[string]any{
			"eventName":      "Auto Expo",
			"organizationId": float64(4),
		})
		require.NoError(t, err)
		assert.True(t, captured.Has("event_name"))
		assert.False(t, captured.Has("name"))
	})

	t.Run("mirrors the name into a legacy name column", func(t *testing.T) {
		eventRepo := new(MockEventRepo)
		schema := new(MockSchemaRepo)
		schema.On("Columns", ctx, "events").Return(sqlbuild.NewColumnSet([]string{
			"id", "organization_id", "event_name", "name", "status", "qr_token", "created_at", "updated_at",
		}), nil)

		var captured *sqlbuild.Statement
		eventRepo.On("Insert", ctx, mock.AnythingOfType("*sqlbuild.Statement")).
			Run(func(args mock.Arguments) {
				captured = args.Get(1).(*sqlbuild.Statement)
			}).
			Return(repository.Record{"event_name": "Auto Expo"}, nil)

		svc := newEventService(eventRepo, schema)
		_, err := svc.Create(ctx, map[string]any{
			"eventName":      "Auto Expo",
			"organizationId": float64(4),
		})
		require.NoError(t, err)
		assert.True(t, captured.Has("event_name"))
		assert.True(t, captured.Has("name"))
	})

	t.Run("name-only schemas still get the name", func(t *testing.T) {
		eventRepo := new(MockEventRepo)
		schema := new(MockSchemaRepo)
		schema.On("Columns", ctx, "events").Return(sqlbuild.NewColumnSet([]string{
			"id", "organization_id", "name", "status", "created_at", "updated_at",
		}), nil)

		var captured *sqlbuild.Statement
		eventRepo.On("Insert", ctx, mock.AnythingOfType("*sqlbuild.Statement")).
			Run(func(args mock.Arguments) {
				captured = args.Get(1).(*sqlbuild.Statement)
			}).
			Return(repository.Record{"name": "Auto Expo"}, nil)

		svc := newEventService(eventRepo, schema)
		_, err := svc.Create(ctx, map[string]any{
			"eventName":      "Auto Expo",
			"organizationId": float64(4),
		})
		require.NoError(t, err)
		assert.True(t, captured.Has("name"))
	})
}
