package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"expoevents-backend/internal/apperror"
	"expoevents-backend/internal/domain"
	"expoevents-backend/internal/qr"
	"expoevents-backend/internal/repository"
	"expoevents-backend/internal/sqlbuild"
)

func TestRandomCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := randomCode()
		require.NoError(t, err)
		require.Len(t, code, len(codePrefix)+codeLength)
		require.True(t, strings.HasPrefix(code, codePrefix))
		for _, c := range code[len(codePrefix):] {
			assert.Contains(t, codeAlphabet, string(c), "ambiguous characters are excluded")
		}
		seen[code] = true
	}
	assert.Greater(t, len(seen), 90, "codes should be effectively unique")
}

func newVisitorService(visitorRepo *MockVisitorRepo, eventRepo *MockEventRepo, schema *MockSchemaRepo) VisitorService {
	notifier, _, _ := newTestNotifier()
	return NewVisitorService(visitorRepo, eventRepo, schema, qr.NewGenerator(newMemStore()), notifier, testConfig())
}

func TestVisitorService_Register(t *testing.T) {
	ctx := context.Background()

	visitorCols := sqlbuild.NewColumnSet([]string{
		"id", "event_id", "first_name", "last_name", "email", "mobile",
		"unique_code", "password_hash", "communication", "created_at", "updated_at",
	})

	t.Run("requires first name", func(t *testing.T) {
		svc := newVisitorService(new(MockVisitorRepo), new(MockEventRepo), new(MockSchemaRepo))
		_, err := svc.Register(ctx, map[string]any{"email": "v@x.test"})
		assert.Equal(t, apperror.CodeValidation, apperror.CodeOf(err))
	})

	t.Run("requires a contact point", func(t *testing.T) {
		svc := newVisitorService(new(MockVisitorRepo), new(MockEventRepo), new(MockSchemaRepo))
		_, err := svc.Register(ctx, map[string]any{"firstName": "Asha"})
		assert.Equal(t, apperror.CodeValidation, apperror.CodeOf(err))
	})

	t.Run("registers with generated code and password", func(t *testing.T) {
		visitorRepo := new(MockVisitorRepo)
		eventRepo := new(MockEventRepo)
		schema := new(MockSchemaRepo)

		eventRepo.On("GetByID", ctx, int64(9)).
			Return(repository.Record{"id": int64(9), "event_name": "Auto Expo"}, nil)
		visitorRepo.On("CodeExists", ctx, mock.AnythingOfType("string")).Return(false, nil)
		schema.On("Columns", ctx, "visitors").Return(visitorCols, nil)
		visitorRepo.On("Insert", ctx, mock.AnythingOfType("*sqlbuild.Statement")).
			Return(repository.Record{"id": int64(31), "first_name": "Asha"}, nil)

		svc := newVisitorService(visitorRepo, eventRepo, schema)
		reg, err := svc.Register(ctx, map[string]any{
			"firstName": "Asha",
			"email":     "asha@x.test",
			"mobile":    "9876543210",
			"eventId":   float64(9),
		})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(reg.UniqueCode, codePrefix))
		assert.Equal(t, "asha@123", reg.Password)
		assert.Equal(t, "/uploads/qrcodes/visitor-31.png", reg.Record["qr_image_path"])
		assert.True(t, reg.Email.Sent)
		assert.True(t, reg.SMS.Sent)
	})

	t.Run("retries code generation on collision", func(t *testing.T) {
		visitorRepo := new(MockVisitorRepo)
		schema := new(MockSchemaRepo)

		visitorRepo.On("CodeExists", ctx, mock.AnythingOfType("string")).Return(true, nil).Once()
		visitorRepo.On("CodeExists", ctx, mock.AnythingOfType("string")).Return(false, nil).Once()
		schema.On("Columns", ctx, "visitors").Return(visitorCols, nil)
		visitorRepo.On("Insert", ctx, mock.AnythingOfType("*sqlbuild.Statement")).
			Return(repository.Record{"id": int64(32)}, nil)

		svc := newVisitorService(visitorRepo, new(MockEventRepo), schema)
		_, err := svc.Register(ctx, map[string]any{"firstName": "Asha", "mobile": "9876543210"})
		require.NoError(t, err)
		visitorRepo.AssertNumberOfCalls(t, "CodeExists", 2)
	})
}

func TestVisitorService_Login(t *testing.T) {
	ctx := context.Background()
	var creds CredentialIssuer
	hash, err := creds.Hash("asha@123")
	require.NoError(t, err)

	t.Run("email and password", func(t *testing.T) {
		visitorRepo := new(MockVisitorRepo)
		visitorRepo.On("GetByEmail", ctx, "asha@x.test").
			Return(&domain.Visitor{ID: 31, PasswordHash: hash}, nil)

		svc := newVisitorService(visitorRepo, new(MockEventRepo), new(MockSchemaRepo))
		v, err := svc.Login(ctx, "asha@x.test", "asha@123")
		require.NoError(t, err)
		assert.Equal(t, int64(31), v.ID)
		assert.Empty(t, v.PasswordHash)
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		visitorRepo := new(MockVisitorRepo)
		visitorRepo.On("GetByEmail", ctx, "asha@x.test").
			Return(&domain.Visitor{ID: 31, PasswordHash: hash}, nil)

		svc := newVisitorService(visitorRepo, new(MockEventRepo), new(MockSchemaRepo))
		_, err := svc.Login(ctx, "asha@x.test", "wrong")
		assert.Equal(t, apperror.CodeUnauthorized, apperror.CodeOf(err))
	})

	t.Run("mobile number accepted in place of a password", func(t *testing.T) {
		visitorRepo := new(MockVisitorRepo)
		visitorRepo.On("GetByEmail", ctx, "asha@x.test").
			Return(&domain.Visitor{ID: 31, Mobile: "+91 98765 43210"}, nil)

		svc := newVisitorService(visitorRepo, new(MockEventRepo), new(MockSchemaRepo))
		v, err := svc.Login(ctx, "asha@x.test", "9876543210")
		require.NoError(t, err)
		assert.Equal(t, int64(31), v.ID)
	})

	t.Run("phone identifier still requires a credential", func(t *testing.T) {
		visitorRepo := new(MockVisitorRepo)
		visitorRepo.On("FindByPhone", ctx, "9876543210").
			Return(&domain.Visitor{ID: 31, Mobile: "9876543210", PasswordHash: hash}, nil)

		svc := newVisitorService(visitorRepo, new(MockEventRepo), new(MockSchemaRepo))
		_, err := svc.Login(ctx, "9876543210", "totally-wrong-password")
		assert.Equal(t, apperror.CodeUnauthorized, apperror.CodeOf(err))

		v, err := svc.Login(ctx, "9876543210", "asha@123")
		require.NoError(t, err)
		assert.Equal(t, int64(31), v.ID)
	})

	t.Run("empty stored hash does not accept arbitrary passwords", func(t *testing.T) {
		visitorRepo := new(MockVisitorRepo)
		visitorRepo.On("GetByEmail", ctx, "asha@x.test").
			Return(&domain.Visitor{ID: 31, Mobile: "9876543210"}, nil)

		svc := newVisitorService(visitorRepo, new(MockEventRepo), new(MockSchemaRepo))
		_, err := svc.Login(ctx, "asha@x.test", "anything")
		assert.Equal(t, apperror.CodeUnauthorized, apperror.CodeOf(err))
	})

	t.Run("empty password rejected outright", func(t *testing.T) {
		svc := newVisitorService(new(MockVisitorRepo), new(MockEventRepo), new(MockSchemaRepo))
		_, err := svc.Login(ctx, "asha@x.test", "")
		assert.Equal(t, apperror.CodeValidation, apperror.CodeOf(err))
	})

	t.Run("unknown identity rejected", func(t *testing.T) {
		visitorRepo := new(MockVisitorRepo)
		visitorRepo.On("FindByPhone", ctx, "1112223334").Return(nil, repository.ErrNotFound)

		svc := newVisitorService(visitorRepo, new(MockEventRepo), new(MockSchemaRepo))
		_, err := svc.Login(ctx, "1112223334", "1112223334")
		assert.Equal(t, apperror.CodeUnauthorized, apperror.CodeOf(err))
	})
}

func TestMobileMatches(t *testing.T) {
	cases := []struct {
		name   string
		input  string
		mobile string
		want   bool
	}{
		{"exact digits", "9876543210", "9876543210", true},
		{"formatting stripped", "98765-43210", "+91 98765 43210", true},
		{"country code on record", "9876543210", "+919876543210", true},
		{"country code on input", "+919876543210", "9876543210", true},
		{"different number", "9876543211", "9876543210", false},
		{"short input", "43210", "9876543210", false},
		{"no digits", "password", "9876543210", false},
		{"empty mobile", "9876543210", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, mobileMatches(tc.input, tc.mobile))
		})
	}
}

func TestVisitorService_GetByCode(t *testing.T) {
	ctx := context.Background()
	eventID := int64(9)

	t.Run("normalizes the code before lookup", func(t *testing.T) {
		visitorRepo := new(MockVisitorRepo)
		visitorRepo.On("GetByCode", ctx, "VIS-ABCD2345").
			Return(&domain.Visitor{ID: 31, UniqueCode: "VIS-ABCD2345", EventID: &eventID}, nil)

		svc := newVisitorService(visitorRepo, new(MockEventRepo), new(MockSchemaRepo))
		v, err := svc.GetByCode(ctx, "  vis-abcd2345 ", 0)
		require.NoError(t, err)
		assert.Equal(t, int64(31), v.ID)
	})

	t.Run("badge for another event is rejected", func(t *testing.T) {
		visitorRepo := new(MockVisitorRepo)
		visitorRepo.On("GetByCode", ctx, "VIS-ABCD2345").
			Return(&domain.Visitor{ID: 31, UniqueCode: "VIS-ABCD2345", EventID: &eventID}, nil)

		svc := newVisitorService(visitorRepo, new(MockEventRepo), new(MockSchemaRepo))
		_, err := svc.GetByCode(ctx, "VIS-ABCD2345", 10)
		require.Error(t, err)
		assert.Equal(t, apperror.CodeForbidden, apperror.CodeOf(err))
	})

	t.Run("matching event passes the guard", func(t *testing.T) {
		visitorRepo := new(MockVisitorRepo)
		visitorRepo.On("GetByCode", ctx, "VIS-ABCD2345").
			Return(&domain.Visitor{ID: 31, UniqueCode: "VIS-ABCD2345", EventID: &eventID}, nil)

		svc := newVisitorService(visitorRepo, new(MockEventRepo), new(MockSchemaRepo))
		_, err := svc.GetByCode(ctx, "VIS-ABCD2345", 9)
		require.NoError(t, err)
	})

	t.Run("unknown code is not found", func(t *testing.T) {
		visitorRepo := new(MockVisitorRepo)
		visitorRepo.On("GetByCode", ctx, "VIS-ZZZZZZZZ").
			Return(nil, repository.ErrNotFound)

		svc := newVisitorService(visitorRepo, new(MockEventRepo), new(MockSchemaRepo))
		_, err := svc.GetByCode(ctx, "VIS-ZZZZZZZZ", 0)
		require.Error(t, err)
		assert.Equal(t, apperror.CodeNotFound, apperror.CodeOf(err))
	})
}
