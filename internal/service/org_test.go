package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"expoevents-backend/internal/apperror"
	"expoevents-backend/internal/config"
	"expoevents-backend/internal/domain"
	"expoevents-backend/internal/repository"
	"expoevents-backend/internal/sqlbuild"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Links.InviteBase = "https://app.test/organization/register"
	cfg.Links.LoginBase = "https://app.test/login"
	cfg.Bypass.Emails = []string{"admin-qa@company.test"}
	return cfg
}

func newOrgService(orgRepo *MockOrgRepo, inviteRepo *MockInviteRepo, schema *MockSchemaRepo) OrganizationService {
	notifier, _, _ := newTestNotifier()
	return NewOrganizationService(orgRepo, inviteRepo, schema, notifier, testConfig())
}

func TestOrganizationService_SendInvite(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects malformed email", func(t *testing.T) {
		svc := newOrgService(new(MockOrgRepo), new(MockInviteRepo), new(MockSchemaRepo))
		_, err := svc.SendInvite(ctx, "not-an-email", "")
		assert.Equal(t, apperror.CodeValidation, apperror.CodeOf(err))
	})

	t.Run("conflict when organization already exists", func(t *testing.T) {
		orgRepo := new(MockOrgRepo)
		inviteRepo := new(MockInviteRepo)
		orgRepo.On("ExistsByEmail", ctx, "owner@acme.test").Return(true, nil)

		svc := newOrgService(orgRepo, inviteRepo, new(MockSchemaRepo))
		_, err := svc.SendInvite(ctx, "owner@acme.test", "9876543210")
		assert.Equal(t, apperror.CodeConflict, apperror.CodeOf(err))
	})

	t.Run("conflict when an invite is already pending", func(t *testing.T) {
		orgRepo := new(MockOrgRepo)
		inviteRepo := new(MockInviteRepo)
		orgRepo.On("ExistsByEmail", ctx, "owner@acme.test").Return(false, nil)
		inviteRepo.On("FindPendingByEmail", ctx, "owner@acme.test").
			Return(&domain.OrganizationInvite{ID: 1}, nil)

		svc := newOrgService(orgRepo, inviteRepo, new(MockSchemaRepo))
		_, err := svc.SendInvite(ctx, "owner@acme.test", "")
		assert.Equal(t, apperror.CodeConflict, apperror.CodeOf(err))
	})

	t.Run("issues invite with 48 hour expiry", func(t *testing.T) {
		orgRepo := new(MockOrgRepo)
		inviteRepo := new(MockInviteRepo)
		orgRepo.On("ExistsByEmail", ctx, "owner@acme.test").Return(false, nil)
		inviteRepo.On("FindPendingByEmail", ctx, "owner@acme.test").
			Return(nil, repository.ErrNotFound)
		inviteRepo.On("Create", ctx, mock.AnythingOfType("*domain.OrganizationInvite")).Return(nil)

		svc := newOrgService(orgRepo, inviteRepo, new(MockSchemaRepo))
		issued, err := svc.SendInvite(ctx, "owner@acme.test", "9876543210")
		require.NoError(t, err)
		assert.NotEmpty(t, issued.Invite.Token)
		assert.Equal(t, domain.InviteStatusPending, issued.Invite.Status)
		assert.WithinDuration(t, time.Now().Add(48*time.Hour), issued.Invite.ExpiresAt, time.Minute)
		assert.Contains(t, issued.InviteLink, issued.Invite.Token)
		assert.True(t, issued.Email.Sent)
		assert.True(t, issued.SMS.Sent)
	})

	t.Run("test identity skips duplicate check and clears stale invites", func(t *testing.T) {
		orgRepo := new(MockOrgRepo)
		inviteRepo := new(MockInviteRepo)
		inviteRepo.On("DeletePendingByIdentity", ctx, "qa.test@acme.test", "").Return(int64(2), nil)
		inviteRepo.On("Create", ctx, mock.AnythingOfType("*domain.OrganizationInvite")).Return(nil)

		svc := newOrgService(orgRepo, inviteRepo, new(MockSchemaRepo))
		_, err := svc.SendInvite(ctx, "qa.test@acme.test", "")
		require.NoError(t, err)
		orgRepo.AssertNotCalled(t, "ExistsByEmail", mock.Anything, mock.Anything)
	})

	t.Run("configured bypass identity behaves like a test identity", func(t *testing.T) {
		orgRepo := new(MockOrgRepo)
		inviteRepo := new(MockInviteRepo)
		inviteRepo.On("DeletePendingByIdentity", ctx, "admin-qa@company.test", "").Return(int64(0), nil)
		inviteRepo.On("Create", ctx, mock.AnythingOfType("*domain.OrganizationInvite")).Return(nil)

		svc := newOrgService(orgRepo, inviteRepo, new(MockSchemaRepo))
		_, err := svc.SendInvite(ctx, "admin-qa@company.test", "")
		require.NoError(t, err)
		orgRepo.AssertNotCalled(t, "ExistsByEmail", mock.Anything, mock.Anything)
	})
}

func TestIsTestIdentity(t *testing.T) {
	assert.True(t, isTestIdentity("qa.test@acme.test", ""))
	assert.True(t, isTestIdentity("", "00001234567"))
	assert.False(t, isTestIdentity("owner@acme.test", "9876543210"))
	assert.False(t, isTestIdentity("testing@acme.test", ""), "test must be the local-part suffix, not a prefix match")
}

func TestOrganizationService_ValidateInvite(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name   string
		invite *domain.OrganizationInvite
		err    error
		want   apperror.Code
	}{
		{
			name: "unknown token",
			err:  repository.ErrNotFound,
			want: apperror.CodeNotFound,
		},
		{
			name: "already accepted",
			invite: &domain.OrganizationInvite{
				Status:    domain.InviteStatusAccepted,
				ExpiresAt: time.Now().Add(time.Hour),
			},
			want: apperror.CodeConflict,
		},
		{
			name: "expired",
			invite: &domain.OrganizationInvite{
				Status:    domain.InviteStatusPending,
				ExpiresAt: time.Now().Add(-time.Hour),
			},
			want: apperror.CodeConflict,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			inviteRepo := new(MockInviteRepo)
			inviteRepo.On("GetByToken", ctx, "tok").Return(tc.invite, tc.err)

			svc := newOrgService(new(MockOrgRepo), inviteRepo, new(MockSchemaRepo))
			_, err := svc.ValidateInvite(ctx, "tok")
			assert.Equal(t, tc.want, apperror.CodeOf(err))
		})
	}

	t.Run("pending unexpired invite validates", func(t *testing.T) {
		inviteRepo := new(MockInviteRepo)
		inviteRepo.On("GetByToken", ctx, "tok").Return(&domain.OrganizationInvite{
			Email:     "owner@acme.test",
			Status:    domain.InviteStatusPending,
			ExpiresAt: time.Now().Add(time.Hour),
		}, nil)

		svc := newOrgService(new(MockOrgRepo), inviteRepo, new(MockSchemaRepo))
		inv, err := svc.ValidateInvite(ctx, "tok")
		require.NoError(t, err)
		assert.Equal(t, "owner@acme.test", inv.Email)
	})
}

func TestOrganizationService_AcceptInvite(t *testing.T) {
	ctx := context.Background()

	pending := func() *domain.OrganizationInvite {
		return &domain.OrganizationInvite{
			Email:     "owner@acme.test",
			Mobile:    "9876543210",
			Status:    domain.InviteStatusPending,
			ExpiresAt: time.Now().Add(time.Hour),
		}
	}

	t.Run("requires a password", func(t *testing.T) {
		inviteRepo := new(MockInviteRepo)
		inviteRepo.On("GetByToken", ctx, "tok").Return(pending(), nil)

		svc := newOrgService(new(MockOrgRepo), inviteRepo, new(MockSchemaRepo))
		_, err := svc.AcceptInvite(ctx, "tok", map[string]any{"orgName": "Acme"})
		assert.Equal(t, apperror.CodeValidation, apperror.CodeOf(err))
	})

	t.Run("forces the invited email into the payload", func(t *testing.T) {
		inviteRepo := new(MockInviteRepo)
		inviteRepo.On("GetByToken", ctx, "tok").Return(pending(), nil)
		inviteRepo.On("Accept", ctx, "tok", mock.Anything).
			Run(func(args mock.Arguments) {
				build := args.Get(2).(func(sqlbuild.ColumnSet) (*sqlbuild.Statement, error))
				cols := sqlbuild.NewColumnSet([]string{"org_name", "primary_email", "password_hash", "status", "created_at", "updated_at"})
				st, err := build(cols)
				require.NoError(t, err)
				require.True(t, st.Has("primary_email"))
				require.True(t, st.Has("password_hash"))
				require.True(t, st.Has("status"))
				assert.Contains(t, st.Values, "owner@acme.test")
			}).
			Return(repository.Record{"id": int64(1), "org_name": "Acme"}, nil)

		svc := newOrgService(new(MockOrgRepo), inviteRepo, new(MockSchemaRepo))
		payload := map[string]any{
			"orgName":      "Acme",
			"primaryEmail": "spoofed@other.test",
			"password":     "hunter22",
		}
		rec, err := svc.AcceptInvite(ctx, "tok", payload)
		require.NoError(t, err)
		assert.Equal(t, "Acme", rec["org_name"])
		assert.Equal(t, "owner@acme.test", payload["primaryEmail"])
	})

	t.Run("maps duplicate email to conflict", func(t *testing.T) {
		inviteRepo := new(MockInviteRepo)
		inviteRepo.On("GetByToken", ctx, "tok").Return(pending(), nil)
		inviteRepo.On("Accept", ctx, "tok", mock.Anything).Return(nil, repository.ErrDuplicateEmail)

		svc := newOrgService(new(MockOrgRepo), inviteRepo, new(MockSchemaRepo))
		_, err := svc.AcceptInvite(ctx, "tok", map[string]any{"orgName": "Acme", "password": "hunter22"})
		assert.Equal(t, apperror.CodeConflict, apperror.CodeOf(err))
	})
}

func TestOrganizationService_Login(t *testing.T) {
	ctx := context.Background()
	var creds CredentialIssuer
	hash, err := creds.Hash("hunter22")
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		orgRepo := new(MockOrgRepo)
		orgRepo.On("GetForLogin", ctx, "owner@acme.test").Return(&domain.Organization{
			ID:           7,
			OrgName:      "Acme",
			PasswordHash: hash,
			Status:       domain.OrgStatusActive,
		}, nil)

		svc := newOrgService(orgRepo, new(MockInviteRepo), new(MockSchemaRepo))
		org, err := svc.Login(ctx, "owner@acme.test", "hunter22")
		require.NoError(t, err)
		assert.Equal(t, int64(7), org.ID)
		assert.Empty(t, org.PasswordHash)
	})

	t.Run("wrong password", func(t *testing.T) {
		orgRepo := new(MockOrgRepo)
		orgRepo.On("GetForLogin", ctx, "owner@acme.test").Return(&domain.Organization{
			PasswordHash: hash,
			Status:       domain.OrgStatusActive,
		}, nil)

		svc := newOrgService(orgRepo, new(MockInviteRepo), new(MockSchemaRepo))
		_, err := svc.Login(ctx, "owner@acme.test", "wrong")
		assert.Equal(t, apperror.CodeUnauthorized, apperror.CodeOf(err))
	})

	t.Run("inactive organization", func(t *testing.T) {
		orgRepo := new(MockOrgRepo)
		orgRepo.On("GetForLogin", ctx, "owner@acme.test").Return(&domain.Organization{
			PasswordHash: hash,
			Status:       domain.OrgStatusInactive,
		}, nil)

		svc := newOrgService(orgRepo, new(MockInviteRepo), new(MockSchemaRepo))
		_, err := svc.Login(ctx, "owner@acme.test", "hunter22")
		assert.Equal(t, apperror.CodeForbidden, apperror.CodeOf(err))
	})
}

func TestOrganizationService_CreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("requires a valid email", func(t *testing.T) {
		svc := newOrgService(new(MockOrgRepo), new(MockInviteRepo), new(MockSchemaRepo))
		_, err := svc.CreateUser(ctx, 7, map[string]any{"email": "not-an-email"})
		assert.Equal(t, apperror.CodeValidation, apperror.CodeOf(err))
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		orgRepo := new(MockOrgRepo)
		orgRepo.On("UserExistsByEmail", ctx, "staff@acme.test").Return(true, nil)

		svc := newOrgService(orgRepo, new(MockInviteRepo), new(MockSchemaRepo))
		_, err := svc.CreateUser(ctx, 7, map[string]any{"email": "staff@acme.test"})
		assert.Equal(t, apperror.CodeConflict, apperror.CodeOf(err))
		orgRepo.AssertNotCalled(t, "InsertUser", mock.Anything, mock.Anything)
	})

	t.Run("creates with a generated password", func(t *testing.T) {
		orgRepo := new(MockOrgRepo)
		schema := new(MockSchemaRepo)
		orgRepo.On("UserExistsByEmail", ctx, "staff@acme.test").Return(false, nil)
		schema.On("Columns", ctx, "organization_users").Return(sqlbuild.NewColumnSet([]string{
			"id", "organization_id", "name", "email", "role", "password_hash", "status", "created_at", "updated_at",
		}), nil)
		orgRepo.On("InsertUser", ctx, mock.AnythingOfType("*sqlbuild.Statement")).
			Return(repository.Record{"id": int64(3), "email": "staff@acme.test"}, nil)

		svc := newOrgService(orgRepo, new(MockInviteRepo), schema)
		rec, err := svc.CreateUser(ctx, 7, map[string]any{"email": "staff@acme.test", "name": "Staff"})
		require.NoError(t, err)
		assert.NotEmpty(t, rec["generatedPassword"])
	})
}
