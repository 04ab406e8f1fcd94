package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"expoevents-backend/internal/apperror"
	"expoevents-backend/internal/domain"
	"expoevents-backend/internal/repository"
	"expoevents-backend/internal/service"
)

// MockOrgService
type MockOrgService struct {
	mock.Mock
}

func (m *MockOrgService) SendInvite(ctx context.Context, email, mobile string) (*service.InviteIssued, error) {
	args := m.Called(ctx, email, mobile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.InviteIssued), args.Error(1)
}
func (m *MockOrgService) ValidateInvite(ctx context.Context, token string) (*domain.OrganizationInvite, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OrganizationInvite), args.Error(1)
}
func (m *MockOrgService) AcceptInvite(ctx context.Context, token string, payload map[string]any) (repository.Record, error) {
	args := m.Called(ctx, token, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.Record), args.Error(1)
}
func (m *MockOrgService) Create(ctx context.Context, payload map[string]any) (repository.Record, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.Record), args.Error(1)
}
func (m *MockOrgService) List(ctx context.Context) ([]repository.Record, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.Record), args.Error(1)
}
func (m *MockOrgService) Get(ctx context.Context, id int64) (repository.Record, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.Record), args.Error(1)
}
func (m *MockOrgService) Update(ctx context.Context, id int64, payload map[string]any) (repository.Record, error) {
	args := m.Called(ctx, id, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.Record), args.Error(1)
}
func (m *MockOrgService) Login(ctx context.Context, email, password string) (*domain.Organization, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}
func (m *MockOrgService) CreateUser(ctx context.Context, orgID int64, payload map[string]any) (repository.Record, error) {
	args := m.Called(ctx, orgID, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.Record), args.Error(1)
}
func (m *MockOrgService) ListUsers(ctx context.Context, orgID int64) ([]repository.Record, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.Record), args.Error(1)
}

// MockVisitorService
type MockVisitorService struct {
	mock.Mock
}

func (m *MockVisitorService) Register(ctx context.Context, payload map[string]any) (*service.Registered, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Registered), args.Error(1)
}
func (m *MockVisitorService) Login(ctx context.Context, identifier, password string) (*domain.Visitor, error) {
	args := m.Called(ctx, identifier, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Visitor), args.Error(1)
}
func (m *MockVisitorService) GetByCode(ctx context.Context, code string, eventID int64) (*domain.Visitor, error) {
	args := m.Called(ctx, code, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Visitor), args.Error(1)
}
func (m *MockVisitorService) ListByEvent(ctx context.Context, eventID int64) ([]domain.Visitor, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Visitor), args.Error(1)
}

func TestVisitorRegisterHandler(t *testing.T) {
	t.Run("returns the generated password once", func(t *testing.T) {
		visitorSvc := new(MockVisitorService)
		visitorSvc.On("Register", mock.Anything, mock.Anything).
			Return(&service.Registered{
				Record:     repository.Record{"id": int64(31), "first_name": "Asha"},
				UniqueCode: "VIS-ABCD2345",
				Password:   "asha@123",
			}, nil)

		handler := NewVisitorHandler(visitorSvc)
		body, _ := json.Marshal(map[string]any{"firstName": "Asha", "email": "asha@x.test"})
		req := httptest.NewRequest(http.MethodPost, "/api/visitors/register", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		handler.Register(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, true, resp["success"])
		assert.Equal(t, "VIS-ABCD2345", resp["uniqueCode"])
		assert.Equal(t, "asha@123", resp["generatedPassword"])
	})

	t.Run("omits generatedPassword when none was issued", func(t *testing.T) {
		visitorSvc := new(MockVisitorService)
		visitorSvc.On("Register", mock.Anything, mock.Anything).
			Return(&service.Registered{
				Record:     repository.Record{"id": int64(32)},
				UniqueCode: "VIS-EFGH6789",
			}, nil)

		handler := NewVisitorHandler(visitorSvc)
		body, _ := json.Marshal(map[string]any{"firstName": "Ravi", "mobile": "9876543210"})
		req := httptest.NewRequest(http.MethodPost, "/api/visitors/register", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		handler.Register(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		_, present := resp["generatedPassword"]
		assert.False(t, present)
	})
}

func TestOrganizationLoginHandler(t *testing.T) {
	t.Run("returns organization on success", func(t *testing.T) {
		orgSvc := new(MockOrgService)
		orgSvc.On("Login", mock.Anything, "owner@acme.test", "secret").
			Return(&domain.Organization{ID: 7, OrgName: "Acme Expos"}, nil)

		handler := NewOrganizationHandler(orgSvc)
		body, _ := json.Marshal(map[string]string{"email": "owner@acme.test", "password": "secret"})
		req := httptest.NewRequest(http.MethodPost, "/api/organizations/login", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		handler.Login(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, true, resp["success"])
		org := resp["organization"].(map[string]any)
		assert.Equal(t, "Acme Expos", org["orgName"])
	})

	t.Run("maps unauthorized to 401", func(t *testing.T) {
		orgSvc := new(MockOrgService)
		orgSvc.On("Login", mock.Anything, "owner@acme.test", "wrong").
			Return(nil, apperror.New(apperror.CodeUnauthorized, "Invalid email or password."))

		handler := NewOrganizationHandler(orgSvc)
		body, _ := json.Marshal(map[string]string{"email": "owner@acme.test", "password": "wrong"})
		req := httptest.NewRequest(http.MethodPost, "/api/organizations/login", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		handler.Login(rr, req)

		require.Equal(t, http.StatusUnauthorized, rr.Code)
		var resp errorBody
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, string(apperror.CodeUnauthorized), resp.ErrorCode)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		handler := NewOrganizationHandler(new(MockOrgService))
		req := httptest.NewRequest(http.MethodPost, "/api/organizations/login", bytes.NewReader([]byte("{not json")))
		rr := httptest.NewRecorder()

		handler.Login(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestRouterPathVariables(t *testing.T) {
	orgSvc := new(MockOrgService)
	orgSvc.On("Get", mock.Anything, int64(42)).
		Return(repository.Record{"id": int64(42), "organization_name": "Acme Expos"}, nil)
	orgSvc.On("ListUsers", mock.Anything, int64(42)).
		Return([]repository.Record{{"id": int64(1)}}, nil)

	router := NewRouter(Handlers{
		Organizations: NewOrganizationHandler(orgSvc),
		Events:        NewEventHandler(nil),
		Exhibitors:    NewExhibitorHandler(nil),
		Visitors:      NewVisitorHandler(nil),
		Leads:         NewLeadHandler(nil),
		Plans:         NewPlanHandler(nil),
		Invoices:      NewInvoiceHandler(nil),
		GST:           NewGSTHandler(nil),
		Uploads:       NewUploadHandler(nil, nil),
	})

	t.Run("routes numeric id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/organizations/42", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("routes nested users path", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/organizations/42/users", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("non-numeric id does not match", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/organizations/abc", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		require.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("health check", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)
	})

	orgSvc.AssertExpectations(t)
}
