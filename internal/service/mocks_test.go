package service

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"expoevents-backend/internal/domain"
	"expoevents-backend/internal/notification"
	"expoevents-backend/internal/repository"
	"expoevents-backend/internal/sqlbuild"
)

// MockSchemaRepo
type MockSchemaRepo struct {
	mock.Mock
}

func (m *MockSchemaRepo) Columns(ctx context.Context, table string) (sqlbuild.ColumnSet, error) {
	args := m.Called(ctx, table)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(sqlbuild.ColumnSet), args.Error(1)
}
func (m *MockSchemaRepo) Invalidate(table string) {
	m.Called(table)
}

// MockOrgRepo
type MockOrgRepo struct {
	mock.Mock
}

func (m *MockOrgRepo) Insert(ctx context.Context, st *sqlbuild.Statement) (repository.Record, error) {
	args := m.Called(ctx, st)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.Record), args.Error(1)
}
func (m *MockOrgRepo) Update(ctx context.Context, id int64, st *sqlbuild.Statement) (repository.Record, error) {
	args := m.Called(ctx, id, st)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.Record), args.Error(1)
}
func (m *MockOrgRepo) List(ctx context.Context) ([]repository.Record, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.Record), args.Error(1)
}
func (m *MockOrgRepo) GetByID(ctx context.Context, id int64) (repository.Record, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.Record), args.Error(1)
}
func (m *MockOrgRepo) GetForLogin(ctx context.Context, email string) (*domain.Organization, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}
func (m *MockOrgRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}
func (m *MockOrgRepo) UserExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}
func (m *MockOrgRepo) InsertUser(ctx context.Context, st *sqlbuild.Statement) (repository.Record, error) {
	args := m.Called(ctx, st)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.Record), args.Error(1)
}
func (m *MockOrgRepo) ListUsers(ctx context.Context, orgID int64) ([]repository.Record, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.Record), args.Error(1)
}

// MockInviteRepo
type MockInviteRepo struct {
	mock.Mock
}

func (m *MockInviteRepo) Create(ctx context.Context, inv *domain.OrganizationInvite) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}
func (m *MockInviteRepo) GetByToken(ctx context.Context, token string) (*domain.OrganizationInvite, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OrganizationInvite), args.Error(1)
}
func (m *MockInviteRepo) FindPendingByEmail(ctx context.Context, email string) (*domain.OrganizationInvite, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OrganizationInvite), args.Error(1)
}
func (m *MockInviteRepo) DeletePendingByIdentity(ctx context.Context, email, mobile string) (int64, error) {
	args := m.Called(ctx, email, mobile)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockInviteRepo) Accept(ctx context.Context, token string, insert func(cols sqlbuild.ColumnSet) (*sqlbuild.Statement, error)) (repository.Record, error) {
	args := m.Called(ctx, token, insert)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.Record), args.Error(1)
}
func (m *MockInviteRepo) PurgeExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

// MockEventRepo
type MockEventRepo struct {
	mock.Mock
}

func (m *MockEventRepo) Insert(ctx context.Context, st *sqlbuild.Statement) (repository.Record, error) {
	args := m.Called(ctx, st)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.Record), args.Error(1)
}
func (m *MockEventRepo) Update(ctx context.Context, id int64, st *sqlbuild.Statement) (repository.Record, error) {
	args := m.Called(ctx, id, st)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.Record), args.Error(1)
}
func (m *MockEventRepo) GetByID(ctx context.Context, id int64) (repository.Record, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.Record), args.Error(1)
}
func (m *MockEventRepo) GetByQRToken(ctx context.Context, token string) (repository.Record, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.Record), args.Error(1)
}
func (m *MockEventRepo) ListByOrganization(ctx context.Context, orgID int64) ([]repository.Record, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.Record), args.Error(1)
}
func (m *MockEventRepo) ListUpcomingByOrganization(ctx context.Context, orgID int64) ([]repository.Record, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.Record), args.Error(1)
}
func (m *MockEventRepo) ListMissingQR(ctx context.Context, limit int) ([]domain.Event, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Event), args.Error(1)
}
func (m *MockEventRepo) SetQRAssets(ctx context.Context, id int64, qrImagePath, registrationLink string) error {
	args := m.Called(ctx, id, qrImagePath, registrationLink)
	return args.Error(0)
}
func (m *MockEventRepo) SetGroundLayout(ctx context.Context, id int64, layoutURL string) error {
	args := m.Called(ctx, id, layoutURL)
	return args.Error(0)
}

// MockVisitorRepo
type MockVisitorRepo struct {
	mock.Mock
}

func (m *MockVisitorRepo) Insert(ctx context.Context, st *sqlbuild.Statement) (repository.Record, error) {
	args := m.Called(ctx, st)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.Record), args.Error(1)
}
func (m *MockVisitorRepo) GetByCode(ctx context.Context, code string) (*domain.Visitor, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Visitor), args.Error(1)
}
func (m *MockVisitorRepo) GetByEmail(ctx context.Context, email string) (*domain.Visitor, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Visitor), args.Error(1)
}
func (m *MockVisitorRepo) FindByPhone(ctx context.Context, phone string) (*domain.Visitor, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Visitor), args.Error(1)
}
func (m *MockVisitorRepo) ListByEvent(ctx context.Context, eventID int64) ([]domain.Visitor, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Visitor), args.Error(1)
}
func (m *MockVisitorRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

// MockPlanRepo
type MockPlanRepo struct {
	mock.Mock
}

func (m *MockPlanRepo) Create(ctx context.Context, p *domain.Plan) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockPlanRepo) List(ctx context.Context) ([]domain.Plan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Plan), args.Error(1)
}
func (m *MockPlanRepo) GetByID(ctx context.Context, id int64) (*domain.Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Plan), args.Error(1)
}
func (m *MockPlanRepo) CreateCoupon(ctx context.Context, c *domain.Coupon) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockPlanRepo) ListCoupons(ctx context.Context) ([]domain.Coupon, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Coupon), args.Error(1)
}
func (m *MockPlanRepo) GetCouponByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Coupon), args.Error(1)
}
func (m *MockPlanRepo) IncrementCouponUse(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockLeadRepo
type MockLeadRepo struct {
	mock.Mock
}

func (m *MockLeadRepo) Insert(ctx context.Context, st *sqlbuild.Statement) (repository.Record, error) {
	args := m.Called(ctx, st)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.Record), args.Error(1)
}
func (m *MockLeadRepo) Update(ctx context.Context, id int64, st *sqlbuild.Statement) (repository.Record, error) {
	args := m.Called(ctx, id, st)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.Record), args.Error(1)
}
func (m *MockLeadRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockLeadRepo) ListByExhibitor(ctx context.Context, exhibitorID int64) ([]domain.Lead, error) {
	args := m.Called(ctx, exhibitorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Lead), args.Error(1)
}
func (m *MockLeadRepo) ListByEvent(ctx context.Context, eventID int64) ([]domain.Lead, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Lead), args.Error(1)
}
func (m *MockLeadRepo) InsertScan(ctx context.Context, s *domain.ScannedVisitor) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}
func (m *MockLeadRepo) ListScansByExhibitor(ctx context.Context, exhibitorID int64) ([]domain.ScannedVisitor, error) {
	args := m.Called(ctx, exhibitorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ScannedVisitor), args.Error(1)
}

// MockInvoiceRepo
type MockInvoiceRepo struct {
	mock.Mock
}

func (m *MockInvoiceRepo) Create(ctx context.Context, inv *domain.Invoice) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}
func (m *MockInvoiceRepo) List(ctx context.Context) ([]domain.Invoice, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

// memStore satisfies storage.Store without touching disk.
type memStore struct {
	saved map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{saved: map[string][]byte{}}
}

func (m *memStore) Save(ctx context.Context, key string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.saved[key] = b
	return m.URL(key), nil
}

func (m *memStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	b, ok := m.saved[key]
	if !ok {
		return nil, io.ErrUnexpectedEOF
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (m *memStore) Exists(ctx context.Context, key string) (bool, int64, error) {
	b, ok := m.saved[key]
	return ok, int64(len(b)), nil
}

func (m *memStore) Delete(ctx context.Context, key string) error {
	delete(m.saved, key)
	return nil
}

func (m *memStore) URL(key string) string {
	return "/uploads/" + key
}

// recorder senders keep notifications out of tests while capturing them.
type recordedEmail struct {
	To      string
	Subject string
}

type recorderEmailSender struct {
	sent []recordedEmail
}

func (r *recorderEmailSender) Send(ctx context.Context, to, toName, subject, plainText, htmlContent string) notification.EmailResult {
	r.sent = append(r.sent, recordedEmail{To: to, Subject: subject})
	return notification.EmailResult{Sent: true}
}

type recorderSMSSender struct {
	sent []string
}

func (r *recorderSMSSender) Send(ctx context.Context, mobile, message string) notification.SMSResult {
	r.sent = append(r.sent, mobile)
	return notification.SMSResult{Sent: true}
}

func newTestNotifier() (*notification.Notifier, *recorderEmailSender, *recorderSMSSender) {
	email := &recorderEmailSender{}
	sms := &recorderSMSSender{}
	return notification.NewNotifier(email, sms), email, sms
}
