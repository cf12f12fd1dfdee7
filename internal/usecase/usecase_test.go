package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"go-scout-backend/internal/domain"
)

// fakeTx runs fn inline and fires AfterCommit hooks only when the outermost
// call returns nil.
type fakeTx struct {
	depth int
	hooks []func()
}

func (f *fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.depth++
	err := fn(ctx)
	f.depth--
	if f.depth == 0 {
		hooks := f.hooks
		f.hooks = nil
		if err == nil {
			for _, h := range hooks {
				h()
			}
		}
	}
	return err
}

func (f *fakeTx) AfterCommit(ctx context.Context, hook func()) {
	if f.depth == 0 {
		hook()
		return
	}
	f.hooks = append(f.hooks, hook)
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []domain.Event
	emails []domain.EmailJob
}

func (n *recordingNotifier) Publish(ctx context.Context, event domain.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) SendEmail(ctx context.Context, job domain.EmailJob) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.emails = append(n.emails, job)
}

// Mock Repositories
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) user(args mock.Arguments) (*domain.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return m.user(m.Called(ctx, id))
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return m.user(m.Called(ctx, email))
}
func (m *MockUserRepo) GetWithProfile(ctx context.Context, id string) (*domain.User, error) {
	return m.user(m.Called(ctx, id))
}
func (m *MockUserRepo) LockByID(ctx context.Context, id string) (*domain.User, error) {
	return m.user(m.Called(ctx, id))
}
func (m *MockUserRepo) UpdateScoutCredits(ctx context.Context, id string, total, used int) error {
	return m.Called(ctx, id, total, used).Error(0)
}
func (m *MockUserRepo) UpdateDisplayName(ctx context.Context, id, displayName string, companyName *string) error {
	return m.Called(ctx, id, displayName, companyName).Error(0)
}
func (m *MockUserRepo) UpsertSeekerProfile(ctx context.Context, profile *domain.SeekerProfile) error {
	return m.Called(ctx, profile).Error(0)
}
func (m *MockUserRepo) UpsertCompanyProfile(ctx context.Context, profile *domain.CompanyProfile) error {
	return m.Called(ctx, profile).Error(0)
}
func (m *MockUserRepo) SetActive(ctx context.Context, id string, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}
func (m *MockUserRepo) UpdatePlanTier(ctx context.Context, id, planTier string) error {
	return m.Called(ctx, id, planTier).Error(0)
}
func (m *MockUserRepo) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}
func (m *MockUserRepo) List(ctx context.Context, role domain.Role, page domain.Page) ([]domain.User, int64, error) {
	args := m.Called(ctx, role, page)
	return args.Get(0).([]domain.User), args.Get(1).(int64), args.Error(2)
}

type MockJobRepo struct {
	mock.Mock
}

func (m *MockJobRepo) Create(ctx context.Context, job *domain.JobPosting) error {
	return m.Called(ctx, job).Error(0)
}
func (m *MockJobRepo) GetByID(ctx context.Context, id string) (*domain.JobPosting, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JobPosting), args.Error(1)
}
func (m *MockJobRepo) ListByCompany(ctx context.Context, companyID string, page domain.Page) ([]domain.JobPosting, int64, error) {
	args := m.Called(ctx, companyID, page)
	return args.Get(0).([]domain.JobPosting), args.Get(1).(int64), args.Error(2)
}
func (m *MockJobRepo) ListOpen(ctx context.Context, page domain.Page) ([]domain.JobPosting, int64, error) {
	args := m.Called(ctx, page)
	return args.Get(0).([]domain.JobPosting), args.Get(1).(int64), args.Error(2)
}
func (m *MockJobRepo) Update(ctx context.Context, job *domain.JobPosting) error {
	return m.Called(ctx, job).Error(0)
}

type MockLedgerRepo struct {
	mock.Mock
}

func (m *MockLedgerRepo) plan(args mock.Arguments) (*domain.JobCapPlan, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JobCapPlan), args.Error(1)
}
func (m *MockLedgerRepo) ledger(args mock.Arguments) (*domain.JobTicketLedger, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JobTicketLedger), args.Error(1)
}

func (m *MockLedgerRepo) GetCapPlan(ctx context.Context, jobID string) (*domain.JobCapPlan, error) {
	return m.plan(m.Called(ctx, jobID))
}
func (m *MockLedgerRepo) LockCapPlan(ctx context.Context, jobID string) (*domain.JobCapPlan, error) {
	return m.plan(m.Called(ctx, jobID))
}
func (m *MockLedgerRepo) SaveCapPlan(ctx context.Context, plan *domain.JobCapPlan) error {
	return m.Called(ctx, plan).Error(0)
}
func (m *MockLedgerRepo) GetLedger(ctx context.Context, jobID string) (*domain.JobTicketLedger, error) {
	return m.ledger(m.Called(ctx, jobID))
}
func (m *MockLedgerRepo) LockLedger(ctx context.Context, jobID string) (*domain.JobTicketLedger, error) {
	return m.ledger(m.Called(ctx, jobID))
}
func (m *MockLedgerRepo) EnsureLedger(ctx context.Context, jobID string) error {
	return m.Called(ctx, jobID).Error(0)
}
func (m *MockLedgerRepo) SaveLedger(ctx context.Context, ledger *domain.JobTicketLedger) error {
	return m.Called(ctx, ledger).Error(0)
}
func (m *MockLedgerRepo) InsertConsumption(ctx context.Context, c *domain.TicketConsumption) error {
	return m.Called(ctx, c).Error(0)
}
func (m *MockLedgerRepo) ListConsumptions(ctx context.Context, jobID string, page domain.Page) ([]domain.TicketConsumption, int64, error) {
	args := m.Called(ctx, jobID, page)
	return args.Get(0).([]domain.TicketConsumption), args.Get(1).(int64), args.Error(2)
}

type MockScoutRepo struct {
	mock.Mock
}

func (m *MockScoutRepo) scout(args mock.Arguments) (*domain.Scout, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Scout), args.Error(1)
}

func (m *MockScoutRepo) Create(ctx context.Context, scout *domain.Scout) error {
	return m.Called(ctx, scout).Error(0)
}
func (m *MockScoutRepo) GetByID(ctx context.Context, id string) (*domain.Scout, error) {
	return m.scout(m.Called(ctx, id))
}
func (m *MockScoutRepo) LockByID(ctx context.Context, id string) (*domain.Scout, error) {
	return m.scout(m.Called(ctx, id))
}
func (m *MockScoutRepo) ListBySeeker(ctx context.Context, seekerID string, page domain.Page) ([]domain.Scout, int64, error) {
	args := m.Called(ctx, seekerID, page)
	return args.Get(0).([]domain.Scout), args.Get(1).(int64), args.Error(2)
}
func (m *MockScoutRepo) ListByCompany(ctx context.Context, companyID string, page domain.Page) ([]domain.Scout, int64, error) {
	args := m.Called(ctx, companyID, page)
	return args.Get(0).([]domain.Scout), args.Get(1).(int64), args.Error(2)
}
func (m *MockScoutRepo) UpdateStatus(ctx context.Context, scout *domain.Scout) error {
	return m.Called(ctx, scout).Error(0)
}
func (m *MockScoutRepo) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockScoutRepo) ExistsBetween(ctx context.Context, companyID, seekerID string) (bool, error) {
	args := m.Called(ctx, companyID, seekerID)
	return args.Bool(0), args.Error(1)
}

type MockApplicationRepo struct {
	mock.Mock
}

func (m *MockApplicationRepo) app(args mock.Arguments) (*domain.Application, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockApplicationRepo) Create(ctx context.Context, app *domain.Application) error {
	return m.Called(ctx, app).Error(0)
}
func (m *MockApplicationRepo) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	return m.app(m.Called(ctx, id))
}
func (m *MockApplicationRepo) LockByID(ctx context.Context, id string) (*domain.Application, error) {
	return m.app(m.Called(ctx, id))
}
func (m *MockApplicationRepo) ListByApplicant(ctx context.Context, applicantID string, page domain.Page) ([]domain.Application, int64, error) {
	args := m.Called(ctx, applicantID, page)
	return args.Get(0).([]domain.Application), args.Get(1).(int64), args.Error(2)
}
func (m *MockApplicationRepo) ListByCompany(ctx context.Context, companyID, status string, page domain.Page) ([]domain.Application, int64, error) {
	args := m.Called(ctx, companyID, status, page)
	return args.Get(0).([]domain.Application), args.Get(1).(int64), args.Error(2)
}
func (m *MockApplicationRepo) UpdateStatus(ctx context.Context, app *domain.Application) error {
	return m.Called(ctx, app).Error(0)
}
func (m *MockApplicationRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockApplicationRepo) ExistsBetween(ctx context.Context, applicantID, companyID string) (bool, error) {
	args := m.Called(ctx, applicantID, companyID)
	return args.Bool(0), args.Error(1)
}

type MockResumeRepo struct {
	mock.Mock
}

func (m *MockResumeRepo) resume(args mock.Arguments) (*domain.Resume, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resume), args.Error(1)
}

func (m *MockResumeRepo) Create(ctx context.Context, resume *domain.Resume) error {
	return m.Called(ctx, resume).Error(0)
}
func (m *MockResumeRepo) GetByID(ctx context.Context, id string) (*domain.Resume, error) {
	return m.resume(m.Called(ctx, id))
}
func (m *MockResumeRepo) ListByUser(ctx context.Context, userID string, page domain.Page) ([]domain.Resume, int64, error) {
	args := m.Called(ctx, userID, page)
	return args.Get(0).([]domain.Resume), args.Get(1).(int64), args.Error(2)
}
func (m *MockResumeRepo) Update(ctx context.Context, resume *domain.Resume) error {
	return m.Called(ctx, resume).Error(0)
}
func (m *MockResumeRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockResumeRepo) Activate(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}
func (m *MockResumeRepo) MarkSubmitted(ctx context.Context, id string, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}
func (m *MockResumeRepo) GetActiveByUser(ctx context.Context, userID string) (*domain.Resume, error) {
	return m.resume(m.Called(ctx, userID))
}

type MockInterviewRepo struct {
	mock.Mock
}

func (m *MockInterviewRepo) slot(args mock.Arguments) (*domain.InterviewSlot, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InterviewSlot), args.Error(1)
}

func (m *MockInterviewRepo) CreateMany(ctx context.Context, slots []domain.InterviewSlot) error {
	return m.Called(ctx, slots).Error(0)
}
func (m *MockInterviewRepo) GetByID(ctx context.Context, id string) (*domain.InterviewSlot, error) {
	return m.slot(m.Called(ctx, id))
}
func (m *MockInterviewRepo) LockByID(ctx context.Context, id string) (*domain.InterviewSlot, error) {
	return m.slot(m.Called(ctx, id))
}
func (m *MockInterviewRepo) ListByPair(ctx context.Context, jobPostingID, seekerID string, page domain.Page) ([]domain.InterviewSlot, int64, error) {
	args := m.Called(ctx, jobPostingID, seekerID, page)
	return args.Get(0).([]domain.InterviewSlot), args.Get(1).(int64), args.Error(2)
}
func (m *MockInterviewRepo) ListBySeeker(ctx context.Context, seekerID string, page domain.Page) ([]domain.InterviewSlot, int64, error) {
	args := m.Called(ctx, seekerID, page)
	return args.Get(0).([]domain.InterviewSlot), args.Get(1).(int64), args.Error(2)
}
func (m *MockInterviewRepo) ListByCompany(ctx context.Context, companyID string, page domain.Page) ([]domain.InterviewSlot, int64, error) {
	args := m.Called(ctx, companyID, page)
	return args.Get(0).([]domain.InterviewSlot), args.Get(1).(int64), args.Error(2)
}
func (m *MockInterviewRepo) UpdateStatus(ctx context.Context, slot *domain.InterviewSlot) error {
	return m.Called(ctx, slot).Error(0)
}
func (m *MockInterviewRepo) DeclineOtherProposed(ctx context.Context, jobPostingID, seekerID, keepID string) (int64, error) {
	args := m.Called(ctx, jobPostingID, seekerID, keepID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockInterviewRepo) ExpirePast(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type MockMessageRepo struct {
	mock.Mock
}

func (m *MockMessageRepo) Create(ctx context.Context, msg *domain.Message) error {
	return m.Called(ctx, msg).Error(0)
}
func (m *MockMessageRepo) GetByID(ctx context.Context, id string) (*domain.Message, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Message), args.Error(1)
}
func (m *MockMessageRepo) ListInbox(ctx context.Context, userID string, page domain.Page) ([]domain.Message, int64, error) {
	args := m.Called(ctx, userID, page)
	return args.Get(0).([]domain.Message), args.Get(1).(int64), args.Error(2)
}
func (m *MockMessageRepo) ListSent(ctx context.Context, userID string, page domain.Page) ([]domain.Message, int64, error) {
	args := m.Called(ctx, userID, page)
	return args.Get(0).([]domain.Message), args.Get(1).(int64), args.Error(2)
}
func (m *MockMessageRepo) Thread(ctx context.Context, id string) ([]domain.Message, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]domain.Message), args.Error(1)
}
func (m *MockMessageRepo) MarkRead(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockBillingRepo struct {
	mock.Mock
}

func (m *MockBillingRepo) Create(ctx context.Context, record *domain.BillingRecord) error {
	return m.Called(ctx, record).Error(0)
}
func (m *MockBillingRepo) GetByExternalRef(ctx context.Context, ref string) (*domain.BillingRecord, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BillingRecord), args.Error(1)
}
func (m *MockBillingRepo) ListByUser(ctx context.Context, userID string, page domain.Page) ([]domain.BillingRecord, int64, error) {
	args := m.Called(ctx, userID, page)
	return args.Get(0).([]domain.BillingRecord), args.Get(1).(int64), args.Error(2)
}

func strPtr(s string) *string { return &s }
func int64Ptr(n int64) *int64 { return &n }
