package services_test

import (
	"context"
	"encoding/json"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/finlytics/ledger-core/internal/core/domain"
	portsrepo "github.com/finlytics/ledger-core/internal/core/ports/repositories"
	portssvc "github.com/finlytics/ledger-core/internal/core/ports/services"
)

// --- Mock AccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepository = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) UpsertAccounts(ctx context.Context, accounts []domain.Account) error {
	args := m.Called(ctx, accounts)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountsByCodes(ctx context.Context, tenantID string, codes []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, tenantID, codes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, tenantID string) ([]domain.Account, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

// --- Mock EventRepository ---

type MockEventRepository struct {
	mock.Mock
}

var _ portsrepo.EventRepository = (*MockEventRepository)(nil)

func (m *MockEventRepository) SaveEvent(ctx context.Context, event domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) FindEventByID(ctx context.Context, tenantID, eventID string) (*domain.Event, error) {
	args := m.Called(ctx, tenantID, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *MockEventRepository) MarkProcessed(ctx context.Context, eventID string) error {
	args := m.Called(ctx, eventID)
	return args.Error(0)
}

func (m *MockEventRepository) MarkFailed(ctx context.Context, eventID string, reason string) error {
	args := m.Called(ctx, eventID, reason)
	return args.Error(0)
}

func (m *MockEventRepository) ListPending(ctx context.Context, tenantID string, limit int) ([]domain.Event, error) {
	args := m.Called(ctx, tenantID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *MockEventRepository) ListPendingOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]domain.Event, error) {
	args := m.Called(ctx, cutoff, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *MockEventRepository) ListUnresolved(ctx context.Context, tenantID string, limit int) ([]domain.Event, error) {
	args := m.Called(ctx, tenantID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Event), args.Error(1)
}

// --- Mock TransactionRepository ---

type MockTransactionRepository struct {
	mock.Mock
}

var _ portsrepo.TransactionRepository = (*MockTransactionRepository)(nil)

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction, entries []domain.Entry) error {
	args := m.Called(ctx, txn, entries)
	return args.Error(0)
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, tenantID, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, tenantID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindTransactionBySourceEventID(ctx context.Context, tenantID, eventID string) (*domain.Transaction, error) {
	args := m.Called(ctx, tenantID, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindEntriesByTransactionID(ctx context.Context, transactionID string) ([]domain.Entry, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Entry), args.Error(1)
}

// --- Mock ReportingRepository ---

type MockReportingRepository struct {
	mock.Mock
}

var _ portsrepo.ReportingRepository = (*MockReportingRepository)(nil)

func (m *MockReportingRepository) GetAccountSummaries(ctx context.Context, tenantID string, accountTypes []domain.AccountType, from, to time.Time) ([]domain.AccountSummaryRow, error) {
	args := m.Called(ctx, tenantID, accountTypes, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountSummaryRow), args.Error(1)
}

// --- Mock AccountSvcFacade ---

type MockAccountService struct {
	mock.Mock
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

func (m *MockAccountService) EnsureBootstrapped(ctx context.Context, tenantID string) error {
	args := m.Called(ctx, tenantID)
	return args.Error(0)
}

func (m *MockAccountService) Resolve(ctx context.Context, tenantID, code string) (string, error) {
	args := m.Called(ctx, tenantID, code)
	return args.String(0), args.Error(1)
}

func (m *MockAccountService) ResolveMany(ctx context.Context, tenantID string, codes []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, tenantID, codes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, tenantID string) ([]domain.Account, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

// --- Mock EventSvcFacade ---

type MockEventService struct {
	mock.Mock
}

var _ portssvc.EventSvcFacade = (*MockEventService)(nil)

func (m *MockEventService) Append(ctx context.Context, tenantID, streamType, eventType string, payload json.RawMessage) (*domain.Event, error) {
	args := m.Called(ctx, tenantID, streamType, eventType, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *MockEventService) GetEvent(ctx context.Context, tenantID, eventID string) (*domain.Event, error) {
	args := m.Called(ctx, tenantID, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *MockEventService) MarkProcessed(ctx context.Context, eventID string) error {
	args := m.Called(ctx, eventID)
	return args.Error(0)
}

func (m *MockEventService) MarkFailed(ctx context.Context, eventID string, reason string) error {
	args := m.Called(ctx, eventID, reason)
	return args.Error(0)
}

func (m *MockEventService) ListPending(ctx context.Context, tenantID string, limit int) ([]domain.Event, error) {
	args := m.Called(ctx, tenantID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *MockEventService) ListPendingForRetry(ctx context.Context, olderThan time.Duration, limit int) ([]domain.Event, error) {
	args := m.Called(ctx, olderThan, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *MockEventService) ListUnresolved(ctx context.Context, tenantID string, limit int) ([]domain.Event, error) {
	args := m.Called(ctx, tenantID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Event), args.Error(1)
}

// --- Mock PosterSvcFacade ---

type MockPosterService struct {
	mock.Mock
}

var _ portssvc.PosterSvcFacade = (*MockPosterService)(nil)

func (m *MockPosterService) Post(ctx context.Context, tenantID, description string, instructions []domain.EntryInstruction, sourceEventID *string) (*domain.Transaction, error) {
	args := m.Called(ctx, tenantID, description, instructions, sourceEventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockPosterService) Reverse(ctx context.Context, tenantID, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, tenantID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockPosterService) GetTransaction(ctx context.Context, tenantID, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, tenantID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
