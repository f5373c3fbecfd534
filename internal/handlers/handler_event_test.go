package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/finlytics/ledger-core/internal/apperrors"
	"github.com/finlytics/ledger-core/internal/core/domain"
	portssvc "github.com/finlytics/ledger-core/internal/core/ports/services"
	"github.com/finlytics/ledger-core/internal/dto"
	"github.com/finlytics/ledger-core/internal/handlers"
)

// --- Mock ProcessorService ---

type MockProcessorService struct {
	mock.Mock
}

var _ portssvc.ProcessorSvcFacade = (*MockProcessorService)(nil)

func (m *MockProcessorService) Submit(ctx context.Context, tenantID, streamType, eventType string, payload json.RawMessage) (*domain.Event, error) {
	args := m.Called(ctx, tenantID, streamType, eventType, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *MockProcessorService) Process(ctx context.Context, event domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockProcessorService) Retry(ctx context.Context, tenantID, eventID string) (*domain.Event, error) {
	args := m.Called(ctx, tenantID, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *MockProcessorService) SweepPending(ctx context.Context, olderThan time.Duration, limit int) (int, error) {
	args := m.Called(ctx, olderThan, limit)
	return args.Int(0), args.Error(1)
}

// --- Mock EventService ---

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

// --- Mock AccountService ---

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

// --- Mock PosterService ---

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

// --- Mock ReportingService ---

type MockReportingService struct {
	mock.Mock
}

var _ portssvc.ReportingSvcFacade = (*MockReportingService)(nil)

func (m *MockReportingService) Summarize(ctx context.Context, tenantID string, accountTypes []domain.AccountType, from, to time.Time) (*domain.LedgerSummary, error) {
	args := m.Called(ctx, tenantID, accountTypes, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerSummary), args.Error(1)
}

func (m *MockReportingService) PeriodReport(ctx context.Context, tenantID string, from, to time.Time) (*domain.PeriodReport, error) {
	args := m.Called(ctx, tenantID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PeriodReport), args.Error(1)
}

// --- Test Suite ---

type EventHandlerTestSuite struct {
	suite.Suite
	router        *gin.Engine
	mockProcessor *MockProcessorService
	mockEvents    *MockEventService
	mockAccounts  *MockAccountService
	mockPoster    *MockPosterService
	mockReporting *MockReportingService
	tenantID      string
}

func (suite *EventHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.tenantID = "tenant-1"

	suite.mockProcessor = new(MockProcessorService)
	suite.mockEvents = new(MockEventService)
	suite.mockAccounts = new(MockAccountService)
	suite.mockPoster = new(MockPosterService)
	suite.mockReporting = new(MockReportingService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterHandlers(v1, handlers.Services{
		Accounts:  suite.mockAccounts,
		Events:    suite.mockEvents,
		Poster:    suite.mockPoster,
		Processor: suite.mockProcessor,
		Reporting: suite.mockReporting,
	})
}

func TestEventHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(EventHandlerTestSuite))
}

func (suite *EventHandlerTestSuite) serve(method, url string, body []byte) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req, _ = http.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, url, nil)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *EventHandlerTestSuite) TestSubmitEvent_Accepted() {
	payload := json.RawMessage(`{"total": "120.00", "tax": "20.00"}`)
	processed := &domain.Event{
		EventID:   "evt-1",
		TenantID:  suite.tenantID,
		EventType: "OrderCreated",
		Payload:   payload,
		Status:    domain.EventProcessed,
		CreatedAt: time.Now().UTC(),
	}
	suite.mockProcessor.On("Submit", mock.Anything, suite.tenantID, "orders", "OrderCreated", mock.Anything).
		Return(processed, nil).Once()

	body, _ := json.Marshal(dto.SubmitEventRequest{
		StreamType: "orders",
		EventType:  "OrderCreated",
		Payload:    payload,
	})
	w := suite.serve(http.MethodPost, fmt.Sprintf("/api/v1/tenants/%s/events", suite.tenantID), body)

	suite.Equal(http.StatusAccepted, w.Code)
	var resp dto.EventResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("evt-1", resp.EventID)
	suite.Equal(string(domain.EventProcessed), resp.Status)
	suite.mockProcessor.AssertExpectations(suite.T())
}

func (suite *EventHandlerTestSuite) TestSubmitEvent_FailedProcessingStillAccepted() {
	failed := &domain.Event{
		EventID:       "evt-1",
		TenantID:      suite.tenantID,
		EventType:     "BogusType",
		Status:        domain.EventFailed,
		FailureReason: "unknown event type: \"BogusType\"",
	}
	suite.mockProcessor.On("Submit", mock.Anything, suite.tenantID, "", "BogusType", mock.Anything).
		Return(failed, nil).Once()

	body := []byte(`{"eventType": "BogusType", "payload": {}}`)
	w := suite.serve(http.MethodPost, fmt.Sprintf("/api/v1/tenants/%s/events", suite.tenantID), body)

	suite.Equal(http.StatusAccepted, w.Code, "the event is durably recorded even though processing failed")
	var resp dto.EventResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(string(domain.EventFailed), resp.Status)
	suite.NotEmpty(resp.FailureReason)
}

func (suite *EventHandlerTestSuite) TestSubmitEvent_MissingEventType() {
	body := []byte(`{"streamType": "orders", "payload": {}}`)
	w := suite.serve(http.MethodPost, fmt.Sprintf("/api/v1/tenants/%s/events", suite.tenantID), body)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockProcessor.AssertNotCalled(suite.T(), "Submit")
}

func (suite *EventHandlerTestSuite) TestSubmitEvent_StoreUnavailable() {
	suite.mockProcessor.On("Submit", mock.Anything, suite.tenantID, "", "OrderCreated", mock.Anything).
		Return(nil, apperrors.ErrStoreUnavailable).Once()

	body := []byte(`{"eventType": "OrderCreated"}`)
	w := suite.serve(http.MethodPost, fmt.Sprintf("/api/v1/tenants/%s/events", suite.tenantID), body)

	suite.Equal(http.StatusServiceUnavailable, w.Code)
}

func (suite *EventHandlerTestSuite) TestListUnresolved() {
	events := []domain.Event{
		{EventID: "evt-1", Status: domain.EventPending},
		{EventID: "evt-2", Status: domain.EventFailed, FailureReason: "tax exceeds total"},
	}
	suite.mockEvents.On("ListUnresolved", mock.Anything, suite.tenantID, 50).Return(events, nil).Once()

	w := suite.serve(http.MethodGet, fmt.Sprintf("/api/v1/tenants/%s/events/unresolved", suite.tenantID), nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp struct {
		Events []dto.EventResponse `json:"events"`
	}
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Events, 2)
}

func (suite *EventHandlerTestSuite) TestRetryEvent() {
	recovered := &domain.Event{
		EventID:  "evt-1",
		TenantID: suite.tenantID,
		Status:   domain.EventProcessed,
	}
	suite.mockProcessor.On("Retry", mock.Anything, suite.tenantID, "evt-1").Return(recovered, nil).Once()

	w := suite.serve(http.MethodPost, fmt.Sprintf("/api/v1/tenants/%s/events/evt-1/retry", suite.tenantID), nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.EventResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(string(domain.EventProcessed), resp.Status)
}

func (suite *EventHandlerTestSuite) TestRetryEvent_NotFound() {
	suite.mockProcessor.On("Retry", mock.Anything, suite.tenantID, "missing").
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.serve(http.MethodPost, fmt.Sprintf("/api/v1/tenants/%s/events/missing/retry", suite.tenantID), nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *EventHandlerTestSuite) TestGetTransaction_NotFound() {
	suite.mockPoster.On("GetTransaction", mock.Anything, suite.tenantID, "txn-missing").
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.serve(http.MethodGet, fmt.Sprintf("/api/v1/tenants/%s/transactions/txn-missing", suite.tenantID), nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *EventHandlerTestSuite) TestReverseTransaction_Created() {
	originalID := "txn-1"
	reversal := &domain.Transaction{
		TransactionID: "txn-2",
		TenantID:      suite.tenantID,
		Description:   "Reversal of: Order ORD-1",
		ReversesID:    &originalID,
	}
	suite.mockPoster.On("Reverse", mock.Anything, suite.tenantID, "txn-1").Return(reversal, nil).Once()

	w := suite.serve(http.MethodPost, fmt.Sprintf("/api/v1/tenants/%s/transactions/txn-1/reverse", suite.tenantID), nil)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.TransactionResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("txn-2", resp.TransactionID)
	suite.NotNil(resp.ReversesID)
}

func (suite *EventHandlerTestSuite) TestReverseTransaction_ReversalOfReversalRejected() {
	suite.mockPoster.On("Reverse", mock.Anything, suite.tenantID, "txn-2").
		Return(nil, apperrors.ErrValidation).Once()

	w := suite.serve(http.MethodPost, fmt.Sprintf("/api/v1/tenants/%s/transactions/txn-2/reverse", suite.tenantID), nil)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *EventHandlerTestSuite) TestGetReport() {
	report := &domain.PeriodReport{
		From: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
	}
	suite.mockReporting.On("PeriodReport", mock.Anything, suite.tenantID, mock.Anything, mock.Anything).
		Return(report, nil).Once()

	url := fmt.Sprintf("/api/v1/tenants/%s/report?from=2025-06-01&to=2025-06-30", suite.tenantID)
	w := suite.serve(http.MethodGet, url, nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockReporting.AssertExpectations(suite.T())
}

func (suite *EventHandlerTestSuite) TestGetReport_BadWindow() {
	url := fmt.Sprintf("/api/v1/tenants/%s/report?from=junk", suite.tenantID)
	w := suite.serve(http.MethodGet, url, nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockReporting.AssertNotCalled(suite.T(), "PeriodReport")
}

func (suite *EventHandlerTestSuite) TestGetSummary_TypeFilter() {
	summary := &domain.LedgerSummary{}
	suite.mockReporting.On("Summarize", mock.Anything, suite.tenantID,
		[]domain.AccountType{domain.Revenue, domain.Expense}, mock.Anything, mock.Anything).
		Return(summary, nil).Once()

	url := fmt.Sprintf("/api/v1/tenants/%s/summary?type=revenue,expense", suite.tenantID)
	w := suite.serve(http.MethodGet, url, nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockReporting.AssertExpectations(suite.T())
}

func (suite *EventHandlerTestSuite) TestListAccounts() {
	accounts := []domain.Account{
		{AccountID: "acc-1", TenantID: suite.tenantID, Code: domain.CodeCash, Name: "Cash", AccountType: domain.Asset, NormalBalance: domain.Debit},
	}
	suite.mockAccounts.On("ListAccounts", mock.Anything, suite.tenantID).Return(accounts, nil).Once()

	w := suite.serve(http.MethodGet, fmt.Sprintf("/api/v1/tenants/%s/accounts", suite.tenantID), nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockAccounts.AssertExpectations(suite.T())
}
