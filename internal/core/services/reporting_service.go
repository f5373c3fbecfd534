package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finlytics/ledger-core/internal/apperrors"
	"github.com/finlytics/ledger-core/internal/core/domain"
	portsrepo "github.com/finlytics/ledger-core/internal/core/ports/repositories"
	portssvc "github.com/finlytics/ledger-core/internal/core/ports/services"
)

// reportingService aggregates raw entries into period summaries. Figures are
// always recomputed from entries; there is no cached balance to drift.
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
}

// NewReportingService creates a new reporting service.
func NewReportingService(reportingRepo portsrepo.ReportingRepository) portssvc.ReportingSvcFacade {
	return &reportingService{reportingRepo: reportingRepo}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// Summarize sums entries by account over [from, to], restricted to the tenant
// and optionally to a set of account types.
func (s *reportingService) Summarize(ctx context.Context, tenantID string, accountTypes []domain.AccountType, from, to time.Time) (*domain.LedgerSummary, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: report window end precedes start", apperrors.ErrValidation)
	}

	rows, err := s.reportingRepo.GetAccountSummaries(ctx, tenantID, accountTypes, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to aggregate entries",
			slog.String("tenant_id", tenantID),
			slog.String("from", from.Format(time.RFC3339)),
			slog.String("to", to.Format(time.RFC3339)))
		return nil, fmt.Errorf("failed to aggregate entries: %w", err)
	}

	summary := &domain.LedgerSummary{ByAccount: rows}
	for _, row := range rows {
		summary.TotalDebit = summary.TotalDebit.Add(row.TotalDebit)
		summary.TotalCredit = summary.TotalCredit.Add(row.TotalCredit)
	}
	return summary, nil
}

// PeriodReport composes revenue, expense, net result and spend efficiency
// from Summarize calls. The composition lives here, not in the aggregator, so
// the aggregator stays reusable for other report shapes.
func (s *reportingService) PeriodReport(ctx context.Context, tenantID string, from, to time.Time) (*domain.PeriodReport, error) {
	revenueSummary, err := s.Summarize(ctx, tenantID, []domain.AccountType{domain.Revenue}, from, to)
	if err != nil {
		return nil, err
	}
	expenseSummary, err := s.Summarize(ctx, tenantID, []domain.AccountType{domain.Expense}, from, to)
	if err != nil {
		return nil, err
	}

	report := &domain.PeriodReport{
		From:            from,
		To:              to,
		RevenueAccounts: revenueSummary.ByAccount,
		ExpenseAccounts: expenseSummary.ByAccount,
	}

	var marketingSpend decimal.Decimal
	for _, row := range revenueSummary.ByAccount {
		report.Revenue = report.Revenue.Add(row.Net())
	}
	for _, row := range expenseSummary.ByAccount {
		net := row.Net()
		report.Expense = report.Expense.Add(net)
		if row.AccountCode == domain.CodeMarketingSpend {
			marketingSpend = marketingSpend.Add(net)
		}
	}
	report.NetResult = report.Revenue.Sub(report.Expense)

	if marketingSpend.IsPositive() {
		report.SpendEfficiency = report.Revenue.DivRound(marketingSpend, 4)
	}

	s.LogInfo(ctx, "Period report generated",
		slog.String("tenant_id", tenantID),
		slog.String("revenue", report.Revenue.String()),
		slog.String("expense", report.Expense.String()))
	return report, nil
}
