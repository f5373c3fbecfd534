package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finlytics/ledger-core/internal/apperrors"
	"github.com/finlytics/ledger-core/internal/core/domain"
	portsrepo "github.com/finlytics/ledger-core/internal/core/ports/repositories"
	portssvc "github.com/finlytics/ledger-core/internal/core/ports/services"
)

// accountService implements the chart of accounts directory.
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepository
}

// NewAccountService creates a new account directory service.
func NewAccountService(accountRepo portsrepo.AccountRepository) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// EnsureBootstrapped guarantees the tenant has the full default chart of
// accounts. The repository upsert is conditional on (tenant_id, code), so two
// concurrent first-time callers both succeed and converge on one account set.
func (s *accountService) EnsureBootstrapped(ctx context.Context, tenantID string) error {
	if tenantID == "" {
		return fmt.Errorf("%w: tenant id is required", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	accounts := domain.DefaultChart()
	for i := range accounts {
		accounts[i].AccountID = uuid.NewString()
		accounts[i].TenantID = tenantID
		accounts[i].AuditFields = domain.AuditFields{
			CreatedAt: now,
			CreatedBy: "bootstrap",
		}
	}

	if err := s.accountRepo.UpsertAccounts(ctx, accounts); err != nil {
		s.LogError(ctx, err, "Failed to bootstrap chart of accounts", slog.String("tenant_id", tenantID))
		return fmt.Errorf("failed to bootstrap chart of accounts for tenant %s: %w", tenantID, err)
	}

	s.LogDebug(ctx, "Chart of accounts bootstrapped", slog.String("tenant_id", tenantID), slog.Int("account_count", len(accounts)))
	return nil
}

// Resolve maps a chart code to its account id within the tenant.
func (s *accountService) Resolve(ctx context.Context, tenantID, code string) (string, error) {
	accounts, err := s.ResolveMany(ctx, tenantID, []string{code})
	if err != nil {
		return "", err
	}
	return accounts[code].AccountID, nil
}

// ResolveMany resolves a set of chart codes in one round trip. A single
// missing code fails the whole call: a posting instruction referencing an
// unregistered account can never legally balance, so this is a hard error,
// never a silent skip.
func (s *accountService) ResolveMany(ctx context.Context, tenantID string, codes []string) (map[string]domain.Account, error) {
	unique := uniqueStrings(codes)
	accounts, err := s.accountRepo.FindAccountsByCodes(ctx, tenantID, unique)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch accounts by codes", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}

	for _, code := range unique {
		if _, found := accounts[code]; !found {
			return nil, fmt.Errorf("%w: code %s is not registered for tenant %s",
				apperrors.ErrUnknownAccount, code, tenantID)
		}
	}
	return accounts, nil
}

// ListAccounts returns the tenant's chart, bootstrapping it on first touch.
func (s *accountService) ListAccounts(ctx context.Context, tenantID string) ([]domain.Account, error) {
	if err := s.EnsureBootstrapped(ctx, tenantID); err != nil {
		return nil, err
	}
	accounts, err := s.accountRepo.ListAccounts(ctx, tenantID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// uniqueStrings returns a slice containing only the unique strings from the input.
func uniqueStrings(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	result := make([]string, 0, len(input))
	for _, str := range input {
		if _, ok := seen[str]; !ok {
			seen[str] = struct{}{}
			result = append(result, str)
		}
	}
	return result
}
