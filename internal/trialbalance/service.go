package trialbalance

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/TaxStatsCloud/SubmitSmart-sub005/internal/ledger"
	"github.com/TaxStatsCloud/SubmitSmart-sub005/internal/shared"
	"github.com/TaxStatsCloud/SubmitSmart-sub005/internal/tax"
)

// Snapshot is the trial balance state returned to callers: the
// materialised rows plus the classified summary with the balance gate.
type Snapshot struct {
	CompanyID string         `json:"companyId"`
	PeriodID  string         `json:"periodId"`
	Rows      []ledger.Row   `json:"rows"`
	Summary   ledger.Summary `json:"summary"`
}

// MergeResult reports the snapshot after a merge and whether the merge
// resolved as a duplicate no-op.
type MergeResult struct {
	Snapshot  Snapshot
	Duplicate bool
}

// Service coordinates the pure ledger core with persistence, per-period
// write serialisation and snapshot caching.
type Service struct {
	repo   Repository
	coa    *ledger.ChartOfAccounts
	agg    *ledger.Aggregator
	locks  *shared.KeyedMutex
	cache  *Cache
	logger *slog.Logger
	sf     singleflight.Group
}

// NewService constructs the trial balance service. Cache may be nil.
func NewService(repo Repository, coa *ledger.ChartOfAccounts, cache *Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:   repo,
		coa:    coa,
		agg:    ledger.NewAggregator(coa),
		locks:  shared.NewKeyedMutex(),
		cache:  cache,
		logger: logger,
	}
}

// Chart exposes the chart of accounts used by the service.
func (s *Service) Chart() *ledger.ChartOfAccounts {
	return s.coa
}

// MergeJournal validates and merges a journal entry into the period
// ledger. Replay of a known entry ID resolves as a no-op with
// Duplicate set; the caller still receives the current snapshot.
func (s *Service) MergeJournal(ctx context.Context, companyID, periodID string, entry ledger.JournalEntry, source ledger.Source) (MergeResult, error) {
	unlock := s.locks.Lock(shared.LedgerLockKey(companyID, periodID))
	defer unlock()

	tb, err := s.repo.Load(ctx, companyID, periodID)
	if err != nil {
		return MergeResult{}, err
	}
	next, err := s.agg.Merge(tb, entry, source)
	if errors.Is(err, ledger.ErrDuplicateEntry) {
		s.logger.Warn("journal entry replay skipped",
			slog.String("company", companyID),
			slog.String("period", periodID),
			slog.String("entry", entry.ID.String()))
		snap, serr := s.snapshot(companyID, periodID, tb)
		if serr != nil {
			return MergeResult{}, serr
		}
		return MergeResult{Snapshot: snap, Duplicate: true}, nil
	}
	if err != nil {
		return MergeResult{}, err
	}
	if err := s.repo.SaveJournal(ctx, companyID, periodID, entry, source, next); err != nil {
		if errors.Is(err, ledger.ErrDuplicateEntry) {
			snap, serr := s.snapshot(companyID, periodID, tb)
			if serr != nil {
				return MergeResult{}, serr
			}
			return MergeResult{Snapshot: snap, Duplicate: true}, nil
		}
		return MergeResult{}, err
	}
	if err := s.cache.Bump(ctx); err != nil {
		s.logger.Warn("cache bump failed", slog.Any("error", err))
	}
	snap, err := s.snapshot(companyID, periodID, next)
	if err != nil {
		return MergeResult{}, err
	}
	return MergeResult{Snapshot: snap}, nil
}

// ApplyExtraction merges a document extraction batch as synthetic
// single-sided rows, tolerating redelivery of the same batch ID.
func (s *Service) ApplyExtraction(ctx context.Context, companyID, periodID string, batch ledger.DocumentExtraction) (MergeResult, error) {
	unlock := s.locks.Lock(shared.LedgerLockKey(companyID, periodID))
	defer unlock()

	tb, err := s.repo.Load(ctx, companyID, periodID)
	if err != nil {
		return MergeResult{}, err
	}
	next, err := s.agg.MergeExtraction(tb, batch)
	if errors.Is(err, ledger.ErrDuplicateBatch) {
		s.logger.Warn("extraction batch redelivery skipped",
			slog.String("company", companyID),
			slog.String("period", periodID),
			slog.String("batch", batch.BatchID))
		snap, serr := s.snapshot(companyID, periodID, tb)
		if serr != nil {
			return MergeResult{}, serr
		}
		return MergeResult{Snapshot: snap, Duplicate: true}, nil
	}
	if err != nil {
		return MergeResult{}, err
	}
	if err := s.repo.SaveExtraction(ctx, companyID, periodID, batch, next); err != nil {
		if errors.Is(err, ledger.ErrDuplicateBatch) {
			snap, serr := s.snapshot(companyID, periodID, tb)
			if serr != nil {
				return MergeResult{}, serr
			}
			return MergeResult{Snapshot: snap, Duplicate: true}, nil
		}
		return MergeResult{}, err
	}
	if err := s.cache.Bump(ctx); err != nil {
		s.logger.Warn("cache bump failed", slog.Any("error", err))
	}
	snap, err := s.snapshot(companyID, periodID, next)
	if err != nil {
		return MergeResult{}, err
	}
	return MergeResult{Snapshot: snap}, nil
}

// GetTrialBalance returns the current snapshot, served from cache when
// possible. Concurrent cache misses for the same key collapse into one
// repository load.
func (s *Service) GetTrialBalance(ctx context.Context, companyID, periodID string) (Snapshot, error) {
	key, err := s.cache.BuildKey(ctx, "trialbalance", companyID, periodID)
	if err != nil {
		return Snapshot{}, err
	}
	result, err, _ := s.sf.Do(key, func() (interface{}, error) {
		var snap Snapshot
		err := s.cache.FetchJSON(ctx, key, &snap, func(ctx context.Context) (interface{}, error) {
			tb, err := s.repo.Load(ctx, companyID, periodID)
			if err != nil {
				return nil, err
			}
			return s.snapshot(companyID, periodID, tb)
		})
		return snap, err
	})
	if err != nil {
		return Snapshot{}, err
	}
	return result.(Snapshot), nil
}

// ComputeTax derives a Corporation Tax computation from the period
// ledger combined with caller-supplied adjustments. An unbalanced
// ledger is refused with the exact difference.
func (s *Service) ComputeTax(ctx context.Context, companyID, periodID string, adj tax.Adjustments) (tax.Result, error) {
	tb, err := s.repo.Load(ctx, companyID, periodID)
	if err != nil {
		return tax.Result{}, err
	}
	input, err := tax.InputFromTrialBalance(tb, s.coa, adj)
	if err != nil {
		return tax.Result{}, err
	}
	return tax.Compute(input)
}

func (s *Service) snapshot(companyID, periodID string, tb ledger.TrialBalance) (Snapshot, error) {
	summary, err := ledger.Classify(tb, s.coa)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		CompanyID: companyID,
		PeriodID:  periodID,
		Rows:      tb.Rows(),
		Summary:   summary,
	}, nil
}
