package trialbalance

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/TaxStatsCloud/SubmitSmart-sub005/internal/ledger"
	"github.com/TaxStatsCloud/SubmitSmart-sub005/internal/platform/db"
)

// Repository persists ledgers keyed by (company, period).
type Repository interface {
	Load(ctx context.Context, companyID, periodID string) (ledger.TrialBalance, error)
	SaveJournal(ctx context.Context, companyID, periodID string, entry ledger.JournalEntry, source ledger.Source, tb ledger.TrialBalance) error
	SaveExtraction(ctx context.Context, companyID, periodID string, batch ledger.DocumentExtraction, tb ledger.TrialBalance) error
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs the Postgres-backed repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) Load(ctx context.Context, companyID, periodID string) (ledger.TrialBalance, error) {
	rows, err := r.db.Query(ctx, `SELECT account_code, account_name, debit, credit, source, document_ref, adjustment_ref
FROM trial_balance_rows WHERE company_id=$1 AND period_id=$2 ORDER BY position`, companyID, periodID)
	if err != nil {
		return ledger.TrialBalance{}, err
	}
	defer rows.Close()
	var tbRows []ledger.Row
	for rows.Next() {
		var row ledger.Row
		var debit, credit string
		if err := rows.Scan(&row.AccountCode, &row.AccountName, &debit, &credit, &row.Source, &row.DocumentRef, &row.AdjustmentRef); err != nil {
			return ledger.TrialBalance{}, err
		}
		if row.Debit, err = decimal.NewFromString(debit); err != nil {
			return ledger.TrialBalance{}, err
		}
		if row.Credit, err = decimal.NewFromString(credit); err != nil {
			return ledger.TrialBalance{}, err
		}
		tbRows = append(tbRows, row)
	}
	if err := rows.Err(); err != nil {
		return ledger.TrialBalance{}, err
	}

	applied, err := r.appliedEntries(ctx, companyID, periodID)
	if err != nil {
		return ledger.TrialBalance{}, err
	}
	batches, err := r.appliedBatches(ctx, companyID, periodID)
	if err != nil {
		return ledger.TrialBalance{}, err
	}
	return ledger.RestoreTrialBalance(tbRows, applied, batches), nil
}

func (r *repository) appliedEntries(ctx context.Context, companyID, periodID string) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `SELECT entry_id FROM applied_entries WHERE company_id=$1 AND period_id=$2`, companyID, periodID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *repository) appliedBatches(ctx context.Context, companyID, periodID string) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT batch_id FROM applied_batches WHERE company_id=$1 AND period_id=$2`, companyID, periodID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *repository) SaveJournal(ctx context.Context, companyID, periodID string, entry ledger.JournalEntry, source ledger.Source, tb ledger.TrialBalance) error {
	return db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `INSERT INTO journal_entries (id, company_id, period_id, date, description, reference, source)
VALUES ($1,$2,$3,$4,$5,$6,$7)`, entry.ID, companyID, periodID, entry.Date, entry.Description, entry.Reference, source); err != nil {
			return mapUniqueViolation(err, ledger.ErrDuplicateEntry)
		}
		for idx, line := range entry.Lines {
			if line.Empty() {
				continue
			}
			if _, err := tx.Exec(ctx, `INSERT INTO journal_lines (entry_id, position, account_code, debit, credit)
VALUES ($1,$2,$3,$4,$5)`, entry.ID, idx, line.AccountCode, line.Debit.StringFixed(2), line.Credit.StringFixed(2)); err != nil {
				return err
			}
		}
		if _, err := tx.Exec(ctx, `INSERT INTO applied_entries (company_id, period_id, entry_id) VALUES ($1,$2,$3)`,
			companyID, periodID, entry.ID); err != nil {
			return mapUniqueViolation(err, ledger.ErrDuplicateEntry)
		}
		return replaceRows(ctx, tx, companyID, periodID, tb)
	})
}

func (r *repository) SaveExtraction(ctx context.Context, companyID, periodID string, batch ledger.DocumentExtraction, tb ledger.TrialBalance) error {
	return db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `INSERT INTO applied_batches (company_id, period_id, batch_id, processed_documents)
VALUES ($1,$2,$3,$4)`, companyID, periodID, batch.BatchID, batch.ProcessedDocuments); err != nil {
			return mapUniqueViolation(err, ledger.ErrDuplicateBatch)
		}
		return replaceRows(ctx, tx, companyID, periodID, tb)
	})
}

// replaceRows rewrites the materialised rows for the period. The ledger
// is small per period; replacing keeps row state identical to the
// in-memory snapshot the merge produced.
func replaceRows(ctx context.Context, tx pgx.Tx, companyID, periodID string, tb ledger.TrialBalance) error {
	if _, err := tx.Exec(ctx, `DELETE FROM trial_balance_rows WHERE company_id=$1 AND period_id=$2`, companyID, periodID); err != nil {
		return err
	}
	for idx, row := range tb.Rows() {
		if _, err := tx.Exec(ctx, `INSERT INTO trial_balance_rows
(company_id, period_id, position, account_code, account_name, debit, credit, source, document_ref, adjustment_ref)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
			companyID, periodID, idx, row.AccountCode, row.AccountName,
			row.Debit.StringFixed(2), row.Credit.StringFixed(2), row.Source, row.DocumentRef, row.AdjustmentRef); err != nil {
			return err
		}
	}
	return nil
}

// mapUniqueViolation converts a Postgres unique violation into the soft
// duplicate error. The in-memory applied set normally catches replays
// first; the constraint is the backstop for concurrent writers.
func mapUniqueViolation(err error, sentinel error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return sentinel
	}
	return err
}
