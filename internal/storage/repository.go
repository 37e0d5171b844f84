package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"moneypilot/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (type, category, description, amount, date)
		 VALUES (?, ?, ?, ?, ?)`,
		string(tx.Type), tx.Category, tx.Description, tx.Amount, tx.Date.ISO())
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction id: %w", err)
	}
	tx.ID = id

	slog.InfoContext(ctx, "Transaction saved",
		"id", tx.ID,
		"type", tx.Type,
		"category", tx.Category,
		"amount", tx.Amount,
		"date", tx.Date.ISO())

	return tx, nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (*core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, type, category, description, amount, date
		 FROM transactions WHERE id = ?`, id)

	tx, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get transaction by id: %w", err)
	}
	return tx, nil
}

// UpdateTransaction replaces the stored record and queues it for re-export.
func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, tx core.Transaction) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions
		 SET type = ?, category = ?, description = ?, amount = ?, date = ?,
		     synced = 0, sync_error = 0, version = version + 1,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		string(tx.Type), tx.Category, tx.Description, tx.Amount, tx.Date.ISO(), tx.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update transaction rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	slog.InfoContext(ctx, "Transaction updated", "id", tx.ID)
	return nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	slog.InfoContext(ctx, "Transaction deleted", "id", id)
	return nil
}

// ListTransactions returns transactions ordered by date, oldest first. A nil
// range returns everything.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, rng *core.DateRange) ([]core.Transaction, error) {
	query := `SELECT id, type, category, description, amount, date
		  FROM transactions`
	args := []any{}
	if rng != nil {
		query += ` WHERE date >= ? AND date <= ?`
		args = append(args, rng.Start.ISO(), rng.End.ISO())
	}
	query += ` ORDER BY date, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, *tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	return txs, nil
}

func (r *SQLiteRepository) CreateWorkDay(ctx context.Context, wd core.WorkDay) (core.WorkDay, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO work_days (date, hours_worked, daily_rate, status)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (date) DO UPDATE SET
		     hours_worked = excluded.hours_worked,
		     daily_rate = excluded.daily_rate,
		     status = excluded.status,
		     updated_at = CURRENT_TIMESTAMP`,
		wd.Date.ISO(), wd.HoursWorked, wd.DailyRate, string(wd.Status))
	if err != nil {
		return core.WorkDay{}, fmt.Errorf("create work day: %w", err)
	}

	// LastInsertId is meaningless on the upsert's update path, so resolve
	// the id through the unique date instead.
	var id int64
	row := r.db.QueryRowContext(ctx, `SELECT id FROM work_days WHERE date = ?`, wd.Date.ISO())
	if err := row.Scan(&id); err != nil {
		return core.WorkDay{}, fmt.Errorf("get upserted work day id: %w", err)
	}
	wd.ID = id

	slog.InfoContext(ctx, "Work day saved",
		"id", wd.ID,
		"date", wd.Date.ISO(),
		"hours", wd.HoursWorked,
		"status", wd.Status)

	return wd, nil
}

func (r *SQLiteRepository) GetWorkDay(ctx context.Context, id int64) (*core.WorkDay, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, date, hours_worked, daily_rate, status
		 FROM work_days WHERE id = ?`, id)

	wd, err := scanWorkDay(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get work day by id: %w", err)
	}
	return wd, nil
}

func (r *SQLiteRepository) UpdateWorkDay(ctx context.Context, wd core.WorkDay) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE work_days
		 SET date = ?, hours_worked = ?, daily_rate = ?, status = ?,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		wd.Date.ISO(), wd.HoursWorked, wd.DailyRate, string(wd.Status), wd.ID)
	if err != nil {
		return fmt.Errorf("update work day: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update work day rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	slog.InfoContext(ctx, "Work day updated", "id", wd.ID)
	return nil
}

func (r *SQLiteRepository) DeleteWorkDay(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM work_days WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete work day: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete work day rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	slog.InfoContext(ctx, "Work day deleted", "id", id)
	return nil
}

// ListWorkDays returns work days ordered by date, oldest first. A nil range
// returns everything.
func (r *SQLiteRepository) ListWorkDays(ctx context.Context, rng *core.DateRange) ([]core.WorkDay, error) {
	query := `SELECT id, date, hours_worked, daily_rate, status FROM work_days`
	args := []any{}
	if rng != nil {
		query += ` WHERE date >= ? AND date <= ?`
		args = append(args, rng.Start.ISO(), rng.End.ISO())
	}
	query += ` ORDER BY date`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list work days: %w", err)
	}
	defer rows.Close()

	var days []core.WorkDay
	for rows.Next() {
		wd, err := scanWorkDay(rows)
		if err != nil {
			return nil, fmt.Errorf("scan work day: %w", err)
		}
		days = append(days, *wd)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list work days: %w", err)
	}

	return days, nil
}

// GetTransactionVersion returns the current version counter of a transaction.
func (r *SQLiteRepository) GetTransactionVersion(ctx context.Context, id int64) (int64, error) {
	var version int64
	row := r.db.QueryRowContext(ctx, `SELECT version FROM transactions WHERE id = ?`, id)
	if err := row.Scan(&version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("get transaction version: %w", err)
	}
	return version, nil
}

// PendingSyncTransaction represents minimal data needed for sync queue messages
type PendingSyncTransaction struct {
	ID        int64
	Version   int64
	CreatedAt time.Time
}

// GetPendingSyncTransactions returns transactions that still need to be
// exported to Google Sheets.
func (r *SQLiteRepository) GetPendingSyncTransactions(ctx context.Context, limit int) ([]PendingSyncTransaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, version, created_at
		 FROM transactions
		 WHERE synced = 0 AND sync_error = 0
		 ORDER BY created_at
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending sync transactions: %w", err)
	}
	defer rows.Close()

	var pending []PendingSyncTransaction
	for rows.Next() {
		var p PendingSyncTransaction
		if err := rows.Scan(&p.ID, &p.Version, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pending sync transaction: %w", err)
		}
		pending = append(pending, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get pending sync transactions: %w", err)
	}

	return pending, nil
}

// MarkSynced marks a transaction as successfully exported
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET synced = 1, sync_error = 0, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark transaction synced: %w", err)
	}

	slog.InfoContext(ctx, "Transaction marked as synced", "id", id)
	return nil
}

// MarkSyncError marks a transaction as having export errors
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET sync_error = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark transaction sync error: %w", err)
	}

	slog.WarnContext(ctx, "Transaction marked with sync error", "id", id)
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*core.Transaction, error) {
	var (
		tx      core.Transaction
		txType  string
		dateISO string
	)
	if err := row.Scan(&tx.ID, &txType, &tx.Category, &tx.Description, &tx.Amount, &dateISO); err != nil {
		return nil, err
	}

	tx.Type = core.TransactionType(txType)
	date, err := core.ParseDate(dateISO)
	if err != nil {
		return nil, fmt.Errorf("parse stored date %q: %w", dateISO, err)
	}
	tx.Date = date

	return &tx, nil
}

func scanWorkDay(row rowScanner) (*core.WorkDay, error) {
	var (
		wd      core.WorkDay
		status  string
		dateISO string
	)
	if err := row.Scan(&wd.ID, &dateISO, &wd.HoursWorked, &wd.DailyRate, &status); err != nil {
		return nil, err
	}

	wd.Status = core.WorkDayStatus(status)
	date, err := core.ParseDate(dateISO)
	if err != nil {
		return nil, fmt.Errorf("parse stored date %q: %w", dateISO, err)
	}
	wd.Date = date

	return &wd, nil
}
