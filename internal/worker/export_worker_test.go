package worker

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"moneypilot/internal/amqp"
	"moneypilot/internal/core"
	"moneypilot/internal/storage"
)

type fakeWriter struct {
	appended []core.Transaction
	fail     bool
}

func (f *fakeWriter) Append(_ context.Context, tx core.Transaction) (string, error) {
	if f.fail {
		return "", errors.New("sheets unavailable")
	}
	f.appended = append(f.appended, tx)
	return fmt.Sprintf("Transactions!A%d:E%d", len(f.appended), len(f.appended)), nil
}

func newTestWorker(t *testing.T, writer TransactionWriter) (*ExportWorker, *storage.SQLiteRepository) {
	t.Helper()

	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	return NewExportWorker(repo, writer, 10), repo
}

func TestHandleSyncMessage(t *testing.T) {
	writer := &fakeWriter{}
	w, repo := newTestWorker(t, writer)
	ctx := context.Background()

	tx, err := repo.CreateTransaction(ctx, core.Transaction{
		Type: core.TypeExpense, Category: "Food", Amount: 12.50, Date: core.NewDate(2024, 3, 1),
	})
	if err != nil {
		t.Fatalf("CreateTransaction() error = %v", err)
	}

	msg := amqp.NewTransactionSyncMessage(tx.ID, 1)
	if err := w.HandleSyncMessage(ctx, msg); err != nil {
		t.Fatalf("HandleSyncMessage() error = %v", err)
	}

	if len(writer.appended) != 1 || writer.appended[0].ID != tx.ID {
		t.Errorf("appended = %+v, want the created transaction", writer.appended)
	}

	pending, err := repo.GetPendingSyncTransactions(ctx, 10)
	if err != nil {
		t.Fatalf("GetPendingSyncTransactions() error = %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("pending after export = %d rows, want 0", len(pending))
	}
}

func TestHandleSyncMessage_MissingTransaction(t *testing.T) {
	w, _ := newTestWorker(t, &fakeWriter{})

	msg := amqp.NewTransactionSyncMessage(999, 1)
	if err := w.HandleSyncMessage(context.Background(), msg); err == nil {
		t.Error("HandleSyncMessage() should fail for a missing transaction")
	}
}

func TestHandleDeleteMessage(t *testing.T) {
	writer := &fakeWriter{}
	w, repo := newTestWorker(t, writer)
	ctx := context.Background()

	tx, err := repo.CreateTransaction(ctx, core.Transaction{
		Type: core.TypeExpense, Category: "Food", Amount: 5, Date: core.NewDate(2024, 3, 1),
	})
	if err != nil {
		t.Fatalf("CreateTransaction() error = %v", err)
	}

	// Deletes are log-only, nothing gets appended and nothing fails.
	if err := w.HandleDeleteMessage(ctx, amqp.NewTransactionDeleteMessage(tx.ID)); err != nil {
		t.Fatalf("HandleDeleteMessage() error = %v", err)
	}
	if len(writer.appended) != 0 {
		t.Errorf("appended = %d rows, want 0 for a delete", len(writer.appended))
	}
}

func TestProcessPending(t *testing.T) {
	writer := &fakeWriter{}
	w, repo := newTestWorker(t, writer)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := repo.CreateTransaction(ctx, core.Transaction{
			Type: core.TypeExpense, Category: "Food", Amount: float64(i + 1), Date: core.NewDate(2024, 3, i+1),
		}); err != nil {
			t.Fatalf("CreateTransaction() error = %v", err)
		}
	}

	if err := w.ProcessPending(ctx); err != nil {
		t.Fatalf("ProcessPending() error = %v", err)
	}
	if len(writer.appended) != 3 {
		t.Errorf("appended = %d rows, want 3", len(writer.appended))
	}

	// A second pass finds nothing left to do.
	writer.appended = nil
	if err := w.ProcessPending(ctx); err != nil {
		t.Fatalf("ProcessPending() second pass error = %v", err)
	}
	if len(writer.appended) != 0 {
		t.Errorf("second pass appended = %d rows, want 0", len(writer.appended))
	}
}

func TestExportFailureMarksSyncError(t *testing.T) {
	writer := &fakeWriter{fail: true}
	w, repo := newTestWorker(t, writer)
	ctx := context.Background()

	if _, err := repo.CreateTransaction(ctx, core.Transaction{
		Type: core.TypeExpense, Category: "Food", Amount: 5, Date: core.NewDate(2024, 3, 1),
	}); err != nil {
		t.Fatalf("CreateTransaction() error = %v", err)
	}

	if err := w.ProcessPending(ctx); err != nil {
		t.Fatalf("ProcessPending() error = %v", err)
	}

	// The failed row is parked with a sync error, not retried forever.
	pending, err := repo.GetPendingSyncTransactions(ctx, 10)
	if err != nil {
		t.Fatalf("GetPendingSyncTransactions() error = %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("pending after failed export = %d rows, want 0", len(pending))
	}
}

func TestStartupCheck(t *testing.T) {
	writer := &fakeWriter{}
	w, repo := newTestWorker(t, writer)
	ctx := context.Background()

	if err := w.StartupCheck(ctx); err != nil {
		t.Fatalf("StartupCheck() with empty db error = %v", err)
	}

	if _, err := repo.CreateTransaction(ctx, core.Transaction{
		Type: core.TypeIncome, Category: "Salary", Amount: 2000, Date: core.NewDate(2024, 3, 1),
	}); err != nil {
		t.Fatalf("CreateTransaction() error = %v", err)
	}

	if err := w.StartupCheck(ctx); err != nil {
		t.Fatalf("StartupCheck() error = %v", err)
	}
	if len(writer.appended) != 1 {
		t.Errorf("appended = %d rows, want 1", len(writer.appended))
	}
}
