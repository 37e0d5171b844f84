package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"moneypilot/internal/core"
	"moneypilot/internal/storage"
)

type fakePublisher struct {
	published []struct {
		ID      int64
		Version int64
	}
	deleted []int64
	fail    bool
}

func (f *fakePublisher) PublishTransactionSync(_ context.Context, id, version int64) error {
	if f.fail {
		return errors.New("broker down")
	}
	f.published = append(f.published, struct {
		ID      int64
		Version int64
	}{id, version})
	return nil
}

func (f *fakePublisher) PublishTransactionDelete(_ context.Context, id int64) error {
	if f.fail {
		return errors.New("broker down")
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func newTestService(t *testing.T, pub SyncPublisher) (*TransactionService, *storage.SQLiteRepository) {
	t.Helper()

	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	return NewTransactionService(repo, pub), repo
}

func TestCreateTransaction_PublishesSync(t *testing.T) {
	pub := &fakePublisher{}
	svc, _ := newTestService(t, pub)

	created, err := svc.CreateTransaction(context.Background(), core.Transaction{
		Type: core.TypeExpense, Category: "Food", Amount: 10, Date: core.NewDate(2024, 3, 1),
	})
	if err != nil {
		t.Fatalf("CreateTransaction() error = %v", err)
	}

	if len(pub.published) != 1 {
		t.Fatalf("published = %d messages, want 1", len(pub.published))
	}
	if pub.published[0].ID != created.ID || pub.published[0].Version != 1 {
		t.Errorf("published = %+v, want id=%d version=1", pub.published[0], created.ID)
	}
}

func TestCreateTransaction_ValidationError(t *testing.T) {
	pub := &fakePublisher{}
	svc, _ := newTestService(t, pub)

	_, err := svc.CreateTransaction(context.Background(), core.Transaction{
		Type: "transfer", Amount: 10, Date: core.NewDate(2024, 3, 1),
	})
	if !errors.Is(err, core.ErrInvalidType) {
		t.Errorf("CreateTransaction() error = %v, want ErrInvalidType", err)
	}
	if len(pub.published) != 0 {
		t.Errorf("published = %d messages, want 0 for rejected input", len(pub.published))
	}
}

func TestCreateTransaction_BrokerFailureIsNotFatal(t *testing.T) {
	pub := &fakePublisher{fail: true}
	svc, repo := newTestService(t, pub)
	ctx := context.Background()

	created, err := svc.CreateTransaction(ctx, core.Transaction{
		Type: core.TypeIncome, Category: "Salary", Amount: 2000, Date: core.NewDate(2024, 3, 1),
	})
	if err != nil {
		t.Fatalf("CreateTransaction() error = %v, broker failures must not fail the write", err)
	}

	// The row is still saved and waiting for the pending-sync sweep.
	pending, err := repo.GetPendingSyncTransactions(ctx, 10)
	if err != nil {
		t.Fatalf("GetPendingSyncTransactions() error = %v", err)
	}
	if len(pending) != 1 || pending[0].ID != created.ID {
		t.Errorf("pending = %+v, want the saved row", pending)
	}
}

func TestCreateTransaction_NilPublisher(t *testing.T) {
	svc, _ := newTestService(t, nil)

	if _, err := svc.CreateTransaction(context.Background(), core.Transaction{
		Type: core.TypeExpense, Category: "Food", Amount: 10, Date: core.NewDate(2024, 3, 1),
	}); err != nil {
		t.Fatalf("CreateTransaction() without publisher error = %v", err)
	}
}

func TestUpdateTransaction_PublishesNewVersion(t *testing.T) {
	pub := &fakePublisher{}
	svc, _ := newTestService(t, pub)
	ctx := context.Background()

	created, err := svc.CreateTransaction(ctx, core.Transaction{
		Type: core.TypeExpense, Category: "Food", Amount: 10, Date: core.NewDate(2024, 3, 1),
	})
	if err != nil {
		t.Fatalf("CreateTransaction() error = %v", err)
	}

	created.Amount = 15
	if err := svc.UpdateTransaction(ctx, created); err != nil {
		t.Fatalf("UpdateTransaction() error = %v", err)
	}

	if len(pub.published) != 2 {
		t.Fatalf("published = %d messages, want 2", len(pub.published))
	}
	if pub.published[1].Version != 2 {
		t.Errorf("update published version = %d, want 2", pub.published[1].Version)
	}
}

func TestDeleteTransaction(t *testing.T) {
	pub := &fakePublisher{}
	svc, repo := newTestService(t, pub)
	ctx := context.Background()

	created, err := svc.CreateTransaction(ctx, core.Transaction{
		Type: core.TypeExpense, Category: "Food", Amount: 10, Date: core.NewDate(2024, 3, 1),
	})
	if err != nil {
		t.Fatalf("CreateTransaction() error = %v", err)
	}

	if err := svc.DeleteTransaction(ctx, created.ID); err != nil {
		t.Fatalf("DeleteTransaction() error = %v", err)
	}
	if _, err := repo.GetTransaction(ctx, created.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetTransaction() after delete error = %v, want ErrNotFound", err)
	}
	if len(pub.deleted) != 1 || pub.deleted[0] != created.ID {
		t.Errorf("deleted messages = %v, want [%d]", pub.deleted, created.ID)
	}

	if err := svc.DeleteTransaction(ctx, created.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("DeleteTransaction() twice error = %v, want ErrNotFound", err)
	}
	if len(pub.deleted) != 1 {
		t.Errorf("deleted messages after failed delete = %v, want no new message", pub.deleted)
	}
}

func TestWorkDayService_CRUD(t *testing.T) {
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	svc := NewWorkDayService(repo)
	ctx := context.Background()

	if _, err := svc.CreateWorkDay(ctx, core.WorkDay{
		Date: core.NewDate(2024, 3, 4), HoursWorked: -1, DailyRate: 50, Status: core.StatusWorked,
	}); !errors.Is(err, core.ErrNegativeHours) {
		t.Errorf("CreateWorkDay() error = %v, want ErrNegativeHours", err)
	}

	created, err := svc.CreateWorkDay(ctx, core.WorkDay{
		Date: core.NewDate(2024, 3, 4), HoursWorked: 8, DailyRate: 50, Status: core.StatusWorked,
	})
	if err != nil {
		t.Fatalf("CreateWorkDay() error = %v", err)
	}

	created.Status = core.StatusVacation
	if err := svc.UpdateWorkDay(ctx, created); err != nil {
		t.Fatalf("UpdateWorkDay() error = %v", err)
	}

	days, err := svc.ListWorkDays(ctx, nil)
	if err != nil {
		t.Fatalf("ListWorkDays() error = %v", err)
	}
	if len(days) != 1 || days[0].Status != core.StatusVacation {
		t.Errorf("ListWorkDays() = %+v", days)
	}

	if err := svc.DeleteWorkDay(ctx, created.ID); err != nil {
		t.Fatalf("DeleteWorkDay() error = %v", err)
	}
}
