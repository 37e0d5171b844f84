package services

import (
	"context"
	"fmt"
	"log/slog"

	"moneypilot/internal/core"
	"moneypilot/internal/storage"
)

// SyncPublisher queues transaction changes for the export worker.
type SyncPublisher interface {
	PublishTransactionSync(ctx context.Context, id, version int64) error
	PublishTransactionDelete(ctx context.Context, id int64) error
}

// TransactionService orchestrates transaction operations across SQLite and AMQP
type TransactionService struct {
	storage   *storage.SQLiteRepository
	publisher SyncPublisher
}

func NewTransactionService(storage *storage.SQLiteRepository, publisher SyncPublisher) *TransactionService {
	return &TransactionService{
		storage:   storage,
		publisher: publisher,
	}
}

// CreateTransaction saves a transaction locally and publishes a sync message
func (s *TransactionService) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	// Save to SQLite first (fast, reliable)
	created, err := s.storage.CreateTransaction(ctx, tx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	// Publish async sync message (non-blocking, version 1 for new rows)
	if err := s.publishSyncMessage(ctx, created.ID, 1); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"id", created.ID, "error", err)
		// Don't fail the request - the transaction is saved locally
	}

	return created, nil
}

// UpdateTransaction replaces a transaction locally and queues the new version
// for export.
func (s *TransactionService) UpdateTransaction(ctx context.Context, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}

	if err := s.storage.UpdateTransaction(ctx, tx); err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}

	version, err := s.storage.GetTransactionVersion(ctx, tx.ID)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to read transaction version", "id", tx.ID, "error", err)
		version = 0
	}

	if err := s.publishSyncMessage(ctx, tx.ID, version); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"id", tx.ID, "error", err)
	}

	return nil
}

// DeleteTransaction removes a transaction locally and notifies the worker.
// The export sheet is append-only, so the worker only logs the deletion.
func (s *TransactionService) DeleteTransaction(ctx context.Context, id int64) error {
	if err := s.storage.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishTransactionDelete(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to publish delete message",
				"id", id, "error", err)
		}
	}

	return nil
}

func (s *TransactionService) GetTransaction(ctx context.Context, id int64) (*core.Transaction, error) {
	return s.storage.GetTransaction(ctx, id)
}

func (s *TransactionService) ListTransactions(ctx context.Context, rng *core.DateRange) ([]core.Transaction, error) {
	return s.storage.ListTransactions(ctx, rng)
}

func (s *TransactionService) publishSyncMessage(ctx context.Context, id, version int64) error {
	if s.publisher == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping sync message")
		return nil
	}

	return s.publisher.PublishTransactionSync(ctx, id, version)
}
