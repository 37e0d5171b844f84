package services

import (
	"context"
	"fmt"

	"moneypilot/internal/core"
	"moneypilot/internal/storage"
)

// WorkDayService handles work day tracking. Work days live only in SQLite,
// nothing is exported.
type WorkDayService struct {
	storage *storage.SQLiteRepository
}

func NewWorkDayService(storage *storage.SQLiteRepository) *WorkDayService {
	return &WorkDayService{storage: storage}
}

func (s *WorkDayService) CreateWorkDay(ctx context.Context, wd core.WorkDay) (core.WorkDay, error) {
	if err := wd.Validate(); err != nil {
		return core.WorkDay{}, err
	}

	created, err := s.storage.CreateWorkDay(ctx, wd)
	if err != nil {
		return core.WorkDay{}, fmt.Errorf("save work day: %w", err)
	}
	return created, nil
}

func (s *WorkDayService) UpdateWorkDay(ctx context.Context, wd core.WorkDay) error {
	if err := wd.Validate(); err != nil {
		return err
	}

	if err := s.storage.UpdateWorkDay(ctx, wd); err != nil {
		return fmt.Errorf("update work day: %w", err)
	}
	return nil
}

func (s *WorkDayService) DeleteWorkDay(ctx context.Context, id int64) error {
	if err := s.storage.DeleteWorkDay(ctx, id); err != nil {
		return fmt.Errorf("delete work day: %w", err)
	}
	return nil
}

func (s *WorkDayService) GetWorkDay(ctx context.Context, id int64) (*core.WorkDay, error) {
	return s.storage.GetWorkDay(ctx, id)
}

func (s *WorkDayService) ListWorkDays(ctx context.Context, rng *core.DateRange) ([]core.WorkDay, error) {
	return s.storage.ListWorkDays(ctx, rng)
}
