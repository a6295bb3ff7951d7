package handlers

import (
	"context"
	"time"

	"savor/internal/jobs/background"
	"savor/internal/models"
	"savor/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockInventoryService struct {
	mock.Mock
}

func (m *MockInventoryService) AddItem(ctx context.Context, input *models.NewInventoryItem) (*models.InventoryItem, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryItem), args.Error(1)
}

func (m *MockInventoryService) GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryItem), args.Error(1)
}

func (m *MockInventoryService) Remove(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockInventoryService) MarkExpired(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockInventoryService) UpdateExpiry(ctx context.Context, id uuid.UUID, date *time.Time) error {
	return m.Called(ctx, id, date).Error(0)
}

func (m *MockInventoryService) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity float64) error {
	return m.Called(ctx, id, quantity).Error(0)
}

func (m *MockInventoryService) UpdatePrice(ctx context.Context, id uuid.UUID, price *float64) error {
	return m.Called(ctx, id, price).Error(0)
}

func (m *MockInventoryService) ListActive(ctx context.Context, sortKey models.SortKey, ascending bool) ([]*models.InventoryItem, error) {
	args := m.Called(ctx, sortKey, ascending)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.InventoryItem), args.Error(1)
}

func (m *MockInventoryService) ListExpiringWithin(ctx context.Context, days int) ([]*models.InventoryItem, error) {
	args := m.Called(ctx, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.InventoryItem), args.Error(1)
}

func (m *MockInventoryService) ListExpired(ctx context.Context) ([]*models.InventoryItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.InventoryItem), args.Error(1)
}

func (m *MockInventoryService) LogPartialUsage(ctx context.Context, itemID uuid.UUID, amount float64, action models.ActionType) (*models.UsageResult, error) {
	args := m.Called(ctx, itemID, amount, action)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UsageResult), args.Error(1)
}

func (m *MockInventoryService) ListLogs(ctx context.Context, itemID uuid.UUID) ([]*models.InventoryLogEntry, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.InventoryLogEntry), args.Error(1)
}

func (m *MockInventoryService) Stats(ctx context.Context, expiringDays int) (*models.PantryStats, error) {
	args := m.Called(ctx, expiringDays)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PantryStats), args.Error(1)
}

func (m *MockInventoryService) ExpireOverdue(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockReconcileService struct {
	mock.Mock
}

func (m *MockReconcileService) Reconcile(ctx context.Context, userID *uuid.UUID, rows []models.RawLineItem) *models.ReconcileResult {
	return m.Called(ctx, userID, rows).Get(0).(*models.ReconcileResult)
}

type MockReceiptService struct {
	mock.Mock
}

func (m *MockReceiptService) Extract(ctx context.Context, upload *services.ReceiptUpload) (*models.ReceiptScan, error) {
	args := m.Called(ctx, upload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReceiptScan), args.Error(1)
}

func (m *MockReceiptService) Scan(ctx context.Context, upload *services.ReceiptUpload) (*models.ReceiptScan, error) {
	args := m.Called(ctx, upload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReceiptScan), args.Error(1)
}

type MockRecipeService struct {
	mock.Mock
}

func (m *MockRecipeService) Suggest(ctx context.Context, items []*models.InventoryItem) (*models.SuggestionResult, error) {
	args := m.Called(ctx, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SuggestionResult), args.Error(1)
}

func (m *MockRecipeService) SuggestForPantry(ctx context.Context) (*models.SuggestionResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SuggestionResult), args.Error(1)
}

type MockJobRunner struct {
	mock.Mock
}

func (m *MockJobRunner) GetJobStatus() []background.JobStatus {
	return m.Called().Get(0).([]background.JobStatus)
}

func (m *MockJobRunner) RunNow(name string) error {
	return m.Called(name).Error(0)
}

func (m *MockJobRunner) RemoveJob(name string) error {
	return m.Called(name).Error(0)
}
