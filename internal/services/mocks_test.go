package services

import (
	"context"
	"time"

	"savor/internal/llm"
	"savor/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Mock repositories and services
type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) Create(ctx context.Context, item *models.InventoryItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockInventoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInventoryRepository) MarkExpired(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInventoryRepository) MarkExpiredBefore(ctx context.Context, date time.Time) (int64, error) {
	args := m.Called(ctx, date)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInventoryRepository) UpdateExpiry(ctx context.Context, id uuid.UUID, date *time.Time) error {
	args := m.Called(ctx, id, date)
	return args.Error(0)
}

func (m *MockInventoryRepository) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity float64) error {
	args := m.Called(ctx, id, quantity)
	return args.Error(0)
}

func (m *MockInventoryRepository) UpdatePrice(ctx context.Context, id uuid.UUID, price *float64) error {
	args := m.Called(ctx, id, price)
	return args.Error(0)
}

func (m *MockInventoryRepository) ListActive(ctx context.Context, sortKey models.SortKey, ascending bool) ([]*models.InventoryItem, error) {
	args := m.Called(ctx, sortKey, ascending)
	return args.Get(0).([]*models.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) ListExpiringBetween(ctx context.Context, from, to time.Time) ([]*models.InventoryItem, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]*models.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) ListExpired(ctx context.Context) ([]*models.InventoryItem, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) LogPartialUsage(ctx context.Context, itemID uuid.UUID, amount float64, action models.ActionType) (*models.InventoryLogEntry, float64, error) {
	args := m.Called(ctx, itemID, amount, action)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).(*models.InventoryLogEntry), args.Get(1).(float64), args.Error(2)
}

func (m *MockInventoryRepository) ListLogs(ctx context.Context, itemID uuid.UUID) ([]*models.InventoryLogEntry, error) {
	args := m.Called(ctx, itemID)
	return args.Get(0).([]*models.InventoryLogEntry), args.Error(1)
}

func (m *MockInventoryRepository) Stats(ctx context.Context, from, to time.Time) (*models.PantryStats, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PantryStats), args.Error(1)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetStats(ctx context.Context) (*models.PantryStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PantryStats), args.Error(1)
}

func (m *MockCacheService) SetStats(ctx context.Context, stats *models.PantryStats, ttl time.Duration) error {
	args := m.Called(ctx, stats, ttl)
	return args.Error(0)
}

func (m *MockCacheService) GetRecipe(ctx context.Context, fingerprint string) (*models.SuggestionResult, error) {
	args := m.Called(ctx, fingerprint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SuggestionResult), args.Error(1)
}

func (m *MockCacheService) SetRecipe(ctx context.Context, fingerprint string, result *models.SuggestionResult, ttl time.Duration) error {
	args := m.Called(ctx, fingerprint, result, ttl)
	return args.Error(0)
}

func (m *MockCacheService) InvalidatePantry(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockLLMClient struct {
	mock.Mock
}

func (m *MockLLMClient) Complete(ctx context.Context, req llm.Request) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockLLMClient) Provider() string {
	return "mock"
}

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
	return args.Get(0).([]*models.InventoryItem), args.Error(1)
}

func (m *MockInventoryService) ListExpiringWithin(ctx context.Context, days int) ([]*models.InventoryItem, error) {
	args := m.Called(ctx, days)
	return args.Get(0).([]*models.InventoryItem), args.Error(1)
}

func (m *MockInventoryService) ListExpired(ctx context.Context) ([]*models.InventoryItem, error) {
	args := m.Called(ctx)
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
	args := m.Called(ctx, userID, rows)
	return args.Get(0).(*models.ReconcileResult)
}

type MockReceiptExtractor struct {
	mock.Mock
}

func (m *MockReceiptExtractor) Extract(ctx context.Context, image []byte, mimeType string) ([]models.RawLineItem, error) {
	args := m.Called(ctx, image, mimeType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RawLineItem), args.Error(1)
}

type MockMinioService struct {
	mock.Mock
}

func (m *MockMinioService) UploadReceipt(ctx context.Context, objectName string, data []byte, contentType string) error {
	return m.Called(ctx, objectName, data, contentType).Error(0)
}

func (m *MockMinioService) GetPresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, objectName, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockMinioService) DeleteReceipt(ctx context.Context, objectName string) error {
	return m.Called(ctx, objectName).Error(0)
}

func (m *MockMinioService) EnsureBucketExists(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockMinioService) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
