package services

import (
	"context"
	"strings"
	"time"

	"savor/internal/caching"
	"savor/internal/common"
	"savor/internal/metrics"
	"savor/internal/models"
	"savor/internal/repositories"
	"savor/internal/units"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const statsTTL = 5 * time.Minute

type InventoryService interface {
	AddItem(ctx context.Context, input *models.NewInventoryItem) (*models.InventoryItem, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	Remove(ctx context.Context, id uuid.UUID) error
	MarkExpired(ctx context.Context, id uuid.UUID) error
	UpdateExpiry(ctx context.Context, id uuid.UUID, date *time.Time) error
	UpdateQuantity(ctx context.Context, id uuid.UUID, quantity float64) error
	UpdatePrice(ctx context.Context, id uuid.UUID, price *float64) error
	ListActive(ctx context.Context, sortKey models.SortKey, ascending bool) ([]*models.InventoryItem, error)
	ListExpiringWithin(ctx context.Context, days int) ([]*models.InventoryItem, error)
	ListExpired(ctx context.Context) ([]*models.InventoryItem, error)
	LogPartialUsage(ctx context.Context, itemID uuid.UUID, amount float64, action models.ActionType) (*models.UsageResult, error)
	ListLogs(ctx context.Context, itemID uuid.UUID) ([]*models.InventoryLogEntry, error)
	Stats(ctx context.Context, expiringDays int) (*models.PantryStats, error)
	ExpireOverdue(ctx context.Context) (int64, error)
}

type inventoryService struct {
	inventoryRepo repositories.InventoryRepository
	cacheService  caching.CacheService
	metrics       *metrics.Metrics
	logger        *zap.Logger
	location      *time.Location
	now           func() time.Time
}

// NewInventoryService builds the pantry service. Calendar dates ("today")
// are evaluated in loc.
func NewInventoryService(inventoryRepo repositories.InventoryRepository, cacheService caching.CacheService, m *metrics.Metrics, logger *zap.Logger, loc *time.Location) InventoryService {
	if loc == nil {
		loc = time.Local
	}
	return &inventoryService{
		inventoryRepo: inventoryRepo,
		cacheService:  cacheService,
		metrics:       m,
		logger:        logger,
		location:      loc,
		now:           time.Now,
	}
}

func (s *inventoryService) today() time.Time {
	return common.DateOnly(s.now().In(s.location))
}

func (s *inventoryService) AddItem(ctx context.Context, input *models.NewInventoryItem) (*models.InventoryItem, error) {
	if input == nil {
		return nil, common.NewValidationError("item", "is required")
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, common.NewValidationError("name", "is required")
	}
	if input.Quantity <= 0 {
		return nil, common.NewValidationError("quantity", "must be greater than 0")
	}
	if input.Price != nil && *input.Price < 0 {
		return nil, common.NewValidationError("price", "cannot be negative")
	}

	userUnit := strings.TrimSpace(input.UserUnit)
	if userUnit == "" {
		userUnit = string(models.UnitCount)
	}

	standard, factor := units.Resolve(userUnit)
	if input.StandardUnit != "" {
		if !input.StandardUnit.Valid() {
			return nil, common.NewValidationError("standard_unit", "must be one of g, ml, count")
		}
		standard = input.StandardUnit
		factor = units.InferConversionFactor(userUnit, standard)
	}

	item := &models.InventoryItem{
		ID:               uuid.New(),
		UserID:           input.UserID,
		Name:             name,
		Category:         input.Category,
		InitialQuantity:  input.Quantity,
		CurrentQuantity:  input.Quantity,
		UserUnit:         userUnit,
		StandardUnit:     standard,
		ConversionFactor: factor,
		Price:            input.Price,
		ExpirationDate:   input.ExpirationDate,
	}

	if err := s.inventoryRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	s.afterWrite(ctx, "create")
	return item, nil
}

func (s *inventoryService) GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	if id == uuid.Nil {
		return nil, common.NewValidationError("id", "is required")
	}
	return s.inventoryRepo.GetByID(ctx, id)
}

func (s *inventoryService) Remove(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return common.NewValidationError("id", "is required")
	}
	if err := s.inventoryRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.afterWrite(ctx, "remove")
	return nil
}

func (s *inventoryService) MarkExpired(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return common.NewValidationError("id", "is required")
	}
	if err := s.inventoryRepo.MarkExpired(ctx, id); err != nil {
		return err
	}
	s.afterWrite(ctx, "mark_expired")
	return nil
}

func (s *inventoryService) UpdateExpiry(ctx context.Context, id uuid.UUID, date *time.Time) error {
	if id == uuid.Nil {
		return common.NewValidationError("id", "is required")
	}
	if err := s.inventoryRepo.UpdateExpiry(ctx, id, date); err != nil {
		return err
	}
	s.afterWrite(ctx, "update_expiry")
	return nil
}

func (s *inventoryService) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity float64) error {
	if id == uuid.Nil {
		return common.NewValidationError("id", "is required")
	}
	if quantity < 0 {
		return common.NewValidationError("quantity", "cannot be negative")
	}
	if err := s.inventoryRepo.UpdateQuantity(ctx, id, quantity); err != nil {
		return err
	}
	s.afterWrite(ctx, "update_quantity")
	return nil
}

func (s *inventoryService) UpdatePrice(ctx context.Context, id uuid.UUID, price *float64) error {
	if id == uuid.Nil {
		return common.NewValidationError("id", "is required")
	}
	if price != nil && *price < 0 {
		return common.NewValidationError("price", "cannot be negative")
	}
	if err := s.inventoryRepo.UpdatePrice(ctx, id, price); err != nil {
		return err
	}
	s.afterWrite(ctx, "update_price")
	return nil
}

func (s *inventoryService) ListActive(ctx context.Context, sortKey models.SortKey, ascending bool) ([]*models.InventoryItem, error) {
	return s.inventoryRepo.ListActive(ctx, models.ParseSortKey(string(sortKey)), ascending)
}

// ListExpiringWithin returns active items dated between today and
// today+days, both inclusive.
func (s *inventoryService) ListExpiringWithin(ctx context.Context, days int) ([]*models.InventoryItem, error) {
	if days < 0 {
		return nil, common.NewValidationError("days", "cannot be negative")
	}
	from := s.today()
	return s.inventoryRepo.ListExpiringBetween(ctx, from, from.AddDate(0, 0, days))
}

func (s *inventoryService) ListExpired(ctx context.Context) ([]*models.InventoryItem, error) {
	return s.inventoryRepo.ListExpired(ctx)
}

func (s *inventoryService) LogPartialUsage(ctx context.Context, itemID uuid.UUID, amount float64, action models.ActionType) (*models.UsageResult, error) {
	if itemID == uuid.Nil {
		return nil, common.NewValidationError("item_id", "is required")
	}
	if amount <= 0 {
		return nil, common.NewValidationError("amount", "must be greater than 0")
	}
	if action == "" {
		action = models.ActionConsumed
	}
	if !action.Valid() {
		return nil, common.NewValidationError("action_type", "must be one of consumed, spoiled, adjusted, added")
	}

	entry, remaining, err := s.inventoryRepo.LogPartialUsage(ctx, itemID, amount, action)
	if err != nil {
		if common.IsNotFound(err) {
			return nil, common.NewValidationError("item_id", "does not match an inventory item")
		}
		return nil, err
	}

	s.afterWrite(ctx, "usage_"+string(action))
	return &models.UsageResult{Entry: entry, RemainingQuantity: remaining}, nil
}

func (s *inventoryService) ListLogs(ctx context.Context, itemID uuid.UUID) ([]*models.InventoryLogEntry, error) {
	if itemID == uuid.Nil {
		return nil, common.NewValidationError("item_id", "is required")
	}
	return s.inventoryRepo.ListLogs(ctx, itemID)
}

// Stats serves the dashboard counters, cached for a few minutes.
func (s *inventoryService) Stats(ctx context.Context, expiringDays int) (*models.PantryStats, error) {
	if expiringDays < 0 {
		return nil, common.NewValidationError("days", "cannot be negative")
	}

	if cached, err := s.cacheService.GetStats(ctx); err != nil {
		s.logger.Warn("Stats cache read failed", zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}

	from := s.today()
	stats, err := s.inventoryRepo.Stats(ctx, from, from.AddDate(0, 0, expiringDays))
	if err != nil {
		return nil, err
	}
	stats.GeneratedAt = s.now()

	if err := s.cacheService.SetStats(ctx, stats, statsTTL); err != nil {
		s.logger.Warn("Stats cache write failed", zap.Error(err))
	}
	return stats, nil
}

// ExpireOverdue marks every active item dated before today as expired.
func (s *inventoryService) ExpireOverdue(ctx context.Context) (int64, error) {
	n, err := s.inventoryRepo.MarkExpiredBefore(ctx, s.today())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.afterWrite(ctx, "auto_expire")
	}
	return n, nil
}

func (s *inventoryService) afterWrite(ctx context.Context, operation string) {
	if s.metrics != nil {
		s.metrics.RecordPantryOperation(operation)
	}
	if err := s.cacheService.InvalidatePantry(ctx); err != nil {
		s.logger.Warn("Failed to invalidate pantry cache", zap.String("operation", operation), zap.Error(err))
	}
}
