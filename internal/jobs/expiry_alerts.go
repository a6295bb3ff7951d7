package jobs

import (
	"context"
	"time"

	"savor/internal/common"
	"savor/internal/metrics"
	"savor/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ExpiryInventory is the slice of the pantry service the sweep needs.
type ExpiryInventory interface {
	ListExpiringWithin(ctx context.Context, days int) ([]*models.InventoryItem, error)
	ExpireOverdue(ctx context.Context) (int64, error)
}

type ExpiryAlertService struct {
	inventory  ExpiryInventory
	metrics    *metrics.Metrics
	logger     *zap.Logger
	alertDays  int
	autoExpire bool
	location   *time.Location
	now        func() time.Time
}

type ExpiryAlert struct {
	ItemID         uuid.UUID
	Name           string
	ExpirationDate time.Time
	DaysLeft       int
	Quantity       float64
	Unit           string
}

func NewExpiryAlertService(inventory ExpiryInventory, m *metrics.Metrics, logger *zap.Logger, alertDays int, autoExpire bool, loc *time.Location) *ExpiryAlertService {
	if loc == nil {
		loc = time.Local
	}
	return &ExpiryAlertService{
		inventory:  inventory,
		metrics:    m,
		logger:     logger,
		alertDays:  alertDays,
		autoExpire: autoExpire,
		location:   loc,
		now:        time.Now,
	}
}

// CheckExpiring lists active items expiring within the alert window.
func (a *ExpiryAlertService) CheckExpiring(ctx context.Context) ([]ExpiryAlert, error) {
	items, err := a.inventory.ListExpiringWithin(ctx, a.alertDays)
	if err != nil {
		a.logger.Error("Failed to list expiring items", zap.Error(err))
		return nil, err
	}

	today := common.DateOnly(a.now().In(a.location))
	alerts := make([]ExpiryAlert, 0, len(items))
	for _, item := range items {
		if item.ExpirationDate == nil {
			continue
		}
		y, m, d := item.ExpirationDate.Date()
		exp := time.Date(y, m, d, 0, 0, 0, 0, a.location)

		alerts = append(alerts, ExpiryAlert{
			ItemID:         item.ID,
			Name:           item.Name,
			ExpirationDate: exp,
			DaysLeft:       int(exp.Sub(today).Round(24*time.Hour) / (24 * time.Hour)),
			Quantity:       item.CurrentQuantity,
			Unit:           item.UserUnit,
		})
	}

	return alerts, nil
}

func (a *ExpiryAlertService) LogExpiryAlerts(alerts []ExpiryAlert) {
	if len(alerts) == 0 {
		a.logger.Debug("No items expiring soon")
		return
	}

	a.logger.Info("Items expiring soon", zap.Int("count", len(alerts)), zap.Int("window_days", a.alertDays))
	for _, alert := range alerts {
		a.logger.Info("Expiring item",
			zap.String("item_id", alert.ItemID.String()),
			zap.String("name", alert.Name),
			zap.String("expiration_date", alert.ExpirationDate.Format(common.DateLayout)),
			zap.Int("days_left", alert.DaysLeft),
			zap.Float64("quantity", alert.Quantity),
			zap.String("unit", alert.Unit),
		)
	}
}

// ScheduledExpiryCheck is the periodic sweep: optionally expire overdue
// items, then report what is about to expire.
func (a *ExpiryAlertService) ScheduledExpiryCheck(ctx context.Context) error {
	a.logger.Debug("Starting scheduled expiry check")

	if a.autoExpire {
		n, err := a.inventory.ExpireOverdue(ctx)
		if err != nil {
			a.logger.Error("Auto-expire failed", zap.Error(err))
			return err
		}
		if n > 0 {
			a.logger.Info("Marked overdue items as expired", zap.Int64("count", n))
		}
	}

	alerts, err := a.CheckExpiring(ctx)
	if err != nil {
		return err
	}

	if a.metrics != nil {
		a.metrics.ExpiringItems.Set(float64(len(alerts)))
	}
	a.LogExpiryAlerts(alerts)
	return nil
}
