package services

import (
	"context"
	"strings"
	"time"

	"savor/internal/common"
	"savor/internal/metrics"
	"savor/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Reconcile statuses.
const (
	ReconcileCompleted = "completed"
	ReconcilePartial   = "partial"
	ReconcileFailed    = "failed"
)

type ReconcileService interface {
	Reconcile(ctx context.Context, userID *uuid.UUID, rows []models.RawLineItem) *models.ReconcileResult
}

type reconcileService struct {
	inventory   InventoryService
	metrics     *metrics.Metrics
	logger      *zap.Logger
	concurrency int
	now         func() time.Time
}

func NewReconcileService(inventory InventoryService, m *metrics.Metrics, logger *zap.Logger, concurrency int) ReconcileService {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &reconcileService{
		inventory:   inventory,
		metrics:     m,
		logger:      logger,
		concurrency: concurrency,
		now:         time.Now,
	}
}

// Reconcile stores every row independently. A failed row never blocks or
// undoes the others; the result lists successes and failures in input order.
func (s *reconcileService) Reconcile(ctx context.Context, userID *uuid.UUID, rows []models.RawLineItem) *models.ReconcileResult {
	result := &models.ReconcileResult{
		OperationID: uuid.NewString(),
		TotalItems:  len(rows),
		Succeeded:   []uuid.UUID{},
		Failed:      []models.FailedLine{},
		StartTime:   s.now(),
	}

	type outcome struct {
		id  uuid.UUID
		err error
	}
	outcomes := make([]outcome, len(rows))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i := range rows {
		g.Go(func() error {
			input, err := toNewItem(userID, rows[i])
			if err != nil {
				outcomes[i].err = err
				return nil
			}
			item, err := s.inventory.AddItem(ctx, input)
			if err != nil {
				outcomes[i].err = err
				return nil
			}
			outcomes[i].id = item.ID
			return nil
		})
	}
	_ = g.Wait()

	for i, o := range outcomes {
		if o.err != nil {
			result.Failed = append(result.Failed, models.FailedLine{
				ItemIndex: i,
				Item:      rows[i],
				Error:     o.err.Error(),
				Err:       o.err,
			})
			continue
		}
		result.Succeeded = append(result.Succeeded, o.id)
	}

	result.CompletionTime = s.now()
	switch {
	case len(result.Failed) == 0:
		result.Status = ReconcileCompleted
	case len(result.Succeeded) == 0:
		result.Status = ReconcileFailed
	default:
		result.Status = ReconcilePartial
	}

	if s.metrics != nil {
		s.metrics.ReconciledItems.WithLabelValues("created").Add(float64(len(result.Succeeded)))
		s.metrics.ReconciledItems.WithLabelValues("failed").Add(float64(len(result.Failed)))
	}

	fields := []zap.Field{
		zap.String("operation_id", result.OperationID),
		zap.Int("total", result.TotalItems),
		zap.Int("succeeded", len(result.Succeeded)),
		zap.Int("failed", len(result.Failed)),
		zap.Duration("elapsed", result.CompletionTime.Sub(result.StartTime)),
	}
	if len(result.Failed) > 0 {
		s.logger.Warn("Receipt rows partially reconciled", append(fields, zap.Error(result.Failed[0].Err))...)
	} else {
		s.logger.Info("Receipt rows reconciled", fields...)
	}

	return result
}

// toNewItem maps an extracted row onto a manual-add request. A zero price
// on a receipt row means unknown and is stored as null.
func toNewItem(userID *uuid.UUID, row models.RawLineItem) (*models.NewInventoryItem, error) {
	expiration, err := common.ParseDate(row.ExpirationDate, "expiration_date")
	if err != nil {
		return nil, err
	}
	if row.Price < 0 {
		return nil, common.NewValidationError("price", "cannot be negative")
	}

	var category *string
	if c := strings.ToLower(strings.TrimSpace(row.Category)); c != "" {
		category = &c
	}

	var price *float64
	if row.Price > 0 {
		p := row.Price
		price = &p
	}

	return &models.NewInventoryItem{
		UserID:         userID,
		Name:           row.Name,
		Category:       category,
		Quantity:       row.Quantity,
		UserUnit:       row.Unit,
		Price:          price,
		ExpirationDate: expiration,
	}, nil
}
