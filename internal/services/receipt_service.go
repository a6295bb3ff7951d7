package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"savor/internal/caching"
	"savor/internal/common"
	"savor/internal/config"
	"savor/internal/metrics"
	"savor/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReceiptExtractor turns a receipt image into line items.
type ReceiptExtractor interface {
	Extract(ctx context.Context, image []byte, mimeType string) ([]models.RawLineItem, error)
}

// ReceiptUpload is one uploaded receipt photo.
type ReceiptUpload struct {
	Data        []byte
	ContentType string
	UserID      *uuid.UUID
	// ClientKey identifies the caller for rate limiting, e.g. the owner id
	// or remote address.
	ClientKey string
}

type ReceiptService interface {
	// Extract returns the parsed rows without storing them.
	Extract(ctx context.Context, upload *ReceiptUpload) (*models.ReceiptScan, error)
	// Scan extracts and then reconciles the rows into the pantry.
	Scan(ctx context.Context, upload *ReceiptUpload) (*models.ReceiptScan, error)
}

type receiptService struct {
	extractor    ReceiptExtractor
	reconciler   ReconcileService
	storage      MinioService
	cacheService caching.CacheService
	cfg          config.ReceiptsConfig
	metrics      *metrics.Metrics
	logger       *zap.Logger
	now          func() time.Time
}

// NewReceiptService wires the scan pipeline. storage may be nil, in which
// case images are not archived.
func NewReceiptService(extractor ReceiptExtractor, reconciler ReconcileService, storage MinioService, cacheService caching.CacheService, cfg config.ReceiptsConfig, m *metrics.Metrics, logger *zap.Logger) ReceiptService {
	return &receiptService{
		extractor:    extractor,
		reconciler:   reconciler,
		storage:      storage,
		cacheService: cacheService,
		cfg:          cfg,
		metrics:      m,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *receiptService) Extract(ctx context.Context, upload *ReceiptUpload) (*models.ReceiptScan, error) {
	if upload == nil || len(upload.Data) == 0 {
		return nil, common.NewValidationError("receipt", "image is empty")
	}
	if s.cfg.MaxUploadBytes > 0 && int64(len(upload.Data)) > s.cfg.MaxUploadBytes {
		return nil, common.NewValidationError("receipt", "image is too large")
	}

	if err := s.checkRateLimit(ctx, upload.ClientKey); err != nil {
		return nil, err
	}

	contentType := strings.ToLower(strings.TrimSpace(strings.Split(upload.ContentType, ";")[0]))
	scan := &models.ReceiptScan{ObjectKey: s.archive(ctx, upload.Data, contentType)}

	items, err := s.extractor.Extract(ctx, upload.Data, contentType)
	if err != nil {
		s.logger.Warn("Receipt extraction failed",
			zap.String("object_key", scan.ObjectKey),
			zap.Error(err),
		)
		var extractionErr *common.ExtractionError
		if errors.As(err, &extractionErr) && extractionErr.Kind == common.ExtractionNoItems {
			s.discard(ctx, scan.ObjectKey)
		}
		return nil, err
	}

	scan.Items = items
	scan.ImageURL = s.imageURL(ctx, scan.ObjectKey)
	return scan, nil
}

func (s *receiptService) Scan(ctx context.Context, upload *ReceiptUpload) (*models.ReceiptScan, error) {
	scan, err := s.Extract(ctx, upload)
	if err != nil {
		return nil, err
	}

	scan.Result = s.reconciler.Reconcile(ctx, upload.UserID, scan.Items)
	return scan, nil
}

// checkRateLimit fails open when redis is unavailable.
func (s *receiptService) checkRateLimit(ctx context.Context, clientKey string) error {
	if s.cfg.RateLimit <= 0 || clientKey == "" {
		return nil
	}

	limited, err := s.cacheService.IsRateLimited(ctx, "receipts:"+clientKey, s.cfg.RateLimit, s.cfg.RateWindow)
	if err != nil {
		s.logger.Warn("Rate limit check failed, allowing request", zap.Error(err))
		return nil
	}
	if limited {
		if s.metrics != nil {
			s.metrics.ReceiptsProcessed.WithLabelValues("rate_limited").Inc()
		}
		return common.ErrRateLimited
	}
	return nil
}

// archive stores the image and returns its key, or "" when archiving is
// disabled or failed.
func (s *receiptService) archive(ctx context.Context, data []byte, contentType string) string {
	if s.storage == nil {
		return ""
	}

	key := ReceiptObjectName(s.now().UTC(), contentType)
	if err := s.storage.UploadReceipt(ctx, key, data, contentType); err != nil {
		s.logger.Warn("Failed to archive receipt image", zap.String("object_key", key), zap.Error(err))
		return ""
	}
	return key
}

// imageURL returns a time-limited link to an archived image, or "" when
// there is none.
func (s *receiptService) imageURL(ctx context.Context, key string) string {
	if s.storage == nil || key == "" || s.cfg.ImageURLExpiry <= 0 {
		return ""
	}

	url, err := s.storage.GetPresignedURL(ctx, key, s.cfg.ImageURLExpiry)
	if err != nil {
		s.logger.Warn("Failed to presign receipt image", zap.String("object_key", key), zap.Error(err))
		return ""
	}
	return url
}

// discard removes an archived image of a receipt that had no food lines.
func (s *receiptService) discard(ctx context.Context, key string) {
	if s.storage == nil || key == "" {
		return
	}
	if err := s.storage.DeleteReceipt(ctx, key); err != nil {
		s.logger.Warn("Failed to delete receipt image", zap.String("object_key", key), zap.Error(err))
	}
}
