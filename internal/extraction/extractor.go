// Package extraction turns a receipt photo into normalized line items via
// the external model.
package extraction

import (
	"context"
	"errors"
	"strings"
	"time"

	"savor/internal/common"
	"savor/internal/llm"
	"savor/internal/metrics"
	"savor/internal/models"

	"go.uber.org/zap"
)

var supportedMediaTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
}

// Extractor is the receipt extraction adapter.
type Extractor struct {
	client  llm.Client
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

func NewExtractor(client llm.Client, m *metrics.Metrics, logger *zap.Logger) *Extractor {
	return &Extractor{
		client:  client,
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
}

// Extract sends image to the model and returns every food row it could parse.
// It fails with an ExtractionError when the call fails or nothing parses.
func (e *Extractor) Extract(ctx context.Context, image []byte, mimeType string) ([]models.RawLineItem, error) {
	if len(image) == 0 {
		return nil, common.NewValidationError("receipt", "image is empty")
	}
	mimeType = strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	if _, ok := supportedMediaTypes[mimeType]; !ok {
		return nil, common.NewValidationError("receipt", "must be a JPEG, PNG, GIF or WebP image")
	}

	text, err := e.client.Complete(ctx, llm.Request{
		Purpose:   "extract",
		System:    systemPrompt,
		Prompt:    buildPrompt(e.now()),
		Image:     image,
		MediaType: mimeType,
	})
	if err != nil {
		e.record("upstream_error")
		if errors.Is(err, llm.ErrEmptyResponse) {
			return nil, common.NewExtractionError(common.ExtractionNoItems, err)
		}
		return nil, common.NewExtractionError(common.ExtractionUpstream, err)
	}

	res := Parse(text)
	if e.metrics != nil {
		e.metrics.ExtractedRows.WithLabelValues("parsed").Add(float64(len(res.Items)))
		e.metrics.ExtractedRows.WithLabelValues("dropped").Add(float64(res.Dropped))
	}

	if len(res.Items) == 0 {
		e.record("no_items")
		e.logger.Warn("Receipt reply contained no usable rows",
			zap.String("format", res.Format.String()),
			zap.Int("dropped", res.Dropped),
		)
		return nil, common.NewExtractionError(common.ExtractionNoItems, nil)
	}

	e.record("ok")
	e.logger.Info("Receipt extracted",
		zap.String("provider", e.client.Provider()),
		zap.String("format", res.Format.String()),
		zap.Int("items", len(res.Items)),
		zap.Int("dropped", res.Dropped),
	)
	return res.Items, nil
}

func (e *Extractor) record(outcome string) {
	if e.metrics != nil {
		e.metrics.ReceiptsProcessed.WithLabelValues(outcome).Inc()
	}
}
