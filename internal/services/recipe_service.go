package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"savor/internal/caching"
	"savor/internal/common"
	"savor/internal/llm"
	"savor/internal/metrics"
	"savor/internal/models"

	"go.uber.org/zap"
)

const recipeTTL = time.Hour

type RecipeService interface {
	// Suggest asks the model for one recipe built from items. Malformed
	// model output degrades to a fallback recipe, never an error.
	Suggest(ctx context.Context, items []*models.InventoryItem) (*models.SuggestionResult, error)
	// SuggestForPantry runs Suggest over the active pantry, soonest expiry first.
	SuggestForPantry(ctx context.Context) (*models.SuggestionResult, error)
}

type recipeService struct {
	client       llm.Client
	inventory    InventoryService
	cacheService caching.CacheService
	metrics      *metrics.Metrics
	logger       *zap.Logger
	location     *time.Location
	now          func() time.Time
}

func NewRecipeService(client llm.Client, inventory InventoryService, cacheService caching.CacheService, m *metrics.Metrics, logger *zap.Logger, loc *time.Location) RecipeService {
	if loc == nil {
		loc = time.Local
	}
	return &recipeService{
		client:       client,
		inventory:    inventory,
		cacheService: cacheService,
		metrics:      m,
		logger:       logger,
		location:     loc,
		now:          time.Now,
	}
}

func (s *recipeService) SuggestForPantry(ctx context.Context) (*models.SuggestionResult, error) {
	items, err := s.inventory.ListActive(ctx, models.SortByExpiration, true)
	if err != nil {
		return nil, err
	}
	return s.Suggest(ctx, items)
}

func (s *recipeService) Suggest(ctx context.Context, items []*models.InventoryItem) (*models.SuggestionResult, error) {
	today := common.DateOnly(s.now().In(s.location))
	summary := PantrySummary(items, today)
	if summary == "" {
		s.record("placeholder")
		return &models.SuggestionResult{Recipe: placeholderRecipe()}, nil
	}

	fingerprint := pantryFingerprint(summary, today)
	if cached, err := s.cacheService.GetRecipe(ctx, fingerprint); err != nil {
		s.logger.Warn("Recipe cache read failed", zap.Error(err))
	} else if cached != nil {
		s.record("cache")
		cached.Cached = true
		return cached, nil
	}

	text, err := s.client.Complete(ctx, llm.Request{
		Purpose: "recipe",
		System:  recipeSystemPrompt,
		Prompt:  buildRecipePrompt(summary),
	})
	if err != nil && !errors.Is(err, llm.ErrEmptyResponse) {
		s.record("error")
		return nil, fmt.Errorf("suggest recipe: %w: %w", common.ErrModelUnavailable, err)
	}

	if err != nil || strings.TrimSpace(text) == "" {
		if err == nil {
			err = llm.ErrEmptyResponse
		}
		s.record("fallback")
		s.logger.Warn("Recipe reply was empty", zap.String("provider", s.client.Provider()))
		return &models.SuggestionResult{
			Recipe:   emptyReplyRecipe(),
			Fallback: &models.RawFallback{Text: text, Reason: err.Error()},
		}, nil
	}

	recipe, reason := parseRecipe(text)
	if reason != nil {
		s.record("fallback")
		s.logger.Warn("Recipe reply could not be parsed, returning raw text",
			zap.String("provider", s.client.Provider()),
			zap.Int("reply_length", len(text)),
			zap.Error(reason),
		)
		return &models.SuggestionResult{
			Recipe:   fallbackRecipe(text),
			Fallback: &models.RawFallback{Text: text, Reason: reason.Error()},
		}, nil
	}

	result := &models.SuggestionResult{Recipe: recipe}
	if err := s.cacheService.SetRecipe(ctx, fingerprint, result, recipeTTL); err != nil {
		s.logger.Warn("Recipe cache write failed", zap.Error(err))
	}

	s.record("model")
	s.logger.Info("Recipe suggested",
		zap.String("provider", s.client.Provider()),
		zap.String("recipe", recipe.Name),
		zap.Int("pantry_items", len(items)),
	)
	return result, nil
}

func (s *recipeService) record(source string) {
	if s.metrics != nil {
		s.metrics.RecipeSuggestions.WithLabelValues(source).Inc()
	}
}

// pantryFingerprint keys the recipe cache; urgency tags shift daily, so the
// date is part of the key.
func pantryFingerprint(summary string, today time.Time) string {
	sum := sha256.Sum256([]byte(today.Format(common.DateLayout) + "\n" + summary))
	return hex.EncodeToString(sum[:])
}
