//go:build integration

package repositories

import (
	"context"
	"sync"
	"testing"
	"time"

	"savor/internal/common"
	"savor/internal/models"
	"savor/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedItem(t *testing.T, repo InventoryRepository, name string, qty float64, exp *time.Time, price *float64) *models.InventoryItem {
	t.Helper()
	item := &models.InventoryItem{
		Name:             name,
		InitialQuantity:  qty,
		CurrentQuantity:  qty,
		UserUnit:         "count",
		StandardUnit:     models.UnitCount,
		ConversionFactor: 1,
		Price:            price,
		ExpirationDate:   exp,
	}
	require.NoError(t, repo.Create(context.Background(), item))
	return item
}

func day(base time.Time, offset int) *time.Time {
	d := base.AddDate(0, 0, offset)
	return &d
}

func TestInventoryRepo_Integration_ExpiringWindowIsInclusive(t *testing.T) {
	repo := NewInventoryRepo(testhelpers.SetupTestDB(t))
	ctx := context.Background()
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	edge := seedItem(t, repo, "Spinach", 1, day(today, 3), nil)
	first := seedItem(t, repo, "Yogurt", 1, day(today, 0), nil)
	seedItem(t, repo, "Rice", 1, day(today, 4), nil)
	seedItem(t, repo, "Salt", 1, nil, nil)
	flagged := seedItem(t, repo, "Milk", 1, day(today, 1), nil)
	require.NoError(t, repo.MarkExpired(ctx, flagged.ID))

	items, err := repo.ListExpiringBetween(ctx, today, today.AddDate(0, 0, 3))

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, first.ID, items[0].ID)
	assert.Equal(t, edge.ID, items[1].ID)
}

func TestInventoryRepo_Integration_ConcurrentUsageNeverGoesNegative(t *testing.T) {
	repo := NewInventoryRepo(testhelpers.SetupTestDB(t))
	ctx := context.Background()
	item := seedItem(t, repo, "Eggs", 1, nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, remaining, err := repo.LogPartialUsage(ctx, item.ID, 0.3, models.ActionConsumed)
			assert.NoError(t, err)
			assert.GreaterOrEqual(t, remaining, 0.0)
		}()
	}
	wg.Wait()

	stored, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, stored.CurrentQuantity)

	logs, err := repo.ListLogs(ctx, item.ID)
	require.NoError(t, err)
	assert.Len(t, logs, 10)
}

func TestInventoryRepo_Integration_DeleteCascadesLogs(t *testing.T) {
	pool := testhelpers.SetupTestDB(t)
	repo := NewInventoryRepo(pool)
	ctx := context.Background()
	item := seedItem(t, repo, "Bread", 2, nil, nil)

	_, _, err := repo.LogPartialUsage(ctx, item.ID, 1, models.ActionConsumed)
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, item.ID))

	var count int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM inventory_logs WHERE item_id = $1`, item.ID).Scan(&count))
	assert.Zero(t, count)

	_, err = repo.GetByID(ctx, item.ID)
	assert.True(t, common.IsNotFound(err))
}

func TestInventoryRepo_Integration_ExpireOverdueAndStats(t *testing.T) {
	repo := NewInventoryRepo(testhelpers.SetupTestDB(t))
	ctx := context.Background()
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	price := func(v float64) *float64 { return &v }

	seedItem(t, repo, "Old Milk", 1, day(today, -2), price(3.5))
	seedItem(t, repo, "Cheese", 1, day(today, 2), price(6))
	seedItem(t, repo, "Honey", 1, nil, price(9))

	n, err := repo.MarkExpiredBefore(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	stats, err := repo.Stats(ctx, today, today.AddDate(0, 0, 3))
	require.NoError(t, err)
	assert.Equal(t, 2, stats.ActiveCount)
	assert.Equal(t, 1, stats.ExpiringSoonCount)
	assert.Equal(t, 1, stats.ExpiredCount)
	assert.InDelta(t, 15.0, stats.ActiveValue, 1e-9)
	assert.InDelta(t, 3.5, stats.WastedValue, 1e-9)
}

func TestInventoryRepo_Integration_NameSortReversesExactly(t *testing.T) {
	repo := NewInventoryRepo(testhelpers.SetupTestDB(t))
	ctx := context.Background()
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	for _, name := range []string{"Carrots", "Apples", "Eggs", "Bread", "Dill"} {
		seedItem(t, repo, name, 1, day(today, 2), nil)
	}
	gone := seedItem(t, repo, "Anchovies", 1, day(today, 1), nil)
	require.NoError(t, repo.MarkExpired(ctx, gone.ID))

	asc, err := repo.ListActive(ctx, models.SortByName, true)
	require.NoError(t, err)
	desc, err := repo.ListActive(ctx, models.SortByName, false)
	require.NoError(t, err)

	names := func(items []*models.InventoryItem) []string {
		out := make([]string, len(items))
		for i, item := range items {
			out[i] = item.Name
		}
		return out
	}
	assert.Equal(t, []string{"Apples", "Bread", "Carrots", "Dill", "Eggs"}, names(asc))

	reversed := names(desc)
	for i, j := 0, len(reversed)-1; i < j; i, j = i+1, j-1 {
		reversed[i], reversed[j] = reversed[j], reversed[i]
	}
	assert.Equal(t, names(asc), reversed)
}

func TestInventoryRepo_Integration_UndatedItemsSortLastBothWays(t *testing.T) {
	repo := NewInventoryRepo(testhelpers.SetupTestDB(t))
	ctx := context.Background()
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	seedItem(t, repo, "Salt", 1, nil, nil)
	seedItem(t, repo, "Milk", 1, day(today, 1), nil)
	seedItem(t, repo, "Honey", 1, nil, nil)
	seedItem(t, repo, "Cheese", 1, day(today, 9), nil)

	asc, err := repo.ListActive(ctx, models.SortByExpiration, true)
	require.NoError(t, err)
	require.Len(t, asc, 4)
	assert.Equal(t, "Milk", asc[0].Name)
	assert.Equal(t, "Cheese", asc[1].Name)
	assert.Equal(t, "Salt", asc[2].Name)
	assert.Equal(t, "Honey", asc[3].Name)

	desc, err := repo.ListActive(ctx, models.SortByExpiration, false)
	require.NoError(t, err)
	require.Len(t, desc, 4)
	assert.Equal(t, "Cheese", desc[0].Name)
	assert.Equal(t, "Milk", desc[1].Name)
	assert.Nil(t, desc[2].ExpirationDate)
	assert.Nil(t, desc[3].ExpirationDate)
}
