package background

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"savor/internal/config"
	"savor/internal/jobs"
	"savor/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingInventory struct {
	listed atomic.Int32
}

func (c *countingInventory) ListExpiringWithin(ctx context.Context, days int) ([]*models.InventoryItem, error) {
	c.listed.Add(1)
	return []*models.InventoryItem{}, nil
}

func (c *countingInventory) ExpireOverdue(ctx context.Context) (int64, error) {
	return 0, nil
}

func newTestScheduler(t *testing.T, inv *countingInventory) *JobScheduler {
	t.Helper()

	alerts := jobs.NewExpiryAlertService(inv, nil, zap.NewNop(), 3, false, time.UTC)
	js, err := NewJobScheduler(alerts, config.JobsConfig{Enabled: true, ExpiryInterval: time.Hour}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = js.Stop() })
	return js
}

func TestJobScheduler_RegistersExpirySweep(t *testing.T) {
	js := newTestScheduler(t, &countingInventory{})

	status := js.GetJobStatus()

	require.Len(t, status, 1)
	assert.Equal(t, "expiry-alerts", status[0].Name)
}

func TestJobScheduler_RunNow(t *testing.T) {
	inv := &countingInventory{}
	js := newTestScheduler(t, inv)
	js.Start()

	require.NoError(t, js.RunNow("expiry-alerts"))

	assert.Eventually(t, func() bool { return inv.listed.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Error(t, js.RunNow("unknown"))
}

func TestJobScheduler_AddAndRemoveJob(t *testing.T) {
	js := newTestScheduler(t, &countingInventory{})

	require.NoError(t, js.AddJob("stats-warmup", time.Minute, func(ctx context.Context) error { return nil }))
	assert.Len(t, js.GetJobStatus(), 2)

	require.NoError(t, js.RemoveJob("stats-warmup"))
	assert.Len(t, js.GetJobStatus(), 1)
	assert.Error(t, js.RemoveJob("stats-warmup"))
}
