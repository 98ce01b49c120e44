package jobs

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocktrack/api/internal/config"
	"stocktrack/api/internal/models"
)

type fakeStockSource struct {
	low []models.Stock
	all []models.Stock
}

func (f *fakeStockSource) ListBelowQuantity(ctx context.Context, threshold int) ([]models.Stock, error) {
	return f.low, nil
}

func (f *fakeStockSource) ListAll(ctx context.Context) ([]models.Stock, error) {
	return f.all, nil
}

func TestEncodeCSV(t *testing.T) {
	created := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	data, err := encodeCSV([]models.Stock{
		{ID: "s1", ItemName: "Widget", Quantity: 10, Location: "Chennai", CreatedAt: created},
		{ID: "s2", ItemName: "Bolt, M4", Quantity: 0, Location: "Chennai", CreatedAt: created},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,item_name,quantity,location,created_at", lines[0])
	assert.Contains(t, lines[1], "s1,Widget,10,Chennai")
	// Commas in item names must survive the round trip.
	assert.Contains(t, lines[2], `"Bolt, M4"`)
}

func TestScheduler_SkipsWithoutBackends(t *testing.T) {
	source := &fakeStockSource{
		low: []models.Stock{{ID: "s1", ItemName: "Widget", Quantity: 1, Location: "Chennai"}},
		all: []models.Stock{{ID: "s1", ItemName: "Widget", Quantity: 1, Location: "Chennai"}},
	}
	s := NewScheduler(source, nil, nil, config.JobsConfig{LowStockThreshold: 5, AlertStream: "stock:alerts"}, zerolog.Nop())

	// Neither job may panic when redis and the object store are absent.
	s.scanLowStock()
	s.snapshot()
}
