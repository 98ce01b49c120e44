package jobs

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"stocktrack/api/internal/config"
	"stocktrack/api/internal/models"
	"stocktrack/api/internal/storage"
)

// StockSource is the slice of the stock repository the jobs read from.
type StockSource interface {
	ListBelowQuantity(ctx context.Context, threshold int) ([]models.Stock, error)
	ListAll(ctx context.Context) ([]models.Stock, error)
}

// Scheduler runs the periodic inventory jobs: an hourly low-stock scan that
// feeds the alert stream, and a nightly CSV snapshot per branch.
type Scheduler struct {
	cron   *cron.Cron
	stocks StockSource
	queue  *redis.Client
	store  *storage.ObjectStore
	cfg    config.JobsConfig
	log    zerolog.Logger
}

func NewScheduler(stocks StockSource, queue *redis.Client, store *storage.ObjectStore, cfg config.JobsConfig, log zerolog.Logger) *Scheduler {
	c := cron.New(cron.WithSeconds())
	return &Scheduler{
		cron:   c,
		stocks: stocks,
		queue:  queue,
		store:  store,
		cfg:    cfg,
		log:    log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 0 * * * *", s.scanLowStock); err != nil { // hourly
		return err
	}
	if _, err := s.cron.AddFunc("0 0 0 * * *", s.snapshot); err != nil { // nightly
		return err
	}

	s.cron.Start()
	return nil
}

// Stop waits for running jobs to finish, up to a short grace period.
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(5 * time.Second):
	}
}

func (s *Scheduler) scanLowStock() {
	if s.queue == nil {
		s.log.Warn().Msg("low-stock scan skipped: no alert queue")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stocks, err := s.stocks.ListBelowQuantity(ctx, s.cfg.LowStockThreshold)
	if err != nil {
		s.log.Error().Err(err).Msg("low-stock scan failed")
		return
	}

	for _, stock := range stocks {
		_, err := s.queue.XAdd(ctx, &redis.XAddArgs{
			Stream: s.cfg.AlertStream,
			Values: map[string]any{
				"stock_id": stock.ID,
				"item":     stock.ItemName,
				"quantity": stock.Quantity,
				"location": stock.Location,
			},
		}).Result()
		if err != nil {
			s.log.Error().Err(err).Str("stock_id", stock.ID).Msg("enqueue low-stock alert failed")
			continue
		}
		s.log.Warn().
			Str("item", stock.ItemName).
			Str("location", stock.Location).
			Int("quantity", stock.Quantity).
			Msg("low stock")
	}
}

func (s *Scheduler) snapshot() {
	if s.store == nil {
		s.log.Warn().Msg("snapshot skipped: no object store")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	stocks, err := s.stocks.ListAll(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("snapshot listing failed")
		return
	}

	byLocation := make(map[string][]models.Stock)
	for _, stock := range stocks {
		byLocation[stock.Location] = append(byLocation[stock.Location], stock)
	}

	date := time.Now().UTC().Format("2006-01-02")
	for location, records := range byLocation {
		data, err := encodeCSV(records)
		if err != nil {
			s.log.Error().Err(err).Str("location", location).Msg("snapshot encode failed")
			continue
		}

		key := fmt.Sprintf("snapshots/%s/%s.csv", date, location)
		if err := s.store.PutSnapshot(ctx, key, data); err != nil {
			s.log.Error().Err(err).Str("key", key).Msg("snapshot upload failed")
			continue
		}
		s.log.Info().Str("key", key).Int("records", len(records)).Msg("snapshot written")
	}
}

func encodeCSV(stocks []models.Stock) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"id", "item_name", "quantity", "location", "created_at"}); err != nil {
		return nil, err
	}
	for _, stock := range stocks {
		record := []string{
			stock.ID,
			stock.ItemName,
			strconv.Itoa(stock.Quantity),
			stock.Location,
			stock.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
