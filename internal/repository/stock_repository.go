package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"stocktrack/api/internal/models"
)

var ErrStockNotFound = errors.New("stock not found")

type StockRepository struct {
	pool *pgxpool.Pool
}

func NewStockRepository(pool *pgxpool.Pool) *StockRepository {
	return &StockRepository{pool: pool}
}

func (r *StockRepository) Create(ctx context.Context, stock models.Stock) error {
	const query = `
		INSERT INTO stocks (
			id, item_name, quantity, location, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		stock.ID,
		stock.ItemName,
		stock.Quantity,
		stock.Location,
	)
	return err
}

func (r *StockRepository) GetByID(ctx context.Context, id string) (models.Stock, error) {
	const query = `
		SELECT id, item_name, quantity, location, created_at, updated_at
		FROM stocks WHERE id = $1
	`

	row := r.pool.QueryRow(ctx, query, id)
	var stock models.Stock
	if err := row.Scan(
		&stock.ID,
		&stock.ItemName,
		&stock.Quantity,
		&stock.Location,
		&stock.CreatedAt,
		&stock.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Stock{}, ErrStockNotFound
		}
		return models.Stock{}, err
	}
	return stock, nil
}

func (r *StockRepository) ListByLocation(ctx context.Context, location string) ([]models.Stock, error) {
	const query = `
		SELECT id, item_name, quantity, location, created_at, updated_at
		FROM stocks
		WHERE location = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, location)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanStocks(rows)
}

func (r *StockRepository) ListAll(ctx context.Context) ([]models.Stock, error) {
	const query = `
		SELECT id, item_name, quantity, location, created_at, updated_at
		FROM stocks
		ORDER BY location, item_name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanStocks(rows)
}

func (r *StockRepository) ListBelowQuantity(ctx context.Context, threshold int) ([]models.Stock, error) {
	const query = `
		SELECT id, item_name, quantity, location, created_at, updated_at
		FROM stocks
		WHERE quantity < $1
		ORDER BY quantity ASC
	`

	rows, err := r.pool.Query(ctx, query, threshold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanStocks(rows)
}

// Update overwrites the mutable fields. Last writer wins: there is no
// version column guarding concurrent read-modify-write cycles.
func (r *StockRepository) Update(ctx context.Context, stock models.Stock) error {
	const query = `
		UPDATE stocks
		SET item_name = $2, quantity = $3, location = $4, updated_at = NOW()
		WHERE id = $1
	`

	cmd, err := r.pool.Exec(ctx, query,
		stock.ID,
		stock.ItemName,
		stock.Quantity,
		stock.Location,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrStockNotFound
	}
	return nil
}

// DeleteByIDAndLocation removes the record only when both id and location
// match, so a caller can never delete outside their own branch.
func (r *StockRepository) DeleteByIDAndLocation(ctx context.Context, id string, location string) error {
	const query = `
		DELETE FROM stocks WHERE id = $1 AND location = $2
	`

	cmd, err := r.pool.Exec(ctx, query, id, location)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrStockNotFound
	}
	return nil
}

func scanStocks(rows pgx.Rows) ([]models.Stock, error) {
	var stocks []models.Stock
	for rows.Next() {
		var stock models.Stock
		if err := rows.Scan(
			&stock.ID,
			&stock.ItemName,
			&stock.Quantity,
			&stock.Location,
			&stock.CreatedAt,
			&stock.UpdatedAt,
		); err != nil {
			return nil, err
		}
		stocks = append(stocks, stock)
	}
	return stocks, rows.Err()
}
