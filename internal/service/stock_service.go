package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"stocktrack/api/internal/ids"
	"stocktrack/api/internal/log"
	"stocktrack/api/internal/models"
)

var (
	ErrStockForbidden    = errors.New("not authorized to update this stock")
	ErrLocationForbidden = errors.New("only admin can update location")
	ErrInvalidLocation   = errors.New("invalid location")
)

// Caller is the identity the middleware decoded from the bearer token.
type Caller struct {
	UserID string
	Role   models.UserRole
	Branch string
}

func (c Caller) IsAdmin() bool {
	return c.Role == models.UserRoleAdmin
}

// StockStore is the subset of the stock repository the service needs.
type StockStore interface {
	Create(ctx context.Context, stock models.Stock) error
	GetByID(ctx context.Context, id string) (models.Stock, error)
	ListByLocation(ctx context.Context, location string) ([]models.Stock, error)
	Update(ctx context.Context, stock models.Stock) error
	DeleteByIDAndLocation(ctx context.Context, id string, location string) error
}

// ListCache is a best-effort per-branch listing cache.
type ListCache interface {
	GetList(ctx context.Context, branch string) ([]models.Stock, bool)
	SetList(ctx context.Context, branch string, stocks []models.Stock)
	Invalidate(ctx context.Context, branches ...string)
}

type StockService struct {
	stocks StockStore
	cache  ListCache
	log    zerolog.Logger
}

func NewStockService(stocks StockStore, cache ListCache, log zerolog.Logger) *StockService {
	return &StockService{
		stocks: stocks,
		cache:  cache,
		log:    log,
	}
}

// List returns the records of the caller's own branch. Admins get no
// cross-branch visibility here.
func (s *StockService) List(ctx context.Context, caller Caller) ([]models.Stock, error) {
	if s.cache != nil {
		if stocks, ok := s.cache.GetList(ctx, caller.Branch); ok {
			return stocks, nil
		}
	}

	stocks, err := s.stocks.ListByLocation(ctx, caller.Branch)
	if err != nil {
		return nil, err
	}
	if stocks == nil {
		stocks = []models.Stock{}
	}

	if s.cache != nil {
		s.cache.SetList(ctx, caller.Branch, stocks)
	}
	return stocks, nil
}

type CreateStockInput struct {
	ItemName string
	Quantity int
}

// Create inserts a record in the caller's branch. Any location supplied by
// the client is ignored: stock cannot be created in another branch.
func (s *StockService) Create(ctx context.Context, caller Caller, input CreateStockInput) (models.Stock, error) {
	stock := models.Stock{
		ID:       ids.New(),
		ItemName: input.ItemName,
		Quantity: input.Quantity,
		Location: caller.Branch,
	}

	if err := s.stocks.Create(ctx, stock); err != nil {
		return models.Stock{}, err
	}

	s.invalidate(ctx, caller.Branch)
	s.log.Info().
		Str("request_id", log.RequestID(ctx)).
		Str("stock_id", stock.ID).
		Str("location", stock.Location).
		Msg("stock created")
	return stock, nil
}

type UpdateStockInput struct {
	ItemName *string
	Quantity *int
	Location *string
}

// Update authorizes against the stored record, not the request body: the
// record is loaded first and its location compared to the caller's branch.
func (s *StockService) Update(ctx context.Context, caller Caller, id string, input UpdateStockInput) (models.Stock, error) {
	stock, err := s.stocks.GetByID(ctx, id)
	if err != nil {
		return models.Stock{}, err
	}

	if stock.Location != caller.Branch && !caller.IsAdmin() {
		return models.Stock{}, ErrStockForbidden
	}

	oldLocation := stock.Location

	if input.ItemName != nil {
		stock.ItemName = *input.ItemName
	}
	if input.Quantity != nil {
		stock.Quantity = *input.Quantity
	}
	if input.Location != nil {
		if !caller.IsAdmin() {
			return models.Stock{}, ErrLocationForbidden
		}
		if !models.ValidLocation(*input.Location) {
			return models.Stock{}, ErrInvalidLocation
		}
		stock.Location = *input.Location
	}

	if err := s.stocks.Update(ctx, stock); err != nil {
		return models.Stock{}, err
	}

	s.invalidate(ctx, oldLocation, stock.Location)
	return stock, nil
}

// Delete only matches records in the caller's own branch. Admins are not
// exempt: a cross-branch id reads as not found.
func (s *StockService) Delete(ctx context.Context, caller Caller, id string) error {
	if err := s.stocks.DeleteByIDAndLocation(ctx, id, caller.Branch); err != nil {
		return err
	}

	s.invalidate(ctx, caller.Branch)
	s.log.Info().
		Str("request_id", log.RequestID(ctx)).
		Str("stock_id", id).
		Str("location", caller.Branch).
		Msg("stock deleted")
	return nil
}

func (s *StockService) invalidate(ctx context.Context, branches ...string) {
	if s.cache == nil {
		return
	}
	s.cache.Invalidate(ctx, branches...)
}
