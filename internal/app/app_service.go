package app

import (
	"context"

	"refillpos/internal/core"

	"github.com/jackc/pgx/v5/pgxpool"
)

type appService struct {
	pool      *pgxpool.Pool
	users     core.UserService
	catalog   core.CatalogService
	orders    core.OrderService
	stock     core.StockService
	movements core.MovementService
	reporting core.ReportingService
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(
	pool *pgxpool.Pool,
	users core.UserService,
	catalog core.CatalogService,
	orders core.OrderService,
	stock core.StockService,
	movements core.MovementService,
	reporting core.ReportingService,
) ApplicationService {
	return &appService{
		pool:      pool,
		users:     users,
		catalog:   catalog,
		orders:    orders,
		stock:     stock,
		movements: movements,
		reporting: reporting,
	}
}

func (s *appService) Login(ctx context.Context, username, password string) (*core.User, error) {
	return s.users.Login(ctx, username, password)
}

func (s *appService) GuestLogin(ctx context.Context) (*core.User, error) {
	return s.users.CreateGuest(ctx)
}

func (s *appService) GetUser(ctx context.Context, userID int) (*core.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *appService) ListProducts(ctx context.Context) (*ProductListResult, error) {
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	return &ProductListResult{Products: products}, nil
}

func (s *appService) GetProduct(ctx context.Context, productID int) (*core.Product, error) {
	return s.catalog.GetProduct(ctx, productID)
}

func (s *appService) CreateProduct(ctx context.Context, req ProductRequest) (*core.Product, error) {
	return s.catalog.CreateProduct(ctx, req.Name, req.UnitPrice, req.UserID)
}

func (s *appService) UpdateProduct(ctx context.Context, productID int, req ProductPatch) (*core.Product, error) {
	return s.catalog.UpdateProduct(ctx, productID, req.Name, req.UnitPrice, req.UserID)
}

func (s *appService) DeleteProduct(ctx context.Context, productID int) error {
	return s.catalog.DeleteProduct(ctx, productID)
}

func (s *appService) GetPriceHistory(ctx context.Context, productID int) (*PriceHistoryResult, error) {
	changes, err := s.catalog.GetPriceHistory(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &PriceHistoryResult{ProductID: productID, Changes: changes}, nil
}

func (s *appService) RecordOrder(ctx context.Context, req RecordOrderRequest) (*core.Order, error) {
	return s.orders.RecordOrder(ctx, core.OrderRequest{
		ProductID:       req.ProductID,
		Quantity:        req.Quantity,
		PaymentMethod:   req.PaymentMethod,
		OrderDate:       req.OrderDate,
		ClientTimestamp: req.ClientTimestamp,
		CreatedBy:       req.CreatedBy,
		UseContainer:    req.UseContainer,
		ContainerCount:  req.ContainerCount,
		ContainerPrice:  req.ContainerPrice,
	})
}

func (s *appService) ListOrders(ctx context.Context, date string, userID *int) (*OrderListResult, error) {
	orders, err := s.orders.ListOrders(ctx, date, userID)
	if err != nil {
		return nil, err
	}
	return &OrderListResult{Orders: orders}, nil
}

func (s *appService) GetOrder(ctx context.Context, orderID int) (*core.Order, error) {
	return s.orders.GetOrder(ctx, orderID)
}

func (s *appService) ListSources(ctx context.Context) (*SourceListResult, error) {
	sources, err := s.stock.ListSources(ctx)
	if err != nil {
		return nil, err
	}
	return &SourceListResult{Sources: sources}, nil
}

func (s *appService) AddSource(ctx context.Context, req SourceRequest) (*core.Source, error) {
	return s.stock.AddSource(ctx, req.Name, req.Unit, req.Quantity)
}

func (s *appService) UpdateSource(ctx context.Context, sourceID int, req SourcePatch) (*core.Source, error) {
	return s.stock.UpdateSource(ctx, sourceID, req.Name, req.Unit, req.Quantity)
}

func (s *appService) DeleteSource(ctx context.Context, sourceID int) error {
	return s.stock.DeleteSource(ctx, sourceID)
}

func (s *appService) AdjustSource(ctx context.Context, sourceID int, req AdjustRequest) (*AdjustResult, error) {
	newQty, err := s.stock.AdjustSource(ctx, sourceID, req.Delta, req.Reason, req.UserID)
	if err != nil {
		return nil, err
	}
	return &AdjustResult{NewQuantity: newQty}, nil
}

func (s *appService) ListInventory(ctx context.Context) (*InventoryListResult, error) {
	records, err := s.stock.ListInventory(ctx)
	if err != nil {
		return nil, err
	}
	return &InventoryListResult{Inventory: records}, nil
}

func (s *appService) SetInventory(ctx context.Context, productID int, req InventoryRequest) (*core.InventoryRecord, error) {
	return s.stock.SetInventory(ctx, productID, req.Quantity)
}

func (s *appService) DeleteInventory(ctx context.Context, productID int) error {
	return s.stock.DeleteInventory(ctx, productID)
}

func (s *appService) AdjustInventory(ctx context.Context, productID int, req AdjustRequest) (*AdjustResult, error) {
	newQty, err := s.stock.AdjustInventory(ctx, productID, req.Delta, req.Reason, req.UserID)
	if err != nil {
		return nil, err
	}
	return &AdjustResult{NewQuantity: newQty}, nil
}

func (s *appService) ListProductSources(ctx context.Context) (*MappingListResult, error) {
	mappings, err := s.stock.ListProductSources(ctx)
	if err != nil {
		return nil, err
	}
	return &MappingListResult{Mappings: mappings}, nil
}

func (s *appService) SetProductSource(ctx context.Context, req MappingRequest) (*core.ProductSource, error) {
	return s.stock.SetProductSource(ctx, req.ProductID, req.SourceID, req.Factor)
}

func (s *appService) DeleteProductSource(ctx context.Context, productID int) error {
	return s.stock.DeleteProductSource(ctx, productID)
}

func (s *appService) ListMovements(ctx context.Context, limit int, kind string, refID *int) (*MovementListResult, error) {
	movements, err := s.movements.ListMovements(ctx, limit, kind, refID)
	if err != nil {
		return nil, err
	}
	return &MovementListResult{Movements: movements}, nil
}

func (s *appService) DailySummary(ctx context.Context, date string) (*core.DailySummary, error) {
	return s.reporting.DailySummary(ctx, date)
}
