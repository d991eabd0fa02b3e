package service

import (
	"context"

	"github.com/showroomhq/showroom/internal/domain"
	"github.com/showroomhq/showroom/internal/dto"
)

// RegistryService owns creation and listing of the master-data entities.
// Referential checks (vehicle -> customer, service record -> vehicle) happen
// here, not in the handlers.
type RegistryService interface {
	CreateCustomer(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	// ListCustomers serves one page; params are normalized before use.
	ListCustomers(ctx context.Context, params domain.Params) ([]domain.Customer, domain.Paginated, error)
	CreateVehicle(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error)
	ListVehicles(ctx context.Context, unsoldOnly bool, params domain.Params) ([]domain.Vehicle, domain.Paginated, error)
	CreateSubDealer(ctx context.Context, dealer *domain.SubDealer) (*domain.SubDealer, error)
	ListSubDealers(ctx context.Context) ([]domain.SubDealer, error)
	CreateServiceRecord(ctx context.Context, record *domain.ServiceRecord) (*domain.ServiceRecord, error)
	// ListServiceRecords lists every record, or only one vehicle's history
	// (ordered by service count) when vehicleID is non-zero.
	ListServiceRecords(ctx context.Context, vehicleID uint64) ([]domain.ServiceRecord, error)
}

// SalesService runs the purchase pipeline: validate -> assemble -> create.
type SalesService interface {
	// Validate normalizes the raw request into a PurchaseIntent. Validation
	// failures come back as common.FieldErrors; any other error is
	// infrastructure. Validate never mutates state and is safe to call
	// repeatedly with the same input.
	Validate(ctx context.Context, req dto.CreatePurchaseRequest) (*domain.PurchaseIntent, error)
	// Assemble builds the persistence payload from a validated intent. A cash
	// intent that still carries loan terms is a common.ErrIntegrityViolation.
	Assemble(ctx context.Context, intent *domain.PurchaseIntent) (*dto.PurchasePayload, error)
	CreatePurchase(ctx context.Context, req dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error)
	QuoteEMI(ctx context.Context, principal, annualRatePercent float64, tenureYears int) (*dto.EMIQuoteResponse, error)
}

type DashboardService interface {
	Summary(ctx context.Context) (*dto.SummaryResponse, error)
	Inventory(ctx context.Context) (*dto.InventoryResponse, error)
	Bookings(ctx context.Context) (*dto.BookingsResponse, error)
	ServiceStatus(ctx context.Context) (*dto.ServiceStatusResponse, error)
	Alerts(ctx context.Context) (*dto.AlertsResponse, error)
}

type SearchService interface {
	Search(ctx context.Context, query string) (*dto.SearchResponse, error)
	FullDetails(ctx context.Context, customerID uint64) (*dto.FullDetailsResponse, error)
}
