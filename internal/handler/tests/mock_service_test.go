package handler_test

import (
	"context"

	"github.com/showroomhq/showroom/internal/domain"
	"github.com/showroomhq/showroom/internal/dto"
)

type MockRegistryService struct {
	MockCustomer       *domain.Customer
	MockCustomers      []domain.Customer
	MockVehicle        *domain.Vehicle
	MockVehicles       []domain.Vehicle
	MockSubDealer      *domain.SubDealer
	MockSubDealers     []domain.SubDealer
	MockServiceRecord  *domain.ServiceRecord
	MockServiceRecords []domain.ServiceRecord
	MockError          error

	ListVehiclesCalledWithUnsoldOnly bool
	ListVehiclesCalledWithParams     domain.Params
	ListCustomersCalledWithParams    domain.Params
	ListServicesCalledWithVehicleID  uint64
}

func (m *MockRegistryService) CreateCustomer(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockCustomer, nil
}

func (m *MockRegistryService) ListCustomers(ctx context.Context, params domain.Params) ([]domain.Customer, domain.Paginated, error) {
	m.ListCustomersCalledWithParams = params
	return m.MockCustomers, domain.NewPaginated(int64(len(m.MockCustomers)), params.Normalize()), m.MockError
}

func (m *MockRegistryService) CreateVehicle(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockVehicle, nil
}

func (m *MockRegistryService) ListVehicles(ctx context.Context, unsoldOnly bool, params domain.Params) ([]domain.Vehicle, domain.Paginated, error) {
	m.ListVehiclesCalledWithUnsoldOnly = unsoldOnly
	m.ListVehiclesCalledWithParams = params
	return m.MockVehicles, domain.NewPaginated(int64(len(m.MockVehicles)), params.Normalize()), m.MockError
}

func (m *MockRegistryService) CreateSubDealer(ctx context.Context, dealer *domain.SubDealer) (*domain.SubDealer, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockSubDealer, nil
}

func (m *MockRegistryService) ListSubDealers(ctx context.Context) ([]domain.SubDealer, error) {
	return m.MockSubDealers, m.MockError
}

func (m *MockRegistryService) CreateServiceRecord(ctx context.Context, record *domain.ServiceRecord) (*domain.ServiceRecord, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockServiceRecord, nil
}

func (m *MockRegistryService) ListServiceRecords(ctx context.Context, vehicleID uint64) ([]domain.ServiceRecord, error) {
	m.ListServicesCalledWithVehicleID = vehicleID
	return m.MockServiceRecords, m.MockError
}

type MockSalesService struct {
	MockIntent   *domain.PurchaseIntent
	MockPayload  *dto.PurchasePayload
	MockPurchase *dto.PurchaseResponse
	MockQuote    *dto.EMIQuoteResponse
	MockError    error
}

func (m *MockSalesService) Validate(ctx context.Context, req dto.CreatePurchaseRequest) (*domain.PurchaseIntent, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockIntent, nil
}

func (m *MockSalesService) Assemble(ctx context.Context, intent *domain.PurchaseIntent) (*dto.PurchasePayload, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockPayload, nil
}

func (m *MockSalesService) CreatePurchase(ctx context.Context, req dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockPurchase, nil
}

func (m *MockSalesService) QuoteEMI(ctx context.Context, principal, annualRatePercent float64, tenureYears int) (*dto.EMIQuoteResponse, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockQuote, nil
}

type MockSearchService struct {
	MockSearchResult *dto.SearchResponse
	MockFullDetails  *dto.FullDetailsResponse
	MockError        error

	SearchCalledWith      string
	FullDetailsCalledWith uint64
}

func (m *MockSearchService) Search(ctx context.Context, query string) (*dto.SearchResponse, error) {
	m.SearchCalledWith = query
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockSearchResult, nil
}

func (m *MockSearchService) FullDetails(ctx context.Context, customerID uint64) (*dto.FullDetailsResponse, error) {
	m.FullDetailsCalledWith = customerID
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockFullDetails, nil
}

type MockDashboardService struct {
	MockSummary       *dto.SummaryResponse
	MockInventory     *dto.InventoryResponse
	MockBookings      *dto.BookingsResponse
	MockServiceStatus *dto.ServiceStatusResponse
	MockAlerts        *dto.AlertsResponse
	MockError         error
}

func (m *MockDashboardService) Summary(ctx context.Context) (*dto.SummaryResponse, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockSummary, nil
}

func (m *MockDashboardService) Inventory(ctx context.Context) (*dto.InventoryResponse, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockInventory, nil
}

func (m *MockDashboardService) Bookings(ctx context.Context) (*dto.BookingsResponse, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockBookings, nil
}

func (m *MockDashboardService) ServiceStatus(ctx context.Context) (*dto.ServiceStatusResponse, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockServiceStatus, nil
}

func (m *MockDashboardService) Alerts(ctx context.Context) (*dto.AlertsResponse, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockAlerts, nil
}
