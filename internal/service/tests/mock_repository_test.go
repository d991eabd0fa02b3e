package service_test

import (
	"context"
	"time"

	"github.com/showroomhq/showroom/internal/domain"
)

type mockCustomerRepository struct {
	// Fields to control mock behavior
	MockSaveData         *domain.Customer
	MockFindAllData      []domain.Customer
	MockFindByIDData     *domain.Customer
	MockSearchByNameData []domain.Customer
	MockFindAllTotal     int64
	MockError            error

	// Fields to capture calls
	SaveCalledWith        *domain.Customer
	FindAllCalledWithPage domain.Params
	FindByIDCalledWith    uint64
	SearchCalledWith      string
}

func (m *mockCustomerRepository) Save(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	m.SaveCalledWith = customer
	if m.MockError != nil {
		return nil, m.MockError
	}
	if m.MockSaveData != nil {
		return m.MockSaveData, nil
	}
	return customer, nil
}

func (m *mockCustomerRepository) FindAll(ctx context.Context, params domain.Params) ([]domain.Customer, int64, error) {
	m.FindAllCalledWithPage = params
	return m.MockFindAllData, m.MockFindAllTotal, m.MockError
}

func (m *mockCustomerRepository) FindByID(ctx context.Context, id uint64) (*domain.Customer, error) {
	m.FindByIDCalledWith = id
	if m.MockError != nil {
		return nil, m.MockError
	}
	if m.MockFindByIDData != nil && m.MockFindByIDData.ID == id {
		return m.MockFindByIDData, nil
	}
	return nil, nil
}

func (m *mockCustomerRepository) SearchByName(ctx context.Context, query string) ([]domain.Customer, error) {
	m.SearchCalledWith = query
	return m.MockSearchByNameData, m.MockError
}

type mockVehicleRepository struct {
	MockSaveData                 *domain.Vehicle
	MockFindAllData              []domain.Vehicle
	MockFindByIDData             *domain.Vehicle
	MockFindByCustomerIDData     []domain.Vehicle
	MockSearchData               []domain.Vehicle
	MockFindAllTotal             int64
	MockCountInStock             int64
	MockCountUnsoldCreatedBefore int64
	MockError                    error

	FindAllCalledWithUnsoldOnly bool
	FindAllCalledWithPage       domain.Params
	FindByIDCalledWith          uint64
	FindByCustomerIDCalledWith  uint64
	SearchCalledWith            string
	CountUnsoldCalledWithCutoff time.Time
}

func (m *mockVehicleRepository) Save(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	if m.MockSaveData != nil {
		return m.MockSaveData, nil
	}
	return vehicle, nil
}

func (m *mockVehicleRepository) FindAll(ctx context.Context, unsoldOnly bool, params domain.Params) ([]domain.Vehicle, int64, error) {
	m.FindAllCalledWithUnsoldOnly = unsoldOnly
	m.FindAllCalledWithPage = params
	return m.MockFindAllData, m.MockFindAllTotal, m.MockError
}

func (m *mockVehicleRepository) FindByID(ctx context.Context, id uint64) (*domain.Vehicle, error) {
	m.FindByIDCalledWith = id
	if m.MockError != nil {
		return nil, m.MockError
	}
	if m.MockFindByIDData != nil && m.MockFindByIDData.ID == id {
		return m.MockFindByIDData, nil
	}
	return nil, nil
}

func (m *mockVehicleRepository) FindByCustomerID(ctx context.Context, customerID uint64) ([]domain.Vehicle, error) {
	m.FindByCustomerIDCalledWith = customerID
	return m.MockFindByCustomerIDData, m.MockError
}

func (m *mockVehicleRepository) SearchByNameOrModel(ctx context.Context, query string) ([]domain.Vehicle, error) {
	m.SearchCalledWith = query
	return m.MockSearchData, m.MockError
}

func (m *mockVehicleRepository) CountInStock(ctx context.Context) (int64, error) {
	return m.MockCountInStock, m.MockError
}

func (m *mockVehicleRepository) CountUnsoldCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	m.CountUnsoldCalledWithCutoff = cutoff
	return m.MockCountUnsoldCreatedBefore, m.MockError
}

type mockSubDealerRepository struct {
	MockSaveData         *domain.SubDealer
	MockFindAllData      []domain.SubDealer
	MockFindByIDData     *domain.SubDealer
	MockSearchByNameData []domain.SubDealer
	MockCountAll         int64
	MockError            error

	FindByIDCalledWith uint64
}

func (m *mockSubDealerRepository) Save(ctx context.Context, dealer *domain.SubDealer) (*domain.SubDealer, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	if m.MockSaveData != nil {
		return m.MockSaveData, nil
	}
	return dealer, nil
}

func (m *mockSubDealerRepository) FindAll(ctx context.Context) ([]domain.SubDealer, error) {
	return m.MockFindAllData, m.MockError
}

func (m *mockSubDealerRepository) FindByID(ctx context.Context, id uint64) (*domain.SubDealer, error) {
	m.FindByIDCalledWith = id
	if m.MockError != nil {
		return nil, m.MockError
	}
	if m.MockFindByIDData != nil && m.MockFindByIDData.ID == id {
		return m.MockFindByIDData, nil
	}
	return nil, nil
}

func (m *mockSubDealerRepository) SearchByName(ctx context.Context, query string) ([]domain.SubDealer, error) {
	return m.MockSearchByNameData, m.MockError
}

func (m *mockSubDealerRepository) CountAll(ctx context.Context) (int64, error) {
	return m.MockCountAll, m.MockError
}

type mockServiceRecordRepository struct {
	MockSaveData              *domain.ServiceRecord
	MockFindAllData           []domain.ServiceRecord
	MockFindByVehicleIDData   []domain.ServiceRecord
	MockCountByStatusData     map[domain.ServiceStatus]int64
	MockCountNotCompletedData int64
	MockError                 error

	FindByVehicleIDCalledWith uint64
}

func (m *mockServiceRecordRepository) Save(ctx context.Context, record *domain.ServiceRecord) (*domain.ServiceRecord, error) {
	if m.MockError != nil {
		return nil, m.MockError
	}
	if m.MockSaveData != nil {
		return m.MockSaveData, nil
	}
	return record, nil
}

func (m *mockServiceRecordRepository) FindAll(ctx context.Context) ([]domain.ServiceRecord, error) {
	return m.MockFindAllData, m.MockError
}

func (m *mockServiceRecordRepository) FindByVehicleID(ctx context.Context, vehicleID uint64) ([]domain.ServiceRecord, error) {
	m.FindByVehicleIDCalledWith = vehicleID
	return m.MockFindByVehicleIDData, m.MockError
}

func (m *mockServiceRecordRepository) CountByStatus(ctx context.Context) (map[domain.ServiceStatus]int64, error) {
	return m.MockCountByStatusData, m.MockError
}

func (m *mockServiceRecordRepository) CountNotCompleted(ctx context.Context) (int64, error) {
	return m.MockCountNotCompletedData, m.MockError
}

type mockPurchaseRepository struct {
	MockCreateData           *domain.Purchase
	MockCreateError          error
	MockExistsByVehicleID    bool
	MockCountAll             int64
	MockCountPurchasedOn     int64
	MockCountPurchasedSince  int64
	MockCountDeliveriesAfter int64
	MockSumSoldVehiclePrices float64
	MockError                error

	CreateCalledWith     *domain.Purchase
	CreateCalls          int
	ExistsCalledWith     uint64
	CountSinceCalledWith []time.Time
}

func (m *mockPurchaseRepository) Create(ctx context.Context, purchase *domain.Purchase) (*domain.Purchase, error) {
	m.CreateCalledWith = purchase
	m.CreateCalls++
	if m.MockCreateError != nil {
		return nil, m.MockCreateError
	}
	if m.MockCreateData != nil {
		return m.MockCreateData, nil
	}
	created := *purchase
	created.ID = 1
	return &created, nil
}

func (m *mockPurchaseRepository) ExistsByVehicleID(ctx context.Context, vehicleID uint64) (bool, error) {
	m.ExistsCalledWith = vehicleID
	return m.MockExistsByVehicleID, m.MockError
}

func (m *mockPurchaseRepository) CountAll(ctx context.Context) (int64, error) {
	return m.MockCountAll, m.MockError
}

func (m *mockPurchaseRepository) CountPurchasedOn(ctx context.Context, day time.Time) (int64, error) {
	return m.MockCountPurchasedOn, m.MockError
}

func (m *mockPurchaseRepository) CountPurchasedSince(ctx context.Context, from time.Time) (int64, error) {
	m.CountSinceCalledWith = append(m.CountSinceCalledWith, from)
	return m.MockCountPurchasedSince, m.MockError
}

func (m *mockPurchaseRepository) CountDeliveriesAfter(ctx context.Context, day time.Time) (int64, error) {
	return m.MockCountDeliveriesAfter, m.MockError
}

func (m *mockPurchaseRepository) SumSoldVehiclePrices(ctx context.Context) (float64, error) {
	return m.MockSumSoldVehiclePrices, m.MockError
}
