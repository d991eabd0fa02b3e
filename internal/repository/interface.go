package repository

import (
	"context"
	"time"

	"github.com/showroomhq/showroom/internal/domain"
)

type CustomerRepository interface {
	Save(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	// FindAll returns one page of customers plus the total row count.
	FindAll(ctx context.Context, params domain.Params) ([]domain.Customer, int64, error)
	FindByID(ctx context.Context, id uint64) (*domain.Customer, error)
	SearchByName(ctx context.Context, query string) ([]domain.Customer, error)
}

type VehicleRepository interface {
	Save(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error)
	// FindAll returns one page of vehicles plus the total row count; the
	// total respects the unsoldOnly scope.
	FindAll(ctx context.Context, unsoldOnly bool, params domain.Params) ([]domain.Vehicle, int64, error)
	FindByID(ctx context.Context, id uint64) (*domain.Vehicle, error)
	FindByCustomerID(ctx context.Context, customerID uint64) ([]domain.Vehicle, error)
	SearchByNameOrModel(ctx context.Context, query string) ([]domain.Vehicle, error)
	CountInStock(ctx context.Context) (int64, error)
	CountUnsoldCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type SubDealerRepository interface {
	Save(ctx context.Context, dealer *domain.SubDealer) (*domain.SubDealer, error)
	FindAll(ctx context.Context) ([]domain.SubDealer, error)
	FindByID(ctx context.Context, id uint64) (*domain.SubDealer, error)
	SearchByName(ctx context.Context, query string) ([]domain.SubDealer, error)
	CountAll(ctx context.Context) (int64, error)
}

type ServiceRecordRepository interface {
	Save(ctx context.Context, record *domain.ServiceRecord) (*domain.ServiceRecord, error)
	FindAll(ctx context.Context) ([]domain.ServiceRecord, error)
	// FindByVehicleID returns the records ordered by service_count.
	FindByVehicleID(ctx context.Context, vehicleID uint64) ([]domain.ServiceRecord, error)
	CountByStatus(ctx context.Context) (map[domain.ServiceStatus]int64, error)
	CountNotCompleted(ctx context.Context) (int64, error)
}

type PurchaseRepository interface {
	// Create persists the purchase inside one transaction: the vehicle row is
	// locked with SELECT ... FOR UPDATE, the allocation is re-checked, and the
	// insert lands on the unique index over vehicle_id. A duplicate-key
	// violation comes back as common.ErrVehicleAlreadySold.
	Create(ctx context.Context, purchase *domain.Purchase) (*domain.Purchase, error)
	ExistsByVehicleID(ctx context.Context, vehicleID uint64) (bool, error)
	CountAll(ctx context.Context) (int64, error)
	CountPurchasedOn(ctx context.Context, day time.Time) (int64, error)
	CountPurchasedSince(ctx context.Context, from time.Time) (int64, error)
	CountDeliveriesAfter(ctx context.Context, day time.Time) (int64, error)
	SumSoldVehiclePrices(ctx context.Context) (float64, error)
}
