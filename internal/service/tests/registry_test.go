package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/showroomhq/showroom/internal/domain"
	"github.com/showroomhq/showroom/internal/service"
	registrysrv "github.com/showroomhq/showroom/internal/service/registry"
	"github.com/showroomhq/showroom/pkg/common"

	"github.com/stretchr/testify/assert"

	noop_metric "go.opentelemetry.io/otel/metric/noop"
	noop_trace "go.opentelemetry.io/otel/trace/noop"

	"go.uber.org/zap"
)

func newRegistryService(
	customerRepo *mockCustomerRepository,
	vehicleRepo *mockVehicleRepository,
	dealerRepo *mockSubDealerRepository,
	serviceRecordRepo *mockServiceRecordRepository,
) service.RegistryService {
	return registrysrv.NewRegistryService(
		customerRepo,
		vehicleRepo,
		dealerRepo,
		serviceRecordRepo,
		noop_metric.NewMeterProvider().Meter("test-registry-service-meter"),
		noop_trace.NewTracerProvider().Tracer("test-registry-service-tracer"),
		zap.NewNop(),
	)
}

func TestCreateVehicle(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		customerRepo := &mockCustomerRepository{
			MockFindByIDData: &domain.Customer{ID: 7, Name: "Dewi Lestari"},
		}
		vehicleRepo := &mockVehicleRepository{}
		svc := newRegistryService(customerRepo, vehicleRepo, &mockSubDealerRepository{}, &mockServiceRecordRepository{})

		vehicle := &domain.Vehicle{CustomerID: 7, Name: "City Cruiser", Price: 600000}
		created, err := svc.CreateVehicle(context.Background(), vehicle)

		assert.NoError(t, err)
		assert.NotNil(t, created)
		assert.Equal(t, uint64(7), customerRepo.FindByIDCalledWith)
	})

	t.Run("Failure - Owner Does Not Exist", func(t *testing.T) {
		customerRepo := &mockCustomerRepository{}
		vehicleRepo := &mockVehicleRepository{}
		svc := newRegistryService(customerRepo, vehicleRepo, &mockSubDealerRepository{}, &mockServiceRecordRepository{})

		created, err := svc.CreateVehicle(context.Background(), &domain.Vehicle{CustomerID: 99})

		assert.Nil(t, created)
		assert.ErrorIs(t, err, common.ErrCustomerNotFound)
	})
}

func TestCreateServiceRecord(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		vehicleRepo := &mockVehicleRepository{
			MockFindByIDData: &domain.Vehicle{ID: 4},
		}
		serviceRecordRepo := &mockServiceRecordRepository{}
		svc := newRegistryService(&mockCustomerRepository{}, vehicleRepo, &mockSubDealerRepository{}, serviceRecordRepo)

		record := &domain.ServiceRecord{
			VehicleID:    4,
			ServiceCount: 3,
			Status:       domain.ServicePending,
			Date:         time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		}
		created, err := svc.CreateServiceRecord(context.Background(), record)

		assert.NoError(t, err)
		assert.NotNil(t, created)
	})

	t.Run("Failure - Vehicle Does Not Exist", func(t *testing.T) {
		vehicleRepo := &mockVehicleRepository{}
		svc := newRegistryService(&mockCustomerRepository{}, vehicleRepo, &mockSubDealerRepository{}, &mockServiceRecordRepository{})

		created, err := svc.CreateServiceRecord(context.Background(), &domain.ServiceRecord{VehicleID: 99})

		assert.Nil(t, created)
		assert.ErrorIs(t, err, common.ErrVehicleNotFound)
	})
}

func TestListServiceRecords(t *testing.T) {
	serviceRecordRepo := &mockServiceRecordRepository{
		MockFindAllData: []domain.ServiceRecord{
			{ID: 1, VehicleID: 4}, {ID: 2, VehicleID: 5},
		},
		MockFindByVehicleIDData: []domain.ServiceRecord{
			{ID: 1, VehicleID: 4, ServiceCount: 1},
			{ID: 3, VehicleID: 4, ServiceCount: 2},
		},
	}
	svc := newRegistryService(&mockCustomerRepository{}, &mockVehicleRepository{}, &mockSubDealerRepository{}, serviceRecordRepo)

	t.Run("All Records When No Vehicle Given", func(t *testing.T) {
		records, err := svc.ListServiceRecords(context.Background(), 0)

		assert.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("Single Vehicle History", func(t *testing.T) {
		records, err := svc.ListServiceRecords(context.Background(), 4)

		assert.NoError(t, err)
		assert.Len(t, records, 2)
		assert.Equal(t, uint64(4), serviceRecordRepo.FindByVehicleIDCalledWith)
	})
}

func TestListVehicles(t *testing.T) {
	vehicleRepo := &mockVehicleRepository{
		MockFindAllData:  []domain.Vehicle{{ID: 1}, {ID: 2}},
		MockFindAllTotal: 2,
	}
	svc := newRegistryService(&mockCustomerRepository{}, vehicleRepo, &mockSubDealerRepository{}, &mockServiceRecordRepository{})

	_, page, err := svc.ListVehicles(context.Background(), true, domain.Params{})

	assert.NoError(t, err)
	assert.True(t, vehicleRepo.FindAllCalledWithUnsoldOnly)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, domain.DefaultPageLimit, page.Limit)
}

func TestListCustomers(t *testing.T) {
	t.Run("Window Is Normalized Before It Reaches The Repository", func(t *testing.T) {
		customerRepo := &mockCustomerRepository{MockFindAllTotal: 12}
		svc := newRegistryService(customerRepo, &mockVehicleRepository{}, &mockSubDealerRepository{}, &mockServiceRecordRepository{})

		_, page, err := svc.ListCustomers(context.Background(), domain.Params{Page: -3, Limit: 100000})

		assert.NoError(t, err)
		assert.Equal(t, domain.Params{Page: 1, Limit: domain.DefaultPageLimit}, customerRepo.FindAllCalledWithPage)
		assert.Equal(t, int64(12), page.Total)
		assert.Equal(t, 1, page.TotalPages)
	})

	t.Run("Requested Page Is Passed Through", func(t *testing.T) {
		customerRepo := &mockCustomerRepository{MockFindAllTotal: 12}
		svc := newRegistryService(customerRepo, &mockVehicleRepository{}, &mockSubDealerRepository{}, &mockServiceRecordRepository{})

		_, page, err := svc.ListCustomers(context.Background(), domain.Params{Page: 2, Limit: 5})

		assert.NoError(t, err)
		assert.Equal(t, domain.Params{Page: 2, Limit: 5}, customerRepo.FindAllCalledWithPage)
		assert.Equal(t, 3, page.TotalPages)
	})
}
