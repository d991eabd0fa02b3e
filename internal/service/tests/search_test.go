package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/showroomhq/showroom/internal/domain"
	"github.com/showroomhq/showroom/internal/service"
	searchsrv "github.com/showroomhq/showroom/internal/service/search"
	"github.com/showroomhq/showroom/pkg/common"

	"github.com/stretchr/testify/assert"

	noop_metric "go.opentelemetry.io/otel/metric/noop"
	noop_trace "go.opentelemetry.io/otel/trace/noop"

	"go.uber.org/zap"
)

func newSearchService(
	customerRepo *mockCustomerRepository,
	vehicleRepo *mockVehicleRepository,
	dealerRepo *mockSubDealerRepository,
) service.SearchService {
	return searchsrv.NewSearchService(
		customerRepo,
		vehicleRepo,
		dealerRepo,
		noop_metric.NewMeterProvider().Meter("test-search-service-meter"),
		noop_trace.NewTracerProvider().Tracer("test-search-service-tracer"),
		zap.NewNop(),
	)
}

func TestSearch(t *testing.T) {
	t.Run("Short Query Returns Empty Result Without Queries", func(t *testing.T) {
		customerRepo := &mockCustomerRepository{}
		vehicleRepo := &mockVehicleRepository{}
		dealerRepo := &mockSubDealerRepository{}
		svc := newSearchService(customerRepo, vehicleRepo, dealerRepo)

		result, err := svc.Search(context.Background(), "a")

		assert.NoError(t, err)
		assert.NotNil(t, result.Customers)
		assert.NotNil(t, result.Vehicles)
		assert.NotNil(t, result.Dealers)
		assert.Empty(t, result.Customers)
		assert.Empty(t, customerRepo.SearchCalledWith, "the store must not be queried")
		assert.Empty(t, vehicleRepo.SearchCalledWith)
	})

	t.Run("Matches Across All Three Registries", func(t *testing.T) {
		customerRepo := &mockCustomerRepository{
			MockSearchByNameData: []domain.Customer{{ID: 7, Name: "Dewi Lestari"}},
		}
		vehicleRepo := &mockVehicleRepository{
			MockSearchData: []domain.Vehicle{{ID: 1, Name: "City Cruiser", Model: "CX-200"}},
		}
		dealerRepo := &mockSubDealerRepository{
			MockSearchByNameData: []domain.SubDealer{{ID: 3, Name: "Bandung Timur Motor"}},
		}
		svc := newSearchService(customerRepo, vehicleRepo, dealerRepo)

		result, err := svc.Search(context.Background(), "an")

		assert.NoError(t, err)
		assert.Len(t, result.Customers, 1)
		assert.Len(t, result.Vehicles, 1)
		assert.Len(t, result.Dealers, 1)
		assert.Equal(t, "CX-200", result.Vehicles[0].Model)
		assert.Empty(t, result.Customers[0].Model, "customer matches carry no model")
	})
}

func TestFullDetails(t *testing.T) {
	t.Run("Failure - Customer Not Found", func(t *testing.T) {
		svc := newSearchService(&mockCustomerRepository{}, &mockVehicleRepository{}, &mockSubDealerRepository{})

		details, err := svc.FullDetails(context.Background(), 404)

		assert.Nil(t, details)
		assert.ErrorIs(t, err, common.ErrCustomerNotFound)
	})

	t.Run("Success - Vehicles With Classified Service History", func(t *testing.T) {
		customerRepo := &mockCustomerRepository{
			MockFindByIDData: &domain.Customer{ID: 7, Name: "Dewi Lestari"},
		}
		vehicleRepo := &mockVehicleRepository{
			MockFindByCustomerIDData: []domain.Vehicle{
				{
					ID: 1, CustomerID: 7, Name: "City Cruiser",
					Services: []domain.ServiceRecord{
						{ID: 10, VehicleID: 1, ServiceCount: 6, Status: domain.ServiceCompleted, Date: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)},
						{ID: 11, VehicleID: 1, ServiceCount: 7, Status: domain.ServicePending, Date: time.Date(2026, 6, 5, 0, 0, 0, 0, time.UTC)},
					},
				},
			},
		}
		svc := newSearchService(customerRepo, vehicleRepo, &mockSubDealerRepository{})

		details, err := svc.FullDetails(context.Background(), 7)

		assert.NoError(t, err)
		assert.Equal(t, "Dewi Lestari", details.Customer.Name)
		assert.Len(t, details.Vehicles, 1)

		services := details.Vehicles[0].Services
		assert.Len(t, services, 2)
		assert.Equal(t, "FREE SERVICE", services[0].Classification)
		assert.Equal(t, "PAID SERVICE", services[1].Classification)
	})

	t.Run("Success - Customer Without Vehicles", func(t *testing.T) {
		customerRepo := &mockCustomerRepository{
			MockFindByIDData: &domain.Customer{ID: 7, Name: "Dewi Lestari"},
		}
		svc := newSearchService(customerRepo, &mockVehicleRepository{}, &mockSubDealerRepository{})

		details, err := svc.FullDetails(context.Background(), 7)

		assert.NoError(t, err)
		assert.NotNil(t, details.Vehicles)
		assert.Empty(t, details.Vehicles)
	})
}
