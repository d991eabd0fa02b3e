package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/showroomhq/showroom/internal/domain"
	registryhandler "github.com/showroomhq/showroom/internal/handler/registry"

	"github.com/gofiber/fiber/v2"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	noop_metric "go.opentelemetry.io/otel/metric/noop"
	noop_trace "go.opentelemetry.io/otel/trace/noop"

	"go.uber.org/zap"
)

type RegistryHandlerTestSuite struct {
	suite.Suite
	app                 *fiber.App
	handler             *registryhandler.RegistryHandler
	mockRegistryService *MockRegistryService
}

func (suite *RegistryHandlerTestSuite) SetupTest() {
	suite.mockRegistryService = &MockRegistryService{}

	suite.handler = registryhandler.NewRegistryHandler(
		suite.mockRegistryService,
		noop_metric.NewMeterProvider().Meter("test-registry-handler-meter"),
		noop_trace.NewTracerProvider().Tracer("test-registry-handler-tracer"),
		zap.NewNop(),
	)

	app := fiber.New()
	app.Post("/customers", suite.handler.CreateCustomer)
	app.Get("/customers", suite.handler.ListCustomers)
	app.Post("/vehicles", suite.handler.CreateVehicle)
	app.Get("/vehicles", suite.handler.ListVehicles)
	app.Post("/sub-dealers", suite.handler.CreateSubDealer)
	app.Post("/services", suite.handler.CreateService)
	app.Get("/services", suite.handler.ListServices)
	suite.app = app
}

func (suite *RegistryHandlerTestSuite) TestCreateCustomer() {
	requestBodyMap := map[string]any{
		"name":       "Dewi Lestari",
		"contact_no": "0812345678",
		"email":      "dewi@example.com",
		"address":    "Jl. Asia Afrika No. 8",
		"city":       "Bandung",
	}

	suite.Run("Success", func() {
		suite.mockRegistryService.MockCustomer = &domain.Customer{ID: 7, Name: "Dewi Lestari"}
		req := createJSONRequest(suite.T(), http.MethodPost, "/customers", requestBodyMap)

		resp, _ := suite.app.Test(req)
		defer resp.Body.Close()

		assert.Equal(suite.T(), http.StatusCreated, resp.StatusCode)
	})

	suite.Run("Failure - Bad Contact Number", func() {
		bad := map[string]any{}
		for k, v := range requestBodyMap {
			bad[k] = v
		}
		bad["contact_no"] = "not-a-number"
		req := createJSONRequest(suite.T(), http.MethodPost, "/customers", bad)

		resp, _ := suite.app.Test(req)
		defer resp.Body.Close()

		assert.Equal(suite.T(), http.StatusUnprocessableEntity, resp.StatusCode)

		body := decodeBody(suite.T(), resp)
		errs, ok := body["errors"].(map[string]any)
		assert.True(suite.T(), ok)
		assert.Contains(suite.T(), errs, "contact_no")
	})

	suite.Run("Failure - Missing Fields Reported Together", func() {
		req := createJSONRequest(suite.T(), http.MethodPost, "/customers", map[string]any{
			"name": "Dewi Lestari",
		})

		resp, _ := suite.app.Test(req)
		defer resp.Body.Close()

		assert.Equal(suite.T(), http.StatusUnprocessableEntity, resp.StatusCode)

		body := decodeBody(suite.T(), resp)
		errs, ok := body["errors"].(map[string]any)
		assert.True(suite.T(), ok)
		assert.Contains(suite.T(), errs, "contact_no")
		assert.Contains(suite.T(), errs, "email")
		assert.Contains(suite.T(), errs, "address")
		assert.Contains(suite.T(), errs, "city")
		assert.NotContains(suite.T(), errs, "name")
	})
}

func (suite *RegistryHandlerTestSuite) TestListVehicles() {
	suite.Run("Unsold Filter Passed Through", func() {
		req := httptest.NewRequest(http.MethodGet, "/vehicles?unsold=true", nil)

		resp, _ := suite.app.Test(req)
		defer resp.Body.Close()

		assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)
		assert.True(suite.T(), suite.mockRegistryService.ListVehiclesCalledWithUnsoldOnly)
	})

	suite.Run("Default Lists Everything", func() {
		req := httptest.NewRequest(http.MethodGet, "/vehicles", nil)

		resp, _ := suite.app.Test(req)
		defer resp.Body.Close()

		assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)
		assert.False(suite.T(), suite.mockRegistryService.ListVehiclesCalledWithUnsoldOnly)
	})

	suite.Run("Page Window Passed Through", func() {
		req := httptest.NewRequest(http.MethodGet, "/vehicles?page=2&limit=5", nil)

		resp, _ := suite.app.Test(req)
		defer resp.Body.Close()

		assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)
		assert.Equal(suite.T(), 2, suite.mockRegistryService.ListVehiclesCalledWithParams.Page)
		assert.Equal(suite.T(), 5, suite.mockRegistryService.ListVehiclesCalledWithParams.Limit)

		body := decodeBody(suite.T(), resp)
		data, ok := body["data"].(map[string]any)
		assert.True(suite.T(), ok)
		assert.NotNil(suite.T(), data["items"])
		pagination, ok := data["pagination"].(map[string]any)
		assert.True(suite.T(), ok)
		assert.Equal(suite.T(), float64(2), pagination["page"])
		assert.Equal(suite.T(), float64(5), pagination["limit"])
	})
}

func (suite *RegistryHandlerTestSuite) TestListCustomers() {
	suite.Run("Defaults When No Window Given", func() {
		suite.mockRegistryService.MockCustomers = []domain.Customer{{ID: 7, Name: "Dewi Lestari"}}
		req := httptest.NewRequest(http.MethodGet, "/customers", nil)

		resp, _ := suite.app.Test(req)
		defer resp.Body.Close()

		assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)

		body := decodeBody(suite.T(), resp)
		data, ok := body["data"].(map[string]any)
		assert.True(suite.T(), ok)
		pagination, ok := data["pagination"].(map[string]any)
		assert.True(suite.T(), ok)
		assert.Equal(suite.T(), float64(1), pagination["page"])
		assert.Equal(suite.T(), float64(domain.DefaultPageLimit), pagination["limit"])
		assert.Equal(suite.T(), float64(1), pagination["total"])
	})
}

func (suite *RegistryHandlerTestSuite) TestCreateService() {
	requestBodyMap := map[string]any{
		"vehicle_id":    4,
		"service_count": 7,
		"status":        "Pending",
		"date":          "2026-03-10",
	}

	suite.Run("Success - Paid Classification In Response", func() {
		suite.mockRegistryService.MockServiceRecord = &domain.ServiceRecord{
			ID: 12, VehicleID: 4, ServiceCount: 7,
			Status: domain.ServicePending,
			Date:   time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		}
		req := createJSONRequest(suite.T(), http.MethodPost, "/services", requestBodyMap)

		resp, _ := suite.app.Test(req)
		defer resp.Body.Close()

		assert.Equal(suite.T(), http.StatusCreated, resp.StatusCode)

		body := decodeBody(suite.T(), resp)
		data, ok := body["data"].(map[string]any)
		assert.True(suite.T(), ok)
		assert.Equal(suite.T(), "PAID SERVICE", data["classification"])
	})

	suite.Run("Failure - Unknown Status Rejected", func() {
		bad := map[string]any{}
		for k, v := range requestBodyMap {
			bad[k] = v
		}
		bad["status"] = "Exploded"
		req := createJSONRequest(suite.T(), http.MethodPost, "/services", bad)

		resp, _ := suite.app.Test(req)
		defer resp.Body.Close()

		assert.Equal(suite.T(), http.StatusUnprocessableEntity, resp.StatusCode)
	})
}

func (suite *RegistryHandlerTestSuite) TestListServices() {
	suite.Run("Vehicle Filter Passed Through", func() {
		req := httptest.NewRequest(http.MethodGet, "/services?vehicle_id=4", nil)

		resp, _ := suite.app.Test(req)
		defer resp.Body.Close()

		assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)
		assert.Equal(suite.T(), uint64(4), suite.mockRegistryService.ListServicesCalledWithVehicleID)
	})
}

func TestRegistryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(RegistryHandlerTestSuite))
}
