package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/showroomhq/showroom/internal/dto"
	saleshandler "github.com/showroomhq/showroom/internal/handler/sales"
	"github.com/showroomhq/showroom/pkg/common"

	"github.com/gofiber/fiber/v2"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	noop_metric "go.opentelemetry.io/otel/metric/noop"
	noop_trace "go.opentelemetry.io/otel/trace/noop"

	"go.uber.org/zap"
)

type SalesHandlerTestSuite struct {
	suite.Suite
	app              *fiber.App
	handler          *saleshandler.SalesHandler
	mockSalesService *MockSalesService
}

func (suite *SalesHandlerTestSuite) SetupTest() {
	suite.mockSalesService = &MockSalesService{}

	suite.handler = saleshandler.NewSalesHandler(
		suite.mockSalesService,
		noop_metric.NewMeterProvider().Meter("test-sales-handler-meter"),
		noop_trace.NewTracerProvider().Tracer("test-sales-handler-tracer"),
		zap.NewNop(),
	)

	app := fiber.New()
	app.Post("/purchases", suite.handler.CreatePurchase)
	app.Get("/finance/emi", suite.handler.QuoteEMI)
	suite.app = app
}

func (suite *SalesHandlerTestSuite) TestCreatePurchase() {
	requestBodyMap := map[string]any{
		"vehicle_id":       1,
		"payment_method":   "cash",
		"owner_name":       "Asep Sunandar",
		"delivery_address": "Jl. Braga No. 12, Bandung",
		"delivery_date":    "2026-02-01",
		"purchase_date":    "2026-01-15",
	}

	suite.Run("Success - Created", func() {
		suite.mockSalesService.MockError = nil
		suite.mockSalesService.MockPurchase = &dto.PurchaseResponse{
			ID:            1,
			BookingNumber: "BKG-20260115-00042",
			Payload:       dto.PurchasePayload{VehicleID: 1, PaymentMethod: "cash"},
		}
		req := createJSONRequest(suite.T(), http.MethodPost, "/purchases", requestBodyMap)

		resp, _ := suite.app.Test(req)
		defer resp.Body.Close()

		assert.Equal(suite.T(), http.StatusCreated, resp.StatusCode)

		body := decodeBody(suite.T(), resp)
		assert.Equal(suite.T(), "success", body["status"])
	})

	suite.Run("Failure - Validation Errors Come Back Per Field", func() {
		suite.mockSalesService.MockError = common.FieldErrors{
			"emi_amount": "does not match the computed installment of 10500.93",
			"bank_name":  "this field is required",
		}
		req := createJSONRequest(suite.T(), http.MethodPost, "/purchases", requestBodyMap)

		resp, _ := suite.app.Test(req)
		defer resp.Body.Close()

		assert.Equal(suite.T(), http.StatusUnprocessableEntity, resp.StatusCode)

		body := decodeBody(suite.T(), resp)
		errs, ok := body["errors"].(map[string]any)
		assert.True(suite.T(), ok, "validation failures must be keyed by field")
		assert.Contains(suite.T(), errs, "emi_amount")
		assert.Contains(suite.T(), errs, "bank_name")
	})

	suite.Run("Failure - Vehicle Already Sold", func() {
		suite.mockSalesService.MockError = common.ErrVehicleAlreadySold
		req := createJSONRequest(suite.T(), http.MethodPost, "/purchases", requestBodyMap)

		resp, _ := suite.app.Test(req)
		defer resp.Body.Close()

		assert.Equal(suite.T(), http.StatusConflict, resp.StatusCode)
	})

	suite.Run("Failure - Integrity Violation Is A Server Error", func() {
		suite.mockSalesService.MockError = common.ErrIntegrityViolation
		req := createJSONRequest(suite.T(), http.MethodPost, "/purchases", requestBodyMap)

		resp, _ := suite.app.Test(req)
		defer resp.Body.Close()

		assert.Equal(suite.T(), http.StatusInternalServerError, resp.StatusCode)
	})

	suite.Run("Failure - Malformed Body", func() {
		req := httptest.NewRequest(http.MethodPost, "/purchases", bytes.NewReader([]byte("{not json")))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := suite.app.Test(req)
		defer resp.Body.Close()

		assert.Equal(suite.T(), http.StatusBadRequest, resp.StatusCode)
	})
}

func (suite *SalesHandlerTestSuite) TestQuoteEMI() {
	suite.Run("Success", func() {
		suite.mockSalesService.MockError = nil
		suite.mockSalesService.MockQuote = &dto.EMIQuoteResponse{
			Principal:         500000,
			AnnualRate:        9.5,
			TenureYears:       5,
			EmiAmount:         10500.93,
			TotalInstallments: 60,
		}
		req := httptest.NewRequest(http.MethodGet, "/finance/emi?principal=500000&rate=9.5&tenure=5", nil)

		resp, _ := suite.app.Test(req)
		defer resp.Body.Close()

		assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)

		body := decodeBody(suite.T(), resp)
		data, ok := body["data"].(map[string]any)
		assert.True(suite.T(), ok)
		assert.Equal(suite.T(), 10500.93, data["emi_amount"])
	})

	suite.Run("Failure - Invalid Principal", func() {
		suite.mockSalesService.MockError = common.ErrInvalidPrincipal
		req := httptest.NewRequest(http.MethodGet, "/finance/emi?principal=0&rate=9.5&tenure=5", nil)

		resp, _ := suite.app.Test(req)
		defer resp.Body.Close()

		assert.Equal(suite.T(), http.StatusUnprocessableEntity, resp.StatusCode)

		body := decodeBody(suite.T(), resp)
		errs, ok := body["errors"].(map[string]any)
		assert.True(suite.T(), ok)
		assert.Contains(suite.T(), errs, "principal")
	})

	suite.Run("Failure - Invalid Tenure", func() {
		suite.mockSalesService.MockError = common.ErrInvalidTenure
		req := httptest.NewRequest(http.MethodGet, "/finance/emi?principal=500000&rate=9.5&tenure=0", nil)

		resp, _ := suite.app.Test(req)
		defer resp.Body.Close()

		assert.Equal(suite.T(), http.StatusUnprocessableEntity, resp.StatusCode)
	})
}

func TestSalesHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(SalesHandlerTestSuite))
}

func createJSONRequest(t *testing.T, method, url string, body map[string]any) *http.Request {
	jsonBody, err := json.Marshal(body)
	assert.NoError(t, err, "Failed to marshal request body")

	req := httptest.NewRequest(method, url, bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	raw, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)

	var body map[string]any
	assert.NoError(t, json.Unmarshal(raw, &body))
	return body
}
