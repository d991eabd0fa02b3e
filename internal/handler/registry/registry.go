package registryhandler

import (
	"context"
	"errors"
	"time"

	"github.com/showroomhq/showroom/internal/domain"
	"github.com/showroomhq/showroom/internal/dto"
	"github.com/showroomhq/showroom/internal/service"
	"github.com/showroomhq/showroom/pkg/common"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type RegistryHandler struct {
	registryService service.RegistryService
	validate        *validator.Validate
	meter           metric.Meter
	tracer          trace.Tracer
	log             *zap.Logger
	requestCount    metric.Int64Counter
	requestDuration metric.Float64Histogram
	errorCount      metric.Int64Counter
}

func NewRegistryHandler(
	registryService service.RegistryService,
	meter metric.Meter,
	tracer trace.Tracer,
	log *zap.Logger,
) *RegistryHandler {
	requestCount, err := meter.Int64Counter(
		"api.request.count",
		metric.WithDescription("Number of API requests received"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		zap.L().Fatal("Failed to create request count metric", zap.Error(err))
	}

	requestDuration, err := meter.Float64Histogram(
		"api.request.duration",
		metric.WithDescription("Duration of API requests"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		zap.L().Fatal("Failed to create request duration metric", zap.Error(err))
	}

	errorCount, err := meter.Int64Counter(
		"api.error.count",
		metric.WithDescription("Number of API errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		zap.L().Fatal("Failed to create error count metric", zap.Error(err))
	}

	return &RegistryHandler{
		registryService: registryService,
		validate:        common.NewValidator(),
		meter:           meter,
		tracer:          tracer,
		log:             log,
		requestCount:    requestCount,
		requestDuration: requestDuration,
		errorCount:      errorCount,
	}
}

func (h *RegistryHandler) beginRequest(ctx context.Context, span trace.Span, c *fiber.Ctx) {
	span.SetAttributes(
		attribute.String("http.method", c.Method()),
		attribute.String("http.route", c.Path()),
		attribute.String("http.client_ip", c.IP()),
	)
	h.requestCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("endpoint", c.Path()),
		attribute.String("method", c.Method()),
	))
}

func (h *RegistryHandler) recordError(
	ctx context.Context, span trace.Span, c *fiber.Ctx,
	start time.Time, err error, statusCode int, errorType, message string, fields ...zap.Field) error {
	h.errorCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("endpoint", c.Path()),
		attribute.String("method", c.Method()),
		attribute.String("error_type", errorType),
		attribute.Int("status_code", statusCode),
	))

	duration := float64(time.Since(start).Nanoseconds()) / 1e6
	h.requestDuration.Record(ctx, duration, metric.WithAttributes(
		attribute.String("endpoint", c.Path()),
		attribute.String("method", c.Method()),
		attribute.Int("status_code", statusCode),
	))

	span.SetAttributes(
		attribute.String("error.type", errorType),
		attribute.Int("http.status_code", statusCode),
	)
	span.RecordError(err)

	logFields := append([]zap.Field{
		zap.String("trace_id", span.SpanContext().TraceID().String()),
		zap.Int("status_code", statusCode),
		zap.String("error_type", errorType),
	}, fields...)
	h.log.Error(message, logFields...)

	var fieldErrors common.FieldErrors
	if errors.As(err, &fieldErrors) {
		return common.ValidationErrorResponse(c, fieldErrors)
	}
	return common.ErrorResponse(c, statusCode, message)
}

func (h *RegistryHandler) recordSuccess(
	ctx context.Context, span trace.Span, c *fiber.Ctx,
	start time.Time, statusCode int, data any, fields ...zap.Field) error {
	duration := float64(time.Since(start).Nanoseconds()) / 1e6
	h.requestDuration.Record(ctx, duration, metric.WithAttributes(
		attribute.String("endpoint", c.Path()),
		attribute.String("method", c.Method()),
		attribute.Int("status_code", statusCode),
	))

	span.SetAttributes(
		attribute.Int("http.status_code", statusCode),
		attribute.Float64("request.duration_ms", duration),
	)

	logFields := append([]zap.Field{
		zap.String("trace_id", span.SpanContext().TraceID().String()),
		zap.Int("status_code", statusCode),
		zap.Float64("duration_ms", duration),
	}, fields...)
	h.log.Info("Request completed", logFields...)

	return common.SuccessResponse(c, statusCode, data)
}

// pageParams reads the ?page= and ?limit= query values. Out-of-range values
// are passed through as-is; the service clamps them.
func pageParams(c *fiber.Ctx) domain.Params {
	return domain.Params{
		Page:  c.QueryInt("page", 0),
		Limit: c.QueryInt("limit", 0),
	}
}

func (h *RegistryHandler) CreateCustomer(c *fiber.Ctx) error {
	ctx := c.UserContext()
	ctx, span := h.tracer.Start(ctx, "handler.CreateCustomer")
	defer span.End()
	start := time.Now()
	h.beginRequest(ctx, span, c)

	var req dto.CreateCustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return h.recordError(ctx, span, c, start, err,
			fiber.StatusBadRequest, "parse_error", "Cannot parse request body", zap.Error(err))
	}

	if err := h.validate.Struct(req); err != nil {
		if fields, ok := common.TranslateValidationErrors(err); ok {
			return h.recordError(ctx, span, c, start, fields,
				fiber.StatusUnprocessableEntity, "validation_error", "Validation failed")
		}
		return h.recordError(ctx, span, c, start, err,
			fiber.StatusBadRequest, "validation_error", "Validation failed", zap.Error(err))
	}

	serviceCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	created, err := h.registryService.CreateCustomer(serviceCtx, dto.CustomerToEntity(req))
	if err != nil {
		return h.recordError(ctx, span, c, start, err,
			fiber.StatusInternalServerError, "service_error", "Failed to create customer", zap.Error(err))
	}

	return h.recordSuccess(ctx, span, c, start, fiber.StatusCreated, dto.CustomerFromEntity(*created),
		zap.Uint64("customer_id", created.ID))
}

func (h *RegistryHandler) ListCustomers(c *fiber.Ctx) error {
	ctx := c.UserContext()
	ctx, span := h.tracer.Start(ctx, "handler.ListCustomers")
	defer span.End()
	start := time.Now()
	h.beginRequest(ctx, span, c)

	params := pageParams(c)
	customers, page, err := h.registryService.ListCustomers(ctx, params)
	if err != nil {
		return h.recordError(ctx, span, c, start, err,
			fiber.StatusInternalServerError, "service_error", "Failed to list customers", zap.Error(err))
	}

	return h.recordSuccess(ctx, span, c, start, fiber.StatusOK, dto.CustomerListResponse{
		Items:      dto.CustomersFromEntity(customers),
		Pagination: dto.PageInfoFromDomain(page),
	}, zap.Int("count", len(customers)), zap.Int("page", page.Page))
}

func (h *RegistryHandler) CreateVehicle(c *fiber.Ctx) error {
	ctx := c.UserContext()
	ctx, span := h.tracer.Start(ctx, "handler.CreateVehicle")
	defer span.End()
	start := time.Now()
	h.beginRequest(ctx, span, c)

	var req dto.CreateVehicleRequest
	if err := c.BodyParser(&req); err != nil {
		return h.recordError(ctx, span, c, start, err,
			fiber.StatusBadRequest, "parse_error", "Cannot parse request body", zap.Error(err))
	}

	if err := h.validate.Struct(req); err != nil {
		if fields, ok := common.TranslateValidationErrors(err); ok {
			return h.recordError(ctx, span, c, start, fields,
				fiber.StatusUnprocessableEntity, "validation_error", "Validation failed")
		}
		return h.recordError(ctx, span, c, start, err,
			fiber.StatusBadRequest, "validation_error", "Validation failed", zap.Error(err))
	}

	serviceCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	created, err := h.registryService.CreateVehicle(serviceCtx, dto.VehicleToEntity(req))
	if err != nil {
		switch {
		case errors.Is(err, common.ErrCustomerNotFound):
			fields := common.FieldErrors{"customer_id": common.ErrCustomerNotFound.Error()}
			return h.recordError(ctx, span, c, start, fields,
				fiber.StatusUnprocessableEntity, "customer_not_found", "Customer not found",
				zap.Uint64("customer_id", req.CustomerID))
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return h.recordError(ctx, span, c, start, err,
				fiber.StatusConflict, "duplicate_identifier", "A vehicle with one of these identifiers already exists")
		default:
			return h.recordError(ctx, span, c, start, err,
				fiber.StatusInternalServerError, "service_error", "Failed to create vehicle", zap.Error(err))
		}
	}

	return h.recordSuccess(ctx, span, c, start, fiber.StatusCreated, dto.VehicleFromEntity(*created),
		zap.Uint64("vehicle_id", created.ID))
}

func (h *RegistryHandler) ListVehicles(c *fiber.Ctx) error {
	ctx := c.UserContext()
	ctx, span := h.tracer.Start(ctx, "handler.ListVehicles")
	defer span.End()
	start := time.Now()
	h.beginRequest(ctx, span, c)

	unsoldOnly := c.Query("unsold") == "true"
	span.SetAttributes(attribute.Bool("vehicle.unsold_only", unsoldOnly))

	params := pageParams(c)
	vehicles, page, err := h.registryService.ListVehicles(ctx, unsoldOnly, params)
	if err != nil {
		return h.recordError(ctx, span, c, start, err,
			fiber.StatusInternalServerError, "service_error", "Failed to list vehicles", zap.Error(err))
	}

	return h.recordSuccess(ctx, span, c, start, fiber.StatusOK, dto.VehicleListResponse{
		Items:      dto.VehiclesFromEntity(vehicles),
		Pagination: dto.PageInfoFromDomain(page),
	}, zap.Int("count", len(vehicles)), zap.Bool("unsold_only", unsoldOnly), zap.Int("page", page.Page))
}

func (h *RegistryHandler) CreateSubDealer(c *fiber.Ctx) error {
	ctx := c.UserContext()
	ctx, span := h.tracer.Start(ctx, "handler.CreateSubDealer")
	defer span.End()
	start := time.Now()
	h.beginRequest(ctx, span, c)

	var req dto.CreateSubDealerRequest
	if err := c.BodyParser(&req); err != nil {
		return h.recordError(ctx, span, c, start, err,
			fiber.StatusBadRequest, "parse_error", "Cannot parse request body", zap.Error(err))
	}

	if err := h.validate.Struct(req); err != nil {
		if fields, ok := common.TranslateValidationErrors(err); ok {
			return h.recordError(ctx, span, c, start, fields,
				fiber.StatusUnprocessableEntity, "validation_error", "Validation failed")
		}
		return h.recordError(ctx, span, c, start, err,
			fiber.StatusBadRequest, "validation_error", "Validation failed", zap.Error(err))
	}

	serviceCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	created, err := h.registryService.CreateSubDealer(serviceCtx, dto.SubDealerToEntity(req))
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return h.recordError(ctx, span, c, start, err,
				fiber.StatusConflict, "duplicate_dealer_code", "A sub-dealer with this code already exists",
				zap.String("dealer_code", req.DealerCode))
		}
		return h.recordError(ctx, span, c, start, err,
			fiber.StatusInternalServerError, "service_error", "Failed to create sub-dealer", zap.Error(err))
	}

	return h.recordSuccess(ctx, span, c, start, fiber.StatusCreated, dto.SubDealerFromEntity(*created),
		zap.Uint64("dealer_id", created.ID))
}

func (h *RegistryHandler) ListSubDealers(c *fiber.Ctx) error {
	ctx := c.UserContext()
	ctx, span := h.tracer.Start(ctx, "handler.ListSubDealers")
	defer span.End()
	start := time.Now()
	h.beginRequest(ctx, span, c)

	dealers, err := h.registryService.ListSubDealers(ctx)
	if err != nil {
		return h.recordError(ctx, span, c, start, err,
			fiber.StatusInternalServerError, "service_error", "Failed to list sub-dealers", zap.Error(err))
	}

	return h.recordSuccess(ctx, span, c, start, fiber.StatusOK, dto.SubDealersFromEntity(dealers),
		zap.Int("count", len(dealers)))
}

func (h *RegistryHandler) CreateService(c *fiber.Ctx) error {
	ctx := c.UserContext()
	ctx, span := h.tracer.Start(ctx, "handler.CreateService")
	defer span.End()
	start := time.Now()
	h.beginRequest(ctx, span, c)

	var req dto.CreateServiceRequest
	if err := c.BodyParser(&req); err != nil {
		return h.recordError(ctx, span, c, start, err,
			fiber.StatusBadRequest, "parse_error", "Cannot parse request body", zap.Error(err))
	}

	if err := h.validate.Struct(req); err != nil {
		if fields, ok := common.TranslateValidationErrors(err); ok {
			return h.recordError(ctx, span, c, start, fields,
				fiber.StatusUnprocessableEntity, "validation_error", "Validation failed")
		}
		return h.recordError(ctx, span, c, start, err,
			fiber.StatusBadRequest, "validation_error", "Validation failed", zap.Error(err))
	}

	serviceCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	created, err := h.registryService.CreateServiceRecord(serviceCtx, dto.ServiceRecordToEntity(req))
	if err != nil {
		switch {
		case errors.Is(err, common.ErrVehicleNotFound):
			fields := common.FieldErrors{"vehicle_id": common.ErrVehicleNotFound.Error()}
			return h.recordError(ctx, span, c, start, fields,
				fiber.StatusUnprocessableEntity, "vehicle_not_found", "Vehicle not found",
				zap.Uint64("vehicle_id", req.VehicleID))
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return h.recordError(ctx, span, c, start, err,
				fiber.StatusConflict, "duplicate_service_count", "This vehicle already has a record for that service count",
				zap.Uint64("vehicle_id", req.VehicleID), zap.Int("service_count", req.ServiceCount))
		default:
			return h.recordError(ctx, span, c, start, err,
				fiber.StatusInternalServerError, "service_error", "Failed to create service record", zap.Error(err))
		}
	}

	return h.recordSuccess(ctx, span, c, start, fiber.StatusCreated, dto.ServiceRecordFromEntity(*created),
		zap.Uint64("service_id", created.ID),
		zap.String("classification", created.Classification()))
}

func (h *RegistryHandler) ListServices(c *fiber.Ctx) error {
	ctx := c.UserContext()
	ctx, span := h.tracer.Start(ctx, "handler.ListServices")
	defer span.End()
	start := time.Now()
	h.beginRequest(ctx, span, c)

	vehicleID := c.QueryInt("vehicle_id", 0)
	if vehicleID < 0 {
		vehicleID = 0
	}

	records, err := h.registryService.ListServiceRecords(ctx, uint64(vehicleID))
	if err != nil {
		return h.recordError(ctx, span, c, start, err,
			fiber.StatusInternalServerError, "service_error", "Failed to list service records", zap.Error(err))
	}

	return h.recordSuccess(ctx, span, c, start, fiber.StatusOK, dto.ServiceRecordsFromEntity(records),
		zap.Int("count", len(records)))
}
