package saleshandler

import (
	"context"
	"errors"
	"time"

	"github.com/showroomhq/showroom/internal/dto"
	"github.com/showroomhq/showroom/internal/service"
	"github.com/showroomhq/showroom/pkg/common"

	"github.com/gofiber/fiber/v2"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type SalesHandler struct {
	salesService    service.SalesService
	meter           metric.Meter
	tracer          trace.Tracer
	log             *zap.Logger
	requestCount    metric.Int64Counter
	requestDuration metric.Float64Histogram
	errorCount      metric.Int64Counter
}

func NewSalesHandler(
	salesService service.SalesService,
	meter metric.Meter,
	tracer trace.Tracer,
	log *zap.Logger,
) *SalesHandler {
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

	return &SalesHandler{
		salesService:    salesService,
		meter:           meter,
		tracer:          tracer,
		log:             log,
		requestCount:    requestCount,
		requestDuration: requestDuration,
		errorCount:      errorCount,
	}
}

func (h *SalesHandler) beginRequest(ctx context.Context, span trace.Span, c *fiber.Ctx) {
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

func (h *SalesHandler) recordError(
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

func (h *SalesHandler) recordSuccess(
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

// CreatePurchase handles POST /purchases.
func (h *SalesHandler) CreatePurchase(c *fiber.Ctx) error {
	ctx := c.UserContext()
	ctx, span := h.tracer.Start(ctx, "handler.CreatePurchase")
	defer span.End()
	start := time.Now()
	h.beginRequest(ctx, span, c)

	var req dto.CreatePurchaseRequest
	if err := c.BodyParser(&req); err != nil {
		return h.recordError(ctx, span, c, start, err,
			fiber.StatusBadRequest, "parse_error", "Cannot parse request body", zap.Error(err))
	}

	span.SetAttributes(
		attribute.Int64("vehicle.id", int64(req.VehicleID)),
		attribute.String("purchase.payment_method", req.PaymentMethod),
	)

	serviceCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	created, err := h.salesService.CreatePurchase(serviceCtx, req)
	if err != nil {
		var fieldErrors common.FieldErrors
		switch {
		case errors.As(err, &fieldErrors):
			return h.recordError(ctx, span, c, start, fieldErrors,
				fiber.StatusUnprocessableEntity, "validation_error", "Purchase validation failed",
				zap.Uint64("vehicle_id", req.VehicleID), zap.Int("failed_fields", len(fieldErrors)))
		case errors.Is(err, common.ErrVehicleAlreadySold):
			return h.recordError(ctx, span, c, start, err,
				fiber.StatusConflict, "already_sold", "Vehicle already has a purchase recorded",
				zap.Uint64("vehicle_id", req.VehicleID))
		case errors.Is(err, common.ErrIntegrityViolation):
			return h.recordError(ctx, span, c, start, err,
				fiber.StatusInternalServerError, "integrity_violation", "Purchase payload violates variant integrity",
				zap.Uint64("vehicle_id", req.VehicleID), zap.String("payment_method", req.PaymentMethod))
		default:
			return h.recordError(ctx, span, c, start, err,
				fiber.StatusInternalServerError, "service_error", "Failed to create purchase", zap.Error(err))
		}
	}

	return h.recordSuccess(ctx, span, c, start, fiber.StatusCreated, created,
		zap.Uint64("purchase_id", created.ID),
		zap.String("booking_number", created.BookingNumber),
		zap.String("payment_method", req.PaymentMethod))
}

// QuoteEMI handles GET /finance/emi. Pure computation, nothing is persisted.
func (h *SalesHandler) QuoteEMI(c *fiber.Ctx) error {
	ctx := c.UserContext()
	ctx, span := h.tracer.Start(ctx, "handler.QuoteEMI")
	defer span.End()
	start := time.Now()
	h.beginRequest(ctx, span, c)

	principal := c.QueryFloat("principal", 0)
	rate := c.QueryFloat("rate", 0)
	tenure := c.QueryInt("tenure", 0)

	span.SetAttributes(
		attribute.Float64("loan.principal", principal),
		attribute.Float64("loan.rate_percent", rate),
		attribute.Int("loan.tenure_years", tenure),
	)

	quote, err := h.salesService.QuoteEMI(ctx, principal, rate, tenure)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrInvalidPrincipal):
			fields := common.FieldErrors{"principal": err.Error()}
			return h.recordError(ctx, span, c, start, fields,
				fiber.StatusUnprocessableEntity, "invalid_principal", "Invalid principal")
		case errors.Is(err, common.ErrInvalidRate):
			fields := common.FieldErrors{"rate": err.Error()}
			return h.recordError(ctx, span, c, start, fields,
				fiber.StatusUnprocessableEntity, "invalid_rate", "Invalid interest rate")
		case errors.Is(err, common.ErrInvalidTenure):
			fields := common.FieldErrors{"tenure": err.Error()}
			return h.recordError(ctx, span, c, start, fields,
				fiber.StatusUnprocessableEntity, "invalid_tenure", "Invalid tenure")
		default:
			return h.recordError(ctx, span, c, start, err,
				fiber.StatusInternalServerError, "service_error", "Failed to compute EMI", zap.Error(err))
		}
	}

	return h.recordSuccess(ctx, span, c, start, fiber.StatusOK, quote,
		zap.Float64("emi_amount", quote.EmiAmount))
}
