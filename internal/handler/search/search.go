package searchhandler

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/showroomhq/showroom/internal/service"
	"github.com/showroomhq/showroom/pkg/common"

	"github.com/gofiber/fiber/v2"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type SearchHandler struct {
	searchService   service.SearchService
	meter           metric.Meter
	tracer          trace.Tracer
	log             *zap.Logger
	requestCount    metric.Int64Counter
	requestDuration metric.Float64Histogram
	errorCount      metric.Int64Counter
}

func NewSearchHandler(
	searchService service.SearchService,
	meter metric.Meter,
	tracer trace.Tracer,
	log *zap.Logger,
) *SearchHandler {
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

	return &SearchHandler{
		searchService:   searchService,
		meter:           meter,
		tracer:          tracer,
		log:             log,
		requestCount:    requestCount,
		requestDuration: requestDuration,
		errorCount:      errorCount,
	}
}

func (h *SearchHandler) recordError(
	ctx context.Context, span trace.Span, c *fiber.Ctx,
	start time.Time, err error, statusCode int, errorType, message string, fields ...zap.Field) error {
	h.errorCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("endpoint", c.Path()),
		attribute.String("error_type", errorType),
		attribute.Int("status_code", statusCode),
	))
	h.requestDuration.Record(ctx, float64(time.Since(start).Nanoseconds())/1e6, metric.WithAttributes(
		attribute.String("endpoint", c.Path()),
		attribute.Int("status_code", statusCode),
	))
	span.RecordError(err)
	span.SetAttributes(attribute.Int("http.status_code", statusCode))

	logFields := append([]zap.Field{
		zap.String("trace_id", span.SpanContext().TraceID().String()),
		zap.Int("status_code", statusCode),
	}, fields...)
	h.log.Error(message, logFields...)

	return common.ErrorResponse(c, statusCode, message)
}

func (h *SearchHandler) recordSuccess(
	ctx context.Context, span trace.Span, c *fiber.Ctx,
	start time.Time, data any, fields ...zap.Field) error {
	duration := float64(time.Since(start).Nanoseconds()) / 1e6
	h.requestDuration.Record(ctx, duration, metric.WithAttributes(
		attribute.String("endpoint", c.Path()),
		attribute.Int("status_code", fiber.StatusOK),
	))
	span.SetAttributes(attribute.Int("http.status_code", fiber.StatusOK))

	logFields := append([]zap.Field{
		zap.String("trace_id", span.SpanContext().TraceID().String()),
		zap.Float64("duration_ms", duration),
	}, fields...)
	h.log.Info("Request completed", logFields...)

	return common.SuccessResponse(c, fiber.StatusOK, data)
}

// Search handles GET /search?q=.
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	ctx := c.UserContext()
	ctx, span := h.tracer.Start(ctx, "handler.Search")
	defer span.End()
	start := time.Now()

	h.requestCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("endpoint", c.Path()),
		attribute.String("method", c.Method()),
	))

	query := c.Query("q")
	span.SetAttributes(attribute.Int("search.query_length", len(query)))

	result, err := h.searchService.Search(ctx, query)
	if err != nil {
		return h.recordError(ctx, span, c, start, err,
			fiber.StatusInternalServerError, "service_error", "Search failed", zap.Error(err))
	}

	return h.recordSuccess(ctx, span, c, start, result,
		zap.Int("customers", len(result.Customers)),
		zap.Int("vehicles", len(result.Vehicles)),
		zap.Int("dealers", len(result.Dealers)))
}

// FullDetails handles GET /customers/:customerId/full-details.
func (h *SearchHandler) FullDetails(c *fiber.Ctx) error {
	ctx := c.UserContext()
	ctx, span := h.tracer.Start(ctx, "handler.FullDetails")
	defer span.End()
	start := time.Now()

	h.requestCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("endpoint", c.Path()),
		attribute.String("method", c.Method()),
	))

	customerID, err := strconv.ParseUint(c.Params("customerId"), 10, 64)
	if err != nil {
		return h.recordError(ctx, span, c, start, err,
			fiber.StatusBadRequest, "parse_error", "Invalid customer ID", zap.Error(err))
	}

	span.SetAttributes(attribute.Int64("customer.id", int64(customerID)))

	details, err := h.searchService.FullDetails(ctx, customerID)
	if err != nil {
		if errors.Is(err, common.ErrCustomerNotFound) {
			return h.recordError(ctx, span, c, start, err,
				fiber.StatusNotFound, "customer_not_found", "Customer not found",
				zap.Uint64("customer_id", customerID))
		}
		return h.recordError(ctx, span, c, start, err,
			fiber.StatusInternalServerError, "service_error", "Failed to load customer details", zap.Error(err))
	}

	return h.recordSuccess(ctx, span, c, start, details,
		zap.Uint64("customer_id", customerID),
		zap.Int("vehicles", len(details.Vehicles)))
}
