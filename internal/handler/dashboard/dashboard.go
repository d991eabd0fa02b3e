package dashboardhandler

import (
	"context"
	"time"

	"github.com/showroomhq/showroom/internal/service"
	"github.com/showroomhq/showroom/pkg/common"

	"github.com/gofiber/fiber/v2"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
	meter            metric.Meter
	tracer           trace.Tracer
	log              *zap.Logger
	requestCount     metric.Int64Counter
	requestDuration  metric.Float64Histogram
	errorCount       metric.Int64Counter
}

func NewDashboardHandler(
	dashboardService service.DashboardService,
	meter metric.Meter,
	tracer trace.Tracer,
	log *zap.Logger,
) *DashboardHandler {
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

	return &DashboardHandler{
		dashboardService: dashboardService,
		meter:            meter,
		tracer:           tracer,
		log:              log,
		requestCount:     requestCount,
		requestDuration:  requestDuration,
		errorCount:       errorCount,
	}
}

// serve runs one dashboard aggregate with the shared observability wrapping.
func (h *DashboardHandler) serve(c *fiber.Ctx, spanName string, compute func(context.Context) (any, error)) error {
	ctx := c.UserContext()
	ctx, span := h.tracer.Start(ctx, spanName)
	defer span.End()
	start := time.Now()

	span.SetAttributes(
		attribute.String("http.method", c.Method()),
		attribute.String("http.route", c.Path()),
	)
	h.requestCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("endpoint", c.Path()),
		attribute.String("method", c.Method()),
	))

	data, err := compute(ctx)
	duration := float64(time.Since(start).Nanoseconds()) / 1e6

	if err != nil {
		h.errorCount.Add(ctx, 1, metric.WithAttributes(
			attribute.String("endpoint", c.Path()),
			attribute.String("error_type", "service_error"),
		))
		h.requestDuration.Record(ctx, duration, metric.WithAttributes(
			attribute.String("endpoint", c.Path()),
			attribute.Int("status_code", fiber.StatusInternalServerError),
		))
		span.RecordError(err)
		h.log.Error("Failed to compute dashboard aggregate",
			zap.String("endpoint", c.Path()),
			zap.String("trace_id", span.SpanContext().TraceID().String()),
			zap.Error(err),
		)
		return common.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to compute dashboard aggregate")
	}

	h.requestDuration.Record(ctx, duration, metric.WithAttributes(
		attribute.String("endpoint", c.Path()),
		attribute.Int("status_code", fiber.StatusOK),
	))
	span.SetAttributes(attribute.Int("http.status_code", fiber.StatusOK))
	h.log.Info("Dashboard aggregate served",
		zap.String("endpoint", c.Path()),
		zap.Float64("duration_ms", duration),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
	)

	return common.SuccessResponse(c, fiber.StatusOK, data)
}

func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	return h.serve(c, "handler.DashboardSummary", func(ctx context.Context) (any, error) {
		return h.dashboardService.Summary(ctx)
	})
}

func (h *DashboardHandler) Inventory(c *fiber.Ctx) error {
	return h.serve(c, "handler.DashboardInventory", func(ctx context.Context) (any, error) {
		return h.dashboardService.Inventory(ctx)
	})
}

func (h *DashboardHandler) Bookings(c *fiber.Ctx) error {
	return h.serve(c, "handler.DashboardBookings", func(ctx context.Context) (any, error) {
		return h.dashboardService.Bookings(ctx)
	})
}

func (h *DashboardHandler) ServiceStatus(c *fiber.Ctx) error {
	return h.serve(c, "handler.DashboardServiceStatus", func(ctx context.Context) (any, error) {
		return h.dashboardService.ServiceStatus(ctx)
	})
}

func (h *DashboardHandler) Alerts(c *fiber.Ctx) error {
	return h.serve(c, "handler.DashboardAlerts", func(ctx context.Context) (any, error) {
		return h.dashboardService.Alerts(ctx)
	})
}
