package notifyhandler

import (
	"time"

	"github.com/showroomhq/showroom/pkg/common"
	"github.com/showroomhq/showroom/pkg/mailer"

	"github.com/gofiber/fiber/v2"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type NotifyHandler struct {
	mailer          *mailer.Mailer
	meter           metric.Meter
	tracer          trace.Tracer
	log             *zap.Logger
	requestCount    metric.Int64Counter
	requestDuration metric.Float64Histogram
	errorCount      metric.Int64Counter
	mailsSent       metric.Int64Counter
}

func NewNotifyHandler(
	m *mailer.Mailer,
	meter metric.Meter,
	tracer trace.Tracer,
	log *zap.Logger,
) *NotifyHandler {
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

	mailsSent, err := meter.Int64Counter(
		"notify.mail.sent",
		metric.WithDescription("Number of notification mails sent"),
		metric.WithUnit("{mail}"),
	)
	if err != nil {
		zap.L().Fatal("Failed to create mail sent metric", zap.Error(err))
	}

	return &NotifyHandler{
		mailer:          m,
		meter:           meter,
		tracer:          tracer,
		log:             log,
		requestCount:    requestCount,
		requestDuration: requestDuration,
		errorCount:      errorCount,
		mailsSent:       mailsSent,
	}
}

// SendInsuranceTest handles GET /send-insurance-test/:email. It fires the
// standard insurance expiry reminder at the given address.
func (h *NotifyHandler) SendInsuranceTest(c *fiber.Ctx) error {
	ctx := c.UserContext()
	ctx, span := h.tracer.Start(ctx, "handler.SendInsuranceTest")
	defer span.End()
	start := time.Now()

	h.requestCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("endpoint", c.Path()),
		attribute.String("method", c.Method()),
	))

	email := c.Params("email")
	if email == "" {
		err := fiber.ErrBadRequest
		span.RecordError(err)
		h.errorCount.Add(ctx, 1, metric.WithAttributes(
			attribute.String("endpoint", c.Path()),
			attribute.String("error_type", "missing_email"),
		))
		return common.ErrorResponse(c, fiber.StatusBadRequest, "Email address is required")
	}

	if err := h.mailer.SendInsuranceReminder(email); err != nil {
		span.RecordError(err)
		h.errorCount.Add(ctx, 1, metric.WithAttributes(
			attribute.String("endpoint", c.Path()),
			attribute.String("error_type", "send_failed"),
		))
		h.log.Error("Failed to send insurance reminder",
			zap.String("trace_id", span.SpanContext().TraceID().String()),
			zap.Error(err),
		)
		return common.ErrorResponse(c, fiber.StatusBadGateway, "Failed to send mail")
	}

	duration := float64(time.Since(start).Nanoseconds()) / 1e6
	h.requestDuration.Record(ctx, duration, metric.WithAttributes(
		attribute.String("endpoint", c.Path()),
		attribute.Int("status_code", fiber.StatusOK),
	))
	h.mailsSent.Add(ctx, 1)
	h.log.Info("Insurance reminder sent",
		zap.Float64("duration_ms", duration),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
	)

	return common.SuccessResponse(c, fiber.StatusOK, fiber.Map{"message": "Insurance reminder sent"})
}
