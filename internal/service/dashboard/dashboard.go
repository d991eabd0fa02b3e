package dashboardsrv

import (
	"context"
	"encoding/json"
	"time"

	"github.com/showroomhq/showroom/internal/domain"
	"github.com/showroomhq/showroom/internal/dto"
	"github.com/showroomhq/showroom/internal/repository"
	"github.com/showroomhq/showroom/internal/service"

	"github.com/redis/go-redis/v9"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// unsoldAlertAge is how long a vehicle may sit unsold before it shows up in
// the alerts aggregate.
const unsoldAlertAge = 60 * 24 * time.Hour

type dashboardService struct {
	vehicleRepository       repository.VehicleRepository
	dealerRepository        repository.SubDealerRepository
	serviceRecordRepository repository.ServiceRecordRepository
	purchaseRepository      repository.PurchaseRepository

	cache    *redis.Client
	cacheTTL time.Duration

	meter             metric.Meter
	tracer            trace.Tracer
	log               *zap.Logger
	operationDuration metric.Float64Histogram
	operationCount    metric.Int64Counter
	errorCount        metric.Int64Counter
	cacheHits         metric.Int64Counter
	cacheMisses       metric.Int64Counter
}

func NewDashboardService(
	vehicleRepository repository.VehicleRepository,
	dealerRepository repository.SubDealerRepository,
	serviceRecordRepository repository.ServiceRecordRepository,
	purchaseRepository repository.PurchaseRepository,
	cache *redis.Client,
	cacheTTL time.Duration,
	meter metric.Meter,
	tracer trace.Tracer,
	log *zap.Logger,
) service.DashboardService {
	operationDuration, _ := meter.Float64Histogram(
		"service.operation.duration",
		metric.WithDescription("Duration of service operations"),
		metric.WithUnit("ms"),
	)

	operationCount, _ := meter.Int64Counter(
		"service.operation.count",
		metric.WithDescription("Number of service operations"),
		metric.WithUnit("{operation}"),
	)

	errorCount, _ := meter.Int64Counter(
		"service.error.count",
		metric.WithDescription("Number of service errors"),
		metric.WithUnit("{error}"),
	)

	cacheHits, _ := meter.Int64Counter(
		"service.dashboard.cache.hits",
		metric.WithDescription("Number of dashboard cache hits"),
		metric.WithUnit("{hit}"),
	)

	cacheMisses, _ := meter.Int64Counter(
		"service.dashboard.cache.misses",
		metric.WithDescription("Number of dashboard cache misses"),
		metric.WithUnit("{miss}"),
	)

	return &dashboardService{
		vehicleRepository:       vehicleRepository,
		dealerRepository:        dealerRepository,
		serviceRecordRepository: serviceRecordRepository,
		purchaseRepository:      purchaseRepository,

		cache:    cache,
		cacheTTL: cacheTTL,

		meter:             meter,
		tracer:            tracer,
		log:               log,
		operationDuration: operationDuration,
		operationCount:    operationCount,
		errorCount:        errorCount,
		cacheHits:         cacheHits,
		cacheMisses:       cacheMisses,
	}
}

func (d *dashboardService) begin(ctx context.Context, operation string) {
	d.operationCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("service", "dashboard"),
		),
	)
}

func (d *dashboardService) recordError(ctx context.Context, start time.Time, operation string) {
	d.errorCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("service", "dashboard"),
			attribute.String("error_type", "repository_error"),
		),
	)
	d.operationDuration.Record(ctx, float64(time.Since(start).Milliseconds()),
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("service", "dashboard"),
			attribute.String("status", "error"),
		),
	)
}

func (d *dashboardService) recordSuccess(ctx context.Context, start time.Time, operation string) {
	d.operationDuration.Record(ctx, float64(time.Since(start).Milliseconds()),
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("service", "dashboard"),
			attribute.String("status", "success"),
		),
	)
}

// fromCache tries to hydrate dest from the cache. Cache trouble is never
// fatal; the aggregate simply recomputes.
func (d *dashboardService) fromCache(ctx context.Context, key string, dest any) bool {
	if d.cache == nil {
		return false
	}

	raw, err := d.cache.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			d.log.Warn("Dashboard cache read failed", zap.String("key", key), zap.Error(err))
		}
		d.cacheMisses.Add(ctx, 1, metric.WithAttributes(attribute.String("key", key)))
		return false
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		d.log.Warn("Dashboard cache entry is corrupt", zap.String("key", key), zap.Error(err))
		d.cacheMisses.Add(ctx, 1, metric.WithAttributes(attribute.String("key", key)))
		return false
	}

	d.cacheHits.Add(ctx, 1, metric.WithAttributes(attribute.String("key", key)))
	return true
}

func (d *dashboardService) toCache(ctx context.Context, key string, value any) {
	if d.cache == nil {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		d.log.Warn("Failed to marshal dashboard cache entry", zap.String("key", key), zap.Error(err))
		return
	}

	if err := d.cache.Set(ctx, key, raw, d.cacheTTL).Err(); err != nil {
		d.log.Warn("Dashboard cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Summary implements service.DashboardService.
func (d *dashboardService) Summary(ctx context.Context) (*dto.SummaryResponse, error) {
	ctx, span := d.tracer.Start(ctx, "service.DashboardSummary")
	defer span.End()
	start := time.Now()
	d.begin(ctx, "summary")

	var cached dto.SummaryResponse
	if d.fromCache(ctx, "dashboard:summary", &cached) {
		span.SetStatus(codes.Ok, "Summary served from cache")
		d.recordSuccess(ctx, start, "summary")
		return &cached, nil
	}

	sold, err := d.purchaseRepository.CountAll(ctx)
	if err != nil {
		return nil, d.fail(ctx, span, start, "summary", "Failed to count sold vehicles", err)
	}

	revenue, err := d.purchaseRepository.SumSoldVehiclePrices(ctx)
	if err != nil {
		return nil, d.fail(ctx, span, start, "summary", "Failed to sum revenue", err)
	}

	pendingDeliveries, err := d.purchaseRepository.CountDeliveriesAfter(ctx, time.Now())
	if err != nil {
		return nil, d.fail(ctx, span, start, "summary", "Failed to count pending deliveries", err)
	}

	dealers, err := d.dealerRepository.CountAll(ctx)
	if err != nil {
		return nil, d.fail(ctx, span, start, "summary", "Failed to count sub-dealers", err)
	}

	pendingMaintenance, err := d.serviceRecordRepository.CountNotCompleted(ctx)
	if err != nil {
		return nil, d.fail(ctx, span, start, "summary", "Failed to count open service records", err)
	}

	summary := &dto.SummaryResponse{
		TotalVehiclesSold:  sold,
		TotalRevenue:       revenue,
		PendingDeliveries:  pendingDeliveries,
		ActiveSubDealers:   dealers,
		PendingMaintenance: pendingMaintenance,
	}

	d.toCache(ctx, "dashboard:summary", summary)
	d.recordSuccess(ctx, start, "summary")
	span.SetStatus(codes.Ok, "Summary computed")

	return summary, nil
}

// Inventory implements service.DashboardService.
func (d *dashboardService) Inventory(ctx context.Context) (*dto.InventoryResponse, error) {
	ctx, span := d.tracer.Start(ctx, "service.DashboardInventory")
	defer span.End()
	start := time.Now()
	d.begin(ctx, "inventory")

	var cached dto.InventoryResponse
	if d.fromCache(ctx, "dashboard:inventory", &cached) {
		span.SetStatus(codes.Ok, "Inventory served from cache")
		d.recordSuccess(ctx, start, "inventory")
		return &cached, nil
	}

	inStock, err := d.vehicleRepository.CountInStock(ctx)
	if err != nil {
		return nil, d.fail(ctx, span, start, "inventory", "Failed to count vehicles in stock", err)
	}

	inventory := &dto.InventoryResponse{TotalVehiclesInStock: inStock}

	d.toCache(ctx, "dashboard:inventory", inventory)
	d.recordSuccess(ctx, start, "inventory")
	span.SetStatus(codes.Ok, "Inventory computed")

	return inventory, nil
}

// Bookings implements service.DashboardService.
func (d *dashboardService) Bookings(ctx context.Context) (*dto.BookingsResponse, error) {
	ctx, span := d.tracer.Start(ctx, "service.DashboardBookings")
	defer span.End()
	start := time.Now()
	d.begin(ctx, "bookings")

	var cached dto.BookingsResponse
	if d.fromCache(ctx, "dashboard:bookings", &cached) {
		span.SetStatus(codes.Ok, "Bookings served from cache")
		d.recordSuccess(ctx, start, "bookings")
		return &cached, nil
	}

	now := time.Now()

	daily, err := d.purchaseRepository.CountPurchasedOn(ctx, now)
	if err != nil {
		return nil, d.fail(ctx, span, start, "bookings", "Failed to count daily bookings", err)
	}

	weekly, err := d.purchaseRepository.CountPurchasedSince(ctx, now.AddDate(0, 0, -7))
	if err != nil {
		return nil, d.fail(ctx, span, start, "bookings", "Failed to count weekly bookings", err)
	}

	monthly, err := d.purchaseRepository.CountPurchasedSince(ctx, now.AddDate(0, -1, 0))
	if err != nil {
		return nil, d.fail(ctx, span, start, "bookings", "Failed to count monthly bookings", err)
	}

	bookings := &dto.BookingsResponse{Daily: daily, Weekly: weekly, Monthly: monthly}

	d.toCache(ctx, "dashboard:bookings", bookings)
	d.recordSuccess(ctx, start, "bookings")
	span.SetStatus(codes.Ok, "Bookings computed")

	return bookings, nil
}

// ServiceStatus implements service.DashboardService.
func (d *dashboardService) ServiceStatus(ctx context.Context) (*dto.ServiceStatusResponse, error) {
	ctx, span := d.tracer.Start(ctx, "service.DashboardServiceStatus")
	defer span.End()
	start := time.Now()
	d.begin(ctx, "service_status")

	var cached dto.ServiceStatusResponse
	if d.fromCache(ctx, "dashboard:service_status", &cached) {
		span.SetStatus(codes.Ok, "Service status served from cache")
		d.recordSuccess(ctx, start, "service_status")
		return &cached, nil
	}

	counts, err := d.serviceRecordRepository.CountByStatus(ctx)
	if err != nil {
		return nil, d.fail(ctx, span, start, "service_status", "Failed to count service records by status", err)
	}

	status := &dto.ServiceStatusResponse{
		Pending:    counts[domain.ServicePending],
		InProgress: counts[domain.ServiceInProgress],
		Completed:  counts[domain.ServiceCompleted],
	}

	d.toCache(ctx, "dashboard:service_status", status)
	d.recordSuccess(ctx, start, "service_status")
	span.SetStatus(codes.Ok, "Service status computed")

	return status, nil
}

// Alerts implements service.DashboardService.
func (d *dashboardService) Alerts(ctx context.Context) (*dto.AlertsResponse, error) {
	ctx, span := d.tracer.Start(ctx, "service.DashboardAlerts")
	defer span.End()
	start := time.Now()
	d.begin(ctx, "alerts")

	var cached dto.AlertsResponse
	if d.fromCache(ctx, "dashboard:alerts", &cached) {
		span.SetStatus(codes.Ok, "Alerts served from cache")
		d.recordSuccess(ctx, start, "alerts")
		return &cached, nil
	}

	stale, err := d.vehicleRepository.CountUnsoldCreatedBefore(ctx, time.Now().Add(-unsoldAlertAge))
	if err != nil {
		return nil, d.fail(ctx, span, start, "alerts", "Failed to count stale unsold vehicles", err)
	}

	alerts := &dto.AlertsResponse{UnsoldOver60Days: stale}

	d.toCache(ctx, "dashboard:alerts", alerts)
	d.recordSuccess(ctx, start, "alerts")
	span.SetStatus(codes.Ok, "Alerts computed")

	return alerts, nil
}

func (d *dashboardService) fail(ctx context.Context, span trace.Span, start time.Time, operation, msg string, err error) error {
	span.SetStatus(codes.Error, msg)
	span.RecordError(err)
	d.log.Error(msg,
		zap.String("trace_id", span.SpanContext().TraceID().String()),
		zap.Error(err),
	)
	d.recordError(ctx, start, operation)
	return err
}
