package purchaserepo

import (
	"context"
	"errors"
	"time"

	"github.com/showroomhq/showroom/internal/domain"
	"github.com/showroomhq/showroom/internal/model"
	"github.com/showroomhq/showroom/internal/repository"
	"github.com/showroomhq/showroom/pkg/common"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type purchaseRepository struct {
	db            *gorm.DB
	meter         metric.Meter
	tracer        trace.Tracer
	log           *zap.Logger
	queryDuration metric.Float64Histogram
	queryCount    metric.Int64Counter
	errorCount    metric.Int64Counter
	conflictCount metric.Int64Counter
}

func NewPurchaseRepository(
	db *gorm.DB,
	meter metric.Meter,
	tracer trace.Tracer,
	log *zap.Logger,
) repository.PurchaseRepository {
	queryDuration, _ := meter.Float64Histogram(
		"db.query.duration",
		metric.WithDescription("Duration of database queries"),
		metric.WithUnit("ms"),
	)

	queryCount, _ := meter.Int64Counter(
		"db.query.count",
		metric.WithDescription("Number of database queries"),
		metric.WithUnit("{query}"),
	)

	errorCount, _ := meter.Int64Counter(
		"db.error.count",
		metric.WithDescription("Number of database errors"),
		metric.WithUnit("{error}"),
	)

	conflictCount, _ := meter.Int64Counter(
		"purchase.allocation.conflict.count",
		metric.WithDescription("Number of purchase inserts rejected because the vehicle was already sold"),
		metric.WithUnit("{conflict}"),
	)

	return &purchaseRepository{
		db:            db,
		meter:         meter,
		tracer:        tracer,
		log:           log,
		queryDuration: queryDuration,
		queryCount:    queryCount,
		errorCount:    errorCount,
		conflictCount: conflictCount,
	}
}

func (p *purchaseRepository) observe(ctx context.Context, start time.Time, operation, status string) {
	duration := float64(time.Since(start).Milliseconds())
	p.queryDuration.Record(ctx, duration,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("table", "purchases"),
			attribute.String("status", status),
		),
	)
	if status == "error" {
		p.errorCount.Add(ctx, 1,
			metric.WithAttributes(
				attribute.String("operation", operation),
				attribute.String("table", "purchases"),
			),
		)
	}
}

func (p *purchaseRepository) count(ctx context.Context, operation string) {
	p.queryCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("table", "purchases"),
		),
	)
}

// Create implements repository.PurchaseRepository. The whole allocation runs
// in one transaction: the vehicle row is locked first so two concurrent
// submissions for the same vehicle serialize, and the unique index on
// vehicle_id backstops anything the lock did not catch.
func (p *purchaseRepository) Create(ctx context.Context, purchase *domain.Purchase) (*domain.Purchase, error) {
	ctx, span := p.tracer.Start(ctx, "repository.purchase.Create")
	defer span.End()
	start := time.Now()
	p.count(ctx, "insert")

	span.SetAttributes(
		attribute.Int64("vehicle.id", int64(purchase.VehicleID)),
		attribute.String("purchase.payment_method", string(purchase.PaymentMethod)),
	)

	row := model.PurchaseFromEntity(purchase)
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var vehicle model.Vehicle
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&vehicle, purchase.VehicleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return common.ErrVehicleNotFound
			}
			return err
		}

		var allocated int64
		if err := tx.Model(&model.Purchase{}).Where("vehicle_id = ?", purchase.VehicleID).Count(&allocated).Error; err != nil {
			return err
		}
		if allocated > 0 {
			return common.ErrVehicleAlreadySold
		}

		return tx.Create(&row).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			err = common.ErrVehicleAlreadySold
		}
		if errors.Is(err, common.ErrVehicleAlreadySold) {
			p.conflictCount.Add(ctx, 1)
			span.SetStatus(codes.Error, "Vehicle already sold")
			span.RecordError(err)
			p.log.Warn("Purchase rejected: vehicle already sold",
				zap.Uint64("vehicle_id", purchase.VehicleID),
				zap.String("booking_number", purchase.BookingNumber),
			)
			p.observe(ctx, start, "insert", "conflict")
			return nil, err
		}

		span.SetStatus(codes.Error, "Error creating purchase")
		span.RecordError(err)
		p.log.Error("Error creating purchase",
			zap.Uint64("vehicle_id", purchase.VehicleID),
			zap.Error(err),
		)
		p.observe(ctx, start, "insert", "error")
		return nil, err
	}

	p.observe(ctx, start, "insert", "success")
	p.log.Info("Purchase created",
		zap.Uint64("purchase_id", row.ID),
		zap.Uint64("vehicle_id", row.VehicleID),
		zap.String("booking_number", row.BookingNumber),
		zap.String("payment_method", string(row.PaymentMethod)),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
	)
	span.SetStatus(codes.Ok, "Purchase created")

	return model.PurchaseToEntity(row), nil
}

// ExistsByVehicleID implements repository.PurchaseRepository.
func (p *purchaseRepository) ExistsByVehicleID(ctx context.Context, vehicleID uint64) (bool, error) {
	ctx, span := p.tracer.Start(ctx, "repository.purchase.ExistsByVehicleID")
	defer span.End()
	start := time.Now()
	p.count(ctx, "select")

	span.SetAttributes(attribute.Int64("vehicle.id", int64(vehicleID)))

	var total int64
	err := p.db.WithContext(ctx).
		Model(&model.Purchase{}).
		Where("vehicle_id = ?", vehicleID).
		Count(&total).Error
	if err != nil {
		span.SetStatus(codes.Error, "Error checking vehicle allocation")
		span.RecordError(err)
		p.log.Error("Error checking vehicle allocation", zap.Uint64("vehicle_id", vehicleID), zap.Error(err))
		p.observe(ctx, start, "select", "error")
		return false, err
	}

	p.observe(ctx, start, "select", "success")
	span.SetStatus(codes.Ok, "Vehicle allocation checked")

	return total > 0, nil
}

// CountAll implements repository.PurchaseRepository.
func (p *purchaseRepository) CountAll(ctx context.Context) (int64, error) {
	ctx, span := p.tracer.Start(ctx, "repository.purchase.CountAll")
	defer span.End()
	start := time.Now()
	p.count(ctx, "count")

	var total int64
	if err := p.db.WithContext(ctx).Model(&model.Purchase{}).Count(&total).Error; err != nil {
		span.SetStatus(codes.Error, "Error counting purchases")
		span.RecordError(err)
		p.log.Error("Error counting purchases", zap.Error(err))
		p.observe(ctx, start, "count", "error")
		return 0, err
	}

	p.observe(ctx, start, "count", "success")
	span.SetStatus(codes.Ok, "Purchases counted")

	return total, nil
}

// CountPurchasedOn implements repository.PurchaseRepository.
func (p *purchaseRepository) CountPurchasedOn(ctx context.Context, day time.Time) (int64, error) {
	ctx, span := p.tracer.Start(ctx, "repository.purchase.CountPurchasedOn")
	defer span.End()
	start := time.Now()
	p.count(ctx, "count")

	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	to := from.AddDate(0, 0, 1)

	var total int64
	err := p.db.WithContext(ctx).
		Model(&model.Purchase{}).
		Where("purchase_date >= ? AND purchase_date < ?", from, to).
		Count(&total).Error
	if err != nil {
		span.SetStatus(codes.Error, "Error counting purchases for day")
		span.RecordError(err)
		p.log.Error("Error counting purchases for day", zap.Time("day", from), zap.Error(err))
		p.observe(ctx, start, "count", "error")
		return 0, err
	}

	p.observe(ctx, start, "count", "success")
	span.SetStatus(codes.Ok, "Purchases for day counted")

	return total, nil
}

// CountPurchasedSince implements repository.PurchaseRepository.
func (p *purchaseRepository) CountPurchasedSince(ctx context.Context, from time.Time) (int64, error) {
	ctx, span := p.tracer.Start(ctx, "repository.purchase.CountPurchasedSince")
	defer span.End()
	start := time.Now()
	p.count(ctx, "count")

	var total int64
	err := p.db.WithContext(ctx).
		Model(&model.Purchase{}).
		Where("purchase_date >= ?", from).
		Count(&total).Error
	if err != nil {
		span.SetStatus(codes.Error, "Error counting recent purchases")
		span.RecordError(err)
		p.log.Error("Error counting recent purchases", zap.Time("from", from), zap.Error(err))
		p.observe(ctx, start, "count", "error")
		return 0, err
	}

	p.observe(ctx, start, "count", "success")
	span.SetStatus(codes.Ok, "Recent purchases counted")

	return total, nil
}

// CountDeliveriesAfter implements repository.PurchaseRepository.
func (p *purchaseRepository) CountDeliveriesAfter(ctx context.Context, day time.Time) (int64, error) {
	ctx, span := p.tracer.Start(ctx, "repository.purchase.CountDeliveriesAfter")
	defer span.End()
	start := time.Now()
	p.count(ctx, "count")

	var total int64
	err := p.db.WithContext(ctx).
		Model(&model.Purchase{}).
		Where("delivery_date > ?", day).
		Count(&total).Error
	if err != nil {
		span.SetStatus(codes.Error, "Error counting upcoming deliveries")
		span.RecordError(err)
		p.log.Error("Error counting upcoming deliveries", zap.Time("after", day), zap.Error(err))
		p.observe(ctx, start, "count", "error")
		return 0, err
	}

	p.observe(ctx, start, "count", "success")
	span.SetStatus(codes.Ok, "Upcoming deliveries counted")

	return total, nil
}

// SumSoldVehiclePrices implements repository.PurchaseRepository.
func (p *purchaseRepository) SumSoldVehiclePrices(ctx context.Context) (float64, error) {
	ctx, span := p.tracer.Start(ctx, "repository.purchase.SumSoldVehiclePrices")
	defer span.End()
	start := time.Now()
	p.count(ctx, "sum")

	var revenue float64
	err := p.db.WithContext(ctx).
		Model(&model.Purchase{}).
		Joins("JOIN vehicles ON vehicles.id = purchases.vehicle_id").
		Select("COALESCE(SUM(vehicles.price), 0)").
		Scan(&revenue).Error
	if err != nil {
		span.SetStatus(codes.Error, "Error summing sold vehicle prices")
		span.RecordError(err)
		p.log.Error("Error summing sold vehicle prices", zap.Error(err))
		p.observe(ctx, start, "sum", "error")
		return 0, err
	}

	p.observe(ctx, start, "sum", "success")
	span.SetStatus(codes.Ok, "Sold vehicle prices summed")

	return revenue, nil
}
