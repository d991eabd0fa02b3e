package vehiclerepo

import (
	"context"
	"errors"
	"time"

	"github.com/showroomhq/showroom/internal/domain"
	"github.com/showroomhq/showroom/internal/model"
	"github.com/showroomhq/showroom/internal/repository"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type vehicleRepository struct {
	db            *gorm.DB
	meter         metric.Meter
	tracer        trace.Tracer
	log           *zap.Logger
	queryDuration metric.Float64Histogram
	queryCount    metric.Int64Counter
	errorCount    metric.Int64Counter
}

func NewVehicleRepository(
	db *gorm.DB,
	meter metric.Meter,
	tracer trace.Tracer,
	log *zap.Logger,
) repository.VehicleRepository {
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

	return &vehicleRepository{
		db:            db,
		meter:         meter,
		tracer:        tracer,
		log:           log,
		queryDuration: queryDuration,
		queryCount:    queryCount,
		errorCount:    errorCount,
	}
}

func (v *vehicleRepository) observe(ctx context.Context, start time.Time, operation, status string) {
	duration := float64(time.Since(start).Milliseconds())
	v.queryDuration.Record(ctx, duration,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("table", "vehicles"),
			attribute.String("status", status),
		),
	)
	if status == "error" {
		v.errorCount.Add(ctx, 1,
			metric.WithAttributes(
				attribute.String("operation", operation),
				attribute.String("table", "vehicles"),
			),
		)
	}
}

func (v *vehicleRepository) count(ctx context.Context, operation string) {
	v.queryCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("table", "vehicles"),
		),
	)
}

// unallocated scopes a query to vehicles with no purchase row.
func unallocated(db *gorm.DB) *gorm.DB {
	return db.Where("id NOT IN (?)",
		db.Session(&gorm.Session{NewDB: true}).Model(&model.Purchase{}).Select("vehicle_id"))
}

// Save implements repository.VehicleRepository.
func (v *vehicleRepository) Save(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error) {
	ctx, span := v.tracer.Start(ctx, "repository.vehicle.Save")
	defer span.End()
	start := time.Now()
	v.count(ctx, "insert")

	row := model.VehicleFromEntity(vehicle)
	if err := v.db.WithContext(ctx).Create(&row).Error; err != nil {
		span.SetStatus(codes.Error, "Error creating vehicle")
		span.RecordError(err)
		v.log.Error("Error creating vehicle", zap.String("name", vehicle.Name), zap.Error(err))
		v.observe(ctx, start, "insert", "error")
		return nil, err
	}

	v.observe(ctx, start, "insert", "success")
	v.log.Info("Vehicle created",
		zap.Uint64("vehicle_id", row.ID),
		zap.Uint64("customer_id", row.CustomerID),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
	)
	span.SetStatus(codes.Ok, "Vehicle created")

	return model.VehicleToEntity(row), nil
}

// FindAll implements repository.VehicleRepository.
func (v *vehicleRepository) FindAll(ctx context.Context, unsoldOnly bool, params domain.Params) ([]domain.Vehicle, int64, error) {
	ctx, span := v.tracer.Start(ctx, "repository.vehicle.FindAll")
	defer span.End()
	start := time.Now()
	v.count(ctx, "select")

	span.SetAttributes(
		attribute.Bool("vehicle.unsold_only", unsoldOnly),
		attribute.Int("page.number", params.Page),
		attribute.Int("page.limit", params.Limit),
	)

	counter := v.db.WithContext(ctx).Model(&model.Vehicle{})
	if unsoldOnly {
		counter = unallocated(counter)
	}

	var total int64
	if err := counter.Count(&total).Error; err != nil {
		span.SetStatus(codes.Error, "Error counting vehicles")
		span.RecordError(err)
		v.log.Error("Error counting vehicles", zap.Error(err))
		v.observe(ctx, start, "select", "error")
		return nil, 0, err
	}

	query := v.db.WithContext(ctx).Order("id").Offset(params.Offset()).Limit(params.Limit)
	if unsoldOnly {
		query = unallocated(query)
	}

	var rows []model.Vehicle
	if err := query.Find(&rows).Error; err != nil {
		span.SetStatus(codes.Error, "Error listing vehicles")
		span.RecordError(err)
		v.log.Error("Error listing vehicles", zap.Error(err))
		v.observe(ctx, start, "select", "error")
		return nil, 0, err
	}

	v.observe(ctx, start, "select", "success")
	span.SetStatus(codes.Ok, "Vehicles listed")

	return model.VehiclesToEntity(rows), total, nil
}

// FindByID implements repository.VehicleRepository.
func (v *vehicleRepository) FindByID(ctx context.Context, id uint64) (*domain.Vehicle, error) {
	ctx, span := v.tracer.Start(ctx, "repository.vehicle.FindByID")
	defer span.End()
	start := time.Now()
	v.count(ctx, "select")

	span.SetAttributes(attribute.Int64("vehicle.id", int64(id)))

	var row model.Vehicle
	err := v.db.WithContext(ctx).First(&row, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Ok, "Vehicle not found")
			v.observe(ctx, start, "select", "not_found")
			return nil, nil
		}

		span.SetStatus(codes.Error, "Error finding vehicle")
		span.RecordError(err)
		v.log.Error("Error finding vehicle by ID", zap.Uint64("vehicle_id", id), zap.Error(err))
		v.observe(ctx, start, "select", "error")
		return nil, err
	}

	v.observe(ctx, start, "select", "success")
	span.SetStatus(codes.Ok, "Vehicle found")

	return model.VehicleToEntity(row), nil
}

// FindByCustomerID implements repository.VehicleRepository.
func (v *vehicleRepository) FindByCustomerID(ctx context.Context, customerID uint64) ([]domain.Vehicle, error) {
	ctx, span := v.tracer.Start(ctx, "repository.vehicle.FindByCustomerID")
	defer span.End()
	start := time.Now()
	v.count(ctx, "select")

	span.SetAttributes(attribute.Int64("customer.id", int64(customerID)))

	var rows []model.Vehicle
	err := v.db.WithContext(ctx).
		Preload("Services", func(db *gorm.DB) *gorm.DB {
			return db.Order("service_count")
		}).
		Where("customer_id = ?", customerID).
		Order("id").
		Find(&rows).Error
	if err != nil {
		span.SetStatus(codes.Error, "Error listing customer vehicles")
		span.RecordError(err)
		v.log.Error("Error listing vehicles for customer", zap.Uint64("customer_id", customerID), zap.Error(err))
		v.observe(ctx, start, "select", "error")
		return nil, err
	}

	v.observe(ctx, start, "select", "success")
	span.SetStatus(codes.Ok, "Customer vehicles listed")

	return model.VehiclesToEntity(rows), nil
}

// SearchByNameOrModel implements repository.VehicleRepository.
func (v *vehicleRepository) SearchByNameOrModel(ctx context.Context, query string) ([]domain.Vehicle, error) {
	ctx, span := v.tracer.Start(ctx, "repository.vehicle.SearchByNameOrModel")
	defer span.End()
	start := time.Now()
	v.count(ctx, "select")

	pattern := "%" + query + "%"

	var rows []model.Vehicle
	if err := v.db.WithContext(ctx).Where("name LIKE ? OR model LIKE ?", pattern, pattern).Find(&rows).Error; err != nil {
		span.SetStatus(codes.Error, "Error searching vehicles")
		span.RecordError(err)
		v.log.Error("Error searching vehicles", zap.String("query", query), zap.Error(err))
		v.observe(ctx, start, "select", "error")
		return nil, err
	}

	v.observe(ctx, start, "select", "success")
	span.SetStatus(codes.Ok, "Vehicles searched")

	return model.VehiclesToEntity(rows), nil
}

// CountInStock implements repository.VehicleRepository.
func (v *vehicleRepository) CountInStock(ctx context.Context) (int64, error) {
	ctx, span := v.tracer.Start(ctx, "repository.vehicle.CountInStock")
	defer span.End()
	start := time.Now()
	v.count(ctx, "count")

	var total int64
	if err := unallocated(v.db.WithContext(ctx).Model(&model.Vehicle{})).Count(&total).Error; err != nil {
		span.SetStatus(codes.Error, "Error counting vehicles in stock")
		span.RecordError(err)
		v.log.Error("Error counting vehicles in stock", zap.Error(err))
		v.observe(ctx, start, "count", "error")
		return 0, err
	}

	v.observe(ctx, start, "count", "success")
	span.SetStatus(codes.Ok, "Vehicles in stock counted")

	return total, nil
}

// CountUnsoldCreatedBefore implements repository.VehicleRepository.
func (v *vehicleRepository) CountUnsoldCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx, span := v.tracer.Start(ctx, "repository.vehicle.CountUnsoldCreatedBefore")
	defer span.End()
	start := time.Now()
	v.count(ctx, "count")

	var total int64
	err := unallocated(v.db.WithContext(ctx).Model(&model.Vehicle{})).
		Where("created_at < ?", cutoff).
		Count(&total).Error
	if err != nil {
		span.SetStatus(codes.Error, "Error counting stale unsold vehicles")
		span.RecordError(err)
		v.log.Error("Error counting stale unsold vehicles", zap.Time("cutoff", cutoff), zap.Error(err))
		v.observe(ctx, start, "count", "error")
		return 0, err
	}

	v.observe(ctx, start, "count", "success")
	span.SetStatus(codes.Ok, "Stale unsold vehicles counted")

	return total, nil
}
