package servicerecordrepo

import (
	"context"
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

type serviceRecordRepository struct {
	db            *gorm.DB
	meter         metric.Meter
	tracer        trace.Tracer
	log           *zap.Logger
	queryDuration metric.Float64Histogram
	queryCount    metric.Int64Counter
	errorCount    metric.Int64Counter
}

func NewServiceRecordRepository(
	db *gorm.DB,
	meter metric.Meter,
	tracer trace.Tracer,
	log *zap.Logger,
) repository.ServiceRecordRepository {
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

	return &serviceRecordRepository{
		db:            db,
		meter:         meter,
		tracer:        tracer,
		log:           log,
		queryDuration: queryDuration,
		queryCount:    queryCount,
		errorCount:    errorCount,
	}
}

func (s *serviceRecordRepository) observe(ctx context.Context, start time.Time, operation, status string) {
	duration := float64(time.Since(start).Milliseconds())
	s.queryDuration.Record(ctx, duration,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("table", "services"),
			attribute.String("status", status),
		),
	)
	if status == "error" {
		s.errorCount.Add(ctx, 1,
			metric.WithAttributes(
				attribute.String("operation", operation),
				attribute.String("table", "services"),
			),
		)
	}
}

func (s *serviceRecordRepository) count(ctx context.Context, operation string) {
	s.queryCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("table", "services"),
		),
	)
}

// Save implements repository.ServiceRecordRepository.
func (s *serviceRecordRepository) Save(ctx context.Context, record *domain.ServiceRecord) (*domain.ServiceRecord, error) {
	ctx, span := s.tracer.Start(ctx, "repository.servicerecord.Save")
	defer span.End()
	start := time.Now()
	s.count(ctx, "insert")

	row := model.ServiceRecordFromEntity(record)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		span.SetStatus(codes.Error, "Error creating service record")
		span.RecordError(err)
		s.log.Error("Error creating service record",
			zap.Uint64("vehicle_id", record.VehicleID),
			zap.Int("service_count", record.ServiceCount),
			zap.Error(err),
		)
		s.observe(ctx, start, "insert", "error")
		return nil, err
	}

	s.observe(ctx, start, "insert", "success")
	s.log.Info("Service record created",
		zap.Uint64("service_id", row.ID),
		zap.Uint64("vehicle_id", row.VehicleID),
		zap.Int("service_count", row.ServiceCount),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
	)
	span.SetStatus(codes.Ok, "Service record created")

	return model.ServiceRecordToEntity(row), nil
}

// FindAll implements repository.ServiceRecordRepository.
func (s *serviceRecordRepository) FindAll(ctx context.Context) ([]domain.ServiceRecord, error) {
	ctx, span := s.tracer.Start(ctx, "repository.servicerecord.FindAll")
	defer span.End()
	start := time.Now()
	s.count(ctx, "select")

	var rows []model.ServiceRecord
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		span.SetStatus(codes.Error, "Error listing service records")
		span.RecordError(err)
		s.log.Error("Error listing service records", zap.Error(err))
		s.observe(ctx, start, "select", "error")
		return nil, err
	}

	s.observe(ctx, start, "select", "success")
	span.SetStatus(codes.Ok, "Service records listed")

	return model.ServiceRecordsToEntity(rows), nil
}

// FindByVehicleID implements repository.ServiceRecordRepository.
func (s *serviceRecordRepository) FindByVehicleID(ctx context.Context, vehicleID uint64) ([]domain.ServiceRecord, error) {
	ctx, span := s.tracer.Start(ctx, "repository.servicerecord.FindByVehicleID")
	defer span.End()
	start := time.Now()
	s.count(ctx, "select")

	span.SetAttributes(attribute.Int64("vehicle.id", int64(vehicleID)))

	var rows []model.ServiceRecord
	err := s.db.WithContext(ctx).
		Where("vehicle_id = ?", vehicleID).
		Order("service_count").
		Find(&rows).Error
	if err != nil {
		span.SetStatus(codes.Error, "Error listing vehicle service records")
		span.RecordError(err)
		s.log.Error("Error listing service records for vehicle", zap.Uint64("vehicle_id", vehicleID), zap.Error(err))
		s.observe(ctx, start, "select", "error")
		return nil, err
	}

	s.observe(ctx, start, "select", "success")
	span.SetStatus(codes.Ok, "Vehicle service records listed")

	return model.ServiceRecordsToEntity(rows), nil
}

// CountByStatus implements repository.ServiceRecordRepository.
func (s *serviceRecordRepository) CountByStatus(ctx context.Context) (map[domain.ServiceStatus]int64, error) {
	ctx, span := s.tracer.Start(ctx, "repository.servicerecord.CountByStatus")
	defer span.End()
	start := time.Now()
	s.count(ctx, "count")

	var rows []struct {
		Status domain.ServiceStatus
		Total  int64
	}
	err := s.db.WithContext(ctx).
		Model(&model.ServiceRecord{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		span.SetStatus(codes.Error, "Error counting service records by status")
		span.RecordError(err)
		s.log.Error("Error counting service records by status", zap.Error(err))
		s.observe(ctx, start, "count", "error")
		return nil, err
	}

	counts := make(map[domain.ServiceStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}

	s.observe(ctx, start, "count", "success")
	span.SetStatus(codes.Ok, "Service records counted by status")

	return counts, nil
}

// CountNotCompleted implements repository.ServiceRecordRepository.
func (s *serviceRecordRepository) CountNotCompleted(ctx context.Context) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "repository.servicerecord.CountNotCompleted")
	defer span.End()
	start := time.Now()
	s.count(ctx, "count")

	var total int64
	err := s.db.WithContext(ctx).
		Model(&model.ServiceRecord{}).
		Where("status NOT IN ?", []model.ServiceStatus{model.ServiceCompleted, model.ServiceCancelled}).
		Count(&total).Error
	if err != nil {
		span.SetStatus(codes.Error, "Error counting open service records")
		span.RecordError(err)
		s.log.Error("Error counting open service records", zap.Error(err))
		s.observe(ctx, start, "count", "error")
		return 0, err
	}

	s.observe(ctx, start, "count", "success")
	span.SetStatus(codes.Ok, "Open service records counted")

	return total, nil
}
