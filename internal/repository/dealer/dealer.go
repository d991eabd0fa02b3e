package dealerrepo

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

type subDealerRepository struct {
	db            *gorm.DB
	meter         metric.Meter
	tracer        trace.Tracer
	log           *zap.Logger
	queryDuration metric.Float64Histogram
	queryCount    metric.Int64Counter
	errorCount    metric.Int64Counter
}

func NewSubDealerRepository(
	db *gorm.DB,
	meter metric.Meter,
	tracer trace.Tracer,
	log *zap.Logger,
) repository.SubDealerRepository {
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

	return &subDealerRepository{
		db:            db,
		meter:         meter,
		tracer:        tracer,
		log:           log,
		queryDuration: queryDuration,
		queryCount:    queryCount,
		errorCount:    errorCount,
	}
}

func (d *subDealerRepository) observe(ctx context.Context, start time.Time, operation, status string) {
	duration := float64(time.Since(start).Milliseconds())
	d.queryDuration.Record(ctx, duration,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("table", "sub_dealers"),
			attribute.String("status", status),
		),
	)
	if status == "error" {
		d.errorCount.Add(ctx, 1,
			metric.WithAttributes(
				attribute.String("operation", operation),
				attribute.String("table", "sub_dealers"),
			),
		)
	}
}

func (d *subDealerRepository) count(ctx context.Context, operation string) {
	d.queryCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("table", "sub_dealers"),
		),
	)
}

// Save implements repository.SubDealerRepository.
func (d *subDealerRepository) Save(ctx context.Context, dealer *domain.SubDealer) (*domain.SubDealer, error) {
	ctx, span := d.tracer.Start(ctx, "repository.dealer.Save")
	defer span.End()
	start := time.Now()
	d.count(ctx, "insert")

	row := model.SubDealerFromEntity(dealer)
	if err := d.db.WithContext(ctx).Create(&row).Error; err != nil {
		span.SetStatus(codes.Error, "Error creating sub-dealer")
		span.RecordError(err)
		d.log.Error("Error creating sub-dealer", zap.String("dealer_code", dealer.DealerCode), zap.Error(err))
		d.observe(ctx, start, "insert", "error")
		return nil, err
	}

	d.observe(ctx, start, "insert", "success")
	d.log.Info("Sub-dealer created",
		zap.Uint64("dealer_id", row.ID),
		zap.String("dealer_code", row.DealerCode),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
	)
	span.SetStatus(codes.Ok, "Sub-dealer created")

	return model.SubDealerToEntity(row), nil
}

// FindAll implements repository.SubDealerRepository.
func (d *subDealerRepository) FindAll(ctx context.Context) ([]domain.SubDealer, error) {
	ctx, span := d.tracer.Start(ctx, "repository.dealer.FindAll")
	defer span.End()
	start := time.Now()
	d.count(ctx, "select")

	var rows []model.SubDealer
	if err := d.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		span.SetStatus(codes.Error, "Error listing sub-dealers")
		span.RecordError(err)
		d.log.Error("Error listing sub-dealers", zap.Error(err))
		d.observe(ctx, start, "select", "error")
		return nil, err
	}

	d.observe(ctx, start, "select", "success")
	span.SetStatus(codes.Ok, "Sub-dealers listed")

	return model.SubDealersToEntity(rows), nil
}

// FindByID implements repository.SubDealerRepository.
func (d *subDealerRepository) FindByID(ctx context.Context, id uint64) (*domain.SubDealer, error) {
	ctx, span := d.tracer.Start(ctx, "repository.dealer.FindByID")
	defer span.End()
	start := time.Now()
	d.count(ctx, "select")

	span.SetAttributes(attribute.Int64("dealer.id", int64(id)))

	var row model.SubDealer
	err := d.db.WithContext(ctx).First(&row, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Ok, "Sub-dealer not found")
			d.observe(ctx, start, "select", "not_found")
			return nil, nil
		}

		span.SetStatus(codes.Error, "Error finding sub-dealer")
		span.RecordError(err)
		d.log.Error("Error finding sub-dealer by ID", zap.Uint64("dealer_id", id), zap.Error(err))
		d.observe(ctx, start, "select", "error")
		return nil, err
	}

	d.observe(ctx, start, "select", "success")
	span.SetStatus(codes.Ok, "Sub-dealer found")

	return model.SubDealerToEntity(row), nil
}

// SearchByName implements repository.SubDealerRepository.
func (d *subDealerRepository) SearchByName(ctx context.Context, query string) ([]domain.SubDealer, error) {
	ctx, span := d.tracer.Start(ctx, "repository.dealer.SearchByName")
	defer span.End()
	start := time.Now()
	d.count(ctx, "select")

	var rows []model.SubDealer
	if err := d.db.WithContext(ctx).Where("name LIKE ?", "%"+query+"%").Find(&rows).Error; err != nil {
		span.SetStatus(codes.Error, "Error searching sub-dealers")
		span.RecordError(err)
		d.log.Error("Error searching sub-dealers", zap.String("query", query), zap.Error(err))
		d.observe(ctx, start, "select", "error")
		return nil, err
	}

	d.observe(ctx, start, "select", "success")
	span.SetStatus(codes.Ok, "Sub-dealers searched")

	return model.SubDealersToEntity(rows), nil
}

// CountAll implements repository.SubDealerRepository.
func (d *subDealerRepository) CountAll(ctx context.Context) (int64, error) {
	ctx, span := d.tracer.Start(ctx, "repository.dealer.CountAll")
	defer span.End()
	start := time.Now()
	d.count(ctx, "count")

	var total int64
	if err := d.db.WithContext(ctx).Model(&model.SubDealer{}).Count(&total).Error; err != nil {
		span.SetStatus(codes.Error, "Error counting sub-dealers")
		span.RecordError(err)
		d.log.Error("Error counting sub-dealers", zap.Error(err))
		d.observe(ctx, start, "count", "error")
		return 0, err
	}

	d.observe(ctx, start, "count", "success")
	span.SetStatus(codes.Ok, "Sub-dealers counted")

	return total, nil
}
