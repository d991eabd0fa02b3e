package customerrepo

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

type customerRepository struct {
	db            *gorm.DB
	meter         metric.Meter
	tracer        trace.Tracer
	log           *zap.Logger
	queryDuration metric.Float64Histogram
	queryCount    metric.Int64Counter
	errorCount    metric.Int64Counter
}

func NewCustomerRepository(
	db *gorm.DB,
	meter metric.Meter,
	tracer trace.Tracer,
	log *zap.Logger,
) repository.CustomerRepository {
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

	return &customerRepository{
		db:            db,
		meter:         meter,
		tracer:        tracer,
		log:           log,
		queryDuration: queryDuration,
		queryCount:    queryCount,
		errorCount:    errorCount,
	}
}

func (c *customerRepository) observe(ctx context.Context, start time.Time, operation, status string) {
	duration := float64(time.Since(start).Milliseconds())
	c.queryDuration.Record(ctx, duration,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("table", "customers"),
			attribute.String("status", status),
		),
	)
	if status == "error" {
		c.errorCount.Add(ctx, 1,
			metric.WithAttributes(
				attribute.String("operation", operation),
				attribute.String("table", "customers"),
			),
		)
	}
}

// Save implements repository.CustomerRepository.
func (c *customerRepository) Save(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	ctx, span := c.tracer.Start(ctx, "repository.customer.Save")
	defer span.End()
	start := time.Now()

	c.queryCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", "insert"),
			attribute.String("table", "customers"),
		),
	)

	row := model.CustomerFromEntity(customer)
	if err := c.db.WithContext(ctx).Create(&row).Error; err != nil {
		span.SetStatus(codes.Error, "Error creating customer")
		span.RecordError(err)
		c.log.Error("Error creating customer", zap.String("name", customer.Name), zap.Error(err))
		c.observe(ctx, start, "insert", "error")
		return nil, err
	}

	c.observe(ctx, start, "insert", "success")
	c.log.Info("Customer created",
		zap.Uint64("customer_id", row.ID),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
	)
	span.SetStatus(codes.Ok, "Customer created")

	return model.CustomerToEntity(row), nil
}

// FindAll implements repository.CustomerRepository.
func (c *customerRepository) FindAll(ctx context.Context, params domain.Params) ([]domain.Customer, int64, error) {
	ctx, span := c.tracer.Start(ctx, "repository.customer.FindAll")
	defer span.End()
	start := time.Now()

	c.queryCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", "select"),
			attribute.String("table", "customers"),
		),
	)

	span.SetAttributes(
		attribute.Int("page.number", params.Page),
		attribute.Int("page.limit", params.Limit),
	)

	var total int64
	if err := c.db.WithContext(ctx).Model(&model.Customer{}).Count(&total).Error; err != nil {
		span.SetStatus(codes.Error, "Error counting customers")
		span.RecordError(err)
		c.log.Error("Error counting customers", zap.Error(err))
		c.observe(ctx, start, "select", "error")
		return nil, 0, err
	}

	var rows []model.Customer
	err := c.db.WithContext(ctx).
		Order("id").
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&rows).Error
	if err != nil {
		span.SetStatus(codes.Error, "Error listing customers")
		span.RecordError(err)
		c.log.Error("Error listing customers", zap.Error(err))
		c.observe(ctx, start, "select", "error")
		return nil, 0, err
	}

	c.observe(ctx, start, "select", "success")
	span.SetStatus(codes.Ok, "Customers listed")

	return model.CustomersToEntity(rows), total, nil
}

// FindByID implements repository.CustomerRepository.
func (c *customerRepository) FindByID(ctx context.Context, id uint64) (*domain.Customer, error) {
	ctx, span := c.tracer.Start(ctx, "repository.customer.FindByID")
	defer span.End()
	start := time.Now()

	span.SetAttributes(attribute.Int64("customer.id", int64(id)))

	c.queryCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", "select"),
			attribute.String("table", "customers"),
		),
	)

	var row model.Customer
	err := c.db.WithContext(ctx).First(&row, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Ok, "Customer not found")
			c.observe(ctx, start, "select", "not_found")
			return nil, nil
		}

		span.SetStatus(codes.Error, "Error finding customer")
		span.RecordError(err)
		c.log.Error("Error finding customer by ID", zap.Uint64("customer_id", id), zap.Error(err))
		c.observe(ctx, start, "select", "error")
		return nil, err
	}

	c.observe(ctx, start, "select", "success")
	span.SetStatus(codes.Ok, "Customer found")

	return model.CustomerToEntity(row), nil
}

// SearchByName implements repository.CustomerRepository.
func (c *customerRepository) SearchByName(ctx context.Context, query string) ([]domain.Customer, error) {
	ctx, span := c.tracer.Start(ctx, "repository.customer.SearchByName")
	defer span.End()
	start := time.Now()

	c.queryCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", "select"),
			attribute.String("table", "customers"),
		),
	)

	var rows []model.Customer
	if err := c.db.WithContext(ctx).Where("name LIKE ?", "%"+query+"%").Find(&rows).Error; err != nil {
		span.SetStatus(codes.Error, "Error searching customers")
		span.RecordError(err)
		c.log.Error("Error searching customers", zap.String("query", query), zap.Error(err))
		c.observe(ctx, start, "select", "error")
		return nil, err
	}

	c.observe(ctx, start, "select", "success")
	span.SetStatus(codes.Ok, "Customers searched")

	return model.CustomersToEntity(rows), nil
}
