package registrysrv

import (
	"context"
	"time"

	"github.com/showroomhq/showroom/internal/domain"
	"github.com/showroomhq/showroom/internal/repository"
	"github.com/showroomhq/showroom/internal/service"
	"github.com/showroomhq/showroom/pkg/common"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type registryService struct {
	customerRepository      repository.CustomerRepository
	vehicleRepository       repository.VehicleRepository
	dealerRepository        repository.SubDealerRepository
	serviceRecordRepository repository.ServiceRecordRepository

	meter             metric.Meter
	tracer            trace.Tracer
	log               *zap.Logger
	operationDuration metric.Float64Histogram
	operationCount    metric.Int64Counter
	errorCount        metric.Int64Counter
	entitiesCreated   metric.Int64Counter
}

func NewRegistryService(
	customerRepository repository.CustomerRepository,
	vehicleRepository repository.VehicleRepository,
	dealerRepository repository.SubDealerRepository,
	serviceRecordRepository repository.ServiceRecordRepository,
	meter metric.Meter,
	tracer trace.Tracer,
	log *zap.Logger,
) service.RegistryService {
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

	entitiesCreated, _ := meter.Int64Counter(
		"service.registry.created",
		metric.WithDescription("Number of registry entities created"),
		metric.WithUnit("{entity}"),
	)

	return &registryService{
		customerRepository:      customerRepository,
		vehicleRepository:       vehicleRepository,
		dealerRepository:        dealerRepository,
		serviceRecordRepository: serviceRecordRepository,

		meter:             meter,
		tracer:            tracer,
		log:               log,
		operationDuration: operationDuration,
		operationCount:    operationCount,
		errorCount:        errorCount,
		entitiesCreated:   entitiesCreated,
	}
}

func (r *registryService) begin(ctx context.Context, operation string) {
	r.operationCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("service", "registry"),
		),
	)
}

func (r *registryService) recordError(ctx context.Context, start time.Time, operation, errorType string) {
	r.errorCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("service", "registry"),
			attribute.String("error_type", errorType),
		),
	)
	r.operationDuration.Record(ctx, float64(time.Since(start).Milliseconds()),
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("service", "registry"),
			attribute.String("status", "error"),
		),
	)
}

func (r *registryService) recordSuccess(ctx context.Context, start time.Time, operation string) {
	r.operationDuration.Record(ctx, float64(time.Since(start).Milliseconds()),
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("service", "registry"),
			attribute.String("status", "success"),
		),
	)
}

// CreateCustomer implements service.RegistryService.
func (r *registryService) CreateCustomer(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	ctx, span := r.tracer.Start(ctx, "service.CreateCustomer")
	defer span.End()
	start := time.Now()
	r.begin(ctx, "create_customer")

	span.SetAttributes(attribute.String("customer.name", customer.Name))

	created, err := r.customerRepository.Save(ctx, customer)
	if err != nil {
		span.SetStatus(codes.Error, "Failed to create customer")
		span.RecordError(err)
		r.log.Error("Failed to create customer",
			zap.String("name", customer.Name),
			zap.String("trace_id", span.SpanContext().TraceID().String()),
			zap.Error(err),
		)
		r.recordError(ctx, start, "create_customer", "repository_error")
		return nil, err
	}

	r.entitiesCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("entity", "customer")))
	r.recordSuccess(ctx, start, "create_customer")
	span.SetStatus(codes.Ok, "Customer created")

	return created, nil
}

// ListCustomers implements service.RegistryService.
func (r *registryService) ListCustomers(ctx context.Context, params domain.Params) ([]domain.Customer, domain.Paginated, error) {
	ctx, span := r.tracer.Start(ctx, "service.ListCustomers")
	defer span.End()
	start := time.Now()
	r.begin(ctx, "list_customers")

	params = params.Normalize()
	span.SetAttributes(
		attribute.Int("page.number", params.Page),
		attribute.Int("page.limit", params.Limit),
	)

	customers, total, err := r.customerRepository.FindAll(ctx, params)
	if err != nil {
		span.SetStatus(codes.Error, "Failed to list customers")
		span.RecordError(err)
		r.log.Error("Failed to list customers",
			zap.String("trace_id", span.SpanContext().TraceID().String()),
			zap.Error(err),
		)
		r.recordError(ctx, start, "list_customers", "repository_error")
		return nil, domain.Paginated{}, err
	}

	r.recordSuccess(ctx, start, "list_customers")
	span.SetStatus(codes.Ok, "Customers listed")
	span.SetAttributes(attribute.Int("customers.count", len(customers)))

	return customers, domain.NewPaginated(total, params), nil
}

// CreateVehicle implements service.RegistryService. The owning customer must
// already exist.
func (r *registryService) CreateVehicle(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error) {
	ctx, span := r.tracer.Start(ctx, "service.CreateVehicle")
	defer span.End()
	start := time.Now()
	r.begin(ctx, "create_vehicle")

	span.SetAttributes(
		attribute.String("vehicle.name", vehicle.Name),
		attribute.Int64("customer.id", int64(vehicle.CustomerID)),
	)

	owner, err := r.customerRepository.FindByID(ctx, vehicle.CustomerID)
	if err != nil {
		span.SetStatus(codes.Error, "Failed to check vehicle owner")
		span.RecordError(err)
		r.log.Error("Failed to check vehicle owner",
			zap.Uint64("customer_id", vehicle.CustomerID),
			zap.String("trace_id", span.SpanContext().TraceID().String()),
			zap.Error(err),
		)
		r.recordError(ctx, start, "create_vehicle", "repository_error")
		return nil, err
	}
	if owner == nil {
		err := common.ErrCustomerNotFound
		span.SetStatus(codes.Error, "Vehicle owner not found")
		span.RecordError(err)
		r.log.Warn("Vehicle owner not found",
			zap.Uint64("customer_id", vehicle.CustomerID),
			zap.String("trace_id", span.SpanContext().TraceID().String()),
		)
		r.recordError(ctx, start, "create_vehicle", "customer_not_found")
		return nil, err
	}

	created, err := r.vehicleRepository.Save(ctx, vehicle)
	if err != nil {
		span.SetStatus(codes.Error, "Failed to create vehicle")
		span.RecordError(err)
		r.log.Error("Failed to create vehicle",
			zap.String("name", vehicle.Name),
			zap.String("trace_id", span.SpanContext().TraceID().String()),
			zap.Error(err),
		)
		r.recordError(ctx, start, "create_vehicle", "create_failed")
		return nil, err
	}

	r.entitiesCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("entity", "vehicle")))
	r.recordSuccess(ctx, start, "create_vehicle")
	span.SetStatus(codes.Ok, "Vehicle created")
	span.SetAttributes(attribute.Int64("vehicle.id", int64(created.ID)))

	return created, nil
}

// ListVehicles implements service.RegistryService.
func (r *registryService) ListVehicles(ctx context.Context, unsoldOnly bool, params domain.Params) ([]domain.Vehicle, domain.Paginated, error) {
	ctx, span := r.tracer.Start(ctx, "service.ListVehicles")
	defer span.End()
	start := time.Now()
	r.begin(ctx, "list_vehicles")

	params = params.Normalize()
	span.SetAttributes(
		attribute.Bool("vehicle.unsold_only", unsoldOnly),
		attribute.Int("page.number", params.Page),
		attribute.Int("page.limit", params.Limit),
	)

	vehicles, total, err := r.vehicleRepository.FindAll(ctx, unsoldOnly, params)
	if err != nil {
		span.SetStatus(codes.Error, "Failed to list vehicles")
		span.RecordError(err)
		r.log.Error("Failed to list vehicles",
			zap.Bool("unsold_only", unsoldOnly),
			zap.String("trace_id", span.SpanContext().TraceID().String()),
			zap.Error(err),
		)
		r.recordError(ctx, start, "list_vehicles", "repository_error")
		return nil, domain.Paginated{}, err
	}

	r.recordSuccess(ctx, start, "list_vehicles")
	span.SetStatus(codes.Ok, "Vehicles listed")
	span.SetAttributes(attribute.Int("vehicles.count", len(vehicles)))

	return vehicles, domain.NewPaginated(total, params), nil
}

// CreateSubDealer implements service.RegistryService.
func (r *registryService) CreateSubDealer(ctx context.Context, dealer *domain.SubDealer) (*domain.SubDealer, error) {
	ctx, span := r.tracer.Start(ctx, "service.CreateSubDealer")
	defer span.End()
	start := time.Now()
	r.begin(ctx, "create_sub_dealer")

	span.SetAttributes(attribute.String("dealer.code", dealer.DealerCode))

	created, err := r.dealerRepository.Save(ctx, dealer)
	if err != nil {
		span.SetStatus(codes.Error, "Failed to create sub-dealer")
		span.RecordError(err)
		r.log.Error("Failed to create sub-dealer",
			zap.String("dealer_code", dealer.DealerCode),
			zap.String("trace_id", span.SpanContext().TraceID().String()),
			zap.Error(err),
		)
		r.recordError(ctx, start, "create_sub_dealer", "repository_error")
		return nil, err
	}

	r.entitiesCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("entity", "sub_dealer")))
	r.recordSuccess(ctx, start, "create_sub_dealer")
	span.SetStatus(codes.Ok, "Sub-dealer created")

	return created, nil
}

// ListSubDealers implements service.RegistryService.
func (r *registryService) ListSubDealers(ctx context.Context) ([]domain.SubDealer, error) {
	ctx, span := r.tracer.Start(ctx, "service.ListSubDealers")
	defer span.End()
	start := time.Now()
	r.begin(ctx, "list_sub_dealers")

	dealers, err := r.dealerRepository.FindAll(ctx)
	if err != nil {
		span.SetStatus(codes.Error, "Failed to list sub-dealers")
		span.RecordError(err)
		r.log.Error("Failed to list sub-dealers",
			zap.String("trace_id", span.SpanContext().TraceID().String()),
			zap.Error(err),
		)
		r.recordError(ctx, start, "list_sub_dealers", "repository_error")
		return nil, err
	}

	r.recordSuccess(ctx, start, "list_sub_dealers")
	span.SetStatus(codes.Ok, "Sub-dealers listed")
	span.SetAttributes(attribute.Int("dealers.count", len(dealers)))

	return dealers, nil
}

// CreateServiceRecord implements service.RegistryService. The vehicle must
// already exist; the (vehicle_id, service_count) pair is unique.
func (r *registryService) CreateServiceRecord(ctx context.Context, record *domain.ServiceRecord) (*domain.ServiceRecord, error) {
	ctx, span := r.tracer.Start(ctx, "service.CreateServiceRecord")
	defer span.End()
	start := time.Now()
	r.begin(ctx, "create_service_record")

	span.SetAttributes(
		attribute.Int64("vehicle.id", int64(record.VehicleID)),
		attribute.Int("service.count", record.ServiceCount),
	)

	vehicle, err := r.vehicleRepository.FindByID(ctx, record.VehicleID)
	if err != nil {
		span.SetStatus(codes.Error, "Failed to check serviced vehicle")
		span.RecordError(err)
		r.log.Error("Failed to check serviced vehicle",
			zap.Uint64("vehicle_id", record.VehicleID),
			zap.String("trace_id", span.SpanContext().TraceID().String()),
			zap.Error(err),
		)
		r.recordError(ctx, start, "create_service_record", "repository_error")
		return nil, err
	}
	if vehicle == nil {
		err := common.ErrVehicleNotFound
		span.SetStatus(codes.Error, "Serviced vehicle not found")
		span.RecordError(err)
		r.log.Warn("Serviced vehicle not found",
			zap.Uint64("vehicle_id", record.VehicleID),
			zap.String("trace_id", span.SpanContext().TraceID().String()),
		)
		r.recordError(ctx, start, "create_service_record", "vehicle_not_found")
		return nil, err
	}

	created, err := r.serviceRecordRepository.Save(ctx, record)
	if err != nil {
		span.SetStatus(codes.Error, "Failed to create service record")
		span.RecordError(err)
		r.log.Error("Failed to create service record",
			zap.Uint64("vehicle_id", record.VehicleID),
			zap.Int("service_count", record.ServiceCount),
			zap.String("trace_id", span.SpanContext().TraceID().String()),
			zap.Error(err),
		)
		r.recordError(ctx, start, "create_service_record", "create_failed")
		return nil, err
	}

	r.entitiesCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("entity", "service_record")))
	r.recordSuccess(ctx, start, "create_service_record")
	span.SetStatus(codes.Ok, "Service record created")
	span.SetAttributes(attribute.String("service.classification", created.Classification()))

	return created, nil
}

// ListServiceRecords implements service.RegistryService.
func (r *registryService) ListServiceRecords(ctx context.Context, vehicleID uint64) ([]domain.ServiceRecord, error) {
	ctx, span := r.tracer.Start(ctx, "service.ListServiceRecords")
	defer span.End()
	start := time.Now()
	r.begin(ctx, "list_service_records")

	var records []domain.ServiceRecord
	var err error
	if vehicleID > 0 {
		span.SetAttributes(attribute.Int64("vehicle.id", int64(vehicleID)))
		records, err = r.serviceRecordRepository.FindByVehicleID(ctx, vehicleID)
	} else {
		records, err = r.serviceRecordRepository.FindAll(ctx)
	}
	if err != nil {
		span.SetStatus(codes.Error, "Failed to list service records")
		span.RecordError(err)
		r.log.Error("Failed to list service records",
			zap.String("trace_id", span.SpanContext().TraceID().String()),
			zap.Error(err),
		)
		r.recordError(ctx, start, "list_service_records", "repository_error")
		return nil, err
	}

	r.recordSuccess(ctx, start, "list_service_records")
	span.SetStatus(codes.Ok, "Service records listed")
	span.SetAttributes(attribute.Int("records.count", len(records)))

	return records, nil
}
