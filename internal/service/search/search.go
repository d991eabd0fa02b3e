package searchsrv

import (
	"context"
	"time"

	"github.com/showroomhq/showroom/internal/dto"
	"github.com/showroomhq/showroom/internal/repository"
	"github.com/showroomhq/showroom/internal/service"
	"github.com/showroomhq/showroom/pkg/common"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// minQueryLength keeps single-character probes from fanning out into three
// LIKE scans.
const minQueryLength = 2

type searchService struct {
	customerRepository repository.CustomerRepository
	vehicleRepository  repository.VehicleRepository
	dealerRepository   repository.SubDealerRepository

	meter             metric.Meter
	tracer            trace.Tracer
	log               *zap.Logger
	operationDuration metric.Float64Histogram
	operationCount    metric.Int64Counter
	errorCount        metric.Int64Counter
}

func NewSearchService(
	customerRepository repository.CustomerRepository,
	vehicleRepository repository.VehicleRepository,
	dealerRepository repository.SubDealerRepository,
	meter metric.Meter,
	tracer trace.Tracer,
	log *zap.Logger,
) service.SearchService {
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

	return &searchService{
		customerRepository: customerRepository,
		vehicleRepository:  vehicleRepository,
		dealerRepository:   dealerRepository,

		meter:             meter,
		tracer:            tracer,
		log:               log,
		operationDuration: operationDuration,
		operationCount:    operationCount,
		errorCount:        errorCount,
	}
}

func (s *searchService) begin(ctx context.Context, operation string) {
	s.operationCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("service", "search"),
		),
	)
}

func (s *searchService) recordError(ctx context.Context, start time.Time, operation, errorType string) {
	s.errorCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("service", "search"),
			attribute.String("error_type", errorType),
		),
	)
	s.operationDuration.Record(ctx, float64(time.Since(start).Milliseconds()),
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("service", "search"),
			attribute.String("status", "error"),
		),
	)
}

func (s *searchService) recordSuccess(ctx context.Context, start time.Time, operation string) {
	s.operationDuration.Record(ctx, float64(time.Since(start).Milliseconds()),
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("service", "search"),
			attribute.String("status", "success"),
		),
	)
}

// Search implements service.SearchService. Queries shorter than two
// characters come back empty without touching the store.
func (s *searchService) Search(ctx context.Context, query string) (*dto.SearchResponse, error) {
	ctx, span := s.tracer.Start(ctx, "service.Search")
	defer span.End()
	start := time.Now()
	s.begin(ctx, "search")

	span.SetAttributes(attribute.Int("search.query_length", len(query)))

	result := &dto.SearchResponse{
		Customers: []dto.SearchMatch{},
		Vehicles:  []dto.SearchMatch{},
		Dealers:   []dto.SearchMatch{},
	}

	if len(query) < minQueryLength {
		s.recordSuccess(ctx, start, "search")
		span.SetStatus(codes.Ok, "Query too short, nothing searched")
		return result, nil
	}

	customers, err := s.customerRepository.SearchByName(ctx, query)
	if err != nil {
		span.SetStatus(codes.Error, "Failed to search customers")
		span.RecordError(err)
		s.log.Error("Failed to search customers",
			zap.String("trace_id", span.SpanContext().TraceID().String()),
			zap.Error(err),
		)
		s.recordError(ctx, start, "search", "repository_error")
		return nil, err
	}
	for _, c := range customers {
		result.Customers = append(result.Customers, dto.SearchMatch{ID: c.ID, Name: c.Name})
	}

	vehicles, err := s.vehicleRepository.SearchByNameOrModel(ctx, query)
	if err != nil {
		span.SetStatus(codes.Error, "Failed to search vehicles")
		span.RecordError(err)
		s.log.Error("Failed to search vehicles",
			zap.String("trace_id", span.SpanContext().TraceID().String()),
			zap.Error(err),
		)
		s.recordError(ctx, start, "search", "repository_error")
		return nil, err
	}
	for _, v := range vehicles {
		result.Vehicles = append(result.Vehicles, dto.SearchMatch{ID: v.ID, Name: v.Name, Model: v.Model})
	}

	dealers, err := s.dealerRepository.SearchByName(ctx, query)
	if err != nil {
		span.SetStatus(codes.Error, "Failed to search sub-dealers")
		span.RecordError(err)
		s.log.Error("Failed to search sub-dealers",
			zap.String("trace_id", span.SpanContext().TraceID().String()),
			zap.Error(err),
		)
		s.recordError(ctx, start, "search", "repository_error")
		return nil, err
	}
	for _, d := range dealers {
		result.Dealers = append(result.Dealers, dto.SearchMatch{ID: d.ID, Name: d.Name})
	}

	s.recordSuccess(ctx, start, "search")
	span.SetStatus(codes.Ok, "Search completed")
	span.SetAttributes(
		attribute.Int("search.customers", len(result.Customers)),
		attribute.Int("search.vehicles", len(result.Vehicles)),
		attribute.Int("search.dealers", len(result.Dealers)),
	)

	return result, nil
}

// FullDetails implements service.SearchService. Vehicles are joined on
// customer_id and each vehicle carries its service history with the billing
// classification resolved.
func (s *searchService) FullDetails(ctx context.Context, customerID uint64) (*dto.FullDetailsResponse, error) {
	ctx, span := s.tracer.Start(ctx, "service.FullDetails")
	defer span.End()
	start := time.Now()
	s.begin(ctx, "full_details")

	span.SetAttributes(attribute.Int64("customer.id", int64(customerID)))

	customer, err := s.customerRepository.FindByID(ctx, customerID)
	if err != nil {
		span.SetStatus(codes.Error, "Failed to fetch customer")
		span.RecordError(err)
		s.log.Error("Failed to fetch customer",
			zap.Uint64("customer_id", customerID),
			zap.String("trace_id", span.SpanContext().TraceID().String()),
			zap.Error(err),
		)
		s.recordError(ctx, start, "full_details", "repository_error")
		return nil, err
	}
	if customer == nil {
		err := common.ErrCustomerNotFound
		span.SetStatus(codes.Error, "Customer not found")
		span.RecordError(err)
		s.log.Warn("Customer not found",
			zap.Uint64("customer_id", customerID),
			zap.String("trace_id", span.SpanContext().TraceID().String()),
		)
		s.recordError(ctx, start, "full_details", "customer_not_found")
		return nil, err
	}

	vehicles, err := s.vehicleRepository.FindByCustomerID(ctx, customerID)
	if err != nil {
		span.SetStatus(codes.Error, "Failed to fetch customer vehicles")
		span.RecordError(err)
		s.log.Error("Failed to fetch customer vehicles",
			zap.Uint64("customer_id", customerID),
			zap.String("trace_id", span.SpanContext().TraceID().String()),
			zap.Error(err),
		)
		s.recordError(ctx, start, "full_details", "repository_error")
		return nil, err
	}

	details := &dto.FullDetailsResponse{
		Customer: dto.CustomerFromEntity(*customer),
		Vehicles: make([]dto.FullDetailsVehicle, 0, len(vehicles)),
	}

	for _, vehicle := range vehicles {
		details.Vehicles = append(details.Vehicles, dto.FullDetailsVehicle{
			Vehicle:  dto.VehicleFromEntity(vehicle),
			Services: dto.ServiceRecordsFromEntity(vehicle.Services),
		})
	}

	s.recordSuccess(ctx, start, "full_details")
	span.SetStatus(codes.Ok, "Full details assembled")
	span.SetAttributes(attribute.Int("vehicles.count", len(details.Vehicles)))

	return details, nil
}
