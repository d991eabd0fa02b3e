package salessrv

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/showroomhq/showroom/internal/domain"
	"github.com/showroomhq/showroom/internal/dto"
	"github.com/showroomhq/showroom/internal/repository"
	"github.com/showroomhq/showroom/internal/service"
	"github.com/showroomhq/showroom/pkg/common"
	"github.com/showroomhq/showroom/pkg/finance"

	"github.com/go-playground/validator/v10"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// emiTolerance is the accepted absolute difference between a submitted
// emi_amount and the calculator's result.
const emiTolerance = 0.01

type salesService struct {
	vehicleRepository  repository.VehicleRepository
	dealerRepository   repository.SubDealerRepository
	purchaseRepository repository.PurchaseRepository

	validate *validator.Validate
	quoter   *finance.Quoter

	meter             metric.Meter
	tracer            trace.Tracer
	log               *zap.Logger
	operationDuration metric.Float64Histogram
	operationCount    metric.Int64Counter
	errorCount        metric.Int64Counter
	purchasesCreated  metric.Int64Counter
}

func NewSalesService(
	vehicleRepository repository.VehicleRepository,
	dealerRepository repository.SubDealerRepository,
	purchaseRepository repository.PurchaseRepository,
	meter metric.Meter,
	tracer trace.Tracer,
	log *zap.Logger,
) service.SalesService {
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

	purchasesCreated, _ := meter.Int64Counter(
		"service.purchases.created",
		metric.WithDescription("Number of purchases created"),
		metric.WithUnit("{purchase}"),
	)

	return &salesService{
		vehicleRepository:  vehicleRepository,
		dealerRepository:   dealerRepository,
		purchaseRepository: purchaseRepository,

		validate: common.NewValidator(),
		quoter:   finance.NewQuoter(),

		meter:             meter,
		tracer:            tracer,
		log:               log,
		operationDuration: operationDuration,
		operationCount:    operationCount,
		errorCount:        errorCount,
		purchasesCreated:  purchasesCreated,
	}
}

func (s *salesService) begin(ctx context.Context, operation string) {
	s.operationCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("service", "sales"),
		),
	)
}

func (s *salesService) recordError(ctx context.Context, start time.Time, operation, errorType string) {
	s.errorCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("service", "sales"),
			attribute.String("error_type", errorType),
		),
	)
	s.operationDuration.Record(ctx, float64(time.Since(start).Milliseconds()),
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("service", "sales"),
			attribute.String("status", "error"),
		),
	)
}

func (s *salesService) recordSuccess(ctx context.Context, start time.Time, operation string) {
	s.operationDuration.Record(ctx, float64(time.Since(start).Milliseconds()),
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("service", "sales"),
			attribute.String("status", "success"),
		),
	)
}

// Validate implements service.SalesService. Fields are checked independently
// and every failing field is reported; each field keeps only its first
// failure. Loan fields on a cash request are ignored outright, never errors.
func (s *salesService) Validate(ctx context.Context, req dto.CreatePurchaseRequest) (*domain.PurchaseIntent, error) {
	ctx, span := s.tracer.Start(ctx, "service.ValidatePurchase")
	defer span.End()
	start := time.Now()
	s.begin(ctx, "validate_purchase")

	span.SetAttributes(
		attribute.Int64("vehicle.id", int64(req.VehicleID)),
		attribute.String("purchase.payment_method", req.PaymentMethod),
	)

	// Leftover loan form state on a cash request is stripped, not validated;
	// a toggled payment method must not reject the submission.
	if req.PaymentMethod == string(domain.PaymentCash) {
		req.StripLoanFields()
	}

	fields := common.FieldErrors{}

	if err := s.validate.Struct(req); err != nil {
		translated, ok := common.TranslateValidationErrors(err)
		if !ok {
			span.SetStatus(codes.Error, "Validator failed")
			span.RecordError(err)
			s.log.Error("Validator failed", zap.Error(err))
			s.recordError(ctx, start, "validate_purchase", "validator_error")
			return nil, err
		}
		fields = translated
	}

	// Referential checks run even when tag validation failed elsewhere, so
	// the caller sees every broken field in one round trip.
	var vehicle *domain.Vehicle
	if req.VehicleID > 0 {
		var err error
		vehicle, err = s.vehicleRepository.FindByID(ctx, req.VehicleID)
		if err != nil {
			span.SetStatus(codes.Error, "Failed to look up vehicle")
			span.RecordError(err)
			s.log.Error("Failed to look up vehicle",
				zap.Uint64("vehicle_id", req.VehicleID),
				zap.String("trace_id", span.SpanContext().TraceID().String()),
				zap.Error(err),
			)
			s.recordError(ctx, start, "validate_purchase", "repository_error")
			return nil, err
		}
		if vehicle == nil {
			fields.Set("vehicle_id", common.ErrVehicleNotFound.Error())
		}
	}

	if req.DealerID != nil && *req.DealerID > 0 {
		dealer, err := s.dealerRepository.FindByID(ctx, *req.DealerID)
		if err != nil {
			span.SetStatus(codes.Error, "Failed to look up sub-dealer")
			span.RecordError(err)
			s.log.Error("Failed to look up sub-dealer",
				zap.Uint64("dealer_id", *req.DealerID),
				zap.String("trace_id", span.SpanContext().TraceID().String()),
				zap.Error(err),
			)
			s.recordError(ctx, start, "validate_purchase", "repository_error")
			return nil, err
		}
		if dealer == nil {
			fields.Set("dealer_id", common.ErrDealerNotFound.Error())
		}
	}

	if req.PaymentMethod == string(domain.PaymentLoan) {
		s.validateLoanTerms(req, vehicle, fields)
	}

	if len(fields) > 0 {
		span.SetStatus(codes.Ok, "Purchase request rejected")
		span.SetAttributes(attribute.Int("validation.failed_fields", len(fields)))
		s.log.Info("Purchase request rejected",
			zap.Uint64("vehicle_id", req.VehicleID),
			zap.Int("failed_fields", len(fields)),
			zap.String("trace_id", span.SpanContext().TraceID().String()),
		)
		s.recordError(ctx, start, "validate_purchase", "validation_failed")
		return nil, fields
	}

	intent := &domain.PurchaseIntent{
		VehicleID:       req.VehicleID,
		DealerID:        req.DealerID,
		PaymentMethod:   domain.PaymentMethod(req.PaymentMethod),
		OwnerName:       req.OwnerName,
		DeliveryAddress: req.DeliveryAddress,
	}
	intent.DeliveryDate, _ = time.Parse(dto.DateLayout, req.DeliveryDate)
	intent.PurchaseDate, _ = time.Parse(dto.DateLayout, req.PurchaseDate)

	if intent.PaymentMethod == domain.PaymentLoan {
		insuranceStart, _ := time.Parse(dto.DateLayout, req.InsuranceStart)
		insuranceEnd, _ := time.Parse(dto.DateLayout, req.InsuranceEnd)
		intent.Loan = &domain.LoanTerms{
			BankName:        req.BankName,
			LoanAmount:      *req.LoanAmount,
			LoanTenureYears: *req.LoanTenureYears,
			InterestRate:    *req.InterestRatePercent,
			EmiAmount:       *req.EmiAmount,
			DownPayment:     *req.DownPayment,
			InsuranceStart:  insuranceStart,
			InsuranceEnd:    insuranceEnd,
		}
	}

	s.recordSuccess(ctx, start, "validate_purchase")
	span.SetStatus(codes.Ok, "Purchase request validated")

	return intent, nil
}

// validateLoanTerms adds the loan-only cross-field failures. It only inspects
// fields that passed their own tag checks; a field already rejected keeps its
// first message.
func (s *salesService) validateLoanTerms(req dto.CreatePurchaseRequest, vehicle *domain.Vehicle, fields common.FieldErrors) {
	if req.LoanAmount != nil && req.InterestRatePercent != nil && req.LoanTenureYears != nil && req.EmiAmount != nil {
		expected, err := finance.ComputeEMI(*req.LoanAmount, *req.InterestRatePercent, *req.LoanTenureYears)
		if err == nil && math.Abs(expected-*req.EmiAmount) > emiTolerance {
			fields.Set("emi_amount", fmt.Sprintf("does not match the computed installment of %.2f", expected))
		}
	}

	if req.InsuranceStart != "" && req.InsuranceEnd != "" {
		startDate, errStart := time.Parse(dto.DateLayout, req.InsuranceStart)
		endDate, errEnd := time.Parse(dto.DateLayout, req.InsuranceEnd)
		if errStart == nil && errEnd == nil && endDate.Before(startDate) {
			fields.Set("insurance_end", "must not be before insurance_start")
		}
	}

	if req.DownPayment != nil && req.LoanAmount != nil && vehicle != nil {
		if *req.DownPayment >= *req.LoanAmount+vehicle.Price {
			fields.Set("down_payment", "must be less than the loan amount plus the vehicle price")
		}
	}
}

// Assemble implements service.SalesService.
func (s *salesService) Assemble(ctx context.Context, intent *domain.PurchaseIntent) (*dto.PurchasePayload, error) {
	ctx, span := s.tracer.Start(ctx, "service.AssemblePurchase")
	defer span.End()
	start := time.Now()
	s.begin(ctx, "assemble_purchase")

	if intent.PaymentMethod == domain.PaymentCash && intent.Loan != nil {
		err := common.ErrIntegrityViolation
		span.SetStatus(codes.Error, "Cash intent carries loan terms")
		span.RecordError(err)
		s.log.Error("Cash intent carries loan terms",
			zap.Uint64("vehicle_id", intent.VehicleID),
			zap.String("trace_id", span.SpanContext().TraceID().String()),
		)
		s.recordError(ctx, start, "assemble_purchase", "integrity_violation")
		return nil, err
	}
	if intent.PaymentMethod == domain.PaymentLoan && intent.Loan == nil {
		err := common.ErrIntegrityViolation
		span.SetStatus(codes.Error, "Loan intent carries no loan terms")
		span.RecordError(err)
		s.log.Error("Loan intent carries no loan terms",
			zap.Uint64("vehicle_id", intent.VehicleID),
			zap.String("trace_id", span.SpanContext().TraceID().String()),
		)
		s.recordError(ctx, start, "assemble_purchase", "integrity_violation")
		return nil, err
	}

	payload := &dto.PurchasePayload{
		VehicleID:       intent.VehicleID,
		PaymentMethod:   string(intent.PaymentMethod),
		OwnerName:       intent.OwnerName,
		DeliveryAddress: intent.DeliveryAddress,
		DeliveryDate:    intent.DeliveryDate.Format(dto.DateLayout),
		PurchaseDate:    intent.PurchaseDate.Format(dto.DateLayout),
		DealerID:        intent.DealerID,
	}

	if intent.Loan != nil {
		loan := *intent.Loan
		insuranceStart := loan.InsuranceStart.Format(dto.DateLayout)
		insuranceEnd := loan.InsuranceEnd.Format(dto.DateLayout)

		payload.BankName = &loan.BankName
		payload.LoanAmount = &loan.LoanAmount
		payload.LoanTenureYears = &loan.LoanTenureYears
		payload.InterestRatePercent = &loan.InterestRate
		payload.EmiAmount = &loan.EmiAmount
		payload.DownPayment = &loan.DownPayment
		payload.InsuranceStart = &insuranceStart
		payload.InsuranceEnd = &insuranceEnd
	}

	s.recordSuccess(ctx, start, "assemble_purchase")
	span.SetStatus(codes.Ok, "Purchase payload assembled")

	return payload, nil
}

// CreatePurchase implements service.SalesService.
func (s *salesService) CreatePurchase(ctx context.Context, req dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	ctx, span := s.tracer.Start(ctx, "service.CreatePurchase")
	defer span.End()
	start := time.Now()
	s.begin(ctx, "create_purchase")

	span.SetAttributes(
		attribute.Int64("vehicle.id", int64(req.VehicleID)),
		attribute.String("purchase.payment_method", req.PaymentMethod),
	)

	intent, err := s.Validate(ctx, req)
	if err != nil {
		span.SetStatus(codes.Error, "Purchase validation failed")
		span.RecordError(err)
		s.recordError(ctx, start, "create_purchase", "validation_failed")
		return nil, err
	}

	// Fast path: reject an already-sold vehicle before touching the insert.
	// The repository re-checks under lock, so a stale read here is harmless.
	sold, err := s.purchaseRepository.ExistsByVehicleID(ctx, intent.VehicleID)
	if err != nil {
		span.SetStatus(codes.Error, "Failed to check vehicle allocation")
		span.RecordError(err)
		s.log.Error("Failed to check vehicle allocation",
			zap.Uint64("vehicle_id", intent.VehicleID),
			zap.String("trace_id", span.SpanContext().TraceID().String()),
			zap.Error(err),
		)
		s.recordError(ctx, start, "create_purchase", "repository_error")
		return nil, err
	}
	if sold {
		err := common.ErrVehicleAlreadySold
		span.SetStatus(codes.Error, "Vehicle already sold")
		span.RecordError(err)
		s.log.Warn("Vehicle already sold",
			zap.Uint64("vehicle_id", intent.VehicleID),
			zap.String("trace_id", span.SpanContext().TraceID().String()),
		)
		s.recordError(ctx, start, "create_purchase", "already_sold")
		return nil, err
	}

	payload, err := s.Assemble(ctx, intent)
	if err != nil {
		span.SetStatus(codes.Error, "Failed to assemble purchase payload")
		span.RecordError(err)
		s.recordError(ctx, start, "create_purchase", "assemble_failed")
		return nil, err
	}

	purchase, err := payload.ToEntity()
	if err != nil {
		span.SetStatus(codes.Error, "Failed to map purchase payload")
		span.RecordError(err)
		s.log.Error("Failed to map purchase payload",
			zap.Uint64("vehicle_id", intent.VehicleID),
			zap.String("trace_id", span.SpanContext().TraceID().String()),
			zap.Error(err),
		)
		s.recordError(ctx, start, "create_purchase", "payload_error")
		return nil, err
	}
	purchase.BookingNumber = generateBookingNumber()

	created, err := s.purchaseRepository.Create(ctx, purchase)
	if err != nil {
		span.SetStatus(codes.Error, "Failed to create purchase")
		span.RecordError(err)
		s.log.Error("Failed to create purchase",
			zap.Uint64("vehicle_id", intent.VehicleID),
			zap.String("trace_id", span.SpanContext().TraceID().String()),
			zap.Error(err),
		)
		s.recordError(ctx, start, "create_purchase", "create_failed")
		return nil, err
	}

	s.purchasesCreated.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("payment_method", string(created.PaymentMethod)),
		),
	)
	s.recordSuccess(ctx, start, "create_purchase")
	s.log.Info("Purchase created",
		zap.Uint64("purchase_id", created.ID),
		zap.Uint64("vehicle_id", created.VehicleID),
		zap.String("booking_number", created.BookingNumber),
		zap.String("payment_method", string(created.PaymentMethod)),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
	)
	span.SetStatus(codes.Ok, "Purchase created")
	span.SetAttributes(attribute.String("purchase.booking_number", created.BookingNumber))

	return &dto.PurchaseResponse{
		ID:            created.ID,
		BookingNumber: created.BookingNumber,
		Payload:       *payload,
	}, nil
}

// QuoteEMI implements service.SalesService.
func (s *salesService) QuoteEMI(ctx context.Context, principal, annualRatePercent float64, tenureYears int) (*dto.EMIQuoteResponse, error) {
	ctx, span := s.tracer.Start(ctx, "service.QuoteEMI")
	defer span.End()
	start := time.Now()
	s.begin(ctx, "quote_emi")

	span.SetAttributes(
		attribute.Float64("loan.principal", principal),
		attribute.Float64("loan.rate_percent", annualRatePercent),
		attribute.Int("loan.tenure_years", tenureYears),
	)

	emi, err := s.quoter.EMI(principal, annualRatePercent, tenureYears)
	if err != nil {
		span.SetStatus(codes.Error, "EMI computation rejected")
		span.RecordError(err)
		s.log.Info("EMI computation rejected",
			zap.Float64("principal", principal),
			zap.Float64("rate_percent", annualRatePercent),
			zap.Int("tenure_years", tenureYears),
			zap.Error(err),
		)
		s.recordError(ctx, start, "quote_emi", "invalid_input")
		return nil, err
	}

	s.recordSuccess(ctx, start, "quote_emi")
	span.SetStatus(codes.Ok, "EMI quoted")

	return &dto.EMIQuoteResponse{
		Principal:         principal,
		AnnualRate:        annualRatePercent,
		TenureYears:       tenureYears,
		EmiAmount:         emi,
		TotalInstallments: tenureYears * 12,
	}, nil
}

func generateBookingNumber() string {
	now := time.Now()
	return fmt.Sprintf("BKG-%s-%05d", now.Format("20060102"), now.UnixNano()%100000)
}
