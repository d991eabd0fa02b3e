package service_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/showroomhq/showroom/internal/domain"
	"github.com/showroomhq/showroom/internal/dto"
	"github.com/showroomhq/showroom/internal/service"
	salessrv "github.com/showroomhq/showroom/internal/service/sales"
	"github.com/showroomhq/showroom/pkg/common"

	"github.com/stretchr/testify/assert"

	noop_metric "go.opentelemetry.io/otel/metric/noop"
	noop_trace "go.opentelemetry.io/otel/trace/noop"

	"go.uber.org/zap"
)

func newSalesService(
	vehicleRepo *mockVehicleRepository,
	dealerRepo *mockSubDealerRepository,
	purchaseRepo *mockPurchaseRepository,
) service.SalesService {
	return salessrv.NewSalesService(
		vehicleRepo,
		dealerRepo,
		purchaseRepo,
		noop_metric.NewMeterProvider().Meter("test-sales-service-meter"),
		noop_trace.NewTracerProvider().Tracer("test-sales-service-tracer"),
		zap.NewNop(),
	)
}

func f64(v float64) *float64 { return &v }
func i(v int) *int           { return &v }
func u64(v uint64) *uint64   { return &v }

// validLoanRequest targets vehicle 1 (price 600000) through dealer 3. The EMI
// matches ComputeEMI(500000, 9.5, 5).
func validLoanRequest() dto.CreatePurchaseRequest {
	return dto.CreatePurchaseRequest{
		VehicleID:       1,
		DealerID:        u64(3),
		PaymentMethod:   "loan",
		OwnerName:       "Asep Sunandar",
		DeliveryAddress: "Jl. Braga No. 12, Bandung",
		DeliveryDate:    "2026-02-01",
		PurchaseDate:    "2026-01-15",

		BankName:            "Bank Mandiri",
		LoanAmount:          f64(500000),
		LoanTenureYears:     i(5),
		InterestRatePercent: f64(9.5),
		EmiAmount:           f64(10500.93),
		DownPayment:         f64(100000),
		InsuranceStart:      "2026-01-15",
		InsuranceEnd:        "2027-01-15",
	}
}

func validCashRequest() dto.CreatePurchaseRequest {
	return dto.CreatePurchaseRequest{
		VehicleID:       1,
		PaymentMethod:   "cash",
		OwnerName:       "Asep Sunandar",
		DeliveryAddress: "Jl. Braga No. 12, Bandung",
		DeliveryDate:    "2026-02-01",
		PurchaseDate:    "2026-01-15",
	}
}

func salesFixtures() (*mockVehicleRepository, *mockSubDealerRepository, *mockPurchaseRepository) {
	vehicleRepo := &mockVehicleRepository{
		MockFindByIDData: &domain.Vehicle{ID: 1, Name: "City Cruiser", Price: 600000},
	}
	dealerRepo := &mockSubDealerRepository{
		MockFindByIDData: &domain.SubDealer{ID: 3, Name: "Bandung Timur Motor"},
	}
	purchaseRepo := &mockPurchaseRepository{}
	return vehicleRepo, dealerRepo, purchaseRepo
}

func TestValidatePurchase(t *testing.T) {
	t.Run("Success - Loan Request", func(t *testing.T) {
		vehicleRepo, dealerRepo, purchaseRepo := salesFixtures()
		svc := newSalesService(vehicleRepo, dealerRepo, purchaseRepo)

		intent, err := svc.Validate(context.Background(), validLoanRequest())

		assert.NoError(t, err)
		assert.NotNil(t, intent)
		assert.Equal(t, domain.PaymentLoan, intent.PaymentMethod)
		assert.NotNil(t, intent.Loan)
		assert.Equal(t, 500000.0, intent.Loan.LoanAmount)
		assert.Equal(t, uint64(3), dealerRepo.FindByIDCalledWith)
	})

	t.Run("Success - Cash Request Ignores Loan Fields", func(t *testing.T) {
		vehicleRepo, dealerRepo, purchaseRepo := salesFixtures()
		svc := newSalesService(vehicleRepo, dealerRepo, purchaseRepo)

		req := validCashRequest()
		// Stray loan fields on a cash request are ignored, never rejected.
		req.BankName = "Bank Mandiri"
		req.LoanAmount = f64(500000)

		intent, err := svc.Validate(context.Background(), req)

		assert.NoError(t, err)
		assert.NotNil(t, intent)
		assert.Equal(t, domain.PaymentCash, intent.PaymentMethod)
		assert.Nil(t, intent.Loan)
	})

	t.Run("Success - Cash Request Strips Invalid Loan Leftovers", func(t *testing.T) {
		vehicleRepo, dealerRepo, purchaseRepo := salesFixtures()
		svc := newSalesService(vehicleRepo, dealerRepo, purchaseRepo)

		req := validCashRequest()
		// A form toggled from loan back to cash can submit half-typed or
		// out-of-range loan values; they must be stripped, not rejected.
		req.LoanAmount = f64(-5)
		req.EmiAmount = f64(0)
		req.InsuranceStart = "not-a-date"
		req.InsuranceEnd = "2026-13-45"

		intent, err := svc.Validate(context.Background(), req)

		assert.NoError(t, err)
		assert.NotNil(t, intent)
		assert.Equal(t, domain.PaymentCash, intent.PaymentMethod)
		assert.Nil(t, intent.Loan)
	})

	t.Run("Failure - Missing Loan Fields Reported Per Field", func(t *testing.T) {
		vehicleRepo, dealerRepo, purchaseRepo := salesFixtures()
		svc := newSalesService(vehicleRepo, dealerRepo, purchaseRepo)

		req := validLoanRequest()
		req.BankName = ""
		req.LoanAmount = nil
		req.EmiAmount = nil

		intent, err := svc.Validate(context.Background(), req)

		assert.Nil(t, intent)
		var fields common.FieldErrors
		assert.ErrorAs(t, err, &fields)
		assert.Contains(t, fields, "bank_name")
		assert.Contains(t, fields, "loan_amount")
		assert.Contains(t, fields, "emi_amount")
		assert.NotContains(t, fields, "owner_name")
	})

	t.Run("Failure - EMI Mismatch", func(t *testing.T) {
		vehicleRepo, dealerRepo, purchaseRepo := salesFixtures()
		svc := newSalesService(vehicleRepo, dealerRepo, purchaseRepo)

		req := validLoanRequest()
		req.EmiAmount = f64(9999.99)

		intent, err := svc.Validate(context.Background(), req)

		assert.Nil(t, intent)
		var fields common.FieldErrors
		assert.ErrorAs(t, err, &fields)
		assert.Contains(t, fields["emi_amount"], "10500.93")
	})

	t.Run("Success - EMI Within Tolerance", func(t *testing.T) {
		vehicleRepo, dealerRepo, purchaseRepo := salesFixtures()
		svc := newSalesService(vehicleRepo, dealerRepo, purchaseRepo)

		req := validLoanRequest()
		req.EmiAmount = f64(10500.935)

		intent, err := svc.Validate(context.Background(), req)

		assert.NoError(t, err)
		assert.NotNil(t, intent)
	})

	t.Run("Failure - Insurance End Before Start", func(t *testing.T) {
		vehicleRepo, dealerRepo, purchaseRepo := salesFixtures()
		svc := newSalesService(vehicleRepo, dealerRepo, purchaseRepo)

		req := validLoanRequest()
		req.InsuranceEnd = "2025-12-31"

		intent, err := svc.Validate(context.Background(), req)

		assert.Nil(t, intent)
		var fields common.FieldErrors
		assert.ErrorAs(t, err, &fields)
		assert.Contains(t, fields, "insurance_end")
	})

	t.Run("Failure - Down Payment Too Large", func(t *testing.T) {
		vehicleRepo, dealerRepo, purchaseRepo := salesFixtures()
		svc := newSalesService(vehicleRepo, dealerRepo, purchaseRepo)

		req := validLoanRequest()
		// loan amount (500000) + vehicle price (600000) = 1100000
		req.DownPayment = f64(1100000)

		intent, err := svc.Validate(context.Background(), req)

		assert.Nil(t, intent)
		var fields common.FieldErrors
		assert.ErrorAs(t, err, &fields)
		assert.Contains(t, fields, "down_payment")
	})

	t.Run("Failure - Unknown Vehicle And Dealer Reported Together", func(t *testing.T) {
		vehicleRepo := &mockVehicleRepository{}
		dealerRepo := &mockSubDealerRepository{}
		purchaseRepo := &mockPurchaseRepository{}
		svc := newSalesService(vehicleRepo, dealerRepo, purchaseRepo)

		req := validCashRequest()
		req.DealerID = u64(99)

		intent, err := svc.Validate(context.Background(), req)

		assert.Nil(t, intent)
		var fields common.FieldErrors
		assert.ErrorAs(t, err, &fields)
		assert.Equal(t, common.ErrVehicleNotFound.Error(), fields["vehicle_id"])
		assert.Equal(t, common.ErrDealerNotFound.Error(), fields["dealer_id"])
	})

	t.Run("Validate Is Repeatable", func(t *testing.T) {
		vehicleRepo, dealerRepo, purchaseRepo := salesFixtures()
		svc := newSalesService(vehicleRepo, dealerRepo, purchaseRepo)

		req := validLoanRequest()

		first, err := svc.Validate(context.Background(), req)
		assert.NoError(t, err)
		second, err := svc.Validate(context.Background(), req)
		assert.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Zero(t, purchaseRepo.CreateCalls, "Validate must never touch the purchase repository")
	})
}

func TestAssemblePurchase(t *testing.T) {
	vehicleRepo, dealerRepo, purchaseRepo := salesFixtures()
	svc := newSalesService(vehicleRepo, dealerRepo, purchaseRepo)

	t.Run("Failure - Cash Intent With Loan Terms", func(t *testing.T) {
		intent := &domain.PurchaseIntent{
			VehicleID:     1,
			PaymentMethod: domain.PaymentCash,
			Loan:          &domain.LoanTerms{LoanAmount: 500000},
		}

		payload, err := svc.Assemble(context.Background(), intent)

		assert.Nil(t, payload)
		assert.ErrorIs(t, err, common.ErrIntegrityViolation)
	})

	t.Run("Failure - Loan Intent Without Loan Terms", func(t *testing.T) {
		intent := &domain.PurchaseIntent{
			VehicleID:     1,
			PaymentMethod: domain.PaymentLoan,
		}

		payload, err := svc.Assemble(context.Background(), intent)

		assert.Nil(t, payload)
		assert.ErrorIs(t, err, common.ErrIntegrityViolation)
	})

	t.Run("Cash Payload Serializes Without Loan Keys", func(t *testing.T) {
		intent, err := svc.Validate(context.Background(), validCashRequest())
		assert.NoError(t, err)

		payload, err := svc.Assemble(context.Background(), intent)
		assert.NoError(t, err)

		raw, err := json.Marshal(payload)
		assert.NoError(t, err)

		var keys map[string]any
		assert.NoError(t, json.Unmarshal(raw, &keys))
		for _, forbidden := range []string{
			"bank_name", "loan_amount", "loan_tenure_years", "interest_rate_percent",
			"emi_amount", "down_payment", "insurance_start", "insurance_end", "dealer_id",
		} {
			assert.NotContains(t, keys, forbidden,
				"cash purchase must serialize with no trace of loan fields")
		}
		assert.Equal(t, "cash", keys["payment_method"])
	})

	t.Run("Loan Payload Keeps Every Loan Field", func(t *testing.T) {
		intent, err := svc.Validate(context.Background(), validLoanRequest())
		assert.NoError(t, err)

		payload, err := svc.Assemble(context.Background(), intent)
		assert.NoError(t, err)

		raw, err := json.Marshal(payload)
		assert.NoError(t, err)

		var keys map[string]any
		assert.NoError(t, json.Unmarshal(raw, &keys))
		assert.Equal(t, "Bank Mandiri", keys["bank_name"])
		assert.Equal(t, 500000.0, keys["loan_amount"])
		assert.Equal(t, "2026-01-15", keys["insurance_start"])
		assert.Equal(t, "2027-01-15", keys["insurance_end"])
	})
}

func TestCreatePurchase(t *testing.T) {
	t.Run("Success - Loan Purchase", func(t *testing.T) {
		vehicleRepo, dealerRepo, purchaseRepo := salesFixtures()
		svc := newSalesService(vehicleRepo, dealerRepo, purchaseRepo)

		res, err := svc.CreatePurchase(context.Background(), validLoanRequest())

		assert.NoError(t, err)
		assert.NotNil(t, res)
		assert.True(t, strings.HasPrefix(res.BookingNumber, "BKG-"))
		assert.Equal(t, 1, purchaseRepo.CreateCalls)
		assert.Equal(t, uint64(1), purchaseRepo.CreateCalledWith.VehicleID)
		assert.NotNil(t, purchaseRepo.CreateCalledWith.Loan)
	})

	t.Run("Failure - Vehicle Already Sold (Fast Path)", func(t *testing.T) {
		vehicleRepo, dealerRepo, purchaseRepo := salesFixtures()
		purchaseRepo.MockExistsByVehicleID = true
		svc := newSalesService(vehicleRepo, dealerRepo, purchaseRepo)

		res, err := svc.CreatePurchase(context.Background(), validCashRequest())

		assert.Nil(t, res)
		assert.ErrorIs(t, err, common.ErrVehicleAlreadySold)
		assert.Zero(t, purchaseRepo.CreateCalls, "a known-sold vehicle must never reach the insert")
	})

	t.Run("Failure - Allocation Conflict Surfaced By Repository", func(t *testing.T) {
		// Two submissions race past the fast path; the repository's locked
		// re-check rejects the loser.
		vehicleRepo, dealerRepo, purchaseRepo := salesFixtures()
		purchaseRepo.MockCreateError = common.ErrVehicleAlreadySold
		svc := newSalesService(vehicleRepo, dealerRepo, purchaseRepo)

		res, err := svc.CreatePurchase(context.Background(), validCashRequest())

		assert.Nil(t, res)
		assert.ErrorIs(t, err, common.ErrVehicleAlreadySold)
		assert.Equal(t, 1, purchaseRepo.CreateCalls)
	})

	t.Run("Failure - Validation Errors Propagate", func(t *testing.T) {
		vehicleRepo, dealerRepo, purchaseRepo := salesFixtures()
		svc := newSalesService(vehicleRepo, dealerRepo, purchaseRepo)

		req := validLoanRequest()
		req.EmiAmount = f64(1)

		res, err := svc.CreatePurchase(context.Background(), req)

		assert.Nil(t, res)
		var fields common.FieldErrors
		assert.ErrorAs(t, err, &fields)
		assert.Zero(t, purchaseRepo.CreateCalls)
	})
}

func TestQuoteEMI(t *testing.T) {
	vehicleRepo, dealerRepo, purchaseRepo := salesFixtures()
	svc := newSalesService(vehicleRepo, dealerRepo, purchaseRepo)

	t.Run("Success", func(t *testing.T) {
		quote, err := svc.QuoteEMI(context.Background(), 500000, 9.5, 5)

		assert.NoError(t, err)
		assert.Equal(t, 10500.93, quote.EmiAmount)
		assert.Equal(t, 60, quote.TotalInstallments)
	})

	t.Run("Failure - Invalid Inputs", func(t *testing.T) {
		_, err := svc.QuoteEMI(context.Background(), 0, 9.5, 5)
		assert.ErrorIs(t, err, common.ErrInvalidPrincipal)

		_, err = svc.QuoteEMI(context.Background(), 500000, -1, 5)
		assert.ErrorIs(t, err, common.ErrInvalidRate)

		_, err = svc.QuoteEMI(context.Background(), 500000, 9.5, 0)
		assert.ErrorIs(t, err, common.ErrInvalidTenure)
	})
}
