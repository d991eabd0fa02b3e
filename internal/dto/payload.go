package dto

import (
	"github.com/showroomhq/showroom/internal/domain"
)

// PurchasePayload is the exact shape persisted for a purchase. Loan and
// insurance fields are pointers so that a cash purchase serializes with no
// trace of them: not null, not empty string, absent. A cash record carrying
// any of these keys is a data-integrity defect, not a formatting choice.
type PurchasePayload struct {
	VehicleID       uint64  `json:"vehicle_id"`
	PaymentMethod   string  `json:"payment_method"`
	OwnerName       string  `json:"owner_name"`
	DeliveryAddress string  `json:"delivery_address"`
	DeliveryDate    string  `json:"delivery_date"`
	PurchaseDate    string  `json:"purchase_date"`
	DealerID        *uint64 `json:"dealer_id,omitempty"`

	BankName            *string  `json:"bank_name,omitempty"`
	LoanAmount          *float64 `json:"loan_amount,omitempty"`
	LoanTenureYears     *int     `json:"loan_tenure_years,omitempty"`
	InterestRatePercent *float64 `json:"interest_rate_percent,omitempty"`
	EmiAmount           *float64 `json:"emi_amount,omitempty"`
	DownPayment         *float64 `json:"down_payment,omitempty"`
	InsuranceStart      *string  `json:"insurance_start,omitempty"`
	InsuranceEnd        *string  `json:"insurance_end,omitempty"`
}

// ToEntity converts the payload into the purchase entity handed to the
// repository. Booking number assignment happens at persist time.
func (p PurchasePayload) ToEntity() (*domain.Purchase, error) {
	deliveryDate, err := parseDate(p.DeliveryDate)
	if err != nil {
		return nil, err
	}
	purchaseDate, err := parseDate(p.PurchaseDate)
	if err != nil {
		return nil, err
	}

	purchase := &domain.Purchase{
		VehicleID:       p.VehicleID,
		DealerID:        p.DealerID,
		PaymentMethod:   domain.PaymentMethod(p.PaymentMethod),
		OwnerName:       p.OwnerName,
		DeliveryAddress: p.DeliveryAddress,
		DeliveryDate:    deliveryDate,
		PurchaseDate:    purchaseDate,
	}

	if p.PaymentMethod == string(domain.PaymentLoan) {
		insuranceStart, err := parseDate(derefString(p.InsuranceStart))
		if err != nil {
			return nil, err
		}
		insuranceEnd, err := parseDate(derefString(p.InsuranceEnd))
		if err != nil {
			return nil, err
		}

		purchase.Loan = &domain.LoanTerms{
			BankName:        derefString(p.BankName),
			LoanAmount:      derefFloat(p.LoanAmount),
			LoanTenureYears: derefInt(p.LoanTenureYears),
			InterestRate:    derefFloat(p.InterestRatePercent),
			EmiAmount:       derefFloat(p.EmiAmount),
			DownPayment:     derefFloat(p.DownPayment),
			InsuranceStart:  insuranceStart,
			InsuranceEnd:    insuranceEnd,
		}
	}

	return purchase, nil
}
