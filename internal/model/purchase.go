package model

import (
	"github.com/showroomhq/showroom/internal/domain"
)

func PurchaseFromEntity(data *domain.Purchase) Purchase {
	row := Purchase{
		BookingNumber:   data.BookingNumber,
		VehicleID:       data.VehicleID,
		DealerID:        data.DealerID,
		PaymentMethod:   PaymentMethod(data.PaymentMethod),
		OwnerName:       data.OwnerName,
		DeliveryAddress: data.DeliveryAddress,
		DeliveryDate:    data.DeliveryDate,
		PurchaseDate:    data.PurchaseDate,
	}

	if data.Loan != nil {
		loan := *data.Loan
		row.BankName = &loan.BankName
		row.LoanAmount = &loan.LoanAmount
		row.LoanTenureYears = &loan.LoanTenureYears
		row.InterestRate = &loan.InterestRate
		row.EmiAmount = &loan.EmiAmount
		row.DownPayment = &loan.DownPayment
		row.InsuranceStart = &loan.InsuranceStart
		row.InsuranceEnd = &loan.InsuranceEnd
	}

	return row
}

func PurchaseToEntity(data Purchase) *domain.Purchase {
	entity := &domain.Purchase{
		ID:              data.ID,
		BookingNumber:   data.BookingNumber,
		VehicleID:       data.VehicleID,
		DealerID:        data.DealerID,
		PaymentMethod:   domain.PaymentMethod(data.PaymentMethod),
		OwnerName:       data.OwnerName,
		DeliveryAddress: data.DeliveryAddress,
		DeliveryDate:    data.DeliveryDate,
		PurchaseDate:    data.PurchaseDate,
		CreatedAt:       data.CreatedAt,
	}

	if data.PaymentMethod == PaymentLoan && data.LoanAmount != nil {
		entity.Loan = &domain.LoanTerms{
			BankName:        derefString(data.BankName),
			LoanAmount:      derefFloat(data.LoanAmount),
			LoanTenureYears: derefInt(data.LoanTenureYears),
			InterestRate:    derefFloat(data.InterestRate),
			EmiAmount:       derefFloat(data.EmiAmount),
			DownPayment:     derefFloat(data.DownPayment),
		}
		if data.InsuranceStart != nil {
			entity.Loan.InsuranceStart = *data.InsuranceStart
		}
		if data.InsuranceEnd != nil {
			entity.Loan.InsuranceEnd = *data.InsuranceEnd
		}
	}

	return entity
}

func PurchasesToEntity(data []Purchase) []domain.Purchase {
	responses := make([]domain.Purchase, len(data))
	for i, p := range data {
		responses[i] = *PurchaseToEntity(p)
	}

	return responses
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func derefFloat(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
