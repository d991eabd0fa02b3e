package dto

import (
	"time"

	"github.com/showroomhq/showroom/internal/domain"
)

// DateLayout is the wire format for every calendar date the API accepts.
// Dates never carry a time component.
const DateLayout = "2006-01-02"

type CreateCustomerRequest struct {
	Name      string `json:"name" validate:"required"`
	ContactNo string `json:"contact_no" validate:"required,len=10,numeric"`
	Email     string `json:"email" validate:"required,email"`
	Address   string `json:"address" validate:"required"`
	City      string `json:"city" validate:"required"`
}

type CreateVehicleRequest struct {
	CustomerID uint64  `json:"customer_id" validate:"required,gt=0"`
	Name       string  `json:"name" validate:"required"`
	Model      string  `json:"model" validate:"required"`
	Year       int     `json:"year" validate:"required,gte=1980,lte=2100"`
	EngineNo   string  `json:"engine_no" validate:"required,len=8,numeric"`
	ChassisNo  string  `json:"chassis_no" validate:"required,len=8,numeric"`
	GearboxNo  string  `json:"gearbox_no" validate:"required,len=8,numeric"`
	BatteryNo  string  `json:"battery_no" validate:"required,len=8,numeric"`
	TireNo1    string  `json:"tire_no_1" validate:"required,len=8,numeric"`
	TireNo2    string  `json:"tire_no_2" validate:"required,len=8,numeric"`
	TireNo3    string  `json:"tire_no_3" validate:"required,len=8,numeric"`
	TireNo4    string  `json:"tire_no_4" validate:"required,len=8,numeric"`
	Price      float64 `json:"price" validate:"required,gt=0"`
}

type CreateSubDealerRequest struct {
	DealerCode string `json:"dealer_code" validate:"required"`
	Name       string `json:"name" validate:"required"`
	Contact    string `json:"contact" validate:"required,numeric,min=10,max=12"`
	Location   string `json:"location" validate:"required"`
}

type CreateServiceRequest struct {
	VehicleID    uint64 `json:"vehicle_id" validate:"required,gt=0"`
	ServiceCount int    `json:"service_count" validate:"required,gte=1"`
	Status       string `json:"status" validate:"required,oneof=Pending 'In Progress' Completed Cancelled"`
	Date         string `json:"date" validate:"required,datetime=2006-01-02"`
	Remarks      string `json:"remarks,omitempty"`
}

// CreatePurchaseRequest is the raw purchase intent as submitted. The loan
// block is conditionally required: every field in it must be present when
// payment_method is "loan" and is ignored outright when it is "cash".
// Pointer types distinguish "absent" from legal zero values (a 0% interest
// rate and a 0 down payment are both valid loan inputs).
type CreatePurchaseRequest struct {
	VehicleID       uint64  `json:"vehicle_id" validate:"required,gt=0"`
	DealerID        *uint64 `json:"dealer_id" validate:"omitempty,gt=0"`
	PaymentMethod   string  `json:"payment_method" validate:"required,oneof=cash loan"`
	OwnerName       string  `json:"owner_name" validate:"required"`
	DeliveryAddress string  `json:"delivery_address" validate:"required"`
	DeliveryDate    string  `json:"delivery_date" validate:"required,datetime=2006-01-02"`
	PurchaseDate    string  `json:"purchase_date" validate:"required,datetime=2006-01-02"`

	BankName            string   `json:"bank_name" validate:"required_if=PaymentMethod loan"`
	LoanAmount          *float64 `json:"loan_amount" validate:"required_if=PaymentMethod loan,omitempty,gt=0"`
	LoanTenureYears     *int     `json:"loan_tenure_years" validate:"required_if=PaymentMethod loan,omitempty,gt=0"`
	InterestRatePercent *float64 `json:"interest_rate_percent" validate:"required_if=PaymentMethod loan,omitempty,gte=0"`
	EmiAmount           *float64 `json:"emi_amount" validate:"required_if=PaymentMethod loan,omitempty,gt=0"`
	DownPayment         *float64 `json:"down_payment" validate:"required_if=PaymentMethod loan,omitempty,gte=0"`
	InsuranceStart      string   `json:"insurance_start" validate:"required_if=PaymentMethod loan,omitempty,datetime=2006-01-02"`
	InsuranceEnd        string   `json:"insurance_end" validate:"required_if=PaymentMethod loan,omitempty,datetime=2006-01-02"`
}

// StripLoanFields clears the whole loan block. A cash submission may still
// carry leftover loan values from the client form; those are dropped before
// validation, never value-checked.
func (r *CreatePurchaseRequest) StripLoanFields() {
	r.BankName = ""
	r.LoanAmount = nil
	r.LoanTenureYears = nil
	r.InterestRatePercent = nil
	r.EmiAmount = nil
	r.DownPayment = nil
	r.InsuranceStart = ""
	r.InsuranceEnd = ""
}

// --- Mapping --- //

func CustomerToEntity(req CreateCustomerRequest) *domain.Customer {
	return &domain.Customer{
		Name:    req.Name,
		Contact: req.ContactNo,
		Email:   req.Email,
		Address: req.Address,
		City:    req.City,
	}
}

func VehicleToEntity(req CreateVehicleRequest) *domain.Vehicle {
	return &domain.Vehicle{
		CustomerID: req.CustomerID,
		Name:       req.Name,
		Model:      req.Model,
		Year:       req.Year,
		EngineNo:   req.EngineNo,
		ChassisNo:  req.ChassisNo,
		GearboxNo:  req.GearboxNo,
		BatteryNo:  req.BatteryNo,
		TireNo1:    req.TireNo1,
		TireNo2:    req.TireNo2,
		TireNo3:    req.TireNo3,
		TireNo4:    req.TireNo4,
		Price:      req.Price,
	}
}

func SubDealerToEntity(req CreateSubDealerRequest) *domain.SubDealer {
	return &domain.SubDealer{
		DealerCode: req.DealerCode,
		Name:       req.Name,
		Contact:    req.Contact,
		Location:   req.Location,
	}
}

func ServiceRecordToEntity(req CreateServiceRequest) *domain.ServiceRecord {
	date, _ := time.Parse(DateLayout, req.Date)
	return &domain.ServiceRecord{
		VehicleID:    req.VehicleID,
		ServiceCount: req.ServiceCount,
		Status:       domain.ServiceStatus(req.Status),
		Date:         date,
		Remarks:      req.Remarks,
	}
}
