package domain

import (
	"time"
)

type Customer struct {
	ID        uint64
	Name      string
	Contact   string
	Email     string
	Address   string
	City      string
	CreatedAt time.Time
	UpdatedAt time.Time

	Vehicles []Vehicle
}

type Vehicle struct {
	ID         uint64
	CustomerID uint64
	Name       string
	Model      string
	Year       int
	EngineNo   string
	ChassisNo  string
	GearboxNo  string
	BatteryNo  string
	TireNo1    string
	TireNo2    string
	TireNo3    string
	TireNo4    string
	Price      float64
	CreatedAt  time.Time

	Services []ServiceRecord
	Purchase *Purchase
}

type SubDealer struct {
	ID         uint64
	DealerCode string
	Name       string
	Contact    string
	Location   string
	CreatedAt  time.Time
}

type ServiceStatus string

const (
	ServicePending    ServiceStatus = "Pending"
	ServiceInProgress ServiceStatus = "In Progress"
	ServiceCompleted  ServiceStatus = "Completed"
	ServiceCancelled  ServiceStatus = "Cancelled"
)

// FreeServiceLimit is the highest service count that is still covered by the
// showroom; everything beyond it is billed to the owner.
const FreeServiceLimit = 6

type ServiceRecord struct {
	ID           uint64
	VehicleID    uint64
	ServiceCount int
	Status       ServiceStatus
	Date         time.Time
	Remarks      string
}

// Classification returns the billing class for the record.
func (s ServiceRecord) Classification() string {
	if s.ServiceCount <= FreeServiceLimit {
		return "FREE SERVICE"
	}
	return "PAID SERVICE"
}

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentLoan PaymentMethod = "loan"
)

// LoanTerms carries the fields that only exist on a loan purchase.
type LoanTerms struct {
	BankName        string
	LoanAmount      float64
	LoanTenureYears int
	InterestRate    float64
	EmiAmount       float64
	DownPayment     float64
	InsuranceStart  time.Time
	InsuranceEnd    time.Time
}

// PurchaseIntent is the validated, normalized candidate purchase. The variant
// is tagged through Loan: nil for cash, populated for loan. Downstream code
// must never see a cash intent with loan terms attached.
type PurchaseIntent struct {
	VehicleID       uint64
	DealerID        *uint64
	PaymentMethod   PaymentMethod
	OwnerName       string
	DeliveryAddress string
	DeliveryDate    time.Time
	PurchaseDate    time.Time

	Loan *LoanTerms
}

type Purchase struct {
	ID              uint64
	BookingNumber   string
	VehicleID       uint64
	DealerID        *uint64
	PaymentMethod   PaymentMethod
	OwnerName       string
	DeliveryAddress string
	DeliveryDate    time.Time
	PurchaseDate    time.Time
	CreatedAt       time.Time

	Loan *LoanTerms
}

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Params is the requested page window for list queries.
type Params struct {
	Page  int
	Limit int
}

// Normalize clamps the window to the allowed range. Zero values take the
// defaults, so an empty Params lists the first page.
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 || p.Limit > MaxPageLimit {
		p.Limit = DefaultPageLimit
	}
	return p
}

// Offset is the row offset of the window start.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Paginated describes the window actually served alongside a list result.
type Paginated struct {
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

func NewPaginated(total int64, params Params) Paginated {
	pages := int((total + int64(params.Limit) - 1) / int64(params.Limit))
	return Paginated{
		Total:      total,
		Page:       params.Page,
		Limit:      params.Limit,
		TotalPages: pages,
	}
}
