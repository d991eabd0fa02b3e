package model

import (
	"time"

	"gorm.io/gorm"
)

// Customer represents the customers table
type Customer struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Contact   string    `gorm:"type:varchar(10);not null" json:"contact"`
	Email     string    `gorm:"type:varchar(255);not null" json:"email"`
	Address   string    `gorm:"type:varchar(255);not null" json:"address"`
	City      string    `gorm:"type:varchar(100);not null" json:"city"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Vehicles []Vehicle `gorm:"foreignKey:CustomerID" json:"vehicles,omitempty"`
}

// Vehicle represents the vehicles table
type Vehicle struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID uint64    `gorm:"not null" json:"customer_id"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`
	Model      string    `gorm:"type:varchar(255);not null" json:"model"`
	Year       int       `gorm:"not null" json:"year"`
	EngineNo   string    `gorm:"type:varchar(8);not null;uniqueIndex" json:"engine_no"`
	ChassisNo  string    `gorm:"type:varchar(8);not null;uniqueIndex" json:"chassis_no"`
	GearboxNo  string    `gorm:"type:varchar(8);not null;uniqueIndex" json:"gearbox_no"`
	BatteryNo  string    `gorm:"type:varchar(8);not null;uniqueIndex" json:"battery_no"`
	TireNo1    string    `gorm:"type:varchar(8);not null;uniqueIndex" json:"tire_no_1"`
	TireNo2    string    `gorm:"type:varchar(8);not null;uniqueIndex" json:"tire_no_2"`
	TireNo3    string    `gorm:"type:varchar(8);not null;uniqueIndex" json:"tire_no_3"`
	TireNo4    string    `gorm:"type:varchar(8);not null;uniqueIndex" json:"tire_no_4"`
	Price      float64   `gorm:"type:decimal(15,2);not null" json:"price"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`

	Customer Customer        `gorm:"foreignKey:CustomerID;constraint:OnDelete:RESTRICT" json:"customer,omitempty"`
	Services []ServiceRecord `gorm:"foreignKey:VehicleID" json:"services,omitempty"`
	Purchase *Purchase       `gorm:"foreignKey:VehicleID" json:"purchase,omitempty"`
}

// SubDealer represents the sub_dealers table
type SubDealer struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	DealerCode string    `gorm:"type:varchar(50);not null;uniqueIndex" json:"dealer_code"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`
	Contact    string    `gorm:"type:varchar(20);not null" json:"contact"`
	Location   string    `gorm:"type:varchar(255);not null" json:"location"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// ServiceStatus enum for service record status
type ServiceStatus string

const (
	ServicePending    ServiceStatus = "Pending"
	ServiceInProgress ServiceStatus = "In Progress"
	ServiceCompleted  ServiceStatus = "Completed"
	ServiceCancelled  ServiceStatus = "Cancelled"
)

// ServiceRecord represents the services table
type ServiceRecord struct {
	ID           uint64        `gorm:"primaryKey;autoIncrement" json:"id"`
	VehicleID    uint64        `gorm:"not null;uniqueIndex:idx_vehicle_service_count" json:"vehicle_id"`
	ServiceCount int           `gorm:"not null;uniqueIndex:idx_vehicle_service_count" json:"service_count"`
	Status       ServiceStatus `gorm:"type:enum('Pending','In Progress','Completed','Cancelled');default:'Pending';not null" json:"status"`
	Date         time.Time     `gorm:"type:date;not null" json:"date"`
	Remarks      string        `gorm:"type:varchar(500)" json:"remarks"`

	Vehicle Vehicle `gorm:"foreignKey:VehicleID;constraint:OnDelete:CASCADE" json:"vehicle,omitempty"`
}

// PaymentMethod enum for purchases
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentLoan PaymentMethod = "loan"
)

// Purchase represents the purchases table. The unique index on vehicle_id is
// the authoritative allocation invariant: one purchase per vehicle, enforced
// at write time regardless of what any caller checked beforehand.
type Purchase struct {
	ID              uint64        `gorm:"primaryKey;autoIncrement" json:"id"`
	BookingNumber   string        `gorm:"type:varchar(50);not null;uniqueIndex" json:"booking_number"`
	VehicleID       uint64        `gorm:"not null;uniqueIndex" json:"vehicle_id"`
	DealerID        *uint64       `json:"dealer_id,omitempty"`
	PaymentMethod   PaymentMethod `gorm:"type:enum('cash','loan');not null" json:"payment_method"`
	OwnerName       string        `gorm:"type:varchar(255);not null" json:"owner_name"`
	DeliveryAddress string        `gorm:"type:varchar(500);not null" json:"delivery_address"`
	DeliveryDate    time.Time     `gorm:"type:date;not null" json:"delivery_date"`
	PurchaseDate    time.Time     `gorm:"type:date;not null" json:"purchase_date"`
	CreatedAt       time.Time     `gorm:"autoCreateTime" json:"created_at"`

	// Loan-only columns; NULL on cash rows.
	BankName        *string    `gorm:"type:varchar(255)" json:"bank_name,omitempty"`
	LoanAmount      *float64   `gorm:"type:decimal(15,2)" json:"loan_amount,omitempty"`
	LoanTenureYears *int       `json:"loan_tenure_years,omitempty"`
	InterestRate    *float64   `gorm:"type:decimal(6,3)" json:"interest_rate,omitempty"`
	EmiAmount       *float64   `gorm:"type:decimal(15,2)" json:"emi_amount,omitempty"`
	DownPayment     *float64   `gorm:"type:decimal(15,2)" json:"down_payment,omitempty"`
	InsuranceStart  *time.Time `gorm:"type:date" json:"insurance_start,omitempty"`
	InsuranceEnd    *time.Time `gorm:"type:date" json:"insurance_end,omitempty"`

	Vehicle Vehicle    `gorm:"foreignKey:VehicleID;constraint:OnDelete:RESTRICT" json:"vehicle,omitempty"`
	Dealer  *SubDealer `gorm:"foreignKey:DealerID;constraint:OnDelete:SET NULL" json:"dealer,omitempty"`
}

// TableName methods to specify custom table names if needed
func (Customer) TableName() string {
	return "customers"
}

func (Vehicle) TableName() string {
	return "vehicles"
}

func (SubDealer) TableName() string {
	return "sub_dealers"
}

func (ServiceRecord) TableName() string {
	return "services"
}

func (Purchase) TableName() string {
	return "purchases"
}

// Database migration function
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Customer{},
		&Vehicle{},
		&SubDealer{},
		&ServiceRecord{},
		&Purchase{},
	)
}
