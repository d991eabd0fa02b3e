package dto

import (
	"time"

	"github.com/showroomhq/showroom/internal/domain"
)

type CustomerResponse struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	ContactNo string `json:"contact_no"`
	Email     string `json:"email"`
	Address   string `json:"address"`
	City      string `json:"city"`
	CreatedAt string `json:"created_at"`
}

type VehicleResponse struct {
	ID         uint64  `json:"id"`
	CustomerID uint64  `json:"customer_id"`
	Name       string  `json:"name"`
	Model      string  `json:"model"`
	Year       int     `json:"year"`
	EngineNo   string  `json:"engine_no"`
	ChassisNo  string  `json:"chassis_no"`
	GearboxNo  string  `json:"gearbox_no"`
	BatteryNo  string  `json:"battery_no"`
	TireNo1    string  `json:"tire_no_1"`
	TireNo2    string  `json:"tire_no_2"`
	TireNo3    string  `json:"tire_no_3"`
	TireNo4    string  `json:"tire_no_4"`
	Price      float64 `json:"price"`
}

// PageInfo is the wire shape of a served page window.
type PageInfo struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type CustomerListResponse struct {
	Items      []CustomerResponse `json:"items"`
	Pagination PageInfo           `json:"pagination"`
}

type VehicleListResponse struct {
	Items      []VehicleResponse `json:"items"`
	Pagination PageInfo          `json:"pagination"`
}

type SubDealerResponse struct {
	ID         uint64 `json:"id"`
	DealerCode string `json:"dealer_code"`
	Name       string `json:"name"`
	Contact    string `json:"contact"`
	Location   string `json:"location"`
}

type PurchaseResponse struct {
	ID            uint64          `json:"id"`
	BookingNumber string          `json:"booking_number"`
	Payload       PurchasePayload `json:"purchase"`
}

type EMIQuoteResponse struct {
	Principal         float64 `json:"principal"`
	AnnualRate        float64 `json:"interest_rate_percent"`
	TenureYears       int     `json:"loan_tenure_years"`
	EmiAmount         float64 `json:"emi_amount"`
	TotalInstallments int     `json:"total_installments"`
}

type ServiceRecordResponse struct {
	ID             uint64 `json:"id"`
	VehicleID      uint64 `json:"vehicle_id"`
	ServiceCount   int    `json:"service_count"`
	Status         string `json:"status"`
	Date           string `json:"date"`
	Remarks        string `json:"remarks,omitempty"`
	Classification string `json:"classification"`
}

type SummaryResponse struct {
	TotalVehiclesSold  int64   `json:"totalVehiclesSold"`
	TotalRevenue       float64 `json:"totalRevenue"`
	PendingDeliveries  int64   `json:"pendingDeliveries"`
	ActiveSubDealers   int64   `json:"activeSubDealers"`
	PendingMaintenance int64   `json:"pendingMaintenance"`
}

type InventoryResponse struct {
	TotalVehiclesInStock int64 `json:"totalVehiclesInStock"`
}

type BookingsResponse struct {
	Daily   int64 `json:"daily"`
	Weekly  int64 `json:"weekly"`
	Monthly int64 `json:"monthly"`
}

type ServiceStatusResponse struct {
	Pending    int64 `json:"Pending"`
	InProgress int64 `json:"In Progress"`
	Completed  int64 `json:"Completed"`
}

type AlertsResponse struct {
	UnsoldOver60Days int64 `json:"unsoldOver60Days"`
}

type SearchMatch struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Model string `json:"model,omitempty"`
}

type SearchResponse struct {
	Customers []SearchMatch `json:"customers"`
	Vehicles  []SearchMatch `json:"vehicles"`
	Dealers   []SearchMatch `json:"dealers"`
}

type FullDetailsVehicle struct {
	Vehicle  VehicleResponse         `json:"vehicle"`
	Services []ServiceRecordResponse `json:"services"`
}

type FullDetailsResponse struct {
	Customer CustomerResponse     `json:"customer"`
	Vehicles []FullDetailsVehicle `json:"vehicles"`
}

func PageInfoFromDomain(p domain.Paginated) PageInfo {
	return PageInfo{
		Total:      p.Total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: p.TotalPages,
	}
}

func CustomerFromEntity(c domain.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		ContactNo: c.Contact,
		Email:     c.Email,
		Address:   c.Address,
		City:      c.City,
		CreatedAt: c.CreatedAt.Format(DateLayout),
	}
}

func CustomersFromEntity(customers []domain.Customer) []CustomerResponse {
	responses := make([]CustomerResponse, len(customers))
	for i, c := range customers {
		responses[i] = CustomerFromEntity(c)
	}
	return responses
}

func VehicleFromEntity(v domain.Vehicle) VehicleResponse {
	return VehicleResponse{
		ID:         v.ID,
		CustomerID: v.CustomerID,
		Name:       v.Name,
		Model:      v.Model,
		Year:       v.Year,
		EngineNo:   v.EngineNo,
		ChassisNo:  v.ChassisNo,
		GearboxNo:  v.GearboxNo,
		BatteryNo:  v.BatteryNo,
		TireNo1:    v.TireNo1,
		TireNo2:    v.TireNo2,
		TireNo3:    v.TireNo3,
		TireNo4:    v.TireNo4,
		Price:      v.Price,
	}
}

func VehiclesFromEntity(vehicles []domain.Vehicle) []VehicleResponse {
	responses := make([]VehicleResponse, len(vehicles))
	for i, v := range vehicles {
		responses[i] = VehicleFromEntity(v)
	}
	return responses
}

func SubDealerFromEntity(d domain.SubDealer) SubDealerResponse {
	return SubDealerResponse{
		ID:         d.ID,
		DealerCode: d.DealerCode,
		Name:       d.Name,
		Contact:    d.Contact,
		Location:   d.Location,
	}
}

func SubDealersFromEntity(dealers []domain.SubDealer) []SubDealerResponse {
	responses := make([]SubDealerResponse, len(dealers))
	for i, d := range dealers {
		responses[i] = SubDealerFromEntity(d)
	}
	return responses
}

func ServiceRecordsFromEntity(records []domain.ServiceRecord) []ServiceRecordResponse {
	responses := make([]ServiceRecordResponse, len(records))
	for i, s := range records {
		responses[i] = ServiceRecordFromEntity(s)
	}
	return responses
}

func ServiceRecordFromEntity(s domain.ServiceRecord) ServiceRecordResponse {
	return ServiceRecordResponse{
		ID:             s.ID,
		VehicleID:      s.VehicleID,
		ServiceCount:   s.ServiceCount,
		Status:         string(s.Status),
		Date:           s.Date.Format(DateLayout),
		Remarks:        s.Remarks,
		Classification: s.Classification(),
	}
}

func parseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
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
