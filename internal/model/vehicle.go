package model

import (
	"github.com/showroomhq/showroom/internal/domain"
)

func VehicleFromEntity(data *domain.Vehicle) Vehicle {
	return Vehicle{
		CustomerID: data.CustomerID,
		Name:       data.Name,
		Model:      data.Model,
		Year:       data.Year,
		EngineNo:   data.EngineNo,
		ChassisNo:  data.ChassisNo,
		GearboxNo:  data.GearboxNo,
		BatteryNo:  data.BatteryNo,
		TireNo1:    data.TireNo1,
		TireNo2:    data.TireNo2,
		TireNo3:    data.TireNo3,
		TireNo4:    data.TireNo4,
		Price:      data.Price,
	}
}

func VehicleToEntity(data Vehicle) *domain.Vehicle {
	entity := &domain.Vehicle{
		ID:         data.ID,
		CustomerID: data.CustomerID,
		Name:       data.Name,
		Model:      data.Model,
		Year:       data.Year,
		EngineNo:   data.EngineNo,
		ChassisNo:  data.ChassisNo,
		GearboxNo:  data.GearboxNo,
		BatteryNo:  data.BatteryNo,
		TireNo1:    data.TireNo1,
		TireNo2:    data.TireNo2,
		TireNo3:    data.TireNo3,
		TireNo4:    data.TireNo4,
		Price:      data.Price,
		CreatedAt:  data.CreatedAt,
	}

	if data.Purchase != nil {
		entity.Purchase = PurchaseToEntity(*data.Purchase)
	}
	if len(data.Services) > 0 {
		entity.Services = ServiceRecordsToEntity(data.Services)
	}

	return entity
}

func VehiclesToEntity(data []Vehicle) []domain.Vehicle {
	responses := make([]domain.Vehicle, len(data))
	for i, v := range data {
		responses[i] = *VehicleToEntity(v)
	}

	return responses
}
