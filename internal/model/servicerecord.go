package model

import (
	"github.com/showroomhq/showroom/internal/domain"
)

func ServiceRecordFromEntity(data *domain.ServiceRecord) ServiceRecord {
	return ServiceRecord{
		VehicleID:    data.VehicleID,
		ServiceCount: data.ServiceCount,
		Status:       ServiceStatus(data.Status),
		Date:         data.Date,
		Remarks:      data.Remarks,
	}
}

func ServiceRecordToEntity(data ServiceRecord) *domain.ServiceRecord {
	return &domain.ServiceRecord{
		ID:           data.ID,
		VehicleID:    data.VehicleID,
		ServiceCount: data.ServiceCount,
		Status:       domain.ServiceStatus(data.Status),
		Date:         data.Date,
		Remarks:      data.Remarks,
	}
}

func ServiceRecordsToEntity(data []ServiceRecord) []domain.ServiceRecord {
	responses := make([]domain.ServiceRecord, len(data))
	for i, s := range data {
		responses[i] = *ServiceRecordToEntity(s)
	}

	return responses
}
