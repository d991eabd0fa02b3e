package model

import (
	"github.com/showroomhq/showroom/internal/domain"
)

func SubDealerFromEntity(data *domain.SubDealer) SubDealer {
	return SubDealer{
		DealerCode: data.DealerCode,
		Name:       data.Name,
		Contact:    data.Contact,
		Location:   data.Location,
	}
}

func SubDealerToEntity(data SubDealer) *domain.SubDealer {
	return &domain.SubDealer{
		ID:         data.ID,
		DealerCode: data.DealerCode,
		Name:       data.Name,
		Contact:    data.Contact,
		Location:   data.Location,
		CreatedAt:  data.CreatedAt,
	}
}

func SubDealersToEntity(data []SubDealer) []domain.SubDealer {
	responses := make([]domain.SubDealer, len(data))
	for i, d := range data {
		responses[i] = *SubDealerToEntity(d)
	}

	return responses
}
