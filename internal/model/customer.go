package model

import (
	"github.com/showroomhq/showroom/internal/domain"
)

func CustomerFromEntity(data *domain.Customer) Customer {
	return Customer{
		Name:    data.Name,
		Contact: data.Contact,
		Email:   data.Email,
		Address: data.Address,
		City:    data.City,
	}
}

func CustomerToEntity(data Customer) *domain.Customer {
	return &domain.Customer{
		ID:        data.ID,
		Name:      data.Name,
		Contact:   data.Contact,
		Email:     data.Email,
		Address:   data.Address,
		City:      data.City,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

func CustomersToEntity(data []Customer) []domain.Customer {
	responses := make([]domain.Customer, len(data))
	for i, c := range data {
		responses[i] = *CustomerToEntity(c)
	}

	return responses
}
