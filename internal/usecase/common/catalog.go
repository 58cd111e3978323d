package common

import (
	"errors"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
)

// OrderedServices возвращает услуги в порядке запроса
// Первая отсутствующая в справочнике услуга дает ErrServiceNotFound
func OrderedServices(ids []int64, found map[int64]*domain.Service) ([]*domain.Service, error) {
	services := make([]*domain.Service, 0, len(ids))
	for _, id := range ids {
		svc, ok := found[id]
		if !ok {
			return nil, domain.ErrServiceNotFound.WithID(id)
		}
		services = append(services, svc)
	}
	return services, nil
}

// CatalogError переводит ошибку справочника в ошибку бизнес-логики
// id подставляется в ошибку "не найдено"
func CatalogError(err error, id int64) error {
	switch {
	case errors.Is(err, catalog.ErrClientNotFound):
		return domain.ErrClientNotFound.WithID(id)
	case errors.Is(err, catalog.ErrProfessionalNotFound):
		return domain.ErrProfessionalNotFound.WithID(id)
	case errors.Is(err, catalog.ErrServiceNotFound):
		return domain.ErrServiceNotFound.WithID(id)
	default:
		return appointmentRepo.DomainError(err)
	}
}
