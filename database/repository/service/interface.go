package serviceRepo

import (
	"context"

	"slotify/models"
)

// ServiceRepository persists a practitioner's bookable services.
type ServiceRepository interface {
	Create(ctx context.Context, svc *models.Service) error
	GetByID(ctx context.Context, id string) (*models.Service, error)
	ListByPractitioner(ctx context.Context, practitionerID string, activeOnly bool) ([]models.Service, error)
	SetActive(ctx context.Context, id string, active bool) error
	EnsureIndexes() error
}
