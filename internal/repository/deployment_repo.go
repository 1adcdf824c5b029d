package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lambdadock/lambdadock/internal/models"
)

// DeploymentRepository defines the interface for deployment persistence
// operations.
type DeploymentRepository interface {
	Create(ctx context.Context, d *models.Deployment) (*models.Deployment, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Deployment, error)
	GetAll(ctx context.Context) ([]*models.Deployment, error)
	Update(ctx context.Context, d *models.Deployment) error
}

type deploymentRepository struct {
	db *gorm.DB
}

func NewDeploymentRepository(db *gorm.DB) DeploymentRepository {
	return &deploymentRepository{
		db: db,
	}
}

// Create persists a new deployment record and returns it.
func (r *deploymentRepository) Create(ctx context.Context, d *models.Deployment) (*models.Deployment, error) {
	err := r.db.WithContext(ctx).Create(d).Error
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *deploymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Deployment, error) {
	var d models.Deployment
	err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// GetAll returns every deployment record, newest first.
func (r *deploymentRepository) GetAll(ctx context.Context) ([]*models.Deployment, error) {
	var deployments []*models.Deployment
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&deployments).Error
	if err != nil {
		return nil, err
	}
	return deployments, nil
}

func (r *deploymentRepository) Update(ctx context.Context, d *models.Deployment) error {
	return r.db.WithContext(ctx).Save(d).Error
}
