package plan

import (
	"context"

	"endurance-api/internal/common/models"
	database "endurance-api/internal/pkg/db"
)

type IRepository interface {
	FindByID(ctx context.Context, id string) (*models.Plan, error)
	ListActive(ctx context.Context) ([]models.Plan, error)
}

type Repository struct {
	db *database.Database
}

func NewRepo(db *database.Database) IRepository {
	return &Repository{db: db}
}

func (r *Repository) FindByID(ctx context.Context, id string) (*models.Plan, error) {
	var p models.Plan
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) ListActive(ctx context.Context) ([]models.Plan, error) {
	var plans []models.Plan
	err := r.db.WithContext(ctx).Where("active = ?", true).Order("name ASC").Find(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}
