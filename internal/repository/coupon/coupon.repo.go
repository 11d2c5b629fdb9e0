package coupon

import (
	"context"

	"endurance-api/internal/common/models"
	database "endurance-api/internal/pkg/db"

	"gorm.io/gorm"
)

type IRepository interface {
	Create(ctx context.Context, c *models.Coupon) error
	FindByCode(ctx context.Context, code string) (*models.Coupon, error)
	List(ctx context.Context, dir database.DirectionEnum, active *bool) ([]models.Coupon, error)
	Update(ctx context.Context, id string, updates map[string]any) error
	Delete(ctx context.Context, id string) error
	IncrementUsed(ctx context.Context, code string) error
}

type Repository struct {
	db *database.Database
}

func NewRepo(db *database.Database) IRepository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, c *models.Coupon) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *Repository) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var c models.Coupon
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) List(ctx context.Context, dir database.DirectionEnum, active *bool) ([]models.Coupon, error) {
	if !dir.IsValid() {
		dir = database.DESC
	}

	q := r.db.WithContext(ctx).Order("created_at " + dir.ToString())
	if active != nil {
		q = q.Where("active = ?", *active)
	}

	var coupons []models.Coupon
	err := q.Find(&coupons).Error
	if err != nil {
		return nil, err
	}
	return coupons, nil
}

func (r *Repository) Update(ctx context.Context, id string, updates map[string]any) error {
	return r.db.WithContext(ctx).Model(&models.Coupon{}).Where("id = ?", id).Updates(updates).Error
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Coupon{}).Error
}

// IncrementUsed bumps the redemption counter atomically at checkout time.
func (r *Repository) IncrementUsed(ctx context.Context, code string) error {
	return r.db.WithContext(ctx).Model(&models.Coupon{}).
		Where("code = ?", code).
		Update("used_count", gorm.Expr("used_count + 1")).Error
}
