package checkout

import (
	"context"
	"time"

	"endurance-api/internal/common/enum"
	"endurance-api/internal/common/models"
	database "endurance-api/internal/pkg/db"
)

type IRepository interface {
	Create(ctx context.Context, trx *models.Transaction) error
	FindByOrderID(ctx context.Context, orderID string) (*models.Transaction, error)
	FindPendingExpiredBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.Transaction, error)
	UpdateStatus(ctx context.Context, orderID string, updates map[string]any) error
	FindLastPendingByUser(ctx context.Context, userID string) (*models.Transaction, error)
}

type Repository struct {
	db *database.Database
}

func NewRepo(db *database.Database) IRepository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, trx *models.Transaction) error {
	return r.db.WithContext(ctx).Create(trx).Error
}

func (r *Repository) FindByOrderID(ctx context.Context, orderID string) (*models.Transaction, error) {
	var trx models.Transaction
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&trx).Error
	if err != nil {
		return nil, err
	}
	return &trx, nil
}

// FindPendingExpiredBefore returns pending transactions whose payment window
// closed before the cutoff. The expiry worker sweeps these.
func (r *Repository) FindPendingExpiredBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.Transaction, error) {
	var trxs []models.Transaction
	err := r.db.WithContext(ctx).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?", enum.TRX_PENDING, cutoff).
		Limit(limit).
		Find(&trxs).Error
	if err != nil {
		return nil, err
	}
	return trxs, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, orderID string, updates map[string]any) error {
	return r.db.WithContext(ctx).Model(&models.Transaction{}).Where("order_id = ?", orderID).Updates(updates).Error
}

func (r *Repository) FindLastPendingByUser(ctx context.Context, userID string) (*models.Transaction, error) {
	var trx models.Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, enum.TRX_PENDING).
		Order("created_at DESC").
		First(&trx).Error
	if err != nil {
		return nil, err
	}
	return &trx, nil
}
