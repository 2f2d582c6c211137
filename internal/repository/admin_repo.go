package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/noah-isme/learnhub-api/internal/models"
)

// AdminRepository defines persistence operations for administrator accounts.
type AdminRepository interface {
	List(ctx context.Context) ([]models.Admin, error)
	GetByID(ctx context.Context, id string) (models.Admin, error)
	GetByEmail(ctx context.Context, email string) (models.Admin, error)
	Create(ctx context.Context, admin *models.Admin) error
	Delete(ctx context.Context, id string) error
}

type adminRepository struct {
	db *gorm.DB
}

// NewAdminRepository instantiates a GORM-backed admin repository.
func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) List(ctx context.Context) ([]models.Admin, error) {
	var admins []models.Admin
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&admins).Error; err != nil {
		return nil, err
	}
	return admins, nil
}

func (r *adminRepository) GetByID(ctx context.Context, id string) (models.Admin, error) {
	var admin models.Admin
	if err := r.db.WithContext(ctx).First(&admin, "id = ?", id).Error; err != nil {
		return models.Admin{}, err
	}
	return admin, nil
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (models.Admin, error) {
	var admin models.Admin
	if err := r.db.WithContext(ctx).First(&admin, "LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).Error; err != nil {
		return models.Admin{}, err
	}
	return admin, nil
}

func (r *adminRepository) Create(ctx context.Context, admin *models.Admin) error {
	return r.db.WithContext(ctx).Create(admin).Error
}

func (r *adminRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Admin{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
