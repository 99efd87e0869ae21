// Package adapters provides the GORM implementation of the dish store.
package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"nutriapp/internal/feature/dishes/domain/entity"
	"nutriapp/internal/feature/dishes/usecase"
)

// updatableColumns are the fields a dish update may overwrite.
// Selecting them explicitly lets zero values (false, 0, NULL) be written.
var updatableColumns = []string{
	"Name", "Description", "PrepTime", "CookTime", "QuickPrep",
	"Calories", "ImageURL", "Steps", "UpdatedAt",
}

type dishGorm struct {
	db *gorm.DB
}

// Compile-time check to ensure dishGorm implements DishRepository.
var _ usecase.DishRepository = (*dishGorm)(nil)

// NewDishGorm creates a new instance of dishGorm.
func NewDishGorm(db *gorm.DB) *dishGorm {
	return &dishGorm{db: db}
}

// Create inserts a dish and copies the generated ID and timestamps back.
func (r *dishGorm) Create(ctx context.Context, dish *entity.Dish) error {
	model := DishModelFromEntity(dish)
	model.ID = 0
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	dish.ID = model.ID
	dish.CreatedAt = model.CreatedAt
	dish.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID retrieves a dish by its primary key.
func (r *dishGorm) FindByID(ctx context.Context, id uint) (*entity.Dish, error) {
	var model DishModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrDishNotFound
		}
		return nil, err
	}
	return model.ToEntity(), nil
}

// ListByOwner returns the owner's dishes, newest first.
func (r *dishGorm) ListByOwner(ctx context.Context, ownerID uint) ([]entity.Dish, error) {
	var models []DishModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&models).Error; err != nil {
		return nil, err
	}

	dishes := make([]entity.Dish, 0, len(models))
	for i := range models {
		dishes = append(dishes, *models[i].ToEntity())
	}
	return dishes, nil
}

// Update overwrites the mutable columns of the owner's dish.
func (r *dishGorm) Update(ctx context.Context, dish *entity.Dish) error {
	if dish.ID == 0 {
		return usecase.ErrDishNotFound
	}
	model := DishModelFromEntity(dish)
	model.UpdatedAt = time.Now()

	result := r.db.WithContext(ctx).
		Model(model).
		Where("owner_id = ?", dish.OwnerID).
		Select(updatableColumns).
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrDishNotFound
	}
	dish.UpdatedAt = model.UpdatedAt
	return nil
}

// Delete removes the owner's dish.
func (r *dishGorm) Delete(ctx context.Context, id, ownerID uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&DishModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrDishNotFound
	}
	return nil
}
