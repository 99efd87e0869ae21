// Package usecase implements the business logic for dish operations.
package usecase

import (
	"context"

	"nutriapp/internal/feature/dishes/domain/entity"
)

// DishRepository abstracts the persistence layer for dishes.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type DishRepository interface {
	// Create inserts the dish and fills in its ID and timestamps.
	Create(ctx context.Context, dish *entity.Dish) error

	// FindByID returns ErrDishNotFound when no dish has the id.
	FindByID(ctx context.Context, id uint) (*entity.Dish, error)

	// ListByOwner returns the owner's dishes, newest first.
	ListByOwner(ctx context.Context, ownerID uint) ([]entity.Dish, error)

	// Update overwrites the dish identified by dish.ID and dish.OwnerID.
	// It returns ErrDishNotFound when no such row exists.
	Update(ctx context.Context, dish *entity.Dish) error

	// Delete removes the dish with id owned by ownerID.
	// It returns ErrDishNotFound when no such row exists.
	Delete(ctx context.Context, id, ownerID uint) error
}

// DishUsecase applies ownership and validation rules on top of a DishRepository.
type DishUsecase struct {
	repo DishRepository
}

// NewDishUsecase creates a new DishUsecase with the given repository.
func NewDishUsecase(r DishRepository) *DishUsecase {
	return &DishUsecase{repo: r}
}

// List returns the caller's dishes. The result is never nil.
func (u *DishUsecase) List(ctx context.Context, ownerID uint) ([]entity.Dish, error) {
	dishes, err := u.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if dishes == nil {
		dishes = []entity.Dish{}
	}
	return dishes, nil
}

// Create validates the input and stores a new dish owned by ownerID.
func (u *DishUsecase) Create(ctx context.Context, ownerID uint, in NewDish) (*entity.Dish, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	dish := in.toEntity(ownerID)
	if err := u.repo.Create(ctx, dish); err != nil {
		return nil, err
	}
	return dish, nil
}

// Get returns the dish if it exists and belongs to ownerID.
// Dishes of other users are reported as ErrDishNotFound.
func (u *DishUsecase) Get(ctx context.Context, ownerID, id uint) (*entity.Dish, error) {
	dish, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !dish.OwnedBy(ownerID) {
		return nil, ErrDishNotFound
	}
	return dish, nil
}

// Update merges the patch into the caller's dish and returns the result.
func (u *DishUsecase) Update(ctx context.Context, ownerID, id uint, patch DishPatch) (*entity.Dish, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	dish, err := u.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(dish)
	if dish.Steps == nil {
		dish.Steps = []string{}
	}
	if err := u.repo.Update(ctx, dish); err != nil {
		return nil, err
	}
	return dish, nil
}

// Delete removes the caller's dish. Deleting twice yields ErrDishNotFound.
func (u *DishUsecase) Delete(ctx context.Context, ownerID, id uint) error {
	return u.repo.Delete(ctx, id, ownerID)
}
