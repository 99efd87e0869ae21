package adapters

import (
	"time"

	"nutriapp/internal/feature/dishes/domain/entity"
)

// DishModel is the GORM model for the dishes table.
type DishModel struct {
	ID          uint      `gorm:"primaryKey"`
	OwnerID     uint      `gorm:"index;not null"`
	Name        string    `gorm:"size:255;not null"`
	Description string    `gorm:"type:text;not null"`
	PrepTime    int       `gorm:"not null"`
	CookTime    int       `gorm:"not null"`
	QuickPrep   bool      `gorm:"not null"`
	Calories    *int      `gorm:"column:calories"`
	ImageURL    *string   `gorm:"size:2048"`
	Steps       []string  `gorm:"serializer:json;type:text"`
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time
}

// TableName returns the table name for GORM.
func (DishModel) TableName() string {
	return "dishes"
}

// ToEntity converts the GORM model to a domain entity.
func (m *DishModel) ToEntity() *entity.Dish {
	steps := m.Steps
	if steps == nil {
		steps = []string{}
	}
	return &entity.Dish{
		ID:          m.ID,
		OwnerID:     m.OwnerID,
		Name:        m.Name,
		Description: m.Description,
		PrepTime:    m.PrepTime,
		CookTime:    m.CookTime,
		QuickPrep:   m.QuickPrep,
		Calories:    m.Calories,
		ImageURL:    m.ImageURL,
		Steps:       steps,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// DishModelFromEntity converts a domain entity to a GORM model.
func DishModelFromEntity(d *entity.Dish) *DishModel {
	return &DishModel{
		ID:          d.ID,
		OwnerID:     d.OwnerID,
		Name:        d.Name,
		Description: d.Description,
		PrepTime:    d.PrepTime,
		CookTime:    d.CookTime,
		QuickPrep:   d.QuickPrep,
		Calories:    d.Calories,
		ImageURL:    d.ImageURL,
		Steps:       d.Steps,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
