package usecase

import (
	"fmt"
	"strings"

	"nutriapp/internal/feature/dishes/domain/entity"
)

// Optional is a field of a partial update. Set reports whether the client sent it;
// a Set field with a nil Value clears the stored value.
type Optional[T any] struct {
	Set   bool
	Value *T
}

// Some returns a Set Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: &v}
}

// Null returns a Set Optional without a value.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

// NewDish is the input of Create. Nil pointers are fields the client did not send.
type NewDish struct {
	Name        *string
	Description *string
	PrepTime    *int
	CookTime    *int
	QuickPrep   *bool
	Calories    *int
	ImageURL    *string
	Steps       []string
}

// Validate checks that name, description, prepTime and cookTime are present and sane.
func (n NewDish) Validate() error {
	if isBlank(n.Name) {
		return fmt.Errorf("%w: name", ErrMissingFields)
	}
	if isBlank(n.Description) {
		return fmt.Errorf("%w: description", ErrMissingFields)
	}
	if n.PrepTime == nil || *n.PrepTime < 0 {
		return fmt.Errorf("%w: prepTime", ErrMissingFields)
	}
	if n.CookTime == nil || *n.CookTime < 0 {
		return fmt.Errorf("%w: cookTime", ErrMissingFields)
	}
	if n.Calories != nil && *n.Calories < 0 {
		return fmt.Errorf("%w: calories", ErrMissingFields)
	}
	return nil
}

// toEntity builds the dish to insert, applying defaults for absent optional fields.
func (n NewDish) toEntity(ownerID uint) *entity.Dish {
	d := &entity.Dish{
		OwnerID:     ownerID,
		Name:        strings.TrimSpace(*n.Name),
		Description: strings.TrimSpace(*n.Description),
		PrepTime:    *n.PrepTime,
		CookTime:    *n.CookTime,
		Calories:    n.Calories,
		ImageURL:    cleanURL(n.ImageURL),
		Steps:       cleanSteps(n.Steps),
	}
	if n.QuickPrep != nil {
		d.QuickPrep = *n.QuickPrep
	}
	return d
}

// DishPatch is the input of Update. Only fields that are set change.
type DishPatch struct {
	Name        *string
	Description *string
	PrepTime    *int
	CookTime    *int
	QuickPrep   *bool
	Calories    Optional[int]
	ImageURL    Optional[string]
	Steps       Optional[[]string]
}

// Validate rejects patches that would blank a required field or set a negative duration.
func (p DishPatch) Validate() error {
	if p.Name != nil && isBlank(p.Name) {
		return fmt.Errorf("%w: name", ErrMissingFields)
	}
	if p.Description != nil && isBlank(p.Description) {
		return fmt.Errorf("%w: description", ErrMissingFields)
	}
	if p.PrepTime != nil && *p.PrepTime < 0 {
		return fmt.Errorf("%w: prepTime", ErrMissingFields)
	}
	if p.CookTime != nil && *p.CookTime < 0 {
		return fmt.Errorf("%w: cookTime", ErrMissingFields)
	}
	if p.Calories.Value != nil && *p.Calories.Value < 0 {
		return fmt.Errorf("%w: calories", ErrMissingFields)
	}
	return nil
}

// Apply merges the patch into d.
func (p DishPatch) Apply(d *entity.Dish) {
	if p.Name != nil {
		d.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		d.Description = strings.TrimSpace(*p.Description)
	}
	if p.PrepTime != nil {
		d.PrepTime = *p.PrepTime
	}
	if p.CookTime != nil {
		d.CookTime = *p.CookTime
	}
	if p.QuickPrep != nil {
		d.QuickPrep = *p.QuickPrep
	}
	if p.Calories.Set {
		d.Calories = p.Calories.Value
	}
	if p.ImageURL.Set {
		d.ImageURL = cleanURL(p.ImageURL.Value)
	}
	if p.Steps.Set {
		var steps []string
		if p.Steps.Value != nil {
			steps = *p.Steps.Value
		}
		d.Steps = cleanSteps(steps)
	}
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

func cleanURL(s *string) *string {
	if isBlank(s) {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

// cleanSteps drops blank steps and never returns nil.
func cleanSteps(steps []string) []string {
	out := make([]string, 0, len(steps))
	for _, s := range steps {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
