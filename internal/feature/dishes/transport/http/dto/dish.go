// Package dto defines data transfer objects for the dishes HTTP API.
package dto

import (
	"time"

	"nutriapp/internal/feature/dishes/domain/entity"
	"nutriapp/internal/feature/dishes/usecase"
)

// DishReq is the body of POST /api/dishes and PUT /api/dishes/:id.
// Every field records its presence so updates only touch what was sent.
type DishReq struct {
	Name        Field[string]   `json:"name"`
	Description Field[string]   `json:"description"`
	PrepTime    NullableInt     `json:"prepTime"`
	CookTime    NullableInt     `json:"cookTime"`
	QuickPrep   Field[bool]     `json:"quickPrep"`
	Calories    NullableInt     `json:"calories"`
	ImageURL    Field[string]   `json:"imageUrl"`
	Steps       Field[[]string] `json:"steps"`
}

// ToNewDish maps the request to the create input.
func (r DishReq) ToNewDish() usecase.NewDish {
	return usecase.NewDish{
		Name:        r.Name.Ptr(),
		Description: r.Description.Ptr(),
		PrepTime:    r.PrepTime.Ptr(),
		CookTime:    r.CookTime.Ptr(),
		QuickPrep:   r.QuickPrep.Ptr(),
		Calories:    r.Calories.Ptr(),
		ImageURL:    r.ImageURL.Ptr(),
		Steps:       r.Steps.Value,
	}
}

// ToPatch maps the request to the update input.
// A required field sent as null or blank is kept as a blank value so validation rejects it.
func (r DishReq) ToPatch() usecase.DishPatch {
	p := usecase.DishPatch{
		Name:        presentString(r.Name),
		Description: presentString(r.Description),
	}
	if r.PrepTime.Set {
		p.PrepTime = r.PrepTime.Ptr()
		if p.PrepTime == nil {
			p.PrepTime = invalidDuration()
		}
	}
	if r.CookTime.Set {
		p.CookTime = r.CookTime.Ptr()
		if p.CookTime == nil {
			p.CookTime = invalidDuration()
		}
	}
	if r.QuickPrep.Set {
		v := !r.QuickPrep.Null && r.QuickPrep.Value
		p.QuickPrep = &v
	}
	if r.Calories.Set {
		p.Calories = usecase.Optional[int]{Set: true, Value: r.Calories.Ptr()}
	}
	if r.ImageURL.Set {
		p.ImageURL = usecase.Optional[string]{Set: true, Value: r.ImageURL.Ptr()}
	}
	if r.Steps.Set {
		p.Steps = usecase.Optional[[]string]{Set: true, Value: r.Steps.Ptr()}
	}
	return p
}

func presentString(f Field[string]) *string {
	if !f.Set {
		return nil
	}
	v := f.Value
	return &v
}

// invalidDuration stands in for a cleared prepTime or cookTime.
func invalidDuration() *int {
	v := -1
	return &v
}

// DishRes is the public representation of a dish.
type DishRes struct {
	ID          uint      `json:"id"`
	OwnerID     uint      `json:"ownerId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PrepTime    int       `json:"prepTime"`
	CookTime    int       `json:"cookTime"`
	QuickPrep   bool      `json:"quickPrep"`
	Calories    *int      `json:"calories"`
	ImageURL    *string   `json:"imageUrl"`
	Steps       []string  `json:"steps"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// DishEnvelope wraps a dish as {"dish": {...}}.
type DishEnvelope struct {
	Dish DishRes `json:"dish"`
}

// DishListEnvelope wraps a list as {"dishes": [...]}.
type DishListEnvelope struct {
	Dishes []DishRes `json:"dishes"`
}

// SuccessRes is returned by DELETE.
type SuccessRes struct {
	Success bool `json:"success"`
}

// ErrorRes is the error body.
type ErrorRes struct {
	Error string `json:"error"`
}

// NewDishRes converts a dish entity to its response.
func NewDishRes(d *entity.Dish) DishRes {
	steps := d.Steps
	if steps == nil {
		steps = []string{}
	}
	return DishRes{
		ID:          d.ID,
		OwnerID:     d.OwnerID,
		Name:        d.Name,
		Description: d.Description,
		PrepTime:    d.PrepTime,
		CookTime:    d.CookTime,
		QuickPrep:   d.QuickPrep,
		Calories:    d.Calories,
		ImageURL:    d.ImageURL,
		Steps:       steps,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// NewDishListRes converts dishes to the list response. The slice is never nil.
func NewDishListRes(dishes []entity.Dish) DishListEnvelope {
	out := make([]DishRes, 0, len(dishes))
	for i := range dishes {
		out = append(out, NewDishRes(&dishes[i]))
	}
	return DishListEnvelope{Dishes: out}
}
