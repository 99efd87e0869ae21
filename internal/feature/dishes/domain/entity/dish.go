// Package entity defines the domain model of the dishes feature.
package entity

import "time"

// Dish is a recipe-like record owned by exactly one user.
// PrepTime and CookTime are in minutes.
type Dish struct {
	ID          uint
	OwnerID     uint
	Name        string
	Description string
	PrepTime    int
	CookTime    int
	QuickPrep   bool
	Calories    *int
	ImageURL    *string
	Steps       []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OwnedBy reports whether the dish belongs to userID.
func (d *Dish) OwnedBy(userID uint) bool {
	return d.OwnerID != 0 && d.OwnerID == userID
}
