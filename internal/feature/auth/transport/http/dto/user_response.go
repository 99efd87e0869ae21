package dto

import "nutriapp/internal/feature/auth/domain/entity"

// UserRes is the public view of a user. The password hash is never included.
type UserRes struct {
	ID          uint   `json:"id"`
	Email       string `json:"email"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Nationality string `json:"nationality"`
	Phone       string `json:"phone"`
}

// UserEnvelope wraps a user as {"user": {...}}.
type UserEnvelope struct {
	User UserRes `json:"user"`
}

// SuccessRes is returned by operations that have nothing else to report.
type SuccessRes struct {
	Success bool `json:"success"`
}

// ErrorRes is the error body shared by every endpoint.
type ErrorRes struct {
	Error string `json:"error"`
}

// NewUserRes converts a user entity to its public response.
func NewUserRes(u *entity.User) UserRes {
	return UserRes{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Nationality: u.Nationality,
		Phone:       u.Phone,
	}
}
