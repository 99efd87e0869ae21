package dto

// RegisterReq represents the request body for the /api/register endpoint.
// Every field is required.
type RegisterReq struct {
	FirstName   string `json:"firstName" binding:"required"`
	LastName    string `json:"lastName" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Nationality string `json:"nationality" binding:"required"`
	Phone       string `json:"phone" binding:"required"`
	Password    string `json:"password" binding:"required"`
}
