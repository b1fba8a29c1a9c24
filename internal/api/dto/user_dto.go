package dto

// CreateUserRequest payload for admin-created accounts. Password is
// optional; a temporary one is generated when absent.
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=2"`
	FullName string `json:"full_name" validate:"required,min=2"`
	Password string `json:"password" validate:"omitempty,password"`
	Role     string `json:"role" validate:"omitempty,min=1"`
	Status   string `json:"status" validate:"omitempty,oneof=active inactive"`
}

// UpdateUserRequest payload for PUT/PATCH. Absent fields stay untouched.
type UpdateUserRequest struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	Username *string `json:"username" validate:"omitempty,min=2"`
	FullName *string `json:"full_name" validate:"omitempty,min=2"`
	Password *string `json:"password" validate:"omitempty,password"`
	Role     *string `json:"role" validate:"omitempty,min=1"`
	Status   *string `json:"status" validate:"omitempty,oneof=active inactive"`
}
