package models

import "time"

// User is a registered account. The ID is chosen by the user at signup and
// doubles as the primary key; phone and email are unique across accounts.
type User struct {
	ID           string     // login identifier, 6-20 characters
	Name         string     // display name, up to 18 characters
	PasswordHash string     // bcrypt hash
	Phone        string     // 11 digits, unique
	Email        string     // unique
	Role         Role       // instructor or requester
	RegisteredAt time.Time  // signup timestamp
	UpdatedAt    *time.Time // last self-service profile update, nil if never
	Disabled     bool       // disabled accounts cannot authenticate
}

// SignupRequest carries the signup form. Validation tags mirror the field
// constraints enforced at the storage layer.
type SignupRequest struct {
	ID       string `json:"user_id" validate:"required,min=6,max=20,alphanum"`
	Name     string `json:"user_name" validate:"required,max=18"`
	Password string `json:"user_password" validate:"required,min=6,max=20"`
	Phone    string `json:"user_phone" validate:"required,len=11,numeric"`
	Email    string `json:"user_email" validate:"required,email"`
	Role     string `json:"user_role" validate:"required,oneof=instructor requester"`
}

// UserUpdateRequest is a partial profile update: nil fields keep their
// previous values. A supplied password is re-hashed before storage.
type UserUpdateRequest struct {
	Name     *string `json:"user_name,omitempty" validate:"omitempty,max=18"`
	Password *string `json:"user_password,omitempty" validate:"omitempty,min=6,max=20"`
	Phone    *string `json:"user_phone,omitempty" validate:"omitempty,len=11,numeric"`
	Email    *string `json:"user_email,omitempty" validate:"omitempty,email"`
}
