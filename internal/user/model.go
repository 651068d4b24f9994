// Package user registers accounts, checks credentials and issues bearer tokens.
package user

import (
	"github.com/kbukum/lyrebird/database"
)

// User is a row in users.
type User struct {
	database.BaseModel
	Email          string `gorm:"uniqueIndex;not null" json:"email"`
	HashedPassword string `gorm:"not null" json:"-"`
}

func (User) TableName() string { return "users" }

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email,max=254"`
	Password string `json:"password" form:"password" validate:"required,min=8,max=72"`
}

// LoginRequest carries OAuth2 password-form credentials; username is the email.
type LoginRequest struct {
	Username string `form:"username" json:"username" validate:"required"`
	Password string `form:"password" json:"password" validate:"required"`
}

// Response is the public view of a user.
type Response struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// ToResponse strips the password hash.
func (u *User) ToResponse() Response {
	return Response{ID: u.ID.String(), Email: u.Email}
}

// Token is the login response.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}
