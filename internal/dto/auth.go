package dto

import "time"

// RegisterRequest creates a login for an existing customer.
type RegisterRequest struct {
	Username   string `json:"username" binding:"required,min=3,max=50"`
	Password   string `json:"password" binding:"required,min=6,max=72"`
	Email      string `json:"email" binding:"required,email"`
	CustomerID int64  `json:"customerID" binding:"required,gt=0"`
}

// LoginRequest represents the credentials for a login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the response for a successful login.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	UserID     int64     `json:"userID"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	CustomerID int64     `json:"customerID"`
	CreatedAt  time.Time `json:"createdAt"`
}
