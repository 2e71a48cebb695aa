package domain

// User is a login identity bound to one customer.
type User struct {
	Entity
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Email        string `json:"email"`
	CustomerID   int64  `json:"customerID"`
}
