package models

// User is a row of the users table.
type User struct {
	Entity
	Username     string `db:"username"`
	PasswordHash string `db:"password_hash"`
	Email        string `db:"email"`
	CustomerID   int64  `db:"customer_id"`
}
