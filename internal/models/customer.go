package models

// Customer is a row of the customers table.
type Customer struct {
	Entity
	FirstName      string  `db:"first_name"`
	LastName       string  `db:"last_name"`
	IdentityNumber string  `db:"identity_number"`
	Email          string  `db:"email"`
	Phone          *string `db:"phone"` // Nullable
}
