package domain

// Customer owns accounts. Customers are managed outside this service and
// only referenced by id.
type Customer struct {
	Entity
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	IdentityNumber string `json:"identityNumber"`
	Email          string `json:"email"`
	Phone          string `json:"phone,omitempty"`
}
