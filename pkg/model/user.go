package model

const (
	RoleUser    = "user"
	RoleAdmin   = "admin"
	RoleSystem  = "system"
	RolePayment = "payment"
)

// User is the contact record the notification channels read.
type User struct {
	ID       string `json:"id" bson:"_id,omitempty"`
	FullName string `json:"full_name" bson:"full_name"`
	Email    string `json:"email" bson:"email"`
	Phone    string `json:"phone,omitempty" bson:"phone,omitempty"`
}

// Actor is the verified identity performing an operation.
type Actor struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

var (
	SystemActor  = Actor{UserID: "system", Role: RoleSystem}
	PaymentActor = Actor{UserID: "payment-provider", Role: RolePayment}
)
