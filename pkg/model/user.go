package model

// User is read-only reference data here. Registration and credential
// handling live outside this system.
type User struct {
	ID    string `json:"id,omitempty" bson:"_id,omitempty"`
	Name  string `json:"name" bson:"name"`
	Email string `json:"email" bson:"email"`
	Phone string `json:"phone,omitempty" bson:"phone,omitempty"`
	Role  string `json:"role" bson:"role"`
}
