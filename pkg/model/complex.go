package model

import "time"

type SportComplex struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name         string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Address      string    `json:"address" bson:"address" validate:"required,min=2,max=200"`
	City         string    `json:"city" bson:"city" validate:"required,min=2,max=60"`
	Phone        string    `json:"phone" bson:"phone" validate:"required,e164"`
	Email        string    `json:"email" bson:"email" validate:"required,email"`
	OpeningTime  string    `json:"opening_time" bson:"opening_time" validate:"required"`
	ClosingTime  string    `json:"closing_time" bson:"closing_time" validate:"required"`
	PricePerHour float64   `json:"price_per_hour" bson:"price_per_hour" validate:"required,gt=0"`
	Description  string    `json:"description" bson:"description" validate:"required,max=2000"`
	Deleted      bool      `json:"-" bson:"deleted"`
	ManagerID    string    `json:"manager_id" bson:"manager_id" validate:"required,mongodb"`
	SportIDs     []string  `json:"sport_ids" bson:"sport_ids" validate:"omitempty,dive,mongodb"`
	Images       []string  `json:"images,omitempty" bson:"images,omitempty" validate:"omitempty,dive,url"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// OffersSport reports whether the complex lists the sport in its catalogue.
func (c *SportComplex) OffersSport(sportID string) bool {
	for _, id := range c.SportIDs {
		if id == sportID {
			return true
		}
	}
	return false
}

// SportComplexUpdate carries the owner-editable subset of complex fields.
type SportComplexUpdate struct {
	Phone        string   `json:"phone,omitempty" validate:"omitempty,e164"`
	Email        string   `json:"email,omitempty" validate:"omitempty,email"`
	OpeningTime  string   `json:"opening_time,omitempty" validate:"omitempty"`
	ClosingTime  string   `json:"closing_time,omitempty" validate:"omitempty"`
	PricePerHour *float64 `json:"price_per_hour,omitempty" validate:"omitempty,gt=0"`
	Description  string   `json:"description,omitempty" validate:"omitempty,max=2000"`
}

type Sport struct {
	ID   string `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name string `json:"name" bson:"name" validate:"required,min=2,max=60"`
}
