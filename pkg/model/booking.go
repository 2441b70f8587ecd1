package model

import (
	"time"
)

// Approval workflow states. Once a booking leaves Pending it is terminal.
const (
	ApprovalPending  = "Pending"
	ApprovalApproved = "Approved"
	ApprovalRejected = "Rejected"
)

// Lifecycle states mirroring the approval transitions.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

const (
	RoleUser    = "user"
	RoleManager = "manager"
)

type Booking struct {
	ID             string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	UserID         string    `json:"user_id" bson:"user_id" validate:"required,mongodb"`
	ComplexID      string    `json:"complex_id" bson:"complex_id" validate:"required,mongodb"`
	SportID        string    `json:"sport_id" bson:"sport_id" validate:"required,mongodb"`
	ManagerID      string    `json:"manager_id" bson:"manager_id" validate:"omitempty,mongodb"`
	StartTime      time.Time `json:"start_time" bson:"start_time" validate:"required"`
	EndTime        time.Time `json:"end_time" bson:"end_time" validate:"required,gtfield=StartTime"`
	BookingType    string    `json:"booking_type" bson:"booking_type" validate:"omitempty,oneof=hourly daily tournament"`
	ApprovalStatus string    `json:"approval_status" bson:"approval_status" validate:"required,oneof=Pending Approved Rejected"`
	Status         string    `json:"status" bson:"status" validate:"required,oneof=pending completed cancelled"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt      time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// BookingRequest is the transport payload for creating a booking. The
// requester identity comes from the authenticated caller, never the body.
type BookingRequest struct {
	ComplexID   string    `json:"complex_id" validate:"required,mongodb"`
	SportID     string    `json:"sport_id" validate:"required,mongodb"`
	StartTime   time.Time `json:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
	BookingType string    `json:"booking_type" validate:"omitempty,oneof=hourly daily tournament"`
}

// Decided reports whether the booking reached a terminal approval state.
func (b *Booking) Decided() bool {
	return b.ApprovalStatus == ApprovalApproved || b.ApprovalStatus == ApprovalRejected
}

// Overlaps reports whether the half-open interval [b.StartTime, b.EndTime)
// intersects [start, end). Touching boundaries do not overlap.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartTime.Before(end) && b.EndTime.After(start)
}

// RequesterBookingView enriches a booking with display names for the
// requester-facing history listing.
type RequesterBookingView struct {
	Booking     `json:",inline" bson:",inline"`
	ComplexName string `json:"complex_name" bson:"complex_name,omitempty"`
	SportName   string `json:"sport_name" bson:"sport_name,omitempty"`
}

// ManagerBookingView is the manager-facing view, additionally carrying the
// requester's contact details.
type ManagerBookingView struct {
	Booking        `json:",inline" bson:",inline"`
	RequesterName  string `json:"requester_name" bson:"requester_name,omitempty"`
	RequesterEmail string `json:"requester_email" bson:"requester_email,omitempty"`
	ComplexName    string `json:"complex_name" bson:"complex_name,omitempty"`
	SportName      string `json:"sport_name" bson:"sport_name,omitempty"`
}
