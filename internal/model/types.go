package model

import (
	"time"

	"github.com/google/uuid"
)

// Client represents a customer account. A non-nil OTPCode means the account
// has not completed email verification yet.
type Client struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Bio          *string
	ProfileImage *string
	OTPCode      *string
	OTPExpires   *time.Time
	IsBlocked    bool
	CreatedAt    time.Time
}

// Verified reports whether the client has completed OTP verification.
func (c *Client) Verified() bool {
	return c.OTPCode == nil
}

// Admin represents an administrator account. Admins are provisioned
// out-of-band (cmd/createadmin), never self-registered. ResetOTP and
// ResetExpires are always set and cleared together.
type Admin struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	ResetOTP     *string
	ResetExpires *time.Time
	CreatedAt    time.Time
}

// Package represents a travel package in the catalog.
type Package struct {
	ID          uuid.UUID
	Title       string
	Location    string
	Price       float64
	Duration    string
	Rating      float64
	Image       string
	Type        string
	Description string
	Highlights  []string
	CreatedAt   time.Time
}

// Booking request statuses.
const (
	RequestPending   = "Pending"
	RequestApproved  = "Approved"
	RequestRejected  = "Rejected"
	RequestCancelled = "Cancelled"
)

// Payment statuses.
const (
	PaymentPending   = "Pending"
	PaymentCompleted = "Completed"
	PaymentFailed    = "Failed"
)

// Request represents a booking request placed by a client.
type Request struct {
	ID              uuid.UUID
	ClientID        uuid.UUID
	ClientName      string
	ClientEmail     string
	ClientPhone     string
	PackageName     string
	TravelDate      time.Time
	Guests          int
	SpecialRequests *string
	Status          string
	PaymentStatus   string
	TransactionID   string
	TotalAmount     float64
	CreatedAt       time.Time
}

// Contact message statuses.
const (
	ContactPending   = "Pending"
	ContactResponded = "Responded"
)

// Contact represents a message sent through the public contact form.
type Contact struct {
	ID           uuid.UUID
	Name         string
	Email        string
	Subject      string
	Message      string
	Status       string
	ResponseText *string
	RespondedAt  *time.Time
	CreatedAt    time.Time
}

// TeamMember represents a staff bio shown on the public site.
type TeamMember struct {
	ID        uuid.UUID
	Name      string
	Title     string
	Image     string
	CreatedAt time.Time
}

// Testimonial represents customer feedback shown on the public site.
type Testimonial struct {
	ID        uuid.UUID
	Name      string
	Feedback  string
	CreatedAt time.Time
}
