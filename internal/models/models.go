package models

import "time"

// AccessStatus is the account state gating login and per-operation permissions.
type AccessStatus string

const (
	StatusStaged    AccessStatus = "staged"
	StatusActive    AccessStatus = "active"
	StatusAdmin     AccessStatus = "admin"
	StatusDev       AccessStatus = "dev"
	StatusSuspended AccessStatus = "suspended"
	StatusLockedOut AccessStatus = "locked_out"
)

// Ref is an id-only handle to an associated record. The store resolves it
// only when the associated record is actually read.
type Ref struct {
	ID int64
}

// PlatformUser is a registered account. Password holds the bcrypt hash and
// is never serialized; ConfirmationToken is set while the account is staged
// and cleared on email confirmation.
type PlatformUser struct {
	ID                int64
	CreatedDate       time.Time
	FirstName         string
	LastName          string
	DateOfBirth       time.Time
	Email             string
	Password          string
	PhoneNumber       string
	AccessStatus      AccessStatus
	ConfirmationToken string
}

// Driver shares its id with the owning platform user.
type Driver struct {
	ID            int64
	LicenseNumber string
	PlatformUser  Ref
}

// Passenger shares its id with the owning platform user.
type Passenger struct {
	ID           int64
	PlatformUser Ref
}

// Journey is an offered ride.
type Journey struct {
	ID            int64
	CreatedDate   time.Time
	LocationFrom  Ref
	LocationTo    Ref
	MaxPassengers int
	DateTime      time.Time
	Driver        Ref
}

// Location is static reference data seeded by migration.
type Location struct {
	ID        int64
	Name      string
	Latitude  float64
	Longitude float64
}

// DriverDocument is an uploaded licence document stored in S3.
type DriverDocument struct {
	ID          string
	Driver      Ref
	S3URL       string
	ContentType string
	CreatedDate time.Time
}
