package model

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Notification status names persisted in the statuses table.
const (
	StatusPending = "pending"
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// User represents a registered user, keyed by email.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Nickname  string    `json:"nickname"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SharedCopy represents a shareable artifact owned by a user.
//
// Token is the opaque identifier embedded in the download link of the
// notification email.
type SharedCopy struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Notification represents one logical delivery obligation for a shared copy,
// not one physical send attempt. The scheduler mutates it in place as
// attempts are made.
type Notification struct {
	ID          uuid.UUID    `json:"id"`
	CopyID      uuid.UUID    `json:"copy_id"`
	StatusID    int          `json:"status_id"`
	SentAt      sql.NullTime `json:"sent_at"`
	Attempts    int          `json:"attempts"`
	MaxAttempts int          `json:"max_attempts"`
}

// Status is an enumeration row referenced, never owned, by notifications.
type Status struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Registration is the inbound queue message produced by the registration
// endpoint and consumed by the ingestion consumer.
type Registration struct {
	FullName      string `json:"full_name"`
	Email         string `json:"email"`
	AcceptLicense bool   `json:"accept_license"`
	AcceptAge     bool   `json:"accept_age"`
	Timestamp     string `json:"timestamp"`
}

// Delivery is the scheduler's view of a notification joined with its owning
// shared copy and user, fetched fresh at the start of every delivery task.
type Delivery struct {
	NotificationID uuid.UUID `json:"notification_id"`
	Status         string    `json:"status"`
	Attempts       int       `json:"attempts"`
	MaxAttempts    int       `json:"max_attempts"`
	Email          string    `json:"email"`
	Token          string    `json:"token"`
}
