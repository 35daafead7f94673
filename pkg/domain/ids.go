// Package domain holds the typed identifiers shared across modules. Each ID
// is a distinct uuid wrapper so the compiler rejects cross-entity mixups
// (passing a VisitorID where a VisitID is expected).
package domain

import (
	"github.com/google/uuid"

	dErrors "gatehouse/pkg/domain-errors"
)

type (
	// VisitID identifies one visit record (one pass through the lifecycle).
	VisitID uuid.UUID
	// VisitorID identifies a visitor identity record.
	VisitorID uuid.UUID
	// EmployeeID identifies a staff member who can host visits.
	EmployeeID uuid.UUID
	// UserID identifies an authenticated system account (reception/cso/admin).
	UserID uuid.UUID
)

func (id VisitID) String() string    { return uuid.UUID(id).String() }
func (id VisitorID) String() string  { return uuid.UUID(id).String() }
func (id EmployeeID) String() string { return uuid.UUID(id).String() }
func (id UserID) String() string     { return uuid.UUID(id).String() }

func (id VisitID) IsZero() bool    { return uuid.UUID(id) == uuid.Nil }
func (id VisitorID) IsZero() bool  { return uuid.UUID(id) == uuid.Nil }
func (id EmployeeID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }
func (id UserID) IsZero() bool     { return uuid.UUID(id) == uuid.Nil }

// The IDs marshal as canonical UUID strings.
func (id VisitID) MarshalText() ([]byte, error)    { return []byte(id.String()), nil }
func (id VisitorID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }
func (id EmployeeID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id UserID) MarshalText() ([]byte, error)     { return []byte(id.String()), nil }

func (id *VisitID) UnmarshalText(text []byte) error {
	parsed, err := ParseVisitID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *VisitorID) UnmarshalText(text []byte) error {
	parsed, err := ParseVisitorID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *EmployeeID) UnmarshalText(text []byte) error {
	parsed, err := ParseEmployeeID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *UserID) UnmarshalText(text []byte) error {
	parsed, err := ParseUserID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func NewVisitID() VisitID       { return VisitID(uuid.New()) }
func NewVisitorID() VisitorID   { return VisitorID(uuid.New()) }
func NewEmployeeID() EmployeeID { return EmployeeID(uuid.New()) }
func NewUserID() UserID         { return UserID(uuid.New()) }

// parseUUID enforces the shared invariant: IDs must be valid, non-empty,
// non-nil UUIDs. Parsing happens at trust boundaries (handlers, stores).
func parseUUID(raw, kind string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, dErrors.Newf(dErrors.CodeValidation, "%s id is required", kind)
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeValidation, "invalid %s id", kind)
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeValidation, "%s id must not be nil", kind)
	}
	return parsed, nil
}

func ParseVisitID(raw string) (VisitID, error) {
	parsed, err := parseUUID(raw, "visit")
	return VisitID(parsed), err
}

func ParseVisitorID(raw string) (VisitorID, error) {
	parsed, err := parseUUID(raw, "visitor")
	return VisitorID(parsed), err
}

func ParseEmployeeID(raw string) (EmployeeID, error) {
	parsed, err := parseUUID(raw, "employee")
	return EmployeeID(parsed), err
}

func ParseUserID(raw string) (UserID, error) {
	parsed, err := parseUUID(raw, "user")
	return UserID(parsed), err
}
