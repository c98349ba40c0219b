package domain

import (
	"github.com/google/uuid"

	dErrors "reqforge/pkg/domain-errors"
)

// Typed UUID identifiers. Distinct types prevent cross-assignment at compile
// time; Parse* constructors enforce validity at trust boundaries.

// ProjectID identifies a project whose requirements are analyzed together.
type ProjectID uuid.UUID

// EntityID identifies a domain entity.
type EntityID uuid.UUID

// ParseProjectID validates external input as a project identifier.
//
// Errors: CodeInvalidInput when the value is empty, malformed, or the nil
// UUID.
func ParseProjectID(s string) (ProjectID, error) {
	u, err := parseUUID(s, "project id")
	return ProjectID(u), err
}

// ParseEntityID validates external input as an entity identifier.
//
// Errors: CodeInvalidInput when the value is empty, malformed, or the nil
// UUID.
func ParseEntityID(s string) (EntityID, error) {
	u, err := parseUUID(s, "entity id")
	return EntityID(u), err
}

func (id ProjectID) String() string { return uuid.UUID(id).String() }

// IsNil reports whether the identifier is the zero UUID.
func (id ProjectID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

func (id EntityID) String() string { return uuid.UUID(id).String() }

// IsNil reports whether the identifier is the zero UUID.
func (id EntityID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

func parseUUID(s, what string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s cannot be empty", what)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s is not a valid UUID", what)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s cannot be the nil UUID", what)
	}
	return u, nil
}
