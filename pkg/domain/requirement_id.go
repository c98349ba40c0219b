package domain

import (
	"fmt"
	"strconv"
	"strings"

	dErrors "reqforge/pkg/domain-errors"
)

// RequirementID identifies a requirement in its canonical textual form
// PREFIX-NNNN or PREFIX-NNNN.version (number zero-padded to four digits).
//
// Invariants: Prefix is non-blank, Number is positive, and Version, when
// present, is non-blank. Values round-trip through ParseRequirementID and
// FullIdentifier.
//
// Ordering is lexicographic by prefix, then numeric by number. Version is
// deliberately not part of the order.
type RequirementID struct {
	Prefix  string `json:"prefix"`
	Number  int    `json:"number"`
	Version string `json:"version,omitempty"`
}

// NewRequirementID constructs a RequirementID.
//
// Errors: CodeValidation when the prefix is blank or contains a separator
// character ('-' or '.'), the number is not positive, or an explicitly
// provided version is blank or contains a separator. The separator check
// keeps every constructed identifier parseable back from its canonical form.
func NewRequirementID(prefix string, number int, version string) (RequirementID, error) {
	if strings.TrimSpace(prefix) == "" {
		return RequirementID{}, dErrors.New(dErrors.CodeValidation, "requirement id prefix cannot be blank")
	}
	if strings.ContainsAny(prefix, "-.") {
		return RequirementID{}, dErrors.Newf(dErrors.CodeValidation,
			"requirement id prefix cannot contain '-' or '.', got %q", prefix)
	}
	if number <= 0 {
		return RequirementID{}, dErrors.Newf(dErrors.CodeValidation,
			"requirement id number must be positive, got %d", number)
	}
	if version != "" && strings.TrimSpace(version) == "" {
		return RequirementID{}, dErrors.New(dErrors.CodeValidation, "requirement id version cannot be blank")
	}
	if strings.ContainsAny(version, "-.") {
		return RequirementID{}, dErrors.Newf(dErrors.CodeValidation,
			"requirement id version cannot contain '-' or '.', got %q", version)
	}
	return RequirementID{Prefix: prefix, Number: number, Version: version}, nil
}

// ParseRequirementID parses the canonical form PREFIX-NNNN or
// PREFIX-NNNN.VERSION.
//
// Errors: CodeValidation when the separator is missing, the value contains
// more than one '-'-delimited segment after the prefix, or the number
// segment is not an integer.
func ParseRequirementID(s string) (RequirementID, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return RequirementID{}, dErrors.Newf(dErrors.CodeValidation,
			"requirement id must be PREFIX-NUMBER or PREFIX-NUMBER.VERSION, got %q", s)
	}
	prefix, numberPart := parts[0], parts[1]

	version := ""
	if dot := strings.Index(numberPart, "."); dot >= 0 {
		version = numberPart[dot+1:]
		numberPart = numberPart[:dot]
		if version == "" {
			return RequirementID{}, dErrors.Newf(dErrors.CodeValidation,
				"requirement id version segment cannot be empty: %q", s)
		}
	}

	number, err := strconv.Atoi(numberPart)
	if err != nil {
		return RequirementID{}, dErrors.Newf(dErrors.CodeValidation,
			"requirement id number segment is not an integer: %q", numberPart)
	}
	return NewRequirementID(prefix, number, version)
}

// FullIdentifier renders the canonical textual form.
func (id RequirementID) FullIdentifier() string {
	s := fmt.Sprintf("%s-%04d", id.Prefix, id.Number)
	if id.Version != "" {
		s += "." + id.Version
	}
	return s
}

// String returns the canonical textual form.
func (id RequirementID) String() string {
	return id.FullIdentifier()
}

// Increment returns a new identifier with the number advanced by one; prefix
// and version are carried over unchanged.
func (id RequirementID) Increment() RequirementID {
	return RequirementID{Prefix: id.Prefix, Number: id.Number + 1, Version: id.Version}
}

// Compare orders identifiers by prefix, then number. It returns a negative
// value when id sorts before other, zero when equal, positive otherwise.
// Suitable for slices.SortFunc.
func (id RequirementID) Compare(other RequirementID) int {
	if c := strings.Compare(id.Prefix, other.Prefix); c != 0 {
		return c
	}
	switch {
	case id.Number < other.Number:
		return -1
	case id.Number > other.Number:
		return 1
	default:
		return 0
	}
}

// Less reports whether id sorts before other.
func (id RequirementID) Less(other RequirementID) bool {
	return id.Compare(other) < 0
}
