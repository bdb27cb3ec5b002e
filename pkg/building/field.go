package building

import (
	"fmt"
	"strings"
)

// Field names an editable attribute.
type Field string

const (
	FieldWidth       Field = "width"
	FieldDepth       Field = "depth"
	FieldAngle       Field = "angle"
	FieldRetail      Field = Field(Retail)
	FieldOffice      Field = Field(Office)
	FieldResidential Field = Field(Residential)
)

// ParseField maps a field name from the UI layer onto a Field.
// "heading" is accepted as an alias of angle.
func ParseField(s string) (Field, error) {
	switch f := Field(strings.ToLower(strings.TrimSpace(s))); f {
	case FieldWidth, FieldDepth, FieldAngle, FieldRetail, FieldOffice, FieldResidential:
		return f, nil
	case "heading":
		return FieldAngle, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
	}
}

// UseType returns the use-type of a story field, or "" for dimension fields.
func (f Field) UseType() UseType {
	if u := UseType(f); u.Valid() {
		return u
	}
	return ""
}

// IsStory reports whether f edits a story count.
func (f Field) IsStory() bool {
	return f.UseType() != ""
}
