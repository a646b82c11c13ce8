package domain

import "unique"

// InternedString is a canonical handle for a target name.
// Session maps key on it so repeated prerequisite names share one allocation.
type InternedString struct {
	h unique.Handle[string]
}

// NewInternedString interns s.
func NewInternedString(s string) InternedString {
	return InternedString{h: unique.Make(s)}
}

// String returns the target name. The zero value yields "".
func (is InternedString) String() string {
	var zero unique.Handle[string]
	if is.h == zero {
		return ""
	}
	return is.h.Value()
}

// MarshalText implements encoding.TextMarshaler so names render as plain strings in JSON logs.
func (is InternedString) MarshalText() ([]byte, error) {
	return []byte(is.String()), nil
}
