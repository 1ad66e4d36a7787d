// Package mapping guesses which columns of an arbitrary tabular dataset
// carry the spatial coordinates and the grade value. The heuristic is a
// case-insensitive substring scan over column names, in column order, with
// the dataset's first column as a silent fallback; callers get an explicit
// Matched flag so the fallback can be surfaced to the user instead of
// producing a quietly nonsensical mapping.
package mapping

import "strings"

// Role identifies one of the four semantic slots a mapping fills.
type Role string

// Roles, in display order.
const (
	RoleX     Role = "x"
	RoleY     Role = "y"
	RoleZ     Role = "z"
	RoleGrade Role = "grade"
)

// Roles lists all roles in display order.
var Roles = []Role{RoleX, RoleY, RoleZ, RoleGrade}

// roleKeywords drives the substring heuristic. The first column whose
// lowercased name contains any keyword wins.
var roleKeywords = map[Role][]string{
	RoleX:     {"x", "east"},
	RoleY:     {"y", "north"},
	RoleZ:     {"z", "elev"},
	RoleGrade: {"grade", "teneur", "au", "cu"},
}

// Suggestion is the outcome of guessing a single role.
type Suggestion struct {
	Column  string `json:"column"`
	Matched bool   `json:"matched"`
}

// Guess returns the first column whose lowercased name contains one of the
// role's keywords. When nothing matches it falls back to the first column
// and reports Matched=false.
func Guess(columns []string, role Role) (Suggestion, error) {
	if len(columns) == 0 {
		return Suggestion{}, ErrNoColumns
	}
	keywords, ok := roleKeywords[role]
	if !ok {
		return Suggestion{}, ErrUnknownRole
	}
	for _, col := range columns {
		lower := strings.ToLower(col)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				return Suggestion{Column: col, Matched: true}, nil
			}
		}
	}
	return Suggestion{Column: columns[0], Matched: false}, nil
}

// Suggest runs Guess for every role over the same column list.
func Suggest(columns []string) (map[Role]Suggestion, error) {
	out := make(map[Role]Suggestion, len(Roles))
	for _, role := range Roles {
		s, err := Guess(columns, role)
		if err != nil {
			return nil, err
		}
		out[role] = s
	}
	return out, nil
}

// Columns abstracts the dataset surface Validate needs.
type Columns interface {
	HasColumn(name string) bool
}

// Mapping binds each role to a concrete column of one dataset.
type Mapping struct {
	X     string `json:"x"`
	Y     string `json:"y"`
	Z     string `json:"z"`
	Grade string `json:"grade"`
}

// FromSuggestions collapses per-role suggestions into a Mapping.
func FromSuggestions(s map[Role]Suggestion) Mapping {
	return Mapping{
		X:     s[RoleX].Column,
		Y:     s[RoleY].Column,
		Z:     s[RoleZ].Column,
		Grade: s[RoleGrade].Column,
	}
}

// Column returns the column bound to role.
func (m Mapping) Column(role Role) string {
	switch role {
	case RoleX:
		return m.X
	case RoleY:
		return m.Y
	case RoleZ:
		return m.Z
	case RoleGrade:
		return m.Grade
	}
	return ""
}

// Validate checks the invariant that every role names an existing column.
func (m Mapping) Validate(ds Columns) error {
	for _, role := range Roles {
		col := m.Column(role)
		if col == "" {
			return ErrIncomplete
		}
		if !ds.HasColumn(col) {
			return ErrColumnMissing
		}
	}
	return nil
}
