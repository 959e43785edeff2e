package models

import "slices"

// Operator is an account allowed to issue control and trading commands.
// Meters lists the meters it may command; an empty list grants the
// whole fleet.
type Operator struct {
	ID           int      `json:"id"`
	Username     string   `json:"username"`
	PasswordHash string   `json:"-"`
	Meters       []string `json:"meters,omitempty"`
}

// CanOperate reports whether meterID is within the operator's scope.
func (o Operator) CanOperate(meterID string) bool {
	return len(o.Meters) == 0 || slices.Contains(o.Meters, meterID)
}
