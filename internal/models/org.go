package models

import "time"

// OrgUnitKind selects which organizational list an entry belongs to.
type OrgUnitKind string

const (
	OrgGroup    OrgUnitKind = "group"
	OrgPosition OrgUnitKind = "position"
	OrgTeam     OrgUnitKind = "team"
)

// Valid reports whether the kind is a known organizational list.
func (k OrgUnitKind) Valid() bool {
	return k == OrgGroup || k == OrgPosition || k == OrgTeam
}

// OrgUnit is one entry in the groups/positions/teams settings lists.
type OrgUnit struct {
	ID        string      `db:"id" json:"id"`
	Kind      OrgUnitKind `db:"kind" json:"kind"`
	Name      string      `db:"name" json:"name"`
	SortOrder int         `db:"sort_order" json:"order"`
	CreatedAt time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time   `db:"updated_at" json:"updatedAt"`
}
