package domain

import (
	"errors"
	"strings"
)

// Role es uno de los 5 símbolos fijos del lobby.
type Role string

const (
	RoleTank     Role = "T"
	RoleAssassin Role = "A"
	RoleBruiser  Role = "B"
	RoleHealer   Role = "H"
	RoleFlex     Role = "F"
)

var ErrInvalidRole = errors.New("invalid role")

// Roles en el orden en que se muestran los botones.
var Roles = []Role{RoleTank, RoleAssassin, RoleBruiser, RoleHealer, RoleFlex}

var roleNames = map[Role]string{
	RoleTank:     "Tank",
	RoleAssassin: "Assassin",
	RoleBruiser:  "Bruiser",
	RoleHealer:   "Healer",
	RoleFlex:     "Flex",
}

var roleEmoji = map[Role]string{
	RoleTank:     "🛡️",
	RoleAssassin: "⚔️",
	RoleBruiser:  "🪓",
	RoleHealer:   "💚",
	RoleFlex:     "🔄",
}

func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

func (r Role) Name() string { return roleNames[r] }

func (r Role) Emoji() string { return roleEmoji[r] }

// Label: "🛡️ Tank"
func (r Role) Label() string {
	if !r.Valid() {
		return string(r)
	}
	return roleEmoji[r] + " " + roleNames[r]
}

// ParseRole acepta el símbolo exacto ("T") o el nombre ("tank", "Tank").
func ParseRole(s string) (Role, error) {
	s = strings.TrimSpace(s)
	if r := Role(s); r.Valid() {
		return r, nil
	}
	for r, name := range roleNames {
		if strings.EqualFold(name, s) {
			return r, nil
		}
	}
	return "", ErrInvalidRole
}

// IsRoleSymbol: true sólo para el símbolo exacto, sin tolerar nombres ni minúsculas.
func IsRoleSymbol(id string) bool {
	return Role(id).Valid()
}

type Player struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
	Active   bool   `json:"active"`
}

// Presence modela los tres estados de un usuario respecto del lobby.
type Presence int

const (
	Absent Presence = iota
	Inactive
	Active
)

func (p Presence) String() string {
	switch p {
	case Inactive:
		return "inactive"
	case Active:
		return "active"
	default:
		return "absent"
	}
}

func PresenceOf(p Player, ok bool) Presence {
	switch {
	case !ok:
		return Absent
	case p.Active:
		return Active
	default:
		return Inactive
	}
}
