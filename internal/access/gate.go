// Package access decides how a viewer may interact with a record form.
// Every function here is pure: callers pass the joined async inputs and get
// a Decision back, recomputed on each request.
package access

import (
	"fmt"
	"strings"

	"repairshop/common"
	"repairshop/internal/async"
)

// Editability is the closed set of edit rights
type Editability int

const (
	Denied Editability = iota
	Owner
	FullAccess
)

func (e Editability) String() string {
	switch e {
	case Denied:
		return "denied"
	case Owner:
		return "owner"
	case FullAccess:
		return "full"
	default:
		return fmt.Sprintf("Editability(%d)", int(e))
	}
}

func (e Editability) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// Permissions is the set of roles granted to the viewer.
type Permissions map[string]bool

// NewPermissions creates Permissions from role names
func NewPermissions(roles ...string) Permissions {
	p := make(Permissions, len(roles))
	for _, r := range roles {
		r = strings.TrimSpace(strings.ToLower(r))
		if r != "" {
			p[r] = true
		}
	}
	return p
}

// Has reports whether role was granted
func (p Permissions) Has(role string) bool {
	return p[role]
}

// IsManager reports whether the manager role was granted
func (p Permissions) IsManager() bool {
	return p.Has(common.RoleManager)
}

// Decision is the gate output. Status mirrors the async inputs: while any
// input is Loading the decision is Loading, never Denied.
type Decision struct {
	Status     async.State `json:"-"`
	Edit       Editability `json:"editability"`
	ShowActive bool        `json:"showActive"`
	Err        error       `json:"-"`
}

func (d Decision) Ready() bool {
	return d.Status == async.Resolved
}

func (d Decision) CanEdit() bool {
	return d.Ready() && d.Edit != Denied
}

// Customer gates a customer form. The active flag is visible to managers
// on existing records only.
func Customer(perms async.Result[Permissions], isNew bool) Decision {
	if d, ok := pending(perms.State, perms.Err); ok {
		return d
	}

	if perms.Value.IsManager() {
		return Decision{Status: async.Resolved, Edit: FullAccess, ShowActive: !isNew}
	}
	return Decision{Status: async.Resolved, Edit: Owner}
}

// Ticket gates a ticket form assigned to tech. New tickets are open to any
// authenticated viewer.
func Ticket(perms async.Result[Permissions], viewer async.Result[string], tech string, isNew bool) Decision {
	if d, ok := pending(perms.State, perms.Err); ok {
		return d
	}
	if d, ok := pending(viewer.State, viewer.Err); ok {
		return d
	}

	switch {
	case perms.Value.IsManager():
		return Decision{Status: async.Resolved, Edit: FullAccess}
	case isNew:
		return Decision{Status: async.Resolved, Edit: Owner}
	case viewer.Value != "" && strings.EqualFold(viewer.Value, tech):
		return Decision{Status: async.Resolved, Edit: Owner}
	default:
		return Decision{Status: async.Resolved, Edit: Denied}
	}
}

func pending(state async.State, err error) (Decision, bool) {
	switch state {
	case async.Loading:
		return Decision{Status: async.Loading}, true
	case async.Failed:
		return Decision{Status: async.Failed, Err: err}, true
	}
	return Decision{}, false
}
