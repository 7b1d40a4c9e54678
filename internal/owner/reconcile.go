// Package owner implements the unit/owner record form and the check of its
// address against the canonical street list.
package owner

import "github.com/vasiliy-maslov/ecommerce-console/internal/gateway"

// LoadState tracks the street list fetch.
type LoadState int

const (
	StreetsNotLoaded LoadState = iota
	StreetsLoading
	StreetsLoaded
	StreetsFailed
)

func (s LoadState) String() string {
	switch s {
	case StreetsNotLoaded:
		return "not_loaded"
	case StreetsLoading:
		return "loading"
	case StreetsLoaded:
		return "loaded"
	case StreetsFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Streets is the street list together with how its fetch went.
type Streets struct {
	State LoadState
	List  []gateway.Street
	Err   string
}

// Names lists the street names in backend order.
func (s Streets) Names() []string {
	names := make([]string, 0, len(s.List))
	for _, st := range s.List {
		names = append(names, st.Name)
	}
	return names
}

// Reconcile reports whether address is missing from the street list. ok is
// false when the check does not apply: a new record, an empty address, or a
// street list that is not loaded or is empty. The address itself is never
// changed.
func Reconcile(existing bool, address string, streets Streets) (notInList bool, ok bool) {
	if !existing || address == "" {
		return false, false
	}
	if streets.State != StreetsLoaded || len(streets.List) == 0 {
		return false, false
	}
	for _, st := range streets.List {
		if st.Name == address {
			return false, true
		}
	}
	return true, true
}
