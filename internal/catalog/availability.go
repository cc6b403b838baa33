package catalog

import (
	"slices"

	"github.com/dom/account-store/internal/domain"
)

// Availability is the set of hero identifiers that appear in at least one
// active account's roster.
type Availability map[string]struct{}

// BuildAvailability unions the rosters of the active accounts given.
func BuildAvailability(accounts []*Account) Availability {
	av := make(Availability)
	for _, a := range accounts {
		if a == nil || a.Status != domain.AccountStatusActive {
			continue
		}
		for id := range a.counts {
			av[id] = struct{}{}
		}
	}
	return av
}

// AvailabilityFromIDs rebuilds a set from its serialized form.
func AvailabilityFromIDs(ids []string) Availability {
	av := make(Availability, len(ids))
	for _, id := range ids {
		av[id] = struct{}{}
	}
	return av
}

func (av Availability) Has(id string) bool {
	_, ok := av[id]
	return ok
}

// IDs returns the identifiers in sorted order.
func (av Availability) IDs() []string {
	ids := make([]string, 0, len(av))
	for id := range av {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
