package directory

import (
	"sort"

	"github.com/aura-directory/console/internal/models"
)

// OrganizationNames returns the distinct, non-empty organization names across
// all memberships of the given users, sorted ascending. The store recomputes
// this whenever its collection changes so the filter options track the latest
// fetch rather than startup state.
func OrganizationNames(users []models.User) []string {
	seen := make(map[string]struct{})
	for _, u := range users {
		for _, m := range u.Organizations {
			if m.Organization != "" {
				seen[m.Organization] = struct{}{}
			}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
