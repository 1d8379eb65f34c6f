package directory

import (
	"strings"

	"github.com/aura-directory/console/internal/models"
)

// Visible returns the subset of users matching the filter. Pure and
// stateless: the result is derivable from (users, filter) alone, order is
// preserved, and reapplying the same filter to its own output changes
// nothing.
func Visible(users []models.User, filter models.FilterState) []models.User {
	if filter.Empty() {
		return users
	}
	term := strings.ToLower(strings.TrimSpace(filter.Text))
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		if matchesText(u, term) && matchesOrganization(u, filter.Organization) {
			out = append(out, u)
		}
	}
	return out
}

// matchesText checks the term against first name, last name, username, and
// e-mail, case-insensitively. Organization names are deliberately not
// inspected here; that is the organization predicate's job.
func matchesText(u models.User, term string) bool {
	if term == "" {
		return true
	}
	for _, field := range []string{u.FirstName, u.LastName, u.Username, u.Email} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func matchesOrganization(u models.User, org string) bool {
	if org == "" {
		return true
	}
	return u.HasOrganization(org)
}
