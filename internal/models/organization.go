package models

// Membership links a user to an organization with an ordered list of role
// names. A membership with no roles is meaningful and must stay distinct from
// one that has roles.
type Membership struct {
	Organization string   `json:"organization"`
	Roles        []string `json:"roles"`
}

// HasOrganization reports whether the user belongs to the named organization.
func (u User) HasOrganization(name string) bool {
	for _, m := range u.Organizations {
		if m.Organization == name {
			return true
		}
	}
	return false
}
