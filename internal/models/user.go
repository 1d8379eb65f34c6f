package models

// User is the canonical directory record. Field-name variants coming back from
// the remote store are merged into these canonical fields at the ingestion
// boundary; everything downstream sees only this shape.
type User struct {
	ID            string       `json:"id"`
	Username      string       `json:"username"`
	FirstName     string       `json:"firstName"`
	LastName      string       `json:"lastName"`
	Email         string       `json:"email"`
	Phone         string       `json:"phone,omitempty"`
	Organizations []Membership `json:"organizations,omitempty"`
	Deleted       bool         `json:"deleted,omitempty"`
}

// DisplayName returns "First Last" with whatever parts are present.
func (u User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.LastName
	}
}
