// Package directory is the in-memory state layer of the console: response
// normalization, organization index, filter engine, form controller, and the
// directory store that coordinates them over the remote gateway.
package directory

import (
	"encoding/json"

	"github.com/aura-directory/console/internal/models"
)

// userWire tolerates the two historical field-naming variants the backing
// store has shipped for names and e-mail. The canonical key wins when both
// are present; the merge happens here and nowhere else.
type userWire struct {
	ID            string           `json:"id"`
	Username      string           `json:"username"`
	FirstName     string           `json:"firstName"`
	FirstNameAlt  string           `json:"first_name"`
	LastName      string           `json:"lastName"`
	LastNameAlt   string           `json:"last_name"`
	Email         string           `json:"email"`
	Mail          string           `json:"mail"`
	Phone         string           `json:"phone"`
	Organizations []membershipWire `json:"organizations"`
	Deleted       bool             `json:"deleted"`
}

type membershipWire struct {
	Organization string     `json:"organization"`
	Roles        []roleWire `json:"roles"`
}

// roleWire accepts a role either as a bare name or as an object with a name.
type roleWire struct {
	Name string
}

func (r *roleWire) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		r.Name = s
		return nil
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	r.Name = obj.Name
	return nil
}

func (w userWire) canonical() models.User {
	u := models.User{
		ID:        w.ID,
		Username:  w.Username,
		FirstName: firstNonEmpty(w.FirstName, w.FirstNameAlt),
		LastName:  firstNonEmpty(w.LastName, w.LastNameAlt),
		Email:     firstNonEmpty(w.Email, w.Mail),
		Phone:     w.Phone,
		Deleted:   w.Deleted,
	}
	for _, m := range w.Organizations {
		roles := make([]string, 0, len(m.Roles))
		for _, r := range m.Roles {
			roles = append(roles, r.Name)
		}
		u.Organizations = append(u.Organizations, models.Membership{
			Organization: m.Organization,
			Roles:        roles,
		})
	}
	return u
}

// listEnvelope covers the two enveloped list shapes the store is known to
// return: a nested users sequence and a paginated content sequence.
type listEnvelope struct {
	Users   []userWire `json:"users"`
	Content []userWire `json:"content"`
}

// NormalizeList converts any recognized list-response shape into an ordered
// user sequence: an envelope with a "users" sequence, a bare sequence, or a
// paginated envelope with a "content" sequence. Any other shape yields an
// empty sequence; the response shape is not stable across deployments, so
// surprises must not break the console.
func NormalizeList(raw []byte) []models.User {
	var bare []userWire
	if err := json.Unmarshal(raw, &bare); err == nil {
		return canonicalize(bare)
	}

	var env listEnvelope
	if err := json.Unmarshal(raw, &env); err == nil {
		if env.Users != nil {
			return canonicalize(env.Users)
		}
		if env.Content != nil {
			return canonicalize(env.Content)
		}
	}
	return []models.User{}
}

// NormalizeOne unwraps a detail response: a bare record or a single-record
// envelope under "user" or "data". The second return is false when no record
// could be recognized.
func NormalizeOne(raw []byte) (models.User, bool) {
	var w userWire
	if err := json.Unmarshal(raw, &w); err == nil {
		if u := w.canonical(); u.ID != "" || u.Username != "" {
			return u, true
		}
	}
	var env struct {
		User *userWire `json:"user"`
		Data *userWire `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err == nil {
		if env.User != nil {
			return env.User.canonical(), true
		}
		if env.Data != nil {
			return env.Data.canonical(), true
		}
	}
	return models.User{}, false
}

func canonicalize(wires []userWire) []models.User {
	users := make([]models.User, 0, len(wires))
	for _, w := range wires {
		users = append(users, w.canonical())
	}
	return users
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
