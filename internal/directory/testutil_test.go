package directory

import (
	"context"
	"errors"

	"github.com/aura-directory/console/internal/models"
)

// fakeGateway records calls and serves canned responses for store and form
// tests.
type fakeGateway struct {
	listBody  []byte
	listErr   error
	listCalls int

	getBody  []byte
	getErr   error
	getCalls int

	created   []models.User
	createErr error

	updated   []models.User
	updateErr error

	deleted   []string
	deleteErr error
}

func (g *fakeGateway) List(ctx context.Context, params map[string]string) ([]byte, error) {
	g.listCalls++
	if g.listErr != nil {
		return nil, g.listErr
	}
	return g.listBody, nil
}

func (g *fakeGateway) GetByID(ctx context.Context, id string) ([]byte, error) {
	g.getCalls++
	if g.getErr != nil {
		return nil, g.getErr
	}
	return g.getBody, nil
}

func (g *fakeGateway) Create(ctx context.Context, draft models.User) (models.User, error) {
	if g.createErr != nil {
		return models.User{}, g.createErr
	}
	g.created = append(g.created, draft)
	draft.ID = "created-id"
	return draft, nil
}

func (g *fakeGateway) Update(ctx context.Context, user models.User) (models.User, error) {
	if g.updateErr != nil {
		return models.User{}, g.updateErr
	}
	g.updated = append(g.updated, user)
	return user, nil
}

func (g *fakeGateway) Delete(ctx context.Context, id string) error {
	if g.deleteErr != nil {
		return g.deleteErr
	}
	g.deleted = append(g.deleted, id)
	return nil
}

var errGatewayDown = errors.New("connection refused")

func sampleUsers() []models.User {
	return []models.User{
		{
			ID: "a", Username: "astrid", FirstName: "Astrid", LastName: "Nilsen",
			Email: "astrid@example.com",
			Organizations: []models.Membership{
				{Organization: "Acme", Roles: []string{"ADMIN"}},
			},
		},
		{
			ID: "b", Username: "bjorn", FirstName: "Bjørn", LastName: "Hansen",
			Email: "bjorn@example.com",
			Organizations: []models.Membership{
				{Organization: "Acme", Roles: []string{}},
			},
		},
		{
			ID: "c", Username: "carla", FirstName: "Carla", LastName: "Mendes",
			Email: "carla@example.com",
		},
	}
}
