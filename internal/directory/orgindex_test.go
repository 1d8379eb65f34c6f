package directory

import (
	"reflect"
	"testing"

	"github.com/aura-directory/console/internal/models"
)

func TestOrganizationNames(t *testing.T) {
	tests := []struct {
		name  string
		users []models.User
		want  []string
	}{
		{
			name:  "empty collection",
			users: nil,
			want:  []string{},
		},
		{
			name:  "no memberships",
			users: []models.User{{ID: "a"}, {ID: "b"}},
			want:  []string{},
		},
		{
			name: "sorted and deduplicated",
			users: []models.User{
				{Organizations: []models.Membership{
					{Organization: "Globex"},
					{Organization: "Acme", Roles: []string{"ADMIN"}},
				}},
				{Organizations: []models.Membership{
					{Organization: "Acme"},
					{Organization: "Initech"},
				}},
			},
			want: []string{"Acme", "Globex", "Initech"},
		},
		{
			name: "empty names excluded",
			users: []models.User{
				{Organizations: []models.Membership{
					{Organization: ""},
					{Organization: "Acme"},
				}},
			},
			want: []string{"Acme"},
		},
		{
			name: "roleless memberships still counted",
			users: []models.User{
				{Organizations: []models.Membership{{Organization: "Acme", Roles: []string{}}}},
			},
			want: []string{"Acme"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OrganizationNames(tt.users)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("OrganizationNames() = %v, want %v", got, tt.want)
			}
		})
	}
}
