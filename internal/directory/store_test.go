package directory

import (
	"context"
	"encoding/json"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/aura-directory/console/internal/gateway"
	"github.com/aura-directory/console/internal/models"
)

func listBody(t *testing.T, users []models.User) []byte {
	t.Helper()
	raw, err := json.Marshal(map[string]any{"users": users})
	if err != nil {
		t.Fatal(err)
	}
	return raw
}

func newLoadedStore(t *testing.T, gw *fakeGateway) *Store {
	t.Helper()
	s := NewStore(gw, zap.NewNop())
	if err := s.Refresh(context.Background(), nil); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	return s
}

func TestRefreshReplacesCollection(t *testing.T) {
	gw := &fakeGateway{listBody: listBody(t, sampleUsers())}
	s := newLoadedStore(t, gw)

	if got := ids(s.Users()); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("Users() = %v", got)
	}
	if s.Phase() != PhaseLoaded {
		t.Errorf("phase = %v, want loaded", s.Phase())
	}
	if got := s.Organizations(); !reflect.DeepEqual(got, []string{"Acme"}) {
		t.Errorf("Organizations() = %v, want [Acme]", got)
	}

	// Wholesale replacement on the next refresh.
	gw.listBody = listBody(t, sampleUsers()[:1])
	if err := s.Refresh(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	if got := ids(s.Users()); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("Users() after refresh = %v, want [a]", got)
	}
}

func TestRefreshFaultKeepsStaleCollection(t *testing.T) {
	gw := &fakeGateway{listBody: listBody(t, sampleUsers())}
	s := newLoadedStore(t, gw)

	gw.listErr = &gateway.Fault{Op: "list", Status: 503, Message: "store is down"}
	if err := s.Refresh(context.Background(), nil); err == nil {
		t.Fatal("expected refresh fault")
	}

	if got := ids(s.Users()); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("Users() after fault = %v; previous collection must stay visible", got)
	}
	if s.Phase() != PhaseError {
		t.Errorf("phase = %v, want error", s.Phase())
	}
	if s.Err() != "store is down" {
		t.Errorf("Err() = %q, want the server message", s.Err())
	}

	// A successful refresh clears the error again.
	gw.listErr = nil
	if err := s.Refresh(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	if s.Err() != "" {
		t.Errorf("Err() = %q after recovery, want empty", s.Err())
	}
}

func TestApplyFiltersNarrowsCollection(t *testing.T) {
	gw := &fakeGateway{listBody: listBody(t, sampleUsers())}
	s := newLoadedStore(t, gw)

	if err := s.ApplyFilters(context.Background(), "", "Acme"); err != nil {
		t.Fatal(err)
	}
	if got := ids(s.Users()); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Users() = %v, want [a b]", got)
	}
	if gw.listCalls != 1 {
		t.Errorf("list calls = %d; non-empty filters must not refetch", gw.listCalls)
	}
}

func TestApplyFiltersEmptyTriggersRefresh(t *testing.T) {
	gw := &fakeGateway{listBody: listBody(t, sampleUsers())}
	s := newLoadedStore(t, gw)

	if err := s.ApplyFilters(context.Background(), "", "Acme"); err != nil {
		t.Fatal(err)
	}
	if err := s.ApplyFilters(context.Background(), "", ""); err != nil {
		t.Fatal(err)
	}

	if gw.listCalls != 2 {
		t.Errorf("list calls = %d, want 2; clearing filters reloads instead of rederiving", gw.listCalls)
	}
	if got := ids(s.Users()); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("Users() after clear = %v, want full collection", got)
	}
}

func TestApplyFiltersCompound(t *testing.T) {
	// Pins the preserved contract quirk: a second, different filter runs
	// over the already-narrowed collection, so records lost to the first
	// filter stay lost until the next refresh.
	gw := &fakeGateway{listBody: listBody(t, sampleUsers())}
	s := newLoadedStore(t, gw)

	if err := s.ApplyFilters(context.Background(), "", "Acme"); err != nil {
		t.Fatal(err)
	}
	if err := s.ApplyFilters(context.Background(), "carla", ""); err != nil {
		t.Fatal(err)
	}

	if got := ids(s.Users()); len(got) != 0 {
		t.Errorf("Users() = %v; carla was filtered out by the earlier organization filter", got)
	}

	if err := s.Refresh(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	if got := ids(s.Users()); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("Users() after refresh = %v, want full collection restored", got)
	}
}

func TestOrganizationIndexTracksCollection(t *testing.T) {
	gw := &fakeGateway{listBody: listBody(t, sampleUsers())}
	s := newLoadedStore(t, gw)

	more := append(sampleUsers(), models.User{
		ID: "d", Username: "dana", Email: "dana@example.com",
		Organizations: []models.Membership{{Organization: "Globex"}},
	})
	gw.listBody = listBody(t, more)
	if err := s.Refresh(context.Background(), nil); err != nil {
		t.Fatal(err)
	}

	if got := s.Organizations(); !reflect.DeepEqual(got, []string{"Acme", "Globex"}) {
		t.Errorf("Organizations() = %v, want recomputed [Acme Globex]", got)
	}
}

func TestViewDetails(t *testing.T) {
	gw := &fakeGateway{
		listBody: listBody(t, sampleUsers()),
		getBody:  []byte(`{"user":{"id":"a","username":"astrid","first_name":"Astrid","mail":"astrid@example.com"}}`),
	}
	s := newLoadedStore(t, gw)

	if err := s.ViewDetails(context.Background(), "a"); err != nil {
		t.Fatalf("ViewDetails() error = %v", err)
	}
	u := s.Detail()
	if u == nil {
		t.Fatal("detail view did not open")
	}
	if u.FirstName != "Astrid" || u.Email != "astrid@example.com" {
		t.Errorf("detail = %+v; envelope and field variants should be normalized", u)
	}

	s.CloseDetails()
	if s.Detail() != nil {
		t.Error("CloseDetails should clear the selection")
	}
}

func TestViewDetailsFaultDoesNotOpen(t *testing.T) {
	gw := &fakeGateway{
		listBody: listBody(t, sampleUsers()),
		getErr:   &gateway.Fault{Op: "get", Status: 404, Message: "user not found"},
	}
	s := newLoadedStore(t, gw)

	if err := s.ViewDetails(context.Background(), "nope"); err == nil {
		t.Fatal("expected fault")
	}
	if s.Detail() != nil {
		t.Error("detail view must not open on fault")
	}
	if s.Err() != "user not found" {
		t.Errorf("Err() = %q, want server message", s.Err())
	}
	if got := ids(s.Users()); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("Users() = %v; displayed data must survive a detail fault", got)
	}
}

func TestDeleteWorkflow(t *testing.T) {
	gw := &fakeGateway{listBody: listBody(t, sampleUsers())}
	s := newLoadedStore(t, gw)

	s.RequestDelete("b")
	if target, open := s.DeleteTarget(); !open || target != "b" {
		t.Fatalf("DeleteTarget() = %q, %v; want b, true", target, open)
	}
	if len(gw.deleted) != 0 {
		t.Fatal("RequestDelete must not call the gateway")
	}

	if err := s.ConfirmDelete(context.Background()); err != nil {
		t.Fatalf("ConfirmDelete() error = %v", err)
	}
	if got := ids(s.Users()); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Errorf("Users() = %v, want exactly b removed", got)
	}
	if gw.listCalls != 1 {
		t.Errorf("list calls = %d; delete removes locally without a refetch", gw.listCalls)
	}
	if _, open := s.DeleteTarget(); open {
		t.Error("dialog should close after a successful delete")
	}
}

func TestCancelDelete(t *testing.T) {
	gw := &fakeGateway{listBody: listBody(t, sampleUsers())}
	s := newLoadedStore(t, gw)

	s.RequestDelete("b")
	s.CancelDelete()

	if _, open := s.DeleteTarget(); open {
		t.Error("CancelDelete should close the dialog")
	}
	if len(gw.deleted) != 0 {
		t.Error("CancelDelete must not call the gateway")
	}
	if got := ids(s.Users()); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("Users() = %v; nothing may be removed", got)
	}
}

func TestConfirmDeleteFaultKeepsDialogOpen(t *testing.T) {
	gw := &fakeGateway{
		listBody:  listBody(t, sampleUsers()),
		deleteErr: &gateway.Fault{Op: "delete", Status: 404, Message: "user not found"},
	}
	s := newLoadedStore(t, gw)

	s.RequestDelete("b")
	if err := s.ConfirmDelete(context.Background()); err == nil {
		t.Fatal("expected fault")
	}

	if target, open := s.DeleteTarget(); !open || target != "b" {
		t.Errorf("DeleteTarget() = %q, %v; dialog stays open with the target set", target, open)
	}
	if got := ids(s.Users()); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("Users() = %v; nothing may be removed on fault", got)
	}
	if s.Err() != "user not found" {
		t.Errorf("Err() = %q, want server message", s.Err())
	}
}

func TestConfirmDeleteWithoutTarget(t *testing.T) {
	gw := &fakeGateway{listBody: listBody(t, sampleUsers())}
	s := newLoadedStore(t, gw)

	if err := s.ConfirmDelete(context.Background()); err != nil {
		t.Errorf("ConfirmDelete() without target = %v, want nil", err)
	}
	if len(gw.deleted) != 0 {
		t.Error("no gateway call without a target")
	}
}

func TestStorePhases(t *testing.T) {
	gw := &fakeGateway{listBody: listBody(t, nil)}
	s := NewStore(gw, zap.NewNop())

	if s.Phase() != PhaseEmpty {
		t.Errorf("initial phase = %v, want empty", s.Phase())
	}
	if err := s.Refresh(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	if s.Phase() != PhaseLoaded {
		t.Errorf("phase = %v, want loaded", s.Phase())
	}
}
