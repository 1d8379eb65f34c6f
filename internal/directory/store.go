package directory

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/aura-directory/console/internal/gateway"
	"github.com/aura-directory/console/internal/models"
)

// Phase is the store's load lifecycle state.
type Phase int

const (
	PhaseEmpty Phase = iota
	PhaseLoading
	PhaseLoaded
	PhaseError
)

// Store owns the loaded user collection, the organization index derived from
// it, the current filter, and the detail/delete selection state. It is the
// only writer of the collection; filtering is always a pure derivation over
// whatever the store currently holds.
//
// Known contract quirk, kept deliberately: ApplyFilters with a non-empty
// filter narrows the currently displayed collection, so successive distinct
// filters compound until the next Refresh restores the full dataset. Clearing
// both filters triggers a full reload rather than re-deriving from stale
// data.
//
// Overlapping asynchronous calls are not coalesced or cancelled; the last
// response to resolve wins. The mutex guards field consistency only, gateway
// calls happen outside it.
type Store struct {
	mu     sync.Mutex
	gw     Gateway
	logger *zap.Logger

	phase         Phase
	users         []models.User
	organizations []string
	filter        models.FilterState
	err           string

	detail       *models.User
	deleteTarget string
	deleteOpen   bool
}

// NewStore creates a directory store bound to the gateway. The collection is
// empty until the first Refresh.
func NewStore(gw Gateway, logger *zap.Logger) *Store {
	return &Store{gw: gw, logger: logger}
}

// Refresh fetches the full collection, normalizes it, and replaces the
// displayed collection wholesale, recomputing the organization index and
// clearing any previous error. On a gateway fault the previous collection
// stays visible and only the error message changes.
func (s *Store) Refresh(ctx context.Context, params map[string]string) error {
	s.mu.Lock()
	s.phase = PhaseLoading
	s.mu.Unlock()

	raw, err := s.gw.List(ctx, params)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.phase = PhaseError
		s.err = gateway.FaultMessage(err)
		s.logger.Warn("refresh failed", zap.Error(err))
		return err
	}
	s.users = NormalizeList(raw)
	s.organizations = OrganizationNames(s.users)
	s.phase = PhaseLoaded
	s.err = ""
	s.logger.Debug("collection refreshed", zap.Int("count", len(s.users)))
	return nil
}

// ApplyFilters sets the filter state and updates the displayed collection.
// Both fields empty means a full reload; otherwise the filter engine runs
// over the currently displayed collection and replaces it with the subset.
func (s *Store) ApplyFilters(ctx context.Context, text, org string) error {
	filter := models.FilterState{Text: text, Organization: org}
	if filter.Empty() {
		s.mu.Lock()
		s.filter = filter
		s.mu.Unlock()
		return s.Refresh(ctx, nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = filter
	s.users = Visible(s.users, filter)
	s.organizations = OrganizationNames(s.users)
	return nil
}

// ViewDetails fetches one record and selects it for the detail view. On a
// fault the detail view does not open and the error is surfaced instead.
func (s *Store) ViewDetails(ctx context.Context, id string) error {
	raw, err := s.gw.GetByID(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.err = gateway.FaultMessage(err)
		s.logger.Warn("detail fetch failed", zap.String("id", id), zap.Error(err))
		return err
	}
	user, ok := NormalizeOne(raw)
	if !ok {
		s.err = gateway.FaultMessage(nil)
		return nil
	}
	s.detail = &user
	s.err = ""
	return nil
}

// CloseDetails clears the detail selection.
func (s *Store) CloseDetails() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detail = nil
}

// RequestDelete opens the confirmation dialog for the given id. No remote
// call happens until ConfirmDelete.
func (s *Store) RequestDelete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteTarget = id
	s.deleteOpen = true
}

// CancelDelete closes the confirmation dialog without touching the gateway.
func (s *Store) CancelDelete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteTarget = ""
	s.deleteOpen = false
}

// ConfirmDelete deletes the stored target remotely and, on success, removes
// it from the local collection without a refetch and closes the dialog. On a
// fault the dialog stays open with the target still set.
func (s *Store) ConfirmDelete(ctx context.Context) error {
	s.mu.Lock()
	id := s.deleteTarget
	s.mu.Unlock()
	if id == "" {
		return nil
	}

	err := s.gw.Delete(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.err = gateway.FaultMessage(err)
		s.logger.Warn("delete failed", zap.String("id", id), zap.Error(err))
		return err
	}
	kept := s.users[:0:0]
	for _, u := range s.users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	s.users = kept
	s.organizations = OrganizationNames(s.users)
	s.deleteTarget = ""
	s.deleteOpen = false
	s.err = ""
	s.logger.Info("user deleted", zap.String("id", id))
	return nil
}

// Users returns the currently displayed collection.
func (s *Store) Users() []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.User, len(s.users))
	copy(out, s.users)
	return out
}

// Organizations returns the current organization index for filter options.
func (s *Store) Organizations() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.organizations))
	copy(out, s.organizations)
	return out
}

// Filter returns the current filter state.
func (s *Store) Filter() models.FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// Phase returns the load lifecycle phase.
func (s *Store) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Err returns the current general error message, empty when healthy.
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Detail returns the selected detail record, or nil when none is open.
func (s *Store) Detail() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detail == nil {
		return nil
	}
	u := *s.detail
	return &u
}

// DeleteTarget returns the pending delete id and whether the confirmation
// dialog is open.
func (s *Store) DeleteTarget() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteTarget, s.deleteOpen
}
