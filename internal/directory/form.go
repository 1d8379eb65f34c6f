package directory

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aura-directory/console/internal/gateway"
	"github.com/aura-directory/console/internal/models"
)

// Form field names accepted by SetField and used as keys in the validation
// error map.
const (
	FieldUsername     = "username"
	FieldFirstName    = "firstName"
	FieldLastName     = "lastName"
	FieldEmail        = "email"
	FieldPhone        = "phone"
	FieldOrganization = "organization"
	FieldRole         = "role"
)

// emailRegex requires a local part, an @, and a dotted domain, so "a@b"
// fails while "a@b.com" passes.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ErrSubmitInFlight is returned when Submit is called while a previous
// submission has not resolved yet.
var ErrSubmitInFlight = errors.New("submission already in progress")

// FormPhase is the form's submission lifecycle state.
type FormPhase int

const (
	FormIdle FormPhase = iota
	FormValidating
	FormSubmitting
	FormSucceeded
)

// FormDraft is the in-progress, not-yet-persisted representation of a user.
// Existing tags a draft loaded from a persisted record; it is the sole
// determinant of create-vs-update, never inferred from the id being present.
type FormDraft struct {
	ID           string
	Existing     bool
	Username     string
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	Organization string
	Role         string
}

// Form owns the create/edit form: draft fields, validation errors, and the
// idle → validating → submitting → succeeded/failed lifecycle. A failed
// submission returns the form to idle with the errors still shown; a
// successful one settles for a fixed delay before the success callback fires
// and the form resets.
type Form struct {
	mu          sync.Mutex
	gw          Gateway
	logger      *zap.Logger
	settleDelay time.Duration

	phase       FormPhase
	draft       FormDraft
	fieldErrors map[string]string
	generalErr  string
	onSuccess   func()
}

// NewForm creates a form controller bound to the gateway.
func NewForm(gw Gateway, settleDelay time.Duration, logger *zap.Logger) *Form {
	return &Form{
		gw:          gw,
		logger:      logger,
		settleDelay: settleDelay,
		fieldErrors: map[string]string{},
	}
}

// OnSuccess registers the callback fired once per successful submission,
// after the settle delay. Callers typically reload the directory collection.
func (f *Form) OnSuccess(fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onSuccess = fn
}

// Load populates the draft from an existing record, or resets to an empty
// create draft when user is nil. Editing works on a single organization and
// a single role: the first membership and its first role, even when the
// record carries more. All errors and transient state are cleared.
func (f *Form) Load(user *models.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.phase = FormIdle
	f.fieldErrors = map[string]string{}
	f.generalErr = ""
	if user == nil {
		f.draft = FormDraft{}
		return
	}
	d := FormDraft{
		ID:        user.ID,
		Existing:  true,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Phone:     user.Phone,
	}
	if len(user.Organizations) > 0 {
		m := user.Organizations[0]
		d.Organization = m.Organization
		if len(m.Roles) > 0 {
			d.Role = m.Roles[0]
		}
	}
	f.draft = d
}

// SetField updates one draft field and clears that field's validation error.
// Unknown field names are ignored.
func (f *Form) SetField(name, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch name {
	case FieldUsername:
		// Username is write-once; edits of existing records keep it.
		if !f.draft.Existing {
			f.draft.Username = value
		}
	case FieldFirstName:
		f.draft.FirstName = value
	case FieldLastName:
		f.draft.LastName = value
	case FieldEmail:
		f.draft.Email = value
	case FieldPhone:
		f.draft.Phone = value
	case FieldOrganization:
		f.draft.Organization = value
	case FieldRole:
		f.draft.Role = value
	default:
		return
	}
	delete(f.fieldErrors, name)
}

// Validate checks the draft and returns per-field error messages; an empty
// map means the draft is valid. Username, first name, last name, and e-mail
// are required; phone, organization, and role are optional.
func (f *Form) Validate() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return validateDraft(f.draft)
}

func validateDraft(d FormDraft) map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(d.Username) == "" {
		errs[FieldUsername] = "username is required"
	}
	if strings.TrimSpace(d.FirstName) == "" {
		errs[FieldFirstName] = "first name is required"
	}
	if strings.TrimSpace(d.LastName) == "" {
		errs[FieldLastName] = "last name is required"
	}
	email := strings.TrimSpace(d.Email)
	switch {
	case email == "":
		errs[FieldEmail] = "email is required"
	case !emailRegex.MatchString(email):
		errs[FieldEmail] = "email must look like name@example.com"
	}
	return errs
}

// Submit validates and, if the draft is clean, sends it through the gateway:
// create for new drafts, update for drafts loaded from an existing record.
// Validation failures never reach the gateway. On a gateway fault the form
// returns to idle with a general error preferring the server's message. At
// most one submission is in flight at a time.
func (f *Form) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.phase == FormSubmitting {
		f.mu.Unlock()
		return ErrSubmitInFlight
	}
	f.phase = FormValidating
	if errs := validateDraft(f.draft); len(errs) > 0 {
		f.fieldErrors = errs
		f.phase = FormIdle
		f.mu.Unlock()
		return errors.New("draft has validation errors")
	}
	f.fieldErrors = map[string]string{}
	f.generalErr = ""
	f.phase = FormSubmitting
	draft := f.draft
	f.mu.Unlock()

	user := draft.toUser()
	var err error
	if draft.Existing {
		_, err = f.gw.Update(ctx, user)
	} else {
		_, err = f.gw.Create(ctx, user)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.phase = FormIdle
		f.generalErr = gateway.FaultMessage(err)
		f.logger.Warn("form submission failed",
			zap.Bool("existing", draft.Existing),
			zap.Error(err))
		return err
	}
	f.phase = FormSucceeded
	f.logger.Info("form submitted",
		zap.Bool("existing", draft.Existing),
		zap.String("username", draft.Username))
	fn := f.onSuccess
	time.AfterFunc(f.settleDelay, func() {
		f.mu.Lock()
		if f.phase == FormSucceeded {
			f.phase = FormIdle
			f.draft = FormDraft{}
		}
		f.mu.Unlock()
		if fn != nil {
			fn()
		}
	})
	return nil
}

// Cancel discards the draft and all transient state without touching the
// gateway.
func (f *Form) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.phase = FormIdle
	f.draft = FormDraft{}
	f.fieldErrors = map[string]string{}
	f.generalErr = ""
}

// Phase returns the current lifecycle phase.
func (f *Form) Phase() FormPhase {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.phase
}

// Draft returns a copy of the current draft.
func (f *Form) Draft() FormDraft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// FieldErrors returns a copy of the per-field validation errors.
func (f *Form) FieldErrors() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.fieldErrors))
	for k, v := range f.fieldErrors {
		out[k] = v
	}
	return out
}

// GeneralError returns the last non-field error message, if any.
func (f *Form) GeneralError() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.generalErr
}

// UsernameEditable reports whether the username field accepts input: only
// for drafts that are not backed by a persisted record.
func (f *Form) UsernameEditable() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.draft.Existing
}

// toUser converts the single-organization draft into a gateway record. An
// organization with a blank role becomes a membership with no roles rather
// than a membership with an empty-named role.
func (d FormDraft) toUser() models.User {
	u := models.User{
		ID:        d.ID,
		Username:  strings.TrimSpace(d.Username),
		FirstName: strings.TrimSpace(d.FirstName),
		LastName:  strings.TrimSpace(d.LastName),
		Email:     strings.TrimSpace(d.Email),
		Phone:     strings.TrimSpace(d.Phone),
	}
	if org := strings.TrimSpace(d.Organization); org != "" {
		m := models.Membership{Organization: org, Roles: []string{}}
		if role := strings.TrimSpace(d.Role); role != "" {
			m.Roles = []string{role}
		}
		u.Organizations = []models.Membership{m}
	}
	return u
}
