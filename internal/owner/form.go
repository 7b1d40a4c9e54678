package owner

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/vasiliy-maslov/ecommerce-console/internal/gateway"
	"github.com/vasiliy-maslov/ecommerce-console/internal/validation"
)

const (
	TypeOwner  = "Proprietario"
	TypeTenant = "Inquilino"
)

type Gateway interface {
	Streets(ctx context.Context) ([]gateway.Street, error)
	UpdateUnit(ctx context.Context, id int64, payload gateway.UnitPayload) (*gateway.Unit, error)
	CreateUnit(ctx context.Context, payload gateway.UnitPayload) (*gateway.Unit, error)
}

// Record is the editable copy of a unit/owner record.
type Record struct {
	ID         int64    `json:"id,omitempty"`
	ExternalID string   `json:"external_id"`
	Name       string   `json:"name" validate:"required"`
	Type       string   `json:"type" validate:"required,oneof=Proprietario Inquilino"`
	Person     string   `json:"person" validate:"required"`
	Email      string   `json:"email" validate:"omitempty,email"`
	Message    string   `json:"message"`
	Phone      string   `json:"phone"`
	Mobile     string   `json:"mobile"`
	Commercial string   `json:"commercial"`
	Address    string   `json:"address"`
	Number     string   `json:"number"`
	Latitude   *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude  *float64 `json:"longitude" validate:"omitempty,longitude"`
	Altitude   *float64 `json:"altitude,omitempty"`
}

// RecordFromUnit copies the owner fields of u. Missing text becomes "".
func RecordFromUnit(u gateway.Unit) Record {
	return Record{
		ID:         u.ID,
		ExternalID: u.ExternalID,
		Name:       u.Name,
		Type:       u.Type,
		Person:     u.Person,
		Email:      gateway.StrValue(u.Email),
		Message:    gateway.StrValue(u.Message),
		Phone:      gateway.StrValue(u.Phone),
		Mobile:     gateway.StrValue(u.Mobile),
		Commercial: gateway.StrValue(u.Commercial),
		Address:    gateway.StrValue(u.Address),
		Number:     gateway.StrValue(u.Number),
		Latitude:   u.Latitude,
		Longitude:  u.Longitude,
		Altitude:   u.Altitude,
	}
}

// Changes is a partial update of the text fields. Nil fields are left alone.
type Changes struct {
	ExternalID *string `json:"external_id"`
	Name       *string `json:"name"`
	Type       *string `json:"type"`
	Person     *string `json:"person"`
	Email      *string `json:"email"`
	Message    *string `json:"message"`
	Phone      *string `json:"phone"`
	Mobile     *string `json:"mobile"`
	Commercial *string `json:"commercial"`
	Address    *string `json:"address"`
	Number     *string `json:"number"`
}

func (c Changes) applyTo(r *Record) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&r.ExternalID, c.ExternalID)
	set(&r.Name, c.Name)
	set(&r.Type, c.Type)
	set(&r.Person, c.Person)
	set(&r.Email, c.Email)
	set(&r.Message, c.Message)
	set(&r.Phone, c.Phone)
	set(&r.Mobile, c.Mobile)
	set(&r.Commercial, c.Commercial)
	set(&r.Address, c.Address)
	set(&r.Number, c.Number)
}

type FormState int

const (
	FormEditing FormState = iota
	FormSaving
	FormSaved
	FormClosed
)

func (s FormState) String() string {
	switch s {
	case FormEditing:
		return "editing"
	case FormSaving:
		return "saving"
	case FormSaved:
		return "saved"
	case FormClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// StreetsView is the street list as shown next to the address field.
type StreetsView struct {
	State string   `json:"state"`
	Names []string `json:"names"`
	Error string   `json:"error,omitempty"`
}

type View struct {
	State            string      `json:"state"`
	Existing         bool        `json:"existing"`
	Record           Record      `json:"record"`
	Streets          StreetsView `json:"streets"`
	AddressNotInList *bool       `json:"address_not_in_list,omitempty"`
	Error            string      `json:"error,omitempty"`
}

// Form edits one unit/owner record. It is safe for concurrent use.
type Form struct {
	gw       Gateway
	validate *validator.Validate

	mu         sync.Mutex
	state      FormState
	generation uint64
	existing   bool
	original   gateway.Unit
	record     Record
	streets    Streets
	notInList  *bool
	lastErr    string
}

// NewForm opens a form on unit, or on a blank record when unit is nil.
func NewForm(gw Gateway, unit *gateway.Unit) *Form {
	f := &Form{
		gw:       gw,
		validate: validation.New(),
	}
	if unit != nil {
		f.existing = true
		f.original = *unit
		f.record = RecordFromUnit(*unit)
	}
	return f
}

// LoadStreets fetches the canonical street list. A failure leaves the address
// as free text; it is logged and returned, and the form stays usable.
func (f *Form) LoadStreets(ctx context.Context) error {
	f.mu.Lock()
	if f.state == FormClosed {
		f.mu.Unlock()
		return ErrClosed
	}
	f.streets = Streets{State: StreetsLoading}
	f.reconcile()
	gen := f.generation
	f.mu.Unlock()

	list, err := f.gw.Streets(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.generation != gen {
		return ErrClosed
	}
	if err != nil {
		f.streets = Streets{State: StreetsFailed, Err: gateway.UserMessage(err, "failed to load streets")}
		f.reconcile()
		log.Warn().Err(err).Int64("unit_id", f.record.ID).Msg("owner: failed to load streets, address is free text")
		return &OperationError{Op: "load streets", Message: f.streets.Err, Err: err}
	}
	f.streets = Streets{State: StreetsLoaded, List: list}
	f.reconcile()
	return nil
}

// reconcile recomputes the address flag. Callers hold the lock.
func (f *Form) reconcile() {
	flag, ok := Reconcile(f.existing, f.record.Address, f.streets)
	if !ok {
		f.notInList = nil
		return
	}
	f.notInList = &flag
}

func (f *Form) Apply(c Changes) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != FormEditing {
		return ErrNotEditable
	}
	c.applyTo(&f.record)
	f.reconcile()
	return nil
}

// SetLocation records captured coordinates. Out of range values are rejected.
func (f *Form) SetLocation(lat, lon float64) error {
	details := map[string]string{}
	if err := f.validate.Var(lat, "latitude"); err != nil {
		details["latitude"] = "latitude must be between -90 and 90"
	}
	if err := f.validate.Var(lon, "longitude"); err != nil {
		details["longitude"] = "longitude must be between -180 and 180"
	}
	if len(details) > 0 {
		return &ValidationError{Message: "invalid coordinates", Details: details}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != FormEditing {
		return ErrNotEditable
	}
	f.record.Latitude = &lat
	f.record.Longitude = &lon
	return nil
}

func (f *Form) ClearLocation() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != FormEditing {
		return ErrNotEditable
	}
	f.record.Latitude = nil
	f.record.Longitude = nil
	return nil
}

// Save validates the record and writes it back: an update for an existing
// record, a create otherwise. Altitude is never sent. On failure the form
// keeps its contents and the server message is kept as the form error.
func (f *Form) Save(ctx context.Context) (*gateway.Unit, error) {
	f.mu.Lock()
	if f.state != FormEditing {
		f.mu.Unlock()
		return nil, ErrNotEditable
	}

	rec := trimmed(f.record)
	if err := f.check(rec); err != nil {
		f.lastErr = err.Message
		f.mu.Unlock()
		return nil, err
	}

	f.record = rec
	f.reconcile()
	payload := f.payload(rec)
	existing := f.existing
	f.state = FormSaving
	f.lastErr = ""
	f.mu.Unlock()

	var (
		saved *gateway.Unit
		err   error
	)
	if existing {
		saved, err = f.gw.UpdateUnit(ctx, rec.ID, payload)
	} else {
		saved, err = f.gw.CreateUnit(ctx, payload)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		opErr := &OperationError{Op: "save unit", Message: gateway.UserMessage(err, "failed to save changes"), Err: err}
		f.state = FormEditing
		f.lastErr = opErr.Message
		log.Error().Err(err).Int64("unit_id", rec.ID).Bool("existing", existing).Msg("owner: failed to save unit")
		return nil, opErr
	}

	f.state = FormSaved
	if saved != nil && saved.ID != 0 {
		f.record.ID = saved.ID
	}
	log.Info().Int64("unit_id", f.record.ID).Bool("created", !existing).Msg("owner: unit saved successfully")
	return saved, nil
}

var fieldMessages = map[string]string{
	"name.required":       "unit name must not be empty",
	"person.required":     "person name must not be empty",
	"type.required":       "type is required",
	"type.oneof":          "type must be Proprietario or Inquilino",
	"email.email":         "email is not valid",
	"latitude.latitude":   "latitude must be between -90 and 90",
	"longitude.longitude": "longitude must be between -180 and 180",
}

func (f *Form) check(rec Record) *ValidationError {
	if f.existing && rec.ID == 0 {
		return &ValidationError{
			Message: "unit id for update not found",
			Details: map[string]string{"id": "required"},
		}
	}

	err := f.validate.Struct(rec)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ValidationError{Message: err.Error()}
	}

	out := &ValidationError{Details: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = fe.Field() + " failed on " + fe.Tag()
		}
		out.Details[fe.Field()] = msg
		if out.Message == "" {
			out.Message = msg
		}
	}
	return out
}

// payload keeps a field null when it was null before and is still empty.
func (f *Form) payload(rec Record) gateway.UnitPayload {
	return gateway.UnitPayload{
		ExternalID: rec.ExternalID,
		Name:       rec.Name,
		Type:       rec.Type,
		Person:     rec.Person,
		Email:      optional(rec.Email, f.original.Email),
		Message:    optional(rec.Message, f.original.Message),
		Phone:      optional(rec.Phone, f.original.Phone),
		Mobile:     optional(rec.Mobile, f.original.Mobile),
		Commercial: optional(rec.Commercial, f.original.Commercial),
		Address:    optional(rec.Address, f.original.Address),
		Number:     optional(rec.Number, f.original.Number),
		Latitude:   rec.Latitude,
		Longitude:  rec.Longitude,
	}
}

func optional(value string, before *string) *string {
	if value == "" && before == nil {
		return nil
	}
	return &value
}

func trimmed(r Record) Record {
	for _, s := range []*string{
		&r.ExternalID, &r.Name, &r.Type, &r.Person, &r.Email, &r.Message,
		&r.Phone, &r.Mobile, &r.Commercial, &r.Address, &r.Number,
	} {
		*s = strings.TrimSpace(*s)
	}
	return r
}

// Close discards the form. A form that is saving refuses to close.
func (f *Form) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == FormSaving {
		return ErrSaving
	}
	f.state = FormClosed
	f.generation++
	return nil
}

func (f *Form) State() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// AddressNotInList returns the reconciliation flag; ok is false when the
// check does not apply.
func (f *Form) AddressNotInList() (flag bool, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.notInList == nil {
		return false, false
	}
	return *f.notInList, true
}

func (f *Form) View() View {
	f.mu.Lock()
	defer f.mu.Unlock()

	v := View{
		State:    f.state.String(),
		Existing: f.existing,
		Record:   f.record,
		Streets: StreetsView{
			State: f.streets.State.String(),
			Names: f.streets.Names(),
			Error: f.streets.Err,
		},
		Error: f.lastErr,
	}
	if f.notInList != nil {
		flag := *f.notInList
		v.AddressNotInList = &flag
	}
	return v
}
