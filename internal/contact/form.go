package contact

import (
	"context"
	"errors"
	"strings"

	"github.com/AdnanSadiqsb/botnflow-console/internal/api"
	"github.com/AdnanSadiqsb/botnflow-console/internal/channel"
	"github.com/AdnanSadiqsb/botnflow-console/internal/phone"
)

// Form fields addressable through SetField.
type Field int

const (
	FieldFirstName Field = iota
	FieldLastName
	FieldPhoneNumber
	FieldClientEmail
	FieldClientBusinessDetail
	FieldGender
	FieldChannel
)

// FormDraft is the working copy of the contact form. PhoneNumber is always
// canonical digits; TagInput buffers the tag being typed.
type FormDraft struct {
	FirstName            string
	LastName             string
	PhoneNumber          string
	ClientEmail          string
	ClientBusinessDetail string
	Gender               string
	Channel              string
	Tags                 []string
	TagInput             string
}

// FormController owns the create/edit contact form: draft state, phone
// normalization, tag editing, validation and submit.
type FormController struct {
	svc         Service
	notifier    Notifier
	companyName string
	channels    []channel.Configured

	draft      FormDraft
	editing    *api.Contact
	submitting bool

	// onSaved asks the list to re-fetch; onClose dismisses the form.
	onSaved func()
	onClose func()
}

// NewFormController creates a form controller in create mode. companyName
// and the company's configured channels come from injected configuration,
// not ambient session state.
func NewFormController(svc Service, notifier Notifier, companyName string, channels []channel.Configured, onSaved, onClose func()) *FormController {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &FormController{
		svc:         svc,
		notifier:    notifier,
		companyName: companyName,
		channels:    channels,
		draft:       FormDraft{Gender: "male", Tags: []string{}},
		onSaved:     onSaved,
		onClose:     onClose,
	}
}

// Reset returns the form to an empty create-mode draft.
func (f *FormController) Reset() {
	f.editing = nil
	f.draft = FormDraft{Gender: "male", Tags: []string{}}
}

// LoadForEdit replaces the draft with an existing contact's fields and
// switches the form to edit mode. The channel is carried from the contact
// and becomes immutable; the stored phone is brought back to canonical
// digits so it round-trips through validation.
func (f *FormController) LoadForEdit(c api.Contact) {
	stored := c
	f.editing = &stored

	gender := c.Gender
	if gender == "" {
		gender = "male"
	}
	tags := append([]string{}, c.Tags...)

	f.draft = FormDraft{
		FirstName:            c.FirstName,
		LastName:             c.LastName,
		PhoneNumber:          phone.Normalize(c.PhoneNumber, c.Channel),
		ClientEmail:          c.ClientEmail,
		ClientBusinessDetail: c.ClientBusinessDetail,
		Gender:               gender,
		Channel:              c.Channel,
		Tags:                 tags,
	}
}

// Editing reports whether the form is editing an existing contact.
func (f *FormController) Editing() bool { return f.editing != nil }

// Draft returns a copy of the current draft.
func (f *FormController) Draft() FormDraft {
	d := f.draft
	d.Tags = append([]string(nil), f.draft.Tags...)
	return d
}

// Submitting reports whether a submit is in flight.
func (f *FormController) Submitting() bool { return f.submitting }

// Disabled reports whether the form's inputs are inert: creating a new
// contact with no channel chosen yet.
func (f *FormController) Disabled() bool {
	return f.editing == nil && f.draft.Channel == ""
}

// SetField updates one draft field. Phone input is routed through the
// normalizer keyed on the draft's current channel.
func (f *FormController) SetField(field Field, value string) {
	switch field {
	case FieldFirstName:
		f.draft.FirstName = value
	case FieldLastName:
		f.draft.LastName = value
	case FieldPhoneNumber:
		f.draft.PhoneNumber = phone.Normalize(value, f.draft.Channel)
	case FieldClientEmail:
		f.draft.ClientEmail = value
	case FieldClientBusinessDetail:
		f.draft.ClientBusinessDetail = value
	case FieldGender:
		f.draft.Gender = value
	case FieldChannel:
		if f.editing == nil {
			f.draft.Channel = value
		}
	}
}

// PhoneDisplay renders the draft's phone the way the active channel shows
// it ("+"-prefixed for non-WhatsApp channels).
func (f *FormController) PhoneDisplay() string {
	return phone.Display(f.draft.PhoneNumber, f.draft.Channel)
}

// SetTagInput updates the tag entry buffer.
func (f *FormController) SetTagInput(value string) {
	f.draft.TagInput = value
}

// AddTag commits the tag buffer: trimmed, non-empty, not already present.
// Insertion order is preserved.
func (f *FormController) AddTag() {
	tag := strings.TrimSpace(f.draft.TagInput)
	if tag == "" {
		return
	}
	for _, existing := range f.draft.Tags {
		if existing == tag {
			return
		}
	}
	f.draft.Tags = append(f.draft.Tags, tag)
	f.draft.TagInput = ""
}

// RemoveTag removes the tag at the given position; out-of-range is a no-op.
func (f *FormController) RemoveTag(index int) {
	if index < 0 || index >= len(f.draft.Tags) {
		return
	}
	f.draft.Tags = append(f.draft.Tags[:index], f.draft.Tags[index+1:]...)
}

// Submit validates the draft and sends it to the backend. Each validation
// failure surfaces a notification and sends nothing. On success the list
// refresh and close callbacks fire and Submit reports true; on backend
// failure the form stays open with the backend's message surfaced.
func (f *FormController) Submit(ctx context.Context) bool {
	if f.submitting {
		return false
	}

	d := f.draft
	if d.Channel == "" {
		f.notifier.Error("Please select a channel!")
		return false
	}
	if d.FirstName == "" || d.LastName == "" || d.PhoneNumber == "" || d.ClientEmail == "" || d.ClientBusinessDetail == "" {
		f.notifier.Error("Please fill in all fields!")
		return false
	}
	if len(d.PhoneNumber) != phone.CanonicalLength {
		f.notifier.Error("Phone number must be 12 digits (including 92 prefix)")
		return false
	}

	payload := api.Contact{
		FirstName:            d.FirstName,
		LastName:             d.LastName,
		PhoneNumber:          phone.Display(d.PhoneNumber, d.Channel),
		ClientEmail:          d.ClientEmail,
		ClientBusinessDetail: f.companyName,
		Gender:               d.Gender,
		Tags:                 append([]string{}, d.Tags...),
	}

	f.submitting = true
	defer func() { f.submitting = false }()

	var err error
	if f.editing != nil {
		// Channel and channelId are immutable after creation and stay off
		// the payload.
		err = f.svc.UpdateContact(ctx, f.editing.ID, payload)
	} else {
		payload.Channel = d.Channel
		payload.ChannelID = channel.ResolveID(f.channels, d.Channel)
		err = f.svc.CreateContact(ctx, payload)
	}

	if err != nil {
		f.notifier.Error(failureMessage(err))
		return false
	}

	if f.editing != nil {
		f.notifier.Success("Contact updated successfully!")
	} else {
		f.notifier.Success("Contact created successfully!")
	}
	if f.onSaved != nil {
		f.onSaved()
	}
	if f.onClose != nil {
		f.onClose()
	}
	return true
}

// failureMessage extracts the backend's message, falling back to a generic
// one.
func failureMessage(err error) string {
	var reqErr *api.RequestError
	if errors.As(err, &reqErr) && reqErr.Message != "" {
		return reqErr.Message
	}
	return api.GenericFailure
}
