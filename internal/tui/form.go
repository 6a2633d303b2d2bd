package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/AdnanSadiqsb/botnflow-console/internal/channel"
	"github.com/AdnanSadiqsb/botnflow-console/internal/contact"
)

// fieldForInput maps a form position to the controller field it edits.
var fieldForInput = map[int]contact.Field{
	formFieldPhone:     contact.FieldPhoneNumber,
	formFieldFirstName: contact.FieldFirstName,
	formFieldLastName:  contact.FieldLastName,
	formFieldEmail:     contact.FieldClientEmail,
	formFieldBusiness:  contact.FieldClientBusinessDetail,
}

// firstFormField is where focus starts; the channel row is hidden when editing.
func (m Model) firstFormField() int {
	if m.form.Editing() {
		return formFieldPhone
	}
	return formFieldChannel
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	if m.form.Submit(m.ctx) {
		m = m.closeForm()
		return m, m.refreshCmd(false)
	}
	return m, nil
}

func (m Model) closeForm() Model {
	m.formMode = false
	m.formField = 0
	for i := range m.formInputs {
		m.formInputs[i].Blur()
	}
	return m
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m.closeForm(), nil

	case "enter":
		// Enter serves the row under the cursor first; the channel, gender
		// and tag rows have their own enter actions, everywhere else it
		// saves. Ctrl+M arrives as enter, so the row check must come before
		// the save path.
		switch m.formField {
		case formFieldChannel:
			return m.cycleChannel(1), nil
		case formFieldGender:
			return m.cycleGender(1), nil
		case formFieldTags:
			m.form.SetTagInput(m.formInputs[formFieldTags].Value())
			m.form.AddTag()
			m.formInputs[formFieldTags].SetValue(m.form.Draft().TagInput)
			return m, nil
		}
		return m.submitForm()

	case "ctrl+j":
		// Save from any row, including the ones enter is reserved on
		return m.submitForm()

	case "tab", "down":
		if m.formField < formFieldCount-1 {
			m = m.focusFormField(m.formField + 1)
		}
		return m, textinput.Blink

	case "shift+tab", "up":
		if m.formField > m.firstFormField() {
			m = m.focusFormField(m.formField - 1)
		}
		return m, textinput.Blink

	case "left", "right":
		step := 1
		if msg.String() == "left" {
			step = -1
		}
		switch m.formField {
		case formFieldChannel:
			return m.cycleChannel(step), nil
		case formFieldGender:
			return m.cycleGender(step), nil
		}

	case "ctrl+d":
		// Drop the most recent tag
		if m.formField == formFieldTags {
			tags := m.form.Draft().Tags
			if len(tags) > 0 {
				m.form.RemoveTag(len(tags) - 1)
			}
			return m, nil
		}
	}

	// Route keystrokes into the active text input
	if m.formFieldIsCycled() {
		return m, nil
	}

	var cmd tea.Cmd
	m.formInputs[m.formField], cmd = m.formInputs[m.formField].Update(msg)

	if m.formField == formFieldPhone {
		// Phone keystrokes pass through normalization; the input always
		// shows the display form of the canonical number.
		m.form.SetField(contact.FieldPhoneNumber, m.formInputs[formFieldPhone].Value())
		m.formInputs[formFieldPhone].SetValue(m.form.PhoneDisplay())
		m.formInputs[formFieldPhone].CursorEnd()
	} else if m.formField == formFieldTags {
		m.form.SetTagInput(m.formInputs[formFieldTags].Value())
	} else if field, ok := fieldForInput[m.formField]; ok {
		m.form.SetField(field, m.formInputs[m.formField].Value())
	}
	return m, cmd
}

func (m Model) formFieldIsCycled() bool {
	return m.formField == formFieldChannel || m.formField == formFieldGender
}

func (m Model) focusFormField(field int) Model {
	if !m.formFieldIsCycled() {
		m.formInputs[m.formField].Blur()
	}
	m.formField = field
	if field != formFieldChannel && field != formFieldGender {
		m.formInputs[field].Focus()
	}
	return m
}

func (m Model) cycleChannel(step int) Model {
	// Channel is locked once a contact exists
	if m.form.Editing() {
		return m
	}
	options := channel.SelectableTypes()
	if len(options) == 0 {
		return m
	}
	m.formChannelIdx = (m.formChannelIdx + step + len(options)) % len(options)
	selected := options[m.formChannelIdx].Type
	m.form.SetField(contact.FieldChannel, selected)
	// Changing channel re-normalizes whatever digits are already typed
	m.form.SetField(contact.FieldPhoneNumber, m.formInputs[formFieldPhone].Value())
	m.formInputs[formFieldPhone].SetValue(m.form.PhoneDisplay())
	return m
}

func (m Model) cycleGender(step int) Model {
	m.formGenderIdx = (m.formGenderIdx + step + len(genders)) % len(genders)
	m.form.SetField(contact.FieldGender, genders[m.formGenderIdx])
	return m
}
