package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/AdnanSadiqsb/botnflow-console/internal/api"
	"github.com/AdnanSadiqsb/botnflow-console/internal/channel"
	"github.com/AdnanSadiqsb/botnflow-console/internal/contact"
	"github.com/AdnanSadiqsb/botnflow-console/internal/export"
)

// Admin is the slice of the backend client the settings overlays need.
type Admin interface {
	ListTeams(ctx context.Context) ([]api.Team, error)
	DeleteTeam(ctx context.Context, id string) error
	ListUsers(ctx context.Context) ([]api.User, error)
}

// Form field positions
const (
	formFieldChannel = iota
	formFieldPhone
	formFieldFirstName
	formFieldLastName
	formFieldEmail
	formFieldBusiness
	formFieldGender
	formFieldTags
	formFieldCount
)

// Available genders
var genders = []string{"male", "female", "other"}

// ExportFilename is where the contact export lands.
const ExportFilename = "contacts.csv"

// Styles
var (
	selectedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("230"))

	tagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	borderStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))
)

// Model represents the main application state
type Model struct {
	ctx    context.Context
	list   *contact.ListController
	form   *contact.FormController
	admin  Admin
	status *StatusNotifier

	width    int
	height   int
	selected int // row within the current page
	spinner  spinner.Model

	// Search mode
	searchMode  bool
	searchInput textinput.Model

	// Channel filter selection mode
	channelFilterMode bool
	channelSelected   int
	channelOptions    []channel.Descriptor

	// Contact form mode
	formMode       bool
	formField      int
	formInputs     []textinput.Model
	formChannelIdx int // -1 until a channel is chosen
	formGenderIdx  int

	// Tag session mode
	tagMode     bool
	tagInput    textinput.Model
	tagSelected int

	// Delete confirmation mode
	deleteConfirmMode bool
	deleteContactID   string
	deleteContactName string

	// Settings overlays
	teamsMode    bool
	teams        []api.Team
	teamSelected int
	usersMode    bool
	users        []api.User
}

// New creates the application model around already-constructed controllers.
func New(list *contact.ListController, form *contact.FormController, admin Admin, status *StatusNotifier) Model {
	ti := textinput.New()
	ti.Placeholder = "Search contacts..."
	ti.Prompt = "> "
	ti.CharLimit = 50
	ti.Width = 30

	tag := textinput.New()
	tag.Placeholder = "Add tag"
	tag.Prompt = "> "
	tag.CharLimit = 50
	tag.Width = 30

	formInputs := make([]textinput.Model, formFieldCount)
	for i := range formInputs {
		formInputs[i] = textinput.New()
		formInputs[i].Width = 40
		formInputs[i].CharLimit = 200
	}
	formInputs[formFieldPhone].Placeholder = "Phone"
	formInputs[formFieldFirstName].Placeholder = "First Name"
	formInputs[formFieldLastName].Placeholder = "Last Name"
	formInputs[formFieldEmail].Placeholder = "Client Email"
	formInputs[formFieldBusiness].Placeholder = "Client Business Detail"
	formInputs[formFieldTags].Placeholder = "Add tag"

	s := spinner.New()
	s.Spinner = spinner.Dot

	return Model{
		ctx:            context.Background(),
		list:           list,
		form:           form,
		admin:          admin,
		status:         status,
		spinner:        s,
		searchInput:    ti,
		tagInput:       tag,
		formInputs:     formInputs,
		formChannelIdx: -1,
		channelOptions: channel.AllTypes(),
	}
}

// Init kicks off the spinner and the initial contact fetch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.refreshCmd(true))
}

func (m Model) refreshCmd(withSpinner bool) tea.Cmd {
	list := m.list
	ctx := m.ctx
	return func() tea.Msg {
		list.Refresh(ctx, withSpinner)
		return refreshDoneMsg{}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.width > 0 {
			m.searchInput.Width = m.width/2 - 6
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ListUpdatedMsg, refreshDoneMsg:
		m.selected = m.clampSelection(m.selected)
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case m.deleteConfirmMode:
		return m.updateDeleteConfirm(msg)
	case m.channelFilterMode:
		return m.updateChannelFilter(msg)
	case m.formMode:
		return m.updateForm(msg)
	case m.tagMode:
		return m.updateTagSession(msg)
	case m.teamsMode:
		return m.updateTeams(msg)
	case m.usersMode:
		return m.updateUsers(msg)
	case m.searchMode:
		return m.updateSearch(msg)
	}
	return m.updateNormal(msg)
}

func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.list.Close()
		return m, tea.Quit

	case "j", "down":
		if m.selected < len(m.list.PageContacts())-1 {
			m.selected++
		}

	case "k", "up":
		if m.selected > 0 {
			m.selected--
		}

	case "n", "right":
		if m.list.Page() < m.list.TotalPages() {
			m.list.SetPage(m.list.Page() + 1)
			m.selected = 0
		}

	case "p", "left":
		if m.list.Page() > 1 {
			m.list.SetPage(m.list.Page() - 1)
			m.selected = 0
		}

	case "/":
		m.searchMode = true
		m.searchInput.SetValue(m.list.SearchTerm())
		m.searchInput.Focus()
		return m, textinput.Blink

	case "f":
		m.channelFilterMode = true
		m.channelSelected = 0
		current := m.list.ChannelFilter()
		for i, d := range m.channelOptions {
			if d.Type == current {
				m.channelSelected = i + 1 // slot 0 is "all"
			}
		}
		return m, nil

	case "a":
		m.form.Reset()
		return m.openForm(), textinput.Blink

	case "e":
		if c, ok := m.selectedContact(); ok {
			m.form.LoadForEdit(c)
			return m.openForm(), textinput.Blink
		}

	case "t":
		if c, ok := m.selectedContact(); ok {
			if m.list.OpenTagSession(c.ID) {
				m.tagMode = true
				m.tagSelected = 0
				m.tagInput.Reset()
				m.tagInput.Focus()
				return m, textinput.Blink
			}
		}

	case "d":
		if c, ok := m.selectedContact(); ok {
			m.deleteConfirmMode = true
			m.deleteContactID = c.ID
			m.deleteContactName = c.FullName()
		}
		return m, nil

	case "x":
		rows := m.list.ExportRows()
		if err := export.WriteCSV(ExportFilename, contact.ExportHeaders, rows); err != nil {
			m.status.Error("Export failed: " + err.Error())
		} else {
			m.status.Success(fmt.Sprintf("Exported %d contacts to %s", len(rows), ExportFilename))
		}
		return m, nil

	case "r":
		return m, m.refreshCmd(true)

	case "T":
		teams, err := m.admin.ListTeams(m.ctx)
		if err != nil {
			m.status.Error("Failed to load teams")
			return m, nil
		}
		m.teams = teams
		m.teamSelected = 0
		m.teamsMode = true
		return m, nil

	case "U":
		users, err := m.admin.ListUsers(m.ctx)
		if err != nil {
			m.status.Error("Failed to load users")
			return m, nil
		}
		m.users = users
		m.usersMode = true
		return m, nil

	case "esc":
		// Clear an active search
		if m.list.SearchTerm() != "" {
			m.searchInput.Reset()
			m.list.SetSearchTerm(m.ctx, "")
			m.selected = 0
		}
	}

	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searchMode = false
		m.searchInput.Reset()
		m.list.SetSearchTerm(m.ctx, "")
		return m, nil
	case "enter":
		m.searchMode = false
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	// Every keystroke feeds the controller; the fetch itself is debounced.
	m.list.SetSearchTerm(m.ctx, m.searchInput.Value())
	return m, cmd
}

func (m Model) updateChannelFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Slot 0 is "all channels", then the registered types.
	switch msg.String() {
	case "esc":
		m.channelFilterMode = false
		return m, nil
	case "enter":
		selected := ""
		if m.channelSelected > 0 {
			selected = m.channelOptions[m.channelSelected-1].Type
		}
		m.channelFilterMode = false
		m.selected = 0
		m.list.SetChannelFilter(m.ctx, selected)
		return m, nil
	case "j", "down":
		if m.channelSelected < len(m.channelOptions) {
			m.channelSelected++
		}
	case "k", "up":
		if m.channelSelected > 0 {
			m.channelSelected--
		}
	}
	return m, nil
}

func (m Model) updateDeleteConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "y" || msg.String() == "Y" {
		if m.list.Delete(m.ctx, m.deleteContactID) {
			m.selected = m.clampSelection(m.selected)
		}
	}
	// Any other key cancels
	m.deleteConfirmMode = false
	m.deleteContactID = ""
	m.deleteContactName = ""
	return m, nil
}

func (m Model) updateTagSession(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	session := m.list.Session()
	if session == nil {
		m.tagMode = false
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.tagMode = false
		m.list.CloseTagSession()
		m.tagInput.Reset()
		return m, nil

	case "enter":
		m.list.SetSessionInput(m.tagInput.Value())
		m.list.AddSessionTag(m.ctx)
		if s := m.list.Session(); s != nil && s.PendingInput == "" {
			m.tagInput.Reset()
		}
		m.tagSelected = m.clampTagSelection()
		return m, nil

	case "up":
		if m.tagSelected > 0 {
			m.tagSelected--
		}
		return m, nil

	case "down":
		if m.tagSelected < len(session.Tags)-1 {
			m.tagSelected++
		}
		return m, nil

	case "ctrl+d":
		if m.tagSelected < len(session.Tags) {
			m.list.RemoveSessionTag(m.ctx, session.Tags[m.tagSelected])
			m.tagSelected = m.clampTagSelection()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.tagInput, cmd = m.tagInput.Update(msg)
	m.list.SetSessionInput(m.tagInput.Value())
	return m, cmd
}

func (m Model) updateTeams(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.teamsMode = false
	case "j", "down":
		if m.teamSelected < len(m.teams)-1 {
			m.teamSelected++
		}
	case "k", "up":
		if m.teamSelected > 0 {
			m.teamSelected--
		}
	case "d":
		if m.teamSelected < len(m.teams) {
			team := m.teams[m.teamSelected]
			if err := m.admin.DeleteTeam(m.ctx, team.ID); err != nil {
				m.status.Error("Failed to delete team")
				return m, nil
			}
			m.status.Success("Team deleted successfully")
			if teams, err := m.admin.ListTeams(m.ctx); err == nil {
				m.teams = teams
			}
			if m.teamSelected >= len(m.teams) && m.teamSelected > 0 {
				m.teamSelected--
			}
		}
	}
	return m, nil
}

func (m Model) updateUsers(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.usersMode = false
	}
	return m, nil
}

func (m Model) openForm() Model {
	m.formMode = true
	m.formField = formFieldChannel
	if m.form.Editing() {
		m.formField = formFieldPhone
	}

	d := m.form.Draft()
	m.formInputs[formFieldPhone].SetValue(m.form.PhoneDisplay())
	m.formInputs[formFieldFirstName].SetValue(d.FirstName)
	m.formInputs[formFieldLastName].SetValue(d.LastName)
	m.formInputs[formFieldEmail].SetValue(d.ClientEmail)
	m.formInputs[formFieldBusiness].SetValue(d.ClientBusinessDetail)
	m.formInputs[formFieldTags].Reset()

	m.formChannelIdx = -1
	for i, desc := range channel.SelectableTypes() {
		if desc.Type == d.Channel {
			m.formChannelIdx = i
		}
	}
	m.formGenderIdx = 0
	for i, g := range genders {
		if g == d.Gender {
			m.formGenderIdx = i
		}
	}

	for i := range m.formInputs {
		m.formInputs[i].Blur()
	}
	if m.formField != formFieldChannel && m.formField != formFieldGender {
		m.formInputs[m.formField].Focus()
	}
	return m
}

// selectedContact resolves the highlighted row to a contact.
func (m Model) selectedContact() (api.Contact, bool) {
	page := m.list.PageContacts()
	if len(page) == 0 || m.selected >= len(page) {
		return api.Contact{}, false
	}
	return page[m.selected], true
}

// clampSelection keeps the highlight within the current page
func (m Model) clampSelection(sel int) int {
	page := m.list.PageContacts()
	if len(page) == 0 {
		return 0
	}
	if sel >= len(page) {
		return len(page) - 1
	}
	if sel < 0 {
		return 0
	}
	return sel
}

func (m Model) clampTagSelection() int {
	s := m.list.Session()
	if s == nil || len(s.Tags) == 0 {
		return 0
	}
	if m.tagSelected >= len(s.Tags) {
		return len(s.Tags) - 1
	}
	return m.tagSelected
}
