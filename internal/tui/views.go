package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/AdnanSadiqsb/botnflow-console/internal/channel"
	"github.com/AdnanSadiqsb/botnflow-console/internal/phone"
)

// View renders the UI
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	// Overlays replace the whole screen
	if m.formMode {
		return m.renderForm()
	}
	if m.tagMode {
		return m.renderTagSession()
	}
	if m.channelFilterMode {
		return m.renderChannelSelection()
	}
	if m.deleteConfirmMode {
		return m.renderDeleteConfirmation()
	}
	if m.teamsMode {
		return m.renderTeams()
	}
	if m.usersMode {
		return m.renderUsers()
	}

	// Calculate pane widths
	listWidth := m.width / 2
	detailWidth := m.width - listWidth - 3 // account for borders

	listView := m.renderList(listWidth)
	detailView := m.renderDetail(detailWidth)

	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		borderStyle.Width(listWidth).Height(m.height-4).Render(listView),
		borderStyle.Width(detailWidth).Height(m.height-4).Render(detailView),
	)

	return lipgloss.JoinVertical(lipgloss.Left, content, m.renderStatus(), m.renderHelp())
}

// renderList renders the current page of contacts
func (m Model) renderList(width int) string {
	var lines []string

	if m.searchMode || m.list.SearchTerm() != "" {
		lines = append(lines, m.searchInput.View())
		lines = append(lines, "")
	}

	header := fmt.Sprintf("Contacts (%d)", len(m.list.Contacts()))
	if f := m.list.ChannelFilter(); f != "" {
		header += " [" + f + "]"
	}
	if m.list.Loading() {
		header += " " + m.spinner.View()
	}
	lines = append(lines, header)
	lines = append(lines, strings.Repeat("─", width-2))

	page := m.list.PageContacts()
	if len(page) == 0 {
		if m.list.Loading() {
			lines = append(lines, "  Loading contacts...")
		} else {
			lines = append(lines, "  No contacts found")
		}
	}

	for i, c := range page {
		line := "  " + c.FullName()
		if c.Channel != "" {
			line += " " + labelStyle.Render("["+c.Channel+"]")
		}
		if i == m.selected {
			line = selectedStyle.Render(line)
		}
		lines = append(lines, line)
	}

	lines = append(lines, "")
	lines = append(lines, labelStyle.Render(fmt.Sprintf("Page %d of %d", m.list.Page(), m.list.TotalPages())))

	return strings.Join(lines, "\n")
}

// renderDetail renders the selected contact
func (m Model) renderDetail(width int) string {
	c, ok := m.selectedContact()
	if !ok {
		return "No contact selected"
	}

	var lines []string
	lines = append(lines, c.FullName())
	lines = append(lines, strings.Repeat("─", width-2))
	lines = append(lines, "")

	lines = append(lines, fmt.Sprintf("Phone:    %s", phone.Display(c.PhoneNumber, c.Channel)))
	if c.ClientEmail != "" {
		lines = append(lines, fmt.Sprintf("Email:    %s", c.ClientEmail))
	}
	if c.ClientBusinessDetail != "" {
		lines = append(lines, fmt.Sprintf("Business: %s", c.ClientBusinessDetail))
	}
	if c.Gender != "" {
		lines = append(lines, fmt.Sprintf("Gender:   %s", c.Gender))
	}
	if c.Channel != "" {
		name := c.Channel
		if desc, ok := channel.Lookup(c.Channel); ok {
			name = desc.DisplayName
		}
		lines = append(lines, fmt.Sprintf("Channel:  %s", name))
	}

	if len(c.Tags) > 0 {
		lines = append(lines, "")
		lines = append(lines, "Tags:")
		for _, tag := range c.Tags {
			lines = append(lines, "  "+tagStyle.Render(tag))
		}
	}

	return strings.Join(lines, "\n")
}

// renderStatus renders the last operation outcome
func (m Model) renderStatus() string {
	msg, isErr := m.status.Current()
	if msg == "" {
		return ""
	}
	if isErr {
		return " " + errorStyle.Render(msg)
	}
	return " " + successStyle.Render(msg)
}

// renderHelp renders the help line
func (m Model) renderHelp() string {
	if m.searchMode {
		return " Type to search • Enter: keep • Esc: clear"
	}

	help := " j/k: navigate • n/p: page • /: search • f: channel • a: add • e: edit • t: tags • d: delete"
	help += " • x: export • r: refresh • T: teams • U: users"
	if m.list.SearchTerm() != "" {
		help += " • Esc: clear search"
	}
	help += " • q: quit"
	return help
}

// renderChannelSelection renders the channel filter overlay
func (m Model) renderChannelSelection() string {
	var lines []string
	lines = append(lines, "Filter by channel:")
	lines = append(lines, "")

	all := "  all (clear filter)"
	if m.channelSelected == 0 {
		all = selectedStyle.Render(all)
	}
	lines = append(lines, all)

	for i, desc := range m.channelOptions {
		line := fmt.Sprintf("  %s", desc.DisplayName)
		if i+1 == m.channelSelected {
			line = selectedStyle.Render(line)
		}
		lines = append(lines, line)
	}

	lines = append(lines, "")
	lines = append(lines, "Press Enter to confirm, Esc to cancel")

	return m.centerBox(strings.Join(lines, "\n"), 0)
}

// renderForm renders the create/edit contact overlay
func (m Model) renderForm() string {
	d := m.form.Draft()

	var lines []string
	if m.form.Editing() {
		lines = append(lines, "Edit Contact: "+d.FirstName+" "+d.LastName)
	} else {
		lines = append(lines, "New Contact")
	}
	lines = append(lines, strings.Repeat("─", 40))
	lines = append(lines, "")

	// Channel row only exists while creating
	if !m.form.Editing() {
		label := "Channel:         "
		value := "(select a channel)"
		if m.formChannelIdx >= 0 {
			options := channel.SelectableTypes()
			value = options[m.formChannelIdx].DisplayName
		}
		if m.formField == formFieldChannel {
			lines = append(lines, label+selectedStyle.Render(fmt.Sprintf("< %s >", value)))
		} else {
			lines = append(lines, label+fmt.Sprintf("  %s  ", value))
		}
		lines = append(lines, "")
	}

	fieldLabels := map[int]string{
		formFieldPhone:     "Phone:           ",
		formFieldFirstName: "First Name:      ",
		formFieldLastName:  "Last Name:       ",
		formFieldEmail:     "Email:           ",
		formFieldBusiness:  "Business:        ",
	}

	for _, i := range []int{formFieldPhone, formFieldFirstName, formFieldLastName, formFieldEmail, formFieldBusiness} {
		label := fieldLabels[i]
		if i == m.formField {
			lines = append(lines, label+m.formInputs[i].View())
		} else {
			value := m.formInputs[i].Value()
			if value == "" {
				value = labelStyle.Render(m.formInputs[i].Placeholder)
			}
			lines = append(lines, label+value)
		}
		lines = append(lines, "")
	}

	// Gender cycles like the channel row
	genderLabel := "Gender:          "
	if m.formField == formFieldGender {
		lines = append(lines, genderLabel+selectedStyle.Render(fmt.Sprintf("< %s >", genders[m.formGenderIdx])))
	} else {
		lines = append(lines, genderLabel+fmt.Sprintf("  %s  ", genders[m.formGenderIdx]))
	}
	lines = append(lines, "")

	tagLabel := "Tags:            "
	if m.formField == formFieldTags {
		lines = append(lines, tagLabel+m.formInputs[formFieldTags].View())
	} else {
		lines = append(lines, tagLabel+labelStyle.Render("(enter to add)"))
	}
	if len(d.Tags) > 0 {
		lines = append(lines, "                 "+tagStyle.Render(strings.Join(d.Tags, ", ")))
	}
	lines = append(lines, "")

	if msg, isErr := m.status.Current(); msg != "" && isErr {
		lines = append(lines, errorStyle.Render(msg))
		lines = append(lines, "")
	}

	if m.form.Submitting() {
		lines = append(lines, m.spinner.View()+" Saving...")
	} else {
		lines = append(lines, "Tab/↓: next field • Shift+Tab/↑: previous • Enter: save • Ctrl+J: save anywhere • Esc: cancel")
	}

	return m.centerBox(strings.Join(lines, "\n"), 70)
}

// renderTagSession renders the tag editing overlay
func (m Model) renderTagSession() string {
	session := m.list.Session()
	if session == nil {
		return "No tag session"
	}

	c, ok := m.selectedContact()
	title := "Edit tags"
	if ok {
		title = "Edit tags for " + c.FullName()
	}

	var lines []string
	lines = append(lines, title+":")
	lines = append(lines, "")
	lines = append(lines, m.tagInput.View())
	lines = append(lines, "")

	if len(session.Tags) == 0 {
		lines = append(lines, labelStyle.Render("  (no tags yet)"))
	}
	for i, tag := range session.Tags {
		line := "  " + tagStyle.Render(tag)
		if i == m.tagSelected {
			line = selectedStyle.Render("  " + tag)
		}
		lines = append(lines, line)
	}

	lines = append(lines, "")
	lines = append(lines, "Enter: add • ↑/↓: select • Ctrl+D: remove • Esc: close")

	return m.centerBox(strings.Join(lines, "\n"), 50)
}

// renderDeleteConfirmation renders the delete prompt
func (m Model) renderDeleteConfirmation() string {
	var lines []string
	lines = append(lines, fmt.Sprintf("Delete %s?", m.deleteContactName))
	lines = append(lines, "")
	lines = append(lines, "y: confirm • any other key: cancel")
	return m.centerBox(strings.Join(lines, "\n"), 0)
}

// renderTeams renders the teams overlay
func (m Model) renderTeams() string {
	var lines []string
	lines = append(lines, fmt.Sprintf("Teams (%d):", len(m.teams)))
	lines = append(lines, "")

	if len(m.teams) == 0 {
		lines = append(lines, labelStyle.Render("  No teams"))
	}
	for i, team := range m.teams {
		line := fmt.Sprintf("  %s (%d members)", team.Name, len(team.Members))
		if i == m.teamSelected {
			line = selectedStyle.Render(line)
		}
		lines = append(lines, line)
	}

	lines = append(lines, "")
	lines = append(lines, "j/k: navigate • d: delete • Esc: close")

	return m.centerBox(strings.Join(lines, "\n"), 50)
}

// renderUsers renders the company users overlay
func (m Model) renderUsers() string {
	var lines []string
	lines = append(lines, fmt.Sprintf("Users (%d):", len(m.users)))
	lines = append(lines, "")

	if len(m.users) == 0 {
		lines = append(lines, labelStyle.Render("  No users"))
	}
	for _, u := range m.users {
		line := fmt.Sprintf("  %s  %s", u.Name, labelStyle.Render(u.Email))
		if u.Role != "" {
			line += " " + labelStyle.Render("["+u.Role+"]")
		}
		lines = append(lines, line)
	}

	lines = append(lines, "")
	lines = append(lines, "Esc: close")

	return m.centerBox(strings.Join(lines, "\n"), 60)
}

// centerBox wraps content in a bordered box centered on the screen.
func (m Model) centerBox(content string, width int) string {
	box := borderStyle.
		Padding(1).
		Background(lipgloss.Color("235"))
	if width > 0 {
		box = box.Width(width)
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(box.Render(content))
}
