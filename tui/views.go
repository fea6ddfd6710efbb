package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"cinema-scheduler-cli/service"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	faintStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	bannerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("1")).Bold(true).Padding(0, 1)
	labelStyle   = lipgloss.NewStyle().Bold(true)
	readonly     = lipgloss.NewStyle().Faint(true)

	tabActive   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Padding(0, 2)
	tabInactive = lipgloss.NewStyle().Faint(true).Padding(0, 2)
)

func (m appModel) View() string {
	switch m.state {
	case stateLogin:
		return m.loginView("")
	case stateLoggingIn:
		return m.loginView(fmt.Sprintf("%s Logging in...", m.spinner.View()))
	case statePickMovie:
		return m.dashboardHeader(tabFormID) + "\n\n" + m.moviePicker.View() + "\n" + hint("enter select • / filter • esc back")
	case statePickTheater:
		return m.dashboardHeader(tabFormID) + "\n\n" + m.theaterPicker.View() + "\n" + hint("enter select • / filter • esc back")
	case stateForm:
		return m.dashboardHeader(tabFormID) + "\n\n" + m.formView()
	case stateList:
		return m.dashboardHeader(tabListID) + "\n\n" + m.listView()
	case stateConfirmClear:
		return m.dashboardHeader(tabListID) + "\n\n" + m.confirmClearView()
	default:
		return ""
	}
}

const (
	tabListID = iota
	tabFormID
)

func (m appModel) loginView(pending string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Cinema Scheduler"))
	b.WriteString("\n")
	b.WriteString(faintStyle.Render("Use: Admin/password"))
	b.WriteString("\n\n")

	labels := []string{"Username:", "Password:"}
	for i, input := range m.loginInputs {
		b.WriteString(labelStyle.Render(labels[i]))
		b.WriteString("\n")
		b.WriteString(input.View())
		b.WriteString("\n")
	}

	if m.loginErr != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.loginErr))
		b.WriteString("\n")
	}
	if pending != "" {
		b.WriteString("\n")
		b.WriteString(pending)
		b.WriteString("\n")
		b.WriteString(hint("esc cancel"))
	} else {
		b.WriteString("\n")
		b.WriteString(hint("enter login • tab switch field • ctrl+c quit"))
	}
	return b.String()
}

func (m appModel) dashboardHeader(active int) string {
	welcome := "Welcome!"
	if m.session != nil {
		welcome = fmt.Sprintf("Welcome, %s!", m.session.User.Username)
	}

	tabs := []string{"Cinema List", "Details"}
	rendered := make([]string, len(tabs))
	for i, label := range tabs {
		if i == active {
			rendered[i] = tabActive.Render(label)
		} else {
			rendered[i] = tabInactive.Render(label)
		}
	}

	hints := "tab details view • ctrl+q logout • ctrl+c quit"
	if active == tabFormID {
		hints = "esc list view • ctrl+q logout • ctrl+c quit"
	}
	return titleStyle.Render(welcome) + "\n" +
		lipgloss.JoinHorizontal(lipgloss.Top, rendered...) + "\n" +
		hint(hints)
}

func (m appModel) listView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Cinema List"))
	b.WriteString("\n")

	if len(m.shows) == 0 {
		b.WriteString("\n")
		b.WriteString("No cinema shows scheduled yet. Create a new show in the \"Details\" tab.\n\n")
		b.WriteString(hint("n new show"))
		if m.status != "" {
			b.WriteString("\n\n")
			b.WriteString(faintStyle.Render(m.status))
		}
		return b.String()
	}

	b.WriteString(hint("1-4 sort column • ←/→ page • e export • C clear all • n new show"))
	b.WriteString("\n\n")
	b.WriteString(m.showTable.View())
	b.WriteString("\n")
	b.WriteString(faintStyle.Render(fmt.Sprintf(
		"Page %d of %d (%d total records)",
		m.pager.Page+1, m.pager.TotalPages, len(m.shows),
	)))
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(successStyle.Render(m.status))
	}
	return b.String()
}

func (m appModel) confirmClearView() string {
	return titleStyle.Render("Clear All") + "\n\n" +
		"Are you sure you want to clear all cinema shows? This action cannot be undone.\n\n" +
		hint("y confirm • n cancel")
}

func (m appModel) formView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Cinema Scheduler"))
	b.WriteString("\n\n")

	fields := []struct {
		label string
		focus int
	}{
		{"Movie Title *", focusMovieTitle},
		{"Theater *", focusTheater},
		{"Show Date *", focusShowDate},
		{"Show Time *", focusShowTime},
		{"Ticket Price *", focusTicketPrice},
		{"Notes", focusNotes},
	}
	for _, f := range fields {
		b.WriteString(labelStyle.Render(f.label))
		if f.focus == focusMovieTitle || f.focus == focusTheater {
			b.WriteString(faintStyle.Render("  (ctrl+o to pick)"))
		}
		b.WriteString("\n")
		b.WriteString(m.formInputs[f.focus].View())
		b.WriteString("\n")
		if key, ok := fieldKeyFor(f.focus); ok {
			if msg, bad := m.fieldErrors[key]; bad {
				b.WriteString(errorStyle.Render(msg))
				b.WriteString("\n")
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(checkbox("Subtitles", m.form.Subtitles, m.formFocus == focusSubtitles))
	b.WriteString("   ")
	b.WriteString(checkbox("IMAX", m.form.Imax, m.formFocus == focusImax))
	b.WriteString("\n\n")

	if m.saved != nil {
		b.WriteString(readonly.Render(fmt.Sprintf(
			"End Date: %s   Student Discount: %s   Senior Discount: %s",
			m.saved.EndDate, m.saved.DiscountPrice, m.saved.SeniorDiscountPrice,
		)))
		b.WriteString("\n\n")
	}

	if m.errorBanner != "" {
		b.WriteString(bannerStyle.Render("✗ " + m.errorBanner))
		b.WriteString("\n\n")
	}
	if m.status != "" {
		b.WriteString(successStyle.Render(m.status))
		b.WriteString("\n\n")
	}

	b.WriteString(hint("ctrl+s save • ctrl+r reset • esc back to list • ↑/↓ move • space toggle checkbox"))
	return b.String()
}

func checkbox(label string, checked, focused bool) string {
	mark := "[ ]"
	if checked {
		mark = "[x]"
	}
	out := fmt.Sprintf("%s %s", mark, label)
	if focused {
		return tabActive.Render(out)
	}
	return out
}

func showColumns(state service.SortState) []table.Column {
	return []table.Column{
		{Title: "Schedule ID" + sortMark(state, service.SortShowID), Width: 13},
		{Title: "Movie Title" + sortMark(state, service.SortMovieTitle), Width: 20},
		{Title: "Theater" + sortMark(state, service.SortTheater), Width: 14},
		{Title: "Show Date" + sortMark(state, service.SortShowDate), Width: 12},
		{Title: "Show Time", Width: 10},
		{Title: "Subtitles", Width: 9},
		{Title: "IMAX", Width: 6},
		{Title: "Notes", Width: 20},
	}
}

func sortMark(state service.SortState, key service.SortKey) string {
	if state.Key != key {
		return " ↕"
	}
	if state.Desc {
		return " ↓"
	}
	return " ↑"
}

func hint(text string) string {
	return faintStyle.Render(text)
}

func itoa(v int) string {
	return strconv.Itoa(v)
}

func orDash(v string) string {
	if v == "" {
		return "-"
	}
	return v
}

func yn(v bool) string {
	if v {
		return "Y"
	}
	return "N"
}
