package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"cinema-scheduler-cli/config"
	"cinema-scheduler-cli/model"
	"cinema-scheduler-cli/service"
	"cinema-scheduler-cli/store"
)

type appState int

const (
	stateLogin appState = iota
	stateLoggingIn
	stateList
	stateForm
	statePickMovie
	statePickTheater
	stateConfirmClear
)

// Form focus positions. The text inputs come first, then the two checkboxes.
const (
	focusMovieTitle = iota
	focusTheater
	focusShowDate
	focusShowTime
	focusTicketPrice
	focusNotes
	focusSubtitles
	focusImax
	formFocusCount
)

var formFieldKeys = [...]string{
	focusMovieTitle:  "movieTitle",
	focusTheater:     "theater",
	focusShowDate:    "showDate",
	focusShowTime:    "showTime",
	focusTicketPrice: "ticketPrice",
	focusNotes:       "notes",
}

type appModel struct {
	cfg       *config.Config
	auth      *service.Authenticator
	scheduler *service.Scheduler

	state  appState
	width  int
	height int

	// login gate; session is set on success and cleared on logout
	session     *model.Session
	loginInputs []textinput.Model
	loginFocus  int
	loginErr    string
	loginCancel context.CancelFunc
	spinner     spinner.Model

	// details tab
	form        model.ShowForm
	formInputs  []textinput.Model
	formFocus   int
	fieldErrors map[string]string
	errorBanner string
	saved       *model.ShowRecord

	moviePicker   list.Model
	theaterPicker list.Model

	// cinema list tab
	shows     []model.ShowRecord
	sortState service.SortState
	pager     paginator.Model
	showTable table.Model
	status    string

	confirmReturn appState
}

type loginMsg struct {
	session model.Session
	err     error
}

type savedMsg struct {
	rec        model.ShowRecord
	validation service.Validation
	err        error
}

type exportMsg struct {
	path string
	err  error
}

type clearedMsg struct {
	err error
}

// New builds the application model around a configuration and an opened store.
func New(cfg *config.Config, st *store.Store) tea.Model {
	m := appModel{
		cfg:         cfg,
		auth:        service.NewAuthenticator(cfg.Username, cfg.Password, cfg.LoginDelay),
		scheduler:   service.NewScheduler(st),
		state:       stateLogin,
		fieldErrors: map[string]string{},
	}

	m.loginInputs = newLoginInputs()
	m.formInputs = newFormInputs()

	m.moviePicker = newPicker("Select Movie", movieItems())
	m.theaterPicker = newPicker("Select Theater", theaterItems())

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	m.spinner = sp

	p := paginator.New()
	p.Type = paginator.Arabic
	p.PerPage = service.PageSize
	m.pager = p

	m.showTable = newShowTable()
	return m
}

func newLoginInputs() []textinput.Model {
	username := textinput.New()
	username.Placeholder = "Username"
	username.CharLimit = 64
	username.Focus()

	password := textinput.New()
	password.Placeholder = "Password"
	password.CharLimit = 64
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return []textinput.Model{username, password}
}

func newFormInputs() []textinput.Model {
	inputs := make([]textinput.Model, focusNotes+1)

	inputs[focusMovieTitle] = textinput.New()
	inputs[focusMovieTitle].Placeholder = "Type to search movies..."
	inputs[focusMovieTitle].Focus()

	inputs[focusTheater] = textinput.New()
	inputs[focusTheater].Placeholder = "Select Theater"

	inputs[focusShowDate] = textinput.New()
	inputs[focusShowDate].Placeholder = "dd/mm/yyyy"
	inputs[focusShowDate].CharLimit = 10

	inputs[focusShowTime] = textinput.New()
	inputs[focusShowTime].Placeholder = "HH:MM (24-hour format)"
	inputs[focusShowTime].CharLimit = 5

	inputs[focusTicketPrice] = textinput.New()
	inputs[focusTicketPrice].Placeholder = "Enter ticket price"

	inputs[focusNotes] = textinput.New()
	inputs[focusNotes].Placeholder = "Enter notes (max 50 characters)"
	inputs[focusNotes].CharLimit = 50

	return inputs
}

func newShowTable() table.Model {
	t := table.New(
		table.WithColumns(showColumns(service.SortState{})),
		table.WithFocused(true),
		table.WithHeight(service.PageSize+1),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true)
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	t.SetStyles(styles)
	return t
}

func (m appModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizePickers()
		return m, nil

	case tea.KeyMsg:
		next, cmd, handled := m.handleKey(msg)
		if handled {
			return next, cmd
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.state == stateLoggingIn {
			return m, cmd
		}
		return m, nil

	case loginMsg:
		if m.loginCancel != nil {
			m.loginCancel()
			m.loginCancel = nil
		}
		if m.state != stateLoggingIn {
			// a cancelled attempt resolved late; the login form already took over
			return m, nil
		}
		if msg.err != nil {
			if errors.Is(msg.err, context.DeadlineExceeded) {
				m.loginErr = "Login timed out, please try again"
			} else {
				m.loginErr = "Invalid username or password"
			}
			m.state = stateLogin
			return m, nil
		}
		session := msg.session
		m.session = &session
		m.loginErr = ""
		m.loginInputs = newLoginInputs()
		m.loginFocus = 0
		return m.enterList(), nil

	case savedMsg:
		if msg.err != nil {
			// internal fault: nothing persisted, details only in the log
			m.errorBanner = "Could not save the show. Please try again."
			return m, nil
		}
		if !msg.validation.OK() {
			m.fieldErrors = msg.validation.Fields
			if msg.validation.Duplicate {
				m.errorBanner = service.DuplicateShowMessage
			}
			return m, nil
		}
		rec := msg.rec
		m.saved = &rec
		m.fieldErrors = map[string]string{}
		m.errorBanner = ""
		m.status = "✓ Cinema show saved successfully!"
		m.resetFormInputs()
		return m, nil

	case exportMsg:
		if msg.err != nil {
			m.status = "Export failed: " + msg.err.Error()
			return m, nil
		}
		m.status = "Exported to " + msg.path
		return m, nil

	case clearedMsg:
		if msg.err != nil {
			m.status = "Clear failed: " + msg.err.Error()
		} else {
			m.status = "All cinema shows cleared"
		}
		m.sortState = service.SortState{}
		return m.enterList(), nil
	}

	return m.updateComponents(msg)
}

func (m appModel) updateComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.state {
	case stateLogin:
		if _, ok := msg.(tea.KeyMsg); ok {
			m.loginErr = ""
		}
		m.loginInputs[m.loginFocus], cmd = m.loginInputs[m.loginFocus].Update(msg)
	case stateForm:
		if _, ok := msg.(tea.KeyMsg); ok {
			// typing in a field clears its error and any banner
			if key, ok := fieldKeyFor(m.formFocus); ok {
				delete(m.fieldErrors, key)
			}
			m.errorBanner = ""
			m.status = ""
		}
		if m.formFocus <= focusNotes {
			m.formInputs[m.formFocus], cmd = m.formInputs[m.formFocus].Update(msg)
			m.syncFormField(m.formFocus)
		}
	case statePickMovie:
		m.moviePicker, cmd = m.moviePicker.Update(msg)
	case statePickTheater:
		m.theaterPicker, cmd = m.theaterPicker.Update(msg)
	case stateList:
		m.showTable, cmd = m.showTable.Update(msg)
	}
	return m, cmd
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit, true
	}

	switch m.state {
	case stateLogin:
		return m.handleLoginKey(msg)
	case stateLoggingIn:
		if msg.Type == tea.KeyEsc {
			// abort the in-flight attempt
			if m.loginCancel != nil {
				m.loginCancel()
				m.loginCancel = nil
			}
			m.state = stateLogin
			return m, nil, true
		}
		return m, nil, true
	case stateList:
		return m.handleListKey(msg)
	case stateForm:
		return m.handleFormKey(msg)
	case statePickMovie, statePickTheater:
		return m.handlePickerKey(msg)
	case stateConfirmClear:
		switch msg.String() {
		case "y", "Y":
			m.state = m.confirmReturn
			return m, m.clearCmd(), true
		case "n", "N", "esc":
			m.state = m.confirmReturn
			return m, nil, true
		}
		return m, nil, true
	}
	return m, nil, false
}

func (m appModel) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.Type {
	case tea.KeyTab, tea.KeyDown, tea.KeyUp:
		m.loginFocus = (m.loginFocus + 1) % len(m.loginInputs)
		for i := range m.loginInputs {
			if i == m.loginFocus {
				m.loginInputs[i].Focus()
			} else {
				m.loginInputs[i].Blur()
			}
		}
		return m, textinput.Blink, true
	case tea.KeyEnter:
		if m.loginFocus < len(m.loginInputs)-1 {
			return m.handleLoginKey(tea.KeyMsg{Type: tea.KeyTab})
		}
		return m.startLogin()
	}
	return m, nil, false
}

func (m appModel) startLogin() (tea.Model, tea.Cmd, bool) {
	username := m.loginInputs[0].Value()
	password := m.loginInputs[1].Value()

	ctx, cancel := context.WithTimeout(context.Background(), m.cfg.LoginTimeout)
	m.loginCancel = cancel
	m.state = stateLoggingIn

	login := func() tea.Msg {
		session, err := m.auth.Login(ctx, username, password)
		return loginMsg{session: session, err: err}
	}
	return m, tea.Batch(login, m.spinner.Tick), true
}

func (m appModel) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.String() {
	case "q":
		return m, tea.Quit, true
	case "ctrl+q":
		return m.logout()
	case "tab":
		return m.enterForm(), nil, true
	case "n":
		return m.enterForm(), nil, true
	case "1":
		return m.toggleSort(service.SortShowID)
	case "2":
		return m.toggleSort(service.SortMovieTitle)
	case "3":
		return m.toggleSort(service.SortTheater)
	case "4":
		return m.toggleSort(service.SortShowDate)
	case "left", "h":
		if m.pager.Page > 0 {
			m.pager.PrevPage()
			m.refreshTable()
		}
		return m, nil, true
	case "right", "l":
		if m.pager.Page < m.pager.TotalPages-1 {
			m.pager.NextPage()
			m.refreshTable()
		}
		return m, nil, true
	case "e":
		if len(m.shows) == 0 {
			m.status = "Nothing to export"
			return m, nil, true
		}
		return m, m.exportCmd(), true
	case "C":
		if len(m.shows) == 0 {
			return m, nil, true
		}
		m.confirmReturn = stateList
		m.state = stateConfirmClear
		return m, nil, true
	}
	return m, nil, false
}

func (m appModel) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+q":
		return m.logout()
	case "esc":
		if m.errorBanner != "" {
			m.errorBanner = ""
			return m, nil, true
		}
		return m.enterList(), nil, true
	case "tab", "down":
		return m.moveFormFocus(1)
	case "shift+tab", "up":
		return m.moveFormFocus(-1)
	case "ctrl+s":
		return m.saveForm()
	case "ctrl+o":
		switch m.formFocus {
		case focusMovieTitle:
			m.moviePicker.ResetFilter()
			m.state = statePickMovie
			return m, nil, true
		case focusTheater:
			m.theaterPicker.ResetFilter()
			m.state = statePickTheater
			return m, nil, true
		}
		return m, nil, true
	case "ctrl+r":
		m.resetForm()
		return m, nil, true
	case " ":
		switch m.formFocus {
		case focusSubtitles:
			m.form.Subtitles = !m.form.Subtitles
			return m, nil, true
		case focusImax:
			m.form.Imax = !m.form.Imax
			return m, nil, true
		}
	case "enter":
		if m.formFocus >= focusSubtitles {
			return m.saveForm()
		}
		return m.moveFormFocus(1)
	}
	return m, nil, false
}

func (m appModel) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	picker := &m.moviePicker
	target := focusMovieTitle
	if m.state == statePickTheater {
		picker = &m.theaterPicker
		target = focusTheater
	}

	switch msg.Type {
	case tea.KeyEsc:
		if picker.SettingFilter() || picker.IsFiltered() {
			picker.ResetFilter()
			return m, nil, true
		}
		m.state = stateForm
		return m, nil, true
	case tea.KeyEnter:
		item, ok := picker.SelectedItem().(optionItem)
		if !ok {
			return m, nil, true
		}
		m.formInputs[target].SetValue(item.value)
		m.syncFormField(target)
		if key, ok := fieldKeyFor(target); ok {
			delete(m.fieldErrors, key)
		}
		m.state = stateForm
		return m, nil, true
	}
	return m, nil, false
}

func (m appModel) moveFormFocus(delta int) (tea.Model, tea.Cmd, bool) {
	m.formFocus = (m.formFocus + delta + formFocusCount) % formFocusCount
	for i := range m.formInputs {
		if i == m.formFocus {
			m.formInputs[i].Focus()
		} else {
			m.formInputs[i].Blur()
		}
	}
	return m, textinput.Blink, true
}

func (m appModel) toggleSort(key service.SortKey) (tea.Model, tea.Cmd, bool) {
	m.sortState.Toggle(key)
	m.refreshTable()
	return m, nil, true
}

func (m appModel) saveForm() (tea.Model, tea.Cmd, bool) {
	m.syncForm()
	m.errorBanner = ""
	m.status = ""
	form := m.form
	save := func() tea.Msg {
		rec, v, err := m.scheduler.SaveShow(form)
		return savedMsg{rec: rec, validation: v, err: err}
	}
	return m, save, true
}

func (m appModel) exportCmd() tea.Cmd {
	shows := m.shows
	return func() tea.Msg {
		path, err := service.ExportCSV("", shows)
		return exportMsg{path: path, err: err}
	}
}

func (m appModel) clearCmd() tea.Cmd {
	return func() tea.Msg {
		return clearedMsg{err: m.scheduler.Clear()}
	}
}

func (m appModel) logout() (tea.Model, tea.Cmd, bool) {
	m.session = nil
	m.state = stateLogin
	m.loginInputs = newLoginInputs()
	m.loginFocus = 0
	m.loginErr = ""
	m.resetForm()
	m.status = ""
	return m, textinput.Blink, true
}

// enterList reloads the collection and resets the table; pagination resets to
// the first page whenever the collection shrank below the current one.
func (m appModel) enterList() appModel {
	m.state = stateList
	m.shows = m.scheduler.Shows()
	m.pager.SetTotalPages(max(len(m.shows), 1))
	if m.pager.Page >= m.pager.TotalPages {
		m.pager.Page = 0
	}
	m.refreshTable()
	return m
}

func (m appModel) enterForm() appModel {
	m.state = stateForm
	m.status = ""
	m.formFocus = focusMovieTitle
	for i := range m.formInputs {
		if i == m.formFocus {
			m.formInputs[i].Focus()
		} else {
			m.formInputs[i].Blur()
		}
	}
	return m
}

func (m *appModel) refreshTable() {
	page := m.pager.Page + 1
	visible := service.VisiblePage(m.shows, page, m.sortState)

	rows := make([]table.Row, 0, len(visible))
	for _, show := range visible {
		notes := show.Notes
		if notes == "" {
			notes = "-"
		}
		rows = append(rows, table.Row{
			itoa(show.ShowID),
			show.MovieTitle,
			show.Theater,
			show.ShowDate,
			orDash(show.ShowTime),
			yn(show.Subtitles),
			yn(show.Imax),
			notes,
		})
	}
	m.showTable.SetColumns(showColumns(m.sortState))
	m.showTable.SetRows(rows)
	m.showTable.SetCursor(0)
}

// syncForm copies every input value into the typed form model.
func (m *appModel) syncForm() {
	for i := range m.formInputs {
		m.syncFormField(i)
	}
}

func (m *appModel) syncFormField(i int) {
	value := strings.TrimSpace(m.formInputs[i].Value())
	switch i {
	case focusMovieTitle:
		m.form.MovieTitle = value
	case focusTheater:
		m.form.Theater = value
	case focusShowDate:
		m.form.ShowDate = value
	case focusShowTime:
		m.form.ShowTime = value
	case focusTicketPrice:
		m.form.TicketPrice = value
	case focusNotes:
		m.form.Notes = m.formInputs[i].Value()
	}
}

func (m *appModel) resetForm() {
	m.form = model.ShowForm{}
	m.fieldErrors = map[string]string{}
	m.errorBanner = ""
	m.saved = nil
	m.resetFormInputs()
}

func (m *appModel) resetFormInputs() {
	m.form = model.ShowForm{}
	for i := range m.formInputs {
		m.formInputs[i].SetValue("")
	}
	m.formFocus = focusMovieTitle
	m.formInputs[focusMovieTitle].Focus()
	for i := focusTheater; i <= focusNotes; i++ {
		m.formInputs[i].Blur()
	}
}

func (m *appModel) resizePickers() {
	if m.width == 0 || m.height == 0 {
		return
	}
	h := m.height - 6
	if h < 6 {
		h = 6
	}
	m.moviePicker.SetSize(m.width, h)
	m.theaterPicker.SetSize(m.width, h)
}

func fieldKeyFor(focus int) (string, bool) {
	if focus >= 0 && focus < len(formFieldKeys) && formFieldKeys[focus] != "" {
		return formFieldKeys[focus], true
	}
	return "", false
}

type optionItem struct {
	value string
	hint  string
}

func (o optionItem) Title() string       { return o.value }
func (o optionItem) Description() string { return o.hint }
func (o optionItem) FilterValue() string { return strings.ToLower(o.value) }

func movieItems() []list.Item {
	items := make([]list.Item, 0, len(model.MovieOptions))
	for _, title := range model.MovieOptions {
		items = append(items, optionItem{value: title, hint: "Movie"})
	}
	return items
}

func theaterItems() []list.Item {
	items := make([]list.Item, 0, len(model.TheaterOptions))
	for _, name := range model.TheaterOptions {
		items = append(items, optionItem{value: name, hint: "Theater"})
	}
	return items
}

func newPicker(title string, items []list.Item) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	l := list.New(items, delegate, 0, 0)
	l.Title = title
	l.SetFilteringEnabled(true)
	l.SetShowFilter(true)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	return l
}
