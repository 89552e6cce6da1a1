package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pkordes/travel-log/backend/internal/capture/location"
	"github.com/pkordes/travel-log/backend/internal/capture/media"
	"github.com/pkordes/travel-log/backend/internal/capture/submit"
	"github.com/pkordes/travel-log/backend/internal/domain"
)

// focusField enumerates the form fields the user can cycle through with tab.
type focusField int

const (
	focusTitle focusField = iota
	focusDescription
	focusPhoto
	focusCount // sentinel for wrap-around
)

// model holds the state of the capture form.
type model struct {
	// Capture pipeline
	acquirer  *location.Acquirer
	collector *media.Collector
	client    *submit.Client

	// Form components
	title       textinput.Model
	description textarea.Model
	photoPath   textinput.Model
	focus       focusField

	// Session state
	coordinate *domain.Coordinate
	warning    string // fallback warning from the acquirer, if any
	status     string // transient status/error line
	acquiring  bool
	submitting bool
	done       bool
	created    domain.TravelLog
}

// Styles, forge-style: package-level lipgloss values reused across renders.
var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle   = lipgloss.NewStyle().Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	sectionStyle = lipgloss.NewStyle().MarginTop(1)
)

func newModel(acquirer *location.Acquirer, collector *media.Collector, client *submit.Client) model {
	title := textinput.New()
	title.Placeholder = "Trip to Bandung..."
	title.CharLimit = 50
	title.Focus()

	description := textarea.New()
	description.Placeholder = "Tell about the trip..."
	description.SetHeight(4)

	photoPath := textinput.New()
	photoPath.Placeholder = "path/to/photo.jpg (enter to attach)"

	return model{
		acquirer:    acquirer,
		collector:   collector,
		client:      client,
		title:       title,
		description: description,
		photoPath:   photoPath,
		focus:       focusTitle,
	}
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return textinput.Blink
}

// --- messages from async work ----------------------------------------------

type locationMsg struct {
	fix location.Fix
	err error
}

type submitMsg struct {
	created domain.TravelLog
	err     error
}

// acquireCmd runs the tiered location acquisition off the UI goroutine.
func (m model) acquireCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		fix, err := m.acquirer.Acquire(ctx)
		return locationMsg{fix: fix, err: err}
	}
}

// submitCmd builds and posts the draft off the UI goroutine.
func (m model) submitCmd(draft submit.Draft) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
		defer cancel()
		created, err := m.client.Submit(ctx, draft)
		return submitMsg{created: created, err: err}
	}
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "tab":
			m.setFocus((m.focus + 1) % focusCount)
			return m, nil

		case "ctrl+l":
			if m.acquiring || m.submitting {
				return m, nil
			}
			m.acquiring = true
			m.status = "acquiring location..."
			return m, m.acquireCmd()

		case "ctrl+s":
			if m.acquiring || m.submitting || m.done {
				return m, nil
			}
			draft := m.draft()
			if err := draft.Validate(); err != nil {
				m.status = errStyle.Render(userMessage(err))
				return m, nil
			}
			m.submitting = true
			m.status = "saving..."
			return m, m.submitCmd(draft)

		case "enter":
			if m.focus == focusPhoto {
				m.attachPhoto()
				return m, nil
			}
		}

	case locationMsg:
		m.acquiring = false
		if msg.err != nil {
			// Permission denial is the one case with no fallback coordinate.
			m.status = errStyle.Render("location permission denied")
			return m, nil
		}
		c := msg.fix.Coordinate
		m.coordinate = &c
		m.warning = msg.fix.Warning
		m.status = okStyle.Render(fmt.Sprintf("location: %.6f, %.6f", c.Latitude, c.Longitude))
		return m, nil

	case submitMsg:
		m.submitting = false
		if msg.err != nil {
			m.status = errStyle.Render(userMessage(msg.err))
			return m, nil
		}
		m.done = true
		m.created = msg.created
		return m, tea.Quit
	}

	// Forward everything else to the focused component.
	var cmd tea.Cmd
	switch m.focus {
	case focusTitle:
		m.title, cmd = m.title.Update(msg)
	case focusDescription:
		m.description, cmd = m.description.Update(msg)
	case focusPhoto:
		m.photoPath, cmd = m.photoPath.Update(msg)
	}
	return m, cmd
}

// setFocus moves keyboard focus to the given field.
func (m *model) setFocus(f focusField) {
	m.focus = f
	m.title.Blur()
	m.description.Blur()
	m.photoPath.Blur()
	switch f {
	case focusTitle:
		m.title.Focus()
	case focusDescription:
		m.description.Focus()
	case focusPhoto:
		m.photoPath.Focus()
	}
}

// attachPhoto adds the typed path to the collector as a gallery pick.
func (m *model) attachPhoto() {
	path := strings.TrimSpace(m.photoPath.Value())
	if path == "" {
		return
	}
	_, err := m.collector.AddFrom(context.Background(), media.FileSource{path})
	if err != nil {
		m.status = errStyle.Render(err.Error())
		return
	}
	m.photoPath.SetValue("")
	m.status = okStyle.Render(fmt.Sprintf("%d photo(s) attached", m.collector.Len()))
}

// draft snapshots the form into a submittable Draft.
func (m model) draft() submit.Draft {
	return submit.Draft{
		Title:       m.title.Value(),
		Description: m.description.Value(),
		Coordinate:  m.coordinate,
		Assets:      m.collector.Assets(),
	}
}

// View implements tea.Model.
func (m model) View() string {
	if m.done {
		return okStyle.Render(fmt.Sprintf("Saved! Log #%d with %d photo(s).\n", m.created.ID, len(m.created.Photos)))
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("New travel log"))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Title"))
	b.WriteString("\n" + m.title.View() + "\n")

	b.WriteString(sectionStyle.Render(labelStyle.Render("Description")))
	b.WriteString("\n" + m.description.View() + "\n")

	b.WriteString(sectionStyle.Render(labelStyle.Render("Photo")))
	b.WriteString("\n" + m.photoPath.View() + "\n")

	b.WriteString(sectionStyle.Render(m.locationLine()))
	b.WriteString("\n")
	if m.warning != "" {
		b.WriteString(warnStyle.Render("! "+m.warning) + "\n")
	}
	if m.status != "" {
		b.WriteString(m.status + "\n")
	}

	b.WriteString(hintStyle.Render("\ntab: next field • ctrl+l: location • ctrl+s: save • esc: quit\n"))
	return b.String()
}

// locationLine summarizes the acquired coordinate for the form.
func (m model) locationLine() string {
	if m.coordinate == nil {
		return labelStyle.Render("Location") + " (none, press ctrl+l)"
	}
	return labelStyle.Render("Location") + fmt.Sprintf(" %.6f, %.6f", m.coordinate.Latitude, m.coordinate.Longitude)
}

// userMessage strips the wrapping prefixes off an error, leaving the
// user-actionable part.
func userMessage(err error) string {
	msg := err.Error()
	for _, marker := range []string{"validation error: ", "storage failure: "} {
		if i := strings.LastIndex(msg, marker); i >= 0 {
			return msg[i+len(marker):]
		}
	}
	return msg
}

// coordinateOf builds a domain.Coordinate from flag values.
func coordinateOf(lat, lng float64) domain.Coordinate {
	return domain.Coordinate{Latitude: lat, Longitude: lng}
}
