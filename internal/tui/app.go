package tui

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/jask/rfpbuilder/internal/api"
)

const placeholderText = "Select or create an RFP to start editing sections."

// Backend is the subset of the api client the views call.
type Backend interface {
	ListRFPs(ctx context.Context) ([]api.RFP, error)
	CreateRFP(ctx context.Context, in api.NewRFP) error
	ListSections(ctx context.Context, rfpID api.ID) ([]api.Section, error)
	CreateSection(ctx context.Context, in api.NewSection) error
	Generate(ctx context.Context, in api.GenerateRequest) (string, error)
}

// Options carries editor defaults and hooks.
type Options struct {
	BackendURL     string
	DefaultHeading string
	DefaultTone    api.Tone
	// SaveTone persists the tone after the user changes it. Optional.
	SaveTone func(api.Tone) error
}

type focusTarget int

const (
	focusNone focusTarget = iota
	focusTitle
	focusDescription
	focusRFPList
	focusTone
	focusHeading
	focusOrder
	focusContent
)

// App is the root shell. It owns the selected RFP, focus, and the blocking
// alert dialog, and composes the RFP list and the section editor side by side.
type App struct {
	log        *zap.Logger
	backendURL string

	rfps     *rfpView
	sections *sectionView
	selected *api.RFP

	focus  focusTarget
	alerts []string
	width  int
}

func New(ctx context.Context, backend Backend, log *zap.Logger, opts Options) *App {
	if log == nil {
		log = zap.NewNop()
	}
	a := &App{
		log:        log,
		backendURL: opts.BackendURL,
		rfps:       newRFPView(ctx, backend, log),
		sections:   newSectionView(ctx, backend, log, opts),
	}
	a.setFocus(focusTitle)
	return a
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.rfps.load(), textinput.Blink)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		return a, a.handleKey(m)
	case tea.WindowSizeMsg:
		a.width = m.Width
		pane := a.paneWidth()
		a.rfps.setWidth(pane)
		a.sections.setWidth(pane)
		return a, nil
	case alertMsg:
		a.log.Debug("alert", zap.String("text", string(m)), zap.Int("queued", len(a.alerts)))
		a.alerts = append(a.alerts, string(m))
		return a, nil
	case rfpSelectedMsg:
		a.selected = &m.rfp
		return a, a.sections.setRFP(m.rfp)
	case rfpsLoadedMsg, rfpCreatedMsg:
		return a, a.rfps.update(msg)
	case sectionsLoadedMsg, sectionCreatedMsg, generatedMsg:
		return a, a.sections.update(msg)
	}
	// cursor blink and other component messages
	return a, a.forward(msg)
}

func (a *App) handleKey(m tea.KeyMsg) tea.Cmd {
	if key.Matches(m, keys.Quit) {
		return tea.Quit
	}
	// the alert swallows everything but its own dismissal
	if len(a.alerts) > 0 {
		if key.Matches(m, keys.Dismiss) {
			a.alerts = a.alerts[1:]
		}
		return nil
	}
	switch {
	case key.Matches(m, keys.Next):
		return a.setFocus(a.nextFocus(1))
	case key.Matches(m, keys.Prev):
		return a.setFocus(a.nextFocus(-1))
	case key.Matches(m, keys.Save):
		if a.inEditor() {
			return a.sections.submit()
		}
		return a.rfps.submit()
	case key.Matches(m, keys.Generate):
		if a.selected == nil {
			return nil
		}
		return a.sections.generate()
	case key.Matches(m, keys.Tone):
		if a.selected == nil {
			return nil
		}
		return a.sections.setTone(a.sections.tone.Next())
	}
	if a.inEditor() {
		return a.sections.handleKey(m)
	}
	return a.rfps.handleKey(m)
}

func (a *App) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.focus {
	case focusTitle:
		a.rfps.title, cmd = a.rfps.title.Update(msg)
	case focusDescription:
		a.rfps.description, cmd = a.rfps.description.Update(msg)
	case focusHeading:
		a.sections.heading, cmd = a.sections.heading.Update(msg)
	case focusOrder:
		a.sections.order, cmd = a.sections.order.Update(msg)
	case focusContent:
		a.sections.content, cmd = a.sections.content.Update(msg)
	}
	return cmd
}

func (a *App) inEditor() bool { return a.focus >= focusTone }

// focusCycle lists the reachable focus targets. Editor fields only exist once
// an RFP is selected.
func (a *App) focusCycle() []focusTarget {
	order := []focusTarget{focusTitle, focusDescription, focusRFPList}
	if a.selected != nil {
		order = append(order, focusTone, focusHeading, focusOrder, focusContent)
	}
	return order
}

func (a *App) nextFocus(step int) focusTarget {
	order := a.focusCycle()
	for i, f := range order {
		if f == a.focus {
			return order[(i+step+len(order))%len(order)]
		}
	}
	return order[0]
}

func (a *App) setFocus(f focusTarget) tea.Cmd {
	a.focus = f
	rf, sf := focusNone, focusNone
	if f >= focusTone {
		sf = f
	} else {
		rf = f
	}
	return tea.Batch(a.rfps.setFocus(rf), a.sections.setFocus(sf))
}

func (a *App) paneWidth() int {
	if a.width <= 0 {
		return 48
	}
	w := a.width/2 - paneStyle.GetHorizontalFrameSize() - 1
	if w < 20 {
		w = 20
	}
	return w
}

func (a *App) View() string {
	width := a.paneWidth()

	left := paneStyle
	right := paneStyle
	if a.inEditor() {
		right = focusStyle
	} else {
		left = focusStyle
	}

	var editor string
	if a.selected == nil {
		editor = mutedStyle.Render(placeholderText)
	} else {
		editor = a.sections.view(width)
	}

	header := titleStyle.Render("AI RFP Builder")
	if a.backendURL != "" {
		header += "  " + mutedStyle.Render(a.backendURL)
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		left.Width(width).Render(a.rfps.view(a.selected)),
		right.Width(width).Render(editor),
	)
	footer := footerStyle.Render(helpLine(keys.Next, keys.Save, keys.Generate, keys.Tone, keys.Select, keys.Quit))

	out := header + "\n" + body + "\n" + footer
	if len(a.alerts) > 0 {
		out += "\n\n" + a.renderAlert()
	}
	return out
}

func (a *App) renderAlert() string {
	text := a.alerts[0]
	if n := len(a.alerts) - 1; n > 0 {
		text += mutedStyle.Render("  (+" + strconv.Itoa(n) + " more)")
	}
	return modalStyle.Render(headerStyle.Render("Error") + "\n" + text + "\n" + mutedStyle.Render(helpLine(keys.Dismiss)))
}

// spread places left and right at opposite ends of width.
func spread(left, right string, width int) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}
