package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jask/rfpbuilder/internal/api"
)

const alertCreateRFP = "Could not create RFP"

// rfpView owns the RFP collection and the create form.
type rfpView struct {
	ctx     context.Context
	backend Backend
	log     *zap.Logger

	title       textinput.Model
	description textarea.Model
	rfps        []api.RFP
	cursor      int
	creating    bool
	focus       focusTarget
}

func newRFPView(ctx context.Context, backend Backend, log *zap.Logger) *rfpView {
	title := textinput.New()
	title.Placeholder = "Title"
	title.Prompt = ""

	desc := textarea.New()
	desc.Placeholder = "Short description"
	desc.ShowLineNumbers = false
	desc.CharLimit = 0
	desc.SetHeight(2)

	return &rfpView{ctx: ctx, backend: backend, log: log, title: title, description: desc, focus: focusNone}
}

func (v *rfpView) load() tea.Cmd {
	backend, ctx := v.backend, v.ctx
	return func() tea.Msg {
		rfps, err := backend.ListRFPs(ctx)
		return rfpsLoadedMsg{rfps: rfps, err: err}
	}
}

// submit validates the title and issues the create request. The title is only
// trimmed for the check; the raw value is sent.
func (v *rfpView) submit() tea.Cmd {
	if v.creating {
		return nil
	}
	title := v.title.Value()
	if strings.TrimSpace(title) == "" {
		return nil
	}
	in := api.NewRFP{Title: title, Description: v.description.Value()}
	v.creating = true
	backend, ctx := v.backend, v.ctx
	return func() tea.Msg {
		return rfpCreatedMsg{err: backend.CreateRFP(ctx, in)}
	}
}

func (v *rfpView) selectCurrent() tea.Cmd {
	if len(v.rfps) == 0 {
		return nil
	}
	rfp := v.rfps[v.cursor]
	return func() tea.Msg { return rfpSelectedMsg{rfp: rfp} }
}

func (v *rfpView) setFocus(f focusTarget) tea.Cmd {
	v.focus = f
	v.title.Blur()
	v.description.Blur()
	switch f {
	case focusTitle:
		return v.title.Focus()
	case focusDescription:
		return v.description.Focus()
	}
	return nil
}

func (v *rfpView) setWidth(w int) {
	v.title.Width = w - 2
	v.description.SetWidth(w)
}

func (v *rfpView) update(msg tea.Msg) tea.Cmd {
	switch m := msg.(type) {
	case rfpsLoadedMsg:
		if m.err != nil {
			v.log.Warn("load rfps", zap.Error(m.err))
			return nil
		}
		v.rfps = m.rfps
		if v.cursor >= len(v.rfps) {
			v.cursor = 0
		}
	case rfpCreatedMsg:
		v.creating = false
		if m.err != nil {
			v.log.Error("create rfp", zap.Error(m.err))
			return raiseAlert(alertCreateRFP)
		}
		v.title.Reset()
		v.description.Reset()
		return v.load()
	}
	return nil
}

func (v *rfpView) handleKey(m tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	switch v.focus {
	case focusTitle:
		if m.Type == tea.KeyEnter {
			return v.submit()
		}
		v.title, cmd = v.title.Update(m)
	case focusDescription:
		v.description, cmd = v.description.Update(m)
	case focusRFPList:
		switch {
		case key.Matches(m, keys.Up):
			if v.cursor > 0 {
				v.cursor--
			}
		case key.Matches(m, keys.Down):
			if v.cursor < len(v.rfps)-1 {
				v.cursor++
			}
		case key.Matches(m, keys.Select):
			return v.selectCurrent()
		}
	}
	return cmd
}

func (v *rfpView) view(selected *api.RFP) string {
	label := "Create"
	if v.creating {
		label = "Creating..."
	}
	out := headerStyle.Render("Create RFP") + "\n"
	out += v.title.View() + "\n"
	out += v.description.View() + "\n"
	out += button(label, !v.creating, buttonStyle) + "\n\n"

	out += headerStyle.Render("Your RFPs") + "\n"
	if len(v.rfps) == 0 {
		return out + mutedStyle.Render("No RFPs yet. Create one above.")
	}
	for i, r := range v.rfps {
		marker := " "
		if v.focus == focusRFPList && i == v.cursor {
			marker = "▶"
		}
		line := r.Title
		if selected != nil && selected.ID == r.ID {
			line = selectedStyle.Render(line)
		}
		out += fmt.Sprintf("%s %s\n", marker, line)
		if r.Description != "" {
			out += "  " + mutedStyle.Render(clampLines(r.Description, 2)) + "\n"
		}
	}
	return strings.TrimRight(out, "\n")
}

func raiseAlert(text string) tea.Cmd {
	return func() tea.Msg { return alertMsg(text) }
}

// clampLines keeps at most n lines, marking the cut with an ellipsis.
func clampLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[:n], "\n") + "…"
}
