package tui

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jask/rfpbuilder/internal/api"
)

const (
	alertCreateSection = "Could not create section"
	alertGenerate      = "Generation failed"
	alertDraftAltered  = "Generated text could not be shown exactly. Save without editing to keep the original."
)

var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// sectionView edits the sections of the selected RFP. Its list is keyed on the
// selected RFP id; the form fields survive selection changes.
type sectionView struct {
	ctx      context.Context
	backend  Backend
	log      *zap.Logger
	saveTone func(api.Tone) error

	rfp      *api.RFP
	sections []api.Section

	heading textinput.Model
	order   textinput.Model
	content textarea.Model
	tone    api.Tone

	// saving and generating are tracked separately but either one blocks both
	// actions.
	saving     bool
	generating bool
	focus      focusTarget

	// draft is the last generated text verbatim; shown is what the textarea
	// holds for it. An untouched draft is saved as draft.
	draft, shown string
	hasDraft     bool
}

func newSectionView(ctx context.Context, backend Backend, log *zap.Logger, opts Options) *sectionView {
	heading := textinput.New()
	heading.Placeholder = "Section heading"
	heading.Prompt = ""
	heading.SetValue(opts.DefaultHeading)

	order := textinput.New()
	order.Placeholder = "Order"
	order.Prompt = ""
	order.Width = 8
	order.SetValue("0")

	content := textarea.New()
	content.Placeholder = "Section content (you can edit or use AI)"
	content.ShowLineNumbers = false
	content.CharLimit = 0
	content.MaxHeight = 0
	content.SetHeight(8)

	tone := opts.DefaultTone
	if !tone.Valid() {
		tone = api.ToneProfessional
	}

	return &sectionView{
		ctx:      ctx,
		backend:  backend,
		log:      log,
		saveTone: opts.SaveTone,
		heading:  heading,
		order:    order,
		content:  content,
		tone:     tone,
		focus:    focusNone,
	}
}

func (v *sectionView) busy() bool { return v.saving || v.generating }

// setRFP switches the editor to rfp. A change of id clears the visible list
// and reloads it; the same id only refreshes the stored record.
func (v *sectionView) setRFP(rfp api.RFP) tea.Cmd {
	changed := v.rfp == nil || v.rfp.ID != rfp.ID
	v.rfp = &rfp
	if !changed {
		return nil
	}
	v.sections = nil
	return v.load()
}

func (v *sectionView) load() tea.Cmd {
	if v.rfp == nil {
		return nil
	}
	backend, ctx, id := v.backend, v.ctx, v.rfp.ID
	return func() tea.Msg {
		sections, err := backend.ListSections(ctx, id)
		return sectionsLoadedMsg{rfpID: id, sections: sections, err: err}
	}
}

func (v *sectionView) submit() tea.Cmd {
	if v.rfp == nil || v.busy() {
		return nil
	}
	heading := v.heading.Value()
	if strings.TrimSpace(heading) == "" {
		return nil
	}
	content := v.content.Value()
	if v.hasDraft && content == v.shown {
		content = v.draft
	}
	in := api.NewSection{
		RFPID:   v.rfp.ID,
		Heading: heading,
		Content: content,
		Order:   coerceOrder(v.order.Value()),
	}
	v.saving = true
	backend, ctx := v.backend, v.ctx
	return func() tea.Msg {
		return sectionCreatedMsg{err: backend.CreateSection(ctx, in)}
	}
}

// generate asks the backend for draft text. The reply replaces the content
// field wholesale.
func (v *sectionView) generate() tea.Cmd {
	if v.rfp == nil || v.busy() {
		return nil
	}
	req := api.GenerateRequest{
		RFPTitle:       v.rfp.Title,
		SectionHeading: v.heading.Value(),
		Context:        v.content.Value(),
		Tone:           v.tone,
	}
	v.generating = true
	backend, ctx := v.backend, v.ctx
	return func() tea.Msg {
		text, err := backend.Generate(ctx, req)
		return generatedMsg{text: text, err: err}
	}
}

func (v *sectionView) setTone(t api.Tone) tea.Cmd {
	v.tone = t
	if v.saveTone == nil {
		return nil
	}
	save, log := v.saveTone, v.log
	return func() tea.Msg {
		if err := save(t); err != nil {
			log.Warn("save tone preference", zap.Error(err))
		}
		return nil
	}
}

func (v *sectionView) setFocus(f focusTarget) tea.Cmd {
	v.focus = f
	v.heading.Blur()
	v.order.Blur()
	v.content.Blur()
	switch f {
	case focusHeading:
		return v.heading.Focus()
	case focusOrder:
		return v.order.Focus()
	case focusContent:
		return v.content.Focus()
	}
	return nil
}

func (v *sectionView) setWidth(w int) {
	v.heading.Width = w - 2
	v.content.SetWidth(w)
}

func (v *sectionView) update(msg tea.Msg) tea.Cmd {
	switch m := msg.(type) {
	case sectionsLoadedMsg:
		if v.rfp == nil || m.rfpID != v.rfp.ID {
			v.log.Debug("discard stale sections", zap.Stringer("rfp_id", m.rfpID))
			return nil
		}
		if m.err != nil {
			v.log.Warn("load sections", zap.Stringer("rfp_id", m.rfpID), zap.Error(m.err))
			return nil
		}
		v.sections = m.sections
	case sectionCreatedMsg:
		v.saving = false
		if m.err != nil {
			v.log.Error("create section", zap.Error(m.err))
			return raiseAlert(alertCreateSection)
		}
		v.heading.Reset()
		v.content.Reset()
		v.order.SetValue("0")
		v.clearDraft()
		return v.load()
	case generatedMsg:
		v.generating = false
		if m.err != nil {
			v.log.Error("generate", zap.Error(m.err))
			return raiseAlert(alertGenerate)
		}
		return v.setDraft(m.text)
	}
	return nil
}

// setDraft puts generated text into the content field. The textarea drops
// control characters, expands tabs and caps the line count; when that changes
// the text the user is told, and an unedited field still saves the original.
func (v *sectionView) setDraft(text string) tea.Cmd {
	want := newlines.Replace(text)
	v.content.SetValue(want)
	v.draft, v.shown, v.hasDraft = text, v.content.Value(), true
	if v.shown == want {
		return nil
	}
	v.log.Warn("generated text altered by editor",
		zap.Int("bytes", len(want)),
		zap.Int("shown_bytes", len(v.shown)))
	return raiseAlert(alertDraftAltered)
}

func (v *sectionView) clearDraft() {
	v.draft, v.shown, v.hasDraft = "", "", false
}

func (v *sectionView) handleKey(m tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	switch v.focus {
	case focusTone:
		switch {
		case key.Matches(m, keys.Left):
			return v.setTone(v.tone.Prev())
		case key.Matches(m, keys.Right):
			return v.setTone(v.tone.Next())
		}
	case focusHeading:
		if m.Type == tea.KeyEnter {
			return v.submit()
		}
		v.heading, cmd = v.heading.Update(m)
	case focusOrder:
		if m.Type == tea.KeyEnter {
			return v.submit()
		}
		v.order, cmd = v.order.Update(m)
	case focusContent:
		v.content, cmd = v.content.Update(m)
	}
	return cmd
}

func (v *sectionView) view(width int) string {
	left := headerStyle.Render("Sections for: " + v.rfp.Title)
	right := mutedStyle.Render(fmt.Sprintf("%d items", len(v.sections)))
	out := spread(left, right, width) + "\n"
	for _, s := range v.sections {
		out += fmt.Sprintf("%d. %s\n", s.Order, s.Heading)
		if s.Content != "" {
			out += mutedStyle.Render(clampLines(s.Content, 3)) + "\n"
		}
	}
	if len(v.sections) == 0 {
		out += mutedStyle.Render("No sections yet. Add one below.") + "\n"
	}

	tone := "Tone: " + v.tone.Label()
	if v.focus == focusTone {
		tone = selectedStyle.Render("Tone: ◀ " + v.tone.Label() + " ▶")
	}
	genLabel := "AI Generate"
	if v.generating {
		genLabel = "Generating..."
	}
	saveLabel := "Save Section"
	if v.saving {
		saveLabel = "Saving..."
	}

	out += "\n" + spread(headerStyle.Render("Add / Edit Section"), tone, width) + "\n"
	out += v.heading.View() + "\n"
	out += "Order: " + v.order.View() + "  " + button(genLabel, !v.busy(), buttonStyle) + "\n"
	out += v.content.View() + "\n"
	out += button(saveLabel, !v.busy(), saveStyle)
	return out
}

// coerceOrder reads the order field as a number, falling back to 0 for
// anything non-numeric or out of range. Fractions are truncated.
func coerceOrder(s string) int {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return 0
	}
	return int(f)
}
