package tui

import (
	"context"
	"strconv"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jask/rfpbuilder/internal/api"
)

// fakeBackend records every call and serves an in-memory store.
type fakeBackend struct {
	mu sync.Mutex

	rfps     []api.RFP
	sections map[string][]api.Section

	listCalls      int
	sectionQueries []api.ID
	createdRFPs    []api.NewRFP
	createdSecs    []api.NewSection
	generateReqs   []api.GenerateRequest

	listErr          error
	listSectionsErr  error
	createRFPErr     error
	createSectionErr error
	generateErr      error
	generateText     string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{sections: map[string][]api.Section{}}
}

func (f *fakeBackend) ListRFPs(ctx context.Context) ([]api.RFP, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]api.RFP(nil), f.rfps...), nil
}

func (f *fakeBackend) CreateRFP(ctx context.Context, in api.NewRFP) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createdRFPs = append(f.createdRFPs, in)
	if f.createRFPErr != nil {
		return f.createRFPErr
	}
	f.rfps = append(f.rfps, api.RFP{ID: api.NumericID(int64(len(f.rfps) + 1)), Title: in.Title, Description: in.Description})
	return nil
}

func (f *fakeBackend) ListSections(ctx context.Context, rfpID api.ID) ([]api.Section, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sectionQueries = append(f.sectionQueries, rfpID)
	if f.listSectionsErr != nil {
		return nil, f.listSectionsErr
	}
	return append([]api.Section(nil), f.sections[rfpID.String()]...), nil
}

func (f *fakeBackend) CreateSection(ctx context.Context, in api.NewSection) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createdSecs = append(f.createdSecs, in)
	if f.createSectionErr != nil {
		return f.createSectionErr
	}
	key := in.RFPID.String()
	f.sections[key] = append(f.sections[key], api.Section{
		ID:      api.StringID("s" + strconv.Itoa(len(f.createdSecs))),
		RFPID:   in.RFPID,
		Heading: in.Heading,
		Content: in.Content,
		Order:   in.Order,
	})
	return nil
}

func (f *fakeBackend) Generate(ctx context.Context, in api.GenerateRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.generateReqs = append(f.generateReqs, in)
	if f.generateErr != nil {
		return "", f.generateErr
	}
	return f.generateText, nil
}

func newTestApp(t *testing.T, backend *fakeBackend) *App {
	t.Helper()
	return New(context.Background(), backend, zap.NewNop(), Options{
		BackendURL:     "http://localhost:8000",
		DefaultHeading: "Executive Summary",
		DefaultTone:    api.ToneProfessional,
	})
}

// drain runs cmd and feeds its result back through Update until the chain
// ends. Only this package's messages are fed back; component ticks such as
// cursor blinks stop the chain.
func drain(t *testing.T, a *App, cmd tea.Cmd) {
	t.Helper()
	for cmd != nil {
		msg := cmd()
		switch msg.(type) {
		case rfpsLoadedMsg, rfpCreatedMsg, rfpSelectedMsg,
			sectionsLoadedMsg, sectionCreatedMsg, generatedMsg, alertMsg:
		default:
			return
		}
		_, cmd = a.Update(msg)
	}
}

func press(a *App, k string) tea.Cmd {
	_, cmd := a.Update(keyMsg(k))
	return cmd
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+g":
		return tea.KeyMsg{Type: tea.KeyCtrlG}
	case "ctrl+t":
		return tea.KeyMsg{Type: tea.KeyCtrlT}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func selectRFP(t *testing.T, a *App, rfp api.RFP) {
	t.Helper()
	_, cmd := a.Update(rfpSelectedMsg{rfp: rfp})
	drain(t, a, cmd)
}

// testContext mirrors testing.T.Context (Go 1.24+): it is canceled when the
// test finishes.
func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
