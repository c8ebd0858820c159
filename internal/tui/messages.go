package tui

import "github.com/jask/rfpbuilder/internal/api"

// messages
type rfpsLoadedMsg struct {
	rfps []api.RFP
	err  error
}

type rfpCreatedMsg struct{ err error }

// rfpSelectedMsg carries a selection from the RFP list up to the shell.
type rfpSelectedMsg struct{ rfp api.RFP }

// sectionsLoadedMsg is tagged with the RFP it was requested for so responses
// for a superseded selection can be dropped.
type sectionsLoadedMsg struct {
	rfpID    api.ID
	sections []api.Section
	err      error
}

type sectionCreatedMsg struct{ err error }

type generatedMsg struct {
	text string
	err  error
}

// alertMsg asks the shell to open a blocking dialog.
type alertMsg string
