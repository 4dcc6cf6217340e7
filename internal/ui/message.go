package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/qbx/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgOverviewFetched MsgKind = iota
	MsgSubmitted
)

type overviewPayload struct {
	overview *tasks.Overview
	err      error
}

type submitPayload struct {
	result *tasks.SubmitResult
	err    error
}

// overviewFetchedMsg is the constructor for [MsgOverviewFetched]
func overviewFetchedMsg(overview *tasks.Overview, err error) Msg {
	return Msg{kind: MsgOverviewFetched, data: overviewPayload{overview, err}}
}

// submittedMsg is the constructor for [MsgSubmitted]
func submittedMsg(result *tasks.SubmitResult, err error) Msg {
	return Msg{kind: MsgSubmitted, data: submitPayload{result, err}}
}
