package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"platenav/internal/plate"
)

type (
	warnMsg    string
	moveErrMsg struct{ err error }
	areasMsg   []plate.ForbiddenArea
)

// Events carries navigator callbacks, some of which fire on the move
// goroutine, back into the bubbletea update loop.
type Events struct {
	ch chan tea.Msg
}

// NewEvents returns an empty hub.
func NewEvents() *Events {
	return &Events{ch: make(chan tea.Msg, 32)}
}

// Warn is a navigator OnWarning hook.
func (e *Events) Warn(msg string) { e.push(warnMsg(msg)) }

// MoveFailed is a navigator OnMoveError hook.
func (e *Events) MoveFailed(err error) { e.push(moveErrMsg{err: err}) }

// push never blocks the UI goroutine; a full queue drops the event.
func (e *Events) push(msg tea.Msg) {
	select {
	case e.ch <- msg:
	default:
	}
}

func (e *Events) wait() tea.Cmd {
	return func() tea.Msg { return <-e.ch }
}
