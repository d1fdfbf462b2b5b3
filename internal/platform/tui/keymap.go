package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/minecart/internal/core"
)

// RideKeyMap defines the key bindings during a ride.
type RideKeyMap struct {
	Throttle   key.Binding
	Pause      key.Binding
	Restart    key.Binding
	Screenshot key.Binding
	Quit       key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k RideKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Throttle, k.Pause, k.Restart, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k RideKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Throttle, k.Pause},
		{k.Restart, k.Screenshot, k.Quit},
	}
}

// DefaultRideKeyMap returns default key bindings.
func DefaultRideKeyMap() RideKeyMap {
	return RideKeyMap{
		Throttle: key.NewBinding(
			key.WithKeys("right", "up", " ", "d", "w"),
			key.WithHelp("→/space", "throttle"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p", "esc"),
			key.WithHelp("p", "pause"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "new ride"),
		),
		Screenshot: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "screenshot"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// MapKey translates a key message to a ride action.
func (k RideKeyMap) MapKey(msg tea.KeyMsg) core.Action {
	switch {
	case key.Matches(msg, k.Quit):
		return core.ActionQuit
	case key.Matches(msg, k.Throttle):
		return core.ActionThrottle
	case key.Matches(msg, k.Pause):
		return core.ActionPause
	case key.Matches(msg, k.Restart):
		return core.ActionRestart
	}
	return core.ActionNone
}

// MapKeyToFrame updates an input frame from a key message.
// Returns true if the key was a quit request.
func (k RideKeyMap) MapKeyToFrame(msg tea.KeyMsg, frame *core.InputFrame) bool {
	action := k.MapKey(msg)
	if action == core.ActionQuit {
		return true
	}
	if action != core.ActionNone {
		frame.Set(action)
	}
	return false
}
