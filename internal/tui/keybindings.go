// Package tui: keyboard binding configuration.
package tui

// Keymap defines all keyboard shortcuts for the watch dashboard.
type Keymap struct {
	Quit     string
	NavUp    string
	NavDown  string
	Select   string
	Back     string
	Restart  string
	Releases string
	Prune    string
	Refresh  string
}

// defaultKeymap returns the default key bindings.
func defaultKeymap() Keymap {
	return Keymap{
		Quit:     "q",
		NavUp:    "up",
		NavDown:  "down",
		Select:   "enter",
		Back:     "esc",
		Restart:  "r",
		Releases: "l",
		Prune:    "p",
		Refresh:  "g",
	}
}

// helpLine is the footer shortcut reference.
const helpLine = "↑↓ select · r restart · l releases · enter switch · p prune · g refresh · q quit"
