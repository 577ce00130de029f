// Package fragments provides template name constants for the page and its HTMX fragments
package fragments

// Template names the server executes
const (
	// Full page layout
	Index = "index.html"

	// Everything below <body>; the target of every HTMX swap
	App = "app"

	// Out-of-band refresh of the timer-driven regions
	State = "state"
)
