// Package section names the mutually exclusive regions of the single-page UI.
package section

import "strings"

// ID identifies one visible region. Exactly one is active at a time.
type ID string

const (
	Home      ID = "home"
	Upload    ID = "upload"
	Dashboard ID = "dashboard"
	About     ID = "about"
	Contact   ID = "contact"
)

// All lists the sections in navigation order.
var All = []ID{Home, Upload, Dashboard, About, Contact}

// Titles are the nav link captions.
var Titles = map[ID]string{
	Home:      "Home",
	Upload:    "Analyze",
	Dashboard: "Dashboard",
	About:     "About",
	Contact:   "Contact",
}

// FromFragment strips a leading '#' from an address fragment.
func FromFragment(fragment string) ID {
	return ID(strings.TrimPrefix(strings.TrimSpace(fragment), "#"))
}

// Fragment renders the address fragment for id.
func (id ID) Fragment() string {
	return "#" + string(id)
}

func (id ID) String() string { return string(id) }
