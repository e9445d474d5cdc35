// Package startingpoint converts between LC starting-point menu
// configuration JSON and the relational shape/row model. Menu groups are
// stored as ordinary shapes under a reserved naming convention; a
// synthetic index shape holds the canonical display order of the groups.
package startingpoint

// ConfigType marks a starting-points document.
const ConfigType = "startingPoints"

// Document is the single entry of a starting-points file.
type Document struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	ConfigType string      `json:"configType"`
	JSON       []MenuGroup `json:"json"`
}

// MenuGroup is one titled group of menu items.
type MenuGroup struct {
	MenuGroup string     `json:"menuGroup"`
	MenuItems []MenuItem `json:"menuItems"`
}

// MenuItem is one resource-template shortcut within a group.
type MenuItem struct {
	Label                string   `json:"label"`
	Type                 []string `json:"type"`
	UseResourceTemplates []string `json:"useResourceTemplates"`
}
