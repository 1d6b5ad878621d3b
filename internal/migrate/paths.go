package migrate

import (
	"errors"
	"fmt"
	"sort"
)

// Step names.
const (
	StepViews     = "views"
	StepTreeList  = "tree2list"
	StepManifests = "manifests"
)

// ErrUnsupportedPath is returned for a source version without a migration path.
var ErrUnsupportedPath = errors.New("unsupported migration path")

// Path is the list of steps that upgrade code from one major version to the next.
type Path struct {
	From  int
	To    int
	Steps []string
	// Notes are manual actions logged and reported after the automated steps.
	Notes []string
}

const updateAllNote = "Run Odoo with '--update=all' against the migrated database to complete the migration."

// Paths lists the supported migrations by source version.
var Paths = map[int]Path{
	15: {
		From: 15, To: 16,
		Notes: []string{
			"No automated code steps exist for this path. Run the OpenUpgrade scripts and refactor custom code by hand.",
			updateAllNote,
		},
	},
	16: {
		From: 16, To: 17,
		Steps: []string{StepViews},
		Notes: []string{updateAllNote},
	},
	17: {
		From: 17, To: 18,
		Steps: []string{StepTreeList, StepManifests},
		Notes: []string{updateAllNote},
	},
}

// PathFor returns the migration path starting at from.
func PathFor(from int) (Path, error) {
	p, ok := Paths[from]
	if !ok {
		return Path{}, fmt.Errorf("%w: from %d (supported: %v)", ErrUnsupportedPath, from, SupportedVersions())
	}
	return p, nil
}

// SupportedVersions returns the source versions with a migration path, ascending.
func SupportedVersions() []int {
	out := make([]int, 0, len(Paths))
	for v := range Paths {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}
