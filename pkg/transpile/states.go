package transpile

import (
	"regexp"
	"strings"

	"github.com/aretw0/viewmig/pkg/literal"
)

var stateSeparator = regexp.MustCompile(`\s*,\s*`)

// StatesCondition renders a comma separated states list as the condition
// under which the element must be hidden.
func StatesCondition(states string) string {
	return "state not in " + literal.Repr(stateSeparator.Split(strings.TrimSpace(states), -1))
}

// CombineInvisible merges a legacy states list into an invisible expression.
//
// An empty states list returns the trimmed invisible expression. Otherwise
// the result hides the element when either condition holds. An invisible
// expression ending with a dangling connective is continued directly.
func CombineInvisible(invisible, states string) string {
	invisible = strings.TrimSpace(invisible)
	states = strings.TrimSpace(states)
	if states == "" {
		return invisible
	}
	cond := StatesCondition(states)
	switch {
	case invisible == "":
		return cond
	case strings.HasSuffix(invisible, " or"), strings.HasSuffix(invisible, " and"):
		return invisible + " " + cond
	}
	return "(" + invisible + ") or (" + cond + ")"
}
