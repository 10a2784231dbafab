// Package parser converts command strings into Intent structs.
// Intentionally dumb: case folding, two multi-word verbs, then verb + rest.
package parser

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/nathoo/labyrinth/types"
)

// multiWordVerbs are recognized by prefix before the input is split.
var multiWordVerbs = []struct {
	prefix string
	verb   string
}{
	{"look at ", "examine"},
	{"pick up ", "take"},
}

// Parse converts a raw command string into an Intent. Every input yields
// some intent; blank input yields an empty one.
func Parse(input string) types.Intent {
	input = strings.TrimSpace(cases.Fold().String(input))
	if input == "" {
		return types.Intent{}
	}

	for _, mw := range multiWordVerbs {
		if strings.HasPrefix(input, mw.prefix) {
			return types.Intent{Verb: mw.verb, Object: input[len(mw.prefix):]}
		}
	}

	verb, rest, found := strings.Cut(input, " ")
	if !found {
		return types.Intent{Verb: verb}
	}
	return types.Intent{Verb: verb, Object: rest}
}
