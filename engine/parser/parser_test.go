package parser

import (
	"testing"

	"github.com/nathoo/labyrinth/types"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  types.Intent
	}{
		// Empty / whitespace
		{
			name:  "empty string",
			input: "",
			want:  types.Intent{},
		},
		{
			name:  "whitespace only",
			input: "   ",
			want:  types.Intent{},
		},

		// Bare verbs
		{
			name:  "look",
			input: "look",
			want:  types.Intent{Verb: "look"},
		},
		{
			name:  "direction stays a verb",
			input: "n",
			want:  types.Intent{Verb: "n"},
		},

		// Multi-word verbs
		{
			name:  "look at → examine, mixed case",
			input: "Look At rusty key",
			want:  types.Intent{Verb: "examine", Object: "rusty key"},
		},
		{
			name:  "pick up → take, upper case",
			input: "PICK UP key",
			want:  types.Intent{Verb: "take", Object: "key"},
		},
		{
			name:  "look without at is a plain verb",
			input: "look around",
			want:  types.Intent{Verb: "look", Object: "around"},
		},
		{
			name:  "pick without up is a plain verb",
			input: "pick lock",
			want:  types.Intent{Verb: "pick", Object: "lock"},
		},

		// Verb + object
		{
			name:  "take key",
			input: "take key",
			want:  types.Intent{Verb: "take", Object: "key"},
		},
		{
			name:  "multi-word object kept whole",
			input: "use large gear",
			want:  types.Intent{Verb: "use", Object: "large gear"},
		},
		{
			name:  "prepositions are not split",
			input: "use key on door",
			want:  types.Intent{Verb: "use", Object: "key on door"},
		},
		{
			name:  "articles are kept",
			input: "take the key",
			want:  types.Intent{Verb: "take", Object: "the key"},
		},
		{
			name:  "only one separating space trimmed",
			input: "take  key",
			want:  types.Intent{Verb: "take", Object: " key"},
		},
		{
			name:  "surrounding whitespace trimmed",
			input: "  activate blue  ",
			want:  types.Intent{Verb: "activate", Object: "blue"},
		},

		// Case folding is total
		{
			name:  "shouting",
			input: "EXAMINE RUNED COMPASS",
			want:  types.Intent{Verb: "examine", Object: "runed compass"},
		},
		{
			name:  "unicode folding",
			input: "Take ÉCHO",
			want:  types.Intent{Verb: "take", Object: "écho"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}
