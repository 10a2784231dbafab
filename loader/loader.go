// Package loader builds the world from content: a directory of
// declarative Lua files, a YAML/JSON document in the game_config shape, or
// the built-in Labyrinth. Lua is evaluated once at load time in a sandbox
// and discarded; nothing scripted survives into the running game.
package loader

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/oops"

	"github.com/nathoo/labyrinth/engine/script"
	"github.com/nathoo/labyrinth/types"
)

// DefaultThreshold is how many crystal fragments the altar needs when
// neither the content nor the caller names a number.
const DefaultThreshold = 5

// Options tunes a load.
type Options struct {
	// Threshold overrides the content's restoration threshold when > 0.
	Threshold int
}

// Content is a loaded world and the room scripts that go with it.
type Content struct {
	World   *types.World
	Scripts *script.Table
}

// Load reads content from path. A directory or a .lua file is evaluated
// as Lua; .yaml, .yml and .json files are decoded as a game_config
// document. The result is validated before it is returned.
func Load(path string, opts Options) (*Content, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, oops.Wrapf(err, "open content %s", path)
	}

	var w *types.World
	switch ext := strings.ToLower(filepath.Ext(path)); {
	case fi.IsDir():
		w, err = loadLuaDir(path)
	case ext == ".lua":
		w, err = loadLuaFiles(filepath.Dir(path), []string{filepath.Base(path)})
	case ext == ".yaml" || ext == ".yml" || ext == ".json":
		w, err = loadDocument(path)
	default:
		return nil, oops.Errorf("unsupported content file %s", path)
	}
	if err != nil {
		return nil, err
	}

	applyThreshold(w, opts)
	if err := Validate(w); err != nil {
		return nil, oops.Wrapf(err, "validate %s", path)
	}
	slog.Info("content loaded", "path", path, "rooms", len(w.Rooms), "items", len(w.Items), "npcs", len(w.NPCs))
	return &Content{World: w, Scripts: Scripts(w)}, nil
}

// LoadOrBuiltin loads path, falling back to the built-in world when path
// is empty or the content cannot be loaded.
func LoadOrBuiltin(path string, opts Options) *Content {
	if path == "" {
		return Builtin(opts)
	}
	c, err := Load(path, opts)
	if err != nil {
		slog.Warn("content failed to load, using the built-in world", "path", path, "error", err)
		return Builtin(opts)
	}
	return c
}

func applyThreshold(w *types.World, opts Options) {
	switch {
	case opts.Threshold > 0:
		w.RestorationThreshold = opts.Threshold
	case w.RestorationThreshold <= 0:
		w.RestorationThreshold = DefaultThreshold
	}
}
