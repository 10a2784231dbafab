package loader

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samber/oops"
	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/labyrinth/types"
)

// collector accumulates Lua definitions during file execution. Slices keep
// declaration order, which becomes the world's item and NPC order.
type collector struct {
	game      *lua.LTable
	rooms     []rawDef
	items     []rawDef
	npcs      []rawDef
	fragments []rawDef
}

// rawDef is one constructor call before compilation.
type rawDef struct {
	id    string
	table *lua.LTable
}

// loadLuaDir evaluates every .lua file in dir.
func loadLuaDir(dir string) (*types.World, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, oops.Wrapf(err, "read content directory %s", dir)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
			files = append(files, e.Name())
		}
	}
	if len(files) == 0 {
		return nil, oops.Errorf("no .lua files found in %s", dir)
	}
	return loadLuaFiles(dir, sortedLuaFiles(files))
}

// loadLuaFiles runs files from dir, in order, in one sandboxed VM and
// compiles what they declared.
func loadLuaFiles(dir string, files []string) (*types.World, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	openSafeLibs(L)
	sandbox(L)

	coll := &collector{}
	registerAPI(L, coll)

	for _, f := range files {
		if err := L.DoFile(filepath.Join(dir, f)); err != nil {
			return nil, oops.Wrapf(err, "execute %s", f)
		}
	}

	w, err := compile(coll)
	if err != nil {
		return nil, oops.Wrapf(err, "compile %s", dir)
	}
	return w, nil
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes globals that reach outside the content files.
func sandbox(L *lua.LState) {
	for _, name := range []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage", "require", "module",
	} {
		L.SetGlobal(name, lua.LNil)
	}
	// Content must not be able to reseed the shared random source.
	if tbl, ok := L.GetGlobal("math").(*lua.LTable); ok {
		tbl.RawSetString("randomseed", lua.LNil)
	}
}

// sortedLuaFiles puts game.lua first and the rest in name order.
func sortedLuaFiles(files []string) []string {
	var gameFile string
	var others []string
	for _, f := range files {
		if f == "game.lua" {
			gameFile = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if gameFile != "" {
		return append([]string{gameFile}, others...)
	}
	return others
}
