package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI installs the content constructors as globals:
//
//	Game { title = "...", start = "hall", ... }
//	Room "hall" { name = "Hall", exits = { north = "garden" }, ... }
//	Item "key" { name = "Key", location = "hall", ... }
//	NPC "owl" { name = "Owl", room = "tower", dialogue = { ... } }
//	Fragment "1" { location = "forge" }
//
// Constructors only record their tables; compile turns them into a world.
func registerAPI(L *lua.LState, coll *collector) {
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		coll.game = L.CheckTable(1)
		return 0
	}))
	L.SetGlobal("Room", curried(L, &coll.rooms))
	L.SetGlobal("Item", curried(L, &coll.items))
	L.SetGlobal("NPC", curried(L, &coll.npcs))
	L.SetGlobal("Fragment", curried(L, &coll.fragments))
}

// curried returns a constructor of the form Kind "id" { ... }: called with
// the id it returns a function that takes the definition table.
func curried(L *lua.LState, into *[]rawDef) *lua.LFunction {
	return L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			*into = append(*into, rawDef{id: id, table: L.CheckTable(1)})
			return 0
		}))
		return 1
	})
}
