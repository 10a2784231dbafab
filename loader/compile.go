package loader

import (
	"math"
	"strconv"
	"strings"

	"github.com/samber/oops"
	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/labyrinth/engine/state"
	"github.com/nathoo/labyrinth/types"
)

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	if s, ok := tbl.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getInt returns a numeric field from a Lua table as an int, or 0.
func getInt(tbl *lua.LTable, key string) int {
	if n, ok := tbl.RawGetString(key).(lua.LNumber); ok {
		return int(n)
	}
	return 0
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	if t, ok := tbl.RawGetString(key).(*lua.LTable); ok {
		return t
	}
	return nil
}

// stringList reads a string or an array of strings.
func stringList(v lua.LValue) []string {
	switch val := v.(type) {
	case lua.LString:
		return []string{string(val)}
	case *lua.LTable:
		var out []string
		for i := 1; i <= val.MaxN(); i++ {
			if s, ok := val.RawGetInt(i).(lua.LString); ok {
				out = append(out, string(s))
			}
		}
		return out
	}
	return nil
}

// truthy reads a flag value: booleans as they are, numbers as non-zero.
func truthy(v lua.LValue) (bool, bool) {
	switch val := v.(type) {
	case lua.LBool:
		return bool(val), true
	case lua.LNumber:
		return val != 0, true
	}
	return false, false
}

// flatten renders a Lua value as an item property string. Arrays are
// comma-joined.
func flatten(v lua.LValue) string {
	switch val := v.(type) {
	case lua.LBool:
		return strconv.FormatBool(bool(val))
	case lua.LNumber:
		f := float64(val)
		if f == math.Trunc(f) {
			return strconv.FormatInt(int64(f), 10)
		}
		return strconv.FormatFloat(f, 'g', -1, 64)
	case lua.LString:
		return string(val)
	case *lua.LTable:
		parts := make([]string, 0, val.MaxN())
		for i := 1; i <= val.MaxN(); i++ {
			parts = append(parts, flatten(val.RawGetInt(i)))
		}
		return strings.Join(parts, ",")
	}
	return ""
}

// compile converts everything the content declared into a world.
func compile(coll *collector) (*types.World, error) {
	if coll.game == nil {
		return nil, oops.Errorf("no Game{} definition found")
	}
	w := compileGame(coll.game)

	for _, raw := range coll.rooms {
		room, err := compileRoom(raw)
		if err != nil {
			return nil, oops.Wrapf(err, "room %s", raw.id)
		}
		state.AddRoom(w, room)
	}
	for _, raw := range coll.items {
		state.AddItem(w, compileItem(raw))
	}
	for _, raw := range coll.fragments {
		it := fragment(raw.id)
		it.Name = orDefault(getString(raw.table, "name"), it.Name)
		it.Description = orDefault(getString(raw.table, "description"), it.Description)
		it.Location = getString(raw.table, "location")
		state.AddItem(w, it)
	}
	for _, raw := range coll.npcs {
		state.AddNPC(w, compileNPC(raw, w.Start))
	}
	return w, nil
}

func compileGame(tbl *lua.LTable) *types.World {
	w := state.NewWorld(getString(tbl, "title"))
	w.Description = orDefault(getString(tbl, "description"), DefaultWorldDescription)
	w.Intro = getString(tbl, "intro")
	w.Start = getString(tbl, "start")
	w.StartInventory = stringList(tbl.RawGetString("inventory"))
	if n := getInt(tbl, "health"); n > 0 {
		w.PlayerHealth = n
	}
	if n := getInt(tbl, "inventory_size"); n > 0 {
		w.InventorySize = n
	}
	w.DayCycle = orDefault(getString(tbl, "day_cycle"), w.DayCycle)
	w.Weather = orDefault(getString(tbl, "weather"), w.Weather)
	w.RestorationThreshold = getInt(tbl, "threshold")

	if flags := getTable(tbl, "flags"); flags != nil {
		flags.ForEach(func(k, v lua.LValue) {
			name, ok := k.(lua.LString)
			if !ok {
				return
			}
			if on, ok := truthy(v); ok {
				state.SetFlag(w, string(name), on)
			}
		})
	}
	return w
}

func compileRoom(raw rawDef) (*types.Room, error) {
	tbl := raw.table
	room := &types.Room{
		ID:       raw.id,
		Name:     orDefault(getString(tbl, "name"), raw.id),
		Type:     orDefault(getString(tbl, "type"), DefaultRoomType),
		Short:    orDefault(getString(tbl, "short"), DefaultRoomShort),
		Long:     orDefault(getString(tbl, "description"), DefaultRoomLong),
		Exits:    map[string]types.Connection{},
		Features: stringList(tbl.RawGetString("features")),
	}

	var err error
	if exits := getTable(tbl, "exits"); exits != nil {
		exits.ForEach(func(k, v lua.LValue) {
			dir, ok := k.(lua.LString)
			if !ok || err != nil {
				return
			}
			switch val := v.(type) {
			case lua.LString:
				room.Exits[string(dir)] = types.Connection{Target: string(val)}
			case *lua.LTable:
				room.Exits[string(dir)] = types.Connection{
					Target:   getString(val, "to"),
					Requires: getString(val, "requires"),
				}
			default:
				err = oops.Errorf("exit %s must be a room id or a table", dir)
			}
		})
	}
	if err != nil {
		return nil, err
	}

	if puzzles := getTable(tbl, "puzzles"); puzzles != nil {
		for i := 1; i <= puzzles.MaxN(); i++ {
			pt, ok := puzzles.RawGetInt(i).(*lua.LTable)
			if !ok {
				return nil, oops.Errorf("puzzle %d must be a table", i)
			}
			room.Puzzles = append(room.Puzzles, compilePuzzle(pt))
		}
	}
	return room, nil
}

func compilePuzzle(tbl *lua.LTable) *types.Puzzle {
	id := getString(tbl, "id")
	return &types.Puzzle{
		ID:       id,
		Verb:     orDefault(getString(tbl, "verb"), id),
		Object:   getString(tbl, "object"),
		Requires: stringList(tbl.RawGetString("requires")),
		Success:  orDefault(getString(tbl, "success"), DefaultPuzzleSuccess),
		Failure:  orDefault(getString(tbl, "failure"), DefaultPuzzleFailure),
		Reward:   getString(tbl, "reward"),
		Unlocks:  getString(tbl, "unlocks"),
		SetsFlag: getString(tbl, "sets_flag"),
	}
}

// itemFields are the Item fields that are not properties.
var itemFields = map[string]bool{
	"name": true, "description": true, "type": true, "location": true,
}

func compileItem(raw rawDef) *types.Item {
	tbl := raw.table
	it := &types.Item{
		ID:          raw.id,
		Name:        orDefault(getString(tbl, "name"), raw.id),
		Description: orDefault(getString(tbl, "description"), DefaultItemDescription),
		Type:        orDefault(getString(tbl, "type"), DefaultItemType),
		Location:    getString(tbl, "location"),
		Properties:  map[string]string{},
	}
	// Every other field is a property.
	tbl.ForEach(func(k, v lua.LValue) {
		if key, ok := k.(lua.LString); ok && !itemFields[string(key)] {
			it.Properties[string(key)] = flatten(v)
		}
	})
	return it
}

func compileNPC(raw rawDef, start string) *types.NPC {
	tbl := raw.table
	n := &types.NPC{
		Character: types.Character{
			ID:          raw.id,
			Name:        orDefault(getString(tbl, "name"), raw.id),
			Description: orDefault(getString(tbl, "description"), DefaultNPCDescription),
			Room:        orDefault(getString(tbl, "room"), start),
			Health:      getInt(tbl, "health"),
		},
		Role:     orDefault(getString(tbl, "role"), DefaultNPCRole),
		State:    getString(tbl, "state"),
		Home:     getString(tbl, "home"),
		Dialogue: map[string]map[string]*types.DialogueNode{},
	}

	if dlg := getTable(tbl, "dialogue"); dlg != nil {
		dlg.ForEach(func(k, v lua.LValue) {
			stateName, ok := k.(lua.LString)
			nodes, isTbl := v.(*lua.LTable)
			if !ok || !isTbl {
				return
			}
			tree := map[string]*types.DialogueNode{}
			nodes.ForEach(func(k, v lua.LValue) {
				if id, ok := k.(lua.LString); ok {
					if nt, ok := v.(*lua.LTable); ok {
						tree[string(id)] = compileNode(nt)
					}
				}
			})
			n.Dialogue[string(stateName)] = tree
		})
	}
	return n
}

func compileNode(tbl *lua.LTable) *types.DialogueNode {
	node := &types.DialogueNode{Text: orDefault(getString(tbl, "text"), DefaultDialogue)}
	opts := getTable(tbl, "options")
	if opts == nil {
		return node
	}
	for i := 1; i <= opts.MaxN(); i++ {
		ot, ok := opts.RawGetInt(i).(*lua.LTable)
		if !ok {
			continue
		}
		node.Options = append(node.Options, types.DialogueOption{
			Text:         orDefault(getString(ot, "text"), DefaultDialogue),
			Response:     orDefault(getString(ot, "response"), DefaultDialogue),
			LeadsTo:      getString(ot, "leads_to"),
			UpdatesState: getString(ot, "updates_state"),
			RevealsItem:  getString(ot, "reveals_item"),
			Journal:      getString(ot, "journal"),
		})
	}
	return node
}
