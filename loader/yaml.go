package loader

import (
	"os"
	"strconv"
	"strings"

	"github.com/samber/oops"
	"gopkg.in/yaml.v3"

	"github.com/nathoo/labyrinth/engine/state"
	"github.com/nathoo/labyrinth/types"
)

// dialogueKeys are the node fields that may carry an NPC's line, in the
// order they are tried.
var dialogueKeys = []string{
	"automaton", "greeting", "challenge", "threat", "quest",
	"reward", "respect", "revelation", "trading", "fleeing", "text",
}

// node is a mapping node with lookups that keep document order. A nil
// node answers every lookup with a default.
type node struct {
	n *yaml.Node
}

func (d node) isMap() bool {
	return d.n != nil && d.n.Kind == yaml.MappingNode
}

func (d node) get(key string) node {
	if !d.isMap() {
		return node{}
	}
	for i := 0; i+1 < len(d.n.Content); i += 2 {
		if d.n.Content[i].Value == key {
			v := d.n.Content[i+1]
			if v.Kind == yaml.AliasNode {
				v = v.Alias
			}
			return node{v}
		}
	}
	return node{}
}

// each visits the pairs of a mapping in document order.
func (d node) each(fn func(key string, v node)) {
	if !d.isMap() {
		return
	}
	for i := 0; i+1 < len(d.n.Content); i += 2 {
		v := d.n.Content[i+1]
		if v.Kind == yaml.AliasNode {
			v = v.Alias
		}
		fn(d.n.Content[i].Value, node{v})
	}
}

// items returns the elements of a sequence.
func (d node) items() []node {
	if d.n == nil || d.n.Kind != yaml.SequenceNode {
		return nil
	}
	out := make([]node, 0, len(d.n.Content))
	for _, c := range d.n.Content {
		out = append(out, node{c})
	}
	return out
}

func (d node) tag() string {
	if d.n == nil || d.n.Kind != yaml.ScalarNode {
		return ""
	}
	return d.n.ShortTag()
}

func (d node) str(key, def string) string {
	v := d.get(key)
	if v.tag() != "!!str" {
		return def
	}
	return v.n.Value
}

func (d node) number() (int, bool) {
	switch d.tag() {
	case "!!int":
		var i int
		if err := d.n.Decode(&i); err == nil {
			return i, true
		}
	case "!!float":
		var f float64
		if err := d.n.Decode(&f); err == nil {
			return int(f), true
		}
	}
	return 0, false
}

func (d node) int(key string, def int) int {
	if i, ok := d.get(key).number(); ok {
		return i
	}
	return def
}

// truth reads booleans, and numbers as non-zero.
func (d node) truth() (bool, bool) {
	if d.tag() == "!!bool" {
		var b bool
		if err := d.n.Decode(&b); err == nil {
			return b, true
		}
	}
	if i, ok := d.number(); ok {
		return i != 0, true
	}
	return false, false
}

// scalar renders a scalar as a property string.
func (d node) scalar() (string, bool) {
	switch d.tag() {
	case "!!null":
		return "", true
	case "!!str":
		return d.n.Value, true
	case "!!bool":
		b, _ := d.truth()
		return strconv.FormatBool(b), true
	case "!!int":
		i, _ := d.number()
		return strconv.Itoa(i), true
	case "!!float":
		var f float64
		if err := d.n.Decode(&f); err != nil {
			return "", false
		}
		return strconv.FormatFloat(f, 'g', -1, 64), true
	}
	return "", false
}

// property flattens a value into an item property. Arrays are
// comma-joined; mappings are not properties.
func (d node) property() (string, bool) {
	if d.n != nil && d.n.Kind == yaml.SequenceNode {
		parts := make([]string, 0, len(d.n.Content))
		for _, el := range d.items() {
			s, ok := el.scalar()
			if !ok || el.tag() == "!!null" {
				s = "unknown"
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, ","), true
	}
	return d.scalar()
}

// strings reads a string or a list of strings.
func (d node) strings() []string {
	if d.tag() == "!!str" {
		return []string{d.n.Value}
	}
	var out []string
	for _, el := range d.items() {
		if el.tag() == "!!str" {
			out = append(out, el.n.Value)
		}
	}
	return out
}

func loadDocument(path string) (*types.World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, oops.Wrapf(err, "read %s", path)
	}
	w, err := parseDocument(data)
	if err != nil {
		return nil, oops.Wrapf(err, "parse %s", path)
	}
	return w, nil
}

// parseDocument builds a world from a game_config document. JSON is read
// as YAML.
func parseDocument(data []byte) (*types.World, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, oops.Wrapf(err, "decode content")
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, oops.Errorf("content document is empty")
	}
	doc := node{root.Content[0]}
	if !doc.isMap() {
		return nil, oops.Errorf("content document must be a mapping")
	}

	w := state.NewWorld("")
	// Player stats come first so that initial_state can override them.
	chars := doc.get("characters")
	if stats := chars.get("player").get("stats"); stats.isMap() {
		w.PlayerHealth = stats.int("health", w.PlayerHealth)
		w.InventorySize = stats.int("inventory_size", w.InventorySize)
	}
	if cfg := doc.get("game_config"); cfg.isMap() {
		gameConfig(w, cfg)
	}
	if ws := doc.get("world_state"); ws.isMap() {
		worldState(w, ws)
	}
	chars.get("npcs").each(func(id string, v node) {
		if v.isMap() {
			state.AddNPC(w, npcDoc(id, v, w.Start))
		}
	})
	if items := doc.get("items"); items.isMap() {
		itemsDoc(w, items)
	}
	var err error
	doc.get("locations").each(func(id string, v node) {
		if err == nil && v.isMap() {
			var room *types.Room
			if room, err = roomDoc(id, v); err == nil {
				state.AddRoom(w, room)
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return w, nil
}

// gameConfig reads the game_config section. An initial_state also seeds
// the standard compass, key and fragments, which later sections may
// override.
func gameConfig(w *types.World, cfg node) {
	w.Name = cfg.str("title", "")
	w.Intro = cfg.str("intro", "")
	w.RestorationThreshold = cfg.int("restoration_threshold", 0)

	initial := cfg.get("initial_state")
	if !initial.isMap() {
		return
	}
	state.AddItem(w, &types.Item{
		ID: "clockwork_key", Name: "Clockwork Key", Type: "key",
		Description: "A brass key used to operate steampunk machinery.",
		Properties:  map[string]string{"opens": "forge_door,mechanical_chest,airship_engine", "breakable": "false"},
	})
	state.AddItem(w, &types.Item{
		ID: "runed_compass", Name: "Runed Compass", Type: "tool",
		Description: "Points toward hidden pathways",
		Properties:  map[string]string{"reveals_secrets": "true", "durability": "infinite", "usable_in": "all_locations"},
	})
	for _, id := range []string{"1", "2", "3", "4", "5"} {
		state.AddItem(w, fragment(id))
	}

	w.Start = initial.str("starting_room", "")
	w.StartInventory = initial.get("starting_inventory").strings()
	w.PlayerHealth = initial.int("player_health", w.PlayerHealth)
	initial.get("game_flags").each(func(name string, v node) {
		if on, ok := v.truth(); ok {
			state.SetFlag(w, name, on)
		}
	})
}

func worldState(w *types.World, ws node) {
	w.Description = ws.str("description", DefaultWorldDescription)
	env := ws.get("environment_states")
	if cycle := env.get("day_cycle").items(); len(cycle) > 0 && cycle[0].tag() == "!!str" {
		w.DayCycle = cycle[0].n.Value
	}
	if weather := env.get("weather_types").items(); len(weather) > 0 && weather[0].tag() == "!!str" {
		w.Weather = weather[0].n.Value
	}
}

// npcDoc reads one NPC. Its first state, in document order, is the one it
// starts in.
func npcDoc(id string, v node, start string) *types.NPC {
	n := &types.NPC{
		Character: types.Character{
			ID:          id,
			Name:        v.str("name", id),
			Description: v.str("description", DefaultNPCDescription),
			Room:        v.str("initial_location", start),
		},
		Role:     v.str("role", DefaultNPCRole),
		Home:     v.str("home", ""),
		Dialogue: map[string]map[string]*types.DialogueNode{},
	}
	v.get("states").each(func(stateName string, sv node) {
		if !sv.isMap() {
			return
		}
		if n.State == "" {
			n.State = stateName
		}
		tree := map[string]*types.DialogueNode{}
		sv.get("dialogue").each(func(nodeID string, nv node) {
			if nv.isMap() {
				tree[nodeID] = dialogueDoc(nv)
			}
		})
		n.Dialogue[stateName] = tree
	})
	return n
}

func dialogueDoc(v node) *types.DialogueNode {
	dn := &types.DialogueNode{Text: DefaultDialogue}
	for _, key := range dialogueKeys {
		if s := v.str(key, ""); s != "" {
			dn.Text = s
			break
		}
	}
	for _, ov := range v.get("player_options").items() {
		if !ov.isMap() {
			continue
		}
		dn.Options = append(dn.Options, types.DialogueOption{
			Text:         ov.str("text", DefaultDialogue),
			Response:     ov.str("response", DefaultDialogue),
			LeadsTo:      ov.str("leads_to", ""),
			UpdatesState: ov.str("updates_state", ""),
			RevealsItem:  ov.str("reveals_item", ""),
			Journal:      ov.str("adds_journal_entry", ""),
		})
	}
	return dn
}

func itemsDoc(w *types.World, items node) {
	items.get("passive_items").each(func(id string, v node) {
		if !v.isMap() {
			return
		}
		it := &types.Item{
			ID:          id,
			Name:        v.str("name", id),
			Description: v.str("description", DefaultItemDescription),
			Type:        v.str("type", DefaultItemType),
			Location:    v.str("location", ""),
			Properties:  map[string]string{},
		}
		v.get("properties").each(func(key string, pv node) {
			if s, ok := pv.property(); ok {
				it.Properties[key] = s
			}
		})
		state.AddItem(w, it)
	})

	// Fragment keys end in their number: fragment_1 is crystal_fragment_1.
	items.get("quest_items").get("crystal_fragments").each(func(key string, v node) {
		if !v.isMap() || key == "" {
			return
		}
		id := FragmentPrefix + key[len(key)-1:]
		it := state.Item(w, id)
		if it == nil {
			it = fragment(key[len(key)-1:])
			state.AddItem(w, it)
		}
		if loc := v.str("location", ""); loc != "" {
			it.Location = loc
			it.Origin = loc
		}
	})
}

func roomDoc(id string, v node) (*types.Room, error) {
	desc := v.get("descriptions")
	room := &types.Room{
		ID:    id,
		Name:  v.str("name", id),
		Type:  v.str("type", DefaultRoomType),
		Short: desc.str("short", DefaultRoomShort),
		Long:  desc.str("long", DefaultRoomLong),
		Exits: map[string]types.Connection{},
	}

	var err error
	v.get("connections").each(func(dir string, cv node) {
		switch {
		case err != nil:
		case cv.tag() == "!!str":
			room.Exits[dir] = types.Connection{Target: cv.n.Value}
		case cv.isMap():
			if target := cv.str("leads_to", ""); target != "" {
				room.Exits[dir] = types.Connection{Target: target, Requires: cv.str("requires", "")}
			}
		default:
			err = oops.Errorf("room %s connection %s must be a room id or a mapping", id, dir)
		}
	})
	if err != nil {
		return nil, err
	}

	for _, f := range v.get("features").items() {
		if f.tag() == "!!str" {
			room.Features = append(room.Features, f.n.Value)
		}
	}

	// A puzzle is triggered by its own ID unless it names a verb.
	v.get("puzzles").each(func(pid string, pv node) {
		if !pv.isMap() {
			return
		}
		room.Puzzles = append(room.Puzzles, &types.Puzzle{
			ID:       pid,
			Verb:     pv.str("verb", pid),
			Object:   pv.str("object", ""),
			Requires: pv.get("requires").strings(),
			Success:  pv.str("success_message", DefaultPuzzleSuccess),
			Failure:  pv.str("failure_message", DefaultPuzzleFailure),
			Reward:   pv.str("reward", ""),
			Unlocks:  pv.str("unlocks", ""),
			SetsFlag: pv.str("sets_flag", ""),
		})
	})
	return room, nil
}
