package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/labyrinth/types"
)

func testWorld() *types.World {
	w := NewWorld("Test World")
	w.Start = "entrance"
	AddRoom(w, &types.Room{
		ID:   "entrance",
		Name: "Entrance",
		Exits: map[string]types.Connection{
			"north": {Target: "hall", Requires: "rusty_key"},
			"east":  {Target: "garden"},
		},
		Puzzles: []*types.Puzzle{{ID: "lever", Verb: "pull"}},
	})
	AddRoom(w, &types.Room{ID: "hall", Name: "Hall"})
	AddRoom(w, &types.Room{ID: "garden", Name: "Garden"})
	AddItem(w, &types.Item{ID: "rusty_key", Name: "Rusty Key", Location: "entrance"})
	AddItem(w, &types.Item{ID: "lamp", Name: "Lamp", Location: "entrance"})
	AddItem(w, &types.Item{ID: "coin", Name: "Coin", Location: "hall"})
	return w
}

func TestNewWorld_Defaults(t *testing.T) {
	w := NewWorld("x")
	assert.Equal(t, DefaultHealth, w.PlayerHealth)
	assert.Equal(t, DefaultInventorySize, w.InventorySize)
	assert.Equal(t, "day", w.DayCycle)
	assert.Equal(t, "clear", w.Weather)
	assert.False(t, Flag(w, "anything"), "absent flags read false")
}

func TestAddItem_KeepsOrderAndOrigin(t *testing.T) {
	w := testWorld()
	AddItem(w, &types.Item{ID: "lamp", Name: "Brass Lamp", Location: "hall"})

	assert.Equal(t, []string{"rusty_key", "lamp", "coin"}, w.ItemOrder)
	assert.Equal(t, "hall", w.Items["lamp"].Origin)
	assert.Equal(t, "Brass Lamp", ItemName(w, "lamp"))
	assert.Equal(t, "ghost", ItemName(w, "ghost"))
}

func TestAddItem_DefaultsToHidden(t *testing.T) {
	w := testWorld()
	AddItem(w, &types.Item{ID: "secret"})
	assert.Equal(t, types.LocHidden, w.Items["secret"].Location)
}

func TestItemsAt_DefinitionOrder(t *testing.T) {
	w := testWorld()
	items := ItemsAt(w, "entrance")
	require.Len(t, items, 2)
	assert.Equal(t, "rusty_key", items[0].ID)
	assert.Equal(t, "lamp", items[1].ID)
}

func TestAddNPC_DefaultsAndReplace(t *testing.T) {
	w := testWorld()
	AddNPC(w, &types.NPC{Character: types.Character{ID: "guard", Room: "hall"}})
	require.NotNil(t, NPC(w, "guard"))
	assert.Equal(t, types.DefaultNPCState, NPC(w, "guard").State)

	AddNPC(w, &types.NPC{Character: types.Character{ID: "guard", Room: "garden"}, State: "alert"})
	assert.Len(t, w.NPCs, 1)
	assert.Equal(t, "alert", NPC(w, "guard").State)
	assert.Len(t, NPCsIn(w, "garden"), 1)
	assert.Empty(t, NPCsIn(w, "hall"))
}

func TestInventory_CapacityEnforced(t *testing.T) {
	w := testWorld()
	c := &types.Character{ID: "p", Capacity: 1}

	require.True(t, AddToInventory(w, c, "rusty_key"))
	assert.False(t, AddToInventory(w, c, "lamp"))
	assert.Equal(t, []string{"rusty_key"}, c.Inventory)
	assert.Equal(t, "entrance", w.Items["lamp"].Location)
	assert.Equal(t, types.LocInventory, w.Items["rusty_key"].Location)
}

func TestInventory_ZeroCapacityHoldsNothing(t *testing.T) {
	w := testWorld()
	c := &types.Character{ID: "p"}

	assert.False(t, AddToInventory(w, c, "lamp"))
	assert.Empty(t, c.Inventory)
	assert.Equal(t, "entrance", w.Items["lamp"].Location)
}

func TestAddNPC_DefaultCapacity(t *testing.T) {
	w := testWorld()
	AddNPC(w, &types.NPC{Character: types.Character{ID: "guard", Room: "hall"}})
	AddNPC(w, &types.NPC{Character: types.Character{ID: "porter", Room: "hall", Capacity: 2}})

	assert.Equal(t, DefaultInventorySize, NPC(w, "guard").Capacity)
	assert.Equal(t, 2, NPC(w, "porter").Capacity)
}

func TestInventory_RemoveOnce(t *testing.T) {
	w := testWorld()
	c := &types.Character{ID: "p", Capacity: 5}
	AddToInventory(w, c, "lamp")

	assert.True(t, RemoveFromInventory(c, "lamp"))
	assert.False(t, RemoveFromInventory(c, "lamp"))
	assert.Empty(t, c.Inventory)
}

func TestInventory_SingleOwner(t *testing.T) {
	w := testWorld()
	AddNPC(w, &types.NPC{Character: types.Character{ID: "thief", Capacity: 5}})
	thief := NPC(w, "thief")
	require.True(t, AddToInventory(w, &thief.Character, "coin"))

	p := &types.Character{ID: "p", Capacity: 5}
	require.True(t, AddToInventory(w, p, "coin"))
	assert.Empty(t, thief.Inventory)
	assert.Equal(t, []string{"coin"}, p.Inventory)
}

func TestMoveItem(t *testing.T) {
	w := testWorld()
	c := &types.Character{ID: "p", Capacity: 5}
	AddToInventory(w, c, "lamp")

	require.True(t, MoveItem(w, c, "lamp", types.LocPlaced))
	assert.Empty(t, c.Inventory)
	assert.Equal(t, types.LocPlaced, w.Items["lamp"].Location)
	assert.False(t, MoveItem(w, c, "missing", "hall"))
}

func TestMoveItem_TakesItFromNPCs(t *testing.T) {
	w := testWorld()
	AddNPC(w, &types.NPC{Character: types.Character{ID: "thief", Room: "hall"}})
	thief := NPC(w, "thief")
	require.True(t, AddToInventory(w, &thief.Character, "coin"))

	require.True(t, MoveItem(w, nil, "coin", "garden"))
	assert.Empty(t, thief.Inventory)
	assert.Equal(t, "garden", w.Items["coin"].Location)
}

func TestReleaseOrphans(t *testing.T) {
	w := testWorld()
	c := &types.Character{ID: "p", Capacity: 5}
	AddToInventory(w, c, "lamp")
	AddToInventory(w, c, "coin")

	c.Inventory = []string{"coin"}
	moved := ReleaseOrphans(w, c)

	assert.Equal(t, []string{"lamp"}, moved)
	assert.Equal(t, "entrance", w.Items["lamp"].Location)
	assert.Equal(t, types.LocInventory, w.Items["coin"].Location)
}

func TestNewPlayer(t *testing.T) {
	w := testWorld()
	w.StartInventory = []string{"lamp", "unknown"}
	p := NewPlayer(w)

	assert.Equal(t, "entrance", p.Room)
	assert.Equal(t, DefaultHealth, p.Health)
	assert.Equal(t, DefaultMagicPoints, p.MagicPoints)
	assert.Equal(t, []string{"lamp"}, p.Inventory)
}

func TestMagicPoints(t *testing.T) {
	p := &types.Player{MagicPoints: 10}
	assert.True(t, SpendMagic(p, 4))
	assert.False(t, SpendMagic(p, 7))
	assert.False(t, SpendMagic(p, -1))
	assert.Equal(t, 6, p.MagicPoints)
}

func TestAbilities(t *testing.T) {
	p := &types.Player{}
	GrantAbility(p, "echo_sight")
	GrantAbility(p, "echo_sight")
	assert.True(t, HasAbility(p, "echo_sight"))
	assert.Len(t, p.Abilities, 1)
}

func TestProgress(t *testing.T) {
	w := testWorld()
	AppendProgress(w, "runes", "blue")
	assert.Equal(t, []string{"blue", "red"}, AppendProgress(w, "runes", "red"))
	ClearProgress(w, "runes")
	assert.Empty(t, Progress(w, "runes"))
}

func TestRequirementAndUnlock(t *testing.T) {
	w := testWorld()
	assert.Equal(t, "rusty_key", Requirement(w, "entrance", "north"))
	assert.Equal(t, []string{"east"}, OpenDirections(w, "entrance"))

	require.True(t, Unlock(w, "entrance", "north"))
	assert.Equal(t, "", Requirement(w, "entrance", "north"))
	assert.Equal(t, []string{"east", "north"}, OpenDirections(w, "entrance"))
	assert.False(t, Unlock(w, "entrance", "west"))
}

func TestDirections_Sorted(t *testing.T) {
	w := testWorld()
	assert.Equal(t, []string{"east", "north"}, Directions(w, "entrance"))
	assert.Nil(t, Directions(w, "void"))
}

func TestPuzzles_SolveAndSync(t *testing.T) {
	w := testWorld()
	p := w.Rooms["entrance"].Puzzles[0]
	SolvePuzzle(w, p)
	assert.True(t, Flag(w, PuzzleFlag("lever")))

	p.Solved = false
	SyncPuzzles(w)
	assert.True(t, p.Solved)
}
