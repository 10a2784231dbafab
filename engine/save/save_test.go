package save

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/labyrinth/engine/state"
	"github.com/nathoo/labyrinth/types"
)

func testWorld() (*types.World, *types.Player) {
	w := state.NewWorld("Test Game")
	w.Start = "hall"
	state.AddRoom(w, &types.Room{ID: "hall", Name: "Hall", Exits: map[string]types.Connection{"north": {Target: "garden"}}})
	state.AddRoom(w, &types.Room{ID: "garden", Name: "Garden", Puzzles: []*types.Puzzle{{ID: "roses", Verb: "prune"}}})
	state.AddItem(w, &types.Item{ID: "key", Name: "Key", Location: "hall"})
	state.AddItem(w, &types.Item{ID: "lamp", Name: "Lamp", Location: "garden"})
	state.AddItem(w, &types.Item{ID: "coin", Name: "Coin", Location: "hall"})
	state.AddNPC(w, &types.NPC{Character: types.Character{ID: "cat", Name: "Cat", Room: "hall"}})
	return w, state.NewPlayer(w)
}

func TestRoundTrip(t *testing.T) {
	w, p := testWorld()
	require.True(t, state.AddToInventory(w, &p.Character, "key"))
	require.True(t, state.AddToInventory(w, &p.Character, "lamp"))
	p.Room = "garden"
	p.Health = 73
	p.MagicPoints = 12
	p.Journal = []string{"Cats like gardens."}
	state.SetFlag(w, "door_open", true)
	state.SetFlag(w, state.PuzzleFlag("roses"), true)
	state.AppendProgress(w, "runes", "blue")
	state.MoveItem(w, nil, "coin", types.LocPlaced)
	cat := state.NPC(w, "cat")
	cat.Room = "garden"
	cat.State = "sleepy"

	data, err := Encode(Capture(w, p, Meta{Turn: 9, Seed: 42, Position: 5}))
	require.NoError(t, err)

	snap, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, 9, snap.Turn)
	assert.Equal(t, RNGState{Seed: 42, Position: 5}, snap.RNG)

	w2, p2 := testWorld()
	require.NoError(t, Apply(snap, w2, p2))

	assert.Equal(t, "garden", p2.Room)
	assert.Equal(t, 73, p2.Health)
	assert.Equal(t, 12, p2.MagicPoints)
	assert.ElementsMatch(t, []string{"key", "lamp"}, p2.Inventory)
	assert.Equal(t, types.LocInventory, w2.Items["lamp"].Location)
	assert.Equal(t, types.LocPlaced, w2.Items["coin"].Location)
	assert.True(t, state.Flag(w2, "door_open"))
	assert.Equal(t, []string{"blue"}, state.Progress(w2, "runes"))
	assert.Equal(t, []string{"Cats like gardens."}, p2.Journal)
	assert.True(t, w2.Rooms["garden"].Puzzles[0].Solved)

	cat2 := state.NPC(w2, "cat")
	assert.Equal(t, "garden", cat2.Room)
	assert.Equal(t, "sleepy", cat2.State)
}

func TestCapture_FlagsSorted(t *testing.T) {
	w, p := testWorld()
	state.SetFlag(w, "zeta", true)
	state.SetFlag(w, "alpha", false)
	snap := Capture(w, p, Meta{})
	assert.Equal(t, []Flag{{Name: "alpha", Value: false}, {Name: "zeta", Value: true}}, snap.Flags)
}

func TestEncode_SectionOrder(t *testing.T) {
	w, p := testWorld()
	data, err := Encode(Capture(w, p, Meta{}))
	require.NoError(t, err)

	text := string(data)
	last := -1
	for _, section := range []string{"player:", "inventory:", "flags:", "npcs:", "items:", "rng:"} {
		i := strings.Index(text, "\n"+section)
		require.GreaterOrEqual(t, i, 0, "missing section %s", section)
		assert.Greater(t, i, last, "section %s out of order", section)
		last = i
	}
}

func TestApply_UnheldInventoryItemsReturnHome(t *testing.T) {
	w, p := testWorld()
	require.True(t, state.AddToInventory(w, &p.Character, "key"))
	snap := Capture(w, p, Meta{})

	// A fresh session where the lamp is carried; the save says it is not.
	w2, p2 := testWorld()
	require.True(t, state.AddToInventory(w2, &p2.Character, "lamp"))
	snap.Items = nil
	require.NoError(t, Apply(snap, w2, p2))

	assert.Equal(t, []string{"key"}, p2.Inventory)
	assert.Equal(t, "garden", w2.Items["lamp"].Location)
}

func TestApply_UnknownRoomChangesNothing(t *testing.T) {
	w, p := testWorld()
	snap := Capture(w, p, Meta{})
	snap.Player.Room = "atlantis"
	snap.Flags = []Flag{{Name: "x", Value: true}}

	err := Apply(snap, w, p)
	require.Error(t, err)
	assert.Equal(t, "hall", p.Room)
	assert.False(t, state.Flag(w, "x"))
}

func TestApply_IgnoresUnknownIDs(t *testing.T) {
	w, p := testWorld()
	snap := Capture(w, p, Meta{})
	snap.Inventory = []string{"ghost", "key", "key"}
	snap.NPCs = append(snap.NPCs, NPCState{ID: "ghost", Room: "hall"})

	require.NoError(t, Apply(snap, w, p))
	assert.Equal(t, []string{"key"}, p.Inventory)
}

func TestApply_SkipsUnknownLocations(t *testing.T) {
	w, p := testWorld()
	snap := Capture(w, p, Meta{})
	snap.Items = []ItemState{{ID: "coin", Location: "atlantis"}, {ID: "lamp", Location: "hall"}}
	snap.NPCs = []NPCState{{ID: "cat", Room: "atlantis", State: "lost"}}

	require.NoError(t, Apply(snap, w, p))
	assert.Equal(t, "hall", w.Items["coin"].Location)
	assert.Equal(t, "hall", w.Items["lamp"].Location)
	cat := state.NPC(w, "cat")
	assert.Equal(t, "hall", cat.Room)
	assert.Equal(t, "lost", cat.State)
}

func TestApply_InventoriesStayConsistent(t *testing.T) {
	w, p := testWorld()
	p.Capacity = 1
	snap := Capture(w, p, Meta{})
	snap.Inventory = []string{"key", "lamp"}
	snap.NPCs = []NPCState{{ID: "cat", Room: "hall", Inventory: []string{"key", "coin"}}}

	require.NoError(t, Apply(snap, w, p))
	assert.Equal(t, []string{"key"}, p.Inventory)
	assert.Equal(t, []string{"coin"}, state.NPC(w, "cat").Inventory)
	assert.Equal(t, "garden", w.Items["lamp"].Location, "overflow goes back to its origin")
	for _, id := range []string{"key", "coin"} {
		assert.Equal(t, types.LocInventory, w.Items[id].Location)
	}
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode([]byte("player: ["))
	assert.Error(t, err)
	_, err = Decode([]byte("turn: 3\n"))
	assert.Error(t, err)
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "saves")
	s := &FileStore{Dir: dir}

	require.NoError(t, s.Write(ctx, "slot1", []byte("a")))
	require.NoError(t, s.Write(ctx, "other.yaml", []byte("b")))

	_, err := os.Stat(filepath.Join(dir, "slot1.yaml"))
	require.NoError(t, err)

	data, err := s.Read(ctx, "slot1")
	require.NoError(t, err)
	assert.Equal(t, "a", string(data))

	names, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"other", "slot1"}, names)

	_, err = s.Read(ctx, "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	s := &RedisStore{Client: client, Prefix: DefaultPrefix}
	require.NoError(t, s.Write(ctx, "b", []byte("two")))
	require.NoError(t, s.Write(ctx, "a", []byte("one")))
	require.NoError(t, mr.Set("unrelated", "x"))

	data, err := s.Read(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "one", string(data))
	assert.True(t, mr.Exists(DefaultPrefix+"b"))

	names, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)

	_, err = s.Read(ctx, "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRedisStore_RoundTripsSnapshot(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	s := NewRedisStore(mr.Addr())
	t.Cleanup(func() { _ = s.Close() })

	w, p := testWorld()
	p.Room = "garden"
	data, err := Encode(Capture(w, p, Meta{}))
	require.NoError(t, err)
	require.NoError(t, s.Write(ctx, "slot", data))

	got, err := s.Read(ctx, "slot")
	require.NoError(t, err)
	snap, err := Decode(got)
	require.NoError(t, err)

	w2, p2 := testWorld()
	require.NoError(t, Apply(snap, w2, p2))
	assert.Equal(t, "garden", p2.Room)
}
