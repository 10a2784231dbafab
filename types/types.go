// Package types defines the world model shared by every engine package.
// Only type definitions and constants live here; behavior is in engine/*.
package types

// Item location sentinels. Any other location value is a room ID.
const (
	LocInventory = "inventory"
	LocHidden    = "hidden"
	LocPlaced    = "placed"
)

// DefaultNPCState is the behavioral state every NPC starts in.
const DefaultNPCState = "initial"

// Intent is a parsed player command.
type Intent struct {
	Verb   string
	Object string
}

// Result is the outcome of one engine step.
type Result struct {
	Output []string
	Prompt string // non-empty while the engine waits for an answer
	Quit   bool
}

// Connection is one directed exit from a room.
type Connection struct {
	Target   string
	Requires string // item ID needed to pass, empty if open
}

// Puzzle is a content-defined, verb-triggered room puzzle.
type Puzzle struct {
	ID       string
	Verb     string
	Object   string
	Requires []string
	Solved   bool
	Success  string
	Failure  string
	Reward   string
	Unlocks  string // direction in the owning room
	SetsFlag string
}

// Room is a location in the world.
type Room struct {
	ID       string
	Name     string
	Short    string
	Long     string
	Type     string
	Visited  bool
	Exits    map[string]Connection
	Features []string
	Puzzles  []*Puzzle
}

// Item is a portable object. Location is the single source of truth for
// where it is.
type Item struct {
	ID          string
	Name        string
	Description string
	Type        string
	Location    string
	Origin      string
	Properties  map[string]string
}

// Character is the shape shared by the player and NPCs.
type Character struct {
	ID          string
	Name        string
	Description string
	Room        string
	Health      int
	Inventory   []string
	Capacity    int
}

// Player is the character controlled by the user.
type Player struct {
	Character
	Abilities   []string
	MagicPoints int
	Journal     []string
}

// Behavior runs once per turn for an NPC in a given state and returns
// any narrative lines the player should see.
type Behavior func(w *World, p *Player, n *NPC) []string

// NPC is a non-player character.
type NPC struct {
	Character
	Role      string
	State     string
	Home      string
	Behaviors map[string]Behavior
	Dialogue  map[string]map[string]*DialogueNode
}

// DialogueNode is one screen of NPC speech.
type DialogueNode struct {
	Text    string
	Options []DialogueOption
}

// DialogueOption is one selectable player response.
type DialogueOption struct {
	Text         string
	Response     string
	LeadsTo      string
	UpdatesState string
	RevealsItem  string
	Journal      string
}

// World owns every room, item, NPC and flag.
type World struct {
	Name        string
	Description string
	Intro       string

	Rooms     map[string]*Room
	RoomOrder []string
	Items     map[string]*Item
	ItemOrder []string
	NPCs      []*NPC

	Flags    map[string]bool
	Progress map[string][]string

	Start          string
	StartInventory []string
	PlayerHealth   int
	InventorySize  int
	DayCycle       string
	Weather        string

	// RestorationThreshold is how many quest parts a Threshold event
	// needs before it fires. Zero means all parts.
	RestorationThreshold int
}
