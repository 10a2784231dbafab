package loader

import (
	"maps"
	"strings"

	"github.com/nathoo/labyrinth/engine/state"
	"github.com/nathoo/labyrinth/types"
)

// Built-in room IDs.
const (
	Sanctum = "sanctum_whispers"
	Forge   = "clockwork_forge"
	Archive = "archive_shadows"
	Nexus   = "skyward_nexus"
	Peaks   = "ember_peaks"
	Airship = "veyras_airship"
	Trench  = "abyssal_trench"
	Chamber = "echo_chamber"
)

// Builtin returns The Labyrinth of Echoes, the world played when no
// content is given.
func Builtin(opts Options) *Content {
	w := BuiltinWorld()
	applyThreshold(w, opts)
	return &Content{World: w, Scripts: Scripts(w)}
}

// BuiltinWorld builds the built-in world without scripts.
func BuiltinWorld() *types.World {
	w := state.NewWorld("The Labyrinth of Echoes")
	w.Description = "A fractured realm where ancient magic and steampunk technology coexist. " +
		"Centuries ago, a cataclysmic event shattered the world into floating islands, " +
		"each holding remnants of lost civilizations."
	w.Intro = strings.Join([]string{
		"You wake up in the Sanctum of Whispers with no memory of your past.",
		"Your only guide is a strange runed compass that seems to pull you forward.",
		"Something tells you that the Echo Crystal is the key to your forgotten identity...",
	}, "\n")
	w.Start = Sanctum
	w.StartInventory = []string{"runed_compass"}

	for _, r := range builtinRooms() {
		state.AddRoom(w, r)
	}
	for _, it := range builtinItems() {
		state.AddItem(w, it)
	}
	for _, n := range builtinNPCs() {
		state.AddNPC(w, n)
	}
	return w
}

func builtinRooms() []*types.Room {
	exit := func(target string) types.Connection { return types.Connection{Target: target} }
	return []*types.Room{
		{
			ID: Sanctum, Name: "Sanctum of Whispers", Type: "starting_area",
			Short: "The ancient sanctum",
			Long: "Ancient stone walls covered in glowing runes surround you. Mechanical guardians " +
				"stand motionless in their alcoves, their crystal eyes dimly pulsing.",
			Features: []string{"glowing runes", "ancient altar", "automaton guardians", "western wall"},
			Exits: map[string]types.Connection{
				"north": {Target: Forge, Requires: "clockwork_key"},
				"east":  exit(Archive),
			},
		},
		{
			ID: Forge, Name: "Clockwork Forge", Type: "puzzle_area",
			Short: "The mechanical forge",
			Long: "Enormous gears turn slowly overhead, driving countless smaller mechanisms. " +
				"Steam hisses from copper pipes, and the air thrums with mechanical energy.",
			Features: []string{"gear bridge", "steam vents", "mechanical workbench"},
			Exits: map[string]types.Connection{
				"south": exit(Sanctum),
				"east":  exit(Nexus),
			},
		},
		{
			ID: Archive, Name: "Archive of Shadows", Type: "knowledge_area",
			Short: "The shadowy archive",
			Long: "Towering bookshelves fade into darkness above. Ghostly lights drift between " +
				"the stacks, illuminating ancient tomes and scrolls.",
			Exits: map[string]types.Connection{
				"west":  exit(Sanctum),
				"north": exit(Nexus),
			},
		},
		{
			ID: Nexus, Name: "Skyward Nexus", Type: "hub_area",
			Short: "The floating nexus",
			Long: "Multiple floating pathways converge here, each leading to a different island. " +
				"Ancient technology keeps the platform aloft.",
			Features: []string{"floating paths", "crystal pylons"},
			Exits: map[string]types.Connection{
				"west":  exit(Forge),
				"south": exit(Archive),
				"north": exit(Airship),
				"east":  exit(Peaks),
				"down":  {Target: Trench, Requires: "echo_amulet"},
			},
		},
		{
			ID: Peaks, Name: "Ember Peaks", Type: "combat_area",
			Short: "The burning peaks",
			Long: "Rivers of lava flow between crystalline formations. The air shimmers with heat, " +
				"and ancient forges glow in the depths.",
			Exits: map[string]types.Connection{
				"south": exit(Forge),
				"east":  exit(Airship),
				"west":  exit(Nexus),
			},
		},
		{
			ID: Airship, Name: "Veyra's Airship", Type: "mechanical_area",
			Short: "The crystal airship",
			Long: "Brass and copper machinery fills the ship. Steam hisses from pipes, and crystal " +
				"engines pulse with power.",
			Exits: map[string]types.Connection{
				"south": exit(Nexus),
				"west":  exit(Peaks),
			},
		},
		{
			ID: Trench, Name: "Abyssal Trench", Type: "underwater_area",
			Short: "The dark depths",
			Long: "Crystal-clear waters reveal ancient ruins below. Strange creatures dart through " +
				"the depths, and forgotten treasures glitter in the dark.",
			Exits: map[string]types.Connection{
				"up":   exit(Nexus),
				"east": exit(Chamber),
			},
		},
		{
			ID: Chamber, Name: "Echo Chamber", Type: "final_area",
			Short: "The crystal chamber",
			Long: "Reality itself seems to waver here. Fragments of the past play out in ghostly " +
				"echoes around you.",
			Features: []string{"crystal altar", "reality rifts", "time echoes"},
			Exits: map[string]types.Connection{
				"west": exit(Trench),
			},
		},
	}
}

// Items with Location left empty start hidden.
var (
	clockworkKey = types.Item{
		ID: "clockwork_key", Name: "Clockwork Key", Type: "key",
		Description: "A brass key used to operate steampunk machinery.",
		Properties:  map[string]string{"use_text": "You don't see anything to use the key on here."},
	}
	ancientTome = types.Item{
		ID: "ancient_tome", Name: "Ancient Tome", Type: "book", Location: Archive,
		Description: "Contains cryptic knowledge about the Echo Crystal",
		Properties: map[string]string{
			"readable": "true",
			"contents": "The Echo Crystal was shattered during the Great Cataclysm. Its five fragments " +
				"were scattered across Aetheria. Only by reuniting them can balance be restored.",
		},
	}
	largeGear = types.Item{
		ID: "large_gear", Name: "Large Gear", Type: "part", Location: Forge,
		Description: "A hefty metal gear that appears to be part of a mechanism.",
	}
	mediumGear = types.Item{
		ID: "medium_gear", Name: "Medium Gear", Type: "part", Location: Forge,
		Description: "A medium-sized gear with intricate teeth.",
	}
	smallGear = types.Item{
		ID: "small_gear", Name: "Small Gear", Type: "part", Location: Forge,
		Description: "A small but precisely crafted gear.",
	}
	echoAmulet = types.Item{
		ID: "echo_amulet", Name: "Echo Amulet", Type: "artifact", Location: Nexus,
		Description: "Allows glimpses into past events",
		Properties: map[string]string{
			"use_text": "The amulet glows with an inner light. Ghostly images of the past appear, " +
				"showing how the pathways were originally arranged.",
			"use_flag":       "used_echo_amulet",
			"magic_cost":     "10",
			"grants_ability": "echo_sight",
		},
	}
	pressureGauge = types.Item{
		ID: "pressure_gauge", Name: "Pressure Gauge", Type: "tool", Location: Trench,
		Description: "A device for measuring underwater pressure",
	}
	echoCrystal = types.Item{
		ID: "echo_crystal", Name: "Echo Crystal", Type: "artifact",
		Description: "The restored Echo Crystal, pulsing with otherworldly power.",
	}
)

func builtinItems() []*types.Item {
	clone := func(it types.Item) *types.Item {
		it.Properties = maps.Clone(it.Properties)
		return &it
	}
	items := []*types.Item{
		{
			ID: "runed_compass", Name: "Runed Compass", Type: "tool",
			Description: "Points toward hidden pathways",
			Properties:  map[string]string{"reveals_secrets": "true"},
		},
		clone(clockworkKey),
		clone(ancientTome),
		clone(largeGear),
		clone(mediumGear),
		clone(smallGear),
		clone(echoAmulet),
		clone(pressureGauge),
	}
	for _, id := range []string{"1", "2", "3", "4", "5"} {
		items = append(items, fragment(id))
	}
	return append(items, clone(echoCrystal))
}

// Built-in NPCs, also used by the ensure steps that recreate them.
var (
	guardian = types.NPC{
		Character: types.Character{
			ID: "guardian_automaton", Name: "Guardian Automaton", Room: Sanctum,
			Description: "A towering mechanical guardian, seemingly inactive.",
		},
		Role: "Guardian",
		Home: Sanctum,
	}
	librarian = types.NPC{
		Character: types.Character{
			ID: "librarian", Name: "The Librarian", Room: Archive,
			Description: "A spectral entity in the Archive of Shadows",
		},
		Role: "Knowledge Keeper",
		Home: Archive,
	}
	gorath = types.NPC{
		Character: types.Character{
			ID: "gorath", Name: "Gorath", Room: Peaks,
			Description: "A cursed knight trapped in enchanted armor",
		},
		Role: "Cursed Knight",
		Home: Peaks,
	}
	veyra = types.NPC{
		Character: types.Character{
			ID: "veyra", Name: "Veyra", Room: Airship,
			Description: "A rogue inventor seeking the Echo Crystal to power her airship",
		},
		Role: "Rogue Inventor",
		Home: Airship,
	}
	architect = types.NPC{
		Character: types.Character{
			ID: "architect", Name: "The Architect", Room: Chamber,
			Description: "A mysterious figure who appears in visions",
		},
		Role: "Mysterious Figure",
		Home: Chamber,
	}
)

// guardianDialogue is the automaton's tree. It is built per world so that
// no two worlds share nodes.
func guardianDialogue() map[string]map[string]*types.DialogueNode {
	return map[string]map[string]*types.DialogueNode{
		types.DefaultNPCState: {
			"first_interaction": {
				Text: "Wanderer. You have woken at last. The sanctum remembers you, even if you do not.",
				Options: []types.DialogueOption{
					{
						Text:     "I seek the Echo Crystal.",
						Response: "Then begin where the walls still speak. The western runes guard the way north.",
						Journal:  "The Guardian Automaton says the western runes guard the way north.",
					},
					{
						Text:     "Who built you?",
						Response: "Those who set the runes in order: blue as the sky, red as the forge, green as what grows after.",
						Journal:  "The Guardian Automaton spoke of runes: blue, then red, then green.",
					},
				},
			},
			"return_visit": {
				Text: "Proceed, wanderer. The runes await.",
			},
		},
	}
}

func builtinNPCs() []*types.NPC {
	g := guardian
	g.Dialogue = guardianDialogue()
	out := []*types.NPC{&g}
	for _, n := range []types.NPC{librarian, gorath, veyra, architect} {
		n := n
		out = append(out, &n)
	}
	return out
}
