package loader

import (
	"strings"

	"github.com/nathoo/labyrinth/engine/script"
	"github.com/nathoo/labyrinth/types"
)

// Flags set by the built-in room scripts.
const (
	FlagRunes      = "sanctum_puzzle_solved"
	FlagBridge     = "bridge_puzzle_solved"
	FlagLibrarian  = "librarian_puzzle_solved"
	FlagRiddle     = "gorath_riddle_solved"
	FlagPaths      = "paths_aligned"
	FlagNegotiated = "veyra_negotiation_complete"
	FlagPressure   = "pressure_puzzle_solved"
	FlagRestored   = "crystal_restored"
	FlagComplete   = "game_complete"
)

// Scripts builds the scripted table for w. Each built-in room's script is
// attached only when w has a room with that ID, so content that reuses
// the built-in room IDs gets their puzzles too.
func Scripts(w *types.World) *script.Table {
	t := script.NewTable()
	for _, room := range []struct {
		id    string
		build func(*script.Table)
	}{
		{Sanctum, sanctumScripts},
		{Forge, forgeScripts},
		{Archive, archiveScripts},
		{Nexus, nexusScripts},
		{Peaks, peaksScripts},
		{Airship, airshipScripts},
		{Trench, trenchScripts},
		{Chamber, chamberScripts},
	} {
		if w.Rooms[room.id] != nil {
			room.build(t)
		}
	}
	return t
}

var examine = script.Verb("examine", "look")

// narrate speaks lines verbatim, blank ones included.
func narrate(lines ...string) script.Event {
	return script.EventFunc(func(c *script.Context) { c.Lines(lines...) })
}

func sanctumScripts(t *script.Table) {
	g := guardian
	g.Dialogue = guardianDialogue()
	t.Ensure(Sanctum,
		script.EnsureNPC{NPC: g, Home: Sanctum},
		script.EnsureItem{Item: clockworkKey, Home: Sanctum, Gate: FlagRunes, Loose: true},
	)

	runes := &script.Sequence{
		ID:    "sanctum_runes",
		Order: []string{"blue", "red", "green"},
		Alias: map[string]string{
			"blue rune": "blue", "red rune": "red", "green rune": "green",
			"the blue rune": "blue", "the red rune": "red", "the green rune": "green",
		},
		Flag:    FlagRunes,
		Reward:  clockworkKey.ID,
		Step:    "The %s rune glows brightly as you activate it.",
		Success: "The combination of runes triggers a mechanism in the wall. A hidden compartment opens, revealing a Clockwork Key!",
		Failure: "The runes flash briefly, then fade. That combination didn't work.",
		Done:    "The runes have already been activated.",
	}
	t.On(Sanctum, script.Verb("activate", "press", "touch").Is(
		"blue", "red", "green",
		"blue rune", "red rune", "green rune",
		"the blue rune", "the red rune", "the green rune",
	), runes)

	t.On(Sanctum, examine.Has("wall"), script.Say(
		"The western wall is covered in ornate runes. You notice that some of them - colored blue, red, and green - seem to react to your presence."))
	t.On(Sanctum, examine.Has("rune"), script.Say(
		"The glowing runes pulse with an otherworldly light. Three runes stand out: one blue, one red, and one green."))

	t.On(Sanctum, script.Verb("use").Has("clockwork key", "clockwork_key").Is("key"), &script.Gate{
		Tool:     clockworkKey.ID,
		Strict:   true,
		Unlocks:  []string{"north"},
		WithTool: "You use the Clockwork Key to unlock the northern door.",
		Missing:  "You don't have the Clockwork Key.",
	})
}

func forgeScripts(t *script.Table) {
	keep := []string{types.LocPlaced, Chamber}
	t.Ensure(Forge,
		script.EnsureItem{Item: largeGear, Home: Forge, Loose: true},
		script.EnsureItem{Item: mediumGear, Home: Forge, Loose: true},
		script.EnsureItem{Item: smallGear, Home: Forge, Loose: true},
		script.EnsureItem{Item: *fragment("1"), Home: Forge, Gate: FlagBridge, Keep: keep},
	)

	t.On(Forge, examine.Is("gear bridge", "bridge", "gear_bridge"), script.IfFlag(FlagBridge,
		script.Say("The gear bridge is now fully operational, providing a sturdy path across the chasm. "+
			"On the far side, you can see a Crystal Fragment glinting in the light."),
		script.Say("A massive mechanism spans a chasm in the center of the forge. It appears to be a bridge, "+
			"but several key gears are missing from its workings. Through the gap, you can see something glittering on the other side."),
	))
	t.On(Forge, examine.Is("mechanical workbench", "workbench", "mechanical_workbench"), script.Say(
		"A sturdy workbench covered with tools and mechanical parts. Various gears of different sizes are scattered across its surface."))

	gears := &script.Chain{
		ID: "forge_gears",
		Steps: []script.ChainStep{
			{Item: largeGear.ID, Label: "large gear",
				Text: "You place the large gear into the main mechanism of the bridge. It fits perfectly into the central housing."},
			{Item: mediumGear.ID, Label: "medium gear",
				Text: "You attach the medium gear to the large one. It meshes perfectly with the teeth of the larger gear."},
			{Item: smallGear.ID, Label: "small gear",
				Text: "You insert the small gear into the final slot of the mechanism. All the gears now form a complete chain."},
		},
		Flag:       FlagBridge,
		Reward:     FragmentPrefix + "1",
		Before:     "You need to place the %s first.",
		Placed:     "The %s is already in place.",
		Incomplete: "The bridge mechanism is still incomplete. You need to place all the gears.",
		Success: []string{
			"With all gears in place, you activate the mechanism. The bridge extends fully across the chasm with a satisfying series of mechanical clicks.",
			"As the bridge connects, you spot a Crystal Fragment glinting on the far side.",
		},
		Done: "The bridge already spans the chasm.",
	}
	t.On(Forge, script.Verb("use", "place").Is("large gear", "large_gear"), gears.Place(0))
	t.On(Forge, script.Verb("use", "place").Is("medium gear", "medium_gear"), gears.Place(1))
	t.On(Forge, script.Verb("use", "place").Is("small gear", "small_gear"), gears.Place(2))
	t.On(Forge, script.Verb("activate").Is("bridge", "gear bridge", "bridge_repair", "mechanism"), gears.Activate())
}

func archiveScripts(t *script.Table) {
	t.Ensure(Archive,
		script.EnsureNPC{NPC: librarian, Home: Archive},
		script.EnsureItem{Item: ancientTome, Home: Archive, Loose: true},
		script.EnsureItem{Item: *fragment("2"), Home: Archive, Gate: FlagLibrarian, Keep: []string{types.LocPlaced, Chamber}},
	)

	t.On(Archive, examine.Is("librarian", "the librarian"), script.Say(
		"A ghostly figure drifts among the bookshelves. Its form shifts and wavers, but two piercing eyes remain constant, studying you with ancient wisdom."))
	t.On(Archive, examine.Is("book", "tome", "ancient tome"), script.Say(
		"A weathered tome bound in strange material. Ancient runes decorate its cover, and it seems to emanate a subtle glow."))
	t.On(Archive, examine.Is("bookshelves", "shelves", "books"), script.Say(
		"Rows upon rows of ancient tomes line the shelves. Among them, you notice a particularly ornate book that seems to be glowing faintly."))

	t.On(Archive, script.Verb("talk").Is("librarian", "the librarian", "to librarian", "to the librarian"), &script.Menu{
		Speaker: librarian.Name,
		Line:    "Knowledge has a price, seeker. Bring me the Ancient Tome, and I shall share what I know.",
		Choices: []script.Choice{
			{Text: "I'll find the tome for you.",
				Then: script.Say(`The Librarian: "The tome rests among these shelves. Seek and you shall find."`)},
			{Text: "What knowledge do you possess?",
				Then: script.Say(`The Librarian: "I hold the secret history of Aetheria and the Echo Crystal. But such knowledge is not freely given."`)},
		},
		After: script.IfHolding(ancientTome.ID, script.All(
			narrate(
				"",
				"The Librarian notices the Ancient Tome in your possession.",
				`The Librarian: "Ah, you have brought the tome. As promised, I shall reveal what I know."`,
				"The Librarian tells you about the locations of the Crystal Fragments and the history of the Echo Crystal.",
				`The Librarian: "Take this fragment as a token of our exchange. The others await in Ember Peaks, Abyssal Trench, and Veyra's Airship."`,
			),
			script.SetFlag(FlagLibrarian),
			script.Reveal(FragmentPrefix+"2", ""),
		), nil),
	})
}

func peaksScripts(t *script.Table) {
	t.Ensure(Peaks,
		script.EnsureNPC{NPC: gorath, Home: Peaks},
		script.EnsureItem{Item: *fragment("3"), Home: Peaks, Gate: FlagRiddle, Keep: []string{types.LocPlaced, Chamber}},
	)

	riddle := &script.Riddle{
		Flag:   FlagRiddle,
		Accept: "fire",
		Reward: FragmentPrefix + "3",
		Question: []string{
			`Gorath: "Answer my riddle or face me in combat."`,
			`Gorath: "I am not alive, but I grow; I don't have lungs, but I need air; I don't have a mouth, but water kills me. What am I?"`,
		},
		Prompt: "What is your answer?",
		Correct: []string{
			`Gorath: "Correct! You have proven your wisdom."`,
			"Gorath presents you with the Crystal Fragment as promised.",
		},
		Wrong:   `Gorath: "Incorrect. Try again when you have discovered the answer."`,
		Solved:  `Gorath: "You have proven worthy of the crystal's power. Use it wisely."`,
		Already: "Gorath has already given you the Crystal Fragment.",
	}
	t.On(Peaks, script.Verb("talk").Is("gorath", "knight", "to gorath", "to knight", "to the knight"), riddle.Ask())
	t.On(Peaks, script.Verb("fire").Bare(), riddle.Answer())
	t.On(Peaks, script.Verb("answer").AnyObject(), riddle.Answer())
}

func nexusScripts(t *script.Table) {
	t.Ensure(Nexus, script.EnsureItem{Item: echoAmulet, Home: Nexus, Loose: true})

	t.On(Nexus, examine.Is("floating paths", "paths", "floating_paths"), script.IfFlag(FlagPaths,
		script.Say("The floating pathways now form a stable network, allowing access to all the islands."),
		script.Say("Translucent pathways float in the air, connecting to different islands. "+
			"They seem to shift and waver, making some destinations difficult to reach."),
	))
	t.On(Nexus, script.Verb("activate", "align").Is("path alignment", "paths", "path_alignment", "floating paths"), &script.Gate{
		Tool:    echoAmulet.ID,
		Unlocks: []string{"north", "south", "east", "west", "up", "down"},
		Flag:    FlagPaths,
		WithTool: "Using the Echo Amulet's visions as a guide, you realign the floating paths. " +
			"The pathways solidify into a stable network, allowing access to all islands.",
		WithoutTool: "You concentrate on aligning the floating paths. After some trial and error, " +
			"the pathways solidify into a stable network, allowing access to all islands.",
	})
}

func airshipScripts(t *script.Table) {
	t.Ensure(Airship,
		script.EnsureNPC{NPC: veyra, Home: Airship},
		script.EnsureItem{Item: *fragment("5"), Home: Airship, Gate: FlagNegotiated, Keep: []string{types.LocPlaced, Chamber}},
	)

	t.On(Airship, examine.Is("veyra", "inventor"), script.Say(
		"A sharp-eyed woman dressed in gear-laden attire. Various tools hang from her belt, and she studies you with a calculating gaze."))
	t.On(Airship, script.Verb("talk").Is("veyra", "inventor", "to veyra", "to inventor", "to the inventor"), &script.Menu{
		Speaker: veyra.Name,
		Line:    "Perhaps we can help each other, stranger. I need Crystal fragments for my research.",
		Choices: []script.Choice{
			{Text: "What research are you conducting?",
				Then: script.Say(`Veyra: "I'm studying how to harness the Crystal's energy for my airship. The technology could revolutionize travel across the shattered isles."`)},
			{Text: "I'm collecting the fragments myself.",
				Then: script.Say(`Veyra: "I see. Well, perhaps we can still aid each other. I'll let you take the fragment here if you promise to share what you learn about the Crystal."`)},
		},
		After: script.All(
			script.SetFlag(FlagNegotiated),
			script.Reveal(FragmentPrefix+"5", "Veyra nods toward a Crystal Fragment secured beside her engines."),
		),
	})
}

func trenchScripts(t *script.Table) {
	t.Ensure(Trench,
		script.EnsureItem{Item: *fragment("4"), Home: Trench, Gate: FlagPressure, Keep: []string{types.LocPlaced, Chamber}},
		script.EnsureItem{Item: pressureGauge, Home: Trench, Loose: true},
	)

	t.On(Trench, examine.Is("water spirit", "spirit"), script.Say(
		"A shimmering presence made of pure water. It moves gracefully through the depths, occasionally forming a face to observe you."))
	t.On(Trench, script.Verb("use").Is("pressure gauge", "gauge", "pressure_gauge"), script.IfHolding(pressureGauge.ID,
		script.Say("You use the pressure gauge to measure the water pressure at different depths. "+
			"The readings reveal a pattern that could be used to stabilize the currents."),
		script.Say("You don't have that."),
	))
	t.On(Trench, script.Verb("activate").Is("pressure control", "pressure_control", "controls", "mechanism"), &script.Gate{
		Tool:   pressureGauge.ID,
		Flag:   FlagPressure,
		Reward: FragmentPrefix + "4",
		WithTool: "Using the pressure gauge readings, you adjust the ancient mechanism. " +
			"The water currents stabilize, revealing a hidden chamber containing the Crystal Fragment.",
		WithoutTool: "You adjust various controls on the ancient mechanism. By luck or intuition, " +
			"the water currents stabilize, revealing a hidden chamber containing the Crystal Fragment.",
	})
}

func chamberScripts(t *script.Table) {
	t.Ensure(Chamber,
		script.EnsureNPC{NPC: architect, Home: Chamber},
		script.EnsureItem{Item: echoCrystal, Home: Chamber, Gate: FlagRestored, Loose: true},
	)

	t.On(Chamber, examine.Is("crystal altar", "altar"), script.Say(
		"A translucent altar floats at the center of the chamber. Five indentations are visible, perfectly shaped to hold the Crystal Fragments."))

	fragments := Fragments(5)
	t.On(Chamber, script.Verb("use", "place").Has("crystal fragment", "crystal_fragment"), &script.Threshold{
		Parts:  fragments,
		Reward: echoCrystal.ID,
		Flag:   FlagRestored,
		Success: "You place all your Crystal Fragments on the altar. They begin to glow intensely, rising into the air " +
			"and drawing together. With a flash of light, they merge into the complete Echo Crystal.",
		Shortfall: "You place the fragment on the altar, but nothing happens. It seems you need more fragments to restore the Crystal.",
		Done:      "The Echo Crystal has already been restored.",
	})

	ending := func(name string, lines ...string) script.Event {
		text := append([]string{""}, lines...)
		text = append(text, "", "*** THE END - "+name+" ENDING ***")
		return script.All(narrate(text...), script.SetFlag("ending_"+strings.ToLower(name)), script.SetFlag(FlagComplete))
	}
	endings := &script.Menu{
		Speaker: architect.Name,
		Line:    "You must choose the fate of Aetheria.",
		Header:  "The Architect presents you with three choices:",
		Choices: []script.Choice{
			{Text: "Restore balance and sacrifice yourself", Then: ending("RESTORATION",
				"You channel the Crystal's power, sacrificing your own existence to restore Aetheria.",
				"The shattered islands begin to rejoin, and balance returns to the world.",
				"Though you cease to exist in this timeline, your legacy lives on in the restored realm.")},
			{Text: "Seize power and reshape reality", Then: ending("DOMINATION",
				"You absorb the Crystal's power, becoming a godlike entity.",
				"Reality bends to your will as you reshape Aetheria according to your vision.",
				"But with such power comes consequences that even you cannot foresee...")},
			{Text: "Shatter the crystal and end the cycle", Then: ending("OBLIVION",
				"You shatter the newly-restored Crystal, breaking the cycle permanently.",
				"The fragments dissolve into pure energy, dispersing throughout Aetheria.",
				"The world will never be whole again, but neither will it be bound by ancient powers.")},
		},
	}
	t.On(Chamber, script.Verb("talk").Is("architect", "the architect", "to architect", "to the architect"), script.IfFlag(FlagRestored,
		endings,
		script.IfCollected(fragments, 0,
			script.Say(`The Architect: "You have the fragments. Place them on the altar to restore the Crystal."`),
			script.Say(`The Architect: "The Crystal remains incomplete. Gather more fragments from across Aetheria and place them on the altar."`),
		),
	))
}
