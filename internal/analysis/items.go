package analysis

// Item id → canonical key table for the items the analyzers care about.
// Ids follow the game's item constants; anything not listed is treated as
// a neutral filler item by every check.
var itemNames = map[int]string{
	1:   "blink",
	29:  "boots",
	36:  "magic_wand",
	40:  "dust",
	42:  "observer_ward",
	43:  "sentry_ward",
	45:  "gem",
	48:  "travel_boots",
	73:  "bracer",
	75:  "wraith_band",
	77:  "null_talisman",
	79:  "mekansm",
	85:  "ghost_scepter",
	90:  "pipe",
	100: "eul_scepter",
	102: "force_staff",
	108: "ultimate_scepter",
	110: "heart",
	112: "battle_fury",
	116: "black_king_bar",
	119: "shivas_guard",
	123: "linkens_sphere",
	127: "assault_cuirass",
	135: "monkey_king_bar",
	137: "radiance",
	139: "butterfly",
	141: "daedalus",
	147: "manta",
	152: "skadi",
	156: "satanic",
	158: "mjollnir",
	160: "sange_and_yasha",
	166: "maelstrom",
	168: "desolator",
	172: "diffusal_blade",
	176: "ethereal_blade",
	180: "arcane_boots",
	208: "abyssal_blade",
	210: "divine_rapier",
	226: "lotus_orb",
	229: "solar_crest",
	231: "guardian_greaves",
	232: "aether_lens",
	235: "octarine_core",
	242: "crimson_guard",
	249: "silver_edge",
	250: "bloodthorn",
	254: "glimmer_cape",
	256: "aeon_disk",
	263: "hurricane_pike",
	267: "spirit_vessel",
}

// itemDisplayNames maps canonical keys to the names used in moment and
// insight text.
var itemDisplayNames = map[string]string{
	"blink":            "Blink Dagger",
	"black_king_bar":   "Black King Bar",
	"battle_fury":      "Battle Fury",
	"radiance":         "Radiance",
	"daedalus":         "Daedalus",
	"butterfly":        "Butterfly",
	"monkey_king_bar":  "Monkey King Bar",
	"satanic":          "Satanic",
	"skadi":            "Eye of Skadi",
	"heart":            "Heart of Tarrasque",
	"abyssal_blade":    "Abyssal Blade",
	"divine_rapier":    "Divine Rapier",
	"assault_cuirass":  "Assault Cuirass",
	"manta":            "Manta Style",
	"desolator":        "Desolator",
	"bloodthorn":       "Bloodthorn",
	"silver_edge":      "Silver Edge",
	"ultimate_scepter": "Aghanim's Scepter",
	"octarine_core":    "Octarine Core",
	"travel_boots":     "Boots of Travel",
	"linkens_sphere":   "Linken's Sphere",
	"aeon_disk":        "Aeon Disk",
	"shivas_guard":     "Shiva's Guard",
	"glimmer_cape":     "Glimmer Cape",
	"force_staff":      "Force Staff",
	"guardian_greaves": "Guardian Greaves",
	"pipe":             "Pipe of Insight",
	"solar_crest":      "Solar Crest",
	"lotus_orb":        "Lotus Orb",
	"spirit_vessel":    "Spirit Vessel",
	"crimson_guard":    "Crimson Guard",
	"mekansm":          "Mekansm",
	"hurricane_pike":   "Hurricane Pike",
	"maelstrom":        "Maelstrom",
	"mjollnir":         "Mjollnir",
	"aether_lens":      "Aether Lens",
	"eul_scepter":      "Eul's Scepter",
	"ethereal_blade":   "Ethereal Blade",
	"diffusal_blade":   "Diffusal Blade",
	"sange_and_yasha":  "Sange and Yasha",
	"gem":              "Gem of True Sight",
}

// Archetype allow-lists consumed by ItemBuildAnalyzer and the key-moment
// purchase check. Stored as sets of canonical keys.
var (
	majorPurchaseItems = stringSet(
		"black_king_bar", "battle_fury", "radiance", "daedalus", "butterfly",
		"monkey_king_bar", "satanic", "skadi", "heart", "abyssal_blade",
		"divine_rapier", "assault_cuirass", "manta", "desolator",
		"bloodthorn", "silver_edge", "ultimate_scepter", "octarine_core",
	)

	spellImmunityItems = stringSet("black_king_bar")

	mobilityItems = stringSet(
		"blink", "force_staff", "hurricane_pike", "travel_boots", "silver_edge",
	)

	earlyStatItems = stringSet("bracer", "wraith_band", "null_talisman", "magic_wand")

	majorDamageItems = stringSet(
		"battle_fury", "radiance", "daedalus", "butterfly", "monkey_king_bar",
		"desolator", "bloodthorn", "divine_rapier", "mjollnir",
	)

	farmingItems = stringSet("battle_fury", "radiance", "maelstrom", "mjollnir")

	supportUtilityItems = stringSet(
		"glimmer_cape", "force_staff", "mekansm", "guardian_greaves", "pipe",
		"solar_crest", "lotus_orb", "crimson_guard", "spirit_vessel", "eul_scepter",
	)

	carryArchetypeItems = stringSet(
		"daedalus", "butterfly", "monkey_king_bar", "satanic", "divine_rapier", "heart",
	)

	visionItems = stringSet("gem", "observer_ward", "sentry_ward", "aether_lens", "dust")

	defensiveItems = stringSet(
		"black_king_bar", "linkens_sphere", "aeon_disk", "ghost_scepter",
		"glimmer_cape", "lotus_orb", "shivas_guard", "heart",
	)
)

func stringSet(keys ...string) map[string]bool {
	s := make(map[string]bool, len(keys))
	for _, k := range keys {
		s[k] = true
	}
	return s
}

// itemKey resolves an item id to its canonical key, or "".
func itemKey(id int) string {
	return itemNames[id]
}

// displayName returns the human name for a canonical key, falling back to
// the key itself for items outside the table.
func displayName(key string) string {
	if n, ok := itemDisplayNames[key]; ok {
		return n
	}
	return key
}

// heldKeys maps a final item-id list to the set of canonical keys held,
// excluding empty slots and unknown ids.
func heldKeys(itemIDs []int) map[string]bool {
	held := make(map[string]bool)
	for _, id := range itemIDs {
		if id == 0 {
			continue
		}
		if k := itemKey(id); k != "" {
			held[k] = true
		}
	}
	return held
}

func holdsAny(held map[string]bool, set map[string]bool) bool {
	for k := range held {
		if set[k] {
			return true
		}
	}
	return false
}

func countIn(held map[string]bool, set map[string]bool) int {
	n := 0
	for k := range held {
		if set[k] {
			n++
		}
	}
	return n
}
