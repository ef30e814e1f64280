package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// GameInfo describes one supported game: its script extender acronym
// and the script filenames the extender ships, whose stray copies
// inside mods break the extender on update.
type GameInfo struct {
	Name           string   `yaml:"name"`
	XSEAcronym     string   `yaml:"xseAcronym"`
	XSEScriptFiles []string `yaml:"xseScriptFiles"`
}

// gameDatabase maps a lowercase game key to its info.
type gameDatabase struct {
	Games map[string]GameInfo `yaml:"games"`
}

// builtinGames covers the games supported out of the box. A user
// database file merges over these, so adding or correcting a game
// never needs a rebuild.
var builtinGames = map[string]GameInfo{
	"fallout4": {
		Name:       "Fallout 4",
		XSEAcronym: "F4SE",
		XSEScriptFiles: []string{
			"Actor.pex", "ActorBase.pex", "Armor.pex", "ArmorAddon.pex",
			"Cell.pex", "Component.pex", "ConstructibleObject.pex",
			"DefaultObject.pex", "EncounterZone.pex", "EquipSlot.pex",
			"F4SE.pex", "FavoritesManager.pex", "Form.pex", "Game.pex",
			"HeadPart.pex", "Input.pex", "InstanceData.pex", "Location.pex",
			"Math.pex", "MatSwap.pex", "MiscObject.pex", "ObjectMod.pex",
			"ObjectReference.pex", "Perk.pex", "ScriptObject.pex", "UI.pex",
			"Utility.pex", "WaterType.pex", "Weapon.pex",
		},
	},
	"fallout4vr": {
		Name:       "Fallout 4 VR",
		XSEAcronym: "F4SEVR",
		XSEScriptFiles: []string{
			"Actor.pex", "ActorBase.pex", "Armor.pex", "ArmorAddon.pex",
			"Cell.pex", "Component.pex", "ConstructibleObject.pex",
			"DefaultObject.pex", "EncounterZone.pex", "EquipSlot.pex",
			"F4SE.pex", "FavoritesManager.pex", "Form.pex", "Game.pex",
			"HeadPart.pex", "Input.pex", "InstanceData.pex", "Location.pex",
			"Math.pex", "MatSwap.pex", "MiscObject.pex", "ObjectMod.pex",
			"ObjectReference.pex", "Perk.pex", "ScriptObject.pex", "UI.pex",
			"Utility.pex", "WaterType.pex", "Weapon.pex",
		},
	},
	"skyrimse": {
		Name:       "Skyrim Special Edition",
		XSEAcronym: "SKSE",
		XSEScriptFiles: []string{
			"Actor.pex", "ActorBase.pex", "ActorValueInfo.pex", "Armor.pex",
			"ArmorAddon.pex", "Art.pex", "Book.pex", "Cell.pex",
			"ColorComponent.pex", "ColorForm.pex", "CombatStyle.pex",
			"ConstructibleObject.pex", "DefaultObjectManager.pex",
			"EquipSlot.pex", "Enchantment.pex", "Flora.pex", "Form.pex",
			"FormList.pex", "Game.pex", "HeadPart.pex", "Ingredient.pex",
			"Input.pex", "Location.pex", "MagicEffect.pex", "Math.pex",
			"ModEvent.pex", "NetImmerse.pex", "ObjectReference.pex",
			"Perk.pex", "Potion.pex", "Quest.pex", "Race.pex", "SKSE.pex",
			"Scroll.pex", "Shout.pex", "SoulGem.pex", "Sound.pex",
			"SoundDescriptor.pex", "Spell.pex", "StringUtil.pex",
			"TextureSet.pex", "TreeObject.pex", "UI.pex", "UICallback.pex",
			"Utility.pex", "Weapon.pex", "WornObject.pex",
		},
	},
}

// LookupGame resolves the info for a game key, consulting an optional
// YAML database file first and the built-in table second. Keys are
// case-insensitive.
func LookupGame(databasePath, game string) (GameInfo, error) {
	key := strings.ToLower(strings.TrimSpace(game))

	if databasePath != "" {
		raw, err := os.ReadFile(databasePath)
		if err != nil {
			return GameInfo{}, fmt.Errorf("cannot read game database '%s': %w", databasePath, err)
		}
		var db gameDatabase
		if err := yaml.Unmarshal(raw, &db); err != nil {
			return GameInfo{}, fmt.Errorf("cannot parse game database '%s': %w", databasePath, err)
		}
		for k, info := range db.Games {
			if strings.ToLower(k) == key {
				return info, nil
			}
		}
	}

	if info, ok := builtinGames[key]; ok {
		return info, nil
	}
	return GameInfo{}, fmt.Errorf("unknown game '%s' (supported: %s)", game, strings.Join(supportedGames(), ", "))
}

func supportedGames() []string {
	keys := make([]string, 0, len(builtinGames))
	for k := range builtinGames {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
