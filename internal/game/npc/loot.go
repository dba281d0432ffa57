package npc

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/cory-johannsen/arena/internal/game/dice"
)

// ItemDrop is one entry in a loot table.
type ItemDrop struct {
	ItemID string  `yaml:"item"`
	Chance float64 `yaml:"chance"`
}

// LootTable is the static drop list of a monster template. Each entry is
// rolled independently.
type LootTable struct {
	Items []ItemDrop `yaml:"items"`
}

// Validate checks that the loot table satisfies its invariants.
//
// Postcondition: Returns nil iff every item has a non-empty id and a chance
// in (0, 1]; an empty table is valid.
func (lt *LootTable) Validate() error {
	for i, item := range lt.Items {
		if item.ItemID == "" {
			return fmt.Errorf("loot table: item[%d] must have a non-empty item id", i)
		}
		if item.Chance <= 0 || item.Chance > 1.0 {
			return fmt.Errorf("loot table: item[%d] chance must be in (0, 1.0], got %f", i, item.Chance)
		}
	}
	return nil
}

// LootItem is one dropped item.
type LootItem struct {
	ItemID     string
	InstanceID string
}

// GenerateLoot rolls every entry of lt independently: an entry drops when a
// uniform draw in [0,1) is below its chance. Drops are not capped in count.
//
// Precondition: lt must have passed Validate(); src must be non-nil.
// Postcondition: len(result) <= len(lt.Items); result preserves table order.
func GenerateLoot(lt LootTable, src dice.Source) []LootItem {
	var items []LootItem
	for _, item := range lt.Items {
		if dice.Chance(src, "loot:"+item.ItemID, item.Chance).Passed {
			items = append(items, LootItem{
				ItemID:     item.ItemID,
				InstanceID: uuid.New().String(),
			})
		}
	}
	return items
}
