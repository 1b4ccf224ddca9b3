package plan

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/pantryclub/mealplan/internal/catalog"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ShoppingItem is one aggregated ingredient line. Quantities are
// rounded to two decimals after accumulation.
type ShoppingItem struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Category string  `json:"category"`
}

// ShoppingList groups aggregated items by category. Discovered keeps
// the categories in first-encountered order for display sequencing;
// the aggregator itself imposes no display order.
type ShoppingList struct {
	Groups     map[string][]ShoppingItem `json:"groups"`
	Discovered []string                  `json:"-"`
}

// categoryOrder is the fixed display sequence for known categories.
// Unrecognized categories follow in discovery order; the empty
// category sorts last and is labelled "Other" at the display boundary.
var categoryOrder = []string{
	"Produce",
	"Meat & Seafood",
	"Dairy",
	"Bakery",
	"Pantry",
	"Frozen",
	"Beverages",
	"Spices",
}

type ingredientKey struct {
	name     string
	unit     string
	category string
}

// WeekShoppingList rolls the 7-day window starting at startDay up into
// a categorized shopping list. Entries that are skipped or carry no
// dish reference contribute nothing; each remaining entry's ingredient
// quantities are scaled by servingsUsed over the dish yield and merged
// on the exact (name, unit, category) triple. Case-sensitive, no unit
// conversion. The result is a pure function of ledger and catalog
// state at read time.
func (l *Ledger) WeekShoppingList(ctx context.Context, householdID uuid.UUID, startDay string) (*ShoppingList, error) {
	days, err := WeekDays(startDay, l.loc)
	if err != nil {
		return nil, err
	}

	entries, err := l.entries.ListByDays(ctx, householdID, days)
	if err != nil {
		return nil, fmt.Errorf("list week entries: %w", err)
	}

	totals := make(map[ingredientKey]float64)
	var keyOrder []ingredientKey
	dishCache := make(map[uuid.UUID]*catalog.Dish)

	for _, entry := range entries {
		if entry.Status == StatusSkipped || !entry.HasDish() {
			continue
		}

		dish, ok := dishCache[*entry.DishID]
		if !ok {
			dish, err = l.dishes.Get(ctx, *entry.DishID)
			if err != nil {
				return nil, fmt.Errorf("load dish: %w", err)
			}
			dishCache[*entry.DishID] = dish
		}
		if dish == nil {
			continue
		}

		ratio := entry.ServingsUsed / dish.Servings()
		for _, ing := range dish.Ingredients {
			key := ingredientKey{name: ing.Name, unit: ing.Unit, category: ing.Category}
			if _, seen := totals[key]; !seen {
				keyOrder = append(keyOrder, key)
			}
			totals[key] += ing.Quantity * ratio
		}
	}

	list := &ShoppingList{Groups: make(map[string][]ShoppingItem)}
	seenCategory := make(map[string]bool)
	for _, key := range keyOrder {
		if !seenCategory[key.category] {
			seenCategory[key.category] = true
			list.Discovered = append(list.Discovered, key.category)
		}
		list.Groups[key.category] = append(list.Groups[key.category], ShoppingItem{
			Name:     key.name,
			Quantity: round2(totals[key]),
			Unit:     key.unit,
			Category: key.category,
		})
	}

	coll := collate.New(language.English)
	for _, items := range list.Groups {
		sort.SliceStable(items, func(i, j int) bool {
			return coll.CompareString(items[i].Name, items[j].Name) < 0
		})
	}

	return list, nil
}

// DisplayCategories returns the list's categories in presentation
// order: the fixed sequence first, then unrecognized categories in
// discovery order, with the empty category last.
func (l *ShoppingList) DisplayCategories() []string {
	known := make(map[string]bool, len(categoryOrder))
	var ordered []string
	for _, cat := range categoryOrder {
		known[cat] = true
		if _, ok := l.Groups[cat]; ok {
			ordered = append(ordered, cat)
		}
	}
	for _, cat := range l.Discovered {
		if !known[cat] && cat != "" {
			ordered = append(ordered, cat)
		}
	}
	if _, ok := l.Groups[""]; ok {
		ordered = append(ordered, "")
	}
	return ordered
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
