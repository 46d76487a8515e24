package domain

import (
	"fmt"
	"sort"
	"strings"
)

const (
	shoppingListHeader    = "Ваш список покупок"
	shoppingListSeparator = "-------------------"
	shoppingListFooter    = "Составлено в foodgram"
)

// CartLine is one ingredient amount of one recipe in a user's cart
type CartLine struct {
	Name   string
	Unit   string
	Amount int
}

// ShoppingItem is an aggregated entry of the shopping list
type ShoppingItem struct {
	Name   string
	Unit   string
	Amount int
}

// AggregateShoppingList sums amounts per (name, unit) pair. The result is
// sorted by name, then unit.
func AggregateShoppingList(lines []CartLine) []ShoppingItem {
	type key struct{ name, unit string }

	index := make(map[key]int, len(lines))
	items := make([]ShoppingItem, 0, len(lines))
	for _, line := range lines {
		k := key{line.Name, line.Unit}
		if i, ok := index[k]; ok {
			items[i].Amount += line.Amount
			continue
		}
		index[k] = len(items)
		items = append(items, ShoppingItem{Name: line.Name, Unit: line.Unit, Amount: line.Amount})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].Unit < items[j].Unit
	})
	return items
}

// RenderShoppingList renders the plain text export of items
func RenderShoppingList(items []ShoppingItem) string {
	lines := make([]string, 0, len(items)+4)
	lines = append(lines, shoppingListHeader, shoppingListSeparator)
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("%s (%s) - %d", item.Name, item.Unit, item.Amount))
	}
	lines = append(lines, shoppingListSeparator, shoppingListFooter)
	return strings.Join(lines, "\n")
}
