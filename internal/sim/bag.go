package sim

import (
	"fmt"
	"sort"
)

// Bag is an in-memory wave.Inventory for hosts without a database.
type Bag map[string]int

func (b Bag) AddItem(itemID string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("invalid quantity %d for %s", quantity, itemID)
	}
	b[itemID] += quantity
	return nil
}

// String lists items as "id x qty" in id order.
func (b Bag) String() string {
	ids := make([]string, 0, len(b))
	for id := range b {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	s := ""
	for i, id := range ids {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%s x%d", id, b[id])
	}
	return s
}
