package model

import "encoding/json"

// Compacter is implemented by every node that has a positional form.
// The compact form drops field names, along with an item's recipe link
// and details.
type Compacter interface {
	Compact() []any
}

func MarshalCompact(v Compacter) ([]byte, error) {
	return json.Marshal(v.Compact())
}

// CompactAll renders a list of nodes as one positional array.
func CompactAll[T Compacter](nodes []T) []any {
	out := make([]any, len(nodes))
	for i, n := range nodes {
		out[i] = n.Compact()
	}
	return out
}

func (i Item) Compact() []any {
	return []any{i.ID, i.Name}
}

func (s Section) Compact() []any {
	return []any{s.Name, CompactAll(s.Items)}
}

func (m RestaurantMenu) Compact() []any {
	return []any{m.Date, m.Restaurant.Name(), m.Meal.Name(), CompactAll(m.Sections)}
}

func (m MenuMeal) Compact() []any {
	return []any{m.Meal.Name(), CompactAll(m.Sections)}
}

func (m Menu) Compact() []any {
	return []any{m.Restaurant.Name(), CompactAll(m.Meals)}
}

func (m DateMenu) Compact() []any {
	return []any{m.Date, CompactAll(m.Restaurants)}
}
