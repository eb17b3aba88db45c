package domain

import "slices"

// Groups partitions sights by weather category while a plan is being built.
// Category order is insertion order and drives every iteration, so results
// never depend on map ordering.
type Groups struct {
	order   []Weather
	members map[Weather][]Sight
}

func NewGroups(categories ...Weather) *Groups {
	g := &Groups{members: make(map[Weather][]Sight, len(categories))}
	for _, w := range categories {
		g.ensure(w)
	}
	return g
}

func (g *Groups) ensure(w Weather) {
	if _, ok := g.members[w]; ok {
		return
	}
	g.order = append(g.order, w)
	g.members[w] = []Sight{}
}

// Categories returns the categories in insertion order.
func (g *Groups) Categories() []Weather {
	return append([]Weather(nil), g.order...)
}

// Has reports whether w is a known category (possibly empty).
func (g *Groups) Has(w Weather) bool {
	_, ok := g.members[w]
	return ok
}

// Members returns a copy of the sights in category w.
func (g *Groups) Members(w Weather) []Sight {
	return append([]Sight(nil), g.members[w]...)
}

func (g *Groups) Size(w Weather) int { return len(g.members[w]) }

// Total returns the number of sights across all categories.
func (g *Groups) Total() int {
	n := 0
	for _, w := range g.order {
		n += len(g.members[w])
	}
	return n
}

// Set replaces the members of w.
func (g *Groups) Set(w Weather, sights []Sight) {
	g.ensure(w)
	g.members[w] = append([]Sight{}, sights...)
}

// Append adds sights to the end of w.
func (g *Groups) Append(w Weather, sights ...Sight) {
	g.ensure(w)
	g.members[w] = append(g.members[w], sights...)
}

// Remove deletes the sight named name from w and reports whether it was present.
func (g *Groups) Remove(w Weather, name string) bool {
	list := g.members[w]
	for i, s := range list {
		if s.Name == name {
			g.members[w] = slices.Delete(slices.Clone(list), i, i+1)
			return true
		}
	}
	return false
}

// Clone returns a deep copy; member slices are not shared.
func (g *Groups) Clone() *Groups {
	out := &Groups{
		order:   append([]Weather(nil), g.order...),
		members: make(map[Weather][]Sight, len(g.members)),
	}
	for w, list := range g.members {
		out.members[w] = append([]Sight{}, list...)
	}
	return out
}

// SameMembership reports whether both groupings hold the same sight names
// per category, ignoring order within a category. Empty categories are
// equivalent to missing ones.
func (g *Groups) SameMembership(o *Groups) bool {
	if g == nil || o == nil {
		return g == o
	}

	cats := make(map[Weather]struct{})
	for _, w := range g.order {
		cats[w] = struct{}{}
	}
	for _, w := range o.order {
		cats[w] = struct{}{}
	}

	for w := range cats {
		a, b := g.members[w], o.members[w]
		if len(a) != len(b) {
			return false
		}
		names := make(map[string]int, len(a))
		for _, s := range a {
			names[s.Name]++
		}
		for _, s := range b {
			if names[s.Name] == 0 {
				return false
			}
			names[s.Name]--
		}
	}
	return true
}
