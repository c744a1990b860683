package reach

import (
	"fmt"
	"sort"
	"strings"
)

// Place represents a place
type Place struct {
	ID      string
	Initial int
}

// Transition represents a transition. Pre and Post map place
// identifiers to positive arc weights.
type Transition struct {
	ID   string
	Pre  map[string]int
	Post map[string]int
}

func NewTransition(id string) *Transition {
	return &Transition{
		ID:   id,
		Pre:  make(map[string]int),
		Post: make(map[string]int),
	}
}

// Delta is the net effect of firing the transition on place p.
func (t *Transition) Delta(p string) int {
	return t.Post[p] - t.Pre[p]
}

// Connected returns the places touched by the transition, sorted.
func (t *Transition) Connected() []string {
	seen := make(map[string]bool)
	for p := range t.Pre {
		seen[p] = true
	}
	for p := range t.Post {
		seen[p] = true
	}
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Net struct. Places and transitions keep insertion order so every
// traversal, and therefore every emitted encoding, is deterministic.
type Net struct {
	ID string

	places      map[string]*Place
	transitions map[string]*Transition

	placeOrder      []string
	transitionOrder []string
}

func NewNet(id string) *Net {
	return &Net{
		ID:          id,
		places:      make(map[string]*Place),
		transitions: make(map[string]*Transition),
	}
}

func (n *Net) Place(id string) *Place { return n.places[id] }

func (n *Net) Transition(id string) *Transition { return n.transitions[id] }

// EnsurePlace returns the place with the given id, declaring it with an
// empty marking if it has not been seen yet.
func (n *Net) EnsurePlace(id string) *Place {
	if p, ok := n.places[id]; ok {
		return p
	}
	p := &Place{ID: id}
	n.places[id] = p
	n.placeOrder = append(n.placeOrder, id)
	return p
}

// EnsureTransition returns the transition with the given id, declaring
// it if needed. Re-declarations accumulate arcs into the same maps.
func (n *Net) EnsureTransition(id string) *Transition {
	if t, ok := n.transitions[id]; ok {
		return t
	}
	t := NewTransition(id)
	n.transitions[id] = t
	n.transitionOrder = append(n.transitionOrder, id)
	return t
}

func (n *Net) Places() []*Place {
	out := make([]*Place, 0, len(n.placeOrder))
	for _, id := range n.placeOrder {
		out = append(out, n.places[id])
	}
	return out
}

func (n *Net) Transitions() []*Transition {
	out := make([]*Transition, 0, len(n.transitionOrder))
	for _, id := range n.transitionOrder {
		out = append(out, n.transitions[id])
	}
	return out
}

func (n *Net) PlaceIDs() []string { return append([]string(nil), n.placeOrder...) }

func (n *Net) TransitionIDs() []string { return append([]string(nil), n.transitionOrder...) }

func (n *Net) InitialMarking() Marking {
	m := make(Marking, len(n.placeOrder))
	for _, p := range n.Places() {
		m[p.ID] = p.Initial
	}
	return m
}

// Enabled returns true if the transition is enabled at the marking
func (n *Net) Enabled(t *Transition, m Marking) bool {
	for p, w := range t.Pre {
		if m[p] < w {
			return false
		}
	}
	return true
}

// Fire returns the marking reached by firing t at m. The transition
// must be enabled.
func (n *Net) Fire(t *Transition, m Marking) (Marking, error) {
	if !n.Enabled(t, m) {
		return nil, fmt.Errorf("transition %s is not enabled", t.ID)
	}
	next := make(Marking, len(m))
	for p, v := range m {
		next[p] = v
	}
	for p, w := range t.Pre {
		next[p] -= w
	}
	for p, w := range t.Post {
		next[p] += w
	}
	return next, nil
}

func (n *Net) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "net %s\n", n.ID)
	for _, p := range n.Places() {
		if p.Initial > 0 {
			fmt.Fprintf(&b, "pl %s (%d)\n", p.ID, p.Initial)
		}
	}
	for _, t := range n.Transitions() {
		fmt.Fprintf(&b, "tr %s", t.ID)
		for _, p := range sortedKeys(t.Pre) {
			b.WriteString(" " + arcString(p, t.Pre[p]))
		}
		b.WriteString(" ->")
		for _, p := range sortedKeys(t.Post) {
			b.WriteString(" " + arcString(p, t.Post[p]))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func arcString(place string, weight int) string {
	if weight == 1 {
		return place
	}
	return fmt.Sprintf("%s*%d", place, weight)
}

func sortedKeys(m map[string]int) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
