package yaml_test

import (
	"strings"
	"testing"

	"github.com/jt05610/reach/netfile/yaml"
)

const src = `
net: example
places:
  p1: 2
  p2: 0
transitions:
  t1:
    consume:
      p1: 2
    produce:
      p2: 1
placeOrder: [p1, p2]
transitionOrder: [t1]
`

func TestLoad(t *testing.T) {
	n, err := yaml.Load(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if n.ID != "example" {
		t.Errorf("expected net id example, got %q", n.ID)
	}
	ids := n.PlaceIDs()
	if len(ids) != 2 || ids[0] != "p1" || ids[1] != "p2" {
		t.Errorf("expected place order [p1 p2], got %v", ids)
	}
	if got := n.Place("p1").Initial; got != 2 {
		t.Errorf("expected p1 marked with 2, got %d", got)
	}
	t1 := n.Transition("t1")
	if t1.Pre["p1"] != 2 || t1.Post["p2"] != 1 {
		t.Errorf("unexpected t1 arcs: pre=%v post=%v", t1.Pre, t1.Post)
	}
}

func TestLoadRejectsUnknownOrderEntries(t *testing.T) {
	const bad = `
places:
  p1: 0
transitions: {}
placeOrder: [p1, ghost]
`
	if _, err := yaml.Load(strings.NewReader(bad)); err == nil {
		t.Fatal("expected an error for placeOrder naming an unknown place")
	}
}
