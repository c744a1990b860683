// Package graphviz renders Petri nets as graphviz figures: places as
// circles, transitions as boxes, arcs labelled with their weight when
// above one.
package graphviz

import (
	"fmt"
	"io"
	"sort"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"

	"github.com/jt05610/reach"
)

type Font string

const (
	Helvetica Font = "Helvetica"
	Arial     Font = "Arial"
	SansSerif Font = "sans-serif"
)

type RankDir string

const (
	LeftToRight RankDir = "LR"
	RightToLeft RankDir = "RL"
	TopToBottom RankDir = "TB"
	BottomToTop RankDir = "BT"
)

type Format string

const (
	DOT Format = Format(graphviz.XDOT)
	SVG Format = Format(graphviz.SVG)
	PNG Format = Format(graphviz.PNG)
)

type Config struct {
	Name string
	Font
	RankDir
	Format
}

type Writer struct {
	*Config
	g       *cgraph.Graph
	mapping map[string]*cgraph.Node
}

func New(config *Config) *Writer {
	if config.Name == "" {
		config.Name = "reach"
	}
	if config.Font == "" {
		config.Font = Helvetica
	}
	if config.RankDir == "" {
		config.RankDir = LeftToRight
	}
	if config.Format == "" {
		config.Format = DOT
	}
	return &Writer{
		Config:  config,
		mapping: make(map[string]*cgraph.Node),
	}
}

func (w *Writer) writePlace(i int, p *reach.Place) error {
	node, err := w.g.CreateNode(fmt.Sprintf("p%d", i))
	if err != nil {
		return err
	}
	node.SetShape(cgraph.CircleShape)
	label := p.ID
	if p.Initial > 0 {
		label = fmt.Sprintf("%s (%d)", p.ID, p.Initial)
	}
	node.SetLabel(label)
	node.Set("fontname", string(w.Font))
	w.mapping[p.ID] = node
	return nil
}

func (w *Writer) writeTransition(i int, t *reach.Transition) error {
	node, err := w.g.CreateNode(fmt.Sprintf("t%d", i))
	if err != nil {
		return err
	}
	node.SetShape(cgraph.BoxShape)
	node.SetLabel(t.ID)
	node.Set("fontname", string(w.Font))
	w.mapping["tr:"+t.ID] = node
	return nil
}

func (w *Writer) writeArc(name string, src, dst *cgraph.Node, weight int) error {
	edge, err := w.g.CreateEdge(name, src, dst)
	if err != nil {
		return err
	}
	if weight > 1 {
		edge.SetLabel(fmt.Sprintf("%d", weight))
	}
	return nil
}

// Flush renders the net to out in the configured format.
func (w *Writer) Flush(out io.Writer, n *reach.Net) error {
	g := graphviz.New()
	defer func() {
		_ = g.Close()
	}()
	graph, err := g.Graph()
	if err != nil {
		return err
	}
	graph.SetRankDir(cgraph.RankDir(w.RankDir))
	w.g = graph

	for i, p := range n.Places() {
		if err := w.writePlace(i, p); err != nil {
			return err
		}
	}
	for i, t := range n.Transitions() {
		if err := w.writeTransition(i, t); err != nil {
			return err
		}
	}
	a := 0
	for _, t := range n.Transitions() {
		tNode := w.mapping["tr:"+t.ID]
		for _, p := range sortedArcKeys(t.Pre) {
			if err := w.writeArc(fmt.Sprintf("a%d", a), w.mapping[p], tNode, t.Pre[p]); err != nil {
				return err
			}
			a++
		}
		for _, p := range sortedArcKeys(t.Post) {
			if err := w.writeArc(fmt.Sprintf("a%d", a), tNode, w.mapping[p], t.Post[p]); err != nil {
				return err
			}
			a++
		}
	}
	return g.Render(w.g, graphviz.Format(w.Format), out)
}

func sortedArcKeys(m map[string]int) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
