// Package netfile loads Petri nets in the .net textual format
// (http://projects.laas.fr/tina//manuals/formats.html).
package netfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jt05610/reach"
)

// multipliers accepted as a numeric suffix, SI style.
var multipliers = map[byte]int{
	'K': 1_000,
	'M': 1_000_000,
	'G': 1_000_000_000,
	'T': 1_000_000_000_000,
	'P': 1_000_000_000_000_000,
	'E': 1_000_000_000_000_000_000,
}

// normalizer maps characters that are illegal in SMT-LIB symbols.
var normalizer = strings.NewReplacer("#", ".", ",", ".")

// Load parses a .net description into a net. Places first seen as arc
// endpoints are declared with an empty marking; a later pl line
// overrides it. Re-declaring a transition id accumulates arcs into its
// existing pre and post maps, adding weights on collision.
func Load(r io.Reader) (*reach.Net, error) {
	net := reach.NewNet("")
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(normalizer.Replace(scanner.Text()))
		if len(fields) == 0 {
			continue
		}
		var err error
		switch fields[0] {
		case "net":
			if len(fields) > 1 {
				net.ID = fields[1]
			}
		case "tr":
			err = parseTransition(net, fields[1:])
		case "pl":
			err = parsePlace(net, fields[1:])
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return net, nil
}

// LoadFile parses the .net file at path.
func LoadFile(path string) (*reach.Net, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	n, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if n.ID == "" {
		n.ID = strings.TrimSuffix(path, ".net")
	}
	return n, nil
}

func parseTransition(net *reach.Net, content []string) error {
	if len(content) == 0 {
		return fmt.Errorf("missing transition identifier")
	}
	tr := net.EnsureTransition(content[0])
	content = skipLabel(content[1:])

	arrow := -1
	for i, tok := range content {
		if tok == "->" {
			arrow = i
			break
		}
	}
	if arrow < 0 {
		return fmt.Errorf("transition %s: missing ->", tr.ID)
	}
	for _, arc := range content[:arrow] {
		if err := parseArc(net, arc, tr.Pre); err != nil {
			return fmt.Errorf("transition %s: %w", tr.ID, err)
		}
	}
	for _, arc := range content[arrow+1:] {
		if err := parseArc(net, arc, tr.Post); err != nil {
			return fmt.Errorf("transition %s: %w", tr.ID, err)
		}
	}
	return nil
}

func parseArc(net *reach.Net, content string, arcs map[string]int) error {
	id, weightStr, weighted := strings.Cut(content, "*")
	weight := 1
	if weighted {
		var err error
		if weight, err = parseValue(weightStr); err != nil {
			return err
		}
	}
	net.EnsurePlace(id)
	arcs[id] += weight
	return nil
}

func parsePlace(net *reach.Net, content []string) error {
	if len(content) == 0 {
		return fmt.Errorf("missing place identifier")
	}
	id := content[0]
	content = skipLabel(content[1:])

	marking := 0
	if len(content) > 0 {
		var err error
		trimmed := strings.NewReplacer("(", "", ")", "").Replace(content[0])
		if marking, err = parseValue(trimmed); err != nil {
			return fmt.Errorf("place %s: %w", id, err)
		}
	}
	net.EnsurePlace(id).Initial = marking
	return nil
}

// skipLabel drops an optional `: name` or `: {multi token label}`.
func skipLabel(content []string) []string {
	if len(content) == 0 || content[0] != ":" {
		return content
	}
	if len(content) < 2 || !strings.HasPrefix(content[1], "{") {
		return content[2:]
	}
	i := 1
	for i < len(content) && !strings.HasSuffix(content[i], "}") {
		i++
	}
	return content[i+1:]
}

func parseValue(content string) (int, error) {
	if v, err := strconv.Atoi(content); err == nil && v >= 0 {
		return v, nil
	}
	if len(content) < 2 {
		return 0, fmt.Errorf("incorrect integer value %q", content)
	}
	mult, ok := multipliers[content[len(content)-1]]
	if !ok {
		return 0, fmt.Errorf("incorrect integer value %q", content)
	}
	v, err := strconv.Atoi(content[:len(content)-1])
	if err != nil || v < 0 {
		return 0, fmt.Errorf("incorrect integer value %q", content)
	}
	return v * mult, nil
}
