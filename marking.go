package reach

import (
	"fmt"
	"sort"
	"strings"
)

// Marking assigns a token count to each place.
type Marking map[string]int

func (m Marking) String() string {
	ids := make([]string, 0, len(m))
	for id, tokens := range m {
		if tokens > 0 {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return "empty marking"
	}
	sort.Strings(ids)
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%s(%d)", id, m[id])
	}
	return strings.Join(parts, " ")
}
