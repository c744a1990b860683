// Package analysis provides the linear-algebra view of a Petri net
// used by the state-equation relaxation.
package analysis

import (
	"gonum.org/v1/gonum/mat"

	"github.com/jt05610/reach"
)

type Net struct {
	*reach.Net
}

// FiringVector is the unit vector selecting transition t.
func (net *Net) FiringVector(t int) *mat.Dense {
	v := make([]float64, len(net.TransitionIDs()))
	v[t] = 1
	return mat.NewDense(1, len(v), v)
}

// Incidence is the transitions x places matrix of net effects
// (post - pre).
func (net *Net) Incidence() *mat.Dense {
	places := net.Places()
	transitions := net.Transitions()
	m := len(places)
	n := len(transitions)
	d := make([]float64, m*n)
	for i, tr := range transitions {
		for j, pl := range places {
			d[i*m+j] = float64(tr.Delta(pl.ID))
		}
	}
	return mat.NewDense(n, m, d)
}

// Apply returns the marking predicted by the state equation for the
// given firing-count vector, ignoring firing order and enabledness.
func (net *Net) Apply(m0 reach.Marking, counts []float64) reach.Marking {
	f := mat.NewDense(1, len(counts), counts)
	var effect mat.Dense
	effect.Mul(f, net.Incidence())

	out := make(reach.Marking, len(m0))
	for j, pl := range net.Places() {
		out[pl.ID] = m0[pl.ID] + int(effect.At(0, j))
	}
	return out
}
