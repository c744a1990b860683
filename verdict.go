package reach

// Verdict is the outcome of a reachability analysis.
type Verdict int

const (
	Unknown Verdict = iota
	Reachable
	NotReachable
)

func (v Verdict) String() string {
	switch v {
	case Reachable:
		return "REACHABLE"
	case NotReachable:
		return "NOT REACHABLE"
	default:
		return "UNKNOWN"
	}
}
