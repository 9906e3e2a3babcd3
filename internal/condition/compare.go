package condition

// CompareNumeric applies op to a numeric subject and a candidate list.
//
// For `=` and `!=` the candidates are treated as a set: `=` is true iff the
// subject equals any element, `!=` is true iff it equals none. For ordering
// operators the first candidate is the scalar to compare against; callers
// are expected to have reduced multi-value lists already (see Coerce*), but
// the reduction is applied here too so the ordering code path never sees a
// set. An unknown operator returns false.
func CompareNumeric(subject float64, candidates []float64, op Operator) bool {
	if len(candidates) == 0 {
		return false
	}

	switch op {
	case OpEq:
		return containsFloat(candidates, subject)
	case OpNeq:
		return !containsFloat(candidates, subject)
	case OpGt:
		return subject > candidates[0]
	case OpLt:
		return subject < candidates[0]
	case OpGte:
		return subject >= candidates[0]
	case OpLte:
		return subject <= candidates[0]
	default:
		return false
	}
}

// CompareString applies op to a string subject and a candidate list.
// Same membership-vs-ordering split as CompareNumeric; equality is exact
// (case-sensitive), ordering is lexicographic.
func CompareString(subject string, candidates []string, op Operator) bool {
	if len(candidates) == 0 {
		return false
	}

	switch op {
	case OpEq:
		return containsString(candidates, subject)
	case OpNeq:
		return !containsString(candidates, subject)
	case OpGt:
		return subject > candidates[0]
	case OpLt:
		return subject < candidates[0]
	case OpGte:
		return subject >= candidates[0]
	case OpLte:
		return subject <= candidates[0]
	default:
		return false
	}
}

func containsFloat(list []float64, v float64) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func containsString(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
