package diagnostics

// Confidence ranks how far a heuristic hit should be trusted.
type Confidence string

const (
	High   Confidence = "high"
	Medium Confidence = "medium"
	Low    Confidence = "low"
	None   Confidence = "none"
)

func (c Confidence) rank() int {
	switch c {
	case High:
		return 3
	case Medium:
		return 2
	case Low:
		return 1
	}

	return 0
}

// Higher reports whether c outranks o.
func (c Confidence) Higher(o Confidence) bool {
	return c.rank() > o.rank()
}
