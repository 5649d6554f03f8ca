package lineedit

import "strings"

// CandidateState qualifies how the typed prefix relates to the options.
type CandidateState int

const (
	// CandidateNone means no option extends the prefix.
	CandidateNone CandidateState = iota
	// CandidateHas means some options extend the prefix but none equals it.
	CandidateHas
	// CandidateMatch means the prefix equals one of the options.
	CandidateMatch
)

func (s CandidateState) String() string {
	switch s {
	case CandidateHas:
		return "has"
	case CandidateMatch:
		return "match"
	default:
		return "none"
	}
}

// Completion is the filtered candidate set for one prefix.
type Completion struct {
	// Suffixes holds what remains of each option once the prefix is removed.
	Suffixes []string
	State    CandidateState
}

// Complete filters options down to those strictly longer than prefix and
// starting with it, keeping only the part still to be typed.
func Complete(options []string, prefix string) Completion {
	var c Completion
	exact := false
	for _, opt := range options {
		if opt == prefix {
			exact = true
			continue
		}
		if len(opt) > len(prefix) && strings.HasPrefix(opt, prefix) {
			c.Suffixes = append(c.Suffixes, opt[len(prefix):])
		}
	}
	switch {
	case exact:
		c.State = CandidateMatch
	case len(c.Suffixes) > 0:
		c.State = CandidateHas
	}
	return c
}
