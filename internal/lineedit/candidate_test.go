package lineedit

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestComplete(t *testing.T) {
	options := []string{"send", "set-mode", "set-baud"}
	tests := []struct {
		prefix string
		want   []string
		state  CandidateState
	}{
		{prefix: "se", want: []string{"nd", "t-mode", "t-baud"}, state: CandidateHas},
		{prefix: "send", want: nil, state: CandidateMatch},
		{prefix: "set-", want: []string{"mode", "baud"}, state: CandidateHas},
		{prefix: "x", want: nil, state: CandidateNone},
		{prefix: "", want: []string{"send", "set-mode", "set-baud"}, state: CandidateHas},
	}
	for _, tt := range tests {
		got := Complete(options, tt.prefix)
		if diff := cmp.Diff(tt.want, got.Suffixes); diff != "" {
			t.Fatalf("prefix %q suffixes (-want +got):\n%s", tt.prefix, diff)
		}
		if got.State != tt.state {
			t.Fatalf("prefix %q state = %v want %v", tt.prefix, got.State, tt.state)
		}
	}
}

func TestComplete_MatchWinsOverRemainingSuffixes(t *testing.T) {
	got := Complete([]string{"on", "one"}, "on")
	if got.State != CandidateMatch {
		t.Fatalf("state = %v", got.State)
	}
	if diff := cmp.Diff([]string{"e"}, got.Suffixes); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}
