package thinking

import (
	"fmt"
	"sort"
	"strings"
)

// Thought is a single step in a sequential thinking session.
//
// Optional fields use pointers so "omitted" is distinguishable from the
// zero value; the inbound adapter fills Number and NextNeeded before a
// Thought reaches the session.
type Thought struct {
	Text       string `json:"thought"`
	Number     int    `json:"thought_number"`
	Total      int    `json:"total_thoughts"`
	NextNeeded bool   `json:"next_thought_needed"`

	IsRevision    bool   `json:"is_revision,omitempty"`
	RevisesNumber int    `json:"revises_thought,omitempty"`
	BranchFrom    int    `json:"branch_from_thought,omitempty"`
	BranchID      string `json:"branch_id,omitempty"`
	NeedsMore     *bool  `json:"needs_more_thoughts,omitempty"`

	Confidence       *float64 `json:"confidence,omitempty"`
	UncertaintyNotes string   `json:"uncertainty_notes,omitempty"`
	Outcome          string   `json:"outcome,omitempty"`

	Assumptions []Assumption `json:"assumptions,omitempty"`
	DependsOn   []string     `json:"depends_on_assumptions,omitempty"`
	Invalidates []string     `json:"invalidates_assumptions,omitempty"`
}

// Validate checks the structural constraints on a fully-constructed thought.
func (t *Thought) Validate() error {
	if strings.TrimSpace(t.Text) == "" {
		return fmt.Errorf("thought must be a non-empty string")
	}
	if t.Number < 1 {
		return fmt.Errorf("thought_number must be >= 1, got %d", t.Number)
	}
	if t.Total < 1 {
		return fmt.Errorf("total_thoughts must be >= 1, got %d", t.Total)
	}
	if t.RevisesNumber < 0 {
		return fmt.Errorf("revises_thought must be >= 1, got %d", t.RevisesNumber)
	}
	if t.BranchFrom < 0 {
		return fmt.Errorf("branch_from_thought must be >= 1, got %d", t.BranchFrom)
	}
	if t.Confidence != nil && (*t.Confidence < 0 || *t.Confidence > 1) {
		return fmt.Errorf("confidence must be in [0.0, 1.0], got %v", *t.Confidence)
	}
	for i := range t.Assumptions {
		if err := t.Assumptions[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// IsBranch reports whether this thought opens (or continues) a branch.
func (t *Thought) IsBranch() bool {
	return t.BranchFrom != 0 && t.BranchID != ""
}

// IsFinal reports whether this is the final thought of the session.
func (t *Thought) IsFinal() bool {
	return !t.NextNeeded
}

// AutoAdjustTotal bumps the total estimate up to the current thought
// number when progress has overtaken it. The estimate tracks the
// high-water mark of actual progress and never shrinks below it.
func (t *Thought) AutoAdjustTotal() {
	if t.Number > t.Total {
		t.Total = t.Number
	}
}

// ValidateReferences checks that a revision or branch points at a thought
// number that already exists in the session. The error distinguishes an
// empty session (the caller likely forgot to pass session_id) from a
// session where the specific number is simply absent.
func (t *Thought) ValidateReferences(existing map[int]bool) error {
	if t.IsRevision && t.RevisesNumber != 0 && !existing[t.RevisesNumber] {
		if len(existing) == 0 {
			return fmt.Errorf(
				"cannot revise thought %d: no thoughts exist in this session yet. To continue an existing session, pass the session_id parameter",
				t.RevisesNumber,
			)
		}
		return fmt.Errorf(
			"cannot revise thought %d: thought not found in this session. Available thoughts: %v",
			t.RevisesNumber, sortedNumbers(existing),
		)
	}

	if t.IsBranch() && !existing[t.BranchFrom] {
		if len(existing) == 0 {
			return fmt.Errorf(
				"cannot branch from thought %d: no thoughts exist in this session yet. To continue an existing session, pass the session_id parameter",
				t.BranchFrom,
			)
		}
		return fmt.Errorf(
			"cannot branch from thought %d: thought not found in this session. Available thoughts: %v",
			t.BranchFrom, sortedNumbers(existing),
		)
	}

	return nil
}

func sortedNumbers(set map[int]bool) []int {
	nums := make([]int, 0, len(set))
	for n := range set {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}
