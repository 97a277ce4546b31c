// Package thinking implements the in-memory session model behind the
// seqthink tool: ordered, possibly-branching thought histories with
// assumption dependency and invalidation bookkeeping.
//
// Sessions live for the process lifetime and are never evicted, so a
// long-running server accumulates memory in proportion to the thoughts
// submitted. That is an accepted operational constraint, not a
// correctness one.
package thinking

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ThoughtLogger receives each accepted thought for human-readable
// side-channel display. Implementations must not write to stdout (it
// belongs to the stdio transport).
type ThoughtLogger interface {
	LogThought(t *Thought)
	LogAssumptionUpdate(id string)
}

// Session owns one ordered thought history plus its branch index and
// assumption table. It enforces all referential and update invariants.
// All exported methods are safe for concurrent use; different sessions
// share no state and may be driven fully in parallel.
type Session struct {
	mu          sync.Mutex
	thoughts    []*Thought
	branches    map[string][]*Thought
	branchOrder []string
	assumptions map[string]*Assumption

	unresolvedSet  map[string]bool
	unresolvedRefs []string
	warnings       []string

	logger ThoughtLogger
}

// NewSession creates an empty session. A nil logger disables the
// side-channel display.
func NewSession(logger ThoughtLogger) *Session {
	return &Session{
		branches:      map[string][]*Thought{},
		assumptions:   map[string]*Assumption{},
		unresolvedSet: map[string]bool{},
		logger:        logger,
	}
}

// AddThought validates and appends a thought to the session.
// validatedCrossSessionRefs lists the scoped depends_on entries the
// orchestrator has already confirmed exist in their target sessions.
//
// The mutation sequence is not transactional: references and local
// dependencies are validated first, then new/updated assumptions are
// written, then invalidations applied, then the thought appended. A
// failure partway (e.g. an unknown invalidation target) leaves
// assumptions written earlier in the same call committed.
func (s *Session) AddThought(t *Thought, validatedCrossSessionRefs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t.AutoAdjustTotal()

	existing := make(map[int]bool, len(s.thoughts))
	for _, prev := range s.thoughts {
		existing[prev.Number] = true
	}
	if err := t.ValidateReferences(existing); err != nil {
		return err
	}

	validated := make(map[string]bool, len(validatedCrossSessionRefs))
	for _, ref := range validatedCrossSessionRefs {
		validated[ref] = true
	}

	// Dependencies: local ids must exist; scoped ids either resolved
	// upstream or downgraded to a soft unresolved-reference signal.
	for _, id := range t.DependsOn {
		if _, _, scoped := SplitScopedID(id); scoped {
			if validated[id] {
				continue
			}
			if !s.unresolvedSet[id] {
				s.unresolvedSet[id] = true
				s.unresolvedRefs = append(s.unresolvedRefs, id)
			}
			s.warnings = append(s.warnings, fmt.Sprintf(
				"cross-session reference %s could not be resolved: session or assumption not found", id))
			continue
		}
		if _, ok := s.assumptions[id]; !ok {
			return fmt.Errorf(
				"cannot depend on assumption %s: assumption not found in this session. Available assumptions: %s",
				id, s.availableAssumptionIDs())
		}
	}

	// New and updated assumptions declared by this thought.
	for i := range t.Assumptions {
		incoming := &t.Assumptions[i]
		current, ok := s.assumptions[incoming.ID]
		if !ok {
			cp := *incoming
			s.assumptions[incoming.ID] = &cp
			continue
		}
		if err := current.checkImmutable(incoming); err != nil {
			return err
		}
		s.logAssumptionUpdate(incoming.ID)
		current.Confidence = incoming.Confidence
		current.Verifiable = incoming.Verifiable
		current.Evidence = incoming.Evidence
		current.VerificationStatus = incoming.VerificationStatus
	}

	// Invalidations. Cross-session targets are never touched.
	for _, id := range t.Invalidates {
		if _, _, scoped := SplitScopedID(id); scoped {
			s.warnings = append(s.warnings, fmt.Sprintf(
				"cross-session invalidation of %s is not supported: assumption left unmodified", id))
			continue
		}
		target, ok := s.assumptions[id]
		if !ok {
			return fmt.Errorf(
				"cannot invalidate assumption %s: assumption not found in this session. Available assumptions: %s",
				id, s.availableAssumptionIDs())
		}
		target.VerificationStatus = StatusVerifiedFalse
	}

	s.thoughts = append(s.thoughts, t)

	if t.IsBranch() {
		if _, ok := s.branches[t.BranchID]; !ok {
			s.branchOrder = append(s.branchOrder, t.BranchID)
		}
		s.branches[t.BranchID] = append(s.branches[t.BranchID], t)
	}

	s.logThought(t)
	return nil
}

// logThought hands the accepted thought to the side-channel logger.
// The logger is fire-and-forget: a panicking renderer must not corrupt
// session state or fail the call.
func (s *Session) logThought(t *Thought) {
	if s.logger == nil {
		return
	}
	defer func() { _ = recover() }()
	s.logger.LogThought(t)
}

func (s *Session) logAssumptionUpdate(id string) {
	if s.logger == nil {
		return
	}
	defer func() { _ = recover() }()
	s.logger.LogAssumptionUpdate(id)
}

// availableAssumptionIDs renders the known assumption ids for error
// messages, sorted ascending, or "none" when the table is empty.
func (s *Session) availableAssumptionIDs() string {
	if len(s.assumptions) == 0 {
		return "none"
	}
	ids := make([]string, 0, len(s.assumptions))
	for id := range s.assumptions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return "[" + strings.Join(ids, " ") + "]"
}

// ThoughtCount returns the number of thoughts in the session history.
func (s *Session) ThoughtCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.thoughts)
}

// BranchIDs returns all branch identifiers in creation order.
func (s *Session) BranchIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, len(s.branchOrder))
	copy(ids, s.branchOrder)
	return ids
}

// AllAssumptions returns a snapshot copy of the assumption table.
func (s *Session) AllAssumptions() map[string]Assumption {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]Assumption, len(s.assumptions))
	for id, a := range s.assumptions {
		out[id] = *a
	}
	return out
}

// RiskyAssumptions returns the ids of risky assumptions (critical, low
// confidence, not verified true), sorted ascending.
func (s *Session) RiskyAssumptions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []string
	for id, a := range s.assumptions {
		if a.IsRisky() {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// FalsifiedAssumptions returns the ids of assumptions proven false,
// sorted ascending.
func (s *Session) FalsifiedAssumptions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []string
	for id, a := range s.assumptions {
		if a.IsFalsified() {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// UnresolvedReferences returns the cross-session references that could
// not be resolved, in the order first encountered.
func (s *Session) UnresolvedReferences() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.unresolvedRefs))
	copy(out, s.unresolvedRefs)
	return out
}

// CrossSessionWarnings returns the warnings accumulated for
// cross-session reference and invalidation attempts.
func (s *Session) CrossSessionWarnings() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.warnings))
	copy(out, s.warnings)
	return out
}

// AffectedThoughts returns the numbers of thoughts that declared a
// dependency on the given assumption id, in history order.
func (s *Session) AffectedThoughts(assumptionID string) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var affected []int
	for _, t := range s.thoughts {
		for _, dep := range t.DependsOn {
			if dep == assumptionID {
				affected = append(affected, t.Number)
				break
			}
		}
	}
	return affected
}

// VerifyAssumption marks an assumption as verified true or false and
// returns the updated record.
func (s *Session) VerifyAssumption(assumptionID string, isTrue bool) (Assumption, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.assumptions[assumptionID]
	if !ok {
		return Assumption{}, fmt.Errorf("assumption %s not found in this session", assumptionID)
	}
	if isTrue {
		a.VerificationStatus = StatusVerifiedTrue
	} else {
		a.VerificationStatus = StatusVerifiedFalse
	}
	return *a, nil
}

// hasAssumption reports whether the session's table contains the given
// local assumption id. Used by the service for cross-session resolution.
func (s *Session) hasAssumption(localID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.assumptions[localID]
	return ok
}

// SplitScopedID parses an assumption reference of the form
// "<session-id>:<local-id>" on the first colon. For an unscoped id it
// returns ("", id, false).
func SplitScopedID(id string) (sessionID, localID string, scoped bool) {
	idx := strings.Index(id, ":")
	if idx < 0 {
		return "", id, false
	}
	return id[:idx], id[idx+1:], true
}
