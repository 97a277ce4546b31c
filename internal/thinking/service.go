package thinking

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Request is the normalized inbound shape of one seqthink call, after
// the adapter has decoded and type-checked the raw tool arguments.
// Pointer fields distinguish "omitted" from an explicit zero value.
type Request struct {
	Thought           string
	TotalThoughts     int
	ThoughtNumber     *int
	NextThoughtNeeded *bool
	SessionID         string

	IsRevision     bool
	RevisesThought int
	BranchFrom     int
	BranchID       string
	NeedsMore      *bool

	Confidence       *float64
	UncertaintyNotes string
	Outcome          string

	Assumptions []Assumption
	DependsOn   []string
	Invalidates []string
}

// Response is the outbound shape of one seqthink call.
type Response struct {
	SessionID            string                `json:"session_id"`
	ThoughtNumber        int                   `json:"thought_number"`
	TotalThoughts        int                   `json:"total_thoughts"`
	NextThoughtNeeded    bool                  `json:"next_thought_needed"`
	Branches             []string              `json:"branches"`
	ThoughtHistoryLength int                   `json:"thought_history_length"`
	Confidence           *float64              `json:"confidence,omitempty"`
	UncertaintyNotes     string                `json:"uncertainty_notes,omitempty"`
	Outcome              string                `json:"outcome,omitempty"`
	AllAssumptions       map[string]Assumption `json:"all_assumptions"`
	RiskyAssumptions     []string              `json:"risky_assumptions"`
	FalsifiedAssumptions []string              `json:"falsified_assumptions"`
	UnresolvedReferences []string              `json:"unresolved_references"`
	CrossSessionWarnings []string              `json:"cross_session_warnings"`
}

// Service owns the session registry and orchestrates each call: it
// resolves or creates the session, fills defaulted fields, pre-resolves
// cross-session assumption references, and composes the response.
type Service struct {
	mu       sync.Mutex
	sessions map[string]*Session
	logger   ThoughtLogger
}

// NewService creates a Service. The logger (nil to suppress the
// side-channel display) is applied to every session the registry
// creates for the life of the process.
func NewService(logger ThoughtLogger) *Service {
	return &Service{
		sessions: map[string]*Session{},
		logger:   logger,
	}
}

// session returns the Session for id, creating it if unknown. An empty
// id mints a fresh v4 UUID. Supplying an id the registry has never seen
// silently starts a new session under that exact id (resilient
// recovery): the caller gets a working session rather than an error,
// with the history starting over from length zero.
func (s *Service) session(id string) (string, *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == "" {
		id = uuid.NewString()
	}
	sess, ok := s.sessions[id]
	if !ok {
		sess = NewSession(s.logger)
		s.sessions[id] = sess
	}
	return id, sess
}

// lookup returns the Session for id without creating one.
func (s *Service) lookup(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// ResolveCrossSession resolves a scoped assumption reference of the
// form "<session-id>:<local-id>". It returns the local id and true when
// the named session exists and contains the assumption. An unscoped id
// is returned unchanged with resolved=true (shape check only).
func (s *Service) ResolveCrossSession(scopedID string) (string, bool) {
	targetID, localID, scoped := SplitScopedID(scopedID)
	if !scoped {
		return scopedID, true
	}
	target, ok := s.lookup(targetID)
	if !ok {
		return "", false
	}
	if !target.hasAssumption(localID) {
		return "", false
	}
	return localID, true
}

// Process handles one seqthink call end to end.
func (s *Service) Process(req Request) (Response, error) {
	sessionID, sess := s.session(req.SessionID)

	number := sess.ThoughtCount() + 1
	if req.ThoughtNumber != nil {
		number = *req.ThoughtNumber
	}

	nextNeeded := number < req.TotalThoughts
	if req.NextThoughtNeeded != nil {
		nextNeeded = *req.NextThoughtNeeded
	}

	// Pre-resolve scoped dependencies; the subset that resolves is
	// accepted silently by the session, the rest becomes soft signals.
	var validatedRefs []string
	for _, id := range req.DependsOn {
		if _, _, scoped := SplitScopedID(id); !scoped {
			continue
		}
		if _, resolved := s.ResolveCrossSession(id); resolved {
			validatedRefs = append(validatedRefs, id)
		}
	}

	thought := &Thought{
		Text:             req.Thought,
		Number:           number,
		Total:            req.TotalThoughts,
		NextNeeded:       nextNeeded,
		IsRevision:       req.IsRevision,
		RevisesNumber:    req.RevisesThought,
		BranchFrom:       req.BranchFrom,
		BranchID:         req.BranchID,
		NeedsMore:        req.NeedsMore,
		Confidence:       req.Confidence,
		UncertaintyNotes: req.UncertaintyNotes,
		Outcome:          req.Outcome,
		Assumptions:      req.Assumptions,
		DependsOn:        req.DependsOn,
		Invalidates:      req.Invalidates,
	}
	if err := thought.Validate(); err != nil {
		return Response{}, err
	}

	if err := sess.AddThought(thought, validatedRefs); err != nil {
		return Response{}, err
	}

	return Response{
		SessionID:            sessionID,
		ThoughtNumber:        thought.Number,
		TotalThoughts:        thought.Total,
		NextThoughtNeeded:    thought.NextNeeded,
		Branches:             nonNil(sess.BranchIDs()),
		ThoughtHistoryLength: sess.ThoughtCount(),
		Confidence:           thought.Confidence,
		UncertaintyNotes:     thought.UncertaintyNotes,
		Outcome:              thought.Outcome,
		AllAssumptions:       sess.AllAssumptions(),
		RiskyAssumptions:     nonNil(sess.RiskyAssumptions()),
		FalsifiedAssumptions: nonNil(sess.FalsifiedAssumptions()),
		UnresolvedReferences: nonNil(sess.UnresolvedReferences()),
		CrossSessionWarnings: nonNil(sess.CrossSessionWarnings()),
	}, nil
}

// VerifyAssumption marks an assumption in the given session as
// verified true or false.
func (s *Service) VerifyAssumption(sessionID, assumptionID string, isTrue bool) (Assumption, error) {
	sess, ok := s.lookup(sessionID)
	if !ok {
		return Assumption{}, fmt.Errorf("session %s not found", sessionID)
	}
	return sess.VerifyAssumption(assumptionID, isTrue)
}

// nonNil keeps JSON list fields as [] instead of null.
func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
