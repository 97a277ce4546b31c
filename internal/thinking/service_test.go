package thinking

import (
	"fmt"
	"strings"
	"sync"
	"testing"
)

func process(t *testing.T, svc *Service, req Request) Response {
	t.Helper()
	resp, err := svc.Process(req)
	if err != nil {
		t.Fatalf("Process(%+v): %v", req, err)
	}
	return resp
}

func TestServiceMintsSessionID(t *testing.T) {
	svc := NewService(nil)
	resp := process(t, svc, Request{Thought: "first", TotalThoughts: 3})

	if len(resp.SessionID) != 36 {
		t.Errorf("minted session id %q, want 36-char canonical UUID", resp.SessionID)
	}
	if resp.ThoughtHistoryLength != 1 {
		t.Errorf("history length = %d, want 1", resp.ThoughtHistoryLength)
	}

	// A second call without session_id starts an independent session.
	resp2 := process(t, svc, Request{Thought: "other", TotalThoughts: 3})
	if resp2.SessionID == resp.SessionID {
		t.Error("each omitted session_id must mint a distinct session")
	}
}

func TestServiceAutoNumbering(t *testing.T) {
	svc := NewService(nil)
	resp := process(t, svc, Request{Thought: "one", TotalThoughts: 3})
	sid := resp.SessionID

	for want := 1; want <= 3; want++ {
		if resp.ThoughtNumber != want {
			t.Errorf("thought_number = %d, want %d", resp.ThoughtNumber, want)
		}
		resp = process(t, svc, Request{Thought: "next", TotalThoughts: 3, SessionID: sid})
	}
}

func TestServiceContinuationDefault(t *testing.T) {
	svc := NewService(nil)

	resp := process(t, svc, Request{Thought: "one", TotalThoughts: 3})
	if !resp.NextThoughtNeeded {
		t.Error("thought 1 of 3 should default next_thought_needed=true")
	}
	sid := resp.SessionID

	process(t, svc, Request{Thought: "two", TotalThoughts: 3, SessionID: sid})
	resp = process(t, svc, Request{Thought: "three", TotalThoughts: 3, SessionID: sid})
	if resp.NextThoughtNeeded {
		t.Error("thought 3 of 3 should default next_thought_needed=false")
	}

	// An explicit value always wins, regardless of position.
	forceOn := true
	resp = process(t, svc, Request{Thought: "four", TotalThoughts: 4, SessionID: sid, NextThoughtNeeded: &forceOn})
	if !resp.NextThoughtNeeded {
		t.Error("explicit next_thought_needed=true must win")
	}

	forceOff := false
	resp = process(t, svc, Request{Thought: "early stop", TotalThoughts: 10, SessionID: sid, NextThoughtNeeded: &forceOff})
	if resp.NextThoughtNeeded {
		t.Error("explicit next_thought_needed=false must win")
	}
}

func TestServiceTotalIsMonotonicHighWaterMark(t *testing.T) {
	svc := NewService(nil)
	resp := process(t, svc, Request{Thought: "one", TotalThoughts: 3})
	sid := resp.SessionID

	n := 5
	resp = process(t, svc, Request{Thought: "jump", TotalThoughts: 3, SessionID: sid, ThoughtNumber: &n})
	if resp.TotalThoughts != 5 {
		t.Errorf("total_thoughts = %d, want 5 (bumped to explicit number)", resp.TotalThoughts)
	}
	if resp.ThoughtNumber != 5 {
		t.Errorf("thought_number = %d, want 5 (explicit value honored)", resp.ThoughtNumber)
	}
}

func TestServiceResilientRecovery(t *testing.T) {
	svc := NewService(nil)

	n := 5
	resp := process(t, svc, Request{Thought: "resumed?", TotalThoughts: 5, SessionID: "lost-id", ThoughtNumber: &n})

	if resp.SessionID != "lost-id" {
		t.Errorf("session id = %q, want supplied id verbatim", resp.SessionID)
	}
	if resp.ThoughtHistoryLength != 1 {
		t.Errorf("history length = %d, want 1 (fresh session under the supplied id)", resp.ThoughtHistoryLength)
	}
	if resp.ThoughtNumber != 5 {
		t.Errorf("thought_number = %d, want supplied 5", resp.ThoughtNumber)
	}

	// The id is now registered and reusable.
	resp = process(t, svc, Request{Thought: "continue", TotalThoughts: 6, SessionID: "lost-id"})
	if resp.ThoughtHistoryLength != 2 {
		t.Errorf("history length = %d, want 2", resp.ThoughtHistoryLength)
	}
}

func TestServiceRevisionScenario(t *testing.T) {
	svc := NewService(nil)
	resp := process(t, svc, Request{Thought: "start", TotalThoughts: 3})
	sid := resp.SessionID
	if !resp.NextThoughtNeeded {
		t.Error("thought 1/3 should need more thoughts")
	}

	resp = process(t, svc, Request{
		Thought: "rethink", TotalThoughts: 3, SessionID: sid,
		IsRevision: true, RevisesThought: 1,
	})
	if resp.ThoughtHistoryLength != 2 {
		t.Errorf("history length = %d, want 2", resp.ThoughtHistoryLength)
	}

	n := 5
	resp = process(t, svc, Request{Thought: "overrun", TotalThoughts: 3, SessionID: sid, ThoughtNumber: &n})
	if resp.TotalThoughts != 5 {
		t.Errorf("total_thoughts = %d, want auto-bump to 5", resp.TotalThoughts)
	}
}

func TestServiceInvalidationScenario(t *testing.T) {
	svc := NewService(nil)
	resp := process(t, svc, Request{
		Thought: "assume", TotalThoughts: 2,
		Assumptions: []Assumption{{ID: "A1", Text: "X", Confidence: 0.5, Critical: true}},
	})
	sid := resp.SessionID

	if len(resp.RiskyAssumptions) != 1 || resp.RiskyAssumptions[0] != "A1" {
		t.Errorf("risky = %v, want [A1]", resp.RiskyAssumptions)
	}

	resp = process(t, svc, Request{
		Thought: "disprove", TotalThoughts: 2, SessionID: sid,
		Invalidates: []string{"A1"},
	})

	if len(resp.FalsifiedAssumptions) != 1 || resp.FalsifiedAssumptions[0] != "A1" {
		t.Errorf("falsified = %v, want [A1]", resp.FalsifiedAssumptions)
	}
	if got := resp.AllAssumptions["A1"].VerificationStatus; got != StatusVerifiedFalse {
		t.Errorf("A1 status = %q, want %q", got, StatusVerifiedFalse)
	}
}

func TestServiceCrossSessionResolution(t *testing.T) {
	svc := NewService(nil)

	// Session "source" declares A1.
	process(t, svc, Request{
		Thought: "declare", TotalThoughts: 1, SessionID: "source",
		Assumptions: []Assumption{{ID: "A1", Text: "shared fact", Confidence: 1, Critical: true}},
	})

	// A known session + known id resolves silently.
	resp := process(t, svc, Request{
		Thought: "use it", TotalThoughts: 1, SessionID: "consumer",
		DependsOn: []string{"source:A1"},
	})
	if len(resp.UnresolvedReferences) != 0 {
		t.Errorf("unresolved = %v, want none", resp.UnresolvedReferences)
	}
	if len(resp.CrossSessionWarnings) != 0 {
		t.Errorf("warnings = %v, want none", resp.CrossSessionWarnings)
	}

	// Unknown session → soft signal, call succeeds.
	resp = process(t, svc, Request{
		Thought: "ghost dep", TotalThoughts: 1, SessionID: "consumer",
		DependsOn: []string{"nowhere:A1"},
	})
	if len(resp.UnresolvedReferences) != 1 || resp.UnresolvedReferences[0] != "nowhere:A1" {
		t.Errorf("unresolved = %v, want [nowhere:A1]", resp.UnresolvedReferences)
	}

	// Known session, unknown id → soft signal too.
	resp = process(t, svc, Request{
		Thought: "missing id", TotalThoughts: 1, SessionID: "consumer",
		DependsOn: []string{"source:A99"},
	})
	found := false
	for _, ref := range resp.UnresolvedReferences {
		if ref == "source:A99" {
			found = true
		}
	}
	if !found {
		t.Errorf("unresolved = %v, want to contain source:A99", resp.UnresolvedReferences)
	}
}

func TestServiceResolveCrossSession(t *testing.T) {
	svc := NewService(nil)
	process(t, svc, Request{
		Thought: "declare", TotalThoughts: 1, SessionID: "s1",
		Assumptions: []Assumption{{ID: "A1", Text: "x", Confidence: 1, Critical: true}},
	})

	if local, ok := svc.ResolveCrossSession("s1:A1"); !ok || local != "A1" {
		t.Errorf("ResolveCrossSession(s1:A1) = (%q, %v), want (A1, true)", local, ok)
	}
	if _, ok := svc.ResolveCrossSession("s1:A9"); ok {
		t.Error("unknown local id must not resolve")
	}
	if _, ok := svc.ResolveCrossSession("nope:A1"); ok {
		t.Error("unknown session must not resolve")
	}
	// Unscoped ids pass through as a shape check.
	if local, ok := svc.ResolveCrossSession("A1"); !ok || local != "A1" {
		t.Errorf("ResolveCrossSession(A1) = (%q, %v), want (A1, true)", local, ok)
	}
}

func TestServiceCrossSessionInvalidationLeavesTargetUntouched(t *testing.T) {
	svc := NewService(nil)
	process(t, svc, Request{
		Thought: "declare", TotalThoughts: 1, SessionID: "source",
		Assumptions: []Assumption{{ID: "A1", Text: "x", Confidence: 1, Critical: true}},
	})

	resp := process(t, svc, Request{
		Thought: "try to retract remotely", TotalThoughts: 1, SessionID: "consumer",
		Invalidates: []string{"source:A1"},
	})
	if len(resp.CrossSessionWarnings) != 1 {
		t.Errorf("warnings = %v, want exactly one", resp.CrossSessionWarnings)
	}

	// The target session's assumption is unchanged.
	check := process(t, svc, Request{Thought: "check", TotalThoughts: 2, SessionID: "source"})
	if got := check.AllAssumptions["A1"].VerificationStatus; got != "" {
		t.Errorf("source A1 status = %q, want unset", got)
	}
}

func TestServiceDomainErrorsPropagate(t *testing.T) {
	svc := NewService(nil)
	_, err := svc.Process(Request{
		Thought: "dangling", TotalThoughts: 1,
		IsRevision: true, RevisesThought: 3,
	})
	if err == nil || !strings.Contains(err.Error(), "session_id") {
		t.Errorf("empty-session revision should propagate the hint, got: %v", err)
	}

	_, err = svc.Process(Request{Thought: "bad dep", TotalThoughts: 1, DependsOn: []string{"A1"}})
	if err == nil || !strings.Contains(err.Error(), "assumption not found") {
		t.Errorf("unknown dependency should fail, got: %v", err)
	}
}

func TestServiceVerifyAssumption(t *testing.T) {
	svc := NewService(nil)
	process(t, svc, Request{
		Thought: "declare", TotalThoughts: 1, SessionID: "s1",
		Assumptions: []Assumption{{ID: "A1", Text: "x", Confidence: 1, Critical: true}},
	})

	a, err := svc.VerifyAssumption("s1", "A1", true)
	if err != nil {
		t.Fatalf("VerifyAssumption: %v", err)
	}
	if a.VerificationStatus != StatusVerifiedTrue {
		t.Errorf("status = %q, want %q", a.VerificationStatus, StatusVerifiedTrue)
	}

	if _, err := svc.VerifyAssumption("missing", "A1", true); err == nil {
		t.Error("unknown session must return an error")
	}
}

func TestServiceParallelSessions(t *testing.T) {
	svc := NewService(nil)

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := svc.Process(Request{
				Thought: "parallel", TotalThoughts: 1,
				SessionID: fmt.Sprintf("worker-%d", i),
			})
			if err != nil {
				errs <- err
				return
			}
			if resp.ThoughtHistoryLength != 1 {
				errs <- fmt.Errorf("worker-%d history length = %d, want 1", i, resp.ThoughtHistoryLength)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestServiceResponseListsNeverNil(t *testing.T) {
	svc := NewService(nil)
	resp := process(t, svc, Request{Thought: "x", TotalThoughts: 1})

	if resp.Branches == nil || resp.RiskyAssumptions == nil ||
		resp.FalsifiedAssumptions == nil || resp.UnresolvedReferences == nil ||
		resp.CrossSessionWarnings == nil {
		t.Error("response list fields must be empty slices, not nil")
	}
}
