package thinking

import (
	"fmt"
	"regexp"
	"strings"
)

// Verification status values for an assumption.
const (
	StatusUnverified    = "unverified"
	StatusVerifiedTrue  = "verified_true"
	StatusVerifiedFalse = "verified_false"
)

// assumptionIDPattern matches valid assumption identifiers: "A1", "A2", "A42"...
var assumptionIDPattern = regexp.MustCompile(`^A\d+$`)

// Assumption is a fact the caller is taking for granted in its reasoning,
// tracked with confidence, criticality, and verification metadata.
//
// Within a session, Text and Critical are immutable once the ID exists;
// Confidence, Verifiable, Evidence, and VerificationStatus may be
// overwritten on re-submission under the same ID.
type Assumption struct {
	ID                 string  `json:"id"`
	Text               string  `json:"text"`
	Confidence         float64 `json:"confidence"`
	Critical           bool    `json:"critical"`
	Verifiable         bool    `json:"verifiable"`
	Evidence           string  `json:"evidence,omitempty"`
	VerificationStatus string  `json:"verification_status,omitempty"`
}

// Validate checks the structural constraints on an assumption payload.
func (a *Assumption) Validate() error {
	if !assumptionIDPattern.MatchString(a.ID) {
		return fmt.Errorf("invalid assumption id %q: must match A<number> (e.g. \"A1\")", a.ID)
	}
	if strings.TrimSpace(a.Text) == "" {
		return fmt.Errorf("assumption %s: text must be a non-empty string", a.ID)
	}
	if a.Confidence < 0 || a.Confidence > 1 {
		return fmt.Errorf("assumption %s: confidence must be in [0.0, 1.0], got %v", a.ID, a.Confidence)
	}
	switch a.VerificationStatus {
	case "", StatusUnverified, StatusVerifiedTrue, StatusVerifiedFalse:
	default:
		return fmt.Errorf("assumption %s: unknown verification_status %q", a.ID, a.VerificationStatus)
	}
	return nil
}

// IsVerified reports whether the assumption has been verified either way.
func (a *Assumption) IsVerified() bool {
	return a.VerificationStatus == StatusVerifiedTrue || a.VerificationStatus == StatusVerifiedFalse
}

// IsFalsified reports whether the assumption has been proven false.
func (a *Assumption) IsFalsified() bool {
	return a.VerificationStatus == StatusVerifiedFalse
}

// IsRisky reports whether the assumption is risky: critical, low
// confidence, and not verified true.
func (a *Assumption) IsRisky() bool {
	return a.Critical && a.Confidence < 0.7 && a.VerificationStatus != StatusVerifiedTrue
}

// checkImmutable verifies that a re-submission under the same ID does not
// change the immutable core fields (Text, Critical).
func (a *Assumption) checkImmutable(incoming *Assumption) error {
	if a.Text != incoming.Text {
		return fmt.Errorf(
			"cannot update assumption %s: text mismatch. Existing: %q, New: %q. Core assumption fields (text, critical) are immutable",
			a.ID, a.Text, incoming.Text,
		)
	}
	if a.Critical != incoming.Critical {
		return fmt.Errorf(
			"cannot update assumption %s: critical flag mismatch. Existing: %v, New: %v. Core assumption fields (text, critical) are immutable",
			a.ID, a.Critical, incoming.Critical,
		)
	}
	return nil
}
