package thinktool

import (
	"encoding/json"
	"fmt"

	"github.com/seqthink/seqthink/internal/thinking"
)

// The list-typed parameters accept either a structured JSON array or a
// JSON-encoded string containing one (some MCP clients serialize nested
// values as strings). Normalization happens here, at the boundary —
// the aggregate only ever sees decoded slices.

// stringList normalizes a list-of-strings argument. A nil value yields
// a nil slice.
func stringList(key string, v any) ([]string, error) {
	if v == nil {
		return nil, nil
	}

	switch val := v.(type) {
	case string:
		var out []string
		if err := json.Unmarshal([]byte(val), &out); err != nil {
			return nil, fmt.Errorf("'%s' must be a JSON array of strings, e.g. [\"A1\", \"A2\"]: %v", key, err)
		}
		return out, nil
	case []any:
		out := make([]string, len(val))
		for i, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("'%s' must contain only strings, got %T at index %d", key, item, i)
			}
			out[i] = s
		}
		return out, nil
	default:
		return nil, fmt.Errorf("'%s' must be an array of strings, got %T", key, v)
	}
}

// rawAssumption carries pointer fields so omitted values can take the
// documented defaults: confidence 1.0, critical true, verifiable false.
type rawAssumption struct {
	ID                 string   `json:"id"`
	Text               string   `json:"text"`
	Confidence         *float64 `json:"confidence"`
	Critical           *bool    `json:"critical"`
	Verifiable         *bool    `json:"verifiable"`
	Evidence           string   `json:"evidence"`
	VerificationStatus string   `json:"verification_status"`
}

// assumptionList normalizes the assumptions argument and applies
// per-field defaults.
func assumptionList(v any) ([]thinking.Assumption, error) {
	if v == nil {
		return nil, nil
	}

	var data []byte
	switch val := v.(type) {
	case string:
		data = []byte(val)
	case []any:
		encoded, err := json.Marshal(val)
		if err != nil {
			return nil, fmt.Errorf("'assumptions' could not be normalized: %v", err)
		}
		data = encoded
	default:
		return nil, fmt.Errorf("'assumptions' must be an array of assumption objects, got %T", v)
	}

	var raw []rawAssumption
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("'assumptions' must be a JSON array of objects with at least 'id' and 'text': %v", err)
	}

	out := make([]thinking.Assumption, len(raw))
	for i, r := range raw {
		a := thinking.Assumption{
			ID:                 r.ID,
			Text:               r.Text,
			Confidence:         1.0,
			Critical:           true,
			Evidence:           r.Evidence,
			VerificationStatus: r.VerificationStatus,
		}
		if r.Confidence != nil {
			a.Confidence = *r.Confidence
		}
		if r.Critical != nil {
			a.Critical = *r.Critical
		}
		if r.Verifiable != nil {
			a.Verifiable = *r.Verifiable
		}
		out[i] = a
	}
	return out, nil
}

// optString returns a string argument or its default when absent.
func optString(args map[string]any, key string) (string, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return "", nil
	}
	s, isStr := v.(string)
	if !isStr {
		return "", fmt.Errorf("'%s' must be a string, got %T", key, v)
	}
	return s, nil
}

// optBool returns a pointer to a boolean argument, or nil when absent.
func optBool(args map[string]any, key string) (*bool, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return nil, nil
	}
	b, isBool := v.(bool)
	if !isBool {
		return nil, fmt.Errorf("'%s' must be a boolean, got %T", key, v)
	}
	return &b, nil
}

// optInt returns a pointer to an integer argument, or nil when absent.
// JSON numbers arrive as float64.
func optInt(args map[string]any, key string) (*int, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return nil, nil
	}
	f, isNum := v.(float64)
	if !isNum {
		return nil, fmt.Errorf("'%s' must be a number, got %T", key, v)
	}
	n := int(f)
	return &n, nil
}

// optFloat returns a pointer to a float argument, or nil when absent.
func optFloat(args map[string]any, key string) (*float64, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return nil, nil
	}
	f, isNum := v.(float64)
	if !isNum {
		return nil, fmt.Errorf("'%s' must be a number, got %T", key, v)
	}
	return &f, nil
}
