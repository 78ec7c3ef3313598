package gemini

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrParse marks a model reply that failed schema-validating decode.
// Handlers map it to a 500 with a generic message; the matcher downgrades
// it to an empty result instead.
var ErrParse = errors.New("model response parsing failed")

// unwrapFence removes a single markdown code fence wrapping the whole
// reply. Only a well-formed ```...``` (optionally tagged json) pair is
// recognized; anything else is returned untouched so the decoder fails
// closed on it.
func unwrapFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	body := strings.TrimPrefix(s, "```")
	body = strings.TrimPrefix(body, "json")
	body = strings.TrimPrefix(body, "JSON")
	if !strings.HasSuffix(strings.TrimSpace(body), "```") {
		return s
	}
	body = strings.TrimSpace(body)
	body = strings.TrimSuffix(body, "```")
	return strings.TrimSpace(body)
}

// DecodeStrict decodes a model reply into v, rejecting unknown fields and
// trailing content. Used where the schema is contractually fixed.
func DecodeStrict(raw string, v interface{}) error {
	dec := json.NewDecoder(strings.NewReader(unwrapFence(raw)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrParse, err)
	}
	return ensureNoTrailing(dec)
}

// Decode decodes a model reply into v, tolerating unknown fields. Used for
// the free-form analysis object and the matcher's ID array.
func Decode(raw string, v interface{}) error {
	dec := json.NewDecoder(strings.NewReader(unwrapFence(raw)))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrParse, err)
	}
	return ensureNoTrailing(dec)
}

func ensureNoTrailing(dec *json.Decoder) error {
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("%w: trailing content after JSON value", ErrParse)
	}
	return nil
}
