// Package patch applies RFC 6902 json-patch documents to the wire
// representation of a resource. The interpreter knows nothing about domain
// types: the caller serializes a snapshot out, the patched tree is
// deserialized back in, and nothing is persisted unless every step
// succeeded.
package patch

import (
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"

	"carpool-backend/internal/apperr"
)

// Apply serializes current, applies doc (a json-patch operation array) and
// deserializes the result into out. Any failure (malformed document, bad
// path, failed test op, type mismatch on deserialize) is reported as a
// patch error and out is left unspecified.
func Apply(current any, doc []byte, out any) error {
	p, err := jsonpatch.DecodePatch(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrPatch, err)
	}

	raw, err := json.Marshal(current)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrPatch, err)
	}

	patched, err := p.Apply(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrPatch, err)
	}

	if err := json.Unmarshal(patched, out); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrPatch, err)
	}
	return nil
}
