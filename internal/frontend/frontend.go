package frontend

import (
	"encoding/json"
	"fmt"

	"github.com/jbirddog/midlangc/internal/mir"
	"github.com/jbirddog/midlangc/internal/schema"
)

// Parse normalizes raw JSON source bytes and lowers them into a
// mir.Program. This is the single entry point the driver (C9) calls for
// component C7's "lower" direction. Source may be hand-authored (no
// "schema" field) or a document previously produced by RaiseCanonical
// (tagged with schema.MIRV1); either way MustValidate rejects a document
// raised by an incompatible future schema version before lowering runs.
func Parse(src []byte) (*mir.Program, error) {
	normalized := normalize(src)

	var probe map[string]any
	if err := json.Unmarshal(normalized, &probe); err != nil {
		return nil, fmt.Errorf("frontend: invalid JSON source: %w", err)
	}
	if err := schema.MustValidate(schema.MIRV1, probe); err != nil {
		return nil, fmt.Errorf("frontend: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(normalized, &doc); err != nil {
		return nil, fmt.Errorf("frontend: invalid JSON source: %w", err)
	}
	return Lower(&doc)
}

// RaiseCanonical raises prog and renders it as deterministic JSON bytes,
// the inverse operation exercised by round-trip tests and by
// `midlangc inspect`.
func RaiseCanonical(prog *mir.Program) ([]byte, error) {
	return MarshalCanonical(Raise(prog))
}
