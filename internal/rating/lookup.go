package rating

import (
	"context"
	"encoding/json"
	"log/slog"
)

// Result is the outcome of a best-effort rating lookup. Rating is nil when
// the lookup failed; Err says why.
type Result struct {
	Rating json.RawMessage
	Err    error
}

// Available reports whether a rating was obtained.
func (r Result) Available() bool {
	return r.Err == nil && r.Rating != nil
}

// Lookup asks client for a supplier's rating and never fails: errors are
// logged and returned inside the Result. A nil client yields ErrUnavailable.
func Lookup(ctx context.Context, client Client, supplierID int64, logger *slog.Logger) Result {
	if client == nil {
		return Result{Err: ErrUnavailable}
	}
	doc, err := client.Analyze(ctx, supplierID)
	if err != nil {
		logger.Warn("supplier rating lookup failed", "supplier_id", supplierID, "error", err)
		return Result{Err: err}
	}
	return Result{Rating: doc}
}
