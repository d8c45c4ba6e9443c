// Package analyzer enforces per-client, per-operation rate limits on the
// fields of a query-style request tree.
//
// The analyzer plugs into a host traversal framework through three
// callbacks:
//
//	memo, err := a.Initial(analyzer.Request{ClientIdentity: ip})
//	err = a.OnVisit(ctx, memo, phase, node)   // once per tree node
//	err = a.Final(ctx, memo)                  // nil, or one composite error
//
// Initial builds a fresh per-request memo. OnVisit is a no-op except when a
// top-level query field with a configured limit is entered; then it records
// one event against that client's counter and remembers the check for
// later. Final re-reads every remembered counter and returns either nil or
// a single *QueryRateLimitedError naming all exceeded operations in visit
// order:
//
//	Query rate limit exceeded on expensiveField, otherField
//
// The memo is never shared between requests, so a host may run many
// traversals concurrently against one Analyzer; the only shared state is
// the window counter store.
//
// Limits are an explicit table from field name to threshold/interval, built
// once at setup (see Limits, ParseLimits). Store failures abort the
// request's verdict computation and surface to the host unchanged — the
// host decides fail-open versus fail-closed.
package analyzer
