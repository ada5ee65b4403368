// Package rules validates invariants that span more than one aggregate.
//
// Every rule is a pure function over aggregates the caller has loaded. Rules do no I/O, so the
// caller decides how fresh the candidate set is. Under concurrent writers a rule can pass against
// a set that is already stale when the resulting events are appended; only appends to the same
// aggregate are serialized by the event store.
package rules
