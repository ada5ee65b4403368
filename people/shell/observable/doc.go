// Package observable decorates command handlers with metrics, tracing and logging.
//
// The wrapped handler stays free of observability concerns; the wrapper translates its
// HandlerResult and error into a status per call:
//
//	success, idempotent, rejected, concurrency_conflict, canceled, timeout, error
package observable
