// Package shell connects the Zeus.People domain core to the event store.
//
// It converts between domain events and storable envelopes, loads aggregates by replaying their
// streams, appends their uncommitted events with an expected-version check and retries the whole
// load-mutate-append cycle on concurrency conflicts. Committed events can be handed to a Publisher.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'infrastructure' layer.
package shell
