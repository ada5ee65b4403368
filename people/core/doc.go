// Package core contains the domain model of Zeus.People: the academic staff of a university
// with its departments, rooms and chairs.
//
// State changes are only ever expressed as domain events. Each aggregate embeds EventSourced,
// validates its local invariants inside a domain method, and then raises exactly one event.
// Replaying the same events through Reconstruct yields the same state, without any rule checks.
//
// Value objects are only constructible through their New<Type> factories, so an invalid value
// can never be part of an event. Invariants spanning several aggregates live in package rules.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'domain' layer.
package core
