// Package registeracademic implements the Register Academic use case.
//
// A new academic is registered with employee number, name and rank, and optionally placed in a
// department right away. Placing into a department checks that no other member of the department
// has the same name; the members to check against are supplied with the command.
//
// Registering an id that already exists changes nothing and is reported as idempotent.
package registeracademic
