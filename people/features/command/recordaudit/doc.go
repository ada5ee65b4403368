// Package recordaudit implements the Record Audit use case: one teaching academic audits another.
//
// Audits are anti-symmetric. If B already audits A, A cannot start auditing B.
package recordaudit
