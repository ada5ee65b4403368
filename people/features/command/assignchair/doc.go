// Package assignchair implements the Assign Chair to Professor use case.
//
// A chair is held by at most one professor and a professor holds at most one chair. The chairs to
// check against are supplied with the command.
//
// Both the chair and the professor record the assignment. The chair is saved first; if saving the
// professor then fails with a concurrency conflict, the retry finds the chair already assigned and
// completes the professor's side.
package assignchair
