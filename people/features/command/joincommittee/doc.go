// Package joincommittee implements the Join Committee use case.
// Only professors who teach can serve on a committee.
package joincommittee
