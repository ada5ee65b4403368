// Package assigndepartmenthead implements the Assign Department Head use case.
//
// Only a professor who is a member of the department can head it.
package assigndepartmenthead
