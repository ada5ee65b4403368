// Package assigntodepartment implements the Assign Academic to Department use case.
//
// The academic must not share its name with another member of the target department.
// The members to check against are supplied with the command.
package assigntodepartment
