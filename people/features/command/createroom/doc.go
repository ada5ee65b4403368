// Package createroom implements the Create Room use case.
//
// Room numbers are unique within a building. The rooms to check against are supplied with the command.
package createroom
