package core

import (
	"regexp"
	"strings"
)

var (
	roomNrPattern = regexp.MustCompile(`^[A-Z0-9-]{1,10}$`)
	bldgNrPattern = regexp.MustCompile(`^[A-Z0-9]{1,10}$`)
	extNrPattern  = regexp.MustCompile(`^[0-9]{3,6}$`)
)

// RoomNr identifies a room within its building, e.g. "101" or "B-12".
type RoomNr struct {
	value string
}

// NewRoomNr accepts 1-10 alphanumeric characters or dashes and upper-cases them.
func NewRoomNr(raw string) (RoomNr, error) {
	value, err := matchUpper("room nr", raw, roomNrPattern, "must be 1-10 alphanumeric characters or dashes")
	if err != nil {
		return RoomNr{}, err
	}

	return RoomNr{value: value}, nil
}

func (n RoomNr) String() string {
	return n.value
}

func (n RoomNr) IsZero() bool {
	return n.value == ""
}

func (n RoomNr) MarshalJSON() ([]byte, error) {
	return marshalString(n.value)
}

func (n *RoomNr) UnmarshalJSON(data []byte) error {
	return unmarshalVia(data, NewRoomNr, n)
}

// BldgNr identifies a building.
type BldgNr struct {
	value string
}

// NewBldgNr accepts 1-10 alphanumeric characters and upper-cases them.
func NewBldgNr(raw string) (BldgNr, error) {
	value, err := matchUpper("bldg nr", raw, bldgNrPattern, "must be 1-10 alphanumeric characters")
	if err != nil {
		return BldgNr{}, err
	}

	return BldgNr{value: value}, nil
}

func (n BldgNr) String() string {
	return n.value
}

func (n BldgNr) IsZero() bool {
	return n.value == ""
}

func (n BldgNr) MarshalJSON() ([]byte, error) {
	return marshalString(n.value)
}

func (n *BldgNr) UnmarshalJSON(data []byte) error {
	return unmarshalVia(data, NewBldgNr, n)
}

// ExtNr is a telephone extension.
type ExtNr struct {
	value string
}

// NewExtNr accepts 3-6 digits.
func NewExtNr(raw string) (ExtNr, error) {
	value := strings.TrimSpace(raw)
	if !extNrPattern.MatchString(value) {
		return ExtNr{}, invalid("ext nr", raw, "must be 3-6 digits")
	}

	return ExtNr{value: value}, nil
}

func (n ExtNr) String() string {
	return n.value
}

func (n ExtNr) IsZero() bool {
	return n.value == ""
}

func (n ExtNr) MarshalJSON() ([]byte, error) {
	return marshalString(n.value)
}

func (n *ExtNr) UnmarshalJSON(data []byte) error {
	return unmarshalVia(data, NewExtNr, n)
}

// AccessLevel is the dialling range of an extension: local, internal or national.
type AccessLevel struct {
	value string
}

var (
	AccessLevelLocal    = AccessLevel{value: "LOC"}
	AccessLevelInternal = AccessLevel{value: "INT"}
	AccessLevelNational = AccessLevel{value: "NAT"}
)

// NewAccessLevel accepts LOC, INT or NAT (case-insensitive).
func NewAccessLevel(raw string) (AccessLevel, error) {
	for _, level := range []AccessLevel{AccessLevelLocal, AccessLevelInternal, AccessLevelNational} {
		if strings.EqualFold(strings.TrimSpace(raw), level.value) {
			return level, nil
		}
	}

	return AccessLevel{}, invalid("access level", raw, "must be one of LOC, INT, NAT")
}

func (l AccessLevel) String() string {
	return l.value
}

func (l AccessLevel) IsZero() bool {
	return l.value == ""
}

func (l AccessLevel) MarshalJSON() ([]byte, error) {
	return marshalString(l.value)
}

func (l *AccessLevel) UnmarshalJSON(data []byte) error {
	return unmarshalVia(data, NewAccessLevel, l)
}
