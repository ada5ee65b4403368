package core

import (
	"regexp"
	"strconv"
	"strings"
)

var empNrPattern = regexp.MustCompile(`^[A-Z0-9]{1,10}$`)

// EmpNr is the employee number of an academic.
type EmpNr struct {
	value string
}

// NewEmpNr accepts 1-10 alphanumeric characters and upper-cases them.
func NewEmpNr(raw string) (EmpNr, error) {
	value, err := matchUpper("emp nr", raw, empNrPattern, "must be 1-10 alphanumeric characters")
	if err != nil {
		return EmpNr{}, err
	}

	return EmpNr{value: value}, nil
}

func (n EmpNr) String() string {
	return n.value
}

func (n EmpNr) IsZero() bool {
	return n.value == ""
}

func (n EmpNr) MarshalJSON() ([]byte, error) {
	return marshalString(n.value)
}

func (n *EmpNr) UnmarshalJSON(data []byte) error {
	return unmarshalVia(data, NewEmpNr, n)
}

// EmpName is the display name of an academic, e.g. "Smith J.".
type EmpName struct {
	value string
}

// NewEmpName trims raw and accepts 1-100 characters without control characters.
func NewEmpName(raw string) (EmpName, error) {
	value, err := validateText("emp name", raw)
	if err != nil {
		return EmpName{}, err
	}

	return EmpName{value: value}, nil
}

func (n EmpName) String() string {
	return n.value
}

func (n EmpName) IsZero() bool {
	return n.value == ""
}

func (n EmpName) MarshalJSON() ([]byte, error) {
	return marshalString(n.value)
}

func (n *EmpName) UnmarshalJSON(data []byte) error {
	return unmarshalVia(data, NewEmpName, n)
}

// Rank is the academic rank.
type Rank struct {
	value string
}

const (
	rankProfessor      = "P"
	rankSeniorLecturer = "SL"
	rankLecturer       = "L"
)

var (
	// RankProfessor is the only rank eligible for chairs, department heads and committees.
	RankProfessor      = Rank{value: rankProfessor}
	RankSeniorLecturer = Rank{value: rankSeniorLecturer}
	RankLecturer       = Rank{value: rankLecturer}
)

// NewRank accepts P, SL or L (case-insensitive).
func NewRank(raw string) (Rank, error) {
	switch value := strings.ToUpper(strings.TrimSpace(raw)); value {
	case rankProfessor, rankSeniorLecturer, rankLecturer:
		return Rank{value: value}, nil
	default:
		return Rank{}, invalid("rank", raw, "must be one of P, SL, L")
	}
}

func (r Rank) String() string {
	return r.value
}

func (r Rank) IsZero() bool {
	return r.value == ""
}

func (r Rank) IsProfessor() bool {
	return r.value == rankProfessor
}

func (r Rank) MarshalJSON() ([]byte, error) {
	return marshalString(r.value)
}

func (r *Rank) UnmarshalJSON(data []byte) error {
	return unmarshalVia(data, NewRank, r)
}

// Title names a department or a chair.
type Title struct {
	value string
}

// NewTitle trims raw and accepts 1-100 characters without control characters.
func NewTitle(raw string) (Title, error) {
	value, err := validateText("title", raw)
	if err != nil {
		return Title{}, err
	}

	return Title{value: value}, nil
}

func (t Title) String() string {
	return t.value
}

func (t Title) IsZero() bool {
	return t.value == ""
}

func (t Title) MarshalJSON() ([]byte, error) {
	return marshalString(t.value)
}

func (t *Title) UnmarshalJSON(data []byte) error {
	return unmarshalVia(data, NewTitle, t)
}

// Rating is the 1..7 rating an academic gives a subject they teach.
type Rating struct {
	value int
}

const (
	minRating = 1
	maxRating = 7
)

// NewRating accepts integers from 1 to 7.
func NewRating(raw int) (Rating, error) {
	if raw < minRating || raw > maxRating {
		return Rating{}, invalid("rating", strconv.Itoa(raw), "must be between 1 and 7")
	}

	return Rating{value: raw}, nil
}

func (r Rating) Int() int {
	return r.value
}

// IsZero reports whether r was not created by NewRating.
func (r Rating) IsZero() bool {
	return r.value == 0
}

func (r Rating) String() string {
	return strconv.Itoa(r.value)
}

func (r Rating) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.value)
}

func (r *Rating) UnmarshalJSON(data []byte) error {
	var raw int
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	parsed, err := NewRating(raw)
	if err != nil {
		return err
	}

	*r = parsed

	return nil
}
