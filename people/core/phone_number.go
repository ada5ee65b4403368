package core

import (
	"strings"
)

const (
	minPhoneDigits = 7
	maxPhoneDigits = 15
)

// PhoneNumber holds the digits of a phone number, with an optional leading "+".
// Formatting characters are stripped, so "+61 (7) 3365-1111" equals "+61733651111".
type PhoneNumber struct {
	value string
}

// NewPhoneNumber accepts 7-15 digits, an optional leading "+", and spaces, dashes or parentheses in between.
func NewPhoneNumber(raw string) (PhoneNumber, error) {
	trimmed := strings.TrimSpace(raw)

	var b strings.Builder
	digits := 0

	for i, r := range trimmed {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			digits++
		case r == '+' && i == 0:
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '(' || r == ')':
			// formatting only
		default:
			return PhoneNumber{}, invalid("phone number", raw, "may only contain digits, a leading +, spaces, dashes and parentheses")
		}
	}

	if digits < minPhoneDigits || digits > maxPhoneDigits {
		return PhoneNumber{}, invalid("phone number", raw, "must have 7-15 digits")
	}

	return PhoneNumber{value: b.String()}, nil
}

func (n PhoneNumber) String() string {
	return n.value
}

func (n PhoneNumber) IsZero() bool {
	return n.value == ""
}

func (n PhoneNumber) MarshalJSON() ([]byte, error) {
	return marshalString(n.value)
}

func (n *PhoneNumber) UnmarshalJSON(data []byte) error {
	return unmarshalVia(data, NewPhoneNumber, n)
}
