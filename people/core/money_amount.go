package core

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	centsPerUnit  = 100
	maxMinorUnits = 99_999_999_999_999 // 999,999,999,999.99
)

var moneyPattern = regexp.MustCompile(`^([0-9]{1,12})(\.([0-9]{1,2}))?$`)

// MoneyAmount is a non-negative amount with at most two decimal places, kept in minor units
// so that arithmetic and comparison are exact.
type MoneyAmount struct {
	minorUnits int64
}

// NewMoneyAmount parses a decimal string like "1250000" or "1250000.50".
func NewMoneyAmount(raw string) (MoneyAmount, error) {
	value := strings.TrimSpace(raw)

	matches := moneyPattern.FindStringSubmatch(value)
	if matches == nil {
		return MoneyAmount{}, invalid("money amount", raw, "must be a non-negative decimal with at most 2 decimal places and 12 integer digits")
	}

	units, err := strconv.ParseInt(matches[1], 10, 64)
	if err != nil {
		return MoneyAmount{}, invalid("money amount", raw, err.Error())
	}

	cents := int64(0)
	if fraction := matches[3]; fraction != "" {
		if len(fraction) == 1 {
			fraction += "0"
		}

		cents, _ = strconv.ParseInt(fraction, 10, 64) // two digits, matched by the pattern
	}

	return MoneyAmountFromMinorUnits(units*centsPerUnit + cents)
}

// MoneyAmountFromMinorUnits creates an amount from cents.
func MoneyAmountFromMinorUnits(minorUnits int64) (MoneyAmount, error) {
	if minorUnits < 0 || minorUnits > maxMinorUnits {
		return MoneyAmount{}, invalid("money amount", strconv.FormatInt(minorUnits, 10)+" minor units", "must be between 0 and 999999999999.99")
	}

	return MoneyAmount{minorUnits: minorUnits}, nil
}

func (m MoneyAmount) MinorUnits() int64 {
	return m.minorUnits
}

func (m MoneyAmount) String() string {
	return fmt.Sprintf("%d.%02d", m.minorUnits/centsPerUnit, m.minorUnits%centsPerUnit)
}

func (m MoneyAmount) MarshalJSON() ([]byte, error) {
	return marshalString(m.String())
}

func (m *MoneyAmount) UnmarshalJSON(data []byte) error {
	return unmarshalVia(data, NewMoneyAmount, m)
}
