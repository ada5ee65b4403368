package core

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	jsoniter "github.com/json-iterator/go"
)

const maxTextLength = 100

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Value objects serialize to their wrapped primitive. Decoding goes through the validating factory,
// so a stored value that is no longer valid fails instead of sneaking into the aggregate.

func marshalString(value string) ([]byte, error) {
	return json.Marshal(value)
}

func unmarshalVia[T any](data []byte, factory func(string) (T, error), target *T) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	parsed, err := factory(raw)
	if err != nil {
		return err
	}

	*target = parsed

	return nil
}

func matchUpper(field string, raw string, pattern *regexp.Regexp, reason string) (string, error) {
	value := strings.ToUpper(strings.TrimSpace(raw))
	if !pattern.MatchString(value) {
		return "", invalid(field, raw, reason)
	}

	return value, nil
}

func validateText(field string, raw string) (string, error) {
	if !utf8.ValidString(raw) {
		return "", invalid(field, raw, "must be valid UTF-8")
	}

	value := strings.TrimSpace(raw)

	if value == "" {
		return "", invalid(field, raw, "must not be empty")
	}

	if utf8.RuneCountInString(value) > maxTextLength {
		return "", invalid(field, raw, "must not exceed 100 characters")
	}

	if strings.IndexFunc(value, unicode.IsControl) >= 0 {
		return "", invalid(field, raw, "must not contain control characters")
	}

	return value, nil
}
