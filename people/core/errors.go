package core

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidValue is wrapped by every ValidationError.
	ErrInvalidValue = errors.New("invalid value")

	// ErrBusinessRuleViolation is wrapped by every RuleViolation.
	ErrBusinessRuleViolation = errors.New("business rule violation")

	// ErrEventOutOfOrder is returned by replay when an event's version does not continue the aggregate.
	ErrEventOutOfOrder = errors.New("event version does not continue the aggregate")

	// ErrUnexpectedEvent is returned by replay when an event does not belong to the aggregate.
	ErrUnexpectedEvent = errors.New("event does not belong to this aggregate")

	// ErrEmptyHistory is returned when an aggregate is reconstructed from no events.
	ErrEmptyHistory = errors.New("cannot reconstruct an aggregate without events")
)

// Names of the business rules, as reported by RuleViolation.Rule.
const (
	RuleUniqueNameInDepartment    = "unique_name_in_department"
	RuleDepartmentHeadEligibility = "department_head_eligibility"
	RuleChairCardinality          = "chair_cardinality"
	RuleAntiSymmetricAudit        = "anti_symmetric_audit"
	RuleCommitteeEligibility      = "committee_eligibility"
	RuleRoomUniqueness            = "room_uniqueness"
	RuleTenureExcludesContract    = "tenure_excludes_contract"
	RuleContractEndDate           = "contract_end_date"
	RuleChairRequiresProfessor    = "chair_requires_professor"
	RuleRoomOccupancy             = "room_occupancy"
	RuleSubjectMustBeTaught       = "subject_must_be_taught"
	RuleAuditorMustTeach          = "auditor_must_teach"
	RuleChairAssignment           = "chair_assignment"
	RuleAggregateDeleted          = "aggregate_deleted"
)

// ValidationError reports a raw value a value object factory rejected.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidValue
}

func invalid(field string, value string, reason string) error {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}

// RuleViolation reports which business rule rejected an operation. Nothing was changed and no event was raised.
type RuleViolation struct {
	Rule   string
	Reason string
}

func (v *RuleViolation) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrBusinessRuleViolation, v.Rule, v.Reason)
}

func (v *RuleViolation) Unwrap() error {
	return ErrBusinessRuleViolation
}

// Violation creates a RuleViolation for rule.
func Violation(rule string, reason string) *RuleViolation {
	return &RuleViolation{Rule: rule, Reason: reason}
}

// IsRuleViolation reports whether err is a RuleViolation of the given rule.
func IsRuleViolation(err error, rule string) bool {
	var violation *RuleViolation
	if !errors.As(err, &violation) {
		return false
	}

	return violation.Rule == rule
}
