package rules

import (
	"github.com/google/uuid"

	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/people/core"
)

// UniqueNameInDepartment is violated if another academic of the department already has the name.
func UniqueNameInDepartment(
	candidateID uuid.UUID,
	name core.EmpName,
	departmentID uuid.UUID,
	existing []*core.Academic,
) Verdict {

	for _, academic := range existing {
		if academic.IsDeleted() || academic.ID() == candidateID || academic.DepartmentID() != departmentID {
			continue
		}

		if academic.EmpName() == name {
			return Violated(core.RuleUniqueNameInDepartment, "department already has an academic named "+name.String())
		}
	}

	return Satisfied()
}

// DepartmentHeadEligible requires the candidate to be a professor and a member of the department.
func DepartmentHeadEligible(candidate *core.Academic, department *core.Department) Verdict {
	switch {
	case candidate.IsDeleted() || department.IsDeleted():
		return Violated(core.RuleDepartmentHeadEligibility, "candidate and department must exist")
	case !candidate.IsProfessor():
		return Violated(core.RuleDepartmentHeadEligibility, candidate.EmpName().String()+" is not a professor")
	case candidate.DepartmentID() != department.ID():
		return Violated(core.RuleDepartmentHeadEligibility,
			candidate.EmpName().String()+" is not a member of "+department.Name().String())
	default:
		return Satisfied()
	}
}

// ChairCardinality is violated if the professor holds any chair other than chairID.
func ChairCardinality(professorID uuid.UUID, chairID uuid.UUID, chairs []*core.Chair) Verdict {
	for _, chair := range chairs {
		if chair.IsDeleted() || chair.ID() == chairID {
			continue
		}

		if chair.ProfessorID() == professorID {
			return Violated(core.RuleChairCardinality, "the professor already holds "+chair.Name().String())
		}
	}

	return Satisfied()
}

// AuditIsAntiSymmetric is violated if the auditee already audits the auditor.
// Both parties must teach at least one subject.
func AuditIsAntiSymmetric(auditor *core.Academic, auditee *core.Academic) Verdict {
	switch {
	case !auditor.IsTeacher() || !auditee.IsTeacher():
		return Violated(core.RuleAuditorMustTeach, "auditor and auditee must both teach")
	case auditor.ID() == auditee.ID():
		return Violated(core.RuleAntiSymmetricAudit, "an academic cannot audit themselves")
	case auditee.Audits(auditor.ID()):
		return Violated(core.RuleAntiSymmetricAudit, auditee.EmpName().String()+" already audits "+auditor.EmpName().String())
	default:
		return Satisfied()
	}
}

// CommitteeEligible requires the candidate to be a professor who teaches.
func CommitteeEligible(candidate *core.Academic) Verdict {
	if !candidate.IsProfessor() || !candidate.IsTeacher() {
		return Violated(core.RuleCommitteeEligibility, "only a professor who teaches can serve on a committee")
	}

	return Satisfied()
}

// RoomUnique is violated if another room has the same room number in the same building.
func RoomUnique(candidateID uuid.UUID, roomNr core.RoomNr, bldgNr core.BldgNr, rooms []*core.Room) Verdict {
	for _, room := range rooms {
		if room.IsDeleted() || room.ID() == candidateID {
			continue
		}

		if room.RoomNr() == roomNr && room.BldgNr() == bldgNr {
			return Violated(core.RuleRoomUniqueness, "room "+roomNr.String()+" already exists in building "+bldgNr.String())
		}
	}

	return Satisfied()
}
