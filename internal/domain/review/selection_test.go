package review

import (
	"errors"
	"testing"
)

func TestSelectClearsOtherGroups(t *testing.T) {
	var sel TypeSelection
	if err := sel.Select(GroupProbationary, MemberProbation3Month, "", QuarterStatus{}); err != nil {
		t.Fatalf("select probationary failed: %v", err)
	}
	if !sel.Probation3Month || !sel.IsProbationary() {
		t.Fatalf("expected 3-month probationary active: %+v", sel)
	}

	if err := sel.Select(GroupRegular, MemberQ1, "", QuarterStatus{}); err != nil {
		t.Fatalf("select regular failed: %v", err)
	}
	if sel.Probation3Month {
		t.Fatal("selecting a regular quarter must clear the probationary group")
	}
	if !sel.Q1 || !sel.IsRegular() {
		t.Fatalf("expected Q1 active: %+v", sel)
	}

	if err := sel.Select(GroupOthers, MemberCustom, "Special merit review", QuarterStatus{}); err != nil {
		t.Fatalf("select custom failed: %v", err)
	}
	if sel.Q1 || sel.Probation3Month || sel.Improvement {
		t.Fatalf("custom selection must clear every flag: %+v", sel)
	}
	if sel.Custom != "Special merit review" || !sel.IsOthers() {
		t.Fatalf("expected custom label stored: %+v", sel)
	}

	if err := sel.Select(GroupProbationary, MemberProbation5Month, "", QuarterStatus{}); err != nil {
		t.Fatalf("select probationary failed: %v", err)
	}
	if sel.Custom != "" {
		t.Fatal("switching groups must reset the custom label")
	}
}

func TestSelectWithinGroupIsExclusive(t *testing.T) {
	var sel TypeSelection
	if err := sel.Select(GroupRegular, MemberQ2, "", QuarterStatus{}); err != nil {
		t.Fatalf("select q2 failed: %v", err)
	}
	if err := sel.Select(GroupRegular, MemberQ4, "", QuarterStatus{}); err != nil {
		t.Fatalf("select q4 failed: %v", err)
	}
	if sel.Q2 || !sel.Q4 {
		t.Fatalf("expected only Q4 active: %+v", sel)
	}
	if quarter, ok := sel.Quarter(); !ok || quarter != 4 {
		t.Fatalf("expected quarter 4, got %d %v", quarter, ok)
	}
}

func TestSelectUsedQuarterRejectedWithoutMutation(t *testing.T) {
	var sel TypeSelection
	if err := sel.Select(GroupProbationary, MemberProbation3Month, "", QuarterStatus{}); err != nil {
		t.Fatalf("setup select failed: %v", err)
	}

	err := sel.Select(GroupRegular, MemberQ2, "", QuarterStatus{Q2: true})
	if !errors.Is(err, ErrQuarterUsed) {
		t.Fatalf("expected ErrQuarterUsed, got %v", err)
	}
	if !sel.Probation3Month || sel.Q2 {
		t.Fatalf("rejected selection must leave state untouched: %+v", sel)
	}
}

func TestSelectUnknownMember(t *testing.T) {
	var sel TypeSelection
	if err := sel.Select(GroupRegular, "q5", "", QuarterStatus{}); !errors.Is(err, ErrUnknownMember) {
		t.Fatalf("expected ErrUnknownMember, got %v", err)
	}
	if err := sel.Select(GroupOthers, MemberCustom, "   ", QuarterStatus{}); !errors.Is(err, ErrUnknownMember) {
		t.Fatalf("expected blank custom label to be rejected, got %v", err)
	}
	if sel.Active() {
		t.Fatalf("failed selections must not activate anything: %+v", sel)
	}
}

func TestClearAll(t *testing.T) {
	var sel TypeSelection
	if err := sel.Select(GroupOthers, MemberImprovement, "", QuarterStatus{}); err != nil {
		t.Fatalf("select improvement failed: %v", err)
	}
	sel.ClearAll()
	if sel.Active() {
		t.Fatalf("expected empty selection after ClearAll: %+v", sel)
	}
}

func TestDescribe(t *testing.T) {
	var sel TypeSelection
	if sel.Describe() != "Unclassified" {
		t.Fatalf("empty selection described as %q", sel.Describe())
	}
	_ = sel.Select(GroupRegular, MemberQ3, "", QuarterStatus{})
	if sel.Describe() != "Regular Q3" {
		t.Fatalf("expected Regular Q3, got %q", sel.Describe())
	}
}

func TestValidateRejectsHandBuiltConflicts(t *testing.T) {
	sel := TypeSelection{Q1: true, Improvement: true}
	if err := sel.Validate(); !errors.Is(err, ErrConflictingSelection) {
		t.Fatalf("expected ErrConflictingSelection, got %v", err)
	}

	sel = TypeSelection{Q2: true, Custom: "merit"}
	if err := sel.Validate(); !errors.Is(err, ErrConflictingSelection) {
		t.Fatalf("expected ErrConflictingSelection for flag plus custom, got %v", err)
	}

	if err := (TypeSelection{}).Validate(); err != nil {
		t.Fatalf("empty selection must validate: %v", err)
	}
	if err := (TypeSelection{Q4: true}).Validate(); err != nil {
		t.Fatalf("single member must validate: %v", err)
	}
}
