package internal

import (
	"reflect"
	"testing"
)

func TestNormalizeRequiresAthlete(t *testing.T) {
	s := RoleSet{Prospect: true, Alumni: true}.Normalize()
	if s.Prospect || s.Alumni {
		t.Fatalf("prospect/alumni without athlete should be cleared, got %+v", s)
	}
}

func TestNormalizeAlumniWins(t *testing.T) {
	s := RoleSet{Athlete: true, Prospect: true, Alumni: true}.Normalize()
	if s.Prospect {
		t.Fatalf("prospect should be cleared when alumni is set")
	}
	if !s.Alumni || !s.Athlete {
		t.Fatalf("alumni and athlete should survive, got %+v", s)
	}
}

func TestDiffNoop(t *testing.T) {
	prev := RoleSet{Coach: true, Athlete: true, Prospect: true}
	d := DiffRoles(prev, prev)
	if len(d.Removed) != 0 {
		t.Fatalf("no-op transition should remove nothing, got %v", d.Removed)
	}
	want := []Role{RoleCoach, RoleAthlete, RoleProspect}
	if !reflect.DeepEqual(d.Present, want) {
		t.Fatalf("expected present %v, got %v", want, d.Present)
	}
}

func TestDiffProspectToAlumni(t *testing.T) {
	prev := RoleSet{Athlete: true, Prospect: true}
	next := RoleSet{Athlete: true, Alumni: true}
	d := DiffRoles(prev, next)

	if !reflect.DeepEqual(d.Removed, []Role{RoleProspect}) {
		t.Fatalf("expected only prospect removed, got %v", d.Removed)
	}
	if !reflect.DeepEqual(d.Present, []Role{RoleAthlete, RoleAlumni}) {
		t.Fatalf("expected athlete+alumni present, got %v", d.Present)
	}
}

func TestDiffAthleteRemovalFoldsDependents(t *testing.T) {
	prev := RoleSet{Athlete: true, Prospect: true}
	next := RoleSet{Coach: true}
	d := DiffRoles(prev, next)

	// Prospect removal is part of the athlete cascade, not a separate step.
	if !reflect.DeepEqual(d.Removed, []Role{RoleAthlete}) {
		t.Fatalf("expected only athlete in removals, got %v", d.Removed)
	}
	if !reflect.DeepEqual(d.Present, []Role{RoleCoach}) {
		t.Fatalf("expected coach present, got %v", d.Present)
	}
}

func TestDiffCleanupOrderChildrenFirst(t *testing.T) {
	prev := RoleSet{Coach: true, Athlete: true, Alumni: true}
	// Alumni dropped while athlete kept: alumni cleanup stands alone.
	next := RoleSet{Coach: true, Athlete: true}
	d := DiffRoles(prev, next)
	if !reflect.DeepEqual(d.Removed, []Role{RoleAlumni}) {
		t.Fatalf("expected alumni removed, got %v", d.Removed)
	}

	// Everything dropped: children precede parents in the removal order.
	d = DiffRoles(prev, RoleSet{})
	if !reflect.DeepEqual(d.Removed, []Role{RoleAthlete, RoleCoach}) {
		t.Fatalf("expected athlete then coach, got %v", d.Removed)
	}
}

func TestDiffNormalizesRequested(t *testing.T) {
	prev := RoleSet{Athlete: true, Prospect: true}
	// Requesting prospect without athlete is illegal; both go away.
	d := DiffRoles(prev, RoleSet{Prospect: true})
	if !reflect.DeepEqual(d.Removed, []Role{RoleAthlete}) {
		t.Fatalf("expected athlete cascade, got %v", d.Removed)
	}
	if len(d.Present) != 0 {
		t.Fatalf("expected nothing present, got %v", d.Present)
	}
}
