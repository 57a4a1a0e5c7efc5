package internal

// Role identifies one of the four detail-row extensions of a User.
type Role string

const (
	RoleCoach    Role = "coach"
	RoleAthlete  Role = "athlete"
	RoleProspect Role = "prospect"
	RoleAlumni   Role = "alumni"
)

// RoleSet is the value form of the four role flags. Transitions are computed
// on RoleSet values instead of branching on flags one by one, so illegal
// combinations are squeezed out before anything is written.
type RoleSet struct {
	Coach    bool
	Athlete  bool
	Prospect bool
	Alumni   bool
}

func roleSetOf(u *User) RoleSet {
	return RoleSet{
		Coach:    u.IsCoach,
		Athlete:  u.IsAthlete,
		Prospect: u.IsProspect,
		Alumni:   u.IsAlumni,
	}
}

// Normalize enforces the structural invariants: Prospect and Alumni both
// require Athlete, and Alumni wins when both are requested at once.
func (s RoleSet) Normalize() RoleSet {
	if s.Alumni {
		s.Prospect = false
	}
	if !s.Athlete {
		s.Prospect = false
		s.Alumni = false
	}
	return s
}

func (s RoleSet) has(r Role) bool {
	switch r {
	case RoleCoach:
		return s.Coach
	case RoleAthlete:
		return s.Athlete
	case RoleProspect:
		return s.Prospect
	case RoleAlumni:
		return s.Alumni
	}
	return false
}

// RoleDiff partitions the transition. Removed is ordered children-first so
// cascade cleanup satisfies foreign keys; Present covers added and retained
// roles, all of which get their detail row upserted from the request.
type RoleDiff struct {
	Removed []Role
	Present []Role
}

// Cleanup runs children before parents; upserts create Athlete before the
// roles that hang off it.
var (
	cleanupOrder = []Role{RoleProspect, RoleAlumni, RoleAthlete, RoleCoach}
	upsertOrder  = []Role{RoleCoach, RoleAthlete, RoleProspect, RoleAlumni}
)

// DiffRoles computes the transition from prev to next. Next is normalized
// first. When Athlete is removed, Prospect and Alumni removals are folded
// into the athlete cascade rather than listed separately.
func DiffRoles(prev, next RoleSet) RoleDiff {
	next = next.Normalize()

	var d RoleDiff
	for _, r := range cleanupOrder {
		if prev.has(r) && !next.has(r) {
			if prev.Athlete && !next.Athlete && (r == RoleProspect || r == RoleAlumni) {
				continue // athlete cascade covers these
			}
			d.Removed = append(d.Removed, r)
		}
	}
	for _, r := range upsertOrder {
		if next.has(r) {
			d.Present = append(d.Present, r)
		}
	}
	return d
}
