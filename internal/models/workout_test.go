package models

import "testing"

func exerciseWithSets(reps ...string) LocalExercise {
	ex := LocalExercise{LocalID: NewLocalID(), Name: "Bench Press"}
	for _, r := range reps {
		ex.AddSet()
		ex.Sets[len(ex.Sets)-1].Reps = r
	}
	return ex
}

// TestAddSetPrefills verifies a new set copies reps and weight from the
// preceding set for rapid logging, while the first set starts blank.
func TestAddSetPrefills(t *testing.T) {
	ex := LocalExercise{LocalID: NewLocalID()}

	ex.AddSet()
	if ex.Sets[0].Reps != "" || ex.Sets[0].Weight != "" {
		t.Errorf("first set = %+v, want blank reps/weight", ex.Sets[0])
	}
	if ex.Sets[0].SetNumber != 1 {
		t.Errorf("first set number = %d, want 1", ex.Sets[0].SetNumber)
	}

	ex.Sets[0].Reps = "8"
	ex.Sets[0].Weight = "100"
	ex.AddSet()

	second := ex.Sets[1]
	if second.Reps != "8" || second.Weight != "100" {
		t.Errorf("second set = %+v, want prefilled 8/100", second)
	}
	if second.SetNumber != 2 {
		t.Errorf("second set number = %d, want 2", second.SetNumber)
	}
	if second.LocalID == ex.Sets[0].LocalID {
		t.Error("set local ids must be distinct")
	}
}

// TestRemoveSetDoesNotRenumber documents the preserved source behavior: after
// removing the middle of sets [1,2,3], the survivors keep numbers [1,3].
func TestRemoveSetDoesNotRenumber(t *testing.T) {
	ex := exerciseWithSets("5", "5", "5")
	if len(ex.Sets) != 3 {
		t.Fatalf("sets = %d, want 3", len(ex.Sets))
	}

	ex.RemoveSet(ex.Sets[1].LocalID)

	if len(ex.Sets) != 2 {
		t.Fatalf("sets after removal = %d, want 2", len(ex.Sets))
	}
	if ex.Sets[0].SetNumber != 1 || ex.Sets[1].SetNumber != 3 {
		t.Errorf("set numbers = [%d,%d], want [1,3]",
			ex.Sets[0].SetNumber, ex.Sets[1].SetNumber)
	}

	// A set added after the removal numbers from the current count, so
	// duplicates are possible. Intentional: the source app behaves this way.
	ex.AddSet()
	if ex.Sets[2].SetNumber != 3 {
		t.Errorf("new set number = %d, want 3", ex.Sets[2].SetNumber)
	}
}

func TestUpdateSet(t *testing.T) {
	ex := exerciseWithSets("5", "8")
	target := ex.Sets[1]
	target.Reps = "12"
	ex.UpdateSet(target)
	if ex.Sets[1].Reps != "12" {
		t.Errorf("reps = %q, want 12", ex.Sets[1].Reps)
	}

	// Unknown local id is a no-op.
	ex.UpdateSet(LocalSet{LocalID: "local-unknown", Reps: "99"})
	for _, s := range ex.Sets {
		if s.Reps == "99" {
			t.Error("update with unknown id must not modify any set")
		}
	}
}

func TestPreferredUnit(t *testing.T) {
	lb := UnitLB
	tests := []struct {
		name    string
		profile *Profile
		want    WeightUnit
	}{
		{"nil profile", nil, UnitKG},
		{"no preference", &Profile{ID: "u1"}, UnitKG},
		{"lb preference", &Profile{ID: "u1", WeightUnit: &lb}, UnitLB},
	}
	for _, tt := range tests {
		if got := tt.profile.PreferredUnit(); got != tt.want {
			t.Errorf("%s: PreferredUnit() = %q, want %q", tt.name, got, tt.want)
		}
	}
}
