package reward

import "testing"

func TestComputeDutyReward(t *testing.T) {
	tests := []struct {
		name         string
		level        int
		bonusPercent float64
		minutes      float64
		wantSC       int
		wantExp      int
	}{
		{
			name:    "level 0 no bonus full period",
			level:   0,
			minutes: 30,
			wantSC:  10,
			wantExp: 5,
		},
		{
			name:         "level 1 with 20 percent bonus",
			level:        1,
			bonusPercent: 20,
			minutes:      30,
			wantSC:       18,
			wantExp:      7,
		},
		{
			name:    "zero duration pays nothing",
			level:   1,
			minutes: 0,
			wantSC:  0,
			wantExp: 0,
		},
		{
			name:    "negative duration pays nothing",
			level:   0,
			minutes: -5,
			wantSC:  0,
			wantExp: 0,
		},
		{
			name:    "unknown level defaults to 1.0",
			level:   7,
			minutes: 60,
			wantSC:  20,
			wantExp: 10,
		},
		{
			name:         "partial period truncates",
			level:        0,
			bonusPercent: 1,
			minutes:      10,
			wantSC:       3,
			wantExp:      1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, exp := ComputeDutyReward(tt.level, tt.bonusPercent, tt.minutes)
			if sc != tt.wantSC {
				t.Errorf("ComputeDutyReward() sc = %d, want %d", sc, tt.wantSC)
			}
			if exp != tt.wantExp {
				t.Errorf("ComputeDutyReward() exp = %d, want %d", exp, tt.wantExp)
			}
		})
	}
}

func TestComputeDutyReward_BonusDoesNotTouchExp(t *testing.T) {
	_, expNoBonus := ComputeDutyReward(0, 0, 90)
	_, expBonus := ComputeDutyReward(0, 100, 90)

	if expNoBonus != expBonus {
		t.Errorf("exp changed with bonus: %d vs %d", expNoBonus, expBonus)
	}
}

func TestLevelMultiplier_LadderOverride(t *testing.T) {
	ladder := NewLadder([]Rung{
		{Level: 1, DutyIncome: 2.0},
		{Level: 2},
	})

	if got := LevelMultiplier(1, ladder); got != 2.0 {
		t.Errorf("LevelMultiplier(1) = %v, want 2.0", got)
	}
	if got := LevelMultiplier(2, ladder); got != 1.0 {
		t.Errorf("LevelMultiplier(2) = %v, want 1.0", got)
	}
	if got := LevelMultiplier(0, ladder); got != 1.0 {
		t.Errorf("LevelMultiplier(0) = %v, want 1.0", got)
	}
}

func TestComputeLevel(t *testing.T) {
	ladder := NewLadder([]Rung{
		{Level: 3, ExpRequired: 300},
		{Level: 1, ExpRequired: 0},
		{Level: 2, ExpRequired: 100},
	})

	tests := []struct {
		exp  int
		want int
	}{
		{exp: 0, want: 1},
		{exp: 99, want: 1},
		{exp: 100, want: 2},
		{exp: 1000, want: 3},
	}
	for _, tt := range tests {
		if got := ComputeLevel(tt.exp, ladder); got != tt.want {
			t.Errorf("ComputeLevel(%d) = %d, want %d", tt.exp, got, tt.want)
		}
	}

	if got := ComputeLevel(500, nil); got != 0 {
		t.Errorf("ComputeLevel() with empty ladder = %d, want 0", got)
	}
}

func TestApplyLevelUp(t *testing.T) {
	ladder := NewLadder([]Rung{
		{Level: 0, RoleID: "recruit"},
		{Level: 1, RoleID: "member", ExpRequired: 50},
	})

	t.Run("below requirement", func(t *testing.T) {
		got := ApplyLevelUp(LevelState{Level: 0, Exp: 49}, ladder)
		if got.Leveled {
			t.Fatal("ApplyLevelUp() leveled below requirement")
		}
		if got.State.Exp != 49 {
			t.Errorf("State.Exp = %d, want 49", got.State.Exp)
		}
	})

	t.Run("meets requirement", func(t *testing.T) {
		got := ApplyLevelUp(LevelState{Level: 0, Exp: 60}, ladder)
		if !got.Leveled {
			t.Fatal("ApplyLevelUp() did not level")
		}
		if got.State != (LevelState{Level: 1, Exp: 0}) {
			t.Errorf("State = %+v, want level 1 exp 0", got.State)
		}
		if got.RemoveRoleID != "recruit" || got.AddRoleID != "member" {
			t.Errorf("role swap = %q -> %q, want recruit -> member", got.RemoveRoleID, got.AddRoleID)
		}
	})

	t.Run("top of ladder", func(t *testing.T) {
		got := ApplyLevelUp(LevelState{Level: 1, Exp: 9999}, ladder)
		if got.Leveled {
			t.Error("ApplyLevelUp() leveled past the top rung")
		}
	})
}

func TestApplyLevelUp_GappedLadder(t *testing.T) {
	ladder := NewLadder([]Rung{
		{Level: 1, RoleID: "member", ExpRequired: 100},
		{Level: 3, RoleID: "veteran", ExpRequired: 300},
	})

	got := ApplyLevelUp(LevelState{Level: 1, Exp: 5000}, ladder)
	if !got.Leveled {
		t.Fatal("ApplyLevelUp() did not cross the gap to level 3")
	}
	if got.ToLevel != 3 || got.State != (LevelState{Level: 3, Exp: 0}) {
		t.Errorf("result = %+v, want level 3 exp 0", got)
	}
	if got.RemoveRoleID != "member" || got.AddRoleID != "veteran" {
		t.Errorf("role swap = %q -> %q, want member -> veteran", got.RemoveRoleID, got.AddRoleID)
	}

	if got := ApplyLevelUp(LevelState{Level: 1, Exp: 299}, ladder); got.Leveled {
		t.Error("ApplyLevelUp() leveled below the level 3 requirement")
	}
}

func TestNextRung(t *testing.T) {
	ladder := NewLadder([]Rung{
		{Level: 5, ExpRequired: 500},
		{Level: 1, ExpRequired: 100},
		{Level: 3, ExpRequired: 300},
	})

	tests := []struct {
		level     int
		wantLevel int
		wantOK    bool
	}{
		{0, 1, true},
		{1, 3, true},
		{2, 3, true},
		{3, 5, true},
		{5, 0, false},
	}
	for _, tt := range tests {
		got, ok := NextRung(tt.level, ladder)
		if ok != tt.wantOK || (ok && got.Level != tt.wantLevel) {
			t.Errorf("NextRung(%d) = (%d, %v), want (%d, %v)", tt.level, got.Level, ok, tt.wantLevel, tt.wantOK)
		}
	}
}

func TestApplyMissionBonus(t *testing.T) {
	if got := ApplyMissionBonus(100, 0); got != 100 {
		t.Errorf("ApplyMissionBonus(100, 0) = %d", got)
	}
	if got := ApplyMissionBonus(100, 15); got != 115 {
		t.Errorf("ApplyMissionBonus(100, 15) = %d, want 115", got)
	}
}

func TestClampExp(t *testing.T) {
	if ClampExp(-5) != 0 || ClampExp(5) != 5 {
		t.Error("ClampExp() did not clamp at zero")
	}
}
