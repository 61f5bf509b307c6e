package reward

import (
	"fmt"

	"github.com/example/dutybot/internal/core/effects"
)

// GenerateLevelUpPlan swaps the member's level roles and congratulates
// them. No promotion means no effects.
func GenerateLevelUpPlan(userID string, result LevelUpResult) []effects.Effect {
	if !result.Leveled {
		return nil
	}

	var effs []effects.Effect
	if result.RemoveRoleID != "" && result.RemoveRoleID != result.AddRoleID {
		effs = append(effs, effects.RoleEffect{Operation: "remove", UserID: userID, RoleID: result.RemoveRoleID})
	}
	if result.AddRoleID != "" {
		effs = append(effs, effects.RoleEffect{Operation: "add", UserID: userID, RoleID: result.AddRoleID})
	}
	effs = append(effs, effects.NotifyEffect{
		UserID:  userID,
		Message: fmt.Sprintf("Level up! You are now level %d.", result.ToLevel),
	})
	return effs
}
