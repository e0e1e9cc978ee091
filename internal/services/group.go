package services

// GroupToggleResult describes a member's completion toggle on a room goal.
// GroupStreak and Completed are nil when the toggle did not cross the
// all-members boundary.
type GroupToggleResult struct {
	UserCompleted bool
	AddUserID     *uint64
	RemoveUserID  *uint64
	GroupStreak   *int
	Completed     *bool
}

// ApplyGroupToggle computes the group-completion transition for one member's
// toggle. The member set is authoritative and order-independent.
//
// Undoing checks the all-completed condition against the set *before*
// removal: only an undo that breaks a full completion decrements the group
// streak (floored at 0). Completing checks *after* addition: the streak
// increments exactly when this member is the last one in.
func ApplyGroupToggle(memberIDs, completedBy []uint64, userID uint64, currentStreak int) GroupToggleResult {
	if contains(completedBy, userID) {
		result := GroupToggleResult{
			UserCompleted: false,
			RemoveUserID:  &userID,
		}

		if containsAll(completedBy, memberIDs) {
			streak := currentStreak - 1
			if streak < 0 {
				streak = 0
			}
			completed := false
			result.GroupStreak = &streak
			result.Completed = &completed
		}
		return result
	}

	result := GroupToggleResult{
		UserCompleted: true,
		AddUserID:     &userID,
	}

	after := append(append([]uint64{}, completedBy...), userID)
	if containsAll(after, memberIDs) {
		streak := currentStreak + 1
		completed := true
		result.GroupStreak = &streak
		result.Completed = &completed
	}
	return result
}

func contains(ids []uint64, id uint64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// containsAll reports whether every id in want appears in have.
func containsAll(have, want []uint64) bool {
	set := make(map[uint64]struct{}, len(have))
	for _, v := range have {
		set[v] = struct{}{}
	}
	for _, v := range want {
		if _, ok := set[v]; !ok {
			return false
		}
	}
	return true
}
