package domain

import "fmt"

// Visibility controls who can view and copy a tree.
type Visibility string

const (
	VisibilityPrivate Visibility = "PRIVATE"
	VisibilityFriends Visibility = "FRIENDS"
	VisibilityPublic  Visibility = "PUBLIC"
	// VisibilityPreset marks an ownerless template tree eligible for copying
	// into any user's account.
	VisibilityPreset Visibility = "PRESET"
)

// ParseVisibility converts a string into a Visibility.
func ParseVisibility(s string) (Visibility, error) {
	switch Visibility(s) {
	case VisibilityPrivate, VisibilityFriends, VisibilityPublic, VisibilityPreset:
		return Visibility(s), nil
	default:
		return "", fmt.Errorf("invalid visibility %q: %w", s, ErrValidation)
	}
}

// SkillSortMode selects the ordering of skill list results.
type SkillSortMode string

const (
	SkillSortName         SkillSortMode = "NAME"
	SkillSortCreatedAt    SkillSortMode = "CREATED_AT"
	SkillSortTimeSpent    SkillSortMode = "TIME_SPENT"
	SkillSortRecentlyUsed SkillSortMode = "RECENTLY_USED"
)

// ParseSkillSortMode converts a string into a SkillSortMode.
// The empty string defaults to name order.
func ParseSkillSortMode(s string) (SkillSortMode, error) {
	if s == "" {
		return SkillSortName, nil
	}
	switch SkillSortMode(s) {
	case SkillSortName, SkillSortCreatedAt, SkillSortTimeSpent, SkillSortRecentlyUsed:
		return SkillSortMode(s), nil
	default:
		return "", fmt.Errorf("invalid skill sort mode %q: %w", s, ErrValidation)
	}
}

// AchievementSortMode selects the ordering of achievement list results.
type AchievementSortMode string

const (
	AchievementSortTitle       AchievementSortMode = "TITLE"
	AchievementSortCreatedAt   AchievementSortMode = "CREATED_AT"
	AchievementSortCompletedAt AchievementSortMode = "COMPLETED_AT"
)

// ParseAchievementSortMode converts a string into an AchievementSortMode.
// The empty string defaults to title order.
func ParseAchievementSortMode(s string) (AchievementSortMode, error) {
	if s == "" {
		return AchievementSortTitle, nil
	}
	switch AchievementSortMode(s) {
	case AchievementSortTitle, AchievementSortCreatedAt, AchievementSortCompletedAt:
		return AchievementSortMode(s), nil
	default:
		return "", fmt.Errorf("invalid achievement sort mode %q: %w", s, ErrValidation)
	}
}

// NodeKind tags the two node variants a tree graph contains. Orientation
// entries and layout projections are built exhaustively over these.
type NodeKind string

const (
	NodeKindSkill       NodeKind = "SKILL"
	NodeKindAchievement NodeKind = "ACHIEVEMENT"
)

// FriendshipStatus is the lifecycle state of a friendship edge.
type FriendshipStatus string

const (
	FriendshipPending  FriendshipStatus = "PENDING"
	FriendshipAccepted FriendshipStatus = "ACCEPTED"
	FriendshipDeclined FriendshipStatus = "DECLINED"
)
