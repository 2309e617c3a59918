package config

import "fmt"

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if c.SkillTree.ImageDomain == "" {
		return fmt.Errorf("skilltree.image_domain must not be empty")
	}
	if c.SkillTree.MaxUserNodes <= 0 {
		return fmt.Errorf("skilltree.max_user_nodes must be > 0 (got %d)", c.SkillTree.MaxUserNodes)
	}
	if c.SkillTree.StreakWindowDays <= 0 {
		return fmt.Errorf("skilltree.streak_window_days must be > 0 (got %d)", c.SkillTree.StreakWindowDays)
	}
	if c.SkillTree.FeedWindowDays <= 0 {
		return fmt.Errorf("skilltree.feed_window_days must be > 0 (got %d)", c.SkillTree.FeedWindowDays)
	}

	return nil
}
