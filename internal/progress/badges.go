package progress

// Badge is an achievement derived from the gamification state. Badges
// are never persisted; they are recomputed from XP, streak, and lesson
// completion whenever asked for.
type Badge struct {
	Name        string
	Description string
	Icon        string
	Unlocked    bool
}

// Badges returns the badge set in display order. catalogSize is the
// number of lessons in the catalog; pass 0 when unknown, which leaves
// the explorer badge locked.
func (s *Store) Badges(catalogSize int) []Badge {
	s.mu.Lock()
	xp := s.xp
	streak := s.streak
	completed := 0
	for _, p := range s.lessons {
		if p == 100 {
			completed++
		}
	}
	s.mu.Unlock()

	return []Badge{
		{
			Name:        "First Flame",
			Description: "Earn your first 100 XP",
			Icon:        "✦",
			Unlocked:    xp >= 100,
		},
		{
			Name:        "Streak Starter",
			Description: "Achieve a 3-day streak",
			Icon:        "★",
			Unlocked:    streak >= 3,
		},
		{
			Name:        "Cultural Explorer",
			Description: "Complete every lesson in the catalog",
			Icon:        "❖",
			Unlocked:    catalogSize > 0 && completed >= catalogSize,
		},
		{
			Name:        "Lesson Learner",
			Description: "Complete 10 lessons",
			Icon:        "◆",
			Unlocked:    completed >= 10,
		},
		{
			Name:        "Streak Legend",
			Description: "Maintain a 30-day streak",
			Icon:        "✶",
			Unlocked:    streak >= 30,
		},
	}
}
