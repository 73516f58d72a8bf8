package scheduler

// circadianContext keys the preference lookup: the category plus the
// metadata flags that override it.
type circadianContext struct {
	Category        Category
	Hour            float64
	IsHomework      bool
	IsMealTask      bool
	InOwnMealWindow bool
	IsGamesTask     bool
}

// circadianPreference returns the time-of-day preference in [-1, 1] for
// a task at the given decimal hour. The bands are calibration data for
// the model, not control flow; keep them stable.
func circadianPreference(ctx circadianContext) float64 {
	hour := ctx.Hour

	if ctx.IsMealTask {
		if ctx.InOwnMealWindow {
			return 1
		}
		return -1
	}

	if ctx.Category == CategoryLearning && ctx.IsHomework {
		switch {
		case hour >= 16 && hour < 19.5:
			return 1
		case hour >= 19.5 && hour < 21:
			return 0.2
		default:
			return -0.5
		}
	}

	if ctx.Category == CategoryRelaxing {
		switch {
		case hour >= 18 && hour < 21:
			return 1
		case hour >= 16 && hour < 18:
			return 0.5
		case hour < 10:
			return -0.5
		default:
			return 0
		}
	}

	if ctx.Category == CategoryGames || ctx.IsGamesTask {
		switch {
		case hour >= 17 && hour <= 20:
			return 1
		case hour >= 12 && hour < 17:
			return 0
		case hour < 12:
			return -1
		default:
			return 0
		}
	}

	switch ctx.Category {
	case CategoryErrands:
		switch {
		case hour >= 12 && hour < 17:
			return 0.6
		case hour < 9:
			return -0.3
		default:
			return 0
		}
	case CategorySport:
		switch {
		case hour >= 17 && hour < 20:
			return 1
		case hour >= 10 && hour < 17:
			return 0
		default:
			return -0.5
		}
	case CategoryCreative:
		switch {
		case hour >= 18 && hour < 21:
			return 0.7
		case hour >= 14 && hour < 18:
			return 0.3
		case hour < 10:
			return -0.2
		default:
			return 0
		}
	case CategoryOutdoor:
		switch {
		case hour >= 16 && hour < 20:
			return 1
		case hour >= 10 && hour < 16:
			return 0.5
		case hour < 9:
			return -0.3
		default:
			return 0
		}
	case CategorySocial:
		switch {
		case hour >= 18 && hour < 22:
			return 0.8
		case hour >= 12 && hour < 18:
			return 0.4
		case hour < 10:
			return -0.2
		default:
			return 0
		}
	case CategoryDeepWork:
		switch {
		case hour >= 9 && hour < 12:
			return 1
		case hour >= 14 && hour < 17:
			return 0.7
		case hour < 9:
			return 0.3
		case hour >= 19:
			return -0.5
		default:
			return 0
		}
	case CategoryHousehold:
		switch {
		case hour >= 9 && hour < 12:
			return 0.6
		case hour >= 17 && hour < 20:
			return 0.5
		case hour < 8:
			return -0.4
		default:
			return 0
		}
	case CategoryCommute:
		switch {
		case hour >= 7 && hour < 9:
			return 0.8
		case hour >= 17 && hour < 19:
			return 0.7
		default:
			return 0
		}
	case CategoryHealthcare:
		switch {
		case hour >= 9 && hour < 12:
			return 0.7
		case hour >= 14 && hour < 17:
			return 0.6
		default:
			return 0
		}
	}

	return 0
}
