package ai

// SummarizeFeature turns a model feature contribution into a short
// reader-facing phrase. The sign of the contribution decides which
// side of the story gets told.
func SummarizeFeature(key string, value float64) string {
	positive := value >= 0
	switch key {
	case "priority":
		if positive {
			return "the task is important today"
		}
		return "the task can be more relaxed today"
	case "habit_alignment":
		if positive {
			return "it matches your usual routine"
		}
		return "it changes the usual routine"
	case "circadian_fit":
		if positive {
			return "it fits your energy level at that time"
		}
		return "you might feel sleepy at that time"
	case "deadline_pressure":
		if positive {
			return "a deadline is getting closer"
		}
		return "there is no rush from deadlines"
	case "context_switch":
		if positive {
			return "it follows a similar activity"
		}
		return "switching from another activity may be harder"
	case "daily_load":
		if positive {
			return "it keeps the rest of the day lighter"
		}
		return "other parts of the day are already busy"
	case "meal_conflict":
		if positive {
			return "it lines up with meal time"
		}
		return "it keeps time free for meals"
	case "school_conflict":
		if positive {
			return "it fits around the school day"
		}
		return "it avoids school lesson time"
	case "sleep_conflict":
		if positive {
			return "it respects your sleep schedule"
		}
		return "it would interrupt your sleep time"
	case "activity_target_gap":
		if positive {
			return "it helps hit your activity goal"
		}
		return "you already met the activity goal"
	default:
		return "it keeps the plan balanced"
	}
}

var featureSummaryRU = map[string]string{
	"the task is important today":                   "задача сегодня особенно важна",
	"the task can be more relaxed today":            "эту задачу можно сделать более спокойно",
	"it matches your usual routine":                 "это соответствует твоему привычному расписанию",
	"it changes the usual routine":                  "это немного меняет привычный распорядок",
	"it fits your energy level at that time":        "это подходило под твой уровень энергии в это время",
	"you might feel sleepy at that time":            "в это время ты можешь чувствовать сонливость",
	"a deadline is getting closer":                  "срок выполнения уже близко",
	"there is no rush from deadlines":               "пока нет спешки из-за дедлайнов",
	"it follows a similar activity":                 "оно идёт вслед за похожим занятием",
	"switching from another activity may be harder": "переключаться с другого занятия может быть сложнее",
	"it keeps the rest of the day lighter":          "так остальная часть дня будет легче",
	"other parts of the day are already busy":       "другие части дня уже заняты делами",
	"it lines up with meal time":                    "это совпадает со временем приёма пищи",
	"it keeps time free for meals":                  "это оставляет достаточно времени на еду",
	"it fits around the school day":                 "это удобно вписывалось в школьный день",
	"it avoids school lesson time":                  "это не мешает школьным урокам",
	"it respects your sleep schedule":               "это не нарушает твой режим сна",
	"it would interrupt your sleep time":            "это может помешать твоему сну",
	"it helps hit your activity goal":               "это помогает выполнить твою цель по активности",
	"you already met the activity goal":             "цель по активности уже выполнена",
	"it keeps the plan balanced":                    "сохранить сбалансированный день",
}

// TranslateSummary localizes a feature summary. Unknown summaries and
// unsupported locales pass through unchanged.
func TranslateSummary(summary, locale string) string {
	if locale != "ru" {
		return summary
	}
	if translated, ok := featureSummaryRU[summary]; ok {
		return translated
	}
	return summary
}
