package ai

import (
	"regexp"
	"strings"
)

// Category labels shared with the scheduling core.
const (
	labelHealthcare = "Healthcare"
	labelSport      = "Sport activity"
	labelDeepWork   = "Deep work"
	labelErrands    = "Admin/Errands"
	labelLearning   = "Learning"
	labelSocial     = "Social"
	labelHousehold  = "Household"
	labelCreative   = "Creative"
	labelRelaxing   = "Relaxing"
	labelGames      = "Games"
	labelOutdoor    = "Outdoor Play"
	labelCommute    = "Commute"
	labelOther      = "Other"
)

// CategoryLabels lists every prediction target in a stable order, used
// as the candidate set for zero-shot classification.
var CategoryLabels = []string{
	labelHealthcare, labelSport, labelDeepWork, labelErrands, labelLearning,
	labelSocial, labelHousehold, labelCreative, labelRelaxing, labelGames,
	labelOutdoor, labelCommute, labelOther,
}

// The product ships with Russian-language task text; the rules reflect
// that.
var (
	sportTerms   = regexp.MustCompile(`(?i)велоспорт|велотренаж|бег|трениров|спортзал|футбол|баскетбол|волейбол|плавани|теннис|бокс|карате|велосипед|кардио`)
	walkTerms    = regexp.MustCompile(`(?i)прогул|гуля|парк|сквер|на улице|во дворе`)
	workoutGuard = regexp.MustCompile(`(?i)кардио|силов|тренажер|интервал|спринт|зал`)
	gamesTerms   = regexp.MustCompile(`(?i)игра?(ть)?|cs\b|дота|майнкрафт|роблокс|консоль`)
	relaxTerms   = regexp.MustCompile(`(?i)расслаб|медитац|дыхани|йога|растяж|отдых|сон`)
	outdoorTerms = regexp.MustCompile(`(?i)парк|сквер|велопрогул|поход|на улице|площадк|на свеж`)
)

type categoryRule struct {
	category   string
	confidence float64
	patterns   []*regexp.Regexp
	excludes   []*regexp.Regexp
}

func rx(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, pattern := range patterns {
		compiled[i] = regexp.MustCompile(`(?i)` + pattern)
	}
	return compiled
}

// Unambiguous matches that beat any model prediction.
var strongRules = []categoryRule{
	{category: labelLearning, confidence: 0.95, patterns: rx(
		`домашн(яя|ее|ие)\s*(работа|задани)`, `дз\b`, `урок`, `учеб`, `школ`, `матем`,
		`экзам`, `подготовк[аи]`, `англ`, `язык`, `грамматика`, `учить`)},
	{category: labelSport, confidence: 0.92, patterns: rx(
		`фитнес`, `трениров`, `кардио`, `бег`, `плав`, `футбол`, `теннис`, `баскетбол`,
		`велотренаж`, `зарядк`, `спорт`, `секц`, `зал\b`),
		excludes: rx(`растяж`, `йог`)},
	{category: labelOutdoor, confidence: 0.9, patterns: rx(
		`прогул`, `гуля`, `парк`, `детск.+площад`, `велосипед`, `самокат`, `скейт`,
		`поход`, `катани[ея]`, `пикник`, `на свежем воздухе`, `на улице`, `качел`)},
	{category: labelCreative, confidence: 0.88, patterns: rx(
		`музык`, `пианино|фортепиано`, `гитар`, `скрип`, `рисов`, `дизайн`, `поделк`,
		`творч`, `поэз|стих`, `сочин`, `петь|хор`, `оркестр`, `фото`, `анимац`, `кружок`)},
	{category: labelRelaxing, confidence: 0.9, patterns: rx(
		`отдых`, `медитац`, `дыхани`, `растяж`, `йог`, `читать`, `книга`, `кино`,
		`сериал`, `сон`, `релакс`),
		excludes: rx(`учеб|курс|матем`)},
	{category: labelGames, confidence: 0.92, patterns: []*regexp.Regexp{gamesTerms}},
	{category: labelHealthcare, confidence: 0.9, patterns: rx(
		`завтрак|обед|ужин|полдник`, `поесть|еда|прием пищи`, `врач|педиатр`, `стоматолог`,
		`клиник`, `больниц`, `терап`, `здоров`, `витамин`, `привив`, `массаж`,
		`прием у`, `готовить`, `пообедать|поужинать`)},
	{category: labelHousehold, confidence: 0.88, patterns: rx(
		`убор`, `пылесос`, `посуд`, `стирк`, `организ|гардер`, `домашн(ие)? дела`,
		`по дому`, `кормить питомцев`, `полить цветы`, `починить`, `ремонт`)},
	{category: labelErrands, confidence: 0.88, patterns: rx(
		`магазин|закуп`, `купить`, `поручени`, `банк`, `оплат`, `счет|налог`, `документ`,
		`паспорт`, `почт[аы]`, `мфц`, `собес|госусл`, `страхов`, `запись в`, `дела\b`)},
	{category: labelSocial, confidence: 0.85, patterns: rx(
		`встре?ч`, `друз`, `звон`, `вечерин`, `сем(ья|ей)`, `родител`, `общен`, `чат`,
		`свидан`, `командный`, `кофе`)},
	{category: labelDeepWork, confidence: 0.84, patterns: rx(
		`проект`, `исслед`, `анализ`, `разработ|программ`, `сконцентр`, `отчет`,
		`презентац`, `стратег`, `планирован`, `доклад`, `диплом`, `архитект`)},
	{category: labelCommute, confidence: 0.85, patterns: rx(
		`дорог[ае]`, `поездк`, `ехать`, `поезд`, `автобус`, `метро`, `перелет`, `трасс`,
		`пробк`, `велопоездка`, `транспорт`)},
}

// Weaker hints consulted only when no strong rule fires.
var supportRules = []categoryRule{
	{category: labelLearning, confidence: 0.78, patterns: rx(`учеб`, `курс`, `подготовк`, `матем`, `заняти`)},
	{category: labelSport, confidence: 0.76, patterns: rx(`спорт`, `трен`, `зарядк`, `упражн`, `физкультур`)},
	{category: labelRelaxing, confidence: 0.74, patterns: rx(`отдых`, `сон`, `почитать`, `телевизор`), excludes: rx(`учеб|курс`)},
	{category: labelGames, confidence: 0.75, patterns: []*regexp.Regexp{gamesTerms, regexp.MustCompile(`(?i)компьютер`)}},
	{category: labelHealthcare, confidence: 0.76, patterns: rx(`здоров`, `самочувств`, `сон`, `еда|питани`, `витамин`)},
	{category: labelHousehold, confidence: 0.72, patterns: rx(`домов`, `дела по дому`, `порядок`, `организ`)},
	{category: labelErrands, confidence: 0.72, patterns: rx(`дела`, `оформ`, `банк`, `плат[еи]`, `поручени`)},
	{category: labelCreative, confidence: 0.72, patterns: rx(`творч`, `рисов`, `муз`, `петь`, `искусств`)},
	{category: labelSocial, confidence: 0.7, patterns: rx(`общен`, `встр`, `друз`, `команд`, `сем`, `беседа`)},
	{category: labelOutdoor, confidence: 0.72, patterns: rx(`гуля`, `на улице`, `прогул`, `свежем воздухе`)},
	{category: labelDeepWork, confidence: 0.7, patterns: rx(`работ`, `концентрац`, `аналит`, `сосредоточ`)},
	{category: labelCommute, confidence: 0.7, patterns: rx(`дорог`, `поездк`, `еду`, `путь`)},
}

func normalizeTaskText(task TaskText) string {
	text := task.Title + " " + task.Description
	text = strings.NewReplacer("ё", "е", "Ё", "е").Replace(text)
	text = strings.Join(strings.Fields(text), " ")
	return strings.ToLower(text)
}

func matchRules(text string, rules []categoryRule) (CategorizeResult, bool) {
	for _, rule := range rules {
		matched := false
		for _, pattern := range rule.patterns {
			if pattern.MatchString(text) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		excluded := false
		for _, pattern := range rule.excludes {
			if pattern.MatchString(text) {
				excluded = true
				break
			}
		}
		if excluded {
			continue
		}
		return CategorizeResult{Label: rule.category, Confidence: rule.confidence}, true
	}
	return CategorizeResult{}, false
}

// CategorizeWithHeuristics predicts a category from the rule tables.
// With strongOnly set, only the unambiguous table is consulted.
func CategorizeWithHeuristics(task TaskText, strongOnly bool) (CategorizeResult, bool) {
	text := normalizeTaskText(task)
	if text == "" {
		return CategorizeResult{}, false
	}
	if result, ok := matchRules(text, strongRules); ok {
		return result, true
	}
	if strongOnly {
		return CategorizeResult{}, false
	}
	return matchRules(text, supportRules)
}

// RefineCategoryPrediction post-processes a model prediction with the
// rule tables and term-level overrides (walks reclassified away from
// sport, games and relaxation boosts).
func RefineCategoryPrediction(task TaskText, initial CategorizeResult) CategorizeResult {
	text := normalizeTaskText(task)

	if strong, ok := CategorizeWithHeuristics(task, true); ok {
		threshold := initial.Confidence
		if threshold < 0.8 {
			threshold = 0.8
		}
		if strong.Confidence >= threshold {
			return strong
		}
	}

	next := initial

	switch {
	case gamesTerms.MatchString(text):
		next.Label = labelGames
		next.Confidence = maxFloat(next.Confidence, 0.72)
	case sportTerms.MatchString(text):
		next.Label = labelSport
		next.Confidence = maxFloat(next.Confidence, 0.72)
	case relaxTerms.MatchString(text):
		next.Label = labelRelaxing
		next.Confidence = maxFloat(next.Confidence, 0.68)
	}

	if walkTerms.MatchString(text) && !workoutGuard.MatchString(text) {
		if outdoorTerms.MatchString(text) {
			next.Label = labelOutdoor
		} else {
			next.Label = labelRelaxing
		}
		next.Confidence = maxFloat(next.Confidence, 0.64)
	}

	if initial.Label == labelSport && initial.Confidence < 0.55 &&
		walkTerms.MatchString(text) && !workoutGuard.MatchString(text) {
		next.Label = labelRelaxing
		next.Confidence = maxFloat(next.Confidence, 0.6)
	}

	if fallback, ok := CategorizeWithHeuristics(task, false); ok {
		if fallback.Label == next.Label {
			next.Confidence = maxFloat(next.Confidence, fallback.Confidence)
		} else if fallback.Confidence >= next.Confidence+0.1 {
			next = fallback
		}
	}

	return next
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
