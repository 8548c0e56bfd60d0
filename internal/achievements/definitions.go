package achievements

import "time"

// Achievement ids.
const (
	FirstLesson   = "first-lesson"
	FirstLevel    = "first-level"
	FirstTopic    = "first-topic"
	Lessons5      = "lessons-5"
	Lessons10     = "lessons-10"
	Lessons25     = "lessons-25"
	Lessons50     = "lessons-50"
	Lessons100    = "lessons-100"
	Levels5       = "levels-5"
	Levels10      = "levels-10"
	Levels20      = "levels-20"
	PerfectLevel  = "perfect-level"
	SpeedDemon    = "speed-demon"
	ThreeGold     = "three-gold"
	Streak3       = "streak-3"
	Streak7       = "streak-7"
	Streak30      = "streak-30"
	Points50      = "points-50"
	Points100     = "points-100"
	Points250     = "points-250"
	AllTopics     = "all-topics"
	Completionist = "completionist"
	EcoChampion   = "eco-champion"
)

// SpeedDemonLimit is the level completion time under which speed-demon is awarded.
const SpeedDemonLimit = 300 * time.Second

func lessonsAtLeast(n int) func(Stats) bool {
	return func(s Stats) bool { return s.TotalLessons >= n }
}

func levelsAtLeast(n int) func(Stats) bool {
	return func(s Stats) bool { return s.TotalLevelsCompleted >= n }
}

func streakAtLeast(n int) func(Stats) bool {
	return func(s Stats) bool { return s.Streak >= n }
}

func pointsAtLeast(n int) func(Stats) bool {
	return func(s Stats) bool { return s.EcoPoints >= n }
}

// definitions is the ordered catalog. Order matters: eco-champion is last so
// that awards made earlier in the same scan count toward it.
var definitions = []Definition{
	{ID: FirstLesson, Name: "First Steps", Description: "Complete your first lesson", Icon: "🌱", Color: "#16a34a",
		Condition: lessonsAtLeast(1)},
	{ID: FirstLevel, Name: "Level Up", Description: "Complete your first level", Icon: "⬆️", Color: "#2563eb",
		Condition: levelsAtLeast(1)},
	{ID: FirstTopic, Name: "Topic Master", Description: "Complete your first topic", Icon: "🎓", Color: "#9333ea",
		Condition: func(s Stats) bool { return s.CompletedTopicsCount >= 1 }},

	{ID: Lessons5, Name: "Getting Started", Description: "Complete 5 lessons", Icon: "📚", Color: "#0891b2",
		Condition: lessonsAtLeast(5)},
	{ID: Lessons10, Name: "Knowledge Seeker", Description: "Complete 10 lessons", Icon: "📖", Color: "#0d9488",
		Condition: lessonsAtLeast(10)},
	{ID: Lessons25, Name: "Dedicated Learner", Description: "Complete 25 lessons", Icon: "🎯", Color: "#4f46e5",
		Condition: lessonsAtLeast(25)},
	{ID: Lessons50, Name: "Half Century", Description: "Complete 50 lessons", Icon: "💯", Color: "#ea580c",
		Condition: lessonsAtLeast(50)},
	{ID: Lessons100, Name: "Century Club", Description: "Complete 100 lessons", Icon: "🏆", Color: "#ca8a04",
		Condition: lessonsAtLeast(100)},

	{ID: Levels5, Name: "Rising Star", Description: "Complete 5 levels", Icon: "⭐", Color: "#db2777",
		Condition: levelsAtLeast(5)},
	{ID: Levels10, Name: "Topic Champion", Description: "Complete 10 levels", Icon: "🌟", Color: "#7c3aed",
		Condition: levelsAtLeast(10)},
	{ID: Levels20, Name: "Climate Expert", Description: "Complete 20 levels", Icon: "💫", Color: "#c026d3",
		Condition: levelsAtLeast(20)},

	{ID: PerfectLevel, Name: "Perfect Score", Description: "Get all 5 questions correct in a level", Icon: "🥇", Color: "#d97706",
		Condition:      func(s Stats) bool { return s.GoldMedalCount >= 1 },
		LevelCondition: func(r LevelResult) bool { return r.CorrectAnswers == 5 }},
	{ID: SpeedDemon, Name: "Speed Demon", Description: "Complete a level in under 5 minutes", Icon: "⚡", Color: "#dc2626",
		LevelCondition: func(r LevelResult) bool { return r.CompletionTime > 0 && r.CompletionTime < SpeedDemonLimit }},
	{ID: ThreeGold, Name: "Gold Rush", Description: "Earn 3 gold medals", Icon: "🥇🥇🥇", Color: "#eab308",
		Condition: func(s Stats) bool { return s.GoldMedalCount >= 3 }},

	{ID: Streak3, Name: "Hot Streak", Description: "Login for 3 days in a row", Icon: "🔥", Color: "#f97316",
		Condition: streakAtLeast(3)},
	{ID: Streak7, Name: "Week Warrior", Description: "Login for 7 days in a row", Icon: "🔥🔥", Color: "#ef4444",
		Condition: streakAtLeast(7)},
	{ID: Streak30, Name: "Monthly Master", Description: "Login for 30 days in a row", Icon: "🔥🔥🔥", Color: "#e11d48",
		Condition: streakAtLeast(30)},

	{ID: Points50, Name: "Point Collector", Description: "Earn 50 eco points", Icon: "💰", Color: "#059669",
		Condition: pointsAtLeast(50)},
	{ID: Points100, Name: "Point Master", Description: "Earn 100 eco points", Icon: "💎", Color: "#3b82f6",
		Condition: pointsAtLeast(100)},
	{ID: Points250, Name: "Eco Millionaire", Description: "Earn 250 eco points", Icon: "💸", Color: "#22c55e",
		Condition: pointsAtLeast(250)},

	{ID: AllTopics, Name: "Climate Hero", Description: "Complete all available topics", Icon: "🌍", Color: "#0ea5e9",
		Condition: func(s Stats) bool { return s.AllTopicsCompleted }},
	{ID: Completionist, Name: "Completionist", Description: "Achieve 100% completion", Icon: "👑", Color: "#f59e0b",
		Condition: func(s Stats) bool { return s.AllLevelsGold }},
	{ID: EcoChampion, Name: "Eco Champion", Description: "Earn all achievements", Icon: "🏆", Color: "#a855f7"},
}
