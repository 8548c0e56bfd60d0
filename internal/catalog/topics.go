package catalog

var seedTopics = []Topic{
	{
		ID:          "e-waste",
		Title:       "E-Waste Recycling Journey",
		Description: "How discarded electronics are collected, recycled and regulated around the world.",
		Levels: []Level{
			{1, "Introduction to E-Waste", DifficultyBeginner},
			{2, "Understanding Recycling Rates", DifficultyBeginner},
			{3, "Global E-Waste Patterns", DifficultyBeginner},
			{4, "Environmental Impact", DifficultyIntermediate},
			{5, "Economic Benefits", DifficultyIntermediate},
			{6, "Regional Comparisons", DifficultyIntermediate},
			{7, "Best Practices Analysis", DifficultyAdvanced},
			{8, "Policy & Legislation", DifficultyAdvanced},
			{9, "Future Trends", DifficultyAdvanced},
			{10, "Expert Challenge", DifficultyExpert},
		},
	},
	{
		ID:          "temperature-change",
		Title:       "Temperature Change Investigation",
		Description: "Reading temperature anomaly data and what it says about a warming planet.",
		Levels: []Level{
			{1, "What is Temperature Anomaly?", DifficultyBeginner},
			{2, "Reading Climate Data", DifficultyBeginner},
			{3, "Regional Temperature Patterns", DifficultyBeginner},
			{4, "Seasonal Variations", DifficultyIntermediate},
			{5, "Historical Trends", DifficultyIntermediate},
			{6, "Climate Change Indicators", DifficultyIntermediate},
			{7, "Impact on Ecosystems", DifficultyAdvanced},
			{8, "Human Activities Connection", DifficultyAdvanced},
			{9, "Future Projections", DifficultyAdvanced},
			{10, "Climate Action Challenge", DifficultyExpert},
		},
	},
}
