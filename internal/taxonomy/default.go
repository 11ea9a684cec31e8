package taxonomy

// Default returns the built-in taxonomy used when no taxonomy file is configured.
func Default() Taxonomy {
	return MustNew([]Entry{
		{
			Folder: "Work",
			Keywords: []Keyword{
				{Term: "meeting", Weight: 3},
				{Term: "client", Weight: 3},
				{Term: "project", Weight: 2},
				{Term: "deadline", Weight: 2},
				{Term: "deliverable", Weight: 2},
				{Term: "followup", Weight: 1},
				{Term: "timeline", Weight: 1},
				{Term: "report", Weight: 1},
			},
		},
		{
			Folder: "Personal",
			Keywords: []Keyword{
				{Term: "family", Weight: 3},
				{Term: "birthday", Weight: 3},
				{Term: "recipe", Weight: 2},
				{Term: "meal", Weight: 2},
				{Term: "weekend", Weight: 1},
				{Term: "chicken", Weight: 1},
				{Term: "vegetarian", Weight: 1},
			},
		},
		{
			Folder: "Finance",
			Keywords: []Keyword{
				{Term: "budget", Weight: 3},
				{Term: "tax", Weight: 3},
				{Term: "invoice", Weight: 2},
				{Term: "expense", Weight: 2},
				{Term: "payment", Weight: 2},
			},
		},
		{
			Folder: "Ideas",
			Keywords: []Keyword{
				{Term: "idea", Weight: 3},
				{Term: "brainstorm", Weight: 3},
				{Term: "concept", Weight: 2},
				{Term: "draft", Weight: 1},
				{Term: "product", Weight: 1},
			},
		},
		{
			Folder: "Journal",
			Keywords: []Keyword{
				{Term: "diary", Weight: 3},
				{Term: "gratitude", Weight: 3},
				{Term: "reflection", Weight: 2},
				{Term: "mood", Weight: 2},
				{Term: "today", Weight: 1},
			},
		},
		{
			Folder: "Travel",
			Keywords: []Keyword{
				{Term: "trip", Weight: 3},
				{Term: "travel", Weight: 3},
				{Term: "flight", Weight: 2},
				{Term: "hotel", Weight: 2},
				{Term: "itinerary", Weight: 2},
			},
		},
	})
}
