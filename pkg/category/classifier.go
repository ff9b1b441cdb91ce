package category

import "strings"

// keywords maps each category to the signal words that vote for it.
var keywords = map[Slug][]string{
	Science: {
		"science", "experiment", "physics", "chemistry", "biology",
		"research", "laboratory", "astronomy", "space", "scientific",
	},
	History: {
		"history", "historical", "heritage", "archive", "ancient",
		"century", "civilization", "artifact", "war", "museum",
	},
	Arts: {
		"art", "painting", "sculpture", "music", "dance",
		"theater", "gallery", "creative", "poem", "film",
	},
	Sports: {
		"sports", "soccer", "football", "basketball", "tennis",
		"athlete", "stadium", "match", "tournament", "training",
	},
	Nature: {
		"nature", "forest", "mountain", "river", "ocean",
		"wildlife", "animal", "landscape", "garden", "park",
	},
	Technology: {
		"technology", "tech", "software", "computer", "robot",
		"digital", "device", "code", "programming", "ai",
	},
	Culture: {
		"culture", "festival", "tradition", "community", "language",
		"ceremony", "custom", "family", "food", "lifestyle",
	},
	Travel: {
		"travel", "trip", "journey", "vacation", "tour",
		"flight", "hotel", "destination", "adventure", "road",
	},
}

// InferFromSignals picks the category whose keywords occur most often as
// whole words across the given text signals. Empty signals are skipped.
// When nothing matches, or all signals are empty, it falls back to Culture.
func InferFromSignals(signals ...string) Slug {
	var parts []string
	for _, signal := range signals {
		if strings.TrimSpace(signal) != "" {
			parts = append(parts, signal)
		}
	}
	if len(parts) == 0 {
		return Culture
	}

	words := tokenize(strings.ToLower(strings.Join(parts, " ")))

	best := Culture
	bestScore := 0
	for _, slug := range Slugs {
		score := 0
		for _, keyword := range keywords[slug] {
			score += words[keyword]
		}
		if score > bestScore {
			best = slug
			bestScore = score
		}
	}
	return best
}

// tokenize splits text on non-alphanumeric runes and counts occurrences
// of each word, giving the whole-word matching the classifier needs.
func tokenize(text string) map[string]int {
	counts := make(map[string]int)
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	for _, field := range fields {
		counts[field]++
	}
	return counts
}
