package export

import (
	"math"
	"sort"
)

// Bucket summarizes the notes resolved to one folder.
type Bucket struct {
	Folder        string  `json:"folder"`
	Count         int     `json:"count"`
	AvgConfidence float64 `json:"avg_confidence"`
}

// Assessment summarizes a run's suggestions per destination folder.
type Assessment struct {
	Total    int      `json:"total"`
	Accepted int      `json:"accepted"`
	Buckets  []Bucket `json:"buckets"`
}

// Assess groups explanations by suggested folder. Buckets are sorted by folder
// name and average confidence is rounded to two decimal places.
func Assess(explanations []Explanation) Assessment {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	accepted := 0
	for _, e := range explanations {
		sums[e.Suggestion.Folder] += e.Suggestion.Confidence
		counts[e.Suggestion.Folder]++
		if e.Suggestion.Accepted {
			accepted++
		}
	}

	buckets := make([]Bucket, 0, len(counts))
	for folder, count := range counts {
		buckets = append(buckets, Bucket{
			Folder:        folder,
			Count:         count,
			AvgConfidence: math.Round(sums[folder]/float64(count)*100) / 100,
		})
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Folder < buckets[j].Folder
	})

	return Assessment{
		Total:    len(explanations),
		Accepted: accepted,
		Buckets:  buckets,
	}
}
