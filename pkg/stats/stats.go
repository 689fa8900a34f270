// Package stats derives read-only views from a catalog. Nothing here mutates
// or persists the movies it is given.
package stats

import (
	"cmp"
	"slices"

	"github.com/kasuboski/ratez/pkg/storage"
)

// Summary is the headline view of a catalog
type Summary struct {
	Count int `json:"count"`
	// Average is nil when the catalog is empty
	Average *float64 `json:"average"`
	// Top is the first movie in catalog order holding the highest rating
	Top          *storage.Movie  `json:"top"`
	TopRated     []storage.Movie `json:"topRated"`
	Distribution map[int]int     `json:"distribution"`
}

// Empty reports whether there is nothing to summarize
func (s Summary) Empty() bool {
	return s.Count == 0
}

// Count is the number of movies in the catalog
func Count(movies []storage.Movie) int {
	return len(movies)
}

// AverageRating is the mean rating. ok is false for an empty catalog.
func AverageRating(movies []storage.Movie) (avg float64, ok bool) {
	if len(movies) == 0 {
		return 0, false
	}

	sum := 0
	for _, m := range movies {
		sum += m.Rating
	}

	return float64(sum) / float64(len(movies)), true
}

// MaxRating is the highest rating present. ok is false for an empty catalog.
func MaxRating(movies []storage.Movie) (rating int, ok bool) {
	if len(movies) == 0 {
		return 0, false
	}

	return slices.MaxFunc(movies, func(a, b storage.Movie) int {
		return cmp.Compare(a.Rating, b.Rating)
	}).Rating, true
}

// TopRated returns every movie tied at the highest rating, in catalog order
func TopRated(movies []storage.Movie) []storage.Movie {
	highest, ok := MaxRating(movies)
	if !ok {
		return []storage.Movie{}
	}

	top := make([]storage.Movie, 0)
	for _, m := range movies {
		if m.Rating == highest {
			top = append(top, m)
		}
	}

	return top
}

// Sorted returns the display order: rating descending, then case folded title ascending
func Sorted(movies []storage.Movie) []storage.Movie {
	sorted := slices.Clone(movies)
	if sorted == nil {
		sorted = []storage.Movie{}
	}

	slices.SortStableFunc(sorted, compareDisplay)
	return sorted
}

func compareDisplay(a, b storage.Movie) int {
	if c := cmp.Compare(b.Rating, a.Rating); c != 0 {
		return c
	}
	return cmp.Compare(a.Key(), b.Key())
}

// Distribution counts movies per rating. Every rating from MinRating to MaxRating has a bucket.
func Distribution(movies []storage.Movie) map[int]int {
	dist := make(map[int]int, storage.MaxRating-storage.MinRating+1)
	for r := storage.MinRating; r <= storage.MaxRating; r++ {
		dist[r] = 0
	}

	for _, m := range movies {
		dist[m.Rating]++
	}

	return dist
}

// Summarize computes the headline statistics
func Summarize(movies []storage.Movie) Summary {
	s := Summary{
		Count:        Count(movies),
		TopRated:     TopRated(movies),
		Distribution: Distribution(movies),
	}

	if avg, ok := AverageRating(movies); ok {
		s.Average = &avg
	}

	if len(s.TopRated) > 0 {
		top := s.TopRated[0]
		s.Top = &top
	}

	return s
}
