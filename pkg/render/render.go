// Package render formats the catalog for a terminal.
package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/kasuboski/ratez/pkg/poster"
	"github.com/kasuboski/ratez/pkg/stats"
	"github.com/kasuboski/ratez/pkg/storage"
)

const (
	filledStar  = "★"
	hollowStar  = "☆"
	placeholder = "🎬"
	imageMarker = "🖼"

	EmptyList     = "No movies added yet. Add some movies to see them here!"
	EmptyHeadline = "No movies added yet"
	EmptyTopRated = "No movies to show!"
	GenreTip      = "Tip: Add more movies to discover your favorite genres!"
)

// Stars draws a rating as filled stars padded with hollow ones
func Stars(rating int) string {
	rating = max(storage.MinRating-1, min(rating, storage.MaxRating))
	return strings.Repeat(filledStar, rating) + strings.Repeat(hollowStar, storage.MaxRating-rating)
}

// List writes the display ordering of movies, one per line
func List(w io.Writer, movies []storage.Movie) error {
	if len(movies) == 0 {
		_, err := fmt.Fprintln(w, EmptyList)
		return err
	}

	for i, m := range stats.Sorted(movies) {
		icon := placeholder
		if _, ok := m.Image(); ok {
			icon = imageMarker
		}

		_, err := fmt.Fprintf(w, "%5s  %s  %s (%d/%d)  %s\n",
			humanize.Ordinal(i+1), icon, Stars(m.Rating), m.Rating, storage.MaxRating, m.Title)
		if err != nil {
			return err
		}
	}

	return nil
}

// Headline is the one line statistics summary
func Headline(s stats.Summary) string {
	if s.Empty() || s.Average == nil || s.Top == nil {
		return EmptyHeadline
	}

	return fmt.Sprintf("Total Movies: %d | Average Rating: %.1f/%d | Top Rated: '%s' (%d/%d)",
		s.Count, *s.Average, storage.MaxRating, s.Top.Title, s.Top.Rating, storage.MaxRating)
}

// Distribution writes one bar per rating, highest first
func Distribution(w io.Writer, s stats.Summary) error {
	for r := storage.MaxRating; r >= storage.MinRating; r-- {
		count := s.Distribution[r]
		_, err := fmt.Fprintf(w, "%s  %-3d %s\n", Stars(r), count, strings.Repeat("█", count))
		if err != nil {
			return err
		}
	}
	return nil
}

// TopRated describes the movies tied at the highest rating
func TopRated(movies []storage.Movie) string {
	top := stats.TopRated(movies)
	if len(top) == 0 {
		return EmptyTopRated
	}

	rating := top[0].Rating

	var b strings.Builder
	if len(top) == 1 {
		fmt.Fprintf(&b, "Top rated movie:\n'%s' - %d/%d stars %s", top[0].Title, rating, storage.MaxRating, filledStar)
	} else {
		fmt.Fprintf(&b, "Top rated movies (%d/%d stars %s):\n\n", rating, storage.MaxRating, filledStar)
		for i, m := range top {
			if i > 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "• %s", m.Title)
		}
	}

	if len(movies) >= 3 {
		b.WriteString("\n\n" + GenreTip)
	}

	return b.String()
}

// LastSaved describes when the catalog was last written relative to now
func LastSaved(t time.Time) string {
	if t.IsZero() {
		return "never saved"
	}
	return "last saved " + humanize.Time(t)
}

// Poster describes a resolved image
func Poster(p poster.Poster) string {
	return fmt.Sprintf("%s (%s, %s)", p.URL, p.ContentType, humanize.Bytes(uint64(max(p.Size, 0))))
}
