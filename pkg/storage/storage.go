package storage

import (
	"context"
	"errors"
	"strings"

	"github.com/oapi-codegen/nullable"
	"golang.org/x/text/cases"
)

var (
	// ErrRead is returned when the backing file exists but cannot be read or parsed
	ErrRead = errors.New("failed to read catalog")
	// ErrWrite is returned when the catalog cannot be persisted
	ErrWrite = errors.New("failed to write catalog")
)

const (
	MinRating = 1
	MaxRating = 5
)

// Storage persists the complete catalog. Read returns an empty catalog and no
// error when nothing has been persisted yet.
type Storage interface {
	Read(ctx context.Context) ([]Movie, error)
	Write(ctx context.Context, movies []Movie) error
}

// Movie is a single rated entry in the catalog
type Movie struct {
	Title    string                    `json:"title" validate:"required"`
	Rating   int                       `json:"rating" validate:"required,gte=1,lte=5"`
	ImageURL nullable.Nullable[string] `json:"image_url"`
}

// NewMovie builds a Movie, trimming the title and image url. An empty image url is stored as null.
func NewMovie(title string, rating int, imageURL string) Movie {
	m := Movie{
		Title:  strings.TrimSpace(title),
		Rating: rating,
	}
	m.SetImage(imageURL)
	return m
}

// SetImage sets the image url, storing null when it is blank
func (m *Movie) SetImage(imageURL string) {
	imageURL = strings.TrimSpace(imageURL)
	if imageURL == "" {
		m.ImageURL = nullable.NewNullNullable[string]()
		return
	}
	m.ImageURL = nullable.NewNullableWithValue(imageURL)
}

// Image returns the image url if one is set
func (m Movie) Image() (string, bool) {
	if !m.ImageURL.IsSpecified() || m.ImageURL.IsNull() {
		return "", false
	}

	v := m.ImageURL.MustGet()
	return v, v != ""
}

// Key is the case folded title that identifies a movie in the catalog
func (m Movie) Key() string {
	return FoldTitle(m.Title)
}

// FoldTitle case folds a title for comparison
func FoldTitle(title string) string {
	return cases.Fold().String(strings.TrimSpace(title))
}

// SameTitle reports whether two titles are equal under case folding
func SameTitle(a, b string) bool {
	return FoldTitle(a) == FoldTitle(b)
}
