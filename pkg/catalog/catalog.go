package catalog

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/kasuboski/ratez/pkg/logger"
	"github.com/kasuboski/ratez/pkg/storage"
	"go.uber.org/zap"
)

// Store owns the in-memory catalog and keeps it in sync with the backing storage.
// Every mutation is persisted before it becomes visible; if persisting fails the
// in-memory catalog is left as it was.
type Store struct {
	mu       sync.Mutex
	storage  storage.Storage
	validate *validator.Validate
	movies   []storage.Movie
}

// Option configures a Store
type Option func(*Store)

// WithValidator overrides the validator used for movies
func WithValidator(v *validator.Validate) Option {
	return func(s *Store) {
		s.validate = v
	}
}

// New creates an empty Store. Call Load to populate it from storage.
func New(s storage.Storage, opts ...Option) *Store {
	store := &Store{
		storage:  s,
		validate: validator.New(),
		movies:   []storage.Movie{},
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// AddRequest is the user input for a new movie
type AddRequest struct {
	Title    string `json:"title"`
	Rating   int    `json:"rating"`
	ImageURL string `json:"image_url"`
}

// LoadResult is the outcome of Load. ReadFailure is set when the backing file
// could not be read and the catalog was reset to empty.
type LoadResult struct {
	Movies      []storage.Movie
	ReadFailure error
	Skipped     int
}

// Load replaces the in-memory catalog with the contents of storage. Read
// failures never propagate; they are logged and reported on the result.
// Individual records that break the catalog invariants are dropped.
func (s *Store) Load(ctx context.Context) LoadResult {
	log := logger.FromCtx(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	movies, err := s.storage.Read(ctx)
	if err != nil {
		log.Warnw("failed to load catalog, continuing with an empty catalog", zap.Error(err))
		s.movies = []storage.Movie{}
		return LoadResult{Movies: []storage.Movie{}, ReadFailure: err}
	}

	loaded := make([]storage.Movie, 0, len(movies))
	skipped := 0
	for _, m := range movies {
		m.Title = strings.TrimSpace(m.Title)
		if err := s.validateMovie(m); err != nil {
			log.Warnw("skipping invalid movie", zap.String("title", m.Title), zap.Error(err))
			skipped++
			continue
		}

		if indexOf(loaded, m.Title) >= 0 {
			log.Warnw("skipping duplicate movie", zap.String("title", m.Title))
			skipped++
			continue
		}

		loaded = append(loaded, m)
	}

	s.movies = loaded
	log.Debugw("loaded catalog", zap.Int("count", len(loaded)), zap.Int("skipped", skipped))

	return LoadResult{Movies: slices.Clone(loaded), Skipped: skipped}
}

// Save persists movies as the complete catalog and adopts them in memory.
func (s *Store) Save(ctx context.Context, movies []storage.Movie) error {
	next := make([]storage.Movie, 0, len(movies))
	for _, m := range movies {
		m.Title = strings.TrimSpace(m.Title)
		img, _ := m.Image()
		m.SetImage(img)
		if err := s.validateMovie(m); err != nil {
			return err
		}
		if indexOf(next, m.Title) >= 0 {
			return fmt.Errorf("%w: %q", ErrDuplicateTitle, m.Title)
		}
		next = append(next, m)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.persist(ctx, next)
}

// Add validates the request and appends a new movie to the catalog
func (s *Store) Add(ctx context.Context, req AddRequest) (storage.Movie, error) {
	log := logger.FromCtx(ctx)

	m := storage.NewMovie(req.Title, req.Rating, req.ImageURL)
	if err := s.validateMovie(m); err != nil {
		log.Debugw("rejected movie", zap.String("title", m.Title), zap.Error(err))
		return storage.Movie{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if indexOf(s.movies, m.Title) >= 0 {
		return storage.Movie{}, fmt.Errorf("%w: %q", ErrDuplicateTitle, m.Title)
	}

	next := append(slices.Clone(s.movies), m)
	if err := s.persist(ctx, next); err != nil {
		return storage.Movie{}, err
	}

	log.Infow("added movie", zap.String("title", m.Title), zap.Int("rating", m.Rating))
	return m, nil
}

// Remove deletes the movie whose title matches under case folding
func (s *Store) Remove(ctx context.Context, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.movies, title)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, strings.TrimSpace(title))
	}

	removed := s.movies[i]
	next := slices.Delete(slices.Clone(s.movies), i, i+1)
	if err := s.persist(ctx, next); err != nil {
		return err
	}

	logger.FromCtx(ctx).Infow("removed movie", zap.String("title", removed.Title))
	return nil
}

// Clear removes every movie. Clearing an empty catalog does nothing.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.movies) == 0 {
		return nil
	}

	count := len(s.movies)
	if err := s.persist(ctx, []storage.Movie{}); err != nil {
		return err
	}

	logger.FromCtx(ctx).Infow("cleared catalog", zap.Int("removed", count))
	return nil
}

// Movies returns a copy of the catalog in insertion order
func (s *Store) Movies() []storage.Movie {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.movies)
}

// Get returns the movie whose title matches under case folding
func (s *Store) Get(title string) (storage.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.movies, title)
	if i < 0 {
		return storage.Movie{}, fmt.Errorf("%w: %q", ErrNotFound, strings.TrimSpace(title))
	}

	return s.movies[i], nil
}

// persist must be called with mu held
func (s *Store) persist(ctx context.Context, next []storage.Movie) error {
	if err := s.storage.Write(ctx, next); err != nil {
		logger.FromCtx(ctx).Errorw("failed to persist catalog", zap.Error(err))
		if errors.Is(err, storage.ErrWrite) {
			return err
		}
		return fmt.Errorf("%w: %w", storage.ErrWrite, err)
	}

	s.movies = next
	return nil
}

func (s *Store) validateMovie(m storage.Movie) error {
	err := s.validate.Struct(m)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			return fmt.Errorf("%w: missing %s", ErrEmptyField, strings.ToLower(fe.Field()))
		case "gte", "lte":
			return fmt.Errorf("%w: got %d", ErrInvalidRating, m.Rating)
		}
	}

	return err
}

func indexOf(movies []storage.Movie, title string) int {
	key := storage.FoldTitle(title)
	return slices.IndexFunc(movies, func(m storage.Movie) bool {
		return m.Key() == key
	})
}
