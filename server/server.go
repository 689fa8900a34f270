package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"time"

	"github.com/kasuboski/ratez/pkg/catalog"
	"github.com/kasuboski/ratez/pkg/logger"
	"github.com/kasuboski/ratez/pkg/poster"
	"github.com/kasuboski/ratez/pkg/stats"
	"github.com/oapi-codegen/nullable"
	"go.uber.org/zap"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

type GenericResponse struct {
	Error    string `json:"error,omitempty"`
	Response any    `json:"response"`
}

// Server exposes the catalog over http
type Server struct {
	baseLogger *zap.SugaredLogger
	catalog    *catalog.Store
	posters    *poster.Resolver
}

// New creates a new catalog server. posters may be nil to disable image resolution.
func New(logger *zap.SugaredLogger, catalog *catalog.Store, posters *poster.Resolver) Server {
	return Server{
		baseLogger: logger,
		catalog:    catalog,
		posters:    posters,
	}
}

type createMovieRequest struct {
	Title    string                    `json:"title"`
	Rating   int                       `json:"rating"`
	ImageURL nullable.Nullable[string] `json:"image_url,omitempty"`
}

func writeErrorResponse(w http.ResponseWriter, status int, err error) error {
	return writeResponse(w, status, GenericResponse{
		Error: err.Error(),
	})
}

func writeResponse(w http.ResponseWriter, status int, body any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}

	w.Header().Set("content-type", "application/json")
	if status != http.StatusOK {
		w.WriteHeader(status)
	}

	_, err = w.Write(b)
	return err
}

// statusFor maps catalog errors to http status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, catalog.ErrEmptyField), errors.Is(err, catalog.ErrInvalidRating):
		return http.StatusBadRequest
	case errors.Is(err, catalog.ErrDuplicateTitle):
		return http.StatusConflict
	case errors.Is(err, catalog.ErrNotFound), errors.Is(err, poster.ErrNoImage):
		return http.StatusNotFound
	case errors.Is(err, poster.ErrUnavailable), errors.Is(err, poster.ErrNotImage), errors.Is(err, poster.ErrUnsupportedScheme):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Handler builds the router
func (s Server) Handler() http.Handler {
	// titles may contain an escaped "/"
	rtr := mux.NewRouter().UseEncodedPath()
	rtr.NotFoundHandler = s.NotFound()
	rtr.Use(s.LogMiddleware())
	rtr.HandleFunc("/healthz", s.Healthz()).Methods(http.MethodGet)

	api := rtr.PathPrefix("/api").Subrouter()

	v1 := api.PathPrefix("/v1").Subrouter()

	v1.HandleFunc("/movies", s.ListMovies()).Methods(http.MethodGet)
	v1.HandleFunc("/movies", s.CreateMovie()).Methods(http.MethodPost)
	v1.HandleFunc("/movies", s.ClearMovies()).Methods(http.MethodDelete)
	v1.HandleFunc("/movies/top", s.TopRated()).Methods(http.MethodGet)
	v1.HandleFunc("/movies/{title}", s.DeleteMovie()).Methods(http.MethodDelete)
	v1.HandleFunc("/movies/{title}/poster", s.GetPoster()).Methods(http.MethodGet)

	v1.HandleFunc("/stats", s.Stats()).Methods(http.MethodGet)

	return handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodDelete}),
	)(rtr)
}

// Serve starts the http server and is a blocking call
func (s Server) Serve(port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		s.baseLogger.Infow("serving...", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.baseLogger.Error(err.Error())
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
	defer cancel()

	return srv.Shutdown(ctx)
}

// Healthz is an endpoint that can be used for probes
func (s Server) Healthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := GenericResponse{
			Response: "ok",
		}
		writeResponse(w, http.StatusOK, response)
	}
}

// NotFound answers unknown routes with the json envelope
func (s Server) NotFound() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeErrorResponse(w, http.StatusNotFound, fmt.Errorf("no route for %s %s", r.Method, r.URL.Path))
	}
}

// titleVar returns the unescaped {title} route variable
func titleVar(r *http.Request) (string, error) {
	title, err := url.PathUnescape(mux.Vars(r)["title"])
	if err != nil {
		return "", fmt.Errorf("invalid title: %w", err)
	}
	return title, nil
}

// ListMovies lists the catalog in display order
func (s Server) ListMovies() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromCtx(r.Context())

		err := writeResponse(w, http.StatusOK, GenericResponse{Response: stats.Sorted(s.catalog.Movies())})
		if err != nil {
			log.Errorw("failed to write response", zap.Error(err))
		}
	}
}

// CreateMovie adds a movie to the catalog
func (s Server) CreateMovie() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromCtx(r.Context())

		var body createMovieRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			log.Debugw("invalid create movie body", zap.Error(err))
			writeErrorResponse(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
			return
		}

		req := catalog.AddRequest{Title: body.Title, Rating: body.Rating}
		if img, err := body.ImageURL.Get(); err == nil {
			req.ImageURL = img
		}

		movie, err := s.catalog.Add(r.Context(), req)
		if err != nil {
			status := statusFor(err)
			if status == http.StatusInternalServerError {
				log.Errorw("failed to add movie", zap.Error(err))
			}
			writeErrorResponse(w, status, err)
			return
		}

		if err := writeResponse(w, http.StatusCreated, GenericResponse{Response: movie}); err != nil {
			log.Errorw("failed to write response", zap.Error(err))
		}
	}
}

// DeleteMovie removes a single movie by title
func (s Server) DeleteMovie() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromCtx(r.Context())
		title, err := titleVar(r)
		if err != nil {
			writeErrorResponse(w, http.StatusBadRequest, err)
			return
		}

		if err := s.catalog.Remove(r.Context(), title); err != nil {
			status := statusFor(err)
			if status == http.StatusInternalServerError {
				log.Errorw("failed to remove movie", zap.String("title", title), zap.Error(err))
			}
			writeErrorResponse(w, status, err)
			return
		}

		writeResponse(w, http.StatusOK, GenericResponse{})
	}
}

// ClearMovies removes every movie
func (s Server) ClearMovies() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromCtx(r.Context())

		if err := s.catalog.Clear(r.Context()); err != nil {
			log.Errorw("failed to clear catalog", zap.Error(err))
			writeErrorResponse(w, statusFor(err), err)
			return
		}

		writeResponse(w, http.StatusOK, GenericResponse{})
	}
}

// TopRated lists every movie tied at the highest rating
func (s Server) TopRated() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeResponse(w, http.StatusOK, GenericResponse{Response: stats.TopRated(s.catalog.Movies())})
	}
}

// Stats returns the catalog summary
func (s Server) Stats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeResponse(w, http.StatusOK, GenericResponse{Response: stats.Summarize(s.catalog.Movies())})
	}
}

// GetPoster resolves the image of a movie. Failures here never affect the catalog.
func (s Server) GetPoster() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromCtx(r.Context())

		if s.posters == nil {
			writeErrorResponse(w, http.StatusNotImplemented, errors.New("poster resolution is disabled"))
			return
		}

		title, err := titleVar(r)
		if err != nil {
			writeErrorResponse(w, http.StatusBadRequest, err)
			return
		}

		movie, err := s.catalog.Get(title)
		if err != nil {
			writeErrorResponse(w, statusFor(err), err)
			return
		}

		p, err := s.posters.Resolve(r.Context(), movie)
		if err != nil {
			log.Debugw("failed to resolve poster", zap.String("title", movie.Title), zap.Error(err))
			writeErrorResponse(w, statusFor(err), err)
			return
		}

		writeResponse(w, http.StatusOK, GenericResponse{Response: p})
	}
}
