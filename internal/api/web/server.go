// Package web serves the HTML listing page and the play form endpoint.
package web

import (
	"context"
	"html/template"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/podbox/internal/app/catalog"
	"github.com/osa030/podbox/internal/app/player"
	"github.com/osa030/podbox/internal/app/session"
	"github.com/osa030/podbox/internal/domain/episode"
	"github.com/osa030/podbox/internal/domain/listing"
	"github.com/osa030/podbox/internal/infra/episodeapi"
)

// Backend is the part of the session used by the page.
type Backend interface {
	ListEpisodes(query string) (*session.EpisodeList, error)
	PlayEpisode(section listing.Section, index int) (player.View, error)
	PlayEpisodeByID(ctx context.Context, id string) (player.View, error)
	GetEpisode(ctx context.Context, id string) (episode.Episode, error)
	GetView() player.View
	TogglePlay() (player.View, error)
	Next() (player.View, error)
	Previous() (player.View, error)
	ToggleShuffle() (player.View, error)
	ToggleLoop() (player.View, error)
	Clear() (player.View, error)
}

type server struct {
	backend    Backend
	tpl        *template.Template
	episodeTpl *template.Template
}

type row struct {
	Section listing.Section
	Index   int
	Episode episode.Episode
}

type pageData struct {
	Query   string
	Latest  []row
	All     []row
	Matches []row
	Status  string
	Error   string
	Player  player.View
}

// NewServer creates the HTTP handler for the listing page.
func NewServer(backend Backend) http.Handler {
	s := &server{
		backend:    backend,
		tpl:        template.Must(template.New("page").Parse(pageTpl)),
		episodeTpl: template.Must(template.New("episode").Parse(episodeTpl)),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleListing)
	mux.HandleFunc("GET /episodes/{id}", s.handleEpisode)
	mux.HandleFunc("/play", s.handlePlay)
	mux.HandleFunc("/control", s.handleControl)
	mux.Handle("/health", HealthHandler())
	return mux
}

// HealthHandler returns a simple health check endpoint.
func HealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "ok")
	})
}

func (s *server) handleListing(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	data := pageData{
		Query:  strings.TrimSpace(r.URL.Query().Get("q")),
		Player: s.backend.GetView(),
	}

	code := http.StatusOK
	list, err := s.backend.ListEpisodes(data.Query)
	if err != nil {
		zlog.Warn().Err(err).Msg("web: listing unavailable")
		data.Status = catalog.StatusFailed.String()
		data.Error = "Episodes are not available right now."
		if errors.Is(err, catalog.ErrNotReady) {
			code = http.StatusServiceUnavailable
		}
	} else {
		data.Status = list.Catalog.Status.String()
		if list.Catalog.Err != nil {
			data.Error = "Could not refresh episodes; showing the last loaded list."
		}
		data.Latest = rows(listing.SectionLatest, list.Listing.Latest)
		data.All = rows(listing.SectionAll, list.Listing.All)
		for _, m := range list.Matches {
			section, index := listing.SectionLatest, m.Index
			if m.Index >= len(list.Listing.Latest) {
				section, index = listing.SectionAll, m.Index-len(list.Listing.Latest)
			}
			data.Matches = append(data.Matches, row{Section: section, Index: index, Episode: m.Episode})
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	if err := s.tpl.Execute(w, data); err != nil {
		zlog.Error().Err(err).Msg("web: failed to render page")
	}
}

func (s *server) handlePlay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if id := r.FormValue("id"); id != "" {
		if _, err := s.backend.PlayEpisodeByID(r.Context(), id); err != nil {
			httpError(w, statusFor(err), err.Error())
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	section, err := listing.ParseSection(r.FormValue("section"))
	if err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}
	index, err := strconv.Atoi(r.FormValue("index"))
	if err != nil {
		httpError(w, http.StatusBadRequest, "invalid index")
		return
	}

	if _, err := s.backend.PlayEpisode(section, index); err != nil {
		httpError(w, statusFor(err), err.Error())
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *server) handleEpisode(w http.ResponseWriter, r *http.Request) {
	ep, err := s.backend.GetEpisode(r.Context(), r.PathValue("id"))
	if err != nil {
		httpError(w, statusFor(err), err.Error())
		return
	}

	data := struct {
		Episode episode.Episode
		Player  player.View
	}{Episode: ep, Player: s.backend.GetView()}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.episodeTpl.Execute(w, data); err != nil {
		zlog.Error().Err(err).Msg("web: failed to render episode")
	}
}

func (s *server) handleControl(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	controls := map[string]func() (player.View, error){
		"toggle":  s.backend.TogglePlay,
		"next":    s.backend.Next,
		"prev":    s.backend.Previous,
		"shuffle": s.backend.ToggleShuffle,
		"loop":    s.backend.ToggleLoop,
		"clear":   s.backend.Clear,
	}
	action := r.FormValue("action")
	fn, ok := controls[action]
	if !ok {
		httpError(w, http.StatusBadRequest, "unknown action: "+action)
		return
	}
	if _, err := fn(); err != nil {
		httpError(w, statusFor(err), err.Error())
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func rows(section listing.Section, eps []episode.Episode) []row {
	out := make([]row, len(eps))
	for i, ep := range eps {
		out[i] = row{Section: section, Index: i, Episode: ep}
	}
	return out
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, listing.ErrIndexOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrEpisodeNotFound), errors.Is(err, episodeapi.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, player.ErrControlDisabled), errors.Is(err, player.ErrNoEpisode):
		return http.StatusConflict
	case errors.Is(err, catalog.ErrNotReady), errors.Is(err, session.ErrSessionClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func httpError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(msg))
}
