// Package api serves custom prize submissions and the prize gallery over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"snag-frenzy/internal/prize"
	"snag-frenzy/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// MaxBodyBytes caps a submission, image included.
const MaxBodyBytes = 2 << 20

// HandlerDeps wires a Handler.
type HandlerDeps struct {
	Store store.Store
	Base  []prize.Item
	// OnChange runs after a successful add or delete with the new custom pool.
	OnChange func(ctx context.Context, custom []prize.Item)
	Now      func() time.Time
	Logger   zerolog.Logger
}

// Handler implements the endpoints.
type Handler struct {
	store    store.Store
	base     []prize.Item
	onChange func(context.Context, []prize.Item)
	now      func() time.Time
	log      zerolog.Logger
}

func NewHandler(deps HandlerDeps) *Handler {
	h := &Handler{
		store:    deps.Store,
		base:     deps.Base,
		onChange: deps.OnChange,
		now:      deps.Now,
		log:      deps.Logger,
	}
	if h.now == nil {
		h.now = time.Now
	}
	return h
}

// NewRouter mounts h on a chi router with CORS open to any origin.
func NewRouter(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           60 * 15,
	}))

	r.Get("/healthz", h.Health)
	r.Get("/gallery", h.Gallery)
	r.Route("/prizes", func(rr chi.Router) {
		rr.Get("/", h.ListPrizes)
		rr.Post("/", h.AddPrize)
		rr.Delete("/{index}", h.DeletePrize)
	})
	return r
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListPrizes(w http.ResponseWriter, r *http.Request) {
	subs, err := h.store.List(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list submissions")
		writeError(w, http.StatusInternalServerError, "could not list prizes", CodeStore)
		return
	}
	if subs == nil {
		subs = []store.Submission{}
	}
	writeJSON(w, http.StatusOK, subs)
}

func (h *Handler) AddPrize(w http.ResponseWriter, r *http.Request) {
	var sub store.Submission
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err := dec.Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error(), CodeBadRequest)
		return
	}
	if err := sub.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), CodeInvalid)
		return
	}
	saved, err := h.store.Add(r.Context(), sub.Prepare(h.now()))
	if err != nil {
		h.log.Error().Err(err).Msg("add submission")
		writeError(w, http.StatusInternalServerError, "could not save prize", CodeStore)
		return
	}
	h.log.Info().
		Str("id", saved.ID).
		Str("plush", saved.PlushName).
		Str("rarity", saved.PlushRarity).
		Str("submitter", saved.SubmitterName).
		Msg("prize submitted")
	h.changed(r.Context())
	writeJSON(w, http.StatusCreated, saved)
}

func (h *Handler) DeletePrize(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "index must be an integer", CodeBadRequest)
		return
	}
	if err := h.store.DeleteAt(r.Context(), index); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error(), CodeNotFound)
			return
		}
		h.log.Error().Err(err).Int("index", index).Msg("delete submission")
		writeError(w, http.StatusInternalServerError, "could not delete prize", CodeStore)
		return
	}
	h.log.Info().Int("index", index).Msg("prize deleted")
	h.changed(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// changed pushes the current custom pool to OnChange.
func (h *Handler) changed(ctx context.Context) {
	if h.onChange == nil {
		return
	}
	h.onChange(ctx, store.LoadItems(ctx, h.store, h.log))
}

// GalleryEntry is one prize as shown in the gallery.
type GalleryEntry struct {
	Name        string `json:"name"`
	Image       string `json:"image"`
	Rarity      string `json:"rarity"`
	RarityLabel string `json:"rarityLabel"`
	IsCustom    bool   `json:"isCustom"`
	Creator     string `json:"creator,omitempty"`
	CreatorTag  string `json:"creatorTag,omitempty"`
}

// Gallery lists base prizes followed by custom ones.
func (h *Handler) Gallery(w http.ResponseWriter, r *http.Request) {
	custom := store.LoadItems(r.Context(), h.store, h.log)
	catalog := prize.NewCatalog(h.base, custom)
	out := make([]GalleryEntry, 0, len(h.base)+len(custom))
	for _, it := range catalog.All() {
		out = append(out, NewGalleryEntry(it))
	}
	writeJSON(w, http.StatusOK, out)
}

// NewGalleryEntry describes it for the gallery.
func NewGalleryEntry(it prize.Item) GalleryEntry {
	e := GalleryEntry{
		Name:        it.Name,
		Image:       it.ImageRef,
		Rarity:      it.Rarity.String(),
		RarityLabel: it.Rarity.Label(),
		IsCustom:    it.IsCustom,
	}
	if it.IsCustom {
		e.Creator = it.Creator
	}
	e.CreatorTag, _ = it.CreatorTag()
	return e
}
