package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/bahayahay/realty/internal/listing"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type seriesDetail struct {
	listing.Series
	Units []listing.Unit `json:"units"`
}

func (h *handler) handleListSeries(w http.ResponseWriter, r *http.Request) {
	series, err := h.store.ListSeries(r.Context())
	h.respondStoreResult(w, series, err, "series", "server.handleListSeries")
}

func (h *handler) handleGetSeries(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleGetSeries"
	ctx := r.Context()

	series, err := h.store.GetSeries(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.respondStoreResult(w, nil, err, "series", op)
		return
	}
	units, err := h.store.ListUnitsBySeries(ctx, series.ID)
	h.respondStoreResult(w, seriesDetail{Series: series, Units: units}, err, "series", op)
}

func (h *handler) handleListUnits(w http.ResponseWriter, r *http.Request) {
	units, err := h.store.ListUnits(r.Context())
	h.respondStoreResult(w, units, err, "unit", "server.handleListUnits")
}

func (h *handler) handleGetUnit(w http.ResponseWriter, r *http.Request) {
	unit, err := h.store.GetUnit(r.Context(), chi.URLParam(r, "id"))
	h.respondStoreResult(w, unit, err, "unit", "server.handleGetUnit")
}

func (h *handler) handleListLotOnly(w http.ResponseWriter, r *http.Request) {
	lots, err := h.store.ListLotOnly(r.Context())
	h.respondStoreResult(w, lots, err, "lot", "server.handleListLotOnly")
}

func (h *handler) handleGetLotOnly(w http.ResponseWriter, r *http.Request) {
	lot, err := h.store.GetLotOnly(r.Context(), chi.URLParam(r, "id"))
	h.respondStoreResult(w, lot, err, "lot", "server.handleGetLotOnly")
}

func (h *handler) handleGetAgent(w http.ResponseWriter, r *http.Request) {
	agent, err := h.store.GetAgent(r.Context(), chi.URLParam(r, "id"))
	h.respondStoreResult(w, agent, err, "agent", "server.handleGetAgent")
}

func (h *handler) handleListDevelopers(w http.ResponseWriter, r *http.Request) {
	developers, err := h.store.ListDevelopers(r.Context())
	h.respondStoreResult(w, developers, err, "developer", "server.handleListDevelopers")
}

func (h *handler) handleListDeveloperProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.store.ListDeveloperProjects(r.Context(), r.URL.Query().Get("developer"))
	h.respondStoreResult(w, projects, err, "project", "server.handleListDeveloperProjects")
}

// respondStoreResult writes payload, or maps err to 404 for a missing record
// and 500 for anything else.
func (h *handler) respondStoreResult(w http.ResponseWriter, payload interface{}, err error, kind, op string) {
	switch {
	case err == nil:
		h.writeJSON(w, http.StatusOK, payload)
	case errors.Is(err, listing.ErrNotFound):
		h.respondErrorWithOp(w, http.StatusNotFound, kind+" not found", op)
	default:
		h.logger.Error("listing store failed", zap.String("op", op), zap.Error(err))
		h.respondErrorWithOp(w, http.StatusInternalServerError, "failed to load "+kind, op)
	}
}

// resource adapts one record kind of the store to the admin CRUD routes.
type resource[T any] struct {
	kind     string
	list     func(ctx context.Context) ([]T, error)
	get      func(ctx context.Context, id string) (T, error)
	save     func(ctx context.Context, v T) (T, error)
	remove   func(ctx context.Context, id string) error
	setID    func(v *T, id string)
	validate func(v T) error
}

func mountCRUD[T any](r chi.Router, h *handler, path string, res resource[T]) {
	op := "server.admin" + path
	r.Route(path, func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			records, err := res.list(req.Context())
			h.respondStoreResult(w, records, err, res.kind, op)
		})

		r.Post("/", func(w http.ResponseWriter, req *http.Request) {
			var record T
			if !h.decodeJSON(w, req, &record, op) {
				return
			}
			if err := res.validate(record); err != nil {
				h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
				return
			}
			saved, err := res.save(req.Context(), record)
			if err != nil {
				h.respondStoreResult(w, nil, err, res.kind, op)
				return
			}
			h.logger.Info("record created", zap.String("op", op), zap.String("kind", res.kind))
			h.writeJSON(w, http.StatusCreated, saved)
		})

		r.Put("/{id}", func(w http.ResponseWriter, req *http.Request) {
			id := chi.URLParam(req, "id")
			if _, err := res.get(req.Context(), id); err != nil {
				h.respondStoreResult(w, nil, err, res.kind, op)
				return
			}
			var record T
			if !h.decodeJSON(w, req, &record, op) {
				return
			}
			res.setID(&record, id)
			if err := res.validate(record); err != nil {
				h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
				return
			}
			saved, err := res.save(req.Context(), record)
			if err != nil {
				h.respondStoreResult(w, nil, err, res.kind, op)
				return
			}
			h.logger.Info("record updated", zap.String("op", op), zap.String("kind", res.kind), zap.String("id", id))
			h.writeJSON(w, http.StatusOK, saved)
		})

		r.Delete("/{id}", func(w http.ResponseWriter, req *http.Request) {
			id := chi.URLParam(req, "id")
			if err := res.remove(req.Context(), id); err != nil {
				h.respondStoreResult(w, nil, err, res.kind, op)
				return
			}
			h.logger.Info("record deleted", zap.String("op", op), zap.String("kind", res.kind), zap.String("id", id))
			h.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
		})
	})
}

func seriesResource(store listing.Store) resource[listing.Series] {
	return resource[listing.Series]{
		kind:   "series",
		list:   store.ListSeries,
		get:    store.GetSeries,
		save:   store.SaveSeries,
		remove: store.DeleteSeries,
		setID:  func(s *listing.Series, id string) { s.ID = id },
		validate: func(s listing.Series) error {
			if strings.TrimSpace(s.Name) == "" {
				return errors.New("series name is required")
			}
			if s.PropertyOption != "" && !s.PropertyOption.Valid() {
				return errors.New("unknown property option " + s.PropertyOption.String())
			}
			return nil
		},
	}
}

func unitResource(store listing.Store) resource[listing.Unit] {
	return resource[listing.Unit]{
		kind:   "unit",
		list:   store.ListUnits,
		get:    store.GetUnit,
		save:   store.SaveUnit,
		remove: store.DeleteUnit,
		setID:  func(u *listing.Unit, id string) { u.ID = id },
		validate: func(u listing.Unit) error {
			if strings.TrimSpace(u.Name) == "" {
				return errors.New("unit name is required")
			}
			if !u.Price.IsPositive() {
				return errors.New("unit price must be positive")
			}
			if u.PropertyOption != "" && !u.PropertyOption.Valid() {
				return errors.New("unknown property option " + u.PropertyOption.String())
			}
			return nil
		},
	}
}

func lotOnlyResource(store listing.Store) resource[listing.LotOnly] {
	return resource[listing.LotOnly]{
		kind:   "lot",
		list:   store.ListLotOnly,
		get:    store.GetLotOnly,
		save:   store.SaveLotOnly,
		remove: store.DeleteLotOnly,
		setID:  func(l *listing.LotOnly, id string) { l.ID = id },
		validate: func(l listing.LotOnly) error {
			if strings.TrimSpace(l.Name) == "" {
				return errors.New("lot name is required")
			}
			if !l.Price.IsPositive() {
				return errors.New("lot price must be positive")
			}
			if !l.PropertyOption.Valid() || !l.PropertyOption.IsLotOnly() {
				return errors.New("lot property option must be a lot-only option")
			}
			return nil
		},
	}
}

func agentResource(store listing.Store) resource[listing.Agent] {
	return resource[listing.Agent]{
		kind:   "agent",
		list:   store.ListAgents,
		get:    store.GetAgent,
		save:   store.SaveAgent,
		remove: store.DeleteAgent,
		setID:  func(a *listing.Agent, id string) { a.ID = id },
		validate: func(a listing.Agent) error {
			if strings.TrimSpace(a.Name) == "" {
				return errors.New("agent name is required")
			}
			return nil
		},
	}
}
