package catalog

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"FlatMart/internal/authn"
	"FlatMart/internal/store"
	"FlatMart/pkg/kit"
)

const maxBodyBytes = 1 << 20

// Server maps the product routes onto the manager. Mutating handlers expect
// an actor already resolved into the request context.
type Server struct {
	Manager *Manager
	Log     *zap.Logger
}

// BaseRoute is what prevLink/nextLink are built from.
const BaseRoute = "/products"

type listResponse struct {
	Status string `json:"status"`
	Page
	PrevLink *string `json:"prevLink"`
	NextLink *string `json:"nextLink"`
}

func (s *Server) List(w http.ResponseWriter, r *http.Request) {
	page, err := s.Manager.List(parseQuery(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := listResponse{Status: "success", Page: page}
	if page.PrevPage != nil {
		link := fmt.Sprintf("%s?page=%d", BaseRoute, *page.PrevPage)
		resp.PrevLink = &link
	}
	if page.NextPage != nil {
		link := fmt.Sprintf("%s?page=%d", BaseRoute, *page.NextPage)
		resp.NextLink = &link
	}

	kit.WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	p, err := s.Manager.Get(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := authn.ActorFromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "no actor", nil)
		return
	}

	body, err := readBody(w, r)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad body", nil)
		return
	}

	in, err := ParseInput(body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	p, err := s.Manager.Create(in, actor)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusCreated, p)
}

func (s *Server) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := authn.ActorFromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "no actor", nil)
		return
	}

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	body, err := readBody(w, r)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad body", nil)
		return
	}

	patch, err := ParsePatch(body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	p, err := s.Manager.Update(id, patch, actor)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := authn.ActorFromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "no actor", nil)
		return
	}

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := s.Manager.Delete(id, actor); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *ValidationError

	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, store.ErrNotFound):
		kit.WriteError(w, r, http.StatusNotFound, "not found", nil)
	case errors.As(err, &verr):
		kit.WriteError(w, r, http.StatusBadRequest, "validation failed",
			map[string]any{"field": verr.Field, "reason": verr.Reason})
	case errors.Is(err, authn.ErrForbidden):
		kit.WriteError(w, r, http.StatusForbidden, "forbidden", nil)
	default:
		if s.Log != nil {
			s.Log.Error("catalog request failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
	}
}

// parseQuery is forgiving the way the route always was: unparsable numbers
// fall back to defaults instead of failing the request.
func parseQuery(r *http.Request) QueryParams {
	q := r.URL.Query()

	params := QueryParams{
		Search: q.Get("search"),
		Sort:   q.Get("sort"),
	}
	if v, err := strconv.ParseFloat(q.Get("min"), 64); err == nil {
		params.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(q.Get("max"), 64); err == nil {
		params.MaxPrice = &v
	}
	if v, err := strconv.Atoi(q.Get("page")); err == nil {
		params.Page = v
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil {
		params.Limit = v
	}
	return params
}

func pathID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "invalid id",
			map[string]any{"id": chi.URLParam(r, param)})
		return 0, false
	}
	return id, true
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer func() { _ = r.Body.Close() }()
	return io.ReadAll(r.Body)
}
