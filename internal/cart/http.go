package cart

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"FlatMart/internal/store"
	"FlatMart/pkg/kit"
)

type Server struct {
	Manager *Manager
	Log     *zap.Logger
}

// Get returns the cart's line items, not the whole cart; the id is already
// in the URL.
func (s *Server) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	c, err := s.Manager.Get(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, c.Products)
}

func (s *Server) Create(w http.ResponseWriter, r *http.Request) {
	c, err := s.Manager.Create()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusCreated, c)
}

func (s *Server) AddProduct(w http.ResponseWriter, r *http.Request) {
	cartID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	productID, ok := pathID(w, r, "productID")
	if !ok {
		return
	}

	c, err := s.Manager.AddProduct(cartID, productID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, c.Products)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, store.ErrNotFound):
		kit.WriteError(w, r, http.StatusNotFound, "not found", nil)
	default:
		if s.Log != nil {
			s.Log.Error("cart request failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
	}
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
