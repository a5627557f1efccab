package server

import (
	"encoding/json"
	"errors"
	"net/http"

	naverrors "github.com/vango-dev/navbridge/internal/errors"
	"github.com/vango-dev/navbridge/pkg/bridge"
	"github.com/vango-dev/navbridge/pkg/resolver"
	"github.com/vango-dev/navbridge/pkg/routes"
)

// treeNode is the JSON form of a compiled node.
type treeNode struct {
	Path     string     `json:"path"`
	Leaf     bool       `json:"leaf"`
	Children []treeNode `json:"children,omitempty"`
}

func toTreeNodes(nodes []*routes.MatchNode) []treeNode {
	out := make([]treeNode, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, treeNode{
			Path:     n.Path,
			Leaf:     n.IsLeaf(),
			Children: toTreeNodes(n.Children),
		})
	}
	return out
}

// errorBody is the JSON form of a NavError.
type errorBody struct {
	Code     string `json:"code"`
	Category string `json:"category,omitempty"`
	Message  string `json:"message"`
	Detail   string `json:"detail,omitempty"`
	Where    string `json:"where,omitempty"`
}

func newErrorBody(e *naverrors.NavError) errorBody {
	return errorBody{
		Code:     e.Code,
		Category: string(e.Category),
		Message:  e.Message,
		Detail:   e.Detail,
		Where:    e.Where,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, toTreeNodes(s.resolver.Tree()))
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("url")
	if raw == "" {
		s.writeError(w, http.StatusBadRequest, naverrors.New("E201").
			WithSuggestion("Pass the navigation URL as ?url=/path"))
		return
	}

	target, err := bridge.ParseTarget(raw)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, naverrors.New("E201").WithWhere(raw).Wrap(err))
		return
	}

	res, err := s.resolver.Resolve(r.Context(), target.Location)
	if err != nil {
		var nf *resolver.NotFoundError
		if errors.As(err, &nf) {
			s.writeError(w, http.StatusNotFound, naverrors.New("E200").WithWhere(nf.Path))
			return
		}
		s.logger.Error("resolve failed", "url", raw, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusOK, bridge.NewPayload(res, target, nil))
}

func (s *Server) writeError(w http.ResponseWriter, status int, e *naverrors.NavError) {
	s.writeJSON(w, status, map[string]errorBody{"error": newErrorBody(e)})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Debug("response write failed", "error", err)
	}
}
