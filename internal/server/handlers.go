package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/compgraph/pkg/codec"
	"github.com/matzehuels/compgraph/pkg/component"
	"github.com/matzehuels/compgraph/pkg/editor"
	"github.com/matzehuels/compgraph/pkg/errors"
	"github.com/matzehuels/compgraph/pkg/graph"
	"github.com/matzehuels/compgraph/pkg/pipeline"
)

type graphResponse struct {
	Graph   graph.Document `json:"graph"`
	Token   string         `json:"token"`
	URL     string         `json:"url"`
	Warning string         `json:"warning,omitempty"` // why ?data= was ignored
}

type mutationResponse struct {
	graphResponse
	Changed   bool             `json:"changed"`
	Component *graph.Component `json:"component,omitempty"`
}

type errorBody struct {
	Error struct {
		Code    errors.Code `json:"code"`
		Message string      `json:"message"`
	} `json:"error"`
}

// open restores the editor for the token in ?data=. An unreadable token
// yields the empty graph and a warning.
func (s *Server) open(r *http.Request) (*editor.Editor, string) {
	token := r.URL.Query().Get(codec.Param)
	ed := editor.Open(r.Context(), token,
		editor.WithLogger(s.logger),
		editor.WithBaseURL(s.cfg.BaseURL),
		editor.WithLayoutOptions(s.cfg.Options.LayoutOptions()...),
	)
	if token != "" && ed.Graph().IsEmpty() {
		if _, err := codec.Inspect(token); err != nil {
			return ed, errors.UserMessage(err)
		}
	}
	return ed, ""
}

func (s *Server) snapshot(r *http.Request, ed *editor.Editor, warning string) (graphResponse, error) {
	link, err := ed.ShareURL(r.Context())
	if err != nil {
		return graphResponse{}, err
	}
	return graphResponse{
		Graph:   graph.FromGraph(ed.Graph()),
		Token:   ed.Token(r.Context()),
		URL:     link,
		Warning: warning,
	}, nil
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	ed, warning := s.open(r)
	resp, err := s.snapshot(r, ed, warning)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	ed, _ := s.open(r)
	l, err := s.runner.Layout(r.Context(), ed.Graph(), s.cfg.Options)
	if err != nil {
		s.writeError(w, err)
		return
	}
	data, err := graph.MarshalLayout(l)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	ed, _ := s.open(r)
	opts := s.cfg.Options
	opts.Formats = []string{pipeline.FormatSVG}
	opts.Logger = s.logger
	if v := r.URL.Query().Get("detailed"); v != "" {
		detailed, err := strconv.ParseBool(v)
		if err != nil {
			s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "detailed must be a boolean, got %q", v))
			return
		}
		opts.Detailed = detailed
	}

	l, err := s.runner.Layout(r.Context(), ed.Graph(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	artifacts, err := s.runner.Render(r.Context(), l, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(artifacts[pipeline.FormatSVG])
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	ed, _ := s.open(r)
	body, err := readBody(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	n, err := graph.DecodeNode(body)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := editor.ValidateNew(ed.Graph(), n); err != nil {
		s.writeError(w, err)
		return
	}

	n = ed.Add(r.Context(), n)
	s.writeMutation(w, r, ed, http.StatusCreated, true, n.ID)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ed, _ := s.open(r)
	n, err := find(ed.Graph(), r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	body, err := readBody(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	changes, err := graph.DecodePatch(body)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if err := editor.ValidateUpdate(ed.Graph(), n.ID, changes...); err != nil {
		s.writeError(w, err)
		return
	}

	changed := ed.Update(r.Context(), n.ID, changes...)
	s.writeMutation(w, r, ed, http.StatusOK, changed, n.ID)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	ed, _ := s.open(r)
	n, err := find(ed.Graph(), r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	changed := ed.Delete(r.Context(), n.ID)
	s.writeMutation(w, r, ed, http.StatusOK, changed, "")
}

func (s *Server) handleAddProp(w http.ResponseWriter, r *http.Request) {
	ed, _ := s.open(r)
	n, err := find(ed.Graph(), r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	body, err := readBody(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	p, err := graph.DecodeProp(body)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := errors.ValidateProp(p.Name, p.Type); err != nil {
		s.writeError(w, err)
		return
	}
	changed := ed.AddProp(r.Context(), n.ID, p)
	s.writeMutation(w, r, ed, http.StatusOK, changed, n.ID)
}

func (s *Server) handleRemoveProp(w http.ResponseWriter, r *http.Request) {
	ed, _ := s.open(r)
	n, err := find(ed.Graph(), r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	name, err := pathParam(r, "name")
	if err != nil {
		s.writeError(w, err)
		return
	}
	changed := ed.RemoveProp(r.Context(), n.ID, name)
	s.writeMutation(w, r, ed, http.StatusOK, changed, n.ID)
}

// find returns the component named by the {id} path parameter.
func find(g component.Graph, r *http.Request) (component.Node, error) {
	id, err := pathParam(r, "id")
	if err != nil {
		return component.Node{}, err
	}
	n, ok := component.Find(g, id)
	if !ok {
		return component.Node{}, errors.New(errors.ErrCodeNotFound, "component %q not found", id)
	}
	return n, nil
}

// pathParam returns the decoded path parameter key. chi matches against
// RawPath when the request has one and against the already decoded Path
// otherwise, so only the first case needs unescaping.
func pathParam(r *http.Request, key string) (string, error) {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v, nil
	}
	v, err := url.PathUnescape(v)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "path parameter %s", key)
	}
	return v, nil
}

func readBody(r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body")
	}
	if len(data) > maxBodyBytes {
		return nil, errors.New(errors.ErrCodeInvalidInput, "body exceeds %d bytes", maxBodyBytes)
	}
	return data, nil
}

func (s *Server) writeMutation(w http.ResponseWriter, r *http.Request, ed *editor.Editor, status int, changed bool, id string) {
	snap, err := s.snapshot(r, ed, "")
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp := mutationResponse{graphResponse: snap, Changed: changed}
	if id != "" {
		if n, ok := component.Find(ed.Graph(), id); ok {
			c := graph.FromGraph(component.Graph{Components: []component.Node{n}}).Components[0]
			resp.Component = &c
		}
	}
	s.writeJSON(w, status, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("write response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	var body errorBody
	body.Error.Code = errors.GetCode(err)
	if body.Error.Code == "" {
		body.Error.Code = errors.ErrCodeInternal
	}
	body.Error.Message = errors.UserMessage(err)
	s.writeJSON(w, status, body)
}
