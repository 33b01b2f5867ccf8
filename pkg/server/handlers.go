package server

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	errs "github.com/matzehuels/hasse/pkg/errors"
	pkgio "github.com/matzehuels/hasse/pkg/io"
	"github.com/matzehuels/hasse/pkg/lattice"
	"github.com/matzehuels/hasse/pkg/render/nodelink"
	"github.com/matzehuels/hasse/pkg/store"
)

type errorResponse struct {
	Error string    `json:"error"`
	Code  errs.Code `json:"code,omitempty"`
}

type recordResponse struct {
	store.Record
	CacheHit bool `json:"cache_hit,omitempty"`
}

type nodesResponse struct {
	From  int            `json:"from"`
	To    int            `json:"to"`
	Nodes []int          `json:"nodes"`
	Faces []lattice.Face `json:"faces"`
}

type deleteNodeResponse struct {
	store.Record
	// Renumbered maps every old node id to its new id, -1 for the deleted node.
	Renumbered []int `json:"renumbered"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	in, err := pkgio.ReadInput(r.Body, inputFormat(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if in.Name == "" {
		in.Name = "untitled"
	}

	res, err := s.runner.Build(r.Context(), in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	rec, err := s.store.Save(r.Context(), recordOf(res.Lattice, res.Data, in.Name, res.InputHash))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, recordResponse{Record: rec, CacheHit: res.CacheHit})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, errs.New(errs.ErrCodeInvalidInput, "bad limit %q", v))
			return
		}
		limit = n
	}
	recs, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if recs == nil {
		recs = []store.Record{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	rec, err := s.load(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(rec.Data)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	rank, err := intParam(r, "rank")
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeRanks(w, r, rank, rank)
}

func (s *Server) handleRankRange(w http.ResponseWriter, r *http.Request) {
	from, err := intParam(r, "from")
	if err != nil {
		s.writeError(w, err)
		return
	}
	to, err := intParam(r, "to")
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeRanks(w, r, from, to)
}

func (s *Server) writeRanks(w http.ResponseWriter, r *http.Request, from, to int) {
	l, _, err := s.lattice(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	ids := l.NodesOfRankRange(from, to)
	if ids == nil {
		ids = []int{}
	}
	faces := make([]lattice.Face, len(ids))
	for i, id := range ids {
		faces[i] = l.Face(id)
	}
	writeJSON(w, http.StatusOK, nodesResponse{From: min(from, to), To: max(from, to), Nodes: ids, Faces: faces})
}

func (s *Server) handleVertex(w http.ResponseWriter, r *http.Request) {
	v, err := intParam(r, "v")
	if err != nil {
		s.writeError(w, err)
		return
	}
	l, _, err := s.lattice(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	node, err := l.FindVertexNode(v)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"vertex": v, "node": node})
}

func (s *Server) handleDualFaces(w http.ResponseWriter, r *http.Request) {
	l, _, err := s.lattice(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	faces, err := l.DualFaces()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]lattice.Face{"dual_faces": faces})
}

func (s *Server) handleDeleteNode(w http.ResponseWriter, r *http.Request) {
	node, err := intParam(r, "node")
	if err != nil {
		s.writeError(w, err)
		return
	}
	l, rec, err := s.lattice(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := l.DeleteNode(node); err != nil {
		s.writeError(w, err)
		return
	}
	mapping := l.Squeeze()
	data, err := pkgio.Marshal(l)
	if err != nil {
		s.writeError(w, err)
		return
	}

	updated := recordOf(l, data, rec.Name, rec.InputHash)
	updated.ID, updated.CreatedAt = rec.ID, rec.CreatedAt
	saved, err := s.store.Update(r.Context(), updated, rec.UpdatedAt)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deleteNodeResponse{Record: saved, Renumbered: mapping})
}

func (s *Server) handleDOT(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, nodelink.FormatDOT)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format, err := nodelink.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		s.writeError(w, errs.Wrap(errs.ErrCodeInvalidInput, err, "render"))
		return
	}
	s.render(w, r, format)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, format nodelink.Format) {
	l, _, err := s.lattice(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	q := r.URL.Query()
	opts := nodelink.Options{Faces: q.Get("faces") != "false", Ranks: q.Get("ranks") == "true"}
	out, _, err := s.runner.Render(r.Context(), l, format, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentType(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

func (s *Server) load(r *http.Request) (store.Record, error) {
	id, err := parseID(r)
	if err != nil {
		return store.Record{}, err
	}
	return s.store.Load(r.Context(), id)
}

func (s *Server) lattice(r *http.Request) (*lattice.Lattice, store.Record, error) {
	rec, err := s.load(r)
	if err != nil {
		return nil, rec, err
	}
	l, err := pkgio.Unmarshal(rec.Data)
	if err != nil {
		return nil, rec, fmt.Errorf("stored lattice %s: %w", rec.ID, err)
	}
	return l, rec, nil
}

func recordOf(l *lattice.Lattice, data []byte, name, hash string) store.Record {
	return store.Record{
		Name:      name,
		InputHash: hash,
		NodeCount: l.NodeCount(),
		EdgeCount: l.EdgeCount(),
		Ranks:     l.Rank(),
		Dual:      l.BuiltDually(),
		Data:      data,
	}
}

func parseID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errs.New(errs.ErrCodeInvalidInput, "bad lattice id %q", raw)
	}
	return id, nil
}

func intParam(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.New(errs.ErrCodeInvalidInput, "bad %s %q", name, raw)
	}
	return v, nil
}

func inputFormat(r *http.Request) pkgio.Format {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mt {
	case "application/yaml", "application/x-yaml", "text/yaml":
		return pkgio.FormatYAML
	case "application/toml":
		return pkgio.FormatTOML
	default:
		return pkgio.FormatJSON
	}
}

func contentType(f nodelink.Format) string {
	switch f {
	case nodelink.FormatPNG:
		return "image/png"
	case nodelink.FormatSVG:
		return "image/svg+xml"
	default:
		return "text/vnd.graphviz; charset=utf-8"
	}
}

// statusFor maps error codes to HTTP status codes.
func statusFor(err error) int {
	switch errs.GetCode(err) {
	case errs.ErrCodeNotFound, errs.ErrCodeLookupMiss:
		return http.StatusNotFound
	case errs.ErrCodeInvalidInput, errs.ErrCodeInvalidFormat, errs.ErrCodeDimensionMismatch, errs.ErrCodeWrongType:
		return http.StatusBadRequest
	case errs.ErrCodeUnsupported:
		return http.StatusUnprocessableEntity
	case errs.ErrCodeInvariantViolation, errs.ErrCodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorResponse{Error: errs.UserMessage(err), Code: errs.GetCode(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
