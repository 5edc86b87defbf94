package dashboard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/ademuri/bandstats/internal/charts"
	"github.com/ademuri/bandstats/internal/table"
)

type pageData struct {
	Genres        []string
	MinPopularity int
	MaxPopularity int
	Charts        []charts.Entry
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	snapshot := s.Snapshot()
	lo, hi := snapshot.PopularityRange()
	data := pageData{
		Genres:        snapshot.Genres(),
		MinPopularity: lo,
		MaxPopularity: hi,
		Charts:        charts.Registry,
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		s.log.Error("rendering page", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	entry, ok := charts.Lookup(id)
	if !ok {
		http.Error(w, fmt.Sprintf("unknown chart %q", id), http.StatusNotFound)
		return
	}
	sel, err := parseSelection(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.writeJSON(w, entry.Chart(s.Snapshot(), sel))
}

type meta struct {
	Genres        []string `json:"genres"`
	MinPopularity int      `json:"min_popularity"`
	MaxPopularity int      `json:"max_popularity"`
	Rows          int      `json:"rows"`
	Charts        []string `json:"charts"`
}

func (s *Server) handleMeta(w http.ResponseWriter, r *http.Request) {
	snapshot := s.Snapshot()
	lo, hi := snapshot.PopularityRange()
	m := meta{
		Genres:        snapshot.Genres(),
		MinPopularity: lo,
		MaxPopularity: hi,
		Rows:          len(snapshot.Rows),
		Charts:        []string{},
	}
	if m.Genres == nil {
		m.Genres = []string{}
	}
	for _, e := range charts.Registry {
		m.Charts = append(m.Charts, e.ID)
	}
	s.writeJSON(w, m)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok\n"))
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		s.log.Error("encoding response", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(b)
}

// parseSelection reads repeated genre parameters and optional min and max
// popularity bounds.
func parseSelection(q url.Values) (table.Selection, error) {
	var sel table.Selection
	for _, g := range q["genre"] {
		if g != "" {
			sel.Genres = append(sel.Genres, g)
		}
	}

	var err error
	if sel.MinPopularity, err = parseBound(q, "min"); err != nil {
		return sel, err
	}
	if sel.MaxPopularity, err = parseBound(q, "max"); err != nil {
		return sel, err
	}
	return sel, nil
}

func parseBound(q url.Values, name string) (*int, error) {
	v := q.Get(name)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("invalid %s popularity %q", name, v)
	}
	return &n, nil
}
