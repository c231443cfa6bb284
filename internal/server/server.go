// Package server exposes splitting over HTTP.
//
// Uploaded songs are kept in memory. Split options travel in the query string
// of every request, so each cell download re-derives the grid from scratch.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/divVerent/midisplit/internal/file"
	"github.com/divVerent/midisplit/internal/splitter"
	"github.com/divVerent/midisplit/internal/version"
)

// MaxUploadSize limits the size of uploaded MIDI files.
const MaxUploadSize = 16 << 20

type Server struct {
	songs *store
}

// New returns the HTTP handler. Browsers from allowedOrigins may call it.
func New(allowedOrigins []string) http.Handler {
	s := &Server{
		songs: newStore(),
	}
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/songs", s.handleUpload).Methods("POST")
	router.HandleFunc("/songs/{id}", s.handleDelete).Methods("DELETE")
	router.HandleFunc("/songs/{id}/grid", s.handleGrid).Methods("GET")
	router.HandleFunc("/songs/{id}/cells/{group}/{segment:[0-9]+}", s.handleCell).Methods("GET")
	router.Use(versionHeader)
	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		ExposedHeaders: []string{"Content-Disposition"},
	}).Handler(router)
}

func versionHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(version.HeaderName, version.Version())
		next.ServeHTTP(w, r)
	})
}

type errorResponse struct {
	Error string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		log.Printf("could not write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, splitter.ErrNoSuchCell), errors.Is(err, splitter.ErrMissingInput):
		status = http.StatusNotFound
	case errors.Is(err, splitter.ErrMissingTempo), errors.Is(err, splitter.ErrEmptyTimeline), errors.Is(err, splitter.ErrUnsupportedTimeFormat):
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

type uploadResponse struct {
	ID           string `json:"id"`
	TimeDivision int    `json:"division"`
	Tracks       int    `json:"tracks"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxUploadSize))
	if err != nil {
		writeError(w, fmt.Errorf("could not read upload: %w", err))
		return
	}
	mid, err := file.ParseSMF(data)
	if err != nil {
		writeError(w, err)
		return
	}
	song, err := splitter.FromSMF(mid)
	if err != nil {
		writeError(w, err)
		return
	}
	id := s.songs.Add(song)
	log.Printf("stored song %v: %d tracks", id, len(song.Tracks))
	writeJSON(w, http.StatusCreated, uploadResponse{
		ID:           id.String(),
		TimeDivision: song.TimeDivision,
		Tracks:       len(song.Tracks),
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil || !s.songs.Delete(id) {
		writeError(w, fmt.Errorf("%w: song %q", splitter.ErrMissingInput, mux.Vars(r)["id"]))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseBool(q url.Values, name string) (*bool, error) {
	v := q.Get(name)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", name, err)
	}
	return &b, nil
}

// parseOptions reads split options from the query. Split points are given as
// repeated "split" parameters.
func parseOptions(q url.Values) (splitter.Options, error) {
	var opts splitter.Options
	var err error
	for name, dst := range map[string]**bool{
		"split_drum":             &opts.SplitDrum,
		"remove_chord":           &opts.RemoveChord,
		"shift":                  &opts.Shift,
		"reset":                  &opts.Reset,
		"one_based_split_points": &opts.OneBasedSplitPoints,
	} {
		*dst, err = parseBool(q, name)
		if err != nil {
			return splitter.Options{}, err
		}
	}
	for _, v := range q["split"] {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return splitter.Options{}, fmt.Errorf("invalid split point %q: %w", v, err)
		}
		opts.SplitPoints = append(opts.SplitPoints, p)
	}
	return opts, nil
}

func (s *Server) grid(r *http.Request) (*splitter.Grid, error) {
	opts, err := parseOptions(r.URL.Query())
	if err != nil {
		return nil, err
	}
	var song *splitter.Song
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err == nil {
		song = s.songs.Get(id)
	}
	return splitter.Split(splitter.SplitRequest{
		Song:    song,
		Options: opts,
	})
}

type rowResponse struct {
	Group string `json:"group"`
	// Notes has the note count per segment.
	Notes []int `json:"notes"`
}

type gridResponse struct {
	BPM          float64          `json:"bpm"`
	TimeDivision int              `json:"division"`
	Bars         []float64        `json:"bars"`
	Starts       []int64          `json:"starts"`
	End          int64            `json:"end"`
	Rows         []rowResponse    `json:"rows"`
	Options      splitter.Options `json:"options"`
}

func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	g, err := s.grid(r)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := gridResponse{
		BPM:          g.BPM,
		TimeDivision: g.TimeDivision,
		Starts:       g.Starts,
		End:          g.End,
		Options:      g.Options,
		Rows:         make([]rowResponse, 0, len(g.Groups)+1),
	}
	for i := range g.NumSegments() {
		resp.Bars = append(resp.Bars, g.Bar(i))
	}
	all := rowResponse{Group: splitter.AllName, Notes: make([]int, g.NumSegments())}
	for _, k := range g.Groups {
		row := rowResponse{Group: k.String(), Notes: make([]int, g.NumSegments())}
		for i := range row.Notes {
			notes, err := g.Notes(k, i)
			if err != nil {
				writeError(w, err)
				return
			}
			row.Notes[i] = len(notes)
			all.Notes[i] += len(notes)
		}
		resp.Rows = append(resp.Rows, row)
	}
	resp.Rows = append(resp.Rows, all)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCell(w http.ResponseWriter, r *http.Request) {
	g, err := s.grid(r)
	if err != nil {
		writeError(w, err)
		return
	}
	vars := mux.Vars(r)
	segment, err := strconv.Atoi(vars["segment"])
	if err != nil {
		writeError(w, fmt.Errorf("%w: segment %q", splitter.ErrNoSuchCell, vars["segment"]))
		return
	}
	var cell *splitter.Cell
	if vars["group"] == splitter.AllName {
		cell, err = g.All(segment)
	} else {
		var key splitter.GroupKey
		key, err = splitter.ParseGroupKey(vars["group"])
		if err != nil {
			err = fmt.Errorf("%w: %v", splitter.ErrNoSuchCell, err)
		} else {
			cell, err = g.Cell(key, segment)
		}
	}
	if err != nil {
		writeError(w, err)
		return
	}
	data, err := file.EncodeBytes(cell)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	w.Header().Set("Content-Type", "audio/midi")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": cell.Name}))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, err = w.Write(data)
	if err != nil {
		log.Printf("could not send %v: %v", cell.Name, err)
	}
}
