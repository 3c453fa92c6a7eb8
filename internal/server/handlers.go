// Package server handles HTTP requests and middleware for the
// geospatial interchange API.
package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/infratel/telemap/internal/export"
	"github.com/infratel/telemap/internal/geo"
	"github.com/infratel/telemap/internal/kml"
	"github.com/infratel/telemap/internal/placemark"
	"github.com/infratel/telemap/internal/region"
)

// maxDocumentBytes bounds uploaded document size.
const maxDocumentBytes = 32 << 20

// HandleRegions serves the configured regions as JSON.
func (s *ServerContext) HandleRegions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	// Ignoring error as we cannot handle client disconnects
	_ = json.NewEncoder(w).Encode(s.Config.Regions)
}

// HandleImport parses an uploaded KML document into placemark records.
// Per-record malformations are reported in the outcome, not as errors.
func (s *ServerContext) HandleImport(w http.ResponseWriter, r *http.Request) {
	out, ok := s.parseUpload(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

// HandleLayer parses an uploaded KML document and serves it as a GeoJSON
// FeatureCollection for map-layer clients.
func (s *ServerContext) HandleLayer(w http.ResponseWriter, r *http.Request) {
	out, ok := s.parseUpload(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	_ = json.NewEncoder(w).Encode(out.Records.GeoJSON())
}

// HandleExport encodes a JSON placemark collection in the requested
// interchange format.
func (s *ServerContext) HandleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var records placemark.Collection
	if err := json.NewDecoder(io.LimitReader(r.Body, maxDocumentBytes)).Decode(&records); err != nil {
		http.Error(w, fmt.Sprintf("decoding records: %v", err), http.StatusBadRequest)
		return
	}

	opts := export.Options{Minify: r.URL.Query().Get("minify") == "1"}
	data, err := export.Encode(records, format, opts)
	if err != nil {
		log.Error().Err(err).Str("format", string(format)).Msg("Export failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="placemarks`+format.Ext()+`"`)
	_, _ = w.Write(data)
}

// validateRequest is the body of a validation call: one or more points.
type validateRequest struct {
	Points []geo.Point `json:"points"`
}

// HandleValidate classifies uploaded points against a configured region.
// The verdict is a 200 response either way; only structural problems are
// HTTP errors.
func (s *ServerContext) HandleValidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()

	var (
		reg *region.Region
		ok  bool
	)
	if name := query.Get("region"); name != "" {
		if reg, ok = s.Regions.Lookup(name); !ok {
			http.Error(w, fmt.Sprintf("unknown region %q", name), http.StatusNotFound)
			return
		}
	} else if reg, ok = s.defaultRegion(); !ok {
		http.Error(w, "no default region configured", http.StatusInternalServerError)
		return
	}

	var req validateRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxDocumentBytes)).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("decoding points: %v", err), http.StatusBadRequest)
		return
	}
	if len(req.Points) == 0 {
		http.Error(w, "no points to validate", http.StatusBadRequest)
		return
	}

	tolerance, _ := strconv.ParseFloat(query.Get("tolerance_km"), 64)
	opts := region.Options{
		StrictMode:        query.Get("strict") == "1",
		ShowWarnings:      query.Get("warnings") == "1",
		AllowNearBorder:   tolerance > 0,
		BorderToleranceKm: tolerance,
	}

	verdict := reg.ValidateSequence(req.Points, opts)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(verdict)
}

// parseUpload reads and parses a KML request body; false means a
// response was already written.
func (s *ServerContext) parseUpload(w http.ResponseWriter, r *http.Request) (*kml.Outcome, bool) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return nil, false
	}

	kind := placemark.KindPOP
	if k := r.URL.Query().Get("kind"); k != "" {
		var err error
		if kind, err = placemark.ParseKind(k); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return nil, false
		}
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxDocumentBytes))
	if err != nil {
		http.Error(w, fmt.Sprintf("reading document: %v", err), http.StatusBadRequest)
		return nil, false
	}

	out, err := kml.Parse(string(body), kind)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}

	log.Debug().
		Int("records", len(out.Records)).
		Int("skipped", len(out.Skipped)).
		Str("kind", string(kind)).
		Msg("Document parsed")

	return out, true
}
