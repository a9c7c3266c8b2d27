package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/autom8ter/allpaths"
	"github.com/autom8ter/allpaths/errors"
	"github.com/autom8ter/allpaths/model"
	"github.com/gorilla/mux"
	"github.com/tidwall/sjson"
)

// ExplainRequest is the body of POST /explain. Catalog replaces the served catalog when it is not empty.
type ExplainRequest struct {
	Request model.Request `json:"request"`
	Catalog []model.Index `json:"catalog,omitempty"`
}

// BatchRequest is the body of POST /batch
type BatchRequest struct {
	Requests []model.Request `json:"requests"`
	Catalog  []model.Index   `json:"catalog,omitempty"`
}

// Handler returns an http handler that serves the planner over the given catalog
// POST "/explain" (ExplainRequest in request body) returns the candidate plans of the request
// POST "/batch" (BatchRequest in request body) returns the candidate plans of every request
// GET "/catalog" returns the served catalog
func Handler(planner allpaths.Planner, catalog []model.Index, logger allpaths.Logger) http.Handler {
	if logger == nil {
		logger = allpaths.NewNopLogger()
	}
	router := mux.NewRouter()
	router.HandleFunc("/explain", func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		var body ExplainRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			Error(w, errors.Wrap(err, errors.Validation, "failed to decode explain request"))
			return
		}
		if len(body.Catalog) == 0 {
			body.Catalog = catalog
		}
		result, err := planner.Plan(r.Context(), body.Request, body.Catalog)
		if err != nil {
			logger.Error(r.Context(), "failed to plan request", err, map[string]any{
				"request.path": r.URL.Path,
				"duration":     float64(time.Since(start).Microseconds()) / float64(1000),
			})
			Error(w, err)
			return
		}
		out, err := result.Explain()
		if err != nil {
			Error(w, err)
			return
		}
		logger.Debug(r.Context(), "request planned", map[string]any{
			"request.path": r.URL.Path,
			"solutions":    len(result.Solutions),
			"duration":     float64(time.Since(start).Microseconds()) / float64(1000),
		})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, out)
	}).Methods(http.MethodPost)

	router.HandleFunc("/batch", func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		var body BatchRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			Error(w, errors.Wrap(err, errors.Validation, "failed to decode batch request"))
			return
		}
		if len(body.Catalog) == 0 {
			body.Catalog = catalog
		}
		results, err := planner.PlanAll(r.Context(), body.Requests, body.Catalog)
		if err != nil {
			logger.Error(r.Context(), "failed to plan batch", err, map[string]any{
				"request.path": r.URL.Path,
				"requests":     len(body.Requests),
				"duration":     float64(time.Since(start).Microseconds()) / float64(1000),
			})
			Error(w, err)
			return
		}
		out := `[]`
		for _, res := range results {
			explain, err := res.Explain()
			if err == nil {
				out, err = sjson.SetRaw(out, "-1", explain)
			}
			if err != nil {
				Error(w, err)
				return
			}
		}
		logger.Debug(r.Context(), "batch planned", map[string]any{
			"request.path": r.URL.Path,
			"requests":     len(body.Requests),
			"duration":     float64(time.Since(start).Microseconds()) / float64(1000),
		})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, out)
	}).Methods(http.MethodPost)

	router.HandleFunc("/catalog", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{"indexes": catalog})
	}).Methods(http.MethodGet)
	return router
}

// Error writes the error as json with the http status of its code
func Error(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	e := errors.Extract(err)
	if cde := e.Code; cde >= 400 && cde < 600 {
		status = int(cde)
	}
	if e.Err != nil && len(e.Messages) == 0 {
		e = &errors.Error{Code: errors.Code(status), Messages: []string{strings.TrimSpace(e.Err.Error())}}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(e.RemoveError())
}
