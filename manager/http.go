/*
Copyright 2026 The Flux authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package manager

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-logr/logr"

	"github.com/fluxcd/pkg/objectcache/cache"
)

const (
	// StatsPath serves the Status of the cache on GET.
	StatsPath = "/stats"
	// ClearPath clears the cache on POST.
	ClearPath = "/clear"
	// MaxSizePath resizes the cache on PUT, the size being given by one of
	// the bytes, mb or percent query parameters.
	MaxSizePath = "/max-size"
)

// NewHandler returns an http.Handler serving the management operations
// of b.
func NewHandler(b Bean, log logr.Logger) http.Handler {
	h := &handler{bean: b, log: log}
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+StatsPath, h.stats)
	mux.HandleFunc("POST "+ClearPath, h.clear)
	mux.HandleFunc("PUT "+MaxSizePath, h.setMaxSize)
	return mux
}

type handler struct {
	bean Bean
	log  logr.Logger
}

func (h *handler) stats(w http.ResponseWriter, _ *http.Request) {
	h.writeStatus(w, http.StatusOK)
}

func (h *handler) clear(w http.ResponseWriter, _ *http.Request) {
	h.bean.Clear()
	h.log.Info("shared object cache cleared")
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) setMaxSize(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var (
		set   func(float64) error
		param string
		n     int
	)
	if q.Has("bytes") {
		param, n = "bytes", n+1
		set = func(v float64) error { return h.bean.SetMaximumSize(int64(v)) }
	}
	if q.Has("mb") {
		param, n = "mb", n+1
		set = h.bean.SetMaximumSizeMB
	}
	if q.Has("percent") {
		param, n = "percent", n+1
		set = h.bean.SetMaximumSizePercent
	}
	if n != 1 {
		http.Error(w, "exactly one of the bytes, mb or percent parameters is required", http.StatusBadRequest)
		return
	}

	value, err := strconv.ParseFloat(q.Get(param), 64)
	if err != nil {
		http.Error(w, "invalid "+param+": "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := set(value); err != nil {
		if errors.Is(err, cache.ErrInvalidArgument) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.log.Error(err, "failed to resize the shared object cache", param, value)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.log.Info("shared object cache resized", param, value)
	h.writeStatus(w, http.StatusOK)
}

func (h *handler) writeStatus(w http.ResponseWriter, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(Snapshot(h.bean)); err != nil {
		h.log.Error(err, "failed to write cache status")
	}
}
