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

package probes

import (
	"fmt"
	"net/http"

	"github.com/go-logr/logr"
)

const (
	HealthzPath = "/healthz"
	ReadyzPath  = "/readyz"
)

// Checker reports an error when the process is not healthy or not ready.
type Checker func(req *http.Request) error

// Ping always succeeds.
func Ping(_ *http.Request) error { return nil }

// SetupChecks registers the health and readiness endpoints on mux. The
// health check is a ping, ready decides readiness. A nil ready is a ping.
func SetupChecks(mux *http.ServeMux, ready Checker, log logr.Logger) {
	if ready == nil {
		ready = Ping
	}
	mux.Handle(HealthzPath, handler("healthz", Ping, log))
	mux.Handle(ReadyzPath, handler("readyz", ready, log))
}

func handler(name string, check Checker, log logr.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err := check(req); err != nil {
			log.V(1).Info("check failed", "check", name, "error", err.Error())
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprintf(w, "%s check failed: %v\n", name, err)
			return
		}
		fmt.Fprintln(w, "ok")
	}
}
