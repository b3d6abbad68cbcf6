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
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-logr/logr"
	. "github.com/onsi/gomega"
)

func serve(mux *http.ServeMux, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestSetupChecks(t *testing.T) {
	g := NewWithT(t)
	mux := http.NewServeMux()
	SetupChecks(mux, nil, logr.Discard())

	for _, path := range []string{HealthzPath, ReadyzPath} {
		rec := serve(mux, path)
		g.Expect(rec.Code).To(Equal(http.StatusOK), path)
		g.Expect(rec.Body.String()).To(Equal("ok\n"))
	}
}

func TestSetupChecks_NotReady(t *testing.T) {
	g := NewWithT(t)
	mux := http.NewServeMux()
	SetupChecks(mux, func(*http.Request) error { return errors.New("shutting down") }, logr.Discard())

	g.Expect(serve(mux, HealthzPath).Code).To(Equal(http.StatusOK))

	rec := serve(mux, ReadyzPath)
	g.Expect(rec.Code).To(Equal(http.StatusServiceUnavailable))
	g.Expect(rec.Body.String()).To(ContainSubstring("shutting down"))
}
