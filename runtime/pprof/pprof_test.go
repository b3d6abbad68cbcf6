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

package pprof

import (
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"

	. "github.com/onsi/gomega"
)

func TestSetupHandlers(t *testing.T) {
	g := NewWithT(t)
	mux := http.NewServeMux()
	SetupHandlers(mux)

	g.Expect(runtime.SetMutexProfileFraction(-1)).ToNot(BeZero())

	for _, path := range []string{HTTPPrefixPProf + "/", HTTPPrefixPProf + "/heap?debug=1", HTTPPrefixPProf + "/mutex?debug=1"} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		g.Expect(rec.Code).To(Equal(http.StatusOK), path)
	}
}
