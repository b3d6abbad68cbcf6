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

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/fluxcd/pkg/objectcache/manager"
	"github.com/fluxcd/pkg/objectcache/runtime/pprof"
	"github.com/fluxcd/pkg/objectcache/runtime/probes"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the cache management API and metrics over HTTP",
	Long: `Serve the cache management API and metrics over HTTP.

Endpoints:
  GET  /metrics                  Prometheus metrics
  GET  /healthz, /readyz         liveness and readiness checks
  GET  /cache/stats              cache statistics and size settings
  POST /cache/clear              remove all cached objects
  PUT  /cache/max-size?bytes=N   resize the cache, also accepts mb= or percent=`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveCmdFlags struct {
	listenAddress   string
	enablePprof     bool
	shutdownTimeout time.Duration
}

const cachePathPrefix = "/cache"

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveCmdFlags.listenAddress, "listen-address", ":9090",
		"The address the HTTP server binds to.")
	serveCmd.Flags().BoolVar(&serveCmdFlags.enablePprof, "enable-pprof", false,
		"Serve the pprof endpoints under "+pprof.HTTPPrefixPProf+".")
	serveCmd.Flags().DurationVar(&serveCmdFlags.shutdownTimeout, "shutdown-timeout", 10*time.Second,
		"How long to wait for in flight requests on shutdown.")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := setupSignalHandler()
	defer cancel()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := newManager(reg)
	defer m.Close()
	log.Info("shared object cache configured", "maxSize", m.MaximumSize(),
		"memoryLimit", m.MemoryLimit(), "implementation", m.ImplementationName())

	var stopping atomic.Bool
	mux := http.NewServeMux()
	probes.SetupChecks(mux, func(*http.Request) error {
		if stopping.Load() {
			return errors.New("shutting down")
		}
		return nil
	}, log.WithName("probes"))
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	mux.Handle(cachePathPrefix+"/", http.StripPrefix(cachePathPrefix, manager.NewHandler(m, log.WithName("http"))))
	if serveCmdFlags.enablePprof {
		pprof.SetupHandlers(mux)
	}

	srv := &http.Server{
		Addr:              serveCmdFlags.listenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", "address", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	stopping.Store(true)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), serveCmdFlags.shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
