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
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/fluxcd/pkg/objectcache/manager"
	"github.com/fluxcd/pkg/objectcache/runtime/logger"
)

var rootCmd = &cobra.Command{
	Use:               "objcache",
	Short:             "Run and exercise the shared object cache",
	SilenceUsage:      true,
	PersistentPreRunE: setupLogger,
}

var rootArgs struct {
	logOptions   logger.Options
	cacheOptions manager.Options
}

var log = logr.Discard()

func init() {
	rootArgs.logOptions.BindFlags(rootCmd.PersistentFlags())
	rootArgs.cacheOptions.BindFlags(rootCmd.PersistentFlags())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogger(cmd *cobra.Command, args []string) error {
	l, err := logger.NewLogger(rootArgs.logOptions)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	log = l
	return nil
}

// setupSignalHandler returns a context canceled on SIGINT or SIGTERM.
func setupSignalHandler() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// newManager returns a cache manager configured from the root flags.
func newManager(reg prometheus.Registerer) *manager.Manager {
	opts := rootArgs.cacheOptions
	opts.Logger = log.WithName("object-cache")
	opts.Registerer = reg
	return manager.New(opts)
}
