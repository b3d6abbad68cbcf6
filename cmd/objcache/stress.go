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
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/fluxcd/pkg/objectcache/cache"
	"github.com/fluxcd/pkg/objectcache/manager"
	"github.com/fluxcd/pkg/objectcache/object"
)

var stressCmd = &cobra.Command{
	Use:   "stress",
	Short: "Run a concurrent multi-tenant workload against the cache and print its statistics",
	Args:  cobra.NoArgs,
	RunE:  runStress,
}

var stressCmdFlags struct {
	tenants  int
	objects  int
	reads    int
	workers  int
	treePct  int
	release  bool
	duration time.Duration
}

func init() {
	rootCmd.AddCommand(stressCmd)

	stressCmd.Flags().IntVar(&stressCmdFlags.tenants, "tenants", 8,
		"Number of tenants sharing the cache.")
	stressCmd.Flags().IntVar(&stressCmdFlags.objects, "objects", 10_000,
		"Number of objects put by each tenant.")
	stressCmd.Flags().IntVar(&stressCmdFlags.reads, "reads", 50_000,
		"Number of random reads done by each tenant.")
	stressCmd.Flags().IntVar(&stressCmdFlags.workers, "workers", 0,
		"Number of tenants running at once, defaults to all of them.")
	stressCmd.Flags().IntVar(&stressCmdFlags.treePct, "tree-percent", 20,
		"Share of the objects that are trees, in percent.")
	stressCmd.Flags().BoolVar(&stressCmdFlags.release, "release", false,
		"Release each tenant once done, removing its objects.")
	stressCmd.Flags().DurationVar(&stressCmdFlags.duration, "timeout", 5*time.Minute,
		"Maximum duration of the workload.")
}

type stressResult struct {
	Tenants  int            `json:"tenants"`
	Puts     int64          `json:"puts"`
	Reads    int64          `json:"reads"`
	Found    int64          `json:"found"`
	Failures int64          `json:"writeBackFailures"`
	Elapsed  string         `json:"elapsed"`
	Cache    manager.Status `json:"cache"`
}

func runStress(cmd *cobra.Command, args []string) error {
	ctx, cancel := setupSignalHandler()
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, stressCmdFlags.duration)
	defer cancelTimeout()

	m := newManager(prometheus.NewRegistry())
	defer m.Close()

	var puts, reads, found, failures atomic.Int64
	start := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	if stressCmdFlags.workers > 0 {
		g.SetLimit(stressCmdFlags.workers)
	}
	for t := range stressCmdFlags.tenants {
		g.Go(func() error {
			c := m.Acquire(fmt.Sprintf("tenant-%d", t))
			if stressCmdFlags.release {
				defer m.Release(c)
			}

			ids := make([]object.ID, 0, stressCmdFlags.objects)
			var pending []*cache.WriteBack
			for i := range stressCmdFlags.objects {
				if err := ctx.Err(); err != nil {
					return err
				}
				obj := stressObject(t, i)
				ids = append(ids, obj.ID())
				if wb := c.Put(obj); wb != nil {
					pending = append(pending, wb)
				}
				puts.Add(1)
			}
			for _, wb := range pending {
				if err := wb.Wait(ctx); err != nil {
					if ctx.Err() != nil {
						return err
					}
					failures.Add(1)
				}
			}

			r := rand.New(rand.NewPCG(uint64(t), 0))
			for range stressCmdFlags.reads {
				if len(ids) == 0 {
					break
				}
				if err := ctx.Err(); err != nil {
					return err
				}
				if _, ok := c.GetIfPresent(ids[r.IntN(len(ids))]); ok {
					found.Add(1)
				}
				reads.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("workload interrupted: %w", err)
	}

	res := stressResult{
		Tenants:  stressCmdFlags.tenants,
		Puts:     puts.Load(),
		Reads:    reads.Load(),
		Found:    found.Load(),
		Failures: failures.Load(),
		Elapsed:  time.Since(start).Round(time.Millisecond).String(),
		Cache:    manager.Snapshot(m),
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// stressObject returns the i-th object of tenant t.
func stressObject(t, i int) object.Object {
	f := object.NewFeature(fmt.Sprintf("tenant-%d", t), fmt.Sprintf("feature-%d", i), "POINT (0 0)")
	if i%100 >= stressCmdFlags.treePct {
		return f
	}
	return object.NewTree(1, nil, []object.Node{{
		Name:     fmt.Sprintf("f%d", i),
		ObjectID: f.ID(),
		Type:     object.TypeFeature,
	}}, nil)
}
