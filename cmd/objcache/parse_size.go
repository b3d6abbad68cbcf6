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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fluxcd/pkg/objectcache/manager"
)

var parseSizeCmd = &cobra.Command{
	Use:   "parse-size SIZE",
	Short: "Print the cache size in bytes a size argument resolves to",
	Example: `  objcache parse-size 512M
  objcache parse-size 0.25 --memory-limit 8G`,
	Args: cobra.ExactArgs(1),
	RunE: runParseSize,
}

var parseSizeCmdFlags struct {
	memoryLimit string
}

func init() {
	rootCmd.AddCommand(parseSizeCmd)

	parseSizeCmd.Flags().StringVar(&parseSizeCmdFlags.memoryLimit, "memory-limit", "",
		"Memory limit fractions are relative to, defaults to the detected limit.")
}

func runParseSize(cmd *cobra.Command, args []string) error {
	limit := manager.MemoryLimit()
	if parseSizeCmdFlags.memoryLimit != "" {
		// The limit itself is absolute, any fraction form is relative to the detected one.
		l, err := manager.ParseSize(parseSizeCmdFlags.memoryLimit, limit)
		if err != nil {
			return fmt.Errorf("invalid memory limit: %w", err)
		}
		limit = l
	}

	size, err := manager.ParseSize(args[0], limit)
	if err != nil {
		return err
	}
	if size == -1 {
		return fmt.Errorf("empty size")
	}
	absolute := manager.AbsoluteMaximumSize(limit)
	fmt.Fprintf(cmd.OutOrStdout(), "%d\n", size)
	if size > absolute {
		log.Info("size exceeds the maximum allowed cache size", "size", size, "maximum", absolute)
	}
	return nil
}
