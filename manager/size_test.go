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
	"errors"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/fluxcd/pkg/objectcache/cache"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		arg     string
		limit   int64
		want    int64
		wantErr bool
	}{
		{arg: "", want: -1},
		{arg: "0", want: 0},
		{arg: "1024", want: 1024},
		{arg: "1024B", want: 1024},
		{arg: "1024b", want: 1024},
		{arg: "1K", want: 1024},
		{arg: "1k", want: 1024},
		{arg: "1.5K", want: 1536},
		{arg: "1M", want: 1048576},
		{arg: "1.5m", want: 1572864},
		{arg: "1G", want: 1073741824},
		{arg: "2g", want: 2147483648},
		{arg: "+2K", want: 2048},
		{arg: "1B", want: 1},
		{arg: "0.5", limit: 1000, want: 500},
		{arg: ".25", limit: 1000, want: 250},
		{arg: "0.9", limit: 1000, want: 900},
		{arg: "0.91", limit: 1000, wantErr: true},
		{arg: "1", limit: 1000, wantErr: true},
		{arg: "1GB", wantErr: true},
		{arg: "1 G", wantErr: true},
		{arg: "-1", wantErr: true},
		{arg: "-1K", wantErr: true},
		{arg: "abc", wantErr: true},
		{arg: "1.2.3", wantErr: true},
		{arg: ".", wantErr: true},
		{arg: "99999999999G", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			g := NewWithT(t)
			got, err := ParseSize(tt.arg, tt.limit)
			if tt.wantErr {
				g.Expect(err).To(HaveOccurred())
				g.Expect(errors.Is(err, cache.ErrInvalidArgument)).To(BeTrue())
				return
			}
			g.Expect(err).ToNot(HaveOccurred())
			g.Expect(got).To(Equal(tt.want))
		})
	}
}

func TestSizePercent(t *testing.T) {
	g := NewWithT(t)

	size, err := SizePercent(0.25, 1000)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(size).To(Equal(int64(250)))

	for _, p := range []float64{-0.1, 0.900001, 1, 2} {
		_, err := SizePercent(p, 1000)
		g.Expect(errors.Is(err, cache.ErrInvalidArgument)).To(BeTrue(), "percent %v", p)
	}
	g.Expect(AbsoluteMaximumSize(1000)).To(Equal(int64(900)))
}

func TestMemoryLimit(t *testing.T) {
	g := NewWithT(t)
	g.Expect(MemoryLimit()).To(BeNumerically(">", 0))
}
