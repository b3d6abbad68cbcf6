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

package cache

import (
	"errors"
	"testing"

	. "github.com/onsi/gomega"
)

func TestLookupBuilder(t *testing.T) {
	g := NewWithT(t)

	g.Expect(BuilderNames()).To(ContainElements(DefaultBuilder, DisabledBuilder))

	b, err := LookupBuilder(DefaultBuilder)
	g.Expect(err).ToNot(HaveOccurred())
	c, err := b(1 << 20)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(c).To(BeAssignableToTypeOf(&TieredCache{}))

	b, err = LookupBuilder(DisabledBuilder)
	g.Expect(err).ToNot(HaveOccurred())
	c, err = b(1 << 20)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(IsDisabled(c)).To(BeTrue())
	_, err = b(-1)
	g.Expect(errors.Is(err, ErrInvalidArgument)).To(BeTrue())

	_, err = LookupBuilder("caffeine")
	g.Expect(errors.Is(err, ErrUnknownBuilder)).To(BeTrue())
}

func TestRegisterBuilder(t *testing.T) {
	g := NewWithT(t)

	RegisterBuilder("test-disabled", func(int64, ...Options) (SharedCache, error) {
		return NoCache(), nil
	})
	b, err := LookupBuilder("test-disabled")
	g.Expect(err).ToNot(HaveOccurred())
	c, err := b(100)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(IsDisabled(c)).To(BeTrue())
}

func TestSelectBuilder(t *testing.T) {
	g := NewWithT(t)

	t.Setenv(BuilderEnv, "")
	g.Expect(SelectBuilder("")).To(Equal(DefaultBuilder))
	t.Setenv(BuilderEnv, DisabledBuilder)
	g.Expect(SelectBuilder("")).To(Equal(DisabledBuilder))
	g.Expect(SelectBuilder(DefaultBuilder)).To(Equal(DefaultBuilder))
}
