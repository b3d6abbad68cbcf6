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

package object

import (
	"testing"

	. "github.com/onsi/gomega"
)

func TestWords_RoundTrip(t *testing.T) {
	g := NewWithT(t)

	for _, s := range []string{
		"0000000000000000000000000000000000000000",
		"ffffffffffffffffffffffffffffffffffffffff",
		"0123456789abcdef0123456789abcdef01234567",
		"80000000000000000000000000000000000000ff",
	} {
		id, err := ParseID(s)
		g.Expect(err).ToNot(HaveOccurred())
		w1, w2, w3 := Words(id)
		g.Expect(FromWords(w1, w2, w3)).To(Equal(id))
		g.Expect(id.String()).To(Equal(s))
	}
}

func TestWords_Layout(t *testing.T) {
	g := NewWithT(t)

	id, err := ParseID("00000001000000000000000200000000000000ff")
	g.Expect(err).ToNot(HaveOccurred())
	w1, w2, w3 := Words(id)
	g.Expect(w1).To(Equal(int32(1)))
	g.Expect(w2).To(Equal(int64(2)))
	g.Expect(w3).To(Equal(int64(255)))

	id, err = ParseID("ffffffff" + "0000000000000000" + "0000000000000000")
	g.Expect(err).ToNot(HaveOccurred())
	w1, _, _ = Words(id)
	g.Expect(w1).To(Equal(int32(-1)))
}

func TestParseID_Invalid(t *testing.T) {
	g := NewWithT(t)

	for _, s := range []string{"", "abc", "zz23456789abcdef0123456789abcdef01234567"} {
		_, err := ParseID(s)
		g.Expect(err).To(HaveOccurred(), s)
	}
}

func TestCompute_ContentAddressed(t *testing.T) {
	g := NewWithT(t)

	a := NewFeature("a", "b")
	b := NewFeature("a", "b")
	c := NewFeature("ab")
	g.Expect(a.ID()).To(Equal(b.ID()))
	g.Expect(a.ID()).ToNot(Equal(c.ID()))
	g.Expect(a.ID()).ToNot(Equal(ZeroID))

	// The same payload hashed as a different type yields a different id.
	g.Expect(Compute(TypeTree, []byte("x"))).ToNot(Equal(Compute(TypeCommit, []byte("x"))))
}

func TestNew(t *testing.T) {
	g := NewWithT(t)

	for _, typ := range []Type{TypeCommit, TypeTree, TypeFeature, TypeTag, TypeFeatureType} {
		o, err := New(typ)
		g.Expect(err).ToNot(HaveOccurred())
		g.Expect(o.Type()).To(Equal(typ))
		g.Expect(typ.Valid()).To(BeTrue())

		id := Compute(typ, []byte(typ.String()))
		SetID(o, id)
		g.Expect(o.ID()).To(Equal(id))
	}

	_, err := New(Type(0))
	g.Expect(err).To(HaveOccurred())
	g.Expect(Type(42).String()).To(Equal("unknown(42)"))
}

func TestIsTree(t *testing.T) {
	g := NewWithT(t)

	g.Expect(IsTree(NewTree(0, nil, nil, nil))).To(BeTrue())
	g.Expect(IsTree(NewFeature())).To(BeFalse())
	g.Expect(IsTree(nil)).To(BeFalse())
}
