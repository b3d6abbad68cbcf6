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

package codec

import (
	"errors"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/fluxcd/pkg/objectcache/object"
)

func testObjects() []object.Object {
	author := object.Person{Name: "Jane", Email: "jane@example.com", Timestamp: 1700000000000, TimeZoneOffset: -180}
	feature := object.NewFeature("road", "42", "POINT (1 2)")
	tree := object.NewTree(1,
		nil,
		[]object.Node{{Name: "f1", ObjectID: feature.ID(), Type: object.TypeFeature}},
		nil)
	root := object.NewTree(1,
		[]object.Node{{Name: "roads", ObjectID: tree.ID(), Type: object.TypeTree}},
		nil,
		[]object.Bucket{{Index: 3, TreeID: tree.ID()}})
	commit := object.NewCommit(root.ID(), []object.ID{tree.ID()}, author, author, "initial import")
	return []object.Object{
		feature,
		tree,
		root,
		commit,
		object.NewTag("v1.0", commit.ID(), "first release", author),
		object.NewFeatureType("roads",
			object.Attribute{Name: "name", Binding: "string"},
			object.Attribute{Name: "geom", Binding: "point", Nillable: true}),
	}
}

func TestCodecs_RoundTrip(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			g := NewWithT(t)
			c, err := Lookup(name)
			g.Expect(err).ToNot(HaveOccurred())
			g.Expect(c.Name()).To(Equal(name))

			for _, obj := range testObjects() {
				data, err := c.Encode(obj)
				g.Expect(err).ToNot(HaveOccurred())
				g.Expect(data[0]).To(Equal(byte(obj.Type())))

				got, err := c.Decode(obj.ID(), data)
				g.Expect(err).ToNot(HaveOccurred())
				g.Expect(got).To(Equal(obj))
				g.Expect(got.ID()).To(Equal(obj.ID()))
			}
		})
	}
}

func TestCBOR_Deterministic(t *testing.T) {
	g := NewWithT(t)
	c, err := NewCBOR()
	g.Expect(err).ToNot(HaveOccurred())

	for _, obj := range testObjects() {
		first, err := c.Encode(obj)
		g.Expect(err).ToNot(HaveOccurred())
		second, err := c.Encode(obj)
		g.Expect(err).ToNot(HaveOccurred())
		g.Expect(first).To(Equal(second))
	}
}

func TestDecode_Errors(t *testing.T) {
	g := NewWithT(t)
	c, err := NewCBOR()
	g.Expect(err).ToNot(HaveOccurred())
	id := object.NewFeature("x").ID()

	_, err = c.Decode(id, nil)
	g.Expect(err).To(HaveOccurred())

	_, err = c.Decode(id, []byte{0x7f, 0xa0})
	g.Expect(errors.Is(err, ErrUnknownType)).To(BeTrue())

	_, err = c.Decode(id, []byte{byte(object.TypeFeature), 0xff, 0x00})
	g.Expect(err).To(HaveOccurred())
}

func TestEncode_Nil(t *testing.T) {
	g := NewWithT(t)
	c, err := NewJSON()
	g.Expect(err).ToNot(HaveOccurred())

	_, err = c.Encode(nil)
	g.Expect(err).To(HaveOccurred())
}
