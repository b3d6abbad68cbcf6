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
	"bytes"
	"encoding/binary"
)

// Person identifies the author or committer of a commit.
type Person struct {
	Name           string `json:"name" cbor:"1,keyasint"`
	Email          string `json:"email" cbor:"2,keyasint"`
	Timestamp      int64  `json:"timestamp" cbor:"3,keyasint"`
	TimeZoneOffset int32  `json:"tzOffset" cbor:"4,keyasint"`
}

// Commit is a snapshot of a root tree with its history.
type Commit struct {
	Identity  `json:"-" cbor:"-"`
	Tree      ID     `json:"tree" cbor:"1,keyasint"`
	Parents   []ID   `json:"parents,omitempty" cbor:"2,keyasint,omitempty"`
	Author    Person `json:"author" cbor:"3,keyasint"`
	Committer Person `json:"committer" cbor:"4,keyasint"`
	Message   string `json:"message" cbor:"5,keyasint"`
}

func (*Commit) Type() Type { return TypeCommit }

// NewCommit returns a commit with its id computed from the given fields.
func NewCommit(tree ID, parents []ID, author, committer Person, message string) *Commit {
	c := &Commit{Tree: tree, Parents: parents, Author: author, Committer: committer, Message: message}
	var b payload
	b.id(tree)
	b.int(int64(len(parents)))
	for _, p := range parents {
		b.id(p)
	}
	b.person(author)
	b.person(committer)
	b.str(message)
	c.SetID(Compute(TypeCommit, b.Bytes()))
	return c
}

// Node is a named reference from a tree to another object.
type Node struct {
	Name       string `json:"name" cbor:"1,keyasint"`
	ObjectID   ID     `json:"objectId" cbor:"2,keyasint"`
	MetadataID ID     `json:"metadataId" cbor:"3,keyasint"`
	Type       Type   `json:"type" cbor:"4,keyasint"`
}

// Bucket references a subtree holding a hash range of a large tree.
type Bucket struct {
	Index  int32 `json:"index" cbor:"1,keyasint"`
	TreeID ID    `json:"treeId" cbor:"2,keyasint"`
}

// Tree is a directory-like collection of nodes, possibly split into buckets.
type Tree struct {
	Identity `json:"-" cbor:"-"`
	Size     uint64   `json:"size" cbor:"1,keyasint"`
	NumTrees int32    `json:"numTrees" cbor:"2,keyasint"`
	Trees    []Node   `json:"trees,omitempty" cbor:"3,keyasint,omitempty"`
	Features []Node   `json:"features,omitempty" cbor:"4,keyasint,omitempty"`
	Buckets  []Bucket `json:"buckets,omitempty" cbor:"5,keyasint,omitempty"`
}

func (*Tree) Type() Type { return TypeTree }

// NewTree returns a tree with its id computed from the given fields.
func NewTree(size uint64, trees, features []Node, buckets []Bucket) *Tree {
	t := &Tree{Size: size, NumTrees: int32(len(trees)), Trees: trees, Features: features, Buckets: buckets}
	var b payload
	b.int(int64(size))
	b.int(int64(t.NumTrees))
	for _, group := range [][]Node{trees, features} {
		b.int(int64(len(group)))
		for _, n := range group {
			b.node(n)
		}
	}
	b.int(int64(len(buckets)))
	for _, bucket := range buckets {
		b.int(int64(bucket.Index))
		b.id(bucket.TreeID)
	}
	t.SetID(Compute(TypeTree, b.Bytes()))
	return t
}

// Feature is a single record of attribute values.
type Feature struct {
	Identity `json:"-" cbor:"-"`
	Values   []string `json:"values" cbor:"1,keyasint"`
}

func (*Feature) Type() Type { return TypeFeature }

// NewFeature returns a feature with its id computed from values.
func NewFeature(values ...string) *Feature {
	f := &Feature{Values: values}
	var b payload
	b.int(int64(len(values)))
	for _, v := range values {
		b.str(v)
	}
	f.SetID(Compute(TypeFeature, b.Bytes()))
	return f
}

// Attribute describes one property of a feature type.
type Attribute struct {
	Name     string `json:"name" cbor:"1,keyasint"`
	Binding  string `json:"binding" cbor:"2,keyasint"`
	Nillable bool   `json:"nillable" cbor:"3,keyasint"`
}

// FeatureType is the schema shared by a set of features.
type FeatureType struct {
	Identity   `json:"-" cbor:"-"`
	Name       string      `json:"name" cbor:"1,keyasint"`
	Attributes []Attribute `json:"attributes" cbor:"2,keyasint"`
}

func (*FeatureType) Type() Type { return TypeFeatureType }

// NewFeatureType returns a feature type with its id computed from the given fields.
func NewFeatureType(name string, attributes ...Attribute) *FeatureType {
	ft := &FeatureType{Name: name, Attributes: attributes}
	var b payload
	b.str(name)
	b.int(int64(len(attributes)))
	for _, a := range attributes {
		b.str(a.Name)
		b.str(a.Binding)
		b.bool(a.Nillable)
	}
	ft.SetID(Compute(TypeFeatureType, b.Bytes()))
	return ft
}

// Tag is a named, annotated pointer to a commit.
type Tag struct {
	Identity `json:"-" cbor:"-"`
	Name     string `json:"name" cbor:"1,keyasint"`
	Commit   ID     `json:"commit" cbor:"2,keyasint"`
	Message  string `json:"message" cbor:"3,keyasint"`
	Tagger   Person `json:"tagger" cbor:"4,keyasint"`
}

func (*Tag) Type() Type { return TypeTag }

// NewTag returns a tag with its id computed from the given fields.
func NewTag(name string, commit ID, message string, tagger Person) *Tag {
	t := &Tag{Name: name, Commit: commit, Message: message, Tagger: tagger}
	var b payload
	b.str(name)
	b.id(commit)
	b.str(message)
	b.person(tagger)
	t.SetID(Compute(TypeTag, b.Bytes()))
	return t
}

// payload accumulates the canonical form an id is computed from.
type payload struct {
	bytes.Buffer
}

func (p *payload) int(v int64) {
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutVarint(buf[:], v)
	p.Write(buf[:n])
}

func (p *payload) str(s string) {
	p.int(int64(len(s)))
	p.WriteString(s)
}

func (p *payload) bool(v bool) {
	if v {
		p.WriteByte(1)
		return
	}
	p.WriteByte(0)
}

func (p *payload) id(id ID) {
	p.Write(id[:])
}

func (p *payload) person(v Person) {
	p.str(v.Name)
	p.str(v.Email)
	p.int(v.Timestamp)
	p.int(int64(v.TimeZoneOffset))
}

func (p *payload) node(n Node) {
	p.str(n.Name)
	p.id(n.ObjectID)
	p.id(n.MetadataID)
	p.WriteByte(byte(n.Type))
}
