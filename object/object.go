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
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"
)

// Type is the kind of a cached object.
type Type int8

const (
	TypeCommit Type = iota + 1
	TypeTree
	TypeFeature
	TypeTag
	TypeFeatureType
)

var typeNames = map[Type]string{
	TypeCommit:      "commit",
	TypeTree:        "tree",
	TypeFeature:     "feature",
	TypeTag:         "tag",
	TypeFeatureType: "featuretype",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", int8(t))
}

// Valid reports whether t is one of the known object types.
func (t Type) Valid() bool {
	_, ok := typeNames[t]
	return ok
}

func (t Type) hashType() plumbing.ObjectType {
	switch t {
	case TypeCommit:
		return plumbing.CommitObject
	case TypeTree:
		return plumbing.TreeObject
	case TypeTag:
		return plumbing.TagObject
	default:
		return plumbing.BlobObject
	}
}

// Object is an immutable, content addressed value.
type Object interface {
	// ID returns the content hash of the object.
	ID() ID
	// Type returns the kind of the object.
	Type() Type
}

// Identity holds the content hash of an object. It is embedded by all the
// object types and never serialized: the id is always known by whoever
// reads the encoded form.
type Identity struct {
	id ID
}

// ID returns the content hash.
func (i Identity) ID() ID { return i.id }

// SetID sets the content hash.
func (i *Identity) SetID(id ID) { i.id = id }

// New returns an empty object of type t, ready to be decoded into.
func New(t Type) (Object, error) {
	switch t {
	case TypeCommit:
		return &Commit{}, nil
	case TypeTree:
		return &Tree{}, nil
	case TypeFeature:
		return &Feature{}, nil
	case TypeTag:
		return &Tag{}, nil
	case TypeFeatureType:
		return &FeatureType{}, nil
	}
	return nil, fmt.Errorf("unknown object type %d", int8(t))
}

// SetID assigns id to o when o supports it.
func SetID(o Object, id ID) {
	if s, ok := o.(interface{ SetID(ID) }); ok {
		s.SetID(id)
	}
}

// IsTree reports whether o is a tree. Trees are slow to decode and read
// often, which makes them worth keeping decoded.
func IsTree(o Object) bool {
	return o != nil && o.Type() == TypeTree
}
