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

// Package codec converts cached objects to and from the bytes held by the
// cold tier of the shared object cache.
//
// Every encoding starts with a single byte holding the object type, followed
// by the payload produced by the codec. The content hash is not part of the
// encoding, the reader supplies it on decode.
//
// Codecs are looked up by name in a registry, "cbor" being the default:
//
//	c, err := codec.Lookup("json")
package codec

import (
	"errors"
	"fmt"

	"github.com/fluxcd/pkg/objectcache/object"
)

var (
	// ErrUnknownCodec is returned when no codec is registered under a name.
	ErrUnknownCodec = errors.New("unknown codec")
	// ErrUnknownType is returned when an encoding carries an unknown object type.
	ErrUnknownType = errors.New("unknown object type")
)

// Codec encodes objects to bytes and back.
type Codec interface {
	// Name returns the name the codec is registered under.
	Name() string
	// Encode returns the encoded form of obj.
	Encode(obj object.Object) ([]byte, error)
	// Decode returns the object with the given id encoded in data.
	Decode(id object.ID, data []byte) (object.Object, error)
}

// marshaler is the payload half of a codec.
type marshaler interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// envelope frames the payload produced by a marshaler with the object type.
type envelope struct {
	name string
	m    marshaler
}

func (e *envelope) Name() string {
	return e.name
}

func (e *envelope) Encode(obj object.Object) ([]byte, error) {
	if obj == nil {
		return nil, errors.New("cannot encode nil object")
	}
	t := obj.Type()
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, t)
	}
	payload, err := e.m.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s %s: %w", t, obj.ID(), err)
	}
	out := make([]byte, 0, len(payload)+1)
	out = append(out, byte(t))
	return append(out, payload...), nil
}

func (e *envelope) Decode(id object.ID, data []byte) (object.Object, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("cannot decode %s: empty data", id)
	}
	obj, err := object.New(object.Type(data[0]))
	if err != nil {
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, data[0])
	}
	if err := e.m.Unmarshal(data[1:], obj); err != nil {
		return nil, fmt.Errorf("failed to decode %s %s: %w", obj.Type(), id, err)
	}
	object.SetID(obj, id)
	return obj, nil
}
