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
	"encoding/binary"
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"
)

// IDSize is the width in bytes of a content hash.
const IDSize = 20

// ID is the content hash naming an immutable object.
type ID = plumbing.Hash

// ZeroID is the ID with all bytes set to zero.
var ZeroID = plumbing.ZeroHash

// ParseID parses the 40 character hexadecimal form of an ID.
func ParseID(s string) (ID, error) {
	if !plumbing.IsHash(s) {
		return ZeroID, fmt.Errorf("invalid object id %q", s)
	}
	return plumbing.NewHash(s), nil
}

// Words decomposes id into one 32-bit and two 64-bit words, read in big
// endian order. Equal ids always produce the same words.
func Words(id ID) (int32, int64, int64) {
	return int32(binary.BigEndian.Uint32(id[0:4])),
		int64(binary.BigEndian.Uint64(id[4:12])),
		int64(binary.BigEndian.Uint64(id[12:20]))
}

// FromWords is the inverse of Words.
func FromWords(w1 int32, w2, w3 int64) ID {
	var id ID
	binary.BigEndian.PutUint32(id[0:4], uint32(w1))
	binary.BigEndian.PutUint64(id[4:12], uint64(w2))
	binary.BigEndian.PutUint64(id[12:20], uint64(w3))
	return id
}

// Compute returns the content hash of payload for an object of type t.
func Compute(t Type, payload []byte) ID {
	return plumbing.ComputeHash(t.hashType(), payload)
}
