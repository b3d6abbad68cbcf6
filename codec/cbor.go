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
	"github.com/fxamacker/cbor/v2"
)

// CBORName is the name of the CBOR codec.
const CBORName = "cbor"

type cborMarshaler struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

func (m cborMarshaler) Marshal(v any) ([]byte, error) {
	return m.enc.Marshal(v)
}

func (m cborMarshaler) Unmarshal(data []byte, v any) error {
	return m.dec.Unmarshal(data, v)
}

// NewCBOR returns a codec producing deterministic CBOR, so that equal
// objects always encode to the same bytes.
func NewCBOR() (Codec, error) {
	enc, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return nil, err
	}
	dec, err := cbor.DecOptions{
		DupMapKey:       cbor.DupMapKeyEnforcedAPF,
		MaxNestedLevels: 64,
	}.DecMode()
	if err != nil {
		return nil, err
	}
	return &envelope{name: CBORName, m: cborMarshaler{enc: enc, dec: dec}}, nil
}
