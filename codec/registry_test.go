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
)

func TestLookup(t *testing.T) {
	g := NewWithT(t)

	g.Expect(Names()).To(ContainElements(CBORName, JSONName))

	_, err := Lookup("protobuf")
	g.Expect(errors.Is(err, ErrUnknownCodec)).To(BeTrue())
	g.Expect(err.Error()).To(ContainSubstring(`"protobuf"`))
}

func TestRegister(t *testing.T) {
	g := NewWithT(t)

	Register("test-json", NewJSON)
	c, err := Lookup("test-json")
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(c.Name()).To(Equal(JSONName))
}

func TestSelectName(t *testing.T) {
	tests := []struct {
		name string
		flag string
		env  string
		want string
	}{
		{name: "default", want: DefaultName},
		{name: "env", env: JSONName, want: JSONName},
		{name: "flag wins over env", flag: CBORName, env: JSONName, want: CBORName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)
			t.Setenv(EnvName, tt.env)
			g.Expect(SelectName(tt.flag)).To(Equal(tt.want))

			c, err := Resolve(tt.flag)
			g.Expect(err).ToNot(HaveOccurred())
			g.Expect(c.Name()).To(Equal(tt.want))
		})
	}
}
