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
	"math/rand/v2"
	"sync"
	"testing"

	. "github.com/onsi/gomega"
)

type removed struct {
	key   Key
	value string
	cause RemovalCause
}

func newTestLRU(capacity int64, weigher func(Key, string) int64) (*lru[string], *[]removed) {
	var mu sync.Mutex
	var got []removed
	c := newLRU(capacity, weigher, func(k Key, v string, _ int64, cause RemovalCause) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, removed{key: k, value: v, cause: cause})
	})
	return c, &got
}

func Test_LRU(t *testing.T) {
	testCases := []struct {
		name     string
		inputs   []int
		expected []int
	}{
		{
			name:     "empty cache",
			inputs:   []int{},
			expected: []int{},
		},
		{
			name:     "add one node",
			inputs:   []int{1},
			expected: []int{1},
		},
		{
			name:     "add seven nodes",
			inputs:   []int{1, 2, 3, 4, 5, 6, 7},
			expected: []int{3, 4, 5, 6, 7},
		},
	}

	for _, v := range testCases {
		t.Run(v.name, func(t *testing.T) {
			g := NewWithT(t)
			c, evicted := newTestLRU(5, nil)
			for _, i := range v.inputs {
				_, loaded, stored := c.putIfAbsent(NewKey(0, testID(i)), "value")
				g.Expect(loaded).To(BeFalse())
				g.Expect(stored).To(BeTrue())
			}

			g.Expect(c.items).To(HaveLen(len(v.expected)))
			for _, i := range v.expected {
				g.Expect(c.contains(NewKey(0, testID(i)))).To(BeTrue())
			}
			g.Expect(*evicted).To(HaveLen(len(v.inputs) - len(v.expected)))
			for _, r := range *evicted {
				g.Expect(r.cause).To(Equal(CauseSize))
			}
		})
	}
}

func Test_LRU_PutIfAbsent(t *testing.T) {
	g := NewWithT(t)
	c, _ := newTestLRU(2, nil)
	key := NewKey(1, testID(1))

	_, loaded, stored := c.putIfAbsent(key, "first")
	g.Expect(loaded).To(BeFalse())
	g.Expect(stored).To(BeTrue())

	existing, loaded, stored := c.putIfAbsent(key, "second")
	g.Expect(loaded).To(BeTrue())
	g.Expect(stored).To(BeFalse())
	g.Expect(existing).To(Equal("first"))

	v, ok := c.get(key)
	g.Expect(ok).To(BeTrue())
	g.Expect(v).To(Equal("first"))
}

func Test_LRU_Recency(t *testing.T) {
	g := NewWithT(t)
	c, evicted := newTestLRU(2, nil)
	k1, k2, k3 := NewKey(0, testID(1)), NewKey(0, testID(2)), NewKey(0, testID(3))

	c.putIfAbsent(k1, "1")
	c.putIfAbsent(k2, "2")
	// reading k1 makes k2 the least recently used
	_, ok := c.get(k1)
	g.Expect(ok).To(BeTrue())
	c.putIfAbsent(k3, "3")

	g.Expect(c.contains(k1)).To(BeTrue())
	g.Expect(c.contains(k2)).To(BeFalse())
	g.Expect(*evicted).To(Equal([]removed{{key: k2, value: "2", cause: CauseSize}}))
}

func Test_LRU_Weight(t *testing.T) {
	g := NewWithT(t)
	weigher := func(_ Key, v string) int64 { return int64(len(v)) }
	c, evicted := newTestLRU(10, weigher)

	c.putIfAbsent(NewKey(0, testID(1)), "aaaa")
	c.putIfAbsent(NewKey(0, testID(2)), "bbbb")
	g.Expect(c.totalWeight()).To(Equal(int64(8)))

	_, _, stored := c.putIfAbsent(NewKey(0, testID(3)), "ccccccccccc")
	g.Expect(stored).To(BeFalse())
	g.Expect(c.len()).To(Equal(2))

	c.putIfAbsent(NewKey(0, testID(4)), "dddddd")
	g.Expect(c.totalWeight()).To(Equal(int64(10)))
	g.Expect(c.len()).To(Equal(2))
	g.Expect(*evicted).To(HaveLen(1))
	g.Expect((*evicted)[0].value).To(Equal("aaaa"))
}

func Test_LRU_Remove(t *testing.T) {
	g := NewWithT(t)
	c, evicted := newTestLRU(10, nil)
	for i := range 6 {
		c.putIfAbsent(NewKey(int32(i%2), testID(i)), "v")
	}

	g.Expect(c.remove(NewKey(0, testID(0)))).To(BeTrue())
	g.Expect(c.remove(NewKey(0, testID(0)))).To(BeFalse())
	g.Expect(c.removeIf(func(k Key) bool { return k.Prefix() == 1 })).To(Equal(3))
	g.Expect(c.len()).To(Equal(2))
	g.Expect(c.clear()).To(Equal(2))
	g.Expect(c.len()).To(BeZero())
	g.Expect(c.totalWeight()).To(BeZero())

	g.Expect(*evicted).To(HaveLen(6))
	for _, r := range *evicted {
		g.Expect(r.cause).To(Equal(CauseExplicit))
	}
}

func TestLRU_Concurrent(t *testing.T) {
	g := NewWithT(t)
	c, _ := newTestLRU(100, nil)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 1000 {
				key := NewKey(0, testID(rand.IntN(300)))
				switch rand.IntN(4) {
				case 0:
					c.remove(key)
				case 1:
					c.get(key)
				default:
					c.putIfAbsent(key, "v")
				}
			}
		}()
	}
	wg.Wait()

	g.Expect(c.len()).To(BeNumerically("<=", 100))
	g.Expect(c.totalWeight()).To(Equal(int64(c.len())))
}
