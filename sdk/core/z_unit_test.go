// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package core

import (
	"math"
	"slices"
	"testing"
)

func TestCoreDeterminism(t *testing.T) {
	c1 := New(Default().New(7))
	c2 := New(Default().New(7))
	for i := 0; i < 5; i++ {
		if c1.Uint64() != c2.Uint64() {
			t.Fatalf("Uint64 mismatch at %d", i)
		}
	}
	if c1.IntN(10) != c2.IntN(10) {
		t.Fatalf("IntN mismatch")
	}
	if c1.UintN(10) != c2.UintN(10) {
		t.Fatalf("UintN mismatch")
	}
}

func TestCorePickAndShuffle(t *testing.T) {
	c := New(Default().New(9))
	if got := c.Pick(nil); got != -1 {
		t.Fatalf("expected -1 for empty pick, got %d", got)
	}

	src := []int{1, 2, 3, 4}
	c.ShuffleInts(src)
	if len(src) != 4 {
		t.Fatalf("unexpected length after shuffle")
	}
	want := []int{1, 2, 3, 4}
	got := slices.Clone(src)
	slices.Sort(want)
	slices.Sort(got)
	if !slices.Equal(want, got) {
		t.Fatalf("shuffle changed elements: %v", src)
	}
}

// 種子化 PCG32 變體：相同 seed 必須重現相同序列（測試/回放合約）。
func TestSeededStreamReproducible(t *testing.T) {
	a := NewSeeded(42)
	b := NewSeeded(42)
	for i := 0; i < 64; i++ {
		if a.Uint64() != b.Uint64() {
			t.Fatalf("seeded stream diverged at %d", i)
		}
	}
	if NewSeeded(1).Uint64() == NewSeeded(2).Uint64() {
		t.Fatalf("different seeds produced identical first output")
	}
}

func TestSeededFloat64Range(t *testing.T) {
	r := NewSeeded(99)
	for i := 0; i < 10000; i++ {
		v := r.Float64()
		if v < 0 || v >= 1 {
			t.Fatalf("Float64 out of [0,1): %v", v)
		}
	}
}

// Snapshot / Restore：還原後的序列必須與快照點之後的原序列一致。
func TestSnapshotRestore(t *testing.T) {
	for name, rng := range map[string]PRNG{
		"pcg32": NewSeeded(12345),
		"pcg64": Default().New(12345),
	} {
		for i := 0; i < 10; i++ {
			rng.Uint64()
		}
		snap, err := rng.Snapshot()
		if err != nil {
			t.Fatalf("%s: snapshot: %v", name, err)
		}
		want := make([]uint64, 8)
		for i := range want {
			want[i] = rng.Uint64()
		}
		if err := rng.Restore(snap); err != nil {
			t.Fatalf("%s: restore: %v", name, err)
		}
		for i, w := range want {
			if got := rng.Uint64(); got != w {
				t.Fatalf("%s: restored stream mismatch at %d: got %d want %d", name, i, got, w)
			}
		}
	}
}

func TestRestoreRejectsBadSnapshot(t *testing.T) {
	r := NewSeeded(1)
	if err := r.Restore([]byte{1, 2, 3}); err == nil {
		t.Fatalf("expected error for short snapshot")
	}
}

func TestExpFloat64Deterministic(t *testing.T) {
	c1 := New(Default().New(11))
	c2 := New(Default().New(11))
	v1 := c1.ExpFloat64()
	v2 := c2.ExpFloat64()
	if v1 != v2 {
		t.Fatalf("expected deterministic ExpFloat64")
	}
	if v1 <= 0 || math.IsNaN(v1) || math.IsInf(v1, 0) {
		t.Fatalf("unexpected ExpFloat64 value: %v", v1)
	}
}
