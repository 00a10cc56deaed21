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

package gen

import (
	"slices"
	"testing"

	"github.com/zintix-labs/reelcore/sdk/core"
	"github.com/zintix-labs/reelcore/spec"
)

func testScreenSetting(cols, rows int) *spec.ScreenSetting {
	return &spec.ScreenSetting{
		Columns: cols,
		Rows:    rows,
	}
}

// Scatter 權重刻意調高，讓「一軸多顆 Scatter」的重抽路徑被大量觸發。
func testSymbolSetting(t *testing.T) *spec.SymbolSetting {
	t.Helper()
	ss := &spec.SymbolSetting{
		SymbolUsedStr: []string{"H1", "L1", "C1"},
		Weights:       []int{2, 2, 6},
		PayTable: [][]float64{
			{2, 4, 8},
			{1, 2, 4},
			{0, 0, 0},
		},
	}
	if err := ss.Init(); err != nil {
		t.Fatalf("symbol setting init: %v", err)
	}
	return ss
}

func newTestGenerator(t *testing.T, seed int64, cols, rows int) *ScreenGenerator {
	t.Helper()
	c := core.New(core.NewSeeded(seed))
	sg, err := NewScreenGenerator(c, testScreenSetting(cols, rows), testSymbolSetting(t))
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}
	return sg
}

// 一般盤面不變量：每一軸最多一顆 Scatter。
func TestGenScreenScatterPerColumn(t *testing.T) {
	sg := newTestGenerator(t, 1, 5, 3)
	scatter := sg.SymbolSetting.ScatterMask

	for trial := 0; trial < 5000; trial++ {
		s := sg.GenScreen()
		for col := 0; col < sg.Cols; col++ {
			count := 0
			for row := 0; row < sg.Rows; row++ {
				if scatter.Has(s[row*sg.Cols+col]) {
					count++
				}
			}
			if count > 1 {
				t.Fatalf("trial %d: column %d has %d scatters: %v", trial, col, count, s)
			}
		}
	}
}

// Bonus 盤面不變量：Wild 格上不得出現 Scatter，且 overlay 不被改動。
func TestGenScreenBonusNoScatterOnWild(t *testing.T) {
	sg := newTestGenerator(t, 2, 5, 3)
	scatter := sg.SymbolSetting.ScatterMask

	overlay := make([]int, sg.Cols*sg.Rows)
	overlay[0] = 3
	overlay[7] = 1
	overlay[14] = 2
	want := slices.Clone(overlay)

	for trial := 0; trial < 5000; trial++ {
		s, err := sg.GenScreenBonus(overlay)
		if err != nil {
			t.Fatalf("bonus gen: %v", err)
		}
		for idx, mult := range overlay {
			if mult != 0 && scatter.Has(s[idx]) {
				t.Fatalf("trial %d: scatter on wild cell %d: %v", trial, idx, s)
			}
		}
	}
	if !slices.Equal(overlay, want) {
		t.Fatalf("generator mutated overlay: %v", overlay)
	}
}

func TestGenScreenBonusOverlaySize(t *testing.T) {
	sg := newTestGenerator(t, 3, 5, 3)
	if _, err := sg.GenScreenBonus(make([]int, 3)); err == nil {
		t.Fatalf("expected error for wrong overlay size")
	}
}

// 相同 seed 必須生成相同序列的盤面。
func TestGenScreenDeterministic(t *testing.T) {
	g1 := newTestGenerator(t, 7, 5, 3)
	g2 := newTestGenerator(t, 7, 5, 3)
	for i := 0; i < 100; i++ {
		if !slices.Equal(g1.GenScreen(), g2.GenScreen()) {
			t.Fatalf("screens diverged at %d", i)
		}
	}
}
