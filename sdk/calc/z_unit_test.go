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

package calc

import (
	"reflect"
	"testing"

	"github.com/zintix-labs/reelcore/sdk/buf"
	"github.com/zintix-labs/reelcore/spec"
)

// 3x5 盤面、H1 高分(2/4/8)、L1 低分(1/2/4)、C1 Scatter。
func newTestCalculator(t *testing.T) *ScreenCalculator {
	t.Helper()
	sc, err := NewScreenCalculator(
		&spec.ScreenSetting{Columns: 5, Rows: 3},
		&spec.SymbolSetting{
			SymbolUsedStr: []string{"H1", "L1", "C1"},
			Weights:       []int{5, 10, 1},
			PayTable: [][]float64{
				{2, 4, 8},
				{1, 2, 4},
				{0, 0, 0},
			},
		},
		&spec.BonusSetting{},
	)
	if err != nil {
		t.Fatalf("new calculator: %v", err)
	}
	return sc
}

const (
	symH = int16(0)
	symL = int16(1)
	symC = int16(2)
)

func fill(sym int16, n int) []int16 {
	s := make([]int16, n)
	for i := range s {
		s[i] = sym
	}
	return s
}

// 3x5 盤面的線族：3 條水平(長5)、1 條右下斜(長3)、1 條右上斜(長3)。
func TestLineTableShape(t *testing.T) {
	sc := newTestCalculator(t)
	if sc.LineCount != 5 {
		t.Fatalf("expected 5 lines, got %d", sc.LineCount)
	}
	wantLens := []int{5, 5, 5, 3, 3}
	if !reflect.DeepEqual(sc.LineTableLen, wantLens) {
		t.Fatalf("line lengths: got %v want %v", sc.LineTableLen, wantLens)
	}
	// 右下斜：(0,0)(1,1)(2,2)；右上斜：(2,0)(1,1)(0,2)
	diagDown := sc.LineTableFlat[sc.LineTableIndex[3] : sc.LineTableIndex[3]+3]
	if !reflect.DeepEqual(diagDown, []int{0, 6, 12}) {
		t.Fatalf("diag down cells: %v", diagDown)
	}
	diagUp := sc.LineTableFlat[sc.LineTableIndex[4] : sc.LineTableIndex[4]+3]
	if !reflect.DeepEqual(diagUp, []int{10, 6, 2}) {
		t.Fatalf("diag up cells: %v", diagUp)
	}
}

// 單一符號盤面：第 0 列水平線長 5，win = floor(bet × 8)。
func TestCalcScreenSingleSymbolFullRun(t *testing.T) {
	sc := newTestCalculator(t)
	res := buf.NewScoreResult(sc.ScreenSize)
	screen := fill(symH, 15)

	if err := sc.CalcScreen(screen, 100, nil, false, res); err != nil {
		t.Fatalf("calc: %v", err)
	}
	if len(res.LineWins) != 5 {
		t.Fatalf("expected all 5 lines to win, got %d", len(res.LineWins))
	}
	row0 := res.LineWins[0]
	if row0.Length != 5 || row0.Symbol != symH || row0.Win != 800 {
		t.Fatalf("row0 line: %+v", row0)
	}
	if row0.StartCell != 0 || row0.EndCell != 4 {
		t.Fatalf("row0 cells: %+v", row0)
	}
	if !res.Jackpot {
		t.Fatalf("expected jackpot for top symbol at run 5")
	}
	// 斜線長 3：floor(100 × 2.0) = 200
	if res.LineWins[3].Win != 200 || res.LineWins[4].Win != 200 {
		t.Fatalf("diag wins: %+v", res.LineWins[3:])
	}
	if res.TotalWin != 800*3+200*2 {
		t.Fatalf("total win: %d", res.TotalWin)
	}
}

// Wild 目標解析與乘數：overlay 3 於 (0,0)，第 0 列 = [W, A, A, B, B]。
// 目標為 A（第一個非 Wild），連線長 3，乘數 3。
func TestCalcScreenWildOverlayTargetAndProduct(t *testing.T) {
	sc := newTestCalculator(t)
	res := buf.NewScoreResult(sc.ScreenSize)

	screen := []int16{
		symL, symH, symH, symL, symL,
		symL, symH, symL, symH, symL,
		symL, symH, symL, symL, symH,
	}
	overlay := make([]int, 15)
	overlay[0] = 3

	if err := sc.CalcScreen(screen, 100, overlay, false, res); err != nil {
		t.Fatalf("calc: %v", err)
	}
	if len(res.LineWins) != 1 {
		t.Fatalf("expected exactly one line win, got %+v", res.LineWins)
	}
	lw := res.LineWins[0]
	if lw.Symbol != symH || lw.Length != 3 {
		t.Fatalf("target/length: %+v", lw)
	}
	// floor(100 × 2.0) = 200，再 × 3 = 600
	if lw.Win != 600 {
		t.Fatalf("win: %d", lw.Win)
	}
	wantMask := make([]uint8, 15)
	wantMask[0], wantMask[1], wantMask[2] = 1, 1, 1
	if !reflect.DeepEqual(res.WinMask, wantMask) {
		t.Fatalf("win mask: %v", res.WinMask)
	}
}

// 全 Wild 線退回最高分符號計分。
func TestCalcScreenAllWildFallback(t *testing.T) {
	sc := newTestCalculator(t)
	res := buf.NewScoreResult(sc.ScreenSize)

	screen := fill(symL, 15)
	overlay := make([]int, 15)
	for c := 0; c < 5; c++ {
		overlay[c] = 1 // 第 0 列全 Wild，倍數 1
	}
	// 其他列刻意擾亂避免額外得分干擾斷言
	screen[7] = symH
	screen[13] = symH

	if err := sc.CalcScreen(screen, 100, overlay, false, res); err != nil {
		t.Fatalf("calc: %v", err)
	}
	var row0 *buf.LineWin
	for i := range res.LineWins {
		if res.LineWins[i].LineID == 0 {
			row0 = &res.LineWins[i]
		}
	}
	if row0 == nil {
		t.Fatalf("all-wild row did not score: %+v", res.LineWins)
	}
	if row0.Symbol != symH || row0.Length != 5 || row0.Win != 800 {
		t.Fatalf("fallback line: %+v", row0)
	}
}

// Scatter 階梯函數：<3→0、3→5、4→8、>=5→10。
func TestFreeSpinAwardStepFunction(t *testing.T) {
	cases := map[int]int{0: 0, 1: 0, 2: 0, 3: 5, 4: 8, 5: 10, 6: 10, 15: 10}
	for count, want := range cases {
		if got := FreeSpinAward(count); got != want {
			t.Fatalf("award(%d) = %d, want %d", count, got, want)
		}
	}
}

// 一般/Bonus 模式的 Scatter 語意：FreeSpins 與 RetriggerSpins 互斥。
func TestCalcScreenScatterModes(t *testing.T) {
	sc := newTestCalculator(t)
	res := buf.NewScoreResult(sc.ScreenSize)

	screen := fill(symL, 15)
	screen[0], screen[6], screen[12] = symC, symC, symC // 3 scatters

	if err := sc.CalcScreen(screen, 100, nil, false, res); err != nil {
		t.Fatalf("calc base: %v", err)
	}
	if res.ScatterCount != 3 || res.FreeSpins != 5 || res.RetriggerSpins != 0 {
		t.Fatalf("base mode: %+v", res)
	}

	if err := sc.CalcScreen(screen, 100, nil, true, res); err != nil {
		t.Fatalf("calc bonus: %v", err)
	}
	if res.ScatterCount != 3 || res.FreeSpins != 0 || res.RetriggerSpins != 2 {
		t.Fatalf("bonus mode: %+v", res)
	}

	// 2 顆不觸發
	screen[12] = symL
	if err := sc.CalcScreen(screen, 100, nil, true, res); err != nil {
		t.Fatalf("calc bonus(2): %v", err)
	}
	if res.RetriggerSpins != 0 {
		t.Fatalf("retrigger below threshold: %+v", res)
	}
}

// 計分是純函數：相同輸入重複計算，結果完全一致，輸入不被改動。
func TestCalcScreenIdempotent(t *testing.T) {
	sc := newTestCalculator(t)
	screen := []int16{
		symH, symH, symH, symL, symC,
		symL, symH, symL, symH, symL,
		symC, symH, symL, symL, symH,
	}
	overlay := make([]int, 15)
	overlay[3], overlay[8] = 2, 5
	screenCopy := append([]int16(nil), screen...)
	overlayCopy := append([]int(nil), overlay...)

	r1 := buf.NewScoreResult(sc.ScreenSize)
	r2 := buf.NewScoreResult(sc.ScreenSize)
	if err := sc.CalcScreen(screen, 250, overlay, true, r1); err != nil {
		t.Fatalf("calc 1: %v", err)
	}
	if err := sc.CalcScreen(screen, 250, overlay, true, r2); err != nil {
		t.Fatalf("calc 2: %v", err)
	}
	if !reflect.DeepEqual(r1, r2) {
		t.Fatalf("results differ:\n%+v\n%+v", r1, r2)
	}
	if !reflect.DeepEqual(screen, screenCopy) || !reflect.DeepEqual(overlay, overlayCopy) {
		t.Fatalf("inputs mutated")
	}
}

// Scatter 永不走線賠付：即使整列 Scatter 也是 0 分。
func TestCalcScreenScatterNeverPaysAsLine(t *testing.T) {
	sc := newTestCalculator(t)
	res := buf.NewScoreResult(sc.ScreenSize)
	screen := fill(symL, 15)
	for c := 0; c < 5; c++ {
		screen[c] = symC
	}
	if err := sc.CalcScreen(screen, 100, nil, false, res); err != nil {
		t.Fatalf("calc: %v", err)
	}
	for _, lw := range res.LineWins {
		if lw.Symbol == symC {
			t.Fatalf("scatter paid as line: %+v", lw)
		}
	}
}

// 大盤面：cell 索引超出 int16 範圍（182*182 = 33124）也必須可計分。
func TestCalcScreenLargeScreen(t *testing.T) {
	sc, err := NewScreenCalculator(
		&spec.ScreenSetting{Columns: 182, Rows: 182},
		&spec.SymbolSetting{
			SymbolUsedStr: []string{"H1", "L1", "C1"},
			Weights:       []int{5, 10, 1},
			PayTable: [][]float64{
				{2, 4, 8},
				{1, 2, 4},
				{0, 0, 0},
			},
		},
		&spec.BonusSetting{},
	)
	if err != nil {
		t.Fatalf("new calculator: %v", err)
	}

	res := buf.NewScoreResult(sc.ScreenSize)
	screen := fill(symH, sc.ScreenSize)
	if err := sc.CalcScreen(screen, 100, nil, false, res); err != nil {
		t.Fatalf("calc: %v", err)
	}
	// 全 H1 盤面：每條線都是滿長連線，最後一條線的終點是盤面右下角
	if res.TotalWin <= 0 {
		t.Fatalf("expected wins on uniform screen, got %d", res.TotalWin)
	}
	maxCell := 0
	for _, cell := range sc.LineTableFlat {
		if cell > maxCell {
			maxCell = cell
		}
	}
	if maxCell <= 0x7fff {
		t.Fatalf("test screen too small to cover wide cell indices: max cell %d", maxCell)
	}
	if res.WinMask[maxCell] != 1 {
		t.Fatalf("cell %d not covered by its winning line", maxCell)
	}
}
