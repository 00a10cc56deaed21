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
	"github.com/zintix-labs/reelcore/errs"
	"github.com/zintix-labs/reelcore/sdk/buf"
	"github.com/zintix-labs/reelcore/spec"
)

// ScreenCalculator 負責根據盤面計算輸贏結果。
//
// 計分規則：
//   - 逐線評分（線表見 line_table.go），三個線族互相獨立、共同累加。
//   - 目標符號 = 沿線第一個非 Wild 格的符號；整條線全 Wild 時，
//     退回設定期解析好的最高分符號（5連賠付最高的非 Scatter 符號）。
//   - 連線：從線頭開始，格子符號等於目標或該格帶 Wild 倍數即延續，
//     否則停止；長度上限 5。
//   - Wild 倍數沿連線「相乘」疊加。
//   - 贏分 = floor(bet × 賠付倍數)，再 floor(× Wild 乘積)；每步皆向零截斷。
//   - 0 分不記錄。
//
// Wild 完全來自 overlay（Bonus 工作階段的倍數矩陣）；一般模式 overlay 為
// nil，盤面上沒有 Wild。
type ScreenCalculator struct {
	// 讀取自設定檔
	ScreenSetting *spec.ScreenSetting
	SymbolSetting *spec.SymbolSetting
	BonusSetting  *spec.BonusSetting

	// Screen 設定的預處理資料(快取)
	Cols       int // 快取軸數
	Rows       int // 快取列數
	ScreenSize int // 快取盤面大小

	// Symbol 設定的預處理資料
	scatterMask   spec.SymbolMask
	topSymbol     int16
	PayTableFlat  []int
	PayTableIndex []int

	// ---------- Line 熱路徑暫存資料 ----------
	LineCount      int     // 線表數量
	LineTableFlat  []int   // 平坦化的線表（CSR），存 cell 索引
	LineTableIndex []int   // 每線在 Flat 的起點
	LineTableLen   []int   // 每線長度 3..5
}

// NewScreenCalculator 建立算分器，線表於此一次建好。
func NewScreenCalculator(screenSetting *spec.ScreenSetting, symbolSetting *spec.SymbolSetting, bonusSetting *spec.BonusSetting) (*ScreenCalculator, error) {
	if err := screenSetting.Init(); err != nil {
		return nil, err
	}
	if err := symbolSetting.Init(); err != nil {
		return nil, err
	}
	if err := bonusSetting.Init(); err != nil {
		return nil, err
	}

	sc := &ScreenCalculator{
		ScreenSetting: screenSetting,
		SymbolSetting: symbolSetting,
		BonusSetting:  bonusSetting,

		Cols:       screenSetting.Columns,
		Rows:       screenSetting.Rows,
		ScreenSize: screenSetting.ScreenSize,

		scatterMask:   symbolSetting.ScatterMask,
		topSymbol:     symbolSetting.TopSymbol,
		PayTableFlat:  symbolSetting.PayTableFlat,
		PayTableIndex: symbolSetting.PayTableIndex,
	}
	sc.initLineTable()
	return sc, nil
}

// CalcScreen 對盤面計分，結果寫入 res（先 Reset 再累積）。
//
// 純函數：相同 (screen, bet, overlay, bonusMode) 永遠得到相同結果，
// 不改動 screen 與 overlay。
//
// overlay 可為 nil（一般模式）；非 nil 時長度必須等於盤面大小。
// bonusMode 控制 Scatter 的語意：一般模式換算免費轉數（FreeSpins），
// Bonus 模式換算追加轉數（RetriggerSpins）；另一邊的欄位恆為 0。
func (sc *ScreenCalculator) CalcScreen(screen []int16, bet int, overlay []int, bonusMode bool, res *buf.ScoreResult) error {
	if len(screen) != sc.ScreenSize {
		return errs.Wrap(errs.ErrInvalidArgument, "screen size mismatch")
	}
	if overlay != nil && len(overlay) != sc.ScreenSize {
		return errs.Wrap(errs.ErrInvalidArgument, "overlay size mismatch")
	}
	res.Reset()

	// 局部快取
	flat := sc.LineTableFlat
	starts := sc.LineTableIndex
	lens := sc.LineTableLen
	payFlat := sc.PayTableFlat
	payIdx := sc.PayTableIndex

	// 逐線
	for lineIdx := 0; lineIdx < sc.LineCount; lineIdx++ {
		start := starts[lineIdx]
		n := lens[lineIdx]
		line := flat[start : start+n] // 固定長度，BCE 友善

		// ── 目標符號：沿線第一個非 Wild 格 ──
		target := int16(-1)
		for _, cell := range line {
			if overlay != nil && overlay[cell] != 0 {
				continue
			}
			target = screen[cell]
			break
		}
		if target < 0 {
			// 全 Wild：退回最高分符號，保證整線仍可計分
			target = sc.topSymbol
		}

		// ── 連線長度與 Wild 乘積 ──
		runLen := 0
		wildProduct := 1
		for _, cell := range line {
			if overlay != nil && overlay[cell] != 0 {
				wildProduct *= overlay[cell]
				runLen++
				continue
			}
			if screen[cell] == target {
				runLen++
				continue
			}
			break
		}
		if runLen < spec.PayRunMin {
			continue
		}

		// ── 賠付：每一步乘法都向零截斷 ──
		win := bet * payFlat[payIdx[target]+(runLen-spec.PayRunMin)] / 100
		win *= wildProduct
		if win <= 0 {
			continue
		}

		res.RecordLine(buf.LineWin{
			LineID:    lineIdx,
			Symbol:    target,
			Length:    runLen,
			Win:       win,
			StartCell: line[0],
			EndCell:   line[runLen-1],
		})
		for _, cell := range line[:runLen] {
			res.WinMask[cell] = 1
		}
		if target == sc.topSymbol && runLen == spec.PayRunMax {
			res.Jackpot = true
		}
	}

	// ── Scatter：全盤面計數，不限線 ──
	count := 0
	for _, s := range screen {
		if sc.scatterMask.Has(s) {
			count++
		}
	}
	res.ScatterCount = count
	if bonusMode {
		if count >= sc.BonusSetting.RetriggerAt {
			res.RetriggerSpins = sc.BonusSetting.RetriggerSpins
		}
	} else {
		res.FreeSpins = FreeSpinAward(count)
	}
	return nil
}

// FreeSpinAward 將盤面 Scatter 數換算為免費轉數。
// 階梯函數，不是公式：<3 → 0、3 → 5、4 → 8、>=5 → 10。
func FreeSpinAward(scatterCount int) int {
	switch {
	case scatterCount < 3:
		return 0
	case scatterCount == 3:
		return 5
	case scatterCount == 4:
		return 8
	default:
		return 10
	}
}
