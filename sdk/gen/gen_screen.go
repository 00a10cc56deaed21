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
	"github.com/zintix-labs/reelcore/errs"
	"github.com/zintix-labs/reelcore/sdk/core"
	"github.com/zintix-labs/reelcore/sdk/sampler"
	"github.com/zintix-labs/reelcore/spec"
)

// ScreenGenerator 保存生成盤面所需的所有狀態。
// 會快取列數、行數、符號抽樣器與輸出緩衝，以避免重複配置與計算。
//
// 盤面逐軸（column）由上而下填入，規則：
//   - 每一軸最多一顆 Scatter：第二顆 Scatter 重抽（rejection sampling）。
//   - Bonus 變體：Scatter 不可落在已有 Wild 倍數的格子上，違反即重抽。
//
// 生成是 picker 亂數流的純函數，不改動 overlay。
type ScreenGenerator struct {
	core          *core.Core
	picker        *sampler.Picker
	SymbolSetting *spec.SymbolSetting
	Cols          int
	Rows          int
	scatterMask   spec.SymbolMask
	// 盤面Buffer(避免重複new盤面)
	Screen []int16
}

// NewScreenGenerator 根據設定與核心亂數器建立生成器，並立即完成初始化，
// 讓之後的生成流程可以免配置快速執行。
//
// SymbolSetting 保證至少一個非 Scatter 符號帶正權重，重抽必然終止。
func NewScreenGenerator(c *core.Core, screenSetting *spec.ScreenSetting, symbolSetting *spec.SymbolSetting) (*ScreenGenerator, error) {
	// 防止錯誤
	if err := screenSetting.Init(); err != nil {
		return nil, err
	}
	if err := symbolSetting.Init(); err != nil {
		return nil, err
	}

	sg := &ScreenGenerator{
		core:          c,
		picker:        sampler.NewPicker(symbolSetting.Weights),
		SymbolSetting: symbolSetting,
		Cols:          screenSetting.Columns,
		Rows:          screenSetting.Rows,
		scatterMask:   symbolSetting.ScatterMask,
		Screen:        make([]int16, screenSetting.ScreenSize),
	}
	return sg, nil
}

// GenScreen 生成一般盤面（熱路徑），回傳內部緩衝。
// 呼叫端若要保留盤面必須自行複製。
func (sg *ScreenGenerator) GenScreen() []int16 {
	return sg.gen(nil)
}

// GenScreenBonus 生成 Bonus 盤面：Scatter 不會落在 overlay 非零的格子。
//
// overlay 為平坦 row-major 的 Wild 倍數矩陣，長度必須等於盤面大小。
func (sg *ScreenGenerator) GenScreenBonus(overlay []int) ([]int16, error) {
	if len(overlay) != len(sg.Screen) {
		return nil, errs.Wrap(errs.ErrInvalidArgument, "overlay size != screen size")
	}
	return sg.gen(overlay), nil
}

func (sg *ScreenGenerator) gen(overlay []int) []int16 {
	cols := sg.Cols
	rows := sg.Rows

	s := sg.Screen
	_ = s[(rows-1)*cols+(cols-1)] // BCE hint

	for col := range cols {
		scatterPlaced := false
		for row := range rows {
			idx := (row * cols) + col
			for {
				sym := int16(sg.picker.Pick(sg.core))
				if sg.scatterMask.Has(sym) {
					// 一軸最多一顆 Scatter
					if scatterPlaced {
						continue
					}
					// Bonus 變體：Scatter 不落在 Wild 格
					if overlay != nil && overlay[idx] != 0 {
						continue
					}
					scatterPlaced = true
				}
				s[idx] = sym
				break
			}
		}
	}
	return sg.Screen
}
