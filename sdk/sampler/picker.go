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

// Package sampler 提供一系列高效能的加權抽樣演算法與工具。
//
// 本檔案 (picker.go) 實作前綴和 (Prefix-Sum) 加權抽樣。
//
// 演算法原理：
//   - 建表時一次算出權重前綴和與總和，之後不再改動。
//   - 抽樣時取 r = U * total（U ∈ [0,1)），線性掃描找到第一個「嚴格大於 r」
//     的前綴和，回傳該索引。
//
// 特性：
//   - 建表時間 O(N)，抽樣 O(N)（N 為選項數，Slot 符號表通常 < 16，線性掃描
//     比二分搜尋的分支預測更友善）。
//   - 權重不需要正規化，picker 對 running total 正規化。
//
// 邊界情況：
//   - 浮點捨入導致沒有前綴和大於 r 時，回退為最後一個索引。
//   - 單一選項（或全部權重集中於一個選項）永遠回傳該選項。

package sampler

import (
	"github.com/zintix-labs/reelcore/sdk/core"
)

// Picker 為建表一次、重複抽樣的前綴和加權抽樣器。
type Picker struct {
	prefix []float64
	total  float64
}

// NewPicker 依非負整數權重建表。
//
// 負權重 panic；全零權重 panic（無法定義分佈）。
func NewPicker[T Integers](weights []T) *Picker {
	if len(weights) == 0 {
		panic("picker: empty weights")
	}
	p := &Picker{prefix: make([]float64, len(weights))}
	acc := 0.0
	for i, w := range weights {
		if w < 0 {
			panic("picker: negative weight")
		}
		acc += float64(w)
		p.prefix[i] = acc
	}
	if acc == 0 {
		panic("picker: all weights are zero")
	}
	p.total = acc
	return p
}

// Len 回傳選項數。
func (p *Picker) Len() int { return len(p.prefix) }

// Pick 抽出一個索引，範圍 [0, Len())。
//
// 權重為 0 的索引永遠不會被抽中：其前綴和與前一項相等，
// 「嚴格大於 r」的條件會直接跳過它。
func (p *Picker) Pick(c *core.Core) int {
	r := c.Float64() * p.total
	for i, ps := range p.prefix {
		if ps > r {
			return i
		}
	}
	// 浮點邊界：r 貼齊 total 時可能掃不到，回退最後一個索引
	return len(p.prefix) - 1
}
