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

import "github.com/zintix-labs/reelcore/spec"

// 三個固定線族，皆從第 0 軸出發，單線最長 5 格：
//
//  1. 水平：每列一條，向右延伸。
//  2. 右下斜：步進 (+1 row, +1 col)，起點列需容得下至少 3 格。
//  3. 右上斜：步進 (-1 row, +1 col)，起點列 >= 2。
//
// 線表依盤面尺寸於設定期展開成 CSR 平坦結構，熱路徑零配置。
func (sc *ScreenCalculator) initLineTable() {
	cols := sc.Cols
	rows := sc.Rows

	var flat []int
	var starts, lens []int

	appendLine := func(r0, dr int) {
		length := 0
		for step := 0; step < spec.PayRunMax; step++ {
			r := r0 + dr*step
			if r < 0 || r >= rows || step >= cols {
				break
			}
			length++
		}
		if length < spec.PayRunMin {
			return
		}
		starts = append(starts, len(flat))
		lens = append(lens, length)
		for step := 0; step < length; step++ {
			r := r0 + dr*step
			// cell 索引用 int：大盤面（rows*cols 超過 int16 範圍）也必須合法
			flat = append(flat, r*cols+step)
		}
	}

	// 水平
	for r := 0; r < rows; r++ {
		appendLine(r, 0)
	}
	// 右下斜
	for r := 0; r < rows; r++ {
		if rows-r >= spec.PayRunMin {
			appendLine(r, +1)
		}
	}
	// 右上斜
	for r := 2; r < rows; r++ {
		appendLine(r, -1)
	}

	sc.LineTableFlat = flat
	sc.LineTableIndex = starts
	sc.LineTableLen = lens
	sc.LineCount = len(starts)
}
