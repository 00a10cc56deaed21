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

// Package dto 定義引擎結果的對外序列化結構。
//
// 引擎內部的 buf 結構是可重用的熱路徑緩衝；任何要離開引擎邊界的資料
// （HTTP 回應、journal 落盤）都先轉成這裡的 DTO，觀測者永遠拿不到
// 引擎持有的 slice。
package dto

import (
	"github.com/zintix-labs/reelcore/corefmt"
	"github.com/zintix-labs/reelcore/errs"
	"github.com/zintix-labs/reelcore/sdk/buf"
)

// LineWin 單一中獎線。
type LineWin struct {
	LineID    int   `json:"line"`
	Symbol    int16 `json:"symbol"`
	Length    int   `json:"len"`
	Win       int   `json:"win"`
	StartCell int   `json:"start"`
	EndCell   int   `json:"end"`
}

// ScoreResult 單張盤面的計分結果。
type ScoreResult struct {
	TotalWin       int       `json:"win"`
	LineWins       []LineWin `json:"lines,omitempty"`
	Jackpot        bool      `json:"jackpot,omitempty"`
	ScatterCount   int       `json:"scatters"`
	FreeSpins      int       `json:"free_spins,omitempty"`
	RetriggerSpins int       `json:"retrigger_spins,omitempty"`
	WinMask        []uint8   `json:"win_mask,omitempty"`
}

// SpinOutcome 一次完整 Spin（含 Bonus Session）的結果。
//
// CoreSnapB64U 為 Spin 前的亂數核心快照（base64url），
// 供任意局重現；由組裝端選填。
type SpinOutcome struct {
	GameName     string      `json:"game"`
	Bet          int         `json:"bet"`
	Screen       []int16     `json:"screen"`
	Base         ScoreResult `json:"base"`
	BonusPlayed  bool        `json:"bonus_played,omitempty"`
	BonusSpins   int         `json:"bonus_spins,omitempty"`
	BonusWin     int         `json:"bonus_win,omitempty"`
	TotalWin     int         `json:"win"`
	Balance      int         `json:"balance"`
	CoreSnapB64U string      `json:"core_snap,omitempty"`
}

// NewScoreResult 由內部計分結果轉出 DTO（深拷貝）。
func NewScoreResult(r *buf.ScoreResult) ScoreResult {
	if r == nil {
		return ScoreResult{}
	}
	out := ScoreResult{
		TotalWin:       r.TotalWin,
		Jackpot:        r.Jackpot,
		ScatterCount:   r.ScatterCount,
		FreeSpins:      r.FreeSpins,
		RetriggerSpins: r.RetriggerSpins,
		WinMask:        append([]uint8(nil), r.WinMask...),
	}
	if len(r.LineWins) > 0 {
		out.LineWins = make([]LineWin, len(r.LineWins))
		for i, lw := range r.LineWins {
			out.LineWins[i] = LineWin{
				LineID:    lw.LineID,
				Symbol:    lw.Symbol,
				Length:    lw.Length,
				Win:       lw.Win,
				StartCell: lw.StartCell,
				EndCell:   lw.EndCell,
			}
		}
	}
	return out
}

// NewSpinOutcome 由內部 Spin 結果轉出 DTO（深拷貝）。
// coreSnap 可為 nil（不輸出快照）。
func NewSpinOutcome(gameName string, o *buf.SpinOutcome, coreSnap []byte) (SpinOutcome, error) {
	if o == nil {
		return SpinOutcome{}, errs.NewWarn("spin outcome is nil")
	}
	out := SpinOutcome{
		GameName:    gameName,
		Bet:         o.Bet,
		Screen:      append([]int16(nil), o.Screen...),
		Base:        NewScoreResult(o.Base),
		BonusPlayed: o.BonusPlayed,
		BonusSpins:  o.BonusSpins,
		BonusWin:    o.BonusWin,
		TotalWin:    o.TotalWin,
		Balance:     o.Balance,
	}
	if len(coreSnap) > 0 {
		out.CoreSnapB64U = corefmt.EncodeBase64URL(coreSnap)
	}
	return out, nil
}

// CoreSnap 解回亂數核心快照 bytes。空字串回傳 nil, nil。
func (o *SpinOutcome) CoreSnap() ([]byte, error) {
	if o.CoreSnapB64U == "" {
		return nil, nil
	}
	return corefmt.DecodeBase64URL(o.CoreSnapB64U)
}
