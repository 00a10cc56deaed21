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

package recorder

import (
	"fmt"

	"github.com/zintix-labs/reelcore/errs"
	"github.com/zintix-labs/reelcore/sdk/buf"
	"github.com/zintix-labs/reelcore/stats"
)

// SpinRecorder 遊戲紀錄員
//
// SpinRecorder 負責紀錄 Spin 結果，並透過 Done 輸出統計報表。
// 單 worker 專用，不做同步；多 worker 各自持有一個，結束後
// 用 MergeSpinRecorder 合併。
type SpinRecorder struct {
	GameName string
	Bet      int // 單次押注（分）
	InitBets int // 玩家模式的初始攜入注數
	Basic    *BasicRecord
	Dist     *DistRecord
	Player   *PlayerRecord
}

// BasicRecord 基本遊戲資料紀錄
type BasicRecord struct {
	TotalBet      int
	TotalWin      int
	BaseWin       int
	BonusWin      int
	TotalWinSqSum int // 平方和
	BaseWinSqSum  int // 平方和
	BonusWinSqSum int // 平方和
	Trigger       int // Bonus Session 觸發次數
	BonusSpins    int // Bonus 轉動總數（含 Retrigger）
	Jackpots      int // 最高分符號 5 連次數
	Rounds        int
}

// DistRecord 分數區間落點統計
//
// 紀錄時只記 int 計數，Done 時才轉浮點。
type DistRecord struct {
	Bucket          *stats.WinBucket
	TotalWinCollect []int
	BaseWinCollect  []int
	BonusWinCollect []int
}

// PlayerRecord 玩家統計
type PlayerRecord struct {
	leaveLine   int
	InitBalance int
	Balance     int
	MaxBalance  int
	MinBalance  int
	Bust        bool
	Cashout     bool
	Alive       bool
}

func NewSpinRecorder(name string, bet int, initBets int) (*SpinRecorder, error) {
	s := new(SpinRecorder)

	if bet <= 0 {
		return s, errs.NewFatal(fmt.Sprintf("bet must be a positive integer, got: %d", bet))
	}
	if initBets < 0 {
		return s, errs.NewFatal(fmt.Sprintf("init bets must not negative integer, got: %d", initBets))
	}
	// 通過valid
	s.GameName = name
	s.Bet = bet
	s.InitBets = initBets
	s.Basic = new(BasicRecord)
	s.Dist = newDistRecord(bet)
	s.Player = newPlayerRecord(bet, initBets)

	return s, nil
}

func MergeSpinRecorder(r []*SpinRecorder) (*SpinRecorder, error) {
	if len(r) == 0 {
		return nil, errs.NewFatal("merge spin record err : empty input")
	}
	r0 := r[0]
	s, err := NewSpinRecorder(r0.GameName, r0.Bet, r0.InitBets)
	if err != nil {
		return s, err
	}
	for _, v := range r {
		if v.GameName != r0.GameName {
			return s, errs.NewFatal("merge spin record err : different game name")
		}
		if v.Bet != r0.Bet {
			return s, errs.NewFatal("merge spin record err : different bet")
		}
		if v.InitBets != r0.InitBets {
			return s, errs.NewFatal("merge spin record err : different init bets")
		}
		s.Basic.TotalBet += v.Basic.TotalBet
		s.Basic.TotalWin += v.Basic.TotalWin
		s.Basic.BaseWin += v.Basic.BaseWin
		s.Basic.BonusWin += v.Basic.BonusWin
		s.Basic.TotalWinSqSum += v.Basic.TotalWinSqSum
		s.Basic.BaseWinSqSum += v.Basic.BaseWinSqSum
		s.Basic.BonusWinSqSum += v.Basic.BonusWinSqSum
		s.Basic.Rounds += v.Basic.Rounds
		s.Basic.Trigger += v.Basic.Trigger
		s.Basic.BonusSpins += v.Basic.BonusSpins
		s.Basic.Jackpots += v.Basic.Jackpots

		// 整合Dist
		for i := range len(v.Dist.TotalWinCollect) {
			s.Dist.TotalWinCollect[i] += v.Dist.TotalWinCollect[i]
			s.Dist.BaseWinCollect[i] += v.Dist.BaseWinCollect[i]
			s.Dist.BonusWinCollect[i] += v.Dist.BonusWinCollect[i]
		}
	}
	return s, nil
}

// Record 以單次 SpinOutcome 更新基本統計（不含玩家）
func (s *SpinRecorder) Record(out *buf.SpinOutcome) {
	s.recordBasic(out) // Basic
	s.recordDist(out)  // Dist
}

// RecordWithPlayer 在 Record 的基礎上，進一步更新玩家餘額／離場狀態，並回傳玩家是否停止遊戲。
func (s *SpinRecorder) RecordWithPlayer(out *buf.SpinOutcome) bool {
	if s.Player.Balance < s.Bet {
		return true
	}
	s.recordBasic(out)
	s.recordDist(out)
	r := s.recordPlayer(out)
	return r
}

func (s *SpinRecorder) Done() *stats.StatReport {
	bfloat := float64(s.Bet)
	bb := bfloat * bfloat

	report := &stats.StatReport{
		Summary: &stats.SummaryReport{
			GameName:    s.GameName,
			Bet:         s.Bet,
			TotalBet:    s.Basic.TotalBet,
			TotalWin:    s.Basic.TotalWin,
			BaseWin:     s.Basic.BaseWin,
			BonusWin:    s.Basic.BonusWin,
			RTP:         s.rtp(),
			Trigger:     s.Basic.Trigger,
			TriggerRate: float64(s.Basic.Trigger) / float64(s.Basic.Rounds),
			BonusSpins:  s.Basic.BonusSpins,
			Jackpots:    s.Basic.Jackpots,
			NoWinRounds: s.Dist.TotalWinCollect[0],
			HitRate:     1.0 - (float64(s.Dist.TotalWinCollect[0]) / float64(s.Basic.Rounds)),
			Rounds:      s.Basic.Rounds,
		},
		Mult: &stats.MultReport{
			TotalWinMult:      float64(s.Basic.TotalWin) / bfloat,
			BaseWinMult:       float64(s.Basic.BaseWin) / bfloat,
			BonusWinMult:      float64(s.Basic.BonusWin) / bfloat,
			TotalWinMultSqSum: float64(s.Basic.TotalWinSqSum) / bb,
			BaseWinMultSqSum:  float64(s.Basic.BaseWinSqSum) / bb,
			BonusWinMultSqSum: float64(s.Basic.BonusWinSqSum) / bb,
		},
		Dist: &stats.DistReport{
			WinBucket:       stats.Buckets.WinBucketStr(),
			TotalWinCollect: s.Dist.TotalWinCollect,
			BaseWinCollect:  s.Dist.BaseWinCollect,
			BonusWinCollect: s.Dist.BonusWinCollect,
			TotalWinDist:    nil,
			BaseWinDist:     nil,
			BonusWinDist:    nil,
		},
		Player: &stats.PlayerReport{
			InitBalance: s.Player.InitBalance,
			Balance:     s.Player.Balance,
			MaxBalance:  s.Player.MaxBalance,
			MinBalance:  s.Player.MinBalance,
			Bust:        s.Player.Bust,
			Cashout:     s.Player.Cashout,
			Alive:       s.Player.Alive,
		},
	}

	length := len(report.Dist.WinBucket)

	totalWinF := make([]float64, length)
	baseWinF := make([]float64, length)
	bonusWinF := make([]float64, length)
	rf := float64(report.Summary.Rounds)
	for i := range length {
		totalWinF[i] = float64(report.Dist.TotalWinCollect[i]) / rf
		baseWinF[i] = float64(report.Dist.BaseWinCollect[i]) / rf
		bonusWinF[i] = float64(report.Dist.BonusWinCollect[i]) / rf
	}

	report.Dist.TotalWinDist = totalWinF
	report.Dist.BaseWinDist = baseWinF
	report.Dist.BonusWinDist = bonusWinF

	return report
}

func (s *SpinRecorder) rtp() float64 {
	if s.Basic.Rounds == 0 || s.Basic.TotalBet == 0 {
		return 0
	}
	return (float64(s.Basic.TotalWin) / float64(s.Basic.TotalBet))
}

func (s *SpinRecorder) recordBasic(out *buf.SpinOutcome) {
	w := out.TotalWin
	bw := out.Base.TotalWin
	fw := out.BonusWin

	// Basic
	s.Basic.TotalBet += out.Bet
	s.Basic.TotalWin += w
	s.Basic.BaseWin += bw
	s.Basic.BonusWin += fw
	s.Basic.TotalWinSqSum += w * w
	s.Basic.BaseWinSqSum += bw * bw
	s.Basic.BonusWinSqSum += fw * fw

	if out.BonusPlayed {
		s.Basic.Trigger++
		s.Basic.BonusSpins += out.BonusSpins
	}
	if out.Base.Jackpot {
		s.Basic.Jackpots++
	}
	s.Basic.Rounds++
}

func (s *SpinRecorder) recordDist(out *buf.SpinOutcome) {
	d := s.Dist
	b := d.Bucket

	d.TotalWinCollect[b.Index(out.TotalWin)]++
	d.BaseWinCollect[b.Index(out.Base.TotalWin)]++
	d.BonusWinCollect[b.Index(out.BonusWin)]++
}

func (s *SpinRecorder) recordPlayer(out *buf.SpinOutcome) bool {
	p := s.Player
	w := out.TotalWin
	b := s.Bet

	// 更新資金
	p.Balance -= b
	p.Balance += w

	// 更新歷史最高資產
	if p.Balance > p.MaxBalance {
		p.MaxBalance = p.Balance
	}
	// 更新歷史最低資產
	if p.Balance < p.MinBalance {
		p.MinBalance = p.Balance
	}

	// 更新結局
	leave := false
	if p.Balance < b {
		p.Bust = true
		leave = true
	}
	if p.Balance >= p.leaveLine {
		p.Cashout = true
		leave = true
	}
	return leave
}

func newDistRecord(bet int) *DistRecord {
	d := new(DistRecord)
	d.Bucket = stats.Buckets.GetBucketByBetUnit(bet)
	d.TotalWinCollect = make([]int, len(stats.Buckets.WinBucketStr()))
	d.BaseWinCollect = make([]int, len(stats.Buckets.WinBucketStr()))
	d.BonusWinCollect = make([]int, len(stats.Buckets.WinBucketStr()))
	return d
}

func newPlayerRecord(bet int, initBets int) *PlayerRecord {

	p := new(PlayerRecord)

	b := bet * initBets // 初始帶入總金額(依押注額看)

	p.InitBalance = b
	p.Balance = b
	p.MaxBalance = b
	p.MinBalance = b
	p.Cashout = false
	p.Bust = false
	p.Alive = false
	p.leaveLine = 3 * b // 設定離場條件(3倍本金)

	return p
}
