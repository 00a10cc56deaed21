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

package reelcore

import (
	"github.com/zintix-labs/reelcore/errs"
	"github.com/zintix-labs/reelcore/sdk/sampler"
)

type sessionState uint8

const (
	sessionIdle sessionState = iota
	sessionRunning
	sessionSettled
)

// bonusSession 是一段免費轉的生命週期：Idle → Running → Settled。
//
// Session 期間不動錢包：贏分在 session 內累積，結束後由引擎一次入帳。
// Wild 疊加層（overlay）與上一轉的中獎遮罩（prevMask）都是 session
// 私有狀態，Settled 之後隨 session 丟棄。
//
// 每一轉的順序（先成長、後生成、再計分）：
//  1. 上一轉中獎遮罩覆蓋到的 Wild 格倍數 +1（WildCap > 0 時封頂）。
//  2. 擲生成閘門（SpawnChance）；通過後擲數量（DoubleChance 決定 2 顆），
//     在空格中均勻不放回抽位，放入倍數 1 的新 Wild。
//  3. 生成 Bonus 盤面（Scatter 不落在 Wild 格上）。
//  4. 以疊加層計分；Scatter 達標時 Retrigger 追加轉數（逐轉重新判定）。
//  5. 累積贏分、記下本轉中獎遮罩。
type bonusSession struct {
	e         *Engine
	overlay   []int   // 每格 Wild 倍數，0 = 無 Wild
	prevMask  []uint8 // 上一轉的中獎遮罩
	spawnBuf  []int   // 抽位用權重緩衝（1 = 空格）
	spinsLeft int
	played    int
	totalWin  int
	state     sessionState
}

func newBonusSession(e *Engine, initialSpins int) *bonusSession {
	size := e.setting.ScreenSetting.ScreenSize
	return &bonusSession{
		e:         e,
		overlay:   make([]int, size),
		prevMask:  make([]uint8, size),
		spawnBuf:  make([]int, size),
		spinsLeft: initialSpins,
		state:     sessionIdle,
	}
}

// run 跑完整個 session，回傳累積贏分與實際轉動次數。
// 只能呼叫一次；Settled 的 session 重跑視為呼叫端錯誤。
func (s *bonusSession) run() (win int, spins int, err error) {
	if s.state != sessionIdle {
		return 0, 0, errs.Wrap(errs.ErrInvalidArgument, "bonus session already consumed")
	}
	s.state = sessionRunning

	for s.spinsLeft > 0 {
		if err := s.step(); err != nil {
			return 0, 0, err
		}
	}

	s.state = sessionSettled
	return s.totalWin, s.played, nil
}

func (s *bonusSession) step() error {
	e := s.e

	s.growWilds()
	s.spawnWilds()

	screen, err := e.gen.GenScreenBonus(s.overlay)
	if err != nil {
		return err
	}
	if err := e.calc.CalcScreen(screen, e.bet, s.overlay, true, e.bonusRes); err != nil {
		return err
	}

	res := e.bonusRes
	s.totalWin += res.TotalWin
	copy(s.prevMask, res.WinMask)

	// Retrigger 逐轉重新判定，每次達標都追加
	s.spinsLeft += res.RetriggerSpins
	s.spinsLeft--
	s.played++

	if e.present != nil {
		e.present.OnBonusSpin(s.played, res.Clone())
	}
	return nil
}

// growWilds 將上一轉中獎線覆蓋到的 Wild 格倍數 +1。
// 只長已存在的 Wild；遮罩覆蓋到的一般格不會因此變成 Wild。
func (s *bonusSession) growWilds() {
	limit := s.e.setting.BonusSetting.WildCap
	for i, m := range s.prevMask {
		if m == 0 || s.overlay[i] == 0 {
			continue
		}
		if limit > 0 && s.overlay[i] >= limit {
			continue
		}
		s.overlay[i]++
	}
}

// spawnWilds 擲閘門決定本轉是否落新 Wild，通過後在空格中
// 均勻不放回抽 1 或 2 格（DoubleChance 為抽中 2 格的機率）。
// 空格不足時能放幾顆放幾顆；盤面全 Wild 時自然跳過。
func (s *bonusSession) spawnWilds() {
	bs := &s.e.setting.BonusSetting
	c := s.e.core

	if c.Float64() >= bs.SpawnChance {
		return
	}
	n := 1
	if c.Float64() < bs.DoubleChance {
		n = 2
	}

	for i, v := range s.overlay {
		if v == 0 {
			s.spawnBuf[i] = 1
		} else {
			s.spawnBuf[i] = 0
		}
	}
	for _, cell := range sampler.WeightedSample(c, s.spawnBuf, n) {
		s.overlay[cell] = 1
	}
}
