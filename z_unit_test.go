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
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/zintix-labs/reelcore/errs"
	"github.com/zintix-labs/reelcore/sdk/buf"
	"github.com/zintix-labs/reelcore/sdk/core"
	"github.com/zintix-labs/reelcore/spec"
)

func testGameSetting() *spec.GameSetting {
	return &spec.GameSetting{
		GameName: "unittest",
		BetCents: 100,
		ScreenSetting: spec.ScreenSetting{
			Columns: 5,
			Rows:    3,
		},
		SymbolSetting: spec.SymbolSetting{
			SymbolUsedStr: []string{"H1", "H2", "L1", "L2", "C1"},
			Weights:       []int{2, 3, 5, 6, 1},
			PayTable: [][]float64{
				{2, 4, 8},
				{1, 2, 4},
				{0.5, 1, 2},
				{0.2, 0.5, 1},
				{0, 0, 0},
			},
		},
		BonusSetting: spec.BonusSetting{
			WildCap: 8,
		},
	}
}

func newTestEngine(t *testing.T, seed int64) *Engine {
	t.Helper()
	e, err := NewEngineWithSeed(testGameSetting(), core.Default(), seed)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return e
}

func TestNewEngineInvalidConfig(t *testing.T) {
	if _, err := NewEngineWithSeed(nil, core.Default(), 1); !errors.Is(err, errs.ErrInvalidConfig) {
		t.Fatalf("nil setting: want ErrInvalidConfig, got %v", err)
	}

	gs := testGameSetting()
	gs.BetCents = 0
	if _, err := NewEngineWithSeed(gs, core.Default(), 1); !errors.Is(err, errs.ErrInvalidConfig) {
		t.Fatalf("zero bet: want ErrInvalidConfig, got %v", err)
	}

	gs = testGameSetting()
	gs.SymbolSetting.Weights = []int{1}
	if _, err := NewEngineWithSeed(gs, core.Default(), 1); !errors.Is(err, errs.ErrInvalidConfig) {
		t.Fatalf("weight mismatch: want ErrInvalidConfig, got %v", err)
	}
}

func TestSpinInsufficientFunds(t *testing.T) {
	e := newTestEngine(t, 7)

	before := e.Wallet()
	if _, err := e.Spin(); !errors.Is(err, errs.ErrInsufficientFunds) {
		t.Fatalf("want ErrInsufficientFunds, got %v", err)
	}
	if got := e.Wallet(); got != before {
		t.Fatalf("wallet changed on failed spin: %+v -> %+v", before, got)
	}
}

func TestSetBetAddFundsValidation(t *testing.T) {
	e := newTestEngine(t, 7)

	if err := e.SetBet(0); !errors.Is(err, errs.ErrInvalidArgument) {
		t.Fatalf("SetBet(0): want ErrInvalidArgument, got %v", err)
	}
	if err := e.AddFunds(-5); !errors.Is(err, errs.ErrInvalidArgument) {
		t.Fatalf("AddFunds(-5): want ErrInvalidArgument, got %v", err)
	}
	if err := e.SetBet(250); err != nil {
		t.Fatalf("SetBet(250): %v", err)
	}
	if got := e.Bet(); got != 250 {
		t.Fatalf("bet got %d want 250", got)
	}
}

// 錢包恆等式：期末餘額 = 入金 + 總贏 - 總押。
func TestSpinWalletInvariant(t *testing.T) {
	e := newTestEngine(t, 42)
	const deposit = 100 * 1000
	if err := e.AddFunds(deposit); err != nil {
		t.Fatalf("add funds: %v", err)
	}

	for i := 0; i < 500; i++ {
		out, err := e.Spin()
		if err != nil {
			t.Fatalf("spin %d: %v", i, err)
		}
		if out.TotalWin != out.Base.TotalWin+out.BonusWin {
			t.Fatalf("spin %d: total %d != base %d + bonus %d", i, out.TotalWin, out.Base.TotalWin, out.BonusWin)
		}
		if out.BonusPlayed && out.Base.FreeSpins == 0 {
			t.Fatalf("spin %d: bonus played without free spins", i)
		}
		if !out.BonusPlayed && (out.BonusWin != 0 || out.BonusSpins != 0) {
			t.Fatalf("spin %d: bonus fields set without bonus", i)
		}
		w := e.Wallet()
		if out.Balance != w.Balance {
			t.Fatalf("spin %d: outcome balance %d != wallet %d", i, out.Balance, w.Balance)
		}
		if want := deposit + w.TotalWin - w.TotalBet; w.Balance != want {
			t.Fatalf("spin %d: balance %d want %d", i, w.Balance, want)
		}
	}
}

func TestSpinDeterministicBySeed(t *testing.T) {
	a := newTestEngine(t, 12345)
	b := newTestEngine(t, 12345)
	for _, e := range []*Engine{a, b} {
		if err := e.AddFunds(1000 * 1000); err != nil {
			t.Fatalf("add funds: %v", err)
		}
	}

	for i := 0; i < 200; i++ {
		oa, err := a.Spin()
		if err != nil {
			t.Fatalf("spin a %d: %v", i, err)
		}
		ob, err := b.Spin()
		if err != nil {
			t.Fatalf("spin b %d: %v", i, err)
		}
		if !reflect.DeepEqual(oa, ob) {
			t.Fatalf("spin %d diverged:\n%+v\n%+v", i, oa, ob)
		}
	}
}

func TestSpinSnapshotReplay(t *testing.T) {
	e := newTestEngine(t, 99)
	if err := e.AddFunds(1000 * 1000); err != nil {
		t.Fatalf("add funds: %v", err)
	}

	snap, err := e.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	first, err := e.Spin()
	if err != nil {
		t.Fatalf("spin: %v", err)
	}
	if err := e.Restore(snap); err != nil {
		t.Fatalf("restore: %v", err)
	}
	replay, err := e.Spin()
	if err != nil {
		t.Fatalf("replay spin: %v", err)
	}

	// 錢包狀態不同（第二次 Spin 又扣了一次款），只比對遊戲結果
	if !reflect.DeepEqual(first.Screen, replay.Screen) {
		t.Fatalf("replay screen diverged")
	}
	if !reflect.DeepEqual(first.Base, replay.Base) {
		t.Fatalf("replay base result diverged")
	}
	if first.BonusWin != replay.BonusWin || first.BonusSpins != replay.BonusSpins {
		t.Fatalf("replay bonus diverged")
	}
}

func TestSpinOutcomeIsCallerOwned(t *testing.T) {
	e := newTestEngine(t, 5)
	if err := e.AddFunds(1000 * 1000); err != nil {
		t.Fatalf("add funds: %v", err)
	}
	first, err := e.Spin()
	if err != nil {
		t.Fatalf("spin: %v", err)
	}
	keep := first.Clone()
	if _, err := e.Spin(); err != nil {
		t.Fatalf("second spin: %v", err)
	}
	if !reflect.DeepEqual(first, keep) {
		t.Fatalf("first outcome mutated by second spin")
	}
}

func TestScoreGridWith(t *testing.T) {
	e := newTestEngine(t, 7)

	// 與單參數入口同義：目前押注、無疊加層、一般模式
	screen := e.GenerateGrid()
	want, err := e.ScoreGrid(screen)
	if err != nil {
		t.Fatalf("score grid: %v", err)
	}
	got, err := e.ScoreGridWith(screen, e.Bet(), nil, false)
	if err != nil {
		t.Fatalf("score grid with: %v", err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("base-mode mismatch:\n%+v\n%+v", want, got)
	}

	// 參數檢驗
	if _, err := e.ScoreGridWith(screen, 0, nil, false); !errors.Is(err, errs.ErrInvalidArgument) {
		t.Fatalf("bet=0 should be invalid argument, got %v", err)
	}
	if _, err := e.ScoreGridWith(screen, 100, make([]int, 3), false); !errors.Is(err, errs.ErrInvalidArgument) {
		t.Fatalf("short overlay should be invalid argument, got %v", err)
	}

	// 疊加層計分：第 0 列 (0..4) 整列 L1，cell 1 放倍數 3 的 Wild
	flat := make([]int16, 15)
	for i := range flat {
		flat[i] = 2 // L1
	}
	plain, err := e.ScoreGridWith(flat, 100, nil, false)
	if err != nil {
		t.Fatalf("plain: %v", err)
	}
	overlay := make([]int, 15)
	overlay[1] = 3
	boosted, err := e.ScoreGridWith(flat, 100, overlay, false)
	if err != nil {
		t.Fatalf("boosted: %v", err)
	}
	// 第 0 列 run5 贏分 200 → ×3 = 600，其餘線不變
	if boosted.TotalWin != plain.TotalWin+400 {
		t.Fatalf("wild multiplier: plain %d boosted %d", plain.TotalWin, boosted.TotalWin)
	}

	// Bonus 模式：3 顆 Scatter 走 Retrigger 而非免費轉
	for _, cell := range []int{0, 6, 12} {
		flat[cell] = 4 // C1
	}
	baseMode, err := e.ScoreGridWith(flat, 100, nil, false)
	if err != nil {
		t.Fatalf("base mode: %v", err)
	}
	bonusMode, err := e.ScoreGridWith(flat, 100, nil, true)
	if err != nil {
		t.Fatalf("bonus mode: %v", err)
	}
	if baseMode.FreeSpins != 5 || baseMode.RetriggerSpins != 0 {
		t.Fatalf("base mode scatter award: %+v", baseMode)
	}
	if bonusMode.FreeSpins != 0 || bonusMode.RetriggerSpins != 2 {
		t.Fatalf("bonus mode retrigger: %+v", bonusMode)
	}
}

func TestRunBonusSession(t *testing.T) {
	e := newTestEngine(t, 31)

	if _, _, err := e.RunBonusSession(0); !errors.Is(err, errs.ErrInvalidArgument) {
		t.Fatalf("want ErrInvalidArgument, got %v", err)
	}

	before := e.Wallet()
	win, spins, err := e.RunBonusSession(5)
	if err != nil {
		t.Fatalf("run session: %v", err)
	}
	if spins < 5 {
		t.Fatalf("session spins %d < initial 5", spins)
	}
	if win < 0 {
		t.Fatalf("negative session win %d", win)
	}
	after := e.Wallet()
	if after.Balance != before.Balance+win {
		t.Fatalf("session credit: balance %d want %d", after.Balance, before.Balance+win)
	}
	if after.TotalBet != before.TotalBet {
		t.Fatalf("session must not debit: total bet %d -> %d", before.TotalBet, after.TotalBet)
	}
}

func TestBonusSessionSingleUse(t *testing.T) {
	e := newTestEngine(t, 8)
	s := newBonusSession(e, 3)
	if _, _, err := s.run(); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if _, _, err := s.run(); !errors.Is(err, errs.ErrInvalidArgument) {
		t.Fatalf("second run: want ErrInvalidArgument, got %v", err)
	}
	if s.state != sessionSettled {
		t.Fatalf("state got %d want settled", s.state)
	}
}

// Wild 成長上限：跑很多 session，疊加層永遠不超過 WildCap。
func TestBonusSessionWildCap(t *testing.T) {
	gs := testGameSetting()
	gs.BonusSetting.WildCap = 2
	e, err := NewEngineWithSeed(gs, core.Default(), 77)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	for trial := 0; trial < 50; trial++ {
		s := newBonusSession(e, 10)
		if _, _, err := s.run(); err != nil {
			t.Fatalf("run: %v", err)
		}
		for i, v := range s.overlay {
			if v < 0 || v > 2 {
				t.Fatalf("trial %d: overlay[%d] = %d exceeds cap", trial, i, v)
			}
		}
	}
}

type countingPresenter struct {
	spins      int
	bonusSpins int
	last       *buf.SpinOutcome
}

func (p *countingPresenter) OnSpin(out *buf.SpinOutcome) {
	p.spins++
	p.last = out
}

func (p *countingPresenter) OnBonusSpin(spin int, res *buf.ScoreResult) {
	p.bonusSpins++
}

func TestPresenterNotified(t *testing.T) {
	e := newTestEngine(t, 13)
	if err := e.AddFunds(1000 * 1000); err != nil {
		t.Fatalf("add funds: %v", err)
	}
	p := &countingPresenter{}
	e.AttachPresenter(p)

	var bonusSpins int
	for i := 0; i < 300; i++ {
		out, err := e.Spin()
		if err != nil {
			t.Fatalf("spin %d: %v", i, err)
		}
		bonusSpins += out.BonusSpins
	}
	if p.spins != 300 {
		t.Fatalf("presenter spins %d want 300", p.spins)
	}
	if p.bonusSpins != bonusSpins {
		t.Fatalf("presenter bonus spins %d want %d", p.bonusSpins, bonusSpins)
	}
}

func TestFileWalletStoreRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.json")
	st := NewFileWalletStore(path)

	if _, ok := st.Load(); ok {
		t.Fatalf("load from missing file should report ok=false")
	}
	if err := st.Save(12345); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, ok := st.Load()
	if !ok || got != 12345 {
		t.Fatalf("load got (%d,%v) want (12345,true)", got, ok)
	}

	e := newTestEngine(t, 3)
	e.AttachWalletStore(st)
	if w := e.Wallet(); w.Balance != 12345 {
		t.Fatalf("attached balance %d want 12345", w.Balance)
	}
}

func TestSeedMakerUniqueNonNegative(t *testing.T) {
	sm := newSeedMaker(1)
	seen := make(map[int64]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		s := sm.next()
		if s < 0 {
			t.Fatalf("negative derived seed %d", s)
		}
		if _, dup := seen[s]; dup {
			t.Fatalf("duplicate derived seed %d at %d", s, i)
		}
		seen[s] = struct{}{}
	}
}

func TestSimulatorSim(t *testing.T) {
	s, err := NewSimulatorWithSeed(testGameSetting(), core.Default(), 2024)
	if err != nil {
		t.Fatalf("new simulator: %v", err)
	}
	rep, _, err := s.Sim(2000, false)
	if err != nil {
		t.Fatalf("sim: %v", err)
	}
	if rep.Summary.Rounds != 2000 {
		t.Fatalf("rounds %d want 2000", rep.Summary.Rounds)
	}
	if rep.Summary.TotalBet != 2000*100 {
		t.Fatalf("total bet %d want %d", rep.Summary.TotalBet, 2000*100)
	}
	if rep.Summary.RTP < 0 {
		t.Fatalf("negative RTP %f", rep.Summary.RTP)
	}
	if rep.Summary.HitRate < 0 || rep.Summary.HitRate > 1 {
		t.Fatalf("hit rate %f out of range", rep.Summary.HitRate)
	}
}

func TestSimulatorSimMPMergesRounds(t *testing.T) {
	s, err := NewSimulatorWithSeed(testGameSetting(), core.Default(), 55)
	if err != nil {
		t.Fatalf("new simulator: %v", err)
	}
	rep, _, err := s.SimMP(500, 4, false)
	if err != nil {
		t.Fatalf("simmp: %v", err)
	}
	if rep.Summary.Rounds != 2000 {
		t.Fatalf("rounds %d want 2000", rep.Summary.Rounds)
	}
}

func TestSimulatorSimPlayers(t *testing.T) {
	s, err := NewSimulatorWithSeed(testGameSetting(), core.Default(), 66)
	if err != nil {
		t.Fatalf("new simulator: %v", err)
	}
	rep, est, _, err := s.SimPlayers(2, 20, 50, 100, false)
	if err != nil {
		t.Fatalf("simplayers: %v", err)
	}
	if rep.Summary.Rounds == 0 {
		t.Fatalf("no rounds recorded")
	}
	if est == nil {
		t.Fatalf("nil estimator report")
	}
	total := est.SessionStat.Bust.Hat + est.SessionStat.Cashout.Hat + est.SessionStat.Alive.Hat
	if total < 0.99 || total > 1.01 {
		t.Fatalf("session proportions sum %f", total)
	}
}
