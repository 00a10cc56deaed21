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

// Package reelcore 是老虎機計分引擎的組裝層（facade）。
//
// 它把 sdk 底下的亂數核心（core）、加權抽樣（sampler）、盤面生成（gen）
// 與連線計分（calc）組裝成一台可對外 Spin 的引擎（Engine），
// 並提供錢包、Bonus Session 與模擬器（Simulator）。
//
// 外部協作者（WalletStore / Presenter）只以介面出現：
// 持久化與展示都在核心之外，核心不依賴任何具體實作。
package reelcore

import (
	"crypto/rand"
	"io"
	"log/slog"
	"math"
	"math/big"
	"sync"

	"github.com/zintix-labs/reelcore/errs"
	"github.com/zintix-labs/reelcore/sdk/buf"
	"github.com/zintix-labs/reelcore/sdk/calc"
	"github.com/zintix-labs/reelcore/sdk/core"
	"github.com/zintix-labs/reelcore/sdk/gen"
	"github.com/zintix-labs/reelcore/spec"
)

// Engine 封裝一台「可對外提供 Spin」的計分引擎。
//
// 並發語意：
//   - Engine 不是 lock-free 結構；它內含可重用的盤面與結果 buffer（熱路徑），
//     由內部 mutex 保護，同一台 Engine 可被多 goroutine 呼叫但會序列化。
//   - 若要併發模擬，由更高層（Simulator）建立多台 Engine 分散到不同 worker。
//
// Buffer 語意：
//   - SpinInternal 回傳的 SpinOutcome 會被下一次 Spin 覆寫，僅供
//     同步讀取（模擬器熱路徑）；公開的 Spin 回傳獨立複本。
type Engine struct {
	gameName string
	setting  *spec.GameSetting
	core     *core.Core
	gen      *gen.ScreenGenerator
	calc     *calc.ScreenCalculator
	wallet   Wallet
	store    WalletStore
	present  Presenter
	log      *slog.Logger

	bet      int
	res      *buf.ScoreResult // 計分重用緩衝
	bonusRes *buf.ScoreResult // Bonus Session 計分重用緩衝
	out      *buf.SpinOutcome // Spin 結果重用緩衝

	mu       sync.Mutex
	initseed int64 // 出生 seed（追溯用；完整重現請用 Snapshot/Restore）
}

// NewEngine 以「隨機 seed」建立 Engine。
//
// 使用 crypto/rand 產生 seed 是為了在對外情境避免可預測 RNG，
// 同時保留可追溯性（seed 記錄在 Engine 內，可由 InitSeed 取得）。
func NewEngine(gs *spec.GameSetting, cf core.PRNGFactory) (*Engine, error) {
	seed, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		return nil, errs.Wrap(err, "new crypto seed error in go std lib")
	}
	return NewEngineWithSeed(gs, cf, seed.Int64())
}

// NewEngineWithSeed 以指定 seed 建立 Engine。
//
// 這是「可重現」入口：同一份 GameSetting + 同一個 seed + 同一個
// PRNGFactory，必定得到一致的隨機序列。
func NewEngineWithSeed(gs *spec.GameSetting, cf core.PRNGFactory, seed int64) (*Engine, error) {
	if gs == nil {
		return nil, errs.Wrap(errs.ErrInvalidConfig, "game setting is nil")
	}
	if err := gs.Init(); err != nil {
		return nil, err
	}
	if cf == nil {
		cf = core.Default()
	}

	c := core.New(cf.New(seed))

	g, err := gen.NewScreenGenerator(c, &gs.ScreenSetting, &gs.SymbolSetting)
	if err != nil {
		return nil, err
	}
	sc, err := calc.NewScreenCalculator(&gs.ScreenSetting, &gs.SymbolSetting, &gs.BonusSetting)
	if err != nil {
		return nil, err
	}

	size := gs.ScreenSetting.ScreenSize
	e := &Engine{
		gameName: gs.GameName,
		setting:  gs,
		core:     c,
		gen:      g,
		calc:     sc,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		bet:      gs.BetCents,
		res:      buf.NewScoreResult(size),
		bonusRes: buf.NewScoreResult(size),
		out:      buf.NewSpinOutcome(size),
		initseed: seed,
	}
	return e, nil
}

// AttachWalletStore 掛上持久化介面，並立刻嘗試載入餘額。
// Load 失敗（ok=false）時引擎從 0 開始，不視為錯誤。
func (e *Engine) AttachWalletStore(ws WalletStore) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.store = ws
	if ws == nil {
		return
	}
	if balance, ok := ws.Load(); ok {
		e.wallet.Balance = balance
	}
}

// AttachPresenter 掛上展示層介面。nil 表示不通知。
func (e *Engine) AttachPresenter(p Presenter) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.present = p
}

// SetLogger 更換引擎 logger。預設丟棄所有輸出。
func (e *Engine) SetLogger(l *slog.Logger) {
	if l == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.log = l
}

// GameName 回傳設定檔中的遊戲名稱。
func (e *Engine) GameName() string { return e.gameName }

// InitSeed 回傳出生 seed。
func (e *Engine) InitSeed() int64 { return e.initseed }

// Wallet 回傳錢包的值快照。
func (e *Engine) Wallet() Wallet {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.wallet
}

// Bet 回傳目前的單次押注額（分）。
func (e *Engine) Bet() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.bet
}

// SetBet 設定單次押注額（分），必須為正整數。
func (e *Engine) SetBet(cents int) error {
	if cents < 1 {
		return errs.Wrap(errs.ErrInvalidArgument, "bet must be a positive integer")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.bet = cents
	return nil
}

// AddFunds 入金（分），必須為正整數。
func (e *Engine) AddFunds(cents int) error {
	if cents < 1 {
		return errs.Wrap(errs.ErrInvalidArgument, "deposit must be a positive integer")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.wallet.Balance += cents // 入金不計入 TotalWin
	e.saveWallet()
	return nil
}

// GenerateGrid 產生一張一般模式盤面並回傳獨立複本。
// 不扣款、不計分，供觀測與測試使用。
func (e *Engine) GenerateGrid() []int16 {
	e.mu.Lock()
	defer e.mu.Unlock()
	screen := e.gen.GenScreen()
	return append([]int16(nil), screen...)
}

// GenerateBonusGrid 依 Wild 疊加層產生一張 Bonus 盤面並回傳獨立複本。
// overlay 長度必須等於盤面大小，cell 值為該格 Wild 倍數（0 = 無 Wild）。
func (e *Engine) GenerateBonusGrid(overlay []int) ([]int16, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	screen, err := e.gen.GenScreenBonus(overlay)
	if err != nil {
		return nil, err
	}
	return append([]int16(nil), screen...), nil
}

// ScoreGrid 以目前押注額計分一張外部盤面，回傳獨立複本。
// 不扣款、不入帳，供觀測與回放使用。
func (e *Engine) ScoreGrid(screen []int16) (*buf.ScoreResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.calc.CalcScreen(screen, e.bet, nil, false, e.res); err != nil {
		return nil, err
	}
	return e.res.Clone(), nil
}

// ScoreGridWith 以指定押注額、Wild 疊加層與模式計分一張外部盤面，
// 回傳獨立複本。overlay 可為 nil；bonusMode 決定 Scatter 走免費轉
// 授予（一般模式）或 Retrigger 判定（Bonus 模式）。
// 不扣款、不入帳，供觀測與回放使用。
func (e *Engine) ScoreGridWith(screen []int16, bet int, overlay []int, bonusMode bool) (*buf.ScoreResult, error) {
	if bet < 1 {
		return nil, errs.Wrap(errs.ErrInvalidArgument, "bet must be a positive integer")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.calc.CalcScreen(screen, bet, overlay, bonusMode, e.res); err != nil {
		return nil, err
	}
	return e.res.Clone(), nil
}

// Snapshot 匯出亂數核心狀態，供任意局的重現。
func (e *Engine) Snapshot() ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.core.Snapshot()
}

// Restore 還原亂數核心狀態。
func (e *Engine) Restore(state []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.core.Restore(state)
}

// Spin 執行一次完整 Spin：扣款 → 生成 → 計分 → 入帳；
// 觸發免費轉時接著跑完整個 Bonus Session（Session 贏分於結束時一次入帳）。
//
// 驗證先於任何狀態變更：餘額不足時回傳 ErrInsufficientFunds 且錢包不變。
// 回傳的 SpinOutcome 為呼叫端獨佔複本。
func (e *Engine) Spin() (*buf.SpinOutcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	out, err := e.spin()
	if err != nil {
		return nil, err
	}
	snapshot := out.Clone()
	if e.present != nil {
		e.present.OnSpin(snapshot.Clone())
	}
	return snapshot, nil
}

// SpinInternal 與 Spin 相同，但回傳內部重用 buffer（下一次 Spin 會覆寫），
// 且不通知 Presenter。模擬器熱路徑專用。
func (e *Engine) SpinInternal() (*buf.SpinOutcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.spin()
}

func (e *Engine) spin() (*buf.SpinOutcome, error) {
	bet := e.bet
	if err := e.wallet.debit(bet); err != nil {
		return nil, err
	}

	out := e.out
	out.Reset()
	out.Bet = bet

	// 一般模式：生成 + 計分
	screen := e.gen.GenScreen()
	copy(out.Screen, screen)
	if err := e.calc.CalcScreen(screen, bet, nil, false, e.res); err != nil {
		return nil, err
	}
	copyScoreResult(out.Base, e.res)
	e.wallet.credit(e.res.TotalWin)

	// 免費轉觸發：跑完整個 Bonus Session，贏分一次入帳
	if e.res.FreeSpins > 0 {
		s := newBonusSession(e, e.res.FreeSpins)
		win, spins, err := s.run()
		if err != nil {
			return nil, err
		}
		out.BonusPlayed = true
		out.BonusSpins = spins
		out.BonusWin = win
		e.wallet.credit(win)
	}

	out.TotalWin = out.Base.TotalWin + out.BonusWin
	out.Balance = e.wallet.Balance
	e.saveWallet()
	return out, nil
}

// RunBonusSession 以指定的初始免費轉數直接啟動一個 Bonus Session，
// 回傳累積贏分與實際轉動次數。贏分於結束時一次入帳。
// 實驗與統計專用入口，不經過一般模式的觸發與扣款。
//
// 注意：Spin 觸發的 Session 已在 Spin 內跑完並入帳
// （SpinOutcome.BonusPlayed = true）。對這種結果再呼叫本方法
// 會形成重複入帳，呼叫端不可這麼做。
func (e *Engine) RunBonusSession(initialFreeSpins int) (win int, spins int, err error) {
	if initialFreeSpins < 1 {
		return 0, 0, errs.Wrap(errs.ErrInvalidArgument, "initial free spins must be a positive integer")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	s := newBonusSession(e, initialFreeSpins)
	win, spins, err = s.run()
	if err != nil {
		return 0, 0, err
	}
	e.wallet.credit(win)
	e.saveWallet()
	return win, spins, nil
}

// saveWallet best-effort 持久化：失敗記 log，不向呼叫端傳播。
func (e *Engine) saveWallet() {
	if e.store == nil {
		return
	}
	if err := e.store.Save(e.wallet.Balance); err != nil {
		e.log.Warn("wallet save failed", "game", e.gameName, "err", err)
	}
}

// copyScoreResult 將 src 內容覆寫進 dst，重用 dst 既有容量。
func copyScoreResult(dst, src *buf.ScoreResult) {
	dst.TotalWin = src.TotalWin
	dst.LineWins = append(dst.LineWins[:0], src.LineWins...)
	dst.Jackpot = src.Jackpot
	dst.ScatterCount = src.ScatterCount
	dst.FreeSpins = src.FreeSpins
	dst.RetriggerSpins = src.RetriggerSpins
	copy(dst.WinMask, src.WinMask)
}
