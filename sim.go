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
	"crypto/rand"
	"io"
	"math"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/zintix-labs/reelcore/errs"
	"github.com/zintix-labs/reelcore/recorder"
	"github.com/zintix-labs/reelcore/sdk/core"
	"github.com/zintix-labs/reelcore/spec"
	"github.com/zintix-labs/reelcore/stats"
)

const capPrepare int = 100

// Simulator 用於模擬遊戲行為，可建立多台引擎並平行紀錄統計。
//
// 模擬引擎不掛 WalletStore / Presenter：每台引擎在開跑前注入
// rounds*bet 的資金，保證整段模擬不會碰到 InsufficientFunds
// （單局最大淨損失就是一次押注）。
type Simulator struct {
	GameName  string                   // 遊戲名稱
	initBets  int                      // 用戶帶的錢(以轉數設定)
	gs        *spec.GameSetting        // 方便重用建立紀錄員
	cf        core.PRNGFactory         // 亂數生成器
	initSeed  int64                    // 初始下的種子
	seedmaker *seedMaker               // 種子生成器
	mBuf      []*Engine                // 併發執行引擎實例
	rBuf      []*recorder.SpinRecorder // 併發遊戲紀錄員
	sBuf      []*stats.StatReport      // 併發統計結果報表(僅Players需要)
}

// NewSimulator 以「隨機 seed」建立 Simulator。
func NewSimulator(gs *spec.GameSetting, cf core.PRNGFactory) (*Simulator, error) {
	seed, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		return nil, err
	}
	return NewSimulatorWithSeed(gs, cf, seed.Int64())
}

// NewSimulatorWithSeed 以指定 seed 建立 Simulator。
// 後續所有引擎的 seed 都由此 seed 以固定算法派生，整段模擬可重現。
func NewSimulatorWithSeed(gs *spec.GameSetting, cf core.PRNGFactory, seed int64) (*Simulator, error) {
	if gs == nil {
		return nil, errs.Wrap(errs.ErrInvalidConfig, "game setting is nil")
	}
	if err := gs.Init(); err != nil {
		return nil, err
	}
	s := &Simulator{
		GameName:  gs.GameName,
		initBets:  0,
		gs:        gs,
		cf:        cf,
		initSeed:  seed,
		seedmaker: newSeedMaker(seed),
		mBuf:      make([]*Engine, 1, capPrepare),
		rBuf:      make([]*recorder.SpinRecorder, 0, capPrepare),
		sBuf:      make([]*stats.StatReport, 0, capPrepare),
	}
	e, err := NewEngineWithSeed(gs, cf, s.initSeed)
	if err != nil {
		return nil, err
	}
	s.mBuf[0] = e
	return s, nil
}

// Sim 單線模擬器：以一台引擎連續跑指定 round 並回傳統計結果與用時
func (s *Simulator) Sim(round int, showpb bool) (*stats.StatReport, time.Duration, error) {
	defer s.reset()
	if round < 1 {
		return nil, 0, errs.NewWarn("round must > 0")
	}
	if len(s.rBuf) == 0 {
		r, err := recorder.NewSpinRecorder(s.GameName, s.gs.BetCents, s.initBets)
		if err != nil {
			return nil, 0, err
		}
		s.rBuf = append(s.rBuf, r)
	}
	r := s.rBuf[0]
	e := s.mBuf[0]
	if err := s.fund(e, round); err != nil {
		return nil, 0, err
	}

	bar := pb.StartNew(round)
	if !showpb {
		bar.SetWriter(io.Discard)
	}
	for i := 0; i < round; i++ {
		out, err := e.SpinInternal()
		if err != nil {
			return nil, 0, err
		}
		r.Record(out)
		bar.Increment()
	}
	used := time.Since(bar.StartTime())
	bar.Finish()
	result := r.Done()
	result.Done()

	return result, used, nil
}

// SimMP 平行執行多個引擎，總計 rounds*mp 次 spin，合併統計結果後 回傳統計結果與用時
func (s *Simulator) SimMP(rounds int, mp int, showpb bool) (*stats.StatReport, time.Duration, error) {
	defer s.reset()
	if mp <= 0 {
		return nil, 0, errs.NewWarn("workers must > 0")
	}
	if rounds < 1 {
		return nil, 0, errs.NewWarn("round must > 0")
	}
	if err := s.prepareEngines(mp, rounds); err != nil {
		return nil, 0, err
	}
	for len(s.rBuf) < mp {
		r, err := recorder.NewSpinRecorder(s.GameName, s.gs.BetCents, s.initBets)
		if err != nil {
			return nil, 0, err
		}
		s.rBuf = append(s.rBuf, r)
	}

	wg := new(sync.WaitGroup)
	wg.Add(mp)
	bar := pb.StartNew(rounds * mp)
	if !showpb {
		bar.SetWriter(io.Discard)
	}
	var errMu sync.Mutex
	var firstErr error
	for i := 0; i < mp; i++ {
		go func(i int) {
			defer wg.Done()
			e := s.mBuf[i]
			st := s.rBuf[i]
			for r := 0; r < rounds; r++ {
				out, err := e.SpinInternal()
				if err != nil {
					errMu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					errMu.Unlock()
					return
				}
				st.Record(out)
				bar.Increment()
			}
		}(i)
	}
	wg.Wait()
	used := time.Since(bar.StartTime())
	bar.Finish()
	if firstErr != nil {
		return nil, 0, firstErr
	}

	st, err := recorder.MergeSpinRecorder(s.rBuf)
	if err != nil {
		return nil, 0, err
	}
	result := st.Done()
	result.Done()

	return result, used, nil
}

// SimPlayers 模擬多個玩家各自帶入初始籌碼的遊戲歷程，並產出引擎報表與玩家報表。
func (s *Simulator) SimPlayers(mp int, players int, initBets int, rounds int, showpb bool) (*stats.StatReport, *stats.EstimatorPlayers, time.Duration, error) {
	defer s.reset()
	if players < 1 || initBets < 1 || rounds < 1 || mp < 1 {
		return nil, nil, 0, errs.NewWarn("invalid param")
	}
	s.initBets = initBets // 賦值

	// 準備並行引擎：每台最多接手 players 全部的局數
	if err := s.prepareEngines(mp, players*rounds); err != nil {
		return nil, nil, 0, err
	}

	// 準備玩家
	s.sBuf = make([]*stats.StatReport, players)
	for len(s.rBuf) < players {
		r, err := recorder.NewSpinRecorder(s.GameName, s.gs.BetCents, s.initBets)
		if err != nil {
			return nil, nil, 0, err
		}
		s.rBuf = append(s.rBuf, r)
	}
	// 作一個2048大小的緩衝channel 使player依序處理
	jobs := make(chan *recorder.SpinRecorder, 2048)

	wg := new(sync.WaitGroup)
	wg.Add(mp) // 併發引擎

	bar := pb.StartNew(players)
	if !showpb {
		bar.SetWriter(io.Discard)
	}
	// 併發執行
	for w := 0; w < mp; w++ {
		go sim(wg, s.mBuf[w], jobs, rounds, bar)
	}
	// 此時併發已經啟動，但由於所有workers都無法從jobs當中取出j(還沒塞進去) 所以不會結束

	// 塞進玩家，開始模擬
	for _, j := range s.rBuf {
		jobs <- j
	}
	close(jobs) // 玩家送完處理完畢關閉通道 通知所有引擎不會再有新資料
	wg.Wait()   // 等待引擎都執行完任務
	used := time.Since(bar.StartTime())
	bar.Finish()

	// 引擎基準報表
	record, err := recorder.MergeSpinRecorder(s.rBuf)
	if err != nil {
		return nil, nil, 0, err
	}
	st := record.Done()
	st.Done()

	// 玩家分析報表
	for i, r := range s.rBuf {
		s.sBuf[i] = r.Done()
		s.sBuf[i].Done()
	}
	est := stats.EstimatorPlayerExp(s.sBuf)
	return st, est, used, nil
}

func sim(wg *sync.WaitGroup, e *Engine, jobs chan *recorder.SpinRecorder, rounds int, bar *pb.ProgressBar) {
	defer wg.Done()
	for j := range jobs { // j := <- jobs
		for range rounds {
			out, err := e.SpinInternal()
			if err != nil {
				break
			}
			if j.RecordWithPlayer(out) {
				break
			}
		}
		bar.Increment()
	}
}

// prepareEngines 擴充引擎池到 mp 台並各自注資 rounds 局的本金。
func (s *Simulator) prepareEngines(mp int, rounds int) error {
	for len(s.mBuf) < mp {
		e, err := NewEngineWithSeed(s.gs, s.cf, s.seedmaker.next())
		if err != nil {
			return err
		}
		s.mBuf = append(s.mBuf, e)
	}
	for _, e := range s.mBuf[:mp] {
		if err := s.fund(e, rounds); err != nil {
			return err
		}
	}
	return nil
}

// fund 保證引擎錢包足以撐完 rounds 局（單局最大淨損失為一次押注）。
func (s *Simulator) fund(e *Engine, rounds int) error {
	need := rounds * e.Bet()
	if have := e.Wallet().Balance; have < need {
		return e.AddFunds(need - have)
	}
	return nil
}

func (s *Simulator) reset() {
	s.rBuf = s.rBuf[:0]
	s.sBuf = s.sBuf[:0]
	s.initBets = 0
}

const mask63 = uint64(1<<63) - 1

type seedMaker struct {
	state atomic.Uint64 // always in [0, 2^63)
}

func newSeedMaker(seed int64) *seedMaker {
	s := &seedMaker{}
	s.state.Store(uint64(seed) & mask63)
	return s
}

// state 走全週期（不重複），再用可逆 mix63 打散
//
// 注意：此方法可能在併發環境下被多 goroutines 同時呼叫（例如 SimMP / SimPlayers）。
// 因此 state 的推進必須是原子的：
//   - 使用 CAS（Compare-And-Swap）迴圈確保每次呼叫都會取得唯一的下一個 state。
//   - 回傳值使用推進後的 state 經 mix63 打散後的結果。
func (s *seedMaker) next() int64 {
	for {
		old := s.state.Load()                                            // always masked
		next := (old*6364136223846793005 + 1442695040888963407) & mask63 // full-period LCG mod 2^63
		if s.state.CompareAndSwap(old, next) {
			return int64(mix63(next)) // 一定非負
		}
	}
}

// mix63：只用「可逆」的 bit 操作 + 乘奇數（mod 2^63）
func mix63(x uint64) uint64 {
	x &= mask63
	x ^= x >> 30
	x = (x * 0xBF58476D1CE4E5B9) & mask63 // 乘奇數 ⇒ mod 2^63 可逆
	x ^= x >> 27
	x = (x * 0x94D049BB133111EB) & mask63
	x ^= x >> 31
	return x & mask63
}
