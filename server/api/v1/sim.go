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

package v1

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"net/http"
	"strconv"

	"github.com/zintix-labs/reelcore"
	"github.com/zintix-labs/reelcore/errs"
	"github.com/zintix-labs/reelcore/server/httperr"
	"github.com/zintix-labs/reelcore/server/svrcfg"
	"github.com/zintix-labs/reelcore/spec"
	"github.com/zintix-labs/reelcore/stats"
)

type SimHandler struct {
	gs       *spec.GameSetting
	roundCap int
}

func NewSimHandler(sCfg *svrcfg.SvrCfg) (*SimHandler, error) {
	if sCfg.Setting == nil {
		return nil, errs.NewFatal("game setting is required")
	}
	return &SimHandler{gs: sCfg.Setting, roundCap: sCfg.SimRoundCap}, nil
}

func (sh *SimHandler) Sim(w http.ResponseWriter, q *http.Request) {
	// 內部結構 不影響外部 也不被外部使用
	type SimRequestBody struct {
		Round  int    `json:"round"`
		Worker int    `json:"worker"`
		Seed   *int64 `json:"seed,omitempty"`
	}
	// 內部結構 不影響外部 也不被外部使用
	type SimResponse struct {
		Stats    *stats.StatReport `json:"stats"`
		UsedTime int64             `json:"used_ms"`
	}
	// ---
	req := new(SimRequestBody)
	if q.Method != http.MethodGet && q.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if q.Method == http.MethodGet {
		// round
		if r := q.URL.Query().Get("round"); r != "" {
			u, err := strconv.ParseInt(r, 10, 64)
			if err != nil {
				httperr.Errs(w, errs.NewWarn("round must be integer"))
				return
			}
			req.Round = int(u)
		} else {
			httperr.Errs(w, errs.NewWarn("round is required"))
			return
		}
		// worker（可省略，預設單工）
		if m := q.URL.Query().Get("worker"); m != "" {
			u, err := strconv.ParseInt(m, 10, 64)
			if err != nil {
				httperr.Errs(w, errs.NewWarn("worker must be integer"))
				return
			}
			req.Worker = int(u)
		}
		// seed
		if s := q.URL.Query().Get("seed"); s != "" {
			u, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				httperr.Errs(w, errs.NewWarn("seed must be int64"))
				return
			}
			v := u
			req.Seed = &v
		}
	}
	if q.Method == http.MethodPost {
		if err := json.NewDecoder(q.Body).Decode(req); err != nil {
			httperr.Errs(w, errs.NewWarn("invalid json:"+err.Error()))
			return
		}
	}
	// 業務檢驗
	if req.Round < 1 || req.Round > sh.roundCap {
		httperr.Errs(w, errs.NewWarn(fmt.Sprintf("round must be between 1 to %d", sh.roundCap)))
		return
	}
	if req.Worker < 0 {
		httperr.Errs(w, errs.NewWarn("worker must be non-negative integer"))
		return
	}
	if req.Seed == nil {
		rnd, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
		if err != nil {
			httperr.Errs(w, errs.NewWarn("seed generate failed"))
			return
		}
		v := rnd.Int64()
		req.Seed = &v
	}
	sim, err := reelcore.NewSimulatorWithSeed(sh.gs, nil, *req.Seed)
	if err != nil {
		// 這裡的錯誤來自引擎組裝 尊重錯誤分級
		httperr.Errs(w, errs.Wrap(err, "build simulator err"))
		return
	}
	var st *stats.StatReport
	var used int64
	if req.Worker <= 1 {
		r, dur, err := sim.Sim(req.Round, false)
		if err != nil {
			httperr.Errs(w, errs.Wrap(err, "simulate err"))
			return
		}
		st, used = r, dur.Milliseconds()
	} else {
		r, dur, err := sim.SimMP(req.Round, req.Worker, false)
		if err != nil {
			httperr.Errs(w, errs.Wrap(err, "simulate err"))
			return
		}
		st, used = r, dur.Milliseconds()
	}
	resp := SimResponse{
		Stats:    st,
		UsedTime: used,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (sh *SimHandler) SimPlayers(w http.ResponseWriter, q *http.Request) {
	// 內部結構 不影響外部 也不被外部使用
	type SimPlayerRequestBody struct {
		Player int    `json:"player"`
		Bets   int    `json:"bets"`
		Round  int    `json:"round"`
		Worker int    `json:"worker"`
		Seed   *int64 `json:"seed,omitempty"`
	}
	// 內部結構 不影響外部 也不被外部使用
	type SimPlayerResponse struct {
		Stats     *stats.StatReport       `json:"stats"`
		Estimator *stats.EstimatorPlayers `json:"est"`
		UsedTime  int64                   `json:"used_ms"`
	}
	// ---
	req := new(SimPlayerRequestBody)
	if q.Method != http.MethodGet && q.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if q.Method == http.MethodGet {
		var err error
		if req.Player, err = queryInt(q, "player"); err != nil {
			httperr.Errs(w, err)
			return
		}
		if req.Bets, err = queryInt(q, "bets"); err != nil {
			httperr.Errs(w, err)
			return
		}
		if req.Round, err = queryInt(q, "round"); err != nil {
			httperr.Errs(w, err)
			return
		}
		if m := q.URL.Query().Get("worker"); m != "" {
			u, err := strconv.ParseInt(m, 10, 64)
			if err != nil {
				httperr.Errs(w, errs.NewWarn("worker must be integer"))
				return
			}
			req.Worker = int(u)
		}
		if s := q.URL.Query().Get("seed"); s != "" {
			u, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				httperr.Errs(w, errs.NewWarn("seed must be int64"))
				return
			}
			v := u
			req.Seed = &v
		}
	}
	if q.Method == http.MethodPost {
		if err := json.NewDecoder(q.Body).Decode(req); err != nil {
			httperr.Errs(w, errs.NewWarn("invalid json:"+err.Error()))
			return
		}
	}
	// 業務檢驗
	if req.Player < 1 || req.Player > 100_000 {
		httperr.Errs(w, errs.NewWarn("player must be between 1 to 100,000"))
		return
	}
	if req.Bets < 1 {
		httperr.Errs(w, errs.NewWarn("bets must be positive"))
		return
	}
	if req.Round < 1 || req.Round > 15_000 {
		httperr.Errs(w, errs.NewWarn("round must be between 1 to 15,000"))
		return
	}
	if req.Worker < 1 {
		req.Worker = 1
	}
	if req.Seed == nil {
		rnd, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
		if err != nil {
			httperr.Errs(w, errs.NewWarn("seed generate failed"))
			return
		}
		v := rnd.Int64()
		req.Seed = &v
	}
	sim, err := reelcore.NewSimulatorWithSeed(sh.gs, nil, *req.Seed)
	if err != nil {
		httperr.Errs(w, errs.Wrap(err, "build simulator err"))
		return
	}
	st, est, used, err := sim.SimPlayers(req.Worker, req.Player, req.Bets, req.Round, false)
	if err != nil {
		httperr.Errs(w, errs.Wrap(err, "simulate err"))
		return
	}
	resp := SimPlayerResponse{
		Stats:     st,
		Estimator: est,
		UsedTime:  used.Milliseconds(),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// queryInt 解析必填的整數 query 參數
func queryInt(q *http.Request, key string) (int, error) {
	s := q.URL.Query().Get(key)
	if s == "" {
		return 0, errs.NewWarn(key + " is required")
	}
	u, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errs.NewWarn(key + " must be integer")
	}
	return int(u), nil
}
