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
	"math"
	"math/big"
	"net/http"
	"strconv"

	"github.com/zintix-labs/reelcore"
	"github.com/zintix-labs/reelcore/corefmt"
	"github.com/zintix-labs/reelcore/dto"
	"github.com/zintix-labs/reelcore/errs"
	"github.com/zintix-labs/reelcore/server/httperr"
	"github.com/zintix-labs/reelcore/server/svrcfg"
	"github.com/zintix-labs/reelcore/spec"
)

// SpinHandler 以「每請求一台短命引擎」的方式提供單次 Spin。
//
// 合約（contract）：
//   - 不持有錢包狀態：每次請求注入恰好一注的資金，回應後引擎即丟棄。
//   - Seed/Snap 互斥，Snap 優先：帶 snap（base64url）時以 Restore 起始，
//     回應內的 core_snap 為「本次 Spin 前」的快照，貼回即可重放同一局。
type SpinHandler struct {
	gs *spec.GameSetting
}

func NewSpinHandler(sCfg *svrcfg.SvrCfg) (*SpinHandler, error) {
	if sCfg.Setting == nil {
		return nil, errs.NewFatal("game setting is required")
	}
	return &SpinHandler{gs: sCfg.Setting}, nil
}

func (sh *SpinHandler) Spin(w http.ResponseWriter, q *http.Request) {
	// 內部結構 不影響外部 也不被外部使用
	type SpinRequestBody struct {
		Bet  int    `json:"bet"`
		Seed *int64 `json:"seed,omitempty"`
		Snap string `json:"snap,omitempty"`
	}
	// ---
	req := new(SpinRequestBody)
	if q.Method != http.MethodGet && q.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if q.Method == http.MethodGet {
		// bet（可省略，預設為設定檔注額）
		if s := q.URL.Query().Get("bet"); s != "" {
			u, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				httperr.Errs(w, errs.NewWarn("bet must be integer"))
				return
			}
			req.Bet = int(u)
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
		// snap
		req.Snap = q.URL.Query().Get("snap")
	}
	if q.Method == http.MethodPost {
		if err := json.NewDecoder(q.Body).Decode(req); err != nil {
			httperr.Errs(w, errs.NewWarn("invalid json:"+err.Error()))
			return
		}
	}
	// 業務檢驗
	if req.Bet == 0 {
		req.Bet = sh.gs.BetCents
	}
	if req.Bet < 1 {
		httperr.Errs(w, errs.NewWarn("bet must be positive"))
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

	e, err := reelcore.NewEngineWithSeed(sh.gs, nil, *req.Seed)
	if err != nil {
		httperr.Errs(w, errs.Wrap(err, "build engine err"))
		return
	}
	if err := e.SetBet(req.Bet); err != nil {
		httperr.Errs(w, err)
		return
	}
	// Snap 優先於 Seed
	if req.Snap != "" {
		state, err := corefmt.DecodeBase64URL(req.Snap)
		if err != nil {
			httperr.Errs(w, errs.NewWarn("snap must be base64url"))
			return
		}
		if err := e.Restore(state); err != nil {
			httperr.Errs(w, errs.Wrap(err, "restore snap err"))
			return
		}
	}
	// Spin 前快照：回應帶回去即可重放同一局
	snapBefore, err := e.Snapshot()
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	if err := e.AddFunds(e.Bet()); err != nil {
		httperr.Errs(w, err)
		return
	}
	out, err := e.Spin()
	if err != nil {
		httperr.Errs(w, err)
		return
	}

	resp, err := dto.NewSpinOutcome(e.GameName(), out, snapBefore)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		httperr.Errs(w, err)
		return
	}
}
