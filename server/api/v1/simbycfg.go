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

	"github.com/zintix-labs/reelcore"
	"github.com/zintix-labs/reelcore/errs"
	"github.com/zintix-labs/reelcore/server/httperr"
	"github.com/zintix-labs/reelcore/spec"
	"github.com/zintix-labs/reelcore/stats"
)

// SetByJson 傳入 JSON設定格式 以及希望模擬的局數
func (sh *SimHandler) SetByJson(w http.ResponseWriter, r *http.Request) {
	type SimRequestByJson struct {
		Rounds      int             `json:"round"`
		Worker      int             `json:"worker"`
		GameSetting json.RawMessage `json:"cfg"`
		Seed        *int64          `json:"seed,omitempty"`
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// 1. decode request
	req := new(SimRequestByJson)
	r.Body = http.MaxBytesReader(w, r.Body, 5<<20) // 5MB
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		httperr.Errs(w, errs.Wrap(err, "json decode failed"))
		return
	}

	// 2. vaild rounds
	if req.Rounds < 1 || req.Rounds > sh.roundCap {
		httperr.Errs(w, errs.NewWarn("round out of range"))
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

	// 3. 解析遊戲設定（Init 由 NewSimulator 內執行）
	gs, err := spec.GetGameSettingByJSON(req.GameSetting)
	if err != nil {
		httperr.Errs(w, err)
		return
	}

	// 4. NewSimulator
	sim, err := reelcore.NewSimulatorWithSeed(gs, nil, *req.Seed)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	var result *stats.StatReport
	if req.Worker <= 1 {
		result, _, err = sim.Sim(req.Rounds, false)
	} else {
		result, _, err = sim.SimMP(req.Rounds, req.Worker, false)
	}
	if err != nil {
		httperr.Errs(w, err)
		return
	}

	// 5. 回傳Json
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
