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
	"encoding/json"
	"net/http"

	"github.com/zintix-labs/reelcore/server/httperr"
	"github.com/zintix-labs/reelcore/spec"
)

type ConfigHandler struct {
	gs *spec.GameSetting
}

func NewConfigHandler(gs *spec.GameSetting) *ConfigHandler {
	return &ConfigHandler{gs: gs}
}

// Config 回傳目前載入的遊戲設定（可直接貼回 /v1/simbycfg 使用）
func (ch *ConfigHandler) Config(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(ch.gs); err != nil {
		httperr.Errs(w, err)
	}
}
