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

package svrcfg

import (
	"log/slog"

	"github.com/zintix-labs/reelcore/errs"
	"github.com/zintix-labs/reelcore/server/logger"
	"github.com/zintix-labs/reelcore/spec"
)

type SvrCfg struct {
	Log     *slog.Logger
	Setting *spec.GameSetting
	// SimRoundCap 限制單次 HTTP 請求可模擬的局數上限（<=0 使用預設）
	SimRoundCap int
}

const defaultSimRoundCap = 1_000_000

func (sc *SvrCfg) Vaild() error {
	if sc.Log != nil {
		if ah, ok := sc.Log.Handler().(*logger.AsyncHandler); ok && !ah.Ready() {
			return errs.NewFatal("nil default log handler: async handler is nil")
		}
	} else {
		// 保持安靜、合法
		sc.Log, _ = logger.NewAsync(1024, logger.ModeDev)
	}

	if sc.Setting == nil {
		return errs.NewFatal("game setting is required")
	}
	if err := sc.Setting.Init(); err != nil {
		return errs.Wrap(err, "game setting invalid")
	}

	if sc.SimRoundCap <= 0 {
		sc.SimRoundCap = defaultSimRoundCap
	}
	return nil
}
