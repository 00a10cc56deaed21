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

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zintix-labs/reelcore/configs"
	"github.com/zintix-labs/reelcore/server"
	"github.com/zintix-labs/reelcore/server/logger"
	"github.com/zintix-labs/reelcore/server/svrcfg"
	"github.com/zintix-labs/reelcore/spec"
)

// This command is intentionally a "lab server" entrypoint: it serves the
// loaded game setting with spin/sim endpoints for math verification.
// For production deployments, use a separate scaffold project and run ModeProd.
func main() {
	cfg, err := loadConfigFromFlags()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	server.Run(cfg)
}

type config struct {
	CfgPath  string
	LogMode  string
	RoundCap int
}

func loadConfigFromFlags() (*svrcfg.SvrCfg, error) {
	cfg := new(config)
	flag.StringVar(&cfg.CfgPath, "config", "", "game setting file (yaml/json); empty = built-in demo game")
	flag.StringVar(&cfg.LogMode, "log-mode", "ModeDev", "log mode: ModeDev|ModeProd|ModeSilence")
	flag.IntVar(&cfg.RoundCap, "round-cap", 0, "max rounds per sim request (0 = default)")

	flag.Parse()

	log, _ := logger.NewAsync(4096, cfg.norm())

	gs, err := loadSetting(cfg.CfgPath)
	if err != nil {
		return nil, err
	}
	sCfg := &svrcfg.SvrCfg{
		Log:         log,
		Setting:     gs,
		SimRoundCap: cfg.RoundCap,
	}
	return sCfg, nil
}

func loadSetting(path string) (*spec.GameSetting, error) {
	if path == "" {
		return spec.GetGameSettingByFS(configs.FS, configs.DefaultGame)
	}
	dir, file := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	return spec.GetGameSettingByFS(os.DirFS(dir), file)
}

func (cfg *config) norm() logger.LogMode {
	switch cfg.LogMode {
	case "ModeDev":
		return logger.ModeDev
	case "ModeProd":
		return logger.ModeProd
	case "ModeSilence":
		return logger.ModeSilence
	default:
		return logger.ModeDev
	}
}
