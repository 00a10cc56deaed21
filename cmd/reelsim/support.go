package main

import (
	"crypto/rand"
	"flag"
	"log"
	"math"
	"math/big"
	"os"
	"path/filepath"

	"github.com/zintix-labs/reelcore"
	"github.com/zintix-labs/reelcore/configs"
	"github.com/zintix-labs/reelcore/sdk/core"
	"github.com/zintix-labs/reelcore/spec"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var cfg *config = new(config)

type config struct {
	cfgPath   string
	worker    int
	player    int
	bets      int
	spins     int
	seed      int64
	pprofmode string
}

func bindVar() {
	// 綁定 Flag 到本地變數的指標 (&)
	flag.StringVar(&cfg.cfgPath, "config", "", "game config path (.yaml/.json); empty = embedded default")
	flag.IntVar(&cfg.worker, "worker", 1, "number of workers")
	flag.IntVar(&cfg.player, "player", 1, "number of players")
	flag.IntVar(&cfg.bets, "bets", 200, "initial bets")
	flag.IntVar(&cfg.spins, "spins", 10000000, "spins per player")
	flag.Int64Var(&cfg.seed, "seed", -1, "int64 seed for random number generator")
	flag.StringVar(&cfg.pprofmode, "p", "", "pprof: '', cpu, heap, allocs")

	flag.Parse()

	// given seed illeagel -> default seed
	if cfg.seed < 1 {
		seed, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
		if err != nil {
			log.Fatal(err)
		}
		cfg.seed = seed.Int64()
	}
}

// loadSetting 由 -config 指定路徑載入設定；未指定時用內建預設設定。
func loadSetting() *spec.GameSetting {
	if cfg.cfgPath == "" {
		gs, err := spec.GetGameSettingByFS(configs.FS, configs.DefaultGame)
		if err != nil {
			log.Fatal(err)
		}
		return gs
	}
	dir, file := filepath.Split(cfg.cfgPath)
	if dir == "" {
		dir = "."
	}
	gs, err := spec.GetGameSettingByFS(os.DirFS(dir), file)
	if err != nil {
		log.Fatal(err)
	}
	return gs
}

// 這裡解析並分支要執行的模擬器
func executeSimulator() { // 取得spin數
	cfg.valid() // 基本檢查

	gs := loadSetting()
	s, err := reelcore.NewSimulatorWithSeed(gs, core.Default(), cfg.seed)
	if err != nil {
		log.Fatal(err)
	}
	// 至此確保可執行
	green := "\033[1;32m"
	reset := "\033[0m"
	p := message.NewPrinter(language.English)

	if cfg.player == 1 { // 純機台模擬
		if cfg.worker == 1 { // 單線程
			p.Printf("%s[GAME:%s] [BET:%d] [SPINS:%d]%s\n", green, gs.GameName, gs.BetCents, cfg.spins, reset)
			st, used, err := s.Sim(cfg.spins, true)
			if err != nil {
				log.Fatal(err)
			}
			st.StdOut(used)
		} else {
			p.Printf("%s[WORKERS:%d] [GAME:%s] [BET:%d] [SPINS:%d]%s\n", green, cfg.worker, gs.GameName, gs.BetCents, cfg.worker*cfg.spins, reset)
			st, used, err := s.SimMP(cfg.spins, cfg.worker, true) // 併發
			if err != nil {
				log.Fatal(err)
			}
			st.StdOut(used)
		}
	} else { // 模擬多玩家體驗
		p.Printf("%s[WORKERS:%d] [GAME:%s] [PLAYERS:%d BALANCE:%d SPINS:%d]%s\n", green, cfg.worker, gs.GameName, cfg.player, cfg.bets, cfg.spins, reset)
		st, est, used, err := s.SimPlayers(cfg.worker, cfg.player, cfg.bets, cfg.spins, true)
		if err != nil {
			log.Fatal(err)
		}
		st.StdOut(used)
		est.Out()
	}
}

func (cfg *config) valid() {
	p := message.NewPrinter(language.English)

	// 工作協程檢查(併發數)
	if cfg.worker < 1 {
		log.Fatal("value err : workers must > 0")
	}

	// 玩家檢查
	// 玩家數量 > 0
	if cfg.player < 1 {
		log.Fatal("value err : player must > 0")
	}
	// 玩家數量太多 resize
	if cfg.player > 100000 {
		p.Printf("too much players: %d resized to 100k players\n", cfg.player)
		cfg.player = 100000
	}

	// 模擬玩家行為的時候，玩家帶入資金不能<1
	if cfg.player > 1 && cfg.bets < 1 {
		log.Fatal("value err : balance must >= 1")
	}

	// 轉數檢查
	if cfg.spins < 1 {
		log.Fatal("value err : spins must > 0")
	}

	// 模擬玩家的時候，每個玩家最高不超過15000轉(無意義)
	// 對一個玩家來說 1500轉約1hr 15000轉約10小時 體驗已經轉為長期，直接模擬長局數機台即可
	if cfg.player > 1 && cfg.spins > 15000 {
		p.Printf("too much spins for each players : %d resized to 15k spins for each player\n", cfg.spins)
		cfg.spins = 15000
	}
}
