package spec

import "github.com/zintix-labs/reelcore/errs"

// 免費遊戲（Bonus Session）的預設策略值。
const (
	defaultSpawnChance    = 0.7
	defaultDoubleChance   = 0.4
	defaultRetriggerAt    = 3
	defaultRetriggerSpins = 2
)

// BonusSetting 描述免費遊戲工作階段的策略值。
//
// Fields:
//   - SpawnChance: 每一轉是否生成新 Wild 的機率閘門。
//   - DoubleChance: 通過閘門後，一次生成 2 顆（而非 1 顆）Wild 的機率。
//   - RetriggerAt: 盤面 Scatter 數達到此值即追加轉數。
//   - RetriggerSpins: 每次 Retrigger 追加的轉數。
//   - WildCap: Wild 倍數上限；0 代表不設上限。
//
// 零值欄位在 Init 時補上預設策略，讓既有設定檔不必逐項列出。
type BonusSetting struct {
	SpawnChance    float64 `yaml:"spawn_chance"    json:"spawn_chance"`
	DoubleChance   float64 `yaml:"double_chance"   json:"double_chance"`
	RetriggerAt    int     `yaml:"retrigger_at"    json:"retrigger_at"`
	RetriggerSpins int     `yaml:"retrigger_spins" json:"retrigger_spins"`
	WildCap        int     `yaml:"wild_cap"        json:"wild_cap"`
	initFlag       bool
}

// Init 補上預設值並檢查範圍。
func (bs *BonusSetting) Init() error {
	if bs.initFlag {
		return nil
	}
	if bs.SpawnChance == 0 {
		bs.SpawnChance = defaultSpawnChance
	}
	if bs.DoubleChance == 0 {
		bs.DoubleChance = defaultDoubleChance
	}
	if bs.RetriggerAt == 0 {
		bs.RetriggerAt = defaultRetriggerAt
	}
	if bs.RetriggerSpins == 0 {
		bs.RetriggerSpins = defaultRetriggerSpins
	}

	if bs.SpawnChance < 0 || bs.SpawnChance > 1 {
		return errs.Wrap(errs.ErrInvalidConfig, "spawn_chance must be in [0,1]")
	}
	if bs.DoubleChance < 0 || bs.DoubleChance > 1 {
		return errs.Wrap(errs.ErrInvalidConfig, "double_chance must be in [0,1]")
	}
	if bs.RetriggerAt < 1 {
		return errs.Wrap(errs.ErrInvalidConfig, "retrigger_at must be >= 1")
	}
	if bs.RetriggerSpins < 0 {
		return errs.Wrap(errs.ErrInvalidConfig, "retrigger_spins must be >= 0")
	}
	if bs.WildCap < 0 {
		return errs.Wrap(errs.ErrInvalidConfig, "wild_cap must be >= 0 (0 = unbounded)")
	}
	bs.initFlag = true
	return nil
}
