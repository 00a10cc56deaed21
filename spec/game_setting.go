package spec

import (
	"github.com/zintix-labs/reelcore/errs"
)

// GameSetting 包含啟動一個機台所需的所有高階設定。
//
// 金額一律為整數分（cents）。
type GameSetting struct {
	GameName      string        `yaml:"game_name"      json:"game_name"`
	BetCents      int           `yaml:"bet_cents"      json:"bet_cents"`
	ScreenSetting ScreenSetting `yaml:"screen_setting" json:"screen_setting"`
	SymbolSetting SymbolSetting `yaml:"symbol_setting" json:"symbol_setting"`
	BonusSetting  BonusSetting  `yaml:"bonus_setting"  json:"bonus_setting"`
}

// init
func (gs *GameSetting) init() error {
	if err := gs.ScreenSetting.Init(); err != nil {
		return err
	}
	if err := gs.SymbolSetting.Init(); err != nil {
		return err
	}
	if err := gs.BonusSetting.Init(); err != nil {
		return err
	}
	return gs.valid()
}

// valid 執行最基本的設定檔檢查，如需更多驗證可在此擴充。
func (gs *GameSetting) valid() error {
	if gs.BetCents < 1 {
		return errs.WrapWithExtra(errs.ErrInvalidConfig, "bet_cents must be a positive integer", gs.GameName)
	}
	return nil
}

// Init 對外提供冪等初始化，讓手組設定（非經由 YAML/JSON 載入）也能走同一套檢查。
func (gs *GameSetting) Init() error {
	return gs.init()
}
