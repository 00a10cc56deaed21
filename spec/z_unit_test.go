package spec

import (
	"errors"
	"testing"

	"github.com/zintix-labs/reelcore/errs"
)

const testYAML = `
game_name: testgame
bet_cents: 100
screen_setting:
  columns: 5
  rows: 3
symbol_setting:
  symbol_used: ["H1", "H2", "L1", "L2", "C1"]
  weights: [2, 3, 8, 8, 1]
  pay_table:
    - [5, 20, 100]
    - [2.5, 10, 50]
    - [0.5, 1.5, 5]
    - [0.5, 1, 2.5]
    - [0, 0, 0]
bonus_setting:
  wild_cap: 10
`

func TestGetGameSettingByYAML(t *testing.T) {
	gs, err := GetGameSettingByYAML([]byte(testYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if gs.GameName != "testgame" || gs.BetCents != 100 {
		t.Fatalf("top level: %+v", gs)
	}
	if gs.ScreenSetting.ScreenSize != 15 {
		t.Fatalf("screen size: %d", gs.ScreenSetting.ScreenSize)
	}

	ss := &gs.SymbolSetting
	// 倍數 2.5 → 百分率整數 250
	if got := ss.Pay(1, 3); got != 250 {
		t.Fatalf("pay(H2,3) = %d", got)
	}
	// 長度夾到 5
	if got := ss.Pay(0, 9); got != 10000 {
		t.Fatalf("pay(H1,clamped) = %d", got)
	}
	if got := ss.Pay(0, 2); got != 0 {
		t.Fatalf("pay below min run = %d", got)
	}
	// 最高分符號 = 5連賠付最高的非 Scatter 符號
	if ss.TopSymbol != 0 {
		t.Fatalf("top symbol: %d", ss.TopSymbol)
	}
	if !ss.ScatterMask.Has(4) || ss.ScatterMask.Has(0) {
		t.Fatalf("scatter mask: %b", ss.ScatterMask)
	}

	// 預設策略值補齊
	bs := &gs.BonusSetting
	if bs.SpawnChance != 0.7 || bs.DoubleChance != 0.4 || bs.RetriggerAt != 3 || bs.RetriggerSpins != 2 {
		t.Fatalf("bonus defaults: %+v", bs)
	}
	if bs.WildCap != 10 {
		t.Fatalf("wild cap: %d", bs.WildCap)
	}
}

func TestSettingValidation(t *testing.T) {
	bad := func(name, y string) {
		t.Helper()
		_, err := GetGameSettingByYAML([]byte(y))
		if err == nil {
			t.Fatalf("%s: expected error", name)
		}
		if !errors.Is(err, errs.ErrInvalidConfig) {
			t.Fatalf("%s: expected ErrInvalidConfig, got %v", name, err)
		}
	}

	bad("zero rows", `
game_name: g
bet_cents: 1
screen_setting: {columns: 5, rows: 0}
symbol_setting:
  symbol_used: ["H1"]
  weights: [1]
  pay_table: [[2, 4, 8]]
`)
	bad("empty symbols", `
game_name: g
bet_cents: 1
screen_setting: {columns: 5, rows: 3}
symbol_setting: {symbol_used: [], weights: [], pay_table: []}
`)
	bad("bad pay row", `
game_name: g
bet_cents: 1
screen_setting: {columns: 5, rows: 3}
symbol_setting:
  symbol_used: ["H1"]
  weights: [1]
  pay_table: [[2, 4]]
`)
	bad("scatter pays", `
game_name: g
bet_cents: 1
screen_setting: {columns: 5, rows: 3}
symbol_setting:
  symbol_used: ["H1", "C1"]
  weights: [1, 1]
  pay_table: [[2, 4, 8], [1, 0, 0]]
`)
	bad("scatter only", `
game_name: g
bet_cents: 1
screen_setting: {columns: 5, rows: 3}
symbol_setting:
  symbol_used: ["C1"]
  weights: [1]
  pay_table: [[0, 0, 0]]
`)
	bad("zero weight", `
game_name: g
bet_cents: 1
screen_setting: {columns: 5, rows: 3}
symbol_setting:
  symbol_used: ["H1", "L1"]
  weights: [1, 0]
  pay_table: [[2, 4, 8], [1, 2, 4]]
`)
	bad("zero bet", `
game_name: g
bet_cents: 0
screen_setting: {columns: 5, rows: 3}
symbol_setting:
  symbol_used: ["H1"]
  weights: [1]
  pay_table: [[2, 4, 8]]
`)
}
