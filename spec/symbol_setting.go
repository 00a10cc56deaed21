package spec

import (
	"fmt"
	"math"

	"github.com/zintix-labs/reelcore/errs"
)

// 賠付表的三個欄位對應連線長度 3 / 4 / 5。
const (
	PayRunMin = 3
	PayRunMax = 5
	PayRunLen = PayRunMax - PayRunMin + 1
)

// SymbolSetting 統整一份設定中的所有符號，並記錄衍生屬性
// （類型、權重、平坦化賠付表、Scatter 遮罩、最高分符號等）。
//
// 盤面上的 int16 值是 SymbolUsed 的索引，不是 Symbol 枚舉值本身；
// 所有衍生表（權重、賠付、遮罩）都以該索引對齊。
//
// 賠付倍數在設定檔中以有理數書寫（例如 1.5），內部轉為百分率整數
// （hundredths）儲存；之後每一步乘法都以整數除法向零截斷，
// 確保金額永遠不會因捨入而多付。
type SymbolSetting struct {
	SymbolUsedStr []string    `yaml:"symbol_used"  json:"symbol_used"`
	Weights       []int       `yaml:"weights"      json:"weights"`
	PayTable      [][]float64 `yaml:"pay_table"    json:"pay_table"`

	SymbolUsed    []Symbol     `yaml:"-" json:"-"`
	SymbolTypes   []SymbolType `yaml:"-" json:"-"`
	SymbolCount   int          `yaml:"-" json:"-"`
	PayTableFlat  []int        `yaml:"-" json:"-"` // 百分率整數, CSR: PayTableIndex[i] + (len - PayRunMin)
	PayTableIndex []int        `yaml:"-" json:"-"`
	ScatterMask   SymbolMask   `yaml:"-" json:"-"`
	TopSymbol     int16        `yaml:"-" json:"-"` // 5連賠付最高的非 Scatter 符號索引
	initFlag      bool
}

// SymbolMask 以 bit 表示一組符號索引，索引 i 對應 bit (1 << i)。
type SymbolMask uint64

// Has 回傳索引 i 是否在遮罩內。
func (m SymbolMask) Has(i int16) bool { return m&(1<<uint(i)) != 0 }

// Init 檢查設定並賦值
func (ss *SymbolSetting) Init() error {
	// 檢查初始化旗標
	if ss.initFlag {
		return nil
	}
	if len(ss.SymbolUsedStr) == 0 {
		return errs.Wrap(errs.ErrInvalidConfig, "symbol_used is empty")
	}
	if len(ss.SymbolUsedStr) > 64 {
		return errs.Wrap(errs.ErrInvalidConfig, "symbol_used exceeds 64 symbols")
	}

	// 解析SymbolUsed
	ss.SymbolUsed = make([]Symbol, len(ss.SymbolUsedStr))
	for id, str := range ss.SymbolUsedStr {
		su, ok := ParseSymbol(str)
		if !ok {
			return errs.WrapWithExtra(errs.ErrInvalidConfig, "symbol_used has wrong elem", str)
		}
		ss.SymbolUsed[id] = su
	}
	ss.SymbolCount = len(ss.SymbolUsed)

	// 權重：每個符號一個正整數
	if len(ss.Weights) != ss.SymbolCount {
		return errs.Wrap(errs.ErrInvalidConfig, "len(weights) != len(symbol_used)")
	}
	for i, w := range ss.Weights {
		if w <= 0 {
			return errs.WrapWithExtra(errs.ErrInvalidConfig, "weights must be positive", ss.SymbolUsedStr[i])
		}
	}

	// 賠付表：每個符號一組 {3,4,5} 三連倍數
	if len(ss.PayTable) != ss.SymbolCount {
		return errs.Wrap(errs.ErrInvalidConfig, "len(pay_table) != len(symbol_used)")
	}
	ss.PayTableFlat = make([]int, ss.SymbolCount*PayRunLen)
	ss.PayTableIndex = make([]int, ss.SymbolCount)
	write := 0
	for rowIdx, payRow := range ss.PayTable {
		if len(payRow) != PayRunLen {
			return errs.WrapWithExtra(errs.ErrInvalidConfig, "pay_table row must list pays for runs 3/4/5", ss.SymbolUsedStr[rowIdx])
		}
		ss.PayTableIndex[rowIdx] = write
		for i, v := range payRow {
			if v < 0 {
				return errs.WrapWithExtra(errs.ErrInvalidConfig, "pay_table value must be >= 0", ss.SymbolUsedStr[rowIdx])
			}
			ss.PayTableFlat[write+i] = int(math.Round(v * 100))
		}
		write += PayRunLen
	}

	// 類型、Scatter 遮罩
	ss.SymbolTypes = make([]SymbolType, ss.SymbolCount)
	for i, s := range ss.SymbolUsed {
		ss.SymbolTypes[i] = s.GetSymbolType()
		if ss.SymbolTypes[i] == SymbolTypeScatter {
			ss.ScatterMask |= 1 << uint(i)
			// Scatter 不走線賠付，只觸發免費遊戲
			base := ss.PayTableIndex[i]
			for j := 0; j < PayRunLen; j++ {
				if ss.PayTableFlat[base+j] != 0 {
					return errs.WrapWithExtra(errs.ErrInvalidConfig, "scatter pay_table row must be all zero", ss.SymbolUsedStr[i])
				}
			}
		}
	}

	// Scatter 重抽要能終止：至少要有一個非 Scatter 符號
	if ss.ScatterMask == SymbolMask(1)<<uint(ss.SymbolCount)-1 {
		return errs.Wrap(errs.ErrInvalidConfig, "symbol_used must contain a non-scatter symbol")
	}

	// 最高分符號：5連賠付最高的非 Scatter 符號，設定期解析一次
	best, bestPay := int16(-1), -1
	for i := 0; i < ss.SymbolCount; i++ {
		if ss.ScatterMask.Has(int16(i)) {
			continue
		}
		if p := ss.PayTableFlat[ss.PayTableIndex[i]+(PayRunMax-PayRunMin)]; p > bestPay {
			best, bestPay = int16(i), p
		}
	}
	ss.TopSymbol = best

	// set 初始化旗標
	ss.initFlag = true
	return nil
}

// Pay 回傳符號 sym 在連線長度 runLen 的賠付倍數（百分率整數）。
// runLen 小於 3 回傳 0；大於 5 以 5 計。
func (ss *SymbolSetting) Pay(sym int16, runLen int) int {
	if runLen < PayRunMin || sym < 0 {
		return 0
	}
	if runLen > PayRunMax {
		runLen = PayRunMax
	}
	return ss.PayTableFlat[ss.PayTableIndex[sym]+(runLen-PayRunMin)]
}

// IndexOf 回傳符號字串在 SymbolUsed 的索引，不存在回傳 -1。
func (ss *SymbolSetting) IndexOf(name string) int16 {
	sym, ok := ParseSymbol(name)
	if !ok {
		return -1
	}
	for i, s := range ss.SymbolUsed {
		if s == sym {
			return int16(i)
		}
	}
	return -1
}

type Symbol int

const (
	// C系列圖標 : Scatter 圖標是分散符號
	C1 Symbol = iota // C系列圖標 : Scatter 圖標是分散符號
	C2               // C系列圖標 : Scatter 圖標是分散符號
	C3               // C系列圖標 : Scatter 圖標是分散符號

	// H系列圖標 : High 圖標是高分符號
	H1 // H系列圖標 : High 圖標是高分符號
	H2 // H系列圖標 : High 圖標是高分符號
	H3 // H系列圖標 : High 圖標是高分符號
	H4 // H系列圖標 : High 圖標是高分符號
	H5 // H系列圖標 : High 圖標是高分符號
	H6 // H系列圖標 : High 圖標是高分符號
	H7 // H系列圖標 : High 圖標是高分符號
	H8 // H系列圖標 : High 圖標是高分符號
	H9 // H系列圖標 : High 圖標是高分符號

	// L系列圖標 : Low 圖標是低分符號
	L1 // L系列圖標 : Low 圖標是低分符號
	L2 // L系列圖標 : Low 圖標是低分符號
	L3 // L系列圖標 : Low 圖標是低分符號
	L4 // L系列圖標 : Low 圖標是低分符號
	L5 // L系列圖標 : Low 圖標是低分符號
	L6 // L系列圖標 : Low 圖標是低分符號
	L7 // L系列圖標 : Low 圖標是低分符號
	L8 // L系列圖標 : Low 圖標是低分符號
	L9 // L系列圖標 : Low 圖標是低分符號
)

var symbolMap = map[string]Symbol{
	"C1": C1,
	"C2": C2,
	"C3": C3,
	"H1": H1,
	"H2": H2,
	"H3": H3,
	"H4": H4,
	"H5": H5,
	"H6": H6,
	"H7": H7,
	"H8": H8,
	"H9": H9,
	"L1": L1,
	"L2": L2,
	"L3": L3,
	"L4": L4,
	"L5": L5,
	"L6": L6,
	"L7": L7,
	"L8": L8,
	"L9": L9,
}

func ParseSymbol(s string) (Symbol, bool) {
	sym, ok := symbolMap[s]
	return sym, ok
}

// IsSymbolScatter 回傳符號是否屬於 Scatter 符號。
func IsSymbolScatter(s Symbol) bool { return (s >= C1) && (s <= C3) }

// IsSymbolHigh 回傳符號是否屬於高分符號。
func IsSymbolHigh(s Symbol) bool { return (s >= H1) && (s <= H9) }

// IsSymbolLow 回傳符號是否屬於低分符號。
func IsSymbolLow(s Symbol) bool { return (s >= L1) && (s <= L9) }

type SymbolType int

const (
	SymbolTypeScatter SymbolType = iota
	SymbolTypeHigh
	SymbolTypeLow
)

// GetSymbolType 依符號類別回傳對應的 SymbolType。
func (s Symbol) GetSymbolType() SymbolType {
	if IsSymbolScatter(s) {
		return SymbolTypeScatter
	}
	if IsSymbolHigh(s) {
		return SymbolTypeHigh
	}
	return SymbolTypeLow
}

// symbolNames 供 debug/DTO 輸出使用。
func (s Symbol) String() string {
	for k, v := range symbolMap {
		if v == s {
			return k
		}
	}
	return fmt.Sprintf("Symbol(%d)", int(s))
}
