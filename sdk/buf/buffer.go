package buf

const capLineGrow int = 16

// LineWin 紀錄單一線的中獎結果。
//
// StartCell / EndCell 為平坦盤面索引（row*cols+col）；
// EndCell 由 StartCell 沿方向向量推 (Length-1) 步而得。
type LineWin struct {
	LineID    int   // 線表ID
	Symbol    int16 // 目標符號（賠付表索引）
	Length    int   // 連線長度 3..5
	Win       int   // 中獎金額（分），已含 Wild 倍數
	StartCell int
	EndCell   int
}

// ScoreResult 保存一次盤面計分的完整結果。
//
// 計分器重複使用同一個 ScoreResult 累積（避免熱路徑配置）；
// 對外輸出時由引擎複製成呼叫端獨佔的快照。
//
// Bonus 專用欄位（RetriggerSpins）在一般模式恆為 0；
// 一般模式專用欄位（FreeSpins）在 Bonus 模式恆為 0。
type ScoreResult struct {
	TotalWin       int       // 總贏分（分）
	LineWins       []LineWin // 各中獎線
	Jackpot        bool      // 最高分符號 5 連
	ScatterCount   int       // 全盤面 Scatter 數
	FreeSpins      int       // 一般模式觸發的免費轉數
	RetriggerSpins int       // Bonus 模式追加的轉數
	WinMask        []uint8   // 中獎線覆蓋格，1 = 該格屬於某條中獎線
}

// NewScoreResult 依盤面大小建立結果緩衝。
func NewScoreResult(screenSize int) *ScoreResult {
	return &ScoreResult{
		LineWins: make([]LineWin, 0, capLineGrow),
		WinMask:  make([]uint8, screenSize),
	}
}

// Reset 重置累積資料，保留已配置的內部切片容量。
func (r *ScoreResult) Reset() {
	r.TotalWin = 0
	r.LineWins = r.LineWins[:0]
	r.Jackpot = false
	r.ScatterCount = 0
	r.FreeSpins = 0
	r.RetriggerSpins = 0
	for i := range r.WinMask {
		r.WinMask[i] = 0
	}
}

// RecordLine 累積一條中獎線。win 為 0 的線不應呼叫本方法。
func (r *ScoreResult) RecordLine(lw LineWin) {
	r.TotalWin += lw.Win
	r.LineWins = append(r.LineWins, lw)
}

// Clone 回傳呼叫端獨佔的完整拷貝。
func (r *ScoreResult) Clone() *ScoreResult {
	out := &ScoreResult{
		TotalWin:       r.TotalWin,
		LineWins:       append([]LineWin(nil), r.LineWins...),
		Jackpot:        r.Jackpot,
		ScatterCount:   r.ScatterCount,
		FreeSpins:      r.FreeSpins,
		RetriggerSpins: r.RetriggerSpins,
		WinMask:        append([]uint8(nil), r.WinMask...),
	}
	return out
}

// SpinOutcome 保存一次完整 Spin（含觸發的 Bonus Session）的對外結果。
//
// 引擎內部重複使用同一個 SpinOutcome（熱路徑）；
// 公開 API 回傳的是 Clone 出來的快照，呼叫端可任意持有。
type SpinOutcome struct {
	Bet         int          // 本次押注（分）
	Screen      []int16      // 一般模式盤面快照
	Base        *ScoreResult // 一般模式計分結果
	BonusPlayed bool         // 是否觸發並執行了 Bonus Session
	BonusSpins  int          // Bonus Session 實際轉動次數（含 Retrigger）
	BonusWin    int          // Bonus Session 累積贏分（分）
	TotalWin    int          // Base + Bonus 總贏分（分）
	Balance     int          // 結算後的錢包餘額（分）
}

// NewSpinOutcome 依盤面大小建立可重用的結果緩衝。
func NewSpinOutcome(screenSize int) *SpinOutcome {
	return &SpinOutcome{
		Screen: make([]int16, screenSize),
		Base:   NewScoreResult(screenSize),
	}
}

// Reset 重置累積資料，保留已配置的內部切片容量。
func (o *SpinOutcome) Reset() {
	o.Bet = 0
	for i := range o.Screen {
		o.Screen[i] = 0
	}
	o.Base.Reset()
	o.BonusPlayed = false
	o.BonusSpins = 0
	o.BonusWin = 0
	o.TotalWin = 0
	o.Balance = 0
}

// Clone 回傳呼叫端獨佔的完整拷貝。
func (o *SpinOutcome) Clone() *SpinOutcome {
	return &SpinOutcome{
		Bet:         o.Bet,
		Screen:      append([]int16(nil), o.Screen...),
		Base:        o.Base.Clone(),
		BonusPlayed: o.BonusPlayed,
		BonusSpins:  o.BonusSpins,
		BonusWin:    o.BonusWin,
		TotalWin:    o.TotalWin,
		Balance:     o.Balance,
	}
}
