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

package reelcore

import (
	"encoding/json"
	"os"

	"github.com/zintix-labs/reelcore/errs"
	"github.com/zintix-labs/reelcore/sdk/buf"
)

// Wallet 是引擎錢包的值快照。金額一律為整數分。
//
// 引擎對外只回傳複本，呼叫端修改快照不影響引擎內部狀態。
type Wallet struct {
	Balance  int `json:"balance"`   // 目前餘額（分）
	TotalBet int `json:"total_bet"` // 歷史總押注（分）
	TotalWin int `json:"total_win"` // 歷史總贏分（分）
}

// debit 先驗證再扣款；驗證失敗時錢包狀態不變。
func (w *Wallet) debit(amount int) error {
	if amount < 1 {
		return errs.Wrap(errs.ErrInvalidArgument, "debit amount must be a positive integer")
	}
	if w.Balance < amount {
		return errs.Wrap(errs.ErrInsufficientFunds, "balance lower than bet")
	}
	w.Balance -= amount
	w.TotalBet += amount
	return nil
}

// credit 入帳。amount 為 0 時無事發生（沒中獎的 Spin 不需要分支）。
func (w *Wallet) credit(amount int) {
	w.Balance += amount
	w.TotalWin += amount
}

// WalletStore 是錢包持久化的外部介面。
//
// 持久化是 best-effort：Load 失敗以 ok=false 表示（引擎從 0 開始），
// Save 的錯誤由引擎記錄後吞掉，永不向呼叫端傳播。
type WalletStore interface {
	Load() (balance int, ok bool)
	Save(balance int) error
}

// Presenter 是展示層的外部介面。
//
// 引擎在每次 Spin 結束、以及 Bonus Session 的每一轉之後通知 Presenter；
// 傳入的都是呼叫端獨佔的複本，Presenter 不提供任何輸入回核心。
type Presenter interface {
	OnSpin(out *buf.SpinOutcome)
	OnBonusSpin(spin int, res *buf.ScoreResult)
}

// FileWalletStore 是 WalletStore 的參考實作：單一 JSON 檔。
//
// 僅供本地實驗與範例使用，不處理並發寫入。
type FileWalletStore struct {
	Path string
}

func NewFileWalletStore(path string) *FileWalletStore {
	return &FileWalletStore{Path: path}
}

func (s *FileWalletStore) Load() (int, bool) {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		return 0, false
	}
	var w Wallet
	if err := json.Unmarshal(raw, &w); err != nil {
		return 0, false
	}
	return w.Balance, true
}

func (s *FileWalletStore) Save(balance int) error {
	raw, err := json.Marshal(Wallet{Balance: balance})
	if err != nil {
		return errs.Wrap(err, "marshal wallet snapshot")
	}
	if err := os.WriteFile(s.Path, raw, 0o644); err != nil {
		return errs.Wrap(err, "write wallet snapshot")
	}
	return nil
}
