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

package recorder

import (
	"bufio"
	"encoding/json"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/zintix-labs/reelcore/dto"
	"github.com/zintix-labs/reelcore/errs"
)

// Journal 把每次 SpinOutcome 以 JSONL 寫入 zstd 壓縮串流，
// 供離線回放與分析。
//
// 落盤是 best-effort 的旁路：寫入失敗應由呼叫端記 log 後繼續，
// 不影響遊戲主流程。單 goroutine 使用。
type Journal struct {
	zw  *zstd.Encoder
	bw  *bufio.Writer
	enc *json.Encoder
}

// NewJournal 在 w 上建立 journal。呼叫端負責 w 的生命週期；
// Close 只會 flush 並結束壓縮串流，不會關閉 w。
func NewJournal(w io.Writer) (*Journal, error) {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return nil, errs.Wrap(err, "new zstd writer")
	}
	bw := bufio.NewWriter(zw)
	return &Journal{
		zw:  zw,
		bw:  bw,
		enc: json.NewEncoder(bw), // Encode 自帶換行，天然 JSONL
	}, nil
}

// Append 寫入一筆 SpinOutcome。
func (j *Journal) Append(out dto.SpinOutcome) error {
	if err := j.enc.Encode(out); err != nil {
		return errs.Wrap(err, "journal append")
	}
	return nil
}

// Close flush 所有緩衝並結束壓縮串流。Close 後不可再 Append。
func (j *Journal) Close() error {
	if err := j.bw.Flush(); err != nil {
		return errs.Wrap(err, "journal flush")
	}
	if err := j.zw.Close(); err != nil {
		return errs.Wrap(err, "journal close")
	}
	return nil
}

// ReadJournal 解開 zstd 串流並逐筆回呼。回呼回傳 false 時提前停止。
func ReadJournal(r io.Reader, fn func(dto.SpinOutcome) bool) error {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return errs.Wrap(err, "new zstd reader")
	}
	defer zr.Close()

	dec := json.NewDecoder(zr)
	for {
		var out dto.SpinOutcome
		if err := dec.Decode(&out); err != nil {
			if err == io.EOF {
				return nil
			}
			return errs.Wrap(err, "journal decode")
		}
		if !fn(out) {
			return nil
		}
	}
}
