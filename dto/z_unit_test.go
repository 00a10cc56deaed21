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

package dto

import (
	"bytes"
	"testing"

	"github.com/zintix-labs/reelcore/sdk/buf"
)

func newTestBufOutcome() *buf.SpinOutcome {
	out := buf.NewSpinOutcome(6)
	out.Bet = 100
	copy(out.Screen, []int16{0, 1, 2, 2, 1, 0})
	out.Base.TotalWin = 350
	out.Base.ScatterCount = 1
	out.Base.LineWins = append(out.Base.LineWins, buf.LineWin{
		LineID: 0, Symbol: 2, Length: 3, Win: 350, StartCell: 0, EndCell: 2,
	})
	out.Base.WinMask[0] = 1
	out.Base.WinMask[1] = 1
	out.Base.WinMask[2] = 1
	out.TotalWin = 350
	out.Balance = 1250
	return out
}

func TestNewSpinOutcomeNil(t *testing.T) {
	if _, err := NewSpinOutcome("g", nil, nil); err == nil {
		t.Fatal("nil outcome should fail")
	}
}

func TestNewSpinOutcomeDeepCopy(t *testing.T) {
	src := newTestBufOutcome()
	out, err := NewSpinOutcome("g", src, nil)
	if err != nil {
		t.Fatal(err)
	}

	if out.GameName != "g" || out.Bet != 100 || out.TotalWin != 350 || out.Balance != 1250 {
		t.Fatalf("header mismatch: %+v", out)
	}
	if len(out.Base.LineWins) != 1 || out.Base.LineWins[0].Win != 350 {
		t.Fatalf("line wins mismatch: %+v", out.Base.LineWins)
	}
	if out.CoreSnapB64U != "" {
		t.Fatal("core snap should be empty when not provided")
	}

	// 改動來源不可影響 DTO
	src.Screen[0] = 9
	src.Base.WinMask[0] = 0
	src.Base.LineWins[0].Win = 0
	if out.Screen[0] == 9 || out.Base.WinMask[0] == 0 || out.Base.LineWins[0].Win == 0 {
		t.Fatal("dto must not alias source buffers")
	}
}

func TestCoreSnapRoundtrip(t *testing.T) {
	snap := []byte{0x00, 0x01, 0xfe, 0xff, 0x7f}
	out, err := NewSpinOutcome("g", newTestBufOutcome(), snap)
	if err != nil {
		t.Fatal(err)
	}
	if out.CoreSnapB64U == "" {
		t.Fatal("core snap should be set")
	}
	got, err := out.CoreSnap()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(snap, got) {
		t.Fatalf("snap roundtrip mismatch: %x != %x", got, snap)
	}

	// 空字串回 nil, nil
	var empty SpinOutcome
	b, err := empty.CoreSnap()
	if err != nil || b != nil {
		t.Fatalf("empty snap: %v %v", b, err)
	}
}
