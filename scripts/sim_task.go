package main

import (
	"os"
	"os/exec"
)

// runSimCheck 跑一輪小型模擬作為 smoke test：
// 用內建設定跑 20,000 局，肉眼確認 RTP 與分佈表沒有明顯異常。
func runSimCheck() {
	PrintGreen("running sim smoke (20,000 rounds)")

	cmd := exec.Command("go", "run", "./cmd/reelsim", "-spins", "20000", "-worker", "4")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		PrintRed("sim smoke failed: " + err.Error())
		os.Exit(1)
	}
	PrintGreen("sim smoke done")
}
