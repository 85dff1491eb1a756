//go:build !ebiten

package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Fprintln(os.Stderr, "The windowed viewer of casque-hud requires the ebiten build tag.")
	fmt.Fprintln(os.Stderr, "Re-run with `go run -tags ebiten ./cmd/hud`, or use ./cmd/hud-stream for headless output.")
	os.Exit(2)
}
