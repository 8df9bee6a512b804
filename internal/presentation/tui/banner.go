package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the burette ASCII banner with a pH-strip gradient
// from acid red to base blue.
func PrintBanner() {
	p := termenv.ColorProfile()
	s1 := termenv.String(" _                     _   _       ").Foreground(p.Color("#ef4444"))
	s2 := termenv.String("| |__  _   _ _ __ ___| |_| |_ ___  ").Foreground(p.Color("#f97316"))
	s3 := termenv.String("| '_ \\| | | | '__/ _ \\ __| __/ _ \\ ").Foreground(p.Color("#eab308"))
	s4 := termenv.String("| |_) | |_| | | |  __/ |_| ||  __/ ").Foreground(p.Color("#22c55e"))
	s5 := termenv.String("|_.__/ \\__,_|_|  \\___|\\__|\\__\\___| ").Foreground(p.Color("#3b82f6"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println()
}
