package core

// Color is a foreground colour for a screen cell, mapped to ANSI colours
// by the platform layer.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorCyan
	ColorWhite
	ColorBrightYellow
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorBrown
	ColorGray
)
