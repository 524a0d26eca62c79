package model

import "strings"

// pace/spin keyword lists mirror the style codes seen in the source logs
// ("Right-arm fast-medium", "Slow left-arm orthodox", "Legbreak googly", ...).
var (
	paceHints = []string{"pace", "fast", "seam", "medium"}
	spinHints = []string{"spin", "orthodox", "break", "chinaman", "googly"}
)

// ClassifyBowling buckets a free-form bowling style code into Pace or Spin.
// Unrecognised styles return BowlingUnknown.
func ClassifyBowling(style string) BowlingClass {
	s := strings.ToLower(style)
	for _, h := range paceHints {
		if strings.Contains(s, h) {
			return BowlingPace
		}
	}
	for _, h := range spinHints {
		if strings.Contains(s, h) {
			return BowlingSpin
		}
	}
	return BowlingUnknown
}
