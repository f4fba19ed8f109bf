package browser

import "github.com/atotto/clipboard"

// SystemClipboard writes through to the host clipboard. Paste-based field
// entry requires the real browser and this clipboard to share a host, so
// it is only meaningful alongside the rod-backed Page.
type SystemClipboard struct{}

func (SystemClipboard) Write(text string) error {
	return clipboard.WriteAll(text)
}
