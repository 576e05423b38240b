package display

import "log"

// Display shows short status text to whoever is standing at the card
// reader. The OLED panel driver satisfies this from outside the core.
type Display interface {
	ShowText(text string)
}

// Console is the fallback display, writing to the process log
type Console struct{}

// ShowText writes the text to the log
func (c *Console) ShowText(text string) {
	log.Printf("[display] %s", text)
}
