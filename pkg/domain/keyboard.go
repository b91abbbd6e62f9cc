package domain

// Button is an inline button. Exactly one of URL or CallbackData is expected.
type Button struct {
	Text         string
	URL          string
	CallbackData string
}

// Keyboard is a grid of inline buttons, rows first
type Keyboard [][]Button

// Empty reports whether the keyboard has no usable buttons
func (k Keyboard) Empty() bool {
	for _, row := range k {
		for _, b := range row {
			if b.Text != "" && (b.URL != "" || b.CallbackData != "") {
				return false
			}
		}
	}
	return true
}
