package telegram

import "unicode"

// SplitMessage splits text into chunks of at most width runes without
// dropping or reordering a single character: concatenating the chunks gives
// back text exactly. Cuts land just after the last whitespace in the window
// so words stay whole; a window without whitespace is cut hard at the width.
// Width is counted in runes because Telegram limits message length in
// characters, not bytes.
func SplitMessage(text string, width int) []string {
	if text == "" {
		return nil
	}
	if width <= 0 {
		return []string{text}
	}

	runes := []rune(text)
	var chunks []string

	for len(runes) > width {
		cut := width
		for i := width; i > 0; i-- {
			if unicode.IsSpace(runes[i-1]) {
				cut = i
				break
			}
		}
		chunks = append(chunks, string(runes[:cut]))
		runes = runes[cut:]
	}

	return append(chunks, string(runes))
}
