package core

// messageLimit is kept under Telegram's 4096 hard cap to leave room
// for entity expansion.
const messageLimit = 4000

// splitMessage cuts text into pieces of at most limit runes each.
// Splits never land inside a rune, concatenating the pieces gives back
// the original text exactly, and breaks prefer a newline, then a
// space, inside the tail of the window.
func splitMessage(text string, limit int) []string {
	if limit <= 0 {
		limit = messageLimit
	}
	runes := []rune(text)
	if len(runes) <= limit {
		if text == "" {
			return nil
		}
		return []string{text}
	}

	var chunks []string
	for len(runes) > limit {
		cut := limit
		// look for a natural break in the last quarter of the window
		floor := limit - limit/4
		for i := limit; i > floor; i-- {
			if runes[i-1] == '\n' {
				cut = i
				break
			}
		}
		if cut == limit {
			for i := limit; i > floor; i-- {
				if runes[i-1] == ' ' {
					cut = i
					break
				}
			}
		}
		chunks = append(chunks, string(runes[:cut]))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}
	return chunks
}
