package delimited

// DetectDelimiter picks ';' when the first line holds more semicolons than commas
// outside quotes, and ',' otherwise.
func DetectDelimiter(text string) byte {
	commas, semis := 0, 0
	inQuotes := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c == '"' {
			inQuotes = !inQuotes
			continue
		}
		if inQuotes {
			continue
		}
		if c == '\n' || c == '\r' {
			break
		}
		switch c {
		case ',':
			commas++
		case ';':
			semis++
		}
	}
	if semis > commas {
		return ';'
	}
	return ','
}
