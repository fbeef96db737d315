package extract

// lastJSONBlock returns the last brace-balanced {...} block in s. Models
// that think out loud wrap prose or <think> markup around the JSON answer;
// the actual answer is conventionally the final block.
func lastJSONBlock(s string) (string, bool) {
	end := len(s) - 1
	for end >= 0 {
		// Find the closing brace of a candidate block.
		for end >= 0 && s[end] != '}' {
			end--
		}
		if end < 0 {
			return "", false
		}

		depth := 0
		for i := end; i >= 0; i-- {
			switch s[i] {
			case '}':
				depth++
			case '{':
				depth--
			}
			if depth == 0 {
				return s[i : end+1], true
			}
		}

		// Unbalanced from this closing brace; retry with an earlier one.
		end--
	}
	return "", false
}
