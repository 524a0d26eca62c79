package agent

import "strings"

var refusalPhrases = []string{
	"no data available",
	"no data",
	"cannot answer",
	"can't answer",
	"don't have",
	"do not have",
	"unable to answer",
	"insufficient information",
}

// validate applies the grounding check: the draft must quote at least one
// observation number verbatim and must not be a refusal, given that the
// observations carry data.
func validate(draft string, numbers []string) bool {
	if isRefusal(draft) {
		return false
	}
	for _, n := range numbers {
		if containsToken(draft, n) {
			return true
		}
	}
	return false
}

func isRefusal(draft string) bool {
	lower := strings.ToLower(draft)
	for _, phrase := range refusalPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// containsToken reports whether token occurs in s as a standalone numeric
// token. Plain substring search would let "3" ride inside "130", which is
// not a citation.
func containsToken(s, token string) bool {
	for start := 0; ; {
		i := strings.Index(s[start:], token)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(token)
		// A neighboring digit, or a dot joining the token to another digit,
		// means the match sits inside a larger number. A sentence-ending dot
		// does not.
		beforeJoined := i > 0 && (isDigit(s[i-1]) || (s[i-1] == '.' && i > 1 && isDigit(s[i-2])))
		afterJoined := end < len(s) && (isDigit(s[end]) || (s[end] == '.' && end+1 < len(s) && isDigit(s[end+1])))
		if !beforeJoined && !afterJoined {
			return true
		}
		start = i + 1
	}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
