package source

import "strings"

// Strip removes every module-boundary statement from text except those whose
// specifier is in the ignored set (runtime-provided namespaces keep their
// import statements so the emitted code still names the injected binding).
// All bytes outside the removed spans pass through unchanged, which makes
// stripping idempotent: a stripped text contains no statement left to match.
func Strip(text string, ignored map[string]struct{}) string {
	stmts := Scan(text)
	if len(stmts) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, st := range stmts {
		if _, ok := ignored[st.Specifier]; ok {
			continue
		}
		b.WriteString(text[last:st.Start])
		last = st.End
	}
	b.WriteString(text[last:])
	return b.String()
}
