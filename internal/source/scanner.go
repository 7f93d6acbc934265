// Package source scans TypeScript text for module-boundary statements and
// strips them while leaving every other byte untouched.
package source

// Kind classifies a module-boundary statement.
type Kind int

const (
	// KindImport is `import <bindings> from "<spec>"`.
	KindImport Kind = iota
	// KindSideEffect is `import "<spec>"`.
	KindSideEffect
	// KindRequire is the legacy `import <name> = require("<spec>")` binding.
	KindRequire
	// KindReExport is `export * from "<spec>"` (optionally `* as <name>`).
	KindReExport
)

// Statement is one module-boundary statement located in a source text. The
// byte span covers the whole statement including an optional trailing
// semicolon; when the statement sits alone on its line the span widens to the
// surrounding indentation and line break so that stripping removes the line.
type Statement struct {
	Specifier string
	Kind      Kind
	Start     int // inclusive byte offset
	End       int // exclusive byte offset
}

// Scan returns all module-boundary statements in text, in text order. The
// scanner tracks string literals, template literals and comments so that
// statement keywords inside them never match. Dynamic `import(...)`
// expressions are not statements and are never reported.
func Scan(text string) []Statement {
	code := []byte(text)
	n := len(code)

	var stmts []Statement
	i := 0
	for i < n {
		switch c := code[i]; {
		case c == '\'' || c == '"' || c == '`':
			i = skipString(code, i, c)
		case c == '/' && i+1 < n && code[i+1] == '/':
			i = skipLineComment(code, i)
		case c == '/' && i+1 < n && code[i+1] == '*':
			i = skipBlockComment(code, i)
		case c == 'i' && atWordBoundary(code, i) && hasWordAt(code, i, "import"):
			if st, ok := parseImport(code, i); ok {
				stmts = append(stmts, st)
				i = st.End
			} else {
				i += len("import")
			}
		case c == 'e' && atWordBoundary(code, i) && hasWordAt(code, i, "export"):
			if st, ok := parseReExport(code, i); ok {
				stmts = append(stmts, st)
				i = st.End
			} else {
				i += len("export")
			}
		default:
			i++
		}
	}
	return stmts
}

// parseImport parses an import statement whose keyword starts at i. It
// returns false for anything that is not one of the recognized statement
// forms (for example a dynamic import), leaving the text untouched.
func parseImport(code []byte, i int) (Statement, bool) {
	n := len(code)
	start := i

	j := skipSpacesAndComments(code, i+len("import"))
	if j >= n || code[j] == '(' {
		return Statement{}, false
	}

	// Side-effect import.
	if code[j] == '\'' || code[j] == '"' {
		spec, after, ok := parseStringAt(code, j)
		if !ok {
			return Statement{}, false
		}
		return finishStatement(code, start, after, spec, KindSideEffect), true
	}

	// Bindings, then either `from "<spec>"` or `= require("<spec>")`.
	depth := 0
	for j < n {
		j = skipSpacesAndComments(code, j)
		if j >= n {
			return Statement{}, false
		}
		switch c := code[j]; {
		case c == '{':
			depth++
			j++
		case c == '}':
			depth--
			j++
		case c == ',' || c == '*':
			j++
		case c == '=' && depth == 0:
			return parseRequire(code, start, j+1)
		case isIdentByte(c):
			word, next := parseIdent(code, j)
			if word == "from" && depth == 0 {
				j = skipSpacesAndComments(code, next)
				spec, after, ok := parseStringAt(code, j)
				if !ok {
					return Statement{}, false
				}
				return finishStatement(code, start, after, spec, KindImport), true
			}
			j = next
		default:
			return Statement{}, false
		}
	}
	return Statement{}, false
}

// parseRequire finishes parsing `import <name> = require("<spec>")` with j
// positioned just past the equals sign.
func parseRequire(code []byte, start, j int) (Statement, bool) {
	n := len(code)
	j = skipSpacesAndComments(code, j)
	if !hasWordAt(code, j, "require") {
		return Statement{}, false
	}
	j = skipSpacesAndComments(code, j+len("require"))
	if j >= n || code[j] != '(' {
		return Statement{}, false
	}
	j = skipSpacesAndComments(code, j+1)
	spec, after, ok := parseStringAt(code, j)
	if !ok {
		return Statement{}, false
	}
	j = skipSpacesAndComments(code, after)
	if j >= n || code[j] != ')' {
		return Statement{}, false
	}
	return finishStatement(code, start, j+1, spec, KindRequire), true
}

// parseReExport parses `export * [as <name>] from "<spec>"`. Any other export
// form (named exports, declarations) is not a module-boundary statement.
func parseReExport(code []byte, i int) (Statement, bool) {
	n := len(code)
	start := i

	j := skipSpacesAndComments(code, i+len("export"))
	if j >= n || code[j] != '*' {
		return Statement{}, false
	}
	j = skipSpacesAndComments(code, j+1)
	if hasWordAt(code, j, "as") {
		j = skipSpacesAndComments(code, j+len("as"))
		name, next := parseIdent(code, j)
		if name == "" {
			return Statement{}, false
		}
		j = skipSpacesAndComments(code, next)
	}
	if !hasWordAt(code, j, "from") {
		return Statement{}, false
	}
	j = skipSpacesAndComments(code, j+len("from"))
	spec, after, ok := parseStringAt(code, j)
	if !ok {
		return Statement{}, false
	}
	return finishStatement(code, start, after, spec, KindReExport), true
}

// finishStatement computes the final span. end points just past the last
// syntactic element; the span is extended over an optional semicolon, and
// over the indentation and line break when the statement owns its line.
func finishStatement(code []byte, start, end int, spec string, kind Kind) Statement {
	n := len(code)

	k := end
	for k < n && (code[k] == ' ' || code[k] == '\t') {
		k++
	}
	if k < n && code[k] == ';' {
		end = k + 1
	}

	lineStart := start
	for lineStart > 0 && (code[lineStart-1] == ' ' || code[lineStart-1] == '\t') {
		lineStart--
	}
	if lineStart == 0 || code[lineStart-1] == '\n' {
		// The statement owns its line: swallow indentation and the line break.
		start = lineStart
		k = end
		for k < n && (code[k] == ' ' || code[k] == '\t') {
			k++
		}
		if k < n && code[k] == '\n' {
			end = k + 1
		} else if k+1 < n && code[k] == '\r' && code[k+1] == '\n' {
			end = k + 2
		}
	}

	return Statement{Specifier: spec, Kind: kind, Start: start, End: end}
}

// parseStringAt reads the string literal starting at j (single or double
// quote) and returns its contents and the offset just past the closing quote.
func parseStringAt(code []byte, j int) (string, int, bool) {
	n := len(code)
	if j >= n || (code[j] != '\'' && code[j] != '"') {
		return "", j, false
	}
	quote := code[j]
	k := j + 1
	for k < n && code[k] != quote {
		if code[k] == '\\' && k+1 < n {
			k += 2
		} else {
			k++
		}
	}
	if k >= n {
		return "", j, false
	}
	return string(code[j+1 : k]), k + 1, true
}

func parseIdent(code []byte, j int) (string, int) {
	start := j
	for j < len(code) && isIdentByte(code[j]) {
		j++
	}
	return string(code[start:j]), j
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' ||
		(c >= '0' && c <= '9') || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func atWordBoundary(code []byte, i int) bool {
	return i == 0 || (!isIdentByte(code[i-1]) && code[i-1] != '.')
}

func hasWordAt(code []byte, i int, word string) bool {
	if i < 0 || i+len(word) > len(code) {
		return false
	}
	for k := 0; k < len(word); k++ {
		if code[i+k] != word[k] {
			return false
		}
	}
	end := i + len(word)
	return end >= len(code) || !isIdentByte(code[end])
}

func skipString(code []byte, i int, quote byte) int {
	n := len(code)
	i++
	for i < n && code[i] != quote {
		if code[i] == '\\' && i+1 < n {
			i += 2
		} else {
			i++
		}
	}
	if i < n {
		i++ // closing quote
	}
	return i
}

func skipLineComment(code []byte, i int) int {
	i += 2
	for i < len(code) && code[i] != '\n' {
		i++
	}
	return i
}

func skipBlockComment(code []byte, i int) int {
	i += 2
	for i+1 < len(code) && !(code[i] == '*' && code[i+1] == '/') {
		i++
	}
	if i+1 < len(code) {
		i += 2
	}
	return i
}

func skipSpacesAndComments(code []byte, i int) int {
	n := len(code)
	for i < n {
		switch c := code[i]; {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '/' && i+1 < n && code[i+1] == '/':
			i = skipLineComment(code, i)
		case c == '/' && i+1 < n && code[i+1] == '*':
			i = skipBlockComment(code, i)
		default:
			return i
		}
	}
	return i
}
