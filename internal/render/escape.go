package render

import "strings"

// EscapeLaTeX makes a text field safe for inclusion in a .tex source. Each
// rune is mapped in a single pass so replacement text is never re-escaped.
func EscapeLaTeX(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\textbackslash{}`)
		case '$':
			b.WriteString(`\$`)
		case '%':
			b.WriteString(`\%`)
		case '&':
			b.WriteString(`\&`)
		case '#':
			b.WriteString(`\#`)
		case '_':
			b.WriteString(`\_`)
		case '{':
			b.WriteString(`\{`)
		case '}':
			b.WriteString(`\}`)
		case '^':
			b.WriteString(`\textasciicircum{}`)
		case '~':
			b.WriteString(`\textasciitilde{}`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func escapeList(items []string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = EscapeLaTeX(it)
	}
	return out
}

// JoinDisplay turns a list field into its display string: items joined by
// a comma and a space. An empty list yields an empty string.
func JoinDisplay(items []string) string {
	return strings.Join(items, ", ")
}
