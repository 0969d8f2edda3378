package merge

import "strings"

var jsonEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	`/`, `\/`,
	"\b", `\b`,
	"\f", `\f`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// EscapeJSON escapes s so it can be spliced into a JSON string literal.
func EscapeJSON(s string) string {
	return jsonEscaper.Replace(s)
}
