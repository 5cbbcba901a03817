package database

import (
	"strconv"
	"strings"
)

// Rebind заменяет плейсхолдеры `?` на `$1, $2, ...` (диалект PostgreSQL).
// `?` внутри строковых литералов и идентификаторов в кавычках не трогаются.
func Rebind(query string) string {
	if !strings.Contains(query, "?") {
		return query
	}

	var (
		sb    strings.Builder
		n     int
		quote rune
	)
	sb.Grow(len(query) + 8)
	for _, r := range query {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '?':
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
