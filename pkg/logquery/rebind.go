package logquery

import (
	"fmt"
	"strconv"
	"strings"
)

// Rebind rewrites `?` placeholders to numbered `$1..$n` markers for drivers
// that use numbered placeholders, such as lib/pq. Parameter order is
// unchanged, so the same argument slice applies.
//
// The scan is textual; built queries never contain `?` inside literals, since
// every value is bound.
func Rebind(query string) string {
	var sb strings.Builder
	sb.Grow(len(query) + 8)

	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(ch)
	}
	return sb.String()
}

// DebugString interpolates args into the query's placeholders for log output
// only. The result is never safe to execute.
func DebugString(query string, args []any) string {
	if len(args) == 0 {
		return query
	}

	var sb strings.Builder
	sb.Grow(len(query) + len(args)*8)

	idx := 0
	for _, ch := range query {
		if ch == '?' && idx < len(args) {
			sb.WriteString(formatArg(args[idx]))
			idx++
			continue
		}
		sb.WriteRune(ch)
	}
	return sb.String()
}

func formatArg(arg any) string {
	if arg == nil {
		return "NULL"
	}
	switch v := arg.(type) {
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'"
	case []byte:
		return "'" + strings.ReplaceAll(string(v), "'", "''") + "'"
	case fmt.Stringer:
		return "'" + strings.ReplaceAll(v.String(), "'", "''") + "'"
	default:
		return fmt.Sprintf("%v", arg)
	}
}
