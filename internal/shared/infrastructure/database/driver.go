package database

import (
	"strconv"
	"strings"
)

// Driver names a database backend.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

func (d Driver) String() string {
	return string(d)
}

// IsValid reports whether d is a supported backend.
func (d Driver) IsValid() bool {
	return d == DriverPostgres || d == DriverSQLite
}

// ParseDriver maps a configuration value to a Driver. Empty and "auto" select
// detection from the URL.
func ParseDriver(s string, url string) Driver {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return DetectDriver(url)
	case "postgresql", "pg":
		return DriverPostgres
	case "sqlite3":
		return DriverSQLite
	default:
		return Driver(strings.ToLower(strings.TrimSpace(s)))
	}
}

// DetectDriver picks a backend from a connection string. An empty string
// means local SQLite mode.
func DetectDriver(url string) Driver {
	switch {
	case url == "":
		return DriverSQLite
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return DriverPostgres
	case strings.HasPrefix(url, "sqlite://"), strings.HasPrefix(url, "file:"), url == ":memory:":
		return DriverSQLite
	}
	for _, suffix := range []string{".db", ".sqlite", ".sqlite3"} {
		if strings.HasSuffix(url, suffix) {
			return DriverSQLite
		}
	}
	return DriverPostgres
}

// Rebind rewrites "?" placeholders into the driver's native form. Queries are
// written with "?" so one statement serves both backends. Question marks
// inside single-quoted literals are left alone.
func (d Driver) Rebind(query string) string {
	if d != DriverPostgres || !strings.Contains(query, "?") {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inLiteral := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			inLiteral = !inLiteral
			b.WriteByte(c)
		case c == '?' && !inLiteral:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
