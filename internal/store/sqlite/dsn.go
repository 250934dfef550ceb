package sqlite

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

func parseDSN(dsn string) (string, error) {
	if !strings.HasPrefix(dsn, "sqlite://") {
		return "", fmt.Errorf("invalid sqlite DSN scheme, expected sqlite://")
	}

	rest := strings.TrimPrefix(dsn, "sqlite://")

	if rest == ":memory:" {
		return ":memory:", nil
	}

	var query string
	if i := strings.Index(rest, "?"); i >= 0 {
		query = rest[i:]
		rest = rest[:i]
	}

	path, err := url.PathUnescape(rest)
	if err != nil {
		return "", fmt.Errorf("unescaping path: %w", err)
	}

	if !filepath.IsAbs(path) && !strings.HasPrefix(path, "./") {
		path = "./" + path
	}

	return path + query, nil
}
