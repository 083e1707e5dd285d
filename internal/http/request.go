package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"bilancio/internal/core"
)

// errBadRequest marks malformed input detected at the HTTP edge, before the
// domain ever sees it.
var errBadRequest = errors.New("bad request")

const maxBodyBytes = 1 << 20 // 1 MiB

// decodeJSON reads the request body into dst with a size cap.
func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON body", errBadRequest)
	}
	return nil
}

// parseAmount converts the wire amount (a JSON number or string, dot or
// comma separated) into cents.
func parseAmount(raw json.Number) (core.Money, error) {
	cents, err := core.ParseDecimalToCents(raw.String())
	if err != nil {
		return core.Money{}, err
	}
	return core.Money{Cents: cents}, nil
}

// parseDate parses a YYYY-MM-DD date into a UTC instant at midnight.
func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q, want YYYY-MM-DD", errBadRequest, s)
	}
	return t.UTC(), nil
}

// parseOptionalDate parses a date when present; nil means absent.
func parseOptionalDate(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := parseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// queryDate reads an optional YYYY-MM-DD query parameter.
func queryDate(r *http.Request, key string) (*time.Time, error) {
	return parseOptionalDate(r.URL.Query().Get(key))
}

// queryInt reads an optional integer query parameter, falling back on def.
func queryInt(r *http.Request, key string, def int) int {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return def
}

// queryType reads an optional type=INCOME|EXPENSE query parameter.
func queryType(r *http.Request) (*core.TransactionType, error) {
	v := strings.TrimSpace(r.URL.Query().Get("type"))
	if v == "" {
		return nil, nil
	}
	typ := core.TransactionType(strings.ToUpper(v))
	if err := typ.Validate(); err != nil {
		return nil, err
	}
	return &typ, nil
}

// sanitizeInput trims whitespace and strips control characters.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// optionalID normalizes an optional reference: empty means none.
func optionalID(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
