package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownStatus = errors.New("unknown status")
	ErrUnknownType   = errors.New("unknown property type")
)

func normalizeToken(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func unknown(kind error, raw string, allowed []string) error {
	return fmt.Errorf("%w %q, use one of: %s", kind, raw, strings.Join(allowed, ", "))
}
