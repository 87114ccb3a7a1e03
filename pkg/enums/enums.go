// Package enums holds the string-backed domain enumerations persisted in
// Postgres and carried on the wire.
package enums

import (
	"fmt"
	"slices"
)

// parse returns the member of set equal to value, or an error naming kind.
func parse[T ~string](value string, set []T, kind string) (T, error) {
	if i := slices.Index(set, T(value)); i >= 0 {
		return set[i], nil
	}
	return "", fmt.Errorf("invalid %s %q", kind, value)
}
