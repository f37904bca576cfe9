// Package cursor кодирует непрозрачные курсоры пагинации.
package cursor

import (
	"encoding/base64"
	"strings"

	"github.com/DRSN-tech/shop-backend/pkg/e"
	"github.com/google/uuid"
)

const prefix = "order:"

// Encode возвращает курсор, указывающий на заказ.
func Encode(id uuid.UUID) string {
	return base64.RawURLEncoding.EncodeToString([]byte(prefix + id.String()))
}

// Decode разбирает курсор, выданный Encode.
func Decode(raw string) (uuid.UUID, error) {
	data, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return uuid.Nil, e.Wrap("cursor", e.ErrInvalidCursor)
	}

	value, ok := strings.CutPrefix(string(data), prefix)
	if !ok {
		return uuid.Nil, e.Wrap("cursor", e.ErrInvalidCursor)
	}

	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, e.Wrap("cursor", e.ErrInvalidCursor)
	}

	return id, nil
}
