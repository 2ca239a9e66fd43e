package broker

import (
	"encoding/json"
	"fmt"

	"github.com/GlebRadaev/tradebridge/pkg/validate"
)

// DecodeOrder unmarshals an app-level order body into dst and validates it.
// Any failure is reported as ErrInvalidOrder.
func DecodeOrder(raw json.RawMessage, dst any) error {
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOrder, err)
	}
	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOrder, err)
	}
	return nil
}

func Or(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
