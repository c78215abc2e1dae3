package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
)

// GetJSON decodes the value under key into dst. It reports false when the key
// is absent or holds a document that does not decode, in which case dst is
// left untouched and callers use their default.
func GetJSON(ctx context.Context, s Store, visitor, key string, dst any) (bool, error) {
	raw, err := s.Get(ctx, visitor, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get %s: %w", key, err)
	}
	// json.Unmarshal fills in what it can before reporting a type error, so
	// decode into a fresh value and copy it over only on success.
	out := reflect.ValueOf(dst)
	if out.Kind() != reflect.Pointer || out.IsNil() {
		return false, fmt.Errorf("get %s: destination must be a non-nil pointer", key)
	}
	tmp := reflect.New(out.Elem().Type())
	if err := json.Unmarshal(raw, tmp.Interface()); err != nil {
		slog.WarnContext(ctx, "Ignoring undecodable preference", "key", key, "error", err)
		return false, nil
	}
	out.Elem().Set(tmp.Elem())
	return true, nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, s Store, visitor, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.Set(ctx, visitor, key, raw); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}
