package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ForeignKey is a reference to another record's identity. Record stores may hand the
// reference back either as a bare integer or wrapped as {"Id": n}; both decode to the
// same value.
type ForeignKey int64

// Int64 returns the bare identity.
func (k ForeignKey) Int64() int64 { return int64(k) }

// Valid reports whether the key points at a store-assigned identity.
func (k ForeignKey) Valid() bool { return k > 0 }

// Ref converts a bare identity to a key.
func Ref(id int64) ForeignKey { return ForeignKey(id) }

// Matches compares the key against a raw identity value of any supported shape.
func (k ForeignKey) Matches(raw interface{}) bool {
	id, ok := UnwrapForeignKey(raw)
	return ok && id == int64(k)
}

// MarshalJSON always emits the bare integer.
func (k ForeignKey) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(int64(k), 10)), nil
}

// UnmarshalJSON accepts 5, "5" and {"Id": 5}.
func (k *ForeignKey) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*k = 0
		return nil
	}
	var raw interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("decode foreign key: %w", err)
	}
	id, ok := UnwrapForeignKey(raw)
	if !ok {
		return fmt.Errorf("decode foreign key: unsupported value %s", string(data))
	}
	*k = ForeignKey(id)
	return nil
}

// Value implements driver.Valuer. An unset key is stored as NULL.
func (k ForeignKey) Value() (driver.Value, error) {
	if k == 0 {
		return nil, nil
	}
	return int64(k), nil
}

// Scan implements sql.Scanner.
func (k *ForeignKey) Scan(src interface{}) error {
	if src == nil {
		*k = 0
		return nil
	}
	id, ok := UnwrapForeignKey(src)
	if !ok {
		return fmt.Errorf("scan foreign key: unsupported type %T", src)
	}
	*k = ForeignKey(id)
	return nil
}

// UnwrapForeignKey normalises a raw identity reference to a bare integer. It is the single
// place where wrapped references ({"Id": n}, {"id": n}) and scalar shapes are reconciled.
func UnwrapForeignKey(raw interface{}) (int64, bool) {
	switch v := raw.(type) {
	case nil:
		return 0, false
	case ForeignKey:
		return int64(v), true
	case *ForeignKey:
		if v == nil {
			return 0, false
		}
		return int64(*v), true
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint32:
		return int64(v), true
	case uint64:
		if v > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int64(v), true
	case json.Number:
		id, err := v.Int64()
		return id, err == nil
	case string:
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		return id, err == nil
	case []byte:
		return UnwrapForeignKey(string(v))
	case map[string]interface{}:
		if len(v) != 1 {
			if inner, ok := v["Id"]; ok {
				return UnwrapForeignKey(inner)
			}
			return 0, false
		}
		for key, inner := range v {
			if strings.EqualFold(key, "id") {
				return UnwrapForeignKey(inner)
			}
		}
		return 0, false
	default:
		return 0, false
	}
}
