// Package thresholds owns the six persisted decision thresholds: their keys,
// the default table, the boot-time defaulting policy and the operator
// mutators that read and change them.
package thresholds

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sweeney/sound-and-vision/internal/logic"
	"github.com/sweeney/sound-and-vision/internal/nv"
)

// Key names a threshold parameter in the store.
type Key string

const (
	Green  Key = "green_threshold"
	Amber  Key = "amber_threshold"
	Red    Key = "red_threshold"
	Short  Key = "short_threshold"
	Medium Key = "medium_threshold"
	Long   Key = "long_threshold"
)

// Keys lists all parameters.
var Keys = []Key{Green, Amber, Red, Short, Medium, Long}

// Defaults is the table written by EnsureDefaults and Reset.
var Defaults = map[Key]int{
	Green:  15,
	Amber:  50,
	Red:    100,
	Short:  1000,
	Medium: 500,
	Long:   100,
}

var labels = map[Key]string{
	Green:  "Green",
	Amber:  "Amber",
	Red:    "Red",
	Short:  "Short",
	Medium: "Medium",
	Long:   "Long",
}

// Label returns the display name used in operator messages.
func (k Key) Label() string {
	return labels[k]
}

// ParseKey accepts either the store key or the short name ("green").
func ParseKey(s string) (Key, bool) {
	for _, k := range Keys {
		if s == string(k) || s == shortName(k) {
			return k, true
		}
	}
	return "", false
}

func shortName(k Key) string {
	return strings.ToLower(k.Label())
}

// ErrInvalidValue is returned when a setter is given something that is not
// an integer.
var ErrInvalidValue = errors.New("invalid threshold value")

// ErrUnset is returned when a threshold needed for a decision is not an
// integer in the store.
var ErrUnset = errors.New("threshold not set")

// EnsureDefaults writes the default table when any parameter does not hold an
// integer. All six are overwritten, including ones that were set. It reports
// whether the defaults were written.
func EnsureDefaults(store nv.Store) (bool, error) {
	for _, k := range Keys {
		v, err := store.Load(string(k))
		if err != nil {
			return false, fmt.Errorf("load %s: %w", k, err)
		}
		if _, ok := v.Int(); !ok {
			if _, err := Reset(store); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

// Reset unconditionally writes the default table.
func Reset(store nv.Store) (string, error) {
	for _, k := range Keys {
		if err := store.Save(string(k), Defaults[k]); err != nil {
			return "", fmt.Errorf("save %s: %w", k, err)
		}
	}
	return "Thresholds defaulted.", nil
}

// Clear deletes every parameter, as a factory reset of the node would.
func Clear(store nv.Store) error {
	for _, k := range Keys {
		if err := store.Delete(string(k)); err != nil {
			return fmt.Errorf("delete %s: %w", k, err)
		}
	}
	return nil
}

// Set stores v under key if it is an integer. The returned message reports
// the outcome either way; a non-integer leaves the store untouched and
// returns ErrInvalidValue.
func Set(store nv.Store, key Key, v any) (string, error) {
	n, ok := AsInt(v)
	if !ok {
		return fmt.Sprintf("Invalid %s Threshold Value", key.Label()), ErrInvalidValue
	}

	old, err := store.Load(string(key))
	if err != nil {
		return "", fmt.Errorf("load %s: %w", key, err)
	}
	if err := store.Save(string(key), n); err != nil {
		return "", fmt.Errorf("save %s: %w", key, err)
	}
	return fmt.Sprintf("%s threshold changed from %s to %d", key.Label(), old, n), nil
}

// AsInt reports whether v is an integer and returns it. Go integer kinds and
// JSON numbers without a fraction or exponent qualify; floats do not, even
// when whole.
func AsInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		if n < math.MinInt || n > math.MaxInt {
			return 0, false
		}
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		if uint64(n) > math.MaxInt {
			return 0, false
		}
		return int(n), true
	case uint64:
		if n > math.MaxInt {
			return 0, false
		}
		return int(n), true
	case uint:
		if n > math.MaxInt {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := strconv.Atoi(string(n))
		if err != nil {
			return 0, false
		}
		return i, true
	}
	return 0, false
}

// ColorSummary formats the three colour thresholds.
func ColorSummary(store nv.Store) (string, error) {
	vals, err := load(store, Red, Amber, Green)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Red: %s | Amber: %s | Green: %s", vals[0], vals[1], vals[2]), nil
}

// ToneSummary formats the three tone thresholds.
func ToneSummary(store nv.Store) (string, error) {
	vals, err := load(store, Short, Medium, Long)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Short: %s | Medium: %s | Long: %s", vals[0], vals[1], vals[2]), nil
}

// LoadColor reads the colour thresholds for one decision.
func LoadColor(store nv.Store) (logic.ColorThresholds, error) {
	n, err := loadInts(store, Green, Amber, Red)
	if err != nil {
		return logic.ColorThresholds{}, err
	}
	return logic.ColorThresholds{Green: n[0], Amber: n[1], Red: n[2]}, nil
}

// LoadTone reads the tone thresholds for one decision.
func LoadTone(store nv.Store) (logic.ToneThresholds, error) {
	n, err := loadInts(store, Short, Medium, Long)
	if err != nil {
		return logic.ToneThresholds{}, err
	}
	return logic.ToneThresholds{Short: n[0], Medium: n[1], Long: n[2]}, nil
}

func load(store nv.Store, keys ...Key) ([]nv.Value, error) {
	vals := make([]nv.Value, len(keys))
	for i, k := range keys {
		v, err := store.Load(string(k))
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", k, err)
		}
		vals[i] = v
	}
	return vals, nil
}

func loadInts(store nv.Store, keys ...Key) ([]int, error) {
	vals, err := load(store, keys...)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(vals))
	for i, v := range vals {
		n, ok := v.Int()
		if !ok {
			return nil, fmt.Errorf("%s is %s: %w", keys[i], v, ErrUnset)
		}
		out[i] = n
	}
	return out, nil
}
