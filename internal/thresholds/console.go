package thresholds

import "github.com/sweeney/sound-and-vision/internal/nv"

// Console is the operator configuration surface of a node.
type Console struct {
	store nv.Store
}

// NewConsole creates a Console over the given store.
func NewConsole(store nv.Store) *Console {
	return &Console{store: store}
}

// Set stores v under key when it is an integer and reports the change, or
// returns ErrInvalidValue.
func (c *Console) Set(key Key, v any) (string, error) { return Set(c.store, key, v) }

// SetGreenThreshold is Set with the Green key.
func (c *Console) SetGreenThreshold(v any) (string, error) { return Set(c.store, Green, v) }

// SetAmberThreshold is Set with the Amber key.
func (c *Console) SetAmberThreshold(v any) (string, error) { return Set(c.store, Amber, v) }

// SetRedThreshold is Set with the Red key.
func (c *Console) SetRedThreshold(v any) (string, error) { return Set(c.store, Red, v) }

// SetShortThreshold is Set with the Short key.
func (c *Console) SetShortThreshold(v any) (string, error) { return Set(c.store, Short, v) }

// SetMediumThreshold is Set with the Medium key.
func (c *Console) SetMediumThreshold(v any) (string, error) { return Set(c.store, Medium, v) }

// SetLongThreshold is Set with the Long key.
func (c *Console) SetLongThreshold(v any) (string, error) { return Set(c.store, Long, v) }

// DefaultThresholds restores the default table.
func (c *Console) DefaultThresholds() (string, error) { return Reset(c.store) }

// ThresholdsColor returns "Red: r | Amber: a | Green: g".
func (c *Console) ThresholdsColor() (string, error) { return ColorSummary(c.store) }

// ThresholdsTone returns "Short: s | Medium: m | Long: l".
func (c *Console) ThresholdsTone() (string, error) { return ToneSummary(c.store) }
