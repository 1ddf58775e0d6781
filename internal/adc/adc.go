// Package adc reads the node's analog sensor channels.
// The real implementation uses the Linux IIO sysfs interface.
// The fake implementation allows testing without hardware.
package adc

// Reader reads raw analog samples.
type Reader interface {
	// Read returns the raw reading of channel.
	Read(channel int) (int, error)
}

// Channel assignments.
const (
	ChannelThermistor = 7
	ChannelPhotoCell  = 0
)

// DefaultDevice is the IIO device directory of the first ADC.
const DefaultDevice = "/sys/bus/iio/devices/iio:device0"
