package adc

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// SysfsReader reads channels from an IIO device directory, where each
// channel is exposed as in_voltage<N>_raw.
type SysfsReader struct {
	dir string
}

// NewSysfsReader checks that dir exists and returns a reader for it.
func NewSysfsReader(dir string) (*SysfsReader, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("open iio device: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("iio device %s is not a directory", dir)
	}
	return &SysfsReader{dir: dir}, nil
}

// Read returns the raw reading of channel.
func (r *SysfsReader) Read(channel int) (int, error) {
	path := filepath.Join(r.dir, fmt.Sprintf("in_voltage%d_raw", channel))
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read channel %d: %w", channel, err)
	}
	v, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return 0, fmt.Errorf("parse channel %d: %w", channel, err)
	}
	return v, nil
}
