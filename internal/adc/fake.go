package adc

import "fmt"

// FakeReader is a test double that returns scripted readings per channel.
type FakeReader struct {
	// Samples contains scripted readings per channel.
	// Each call to Read(ch) consumes the next sample of ch.
	Samples map[int][]int

	// index tracks current position per channel
	index map[int]int

	// Reads counts calls per channel.
	Reads map[int]int

	// ReadError, if set, will be returned by Read()
	ReadError error
}

// NewFakeReader creates a FakeReader with the given samples.
func NewFakeReader(samples map[int][]int) *FakeReader {
	if samples == nil {
		samples = make(map[int][]int)
	}
	return &FakeReader{
		Samples: samples,
		index:   make(map[int]int),
		Reads:   make(map[int]int),
	}
}

// Read returns the next scripted sample for channel.
// If samples are exhausted, returns the last sample repeatedly.
func (f *FakeReader) Read(channel int) (int, error) {
	f.Reads[channel]++
	if f.ReadError != nil {
		return 0, f.ReadError
	}

	samples := f.Samples[channel]
	if len(samples) == 0 {
		return 0, fmt.Errorf("no samples configured for channel %d", channel)
	}

	i := f.index[channel]
	if i < len(samples)-1 {
		f.index[channel]++
	}
	return samples[i], nil
}

// Reset resets every channel to its first sample.
func (f *FakeReader) Reset() {
	f.index = make(map[int]int)
	f.Reads = make(map[int]int)
}
