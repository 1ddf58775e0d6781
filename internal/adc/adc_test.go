package adc

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFakeReaderRead(t *testing.T) {
	f := NewFakeReader(map[int][]int{
		ChannelThermistor: {1000, 990},
		ChannelPhotoCell:  {300},
	})

	want := []struct {
		ch int
		v  int
	}{
		{ChannelThermistor, 1000},
		{ChannelPhotoCell, 300},
		{ChannelThermistor, 990},
		{ChannelThermistor, 990}, // repeats last sample
		{ChannelPhotoCell, 300},
	}
	for i, w := range want {
		v, err := f.Read(w.ch)
		if err != nil {
			t.Fatalf("read %d: unexpected error: %v", i, err)
		}
		if v != w.v {
			t.Errorf("read %d: expected %d, got %d", i, w.v, v)
		}
	}
	if f.Reads[ChannelThermistor] != 3 {
		t.Errorf("expected 3 thermistor reads, got %d", f.Reads[ChannelThermistor])
	}
}

func TestFakeReaderNoSamples(t *testing.T) {
	f := NewFakeReader(nil)

	if _, err := f.Read(3); err == nil {
		t.Error("expected error with no samples")
	}
}

func TestFakeReaderError(t *testing.T) {
	f := NewFakeReader(map[int][]int{0: {1}})
	f.ReadError = errors.New("simulated error")

	_, err := f.Read(0)
	if err == nil || err.Error() != "simulated error" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFakeReaderReset(t *testing.T) {
	f := NewFakeReader(map[int][]int{0: {1, 2}})
	f.Read(0)
	f.Reset()

	if v, _ := f.Read(0); v != 1 {
		t.Errorf("after reset: expected 1, got %d", v)
	}
}

func TestSysfsReader(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "in_voltage7_raw"), []byte("1023\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "in_voltage0_raw"), []byte("garbage\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := NewSysfsReader(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	v, err := r.Read(ChannelThermistor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 1023 {
		t.Errorf("expected 1023, got %d", v)
	}

	if _, err := r.Read(ChannelPhotoCell); err == nil {
		t.Error("expected parse error")
	}
	if _, err := r.Read(3); err == nil {
		t.Error("expected error for missing channel")
	}
}

func TestSysfsReaderMissingDevice(t *testing.T) {
	if _, err := NewSysfsReader(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing device")
	}

	file := filepath.Join(t.TempDir(), "file")
	os.WriteFile(file, nil, 0o644)
	if _, err := NewSysfsReader(file); err == nil {
		t.Error("expected error for non-directory")
	}
}
