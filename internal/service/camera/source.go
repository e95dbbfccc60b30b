package camera

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"gocv.io/x/gocv"
)

// ErrFrameUnavailable is returned when the device yields no usable frame.
var ErrFrameUnavailable = errors.New("camera frame unavailable")

// Device is the part of gocv.VideoCapture the Source needs.
type Device interface {
	Read(m *gocv.Mat) bool
	Close() error
}

// Source serializes frame reads from a single open capture device.
type Source struct {
	device Device
	name   string
	mu     sync.Mutex
	closed bool
}

// Open opens the capture device. A numeric id selects a local camera index,
// anything else is passed to OpenCV as a file or stream URL.
func Open(deviceID string) (*Source, error) {
	var (
		vc  *gocv.VideoCapture
		err error
	)
	if index, convErr := strconv.Atoi(deviceID); convErr == nil {
		vc, err = gocv.VideoCaptureDevice(index)
	} else {
		vc, err = gocv.VideoCaptureFile(deviceID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open camera %s: %w", deviceID, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("camera %s is not available", deviceID)
	}
	return NewSource(vc, deviceID), nil
}

// NewSource wraps an already open device.
func NewSource(device Device, name string) *Source {
	return &Source{device: device, name: name}
}

// Name returns the device identifier.
func (s *Source) Name() string {
	return s.name
}

// Read fills dst with the next frame. dst is allocated and closed by the caller.
func (s *Source) Read(dst *gocv.Mat) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("camera %s closed: %w", s.name, ErrFrameUnavailable)
	}
	if ok := s.device.Read(dst); !ok || dst.Empty() {
		return fmt.Errorf("camera %s: %w", s.name, ErrFrameUnavailable)
	}
	return nil
}

// Close releases the device. Later reads fail with ErrFrameUnavailable.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.device.Close()
}
