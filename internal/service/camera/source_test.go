package camera

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

type fakeDevice struct {
	frame  gocv.Mat
	fail   bool
	reads  int
	closed int
	mu     sync.Mutex
}

func (d *fakeDevice) Read(m *gocv.Mat) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reads++
	if d.fail {
		return false
	}
	d.frame.CopyTo(m)
	return true
}

func (d *fakeDevice) Close() error {
	d.closed++
	return nil
}

func newFrame() gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(10, 20, 30, 0), 48, 64, gocv.MatTypeCV8UC3)
}

func TestSource_Read(t *testing.T) {
	frame := newFrame()
	defer frame.Close()
	src := NewSource(&fakeDevice{frame: frame}, "0")

	dst := gocv.NewMat()
	defer dst.Close()

	require.NoError(t, src.Read(&dst))
	assert.Equal(t, 64, dst.Cols())
	assert.Equal(t, 48, dst.Rows())
}

func TestSource_Read_DeviceFailure(t *testing.T) {
	src := NewSource(&fakeDevice{fail: true}, "0")

	dst := gocv.NewMat()
	defer dst.Close()

	err := src.Read(&dst)
	assert.ErrorIs(t, err, ErrFrameUnavailable)
}

func TestSource_Read_EmptyFrame(t *testing.T) {
	empty := gocv.NewMat()
	defer empty.Close()
	src := NewSource(&fakeDevice{frame: empty}, "0")

	dst := gocv.NewMat()
	defer dst.Close()

	assert.ErrorIs(t, src.Read(&dst), ErrFrameUnavailable)
}

func TestSource_Close(t *testing.T) {
	frame := newFrame()
	defer frame.Close()
	device := &fakeDevice{frame: frame}
	src := NewSource(device, "0")

	require.NoError(t, src.Close())
	require.NoError(t, src.Close())
	assert.Equal(t, 1, device.closed, "device released once")

	dst := gocv.NewMat()
	defer dst.Close()
	assert.ErrorIs(t, src.Read(&dst), ErrFrameUnavailable)
	assert.Zero(t, device.reads, "closed source does not touch the device")
}
