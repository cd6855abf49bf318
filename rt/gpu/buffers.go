package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// ParticleBuffers holds the lockstep particle state on the device.
// Each buffer is both a compute storage buffer and an instance vertex buffer.
type ParticleBuffers struct {
	Count      int
	Positions  *wgpu.Buffer
	Velocities *wgpu.Buffer
	Colors     *wgpu.Buffer
}

func NewParticleBuffers(device *wgpu.Device, count int) (*ParticleBuffers, error) {
	b := &ParticleBuffers{Count: count}
	size := uint64(count * ParticleStride)
	usage := wgpu.BufferUsageStorage | wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst

	for _, slot := range []struct {
		name string
		buf  **wgpu.Buffer
	}{
		{"ParticlePositions", &b.Positions},
		{"ParticleVelocities", &b.Velocities},
		{"ParticleColors", &b.Colors},
	} {
		buf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: slot.name,
			Size:  size,
			Usage: usage,
		})
		if err != nil {
			b.Release()
			return nil, fmt.Errorf("create %s: %w", slot.name, err)
		}
		*slot.buf = buf
	}
	return b, nil
}

func (b *ParticleBuffers) Release() {
	for _, buf := range []*wgpu.Buffer{b.Positions, b.Velocities, b.Colors} {
		if buf != nil {
			buf.Release()
		}
	}
	b.Positions, b.Velocities, b.Colors = nil, nil, nil
}

// ensureBuffer (re)creates buf when it is missing or too small, then uploads data.
func ensureBuffer(device *wgpu.Device, name string, buf **wgpu.Buffer, data []byte, usage wgpu.BufferUsage) error {
	neededSize := uint64(len(data))
	if neededSize%4 != 0 {
		neededSize += 4 - (neededSize % 4)
	}

	current := *buf
	if current == nil || current.GetSize() < neededSize {
		if current != nil {
			current.Release()
		}
		newBuf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: name,
			Size:  neededSize,
			Usage: usage | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("create %s: %w", name, err)
		}
		*buf = newBuf
	}

	if len(data) > 0 {
		return device.GetQueue().WriteBuffer(*buf, 0, data)
	}
	return nil
}
