package gpu

import (
	"encoding/binary"
	"math"

	"github.com/gekko3d/particles/rt/core"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	WorkgroupSize = 64

	// vec3 state is padded to vec4 in storage.
	ParticleStride = 16

	ParamsUniformSize = 32
	CameraUniformSize = 144

	GridSize      = 60
	GridDivisions = 40
)

// clipFix maps OpenGL clip depth [-w, w] onto WebGPU's [0, w].
var clipFix = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// Workgroups returns the dispatch width covering n lanes.
func Workgroups(n int) uint32 {
	if n <= 0 {
		return 0
	}
	return uint32((n + WorkgroupSize - 1) / WorkgroupSize)
}

// PackParams lays out the compute Params uniform.
func PackParams(p core.ParamValues, count int, opt core.InitOptions) []byte {
	buf := make([]byte, ParamsUniformSize)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(p.Gravity))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(p.Bounce))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(p.Friction))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(p.Size))
	binary.LittleEndian.PutUint32(buf[16:20], uint32(count))
	if opt.RandomHeight {
		binary.LittleEndian.PutUint32(buf[20:24], 1)
	}
	binary.LittleEndian.PutUint32(buf[24:28], math.Float32bits(core.FloorFriction))
	return buf
}

// PackCamera lays out the Camera uniform shared by the sprite and grid passes.
func PackCamera(view, projection mgl32.Mat4, spriteSize float32) []byte {
	buf := make([]byte, CameraUniformSize)
	viewProj := clipFix.Mul4(projection).Mul4(view)
	putMat4(buf[0:64], viewProj)
	putMat4(buf[64:128], view)
	binary.LittleEndian.PutUint32(buf[128:132], math.Float32bits(spriteSize))
	return buf
}

// GridVertices returns line-list endpoints of a square grid on the y=0 plane.
func GridVertices(size float32, divisions int) []float32 {
	if divisions < 1 {
		divisions = 1
	}
	half := size / 2
	step := size / float32(divisions)
	out := make([]float32, 0, (divisions+1)*2*2*3)
	for i := 0; i <= divisions; i++ {
		k := -half + float32(i)*step
		out = append(out,
			-half, 0, k, half, 0, k,
			k, 0, -half, k, 0, half,
		)
	}
	return out
}

func putMat4(dst []byte, m mgl32.Mat4) {
	for i, v := range m {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(v))
	}
}

func float32sToBytes(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}
