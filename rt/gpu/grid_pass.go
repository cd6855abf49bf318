package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/particles/rt/shaders"
)

// GridPass draws the floor reference grid.
type GridPass struct {
	Device       *wgpu.Device
	Pipeline     *wgpu.RenderPipeline
	BindGroup    *wgpu.BindGroup
	VertexBuffer *wgpu.Buffer
	VertexCount  uint32
}

func NewGridPass(device *wgpu.Device, format wgpu.TextureFormat, cameraBuf *wgpu.Buffer) (*GridPass, error) {
	module, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Grid",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.GridWGSL},
	})
	if err != nil {
		return nil, fmt.Errorf("compile grid shader: %w", err)
	}
	defer module.Release()

	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "GridPipeline",
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: 12,
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
					},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{Format: format, WriteMask: wgpu.ColorWriteMaskAll},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyLineList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		DepthStencil: depthTested(true),
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("grid pipeline: %w", err)
	}

	p := &GridPass{Device: device, Pipeline: pipeline}
	verts := GridVertices(GridSize, GridDivisions)
	p.VertexCount = uint32(len(verts) / 3)
	if err := ensureBuffer(device, "GridVertices", &p.VertexBuffer, float32sToBytes(verts), wgpu.BufferUsageVertex); err != nil {
		p.Release()
		return nil, err
	}

	p.BindGroup, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "GridBG",
		Layout: pipeline.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: cameraBuf, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		p.Release()
		return nil, err
	}
	return p, nil
}

func (p *GridPass) Draw(pass *wgpu.RenderPassEncoder) {
	pass.SetPipeline(p.Pipeline)
	pass.SetBindGroup(0, p.BindGroup, nil)
	pass.SetVertexBuffer(0, p.VertexBuffer, 0, wgpu.WholeSize)
	pass.Draw(p.VertexCount, 1, 0, 0)
}

func (p *GridPass) Release() {
	if p.BindGroup != nil {
		p.BindGroup.Release()
	}
	if p.VertexBuffer != nil {
		p.VertexBuffer.Release()
	}
	if p.Pipeline != nil {
		p.Pipeline.Release()
	}
}
