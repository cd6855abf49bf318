package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/particles/rt/core"
	"github.com/gekko3d/particles/rt/shaders"
)

// ComputePass owns the init and update kernels. Both share one bind group
// layout so a single bind group serves either dispatch.
type ComputePass struct {
	Device         *wgpu.Device
	InitPipeline   *wgpu.ComputePipeline
	UpdatePipeline *wgpu.ComputePipeline
	Layout         *wgpu.BindGroupLayout
	BindGroup      *wgpu.BindGroup
	ParamsBuf      *wgpu.Buffer
}

func NewComputePass(device *wgpu.Device) (*ComputePass, error) {
	module, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "ParticlesCompute",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.ParticlesComputeWGSL},
	})
	if err != nil {
		return nil, fmt.Errorf("compile compute shader: %w", err)
	}
	defer module.Release()

	storage := func(binding uint32) wgpu.BindGroupLayoutEntry {
		return wgpu.BindGroupLayoutEntry{
			Binding:    binding,
			Visibility: wgpu.ShaderStageCompute,
			Buffer: wgpu.BufferBindingLayout{
				Type: wgpu.BufferBindingTypeStorage,
			},
		}
	}

	bgl, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "ParticlesComputeBGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageCompute,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: ParamsUniformSize,
				},
			},
			storage(1),
			storage(2),
			storage(3),
		},
	})
	if err != nil {
		return nil, err
	}

	layout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "ParticlesComputeLayout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{bgl},
	})
	if err != nil {
		return nil, err
	}
	defer layout.Release()

	p := &ComputePass{Device: device, Layout: bgl}
	p.InitPipeline, err = device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:  "ParticlesInit",
		Layout: layout,
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     module,
			EntryPoint: "init_particles",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("init pipeline: %w", err)
	}
	p.UpdatePipeline, err = device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:  "ParticlesUpdate",
		Layout: layout,
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     module,
			EntryPoint: "update_particles",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("update pipeline: %w", err)
	}
	return p, nil
}

// Bind points the pass at a particle population.
func (p *ComputePass) Bind(buffers *ParticleBuffers) error {
	if err := ensureBuffer(p.Device, "ParticlesParams", &p.ParamsBuf, make([]byte, ParamsUniformSize), wgpu.BufferUsageUniform); err != nil {
		return err
	}
	if p.BindGroup != nil {
		p.BindGroup.Release()
	}

	var err error
	p.BindGroup, err = p.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "ParticlesComputeBG",
		Layout: p.Layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: p.ParamsBuf, Size: wgpu.WholeSize},
			{Binding: 1, Buffer: buffers.Positions, Size: wgpu.WholeSize},
			{Binding: 2, Buffer: buffers.Velocities, Size: wgpu.WholeSize},
			{Binding: 3, Buffer: buffers.Colors, Size: wgpu.WholeSize},
		},
	})
	return err
}

// Encode writes the params uniform and records one dispatch into encoder.
// The uniform write is ordered before the submission that carries the dispatch.
func (p *ComputePass) Encode(encoder *wgpu.CommandEncoder, job core.ComputeJob, count int) error {
	var pipeline *wgpu.ComputePipeline
	switch job.Kernel {
	case core.KernelInit:
		pipeline = p.InitPipeline
	case core.KernelUpdate:
		pipeline = p.UpdatePipeline
	default:
		return fmt.Errorf("gpu: unknown kernel %v", job.Kernel)
	}

	if err := p.Device.GetQueue().WriteBuffer(p.ParamsBuf, 0, PackParams(job.Params, count, job.Init)); err != nil {
		return err
	}

	pass := encoder.BeginComputePass(&wgpu.ComputePassDescriptor{Label: job.Kernel.String()})
	pass.SetPipeline(pipeline)
	pass.SetBindGroup(0, p.BindGroup, nil)
	pass.DispatchWorkgroups(Workgroups(count), 1, 1)
	return pass.End()
}

func (p *ComputePass) Release() {
	if p.BindGroup != nil {
		p.BindGroup.Release()
	}
	if p.ParamsBuf != nil {
		p.ParamsBuf.Release()
	}
	if p.InitPipeline != nil {
		p.InitPipeline.Release()
	}
	if p.UpdatePipeline != nil {
		p.UpdatePipeline.Release()
	}
	if p.Layout != nil {
		p.Layout.Release()
	}
}
