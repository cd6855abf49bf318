package gpu

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/particles/rt/shaders"
)

const DepthFormat = wgpu.TextureFormatDepth24Plus

// depthTested is shared by the sprite and grid pipelines. Sprites test but never write.
func depthTested(write bool) *wgpu.DepthStencilState {
	keep := wgpu.StencilFaceState{
		Compare:     wgpu.CompareFunctionAlways,
		FailOp:      wgpu.StencilOperationKeep,
		DepthFailOp: wgpu.StencilOperationKeep,
		PassOp:      wgpu.StencilOperationKeep,
	}
	return &wgpu.DepthStencilState{
		Format:            DepthFormat,
		DepthWriteEnabled: write,
		DepthCompare:      wgpu.CompareFunctionLess,
		StencilFront:      keep,
		StencilBack:       keep,
	}
}

// SpritePass draws one camera-facing textured quad per particle.
type SpritePass struct {
	Device      *wgpu.Device
	Pipeline    *wgpu.RenderPipeline
	BindGroup   *wgpu.BindGroup
	Texture     *wgpu.Texture
	TextureView *wgpu.TextureView
	Sampler     *wgpu.Sampler
}

func NewSpritePass(device *wgpu.Device, format wgpu.TextureFormat) (*SpritePass, error) {
	module, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "ParticlesSprite",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.ParticlesSpriteWGSL},
	})
	if err != nil {
		return nil, fmt.Errorf("compile sprite shader: %w", err)
	}
	defer module.Release()

	instance := func(location uint32) wgpu.VertexBufferLayout {
		return wgpu.VertexBufferLayout{
			ArrayStride: ParticleStride,
			StepMode:    wgpu.VertexStepModeInstance,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x4, Offset: 0, ShaderLocation: location},
			},
		}
	}

	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "ParticlesSpritePipeline",
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers:    []wgpu.VertexBufferLayout{instance(0), instance(1)},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    format,
					WriteMask: wgpu.ColorWriteMaskAll,
					Blend: &wgpu.BlendState{
						Color: wgpu.BlendComponent{
							Operation: wgpu.BlendOperationAdd,
							SrcFactor: wgpu.BlendFactorSrcAlpha,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						},
						Alpha: wgpu.BlendComponent{
							Operation: wgpu.BlendOperationAdd,
							SrcFactor: wgpu.BlendFactorOne,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						},
					},
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		DepthStencil: depthTested(false),
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("sprite pipeline: %w", err)
	}

	sampler, err := device.CreateSampler(&wgpu.SamplerDescriptor{
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMinClamp:   0.,
		LodMaxClamp:   1.,
		MaxAnisotropy: 1,
	})
	if err != nil {
		pipeline.Release()
		return nil, err
	}

	return &SpritePass{Device: device, Pipeline: pipeline, Sampler: sampler}, nil
}

// Upload copies the sprite image to the device and rebuilds the bind group.
func (p *SpritePass) Upload(img *image.RGBA, cameraBuf *wgpu.Buffer) error {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if p.TextureView != nil {
		p.TextureView.Release()
	}
	if p.Texture != nil {
		p.Texture.Release()
	}

	tex, err := p.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "ParticleSprite",
		Size:          wgpu.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return err
	}
	p.Texture = tex

	// image.RGBA is premultiplied; the blend state expects straight alpha.
	straight := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(straight, straight.Bounds(), img, img.Rect.Min, draw.Src)
	pix := straight.Pix
	err = p.Device.GetQueue().WriteTexture(tex.AsImageCopy(), pix, &wgpu.TextureDataLayout{
		Offset:       0,
		BytesPerRow:  uint32(w * 4),
		RowsPerImage: uint32(h),
	}, &wgpu.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1})
	if err != nil {
		return err
	}

	p.TextureView, err = tex.CreateView(nil)
	if err != nil {
		return err
	}

	if p.BindGroup != nil {
		p.BindGroup.Release()
	}
	p.BindGroup, err = p.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "ParticlesSpriteBG",
		Layout: p.Pipeline.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: cameraBuf, Size: wgpu.WholeSize},
			{Binding: 1, TextureView: p.TextureView},
			{Binding: 2, Sampler: p.Sampler},
		},
	})
	return err
}

// Draw reads the particle buffers as instance data. Nothing is written back.
func (p *SpritePass) Draw(pass *wgpu.RenderPassEncoder, buffers *ParticleBuffers) {
	if p.BindGroup == nil || buffers == nil || buffers.Count == 0 {
		return
	}
	pass.SetPipeline(p.Pipeline)
	pass.SetBindGroup(0, p.BindGroup, nil)
	pass.SetVertexBuffer(0, buffers.Positions, 0, wgpu.WholeSize)
	pass.SetVertexBuffer(1, buffers.Colors, 0, wgpu.WholeSize)
	pass.Draw(6, uint32(buffers.Count), 0, 0)
}

func (p *SpritePass) Release() {
	if p.BindGroup != nil {
		p.BindGroup.Release()
	}
	if p.TextureView != nil {
		p.TextureView.Release()
	}
	if p.Texture != nil {
		p.Texture.Release()
	}
	if p.Sampler != nil {
		p.Sampler.Release()
	}
	if p.Pipeline != nil {
		p.Pipeline.Release()
	}
}
