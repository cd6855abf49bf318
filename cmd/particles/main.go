package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/gekko3d/particles"
	"github.com/gekko3d/particles/config"
)

func init() {
	// GLFW and the wgpu surface must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "YAML config merged over the built-in defaults")
	backend := flag.String("backend", "", "device backend: gpu or cpu (overrides config)")
	headless := flag.Int("headless", 0, "run N frames without a window on the cpu backend")
	out := flag.String("out", "", "headless: write frame_NNNNN.png files into this directory")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "particles: %v\n", err)
		os.Exit(2)
	}
	if *headless > 0 {
		cfg.Headless.Frames = *headless
		cfg.Renderer.Backend = string(particles.BackendCPU)
	}
	if *backend != "" {
		b, err := particles.ParseBackend(*backend)
		if err != nil {
			fmt.Fprintf(os.Stderr, "particles: %v\n", err)
			os.Exit(2)
		}
		cfg.Renderer.Backend = string(b)
	}
	if *out != "" {
		cfg.Headless.OutputDir = *out
	}
	if *debug {
		cfg.Log.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "particles: invalid config:\n%v\n", err)
		os.Exit(2)
	}

	if err := particles.NewApp(cfg).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "particles: %v\n", err)
		os.Exit(1)
	}
}
