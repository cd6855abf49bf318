package particles

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"

	"github.com/google/uuid"
)

var ErrAssetLoad = errors.New("asset load failed")

type AssetId string

type AssetServer struct {
	textures map[AssetId]*image.RGBA
}

type AssetServerModule struct{}

func (AssetServerModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(NewAssetServer())
}

func NewAssetServer() *AssetServer {
	return &AssetServer{textures: make(map[AssetId]*image.RGBA)}
}

func (server *AssetServer) CreateTexture(img *image.RGBA) AssetId {
	id := makeAssetId()
	server.textures[id] = img
	return id
}

// LoadTexture decodes a PNG into RGBA. Errors wrap ErrAssetLoad.
func (server *AssetServer) LoadTexture(filename string) (AssetId, error) {
	file, err := os.Open(filename)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAssetLoad, err)
	}
	defer file.Close()

	img, err := png.Decode(file)
	if err != nil {
		return "", fmt.Errorf("%w: decode %s: %v", ErrAssetLoad, filename, err)
	}
	if img.Bounds().Empty() {
		return "", fmt.Errorf("%w: %s is empty", ErrAssetLoad, filename)
	}

	rgbaImg, ok := img.(*image.RGBA)
	if !ok {
		bounds := img.Bounds()
		rgbaImg = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgbaImg, rgbaImg.Bounds(), img, bounds.Min, draw.Src)
	}
	return server.CreateTexture(rgbaImg), nil
}

func (server *AssetServer) Texture(id AssetId) (*image.RGBA, bool) {
	img, ok := server.textures[id]
	return img, ok
}

// NewSoftDiscSprite draws a white disc with alpha falling off toward the rim.
// Pixels are premultiplied, as image.RGBA requires.
func NewSoftDiscSprite(size int) *image.RGBA {
	if size < 1 {
		size = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	r := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) + 0.5 - r
			dy := float64(y) + 0.5 - r
			d := math.Sqrt(dx*dx+dy*dy) / r
			if d >= 1 {
				continue
			}
			a := uint8(math.Round(255 * (1 - d*d)))
			img.SetRGBA(x, y, color.RGBA{a, a, a, a})
		}
	}
	return img
}

func makeAssetId() AssetId {
	return AssetId(uuid.NewString())
}
