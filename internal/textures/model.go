package textures

import "image"

type Model int

const (
	ModelUnknown Model = iota
	ModelClassic
	ModelSlim
)

var modelNames = map[Model]string{
	ModelUnknown: "unknown",
	ModelClassic: "classic",
	ModelSlim:    "slim",
}

func (m Model) String() string {
	if name, ok := modelNames[m]; ok {
		return name
	}

	return modelNames[ModelUnknown]
}

func (m Model) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// All coordinates below are given on the canonical 64px grid and multiplied by the scale
const (
	baseSize     = 64
	legacyHeight = 32
	armWidth     = 4
	armHeight    = 12
)

var (
	rightArmOverlay = image.Rect(44, 20, 44+armWidth, 20+armHeight)
	leftArmOverlay  = image.Rect(36, 52, 36+armWidth, 52+armHeight)
)

// ClassifyModel detects the arm model of the skin. Slim skins have 3px wide arms,
// so the 4th column of the arm overlay layer stays fully transparent.
// Legacy 64x32 skins have no left arm layer and only the right arm is inspected.
func ClassifyModel(img image.Image) (Model, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width < baseSize {
		return ModelUnknown, ErrImageTooSmall
	}

	scale := width / baseSize
	if height < legacyHeight*scale {
		return ModelUnknown, ErrImageTooSmall
	}

	hasRightArmPixels := rightArmHasPixels(img, scale)
	hasLeftArmPixels := false
	if height >= baseSize*scale {
		hasLeftArmPixels = leftArmHasPixels(img, scale)
	}

	if !hasRightArmPixels && (height != baseSize*scale || !hasLeftArmPixels) {
		return ModelSlim, nil
	}

	return ModelClassic, nil
}

func rightArmHasPixels(img image.Image, scale int) bool {
	return columnHasPixels(img, scaleRect(rightArmOverlay, scale), scale)
}

func leftArmHasPixels(img image.Image, scale int) bool {
	return columnHasPixels(img, scaleRect(leftArmOverlay, scale), scale)
}

// columnHasPixels scans the last scaled column of the region and stops on the first non-transparent pixel
func columnHasPixels(img image.Image, region image.Rectangle, scale int) bool {
	origin := img.Bounds().Min
	for x := region.Min.X + 3*scale; x < region.Min.X+4*scale; x++ {
		for y := region.Min.Y; y < region.Max.Y; y++ {
			_, _, _, a := img.At(origin.X+x, origin.Y+y).RGBA()
			if a > 0 {
				return true
			}
		}
	}

	return false
}

func scaleRect(r image.Rectangle, scale int) image.Rectangle {
	return image.Rect(r.Min.X*scale, r.Min.Y*scale, r.Max.X*scale, r.Max.Y*scale)
}
