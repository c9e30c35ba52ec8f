// Package motion holds the immutable animation model: attribute tags,
// keyframe timelines, parts arranged in a tree, and the image list.
package motion

// Image is a source texture referenced by parts.
type Image struct {
	ID     int
	Path   string
	Width  int
	Height int
	BPP    int
}

// HasSize reports whether the image dimensions are known.
func (i Image) HasSize() bool {
	return i.Width > 0 && i.Height > 0
}

// Bounds returns the image rectangle at the origin.
func (i Image) Bounds() Rect {
	return NewRect(0, 0, i.Width, i.Height)
}

// Motion is one animation: a part tree plus playback parameters.
type Motion struct {
	Name     string
	Tree     *Tree
	FPS      int
	EndFrame int
	Images   []Image
}

// TotalFrames is the number of frames to output, 0 through EndFrame.
func (m *Motion) TotalFrames() int {
	return m.EndFrame + 1
}

// Image returns the image with the given id.
func (m *Motion) Image(id int) (Image, bool) {
	for _, img := range m.Images {
		if img.ID == id {
			return img, true
		}
	}
	return Image{}, false
}
