package loader

// Document is an animation as stored in YAML.
type Document struct {
	Name string `yaml:"name"`
	FPS  int    `yaml:"fps"`
	// EndFrame is the last frame to output. When absent the last keyframe
	// of any attribute ends the motion.
	EndFrame *int       `yaml:"endFrame,omitempty"`
	Images   []ImageDoc `yaml:"images,omitempty"`
	Parts    []PartDoc  `yaml:"parts"`
}

// ImageDoc is a texture. A missing size is probed from the file.
type ImageDoc struct {
	ID     int    `yaml:"id"`
	Path   string `yaml:"path"`
	Width  int    `yaml:"width,omitempty"`
	Height int    `yaml:"height,omitempty"`
	BPP    int    `yaml:"bpp,omitempty"`
}

type PartDoc struct {
	ID          int            `yaml:"id"`
	Parent      int            `yaml:"parent"`
	Name        string         `yaml:"name"`
	Type        string         `yaml:"type,omitempty"` // normal, root, null, hittest, sound
	Image       int            `yaml:"image"`
	Area        RectDoc        `yaml:"area"`
	Origin      PointDoc       `yaml:"origin"`
	AlphaBlend  string         `yaml:"alphaBlend,omitempty"` // mix, mul, add, sub
	InheritEach bool           `yaml:"inheritEach,omitempty"`
	Attributes  []AttributeDoc `yaml:"attributes,omitempty"`
}

// AttributeDoc is one animated attribute. Tag is the four letter name,
// POSX through UDAT.
type AttributeDoc struct {
	Tag     string   `yaml:"tag"`
	Inherit *float32 `yaml:"inherit,omitempty"`
	Keys    []KeyDoc `yaml:"keys"`
}

// KeyDoc is a keyframe. Exactly the value field matching the attribute
// must be set. ANGL values are in degrees.
type KeyDoc struct {
	Frame int    `yaml:"frame"`
	Curve string `yaml:"curve,omitempty"`
	// CurveParams are startT, startV, endT, endV.
	CurveParams []float32 `yaml:"curveParams,flow,omitempty"`

	Value  *float32   `yaml:"value,omitempty"`
	Vertex []PointDoc `yaml:"vertex,omitempty"`
	Color  *ColorDoc  `yaml:"color,omitempty"`
	User   *UserDoc   `yaml:"user,omitempty"`
}

type PointDoc struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

type RectDoc struct {
	Left   int `yaml:"left"`
	Top    int `yaml:"top"`
	Right  int `yaml:"right"`
	Bottom int `yaml:"bottom"`
}

// ColorDoc is a color blend. Colors are #aarrggbb: one for parts, four
// (top-left, top-right, bottom-left, bottom-right) for vertex.
type ColorDoc struct {
	Type   string   `yaml:"type"`
	Blend  string   `yaml:"blend"`
	Colors []string `yaml:"colors,flow,omitempty"`
}

type UserDoc struct {
	Number *int32    `yaml:"number,omitempty"`
	Rect   *RectDoc  `yaml:"rect,omitempty"`
	Point  *PointDoc `yaml:"point,omitempty"`
	String *string   `yaml:"string,omitempty"`
}
