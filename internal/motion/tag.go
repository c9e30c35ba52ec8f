package motion

import (
	"fmt"
	"strings"
)

// Tag identifies an animatable attribute.
type Tag int

const (
	Unknown Tag = iota
	PosX
	PosY
	Angle
	ScaleX
	ScaleY
	Trans
	Priority
	FlipH
	FlipV
	Hide
	ImgX
	ImgY
	ImgW
	ImgH
	OriginX
	OriginY
	PartColor
	Palette
	Vertex
	UserDataTag

	NumTags
)

var tagNames = [NumTags]string{
	Unknown:     "Unknown",
	PosX:        "POSX",
	PosY:        "POSY",
	Angle:       "ANGL",
	ScaleX:      "SCAX",
	ScaleY:      "SCAY",
	Trans:       "TRAN",
	Priority:    "PRIO",
	FlipH:       "FLPH",
	FlipV:       "FLPV",
	Hide:        "HIDE",
	ImgX:        "IMGX",
	ImgY:        "IMGY",
	ImgW:        "IMGW",
	ImgH:        "IMGH",
	OriginX:     "ORFX",
	OriginY:     "ORFY",
	PartColor:   "PCOL",
	Palette:     "PALT",
	Vertex:      "VERT",
	UserDataTag: "UDAT",
}

func (t Tag) String() string {
	if t < 0 || t >= NumTags {
		return fmt.Sprintf("Tag(%d)", int(t))
	}
	return tagNames[t]
}

// ParseTag maps a four letter attribute name to its Tag, or Unknown.
func ParseTag(s string) Tag {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i := PosX; i < NumTags; i++ {
		if tagNames[i] == s {
			return i
		}
	}
	return Unknown
}

// Category groups tags by the meaning of their values.
type Category int

const (
	Number Category = iota
	Coordinates
	Radian
	Scale
	Ratio
	Flag
	Composite
)

// AttributeType is the static description of a tag.
type AttributeType struct {
	Category              Category
	Kind                  Kind
	Default               Value
	Inheritable           bool
	DefaultInheritPercent float32
}

func floatType(c Category, def float32) AttributeType {
	return AttributeType{Category: c, Kind: KindFloat, Default: FloatValue(def)}
}

func inheritableType(c Category, def, percent float32) AttributeType {
	return AttributeType{Category: c, Kind: KindFloat, Default: FloatValue(def), Inheritable: true, DefaultInheritPercent: percent}
}

var attributeTypes = [NumTags]AttributeType{
	Unknown:     floatType(Number, 0),
	PosX:        inheritableType(Coordinates, 0, 100),
	PosY:        inheritableType(Coordinates, 0, 100),
	Angle:       inheritableType(Radian, 0, 100),
	ScaleX:      inheritableType(Scale, 1, 100),
	ScaleY:      inheritableType(Scale, 1, 100),
	Trans:       inheritableType(Ratio, 1, 100),
	Priority:    floatType(Number, 0),
	FlipH:       inheritableType(Flag, 0, 0),
	FlipV:       inheritableType(Flag, 0, 0),
	Hide:        inheritableType(Flag, 0, 0),
	ImgX:        floatType(Coordinates, 0),
	ImgY:        floatType(Coordinates, 0),
	ImgW:        floatType(Coordinates, 0),
	ImgH:        floatType(Coordinates, 0),
	OriginX:     floatType(Coordinates, 0),
	OriginY:     floatType(Coordinates, 0),
	PartColor:   {Category: Composite, Kind: KindColorBlend, Default: ColorBlendValue(ColorBlend{})},
	Palette:     floatType(Number, 0),
	Vertex:      {Category: Composite, Kind: KindVertex, Default: VertexValue(Vertex4{})},
	UserDataTag: {Category: Composite, Kind: KindUserData, Default: UserDataValue(UserData{})},
}

// TypeOf returns the static type of tag. Out of range tags get the Unknown entry.
func TypeOf(tag Tag) AttributeType {
	if tag < 0 || tag >= NumTags {
		tag = Unknown
	}
	return attributeTypes[tag]
}
