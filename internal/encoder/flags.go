// Package encoder writes frame records sparsely: only the fields that
// differ from their structural default are emitted, announced by a flags
// word in front of the record.
package encoder

import (
	"strings"
	"sync/atomic"
)

// PartFlag marks an optional field of a part record, or a boolean state
// carried by the flags word alone.
type PartFlag uint32

const (
	FlagFlipH PartFlag = 1 << 0
	FlagFlipV PartFlag = 1 << 1
	// FlagInvisible is set for records a player must not draw.
	FlagInvisible PartFlag = 1 << 2

	FlagOriginX        PartFlag = 1 << 4
	FlagOriginY        PartFlag = 1 << 5
	FlagRotation       PartFlag = 1 << 6
	FlagScaleX         PartFlag = 1 << 7
	FlagScaleY         PartFlag = 1 << 8
	FlagOpacity        PartFlag = 1 << 9
	FlagVertexOffsetTL PartFlag = 1 << 10
	FlagVertexOffsetTR PartFlag = 1 << 11
	FlagVertexOffsetBL PartFlag = 1 << 12
	FlagVertexOffsetBR PartFlag = 1 << 13
	FlagColor          PartFlag = 1 << 14
	FlagVertexColorTL  PartFlag = 1 << 15
	FlagVertexColorTR  PartFlag = 1 << 16
	FlagVertexColorBL  PartFlag = 1 << 17
	FlagVertexColorBR  PartFlag = 1 << 18

	FlagsVertexOffset = FlagVertexOffsetTL | FlagVertexOffsetTR | FlagVertexOffsetBL | FlagVertexOffsetBR
	FlagsVertexColor  = FlagVertexColorTL | FlagVertexColorTR | FlagVertexColorBL | FlagVertexColorBR
	FlagsColorBlend   = FlagColor | FlagsVertexColor
)

// Corner flags indexed by motion.TopLeft .. motion.BottomRight.
var (
	vertexOffsetFlags = [4]PartFlag{FlagVertexOffsetTL, FlagVertexOffsetTR, FlagVertexOffsetBL, FlagVertexOffsetBR}
	vertexColorFlags  = [4]PartFlag{FlagVertexColorTL, FlagVertexColorTR, FlagVertexColorBL, FlagVertexColorBR}
)

var partFlagNames = []struct {
	flag PartFlag
	name string
}{
	{FlagFlipH, "flipH"},
	{FlagFlipV, "flipV"},
	{FlagInvisible, "invisible"},
	{FlagOriginX, "originX"},
	{FlagOriginY, "originY"},
	{FlagRotation, "rotation"},
	{FlagScaleX, "scaleX"},
	{FlagScaleY, "scaleY"},
	{FlagOpacity, "opacity"},
	{FlagVertexOffsetTL, "vertexTL"},
	{FlagVertexOffsetTR, "vertexTR"},
	{FlagVertexOffsetBL, "vertexBL"},
	{FlagVertexOffsetBR, "vertexBR"},
	{FlagColor, "color"},
	{FlagVertexColorTL, "colorTL"},
	{FlagVertexColorTR, "colorTR"},
	{FlagVertexColorBL, "colorBL"},
	{FlagVertexColorBR, "colorBR"},
}

func (f PartFlag) Has(flag PartFlag) bool { return f&flag != 0 }

func (f PartFlag) String() string {
	if f == 0 {
		return "none"
	}
	var names []string
	for _, n := range partFlagNames {
		if f&n.flag != 0 {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, "|")
}

// DataFlags summarizes the optional features a whole output uses.
func (f PartFlag) DataFlags() DataFlag {
	var d DataFlag
	if f&FlagsVertexOffset != 0 {
		d |= DataVertexOffset
	}
	if f&FlagsColorBlend != 0 {
		d |= DataColorBlend
	}
	return d
}

// DataFlag is a whole-output feature bit stored in the file header, so a
// reader can skip parsing paths for features nothing uses.
type DataFlag uint32

const (
	DataVertexOffset DataFlag = 1 << 0
	DataColorBlend   DataFlag = 1 << 1
	DataAlphaBlend   DataFlag = 1 << 2
	DataAffineTrans  DataFlag = 1 << 3
)

// Accumulator ORs data flags from any number of goroutines.
type Accumulator struct {
	bits atomic.Uint32
}

func (a *Accumulator) Add(f DataFlag) { a.bits.Or(uint32(f)) }

func (a *Accumulator) Flags() DataFlag { return DataFlag(a.bits.Load()) }

// UserDataFlag marks a field present in a user-data record.
type UserDataFlag uint16

const (
	UserNumber UserDataFlag = 1 << 0
	UserRect   UserDataFlag = 1 << 1
	UserPoint  UserDataFlag = 1 << 2
	UserString UserDataFlag = 1 << 3

	UserDataFlags = UserNumber | UserRect | UserPoint | UserString
)
