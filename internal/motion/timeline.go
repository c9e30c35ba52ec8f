package motion

import (
	"sort"

	"github.com/ivlev/ssconv/internal/curve"
	"github.com/ivlev/ssconv/internal/errkind"
)

// Keyframe is one control point of a timeline.
type Keyframe struct {
	Frame int
	Value Value
	Curve curve.Curve
}

// Timeline is the frame-ordered keyframe list of one attribute.
// It is immutable once built.
type Timeline struct {
	keys []Keyframe
}

// NewTimeline sorts keys by frame. Two keys on the same frame are rejected.
func NewTimeline(keys []Keyframe) (*Timeline, error) {
	sorted := make([]Keyframe, len(keys))
	copy(sorted, keys)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Frame < sorted[j].Frame })

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Frame == sorted[i-1].Frame {
			return nil, errkind.New(errkind.MalformedTimeline, "duplicate keyframe at frame %d", sorted[i].Frame)
		}
	}
	return &Timeline{keys: sorted}, nil
}

// Len returns the number of keyframes.
func (t *Timeline) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// HasKeys reports whether the timeline holds at least one keyframe.
func (t *Timeline) HasKeys() bool {
	return t.Len() > 0
}

// Keys returns the keyframes in frame order. The slice must not be modified.
func (t *Timeline) Keys() []Keyframe {
	if t == nil {
		return nil
	}
	return t.keys
}

// FirstFrame returns the frame of the first keyframe.
func (t *Timeline) FirstFrame() (int, bool) {
	if !t.HasKeys() {
		return -1, false
	}
	return t.keys[0].Frame, true
}

// LastFrame returns the frame of the last keyframe.
func (t *Timeline) LastFrame() (int, bool) {
	if !t.HasKeys() {
		return -1, false
	}
	return t.keys[len(t.keys)-1].Frame, true
}

// FindAtOrBefore returns the last keyframe with Frame <= frame, or nil.
func (t *Timeline) FindAtOrBefore(frame int) *Keyframe {
	n := t.Len()
	i := sort.Search(n, func(i int) bool { return t.keys[i].Frame > frame })
	if i == 0 {
		return nil
	}
	return &t.keys[i-1]
}

// FindAtOrAfter returns the first keyframe with Frame >= frame, or nil.
func (t *Timeline) FindAtOrAfter(frame int) *Keyframe {
	n := t.Len()
	i := sort.Search(n, func(i int) bool { return t.keys[i].Frame >= frame })
	if i == n {
		return nil
	}
	return &t.keys[i]
}

// FindExact returns the keyframe on frame, or nil.
func (t *Timeline) FindExact(frame int) *Keyframe {
	k := t.FindAtOrAfter(frame)
	if k == nil || k.Frame != frame {
		return nil
	}
	return k
}
