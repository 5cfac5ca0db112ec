package lanes

import "github.com/google/uuid"

type (
	// Frame is a position or a duration on the timeline, in samples.
	Frame int64

	// Layer is the stacking depth of a region within its playlist. Layer 0 is
	// the bottom-most; a region on a higher layer covers the regions below it
	// where they overlap.
	Layer uint32

	// RegionID identifies a region. Views refer to regions only by their ID,
	// resolving them through the playlist when needed, so a view never keeps
	// a removed region alive.
	RegionID string

	// OverlapType tells how a time range overlaps a region.
	OverlapType int
)

const (
	// OverlapNone: the range and the region do not overlap.
	OverlapNone OverlapType = iota
	// OverlapInternal: the range lies within the region.
	OverlapInternal
	// OverlapStart: the range overlaps the start of the region.
	OverlapStart
	// OverlapEnd: the range overlaps the end of the region.
	OverlapEnd
	// OverlapExternal: the range covers the whole region.
	OverlapExternal
)

// NewRegionID returns a new random region ID.
func NewRegionID() RegionID {
	return RegionID(uuid.NewString())
}

// Coverage tells how the half-open range [start, end) overlaps a region
// occupying [position, position+length). An empty or inverted range is treated
// as the single frame start.
func Coverage(position, length, start, end Frame) OverlapType {
	regionEnd := position + length
	if end <= start {
		if start >= position && start < regionEnd {
			return OverlapInternal
		}
		return OverlapNone
	}
	if end <= position || start >= regionEnd {
		return OverlapNone
	}
	switch {
	case start <= position && end >= regionEnd:
		return OverlapExternal
	case start > position && end < regionEnd:
		return OverlapInternal
	case start <= position:
		return OverlapStart
	default:
		return OverlapEnd
	}
}

func (o OverlapType) String() string {
	switch o {
	case OverlapNone:
		return "none"
	case OverlapInternal:
		return "internal"
	case OverlapStart:
		return "start"
	case OverlapEnd:
		return "end"
	case OverlapExternal:
		return "external"
	}
	return "unknown"
}
