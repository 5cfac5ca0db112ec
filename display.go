package lanes

import (
	"fmt"
	"strings"
)

type (
	// LayerDisplay is the vertical layout used for overlapping regions in a
	// lane.
	LayerDisplay int

	// TrackMode is the capture mode of a track.
	TrackMode int

	// ColorTarget selects which color of a lane ApplyColor changes.
	ColorTarget int
)

const (
	// Overlaid: all regions use the full lane height and overlap each other,
	// higher layers drawn on top.
	Overlaid LayerDisplay = iota
	// Stacked: the lane is divided in equal bands, one per layer, the top
	// layer at the top of the lane.
	Stacked
)

const (
	// Normal: captured material becomes new regions layered on top.
	Normal TrackMode = iota
	// NonLayered: like Normal, but new regions do not cover old ones.
	NonLayered
	// Destructive: capture overwrites the existing material in place.
	Destructive
)

const (
	// RegionColor is the default fill of region views without an explicit
	// color of their own.
	RegionColor ColorTarget = iota
	// StreamBaseColor is the fill of the lane background.
	StreamBaseColor
)

func (d LayerDisplay) String() string {
	switch d {
	case Overlaid:
		return "overlaid"
	case Stacked:
		return "stacked"
	}
	return fmt.Sprintf("LayerDisplay(%d)", int(d))
}

// ParseLayerDisplay parses "overlaid" or "stacked", ignoring case.
func ParseLayerDisplay(s string) (LayerDisplay, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "overlaid":
		return Overlaid, nil
	case "stacked":
		return Stacked, nil
	}
	return Overlaid, fmt.Errorf("unknown layer display %q", s)
}

func (m TrackMode) String() string {
	switch m {
	case Normal:
		return "normal"
	case NonLayered:
		return "nonlayered"
	case Destructive:
		return "destructive"
	}
	return fmt.Sprintf("TrackMode(%d)", int(m))
}

// ParseTrackMode parses "normal", "nonlayered" or "destructive", ignoring case.
func ParseTrackMode(s string) (TrackMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal":
		return Normal, nil
	case "nonlayered", "non-layered":
		return NonLayered, nil
	case "destructive":
		return Destructive, nil
	}
	return Normal, fmt.Errorf("unknown track mode %q", s)
}

func (t ColorTarget) String() string {
	switch t {
	case RegionColor:
		return "region"
	case StreamBaseColor:
		return "stream base"
	}
	return fmt.Sprintf("ColorTarget(%d)", int(t))
}
