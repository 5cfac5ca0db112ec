package lanes

import "github.com/vsariola/lanes/signal"

// The interfaces below are what a lane view needs from the editing model. The
// model may mutate and emit its signals from any goroutine; views marshal the
// notifications onto the UI goroutine before acting on them.
type (
	Region interface {
		ID() RegionID
		Name() string
		Position() Frame
		Length() Frame
		Layer() Layer
		// Coverage tells how the range [start, end) overlaps the region.
		Coverage(start, end Frame) OverlapType
	}

	Playlist interface {
		Name() string
		// Region resolves a region by ID. ok is false if the region is not
		// (or no longer) in the playlist.
		Region(id RegionID) (r Region, ok bool)
		// Regions returns a snapshot of the regions, in playlist order.
		Regions() []Region
		// TopLayer returns the highest layer used by any region, 0 if empty.
		TopLayer() Layer
		// SetExplicitRelayering tells the playlist whether layers are set
		// explicitly by the user (true when regions are displayed stacked)
		// or derived from the order regions were placed.
		SetExplicitRelayering(explicit bool)

		LayeringChanged() *signal.Signal[struct{}]
		RegionAdded() *signal.Signal[RegionID]
		RegionRemoved() *signal.Signal[RegionID]
	}

	// Diskstream is the capture path of a track: the playlist it currently
	// records into and the state of the current capture pass.
	Diskstream interface {
		Playlist() Playlist
		RecordEnabled() bool
		// CurrentCaptureStart is the timeline position where the current
		// capture pass started.
		CurrentCaptureStart() Frame
		// CurrentCaptureEnd is the timeline position captured so far.
		CurrentCaptureEnd() Frame

		PlaylistChanged() *signal.Signal[struct{}]
		RecordEnableChanged() *signal.Signal[struct{}]
	}

	Track interface {
		Name() string
		Mode() TrackMode
		// Diskstream returns nil if the track has no diskstream (e.g. a bus).
		Diskstream() Diskstream

		DiskstreamChanged() *signal.Signal[struct{}]
	}

	Session interface {
		TransportRolling() bool
		// RecordEnabled reports whether the session is actively recording
		// (global record arm engaged).
		RecordEnabled() bool

		TransportStateChange() *signal.Signal[struct{}]
		TransportLooped() *signal.Signal[struct{}]
		RecordStateChanged() *signal.Signal[struct{}]
	}

	// Editor provides the editor-wide settings a lane view depends on.
	Editor interface {
		// CurrentZoom returns the number of frames per pixel.
		CurrentZoom() float64
		PhysicalScreenWidth() float64
		ShowWaveformsRecording() bool
	}
)

// StaticEditor is an Editor with fixed settings.
type StaticEditor struct {
	Zoom               float64
	ScreenWidth        float64
	WaveformsRecording bool
}

func (e StaticEditor) CurrentZoom() float64         { return e.Zoom }
func (e StaticEditor) PhysicalScreenWidth() float64 { return e.ScreenWidth }
func (e StaticEditor) ShowWaveformsRecording() bool { return e.WaveformsRecording }

// FrameToPixel converts a timeline position to pixels at the given zoom level
// (frames per pixel).
func FrameToPixel(f Frame, samplesPerUnit float64) float64 {
	return float64(f) / samplesPerUnit
}

// PixelToFrame converts pixels to a timeline position at the given zoom level.
func PixelToFrame(x float64, samplesPerUnit float64) Frame {
	return Frame(x * samplesPerUnit)
}
