/*
Package streamview manages the region views of one track lane: it keeps a
view for every region of the playlist the track records into, stacks them by
layer, and draws the boxes that show what is being captured while recording.

A View is owned by the UI goroutine. The model may emit its signals from any
goroutine; the view connects to them with the Dispatcher it was given (usually
a broker.Broker), so that every handler runs on the UI goroutine. A handler
that arrives after its subject has been replaced (the track got another
diskstream, the diskstream another playlist) does nothing.
*/
package streamview

import (
	"errors"
	"image/color"

	"github.com/sirupsen/logrus"
	"github.com/vsariola/lanes"
	"github.com/vsariola/lanes/config"
	"github.com/vsariola/lanes/signal"
)

type (
	// Params are the collaborators and initial settings of a View.
	Params struct {
		Track  lanes.Track
		Editor lanes.Editor
		// Session is needed for the recording boxes; it may be nil for a
		// track that cannot record.
		Session lanes.Session
		// Background is the group in which the lane background rect is
		// created.
		Background lanes.CanvasGroup
		// Display is the group in which the view creates its own content
		// group. Ignored if Group is set.
		Display lanes.CanvasGroup
		// Group, if set, is used as the content group. The view does not own
		// it and does not destroy it on Close.
		Group lanes.CanvasGroup
		// Dispatcher marshals model notifications onto the UI goroutine. If
		// nil, notifications are handled on the goroutine emitting them.
		Dispatcher signal.Dispatcher
		// Theme defaults to config.DefaultTheme().
		Theme  *config.Theme
		Height float64
		Logger *logrus.Entry
	}

	View struct {
		track      lanes.Track
		session    lanes.Session
		editor     lanes.Editor
		dispatcher signal.Dispatcher
		theme      *config.Theme
		log        *logrus.Entry

		group      lanes.CanvasGroup
		ownsGroup  bool
		background lanes.CanvasRect

		diskstream lanes.Diskstream
		playlist   lanes.Playlist

		views []*RegionView

		recState recordState
		recBoxes []RecBox

		samplesPerUnit  float64
		height          float64
		layers          int
		layerDisplay    lanes.LayerDisplay
		regionColor     color.NRGBA
		regionColorSet  bool
		streamBaseColor color.NRGBA
		closed          bool

		conns           signal.Connections // track, session and theme
		diskstreamConns signal.Connections
		playlistConns   signal.Connections

		HeightChanged signal.Signal[float64]
		ColorChanged  signal.Signal[lanes.ColorTarget]
	}
)

const (
	MinHeight         = 10.0
	MaxHeight         = 1000.0
	MinSamplesPerUnit = 1.0
)

var (
	ErrInvalidHeight = errors.New("lane height out of range")
	ErrInvalidScale  = errors.New("samples per unit below the minimum")
	ErrMissingParam  = errors.New("missing view parameter")
)

// New creates the view of a track lane. The view shows nothing until Attach
// is called.
func New(p Params) (*View, error) {
	switch {
	case p.Track == nil:
		return nil, errors.Join(ErrMissingParam, errors.New("track"))
	case p.Editor == nil:
		return nil, errors.Join(ErrMissingParam, errors.New("editor"))
	case p.Background == nil:
		return nil, errors.Join(ErrMissingParam, errors.New("background group"))
	case p.Group == nil && p.Display == nil:
		return nil, errors.Join(ErrMissingParam, errors.New("display group"))
	}
	if err := checkHeight(p.Height); err != nil {
		return nil, err
	}
	spp := p.Editor.CurrentZoom()
	if err := checkScale(spp); err != nil {
		return nil, err
	}
	theme := p.Theme
	if theme == nil {
		theme = config.DefaultTheme()
	}
	log := p.Logger
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	v := &View{
		track:           p.Track,
		session:         p.Session,
		editor:          p.Editor,
		dispatcher:      p.Dispatcher,
		theme:           theme,
		log:             log.WithField("track", p.Track.Name()),
		group:           p.Group,
		samplesPerUnit:  spp,
		height:          p.Height,
		layers:          1,
		layerDisplay:    lanes.Overlaid,
		regionColor:     theme.Colors.Region,
		streamBaseColor: opaque(theme.Colors.StreamBase),
	}
	if v.group == nil {
		v.group = p.Display.NewGroup()
		v.ownsGroup = true
	}
	v.background = p.Background.NewRect()
	v.background.SetBounds(0, 0, p.Editor.PhysicalScreenWidth(), v.height)
	v.background.Raise(1)
	v.background.SetFill(v.streamBaseColor)
	v.background.SetOutline(theme.Colors.StreamOutline, lanes.OutlineRight|lanes.OutlineBottom)

	// a track may get its diskstream only later
	p.Track.DiskstreamChanged().Connect(&v.conns, func(struct{}) { v.diskstreamChanged() }, v.dispatcher)
	if p.Session != nil {
		p.Session.TransportStateChange().Connect(&v.conns, func(struct{}) { v.setupRecBox() }, v.dispatcher)
		p.Session.TransportLooped().Connect(&v.conns, func(struct{}) { v.transportLooped() }, v.dispatcher)
		p.Session.RecordStateChanged().Connect(&v.conns, func(struct{}) { v.setupRecBox() }, v.dispatcher)
	}
	theme.ColorsChanged.Connect(&v.conns, func(struct{}) { v.colorsChanged() }, v.dispatcher)
	v.log.Debug("lane view created")
	return v, nil
}

// Attach shows the playlist of the track's diskstream.
func (v *View) Attach() {
	if v.closed {
		return
	}
	if ds := v.track.Diskstream(); ds != nil {
		v.displayDiskstream(ds)
	}
}

// Close tears the view down: it stops listening to the model and removes
// everything it drew. Closing twice is harmless.
func (v *View) Close() {
	if v.closed {
		return
	}
	v.closed = true
	v.conns.DropConnections()
	v.diskstreamConns.DropConnections()
	v.playlistConns.DropConnections()
	v.Undisplay()
	v.background.Destroy()
	if v.ownsGroup {
		v.group.Destroy()
	}
	v.diskstream, v.playlist = nil, nil
	v.log.Debug("lane view closed")
}

func (v *View) Closed() bool { return v.closed }

// Group returns the content group of the lane.
func (v *View) Group() lanes.CanvasGroup { return v.group }

// Background returns the lane background rect.
func (v *View) Background() lanes.CanvasRect { return v.background }

func (v *View) Track() lanes.Track { return v.track }

// Playlist returns the playlist currently shown, or nil.
func (v *View) Playlist() lanes.Playlist { return v.playlist }

func (v *View) displayDiskstream(ds lanes.Diskstream) {
	v.diskstreamConns.DropConnections()
	v.diskstream = ds
	v.playlistSwitched(ds)
	ds.PlaylistChanged().Connect(&v.diskstreamConns, func(struct{}) { v.playlistSwitched(ds) }, v.dispatcher)
	ds.RecordEnableChanged().Connect(&v.diskstreamConns, func(struct{}) {
		if v.current(ds) {
			v.setupRecBox()
		}
	}, v.dispatcher)
}

// current reports whether ds is still the diskstream the view shows.
func (v *View) current(ds lanes.Diskstream) bool {
	return !v.closed && ds != nil && v.diskstream == ds
}

func (v *View) playlistSwitched(ds lanes.Diskstream) {
	if !v.current(ds) {
		return
	}
	pl := ds.Playlist()
	if pl == v.playlist && pl != nil && v.playlistConns.Len() > 0 {
		return
	}
	v.playlistConns.DropConnections()
	v.ClearAll()
	v.playlist = pl
	if pl == nil {
		v.layers = 1
		return
	}
	v.log.WithField("playlist", pl.Name()).Debug("showing playlist")

	v.layers = int(pl.TopLayer()) + 1
	v.updateContentsHeight()
	v.UpdateCoverageFrames()
	pl.SetExplicitRelayering(v.layerDisplay == lanes.Stacked)

	v.redisplay()

	live := func() bool { return v.current(ds) && v.playlist == pl }
	pl.LayeringChanged().Connect(&v.playlistConns, func(struct{}) {
		if live() {
			v.playlistLayered()
		}
	}, v.dispatcher)
	pl.RegionAdded().Connect(&v.playlistConns, func(id lanes.RegionID) {
		if live() {
			v.AddRegionView(id)
		}
	}, v.dispatcher)
	pl.RegionRemoved().Connect(&v.playlistConns, func(id lanes.RegionID) {
		if live() {
			v.RemoveRegionView(id)
		}
	}, v.dispatcher)
}

// redisplay creates views for the regions of the playlist that have none yet
// and stacks them.
func (v *View) redisplay() {
	for _, r := range v.playlist.Regions() {
		v.addRegionView(r)
	}
	v.LayerRegions()
}

func (v *View) diskstreamChanged() {
	v.post(func() {
		if v.closed {
			return
		}
		if ds := v.track.Diskstream(); ds != nil {
			v.displayDiskstream(ds)
			return
		}
		v.diskstreamConns.DropConnections()
		v.playlistConns.DropConnections()
		v.diskstream, v.playlist = nil, nil
		v.Undisplay()
		v.log.Debug("track has no diskstream")
	})
}

// post runs f later on the UI goroutine, or right away without a dispatcher.
func (v *View) post(f func()) {
	if v.dispatcher == nil {
		f()
		return
	}
	v.dispatcher.Post(f)
}
