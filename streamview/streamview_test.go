package streamview_test

import (
	"errors"
	"image/color"
	"io"
	"math"
	"slices"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/vsariola/lanes"
	"github.com/vsariola/lanes/broker"
	"github.com/vsariola/lanes/canvas"
	"github.com/vsariola/lanes/config"
	"github.com/vsariola/lanes/session"
	"github.com/vsariola/lanes/streamview"
)

type fixture struct {
	broker *broker.Broker
	root   *canvas.Group
	sess   *session.Session
	pl     *session.Playlist
	ds     *session.Diskstream
	track  *session.Track
	theme  *config.Theme
	view   *streamview.View
}

var testEditor = lanes.StaticEditor{Zoom: 10, ScreenWidth: 1000, WaveformsRecording: true}

func quietLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func newFixture(t *testing.T, mode lanes.TrackMode, editor lanes.Editor, regions ...*session.Region) *fixture {
	t.Helper()
	f := &fixture{
		broker: broker.NewBroker(),
		root:   canvas.New(),
		sess:   session.New("test", 0),
		pl:     session.NewPlaylist("take 1"),
		theme:  config.DefaultTheme(),
	}
	for _, r := range regions {
		f.pl.Add(r)
	}
	f.ds = session.NewDiskstream(f.pl)
	f.track = session.NewTrack("audio 1", mode, f.ds)
	f.sess.AddTrack(f.track)
	v, err := streamview.New(streamview.Params{
		Track:      f.track,
		Session:    f.sess,
		Editor:     editor,
		Background: f.root.NewGroup(),
		Display:    f.root.NewGroup(),
		Dispatcher: f.broker,
		Theme:      f.theme,
		Height:     100,
		Logger:     quietLogger(),
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	v.Attach()
	f.view = v
	t.Cleanup(v.Close)
	return f
}

func (f *fixture) settle() { f.broker.Drain() }

func viewIDs(v *streamview.View) []lanes.RegionID {
	var ret []lanes.RegionID
	v.ForEach(func(rv *streamview.RegionView) { ret = append(ret, rv.ID()) })
	return ret
}

func regionIDs(regions ...*session.Region) []lanes.RegionID {
	ret := make([]lanes.RegionID, len(regions))
	for i, r := range regions {
		ret[i] = r.ID()
	}
	return ret
}

func sameSet(a, b []lanes.RegionID) bool {
	a, b = slices.Clone(a), slices.Clone(b)
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(a, b)
}

// layered returns regions a, b, c, d on layers 0, 1, 0, 2.
func layered() (a, b, c, d *session.Region) {
	return session.NewRegion("a", 0, 100),
		session.NewRegion("b", 50, 100),
		session.NewRegion("c", 500, 100),
		session.NewRegion("d", 0, 200)
}

func TestNewRejectsInvalidParams(t *testing.T) {
	root := canvas.New()
	track := session.NewTrack("t", lanes.Normal, session.NewDiskstream(nil))
	cases := []struct {
		name   string
		params streamview.Params
		want   error
	}{
		{"no track", streamview.Params{Editor: testEditor, Background: root, Display: root, Height: 100}, streamview.ErrMissingParam},
		{"no canvas", streamview.Params{Track: track, Editor: testEditor, Height: 100}, streamview.ErrMissingParam},
		{"height", streamview.Params{Track: track, Editor: testEditor, Background: root, Display: root, Height: 5}, streamview.ErrInvalidHeight},
		{"zoom", streamview.Params{Track: track, Editor: lanes.StaticEditor{Zoom: 0.5}, Background: root, Display: root, Height: 100}, streamview.ErrInvalidScale},
		{"NaN height", streamview.Params{Track: track, Editor: testEditor, Background: root, Display: root, Height: math.NaN()}, streamview.ErrInvalidHeight},
		{"NaN zoom", streamview.Params{Track: track, Editor: lanes.StaticEditor{Zoom: math.NaN()}, Background: root, Display: root, Height: 100}, streamview.ErrInvalidScale},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			c.params.Logger = quietLogger()
			if _, err := streamview.New(c.params); !errors.Is(err, c.want) {
				t.Errorf("got error %v, want %v", err, c.want)
			}
		})
	}
}

func TestAttachShowsExistingRegions(t *testing.T) {
	a, b, c, d := layered()
	f := newFixture(t, lanes.Normal, testEditor, a, b, c, d)
	if got := f.view.NumViews(); got != 4 {
		t.Fatalf("got %d views, want 4", got)
	}
	if f.view.Layers() != 3 {
		t.Errorf("got %d layers, want 3", f.view.Layers())
	}
	if f.view.Playlist() != lanes.Playlist(f.pl) {
		t.Errorf("view shows the wrong playlist")
	}
}

func TestRegistryFollowsPlaylist(t *testing.T) {
	f := newFixture(t, lanes.Normal, testEditor)
	a, b, c, _ := layered()
	f.pl.Add(a)
	f.pl.Add(b)
	f.pl.Add(c)
	if f.view.NumViews() != 0 {
		t.Fatalf("views must not change before the queue is drained")
	}
	f.settle()
	if !sameSet(viewIDs(f.view), regionIDs(a, b, c)) {
		t.Fatalf("views %v do not match regions", viewIDs(f.view))
	}
	f.pl.Remove(b.ID())
	f.settle()
	if _, ok := f.view.FindView(b.ID()); ok {
		t.Errorf("view of removed region still found")
	}
	if !sameSet(viewIDs(f.view), regionIDs(a, c)) {
		t.Errorf("views %v do not match regions", viewIDs(f.view))
	}
	// adding a view twice does nothing
	f.view.AddRegionView(a.ID())
	if f.view.NumViews() != 2 {
		t.Errorf("duplicate view added")
	}
	// unknown regions are ignored
	f.view.AddRegionView(lanes.NewRegionID())
	f.view.RemoveRegionView(lanes.NewRegionID())
	if f.view.NumViews() != 2 {
		t.Errorf("unknown region changed the views")
	}
}

func TestLayerRegionsPurgesRemovedRegions(t *testing.T) {
	a, b, c, _ := layered()
	f := newFixture(t, lanes.Normal, testEditor, a, b, c)
	f.pl.Remove(c.ID())
	rv, _ := f.view.FindView(c.ID())
	if rv.Valid() {
		t.Fatalf("view of removed region should not be valid")
	}
	f.view.LayerRegions()
	if f.view.NumViews() != 2 {
		t.Fatalf("invalid view not purged, %d views", f.view.NumViews())
	}
	f.settle()
	if !sameSet(viewIDs(f.view), regionIDs(a, b)) {
		t.Errorf("views %v do not match regions", viewIDs(f.view))
	}
}

func TestLayerRegionsPurgesInvalidatedViews(t *testing.T) {
	a, b, _, _ := layered()
	f := newFixture(t, lanes.Normal, testEditor, a, b)
	rv, _ := f.view.FindView(a.ID())
	group := rv.Group().(*canvas.Group)
	rv.Invalidate()
	if rv.Valid() {
		t.Fatalf("invalidated view still valid")
	}
	f.view.LayerRegions()
	if _, ok := f.view.FindView(a.ID()); ok {
		t.Errorf("invalidated view not purged although its region exists")
	}
	if !group.Destroyed() {
		t.Errorf("purged view left its group on the canvas")
	}
	if !sameSet(viewIDs(f.view), regionIDs(b)) {
		t.Errorf("views %v, want only b", viewIDs(f.view))
	}
}

func labelOf(t *testing.T, rv *streamview.RegionView) string {
	t.Helper()
	for _, it := range rv.Group().(*canvas.Group).Children() {
		if txt, ok := it.(*canvas.Text); ok {
			return txt.Text()
		}
	}
	t.Fatalf("region view has no label")
	return ""
}

func TestRefreshRereadsRegion(t *testing.T) {
	r := session.NewRegion("a", 0, 100)
	f := newFixture(t, lanes.Normal, testEditor, r)
	rv, _ := f.view.FindView(r.ID())
	if got := labelOf(t, rv); got != "a" {
		t.Fatalf("label %q, want a", got)
	}
	r.SetName("vocal take")
	if got := labelOf(t, rv); got != "a" {
		t.Errorf("label changed before Refresh: %q", got)
	}
	rv.Refresh()
	if got := labelOf(t, rv); got != "vocal take" {
		t.Errorf("label %q after Refresh, want vocal take", got)
	}
}

func TestLayerRegionsOrdersByLayer(t *testing.T) {
	a, b, c, d := layered()
	f := newFixture(t, lanes.Normal, testEditor, a, b, c, d)
	want := regionIDs(a, c, b, d)
	if got := viewIDs(f.view); !slices.Equal(got, want) {
		t.Fatalf("stacking order %v, want %v", got, want)
	}
	zorder := func() []int {
		var ret []int
		for _, id := range want {
			rv, _ := f.view.FindView(id)
			ret = append(ret, rv.Group().Index())
		}
		return ret
	}
	first := zorder()
	if !slices.IsSorted(first) {
		t.Errorf("canvas order %v does not follow layers", first)
	}
	f.view.LayerRegions()
	if second := zorder(); !slices.Equal(first, second) {
		t.Errorf("LayerRegions is not idempotent: %v then %v", first, second)
	}
	// changing a layer restacks
	f.pl.RaiseToTop(a.ID())
	f.settle()
	if got := viewIDs(f.view); got[len(got)-1] != a.ID() {
		t.Errorf("raised region is not on top: %v", got)
	}
}

func TestLayerRegionsEnablesDisplay(t *testing.T) {
	a, b, _, _ := layered()
	f := newFixture(t, lanes.Normal, testEditor, a, b)
	rv, _ := f.view.FindView(a.ID())
	rv.EnableDisplay(false)
	if rv.Group().Visible() {
		t.Fatalf("view should be hidden")
	}
	f.view.LayerRegions()
	if !rv.Displayed() || !rv.Group().Visible() {
		t.Errorf("LayerRegions should show every view")
	}
}

func TestRegionLayeredRaisesToLayer(t *testing.T) {
	a, b, c, d := layered()
	f := newFixture(t, lanes.Normal, testEditor, a, b, c, d)
	rv, _ := f.view.FindView(d.ID())
	rv.Group().LowerToBottom()
	f.view.RegionLayered(rv)
	if got := rv.Group().Index(); got < int(d.Layer()) {
		t.Errorf("view index %d below its layer %d", got, d.Layer())
	}
	top, _ := f.view.FindView(c.ID())
	before := top.Group().Index()
	f.view.RegionLayered(top) // layer 0, stays where it is
	if top.Group().Index() != before {
		t.Errorf("view on layer 0 moved from %d to %d", before, top.Group().Index())
	}
}

func TestStackedGeometry(t *testing.T) {
	a, b, c, d := layered()
	f := newFixture(t, lanes.Normal, testEditor, a, b, c, d)
	f.view.SetLayerDisplay(lanes.Stacked)
	if !f.pl.ExplicitRelayering() {
		t.Errorf("stacked display should make relayering explicit")
	}
	check := func(h float64) {
		t.Helper()
		layers := float64(f.view.Layers())
		if got := f.view.ChildHeight(); got != h/layers {
			t.Errorf("child height %v, want %v", got, h/layers)
		}
		for _, r := range []*session.Region{a, b, c, d} {
			rv, _ := f.view.FindView(r.ID())
			want := h - float64(r.Layer()+1)*(h/layers)
			if rv.Y() != want || rv.Height() != h/layers {
				t.Errorf("region %s: y=%v height=%v, want y=%v height=%v", r.Name(), rv.Y(), rv.Height(), want, h/layers)
			}
		}
	}
	check(100)
	for i := 0; i < 10; i++ {
		if err := f.view.SetHeight(333); err != nil {
			t.Fatal(err)
		}
		if err := f.view.SetHeight(100); err != nil {
			t.Fatal(err)
		}
	}
	check(100)
	f.view.SetLayerDisplay(lanes.Overlaid)
	if f.pl.ExplicitRelayering() {
		t.Errorf("overlaid display should not make relayering explicit")
	}
	f.view.ForEach(func(rv *streamview.RegionView) {
		if rv.Y() != 0 || rv.Height() != 100 {
			t.Errorf("overlaid view at y=%v height=%v", rv.Y(), rv.Height())
		}
	})
}

func TestAddWhileStackedRelayers(t *testing.T) {
	a, _, _, _ := layered()
	f := newFixture(t, lanes.Normal, testEditor, a)
	f.view.SetLayerDisplay(lanes.Stacked)
	if f.view.Layers() != 1 {
		t.Fatalf("got %d layers, want 1", f.view.Layers())
	}
	top := session.NewRegion("top", 20, 40)
	f.pl.Add(top)
	f.settle()
	if f.view.Layers() != 2 {
		t.Fatalf("got %d layers, want 2", f.view.Layers())
	}
	rv, _ := f.view.FindView(top.ID())
	if rv.Y() != 0 || rv.Height() != 50 {
		t.Errorf("new view at y=%v height=%v, want 0 and 50", rv.Y(), rv.Height())
	}
	bottom, _ := f.view.FindView(a.ID())
	if bottom.Y() != 50 {
		t.Errorf("bottom view at y=%v, want 50", bottom.Y())
	}
	if ids := viewIDs(f.view); ids[len(ids)-1] != top.ID() {
		t.Errorf("new region not on top: %v", ids)
	}
}

func TestCoverageFrames(t *testing.T) {
	a := session.NewRegion("a", 0, 100)
	b := session.NewRegion("b", 50, 100)
	f := newFixture(t, lanes.Normal, testEditor, a, b)
	av, _ := f.view.FindView(a.ID())
	if len(av.CoverageFrames()) != 0 {
		t.Fatalf("no coverage frames expected when overlaid")
	}
	f.view.SetLayerDisplay(lanes.Stacked)
	want := []streamview.CoverageFrame{{Start: 0, End: 50, OnTop: true}, {Start: 50, End: 100, OnTop: false}}
	if got := av.CoverageFrames(); !slices.Equal(got, want) {
		t.Errorf("coverage of a: %v, want %v", got, want)
	}
	bv, _ := f.view.FindView(b.ID())
	want = []streamview.CoverageFrame{{Start: 0, End: 100, OnTop: true}}
	if got := bv.CoverageFrames(); !slices.Equal(got, want) {
		t.Errorf("coverage of b: %v, want %v", got, want)
	}
	f.view.SetLayerDisplay(lanes.Overlaid)
	if len(av.CoverageFrames()) != 0 {
		t.Errorf("coverage frames should be removed when overlaid")
	}
}

func TestSetHeight(t *testing.T) {
	f := newFixture(t, lanes.Normal, testEditor, session.NewRegion("a", 0, 100))
	var emitted []float64
	f.view.HeightChanged.Connect(nil, func(h float64) { emitted = append(emitted, h) }, nil)
	cases := []struct {
		h       float64
		wantErr bool
		want    float64
	}{
		{5, true, 100},
		{9.99, true, 100},
		{10, false, 10},
		{1000, false, 1000},
		{1001, true, 1000},
		{math.NaN(), true, 1000},
		{math.Inf(1), true, 1000},
		{1000, false, 1000},
	}
	for _, c := range cases {
		err := f.view.SetHeight(c.h)
		if c.wantErr != errors.Is(err, streamview.ErrInvalidHeight) {
			t.Errorf("SetHeight(%v): error %v", c.h, err)
		}
		if f.view.Height() != c.want {
			t.Errorf("SetHeight(%v): height %v, want %v", c.h, f.view.Height(), c.want)
		}
		if _, _, _, y2 := f.view.Background().Bounds(); y2 != c.want {
			t.Errorf("SetHeight(%v): background bottom %v, want %v", c.h, y2, c.want)
		}
	}
	if !slices.Equal(emitted, []float64{10, 1000}) {
		t.Errorf("HeightChanged emitted %v, want [10 1000]", emitted)
	}
}

func TestSetSamplesPerUnit(t *testing.T) {
	r := session.NewRegion("a", 1000, 500)
	f := newFixture(t, lanes.Normal, testEditor, r)
	rv, _ := f.view.FindView(r.ID())
	if err := f.view.SetSamplesPerUnit(0.5); !errors.Is(err, streamview.ErrInvalidScale) {
		t.Errorf("SetSamplesPerUnit(0.5): error %v", err)
	}
	if err := f.view.SetSamplesPerUnit(math.NaN()); !errors.Is(err, streamview.ErrInvalidScale) {
		t.Errorf("SetSamplesPerUnit(NaN): error %v", err)
	}
	if f.view.SamplesPerUnit() != 10 {
		t.Errorf("rejected zoom changed the view")
	}
	if x1, x2 := rv.Pixels(); x1 != 100 || x2 != 150 {
		t.Errorf("rejected zoom moved the region to %v..%v", x1, x2)
	}
	for _, spp := range []float64{1, 2, 10, 250} {
		if err := f.view.SetSamplesPerUnit(spp); err != nil {
			t.Fatalf("SetSamplesPerUnit(%v): %v", spp, err)
		}
		x1, x2 := rv.Pixels()
		if x1 != 1000/spp || x2 != 1500/spp {
			t.Errorf("spp %v: pixels %v..%v, want %v..%v", spp, x1, x2, 1000/spp, 1500/spp)
		}
		if gx, _ := rv.Group().Position(); gx != x1 {
			t.Errorf("spp %v: group at %v, want %v", spp, gx, x1)
		}
	}
}

func TestSetPosition(t *testing.T) {
	f := newFixture(t, lanes.Normal, testEditor)
	f.view.SetPosition(12, -40.5)
	if x, y := f.view.Group().Position(); x != 12 || y != -40.5 {
		t.Errorf("group at %v,%v", x, y)
	}
}

func TestSelection(t *testing.T) {
	a, b, c, d := layered()
	f := newFixture(t, lanes.Normal, testEditor, a, b, c, d)
	f.view.SetSelected(streamview.NewSelection(a.ID(), c.ID(), lanes.NewRegionID()))
	if f.view.NumSelected() != 2 {
		t.Errorf("got %d selected, want 2", f.view.NumSelected())
	}
	var selected []lanes.RegionID
	f.view.ForEachSelected(func(rv *streamview.RegionView) { selected = append(selected, rv.ID()) })
	if !sameSet(selected, regionIDs(a, c)) {
		t.Errorf("selected %v", selected)
	}
	f.view.SetSelected(streamview.NewSelection(b.ID()))
	if f.view.NumSelected() != 1 {
		t.Errorf("selection not replaced, %d selected", f.view.NumSelected())
	}
	var inverted []lanes.RegionID
	for _, rv := range f.view.InvertedSelectables(streamview.NewSelection(a.ID())) {
		inverted = append(inverted, rv.ID())
	}
	if !sameSet(inverted, regionIDs(b, c, d)) {
		t.Errorf("inverted selectables %v", inverted)
	}
}

func TestSelectables(t *testing.T) {
	a := session.NewRegion("a", 0, 100)  // layer 0
	b := session.NewRegion("b", 50, 100) // layer 1
	f := newFixture(t, lanes.Normal, testEditor, a, b)
	f.view.SetPosition(0, 200)
	ids := func(rvs []*streamview.RegionView) []lanes.RegionID {
		var ret []lanes.RegionID
		for _, rv := range rvs {
			ret = append(ret, rv.ID())
		}
		return ret
	}
	cases := []struct {
		name        string
		display     lanes.LayerDisplay
		start, end  lanes.Frame
		top, bottom float64
		want        []lanes.RegionID
	}{
		{"overlaid ignores vertical range", lanes.Overlaid, 0, 200, 1000, 1010, regionIDs(a, b)},
		{"overlaid time window", lanes.Overlaid, 120, 130, 200, 300, regionIDs(b)},
		{"overlaid point", lanes.Overlaid, 10, 10, 200, 300, regionIDs(a)},
		{"stacked top band", lanes.Stacked, 0, 200, 200, 240, regionIDs(b)},
		{"stacked bottom band", lanes.Stacked, 0, 200, 260, 280, regionIDs(a)},
		{"stacked both bands", lanes.Stacked, 0, 200, 240, 260, regionIDs(a, b)},
		{"stacked band edge", lanes.Stacked, 0, 200, 250, 250, regionIDs(a)},
		{"stacked outside lane", lanes.Stacked, 0, 200, 1000, 1010, nil},
		{"stacked time window", lanes.Stacked, 120, 130, 200, 300, regionIDs(b)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			f.view.SetLayerDisplay(c.display)
			got := ids(f.view.Selectables(c.start, c.end, c.top, c.bottom))
			if !sameSet(got, c.want) {
				t.Errorf("got %v, want %v", got, c.want)
			}
		})
	}
}

func TestApplyColor(t *testing.T) {
	a, b, _, _ := layered()
	f := newFixture(t, lanes.Normal, testEditor, a, b)
	var targets []lanes.ColorTarget
	f.view.ColorChanged.Connect(nil, func(c lanes.ColorTarget) { targets = append(targets, c) }, nil)
	own := color.NRGBA{G: 200, A: 255}
	bv, _ := f.view.FindView(b.ID())
	bv.SetOverrideColor(own)
	base := f.view.Background().Fill()

	red := color.NRGBA{R: 255, A: 255}
	f.view.ApplyColor(red, lanes.RegionColor)
	av, _ := f.view.FindView(a.ID())
	if av.Color() != red {
		t.Errorf("region color not applied: %v", av.Color())
	}
	if bv.Color() != own || !bv.HasOverrideColor() {
		t.Errorf("override color replaced: %v", bv.Color())
	}
	if f.view.RegionColor() != red {
		t.Errorf("RegionColor() = %v, want red", f.view.RegionColor())
	}
	if f.view.Background().Fill() != base {
		t.Errorf("region color changed the background")
	}

	f.view.ApplyColor(color.NRGBA{B: 255, A: 10}, lanes.StreamBaseColor)
	if got := f.view.Background().Fill(); got != (color.NRGBA{B: 255, A: 255}) {
		t.Errorf("background fill %v, want opaque blue", got)
	}
	if got := f.view.StreamBaseColor(); got != (color.NRGBA{B: 255, A: 255}) {
		t.Errorf("StreamBaseColor() = %v, want opaque blue", got)
	}
	if av.Color() != red {
		t.Errorf("stream base color changed the regions")
	}
	if !slices.Equal(targets, []lanes.ColorTarget{lanes.RegionColor, lanes.StreamBaseColor}) {
		t.Errorf("ColorChanged emitted %v", targets)
	}
	bv.ClearOverrideColor()
	if bv.HasOverrideColor() || bv.Color() != red {
		t.Errorf("cleared override should fall back to the region color, got %v", bv.Color())
	}
}

func TestThemeReloadRecolors(t *testing.T) {
	a, _, _, _ := layered()
	f := newFixture(t, lanes.Normal, testEditor, a)
	if err := f.theme.Reload([]byte("streambase: \"#102030\"\nregion: \"#405060\"\n")); err != nil {
		t.Fatal(err)
	}
	f.settle()
	if got := f.view.Background().Fill(); got != (color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 255}) {
		t.Errorf("background fill %v", got)
	}
	av, _ := f.view.FindView(a.ID())
	if got := av.Color(); got != (color.NRGBA{R: 0x40, G: 0x50, B: 0x60, A: 255}) {
		t.Errorf("region color %v", got)
	}
}

func startRecording(f *fixture, at lanes.Frame) {
	f.ds.SetRecordEnabled(true)
	f.sess.SetRecordEnabled(true)
	f.sess.Start(at)
	f.settle()
}

func recBoxPixels(b streamview.RecBox) (x1, x2 float64) {
	x1, _, x2, _ = b.Rect.Bounds()
	return x1, x2
}

func TestRecordingBoxes(t *testing.T) {
	f := newFixture(t, lanes.Normal, testEditor)
	const S = 1000
	startRecording(f, S)
	if !f.view.Recording() {
		t.Fatalf("view should be recording")
	}
	boxes := f.view.RecBoxes()
	if len(boxes) != 1 || boxes[0].Start != S || boxes[0].Length != 0 {
		t.Fatalf("unexpected boxes at start: %+v", boxes)
	}
	for _, want := range []lanes.Frame{10, 25, 40} {
		f.ds.Capture(S + want - f.ds.CurrentCaptureEnd())
		f.view.UpdateRecBox()
		b := f.view.RecBoxes()[0]
		if b.Length != want {
			t.Errorf("box length %d, want %d", b.Length, want)
		}
		if _, x2 := recBoxPixels(b); x2 != lanes.FrameToPixel(S+want, 10) {
			t.Errorf("box right edge %v, want %v", x2, lanes.FrameToPixel(S+want, 10))
		}
	}
	f.sess.Stop()
	f.settle()
	if f.view.Recording() {
		t.Fatalf("view should have stopped recording")
	}
	f.view.UpdateRecBox()
	if b := f.view.RecBoxes()[0]; b.Length != 40 {
		t.Errorf("frozen box length %d, want 40", b.Length)
	}
	// the capture became a region of the playlist
	if f.view.NumViews() != 1 {
		t.Errorf("captured region not shown, %d views", f.view.NumViews())
	}

	const L = 2000
	f.sess.Start(L)
	f.settle()
	f.ds.Capture(30)
	f.view.UpdateRecBox()
	f.sess.Loop(L)
	f.settle()
	boxes = f.view.RecBoxes()
	if len(boxes) != 3 {
		t.Fatalf("got %d boxes, want 3", len(boxes))
	}
	if boxes[0].Length != 40 || boxes[1].Start != L || boxes[1].Length != 30 {
		t.Errorf("frozen boxes changed: %+v", boxes[:2])
	}
	if boxes[2].Start != L || boxes[2].Length != 0 {
		t.Errorf("box after loop: %+v", boxes[2])
	}
	f.ds.Capture(5)
	f.view.UpdateRecBox()
	if got := f.view.RecBoxes(); got[1].Length != 30 || got[2].Length != 5 {
		t.Errorf("only the last box should grow: %+v", got)
	}
}

func TestDestructiveRecordingBox(t *testing.T) {
	f := newFixture(t, lanes.Destructive, testEditor)
	startRecording(f, 500)
	b := f.view.RecBoxes()[0]
	if b.Length != 2 || b.Start != 500 {
		t.Fatalf("destructive box at start: %+v", b)
	}
	f.ds.Capture(100)
	f.view.UpdateRecBox()
	f.ds.SetCaptureStart(550)
	f.ds.Capture(50)
	f.view.UpdateRecBox()
	b = f.view.RecBoxes()[0]
	if b.Length != 2 {
		t.Errorf("destructive box length %d, want 2", b.Length)
	}
	if b.Start != 550 {
		t.Errorf("destructive box start %d, want 550", b.Start)
	}
	if x1, x2 := recBoxPixels(b); x1 != 55 || x2 != 65 {
		t.Errorf("destructive box at %v..%v, want 55..65", x1, x2)
	}
	if err := f.view.SetSamplesPerUnit(5); err != nil {
		t.Fatal(err)
	}
	if x1, x2 := recBoxPixels(f.view.RecBoxes()[0]); x1 != 110 || x2 != 130 {
		t.Errorf("destructive box at %v..%v after zoom, want 110..130", x1, x2)
	}
}

func TestRecordingNeedsEveryEnable(t *testing.T) {
	f := newFixture(t, lanes.Normal, testEditor)
	f.sess.SetRecordEnabled(true)
	f.sess.Start(0)
	f.settle()
	if f.view.Recording() {
		t.Fatalf("recording without the track being record-enabled")
	}
	f.ds.SetRecordEnabled(true)
	f.settle()
	if !f.view.Recording() {
		t.Fatalf("enabling the track while rolling should start recording")
	}
	f.sess.SetRecordEnabled(false)
	f.settle()
	if f.view.Recording() {
		t.Errorf("disarming the session should stop recording")
	}
	if len(f.view.RecBoxes()) != 1 {
		t.Errorf("box should be kept after recording stops")
	}
}

func TestRecordingSuppressedBox(t *testing.T) {
	editor := testEditor
	editor.WaveformsRecording = false
	f := newFixture(t, lanes.Normal, editor)
	startRecording(f, 100)
	if !f.view.Recording() {
		t.Fatalf("view should be recording")
	}
	if len(f.view.RecBoxes()) != 0 {
		t.Errorf("no box expected when boxes are suppressed")
	}
	f.sess.Stop()
	f.settle()
	if f.view.Recording() {
		t.Errorf("view should have stopped recording")
	}
}

func TestRecBoxesFollowZoomAndHeight(t *testing.T) {
	f := newFixture(t, lanes.Normal, testEditor)
	startRecording(f, 1000)
	f.ds.Capture(40)
	f.view.UpdateRecBox()
	f.sess.Stop()
	f.settle()
	if err := f.view.SetSamplesPerUnit(20); err != nil {
		t.Fatal(err)
	}
	b := f.view.RecBoxes()[0]
	if x1, x2 := recBoxPixels(b); x1 != 50 || x2 != 52 {
		t.Errorf("box at %v..%v after zoom, want 50..52", x1, x2)
	}
	if b.Start != 1000 || b.Length != 40 {
		t.Errorf("zoom changed the box times: %+v", b)
	}
	if err := f.view.SetHeight(300); err != nil {
		t.Fatal(err)
	}
	if _, _, _, y2 := b.Rect.Bounds(); y2 != 299 {
		t.Errorf("box bottom %v, want 299", y2)
	}
}

func TestUndisplayClearsRecBoxes(t *testing.T) {
	f := newFixture(t, lanes.Normal, testEditor, session.NewRegion("a", 0, 10))
	startRecording(f, 0)
	rect := f.view.RecBoxes()[0].Rect.(*canvas.Rect)
	f.view.ClearAll()
	if len(f.view.RecBoxes()) != 1 || f.view.NumViews() != 0 {
		t.Fatalf("ClearAll should only remove region views")
	}
	f.view.Undisplay()
	if len(f.view.RecBoxes()) != 0 || !rect.Destroyed() {
		t.Errorf("Undisplay should remove the recording boxes")
	}
	if f.view.Recording() {
		t.Errorf("Undisplay should reset the recording state")
	}
}

func TestPlaylistSwitch(t *testing.T) {
	a, b, c, _ := layered()
	f := newFixture(t, lanes.Normal, testEditor, a)
	f.view.SetLayerDisplay(lanes.Stacked)
	pl2 := session.NewPlaylist("take 2")
	pl2.Add(b)
	pl3 := session.NewPlaylist("take 3")
	pl3.Add(c)
	f.ds.UsePlaylist(pl2)
	f.ds.UsePlaylist(pl3)
	f.settle()
	if f.view.Playlist() != lanes.Playlist(pl3) {
		t.Fatalf("view does not show the latest playlist")
	}
	if !sameSet(viewIDs(f.view), regionIDs(c)) {
		t.Errorf("views %v, want only c", viewIDs(f.view))
	}
	if !pl3.ExplicitRelayering() {
		t.Errorf("stacked view should set explicit relayering on the new playlist")
	}
	f.pl.Add(session.NewRegion("late", 0, 10))
	pl2.Add(session.NewRegion("late", 0, 10))
	f.settle()
	if f.view.NumViews() != 1 {
		t.Errorf("old playlists still change the view, %d views", f.view.NumViews())
	}
	if f.pl.RegionAdded().NumSlots() != 0 {
		t.Errorf("view still connected to the old playlist")
	}
}

func TestDiskstreamChanged(t *testing.T) {
	a, b, _, _ := layered()
	f := newFixture(t, lanes.Normal, testEditor, a)
	pl2 := session.NewPlaylist("other")
	pl2.Add(b)
	f.track.SetDiskstream(session.NewDiskstream(pl2))
	f.settle()
	if !sameSet(viewIDs(f.view), regionIDs(b)) {
		t.Errorf("views %v after diskstream change, want b", viewIDs(f.view))
	}
	f.track.SetDiskstream(nil)
	f.settle()
	if f.view.NumViews() != 0 || f.view.Playlist() != nil {
		t.Errorf("track without diskstream should show nothing")
	}
	pl2.Add(session.NewRegion("late", 0, 10))
	f.settle()
	if f.view.NumViews() != 0 {
		t.Errorf("old diskstream still changes the view")
	}
}

func TestTrackGetsDiskstreamLater(t *testing.T) {
	b := broker.NewBroker()
	root := canvas.New()
	sess := session.New("test", 0)
	track := session.NewTrack("bus", lanes.Normal, nil)
	sess.AddTrack(track)
	v, err := streamview.New(streamview.Params{
		Track:      track,
		Session:    sess,
		Editor:     testEditor,
		Background: root.NewGroup(),
		Display:    root.NewGroup(),
		Dispatcher: b,
		Height:     100,
		Logger:     quietLogger(),
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(v.Close)
	v.Attach()
	sess.Start(0)
	b.Drain()
	if v.NumViews() != 0 || v.Playlist() != nil || v.Recording() {
		t.Fatalf("track without diskstream should show nothing")
	}
	sess.Stop()
	pl := session.NewPlaylist("late")
	r := session.NewRegion("a", 0, 100)
	pl.Add(r)
	track.SetDiskstream(session.NewDiskstream(pl))
	b.Drain()
	if !sameSet(viewIDs(v), regionIDs(r)) {
		t.Errorf("views %v after the track got a diskstream, want a", viewIDs(v))
	}
}

func TestClose(t *testing.T) {
	a, _, _, _ := layered()
	f := newFixture(t, lanes.Normal, testEditor, a)
	group := f.view.Group().(*canvas.Group)
	bg := f.view.Background().(*canvas.Rect)
	f.pl.Add(session.NewRegion("pending", 0, 10))
	if f.view.Closed() {
		t.Fatalf("view closed before Close")
	}
	f.view.Close()
	if !f.view.Closed() {
		t.Errorf("Closed() false after Close")
	}
	f.settle()
	if f.view.NumViews() != 0 {
		t.Errorf("closed view has %d region views", f.view.NumViews())
	}
	if !group.Destroyed() || !bg.Destroyed() {
		t.Errorf("closed view left items on the canvas")
	}
	if n := f.pl.RegionAdded().NumSlots() + f.sess.TransportStateChange().NumSlots() + f.theme.ColorsChanged.NumSlots(); n != 0 {
		t.Errorf("%d slots still connected after Close", n)
	}
	f.view.Close()
}

func TestNotificationsFromOtherGoroutines(t *testing.T) {
	f := newFixture(t, lanes.Normal, testEditor)
	done := make(chan struct{})
	regions := make([]*session.Region, 50)
	go func() {
		for i := range regions {
			regions[i] = session.NewRegion("r", lanes.Frame(i*10), 100)
			f.pl.Add(regions[i])
		}
		for i := 0; i < len(regions); i += 2 {
			f.pl.Remove(regions[i].ID())
		}
		close(done)
	}()
	<-done
	f.settle()
	if !sameSet(viewIDs(f.view), regionIDs(f.pl.CurrentRegions()...)) {
		t.Errorf("views do not match the playlist")
	}
}

func FuzzViewFollowsPlaylist(f *testing.F) {
	f.Add([]byte{0, 0, 0, 1, 5, 2, 0, 3, 4})
	f.Add([]byte{0, 10, 0, 20, 0, 30, 4, 2, 5, 1, 3, 6, 0, 1})
	f.Add([]byte{5, 0, 0, 6, 2, 0, 1, 0, 3, 3, 3})
	f.Fuzz(func(t *testing.T, ops []byte) {
		fx := newFixture(t, lanes.Normal, testEditor)
		playlists := []*session.Playlist{fx.pl, session.NewPlaylist("alt")}
		current := 0
		var added []*session.Region
		for i := 0; i+1 < len(ops); i += 2 {
			op, arg := ops[i]%7, int(ops[i+1])
			pl := playlists[current]
			switch op {
			case 0:
				r := session.NewRegion("r", lanes.Frame(arg*7), lanes.Frame(arg%13+1)*10)
				pl.Add(r)
				added = append(added, r)
			case 1:
				if len(added) > 0 {
					pl.Remove(added[arg%len(added)].ID())
				}
			case 2:
				if len(added) > 0 {
					pl.RaiseToTop(added[arg%len(added)].ID())
				}
			case 3:
				fx.settle()
			case 4:
				if arg%2 == 0 {
					fx.view.SetLayerDisplay(lanes.Stacked)
				} else {
					fx.view.SetLayerDisplay(lanes.Overlaid)
				}
			case 5:
				current = 1 - current
				fx.ds.UsePlaylist(playlists[current])
			case 6:
				fx.view.LayerRegions()
			}
		}
		fx.settle()
		fx.view.LayerRegions()
		pl := playlists[current]
		if !sameSet(viewIDs(fx.view), regionIDs(pl.CurrentRegions()...)) {
			t.Fatalf("views %v do not match playlist", viewIDs(fx.view))
		}
		var prev lanes.Layer
		fx.view.ForEach(func(rv *streamview.RegionView) {
			r, ok := rv.Region()
			if !ok {
				t.Fatalf("view of a missing region survived LayerRegions")
			}
			if r.Layer() < prev {
				t.Fatalf("views not ordered by layer")
			}
			prev = r.Layer()
		})
		if fx.view.LayerDisplay() == lanes.Stacked {
			c := fx.view.ChildHeight()
			fx.view.ForEach(func(rv *streamview.RegionView) {
				r, _ := rv.Region()
				if want := fx.view.Height() - float64(r.Layer()+1)*c; rv.Y() != want {
					t.Fatalf("stacked view at y=%v, want %v", rv.Y(), want)
				}
			})
		}
	})
}
