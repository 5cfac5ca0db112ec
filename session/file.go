package session

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/vsariola/lanes"
	"gopkg.in/yaml.v3"
)

type (
	// File is the YAML representation of a session.
	File struct {
		Name       string
		SampleRate int `yaml:",omitempty"`
		Tracks     []TrackFile
	}

	TrackFile struct {
		Name          string
		Mode          string `yaml:",omitempty"`
		RecordEnabled bool   `yaml:",omitempty"`
		Playlist      string `yaml:",omitempty"`
		Regions       []RegionFile
		MIDI          string `yaml:",omitempty"` // path of a Standard MIDI File to import regions from
	}

	RegionFile struct {
		Name     string
		Position lanes.Frame
		Length   lanes.Frame
		Layer    *lanes.Layer `yaml:",omitempty"`
	}
)

// DefaultBPM is the tempo used for imported MIDI files that do not set one.
const DefaultBPM = 120

// Read parses a session from YAML.
func Read(r io.Reader) (*Session, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading session: %w", err)
	}
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding session: %w", err)
	}
	return f.Session()
}

// Open reads a session from a YAML file.
func Open(path string) (*Session, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Session builds the in-memory session described by the file.
func (f File) Session() (*Session, error) {
	s := New(f.Name, f.SampleRate)
	for i, tf := range f.Tracks {
		mode, err := lanes.ParseTrackMode(tf.Mode)
		if err != nil {
			return nil, fmt.Errorf("track %d (%s): %w", i, tf.Name, err)
		}
		plName := tf.Playlist
		if plName == "" {
			plName = tf.Name + ".1"
		}
		pl := NewPlaylist(plName)
		for _, rf := range tf.Regions {
			if rf.Length < 0 {
				return nil, fmt.Errorf("track %s: region %s has negative length", tf.Name, rf.Name)
			}
			r := NewRegion(rf.Name, rf.Position, rf.Length)
			if rf.Layer != nil {
				pl.AddWithLayer(r, *rf.Layer)
			} else {
				pl.Add(r)
			}
		}
		if tf.MIDI != "" {
			regions, err := ImportSMFFile(tf.MIDI, s.SampleRate(), DefaultBPM)
			if err != nil {
				return nil, fmt.Errorf("track %s: %w", tf.Name, err)
			}
			for _, r := range regions {
				pl.Add(r)
			}
		}
		ds := NewDiskstream(pl)
		ds.SetRecordEnabled(tf.RecordEnabled)
		s.AddTrack(NewTrack(tf.Name, mode, ds))
	}
	return s, nil
}

// Write encodes the current state of the session as YAML.
func (s *Session) Write(w io.Writer) error {
	f := File{Name: s.Name(), SampleRate: s.SampleRate()}
	for _, t := range s.Tracks() {
		tf := TrackFile{Name: t.Name(), Mode: t.Mode().String()}
		if ds := t.CurrentDiskstream(); ds != nil {
			tf.RecordEnabled = ds.RecordEnabled()
			pl := ds.CurrentPlaylist()
			tf.Playlist = pl.Name()
			for _, r := range pl.Regions() {
				layer := r.Layer()
				tf.Regions = append(tf.Regions, RegionFile{Name: r.Name(), Position: r.Position(), Length: r.Length(), Layer: &layer})
			}
		}
		f.Tracks = append(f.Tracks, tf)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	return enc.Close()
}
