package session

import (
	"fmt"
	"io"
	"os"

	"github.com/vsariola/lanes"
	"gitlab.com/gomidi/midi/v2/smf"
)

// ImportSMF reads a Standard MIDI File and returns one region per track that
// contains notes, spanning from the first note on to the last note off. Ticks
// are converted to frames using the first tempo found in the file, or bpm if
// the file sets none.
func ImportSMF(r io.Reader, sampleRate int, bpm float64) ([]*Region, error) {
	s, err := smf.ReadFrom(r)
	if err != nil {
		return nil, fmt.Errorf("reading MIDI file: %w", err)
	}
	ticks, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok || ticks == 0 {
		return nil, fmt.Errorf("MIDI file does not use metric time")
	}
	for _, tr := range s.Tracks {
		if tempo, found := firstTempo(tr); found {
			bpm = tempo
			break
		}
	}
	if bpm <= 0 {
		bpm = DefaultBPM
	}
	framesPerTick := float64(sampleRate) * 60 / bpm / float64(ticks)
	var regions []*Region
	for i, tr := range s.Tracks {
		name := fmt.Sprintf("MIDI %d", i+1)
		var tick, first, last int64
		hasNotes := false
		for _, ev := range tr {
			tick += int64(ev.Delta)
			var ch, key, vel uint8
			var text string
			switch {
			case ev.Message.GetNoteStart(&ch, &key, &vel):
				if !hasNotes {
					first = tick
					hasNotes = true
				}
				last = max(last, tick)
			case ev.Message.GetNoteEnd(&ch, &key):
				last = max(last, tick)
			case ev.Message.GetMetaTrackName(&text):
				if text != "" {
					name = text
				}
			}
		}
		if !hasNotes {
			continue
		}
		pos := lanes.Frame(float64(first) * framesPerTick)
		end := lanes.Frame(float64(last) * framesPerTick)
		regions = append(regions, NewRegion(name, pos, end-pos))
	}
	return regions, nil
}

// ImportSMFFile is ImportSMF reading from a file.
func ImportSMFFile(path string, sampleRate int, bpm float64) ([]*Region, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ImportSMF(f, sampleRate, bpm)
}

func firstTempo(tr smf.Track) (float64, bool) {
	for _, ev := range tr {
		var bpm float64
		if ev.Message.GetMetaTempo(&bpm) {
			return bpm, true
		}
	}
	return 0, false
}
