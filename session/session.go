/*
Package session is an in-memory editing model: regions on playlists, the
diskstreams and tracks that record into them, and the session transport.

Everything in the package is safe for concurrent use. Changes are announced
through signals, emitted on the goroutine making the change once the internal
locks have been released.
*/
package session

import (
	"sync"

	"github.com/vsariola/lanes"
	"github.com/vsariola/lanes/signal"
)

type Session struct {
	mu            sync.RWMutex
	name          string
	sampleRate    int
	rolling       bool
	recordEnabled bool
	tracks        []*Track

	transportStateChange signal.Signal[struct{}]
	transportLooped      signal.Signal[struct{}]
	recordStateChanged   signal.Signal[struct{}]
}

const DefaultSampleRate = 48000

func New(name string, sampleRate int) *Session {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	return &Session{name: name, sampleRate: sampleRate}
}

func (s *Session) TransportStateChange() *signal.Signal[struct{}] { return &s.transportStateChange }
func (s *Session) TransportLooped() *signal.Signal[struct{}]      { return &s.transportLooped }
func (s *Session) RecordStateChanged() *signal.Signal[struct{}]   { return &s.recordStateChanged }

func (s *Session) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *Session) SampleRate() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sampleRate
}

func (s *Session) AddTrack(t *Track) {
	s.mu.Lock()
	s.tracks = append(s.tracks, t)
	s.mu.Unlock()
}

func (s *Session) Tracks() []*Track {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ret := make([]*Track, len(s.tracks))
	copy(ret, s.tracks)
	return ret
}

func (s *Session) TransportRolling() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rolling
}

func (s *Session) RecordEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.recordEnabled
}

// SetRecordEnabled engages or disengages the global record arm.
func (s *Session) SetRecordEnabled(enabled bool) {
	s.mu.Lock()
	if s.recordEnabled == enabled {
		s.mu.Unlock()
		return
	}
	s.recordEnabled = enabled
	s.mu.Unlock()
	s.recordStateChanged.Emit(struct{}{})
}

// Start starts the transport at the given position. Record-enabled
// diskstreams start a capture pass there if the session is recording.
func (s *Session) Start(at lanes.Frame) {
	s.mu.Lock()
	if s.rolling {
		s.mu.Unlock()
		return
	}
	s.rolling = true
	recording := s.recordEnabled
	tracks := append([]*Track(nil), s.tracks...)
	s.mu.Unlock()
	if recording {
		for _, t := range tracks {
			if ds := t.CurrentDiskstream(); ds != nil && ds.RecordEnabled() {
				ds.StartCapture(at)
			}
		}
	}
	s.transportStateChange.Emit(struct{}{})
}

// Stop stops the transport, finishing all capture passes.
func (s *Session) Stop() {
	s.mu.Lock()
	if !s.rolling {
		s.mu.Unlock()
		return
	}
	s.rolling = false
	tracks := append([]*Track(nil), s.tracks...)
	s.mu.Unlock()
	for _, t := range tracks {
		if ds := t.CurrentDiskstream(); ds != nil {
			ds.FinishCapture(t.Name())
		}
	}
	s.transportStateChange.Emit(struct{}{})
}

// Loop jumps back to the loop start while rolling. Capture passes in
// progress are finished and new ones start at the loop start.
func (s *Session) Loop(loopStart lanes.Frame) {
	s.mu.RLock()
	rolling, recording := s.rolling, s.recordEnabled
	tracks := append([]*Track(nil), s.tracks...)
	s.mu.RUnlock()
	if !rolling {
		return
	}
	for _, t := range tracks {
		ds := t.CurrentDiskstream()
		if ds == nil {
			continue
		}
		ds.FinishCapture(t.Name())
		if recording && ds.RecordEnabled() {
			ds.StartCapture(loopStart)
		}
	}
	s.transportLooped.Emit(struct{}{})
}

var _ lanes.Session = (*Session)(nil)
