package sound

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const playerSampleRate = beep.SampleRate(generatorSampleRate)

// Player owns the speaker and plays synthesized impact sounds. All
// methods are safe for concurrent use. A nil Player is a no-op, so
// callers can hold one unconditionally and only construct it when
// sound is enabled.
type Player struct {
	mu          sync.Mutex
	initialized bool
	volume      float64
	mixer       *beep.Mixer
	thud        floatBuffer
}

// NewPlayer creates a player with the given master volume in [0, 1].
// Initialize must be called before any sound is heard.
func NewPlayer(volume float64) *Player {
	if volume < 0 {
		volume = 0
	} else if volume > 1 {
		volume = 1
	}
	return &Player{
		volume: volume,
		mixer:  &beep.Mixer{},
		thud:   generateThud(),
	}
}

// Initialize opens the audio device and starts the mixer.
func (p *Player) Initialize() error {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initialized {
		return nil
	}

	if err := speaker.Init(playerSampleRate, playerSampleRate.N(time.Millisecond*50)); err != nil {
		return fmt.Errorf("failed to initialize speaker: %w", err)
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Impact plays a thud scaled by the vertical speed (px/s) and weight
// of the landing window. Slow or feather-light contacts stay quiet.
func (p *Player) Impact(speed, weight float64) {
	if p == nil {
		return
	}
	p.mu.Lock()
	if !p.initialized {
		p.mu.Unlock()
		return
	}
	gain := p.volume * impactGain(speed, weight)
	p.mu.Unlock()

	if gain <= 0 {
		return
	}

	speaker.Lock()
	p.mixer.Add(&bufferStreamer{buf: p.thud, gain: gain})
	speaker.Unlock()
}

// SetVolume updates the master volume in [0, 1].
func (p *Player) SetVolume(volume float64) {
	if p == nil {
		return
	}
	if volume < 0 {
		volume = 0
	} else if volume > 1 {
		volume = 1
	}
	p.mu.Lock()
	p.volume = volume
	p.mu.Unlock()
}

// Close shuts down the audio device.
func (p *Player) Close() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return
	}
	speaker.Close()
	p.initialized = false
}

// impactGain maps landing speed and window weight to a gain in [0, 1].
// Speeds below the engine's impact threshold never reach here, so the
// floor of the curve is still audible.
func impactGain(speed, weight float64) float64 {
	g := speed / 1500.0
	if g > 1 {
		g = 1
	}
	if g < 0 {
		g = 0
	}
	w := weight
	if w < 0.4 {
		w = 0.4
	} else if w > 2 {
		w = 2
	}
	return g * (0.5 + w/4)
}

// bufferStreamer streams a mono buffer to both channels at a fixed
// gain, reporting exhaustion once to let the mixer drop it.
type bufferStreamer struct {
	buf  floatBuffer
	pos  int
	gain float64
}

func (s *bufferStreamer) Stream(samples [][2]float64) (int, bool) {
	if s.pos >= len(s.buf) {
		return 0, false
	}
	n := 0
	for i := range samples {
		if s.pos >= len(s.buf) {
			break
		}
		v := s.buf[s.pos] * s.gain
		samples[i][0] = v
		samples[i][1] = v
		s.pos++
		n++
	}
	return n, true
}

func (s *bufferStreamer) Err() error { return nil }
