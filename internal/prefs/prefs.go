// Package prefs persists cosmetic player preferences: sound volumes, the mute
// switch and tutorial progress. Nothing stored here affects game outcomes.
package prefs

import (
	"fmt"
	"io"
	"math"
	"maps"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/lox/rangepoker/internal/fileutil"
	"github.com/lox/rangepoker/internal/game"
)

// TutorialComplete marks a finished tutorial.
const TutorialComplete = -1

// Sound is a class of sounds with its own volume.
type Sound string

const (
	Music   Sound = "music"
	Effects Sound = "effects"
)

// Preferences is the persisted document.
type Preferences struct {
	MasterVolume  float64 `json:"master_volume"`
	MusicVolume   float64 `json:"music_volume"`
	EffectsVolume float64 `json:"effects_volume"`
	Muted         bool    `json:"muted"`
	// Tutorial maps a mode to its completed step; absent means not started.
	Tutorial map[game.Mode]int `json:"tutorial,omitempty"`
}

// Defaults returns the preferences used before anything is saved.
func Defaults() Preferences {
	return Preferences{
		MasterVolume:  1,
		MusicVolume:   0.3,
		EffectsVolume: 0.5,
	}
}

// EffectiveVolume returns the master volume scaled by the volume of sound.
// Unknown sounds play at the master volume and everything is silent while
// muted.
func (p Preferences) EffectiveVolume(sound Sound) float64 {
	if p.Muted {
		return 0
	}
	switch sound {
	case Music:
		return p.MasterVolume * p.MusicVolume
	case Effects:
		return p.MasterVolume * p.EffectsVolume
	default:
		return p.MasterVolume
	}
}

func (p *Preferences) normalize() {
	p.MasterVolume = clamp(p.MasterVolume)
	p.MusicVolume = clamp(p.MusicVolume)
	p.EffectsVolume = clamp(p.EffectsVolume)
	for mode, step := range p.Tutorial {
		if step != TutorialComplete {
			delete(p.Tutorial, mode)
		}
	}
}

func clamp(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return min(max(v, 0), 1)
}

// Store holds preferences in memory and writes them to a JSON file.
// Tutorial progress is only written once a mode's tutorial completes, so an
// interrupted tutorial starts again from the beginning.
type Store struct {
	mu       sync.Mutex
	path     string
	prefs    Preferences
	progress map[game.Mode]int
	logger   *log.Logger
}

// Load reads the preferences file at path. A missing file yields defaults.
// An empty path keeps preferences in memory only.
func Load(path string, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Store{
		path:     path,
		prefs:    Defaults(),
		progress: make(map[game.Mode]int),
		logger:   logger.WithPrefix("prefs"),
	}

	if path != "" {
		found, err := fileutil.ReadJSON(path, &s.prefs)
		if err != nil {
			return nil, err
		}
		if !found {
			s.logger.Debug("No preferences file, using defaults", "path", path)
		}
	}
	s.prefs.normalize()
	return s, nil
}

// Path returns the file the store writes to.
func (s *Store) Path() string {
	return s.path
}

// Preferences returns a copy of the current preferences.
func (s *Store) Preferences() Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.prefs
	p.Tutorial = maps.Clone(s.prefs.Tutorial)
	return p
}

// Save writes the preferences file.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

func (s *Store) saveLocked() error {
	if s.path == "" {
		return nil
	}
	if err := fileutil.WriteJSONAtomic(s.path, s.prefs, 0o644); err != nil {
		return fmt.Errorf("saving preferences: %w", err)
	}
	s.logger.Debug("Saved preferences", "path", s.path)
	return nil
}

// SetVolume sets the volume of sound, clamped to [0, 1], and saves.
func (s *Store) SetVolume(sound Sound, v float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch sound {
	case Music:
		s.prefs.MusicVolume = clamp(v)
	case Effects:
		s.prefs.EffectsVolume = clamp(v)
	default:
		return fmt.Errorf("unknown sound %q", sound)
	}
	return s.saveLocked()
}

// SetMasterVolume sets the master volume, clamped to [0, 1], and saves.
func (s *Store) SetMasterVolume(v float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs.MasterVolume = clamp(v)
	return s.saveLocked()
}

// SetMuted switches all sound off or back on and saves.
func (s *Store) SetMuted(muted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs.Muted = muted
	return s.saveLocked()
}

// TutorialStep returns the tutorial step to show for mode, or
// TutorialComplete.
func (s *Store) TutorialStep(mode game.Mode) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.prefs.Tutorial[mode] == TutorialComplete {
		return TutorialComplete
	}
	return s.progress[mode]
}

// AdvanceTutorial moves the tutorial of mode to step. A completed tutorial
// never restarts. Reaching TutorialComplete, or stepping past the last hint,
// is persisted.
func (s *Store) AdvanceTutorial(mode game.Mode, step int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.prefs.Tutorial[mode] == TutorialComplete {
		return nil
	}
	if step != TutorialComplete && step < len(hints[mode]) {
		s.progress[mode] = step
		return nil
	}

	delete(s.progress, mode)
	if s.prefs.Tutorial == nil {
		s.prefs.Tutorial = make(map[game.Mode]int)
	}
	s.prefs.Tutorial[mode] = TutorialComplete
	s.logger.Debug("Tutorial complete", "mode", mode)
	return s.saveLocked()
}

// ResetTutorial starts the tutorial of mode again and saves.
func (s *Store) ResetTutorial(mode game.Mode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.progress, mode)
	delete(s.prefs.Tutorial, mode)
	return s.saveLocked()
}

// ResetAllTutorials starts the tutorial of every mode again and saves.
func (s *Store) ResetAllTutorials() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.progress)
	s.prefs.Tutorial = nil
	return s.saveLocked()
}
