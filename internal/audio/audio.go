// Package audio plays the blaster's numbered sound tracks.
package audio

// Track numbers as stored on the player's SD card.
const (
	TrackStartUp    = 1
	TrackChangeMode = 2
	TrackFireA      = 3
	TrackFireB      = 4
	TrackStunA      = 5
	TrackStunB      = 6
	TrackReload     = 7
	TrackEmpty      = 8
	TrackTheme      = 9
)

// Volume bounds accepted by SetVolume.
const (
	MinVolume = 0
	MaxVolume = 30
)

// Player plays tracks by index. Playback is fire-and-forget.
type Player interface {
	PlayTrack(n int) error
	SetVolume(v int) error
	Close() error
}

// Nop is a Player with no output.
type Nop struct{}

func (Nop) PlayTrack(int) error { return nil }
func (Nop) SetVolume(int) error { return nil }
func (Nop) Close() error        { return nil }

func clampVolume(v int) int {
	if v < MinVolume {
		return MinVolume
	}
	if v > MaxVolume {
		return MaxVolume
	}
	return v
}
