package agents

import "context"

// MusicPlayer triggers music playback. The real audio backend lives outside
// this process; the default player just acknowledges the request the way the
// original handler does.
type MusicPlayer interface {
	Play(ctx context.Context) (string, error)
}

// NotePlayer is the built-in player. It reports success without touching any
// audio device.
type NotePlayer struct{}

func (NotePlayer) Play(ctx context.Context) (string, error) {
	return "Musique créée.", nil
}
