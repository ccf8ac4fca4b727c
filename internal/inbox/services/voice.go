package services

import (
	"context"
	"errors"
)

// ErrVoiceUnavailable is returned when no speech recognizer is configured.
var ErrVoiceUnavailable = errors.New("voice input unavailable")

// Transcriber converts recorded speech into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// NoVoice is the Transcriber used when speech recognition is not available.
type NoVoice struct{}

// Transcribe always reports ErrVoiceUnavailable.
func (NoVoice) Transcribe(context.Context, []byte) (string, error) {
	return "", ErrVoiceUnavailable
}
