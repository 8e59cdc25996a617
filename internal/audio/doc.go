// Package audio handles microphone capture, WAV persistence and playback.
package audio
