package emulator

import (
	"encoding/binary"
	"math"

	"github.com/retroenv/retrogolib/log"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	AudioFrequency = 44100
	AudioSamples   = 1024
	ToneFrequency  = 440.0
	ToneVolume     = 0.25
)

// squareWave produces a continuous square wave, one video frame of samples
// at a time.
type squareWave struct {
	phaseInc float32
	phase    float32
	volume   float32
}

func newSquareWave(sampleRate int) *squareWave {
	return &squareWave{
		phaseInc: ToneFrequency / float32(sampleRate),
		volume:   ToneVolume,
	}
}

// frame returns n little-endian float32 samples.
func (w *squareWave) frame(n int) []byte {
	samples := make([]byte, 4*n)
	for i := 0; i < len(samples); i += 4 {
		v := -w.volume
		if w.phase <= 0.5 {
			v = w.volume
		}
		binary.LittleEndian.PutUint32(samples[i:], math.Float32bits(v))
		w.phase = float32(math.Mod(float64(w.phase+w.phaseInc), 1.0))
	}
	return samples
}

func initAudio() (sdl.AudioDeviceID, int, error) {
	want := &sdl.AudioSpec{
		Freq:     AudioFrequency,
		Format:   sdl.AUDIO_F32LSB,
		Channels: 1,
		Samples:  AudioSamples,
	}
	have := &sdl.AudioSpec{}
	audio, err := sdl.OpenAudioDevice("", false, want, have, 0)
	if err != nil {
		return 0, 0, err
	}

	// the device stays paused until the sound timer is set
	sdl.PauseAudioDevice(audio, true)
	return audio, int(have.Freq), nil
}

// StartBeep is called when the sound timer is set to a non-zero value.
func (e *Emulator) StartBeep() {
	if e.beeping || e.tone == nil {
		return
	}
	e.beeping = true
	e.queueTone()
	sdl.PauseAudioDevice(e.audio, false)
}

// StopBeep is called when the sound timer runs out.
func (e *Emulator) StopBeep() {
	if !e.beeping {
		return
	}
	e.beeping = false
	sdl.PauseAudioDevice(e.audio, true)
	sdl.ClearQueuedAudio(e.audio)
}

// queueTone feeds one video frame worth of samples while the tone is on.
func (e *Emulator) queueTone() {
	if !e.beeping {
		return
	}
	if err := sdl.QueueAudio(e.audio, e.tone.frame(e.sampleRate/VBlankFrequency)); err != nil {
		e.logger.Error("Queueing audio failed", log.Err(err))
	}
}
