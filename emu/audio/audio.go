// Package audio plays the CHIP-8 beep through the system speaker.
package audio

import (
	"math"
	"os"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/log"
)

const (
	sampleRate   = beep.SampleRate(44100)
	beepLength   = time.Second / 10
	toneVolume   = 0.2
	pendingBeeps = 4
)

// Speaker plays one sound per Beep call from its own goroutine, see
// ManageAudio.
type Speaker struct {
	logger *log.Logger
	sound  *beep.Buffer
	beeps  chan struct{}
	done   chan struct{}
}

// New prepares the speaker. If soundFile is empty a square wave of toneHz
// is used, otherwise the mp3 file is decoded into memory.
func New(logger *log.Logger, soundFile string, toneHz float64) (*Speaker, error) {
	var sound *beep.Buffer
	var err error
	if soundFile == "" {
		sound = toneBuffer(toneHz)
	} else {
		sound, err = loadMP3(soundFile)
		if err != nil {
			return nil, err
		}
	}

	format := sound.Format()
	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
		return nil, errors.Wrap(err, "initializing speaker")
	}

	logger.Debug("Audio initialized",
		log.Int("sampleRate", int(format.SampleRate)),
		log.String("sound", soundName(soundFile)))

	return &Speaker{
		logger: logger,
		sound:  sound,
		beeps:  make(chan struct{}, pendingBeeps),
		done:   make(chan struct{}),
	}, nil
}

// Beep queues one sound. Beeps are dropped while the queue is full so the
// caller never blocks.
func (s *Speaker) Beep() {
	select {
	case s.beeps <- struct{}{}:
	default:
	}
}

// ManageAudio plays queued beeps until Close is called.
func (s *Speaker) ManageAudio() {
	for {
		select {
		case <-s.done:
			return
		case <-s.beeps:
			speaker.Play(s.sound.Streamer(0, s.sound.Len()))
		}
	}
}

// Close stops ManageAudio and silences the speaker.
func (s *Speaker) Close() {
	close(s.done)
	speaker.Clear()
}

func loadMP3(path string) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening sound file")
	}

	streamer, format, err := mp3.Decode(f)
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrapf(err, "decoding %s", path)
	}
	defer streamer.Close()

	buffer := beep.NewBuffer(format)
	buffer.Append(streamer)
	if err := streamer.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return buffer, nil
}

func toneBuffer(hz float64) *beep.Buffer {
	format := beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 2}
	buffer := beep.NewBuffer(format)
	buffer.Append(beep.Take(format.SampleRate.N(beepLength), SquareWave(format.SampleRate, hz)))
	return buffer
}

// SquareWave returns an endless square wave of frequency hz.
func SquareWave(sr beep.SampleRate, hz float64) beep.Streamer {
	period := float64(sr) / hz
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			v := toneVolume
			if math.Mod(float64(pos), period) >= period/2 {
				v = -toneVolume
			}
			samples[i][0], samples[i][1] = v, v
			pos++
		}
		return len(samples), true
	})
}

func soundName(file string) string {
	if file == "" {
		return "square wave"
	}
	return file
}
