// Package audio plays the short cue that accompanies a meeting banner.
package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// Global audio context singleton. oto allows a single context per process,
// so the first cue played fixes the output format.
var (
	globalAudioCtx     *oto.Context
	globalAudioCtxOnce sync.Once
	globalAudioCtxErr  error
	globalFormat       wavFormat
)

// wavFormat holds WAV file format information
type wavFormat struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

func (f wavFormat) otoFormat() (oto.Format, error) {
	switch f.BitDepth {
	case 8:
		return oto.FormatUnsignedInt8, nil
	case 16:
		return oto.FormatSignedInt16LE, nil
	default:
		return 0, fmt.Errorf("unsupported bit depth %d", f.BitDepth)
	}
}

func initAudioContext(format wavFormat) error {
	globalAudioCtxOnce.Do(func() {
		otoFormat, err := format.otoFormat()
		if err != nil {
			globalAudioCtxErr = err
			return
		}

		op := &oto.NewContextOptions{
			SampleRate:   format.SampleRate,
			ChannelCount: format.Channels,
			Format:       otoFormat,
		}

		ctx, readyChan, err := oto.NewContext(op)
		if err != nil {
			globalAudioCtxErr = fmt.Errorf("failed to initialize audio context: %w", err)
			return
		}

		// Wait for the hardware audio devices to be ready
		<-readyChan

		globalAudioCtx = ctx
		globalFormat = format
		log.Println("Audio context initialized successfully")
	})
	if globalAudioCtxErr != nil {
		return globalAudioCtxErr
	}
	if format != globalFormat {
		return fmt.Errorf("audio context already opened as %+v", globalFormat)
	}
	return nil
}

// PlayOnce plays a WAV clip once in the background. Playback problems after
// the clip has started are only logged.
func PlayOnce(wavData []byte) error {
	format, audioData, err := parseWAV(wavData)
	if err != nil {
		return fmt.Errorf("failed to parse WAV data: %w", err)
	}

	if err := initAudioContext(*format); err != nil {
		return err
	}

	player := globalAudioCtx.NewPlayer(bytes.NewReader(audioData))
	player.Play()

	go func() {
		for player.IsPlaying() {
			time.Sleep(10 * time.Millisecond)
		}
		if err := player.Close(); err != nil {
			log.Printf("Failed to close audio player: %v", err)
		}
	}()

	return nil
}

// PlayChime plays the built-in meeting cue
func PlayChime() error {
	return PlayOnce(chimeWAV())
}

var (
	chimeOnce sync.Once
	chimeData []byte
)

func chimeWAV() []byte {
	chimeOnce.Do(func() {
		chimeData = Chime()
	})
	return chimeData
}

// parseWAV parses a PCM WAV file and returns the format and audio data
func parseWAV(data []byte) (*wavFormat, []byte, error) {
	reader := bytes.NewReader(data)

	var header [12]byte
	if _, err := io.ReadFull(reader, header[:]); err != nil {
		return nil, nil, err
	}
	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		return nil, nil, errors.New("not a RIFF/WAVE file")
	}

	var format *wavFormat
	for {
		var chunkID [4]byte
		if _, err := io.ReadFull(reader, chunkID[:]); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, nil, errors.New("missing data chunk")
			}
			return nil, nil, err
		}

		var chunkSize uint32
		if err := binary.Read(reader, binary.LittleEndian, &chunkSize); err != nil {
			return nil, nil, err
		}

		switch string(chunkID[:]) {
		case "fmt ":
			var fmtChunk struct {
				AudioFormat   uint16
				NumChannels   uint16
				SampleRate    uint32
				ByteRate      uint32
				BlockAlign    uint16
				BitsPerSample uint16
			}
			if chunkSize < 16 {
				return nil, nil, fmt.Errorf("fmt chunk too short: %d", chunkSize)
			}
			if err := binary.Read(reader, binary.LittleEndian, &fmtChunk); err != nil {
				return nil, nil, err
			}
			if fmtChunk.AudioFormat != 1 {
				return nil, nil, fmt.Errorf("unsupported audio format %d", fmtChunk.AudioFormat)
			}
			format = &wavFormat{
				SampleRate: int(fmtChunk.SampleRate),
				Channels:   int(fmtChunk.NumChannels),
				BitDepth:   int(fmtChunk.BitsPerSample),
			}
			// Skip any extra format bytes
			if _, err := reader.Seek(int64(chunkSize-16), io.SeekCurrent); err != nil {
				return nil, nil, err
			}
		case "data":
			if format == nil {
				return nil, nil, errors.New("data chunk before fmt chunk")
			}
			size := int64(chunkSize)
			if remaining := int64(reader.Len()); size > remaining {
				size = remaining
			}
			audioData := make([]byte, size)
			if _, err := io.ReadFull(reader, audioData); err != nil {
				return nil, nil, err
			}
			return format, audioData, nil
		default:
			if _, err := reader.Seek(int64(chunkSize), io.SeekCurrent); err != nil {
				return nil, nil, err
			}
		}
	}
}
