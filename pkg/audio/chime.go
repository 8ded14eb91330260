package audio

import (
	"bytes"
	"encoding/binary"
	"math"
)

const (
	chimeSampleRate = 22050
	chimeToneLength = 0.18 // seconds per tone
	chimeVolume     = 0.35
)

// chimeTones are played back to back
var chimeTones = []float64{880, 1318.5}

// Chime synthesizes a two-tone 16-bit mono WAV clip
func Chime() []byte {
	perTone := int(chimeSampleRate * chimeToneLength)
	samples := make([]int16, 0, perTone*len(chimeTones))

	for _, freq := range chimeTones {
		for i := 0; i < perTone; i++ {
			t := float64(i) / chimeSampleRate
			// linear fade out so tones do not click
			envelope := 1 - float64(i)/float64(perTone)
			v := math.Sin(2*math.Pi*freq*t) * envelope * chimeVolume
			samples = append(samples, int16(v*math.MaxInt16))
		}
	}

	return encodeWAV(samples, chimeSampleRate)
}

func encodeWAV(samples []int16, sampleRate int) []byte {
	const (
		channels      = 1
		bitsPerSample = 16
	)
	dataSize := uint32(len(samples) * 2)
	blockAlign := uint16(channels * bitsPerSample / 8)

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, 36+dataSize)
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate)*uint32(blockAlign))
	binary.Write(&buf, binary.LittleEndian, blockAlign)
	binary.Write(&buf, binary.LittleEndian, uint16(bitsPerSample))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, dataSize)
	binary.Write(&buf, binary.LittleEndian, samples)

	return buf.Bytes()
}
