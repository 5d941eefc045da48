package signal

import (
	"bytes"
	"encoding/binary"
	"math"
)

// EncodeWAV packs float32 PCM into an in-memory 16-bit mono WAV, the format
// the transcription endpoint accepts. Samples are clipped to [-1, 1].
func EncodeWAV(pcm []float32, sampleRate int) []byte {
	dataSize := len(pcm) * 2

	var buf bytes.Buffer
	buf.Grow(44 + dataSize)

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // mono
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*2))
	binary.Write(&buf, binary.LittleEndian, uint16(2))  // block align
	binary.Write(&buf, binary.LittleEndian, uint16(16)) // bits per sample
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataSize))

	for _, v := range pcm {
		s := v * 32767
		if s > 32767 {
			s = 32767
		}
		if s < -32768 {
			s = -32768
		}
		binary.Write(&buf, binary.LittleEndian, int16(s))
	}
	return buf.Bytes()
}

// BeepWAV generates a short decaying 880 Hz notification tone as 16-bit mono
// WAV. Used when speech synthesis produces nothing so the earpiece still
// signals that a cue arrived.
func BeepWAV() []byte {
	const (
		sampleRate = 22050
		duration   = 0.3
		freq       = 880.0
	)
	n := int(sampleRate * duration)
	pcm := make([]float32, n)
	for i := range pcm {
		t := float64(i) / sampleRate
		envelope := 1.0 - t/duration
		pcm[i] = float32(0.5 * envelope * math.Sin(2*math.Pi*freq*t))
	}
	return EncodeWAV(pcm, sampleRate)
}
