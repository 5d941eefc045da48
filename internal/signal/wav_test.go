package signal

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeWAVLayout(t *testing.T) {
	pcm := []float32{0, 0.5, -0.5, 1}
	wav := EncodeWAV(pcm, 16000)

	require.Len(t, wav, 44+len(pcm)*2)
	assert.Equal(t, "RIFF", string(wav[0:4]))
	assert.Equal(t, "WAVE", string(wav[8:12]))
	assert.Equal(t, "fmt ", string(wav[12:16]))
	assert.Equal(t, "data", string(wav[36:40]))

	assert.Equal(t, uint32(16000), binary.LittleEndian.Uint32(wav[24:28]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(wav[22:24]))
	assert.Equal(t, uint16(16), binary.LittleEndian.Uint16(wav[34:36]))
	assert.Equal(t, uint32(len(pcm)*2), binary.LittleEndian.Uint32(wav[40:44]))
}

func TestEncodeWAVClipsOutOfRangeSamples(t *testing.T) {
	wav := EncodeWAV([]float32{2.0, -2.0}, 16000)

	high := int16(binary.LittleEndian.Uint16(wav[44:46]))
	low := int16(binary.LittleEndian.Uint16(wav[46:48]))
	assert.Equal(t, int16(32767), high)
	assert.Equal(t, int16(-32768), low)
}

func TestBeepWAVIsAShortValidTone(t *testing.T) {
	wav := BeepWAV()

	require.Greater(t, len(wav), 44)
	assert.Equal(t, "RIFF", string(wav[0:4]))
	assert.Equal(t, uint32(22050), binary.LittleEndian.Uint32(wav[24:28]))

	// 0.3s at 22050 Hz, 2 bytes per sample.
	assert.Equal(t, 44+2*6615, len(wav))
}
