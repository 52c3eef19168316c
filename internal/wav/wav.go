// Package wav implements a minimal RIFF/WAVE codec for 16-bit PCM,
// plus ordered concatenation of independently produced segments.
package wav

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/chorus-network/chorus/internal/domain"
)

// Spec describes the PCM encoding of a WAVE stream.
type Spec struct {
	SampleRate uint32
	BitDepth   uint16
	Channels   uint16
}

// File is a fully decoded WAVE file: its format spec and the
// interleaved 16-bit samples in stream order.
type File struct {
	Spec    Spec
	Samples []int16
}

const (
	formatPCM    = 1
	pcm16Bits    = 16
	fmtChunkSize = 16
)

// ReadFile decodes a PCM16 WAVE file.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Decode parses a RIFF/WAVE PCM16 stream. Chunks other than "fmt "
// and "data" are skipped.
func Decode(r io.Reader) (*File, error) {
	var riff [12]byte
	if _, err := io.ReadFull(r, riff[:]); err != nil {
		return nil, domain.ErrNotWave
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return nil, domain.ErrNotWave
	}

	var (
		spec    Spec
		samples []int16
		haveFmt bool
	)

	for {
		var hdr [8]byte
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			return nil, err
		}
		id := string(hdr[0:4])
		size := binary.LittleEndian.Uint32(hdr[4:8])

		switch id {
		case "fmt ":
			if size < fmtChunkSize {
				return nil, domain.ErrNotWave
			}
			buf := make([]byte, size)
			if _, err := io.ReadFull(r, buf); err != nil {
				return nil, err
			}
			format := binary.LittleEndian.Uint16(buf[0:2])
			spec.Channels = binary.LittleEndian.Uint16(buf[2:4])
			spec.SampleRate = binary.LittleEndian.Uint32(buf[4:8])
			spec.BitDepth = binary.LittleEndian.Uint16(buf[14:16])
			if format != formatPCM || spec.BitDepth != pcm16Bits {
				return nil, domain.ErrUnsupportedWave
			}
			haveFmt = true
		case "data":
			if !haveFmt {
				return nil, domain.ErrNotWave
			}
			buf := make([]byte, size)
			if _, err := io.ReadFull(r, buf); err != nil {
				return nil, err
			}
			samples = make([]int16, size/2)
			for i := range samples {
				samples[i] = int16(binary.LittleEndian.Uint16(buf[2*i : 2*i+2]))
			}
		default:
			// Skip unknown chunk, honoring RIFF's even-byte padding.
			skip := int64(size)
			if size%2 == 1 {
				skip++
			}
			if _, err := io.CopyN(io.Discard, r, skip); err != nil {
				return nil, err
			}
		}
	}

	if !haveFmt {
		return nil, domain.ErrNotWave
	}
	return &File{Spec: spec, Samples: samples}, nil
}

// WriteFile encodes samples as a PCM16 WAVE file at path.
func WriteFile(path string, spec Spec, samples []int16) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, spec, samples); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

// Encode writes a complete RIFF/WAVE PCM16 stream to w.
func Encode(w io.Writer, spec Spec, samples []int16) error {
	dataLen := uint32(len(samples) * 2)
	blockAlign := spec.Channels * pcm16Bits / 8
	byteRate := spec.SampleRate * uint32(blockAlign)

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(4+8+fmtChunkSize+8)+dataLen)
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(fmtChunkSize))
	binary.Write(&buf, binary.LittleEndian, uint16(formatPCM))
	binary.Write(&buf, binary.LittleEndian, spec.Channels)
	binary.Write(&buf, binary.LittleEndian, spec.SampleRate)
	binary.Write(&buf, binary.LittleEndian, byteRate)
	binary.Write(&buf, binary.LittleEndian, blockAlign)
	binary.Write(&buf, binary.LittleEndian, uint16(pcm16Bits))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, dataLen)
	for _, s := range samples {
		binary.Write(&buf, binary.LittleEndian, s)
	}

	_, err := w.Write(buf.Bytes())
	return err
}
