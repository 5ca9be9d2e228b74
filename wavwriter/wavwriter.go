// This file is part of Sysdarft.
//
// Sysdarft is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Sysdarft is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Sysdarft.  If not, see <https://www.gnu.org/licenses/>.

// Package wavwriter records the machine's bell to disk as a WAV file.
// Every bell event appends a short square wave beep. Note that the
// encoder finalises the file on Close(); a recording that is never
// closed is not a valid WAV file.
package wavwriter

import (
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/sysdarft/sysdarft/curated"
	"github.com/sysdarft/sysdarft/logger"
)

// Error is the error pattern for recording failures.
const Error = "wavwriter: %v"

const (
	sampleRate = 44100
	bitDepth   = 16

	// pitch and length of a beep
	beepFrequency = 880
	beepSeconds   = 0.05
	beepAmplitude = 0.3
)

// WavWriter appends bell beeps to a WAV file.
type WavWriter struct {
	f   *os.File
	enc *wav.Encoder

	// one beep, synthesised once
	beep *audio.IntBuffer
}

// New is the preferred method of initialisation for the WavWriter type.
func New(filename string) (*WavWriter, error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, curated.Errorf(Error, err)
	}

	aw := &WavWriter{
		f:   f,
		enc: wav.NewEncoder(f, sampleRate, bitDepth, 1, 1),
	}

	// synthesise the square wave beep
	n := int(sampleRate * beepSeconds)
	halfPeriod := sampleRate / beepFrequency / 2
	maxAmplitude := int(1) << (bitDepth - 1)
	amp := int(beepAmplitude * float64(maxAmplitude))

	data := make([]int, n)
	for i := range data {
		if (i/halfPeriod)%2 == 0 {
			data[i] = amp
		} else {
			data[i] = -amp
		}
	}

	aw.beep = &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		SourceBitDepth: bitDepth,
		Data:           data,
	}

	return aw, nil
}

// Beep appends one bell beep to the recording. Safe to use as the
// display buffer's bell handler.
func (aw *WavWriter) Beep() {
	if err := aw.enc.Write(aw.beep); err != nil {
		logger.Logf("wavwriter", "%v", err)
	}
}

// Close finalises the WAV file.
func (aw *WavWriter) Close() error {
	if err := aw.enc.Close(); err != nil {
		_ = aw.f.Close()
		return curated.Errorf(Error, err)
	}
	if err := aw.f.Close(); err != nil {
		return curated.Errorf(Error, err)
	}
	return nil
}
