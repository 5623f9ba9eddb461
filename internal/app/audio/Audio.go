package audio

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-audio/wav"
)

// TargetSampleRate is the rate the on-device model expects.
const TargetSampleRate = 16000

// Is16kHzWavFile reports whether filePath is a 16 kHz, 16-bit PCM WAV file.
// Anything that is not a readable WAV container is reported as false, not as an error.
func Is16kHzWavFile(filePath string) (bool, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return false, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return false, nil
	}
	return dec.SampleRate == TargetSampleRate && dec.BitDepth == 16 && dec.WavAudioFormat == 1, nil
}

// SupportedExt reports whether ffmpeg conversion accepts the extension of name.
func SupportedExt(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".mp3", ".m4a", ".wav":
		return true
	}
	return false
}

// ConvertTo16kHzWav converts inputFilePath into outputDir and returns the new path.
// The caller owns the returned file.
func ConvertTo16kHzWav(ctx context.Context, inputFilePath, outputDir string) (string, error) {
	if !SupportedExt(inputFilePath) {
		return "", fmt.Errorf("unsupported audio format not in [mp3,m4a,wav]: %s", filepath.Ext(inputFilePath))
	}

	base := strings.TrimSuffix(filepath.Base(inputFilePath), filepath.Ext(inputFilePath))
	outputWavPath := filepath.Join(outputDir, base+"_16khz.wav")

	cmd := exec.CommandContext(ctx, "ffmpeg", "-y", "-i", inputFilePath, "-vn", "-acodec", "pcm_s16le", "-ar", strconv.Itoa(TargetSampleRate), "-ac", "1", outputWavPath)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		os.Remove(outputWavPath)
		return "", fmt.Errorf("FFmpeg error: %v, stderr: %s", err, stderr.String())
	}

	return outputWavPath, nil
}
