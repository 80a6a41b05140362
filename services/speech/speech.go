package speech

import (
	"context"
	"errors"
	"fmt"
	"strings"

	speechapi "cloud.google.com/go/speech/apiv1"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"
	speechpb "google.golang.org/genproto/googleapis/cloud/speech/v1"
)

const (
	// MaxAudioBytes bounds what is sent for synchronous recognition.
	MaxAudioBytes = 5 * 1024 * 1024

	// Telegram voice notes are Opus in an OGG container at 48 kHz.
	voiceSampleRate = 48000
)

var (
	ErrEmptyAudio    = errors.New("empty audio")
	ErrAudioTooLarge = errors.New("audio exceeds size limit")
	ErrNoTranscript  = errors.New("no speech recognized")
)

// Transcriber turns a voice note into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// Recognizer is the part of the Cloud Speech client used here.
type Recognizer interface {
	Recognize(ctx context.Context, req *speechpb.RecognizeRequest, opts ...gax.CallOption) (*speechpb.RecognizeResponse, error)
}

// GoogleTranscriber transcribes with Google Cloud Speech-to-Text.
type GoogleTranscriber struct {
	client   Recognizer
	closer   func() error
	language string
}

// NewGoogleTranscriber builds a client from a service account file.
func NewGoogleTranscriber(ctx context.Context, credentialsFile, language string) (*GoogleTranscriber, error) {
	client, err := speechapi.NewClient(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize speech client: %w", err)
	}
	t := NewTranscriber(client, language)
	t.closer = client.Close
	return t, nil
}

func NewTranscriber(client Recognizer, language string) *GoogleTranscriber {
	if language == "" {
		language = "en-US"
	}
	return &GoogleTranscriber{client: client, language: language}
}

func (t *GoogleTranscriber) Close() error {
	if t.closer == nil {
		return nil
	}
	return t.closer()
}

func (t *GoogleTranscriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", ErrEmptyAudio
	}
	if len(audio) > MaxAudioBytes {
		return "", ErrAudioTooLarge
	}

	req := &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:          speechpb.RecognitionConfig_OGG_OPUS,
			SampleRateHertz:   voiceSampleRate,
			LanguageCode:      t.language,
			AudioChannelCount: 1,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	}
	resp, err := t.client.Recognize(ctx, req)
	if err != nil {
		return "", fmt.Errorf("speech recognition failed: %w", err)
	}

	var transcript strings.Builder
	for _, result := range resp.GetResults() {
		alts := result.GetAlternatives()
		if len(alts) == 0 {
			continue
		}
		transcript.WriteString(alts[0].GetTranscript())
		transcript.WriteString(" ")
	}
	text := strings.TrimSpace(transcript.String())
	if text == "" {
		return "", ErrNoTranscript
	}
	return text, nil
}
