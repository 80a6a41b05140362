package speech

import (
	"context"
	"errors"
	"testing"

	"github.com/googleapis/gax-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	speechpb "google.golang.org/genproto/googleapis/cloud/speech/v1"
)

type fakeRecognizer struct {
	req  *speechpb.RecognizeRequest
	resp *speechpb.RecognizeResponse
	err  error
}

func (f *fakeRecognizer) Recognize(_ context.Context, req *speechpb.RecognizeRequest, _ ...gax.CallOption) (*speechpb.RecognizeResponse, error) {
	f.req = req
	return f.resp, f.err
}

func alt(text string) *speechpb.SpeechRecognitionResult {
	return &speechpb.SpeechRecognitionResult{
		Alternatives: []*speechpb.SpeechRecognitionAlternative{{Transcript: text}},
	}
}

func TestTranscribe(t *testing.T) {
	rec := &fakeRecognizer{resp: &speechpb.RecognizeResponse{
		Results: []*speechpb.SpeechRecognitionResult{alt("what are"), alt("your hours")},
	}}
	tr := NewTranscriber(rec, "")

	text, err := tr.Transcribe(context.Background(), []byte("OggS..."))
	require.NoError(t, err)
	assert.Equal(t, "what are your hours", text)
	assert.Equal(t, speechpb.RecognitionConfig_OGG_OPUS, rec.req.Config.Encoding)
	assert.EqualValues(t, 48000, rec.req.Config.SampleRateHertz)
	assert.Equal(t, "en-US", rec.req.Config.LanguageCode)
}

func TestTranscribe_Failures(t *testing.T) {
	ctx := context.Background()

	_, err := NewTranscriber(&fakeRecognizer{}, "en-GB").Transcribe(ctx, nil)
	assert.ErrorIs(t, err, ErrEmptyAudio)

	_, err = NewTranscriber(&fakeRecognizer{}, "en-GB").Transcribe(ctx, make([]byte, MaxAudioBytes+1))
	assert.ErrorIs(t, err, ErrAudioTooLarge)

	_, err = NewTranscriber(&fakeRecognizer{resp: &speechpb.RecognizeResponse{}}, "en-GB").Transcribe(ctx, []byte("x"))
	assert.ErrorIs(t, err, ErrNoTranscript)

	boom := errors.New("quota")
	_, err = NewTranscriber(&fakeRecognizer{err: boom}, "en-GB").Transcribe(ctx, []byte("x"))
	assert.ErrorIs(t, err, boom)
}
