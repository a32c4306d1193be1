package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func respWithParts(parts ...*genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: parts}},
		},
	}
}

func TestNormalize_Text(t *testing.T) {
	result, err := normalize(respWithParts(&genai.Part{Text: "answer"}))
	require.NoError(t, err)
	assert.Equal(t, ResultText, result.Kind)
	assert.Equal(t, "answer", result.Text)
}

func TestNormalize_InlineImage(t *testing.T) {
	result, err := normalize(respWithParts(&genai.Part{
		InlineData: &genai.Blob{MIMEType: "image/png", Data: []byte{1, 2, 3}},
	}))
	require.NoError(t, err)
	assert.Equal(t, ResultImage, result.Kind)
	assert.Equal(t, "image/png", result.MIME)
	assert.Len(t, result.Image, 3)
}

func TestNormalize_JoinsTextParts(t *testing.T) {
	result, err := normalize(respWithParts(
		&genai.Part{Text: "first half "},
		&genai.Part{Text: "second half"},
	))
	require.NoError(t, err)
	assert.Equal(t, ResultText, result.Kind)
	assert.Equal(t, "first half second half", result.Text)
}

func TestNormalize_TextWinsOverImage(t *testing.T) {
	result, err := normalize(respWithParts(
		&genai.Part{Text: "caption"},
		&genai.Part{InlineData: &genai.Blob{MIMEType: "image/png", Data: []byte{1}}},
	))
	require.NoError(t, err)
	assert.Equal(t, ResultText, result.Kind)
}

func TestNormalize_Empty(t *testing.T) {
	result, err := normalize(&genai.GenerateContentResponse{})
	require.NoError(t, err)
	assert.Equal(t, ResultEmpty, result.Kind)
}

func TestNormalize_PromptBlocked(t *testing.T) {
	_, err := normalize(&genai.GenerateContentResponse{
		PromptFeedback: &genai.GenerateContentResponsePromptFeedback{
			BlockReason: genai.BlockedReasonSafety,
		},
	})
	require.Error(t, err)
	var aiErr *Error
	require.True(t, errors.As(err, &aiErr))
	assert.Equal(t, ClassPolicy, aiErr.Class)
}

func TestNormalize_SafetyFinishWithoutContent(t *testing.T) {
	_, err := normalize(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{FinishReason: genai.FinishReasonSafety},
		},
	})
	require.Error(t, err)
	var aiErr *Error
	require.True(t, errors.As(err, &aiErr))
	assert.Equal(t, ClassPolicy, aiErr.Class)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Class
	}{
		{"rate limited", genai.APIError{Code: 429, Message: "quota"}, ClassTransient},
		{"server error", genai.APIError{Code: 500, Message: "boom"}, ClassTransient},
		{"unavailable", genai.APIError{Code: 503, Message: "overloaded"}, ClassTransient},
		{"bad request", genai.APIError{Code: 400, Message: "malformed"}, ClassFatal},
		{"unauthorized", genai.APIError{Code: 401, Message: "bad key"}, ClassFatal},
		{"not found", genai.APIError{Code: 404, Message: "no such model"}, ClassFatal},
		{"timeout", context.DeadlineExceeded, ClassTransient},
		{"plain error", errors.New("weird"), ClassFatal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.err).Class)
		})
	}
}
