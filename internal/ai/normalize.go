package ai

import (
	"strings"

	"google.golang.org/genai"
)

// normalize scans a backend response for text, then for inline image
// data. A candidate's text parts are concatenated; the backend may
// split one reply across several. A response with neither text nor an
// image is an empty (filtered) result, unless the backend reported an
// explicit policy block.
func normalize(resp *genai.GenerateContentResponse) (*Result, error) {
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockedReasonUnspecified {
		return nil, newPolicyError("prompt blocked: " + string(resp.PromptFeedback.BlockReason))
	}

	var blocked bool
	for _, candidate := range resp.Candidates {
		switch candidate.FinishReason {
		case genai.FinishReasonSafety, genai.FinishReasonProhibitedContent:
			blocked = true
		}
		if candidate.Content == nil {
			continue
		}
		var text strings.Builder
		var image *genai.Blob
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				text.WriteString(part.Text)
			}
			if image == nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				image = part.InlineData
			}
		}
		if text.Len() > 0 {
			return &Result{Kind: ResultText, Text: text.String()}, nil
		}
		if image != nil {
			return &Result{
				Kind:  ResultImage,
				Image: image.Data,
				MIME:  image.MIMEType,
			}, nil
		}
	}

	if blocked {
		return nil, newPolicyError("output withheld by content policy")
	}
	return &Result{Kind: ResultEmpty}, nil
}
