package ocr

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// DefaultGeminiModel is the vision model used for statement transcription.
const DefaultGeminiModel = "gemini-2.5-flash"

// transcriptionPrompt asks only for a faithful transcription; the
// structural extractor does the actual transaction parsing downstream, the
// same as with the document-OCR backend.
const transcriptionPrompt = "Transcribe the attached bank or credit card statement PDF into Markdown.\n" +
	"- Preserve every table as a Markdown or HTML table with its original columns.\n" +
	"- Keep dates, descriptions and amounts exactly as printed, including CR suffixes.\n" +
	"- Do not summarize, categorize, or omit any rows.\n" +
	"- Output the transcription only, with no commentary."

// GeminiClient is an alternative OCR backend that uses Gemini's PDF vision
// support instead of a dedicated document-OCR deployment. It satisfies the
// same Backend contract by wrapping the transcription into the
// pages/markdown response shape.
type GeminiClient struct {
	model string
}

// NewGeminiClient builds a Gemini-backed OCR client. An empty model
// selects DefaultGeminiModel. Credentials come from the genai SDK's
// standard environment configuration.
func NewGeminiClient(model string) *GeminiClient {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiClient{model: model}
}

// Process transcribes the PDF with the vision model.
func (c *GeminiClient) Process(ctx context.Context, pdfBytes []byte) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("Process: create genai client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: transcriptionPrompt},
				{
					InlineData: &genai.Blob{
						MIMEType: "application/pdf",
						Data:     pdfBytes,
					},
				},
			},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("Process: generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("Process: empty response from model")
	}

	return &Response{Pages: []Page{{Markdown: text}}}, nil
}
