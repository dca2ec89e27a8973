package ocr

import (
	"fmt"
	"strings"
)

// Response is the document-OCR service payload. Two shapes are supported:
// the pages/markdown shape returned by the document endpoint, and the
// chat-completions shape some deployments fall back to.
type Response struct {
	Pages   []Page   `json:"pages,omitempty"`
	Choices []Choice `json:"choices,omitempty"`
}

// Page is one OCR'd document page.
type Page struct {
	Markdown string `json:"markdown"`
}

// Choice is a chat-completions style response entry.
type Choice struct {
	Message Message `json:"message"`
}

// Message holds the text content of a chat-style OCR response.
type Message struct {
	Content string `json:"content"`
}

// ExtractText flattens an OCR response into plain text. Any shape other
// than pages/markdown or chat choices is a hard failure, as is a response
// with no extractable text.
func ExtractText(resp *Response) (string, error) {
	var text string

	switch {
	case resp.Pages != nil:
		var b strings.Builder
		for _, page := range resp.Pages {
			b.WriteString(page.Markdown)
			b.WriteString("\n")
		}
		text = b.String()
	case len(resp.Choices) > 0:
		text = resp.Choices[0].Message.Content
	default:
		return "", fmt.Errorf("ExtractText: unexpected OCR response format, could not extract text")
	}

	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("ExtractText: OCR could not extract any text from the PDF; " +
			"the file may be empty or in an unsupported format")
	}

	return text, nil
}
