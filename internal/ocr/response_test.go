package ocr

import (
	"strings"
	"testing"
)

func TestExtractText(t *testing.T) {
	tests := []struct {
		name    string
		resp    *Response
		want    string
		wantErr bool
	}{
		{
			name: "pages concatenated with newlines",
			resp: &Response{Pages: []Page{{Markdown: "page one"}, {Markdown: "page two"}}},
			want: "page one\npage two\n",
		},
		{
			name: "chat choices shape",
			resp: &Response{Choices: []Choice{{Message: Message{Content: "transcribed text"}}}},
			want: "transcribed text",
		},
		{
			name: "pages take precedence over choices",
			resp: &Response{
				Pages:   []Page{{Markdown: "from pages"}},
				Choices: []Choice{{Message: Message{Content: "from choices"}}},
			},
			want: "from pages\n",
		},
		{
			name:    "neither shape",
			resp:    &Response{},
			wantErr: true,
		},
		{
			name:    "pages present but empty text",
			resp:    &Response{Pages: []Page{{Markdown: "   "}}},
			wantErr: true,
		},
		{
			name:    "choices with empty content",
			resp:    &Response{Choices: []Choice{{Message: Message{Content: ""}}}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractText(tt.resp)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractText: %v", err)
			}
			if got != tt.want {
				t.Errorf("ExtractText = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractText_ErrorNamesTheProblem(t *testing.T) {
	_, err := ExtractText(&Response{})
	if err == nil || !strings.Contains(err.Error(), "unexpected OCR response format") {
		t.Errorf("err = %v", err)
	}
}
