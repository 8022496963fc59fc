package prompt

import (
	"errors"
	"os"
	"strings"

	"docqa/internal/domain"
)

// Placeholders substituted by Render.
const (
	ContextPlaceholder  = "{context}"
	QuestionPlaceholder = "{question}"
)

// DefaultTemplate restricts the model to the retrieved context and asks for
// source URLs alongside a concise answer.
const DefaultTemplate = `
You are an product assistant for Airbyte. Answer the question based on the context. 

To ensure accuracy, rely solely on the given context without speculation or prior knowledge.
Only use the provided context and do not guess. Be concise. 

Offer an informative response with accompanying URLs for deeper insights.
S3 context for this question:
{context}

Question: {question}

Please provide a helpful answer along one or more URLs that would be helpful for finding additional information:
`

// Template formats retrieved context and a question into one instruction block.
type Template struct {
	text string
}

// Default returns the built-in template.
func Default() *Template { return &Template{text: DefaultTemplate} }

// Parse validates text and returns a template. Both placeholders must appear.
func Parse(text string) (*Template, error) {
	if !strings.Contains(text, ContextPlaceholder) {
		return nil, errors.New("prompt template is missing " + ContextPlaceholder)
	}
	if !strings.Contains(text, QuestionPlaceholder) {
		return nil, errors.New("prompt template is missing " + QuestionPlaceholder)
	}
	return &Template{text: text}, nil
}

// Load reads a template file. An empty path yields the default template.
func Load(path string) (*Template, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(string(data))
}

// Render substitutes the placeholders in a single pass; substituted text is
// not scanned again.
func (t *Template) Render(context, question string) string {
	r := strings.NewReplacer(ContextPlaceholder, context, QuestionPlaceholder, question)
	return r.Replace(t.text)
}

// String returns the raw template text.
func (t *Template) String() string { return t.text }

// JoinContext concatenates chunk texts in retrieval order.
func JoinContext(results []domain.SearchResult, sep string) string {
	texts := make([]string, 0, len(results))
	for _, r := range results {
		texts = append(texts, r.Chunk.Text)
	}
	return strings.Join(texts, sep)
}
