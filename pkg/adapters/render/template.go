// Package render implements ports.Renderer with Go text templates, so
// question payloads can reference session variables ("Hello {{ .name }}").
package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/formroute/formroute/pkg/domain"
)

// TemplateRenderer interpolates session variables into question payloads.
// Payloads without template markers pass through untouched.
type TemplateRenderer struct{}

func New() *TemplateRenderer {
	return &TemplateRenderer{}
}

func (r *TemplateRenderer) RenderQuestion(ctx context.Context, q domain.Question, vars domain.Variables) (any, error) {
	text := q.Payload
	if !strings.Contains(text, "{{") {
		return text, nil
	}

	tmpl, err := template.New("payload").Option("missingkey=zero").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse payload template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]any(vars)); err != nil {
		return nil, fmt.Errorf("render payload: %w", err)
	}
	return buf.String(), nil
}
