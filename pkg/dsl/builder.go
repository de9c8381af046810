package dsl

import (
	"github.com/formroute/formroute/internal/validator"
	"github.com/formroute/formroute/pkg/domain"
)

// Builder accumulates a form graph under construction.
type Builder struct {
	graph domain.FormGraph
	seq   int
}

// New creates a builder for a form with the given id.
func New(formID int) *Builder {
	return &Builder{graph: domain.FormGraph{ID: formID}}
}

// Title sets the form title.
func (b *Builder) Title(title string) *Builder {
	b.graph.Title = title
	return b
}

// Secure enables the single-question gateway for this form.
func (b *Builder) Secure() *Builder {
	b.graph.SecureMode = true
	return b
}

// DefaultRedirect sets the fallback completion destination.
func (b *Builder) DefaultRedirect(url string) *Builder {
	b.graph.DefaultRedirect = url
	return b
}

// Question appends a sequential question. Positions follow call order.
func (b *Builder) Question(payload string) *QuestionBuilder {
	b.graph.Questions = append(b.graph.Questions, domain.Question{
		Position: b.seq,
		Payload:  payload,
	})
	b.seq++
	return &QuestionBuilder{builder: b, idx: len(b.graph.Questions) - 1}
}

// Final appends a final screen, reachable only by explicit jump.
func (b *Builder) Final(payload string) *QuestionBuilder {
	b.graph.Questions = append(b.graph.Questions, domain.Question{
		FinalScreen: true,
		Payload:     payload,
	})
	return &QuestionBuilder{builder: b, idx: len(b.graph.Questions) - 1}
}

// Build validates and returns the graph.
func (b *Builder) Build() (*domain.FormGraph, error) {
	graph := b.graph
	if err := validator.ValidateGraph(&graph); err != nil {
		return nil, err
	}
	return &graph, nil
}
