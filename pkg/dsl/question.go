package dsl

import (
	"strconv"

	"github.com/formroute/formroute/pkg/domain"
)

// QuestionBuilder configures the question appended last. It forwards the
// Builder methods so chains can move on to the next question directly.
type QuestionBuilder struct {
	builder *Builder
	idx     int
}

func (q *QuestionBuilder) question() *domain.Question {
	return &q.builder.graph.Questions[q.idx]
}

// ID assigns the persistent id.
func (q *QuestionBuilder) ID(id int) *QuestionBuilder {
	q.question().ID = id
	return q
}

// TempID assigns a temporary id for graphs headed into a save.
func (q *QuestionBuilder) TempID(id string) *QuestionBuilder {
	q.question().TempID = id
	return q
}

// Position overrides the automatic sequential position.
func (q *QuestionBuilder) Position(p int) *QuestionBuilder {
	q.question().Position = p
	return q
}

// Required marks the question as mandatory.
func (q *QuestionBuilder) Required() *QuestionBuilder {
	q.question().Required = true
	return q
}

// When starts a rule on this question. Rule order follows call order.
func (q *QuestionBuilder) When(test domain.ConditionType, value string) *RuleBuilder {
	return &RuleBuilder{
		q: q,
		cond: domain.Condition{
			Position: len(q.question().Conditions),
			Type:     test,
			Value:    value,
		},
	}
}

// Question starts the next sequential question.
func (q *QuestionBuilder) Question(payload string) *QuestionBuilder {
	return q.builder.Question(payload)
}

// Final starts a final screen.
func (q *QuestionBuilder) Final(payload string) *QuestionBuilder {
	return q.builder.Final(payload)
}

// Build finishes the graph.
func (q *QuestionBuilder) Build() (*domain.FormGraph, error) {
	return q.builder.Build()
}

// RuleBuilder picks the action that completes a rule. Every action
// method appends the rule and returns to the question chain.
type RuleBuilder struct {
	q    *QuestionBuilder
	cond domain.Condition
}

// Compare sets the operand for variable tests.
func (r *RuleBuilder) Compare(operand string) *RuleBuilder {
	r.cond.ComparisonValue = operand
	return r
}

// Goto jumps to the question with the given persistent id.
func (r *RuleBuilder) Goto(questionID int) *QuestionBuilder {
	r.cond.Action = domain.ActionGotoQuestion
	r.cond.ActionValue = strconv.Itoa(questionID)
	return r.done()
}

// GotoTemp jumps to a question identified by temporary id.
func (r *RuleBuilder) GotoTemp(tempID string) *QuestionBuilder {
	r.cond.Action = domain.ActionGotoQuestion
	r.cond.ActionValue = tempID
	return r.done()
}

// SkipToEnd terminates the form.
func (r *RuleBuilder) SkipToEnd() *QuestionBuilder {
	r.cond.Action = domain.ActionSkipToEnd
	return r.done()
}

// Redirect sends the respondent to an external URL.
func (r *RuleBuilder) Redirect(url string) *QuestionBuilder {
	r.cond.Action = domain.ActionRedirectURL
	r.cond.ActionValue = url
	return r.done()
}

// Add increments a numeric variable by amount.
func (r *RuleBuilder) Add(variable string, amount int) *QuestionBuilder {
	r.cond.Action = domain.ActionAddVariable
	r.cond.ActionValue = variable
	r.cond.Amount = amount
	return r.done()
}

// Set assigns a variable.
func (r *RuleBuilder) Set(variable, value string) *QuestionBuilder {
	r.cond.Action = domain.ActionSetVariable
	r.cond.ActionValue = variable
	r.cond.ComparisonValue = value
	return r.done()
}

// Message shows a message without affecting navigation.
func (r *RuleBuilder) Message(text string) *QuestionBuilder {
	r.cond.Action = domain.ActionShowMessage
	r.cond.ActionValue = text
	return r.done()
}

func (r *RuleBuilder) done() *QuestionBuilder {
	q := r.q.question()
	q.Conditions = append(q.Conditions, r.cond)
	return r.q
}
