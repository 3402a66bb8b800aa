// Package optimize turns a prompt into LLM-suggested rewrites and explains them.
package optimize

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/HartBrook/promptcraft/internal/errors"
	"github.com/HartBrook/promptcraft/internal/llm"
)

// Kind classifies the outcome of a session transition.
type Kind int

const (
	KindOK Kind = iota
	KindEmptyInput
	KindNoSelection
	KindBackendError
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindEmptyInput:
		return "empty input"
	case KindNoSelection:
		return "no selection"
	case KindBackendError:
		return "backend error"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Outcome is the result of a transition: what happened and the resulting state.
type Outcome struct {
	Kind     Kind
	Message  string // user-facing notice; empty on a silent success
	Err      error  // typed error for every non-OK kind
	Snapshot Snapshot
}

// OK reports whether the transition succeeded.
func (o Outcome) OK() bool {
	return o.Kind == KindOK
}

// Optimizer runs the prompt optimization interaction against a backend.
type Optimizer struct {
	backend llm.Backend
}

// NewOptimizer creates a new optimizer.
func NewOptimizer(backend llm.Backend) *Optimizer {
	return &Optimizer{backend: backend}
}

// Optimize asks the backend for settings.Count rewrites of prompt and replaces
// the session's list with the parsed result. The selection is reset.
// A blank prompt or a backend failure leaves the session untouched.
func (o *Optimizer) Optimize(ctx context.Context, sess *Session, prompt string, settings Settings) Outcome {
	if strings.TrimSpace(prompt) == "" {
		return notice(KindEmptyInput, errors.EmptyInput(), sess)
	}

	raw, err := o.backend.Complete(ctx, llm.Request{
		Model:       settings.Model,
		Temperature: settings.Temperature,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: buildSystemPrompt(settings.Count)},
			{Role: llm.RoleUser, Content: prompt},
		},
	})
	if err != nil {
		return failure("generating prompts", err, sess)
	}

	prompts := ParsePrompts(raw)
	sess.replacePrompts(prompt, settings, prompts)

	return Outcome{
		Kind:     KindOK,
		Message:  fmt.Sprintf("Generated %d optimized prompts", len(prompts)),
		Snapshot: sess.Snapshot(),
	}
}

// Select makes candidate the selected prompt. The empty string and
// Placeholder clear the selection. A candidate that is not in the current
// list leaves the session unselected.
func (o *Optimizer) Select(sess *Session, candidate string) Outcome {
	if candidate == "" || candidate == Placeholder {
		sess.clearSelection()
		return Outcome{Kind: KindOK, Snapshot: sess.Snapshot()}
	}

	if !slices.Contains(sess.state.Prompts, candidate) {
		sess.clearSelection()
		out := notice(KindNoSelection, errors.NoSelection(), sess)
		out.Message = "That prompt is not one of the current optimized prompts."
		return out
	}

	sess.selectPrompt(candidate)
	return Outcome{Kind: KindOK, Snapshot: sess.Snapshot()}
}

// SelectIndex selects the n-th (1-based) optimized prompt. Zero clears the selection.
func (o *Optimizer) SelectIndex(sess *Session, n int) Outcome {
	if n == 0 {
		return o.Select(sess, "")
	}
	if n < 0 || n > len(sess.state.Prompts) {
		sess.clearSelection()
		out := notice(KindNoSelection, errors.NoSelection(), sess)
		if len(sess.state.Prompts) == 0 {
			out.Message = "There are no optimized prompts yet."
		} else {
			out.Message = fmt.Sprintf("There is no prompt #%d; choose 1-%d.", n, len(sess.state.Prompts))
		}
		return out
	}
	return o.Select(sess, sess.state.Prompts[n-1])
}

// Explain asks the backend why the selected prompt improves on original.
// An empty original or model falls back to the session's values. The
// temperature is always ExplainTemperature.
func (o *Optimizer) Explain(ctx context.Context, sess *Session, original, model string) Outcome {
	if !sess.state.HasSelection() {
		return notice(KindNoSelection, errors.NoSelection(), sess)
	}

	if original == "" {
		original = sess.state.OriginalPrompt
	}
	if model == "" {
		model = sess.state.Settings.Model
	}

	text, err := o.backend.Complete(ctx, llm.Request{
		Model:       model,
		Temperature: ExplainTemperature,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: explainSystemPrompt},
			{Role: llm.RoleUser, Content: buildExplainPrompt(original, sess.state.Selected)},
		},
	})
	if err != nil {
		return failure("generating explanation", err, sess)
	}

	sess.setExplanation(text)
	return Outcome{Kind: KindOK, Snapshot: sess.Snapshot()}
}

func notice(kind Kind, err *errors.PromptcraftError, sess *Session) Outcome {
	return Outcome{
		Kind:     kind,
		Message:  err.Message,
		Err:      err,
		Snapshot: sess.Snapshot(),
	}
}

func failure(action string, cause error, sess *Session) Outcome {
	return Outcome{
		Kind:     KindBackendError,
		Message:  fmt.Sprintf("Error %s: %v", action, cause),
		Err:      errors.BackendFailed(action, cause),
		Snapshot: sess.Snapshot(),
	}
}
