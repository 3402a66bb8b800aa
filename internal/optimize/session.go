package optimize

import (
	"math"
	"slices"
)

// Placeholder is the "no selection" entry shown before the optimized prompts.
const Placeholder = "⬜️ Select a prompt"

// Settings are the user's generation parameters.
type Settings struct {
	Model       string
	Temperature float64 // 0.0–2.0, step 0.1
	Count       int     // 1–10
}

// RoundTemperature snaps t to the 0.1 step used by every input surface.
func RoundTemperature(t float64) float64 {
	return math.Round(t*10) / 10
}

// Snapshot is an immutable view of a session after a transition.
type Snapshot struct {
	OriginalPrompt string
	Settings       Settings
	Prompts        []string
	Selected       string // empty when nothing is selected
	Explanation    string
}

// HasSelection reports whether a prompt is selected.
func (s Snapshot) HasSelection() bool {
	return s.Selected != ""
}

// SelectedIndex returns the 1-based index of the selected prompt, or 0.
func (s Snapshot) SelectedIndex() int {
	if !s.HasSelection() {
		return 0
	}
	return slices.Index(s.Prompts, s.Selected) + 1
}

// Comparison returns the comparison table for the current prompts.
func (s Snapshot) Comparison() []Row {
	return Compare(s.Prompts)
}

// Stats compares the token size of the original and the selected prompt.
func (s Snapshot) Stats() TokenStats {
	return TokenStats{Before: CountTokens(s.OriginalPrompt), After: CountTokens(s.Selected)}
}

// Session holds the state of one user interaction session.
// It is not safe for concurrent use; callers serialize actions on a session.
type Session struct {
	state Snapshot
}

// NewSession creates an empty session with the given default settings.
func NewSession(settings Settings) *Session {
	return &Session{state: Snapshot{Settings: settings}}
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	snap := s.state
	snap.Prompts = slices.Clone(s.state.Prompts)
	return snap
}

// SetSettings replaces the generation settings without touching prompts or selection.
func (s *Session) SetSettings(settings Settings) {
	s.state.Settings = settings
}

// replacePrompts installs a freshly parsed list and resets the selection.
func (s *Session) replacePrompts(original string, settings Settings, prompts []string) {
	s.state.OriginalPrompt = original
	s.state.Settings = settings
	s.state.Prompts = prompts
	s.state.Selected = ""
	s.state.Explanation = ""
}

// selectPrompt sets the selection. The caller guarantees membership.
func (s *Session) selectPrompt(prompt string) {
	if s.state.Selected != prompt {
		s.state.Explanation = ""
	}
	s.state.Selected = prompt
}

func (s *Session) clearSelection() {
	s.state.Selected = ""
	s.state.Explanation = ""
}

func (s *Session) setExplanation(text string) {
	s.state.Explanation = text
}
