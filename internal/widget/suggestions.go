package widget

import (
	"context"
	"time"
)

// Suggestion returns the suggested question currently displayed while closed.
func (w *Widget) Suggestion() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.suggestion
}

// RefreshSuggestion draws a new suggestion uniformly from the fixed list.
func (w *Widget) RefreshSuggestion() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pickSuggestionLocked()
	return w.suggestion
}

// RotateSuggestions refreshes the suggestion every interval while the panel
// is closed, until ctx is done. onChange, when non-nil, receives each new suggestion.
func (w *Widget) RotateSuggestions(ctx context.Context, interval time.Duration, onChange func(string)) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if w.IsOpen() {
				continue
			}
			next := w.RefreshSuggestion()
			if onChange != nil {
				onChange(next)
			}
		}
	}
}

func (w *Widget) pickSuggestionLocked() {
	if len(w.suggestions) == 0 {
		w.suggestion = ""
		return
	}
	w.suggestion = w.suggestions[w.rng.Intn(len(w.suggestions))]
}
