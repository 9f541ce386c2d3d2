// Package clipboard copies byte selections out of the editor as hex
// text. It prefers the system clipboard and falls back to an internal
// buffer when no system clipboard is reachable (headless sessions,
// missing xclip, and so on).
package clipboard

import (
	"github.com/atotto/clipboard"

	"github.com/bethropolis/ebb/internal/hexutil"
	"github.com/bethropolis/ebb/internal/logger"
)

// Manager handles clipboard operations.
type Manager struct {
	useSystem bool
	internal  string
}

// NewManager creates a manager. useSystem selects the system clipboard;
// the internal buffer is always kept as a fallback.
func NewManager(useSystem bool) *Manager {
	return &Manager{useSystem: useSystem}
}

// CopyBytes formats data as hex pairs and places it on the clipboard.
func (m *Manager) CopyBytes(data []byte) error {
	return m.CopyText(hexutil.Format(data))
}

// CopyText places text on the clipboard.
func (m *Manager) CopyText(text string) error {
	m.internal = text
	if !m.useSystem {
		return nil
	}
	if err := clipboard.WriteAll(text); err != nil {
		logger.Warnf("clipboard: system write failed, keeping internal copy: %v", err)
		return err
	}
	logger.Debugf("clipboard: copied %d characters", len(text))
	return nil
}

// Text returns the clipboard contents, preferring the system clipboard
// when it is in use and readable.
func (m *Manager) Text() string {
	if m.useSystem {
		if text, err := clipboard.ReadAll(); err == nil {
			return text
		}
	}
	return m.internal
}
