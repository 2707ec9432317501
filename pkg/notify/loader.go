package notify

import "sync"

const defaultLoaderText = "Loading..."

// LoaderState is what a global loading overlay renders.
type LoaderState struct {
	Loading bool
	Text    string
}

// Loader is the process-wide loading indicator.
type Loader struct {
	mu    sync.RWMutex
	state LoaderState
}

func NewLoader() *Loader {
	return &Loader{state: LoaderState{Text: defaultLoaderText}}
}

func (l *Loader) Show(text string) {
	if text == "" {
		text = defaultLoaderText
	}
	l.mu.Lock()
	l.state = LoaderState{Loading: true, Text: text}
	l.mu.Unlock()
}

func (l *Loader) Hide() {
	l.mu.Lock()
	l.state.Loading = false
	l.mu.Unlock()
}

func (l *Loader) SetText(text string) {
	l.mu.Lock()
	l.state.Text = text
	l.mu.Unlock()
}

func (l *Loader) State() LoaderState {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}
