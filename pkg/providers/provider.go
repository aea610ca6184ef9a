package providers

import (
	"sort"
	"strings"
	"sync"

	"github.com/biswatma/zerocoder/pkg/prompts"
	"github.com/biswatma/zerocoder/pkg/stream"
)

// Adapter builds upstream requests for one engine and decodes its frames.
//
// Adapters hold no per-request state and must be safe for concurrent use.
type Adapter interface {
	// Engine returns the engine this adapter serves.
	Engine() Engine

	// BuildRequest validates req and composes the upstream call.
	// It returns a *MissingCredentialError when a required credential or
	// model is absent.
	BuildRequest(req *GenerationRequest) (*UpstreamRequest, error)

	// DecodeFrame interprets one JSON frame of the engine's response.
	DecodeFrame(raw []byte) (stream.Frame, error)
}

// TemplateSource supplies the active prompt templates.
type TemplateSource interface {
	Current() *prompts.Templates
}

// StaticTemplates is a TemplateSource that always returns the same set.
type StaticTemplates struct {
	Templates *prompts.Templates
}

// Current implements TemplateSource.
func (s StaticTemplates) Current() *prompts.Templates {
	if s.Templates == nil {
		return prompts.Default()
	}
	return s.Templates
}

// Registry maps engine names to adapters.
type Registry struct {
	mu       sync.RWMutex
	adapters map[Engine]Adapter
	def      Engine
}

// NewRegistry creates a registry holding the given adapters.
func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[Engine]Adapter, len(adapters)), def: DefaultEngine}
	for _, a := range adapters {
		r.Register(a)
	}
	return r
}

// Register adds or replaces the adapter for its engine.
func (r *Registry) Register(a Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[a.Engine()] = a
}

// SetDefault changes the engine used for requests that name none.
func (r *Registry) SetDefault(engine Engine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.def = Engine(strings.ToLower(string(engine)))
}

// Default returns the engine used for requests that name none.
func (r *Registry) Default() Engine {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.def
}

// Get returns the adapter for engine. An empty engine selects the default.
func (r *Registry) Get(engine Engine) (Adapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if engine == "" {
		engine = r.def
	}
	engine = Engine(strings.ToLower(string(engine)))

	a, ok := r.adapters[engine]
	if !ok {
		return nil, &UnknownEngineError{Engine: string(engine)}
	}
	return a, nil
}

// Engines returns the registered engine names in sorted order.
func (r *Registry) Engines() []Engine {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Engine, 0, len(r.adapters))
	for e := range r.adapters {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// UserContent composes the user message for req using the given edit
// template. Non-edit requests pass the prompt through unchanged.
func UserContent(req *GenerationRequest, editTemplate string) string {
	if !req.EditMode() {
		return req.Prompt
	}
	return prompts.Render(editTemplate, req.Prompt, req.ExistingDocument)
}
