// Package providers adapts upstream LLM APIs to a single request/stream model.
//
// # Overview
//
// Each engine (gemini, lmstudio, openrouter) is served by an Adapter that
// turns a GenerationRequest into an UpstreamRequest: endpoint, headers, JSON
// body and the framing style of the streamed response. Building a request
// performs no I/O, so validation failures surface before any connection is
// made or any stream is opened.
//
// The Client sends UpstreamRequests over a pooled transport and maps non-2xx
// responses to typed errors (AuthError, RateLimitError, ProviderError,
// TimeoutError) carrying the provider's own error text.
//
// # Basic Usage
//
//	registry := providers.NewRegistry(
//	    gemini.NewAdapter(geminiCfg, templates),
//	    lmstudio.NewAdapter(lmCfg, templates),
//	    openrouter.NewAdapter(orCfg, templates),
//	)
//
//	adapter, err := registry.Get(req.Engine)
//	if err != nil {
//	    return err
//	}
//	upstream, err := adapter.BuildRequest(req)
//	if err != nil {
//	    return err // *MissingCredentialError
//	}
//	resp, err := client.Do(ctx, adapter.Engine(), upstream)
//	if err != nil {
//	    return err
//	}
//	defer resp.Body.Close()
//
//	n := &stream.Normalizer{
//	    Provider: string(adapter.Engine()),
//	    Framing:  upstream.Framing,
//	    Decode:   adapter.DecodeFrame,
//	}
//	for ev := range n.Run(ctx, resp.Body) {
//	    // ...
//	}
//
// # Subpackages
//
//   - gemini: JSON-array framed streamGenerateContent API
//   - openai: shared chat-completions payload and delta frame decoding
//   - lmstudio: local OpenAI-compatible inference server
//   - openrouter: OpenAI-compatible model-routing aggregator
package providers
