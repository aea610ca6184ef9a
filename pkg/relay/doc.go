// Package relay owns the client-facing Server-Sent Events channel of a
// generation request.
//
// A Session is opened once request validation has passed. From then on every
// outcome, including upstream failures, is reported as a message on the open
// channel and the channel is terminated by exactly one end-of-stream message.
// When the client goes away the session is closed and no further writes are
// attempted.
//
// Pump drives a session from a stream of normalized upstream events:
//
//	session, err := relay.Open(r.Context(), w)
//	if err != nil {
//		return
//	}
//	summary := relay.Pump(r.Context(), session, events, stream.JSONArray)
//	session.End()
package relay
