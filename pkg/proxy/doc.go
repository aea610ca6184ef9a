// Package proxy holds the HTTP plumbing shared by the generation endpoint:
// request parsing, JSON and Server-Sent Events response writers, and the
// mapping from typed errors to client-facing messages and status codes.
//
// Handlers live in the handlers subpackage and cross-cutting concerns in
// middleware. Client wire types are defined in types.
package proxy
