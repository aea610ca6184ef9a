// Package openai holds the chat-completions wire types shared by
// OpenAI-compatible engines.
//
// Requests are built with NewChatRequest and always ask for a streamed
// response. Streamed responses are "data: " records, each a ChatDeltaFrame,
// terminated by "data: [DONE]". DecodeFrame converts one record into a
// stream.Frame.
package openai
