// Package config loads and validates ZeroCoder configuration.
//
// Configuration comes from three layers, later layers winning:
//
//  1. Built-in defaults (see defaults.go)
//  2. An optional YAML file
//  3. Environment variables named ZEROCODER_<SECTION>_<FIELD>, plus the
//     conventional GEMINI_API_KEY, OPENROUTER_API_KEY, LMSTUDIO_URL,
//     LMSTUDIO_MODEL and PORT
//
// A .env file in the working directory can populate the environment before
// loading; see LoadDotEnv.
//
// # Example
//
//	server:
//	  listen_address: "0.0.0.0:3000"
//	engines:
//	  default: gemini
//	  lmstudio:
//	    base_url: "http://localhost:1234/v1/chat/completions"
//	upstream:
//	  stream_timeout: 5m
//	audit:
//	  enabled: true
//	  backend: sqlite
//	  sqlite:
//	    path: data/audit.db
//
// The loaded configuration is kept in a process-wide singleton:
//
//	if err := config.Initialize("config.yaml"); err != nil {
//	    log.Fatal(err)
//	}
//	cfg := config.GetConfig()
package config
