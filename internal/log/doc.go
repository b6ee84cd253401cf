// Package log provides logging with automatic sanitization of sensitive
// values, built on top of the standard slog package.
//
// Page captures record the URLs of every request a page made, and those
// URLs routinely carry session tokens, API keys, and credentials in query
// strings or userinfo. Because the analyzer logs resource URLs at debug
// level, raw log output could leak whatever the captured page leaked.
//
// This package extends slog to provide:
//   - Sanitization of URL values (userinfo stripped, sensitive query
//     parameters masked, the rest of the URL kept readable)
//   - Masking of attributes whose keys indicate secrets (cookies, tokens)
//   - Masking of values that look like credentials regardless of key
//   - Configurable log levels with verbose mode support
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//
//	logger.Debug("resource matched",
//	    "url", "https://user:pw@cdn.example/app.js?token=abc",
//	    // Logged as "https://cdn.example/app.js?token=redacted"
//	)
//
//	slog.SetDefault(logger)
package log
