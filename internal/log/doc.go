// Package log provides secure logging built on top of the standard slog package.
//
// The SecureHandler sanitizes log output before it reaches the wrapped handler:
//   - attributes named like credentials (cookie, authorization, token, password)
//   - values that look like credentials (JWT, bearer and basic auth, AWS keys)
//   - signature and token query parameters of signed image URLs, so a
//     presigned CDN or S3 URL can be logged without leaking its signature
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Debug("rendering thumbnail",
//	    "url", "https://cdn.example.com/a.jpg?X-Amz-Signature=abc", // signature masked
//	)
package log
