// internal/app/system/limits/limits.go
package limits

// Request body size limits for various features.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxUploadFormSize bounds a catalog submission, file included. The
	// largest per-kind file rule is 10 MB; the rest is room for fields.
	MaxUploadFormSize = 12 << 20 // 12 MB

	// MaxFormSize bounds the small urlencoded forms (sign-in, wallet).
	MaxFormSize = 64 << 10 // 64 KB
)
