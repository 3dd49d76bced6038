package httpapi

// maxBodyBytes bounds request bodies on JSON endpoints.
var maxBodyBytes int64 = 1 << 20

// SetMaxBodyBytes overrides the request body limit. Values <= 0 are ignored.
func SetMaxBodyBytes(n int64) {
	if n <= 0 {
		return
	}
	maxBodyBytes = n
}
