package utils

// MaskAPIKey masks the API key for display, keeping enough of both ends to tell keys apart
func MaskAPIKey(key string) string {
	if len(key) <= 12 {
		return "****"
	}
	return key[:8] + "..." + key[len(key)-4:]
}
