package cache

import "fmt"

func AnalysisKey(provider, fingerprint string) string {
	return fmt.Sprintf("analysis:%s:%s", provider, fingerprint)
}

func RateLimitKey(client string) string {
	return fmt.Sprintf("ratelimit:%s", client)
}
