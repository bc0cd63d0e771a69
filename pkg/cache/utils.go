package cache

import "fmt"

// GenerateKeyWithParams builds a colon-delimited cache key from a prefix
// and any number of parameters, e.g. "quote:series:AAPL:1min:60".
func GenerateKeyWithParams(prefix string, params ...interface{}) string {
	key := prefix
	for _, param := range params {
		key = fmt.Sprintf("%s:%v", key, param)
	}
	return key
}
