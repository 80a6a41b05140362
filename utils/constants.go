// File: utils/constants.go
package utils

import "time"

// AuthCachePrefix is the prefix used for Redis authorization cache keys.
const AuthCachePrefix = "auth:"

// AuthCacheTTL is the sliding time-to-live for authorization cache entries.
const AuthCacheTTL = 1 * time.Hour

// TokenTTL is how long an owner dashboard token stays valid.
const TokenTTL = 24 * time.Hour
