package ecoflow

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
)

// Sign computes the request signature the vendor API expects: merge the
// request params with accessKey/nonce/timestamp, sort the keys byte-wise
// ascending, join as key=value pairs with '&', and HMAC-SHA256 the result
// keyed by the secret key. Lowercase hex output.
//
// The ordering must be bit-exact. The server does not reject a bad
// signature at the HTTP level; it answers 200 with a non-zero code.
func Sign(secretKey, accessKey string, params map[string]string, timestamp int64, nonce string) string {
	merged := make(map[string]string, len(params)+3)
	for k, v := range params {
		merged[k] = v
	}
	merged["accessKey"] = accessKey
	merged["nonce"] = nonce
	merged["timestamp"] = strconv.FormatInt(timestamp, 10)

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+merged[k])
	}
	base := strings.Join(pairs, "&")

	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(base))
	return hex.EncodeToString(mac.Sum(nil))
}
