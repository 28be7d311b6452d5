package uploads

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Credential is a signed, time-boxed grant for direct client-to-Cloudinary
// image upload. The API secret never leaves the server; the client sends
// the signature alongside the signed params.
type Credential struct {
	CloudName string `json:"cloud_name"`
	APIKey    string `json:"api_key"`
	Timestamp int64  `json:"timestamp"`
	Folder    string `json:"folder"`
	Signature string `json:"signature"`
}

type Signer struct {
	cloudName string
	apiKey    string
	apiSecret string
	folder    string
}

func NewSigner(cloudName, apiKey, apiSecret, folder string) *Signer {
	return &Signer{
		cloudName: cloudName,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		folder:    folder,
	}
}

func (s *Signer) Configured() bool {
	return s.cloudName != "" && s.apiKey != "" && s.apiSecret != ""
}

func (s *Signer) SignUpload(now time.Time) Credential {
	ts := now.Unix()
	params := map[string]string{
		"folder":    s.folder,
		"timestamp": fmt.Sprintf("%d", ts),
	}

	return Credential{
		CloudName: s.cloudName,
		APIKey:    s.apiKey,
		Timestamp: ts,
		Folder:    s.folder,
		Signature: sign(params, s.apiSecret),
	}
}

// sign implements Cloudinary's upload signature: params sorted by key,
// serialized as key=value joined with &, with the API secret appended,
// then SHA-1 hex.
func sign(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}
