// Package remote implements the UserDirectory and BookCatalog ports over the
// sibling services' HTTP APIs. Adapters only translate transport; the
// coordinator owns every ordering and compensation decision.
package remote

import (
	"fmt"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// newHTTPClient builds the bounded-timeout client shared by both adapters.
// The timeout caps every remote call; an expired call is indistinguishable
// from an unreachable upstream and is treated the same way.
func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

func unexpectedStatus(service string, res *http.Response) error {
	return fmt.Errorf("%s service returned status %d", service, res.StatusCode)
}
