package customHttpClient

import (
	"net"
	"net/http"
	"sync"

	"github.com/akolanti/DocQA/internal/config"
)

var (
	once   sync.Once
	client *http.Client
)

// GetClient returns the process-wide pooled client shared by the genai and openai SDKs.
// Per-call deadlines come from the caller's context.
func GetClient() *http.Client {
	once.Do(func() {
		client = &http.Client{Transport: newTransport()}
	})
	return client
}

func newTransport() *http.Transport {
	return &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        config.MaxIdleConns,
		MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
		IdleConnTimeout:     config.IdleConnTimeout,
		DialContext: (&net.Dialer{
			Timeout:   config.DialTimeout,
			KeepAlive: config.KeepAlive,
		}).DialContext,
		TLSHandshakeTimeout:   config.TLSHandshakeTimeout,
		ExpectContinueTimeout: config.ExpectContinueTimeout,
	}
}
