package customHttpClient

import (
	"net/http"
	"sync"

	"github.com/akolanti/DocQuery/internal/config"
)

var (
	once   sync.Once
	client *http.Client
)

// Shared returns one pooled client for every outbound provider so connections
// to the model APIs are reused between asks.
func Shared() *http.Client {
	once.Do(func() {
		client = &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        config.MaxIdleConns,
				MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
				IdleConnTimeout:     config.IdleConnTimeout,
			},
			Timeout: config.AnalysisTimeout,
		}
	})
	return client
}
