package prismic

import (
	"net"
	"net/http"
	"time"
)

const userAgent = "spacetraveling/1.0 (+https://github.com/nDmitry/spacetraveling)"

// newTransport returns the transport shared by every request of a client.
// All traffic goes to a single CDN host, so the idle pool is sized per host.
func newTransport(timeout time.Duration) *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          16,
		MaxIdleConnsPerHost:   16,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: timeout,
	}
}
