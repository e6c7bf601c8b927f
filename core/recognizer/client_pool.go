package recognizer

import (
	"net/http"
	"net/url"
	"sync"
	"time"
)

// clientPool caches one http.Client per proxy endpoint so connections are
// reused across segments instead of redialing per request.
type clientPool struct {
	mu      sync.Mutex
	clients map[string]*http.Client
}

func (p *clientPool) get(proxy *url.URL, timeout time.Duration) *http.Client {
	key := proxyLabel(proxy)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.clients == nil {
		p.clients = make(map[string]*http.Client)
	}
	if c, ok := p.clients[key]; ok {
		return c
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if proxy != nil {
		transport.Proxy = http.ProxyURL(proxy)
	}
	c := &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
	p.clients[key] = c
	return c
}
