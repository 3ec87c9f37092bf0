package client

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/net/proxy"
)

const defaultTimeout = 30 * time.Second

var (
	clients    = make(map[string]*http.Client)
	clientLock sync.RWMutex
)

// Get returns a shared http.Client for proxyURL. An empty proxyURL bypasses any proxy.
// Supported schemes: http, https, socks5, socks5h.
func Get(proxyURL string) (*http.Client, error) {
	clientLock.RLock()
	if c, ok := clients[proxyURL]; ok {
		clientLock.RUnlock()
		return c, nil
	}
	clientLock.RUnlock()

	clientLock.Lock()
	defer clientLock.Unlock()

	// Re-check after acquiring write lock.
	if c, ok := clients[proxyURL]; ok {
		return c, nil
	}
	c, err := New(proxyURL)
	if err != nil {
		return nil, err
	}
	clients[proxyURL] = c
	return c, nil
}

// New returns a NEW http.Client every time (no reuse).
func New(proxyURL string) (*http.Client, error) {
	if proxyURL == "" {
		return newHTTPClientNoProxy()
	}
	return newHTTPClientCustomProxy(proxyURL)
}

func clonedDefaultTransport() (*http.Transport, error) {
	transport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		return nil, fmt.Errorf("default transport is not *http.Transport")
	}
	return transport.Clone(), nil
}

func newHTTPClientNoProxy() (*http.Client, error) {
	cloned, err := clonedDefaultTransport()
	if err != nil {
		return nil, err
	}
	cloned.Proxy = nil
	return &http.Client{Transport: cloned, Timeout: defaultTimeout}, nil
}

func newHTTPClientCustomProxy(proxyURLStr string) (*http.Client, error) {
	cloned, err := clonedDefaultTransport()
	if err != nil {
		return nil, err
	}

	proxyURL, err := url.Parse(proxyURLStr)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy url: %w", err)
	}

	switch proxyURL.Scheme {
	case "http", "https":
		cloned.Proxy = http.ProxyURL(proxyURL)
	case "socks5", "socks5h":
		socksDialer, err := proxy.FromURL(proxyURL, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("invalid socks proxy: %w", err)
		}
		cloned.Proxy = nil
		if cd, ok := socksDialer.(proxy.ContextDialer); ok {
			cloned.DialContext = cd.DialContext
		} else {
			cloned.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
				return socksDialer.Dial(network, addr)
			}
		}
	default:
		return nil, fmt.Errorf("unsupported proxy scheme: %s", proxyURL.Scheme)
	}

	return &http.Client{Transport: cloned, Timeout: defaultTimeout}, nil
}
