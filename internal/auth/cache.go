// Copyright (c) 2025 graph-mcp contributors
//
// Licensed under the MIT License. See LICENSE file in the project root for full license information.

// cache.go - Single-flight token cache for On-Behalf-Of exchanges.
//
// Concurrent requests for the same user, resource, and scope set would
// otherwise each pay for an OBO round trip. The cache coalesces them: at
// most one live exchange per (subject, resource, scopes) key, with the
// result shared among waiters and kept until shortly before the token
// expires.
//
// Eviction is explicit: entries are checked against their expiry on every
// read and swept from the map on every write, so a stale token is never
// served. When a waiter's context is cancelled, the in-flight exchange
// continues on a detached context and its result is simply cached for the
// next caller.

package auth

import (
	"context"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/bcperry/graph-mcp/internal/logging"
)

// CachingExchanger wraps another Exchanger with a per-key token cache and
// single-flight request coalescing. Safe for concurrent use.
type CachingExchanger struct {
	inner Exchanger

	mu       sync.Mutex
	tokens   map[string]*ExchangedToken
	inFlight singleflight.Group
}

// NewCachingExchanger wraps inner with caching and single-flight.
func NewCachingExchanger(inner Exchanger) *CachingExchanger {
	return &CachingExchanger{
		inner:  inner,
		tokens: make(map[string]*ExchangedToken),
	}
}

// Exchange returns a cached token for the request's key when one is still
// valid, otherwise performs (or joins) a single exchange for that key.
func (c *CachingExchanger) Exchange(ctx context.Context, req ExchangeRequest) (*ExchangedToken, error) {
	key := cacheKey(req)

	if tok := c.lookup(key); tok != nil {
		logging.AuthLogger.Debug("Token cache hit", "resource", req.Resource, "scopes", req.Scopes)
		return tok, nil
	}

	// DoChan rather than Do: the exchange runs on a detached context so a
	// cancelled caller abandons the wait without killing the exchange for
	// everyone coalesced onto it.
	ch := c.inFlight.DoChan(key, func() (interface{}, error) {
		tok, err := c.inner.Exchange(context.WithoutCancel(ctx), req)
		if err != nil {
			return nil, err
		}
		c.store(key, tok)
		return tok, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			logging.AuthLogger.Debug("Token exchange coalesced with concurrent request",
				"resource", req.Resource, "scopes", req.Scopes)
		}
		return res.Val.(*ExchangedToken), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// lookup returns a live cached token for key, evicting it if expired.
func (c *CachingExchanger) lookup(key string) *ExchangedToken {
	c.mu.Lock()
	defer c.mu.Unlock()

	tok, ok := c.tokens[key]
	if !ok {
		return nil
	}
	if tok.IsExpired() {
		delete(c.tokens, key)
		return nil
	}
	return tok
}

// store caches tok under key and sweeps any entries that have expired.
func (c *CachingExchanger) store(key string, tok *ExchangedToken) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k, t := range c.tokens {
		if t.IsExpired() {
			delete(c.tokens, k)
		}
	}
	c.tokens[key] = tok
}

// Len returns the number of cached entries (expired entries included until
// the next read or write touches them).
func (c *CachingExchanger) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tokens)
}

// cacheKey builds the (subject, resource, scopes) key. The subject comes
// from the assertion's claims; scope order is normalized so equivalent
// requests share an entry. Tokens whose claims cannot be decoded fall back
// to the raw assertion as the subject component, which still isolates users
// from one another.
func cacheKey(req ExchangeRequest) string {
	subject := req.Assertion
	if claims, err := ParseClaims(req.Assertion); err == nil && claims.Subject != "" {
		subject = claims.TenantID + "/" + claims.Subject
	}

	scopes := make([]string, len(req.Scopes))
	for i, s := range req.Scopes {
		scopes[i] = bareScope(s)
	}
	sort.Strings(scopes)

	return subject + "|" + req.Resource + "|" + strings.Join(scopes, " ")
}
