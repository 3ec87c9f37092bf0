package scrape

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mikemajara/ai-chatbot/internal/model"
	"github.com/mikemajara/ai-chatbot/internal/price"
)

// candidate locations of the models list inside a page payload, highest priority first
var payloadPaths = [][]string{
	{"props", "pageProps", "models"},
	{"props", "pageProps", "data", "models"},
	{"pageProps", "models"},
	{"data", "models"},
	{"models"},
}

var idKeys = []string{"id", "slug", "modelId"}

type signalKeys struct {
	flat   []string
	nested []string
}

var (
	imageGenKeys = signalKeys{
		flat:   []string{"pricingImageGen", "imageGen", "image_gen"},
		nested: []string{"imageGen", "image_gen"},
	}
	webSearchKeys = signalKeys{
		flat:   []string{"pricingWebSearch", "webSearch", "web_search"},
		nested: []string{"webSearch", "web_search"},
	}
)

// FromPayload extracts capability records from an untyped JSON value. A payload with an
// unexpected shape yields an empty result carrying an error entry, never a panic.
func FromPayload(payload any) (res model.ScrapeResult) {
	res.Timestamp = time.Now().UTC()
	defer func() {
		if r := recover(); r != nil {
			res.Models = nil
			res.Errorf("payload: malformed structure: %v", r)
		}
	}()

	entries, path := findModelEntries(payload)
	if len(entries) == 0 {
		res.Errorf("payload: no models list found")
		return res
	}

	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		obj, ok := e.value.(map[string]any)
		if !ok {
			res.Errorf("payload: %s[%s] is not an object", path, e.key)
			continue
		}
		id := entryID(obj, e)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			res.Errorf("payload: duplicated model %s", id)
			continue
		}
		seen[id] = struct{}{}
		res.Models = append(res.Models, model.CapabilityRecord{
			ID: id,
			Capability: model.Capability{
				PricingImageGen:  readSignal(obj, imageGenKeys),
				PricingWebSearch: readSignal(obj, webSearchKeys),
			},
		})
	}
	return res
}

type payloadEntry struct {
	key   string
	named bool
	value any
}

// findModelEntries walks payloadPaths in order and returns the first non-empty list.
// An object keyed by model id is accepted as a list too, visited in key order.
func findModelEntries(payload any) ([]payloadEntry, string) {
	for _, path := range payloadPaths {
		node, ok := walk(payload, path)
		if !ok {
			continue
		}
		switch v := node.(type) {
		case []any:
			if len(v) == 0 {
				continue
			}
			entries := make([]payloadEntry, len(v))
			for i, item := range v {
				entries[i] = payloadEntry{key: fmt.Sprint(i), value: item}
			}
			return entries, strings.Join(path, ".")
		case map[string]any:
			if len(v) == 0 {
				continue
			}
			keys := make([]string, 0, len(v))
			for k := range v {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			entries := make([]payloadEntry, len(keys))
			for i, k := range keys {
				entries[i] = payloadEntry{key: k, named: true, value: v[k]}
			}
			return entries, strings.Join(path, ".")
		}
	}
	return nil, ""
}

func walk(node any, path []string) (any, bool) {
	for _, key := range path {
		obj, ok := node.(map[string]any)
		if !ok {
			return nil, false
		}
		node, ok = obj[key]
		if !ok || node == nil {
			return nil, false
		}
	}
	return node, true
}

// entryID resolves a "<provider>/<model>" id for a payload entry. Map keys stand in
// for a missing id field; ids without a provider get one from a provider field or slug prefix.
func entryID(obj map[string]any, e payloadEntry) string {
	id := firstString(obj, idKeys...)
	if id == "" && e.named {
		id = strings.TrimSpace(e.key)
	}
	if id == "" || strings.Contains(id, "/") {
		return id
	}
	if provider := firstString(obj, "provider", "owned_by"); provider != "" {
		return strings.ToLower(provider) + "/" + id
	}
	if provider := providerFromSlug(id); provider != "" {
		return provider + "/" + id
	}
	return id
}

func firstString(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := obj[k].(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return ""
}

// readSignal prefers a flat field over the nested capabilities object.
func readSignal(obj map[string]any, keys signalKeys) *float64 {
	for _, k := range keys.flat {
		if v, ok := obj[k]; ok && v != nil {
			return signalPrice(v)
		}
	}
	caps, ok := obj["capabilities"].(map[string]any)
	if !ok {
		return nil
	}
	for _, k := range keys.nested {
		if v, ok := caps[k]; ok && v != nil {
			return signalPrice(v)
		}
	}
	return nil
}

func signalPrice(v any) *float64 {
	if obj, ok := v.(map[string]any); ok {
		return price.Parse(obj["price"])
	}
	return price.Parse(v)
}
