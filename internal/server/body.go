package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

const maxBodyBytes = 1 << 20

// decodeBody reads a JSON or form-encoded request body into a generic map.
// Form keys in bracket notation (leads[add][0][id]) become nested values.
// An empty body decodes to an empty map.
func decodeBody(r *http.Request) (map[string]any, error) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, eris.Wrap(err, "server: read body")
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]any{}, nil
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		values, err := url.ParseQuery(string(raw))
		if err != nil {
			return nil, eris.Wrap(err, "server: parse form body")
		}
		return formToMap(values), nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var body map[string]any
	if err := dec.Decode(&body); err != nil {
		return nil, eris.Wrap(err, "server: decode json body")
	}
	if body == nil {
		body = map[string]any{}
	}
	return body, nil
}

// formToMap expands bracketed form keys into nested maps. Maps whose keys
// are all indexes are then turned into slices.
func formToMap(values url.Values) map[string]any {
	root := map[string]any{}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		vals := values[key]
		var v any = vals[len(vals)-1]
		if len(vals) > 1 {
			list := make([]any, len(vals))
			for i, s := range vals {
				list[i] = s
			}
			v = list
		}
		setPath(root, splitKey(key), v)
	}
	for k, child := range root {
		root[k] = listify(child)
	}
	return root
}

// splitKey turns "a[b][0]" into ["a", "b", "0"]. A trailing "[]" is dropped.
func splitKey(key string) []string {
	i := strings.IndexByte(key, '[')
	if i < 0 {
		return []string{key}
	}
	parts := []string{key[:i]}
	rest := key[i:]
	for strings.HasPrefix(rest, "[") {
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			break
		}
		if seg := rest[1:end]; seg != "" {
			parts = append(parts, seg)
		}
		rest = rest[end+1:]
	}
	return parts
}

func setPath(m map[string]any, path []string, v any) {
	for _, p := range path[:len(path)-1] {
		next, ok := m[p].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[p] = next
		}
		m = next
	}
	m[path[len(path)-1]] = v
}

func listify(v any) any {
	m, ok := v.(map[string]any)
	if !ok {
		return v
	}
	for k, child := range m {
		m[k] = listify(child)
	}
	if len(m) == 0 {
		return m
	}

	type indexed struct {
		n   int
		key string
	}
	idx := make([]indexed, 0, len(m))
	for k := range m {
		n, err := strconv.Atoi(k)
		if err != nil || n < 0 {
			return m
		}
		idx = append(idx, indexed{n, k})
	}
	sort.Slice(idx, func(i, j int) bool { return idx[i].n < idx[j].n })
	out := make([]any, 0, len(idx))
	for _, e := range idx {
		out = append(out, m[e.key])
	}
	return out
}
