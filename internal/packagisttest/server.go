// Package packagisttest serves fake Composer repository metadata for tests.
package packagisttest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
)

// Release is one published version of a fake package.
type Release struct {
	Version string
	Require map[string]string
}

// Repo describes the repository content.
type Repo struct {
	// Packages maps package names to releases, newest first.
	Packages map[string][]Release

	// LegacyOnly serves only the v1 API and omits metadata-url.
	LegacyOnly bool

	// Minify serves v2 lists in composer/2.0 minified form.
	Minify bool
}

// Server is a running fake repository.
type Server struct {
	*httptest.Server
	hits atomic.Int64
}

// NewServer starts a fake repository. Callers must Close it.
func NewServer(repo Repo) *Server {
	s := &Server{}
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			s.hits.Add(1)
			next.ServeHTTP(w, req)
		})
	})

	r.Get("/packages.json", func(w http.ResponseWriter, _ *http.Request) {
		body := map[string]any{"packages": []any{}}
		if repo.LegacyOnly {
			body["providers-url"] = "/p/%package%$%hash%.json"
		} else {
			body["metadata-url"] = "/p2/%package%.json"
		}
		writeJSON(w, body)
	})

	r.Get("/p2/{vendor}/{file}", func(w http.ResponseWriter, req *http.Request) {
		name, releases, ok := lookup(repo, req)
		if !ok || repo.LegacyOnly {
			http.NotFound(w, req)
			return
		}
		entries := make([]map[string]any, 0, len(releases))
		for _, rel := range releases {
			entries = append(entries, entry(name, rel))
		}
		body := map[string]any{"packages": map[string]any{name: entries}}
		if repo.Minify {
			body["packages"] = map[string]any{name: minify(entries)}
			body["minified"] = "composer/2.0"
		}
		writeJSON(w, body)
	})

	r.Get("/p/{vendor}/{file}", func(w http.ResponseWriter, req *http.Request) {
		name, releases, ok := lookup(repo, req)
		if !ok {
			http.NotFound(w, req)
			return
		}
		byVersion := make(map[string]any, len(releases))
		for _, rel := range releases {
			byVersion[rel.Version] = entry(name, rel)
		}
		writeJSON(w, map[string]any{"packages": map[string]any{name: byVersion}})
	})

	s.Server = httptest.NewServer(r)
	return s
}

// Hits returns the number of requests served so far.
func (s *Server) Hits() int64 { return s.hits.Load() }

func lookup(repo Repo, req *http.Request) (string, []Release, bool) {
	file := chi.URLParam(req, "file")
	if !strings.HasSuffix(file, ".json") {
		return "", nil, false
	}
	name := chi.URLParam(req, "vendor") + "/" + strings.TrimSuffix(file, ".json")
	releases, ok := repo.Packages[name]
	return name, releases, ok
}

func entry(name string, rel Release) map[string]any {
	e := map[string]any{
		"name":               name,
		"version":            rel.Version,
		"version_normalized": strings.TrimPrefix(rel.Version, "v") + ".0",
	}
	if rel.Require != nil {
		e["require"] = rel.Require
	}
	return e
}

// minify keeps the first entry whole and only the changed keys of the
// following ones, marking removed keys with "__unset".
func minify(entries []map[string]any) []map[string]any {
	out := make([]map[string]any, 0, len(entries))
	var prev map[string]any
	for _, e := range entries {
		if prev == nil {
			out = append(out, e)
			prev = e
			continue
		}
		diff := map[string]any{}
		for k, v := range e {
			pv, ok := prev[k]
			if !ok || !sameJSON(pv, v) {
				diff[k] = v
			}
		}
		for k := range prev {
			if _, ok := e[k]; !ok {
				diff[k] = "__unset"
			}
		}
		out = append(out, diff)
		prev = e
	}
	return out
}

func sameJSON(a, b any) bool {
	ja, _ := json.Marshal(a)
	jb, _ := json.Marshal(b)
	return string(ja) == string(jb)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
