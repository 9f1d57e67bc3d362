package testkit

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
)

// Run executes every scenario in the file at path, in order.
func Run(t *testing.T, handler http.Handler, path string) {
	t.Helper()

	scenarios, err := LoadScenarios(path)
	if err != nil {
		t.Fatalf("%v", err)
	}
	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			runScenario(t, handler, s)
		})
	}
}

// RunDir runs every *.json scenario file in dir, in file-name order. Each
// file becomes a subtest.
func RunDir(t *testing.T, handler http.Handler, dir string) {
	t.Helper()

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil || len(files) == 0 {
		t.Fatalf("testkit: no scenario files found in %q", dir)
	}
	for _, path := range files {
		if strings.HasSuffix(path, "_req.json") || strings.HasSuffix(path, "_res.json") {
			continue
		}
		t.Run(strings.TrimSuffix(filepath.Base(path), ".json"), func(t *testing.T) {
			Run(t, handler, path)
		})
	}
}

func runScenario(t *testing.T, handler http.Handler, s *Scenario) {
	t.Helper()

	body, err := s.Request()
	if err != nil {
		t.Fatalf("[%s] %v", s.Name, err)
	}
	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}

	req := httptest.NewRequest(strings.ToUpper(s.RequestMethod), s.RequestURL, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range s.Headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	AssertStatusCode(t, s, rec.Code)
	AssertHeaders(t, s, rec.Header())

	expected, err := s.ExpectedResponse()
	if err != nil {
		t.Errorf("[%s] %v", s.Name, err)
		return
	}
	AssertJSONBody(t, s, expected, rec.Body.Bytes())
}
