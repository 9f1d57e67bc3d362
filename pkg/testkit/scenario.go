// Package testkit drives HTTP API tests from JSON scenario files.
//
// A scenario file holds one scenario object or an array of them. Scenarios in
// a file run in order against the same handler, so later steps see the state
// earlier ones created:
//
//	testdata/
//	  donations.json
//	  registration_missing_fields.json
//	  big_payload_req.json       ← optional body file
//
//	func TestAPI(t *testing.T) {
//	    testkit.RunDir(t, kernel.Handler(), "testdata")
//	}
package testkit

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Match modes for the expected response body.
const (
	MatchExact  = "exact"
	MatchSubset = "subset" // only keys present in the expected body are compared
)

// Scenario describes one request and the response it must produce.
type Scenario struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	RequestMethod   string            `json:"requestMethod"` // default GET
	RequestURL      string            `json:"requestUrl"`
	Headers         map[string]string `json:"headers"`
	RequestBody     json.RawMessage   `json:"requestBody"`
	RequestFileName string            `json:"requestFileName"` // relative to the scenario file

	ExpectedCode     int               `json:"expectedCode"`
	ExpectedHeaders  map[string]string `json:"expectedHeaders"`
	ResponseBody     json.RawMessage   `json:"responseBody"`
	ResponseFileName string            `json:"responseFileName"`
	ResponseMatch    string            `json:"responseMatch"` // exact | subset

	dir string
}

// LoadScenarios reads the scenario object or array stored at path.
func LoadScenarios(path string) ([]*Scenario, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("testkit: resolve path %q: %w", path, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("testkit: read %q: %w", abs, err)
	}

	var scenarios []*Scenario
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		err = json.Unmarshal(trimmed, &scenarios)
	} else {
		var s Scenario
		err = json.Unmarshal(data, &s)
		scenarios = []*Scenario{&s}
	}
	if err != nil {
		return nil, fmt.Errorf("testkit: parse %q: %w", abs, err)
	}

	for i, s := range scenarios {
		if err := s.validate(); err != nil {
			return nil, fmt.Errorf("testkit: invalid scenario %q[%d]: %w", abs, i, err)
		}
		s.dir = filepath.Dir(abs)
	}
	return scenarios, nil
}

func (s *Scenario) validate() error {
	switch {
	case s.Name == "":
		return errors.New("name is required")
	case s.RequestURL == "":
		return errors.New("requestUrl is required")
	case s.ExpectedCode == 0:
		return errors.New("expectedCode is required")
	case len(s.RequestBody) > 0 && s.RequestFileName != "":
		return errors.New("requestBody and requestFileName are exclusive")
	case len(s.ResponseBody) > 0 && s.ResponseFileName != "":
		return errors.New("responseBody and responseFileName are exclusive")
	}
	if s.RequestMethod == "" {
		s.RequestMethod = "GET"
	}
	switch s.ResponseMatch {
	case "":
		s.ResponseMatch = MatchExact
	case MatchExact, MatchSubset:
	default:
		return fmt.Errorf("unknown responseMatch %q", s.ResponseMatch)
	}
	return nil
}

// Request returns the request body, or nil when the scenario sends none.
func (s *Scenario) Request() ([]byte, error) {
	if len(s.RequestBody) > 0 {
		return s.RequestBody, nil
	}
	return s.readFile(s.RequestFileName)
}

// ExpectedResponse returns the expected body, or nil when it is not checked.
func (s *Scenario) ExpectedResponse() ([]byte, error) {
	if len(s.ResponseBody) > 0 {
		return s.ResponseBody, nil
	}
	return s.readFile(s.ResponseFileName)
}

func (s *Scenario) readFile(name string) ([]byte, error) {
	if name == "" {
		return nil, nil
	}
	if !filepath.IsAbs(name) {
		name = filepath.Join(s.dir, name)
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("testkit: read %q: %w", name, err)
	}
	return data, nil
}
