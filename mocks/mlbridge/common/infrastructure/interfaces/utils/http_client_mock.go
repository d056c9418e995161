package utils

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
)

type HttpResponseData struct {
	Method     string
	Body       interface{}
	StatusCode int
	err        error
}

type RecordedRequest struct {
	Method      string
	Path        string
	ContentType string
	Body        string
}

// MockClient serves registered responses by method and URL path. Several registrations on the
// same method and path are served in order, the last one repeats.
type MockClient struct {
	mu          sync.Mutex
	Url2BodyMap map[string][]HttpResponseData
	served      map[string]int
	Requests    []RecordedRequest
}

func NewMockClient() *MockClient {
	return &MockClient{
		Url2BodyMap: make(map[string][]HttpResponseData),
		served:      make(map[string]int),
	}
}

func mockKey(method string, path string) string {
	return method + " " + path
}

// Do is the mock client's `Do` func
func (m *MockClient) Do(req *http.Request) (*http.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	recorded := RecordedRequest{Method: req.Method, Path: req.URL.Path, ContentType: req.Header.Get("Content-Type")}
	if req.Body != nil {
		b, _ := io.ReadAll(req.Body)
		recorded.Body = string(b)
	}
	m.Requests = append(m.Requests, recorded)

	key := mockKey(req.Method, req.URL.Path)
	responses, ok := m.Url2BodyMap[key]
	if !ok || len(responses) == 0 {
		return &http.Response{
			StatusCode: http.StatusNotFound,
			Body:       io.NopCloser(strings.NewReader("")),
		}, nil
	}
	index := m.served[key]
	if index >= len(responses) {
		index = len(responses) - 1
	}
	m.served[key]++
	responseData := responses[index]
	if responseData.err != nil {
		return nil, responseData.err
	}

	var bodyBytes []byte
	switch body := responseData.Body.(type) {
	case nil:
	case string:
		bodyBytes = []byte(body)
	case []byte:
		bodyBytes = body
	default:
		var err error
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return nil, err
		}
	}
	return &http.Response{
		StatusCode: responseData.StatusCode,
		Body:       io.NopCloser(bytes.NewReader(bodyBytes)),
	}, nil
}

/*
Parameters are based on the order so we can provide variable parameters, other values are defaulted
parameters: body to be returned, httpstatus to be returned (default 200), error (default nil)
*/
func (m *MockClient) RegisterExternalMockRestCall(urlToMatch string, method string, responseData ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()

	httpResponseData := HttpResponseData{
		StatusCode: http.StatusOK,
		Method:     method,
	}
	for index, val := range responseData {
		switch index {
		case 0:
			httpResponseData.Body = val
		case 1:
			httpResponseData.StatusCode, _ = val.(int)
		case 2:
			httpResponseData.err, _ = val.(error)
		}
	}

	path := urlToMatch
	if strings.HasPrefix(urlToMatch, "http") {
		if parsed, err := url.Parse(urlToMatch); err == nil {
			path = parsed.Path
		}
	}
	key := mockKey(method, path)
	m.Url2BodyMap[key] = append(m.Url2BodyMap[key], httpResponseData)
}

// CallCount returns how many requests were received for method and path (or full URL)
func (m *MockClient) CallCount(method string, urlToMatch string) int {
	return len(m.RequestsTo(method, urlToMatch))
}

func (m *MockClient) RequestsTo(method string, urlToMatch string) []RecordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()

	path := urlToMatch
	if parsed, err := url.Parse(urlToMatch); err == nil && parsed.Path != "" {
		path = parsed.Path
	}
	var requests []RecordedRequest
	for _, r := range m.Requests {
		if r.Method == method && r.Path == path {
			requests = append(requests, r)
		}
	}
	return requests
}
