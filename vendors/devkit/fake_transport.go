package devkit

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"sync"
)

// Script is one canned vendor reply. Scripts are consumed in order;
// the last one repeats once the list is exhausted.
type Script struct {
	Status  int
	Body    any
	Headers map[string]string
	Err     error
}

func JSONScript(status int, body any) Script {
	return Script{Status: status, Body: body}
}

// RecordedRequest captures what an adapter actually sent.
type RecordedRequest struct {
	Method  string
	Path    string
	Query   url.Values
	Headers http.Header
	Body    []byte
}

// BodyJSON decodes the recorded request body.
func (r RecordedRequest) BodyJSON() map[string]any {
	var out map[string]any
	_ = json.Unmarshal(r.Body, &out)
	return out
}

// ScriptedTransport is an http.RoundTripper that replays canned replies
// and records every request, so vendor adapters are tested against the
// full HTTP pipeline without a network.
type ScriptedTransport struct {
	mu       sync.Mutex
	scripts  []Script
	requests []RecordedRequest
}

func NewScriptedTransport(scripts ...Script) *ScriptedTransport {
	return &ScriptedTransport{scripts: append([]Script(nil), scripts...)}
}

// Client wraps the scripted transport in an http.Client for adapter
// options.
func (t *ScriptedTransport) Client() *http.Client {
	return &http.Client{Transport: t}
}

// Append queues further scripts mid-test.
func (t *ScriptedTransport) Append(scripts ...Script) {
	t.mu.Lock()
	t.scripts = append(t.scripts, scripts...)
	t.mu.Unlock()
}

func (t *ScriptedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
		_ = req.Body.Close()
	}
	t.requests = append(t.requests, RecordedRequest{
		Method:  req.Method,
		Path:    req.URL.Path,
		Query:   req.URL.Query(),
		Headers: req.Header.Clone(),
		Body:    body,
	})

	index := len(t.requests) - 1
	script := Script{Status: http.StatusOK, Body: map[string]any{}}
	if index < len(t.scripts) {
		script = t.scripts[index]
	} else if len(t.scripts) > 0 {
		script = t.scripts[len(t.scripts)-1]
	}
	if script.Err != nil {
		return nil, script.Err
	}

	encoded := []byte("{}")
	if script.Body != nil {
		if raw, ok := script.Body.([]byte); ok {
			encoded = raw
		} else {
			encoded, _ = json.Marshal(script.Body)
		}
	}
	status := script.Status
	if status == 0 {
		status = http.StatusOK
	}

	header := http.Header{"Content-Type": []string{"application/json"}}
	for key, value := range script.Headers {
		header.Set(key, value)
	}
	return &http.Response{
		StatusCode: status,
		Header:     header,
		Body:       io.NopCloser(bytes.NewReader(encoded)),
		Request:    req,
	}, nil
}

// Requests returns a copy of everything sent so far.
func (t *ScriptedTransport) Requests() []RecordedRequest {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]RecordedRequest, len(t.requests))
	copy(out, t.requests)
	return out
}

// Last returns the most recent request, or a zero value when none were
// sent.
func (t *ScriptedTransport) Last() RecordedRequest {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.requests) == 0 {
		return RecordedRequest{}
	}
	return t.requests[len(t.requests)-1]
}
