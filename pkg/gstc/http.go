package gstc

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// HTTPTransport speaks gstd's HTTP API. Each command is translated to a
// request on the same resource path:
//
//	create /pipelines <name> <desc>  POST   /pipelines?name=<name>&description=<desc>
//	create <path> <arg>              POST   <path>?name=<arg>
//	read <path>                      GET    <path>
//	update <path> <value>            PUT    <path>?name=<value>
//	delete <path> <name>             DELETE <path>?name=<name>
//
// The response body is returned unchanged; the status code it carries is
// decoded by the client like any other response.
type HTTPTransport struct {
	baseURL string
	http    *http.Client
}

// NewHTTPTransport creates a transport for http://address:port. timeout
// bounds connection establishment only, so bus reads may block for as long
// as the daemon needs.
func NewHTTPTransport(address string, port int, timeout time.Duration) (*HTTPTransport, error) {
	if address == "" {
		return nil, nullArgument("address")
	}
	dialer := &net.Dialer{Timeout: timeout}
	return &HTTPTransport{
		baseURL: "http://" + net.JoinHostPort(address, strconv.Itoa(port)),
		http: &http.Client{
			Transport: &http.Transport{
				DialContext:         dialer.DialContext,
				MaxIdleConnsPerHost: 4,
			},
		},
	}, nil
}

// newHTTPTransportWithClient points a transport at baseURL using client.
func newHTTPTransportWithClient(baseURL string, client *http.Client) *HTTPTransport {
	return &HTTPTransport{baseURL: baseURL, http: client}
}

// Send translates request into an HTTP call and returns the response body.
func (t *HTTPTransport) Send(ctx context.Context, request string) (string, error) {
	req, err := t.newRequest(ctx, request)
	if err != nil {
		return "", err
	}

	resp, err := t.http.Do(req)
	if err != nil {
		if isConnectionRefused(err) {
			return "", newError(StatusUnreachable, "send", err)
		}
		return "", classifyIOError("send", StatusSendError, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", classifyIOError("receive", StatusRecvError, err)
	}
	if len(body) == 0 && resp.StatusCode >= http.StatusBadRequest {
		return "", newError(StatusRecvError, "receive", fmt.Errorf("empty response with HTTP status %d", resp.StatusCode))
	}
	return string(body), nil
}

// newRequest maps a protocol command onto an HTTP request.
func (t *HTTPTransport) newRequest(ctx context.Context, request string) (*http.Request, error) {
	verb, rest, _ := strings.Cut(request, " ")
	path, arg, _ := strings.Cut(rest, " ")
	if path == "" {
		return nil, newError(StatusSendError, "send", fmt.Errorf("command %q has no resource path", request))
	}

	var method string
	query := url.Values{}
	switch verb {
	case verbCreate:
		method = http.MethodPost
		if path == pipelinesPath {
			name, desc, _ := strings.Cut(arg, " ")
			query.Set("name", name)
			query.Set("description", desc)
		} else if arg != "" {
			query.Set("name", arg)
		}
	case verbRead:
		method = http.MethodGet
	case verbUpdate:
		method = http.MethodPut
		query.Set("name", arg)
	case verbDelete:
		method = http.MethodDelete
		query.Set("name", arg)
	default:
		return nil, newError(StatusSendError, "send", fmt.Errorf("unknown verb %q", verb))
	}

	reqURL := t.baseURL + (&url.URL{Path: path}).EscapedPath()
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, nil)
	if err != nil {
		return nil, newError(StatusSendError, "send", fmt.Errorf("failed to create request: %w", err))
	}
	return req, nil
}

// Close releases idle connections.
func (t *HTTPTransport) Close() error {
	t.http.CloseIdleConnections()
	return nil
}
