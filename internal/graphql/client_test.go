package graphql

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestClient_Do_DecodesData(t *testing.T) {
	var gotReq request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != apiPath {
			t.Errorf("path=%q, want %q", r.URL.Path, apiPath)
		}
		if got, want := r.URL.RawQuery, "IndexConfiguration"; got != want {
			t.Errorf("query hint=%q, want %q", got, want)
		}
		if got, want := r.Header.Get("Authorization"), "token secret"; got != want {
			t.Errorf("authorization=%q, want %q", got, want)
		}
		if r.Header.Get("X-Request-Id") == "" {
			t.Errorf("missing request id")
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode: %v", err)
		}
		_, _ = w.Write([]byte(`{"data":{"value":"ok"}}`))
	}))
	defer srv.Close()

	c := &Client{Endpoint: srv.URL + "/", Token: "secret"}
	var out struct{ Value string }
	err := c.Do(context.Background(), "query IndexConfiguration($id: ID!) { x }", map[string]any{"id": "42"}, &out)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if out.Value != "ok" {
		t.Fatalf("value=%q, want %q", out.Value, "ok")
	}
	if diff := cmp.Diff(map[string]any{"id": "42"}, gotReq.Variables); diff != "" {
		t.Fatalf("variables mismatch (-want +got):\n%s", diff)
	}
}

func TestClient_Do_GraphQLErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":null,"errors":[{"message":"a"},{"message":"b"}]}`))
	}))
	defer srv.Close()

	err := (&Client{Endpoint: srv.URL}).Do(context.Background(), "query Q { x }", nil, nil)
	var gqlErrs Errors
	if !errors.As(err, &gqlErrs) {
		t.Fatalf("err=%v, want Errors", err)
	}
	if got, want := err.Error(), "2 errors: a; b"; got != want {
		t.Fatalf("message=%q, want %q", got, want)
	}
}

func TestClient_Do_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	err := (&Client{Endpoint: srv.URL}).Do(context.Background(), "query Q { x }", nil, nil)
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("err=%v, want *HTTPError", err)
	}
	if httpErr.StatusCode != http.StatusUnauthorized || httpErr.Body != "nope" {
		t.Fatalf("http error=%+v", httpErr)
	}
}

func TestClient_Do_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := (&Client{Endpoint: srv.URL}).Do(ctx, "query Q { x }", nil, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v, want context.Canceled", err)
	}
}

func TestOperationName(t *testing.T) {
	cases := []struct {
		query string
		want  string
	}{
		{query: "query Foo($id: ID!) { x }", want: "Foo"},
		{query: "mutation Bar{ y }", want: "Bar"},
		{query: "{ anonymous }", want: ""},
		{query: "\n    query\tBaz {\n x }\n", want: "Baz"},
	}
	for _, tc := range cases {
		if got := operationName(tc.query); got != tc.want {
			t.Fatalf("operationName(%q)=%q, want %q", tc.query, got, tc.want)
		}
	}
}
