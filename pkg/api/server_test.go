package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/rosterfmt/pkg/errors"
	"github.com/matzehuels/rosterfmt/pkg/observability"
	"github.com/matzehuels/rosterfmt/pkg/sheet"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	s, err := New(nil, log.NewWithOptions(&bytes.Buffer{}, log.Options{}))
	if err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(s.Routes())
	t.Cleanup(ts.Close)
	return ts
}

func upload(t *testing.T, url, filename, content string) *http.Response {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	resp, err := http.Post(url, mw.FormDataContentType(), &body)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeError(t *testing.T, resp *http.Response) APIError {
	t.Helper()
	var e APIError
	if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return e
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-Id") == "" {
		t.Error("missing X-Request-Id header")
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestSort(t *testing.T) {
	ts := newTestServer(t)

	resp := upload(t, ts.URL+"/v1/sort?rows=2", "class3.csv", "姓名,尺码\nAlice,XL\nBo,S\nCy,M\n")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %+v", resp.StatusCode, decodeError(t, resp))
	}
	if ct := resp.Header.Get("Content-Type"); ct != ContentTypeXLSX {
		t.Errorf("Content-Type = %q", ct)
	}
	_, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition"))
	if err != nil {
		t.Fatal(err)
	}
	if params["filename"] != "class3"+sheet.SuffixTiled {
		t.Errorf("filename = %q", params["filename"])
	}
	if resp.Header.Get(HeaderRecords) != "3" || resp.Header.Get(HeaderRunID) == "" {
		t.Errorf("run headers = %v", resp.Header)
	}

	f, err := excelize.OpenReader(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	for cell, want := range map[string]string{"B2": "Bo", "B3": "Cy", "E2": "Alice", "D2": "3"} {
		got, err := f.GetCellValue(sheet.DefaultSheetName, cell)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("%s = %q, want %q", cell, got, want)
		}
	}
}

func TestSortFlat(t *testing.T) {
	ts := newTestServer(t)

	resp := upload(t, ts.URL+"/v1/sort?flat=true", "list.csv", "n,s\nA,M\n")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	_, params, _ := mime.ParseMediaType(resp.Header.Get("Content-Disposition"))
	if params["filename"] != "list"+sheet.SuffixFlat {
		t.Errorf("filename = %q", params["filename"])
	}
}

func TestSortErrors(t *testing.T) {
	ts := newTestServer(t)

	many := "n,s\n"
	for i := 0; i < 53; i++ {
		many += fmt.Sprintf("n%d,M\n", i)
	}

	tests := []struct {
		name     string
		query    string
		filename string
		content  string
		status   int
		code     errors.Code
	}{
		{"no file", "?rows=2", "", "", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad rows", "?rows=two", "a.csv", "n,s\nA,M\n", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad flat", "?rows=2&flat=maybe", "a.csv", "n,s\nA,M\n", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"rows missing", "", "a.csv", "n,s\nA,M\n", http.StatusBadRequest, errors.ErrCodeInvalidConfig},
		{"zero rows", "?rows=-1", "a.csv", "n,s\nA,M\n", http.StatusBadRequest, errors.ErrCodeInvalidConfig},
		{"bad strategy", "?rows=2&strategy=x", "a.csv", "n,s\nA,M\n", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unsupported", "?rows=2", "a.ods", "x", http.StatusBadRequest, errors.ErrCodeUnsupportedFormat},
		{"one column", "?rows=2", "a.csv", "n\nA\n", http.StatusUnprocessableEntity, errors.ErrCodeInputShape},
		{"capacity", "?rows=1", "a.csv", many, http.StatusUnprocessableEntity, errors.ErrCodeCapacityExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := upload(t, ts.URL+"/v1/sort"+tt.query, tt.filename, tt.content)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			e := decodeError(t, resp)
			if e.Code != string(tt.code) {
				t.Errorf("code = %q, want %q", e.Code, tt.code)
			}
			if e.RequestID == "" || e.Message == "" {
				t.Errorf("error body = %+v", e)
			}
		})
	}
}

func TestSplit(t *testing.T) {
	ts := newTestServer(t)

	resp := upload(t, ts.URL+"/v1/split?keep_unparsed=1", "names.csv", "A,B\n张三John,1\nJohn,2\n")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if resp.Header.Get(HeaderUnparsed) != "1" {
		t.Errorf("%s = %q", HeaderUnparsed, resp.Header.Get(HeaderUnparsed))
	}

	f, err := excelize.OpenReader(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := f.GetRows(sheet.DefaultSplitSheetName)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 || rows[0][3] != "Original" || rows[1][0] != "John" || rows[2][3] != "John" {
		t.Errorf("rows = %v", rows)
	}
}

func TestRank(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/v1/rank?label=xl&label=12XL&label=%EF%BD%98%EF%BD%8C&label=one")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var body struct {
		Ranks []Rank `json:"ranks"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	want := []Rank{
		{Label: "xl", Normalized: "XL", Rank: 10, Known: true},
		{Label: "12XL", Normalized: "12XL", Rank: 22, Known: true},
		{Label: "ｘｌ", Normalized: "XL", Rank: 10, Known: true},
		{Label: "one", Normalized: "ONE", Rank: 20, Known: false},
	}
	if len(body.Ranks) != len(want) {
		t.Fatalf("ranks = %+v", body.Ranks)
	}
	for i := range want {
		if body.Ranks[i] != want[i] {
			t.Errorf("ranks[%d] = %+v, want %+v", i, body.Ranks[i], want[i])
		}
	}

	resp2, err := http.Get(ts.URL + "/v1/rank")
	if err != nil {
		t.Fatal(err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusBadRequest {
		t.Errorf("status without labels = %d", resp2.StatusCode)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New(errors.ErrCodeInputShape, "x"), http.StatusUnprocessableEntity},
		{fmt.Errorf("layout: %w", errors.New(errors.ErrCodeCapacityExceeded, "x")), http.StatusUnprocessableEntity},
		{errors.New(errors.ErrCodeInvalidConfig, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeUnsupportedFormat, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeInternal, "x"), http.StatusInternalServerError},
		{fmt.Errorf("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := StatusFor(tt.err); got != tt.want {
			t.Errorf("StatusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

type recordingAPIHooks struct {
	observability.NoopAPIHooks
	mu     sync.Mutex
	routes []string
}

func (h *recordingAPIHooks) OnRequest(_ context.Context, method, route string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes = append(h.routes, fmt.Sprintf("%s %s %d", method, route, status))
}

func TestRequestHooks(t *testing.T) {
	hooks := &recordingAPIHooks{}
	observability.SetAPIHooks(hooks)
	t.Cleanup(observability.Reset)

	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/v1/rank?label=XL")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if len(hooks.routes) != 1 || hooks.routes[0] != "GET /v1/rank 200" {
		t.Errorf("hooks saw %v, want [GET /v1/rank 200]", hooks.routes)
	}
}
