package syncer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/jomei/notionapi"

	"github.com/mrlokans/highlights-notion-sync/internal/entities"
	"github.com/mrlokans/highlights-notion-sync/internal/notion"
)

type fakeFinder struct {
	record *entities.DestinationRecord
	err    error
	calls  []string
}

func (f *fakeFinder) FindByURL(_ context.Context, url string) (*entities.DestinationRecord, error) {
	f.calls = append(f.calls, url)
	return f.record, f.err
}

type updateCall struct {
	pageID string
	props  notionapi.Properties
}

type fakeWriter struct {
	createID  string
	createErr error
	updateErr error
	creates   []*notionapi.PageCreateRequest
	updates   []updateCall
}

func (w *fakeWriter) CreatePage(_ context.Context, req *notionapi.PageCreateRequest) (*notionapi.Page, error) {
	w.creates = append(w.creates, req)
	if w.createErr != nil {
		return nil, w.createErr
	}
	return &notionapi.Page{ID: notionapi.ObjectID(w.createID)}, nil
}

func (w *fakeWriter) UpdatePage(_ context.Context, pageID string, props notionapi.Properties) (*notionapi.Page, error) {
	w.updates = append(w.updates, updateCall{pageID: pageID, props: props})
	if w.updateErr != nil {
		return nil, w.updateErr
	}
	return &notionapi.Page{ID: notionapi.ObjectID(pageID)}, nil
}

type createBody struct {
	Parent     notionapi.Parent     `json:"parent"`
	Properties notionapi.Properties `json:"properties"`
}

type updateBody struct {
	Properties notionapi.Properties `json:"properties"`
}

type queryBody struct {
	Filter struct {
		Property string `json:"property"`
		URL      *struct {
			Equals string `json:"equals"`
		} `json:"url"`
	} `json:"filter"`
	PageSize int `json:"page_size"`
}

// notionServer is an in-memory Notion database behind httptest.
type notionServer struct {
	mu       sync.Mutex
	t        *testing.T
	server   *httptest.Server
	pages    []notionapi.Page
	nextID   int
	queries  int
	creates  []createBody
	updates  []updateCall
	failWith int
}

func newNotionServer(t *testing.T) *notionServer {
	t.Helper()
	ns := &notionServer{t: t}
	ns.server = httptest.NewServer(http.HandlerFunc(ns.handle))
	t.Cleanup(ns.server.Close)
	return ns
}

func (ns *notionServer) client() *notion.Client {
	return notion.NewClient("notion-token", ns.server.URL, "", 0)
}

func (ns *notionServer) seed(id, url string, tags ...string) {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	ns.pages = append(ns.pages, notionapi.Page{
		Object: "page",
		ID:     notionapi.ObjectID(id),
		Properties: notionapi.Properties{
			PropTitle: notion.TitleValue("seeded"),
			PropURL:   notion.URLValue(url),
			PropTags:  notion.MultiSelectValue(tags),
		},
	})
}

func (ns *notionServer) handle(w http.ResponseWriter, r *http.Request) {
	ns.mu.Lock()
	defer ns.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if ns.failWith != 0 {
		w.WriteHeader(ns.failWith)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "error", "status": ns.failWith, "code": "internal_server_error", "message": "boom",
		})
		return
	}

	switch {
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/query"):
		ns.queries++
		var req queryBody
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			ns.t.Errorf("decode query: %v", err)
		}
		results := []notionapi.Page{}
		for _, p := range ns.pages {
			if req.Filter.URL != nil && notion.Text(p.Properties[PropURL]) == req.Filter.URL.Equals {
				results = append(results, p)
				if req.PageSize > 0 && len(results) == req.PageSize {
					break
				}
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"object": "list", "results": results, "has_more": false})

	case r.Method == http.MethodPost && r.URL.Path == "/pages":
		var req createBody
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			ns.t.Errorf("decode create: %v", err)
		}
		ns.creates = append(ns.creates, req)
		ns.nextID++
		page := notionapi.Page{Object: "page", ID: notionapi.ObjectID(fmt.Sprintf("page-%d", ns.nextID)), Properties: req.Properties}
		ns.pages = append(ns.pages, page)
		_ = json.NewEncoder(w).Encode(page)

	case r.Method == http.MethodPatch && strings.HasPrefix(r.URL.Path, "/pages/"):
		id := strings.TrimPrefix(r.URL.Path, "/pages/")
		var req updateBody
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			ns.t.Errorf("decode update: %v", err)
		}
		ns.updates = append(ns.updates, updateCall{pageID: id, props: req.Properties})
		for i := range ns.pages {
			if string(ns.pages[i].ID) == id {
				for k, v := range req.Properties {
					ns.pages[i].Properties[k] = v
				}
				_ = json.NewEncoder(w).Encode(ns.pages[i])
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"object":"error","status":404,"code":"object_not_found","message":"no such page"}`))

	default:
		ns.t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	}
}

func (ns *notionServer) tagsFor(url string) []string {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	for _, p := range ns.pages {
		if notion.Text(p.Properties[PropURL]) == url {
			return notion.Names(p.Properties[PropTags])
		}
	}
	return nil
}

// readwiseServer serves a fixed sequence of export pages keyed by cursor.
type readwiseServer struct {
	mu      sync.Mutex
	server  *httptest.Server
	pages   map[string]string
	cursors []string
}

func newReadwiseServer(t *testing.T, pages map[string]string) *readwiseServer {
	t.Helper()
	rs := &readwiseServer{pages: pages}
	rs.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rs.mu.Lock()
		defer rs.mu.Unlock()

		if r.Header.Get("Authorization") != "Token rw-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		cursor := r.URL.Query().Get("pageCursor")
		rs.cursors = append(rs.cursors, cursor)

		body, ok := rs.pages[cursor]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(rs.server.Close)
	return rs
}
