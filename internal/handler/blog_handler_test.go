package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/blogposts/backend/internal/model"
	"github.com/blogposts/backend/internal/repository"
)

// ---------------------------------------------------------------------------
// Mock BlogService
// ---------------------------------------------------------------------------

type mockBlogService struct {
	listFunc   func(ctx context.Context) ([]*model.BlogPost, error)
	getFunc    func(ctx context.Context, id string) (*model.BlogPost, error)
	createFunc func(ctx context.Context, post *model.BlogPost) (*model.BlogPost, error)
	updateFunc func(ctx context.Context, id string, patch model.BlogPostPatch) error
	deleteFunc func(ctx context.Context, id string) error
}

func (m *mockBlogService) List(ctx context.Context) ([]*model.BlogPost, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}
func (m *mockBlogService) Get(ctx context.Context, id string) (*model.BlogPost, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}
func (m *mockBlogService) Create(ctx context.Context, post *model.BlogPost) (*model.BlogPost, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, post)
	}
	return post, nil
}
func (m *mockBlogService) Update(ctx context.Context, id string, patch model.BlogPostPatch) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, patch)
	}
	return nil
}
func (m *mockBlogService) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v; body: %s", err, rec.Body.String())
	}
	return resp.Message
}

// ---------------------------------------------------------------------------
// GET /blogs
// ---------------------------------------------------------------------------

func TestBlogHandler_List_Success(t *testing.T) {
	mock := &mockBlogService{
		listFunc: func(_ context.Context) ([]*model.BlogPost, error) {
			return []*model.BlogPost{
				{ID: "b1", Title: "A", Author: model.Author{FirstName: "J", LastName: "D"}, Content: "C"},
			}, nil
		},
	}
	h := NewBlogHandler(mock)

	req := httptest.NewRequest(http.MethodGet, "/blogs", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d; body: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Blogs []model.BlogPostAPI `json:"blogs"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Blogs) != 1 || resp.Blogs[0].Author != "J D" {
		t.Errorf("unexpected blogs: %+v", resp.Blogs)
	}
}

func TestBlogHandler_List_EmptyIsArray(t *testing.T) {
	h := NewBlogHandler(&mockBlogService{})

	req := httptest.NewRequest(http.MethodGet, "/blogs", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if got := strings.TrimSpace(rec.Body.String()); got != `{"blogs":[]}` {
		t.Errorf("expected empty blogs array, got %s", got)
	}
}

func TestBlogHandler_List_ServiceError(t *testing.T) {
	mock := &mockBlogService{
		listFunc: func(_ context.Context) ([]*model.BlogPost, error) {
			return nil, errors.New("db error")
		},
	}
	h := NewBlogHandler(mock)

	req := httptest.NewRequest(http.MethodGet, "/blogs", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	if msg := decodeMessage(t, rec); msg != "Internal server error" {
		t.Errorf("unexpected message %q", msg)
	}
}

// ---------------------------------------------------------------------------
// GET /blogs/{id}
// ---------------------------------------------------------------------------

func TestBlogHandler_Get_Success(t *testing.T) {
	var capturedID string
	mock := &mockBlogService{
		getFunc: func(_ context.Context, id string) (*model.BlogPost, error) {
			capturedID = id
			return &model.BlogPost{ID: id, Title: "A", Author: model.Author{FirstName: "J", LastName: "D"}, Content: "C"}, nil
		},
	}
	h := NewBlogHandler(mock)

	req := httptest.NewRequest(http.MethodGet, "/blogs/b1", nil)
	req.SetPathValue("id", "b1")
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if capturedID != "b1" {
		t.Errorf("expected id=b1, got %q", capturedID)
	}
	var got model.BlogPostAPI
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := model.BlogPostAPI{ID: "b1", Title: "A", Author: "J D", Content: "C"}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestBlogHandler_Get_NotFoundIsInternalError(t *testing.T) {
	h := NewBlogHandler(&mockBlogService{})

	req := httptest.NewRequest(http.MethodGet, "/blogs/missing", nil)
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	if msg := decodeMessage(t, rec); msg != "Internal server error" {
		t.Errorf("unexpected message %q", msg)
	}
}

// ---------------------------------------------------------------------------
// POST /blogs
// ---------------------------------------------------------------------------

func TestBlogHandler_Create_Success(t *testing.T) {
	var captured *model.BlogPost
	mock := &mockBlogService{
		createFunc: func(_ context.Context, post *model.BlogPost) (*model.BlogPost, error) {
			captured = post
			created := *post
			created.ID = "new-id"
			return &created, nil
		},
	}
	h := NewBlogHandler(mock)

	body := `{"title":"A","author":{"firstName":"J","lastName":"D"},"content":"C"}`
	req := httptest.NewRequest(http.MethodPost, "/blogs", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d; body: %s", rec.Code, rec.Body.String())
	}
	if captured.Author.FirstName != "J" || captured.Author.LastName != "D" {
		t.Errorf("unexpected author passed to service: %+v", captured.Author)
	}
	var got model.BlogPostAPI
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := model.BlogPostAPI{ID: "new-id", Title: "A", Author: "J D", Content: "C"}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestBlogHandler_Create_MissingField(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty body", ``, "Missing title in request body"},
		{"empty object", `{}`, "Missing title in request body"},
		{"title only", `{"title":"A"}`, "Missing author in request body"},
		{"no content", `{"title":"A","author":{"firstName":"J","lastName":"D"}}`, "Missing content in request body"},
		{"no author", `{"title":"A","content":"C"}`, "Missing author in request body"},
		{"no title", `{"author":{"firstName":"J","lastName":"D"},"content":"C"}`, "Missing title in request body"},
		{"wrong-typed title then missing author", `{"title":5}`, "Missing author in request body"},
		{"string author then missing content", `{"title":"A","author":"J D"}`, "Missing content in request body"},
		{"null title counts as present", `{"title":null}`, "Missing author in request body"},
		{"null body", `null`, "Missing title in request body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			h := NewBlogHandler(&mockBlogService{
				createFunc: func(_ context.Context, post *model.BlogPost) (*model.BlogPost, error) {
					called = true
					return post, nil
				},
			})

			req := httptest.NewRequest(http.MethodPost, "/blogs", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.Create(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			if got := rec.Body.String(); got != tt.want {
				t.Errorf("expected body %q, got %q", tt.want, got)
			}
			if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
				t.Errorf("expected text/plain, got %q", ct)
			}
			if called {
				t.Error("service should not be called when a field is missing")
			}
		})
	}
}

func TestBlogHandler_Create_InvalidJSON(t *testing.T) {
	h := NewBlogHandler(&mockBlogService{})

	req := httptest.NewRequest(http.MethodPost, "/blogs", strings.NewReader(`{bad`))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestBlogHandler_Create_NonObjectBody(t *testing.T) {
	for _, body := range []string{`[]`, `"post"`, `42`} {
		h := NewBlogHandler(&mockBlogService{})

		req := httptest.NewRequest(http.MethodPost, "/blogs", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.Create(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", body, rec.Code)
			continue
		}
		if msg := decodeMessage(t, rec); msg != "Invalid JSON body" {
			t.Errorf("%s: unexpected message %q", body, msg)
		}
	}
}

func TestBlogHandler_Create_WrongTypedFieldIsInternalError(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"numeric title", `{"title":5,"author":{"firstName":"J","lastName":"D"},"content":"C"}`},
		{"string author", `{"title":"A","author":"J D","content":"C"}`},
		{"object content", `{"title":"A","author":{"firstName":"J","lastName":"D"},"content":{}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			h := NewBlogHandler(&mockBlogService{
				createFunc: func(_ context.Context, post *model.BlogPost) (*model.BlogPost, error) {
					called = true
					return post, nil
				},
			})

			req := httptest.NewRequest(http.MethodPost, "/blogs", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.Create(rec, req)

			if rec.Code != http.StatusInternalServerError {
				t.Fatalf("expected 500, got %d", rec.Code)
			}
			if msg := decodeMessage(t, rec); msg != "Internal server error" {
				t.Errorf("unexpected message %q", msg)
			}
			if called {
				t.Error("service should not be called with an undecodable field")
			}
		})
	}
}

func TestBlogHandler_Create_NullFieldsReachStore(t *testing.T) {
	var captured *model.BlogPost
	h := NewBlogHandler(&mockBlogService{
		createFunc: func(_ context.Context, post *model.BlogPost) (*model.BlogPost, error) {
			captured = post
			return nil, model.ErrInvalidBlogPost
		},
	})

	body := `{"title":null,"author":{"firstName":"J","lastName":"D"},"content":"C"}`
	req := httptest.NewRequest(http.MethodPost, "/blogs", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if captured == nil || captured.Title != "" {
		t.Errorf("expected empty title passed to the store, got %+v", captured)
	}
}

func TestBlogHandler_Create_StoreRejects(t *testing.T) {
	mock := &mockBlogService{
		createFunc: func(_ context.Context, _ *model.BlogPost) (*model.BlogPost, error) {
			return nil, model.ErrInvalidBlogPost
		},
	}
	h := NewBlogHandler(mock)

	body := `{"title":"","author":{"firstName":"J","lastName":"D"},"content":"C"}`
	req := httptest.NewRequest(http.MethodPost, "/blogs", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}

// ---------------------------------------------------------------------------
// PUT /blogs/{id}
// ---------------------------------------------------------------------------

func TestBlogHandler_Update_Success(t *testing.T) {
	var capturedID string
	var capturedPatch model.BlogPostPatch
	mock := &mockBlogService{
		updateFunc: func(_ context.Context, id string, patch model.BlogPostPatch) error {
			capturedID = id
			capturedPatch = patch
			return nil
		},
	}
	h := NewBlogHandler(mock)

	req := httptest.NewRequest(http.MethodPut, "/blogs/b1", strings.NewReader(`{"id":"b1","title":"New"}`))
	req.SetPathValue("id", "b1")
	rec := httptest.NewRecorder()
	h.Update(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d; body: %s", rec.Code, rec.Body.String())
	}
	if rec.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", rec.Body.String())
	}
	if capturedID != "b1" {
		t.Errorf("expected id=b1, got %q", capturedID)
	}
	if capturedPatch.Title == nil || *capturedPatch.Title != "New" {
		t.Errorf("expected title=New in patch, got %+v", capturedPatch)
	}
	if capturedPatch.Author != nil || capturedPatch.Content != nil {
		t.Errorf("expected only title in patch, got %+v", capturedPatch)
	}
}

func TestBlogHandler_Update_IDMismatch(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"different id", `{"id":"other","title":"New"}`},
		{"missing body id", `{"title":"New"}`},
		{"empty body id", `{"id":"","title":"New"}`},
		{"numeric body id", `{"id":1,"title":"New"}`},
		{"null body id", `{"id":null,"title":"New"}`},
		{"empty body", ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			h := NewBlogHandler(&mockBlogService{
				updateFunc: func(_ context.Context, _ string, _ model.BlogPostPatch) error {
					called = true
					return nil
				},
			})

			req := httptest.NewRequest(http.MethodPut, "/blogs/b1", strings.NewReader(tt.body))
			req.SetPathValue("id", "b1")
			rec := httptest.NewRecorder()
			h.Update(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			if msg := decodeMessage(t, rec); !strings.Contains(msg, "Request path id (b1)") {
				t.Errorf("unexpected message %q", msg)
			}
			if called {
				t.Error("update must not be issued when ids do not match")
			}
		})
	}
}

func TestBlogHandler_Update_NumericIDEchoed(t *testing.T) {
	h := NewBlogHandler(&mockBlogService{})

	req := httptest.NewRequest(http.MethodPut, "/blogs/b1", strings.NewReader(`{"id":7}`))
	req.SetPathValue("id", "b1")
	rec := httptest.NewRecorder()
	h.Update(rec, req)

	want := "Request path id (b1) and request body id (7) must match"
	if msg := decodeMessage(t, rec); msg != want {
		t.Errorf("expected %q, got %q", want, msg)
	}
}

func TestBlogHandler_Update_WrongTypedFieldIsInternalError(t *testing.T) {
	called := false
	h := NewBlogHandler(&mockBlogService{
		updateFunc: func(_ context.Context, _ string, _ model.BlogPostPatch) error {
			called = true
			return nil
		},
	})

	req := httptest.NewRequest(http.MethodPut, "/blogs/b1", strings.NewReader(`{"id":"b1","title":5}`))
	req.SetPathValue("id", "b1")
	rec := httptest.NewRecorder()
	h.Update(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if msg := decodeMessage(t, rec); msg != "Internal server error" {
		t.Errorf("unexpected message %q", msg)
	}
	if called {
		t.Error("update must not be issued with an undecodable field")
	}
}

func TestBlogHandler_Update_ServiceError(t *testing.T) {
	mock := &mockBlogService{
		updateFunc: func(_ context.Context, _ string, _ model.BlogPostPatch) error {
			return repository.ErrInvalidID
		},
	}
	h := NewBlogHandler(mock)

	req := httptest.NewRequest(http.MethodPut, "/blogs/bad", strings.NewReader(`{"id":"bad","content":"X"}`))
	req.SetPathValue("id", "bad")
	rec := httptest.NewRecorder()
	h.Update(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}

// ---------------------------------------------------------------------------
// DELETE /blogs/{id}
// ---------------------------------------------------------------------------

func TestBlogHandler_Delete_Success(t *testing.T) {
	var capturedID string
	mock := &mockBlogService{
		deleteFunc: func(_ context.Context, id string) error {
			capturedID = id
			return nil
		},
	}
	h := NewBlogHandler(mock)

	req := httptest.NewRequest(http.MethodDelete, "/blogs/b1", nil)
	req.SetPathValue("id", "b1")
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if capturedID != "b1" {
		t.Errorf("expected id=b1, got %q", capturedID)
	}
}

func TestBlogHandler_Delete_ServiceError(t *testing.T) {
	mock := &mockBlogService{
		deleteFunc: func(_ context.Context, _ string) error {
			return errors.New("connection lost")
		},
	}
	h := NewBlogHandler(mock)

	req := httptest.NewRequest(http.MethodDelete, "/blogs/b1", nil)
	req.SetPathValue("id", "b1")
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}
