package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/blogposts/backend/internal/model"
	"github.com/blogposts/backend/internal/service"
)

const internalErrorMessage = "Internal server error"

// BlogHandler serves the /blogs CRUD endpoints.
type BlogHandler struct {
	svc service.BlogService
}

// NewBlogHandler creates a BlogHandler with the given service.
func NewBlogHandler(svc service.BlogService) *BlogHandler {
	return &BlogHandler{svc: svc}
}

// requiredFields are checked for presence on create, in this order.
var requiredFields = []string{"title", "author", "content"}

// blogBody is a decoded request body keyed by JSON field name. Presence is
// decided on the keys; values are decoded afterwards, so "title": null counts
// as present.
type blogBody map[string]json.RawMessage

// missingField returns the first required field absent from the body.
func (b blogBody) missingField() string {
	for _, field := range requiredFields {
		if _, ok := b[field]; !ok {
			return field
		}
	}
	return ""
}

// patch decodes the title, author and content keys present in the body.
// A value of the wrong JSON type is an error.
func (b blogBody) patch() (model.BlogPostPatch, error) {
	var patch model.BlogPostPatch
	if raw, ok := b["title"]; ok {
		var title string
		if err := json.Unmarshal(raw, &title); err != nil {
			return patch, fmt.Errorf("decode title: %w", err)
		}
		patch.Title = &title
	}
	if raw, ok := b["author"]; ok {
		var author model.Author
		if err := json.Unmarshal(raw, &author); err != nil {
			return patch, fmt.Errorf("decode author: %w", err)
		}
		patch.Author = &author
	}
	if raw, ok := b["content"]; ok {
		var content string
		if err := json.Unmarshal(raw, &content); err != nil {
			return patch, fmt.Errorf("decode content: %w", err)
		}
		patch.Content = &content
	}
	return patch, nil
}

// id returns the body id. ok is false when the key is absent or not a string.
// text renders whatever was sent, for error messages.
func (b blogBody) id() (id string, text string, ok bool) {
	raw, present := b["id"]
	if !present {
		return "", "", false
	}
	if err := json.Unmarshal(raw, &id); err != nil {
		return "", string(raw), false
	}
	return id, id, true
}

// List handles GET /blogs.
func (h *BlogHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.svc.List(r.Context())
	if err != nil {
		slog.Error("blog list failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}

	blogs := make([]model.BlogPostAPI, 0, len(posts))
	for _, p := range posts {
		blogs = append(blogs, p.APIRepr())
	}
	writeJSON(w, http.StatusOK, map[string]any{"blogs": blogs})
}

// Get handles GET /blogs/{id}.
// Not-found, malformed ids and store failures all answer 500.
func (h *BlogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	post, err := h.svc.Get(r.Context(), id)
	if err != nil {
		slog.Error("blog get failed", "error", err, "blog_id", id)
		writeMessage(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}
	writeJSON(w, http.StatusOK, post.APIRepr())
}

// Create handles POST /blogs.
// A missing required field answers 400 with a plain-text body.
func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body blogBody
	if err := decodeBody(r, &body); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if field := body.missingField(); field != "" {
		message := fmt.Sprintf("Missing %s in request body", field)
		slog.Info("blog create rejected", "reason", message)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, message)
		return
	}

	// Wrongly typed values are a store-level rejection, like empty ones.
	fields, err := body.patch()
	if err != nil {
		slog.Error("blog create failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}

	post, err := h.svc.Create(r.Context(), &model.BlogPost{
		Title:   *fields.Title,
		Author:  *fields.Author,
		Content: *fields.Content,
	})
	if err != nil {
		slog.Error("blog create failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}
	writeJSON(w, http.StatusCreated, post.APIRepr())
}

// Update handles PUT /blogs/{id}.
// The body id must be present and equal to the path id; otherwise nothing is
// updated.
func (h *BlogHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var body blogBody
	if err := decodeBody(r, &body); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	bodyID, bodyIDText, ok := body.id()
	if !ok || bodyID == "" || id == "" || bodyID != id {
		message := fmt.Sprintf("Request path id (%s) and request body id (%s) must match", id, bodyIDText)
		slog.Info("blog update rejected", "reason", message)
		writeMessage(w, http.StatusBadRequest, message)
		return
	}

	patch, err := body.patch()
	if err != nil {
		slog.Error("blog update failed", "error", err, "blog_id", id)
		writeMessage(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}

	if err := h.svc.Update(r.Context(), id, patch); err != nil {
		slog.Error("blog update failed", "error", err, "blog_id", id)
		writeMessage(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /blogs/{id} and the legacy DELETE /blog/{id}.
func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.svc.Delete(r.Context(), id); err != nil {
		slog.Error("blog delete failed", "error", err, "blog_id", id)
		writeMessage(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// NotFound answers every request no route matched.
func NotFound(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusNotFound, "Not Found")
}

// decodeBody decodes a JSON request body into v. An empty body decodes as {}.
func decodeBody(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
