package pkg

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/simp-lee/gospec/internal/domain"
	"github.com/simp-lee/gospec/internal/spec"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testInput is used to generate real validator.ValidationErrors.
type testInput struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// bindInput uses gin binding tags.
type bindInput struct {
	Name  string `json:"first_name" binding:"required,min=3"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone" binding:"omitempty,max=5"`
}

func newResponseTestContext(method, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, "/", strings.NewReader(body))
	if body != "" {
		c.Request.Header.Set("Content-Type", "application/json")
	}
	return c, w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to unmarshal response %q: %v", w.Body.String(), err)
	}
	return v
}

func TestSuccessAndCreated(t *testing.T) {
	tests := []struct {
		name   string
		send   func(*gin.Context, any)
		status int
	}{
		{"success", Success, http.StatusOK},
		{"created", Created, http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newResponseTestContext(http.MethodGet, "")
			tt.send(c, map[string]string{"first_name": "Ada"})

			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
			resp := decode[Response](t, w)
			if resp.Code != tt.status || resp.Message != "success" {
				t.Errorf("envelope = %+v", resp)
			}
			if data, ok := resp.Data.(map[string]any); !ok || data["first_name"] != "Ada" {
				t.Errorf("data = %v", resp.Data)
			}
		})
	}
}

func TestNoContent(t *testing.T) {
	r := gin.New()
	r.DELETE("/", func(c *gin.Context) { NoContent(c) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/", nil))

	if w.Code != http.StatusNoContent || w.Body.Len() != 0 {
		t.Errorf("status = %d body = %q, want empty 204", w.Code, w.Body.String())
	}
}

func TestPage(t *testing.T) {
	c, w := newResponseTestContext(http.MethodGet, "")
	Page(c, spec.NewPage([]string{"a", "b"}, 5, spec.Pagination{Page: 1, Size: 2}))

	resp := decode[struct {
		Code int            `json:"code"`
		Data map[string]any `json:"data"`
	}](t, w)
	if resp.Code != http.StatusOK {
		t.Errorf("code = %d", resp.Code)
	}
	for key, want := range map[string]any{
		"page": float64(1), "size": float64(2), "totalElements": float64(5),
		"totalPages": float64(3), "first": true, "last": false, "empty": false,
	} {
		if resp.Data[key] != want {
			t.Errorf("data[%s] = %v, want %v", key, resp.Data[key], want)
		}
	}
	if content, _ := resp.Data["content"].([]any); len(content) != 2 {
		t.Errorf("content = %v", resp.Data["content"])
	}
}

func TestError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
		wantLogged  bool
	}{
		{"not found", domain.NewAppError(domain.CodeNotFound, "contact not found", nil), http.StatusNotFound, "contact not found", false},
		{"already exists", domain.NewAppError(domain.CodeAlreadyExists, "email taken", nil), http.StatusConflict, "email taken", false},
		{"validation", domain.NewAppError(domain.CodeValidation, "bad input", nil), http.StatusBadRequest, "bad input", false},
		{"not supported", domain.NewAppError(domain.CodeNotSupported, "recycle bin is not supported", nil), http.StatusNotImplemented, "recycle bin is not supported", false},
		{"wrapped app error", fmt.Errorf("handler: %w", domain.ErrNotFound), http.StatusNotFound, domain.ErrNotFound.Message, false},
		{"internal app error", domain.NewAppError(domain.CodeInternal, "db password is hunter2", errors.New("x")), http.StatusInternalServerError, "internal error", true},
		{"plain error", errors.New("something broke"), http.StatusInternalServerError, "internal error", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newResponseTestContext(http.MethodGet, "")
			Error(c, tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			resp := decode[Response](t, w)
			if resp.Code != tt.wantStatus || resp.Message != tt.wantMessage || resp.Data != nil {
				t.Errorf("envelope = %+v, want code %d message %q", resp, tt.wantStatus, tt.wantMessage)
			}
			if got := len(c.Errors) > 0; got != tt.wantLogged {
				t.Errorf("attached to context = %v, want %v", got, tt.wantLogged)
			}
			if !c.IsAborted() {
				t.Error("Error should abort the chain")
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	err := validator.New().Struct(testInput{})
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		t.Fatalf("expected validator.ValidationErrors, got %T", err)
	}

	c, w := newResponseTestContext(http.MethodGet, "")
	ValidationError(c, ve)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	resp := decode[ValidationErrorResponse](t, w)
	if resp.Message != "validation error" {
		t.Errorf("message = %q", resp.Message)
	}
	// Without obj, field names fall back to the lowercased struct field.
	for _, field := range []string{"name", "email"} {
		if resp.Errors[field] != "This field is required" {
			t.Errorf("errors[%s] = %q", field, resp.Errors[field])
		}
	}

	c, w = newResponseTestContext(http.MethodGet, "")
	ValidationError(c, errors.New("bad json"))
	if resp := decode[Response](t, w); resp.Code != http.StatusBadRequest || resp.Message != "bad request" {
		t.Errorf("non-validation error envelope = %+v", resp)
	}
}

func TestBindAndValidate(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantOK     bool
		wantErrors map[string]string
	}{
		{"valid", `{"first_name":"Alice","email":"alice@example.com"}`, true, nil},
		{"invalid json", `{"first_name`, false, nil},
		{"missing fields", `{}`, false, map[string]string{
			"first_name": "This field is required",
			"email":      "This field is required",
		}},
		{"bad email and short name", `{"first_name":"Al","email":"nope"}`, false, map[string]string{
			"first_name": "Must be at least 3 characters",
			"email":      "Must be a valid email address",
		}},
		{"long phone", `{"first_name":"Alice","email":"a@b.co","phone":"555-0100"}`, false, map[string]string{
			"phone": "Must be at most 5 characters",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newResponseTestContext(http.MethodPost, tt.body)
			var in bindInput
			ok := BindAndValidate(c, &in)

			if ok != tt.wantOK {
				t.Fatalf("BindAndValidate = %v, want %v", ok, tt.wantOK)
			}
			if ok {
				if w.Body.Len() != 0 {
					t.Errorf("expected no body on success, got %q", w.Body.String())
				}
				if in.Name != "Alice" {
					t.Errorf("Name = %q", in.Name)
				}
				return
			}
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
			if tt.wantErrors == nil {
				return
			}
			resp := decode[ValidationErrorResponse](t, w)
			if len(resp.Errors) != len(tt.wantErrors) {
				t.Errorf("errors = %v, want %v", resp.Errors, tt.wantErrors)
			}
			for field, msg := range tt.wantErrors {
				if resp.Errors[field] != msg {
					t.Errorf("errors[%s] = %q, want %q", field, resp.Errors[field], msg)
				}
			}
		})
	}
}

func TestParseJSONTagName(t *testing.T) {
	tests := map[string]string{
		"":                  "",
		"-":                 "",
		"-,":                "",
		"first_name":        "first_name",
		"company,omitempty": "company",
		",omitempty":        "",
	}
	for tag, want := range tests {
		if got := parseJSONTagName(tag); got != want {
			t.Errorf("parseJSONTagName(%q) = %q, want %q", tag, got, want)
		}
	}
}
