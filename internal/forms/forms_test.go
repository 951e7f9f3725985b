package forms

import (
	"strings"
	"testing"
)

func TestContactFormValidate(t *testing.T) {
	form := ContactForm{
		Name:    "  Jamie  ",
		Email:   "jamie@example.com",
		Message: "Hello there",
	}
	if errs := form.Validate(); errs.Has() {
		t.Fatalf("valid contact form should pass, got %v", errs)
	}
	if form.Name != "Jamie" {
		t.Fatalf("name should be trimmed, got %q", form.Name)
	}

	empty := ContactForm{}
	errs := empty.Validate()
	for _, field := range []string{"name", "email", "message"} {
		if errs[field] == "" {
			t.Fatalf("empty contact form should flag %s", field)
		}
	}

	badEmail := ContactForm{Name: "a", Email: "not-an-email", Message: "hi"}
	if errs := badEmail.Validate(); errs["email"] == "" {
		t.Fatalf("invalid email should be flagged")
	}
}

func TestRegisterFormPasswordMismatch(t *testing.T) {
	form := RegisterForm{
		Username:  "writer",
		Email:     "writer@example.com",
		Password1: "secret123",
		Password2: "secret124",
	}
	errs := form.Validate()
	if errs["password2"] == "" {
		t.Fatalf("mismatched passwords should be flagged")
	}

	form.Password2 = "secret123"
	if errs := form.Validate(); errs.Has() {
		t.Fatalf("matching passwords should pass, got %v", errs)
	}
}

func TestPostFormBindAndValidate(t *testing.T) {
	var form PostForm
	form.Bind("  My Title ", "Body text", "https://example.com/img.png", "3")
	if form.CategoryID != 3 {
		t.Fatalf("category id want 3 got %d", form.CategoryID)
	}
	if errs := form.Validate(); errs.Has() {
		t.Fatalf("valid post form should pass, got %v", errs)
	}

	var invalid PostForm
	invalid.Bind("", "", "", "not-a-number")
	errs := invalid.Validate()
	for _, field := range []string{"title", "content", "category"} {
		if errs[field] == "" {
			t.Fatalf("empty post form should flag %s", field)
		}
	}

	var long PostForm
	long.Bind(strings.Repeat("x", maxTitleLength+1), "body", "", "1")
	if errs := long.Validate(); errs["title"] == "" {
		t.Fatalf("over-long title should be flagged")
	}
}

func TestResetPasswordFormValidate(t *testing.T) {
	form := ResetPasswordForm{Password1: "abc12345", Password2: "abc12345"}
	if errs := form.Validate(); errs.Has() {
		t.Fatalf("matching reset passwords should pass, got %v", errs)
	}
	mismatch := ResetPasswordForm{Password1: "abc12345", Password2: "different"}
	if errs := mismatch.Validate(); errs["password2"] == "" {
		t.Fatalf("mismatched reset passwords should be flagged")
	}
}
