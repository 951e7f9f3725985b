package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func timeIn(t *testing.T, seconds int) time.Time {
	t.Helper()
	return time.Now().Add(time.Duration(seconds) * time.Second)
}

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func TestAddFlashSurvivesRedirect(t *testing.T) {
	c, w := newTestContext(t)
	AddFlash(c, "success", "Post deleted successfully!")
	AddFlash(c, "error", "Something went wrong.")

	// 下一次请求带上写入的 Cookie
	var flashCookie *http.Cookie
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "blognest_flash" {
			flashCookie = cookie
		}
	}
	if flashCookie == nil || flashCookie.Value == "" {
		t.Fatalf("flash cookie not written")
	}

	next, _ := newTestContext(t)
	next.Request.AddCookie(flashCookie)

	flashes := PopFlashes(next)
	if len(flashes) != 2 {
		t.Fatalf("want 2 flashes, got %d", len(flashes))
	}
	if flashes[0].Level != "success" || flashes[0].Message != "Post deleted successfully!" {
		t.Fatalf("unexpected first flash: %+v", flashes[0])
	}
	if flashes[1].Level != "error" {
		t.Fatalf("unexpected second flash: %+v", flashes[1])
	}
}

func TestPopFlashesEmpty(t *testing.T) {
	c, _ := newTestContext(t)
	if flashes := PopFlashes(c); len(flashes) != 0 {
		t.Fatalf("want no flashes, got %d", len(flashes))
	}
}

func TestPopFlashesIgnoresGarbageCookie(t *testing.T) {
	c, _ := newTestContext(t)
	c.Request.AddCookie(&http.Cookie{Name: "blognest_flash", Value: "%%%not-base64%%%"})
	if flashes := PopFlashes(c); len(flashes) != 0 {
		t.Fatalf("garbage cookie must decode to no flashes, got %d", len(flashes))
	}
}

func TestManagerTokenRoundTrip(t *testing.T) {
	c, w := newTestContext(t)
	manager := NewManager(nil)

	if _, ok := manager.Token(c); ok {
		t.Fatalf("token must be absent before set")
	}

	var sessionCookie *http.Cookie
	manager.SetToken(c, "token-value", timeIn(t, 3600))
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == manager.CookieName() {
			sessionCookie = cookie
		}
	}
	if sessionCookie == nil || !sessionCookie.HttpOnly {
		t.Fatalf("session cookie must be set http-only")
	}

	next, _ := newTestContext(t)
	next.Request.AddCookie(sessionCookie)
	token, ok := manager.Token(next)
	if !ok || token != "token-value" {
		t.Fatalf("token round trip failed: %q %v", token, ok)
	}
}
