package session

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	flashCookieName = "blognest_flash"
	flashContextKey = "session_pending_flashes"
)

// Flash 闪存消息，跨一次重定向展示
type Flash struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// AddFlash 追加闪存消息。同一请求内多次追加会合并写入。
func AddFlash(c *gin.Context, level, message string) {
	var flashes []Flash
	if v, ok := c.Get(flashContextKey); ok {
		if pending, ok := v.([]Flash); ok {
			flashes = pending
		}
	} else {
		flashes = readFlashes(c)
	}
	flashes = append(flashes, Flash{Level: level, Message: message})
	c.Set(flashContextKey, flashes)
	writeFlashes(c, flashes)
}

// PopFlashes 读取并清除全部闪存消息
func PopFlashes(c *gin.Context) []Flash {
	flashes := readFlashes(c)
	if len(flashes) > 0 {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(flashCookieName, "", -1, "/", "", false, true)
	}
	return flashes
}

func readFlashes(c *gin.Context) []Flash {
	raw, err := c.Cookie(flashCookieName)
	if err != nil || raw == "" {
		return nil
	}
	decoded, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}
	var flashes []Flash
	if err := json.Unmarshal(decoded, &flashes); err != nil {
		return nil
	}
	return flashes
}

func writeFlashes(c *gin.Context, flashes []Flash) {
	payload, err := json.Marshal(flashes)
	if err != nil {
		return
	}
	encoded := base64.RawURLEncoding.EncodeToString(payload)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookieName, encoded, 300, "/", "", false, true)
}
