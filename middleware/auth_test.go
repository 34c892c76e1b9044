package middleware

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/steinfletcher/apitest"
	jsonpath "github.com/steinfletcher/apitest-jsonpath"

	"github.com/kitebank/backend/internal/auth"
)

const testCookieName = "kb_session"

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func protectedRouter(tokens *auth.TokenManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", RequireSession(tokens, testCookieName), func(c *gin.Context) {
		ident, ok := IdentityFromContext(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "identity missing"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": ident.UserID, "email": ident.Email})
	})
	return r
}

func TestRequireSession_ValidToken(t *testing.T) {
	tokens := auth.NewTokenManager(testSecret, time.Hour)
	tok, err := tokens.Issue(7, "a@b.com")
	if err != nil {
		t.Fatal(err)
	}

	apitest.New().
		Handler(protectedRouter(tokens)).
		Get("/protected").
		Cookies(apitest.NewCookie(testCookieName).Value(tok)).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.id", float64(7))).
		Assert(jsonpath.Equal("$.email", "a@b.com")).
		End()
}

func TestRequireSession_RejectionsAreUniform(t *testing.T) {
	tokens := auth.NewTokenManager(testSecret, time.Hour)

	expired, err := auth.NewTokenManager(testSecret, -time.Minute).Issue(7, "a@b.com")
	if err != nil {
		t.Fatal(err)
	}
	foreign, err := auth.NewTokenManager([]byte("ffffffffffffffffffffffffffffffff"), time.Hour).Issue(7, "a@b.com")
	if err != nil {
		t.Fatal(err)
	}

	cases := map[string]string{
		"garbage token": "not-a-token",
		"expired token": expired,
		"wrong secret":  foreign,
	}

	// Every failure shape: same status, same body. No cause leaks.
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			apitest.New().
				Handler(protectedRouter(tokens)).
				Get("/protected").
				Cookies(apitest.NewCookie(testCookieName).Value(tok)).
				Expect(t).
				Status(http.StatusUnauthorized).
				Body(`{"error":"Unauthorized"}`).
				End()
		})
	}

	t.Run("missing cookie", func(t *testing.T) {
		apitest.New().
			Handler(protectedRouter(tokens)).
			Get("/protected").
			Expect(t).
			Status(http.StatusUnauthorized).
			Body(`{"error":"Unauthorized"}`).
			End()
	})
}
