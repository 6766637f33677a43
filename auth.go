package main

import (
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// tokenStore holds the session tokens issued by login. Tokens live for the
// lifetime of the process, matching the single-user in-memory design.
type tokenStore struct {
	mu     sync.RWMutex
	tokens map[string]bool
}

func newTokenStore() *tokenStore {
	return &tokenStore{tokens: make(map[string]bool)}
}

func (t *tokenStore) issue() string {
	token := uuid.New().String()
	t.mu.Lock()
	t.tokens[token] = true
	t.mu.Unlock()
	return token
}

func (t *tokenStore) valid(token string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.tokens[token]
}

// dummyHash is a pre-computed bcrypt hash used when no password hash is
// configured. Running bcrypt against it (instead of returning early) keeps
// response time constant regardless of configuration.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy"), bcrypt.DefaultCost)

// login verifies the app password and issues a session token.
// POST /api/login (public — no auth required). The expected hash comes from
// APP_PASSWORD_HASH (see cmd/hash-password); login always fails when it is
// unset.
func (h *Handler) login(c *gin.Context) {
	var body struct {
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	hashToCheck := string(dummyHash)
	configured := h.passwordHash != ""
	if configured {
		hashToCheck = h.passwordHash
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(hashToCheck), []byte(body.Password))

	if !configured || compareErr != nil {
		apiError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": h.tokens.issue()})
}

// authMiddleware validates the Bearer token issued by login. When no
// password hash is configured the API runs open (local single-user use);
// main logs a warning for that mode at startup.
func (h *Handler) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.passwordHash == "" {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			apiError(c, http.StatusUnauthorized, "missing or invalid authorization header")
			c.Abort()
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")
		if !h.tokens.valid(token) {
			apiError(c, http.StatusUnauthorized, "invalid token")
			c.Abort()
			return
		}

		c.Next()
	}
}
