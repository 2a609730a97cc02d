package http

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/treedelivery/treedelivery-backend/configs"
	"github.com/treedelivery/treedelivery-backend/internal/logging"
)

const defaultSessionTTL = 12 * time.Hour

// LoginHandler issues the admin session token. There is exactly one admin;
// credentials come from configuration, never from the store.
type LoginHandler struct {
	cfg configs.Config
}

func NewLoginHandler(cfg configs.Config) *LoginHandler {
	return &LoginHandler{cfg: cfg}
}

type loginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/admin/login.
func (h *LoginHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid_credentials"})
		return
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(h.cfg.Admin.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.cfg.Admin.Password)) == 1
	if !userOK || !passOK {
		logging.From(c).Warn("admin login rejected")
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid_credentials"})
		return
	}

	ttl := h.cfg.Security.TTL
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":  h.cfg.Security.Issuer,
		"iat":  now.Unix(),
		"nbf":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
		"role": "admin",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.cfg.Security.JWTSecret))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "server_error"})
		return
	}

	logging.From(c).Info("admin login")
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"token":     signed,
		"expiresIn": int64(ttl.Seconds()),
	})
}
