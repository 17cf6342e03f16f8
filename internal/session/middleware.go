package session

import (
	"errors"
	"net/http"
	"time"

	"pizza_store/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"go.uber.org/zap"
)

const (
	CookieName = "pizza_session"
	contextKey = "pizza_session"
)

type Manager struct {
	store Store
	codec *securecookie.SecureCookie
	ttl   time.Duration
	log   *zap.Logger
	newID func() string
}

func NewManager(store Store, secret string, ttl time.Duration, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	codec := securecookie.New([]byte(secret), nil)
	codec.MaxAge(int(ttl.Seconds()))
	return &Manager{
		store: store,
		codec: codec,
		ttl:   ttl,
		log:   log,
		newID: uuid.NewString,
	}
}

// Middleware loads the session named by the cookie (or starts one), exposes
// it to handlers and writes it back after they return.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var sess *models.Session
		id, ok := m.readCookie(c)
		if ok {
			loaded, err := m.store.GetSession(ctx, id)
			switch {
			case err == nil:
				sess = loaded
			case errors.Is(err, ErrNotFound):
			default:
				m.log.Warn("failed to load session", zap.Error(err))
			}
		}
		if sess == nil {
			id = m.newID()
			sess = &models.Session{}
		}
		ensureIdentity(sess)

		encoded, err := m.codec.Encode(CookieName, id)
		if err != nil {
			m.log.Error("failed to encode session cookie", zap.Error(err))
		} else {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(CookieName, encoded, int(m.ttl.Seconds()), "/", "", false, true)
		}
		c.Set(contextKey, sess)

		c.Next()

		if err := m.store.SetSession(ctx, id, sess, m.ttl); err != nil {
			m.log.Error("failed to save session", zap.String("session_id", id), zap.Error(err))
		}
	}
}

// FromContext returns the request's session. Outside the middleware it
// returns a fresh guest session so handlers never see nil.
func FromContext(c *gin.Context) *models.Session {
	if v, ok := c.Get(contextKey); ok {
		if sess, ok := v.(*models.Session); ok {
			return sess
		}
	}
	sess := &models.Session{}
	ensureIdentity(sess)
	c.Set(contextKey, sess)
	return sess
}

func ensureIdentity(sess *models.Session) {
	if sess.UserID == "" {
		sess.UserID = models.NewUserID()
	}
	if sess.Username == "" {
		sess.Username = models.GuestName
	}
	if sess.Role == "" {
		sess.Role = models.Guest
	}
}

func (m *Manager) readCookie(c *gin.Context) (string, bool) {
	value, err := c.Cookie(CookieName)
	if err != nil || value == "" {
		return "", false
	}
	var id string
	if err := m.codec.Decode(CookieName, value, &id); err != nil || id == "" {
		m.log.Warn("rejected session cookie", zap.Error(err))
		return "", false
	}
	return id, true
}
