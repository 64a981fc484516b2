// Package session provides Valkey-backed HTTP session management for the
// admin account. Sessions are identified by an HttpOnly cookie and stored
// as JSON in Valkey. Each read pushes the expiry forward, so a session
// ends after TTL of inactivity.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// CookieName is the name of the session cookie sent to the browser.
	CookieName = "hc_session"

	// DefaultTTL is the idle time after which a session expires.
	DefaultTTL = 12 * time.Hour

	keyPrefix      = "session:"
	adminKeyPrefix = "admin_sessions:"

	// idLength is the byte length of the random session ID (32 bytes = 64 hex chars).
	idLength = 32
)

// Data holds the session payload stored in Valkey.
type Data struct {
	AdminID   int64     `json:"admin_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// Connect creates a Valkey client and verifies the connection with a ping.
func Connect(ctx context.Context, host, port, password string) (*redis.Client, error) {
	addr := net.JoinHostPort(host, port)
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("valkey ping: %w", err)
	}

	slog.Info("valkey connected", "addr", addr)
	return client, nil
}

// Store manages session lifecycle in Valkey. Besides the session keys it
// keeps a set of session IDs per admin so all of an admin's sessions can
// be revoked together.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	secure bool
}

// NewStore creates a session store backed by the given Valkey client.
// secure sets the Secure attribute on the session cookie.
func NewStore(client *redis.Client, secure bool) *Store {
	return &Store{
		client: client,
		ttl:    DefaultTTL,
		secure: secure,
	}
}

func sessionKey(id string) string { return keyPrefix + id }

func adminKey(adminID int64) string { return adminKeyPrefix + strconv.FormatInt(adminID, 10) }

// Create starts a session for data.AdminID, stores it and sets the
// session cookie. Returns the session ID.
func (s *Store) Create(ctx context.Context, w http.ResponseWriter, data *Data) (string, error) {
	id, err := generateID()
	if err != nil {
		return "", fmt.Errorf("session create: %w", err)
	}

	data.CreatedAt = time.Now()
	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("session marshal: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, sessionKey(id), payload, s.ttl)
		pipe.SAdd(ctx, adminKey(data.AdminID), id)
		pipe.Expire(ctx, adminKey(data.AdminID), s.ttl)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("session store: %w", err)
	}

	s.setCookie(w, id, int(s.ttl.Seconds()))
	return id, nil
}

// Get returns the session named by the request cookie and extends its
// expiry. Returns nil without error when there is no valid session.
func (s *Store) Get(ctx context.Context, r *http.Request) (*Data, error) {
	id, ok := cookieID(r)
	if !ok {
		return nil, nil
	}

	payload, err := s.client.GetEx(ctx, sessionKey(id), s.ttl).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}

	var data Data
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("session unmarshal: %w", err)
	}

	// The index only has to outlive the newest session.
	if err := s.client.Expire(ctx, adminKey(data.AdminID), s.ttl).Err(); err != nil {
		slog.Warn("session index refresh failed", "admin_id", data.AdminID, "error", err)
	}
	return &data, nil
}

// Destroy removes the request's session and clears the cookie.
func (s *Store) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	id, ok := cookieID(r)
	if !ok {
		return nil
	}

	payload, err := s.client.GetDel(ctx, sessionKey(id)).Bytes()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("session destroy: %w", err)
	}
	if err == nil {
		var data Data
		if json.Unmarshal(payload, &data) == nil {
			s.client.SRem(ctx, adminKey(data.AdminID), id)
		}
	}

	s.setCookie(w, "", -1)
	return nil
}

// RevokeOthers ends every session of adminID except the one carried by r.
// It returns how many sessions were removed.
func (s *Store) RevokeOthers(ctx context.Context, r *http.Request, adminID int64) (int, error) {
	keep, _ := cookieID(r)

	ids, err := s.client.SMembers(ctx, adminKey(adminID)).Result()
	if err != nil {
		return 0, fmt.Errorf("session list: %w", err)
	}

	var revoke []string
	for _, id := range ids {
		if id != keep {
			revoke = append(revoke, id)
		}
	}
	if len(revoke) == 0 {
		return 0, nil
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range revoke {
			pipe.Del(ctx, sessionKey(id))
			pipe.SRem(ctx, adminKey(adminID), id)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("session revoke: %w", err)
	}
	return len(revoke), nil
}

func (s *Store) setCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   maxAge,
	})
}

// cookieID returns the session ID from the request if it is well formed.
func cookieID(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || len(cookie.Value) != idLength*2 {
		return "", false
	}
	if _, err := hex.DecodeString(cookie.Value); err != nil {
		return "", false
	}
	return cookie.Value, true
}

// generateID creates a cryptographically random session identifier.
func generateID() (string, error) {
	b := make([]byte, idLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
