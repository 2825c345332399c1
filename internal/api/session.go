package api

import (
	"fmt"
	"net"
	"net/http"
	"time"
)

const sessionCookie = "session_id"

// sessionFromCookie returns the stored session id or "".
func sessionFromCookie(r *http.Request) string {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return ""
	}
	return c.Value
}

// ensureSession resolves the caller's session id, minting one from the
// remote address and current millis when absent, and (re)sets the cookie.
// The id is opaque everywhere downstream; nothing validates its format.
func ensureSession(w http.ResponseWriter, r *http.Request) string {
	sid := sessionFromCookie(r)
	if sid == "" {
		sid = mintSessionID(r)
	}
	setSessionCookie(w, sid)
	return sid
}

func mintSessionID(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return fmt.Sprintf("%s-%d", host, time.Now().UnixMilli())
}

func setSessionCookie(w http.ResponseWriter, sid string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sid,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})
}
