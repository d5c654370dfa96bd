package flash

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

const cookieName = "flash"

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Message is a one-shot notice shown on the next rendered page.
type Message struct {
	Level Level  `json:"l"`
	Text  string `json:"t"`
}

func Success(text string) Message { return Message{Level: LevelSuccess, Text: text} }
func Error(text string) Message   { return Message{Level: LevelError, Text: text} }
func Info(text string) Message    { return Message{Level: LevelInfo, Text: text} }

// Store carries messages across a redirect in a short-lived cookie.
// Values are not secret, and the content is rendered escaped, so the
// cookie is encoded but not signed.
type Store struct {
	secure bool
	maxAge int
}

func NewStore(secure bool) *Store {
	return &Store{secure: secure, maxAge: 60}
}

// Add queues msgs after any messages already pending on r.
func (s *Store) Add(w http.ResponseWriter, r *http.Request, msgs ...Message) {
	if len(msgs) == 0 {
		return
	}
	all := append(read(r), msgs...)

	b, err := json.Marshal(all)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    base64.RawURLEncoding.EncodeToString(b),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   s.maxAge,
	})
}

// Pop returns the pending messages and clears the cookie.
func (s *Store) Pop(w http.ResponseWriter, r *http.Request) []Message {
	msgs := read(r)
	if _, err := r.Cookie(cookieName); err == nil {
		http.SetCookie(w, &http.Cookie{
			Name:     cookieName,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			Secure:   s.secure,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   -1,
		})
	}
	return msgs
}

// read decodes the pending messages; a tampered cookie yields none.
func read(r *http.Request) []Message {
	c, err := r.Cookie(cookieName)
	if err != nil || c.Value == "" {
		return nil
	}
	b, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}
	var msgs []Message
	if err := json.Unmarshal(b, &msgs); err != nil {
		return nil
	}
	return msgs
}
