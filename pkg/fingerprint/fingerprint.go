// Package fingerprint derives the anonymous pseudo-identity used for likes.
//
// The identity is best effort: the same browser on the same device yields
// the same string, but a different browser, a cleared environment or a
// randomized canvas produces a new one. It is not authentication.
package fingerprint

import (
	"net/http"
	"strconv"
	"strings"
	"unicode/utf16"
)

const (
	HeaderFingerprint    = "X-Fingerprint"
	HeaderScreen         = "X-Client-Screen"
	HeaderTimezoneOffset = "X-Client-Timezone-Offset"
	HeaderStorage        = "X-Client-Storage"
	HeaderCanvas         = "X-Client-Canvas"

	delimiter = "|"
)

type Screen struct {
	Width  int
	Height int
}

// Signals are the environment properties the browser reports. Zero values
// and nil pointers mean the signal was not available.
type Signals struct {
	UserAgent      string
	Language       string
	Screen         Screen
	TimezoneOffset *int
	SessionStorage *bool
	LocalStorage   *bool
	Canvas         string
}

// Generate hashes the joined signals. It never fails; missing signals
// contribute an empty segment.
func Generate(s Signals) string {
	return Hash(s.join())
}

func (s Signals) join() string {
	parts := []string{
		s.UserAgent,
		s.Language,
		"",
		"",
		formatBool(s.SessionStorage),
		formatBool(s.LocalStorage),
		s.Canvas,
	}
	if s.Screen.Width > 0 && s.Screen.Height > 0 {
		parts[2] = strconv.Itoa(s.Screen.Width) + "x" + strconv.Itoa(s.Screen.Height)
	}
	if s.TimezoneOffset != nil {
		parts[3] = strconv.Itoa(*s.TimezoneOffset)
	}
	return strings.Join(parts, delimiter)
}

// Hash is the rolling hash*31 + c over UTF-16 code units with 32-bit signed
// overflow, returned as the base-36 absolute value. Browsers compute the same
// value from the same string.
func Hash(input string) string {
	var hash int32
	for _, unit := range utf16.Encode([]rune(input)) {
		hash = hash*31 + int32(unit)
	}
	abs := int64(hash)
	if abs < 0 {
		abs = -abs
	}
	return strconv.FormatInt(abs, 36)
}

// FromRequest reads the signals a client forwards with its requests.
// Malformed headers are treated as absent.
func FromRequest(r *http.Request) Signals {
	s := Signals{
		UserAgent: r.UserAgent(),
		Language:  primaryLanguage(r.Header.Get("Accept-Language")),
		Screen:    parseScreen(r.Header.Get(HeaderScreen)),
		Canvas:    r.Header.Get(HeaderCanvas),
	}

	if v := strings.TrimSpace(r.Header.Get(HeaderTimezoneOffset)); v != "" {
		if offset, err := strconv.Atoi(v); err == nil {
			s.TimezoneOffset = &offset
		}
	}

	if v, ok := r.Header[http.CanonicalHeaderKey(HeaderStorage)]; ok {
		session, local := parseStorage(strings.Join(v, ","))
		s.SessionStorage = &session
		s.LocalStorage = &local
	}

	return s
}

// HasClientSignals reports whether the client forwarded at least one signal
// only a browser can read. User-Agent and Accept-Language do not count: every
// HTTP client sends them.
func (s Signals) HasClientSignals() bool {
	return s.Screen != (Screen{}) ||
		s.TimezoneOffset != nil ||
		s.SessionStorage != nil ||
		s.LocalStorage != nil ||
		s.Canvas != ""
}

// Resolve prefers a fingerprint the client already computed and falls back
// to hashing the forwarded signals. It returns "" when the client sent
// neither, so callers without an identity are never merged into one.
func Resolve(r *http.Request) string {
	if fp := strings.TrimSpace(r.Header.Get(HeaderFingerprint)); fp != "" {
		return fp
	}
	s := FromRequest(r)
	if !s.HasClientSignals() {
		return ""
	}
	return Generate(s)
}

func primaryLanguage(header string) string {
	if header == "" {
		return ""
	}
	first := strings.SplitN(header, ",", 2)[0]
	return strings.TrimSpace(strings.SplitN(first, ";", 2)[0])
}

func parseScreen(v string) Screen {
	w, h, ok := strings.Cut(strings.TrimSpace(v), "x")
	if !ok {
		return Screen{}
	}
	width, err := strconv.Atoi(w)
	if err != nil || width <= 0 {
		return Screen{}
	}
	height, err := strconv.Atoi(h)
	if err != nil || height <= 0 {
		return Screen{}
	}
	return Screen{Width: width, Height: height}
}

func parseStorage(v string) (session, local bool) {
	for _, part := range strings.Split(v, ",") {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "session":
			session = true
		case "local":
			local = true
		}
	}
	return session, local
}

func formatBool(b *bool) string {
	if b == nil {
		return ""
	}
	return strconv.FormatBool(*b)
}
