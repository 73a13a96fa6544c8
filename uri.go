package reldb

import (
	"net/url"
	"strconv"
	"time"
)

// URI is the parsed form of a connection string of the shape
// scheme://[user[:password]@]host[:port]/database[?key=value&...].
// The file scheme routes to the sqlite driver with the path after
// "://" as the database filename.
type URI struct {
	Scheme   string
	User     string
	Password string
	Host     string
	Port     string
	Database string
	Options  url.Values
}

// ParseURI parses a connection URI. A malformed URI is surfaced as a
// KindConnectionRefused Error carrying the parse failure as Cause, the
// same bucket a backend's own connect-time diagnostic lands in.
func ParseURI(raw string) (URI, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return URI{}, wrapErr(KindConnectionRefused, "malformed connection uri", raw, err)
	}
	if u.Scheme == "" {
		return URI{}, newErr(KindUnknownScheme, "uri has no scheme: "+raw)
	}

	out := URI{
		Scheme:  u.Scheme,
		Host:    u.Hostname(),
		Port:    u.Port(),
		Options: u.Query(),
	}

	if u.User != nil {
		out.User = u.User.Username()
		out.Password, _ = u.User.Password()
	}

	if u.Scheme == "file" {
		// file://path/to/db.sqlite — everything after the scheme is
		// the filename, not a host+path split.
		out.Database = u.Opaque
		if out.Database == "" {
			out.Database = u.Host + u.Path
		}
		return out, nil
	}

	if len(u.Path) > 0 {
		out.Database = u.Path[1:] // strip the leading '/'
	}
	return out, nil
}

// TimeoutOption returns the timeout=ms query option, or (0, false) if
// it was absent or unparseable.
func (u URI) TimeoutOption() (time.Duration, bool) {
	raw := u.Options.Get("timeout")
	if raw == "" {
		return 0, false
	}
	ms, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return time.Duration(ms) * time.Millisecond, true
}

// EnhancedParams reports whether params=enhanced was requested,
// enabling cross-style parameter rewriting in the Statement layer,
// and §4.4. Defaults to false ("native").
func (u URI) EnhancedParams() bool {
	return u.Options.Get("params") == "enhanced"
}

// SSLOption returns the ssl=require|disable query option, "" if absent.
func (u URI) SSLOption() string {
	return u.Options.Get("ssl")
}

// Charset returns the charset=... query option, "" if absent.
func (u URI) Charset() string {
	return u.Options.Get("charset")
}
