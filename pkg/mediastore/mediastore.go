// Package mediastore uploads acquired images to the media host and
// returns the public URL they are served from.
package mediastore

import (
	"context"
	"io"
	"net"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/jlaffaye/ftp"
	"github.com/rotisserie/eris"
)

// Store uploads remote content into object storage.
type Store interface {
	// Upload fetches sourceURL and stores it under destName, returning
	// the public URL of the stored object.
	Upload(ctx context.Context, sourceURL, destName string) (string, error)
}

// FTPStore implements Store against an FTP media host fronted by a
// public HTTP base URL.
type FTPStore struct {
	addr      string // host:port
	user      string
	pass      string
	remoteDir string
	publicURL string
	timeout   time.Duration
	http      *http.Client
}

// Option configures the FTPStore.
type Option func(*FTPStore)

// WithTimeout sets the FTP dial timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *FTPStore) {
		s.timeout = d
	}
}

// WithHTTPClient overrides the http.Client used to fetch source URLs.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *FTPStore) {
		s.http = hc
	}
}

// NewFTPStore creates a Store uploading to addr under remoteDir. The
// returned public URLs are publicURL/remoteDir/destName.
func NewFTPStore(addr, user, pass, remoteDir, publicURL string, opts ...Option) *FTPStore {
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(addr, "21")
	}
	s := &FTPStore{
		addr:      addr,
		user:      user,
		pass:      pass,
		remoteDir: strings.Trim(remoteDir, "/"),
		publicURL: strings.TrimRight(publicURL, "/"),
		timeout:   30 * time.Second,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *FTPStore) Upload(ctx context.Context, sourceURL, destName string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return "", eris.Wrap(err, "mediastore: build fetch request")
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "mediastore: fetch source")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", eris.Errorf("mediastore: fetch source returned %d", resp.StatusCode)
	}

	if err := s.store(ctx, resp.Body, destName); err != nil {
		return "", err
	}

	return s.publicURL + "/" + path.Join(s.remoteDir, destName), nil
}

func (s *FTPStore) store(ctx context.Context, r io.Reader, destName string) error {
	conn, err := ftp.Dial(s.addr, ftp.DialWithContext(ctx), ftp.DialWithTimeout(s.timeout))
	if err != nil {
		return eris.Wrapf(err, "mediastore: dial %s", s.addr)
	}
	defer conn.Quit() //nolint:errcheck

	if err := conn.Login(s.user, s.pass); err != nil {
		return eris.Wrap(err, "mediastore: login")
	}

	if s.remoteDir != "" {
		// MakeDir fails if the directory exists; that is fine.
		_ = conn.MakeDir(s.remoteDir)
		if err := conn.ChangeDir(s.remoteDir); err != nil {
			return eris.Wrapf(err, "mediastore: chdir %s", s.remoteDir)
		}
	}

	if err := conn.Stor(destName, r); err != nil {
		return eris.Wrapf(err, "mediastore: store %s", destName)
	}
	return nil
}
