package container

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"strings"

	"rapydo/internal/constants"
	"rapydo/internal/errors"
	"rapydo/internal/logger"
	"rapydo/internal/validation"
)

// Registry talks to the private docker registry used in swarm mode
type Registry struct {
	host     string
	port     int
	username string
	password string
	scheme   string
	client   *http.Client
}

// RegistryOption customises a Registry
type RegistryOption func(*Registry)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(client *http.Client) RegistryOption {
	return func(r *Registry) {
		r.client = client
	}
}

// NewRegistry creates a registry client. The registry usually runs
// with a self-signed certificate, so TLS verification is disabled.
func NewRegistry(host string, port int, username, password string, opts ...RegistryOption) *Registry {
	r := &Registry{
		host:     host,
		port:     port,
		username: username,
		password: password,
		scheme:   "https",
		client: &http.Client{
			Timeout: constants.RegistryRequestTimeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec
			},
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Address returns host:port
func (r *Registry) Address() string {
	return net.JoinHostPort(r.host, fmt.Sprintf("%d", r.port))
}

// Ping probes the registry port once with a short timeout
func (r *Registry) Ping(ctx context.Context) error {
	dialer := net.Dialer{Timeout: constants.RegistryPingTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", r.Address())
	if err != nil {
		return errors.RegistryUnreachable(r.Address(), err)
	}
	return conn.Close()
}

// ImageExists looks up the manifest of image in the registry
func (r *Registry) ImageExists(ctx context.Context, image string) (bool, error) {
	if err := validation.ImageReference(image); err != nil {
		return false, err
	}
	repository, tag := SplitImage(image)
	return r.ManifestExists(ctx, repository, tag)
}

// ManifestExists returns true when the registry answers 200 for the
// manifest of repository:tag. A 401 is fatal; any other status means
// the image is missing.
func (r *Registry) ManifestExists(ctx context.Context, repository, tag string) (bool, error) {
	url := fmt.Sprintf("%s://%s/v2/%s/manifests/%s", r.scheme, r.Address(), repository, tag)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, errors.InternalError("building registry request", err)
	}
	req.SetBasicAuth(r.username, r.password)
	req.Header.Set("Accept", constants.ManifestV2MediaType)

	resp, err := r.client.Do(req)
	if err != nil {
		return false, &ContainerError{
			Type:       ErrorTypeNetworkError,
			Operation:  "registry manifest",
			Image:      repository + ":" + tag,
			Message:    fmt.Sprintf("Registry %s request failed", r.Address()),
			Underlying: err,
		}
	}
	defer resp.Body.Close()

	logger.WithFields(logger.Fields{
		"url":    url,
		"status": resp.StatusCode,
	}).Debug("Registry manifest lookup")

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusUnauthorized:
		return false, errors.RegistryAccessDenied(fmt.Sprintf("%s://%s", r.scheme, r.Address()))
	default:
		return false, nil
	}
}

// SplitImage separates repository and tag; the tag defaults to latest.
// A colon belonging to a registry port is not a tag separator.
func SplitImage(image string) (string, string) {
	idx := strings.LastIndex(image, ":")
	if idx < 0 || strings.Contains(image[idx+1:], "/") {
		return image, "latest"
	}
	return image[:idx], image[idx+1:]
}
