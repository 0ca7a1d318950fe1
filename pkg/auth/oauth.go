package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const (
	// ClientSecretsFile is the Google API credentials.json downloaded from the
	// Cloud Console, expected in the config directory.
	ClientSecretsFile = "credentials.json"

	// TokenFile caches the user's access and refresh token in the config directory.
	TokenFile = "token.json"

	// LocalhostAuthPort is where the local server listens for the OAuth redirect.
	LocalhostAuthPort = "6789"

	authTimeout = 5 * time.Minute

	xdgAppName = "timecoach"
)

// Scopes are the permissions requested. Busy blocks only need read access.
var Scopes = []string{calendar.CalendarReadonlyScope}

// Authenticator runs the installed-app OAuth flow against files in Dir.
type Authenticator struct {
	Dir string
	Log zerolog.Logger
}

// New returns an Authenticator rooted at the default config directory.
func New(log zerolog.Logger) (*Authenticator, error) {
	dir, err := GetXdgHome()
	if err != nil {
		return nil, err
	}
	return &Authenticator{Dir: dir, Log: log}, nil
}

func (a *Authenticator) TokenPath() string {
	return filepath.Join(a.Dir, TokenFile)
}

// GetConfig creates an oauth2.Config from the client secrets file.
func (a *Authenticator) GetConfig(scopes []string) (*oauth2.Config, error) {
	clientSecretsFile := filepath.Join(a.Dir, ClientSecretsFile)
	b, err := os.ReadFile(clientSecretsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read client secret file %s: %w", clientSecretsFile, err)
	}

	config, err := google.ConfigFromJSON(b, scopes...)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file to config: %w", err)
	}
	config.RedirectURL = a.redirectURL(config.RedirectURL)
	return config, nil
}

// redirectURL pins localhost and out-of-band redirects to LocalhostAuthPort so
// they match the listener started by getTokenFromWeb.
func (a *Authenticator) redirectURL(configured string) string {
	if configured == "urn:ietf:wg:oauth:2.0:oob" || configured == "" {
		u := fmt.Sprintf("http://localhost:%s/oauth2callback", LocalhostAuthPort)
		a.Log.Debug().Str("redirect_url", u).Msg("overriding out-of-band redirect")
		return u
	}

	parsedURL, err := url.Parse(configured)
	if err != nil {
		a.Log.Warn().Err(err).Str("redirect_url", configured).Msg("could not parse redirect URL, using it as is")
		return configured
	}
	if parsedURL.Hostname() != "localhost" && parsedURL.Hostname() != "127.0.0.1" {
		a.Log.Warn().Str("redirect_url", configured).Msg("redirect URL is not a localhost callback")
		return configured
	}
	if parsedURL.Port() != LocalhostAuthPort {
		if parsedURL.Port() != "" {
			a.Log.Warn().Str("port", parsedURL.Port()).Str("want", LocalhostAuthPort).Msg("forcing localhost redirect port")
		}
		parsedURL.Host = net.JoinHostPort(parsedURL.Hostname(), LocalhostAuthPort)
	}
	return parsedURL.String()
}

// Client returns an authenticated *http.Client. It loads the cached token,
// lets oauth2 refresh it when expired, or runs the web flow when there is none.
func (a *Authenticator) Client(ctx context.Context, scopes []string) (*http.Client, error) {
	config, err := a.GetConfig(scopes)
	if err != nil {
		return nil, err
	}

	tokenFile := a.TokenPath()
	tok, err := tokenFromFile(tokenFile)
	if err != nil {
		a.Log.Info().Str("path", tokenFile).Msg("no cached token, starting web authorization")
		tok, err = a.getTokenFromWeb(ctx, config)
		if err != nil {
			return nil, fmt.Errorf("failed to get token from web: %w", err)
		}
		if err := saveToken(tokenFile, tok); err != nil {
			return nil, err
		}
	}

	src := config.TokenSource(ctx, tok)
	current, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("token refresh failed: %w", err)
	}
	if current.AccessToken != tok.AccessToken || current.RefreshToken != tok.RefreshToken {
		a.Log.Debug().Msg("token refreshed, updating cache")
		if err := saveToken(tokenFile, current); err != nil {
			a.Log.Warn().Err(err).Msg("could not update cached token")
		}
	}
	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(current, src)), nil
}

// Reset removes the cached token so the next Client call re-authorizes.
func (a *Authenticator) Reset() error {
	err := os.Remove(a.TokenPath())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("could not delete token file %s: %w", a.TokenPath(), err)
	}
	if err == nil {
		a.Log.Info().Str("path", a.TokenPath()).Msg("removed cached token")
	}
	return nil
}

// CalendarService creates an authenticated Google Calendar service.
func (a *Authenticator) CalendarService(ctx context.Context) (*calendar.Service, error) {
	client, err := a.Client(ctx, Scopes)
	if err != nil {
		return nil, fmt.Errorf("failed to get authenticated client for Calendar API: %w", err)
	}
	srv, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve Google Calendar service: %w", err)
	}
	return srv, nil
}

// getTokenFromWeb runs the authorization code flow through a local server
// that captures the redirect.
func (a *Authenticator) getTokenFromWeb(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error) {
	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	listener, err := net.Listen("tcp", net.JoinHostPort("localhost", LocalhostAuthPort))
	if err != nil {
		return nil, fmt.Errorf("failed to start listener on port %s: %w", LocalhostAuthPort, err)
	}
	defer listener.Close()

	state := fmt.Sprintf("timecoach-%d", time.Now().UnixNano())
	server := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("state") != state {
				http.Error(w, "State mismatch", http.StatusBadRequest)
				return
			}
			code := r.URL.Query().Get("code")
			if code == "" {
				http.Error(w, "Authorization code not found", http.StatusBadRequest)
				select {
				case errCh <- errors.New("authorization code not found in redirect URL"):
				default:
				}
				return
			}
			fmt.Fprintf(w, "Authentication successful! You can close this window.")
			select {
			case codeCh <- code:
			default:
			}
		}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  15 * time.Second,
	}
	defer server.Close()

	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			select {
			case errCh <- fmt.Errorf("HTTP server error: %w", err):
			default:
			}
		}
	}()

	// AccessTypeOffline makes Google return a refresh token.
	authURL := config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
	fmt.Fprintf(os.Stderr, "Open the following URL in your browser to authorize timecoach:\n%s\n", authURL)
	a.Log.Info().Str("redirect_url", config.RedirectURL).Msg("waiting for authorization code")

	timer := time.NewTimer(authTimeout)
	defer timer.Stop()

	select {
	case authCode := <-codeCh:
		exCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		tok, err := config.Exchange(exCtx, authCode)
		if err != nil {
			return nil, fmt.Errorf("unable to retrieve token from Google: %w", err)
		}
		return tok, nil
	case err := <-errCh:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, errors.New("authorization timed out, please try again")
	}
}

// tokenFromFile reads an oauth2.Token from a JSON file.
func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("failed to decode token from file %s: %w", file, err)
	}
	return tok, nil
}

// saveToken writes an oauth2.Token to a JSON file readable by the owner only.
func saveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("could not create token directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to cache OAuth token to %s: %w", path, err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}

func GetXdgHome() (string, error) {
	xdgHome, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(xdgHome, ".config", xdgAppName), nil
}
