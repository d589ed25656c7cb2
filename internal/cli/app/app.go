// Package app wires the terminal client together: the API client, the
// on-disk cache holding the session and the profile selection, and the view
// models the commands drive.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"time"

	"babywords/internal/appctx"
	"babywords/internal/cli/config"
	"babywords/internal/client"
	"babywords/internal/viewmodel/report"
	"babywords/internal/viewmodel/selection"
	"babywords/internal/viewmodel/stats"
)

// KeySessionID is the cache key of the saved session
const KeySessionID = "sessionId"

// ErrSignedOut is returned by commands that need a session
var ErrSignedOut = errors.New("not signed in, run `babywords login` first")

// App is shared by every command
type App struct {
	Config    *config.Config
	Client    *client.Client
	Cache     selection.Cache
	Selection *selection.Store
}

// Open creates the cache directory and builds an App on top of it
func Open(cfg *config.Config) (*App, error) {
	if err := os.MkdirAll(cfg.CacheDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create cache dir: %w", err)
	}
	return New(cfg, selection.NewDiskCache(cfg.CacheDir))
}

// New builds an App and restores a saved session from cache
func New(cfg *config.Config, cache selection.Cache, opts ...client.Option) (*App, error) {
	c, err := client.New(cfg.APIBase, opts...)
	if err != nil {
		return nil, err
	}
	if id, ok := cache.Get(KeySessionID); ok && id != "" {
		c.UseSession(id)
	}
	return &App{
		Config:    cfg,
		Client:    c,
		Cache:     cache,
		Selection: selection.New(cache, c),
	}, nil
}

// SaveSession persists the client's current session
func (a *App) SaveSession() error {
	id := a.Client.SessionID()
	if id == "" {
		return a.Cache.Delete(KeySessionID)
	}
	return a.Cache.Set(KeySessionID, id)
}

// User returns the signed-in user or ErrSignedOut
func (a *App) User(ctx context.Context) (*appctx.User, error) {
	user, err := a.Client.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrSignedOut
	}
	return user, nil
}

// Session resolves the user and the active profile
func (a *App) Session(ctx context.Context) (appctx.Context, error) {
	user, err := a.User(ctx)
	if err != nil {
		return appctx.Context{}, err
	}
	profile, err := a.Selection.Resolve(ctx, user)
	if err != nil {
		return appctx.Context{User: user}, err
	}
	return appctx.Context{User: user, Profile: profile}, nil
}

// SignIn signs in with a password and saves the session
func (a *App) SignIn(ctx context.Context, email, password string) (*appctx.User, error) {
	user, err := a.Client.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return user, a.switchUser()
}

// Register creates an account and saves its session
func (a *App) Register(ctx context.Context, email, password, name string) (*appctx.User, error) {
	user, err := a.Client.Register(ctx, email, password, name)
	if err != nil {
		return nil, err
	}
	return user, a.switchUser()
}

// switchUser saves the new session and drops a selection that may belong to
// the previous account
func (a *App) switchUser() error {
	if err := a.Selection.Clear(); err != nil {
		return err
	}
	return a.SaveSession()
}

// SignInWithProvider runs the OAuth flow through the browser. It listens on
// a loopback port, hands the provider URL to open and waits for the server
// to redirect back with the session ID.
func (a *App) SignInWithProvider(ctx context.Context, provider string, open func(url string) error) (*appctx.User, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("failed to listen for the sign-in callback: %w", err)
	}

	sessions := make(chan string, 1)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /callback", func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("session")
		if id == "" {
			http.Error(w, "missing session", http.StatusBadRequest)
			return
		}
		fmt.Fprintln(w, "Signed in to Baby Words. You can close this tab.")
		select {
		case sessions <- id:
		default:
		}
	})
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Callback listener error: %v", err)
		}
	}()
	defer srv.Close()

	returnTo := fmt.Sprintf("http://%s/callback", ln.Addr().String())
	if err := open(a.Client.SignInWithProvider(provider, returnTo)); err != nil {
		return nil, err
	}

	select {
	case id := <-sessions:
		a.Client.UseSession(id)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if err := a.switchUser(); err != nil {
		return nil, err
	}
	return a.User(ctx)
}

// SignOut clears the profile selection, then ends the session
func (a *App) SignOut(ctx context.Context) error {
	if err := a.Selection.Clear(); err != nil {
		return err
	}
	err := a.Client.SignOut(ctx)
	if delErr := a.Cache.Delete(KeySessionID); delErr != nil && err == nil {
		err = delErr
	}
	return err
}

// Report returns a word report view model backed by the API. It resets
// whenever the selected profile changes.
func (a *App) Report() *report.Model {
	vm := report.New(a.Client, report.WithFlash(a.Config.SavedFlash))
	a.Selection.OnChange(func(*appctx.Profile) { vm.Reset() })
	return vm
}

// Stats returns a dashboard view model backed by the API. It resets
// whenever the selected profile changes.
func (a *App) Stats() *stats.Model {
	vm := stats.New(a.Client)
	a.Selection.OnChange(func(*appctx.Profile) { vm.Reset() })
	return vm
}
