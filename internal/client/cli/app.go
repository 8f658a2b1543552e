package cli

import (
	"bufio"
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/carpool/internal/client/api"
	"github.com/dmitrijs2005/carpool/internal/client/config"
	clientmodels "github.com/dmitrijs2005/carpool/internal/client/models"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config  *config.Config
	api     *api.Client
	session clientmodels.Session
	reader  *bufio.Reader
	out     io.Writer

	modeMu sync.Mutex
	mode   Mode
}

func NewApp(c *config.Config) (*App, error) {
	client, err := api.New(c.ServerURL, c.RequestTimeout)
	if err != nil {
		return nil, err
	}
	return newApp(c, client, os.Stdin, os.Stdout), nil
}

func newApp(c *config.Config, client *api.Client, in io.Reader, out io.Writer) *App {
	return &App{config: c, api: client, reader: bufio.NewReader(in), out: out}
}

func (a *App) isLoggedIn() bool {
	return a.session.LoggedIn()
}

func (a *App) Mode() Mode {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.modeMu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.modeMu.Unlock()

	if changed {
		a.printf("Switched to %s mode\n", mode)
	}
}

func (a *App) getStatus() string {
	s := a.session.Email()
	if m := a.Mode(); m != "" {
		if s != "" {
			s += " "
		}
		s += string(m)
	}
	if s != "" {
		s = "(" + s + ")"
	}
	return s
}

// Run checks connectivity once, starts the watcher and blocks in the REPL.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.probe(ctx)
	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	a.println("Welcome to the campus carpool CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))
}

func (a *App) probe(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := a.api.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

// StartOnlineStatusWatcher pings the server every interval until ctx ends.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.probe(ctx)
		case <-ctx.Done():
			return
		}
	}
}
