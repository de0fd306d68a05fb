// snag-frenzy-server hosts claw machine cabinets over SSH, one private
// cabinet per connection, and the custom prize API over HTTP. Build:
//
//	go build -o snag-frenzy-server ./cmd/server
//
// Usage:
//
//	./snag-frenzy-server [--config snag.yaml] [--env .env]
//
// Play from any terminal:
//
//	ssh -p 2222 localhost
package main

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"
	"unicode"
	"unicode/utf8"

	"snag-frenzy/internal/app"
	"snag-frenzy/internal/config"
	"snag-frenzy/internal/game"
	internalssh "snag-frenzy/internal/ssh"

	"github.com/gdamore/tcell/v2"
	gossh "github.com/gliderlabs/ssh"
	"github.com/rs/zerolog"
	xssh "golang.org/x/crypto/ssh"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML tuning file (optional)")
	envPath := flag.String("env", ".env", "Path to a .env file (optional)")
	flag.Parse()

	if err := run(*configPath, *envPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, envPath string) error {
	if err := config.LoadEnv(envPath); err != nil {
		return err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log := config.NewConsoleLogger(cfg.LogLevel, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sp := app.NewServiceProvider(cfg, log)
	defer sp.Close()

	signer, err := loadOrCreateHostKey(cfg.HostKey, log)
	if err != nil {
		return err
	}

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           sp.Router(ctx),
		ReadHeaderTimeout: 10 * time.Second,
	}
	h := &sessionHandler{sp: sp, log: log}
	sshSrv := &gossh.Server{
		Addr:    cfg.SSHAddr,
		Handler: h.handleSession,
		// Accept PTY requests from any client.
		PtyCallback: func(_ gossh.Context, _ gossh.Pty) bool { return true },
		// No authentication: every visitor gets a cabinet.
		HostSigners: []gossh.Signer{signer},
	}

	errCh := make(chan error, 2)
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("prize API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http: %w", err)
		}
	}()
	go func() {
		log.Info().Str("addr", cfg.SSHAddr).Msgf("cabinets open: ssh -p %s localhost", port(cfg.SSHAddr))
		if err := sshSrv.ListenAndServe(); err != nil && !errors.Is(err, gossh.ErrServerClosed) {
			errCh <- fmt.Errorf("ssh: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(shutdownCtx)
	_ = sshSrv.Shutdown(shutdownCtx)
	return err
}

func port(addr string) string {
	if i := strings.LastIndexByte(addr, ':'); i >= 0 {
		return addr[i+1:]
	}
	return addr
}

// ─── sessions ───────────────────────────────────────────────────────────────

// sessionHandler gives each SSH connection its own screen and cabinet. A
// player's collection is kept under their SSH user name.
type sessionHandler struct {
	sp  *app.ServiceProvider
	log zerolog.Logger
}

// handleSession is the gliderlabs SSH handler for one connection.
// It blocks for the duration of the connection so the SSH session stays open.
func (h *sessionHandler) handleSession(s gossh.Session) {
	pty, winCh, hasPTY := s.Pty()
	if !hasPTY {
		fmt.Fprintln(s, "Snag Frenzy needs a PTY. Connect with: ssh -t -p 2222 <host>")
		return
	}

	term := "xterm-256color"
	if allowedTerms[pty.Term] {
		term = pty.Term
	}
	player := sanitizeName(s.User())
	log := h.log.With().Str("player", player).Str("remote", s.RemoteAddr().String()).Logger()

	// TERM must be set in the process environment before NewTerminfoScreenFromTty.
	tty := internalssh.NewSessionTty(s, pty, winCh)
	termMu.Lock()
	_ = os.Setenv("TERM", term)
	screen, err := tcell.NewTerminfoScreenFromTty(tty)
	termMu.Unlock()
	if err != nil {
		fmt.Fprintf(s, "Terminal setup failed: %v\n", err)
		return
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(s, "Screen init failed: %v\n", err)
		return
	}

	dir := h.sp.PlayerDir(playerDir(player))
	ledger, release := h.sp.Ledger(dir)
	defer release()
	runner := h.sp.NewCabinet(s.Context(), app.CabinetDeps{
		Ledger:   ledger,
		Observer: game.NewJournal(dir, ledger, log),
		Logger:   log,
	})
	defer h.sp.Release(runner)

	game.New(screen, runner, log).Run(s.Context())
}

// termMu protects os.Setenv("TERM") around screen creation.
var termMu sync.Mutex

// allowedTerms are the TERM values passed through to terminfo; anything
// else falls back to xterm-256color.
var allowedTerms = map[string]bool{
	"xterm":                 true,
	"xterm-256color":        true,
	"screen":                true,
	"screen-256color":       true,
	"tmux":                  true,
	"tmux-256color":         true,
	"linux":                 true,
	"vt100":                 true,
	"vt220":                 true,
	"rxvt-unicode":          true,
	"rxvt-unicode-256color": true,
}

// maxNameBytes bounds a player name.
const maxNameBytes = 16

// sanitizeName drops control characters and truncates to maxNameBytes
// without splitting a rune.
func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r == utf8.RuneError || unicode.IsControl(r) || !unicode.IsPrint(r) {
			continue
		}
		if b.Len()+utf8.RuneLen(r) > maxNameBytes {
			break
		}
		b.WriteRune(r)
	}
	return b.String()
}

// playerDir turns a sanitized name into a single safe path element.
func playerDir(name string) string {
	name = strings.NewReplacer("/", "_", "\\", "_").Replace(name)
	if name == "" || name == "." || name == ".." {
		return "anon"
	}
	return name
}

// ─── host key ───────────────────────────────────────────────────────────────

// loadOrCreateHostKey loads a PEM private key from path, or generates and
// persists a new ed25519 key if the file is absent or unreadable.
func loadOrCreateHostKey(path string, log zerolog.Logger) (gossh.Signer, error) {
	if data, err := os.ReadFile(path); err == nil {
		if signer, err := xssh.ParsePrivateKey(data); err == nil {
			log.Info().Str("path", path).Msg("loaded host key")
			return signer, nil
		}
	}

	log.Info().Str("path", path).Msg("generating new ed25519 host key")
	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate host key: %w", err)
	}
	signer, err := xssh.NewSignerFromKey(key)
	if err != nil {
		return nil, fmt.Errorf("create signer: %w", err)
	}
	// Persist for next run (non-fatal if it fails).
	if pemBlock, err := xssh.MarshalPrivateKey(key, "snag-frenzy server"); err == nil {
		if err := os.WriteFile(path, pem.EncodeToMemory(pemBlock), 0o600); err != nil {
			log.Warn().Err(err).Msg("host key not saved")
		}
	}
	return signer, nil
}
