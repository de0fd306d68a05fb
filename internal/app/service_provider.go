// Package app wires configuration, storage, the HTTP API and cabinets.
package app

import (
	"context"
	"path/filepath"
	"sync"

	"snag-frenzy/assets"
	"snag-frenzy/internal/api"
	"snag-frenzy/internal/config"
	"snag-frenzy/internal/game"
	"snag-frenzy/internal/inventory"
	"snag-frenzy/internal/prize"
	"snag-frenzy/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// ServiceProvider builds shared components on first use.
type ServiceProvider struct {
	cfg *config.Config
	log zerolog.Logger

	dataDir string
	store   store.Store
	pg      *store.PGStore
	handler *api.Handler
	router  chi.Router

	mu       sync.Mutex
	cabinets map[*game.Runner]struct{}
	ledgers  map[string]*sharedLedger
}

// sharedLedger is one player's collection and how many cabinets hold it.
type sharedLedger struct {
	ledger *inventory.Ledger
	refs   int
}

func NewServiceProvider(cfg *config.Config, log zerolog.Logger) *ServiceProvider {
	return &ServiceProvider{
		cfg:      cfg,
		log:      log,
		cabinets: make(map[*game.Runner]struct{}),
		ledgers:  make(map[string]*sharedLedger),
	}
}

// Config returns the loaded configuration.
func (sp *ServiceProvider) Config() *config.Config { return sp.cfg }

// DataDir is the configured data directory, or the per-user XDG one.
func (sp *ServiceProvider) DataDir() string {
	if sp.dataDir == "" {
		sp.dataDir = sp.cfg.DataDir
		if sp.dataDir == "" {
			dir, err := game.DataDir()
			if err != nil {
				sp.log.Warn().Err(err).Msg("no home directory, using ./data")
				dir = "data"
			}
			sp.dataDir = dir
		}
	}
	return sp.dataDir
}

// Store returns the Postgres store when DATABASE_URL is set and reachable,
// otherwise the JSON file store in the data directory.
func (sp *ServiceProvider) Store(ctx context.Context) store.Store {
	if sp.store == nil {
		if dsn := sp.cfg.DatabaseURL; dsn != "" {
			pg, err := store.Connect(ctx, dsn)
			if err == nil {
				sp.pg = pg
				sp.store = pg
				sp.log.Info().Msg("custom prizes in postgres")
				return sp.store
			}
			sp.log.Warn().Err(err).Msg("postgres unavailable, falling back to file store")
		}
		fs := store.NewFileStore(sp.DataDir(), sp.log)
		sp.log.Info().Str("path", fs.Path()).Msg("custom prizes in file")
		sp.store = fs
	}
	return sp.store
}

// Handler returns the API handler. Changes to custom prizes are pushed to
// every open cabinet.
func (sp *ServiceProvider) Handler(ctx context.Context) *api.Handler {
	if sp.handler == nil {
		sp.handler = api.NewHandler(api.HandlerDeps{
			Store:    sp.Store(ctx),
			Base:     assets.BasePrizes(),
			OnChange: sp.BroadcastCustom,
			Logger:   sp.log.With().Str("component", "api").Logger(),
		})
	}
	return sp.handler
}

// Router returns the HTTP router.
func (sp *ServiceProvider) Router(ctx context.Context) chi.Router {
	if sp.router == nil {
		sp.router = api.NewRouter(sp.Handler(ctx))
	}
	return sp.router
}

// CabinetDeps describes one player's cabinet.
type CabinetDeps struct {
	Ledger   *inventory.Ledger
	Observer game.Observer
	Logger   zerolog.Logger
}

// NewCabinet builds a runner from the configuration with the current custom
// prizes and registers it for custom prize updates. Call Release when done.
func (sp *ServiceProvider) NewCabinet(ctx context.Context, d CabinetDeps) *game.Runner {
	custom := store.LoadItems(ctx, sp.Store(ctx), sp.log)
	m := game.NewMachine(game.Deps{
		Settings: sp.cfg.Settings(),
		Base:     assets.BasePrizes(),
		Custom:   custom,
		Bin:      sp.cfg.BinConfig(sp.cfg.Rand(), d.Logger),
		Resolver: sp.cfg.Resolver(),
		Ledger:   d.Ledger,
		Rewards:  sp.cfg.RewardTable(),
		Observer: d.Observer,
		Logger:   d.Logger,
	})
	r := game.NewRunner(m)
	sp.mu.Lock()
	sp.cabinets[r] = struct{}{}
	sp.mu.Unlock()
	return r
}

// Release stops sending updates to r.
func (sp *ServiceProvider) Release(r *game.Runner) {
	sp.mu.Lock()
	delete(sp.cabinets, r)
	sp.mu.Unlock()
}

// Cabinets reports how many cabinets are open.
func (sp *ServiceProvider) Cabinets() int {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return len(sp.cabinets)
}

// BroadcastCustom hands a new custom pool to every open cabinet. Each takes
// it from its next bin.
func (sp *ServiceProvider) BroadcastCustom(_ context.Context, custom []prize.Item) {
	sp.mu.Lock()
	runners := make([]*game.Runner, 0, len(sp.cabinets))
	for r := range sp.cabinets {
		runners = append(runners, r)
	}
	sp.mu.Unlock()
	for _, r := range runners {
		r.SetCustom(custom)
	}
	sp.log.Debug().Int("cabinets", len(runners)).Int("custom", len(custom)).Msg("custom prizes updated")
}

// PlayerDir is where one player's collection and round log live.
func (sp *ServiceProvider) PlayerDir(name string) string {
	return filepath.Join(sp.DataDir(), "players", name)
}

// Ledger returns the collection saved in dir. Cabinets open at the same time
// for the same dir get the same Ledger, so one session's save never drops
// another's wins. Call release when the cabinet closes; the last release
// forgets the ledger and the next call loads it from disk again.
func (sp *ServiceProvider) Ledger(dir string) (ledger *inventory.Ledger, release func()) {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	sl, ok := sp.ledgers[dir]
	if !ok {
		sl = &sharedLedger{ledger: inventory.Load(game.InventoryPath(dir), sp.log)}
		sp.ledgers[dir] = sl
	}
	sl.refs++

	var once sync.Once
	return sl.ledger, func() {
		once.Do(func() {
			sp.mu.Lock()
			defer sp.mu.Unlock()
			if sl.refs--; sl.refs == 0 {
				delete(sp.ledgers, dir)
			}
		})
	}
}

// Close releases the database pool, if any.
func (sp *ServiceProvider) Close() {
	if sp.pg != nil {
		sp.pg.Close()
	}
}
