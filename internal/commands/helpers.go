package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/config"
	"github.com/tally-dev/tally/internal/events"
	"github.com/tally-dev/tally/internal/events/kafka"
	"github.com/tally-dev/tally/internal/posting"
	"github.com/tally-dev/tally/internal/projection"
	"github.com/tally-dev/tally/internal/reconcile"
	"github.com/tally-dev/tally/internal/registry"
	"github.com/tally-dev/tally/internal/store"
	"github.com/tally-dev/tally/internal/store/sqlite"
)

// env bundles the configured services for one command invocation.
type env struct {
	cfg    *config.Config
	store  store.Store
	reg    *registry.Service
	poster *posting.Service
	proj   *projection.Service
}

// openEnv loads configuration, opens the store and builds the services.
// Environment variables override tally.yaml: TALLY_DB for the database
// path, TALLY_KAFKA_BROKERS (comma-separated) for event publishing.
func openEnv(ctx context.Context, configPath string) (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	dbPath := cfg.Storage.Path
	if override := os.Getenv("TALLY_DB"); override != "" {
		dbPath = override
	}
	brokers := cfg.Events.Brokers
	if override := os.Getenv("TALLY_KAFKA_BROKERS"); override != "" {
		brokers = strings.Split(override, ",")
	}

	st, err := sqlite.Open(dbPath)
	if err != nil {
		return nil, err
	}
	if err := st.Setup(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}

	var pub events.Publisher = events.NopPublisher{}
	if len(brokers) > 0 {
		topic := cfg.Events.Topic
		if topic == "" {
			topic = "tally.transactions"
		}
		pub = kafka.NewPublisher(brokers, topic)
	}

	return &env{
		cfg:    cfg,
		store:  st,
		reg:    registry.NewService(st),
		poster: posting.NewService(st, posting.WithPublisher(pub)),
		proj:   projection.NewService(st),
	}, nil
}

func (e *env) close() {
	_ = e.store.Close()
}

// tolerance returns the configured trial-balance tolerance.
func (e *env) tolerance() decimal.Decimal {
	raw := e.cfg.Ledger.TrialBalanceTolerance
	if raw == "" {
		return reconcile.DefaultTolerance
	}
	tol, err := decimal.NewFromString(raw)
	if err != nil {
		return reconcile.DefaultTolerance
	}
	return tol
}

// formatAmount renders a decimal with two places for table output.
func formatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// accountByCode resolves a user-supplied account code.
func (e *env) accountByCode(ctx context.Context, code string) (string, error) {
	acct, err := e.reg.GetByCode(ctx, code)
	if err != nil {
		return "", fmt.Errorf("account %q: %w", code, err)
	}
	return acct.ID, nil
}
