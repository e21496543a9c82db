// Package cli holds the tvm-agent commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/spf13/cobra"

	"tvm-agent/config"
	"tvm-agent/report"
	"tvm-agent/repository"
	"tvm-agent/service"
)

type options struct {
	cfgFile string
}

// NewRootCommand builds the command tree. Without a subcommand it prints
// the PV and NPV rate scans.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "tvm-agent",
		Short: "Present value rate scans",
		Long: `tvm-agent prints the present value of an annuity over a fixed list of
candidate rates, then an NPV check over a second list, so the rate that
solves PV + PMT*annuity + FV/(1+i)^n = 0 can be read off by eye.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.cfgFile)
			if err != nil {
				return err
			}
			return runReport(cmd.Context(), cmd.OutOrStdout(), cfg)
		},
	}

	root.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (TOML)")

	root.AddCommand(
		newPVCommand(),
		newServeCommand(opts),
		newVersionCommand(),
	)

	return root
}

func Execute() error {
	return NewRootCommand().Execute()
}

func runReport(ctx context.Context, w io.Writer, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}

	svc, cleanup, err := buildScanService(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	params := cfg.ReportParams()

	pv, err := svc.ScanPV(ctx, params.PVScanInput())
	if err != nil {
		return fmt.Errorf("pv scan: %w", err)
	}
	npv, err := svc.ScanNPV(ctx, params.NPVScanInput())
	if err != nil {
		return fmt.Errorf("npv scan: %w", err)
	}

	return report.Write(w, params, pv, npv)
}

// buildScanService picks the store and cache backends named in cfg.
// An unreachable redis falls back to the memory cache.
func buildScanService(
	ctx context.Context,
	cfg *config.Config,
) (*service.ScanService, func(), error) {
	closers := []func() error{}
	cleanup := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				log.Printf("Warning: close failed: %v", err)
			}
		}
	}

	var repo repository.ScanRepository
	switch cfg.Store.Backend {
	case config.StoreSQLite:
		sqliteRepo, err := repository.NewScanRepositorySQLite(cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open scan store: %w", err)
		}
		closers = append(closers, sqliteRepo.Close)
		repo = sqliteRepo
	default:
		repo = repository.NewScanRepositoryMemory()
	}

	var cache repository.CacheRepository = repository.NewMemoryCache()
	if cfg.Cache.Backend == config.CacheRedis {
		redisCache := repository.NewRedisCache(cfg.Cache.RedisAddr, cfg.Cache.TTL.Duration)

		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := redisCache.Ping(pingCtx)
		cancel()

		if err != nil {
			log.Printf("Warning: redis at %s unavailable, using memory cache: %v", cfg.Cache.RedisAddr, err)
			redisCache.Close()
		} else {
			closers = append(closers, redisCache.Close)
			cache = redisCache
		}
	}

	return service.NewScanService(repo, cache), cleanup, nil
}
