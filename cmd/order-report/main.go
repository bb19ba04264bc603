package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Apurer/storefront-api/internal/app/api"
	accountspostgres "github.com/Apurer/storefront-api/internal/domains/accounts/adapters/persistence/postgres"
	accountsapp "github.com/Apurer/storefront-api/internal/domains/accounts/application"
	catalogpostgres "github.com/Apurer/storefront-api/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/Apurer/storefront-api/internal/domains/catalog/application"
	"github.com/Apurer/storefront-api/internal/domains/orders/adapters/directory"
	orderspostgres "github.com/Apurer/storefront-api/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/Apurer/storefront-api/internal/domains/orders/application"
	"github.com/Apurer/storefront-api/internal/domains/reports/adapters/xlsx"
	reportsdomain "github.com/Apurer/storefront-api/internal/domains/reports/domain"
	platformobservability "github.com/Apurer/storefront-api/internal/platform/observability"
	platformpostgres "github.com/Apurer/storefront-api/internal/platform/postgres"
)

var (
	dsn      string
	from     string
	to       string
	status   string
	outPath  string
	currency string
	timeout  time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "order-report",
	Short: "Export orders in a date range to an XLSX workbook",
	Long: `Builds the same spreadsheet as POST /api/admin/generate-report straight from
the database and writes it to disk.

Examples:
  order-report --from 2024-01-01 --to 2024-01-31
  order-report --from 2024-01-01 --to 2024-01-31 --status delivered --out ./reports`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().StringVar(&dsn, "dsn", "", "PostgreSQL DSN (defaults to POSTGRES_DSN)")
	rootCmd.Flags().StringVar(&from, "from", "", "First day of the period, YYYY-MM-DD or RFC 3339")
	rootCmd.Flags().StringVar(&to, "to", "", "Last day of the period, YYYY-MM-DD or RFC 3339")
	rootCmd.Flags().StringVar(&status, "status", "", "Only include orders with this delivery status")
	rootCmd.Flags().StringVarP(&outPath, "out", "o", ".", "Output file or directory")
	rootCmd.Flags().StringVar(&currency, "currency", "", "Currency label (defaults to STORE_CURRENCY)")
	rootCmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "Overall deadline")
	_ = rootCmd.MarkFlagRequired("from")
	_ = rootCmd.MarkFlagRequired("to")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runReport(ctx context.Context) error {
	if err := api.LoadEnvFile(); err != nil {
		return err
	}
	cfg, err := api.LoadConfig()
	if err != nil {
		return err
	}
	if strings.TrimSpace(dsn) == "" {
		dsn = cfg.PostgresDSN
	}
	if currency == "" {
		currency = cfg.Currency
	}
	filter, err := reportsdomain.ParseFilter(from, to, status)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	logger := platformobservability.NewLogger(os.Stderr, cfg.Observability("order-report"))
	db, cleanup := platformpostgres.Open(ctx, dsn, logger)
	defer cleanup()
	if db == nil {
		return errors.New("POSTGRES_DSN not set or connection failed; cannot build report")
	}

	service := ordersapp.NewService(
		orderspostgres.NewRepository(db),
		directory.NewCatalog(catalogapp.NewService(catalogpostgres.NewRepository(db))),
		directory.NewAccounts(accountsapp.NewService(accountspostgres.NewRepository(db))),
		ordersapp.WithReportCompiler(xlsx.NewCompiler(currency)),
		ordersapp.WithLogger(logger),
	)
	doc, err := service.GenerateReport(ctx, filter)
	if err != nil {
		return err
	}

	target, err := resolveTarget(outPath, doc.FileName)
	if err != nil {
		return err
	}
	if err := os.WriteFile(target, doc.Data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	fmt.Println(target)
	return nil
}

// resolveTarget places the file inside out when out is an existing directory.
func resolveTarget(out, fileName string) (string, error) {
	info, err := os.Stat(out)
	switch {
	case err == nil && info.IsDir():
		return filepath.Join(out, fileName), nil
	case err == nil, errors.Is(err, os.ErrNotExist):
		return out, nil
	default:
		return "", fmt.Errorf("inspect output path: %w", err)
	}
}
