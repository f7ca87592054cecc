package app

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/xenking/quickmart/internal/menu"
	"github.com/xenking/quickmart/internal/receipt"
	"github.com/xenking/quickmart/internal/session"
	"github.com/xenking/quickmart/internal/storage/flatfile"
)

// Telemetry provides the OpenTelemetry providers used by the session.
// *app.Telemetry implements it.
type Telemetry interface {
	MeterProvider() metric.MeterProvider
	TracerProvider() trace.TracerProvider
}

var _ Telemetry = (*app.Telemetry)(nil)

// Run opens the store session and drives it from standard input until the
// user exits. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	return run(ctx, lg, m, cfg, os.Stdin, os.Stdout)
}

func run(ctx context.Context, lg *zap.Logger, t Telemetry, cfg *Config, in io.Reader, out io.Writer) error {
	lg, closeLog, err := withErrorLog(lg, cfg.ErrorLog)
	if err != nil {
		return errors.Wrap(err, "open error log")
	}
	defer closeLog()

	ctx = zctx.Base(ctx, lg)
	lg.Info("Initializing",
		zap.String("inventory", cfg.Inventory),
		zap.String("receipt", cfg.Receipt),
	)

	s, err := session.Open(ctx,
		flatfile.NewInventoryRepository(cfg.Inventory),
		receipt.NewWriter(cfg.Receipt),
		session.Options{
			TransactionNo:        cfg.TransactionNo,
			AdvanceTransactionNo: cfg.AdvanceTransactionNo,
			RewardsMember:        cfg.RewardsMember,
			MeterProvider:        t.MeterProvider(),
			TracerProvider:       t.TracerProvider(),
		},
	)
	if err != nil {
		return errors.Wrap(err, "open session")
	}

	if err := menu.New(in, out, s).Run(ctx); err != nil {
		return errors.Wrap(err, "menu")
	}
	lg.Info("Bye")
	return nil
}

// withErrorLog tees warnings and errors of lg into a JSON log file at path.
// An empty path leaves lg unchanged.
func withErrorLog(lg *zap.Logger, path string) (*zap.Logger, func(), error) {
	if path == "" {
		return lg, func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, errors.Wrapf(err, "create dir for %s", path)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "open %s", path)
	}

	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(f),
		zapcore.WarnLevel,
	)
	teed := lg.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapcore.NewTee(c, fileCore)
	}))
	return teed, func() {
		_ = teed.Sync()
		_ = f.Close()
	}, nil
}
