package flatfile

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/renameio/v2"
	pgzip "github.com/klauspost/pgzip"
	"go.uber.org/zap"

	"github.com/xenking/quickmart/internal/domain/inventory"
)

const (
	gzExt    = ".gz"
	filePerm = 0o644
)

var _ inventory.Repository = (*InventoryRepository)(nil)

// InventoryRepository implements inventory.Repository on top of a single
// text file. Paths ending in ".gz" are read and written gzip-compressed.
type InventoryRepository struct {
	path string
}

// NewInventoryRepository returns an InventoryRepository for path.
func NewInventoryRepository(path string) *InventoryRepository {
	return &InventoryRepository{path: path}
}

func (r *InventoryRepository) compressed() bool {
	return strings.HasSuffix(r.path, gzExt)
}

// Load reads every record from the file.
func (r *InventoryRepository) Load(ctx context.Context) ([]inventory.Record, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", r.path)
	}
	defer func() { _ = f.Close() }()

	var src io.Reader = f
	if r.compressed() {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrapf(err, "create gzip reader for %s", r.path)
		}
		defer func() { _ = gz.Close() }()
		src = gz
	}

	records, err := Decode(src)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", r.path)
	}

	zctx.From(ctx).Debug("Inventory loaded",
		zap.String("path", r.path),
		zap.Int("records", len(records)),
	)
	return records, nil
}

// Save atomically replaces the file with records. An existing file keeps
// its permissions; a new one is created with filePerm.
func (r *InventoryRepository) Save(ctx context.Context, records []inventory.Record) error {
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "create dir %s", dir)
	}

	pf, err := renameio.NewPendingFile(r.path,
		renameio.WithPermissions(filePerm),
		renameio.WithExistingPermissions(),
	)
	if err != nil {
		return errors.Wrapf(err, "create pending file for %s", r.path)
	}
	defer func() { _ = pf.Cleanup() }()

	if err := r.write(pf, records); err != nil {
		return err
	}
	if err := pf.CloseAtomicallyReplace(); err != nil {
		return errors.Wrapf(err, "replace %s", r.path)
	}

	zctx.From(ctx).Debug("Inventory saved",
		zap.String("path", r.path),
		zap.Int("records", len(records)),
	)
	return nil
}

func (r *InventoryRepository) write(w io.Writer, records []inventory.Record) error {
	if !r.compressed() {
		if err := Encode(w, records); err != nil {
			return errors.Wrapf(err, "encode %s", r.path)
		}
		return nil
	}

	gz := pgzip.NewWriter(w)
	if err := Encode(gz, records); err != nil {
		_ = gz.Close()
		return errors.Wrapf(err, "encode %s", r.path)
	}
	if err := gz.Close(); err != nil {
		return errors.Wrapf(err, "flush gzip %s", r.path)
	}
	return nil
}
