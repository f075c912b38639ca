// Command catalog-import bulk-loads supplier product feeds into the catalog.
//
// A feed is a gzip-compressed JSONL file, one product per line. Feeds from
// several suppliers overlap, so product IDs already imported in this run are
// skipped with a bloom filter; the first feed to mention an ID wins.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/cardboardcraft/storefront/internal/domain/product"
	"github.com/cardboardcraft/storefront/internal/repository"
)

const (
	bloomCapacity = 10_000_000
	bloomFPR      = 0.001
	progressEvery = 10_000
)

type feedProduct struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	InStock     bool            `json:"in_stock"`
}

func (p feedProduct) toProduct() product.Product {
	return product.Product{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price.Mul(decimal.NewFromInt(100)).IntPart(),
		ImageURL:    p.ImageURL,
		Description: p.Description,
		Category:    p.Category,
		InStock:     p.InStock,
	}
}

func main() {
	var (
		dataDir     string
		databaseURL string
	)

	flag.StringVar(&dataDir, "data-dir", "data", "directory containing *.jsonl.gz feed files")
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, dataDir, databaseURL); err != nil {
		slog.Error("catalog import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog import completed successfully")
}

func run(ctx context.Context, dataDir, databaseURL string) error {
	files, err := filepath.Glob(filepath.Join(dataDir, "*.jsonl.gz"))
	if err != nil {
		return errors.Wrap(err, "list feed files")
	}
	if len(files) == 0 {
		return errors.Errorf("no *.jsonl.gz feed files in %s", dataDir)
	}

	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	repo := repository.NewProductRepository(pool)

	// Readers stream feeds concurrently; a single writer dedupes and
	// upserts so the bloom filter needs no locking.
	products := make(chan product.Product, 256)

	g, gctx := errgroup.WithContext(ctx)

	readers, rctx := errgroup.WithContext(gctx)
	for _, f := range files {
		readers.Go(streamFeed(rctx, f, products))
	}
	g.Go(func() error {
		defer close(products)
		return readers.Wait()
	})
	g.Go(writeProducts(ctx, repo, products))

	return g.Wait()
}

// streamFeed decodes one gzip-compressed JSONL feed and sends each product
// to out.
func streamFeed(ctx context.Context, path string, out chan<- product.Product) func() error {
	return func() error {
		f, err := os.Open(path)
		if err != nil {
			return errors.Wrapf(err, "open %s", path)
		}
		defer func() { _ = f.Close() }()

		gz, err := pgzip.NewReader(f)
		if err != nil {
			return errors.Wrapf(err, "create gzip reader for %s", path)
		}
		defer func() { _ = gz.Close() }()

		var count uint64
		scanner := bufio.NewScanner(gz)
		for scanner.Scan() {
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}

			var fp feedProduct
			if err := json.Unmarshal(line, &fp); err != nil {
				return errors.Wrapf(err, "parse %s line %d", path, count+1)
			}
			count++

			select {
			case out <- fp.toProduct():
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err := scanner.Err(); err != nil {
			return errors.Wrapf(err, "scan %s", path)
		}

		slog.Info("feed complete", slog.String("file", filepath.Base(path)), slog.Uint64("products", count))
		return nil
	}
}

// writeProducts upserts products from the channel, skipping IDs already
// seen in this run.
func writeProducts(ctx context.Context, repo *repository.ProductRepository, in <-chan product.Product) func() error {
	return func() error {
		filter := bloom.NewWithEstimates(bloomCapacity, bloomFPR)

		var written, skipped uint64
		buf := make([]byte, 8)
		for p := range in {
			for i := range buf {
				buf[i] = byte(p.ID >> (8 * i))
			}
			if filter.TestOrAdd(buf) {
				skipped++
				continue
			}

			if err := repo.Upsert(ctx, p); err != nil {
				return errors.Wrapf(err, "upsert product %d", p.ID)
			}
			written++

			if written%progressEvery == 0 {
				slog.Info("import progress", slog.Uint64("written", written), slog.Uint64("skipped", skipped))
			}
		}

		slog.Info("import complete", slog.Uint64("written", written), slog.Uint64("skipped", skipped))
		return nil
	}
}
