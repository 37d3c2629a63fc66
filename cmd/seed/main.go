package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	shopchatroot "github.com/nkrv/shopchat"
	"github.com/nkrv/shopchat/internal/config"
	"github.com/nkrv/shopchat/internal/domain"
	"github.com/nkrv/shopchat/internal/repository"
)

// seed loads a scraped product CSV into the catalog. Expected header:
// name,category,description,discounted_price,actual_price,
// discount_percentage,rating,rating_count,image_url,product_url
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	csvPath := flag.String("csv", "products.csv", "path to the product CSV file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	pool, err := repository.NewPool(ctx, cfg)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	migrationsFS, err := fs.Sub(shopchatroot.MigrationsFS, "migrations")
	if err != nil {
		slog.Error("failed to load embedded migrations", "error", err)
		os.Exit(1)
	}
	if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	f, err := os.Open(*csvPath)
	if err != nil {
		slog.Error("failed to open csv", "path", *csvPath, "error", err)
		os.Exit(1)
	}
	defer f.Close()

	products := repository.NewProductRepo(pool)
	count, err := load(ctx, products, f)
	if err != nil {
		slog.Error("seeding failed", "error", err)
		os.Exit(1)
	}
	slog.Info("catalog seeded", "products", count)
}

func load(ctx context.Context, repo *repository.ProductRepo, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}
	if _, ok := col["name"]; !ok {
		return 0, fmt.Errorf("csv has no 'name' column")
	}

	count := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, fmt.Errorf("read record: %w", err)
		}

		field := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		p := domain.Product{
			Name:               field("name"),
			Category:           field("category"),
			Description:        stripHTML(field("description")),
			DiscountedPrice:    parseNumber(field("discounted_price")),
			ActualPrice:        parseNumber(field("actual_price")),
			DiscountPercentage: parseNumber(field("discount_percentage")),
			Rating:             parseNumber(field("rating")),
			RatingCount:        int64(parseNumber(field("rating_count"))),
			ImageURL:           field("image_url"),
			ProductURL:         field("product_url"),
		}
		if p.Name == "" {
			continue
		}
		if err := repo.Insert(ctx, &p); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// stripHTML reduces scraped descriptions, which often carry leftover markup
// from the product page, to their text content.
func stripHTML(s string) string {
	if !strings.ContainsRune(s, '<') {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// parseNumber tolerates the formatting scraped price columns come with:
// currency symbols, thousands separators, percent signs.
func parseNumber(s string) float64 {
	s = strings.NewReplacer("₹", "", ",", "", "%", "", "|", "").Replace(s)
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
