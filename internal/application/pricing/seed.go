package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gcc-cost-api/internal/domain"
)

// CityCostWriter accepts city cost rows during seeding.
type CityCostWriter interface {
	Put(ctx context.Context, c *domain.CityCost) error
}

// PlanRateWriter accepts plan rate rows during seeding.
type PlanRateWriter interface {
	Put(ctx context.Context, r *domain.PlanRate) error
}

// ObjectFetcher downloads a remote seed document.
type ObjectFetcher interface {
	Download(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

// LoadDataset reads the pricing seed document from uri. A uri of the form
// s3://bucket/key is fetched through fetch; anything else is treated as a
// local file path.
func LoadDataset(ctx context.Context, uri string, fetch ObjectFetcher) (*domain.PricingDataset, error) {
	var r io.ReadCloser
	if bucket, key, ok := strings.Cut(strings.TrimPrefix(uri, "s3://"), "/"); ok && strings.HasPrefix(uri, "s3://") {
		if fetch == nil {
			return nil, fmt.Errorf("s3 uri %q but no object fetcher configured", uri)
		}
		var err error
		r, err = fetch.Download(ctx, bucket, key)
		if err != nil {
			return nil, fmt.Errorf("fetch pricing dataset: %w", err)
		}
	} else {
		f, err := os.Open(uri)
		if err != nil {
			return nil, fmt.Errorf("open pricing dataset: %w", err)
		}
		r = f
	}
	defer r.Close()

	var ds domain.PricingDataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return nil, fmt.Errorf("decode pricing dataset: %w", err)
	}
	if len(ds.CityCosts) == 0 || len(ds.PlanRates) == 0 {
		return nil, fmt.Errorf("pricing dataset is incomplete: %d city costs, %d plan rates",
			len(ds.CityCosts), len(ds.PlanRates))
	}
	return &ds, nil
}

// Seed writes every row of the dataset into the pricing stores. Existing
// rows with the same keys are overwritten.
func Seed(ctx context.Context, ds *domain.PricingDataset, cities CityCostWriter, rates PlanRateWriter) error {
	for i := range ds.CityCosts {
		if err := cities.Put(ctx, &ds.CityCosts[i]); err != nil {
			return fmt.Errorf("seed city cost %s: %w", ds.CityCosts[i].City, err)
		}
	}
	for i := range ds.PlanRates {
		if err := rates.Put(ctx, &ds.PlanRates[i]); err != nil {
			return fmt.Errorf("seed plan rate %s: %w", ds.PlanRates[i].RangeID, err)
		}
	}
	return nil
}
