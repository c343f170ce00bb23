package slog_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/awisniewski/boxprice"
	"github.com/awisniewski/boxprice/mock"
	boxslog "github.com/awisniewski/boxprice/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingListingService_Load(t *testing.T) {
	t.Parallel()

	t.Run("logs load with count and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.ListingService{
			LoadFn: func(ctx context.Context, retailerKey string) ([]*boxprice.Listing, error) {
				return []*boxprice.Listing{{Retailer: retailerKey}, {Retailer: retailerKey}}, nil
			},
		}

		svc := boxslog.NewLoggingListingService(inner, logger)
		listings, err := svc.Load(context.Background(), "famous")

		require.NoError(t, err)
		assert.Len(t, listings, 2)
		output := buf.String()
		assert.Contains(t, output, "listing store load")
		assert.Contains(t, output, "retailer=famous")
		assert.Contains(t, output, "count=2")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.ListingService{
			LoadFn: func(ctx context.Context, retailerKey string) ([]*boxprice.Listing, error) {
				return nil, boxprice.Errorf(boxprice.ENOTFOUND, "listing store %q not found", retailerKey)
			},
		}

		svc := boxslog.NewLoggingListingService(inner, logger)
		_, err := svc.Load(context.Background(), "ghost")

		require.Error(t, err)
		assert.Contains(t, buf.String(), "not found")
	})
}

func TestLoggingListingService_Delegation(t *testing.T) {
	t.Parallel()

	inner := &mock.ListingService{
		RetailersFn: func(ctx context.Context) ([]boxprice.Retailer, error) {
			return []boxprice.Retailer{{Key: "famous"}}, nil
		},
		ContentHashFn: func(ctx context.Context, retailerKey string) (uint64, error) {
			return 99, nil
		},
	}
	svc := boxslog.NewLoggingListingService(inner, slog.New(slog.NewTextHandler(io.Discard, nil)))

	retailers, err := svc.Retailers(context.Background())
	require.NoError(t, err)
	assert.Len(t, retailers, 1)

	hash, err := svc.ContentHash(context.Background(), "famous")
	require.NoError(t, err)
	assert.Equal(t, uint64(99), hash)
}
