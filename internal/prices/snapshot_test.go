package prices

import (
	"testing"

	"github.com/dexlabs-io/dex-rewards-indexer/internal/clients/oracle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseAsset = "0x0000000000000000000000000000000001000000"

var testThresholds = Thresholds{
	MinBaseReserve:  100,
	MinTokenReserve: 100,
	MinUSDPrice:     0.0000001,
}

func TestBuildSnapshot(t *testing.T) {
	t.Parallel()

	t.Run("derives price from reserve ratio", func(t *testing.T) {
		pools := []oracle.Pool{
			{
				Address:   "0xpool1",
				Token1:    baseAsset,
				Token2:    "0xAAAA",
				Reserved1: 10_000, // base
				Reserved2: 1_000,  // token
			},
		}

		snapshot := BuildSnapshot(baseAsset, 0.5, pools, testThresholds)

		price, ok := snapshot.Price("0xaaaa")
		require.True(t, ok)
		// 10000/1000 * 0.5
		assert.InDelta(t, 5.0, price, 1e-9)
	})

	t.Run("base asset is always priced", func(t *testing.T) {
		snapshot := BuildSnapshot(baseAsset, 0.25, nil, testThresholds)

		price, ok := snapshot.Price(baseAsset)
		require.True(t, ok)
		assert.Equal(t, 0.25, price)
		assert.Equal(t, 1, snapshot.Len())
	})

	t.Run("base asset on either side of the pool", func(t *testing.T) {
		pools := []oracle.Pool{
			{
				Address:   "0xpool1",
				Token1:    "0xBBBB",
				Token2:    baseAsset,
				Reserved1: 500,
				Reserved2: 1_000,
			},
		}

		snapshot := BuildSnapshot(baseAsset, 1.0, pools, testThresholds)

		price, ok := snapshot.Price("0xbbbb")
		require.True(t, ok)
		assert.InDelta(t, 2.0, price, 1e-9)
	})

	t.Run("picks the pool with the deepest base reserve per token", func(t *testing.T) {
		pools := []oracle.Pool{
			{
				Address:   "0xshallow",
				Token1:    baseAsset,
				Token2:    "0xcccc",
				Reserved1: 200,
				Reserved2: 400, // ratio 0.5
			},
			{
				Address:   "0xdeep",
				Token1:    baseAsset,
				Token2:    "0xcccc",
				Reserved1: 50_000,
				Reserved2: 25_000, // ratio 2.0
			},
		}

		snapshot := BuildSnapshot(baseAsset, 1.0, pools, testThresholds)

		price, ok := snapshot.Price("0xcccc")
		require.True(t, ok)
		assert.InDelta(t, 2.0, price, 1e-9)
	})

	t.Run("ignores pools below reserve floors", func(t *testing.T) {
		pools := []oracle.Pool{
			{
				Address:   "0xthin",
				Token1:    baseAsset,
				Token2:    "0xdddd",
				Reserved1: 50, // below base floor
				Reserved2: 1_000,
			},
			{
				Address:   "0xdusty",
				Token1:    baseAsset,
				Token2:    "0xeeee",
				Reserved1: 1_000,
				Reserved2: 50, // below token floor
			},
		}

		snapshot := BuildSnapshot(baseAsset, 1.0, pools, testThresholds)

		_, ok := snapshot.Price("0xdddd")
		assert.False(t, ok)
		_, ok = snapshot.Price("0xeeee")
		assert.False(t, ok)
	})

	t.Run("discards prices below the USD floor", func(t *testing.T) {
		pools := []oracle.Pool{
			{
				Address:   "0xpool1",
				Token1:    baseAsset,
				Token2:    "0xffff",
				Reserved1: 101,
				Reserved2: 1e12,
			},
		}

		snapshot := BuildSnapshot(baseAsset, 0.0001, pools, testThresholds)

		_, ok := snapshot.Price("0xffff")
		assert.False(t, ok)
	})

	t.Run("pools without the base asset contribute nothing", func(t *testing.T) {
		pools := []oracle.Pool{
			{
				Address:   "0xpool1",
				Token1:    "0x1111",
				Token2:    "0x2222",
				Reserved1: 10_000,
				Reserved2: 10_000,
			},
		}

		snapshot := BuildSnapshot(baseAsset, 1.0, pools, testThresholds)

		assert.Equal(t, 1, snapshot.Len())
	})

	t.Run("price lookup is case-insensitive", func(t *testing.T) {
		pools := []oracle.Pool{
			{
				Address:   "0xpool1",
				Token1:    baseAsset,
				Token2:    "0xAbCd",
				Reserved1: 1_000,
				Reserved2: 1_000,
			},
		}

		snapshot := BuildSnapshot(baseAsset, 1.0, pools, testThresholds)

		_, ok := snapshot.Price("0xABCD")
		assert.True(t, ok)
	})

	t.Run("nil snapshot is safe", func(t *testing.T) {
		var snapshot *Snapshot

		_, ok := snapshot.Price("0x1234")
		assert.False(t, ok)
		assert.Equal(t, 0, snapshot.Len())
	})
}
