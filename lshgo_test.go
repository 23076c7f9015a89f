package lshgo

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLSH(t *testing.T) {
	t.Run("StoreAndQuery", func(t *testing.T) {
		lsh, err := New(5, 10, 3).Seed(1).SRP().Build()
		require.NoError(t, err)

		v1 := []float32{2, 3, 4}
		v2 := []float32{-1, -1, 1}

		require.NoError(t, lsh.StoreVec(v1))
		require.NoError(t, lsh.StoreVec(v2))

		got, err := lsh.QueryBucket(v2)
		require.NoError(t, err)
		assert.NotEmpty(t, got)
		assert.Contains(t, got, v2)
	})

	t.Run("DeleteShrinksBucket", func(t *testing.T) {
		lsh, err := New(5, 10, 3).Seed(1).SRP().Build()
		require.NoError(t, err)

		v1 := []float32{2, 3, 4}
		v2 := []float32{-1, -1, 1}

		require.NoError(t, lsh.StoreVec(v1))
		require.NoError(t, lsh.StoreVec(v2))

		before, err := lsh.QueryBucket(v1)
		require.NoError(t, err)

		require.NoError(t, lsh.DeleteVec(v1))

		after, err := lsh.QueryBucket(v1)
		require.NoError(t, err)
		assert.Greater(t, len(before), len(after))
		assert.NotContains(t, after, v1)
	})

	t.Run("StoreQueryContainment", func(t *testing.T) {
		// Under the symmetric families a stored vector always collides with
		// itself in every table, so it must appear in its own query result.
		// MIPS is excluded: its storage and query embeddings differ, so
		// self-containment is only probabilistic there.
		vecs := [][]float32{
			{2, 3, 4},
			{-1, -1, 1},
			{0.2, -0.2, 0.2},
			{10, -10, 0.5},
		}

		for _, build := range []func() (*LSH, error){
			func() (*LSH, error) { return NewSRP(5, 10, 3, 1) },
			func() (*LSH, error) { return NewL2(5, 10, 3, 4.0, 1) },
		} {
			lsh, err := build()
			require.NoError(t, err)
			require.NoError(t, lsh.StoreVecs(vecs))

			for _, v := range vecs {
				got, err := lsh.QueryBucket(v)
				require.NoError(t, err)
				assert.Contains(t, got, v)
			}
		}
	})

	t.Run("EmptyIndexQuery", func(t *testing.T) {
		lsh, err := New(5, 10, 3).Seed(1).SRP().Build()
		require.NoError(t, err)

		got, err := lsh.QueryBucket([]float32{1, 2, 3})
		require.NoError(t, err)
		assert.Empty(t, got)

		ids, err := lsh.QueryBucketIDs([]float32{1, 2, 3})
		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("Determinism", func(t *testing.T) {
		build := func() *LSH {
			lsh, err := New(5, 10, 3).Seed(7).L2(4.0).Build()
			require.NoError(t, err)
			return lsh
		}

		vecs := [][]float32{{2, 3, 4}, {-1, -1, 1}, {0.2, -0.2, 0.2}}

		a := build()
		b := build()
		require.NoError(t, a.StoreVecs(vecs))
		require.NoError(t, b.StoreVecs(vecs))

		for _, v := range vecs {
			aIDs, err := a.QueryBucketIDs(v)
			require.NoError(t, err)
			bIDs, err := b.QueryBucketIDs(v)
			require.NoError(t, err)
			assert.Equal(t, aIDs, bIDs)
		}
	})

	t.Run("UnionMonotonicity", func(t *testing.T) {
		// More hash tables can only add candidates: the per-table sub-seeds
		// are drawn in table order, so a bigger index's tables are a
		// superset of a smaller one's.
		vecs := [][]float32{{2, 3, 4}, {-1, -1, 1}, {0.2, -0.2, 0.2}, {1, 1, 1}}
		query := []float32{0.1, -0.1, 0.1}

		prev := 0
		for _, n := range []int{1, 3, 5, 10, 20} {
			lsh, err := New(3, n, 3).Seed(1).SRP().Build()
			require.NoError(t, err)
			require.NoError(t, lsh.StoreVecs(vecs))

			ids, err := lsh.QueryBucketIDs(query)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, len(ids), prev)

			prev = len(ids)
		}
	})

	t.Run("IdempotentPut", func(t *testing.T) {
		// Storing the same vector twice creates exactly two distinct global
		// indices and nothing more, even though both land in the same
		// buckets everywhere.
		lsh, err := New(5, 10, 3).Seed(1).SRP().Build()
		require.NoError(t, err)

		v := []float32{2, 3, 4}
		require.NoError(t, lsh.StoreVec(v))
		require.NoError(t, lsh.StoreVec(v))

		ids, err := lsh.QueryBucketIDs(v)
		require.NoError(t, err)
		assert.ElementsMatch(t, []uint32{0, 1}, ids)
	})

	t.Run("DimensionMismatch", func(t *testing.T) {
		lsh, err := New(5, 10, 3).Seed(1).SRP().Build()
		require.NoError(t, err)

		var dm *ErrDimensionMismatch

		err = lsh.StoreVec([]float32{1, 2})
		require.ErrorAs(t, err, &dm)
		assert.Equal(t, 3, dm.Expected)
		assert.Equal(t, 2, dm.Actual)

		_, err = lsh.QueryBucket([]float32{1, 2, 3, 4})
		assert.ErrorAs(t, err, &dm)

		err = lsh.DeleteVec([]float32{1})
		assert.ErrorAs(t, err, &dm)
	})

	t.Run("DeleteUnknownVector", func(t *testing.T) {
		lsh, err := New(5, 10, 3).Seed(1).SRP().Build()
		require.NoError(t, err)

		assert.NoError(t, lsh.DeleteVec([]float32{9, 9, 9}))
	})

	t.Run("Describe", func(t *testing.T) {
		lsh, err := New(5, 10, 3).Seed(1).SRP().Build()
		require.NoError(t, err)
		require.NoError(t, lsh.StoreVec([]float32{2, 3, 4}))

		desc, err := lsh.Describe()
		require.NoError(t, err)
		assert.Contains(t, desc, "10 table(s)")
	})

	t.Run("Metrics", func(t *testing.T) {
		collector := &BasicMetricsCollector{}

		lsh, err := New(5, 10, 3).Seed(1).SRP().Metrics(collector).Build()
		require.NoError(t, err)

		require.NoError(t, lsh.StoreVec([]float32{2, 3, 4}))
		_, err = lsh.QueryBucket([]float32{2, 3, 4})
		require.NoError(t, err)
		require.NoError(t, lsh.DeleteVec([]float32{2, 3, 4}))

		assert.Equal(t, int64(1), collector.StoreCount.Load())
		assert.Equal(t, int64(1), collector.QueryCount.Load())
		assert.Equal(t, int64(1), collector.DeleteCount.Load())
		assert.Equal(t, int64(0), collector.StoreErrors.Load())
	})
}

func TestLSHSQLiteBackend(t *testing.T) {
	t.Run("EndToEnd", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "lsh.db")

		lsh, err := New(5, 10, 3).Seed(1).SRP().SQLite(path).Build()
		require.NoError(t, err)

		v1 := []float32{2, 3, 4}
		v2 := []float32{-1, -1, 1}

		require.NoError(t, lsh.StoreVecs([][]float32{v1, v2}))

		got, err := lsh.QueryBucket(v2)
		require.NoError(t, err)
		assert.Contains(t, got, v2)

		before, err := lsh.QueryBucket(v1)
		require.NoError(t, err)

		require.NoError(t, lsh.DeleteVec(v1))

		after, err := lsh.QueryBucket(v1)
		require.NoError(t, err)
		assert.Greater(t, len(before), len(after))
	})
}
