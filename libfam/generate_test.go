package libfam_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/isofam-systems/isofam/isofam"
	"github.com/isofam-systems/isofam/libfam"
	"github.com/isofam-systems/isofam/libfam/sig"
)

func countAtSize(set *isofam.FamilySet, size int) int {
	count := 0
	for _, fam := range set.Families {
		for _, X := range fam {
			if X.NodeCount() == size {
				count++
			}
		}
	}
	return count
}

func TestGenerateContract(t *testing.T) {
	_, err := libfam.Generate(0)
	require.ErrorIs(t, err, isofam.ErrBadMaxSize)

	_, err = libfam.Generate(-4)
	require.ErrorIs(t, err, isofam.ErrBadMaxSize)

	_, err = libfam.Generate(isofam.MaxNodes + 1)
	require.ErrorIs(t, err, isofam.ErrGraphFull)
}

// Ground truth: the number of isomorphism classes of simple graphs on
// 1, 2, 3, 4, 5 nodes is 1, 2, 4, 11, 34.
func TestEnumerationCompleteness(t *testing.T) {
	set, err := libfam.Generate(5)
	require.NoError(t, err)
	defer set.Reclaim()

	require.Equal(t, 1, countAtSize(set, 1))
	require.Equal(t, 2, countAtSize(set, 2))
	require.Equal(t, 4, countAtSize(set, 3))
	require.Equal(t, 11, countAtSize(set, 4))
	require.Equal(t, 34, countAtSize(set, 5))

	// pruning bound: nothing beyond maxSize is ever retained
	require.Equal(t, 0, countAtSize(set, 6))
}

func TestTrivialRunsFilterToEmpty(t *testing.T) {
	set, err := libfam.Generate(1)
	require.NoError(t, err)
	require.Equal(t, 1, set.NumGraphs())

	fams := libfam.FilterFamilies(set, 1, false)
	require.Equal(t, 0, fams.NumFamilies())

	set, err = libfam.Generate(2)
	require.NoError(t, err)
	require.Equal(t, 2, countAtSize(set, 2))

	// every bucket through size 2 is a singleton, so the family policy drops all
	fams = libfam.FilterFamilies(set, 2, false)
	require.Equal(t, 0, fams.NumFamilies())
}

func TestKeepSingletonsBypass(t *testing.T) {
	set, err := libfam.Generate(4)
	require.NoError(t, err)

	fams := libfam.FilterFamilies(set, 4, true)
	defer fams.Reclaim()

	// with the singleton rule bypassed, every class at the target size survives
	require.Equal(t, 11, fams.NumGraphs())
	for _, fam := range fams.Families {
		for _, X := range fam {
			require.Equal(t, 4, X.NodeCount())
		}
	}
}

// Size 6 is the smallest size where 1-WL buckets genuinely collide (C6 vs
// C3+C3 among others), so it is the smallest run that reports families.
func TestFamiliesAtSizeSix(t *testing.T) {
	set, err := libfam.Generate(6)
	require.NoError(t, err)
	require.Equal(t, 156, countAtSize(set, 6))

	fams := libfam.FilterFamilies(set, 6, false)
	defer fams.Reclaim()

	require.Greater(t, fams.NumFamilies(), 0)

	oracle := libfam.NewOracle()
	for _, tag := range fams.Tags {
		fam := fams.Families[tag]
		require.GreaterOrEqual(t, len(fam), 2)

		for i, X := range fam {
			require.Equal(t, 6, X.NodeCount())

			memberTag, err := sig.Signature(X, 1, sig.AutoIterations)
			require.NoError(t, err)
			require.Equal(t, tag, memberTag)

			for j := i + 1; j < len(fam); j++ {
				require.False(t, oracle.IsIsomorphic(X, fam[j]),
					"family %s holds an isomorphic pair", tag)
			}
		}
	}
}

func TestDeterministicSignatureSets(t *testing.T) {
	first, err := libfam.Generate(5)
	require.NoError(t, err)
	defer first.Reclaim()

	second, err := libfam.Generate(5)
	require.NoError(t, err)
	defer second.Reclaim()

	require.Equal(t, first.NumFamilies(), second.NumFamilies())
	for tag, fam := range first.Families {
		other, found := second.Families[tag]
		require.True(t, found, "signature %s missing from second run", tag)
		require.Equal(t, len(fam), len(other))
	}
}
