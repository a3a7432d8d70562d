package datasets

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/XiaoConstantine/streamal-go/pkg/core"
	"github.com/XiaoConstantine/streamal-go/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestSliceStream(t *testing.T) {
	instances := []*core.Instance{
		core.NewInstance([]float64{1}, 0),
		core.NewInstance([]float64{2}, 1),
	}
	s := NewSliceStream(instances)
	require.Equal(t, 2, s.Len())

	first, err := s.Next()
	require.NoError(t, err)
	assert.Same(t, instances[0], first)

	_, err = s.Next()
	require.NoError(t, err)
	_, err = s.Next()
	assert.Equal(t, io.EOF, err)

	s.Restart()
	first, err = s.Next()
	require.NoError(t, err)
	assert.Same(t, instances[0], first)
}

func TestTakeStopsAtStreamEnd(t *testing.T) {
	s := NewSliceStream([]*core.Instance{core.NewInstance([]float64{1}, 0)})

	got, err := Take(s, 5)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = Take(s, -1)
	assert.Error(t, err)
}

func TestLoadCSV(t *testing.T) {
	path := writeTempCSV(t, "x1,x2,class\n1.5,2.0,0\n3.25,-1.0,1\n")

	instances, err := LoadCSV(path)
	require.NoError(t, err)
	require.Len(t, instances, 2)

	assert.Equal(t, []float64{1.5, 2.0}, instances[0].Features)
	assert.Equal(t, 0, instances[0].Label)
	assert.Equal(t, []float64{3.25, -1.0}, instances[1].Features)
	assert.Equal(t, 1, instances[1].Label)
	assert.Equal(t, 1.0, instances[0].Weight)
}

func TestLoadCSVWithoutHeader(t *testing.T) {
	path := writeTempCSV(t, "1.0,2.0,0\n3.0,4.0,1\n")

	instances, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Len(t, instances, 2)
}

func TestLoadCSVAcceptsIntegralFloatLabels(t *testing.T) {
	path := writeTempCSV(t, "1.0,2.0,1.0\n")

	instances, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, 1, instances[0].Label)
}

func TestLoadCSVRejectsBadInput(t *testing.T) {
	for name, content := range map[string]string{
		"non-numeric feature": "a,b,c\n1.0,oops,0\n",
		"fractional label":    "1.0,2.0,0.5\n",
		"negative label":      "1.0,2.0,-1\n",
		"too few columns":     "x\n1.0\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := LoadCSV(writeTempCSV(t, content))
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.InvalidInput))
		})
	}
}

func TestLoadCSVMissingFile(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.StorageFailed))
}

func TestLoaderCachesParsedDatasets(t *testing.T) {
	path := writeTempCSV(t, "1.0,2.0,0\n")

	l, err := NewLoader(4)
	require.NoError(t, err)

	first, err := l.CSV(path)
	require.NoError(t, err)
	require.Equal(t, 1, l.Len())

	// The file is gone, yet the cached parse is still served.
	require.NoError(t, os.Remove(path))
	second, err := l.CSV(path)
	require.NoError(t, err)
	assert.Same(t, first[0], second[0])
}

func TestSyntheticIsDeterministicPerSeed(t *testing.T) {
	a, err := NewSynthetic(WithSeed(42), WithClasses(3), WithFeatures(2), WithDriftRate(0.01))
	require.NoError(t, err)
	b, err := NewSynthetic(WithSeed(42), WithClasses(3), WithFeatures(2), WithDriftRate(0.01))
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		x, err := a.Next()
		require.NoError(t, err)
		y, err := b.Next()
		require.NoError(t, err)
		assert.Equal(t, x.Label, y.Label)
		assert.Equal(t, x.Features, y.Features)
	}
}

func TestSyntheticRestartReplaysSequence(t *testing.T) {
	s, err := NewSynthetic(WithSeed(7), WithDriftRate(0.1))
	require.NoError(t, err)

	first, err := s.Next()
	require.NoError(t, err)

	s.Restart()
	replayed, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, first.Features, replayed.Features)
	assert.Equal(t, first.Label, replayed.Label)
}

func TestSyntheticEmitsAllClasses(t *testing.T) {
	s, err := NewSynthetic(WithSeed(1), WithClasses(3), WithNoise(0.5))
	require.NoError(t, err)

	seen := make(map[int]bool)
	for i := 0; i < 200; i++ {
		inst, err := s.Next()
		require.NoError(t, err)
		require.GreaterOrEqual(t, inst.Label, 0)
		require.Less(t, inst.Label, 3)
		seen[inst.Label] = true
	}
	assert.Len(t, seen, 3)
}

func TestSyntheticValidatesOptions(t *testing.T) {
	_, err := NewSynthetic(WithClasses(1))
	assert.Error(t, err)
	_, err = NewSynthetic(WithFeatures(0))
	assert.Error(t, err)
	_, err = NewSynthetic(WithNoise(-1))
	assert.Error(t, err)
}
