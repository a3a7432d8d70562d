package datasets

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/XiaoConstantine/streamal-go/pkg/core"
	"github.com/XiaoConstantine/streamal-go/pkg/errors"
)

// Loader loads file-backed datasets through a bounded LRU cache, so repeated
// evaluation runs over the same files skip the parse cost. Cached slices are
// shared; callers stream them through engines, which copy what they retain.
type Loader struct {
	cache *lru.Cache[string, []*core.Instance]
}

// NewLoader creates a loader caching up to size parsed datasets.
func NewLoader(size int) (*Loader, error) {
	cache, err := lru.New[string, []*core.Instance](size)
	if err != nil {
		return nil, errors.Wrap(err, errors.InvalidInput, "creating dataset cache")
	}
	return &Loader{cache: cache}, nil
}

// CSV loads a CSV dataset, serving repeats from the cache.
func (l *Loader) CSV(path string) ([]*core.Instance, error) {
	return l.load("csv:"+path, func() ([]*core.Instance, error) {
		return LoadCSV(path)
	})
}

// Parquet loads a Parquet dataset, serving repeats from the cache.
func (l *Loader) Parquet(path, labelColumn string) ([]*core.Instance, error) {
	return l.load("parquet:"+path+":"+labelColumn, func() ([]*core.Instance, error) {
		return LoadParquet(path, labelColumn)
	})
}

// Len reports how many parsed datasets are currently cached.
func (l *Loader) Len() int {
	return l.cache.Len()
}

func (l *Loader) load(key string, parse func() ([]*core.Instance, error)) ([]*core.Instance, error) {
	if cached, ok := l.cache.Get(key); ok {
		return cached, nil
	}
	instances, err := parse()
	if err != nil {
		return nil, err
	}
	l.cache.Add(key, instances)
	return instances, nil
}
