// Package datasets provides labeled instance streams for the decision
// engines: file loaders for CSV and Parquet, a cached loader on top of them,
// and a seedable synthetic generator with concept drift.
package datasets

import (
	"io"

	"github.com/XiaoConstantine/streamal-go/pkg/core"
	"github.com/XiaoConstantine/streamal-go/pkg/errors"
)

// Stream is an ordered source of labeled instances. Next returns io.EOF once
// the stream is exhausted; generators may never be.
type Stream interface {
	Next() (*core.Instance, error)
}

// SliceStream replays a fixed slice of instances.
type SliceStream struct {
	instances []*core.Instance
	pos       int
}

// NewSliceStream wraps the given instances. The slice is not copied.
func NewSliceStream(instances []*core.Instance) *SliceStream {
	return &SliceStream{instances: instances}
}

func (s *SliceStream) Next() (*core.Instance, error) {
	if s.pos >= len(s.instances) {
		return nil, io.EOF
	}
	inst := s.instances[s.pos]
	s.pos++
	return inst, nil
}

// Restart rewinds the stream to its first instance.
func (s *SliceStream) Restart() {
	s.pos = 0
}

// Len returns the total number of instances, independent of position.
func (s *SliceStream) Len() int {
	return len(s.instances)
}

// Take reads up to n instances from the stream. A nil error with fewer than n
// instances means the stream ended early.
func Take(s Stream, n int) ([]*core.Instance, error) {
	if n < 0 {
		return nil, errors.New(errors.InvalidInput, "negative instance count")
	}
	out := make([]*core.Instance, 0, n)
	for len(out) < n {
		inst, err := s.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, inst)
	}
	return out, nil
}
