package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerRejectsInvalidSpec(t *testing.T) {
	s := NewScheduler(nil, 0)
	err := s.Register("broken", "not a spec", func(context.Context) error { return nil })
	assert.Error(t, err)
}

func TestSchedulerRunsTask(t *testing.T) {
	s := NewScheduler(nil, time.Second)
	ran := make(chan struct{}, 1)
	require.NoError(t, s.Register("tick", "@every 1s", func(context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	}))
	s.Start()
	defer s.Stop()

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("task did not run")
	}
}
