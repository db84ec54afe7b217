package events_test

import (
	"errors"
	"testing"
	"testing/synctest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rewatch/internal/core/domain"
	"go.trai.ch/rewatch/internal/engine/events"
)

func collect(s *events.Stream) []domain.EventCode {
	var codes []domain.EventCode
	for e := range s.Events() {
		codes = append(codes, e.Code)
	}
	return codes
}

func TestStream_DeliversInPublicationOrder(t *testing.T) {
	s := events.NewStream()

	// Publish everything before a consumer attaches.
	s.Publish(domain.NewEvent(domain.EventStarting))
	for range 100 {
		s.Publish(domain.NewEvent(domain.EventBuildStart))
		s.Publish(domain.BuildEndEvent(0, false))
	}
	s.Close()

	codes := collect(s)
	require.Len(t, codes, 201)
	assert.Equal(t, domain.EventStarting, codes[0])
	for i := 1; i < len(codes); i += 2 {
		assert.Equal(t, domain.EventBuildStart, codes[i])
		assert.Equal(t, domain.EventBuildEnd, codes[i+1])
	}
}

func TestStream_PublishAfterCloseIsDropped(t *testing.T) {
	s := events.NewStream()
	s.Publish(domain.NewEvent(domain.EventStarting))
	s.Close()
	s.Publish(domain.ErrorEvent(errors.New("late")))

	assert.Equal(t, []domain.EventCode{domain.EventStarting}, collect(s))
}

func TestStream_ConcurrentConsumer(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		s := events.NewStream()

		var got []domain.EventCode
		done := make(chan struct{})
		go func() {
			defer close(done)
			got = collect(s)
		}()

		synctest.Wait()
		s.Publish(domain.NewEvent(domain.EventStarting))
		synctest.Wait()
		s.Publish(domain.NewEvent(domain.EventBuildStart))
		s.Publish(domain.ErrorEvent(errors.New("boom")))
		s.Close()
		<-done

		assert.Equal(t, []domain.EventCode{
			domain.EventStarting,
			domain.EventBuildStart,
			domain.EventError,
		}, got)
	})
}

func TestStream_CloseWithoutEvents(t *testing.T) {
	s := events.NewStream()
	s.Close()

	_, ok := <-s.Events()
	assert.False(t, ok)
}
