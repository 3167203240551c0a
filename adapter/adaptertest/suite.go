// Package adaptertest holds the behaviour every adapter.Store implementation must share.
package adaptertest

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ezraisw/kvlock/adapter"
	"github.com/stretchr/testify/suite"
)

// Harness builds a fresh store for every test. Advance moves the store clock forward, either
// by sleeping or by fast-forwarding a fake server.
type Harness struct {
	NewStore func() adapter.Store
	Advance  func(d time.Duration)
	Close    func()
}

type StoreSuite struct {
	suite.Suite
	Harness Harness
	store   adapter.Store
	ctx     context.Context
}

func (s *StoreSuite) SetupTest() {
	s.store = s.Harness.NewStore()
	s.ctx = context.Background()
}

func (s *StoreSuite) TearDownTest() {
	if s.Harness.Close != nil {
		s.Harness.Close()
	}
}

func (s *StoreSuite) TestSetNXOnlyWhenAbsent() {
	ok, err := s.store.SetNX(s.ctx, "lock:a", "tok-A", time.Second)
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.store.SetNX(s.ctx, "lock:a", "tok-B", time.Second)
	s.Require().NoError(err)
	s.False(ok)

	value, err := s.store.Get(s.ctx, "lock:a")
	s.Require().NoError(err)
	s.Equal("tok-A", value)
}

func (s *StoreSuite) TestSetNXWithTTLIsCreatedWithExpiry() {
	ok, err := s.store.SetNX(s.ctx, "lock:a", "tok-A", 10*time.Second)
	s.Require().NoError(err)
	s.Require().True(ok)

	ttl, err := s.store.TTL(s.ctx, "lock:a")
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
	s.LessOrEqual(ttl, 10*time.Second)
}

func (s *StoreSuite) TestSetNXWithoutTTLHasNoExpiry() {
	ok, err := s.store.SetNX(s.ctx, "lock:a", "marker", 0)
	s.Require().NoError(err)
	s.Require().True(ok)

	ttl, err := s.store.TTL(s.ctx, "lock:a")
	s.Require().NoError(err)
	s.Equal(time.Duration(0), ttl)
}

func (s *StoreSuite) TestKeyExpires() {
	ok, err := s.store.SetNX(s.ctx, "lock:a", "tok-A", 100*time.Millisecond)
	s.Require().NoError(err)
	s.Require().True(ok)

	s.Harness.Advance(200 * time.Millisecond)

	_, err = s.store.Get(s.ctx, "lock:a")
	s.ErrorIs(err, adapter.ErrNotFound)

	ok, err = s.store.SetNX(s.ctx, "lock:a", "tok-B", time.Second)
	s.Require().NoError(err)
	s.True(ok)
}

func (s *StoreSuite) TestExpire() {
	ok, err := s.store.Expire(s.ctx, "lock:missing", time.Second)
	s.Require().NoError(err)
	s.False(ok)

	_, err = s.store.SetNX(s.ctx, "lock:a", "marker", 0)
	s.Require().NoError(err)

	ok, err = s.store.Expire(s.ctx, "lock:a", 100*time.Millisecond)
	s.Require().NoError(err)
	s.True(ok)

	ttl, err := s.store.TTL(s.ctx, "lock:a")
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))

	s.Harness.Advance(200 * time.Millisecond)

	_, err = s.store.Get(s.ctx, "lock:a")
	s.ErrorIs(err, adapter.ErrNotFound)
}

func (s *StoreSuite) TestCompareAndDelete() {
	_, err := s.store.SetNX(s.ctx, "lock:a", "tok-A", time.Second)
	s.Require().NoError(err)

	ok, err := s.store.CompareAndDelete(s.ctx, "lock:a", "tok-B")
	s.Require().NoError(err)
	s.False(ok)

	value, err := s.store.Get(s.ctx, "lock:a")
	s.Require().NoError(err)
	s.Equal("tok-A", value)

	ok, err = s.store.CompareAndDelete(s.ctx, "lock:a", "tok-A")
	s.Require().NoError(err)
	s.True(ok)

	_, err = s.store.Get(s.ctx, "lock:a")
	s.ErrorIs(err, adapter.ErrNotFound)

	ok, err = s.store.CompareAndDelete(s.ctx, "lock:a", "tok-A")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *StoreSuite) TestDelete() {
	_, err := s.store.SetNX(s.ctx, "lock:a", "marker", 0)
	s.Require().NoError(err)

	s.Require().NoError(s.store.Delete(s.ctx, "lock:a"))
	s.Require().NoError(s.store.Delete(s.ctx, "lock:a"))

	_, err = s.store.TTL(s.ctx, "lock:a")
	s.ErrorIs(err, adapter.ErrNotFound)
}

func (s *StoreSuite) TestConcurrentSetNX() {
	const workers = 32

	var (
		wg   sync.WaitGroup
		wins int32
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ok, err := s.store.SetNX(s.ctx, "lock:race", string(rune('a'+i)), time.Second)
			if err == nil && ok {
				atomic.AddInt32(&wins, 1)
			}
		}(i)
	}
	wg.Wait()

	s.Equal(int32(1), wins)
}
