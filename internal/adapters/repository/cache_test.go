package repository

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/pitchside/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCache(t *testing.T) {
	Convey("Given a cache with a short ttl", t, func() {
		c := NewCache[int, string]("test", WithTTL(50*time.Millisecond), WithMaxEntries(2))
		ctx := context.Background()
		value := func(v string) func(context.Context) (string, error) {
			return func(context.Context) (string, error) { return v, nil }
		}

		Convey("When a value is loaded", func() {
			_, err := c.GetOrLoad(ctx, 1, value("one"))
			So(err, ShouldBeNil)

			Convey("Then it is returned while fresh", func() {
				v, ok := c.Get(1)
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, "one")
			})

			Convey("Then it expires after the ttl", func() {
				time.Sleep(120 * time.Millisecond)
				_, ok := c.Get(1)
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When more entries than the bound are loaded", func() {
			_, _ = c.GetOrLoad(ctx, 1, value("one"))
			_, _ = c.GetOrLoad(ctx, 2, value("two"))
			_, _ = c.Get(1)
			_, _ = c.GetOrLoad(ctx, 3, value("three"))

			Convey("Then the least recently used is evicted", func() {
				So(c.Len(), ShouldEqual, 2)
				_, ok := c.Get(2)
				So(ok, ShouldBeFalse)
				_, ok = c.Get(1)
				So(ok, ShouldBeTrue)
			})
		})

		Convey("When the cache is closed", func() {
			_, _ = c.GetOrLoad(ctx, 1, value("one"))
			c.Close()

			Convey("Then its entries are dropped", func() {
				So(c.Len(), ShouldEqual, 0)
			})
		})
	})
}

func TestCacheGetOrLoad(t *testing.T) {
	Convey("Given an empty cache", t, func() {
		c := NewCache[string, int]("load")
		ctx := context.Background()

		Convey("When loading twice", func() {
			var calls atomic.Int32
			load := func(context.Context) (int, error) {
				calls.Add(1)
				return 7, nil
			}
			a, err := c.GetOrLoad(ctx, "k", load)
			So(err, ShouldBeNil)
			b, err := c.GetOrLoad(ctx, "k", load)
			So(err, ShouldBeNil)

			Convey("Then the loader runs once", func() {
				So(a, ShouldEqual, 7)
				So(b, ShouldEqual, 7)
				So(calls.Load(), ShouldEqual, 1)
			})
		})

		Convey("When the loader fails", func() {
			boom := errors.New("boom")
			_, err := c.GetOrLoad(ctx, "k", func(context.Context) (int, error) { return 0, boom })

			Convey("Then the error is returned and nothing is cached", func() {
				So(err, ShouldEqual, boom)
				So(c.Len(), ShouldEqual, 0)
			})
		})

		Convey("When many goroutines miss at once", func() {
			var calls atomic.Int32
			release := make(chan struct{})
			load := func(context.Context) (int, error) {
				calls.Add(1)
				<-release
				return 42, nil
			}

			var wg sync.WaitGroup
			results := make([]int, 8)
			for i := range results {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					results[i], _ = c.GetOrLoad(ctx, "shared", load)
				}(i)
			}
			time.Sleep(20 * time.Millisecond)
			close(release)
			wg.Wait()

			Convey("Then they share a single load", func() {
				So(calls.Load(), ShouldEqual, 1)
				for _, r := range results {
					So(r, ShouldEqual, 42)
				}
			})
		})

		Convey("When the cache is closed", func() {
			c.Close()
			_, err := c.GetOrLoad(ctx, "k", func(context.Context) (int, error) { return 1, nil })
			So(err, ShouldEqual, ErrClosed)
		})

		Convey("When the caller that started a shared load goes away", func() {
			var calls atomic.Int32
			release := make(chan struct{})
			load := func(lctx context.Context) (int, error) {
				calls.Add(1)
				select {
				case <-release:
					return 42, nil
				case <-lctx.Done():
					return 0, lctx.Err()
				}
			}

			first, cancel := context.WithCancel(ctx)
			firstErr := make(chan error, 1)
			go func() {
				_, err := c.GetOrLoad(first, "shared", load)
				firstErr <- err
			}()
			time.Sleep(20 * time.Millisecond)

			type result struct {
				v   int
				err error
			}
			second := make(chan result, 1)
			go func() {
				v, err := c.GetOrLoad(ctx, "shared", load)
				second <- result{v, err}
			}()
			time.Sleep(20 * time.Millisecond)
			cancel()
			So(<-firstErr, ShouldEqual, context.Canceled)

			time.Sleep(20 * time.Millisecond)
			close(release)
			got := <-second

			Convey("Then the remaining caller still gets the loaded value", func() {
				So(got.err, ShouldBeNil)
				So(got.v, ShouldEqual, 42)
				So(calls.Load(), ShouldEqual, 1)
				v, ok := c.Get("shared")
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 42)
			})
		})

		Convey("When a shared load outlives the load timeout", func() {
			slow := NewCache[string, int]("slow", WithLoadTimeout(20*time.Millisecond))
			_, err := slow.GetOrLoad(ctx, "k", func(lctx context.Context) (int, error) {
				<-lctx.Done()
				return 0, lctx.Err()
			})

			Convey("Then the load is cut off", func() {
				So(errors.Is(err, context.DeadlineExceeded), ShouldBeTrue)
				So(slow.Len(), ShouldEqual, 0)
			})
		})
	})
}

type countingProvider struct {
	competitions, matches, events atomic.Int32
}

func (p *countingProvider) Competitions(context.Context) ([]model.Competition, error) {
	p.competitions.Add(1)
	return []model.Competition{{ID: 43, Name: "FIFA World Cup"}}, nil
}

func (p *countingProvider) Matches(_ context.Context, competitionID, seasonID int) ([]model.Match, error) {
	p.matches.Add(1)
	return []model.Match{{ID: competitionID*1000 + seasonID}}, nil
}

func (p *countingProvider) Events(_ context.Context, matchID int) ([]model.Event, error) {
	p.events.Add(1)
	return []model.Event{{ID: "e", Index: matchID}}, nil
}

func TestCachedProvider(t *testing.T) {
	Convey("Given a cached provider", t, func() {
		next := &countingProvider{}
		p := NewCachedProvider(next, WithTTL(time.Hour))
		ctx := context.Background()
		defer p.Close()

		Convey("When each lookup is repeated", func() {
			for i := 0; i < 3; i++ {
				_, err := p.Competitions(ctx)
				So(err, ShouldBeNil)
				_, err = p.Matches(ctx, 43, 106)
				So(err, ShouldBeNil)
				_, err = p.Events(ctx, 9)
				So(err, ShouldBeNil)
			}

			Convey("Then the upstream is hit once per key", func() {
				So(next.competitions.Load(), ShouldEqual, 1)
				So(next.matches.Load(), ShouldEqual, 1)
				So(next.events.Load(), ShouldEqual, 1)
				So(p.HasEvents(9), ShouldBeTrue)
				So(p.HasEvents(10), ShouldBeFalse)
				So(p.Entries(), ShouldEqual, 3)
			})
		})

		Convey("When matches differ by season", func() {
			a, _ := p.Matches(ctx, 43, 106)
			b, _ := p.Matches(ctx, 43, 3)
			So(a[0].ID, ShouldEqual, 43106)
			So(b[0].ID, ShouldEqual, 43003)
			So(next.matches.Load(), ShouldEqual, 2)
		})
	})
}

func TestCacheStart(t *testing.T) {
	Convey("Given a started cache", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		c := NewCache[int, int]("bg", WithMetricsUpdateInterval(5*time.Millisecond))
		c.Start(ctx)
		_, _ = c.GetOrLoad(ctx, 1, func(context.Context) (int, error) { return 1, nil })
		time.Sleep(20 * time.Millisecond)

		Convey("Then it stops on close", func() {
			So(func() { c.Close() }, ShouldNotPanic)
			cancel()
			So(func() { c.Close() }, ShouldNotPanic)
		})
	})
}
