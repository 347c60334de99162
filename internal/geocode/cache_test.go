package geocode

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

type countingGeocoder struct {
	mu    sync.Mutex
	calls int
	name  string
	ok    bool
}

func (g *countingGeocoder) Lookup(ctx context.Context, lat, lng float64) (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	return g.name, g.ok
}

func TestCache(t *testing.T) {
	Convey("Given a new Cache", t, func() {
		Convey("When created with default options", func() {
			c := NewCache()

			Convey("Then it should be empty", func() {
				So(c.Len(), ShouldEqual, 0)
				_, ok := c.Get(53.3498, -6.2603)
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When a name is stored", func() {
			c := NewCache()
			c.Put(53.3498, -6.2603, "Dublin")

			Convey("Then nearby coordinates within rounding share the entry", func() {
				name, ok := c.Get(53.349801, -6.260299)
				So(ok, ShouldBeTrue)
				So(name, ShouldEqual, "Dublin")
			})

			Convey("Then distinct coordinates miss", func() {
				_, ok := c.Get(53.35, -6.26)
				So(ok, ShouldBeFalse)
			})

			Convey("And the same key is stored again", func() {
				c.Put(53.3498, -6.2603, "Dublin")

				Convey("Then the size is unchanged", func() {
					So(c.Len(), ShouldEqual, 1)
				})
			})
		})

		Convey("When a name is stored just south of the equator on the prime meridian", func() {
			c := NewCache()
			c.Put(-0.000001, 0.000001, "Null Island")

			Convey("Then the point just north and west of it shares the entry", func() {
				So(Key(-0.000001, 0.000001), ShouldEqual, "0.00000,0.00000")
				So(Key(0.000001, -0.000001), ShouldEqual, "0.00000,0.00000")

				name, ok := c.Get(0.000001, -0.000001)
				So(ok, ShouldBeTrue)
				So(name, ShouldEqual, "Null Island")
			})

			Convey("Then negative coordinates that do not round to zero keep their sign", func() {
				So(Key(-0.00001, -6.26030), ShouldEqual, "-0.00001,-6.26030")
			})
		})

		Convey("When bounded with WithMaxEntries", func() {
			c := NewCache(WithMaxEntries(2))
			c.Put(1, 1, "one")
			c.Put(2, 2, "two")
			c.Put(3, 3, "three")

			Convey("Then the oldest entry is evicted", func() {
				So(c.Len(), ShouldEqual, 2)
				_, ok := c.Get(1, 1)
				So(ok, ShouldBeFalse)
				name, ok := c.Get(3, 3)
				So(ok, ShouldBeTrue)
				So(name, ShouldEqual, "three")
			})
		})

		Convey("When entries have a TTL", func() {
			now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
			c := NewCache(WithTTL(time.Minute), withClock(func() time.Time { return now }))
			c.Put(1, 1, "one")

			Convey("Then they are served before expiry", func() {
				now = now.Add(59 * time.Second)
				_, ok := c.Get(1, 1)
				So(ok, ShouldBeTrue)
			})

			Convey("Then they are dropped after expiry", func() {
				now = now.Add(time.Minute)
				_, ok := c.Get(1, 1)
				So(ok, ShouldBeFalse)
				So(c.Len(), ShouldEqual, 0)
			})
		})

		Convey("When used concurrently", func() {
			c := NewCache(WithMaxEntries(50))
			var wg sync.WaitGroup
			for i := 0; i < 20; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					for j := 0; j < 100; j++ {
						lat := float64(j % 60)
						c.Put(lat, float64(i), fmt.Sprintf("p-%d-%d", i, j))
						c.Get(lat, float64(i))
					}
				}(i)
			}
			wg.Wait()

			Convey("Then the bound is respected", func() {
				So(c.Len(), ShouldBeLessThanOrEqualTo, 50)
			})
		})
	})
}

func TestCachingGeocoder(t *testing.T) {
	Convey("Given a CachingGeocoder", t, func() {
		ctx := context.Background()

		Convey("When the inner geocoder succeeds", func() {
			inner := &countingGeocoder{name: "Bag End", ok: true}
			g := NewCachingGeocoder(inner, NewCache())

			first, ok1 := g.Lookup(ctx, 10, 20)
			second, ok2 := g.Lookup(ctx, 10, 20)

			Convey("Then the second lookup is served from the cache", func() {
				So(ok1, ShouldBeTrue)
				So(ok2, ShouldBeTrue)
				So(first, ShouldEqual, "Bag End")
				So(second, ShouldEqual, "Bag End")
				So(inner.calls, ShouldEqual, 1)
			})
		})

		Convey("When the inner geocoder fails", func() {
			inner := &countingGeocoder{ok: false}
			g := NewCachingGeocoder(inner, NewCache())

			g.Lookup(ctx, 10, 20)
			_, ok := g.Lookup(ctx, 10, 20)

			Convey("Then failures are not cached", func() {
				So(ok, ShouldBeFalse)
				So(inner.calls, ShouldEqual, 2)
			})
		})
	})
}
