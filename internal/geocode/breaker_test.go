package geocode

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestBreakingGeocoder(t *testing.T) {
	ctx := context.Background()

	Convey("Given a breaker with a threshold of 2 and a recovery count of 2", t, func() {
		inner := &countingGeocoder{ok: false}
		b := NewBreakingGeocoder(inner, BreakerConfig{FailureThreshold: 2, Cooldown: time.Minute, RecoveryCount: 2}, nil)
		now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
		b.now = func() time.Time { return now }

		Convey("It starts closed", func() {
			So(b.State(), ShouldEqual, StateClosed)
		})

		Convey("When consecutive failures reach the threshold", func() {
			b.Lookup(ctx, 1, 2)
			So(b.State(), ShouldEqual, StateClosed)
			b.Lookup(ctx, 1, 2)

			Convey("Then the circuit opens and lookups skip the inner geocoder", func() {
				So(b.State(), ShouldEqual, StateOpen)
				_, ok := b.Lookup(ctx, 1, 2)
				So(ok, ShouldBeFalse)
				So(inner.calls, ShouldEqual, 2)
			})

			Convey("Then after the cooldown it lets a trial lookup through in half_open", func() {
				now = now.Add(time.Minute)
				So(b.State(), ShouldEqual, StateHalfOpen)

				Convey("And a failed trial lookup reopens it", func() {
					b.Lookup(ctx, 1, 2)
					So(inner.calls, ShouldEqual, 3)
					So(b.State(), ShouldEqual, StateOpen)
				})

				Convey("And enough successes close it", func() {
					inner.ok = true
					inner.name = "Rivendell"

					name, ok := b.Lookup(ctx, 1, 2)
					So(ok, ShouldBeTrue)
					So(name, ShouldEqual, "Rivendell")
					So(b.State(), ShouldEqual, StateHalfOpen)

					b.Lookup(ctx, 1, 2)
					So(b.State(), ShouldEqual, StateClosed)
				})
			})
		})

		Convey("When a success interrupts the failures", func() {
			b.Lookup(ctx, 1, 2)
			inner.ok = true
			b.Lookup(ctx, 1, 2)
			inner.ok = false
			b.Lookup(ctx, 1, 2)

			Convey("Then the count restarts and the circuit stays closed", func() {
				So(b.State(), ShouldEqual, StateClosed)
			})
		})

		Convey("When the caller's context is already cancelled", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()
			b.Lookup(cancelled, 1, 2)
			b.Lookup(cancelled, 1, 2)

			Convey("Then the failures are not held against the geocoder", func() {
				So(b.State(), ShouldEqual, StateClosed)
			})
		})
	})

	Convey("Given a zero config", t, func() {
		b := NewBreakingGeocoder(&countingGeocoder{}, BreakerConfig{}, nil)

		Convey("Then the defaults apply", func() {
			So(b.cfg, ShouldResemble, DefaultBreakerConfig)
		})
	})
}
