package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/okian/lineup/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	ctx := context.Background()

	Convey("Given a new InMemoryDeduper", t, func() {
		d := dedupe.NewInMemoryDeduper()

		Convey("Then it starts empty", func() {
			So(d.Size(), ShouldEqual, 0)
		})

		Convey("When a request is claimed for the first time", func() {
			owner, dup := d.Claim(ctx, "req-1", "job-1")

			Convey("Then the caller owns it", func() {
				So(dup, ShouldBeFalse)
				So(owner, ShouldEqual, "job-1")
				So(d.Size(), ShouldEqual, 1)
			})

			Convey("And a resubmission resolves to the original job", func() {
				owner, dup := d.Claim(ctx, "req-1", "job-2")
				So(dup, ShouldBeTrue)
				So(owner, ShouldEqual, "job-1")
				So(d.Size(), ShouldEqual, 1)
			})

			Convey("And after a release it can be claimed again", func() {
				d.Release(ctx, "req-1")
				So(d.Size(), ShouldEqual, 0)
				owner, dup := d.Claim(ctx, "req-1", "job-3")
				So(dup, ShouldBeFalse)
				So(owner, ShouldEqual, "job-3")
			})
		})

		Convey("When releasing an unknown request", func() {
			d.Release(ctx, "nope")
			So(d.Size(), ShouldEqual, 0)
		})
	})

	Convey("Given a bounded deduper", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(2))

		Convey("When more requests than the bound are claimed", func() {
			d.Claim(ctx, "a", "1")
			d.Claim(ctx, "b", "2")
			d.Claim(ctx, "c", "3")

			Convey("Then the oldest claim is evicted", func() {
				So(d.Size(), ShouldEqual, 2)
				_, dup := d.Claim(ctx, "c", "x")
				So(dup, ShouldBeTrue)
				_, dup = d.Claim(ctx, "a", "4")
				So(dup, ShouldBeFalse)
			})
		})
	})

	Convey("Given an unbounded deduper", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))
		for i := range 100 {
			d.Claim(ctx, fmt.Sprintf("r-%d", i), "j")
		}
		So(d.Size(), ShouldEqual, 100)
	})

	Convey("Given concurrent claims of the same request", t, func() {
		d := dedupe.NewInMemoryDeduper()
		var (
			wg     sync.WaitGroup
			mu     sync.Mutex
			owners = map[string]int{}
			fresh  int
		)
		for i := range 50 {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				owner, dup := d.Claim(ctx, "shared", fmt.Sprintf("job-%d", i))
				mu.Lock()
				defer mu.Unlock()
				owners[owner]++
				if !dup {
					fresh++
				}
			}(i)
		}
		wg.Wait()

		Convey("Then exactly one caller wins and everyone sees the same owner", func() {
			So(fresh, ShouldEqual, 1)
			So(len(owners), ShouldEqual, 1)
		})
	})
}
