package queue

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryQueue(t *testing.T) {
	Convey("Given a queue bounded to two jobs", t, func() {
		q := NewInMemoryQueue(WithCapacity(2))
		ctx := context.Background()

		So(q.Len(), ShouldEqual, 0)

		Convey("When jobs are enqueued", func() {
			So(q.Enqueue(ctx, Job{MatchID: 1}), ShouldBeNil)
			So(q.Enqueue(ctx, Job{MatchID: 2}), ShouldBeNil)

			Convey("Then a third is rejected as full", func() {
				So(errors.Is(q.Enqueue(ctx, Job{MatchID: 3}), ErrFull), ShouldBeTrue)
				So(q.Len(), ShouldEqual, 2)
			})

			Convey("Then they are dequeued in order with a timestamp", func() {
				ch := q.Dequeue(ctx)
				first := <-ch
				second := <-ch
				So(first.MatchID, ShouldEqual, 1)
				So(second.MatchID, ShouldEqual, 2)
				So(first.EnqueuedAt.IsZero(), ShouldBeFalse)
			})
		})

		Convey("When the queue is closed", func() {
			So(q.Enqueue(ctx, Job{MatchID: 9}), ShouldBeNil)
			So(q.Close(), ShouldBeNil)
			So(q.Close(), ShouldBeNil)

			Convey("Then enqueue fails but pending jobs drain", func() {
				So(q.IsClosed(), ShouldBeTrue)
				So(errors.Is(q.Enqueue(ctx, Job{MatchID: 10}), ErrClosed), ShouldBeTrue)

				ch := q.Dequeue(ctx)
				So((<-ch).MatchID, ShouldEqual, 9)
				_, open := <-ch
				So(open, ShouldBeFalse)
			})
		})

		Convey("When the context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			So(errors.Is(q.Enqueue(cctx, Job{MatchID: 1}), context.Canceled), ShouldBeTrue)
		})
	})
}
