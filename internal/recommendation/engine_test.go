package recommendation

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRecommend(t *testing.T) {
	Convey("Given a hybrid scorer over an in-memory store", t, func() {
		store := newMemStore()
		svc := NewService(store, Config{})
		ctx := context.Background()
		future := time.Now().Add(72 * time.Hour)

		Convey("When the user cannot be resolved", func() {
			Convey("Then recommendations are empty", func() {
				So(svc.Recommend(ctx, 42, 10), ShouldBeEmpty)
			})
		})

		Convey("When the user has no interactions and no favorites", func() {
			store.addUser(1)
			store.addEvent(10, "Music", "Opera House", future, true)

			Convey("Then recommendations are empty", func() {
				So(svc.Recommend(ctx, 1, 10), ShouldBeEmpty)
			})

			Convey("And the peer list is empty too", func() {
				So(svc.FindSimilarUsers(ctx, 1, 10), ShouldBeEmpty)
			})
		})

		Convey("When content signal alone applies", func() {
			// U favorited E1 (Music at V1); pool is E2 (Music, V1) and E3 (Food, V2)
			store.addEvent(1, "Music", "V1", future, true)
			store.addEvent(2, "Music", "V1", future, true)
			store.addEvent(3, "Food", "V2", future, true)
			store.addFavorite(1, 1)
			So(store.SaveUserPreferences(ctx, 1, map[string]float64{"Music": 1.0}, time.Now()), ShouldBeNil)

			results := svc.Recommend(ctx, 1, 10)

			Convey("Then the category+venue match is returned and the zero-score event dropped", func() {
				// E2 scores 0.5*1.0 + 0.3 = 0.8; E3 scores 0
				So(results, ShouldHaveLength, 1)
				So(results[0].ID, ShouldEqual, 2)
			})
		})

		Convey("When an event is already in the user's favorites", func() {
			store.addEvent(1, "Music", "V1", future, true)
			store.addEvent(2, "Music", "V1", future, true)
			store.addFavorite(1, 1)
			store.addFavorite(1, 2)
			So(store.SaveUserPreferences(ctx, 1, map[string]float64{"Music": 1.0}, time.Now()), ShouldBeNil)

			results := svc.Recommend(ctx, 1, 10)

			Convey("Then it is never recommended back", func() {
				for _, event := range results {
					So(event.ID, ShouldNotEqual, 1)
					So(event.ID, ShouldNotEqual, 2)
				}
			})
		})

		Convey("When a similar peer favorites an event outside the pool", func() {
			// U and P share E1; P also favorited E4, active but already started,
			// so it never enters the upcoming pool
			store.addEvent(1, "Music", "V1", future, true)
			store.addEvent(4, "Arts", "V9", time.Now().Add(-24*time.Hour), true)
			store.addFavorite(1, 1)
			store.addFavorite(2, 1)
			store.addFavorite(2, 4)

			results := svc.Recommend(ctx, 1, 10)

			Convey("Then the peer favorite is surfaced with collaborative score only", func() {
				// similarity(U, P) = 1/2, contribution 0.5*0.5 = 0.25
				So(results, ShouldHaveLength, 1)
				So(results[0].ID, ShouldEqual, 4)
			})
		})

		Convey("When a peer favorite resolves to an inactive event", func() {
			store.addEvent(1, "Music", "V1", future, true)
			store.addEvent(5, "Arts", "V9", future, false)
			store.addFavorite(1, 1)
			store.addFavorite(2, 1)
			store.addFavorite(2, 5)

			Convey("Then it is not admitted into the results", func() {
				So(svc.Recommend(ctx, 1, 10), ShouldBeEmpty)
			})
		})

		Convey("When a peer adds a favorite that shares nothing else with the user", func() {
			store.addEvent(1, "Music", "V1", future, true)
			store.addEvent(6, "Sports", "V3", future, true)
			store.addFavorite(1, 1)
			store.addFavorite(2, 1)

			before := svc.Recommend(ctx, 1, 10)
			So(before, ShouldBeEmpty) // E6 has no signal yet

			store.addFavorite(2, 6)
			after := svc.Recommend(ctx, 1, 10)

			Convey("Then the event's standing can only improve", func() {
				So(after, ShouldHaveLength, 1)
				So(after[0].ID, ShouldEqual, 6)
			})
		})

		Convey("When collaborative and content signals meet on one event", func() {
			// E2 is in the pool (Music, V1 venue bonus) and favorited by the peer
			store.addEvent(1, "Music", "V1", future, true)
			store.addEvent(2, "Music", "V1", future, true)
			store.addEvent(7, "Music", "V4", future, true)
			store.addFavorite(1, 1)
			store.addFavorite(2, 1)
			store.addFavorite(2, 2)
			So(store.SaveUserPreferences(ctx, 1, map[string]float64{"Music": 1.0}, time.Now()), ShouldBeNil)

			results := svc.Recommend(ctx, 1, 10)

			Convey("Then the fused score outranks content-only candidates", func() {
				// E2: 0.5 + 0.3 + similarity(1/2)*0.5 = 1.05; E7: 0.5
				So(results, ShouldHaveLength, 2)
				So(results[0].ID, ShouldEqual, 2)
				So(results[1].ID, ShouldEqual, 7)
			})
		})

		Convey("When candidates tie on score", func() {
			store.addEvent(1, "Music", "V1", future, true)
			store.addEvent(8, "Music", "V5", future, true)
			store.addEvent(9, "Music", "V6", future, true)
			store.addFavorite(1, 1)
			So(store.SaveUserPreferences(ctx, 1, map[string]float64{"Music": 1.0}, time.Now()), ShouldBeNil)

			results := svc.Recommend(ctx, 1, 10)

			Convey("Then ties break by ascending event ID", func() {
				So(results, ShouldHaveLength, 2)
				So(results[0].ID, ShouldEqual, 8)
				So(results[1].ID, ShouldEqual, 9)
			})
		})

		Convey("When more events score than the limit", func() {
			store.addEvent(1, "Music", "V1", future, true)
			store.addFavorite(1, 1)
			So(store.SaveUserPreferences(ctx, 1, map[string]float64{"Music": 1.0}, time.Now()), ShouldBeNil)
			for id := int64(20); id < 32; id++ {
				store.addEvent(id, "Music", "V7", future, true)
			}

			Convey("Then an explicit limit truncates the ranking", func() {
				So(svc.Recommend(ctx, 1, 3), ShouldHaveLength, 3)
			})

			Convey("And a non-positive limit falls back to the default of 10", func() {
				So(svc.Recommend(ctx, 1, 0), ShouldHaveLength, 10)
			})
		})

		Convey("When the store is unavailable", func() {
			store.addUser(1)
			store.fail = true

			Convey("Then recommendations degrade to empty", func() {
				So(svc.Recommend(ctx, 1, 10), ShouldBeEmpty)
			})
		})
	})
}
