package history_test

import (
	"context"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/strobe/pkg/history"
	"github.com/papercomputeco/strobe/pkg/stream"
)

func testEvents() []stream.Event {
	base := time.Unix(1000, 0)
	return []stream.Event{
		{ID: 1, Timestamp: base, Raw: "Connected to http://x/events", Category: stream.CategoryConnection},
		{ID: 2, Timestamp: base.Add(time.Second), Raw: `{"jsonrpc":"2.0"}`, Category: stream.CategoryData},
		{ID: 3, Timestamp: base.Add(2 * time.Second), Raw: "Stream closed by server", Category: stream.CategoryInfo},
	}
}

var _ = Describe("Store", func() {
	var (
		store *history.Store
		ctx   context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		store, err = history.Open(":memory:")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if store != nil {
			store.Close()
		}
	})

	Describe("Open", func() {
		It("creates a database file on disk", func() {
			dbPath := filepath.Join(GinkgoT().TempDir(), "history.db")

			s, err := history.Open(dbPath)
			Expect(err).NotTo(HaveOccurred())
			defer s.Close()

			_, err = os.Stat(dbPath)
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("RecordSession", func() {
		It("stores the session with its event count", func() {
			cfg := stream.Config{URL: "http://x/events"}

			id, err := store.RecordSession(ctx, cfg, "closed", testEvents())
			Expect(err).NotTo(HaveOccurred())
			Expect(id).NotTo(BeEmpty())

			sess, err := store.GetSession(ctx, id)
			Expect(err).NotTo(HaveOccurred())
			Expect(sess.URL).To(Equal("http://x/events"))
			Expect(sess.Method).To(Equal("GET"))
			Expect(sess.Outcome).To(Equal("closed"))
			Expect(sess.Events).To(Equal(3))
		})

		It("stores events in sequence order", func() {
			id, err := store.RecordSession(ctx, stream.Config{URL: "http://x"}, "closed", testEvents())
			Expect(err).NotTo(HaveOccurred())

			events, err := store.SessionEvents(ctx, id)
			Expect(err).NotTo(HaveOccurred())
			Expect(events).To(HaveLen(3))
			Expect(events[0].Category).To(Equal(stream.CategoryConnection))
			Expect(events[1].Raw).To(Equal(`{"jsonrpc":"2.0"}`))
			Expect(events[2].Seq).To(Equal(int64(3)))
		})

		It("records an attempt with no events", func() {
			id, err := store.RecordSession(ctx, stream.Config{URL: "http://x"}, "errored", nil)
			Expect(err).NotTo(HaveOccurred())

			sess, err := store.GetSession(ctx, id)
			Expect(err).NotTo(HaveOccurred())
			Expect(sess.Events).To(Equal(0))

			events, err := store.SessionEvents(ctx, id)
			Expect(err).NotTo(HaveOccurred())
			Expect(events).To(BeEmpty())
		})
	})

	Describe("ListSessions", func() {
		It("returns sessions newest first", func() {
			early := []stream.Event{{ID: 1, Timestamp: time.Unix(100, 0), Raw: "a", Category: stream.CategoryInfo}}
			late := []stream.Event{{ID: 1, Timestamp: time.Unix(200, 0), Raw: "b", Category: stream.CategoryInfo}}

			_, err := store.RecordSession(ctx, stream.Config{URL: "http://first"}, "closed", early)
			Expect(err).NotTo(HaveOccurred())
			_, err = store.RecordSession(ctx, stream.Config{URL: "http://second"}, "closed", late)
			Expect(err).NotTo(HaveOccurred())

			sessions, err := store.ListSessions(ctx, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(sessions).To(HaveLen(2))
			Expect(sessions[0].URL).To(Equal("http://second"))
			Expect(sessions[1].URL).To(Equal("http://first"))
		})

		It("honors the limit", func() {
			for i := 0; i < 3; i++ {
				_, err := store.RecordSession(ctx, stream.Config{URL: "http://x"}, "closed", nil)
				Expect(err).NotTo(HaveOccurred())
			}

			sessions, err := store.ListSessions(ctx, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(sessions).To(HaveLen(2))
		})
	})

	Describe("GetSession", func() {
		It("returns ErrNotFound for an unknown id", func() {
			_, err := store.GetSession(ctx, "nope")
			Expect(err).To(MatchError(history.ErrNotFound{ID: "nope"}))
		})
	})
})
