package export_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/strobe/pkg/export"
	"github.com/papercomputeco/strobe/pkg/jsonvalue"
	"github.com/papercomputeco/strobe/pkg/stream"
)

func sampleEvents() []stream.Event {
	parsed, err := jsonvalue.Parse(`{"jsonrpc":"2.0","id":1}`)
	Expect(err).NotTo(HaveOccurred())

	return []stream.Event{
		{ID: 1, Timestamp: time.Unix(100, 0), Raw: "Connected to http://x", Category: stream.CategoryConnection},
		{ID: 2, Timestamp: time.Unix(101, 0), Raw: `{"jsonrpc":"2.0","id":1}`, Category: stream.CategoryData, Parsed: &parsed},
		{ID: 3, Timestamp: time.Unix(102, 0), Raw: "Stream closed by server", Category: stream.CategoryInfo},
	}
}

var _ = Describe("Build", func() {
	It("records events in arrival order with their categories", func() {
		doc := export.Build(stream.Config{URL: "http://x"}, sampleEvents())

		Expect(doc.URL).To(Equal("http://x"))
		Expect(doc.Events).To(HaveLen(3))
		Expect(doc.Events[0].Type).To(Equal("connection"))
		Expect(doc.Events[1].Type).To(Equal("data"))
		Expect(doc.Events[2].Type).To(Equal("info"))
	})

	It("sets body to null for GET", func() {
		doc := export.Build(stream.Config{URL: "http://x", Body: "ignored"}, nil)
		Expect(doc.Method).To(Equal("GET"))
		Expect(doc.Body).To(BeNil())
	})

	It("carries the body for POST", func() {
		doc := export.Build(stream.Config{URL: "http://x", Method: "POST", Body: `{"a":1}`}, nil)
		Expect(doc.Body).NotTo(BeNil())
		Expect(*doc.Body).To(Equal(`{"a":1}`))
	})

	It("filters blank header entries", func() {
		doc := export.Build(stream.Config{
			URL: "http://x",
			Headers: []stream.Header{
				{Key: "Accept", Value: "text/event-stream"},
				{Key: "", Value: "dropped"},
				{Key: "X-Blank", Value: ""},
			},
		}, nil)

		Expect(doc.Headers).To(HaveLen(1))
		Expect(doc.Headers[0].Key).To(Equal("Accept"))
	})

	It("includes the formatted form only for parsed events", func() {
		doc := export.Build(stream.Config{URL: "http://x"}, sampleEvents())

		Expect(doc.Events[0].Formatted).To(BeEmpty())
		Expect(doc.Events[1].Formatted).To(ContainSubstring("\"jsonrpc\": \"2.0\""))
	})
})

var _ = Describe("Write", func() {
	It("produces a parseable JSON document", func() {
		path := filepath.Join(GinkgoT().TempDir(), "export.json")
		doc := export.Build(stream.Config{URL: "http://x"}, sampleEvents())
		Expect(doc.Write(path)).To(Succeed())

		data, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())

		var got map[string]any
		Expect(json.Unmarshal(data, &got)).To(Succeed())
		Expect(got).To(HaveKey("timestamp"))
		Expect(got).To(HaveKey("url"))
		Expect(got).To(HaveKey("method"))
		Expect(got).To(HaveKey("headers"))
		Expect(got).To(HaveKey("body"))
		Expect(got).To(HaveKey("events"))
	})
})
