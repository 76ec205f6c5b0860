package streamcmder

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/strobe/pkg/config"
	"github.com/papercomputeco/strobe/pkg/stream"
)

var _ = Describe("NewStreamCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := NewStreamCmd()
		Expect(cmd.Use).To(Equal("stream [url]"))
	})

	It("has --method flag with -X shorthand", func() {
		cmd := NewStreamCmd()
		flag := cmd.Flags().Lookup("method")
		Expect(flag).NotTo(BeNil())
		Expect(flag.Shorthand).To(Equal("X"))
	})

	It("has repeatable --header flag", func() {
		cmd := NewStreamCmd()
		flag := cmd.Flags().Lookup("header")
		Expect(flag).NotTo(BeNil())
		Expect(flag.Shorthand).To(Equal("H"))
	})

	It("has --template flag", func() {
		cmd := NewStreamCmd()
		Expect(cmd.Flags().Lookup("template")).NotTo(BeNil())
	})
})

var _ = Describe("parseHeader", func() {
	It("splits on the first colon and trims whitespace", func() {
		header, err := parseHeader("Authorization: Bearer tok")
		Expect(err).NotTo(HaveOccurred())
		Expect(header.Key).To(Equal("Authorization"))
		Expect(header.Value).To(Equal("Bearer tok"))
	})

	It("keeps colons inside the value", func() {
		header, err := parseHeader("X-Target: http://localhost:8525")
		Expect(err).NotTo(HaveOccurred())
		Expect(header.Value).To(Equal("http://localhost:8525"))
	})

	It("rejects input without a colon", func() {
		_, err := parseHeader("not-a-header")
		Expect(err).To(HaveOccurred())
	})

	It("rejects an empty key", func() {
		_, err := parseHeader(": value")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("buildStreamConfig", func() {
	var cmder *StreamCommander

	BeforeEach(func() {
		cmder = &StreamCommander{cfg: config.NewDefaultConfig()}
	})

	It("requires a URL from flag or config", func() {
		_, err := cmder.buildStreamConfig()
		Expect(err).To(MatchError(ContainSubstring("no URL")))
	})

	It("lets the URL argument win over the config file", func() {
		cmder.cfg.Request.URL = "http://config/events"
		cmder.url = "http://flag/events"

		cfg, err := cmder.buildStreamConfig()
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.URL).To(Equal("http://flag/events"))
	})

	It("falls back to the config URL", func() {
		cmder.cfg.Request.URL = "http://config/events"

		cfg, err := cmder.buildStreamConfig()
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.URL).To(Equal("http://config/events"))
	})

	It("uppercases the method flag", func() {
		cmder.url = "http://x"
		cmder.method = "post"

		cfg, err := cmder.buildStreamConfig()
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Method).To(Equal("POST"))
	})

	It("renders a template into a POST body", func() {
		cmder.url = "http://x"
		cmder.template = "ping"

		cfg, err := cmder.buildStreamConfig()
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Method).To(Equal("POST"))
		Expect(cfg.Body).To(ContainSubstring(`"method": "ping"`))
		Expect(cfg.Headers).To(ContainElement(stream.Header{Key: "Content-Type", Value: "application/json"}))
	})

	It("rejects an unknown template name", func() {
		cmder.url = "http://x"
		cmder.template = "bogus"

		_, err := cmder.buildStreamConfig()
		Expect(err).To(HaveOccurred())
	})

	It("appends flag headers after config headers", func() {
		cmder.url = "http://x"
		cmder.headers = []string{"X-One: 1", "X-Two: 2"}

		cfg, err := cmder.buildStreamConfig()
		Expect(err).NotTo(HaveOccurred())

		// Default config carries the Accept header first.
		Expect(cfg.Headers[0].Key).To(Equal("Accept"))
		Expect(cfg.Headers[len(cfg.Headers)-2].Key).To(Equal("X-One"))
		Expect(cfg.Headers[len(cfg.Headers)-1].Key).To(Equal("X-Two"))
	})
})
