package jsonrpc_test

import (
	"encoding/json"
	"strconv"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/strobe/pkg/jsonrpc"
	"github.com/papercomputeco/strobe/pkg/jsonvalue"
)

var _ = Describe("Session", func() {
	It("stamps strictly increasing ids across different templates", func() {
		s := jsonrpc.NewSession()

		first, err := s.Render("tools/list")
		Expect(err).NotTo(HaveOccurred())
		second, err := s.Render("tools/call")
		Expect(err).NotTo(HaveOccurred())

		Expect(renderedID(first)).To(BeNumerically("<", renderedID(second)))
	})

	It("never resets the counter", func() {
		s := jsonrpc.NewSession()
		var last int64
		for i := 0; i < 5; i++ {
			body, err := s.Render("ping")
			Expect(err).NotTo(HaveOccurred())

			id := renderedID(body)
			Expect(id).To(Equal(last + 1))
			last = id
		}
	})

	It("keeps independent sessions independent", func() {
		a := jsonrpc.NewSession()
		b := jsonrpc.NewSession()

		bodyA, err := a.Render("ping")
		Expect(err).NotTo(HaveOccurred())
		bodyB, err := b.Render("ping")
		Expect(err).NotTo(HaveOccurred())

		Expect(renderedID(bodyA)).To(Equal(int64(1)))
		Expect(renderedID(bodyB)).To(Equal(int64(1)))
	})

	It("rejects unknown template names", func() {
		s := jsonrpc.NewSession()
		_, err := s.Render("tools/destroy")
		Expect(err).To(MatchError(ContainSubstring("unknown template")))
		Expect(err).To(MatchError(ContainSubstring("tools/list")))
	})
})

var _ = Describe("Templates", func() {
	It("render as valid JSON-RPC 2.0 envelopes", func() {
		s := jsonrpc.NewSession()

		for _, name := range jsonrpc.Names() {
			body, err := s.Render(name)
			Expect(err).NotTo(HaveOccurred())

			v, err := jsonvalue.Parse(body)
			Expect(err).NotTo(HaveOccurred(), "template %s is not valid JSON", name)

			version, ok := v.Get("jsonrpc")
			Expect(ok).To(BeTrue())
			Expect(version.StringValue()).To(Equal("2.0"))

			_, ok = v.Get("id")
			Expect(ok).To(BeTrue())
			_, ok = v.Get("method")
			Expect(ok).To(BeTrue())
		}
	})

	It("keep the conventional envelope member order", func() {
		s := jsonrpc.NewSession()
		body, err := s.Render("tools/call")
		Expect(err).NotTo(HaveOccurred())

		v, err := jsonvalue.Parse(body)
		Expect(err).NotTo(HaveOccurred())

		members := v.Members()
		Expect(members[0].Key).To(Equal("jsonrpc"))
		Expect(members[1].Key).To(Equal("id"))
		Expect(members[2].Key).To(Equal("method"))
		Expect(members[3].Key).To(Equal("params"))
	})

	It("renders with 2-space indentation", func() {
		s := jsonrpc.NewSession()
		body, err := s.Render("ping")
		Expect(err).NotTo(HaveOccurred())
		Expect(body).To(HavePrefix("{\n  \"jsonrpc\": \"2.0\""))
	})

	It("exposes a lookup mirroring the listed names", func() {
		for _, t := range jsonrpc.All() {
			found, ok := jsonrpc.Lookup(t.Name)
			Expect(ok).To(BeTrue())
			Expect(found.Name).To(Equal(t.Name))
			Expect(found.Description).NotTo(BeEmpty())
		}

		_, ok := jsonrpc.Lookup("nope")
		Expect(ok).To(BeFalse())
	})
})

// renderedID extracts the numeric id from a rendered template body.
func renderedID(body string) int64 {
	var envelope struct {
		ID json.Number `json:"id"`
	}
	Expect(json.Unmarshal([]byte(body), &envelope)).To(Succeed())

	id, err := strconv.ParseInt(envelope.ID.String(), 10, 64)
	Expect(err).NotTo(HaveOccurred())
	return id
}
