package cliui_test

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/strobe/pkg/cliui"
	"github.com/papercomputeco/strobe/pkg/stream"
)

var _ = Describe("Step", func() {
	It("runs the function and finishes with a success mark", func() {
		var buf bytes.Buffer
		ran := false

		err := cliui.Step(&buf, "writing session.json", func() error {
			ran = true
			return nil
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(ran).To(BeTrue())
		Expect(buf.String()).To(ContainSubstring("writing session.json"))
		Expect(buf.String()).To(ContainSubstring("✓"))
	})

	It("returns the function's error and finishes with a failure mark", func() {
		var buf bytes.Buffer

		err := cliui.Step(&buf, "writing session.json", func() error {
			return fmt.Errorf("disk full")
		})

		Expect(err).To(MatchError(ContainSubstring("disk full")))
		Expect(buf.String()).To(ContainSubstring("✗"))
	})

	It("prints nothing after the final checkmark line", func() {
		var buf bytes.Buffer

		_ = cliui.Step(&buf, "slow step", func() error {
			time.Sleep(120 * time.Millisecond)
			return nil
		})

		out := buf.String()
		Expect(strings.HasSuffix(out, "\n")).To(BeTrue())
		// Everything after the last carriage return is the checkmark line.
		final := out[strings.LastIndex(out, "\r")+1:]
		Expect(final).To(ContainSubstring("✓"))
	})
})

var _ = Describe("Mark", func() {
	It("maps nil to the success mark", func() {
		Expect(cliui.Mark(nil)).To(Equal(cliui.SuccessMark))
	})

	It("maps an error to the failure mark", func() {
		Expect(cliui.Mark(fmt.Errorf("boom"))).To(Equal(cliui.FailMark))
	})
})

var _ = Describe("FormatDuration", func() {
	It("formats sub-second durations in milliseconds", func() {
		Expect(cliui.FormatDuration(12 * time.Millisecond)).To(Equal("12ms"))
	})

	It("formats longer durations in seconds", func() {
		Expect(cliui.FormatDuration(3200 * time.Millisecond)).To(Equal("3.2s"))
	})
})

var _ = Describe("CategoryBadge", func() {
	It("labels each category", func() {
		Expect(cliui.CategoryBadge(stream.CategoryConnection)).To(ContainSubstring("[conn]"))
		Expect(cliui.CategoryBadge(stream.CategoryError)).To(ContainSubstring("[err ]"))
		Expect(cliui.CategoryBadge(stream.CategoryInfo)).To(ContainSubstring("[info]"))
		Expect(cliui.CategoryBadge(stream.CategoryData)).To(ContainSubstring("[data]"))
	})
})
