package historycmder_test

import (
	"context"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	historycmder "github.com/papercomputeco/strobe/cmd/strobe/history"
	"github.com/papercomputeco/strobe/pkg/history"
	"github.com/papercomputeco/strobe/pkg/stream"
)

var _ = Describe("NewHistoryCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := historycmder.NewHistoryCmd()
		Expect(cmd.Use).To(Equal("history"))
	})

	It("has list, show, and export subcommands", func() {
		cmd := historycmder.NewHistoryCmd()
		cmds := cmd.Commands()
		subcommands := make([]string, 0, len(cmds))
		for _, sub := range cmds {
			subcommands = append(subcommands, sub.Name())
		}
		Expect(subcommands).To(ContainElements("list", "show", "export"))
	})
})

var _ = Describe("History command execution", func() {
	var (
		tmpDir  string
		origDir string
		id      string
	)

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "strobe-history-test-*")
		Expect(err).NotTo(HaveOccurred())

		origDir, err = os.Getwd()
		Expect(err).NotTo(HaveOccurred())

		// Create a local .strobe dir so the manager picks it up
		err = os.MkdirAll(filepath.Join(tmpDir, ".strobe"), 0o755)
		Expect(err).NotTo(HaveOccurred())

		err = os.Chdir(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		// Seed one recorded session
		store, err := history.Open(filepath.Join(tmpDir, ".strobe", "history.db"))
		Expect(err).NotTo(HaveOccurred())
		defer store.Close()

		id, err = store.RecordSession(context.Background(),
			stream.Config{URL: "http://localhost:8525/events"},
			"closed",
			[]stream.Event{
				{ID: 1, Timestamp: time.Unix(100, 0), Raw: "Connected to http://localhost:8525/events", Category: stream.CategoryConnection},
				{ID: 2, Timestamp: time.Unix(101, 0), Raw: `{"jsonrpc":"2.0","method":"notifications/progress"}`, Category: stream.CategoryData},
			},
		)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		err := os.Chdir(origDir)
		Expect(err).NotTo(HaveOccurred())
		os.RemoveAll(tmpDir)
	})

	Describe("list subcommand", func() {
		It("lists the recorded session", func() {
			cmd := historycmder.NewHistoryCmd()
			cmd.SetArgs([]string{"list"})
			Expect(cmd.Execute()).To(Succeed())
		})

		It("rejects positional arguments", func() {
			cmd := historycmder.NewHistoryCmd()
			cmd.SetArgs([]string{"list", "extra"})
			Expect(cmd.Execute()).To(HaveOccurred())
		})
	})

	Describe("show subcommand", func() {
		It("shows a session by full id", func() {
			cmd := historycmder.NewHistoryCmd()
			cmd.SetArgs([]string{"show", id})
			Expect(cmd.Execute()).To(Succeed())
		})

		It("shows a session by unique prefix", func() {
			cmd := historycmder.NewHistoryCmd()
			cmd.SetArgs([]string{"show", id[:8]})
			Expect(cmd.Execute()).To(Succeed())
		})

		It("errors for an unknown id", func() {
			cmd := historycmder.NewHistoryCmd()
			cmd.SetArgs([]string{"show", "ffffffff"})
			Expect(cmd.Execute()).To(HaveOccurred())
		})
	})

	Describe("export subcommand", func() {
		It("writes the session to a JSON file", func() {
			out := filepath.Join(tmpDir, "session.json")

			cmd := historycmder.NewHistoryCmd()
			cmd.SetArgs([]string{"export", id[:8], out})
			Expect(cmd.Execute()).To(Succeed())

			_, err := os.Stat(out)
			Expect(err).NotTo(HaveOccurred())
		})

		It("requires both id and file arguments", func() {
			cmd := historycmder.NewHistoryCmd()
			cmd.SetArgs([]string{"export", id})
			Expect(cmd.Execute()).To(HaveOccurred())
		})
	})
})
