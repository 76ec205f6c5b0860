package config_test

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/strobe/pkg/config"
)

var _ = Describe("Configer", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	Describe("LoadConfig", func() {
		It("returns defaults when no file exists", func() {
			cfger, err := config.NewConfiger(dir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := cfger.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Request.Method).To(Equal("GET"))
			Expect(cfg.Display.FormatJSON).To(BeTrue())
			Expect(cfg.Emitter.Listen).To(Equal(config.DefaultEmitterListen))
		})

		It("overrides defaults with file values", func() {
			content := "[request]\nurl = \"http://localhost:9999/events\"\nmethod = \"POST\"\n\n[[request.headers]]\nkey = \"Accept\"\nvalue = \"text/event-stream\"\n\n[[request.headers]]\nkey = \"Accept\"\nvalue = \"application/json\"\n"
			Expect(os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o600)).To(Succeed())

			cfger, err := config.NewConfiger(dir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := cfger.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Request.URL).To(Equal("http://localhost:9999/events"))
			Expect(cfg.Request.Method).To(Equal("POST"))

			// Duplicate header keys survive, in order.
			Expect(cfg.Request.Headers).To(HaveLen(2))
			Expect(cfg.Request.Headers[0].Value).To(Equal("text/event-stream"))
			Expect(cfg.Request.Headers[1].Value).To(Equal("application/json"))
		})

		It("rejects malformed TOML", func() {
			Expect(os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[[[["), 0o600)).To(Succeed())

			cfger, err := config.NewConfiger(dir)
			Expect(err).NotTo(HaveOccurred())

			_, err = cfger.LoadConfig()
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("SaveConfig", func() {
		It("round-trips through the TOML file", func() {
			cfger, err := config.NewConfiger(dir)
			Expect(err).NotTo(HaveOccurred())

			cfg := config.NewDefaultConfig()
			cfg.Request.URL = "http://example.test/sse"
			cfg.Display.AutoScroll = false
			Expect(cfger.SaveConfig(cfg)).To(Succeed())

			loaded, err := cfger.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.Request.URL).To(Equal("http://example.test/sse"))
			Expect(loaded.Display.AutoScroll).To(BeFalse())
		})

		It("rejects a nil config", func() {
			cfger, err := config.NewConfiger(dir)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfger.SaveConfig(nil)).To(HaveOccurred())
		})
	})

	Describe("config keys", func() {
		It("gets and sets values through dotted keys", func() {
			cfger, err := config.NewConfiger(dir)
			Expect(err).NotTo(HaveOccurred())

			Expect(cfger.SetConfigValue("request.url", "http://localhost:8525/events")).To(Succeed())
			Expect(cfger.SetConfigValue("display.auto_scroll", "false")).To(Succeed())

			value, err := cfger.GetConfigValue("request.url")
			Expect(err).NotTo(HaveOccurred())
			Expect(value).To(Equal("http://localhost:8525/events"))

			value, err = cfger.GetConfigValue("display.auto_scroll")
			Expect(err).NotTo(HaveOccurred())
			Expect(value).To(Equal("false"))
		})

		It("normalizes and validates the method", func() {
			cfger, err := config.NewConfiger(dir)
			Expect(err).NotTo(HaveOccurred())

			Expect(cfger.SetConfigValue("request.method", "post")).To(Succeed())
			value, err := cfger.GetConfigValue("request.method")
			Expect(err).NotTo(HaveOccurred())
			Expect(value).To(Equal("POST"))

			Expect(cfger.SetConfigValue("request.method", "DELETE")).To(HaveOccurred())
		})

		It("rejects unknown keys", func() {
			cfger, err := config.NewConfiger(dir)
			Expect(err).NotTo(HaveOccurred())

			Expect(cfger.SetConfigValue("nope.nope", "x")).To(HaveOccurred())
			_, err = cfger.GetConfigValue("nope.nope")
			Expect(err).To(HaveOccurred())
		})

		It("lists every registered key", func() {
			keys := config.ValidConfigKeys()
			Expect(keys).To(ContainElements(
				"request.url", "request.method", "request.body",
				"display.format_json", "display.show_timestamps", "display.auto_scroll",
				"emitter.listen", "emitter.interval", "emitter.count",
				"history.enabled",
			))

			for _, k := range keys {
				Expect(config.IsValidConfigKey(k)).To(BeTrue())
			}
			Expect(config.IsValidConfigKey("bogus")).To(BeFalse())
		})
	})

	Describe("Watch", func() {
		It("delivers the fresh config after a save", func() {
			cfger, err := config.NewConfiger(dir)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfger.SaveConfig(config.NewDefaultConfig())).To(Succeed())

			ctx, cancel := context.WithCancel(context.Background())
			DeferCleanup(cancel)

			changed := make(chan *config.Config, 1)
			Expect(cfger.Watch(ctx, func(cfg *config.Config) {
				select {
				case changed <- cfg:
				default:
				}
			})).To(Succeed())

			cfg := config.NewDefaultConfig()
			cfg.Request.URL = "http://changed.test"
			Expect(cfger.SaveConfig(cfg)).To(Succeed())

			Eventually(changed).Should(Receive(HaveField("Request.URL", "http://changed.test")))
		})
	})

	Describe("InitViper", func() {
		It("applies defaults and env overrides", func() {
			GinkgoT().Setenv("STROBE_EMITTER_LISTEN", ":9000")

			v, err := config.InitViper(dir)
			Expect(err).NotTo(HaveOccurred())
			Expect(v.GetString("request.method")).To(Equal("GET"))
			Expect(v.GetString("emitter.listen")).To(Equal(":9000"))
		})
	})
})
