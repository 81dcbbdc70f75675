package logger_test

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/frahmantamala/budgetflow/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Logger", func() {
	var buf *bytes.Buffer

	BeforeEach(func() {
		buf = &bytes.Buffer{}
	})

	AfterEach(func() {
		logger.Init("development", logger.Options{Output: GinkgoWriter})
	})

	It("should write JSON at info level in production", func() {
		logger.Init("production", logger.Options{Output: buf})
		lg := logger.LoggerWrapper()

		lg.Debug("hidden")
		lg.Info("ledger loaded", "entries", 3)

		var line map[string]any
		Expect(json.Unmarshal(buf.Bytes(), &line)).To(Succeed())
		Expect(line).To(HaveKeyWithValue("msg", "ledger loaded"))
		Expect(line).To(HaveKeyWithValue("entries", BeNumerically("==", 3)))
	})

	It("should honour explicit level and format", func() {
		logger.Init("production", logger.Options{Level: "error", Format: "text", Output: buf})

		logger.LoggerWrapper().Warn("dropped")
		logger.LoggerWrapper().Error("kept")

		Expect(buf.String()).NotTo(ContainSubstring("dropped"))
		Expect(buf.String()).To(ContainSubstring("msg=kept"))
	})

	It("should carry fields through the context", func() {
		logger.Init("development", logger.Options{Output: buf})

		ctx := logger.With(context.Background(), "traceID", "abc")
		logger.From(ctx).Info("request rejected")

		Expect(buf.String()).To(ContainSubstring("traceID=abc"))
	})

	It("should fall back to the default logger", func() {
		Expect(logger.From(context.Background())).To(Equal(logger.LoggerWrapper()))
	})
})
