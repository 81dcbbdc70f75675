package cmd

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/frahmantamala/budgetflow/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("CLI", func() {
	var dir string

	writeConfig := func(body string) {
		Expect(os.WriteFile(filepath.Join(dir, "config.yml"), []byte(body), 0o644)).To(Succeed())
	}

	run := func(args ...string) (string, error) {
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetErr(&out)
		rootCmd.SetArgs(append(args, "--config", dir))
		err := rootCmd.Execute()
		return out.String(), err
	}

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		writeConfig("logging:\n  level: error\nstorage:\n  path: " + filepath.Join(dir, "data") + "\n")

		resetConfirmed = false
		exportOut = ""
		summaryBreakdown = false
		clearData = false
		migrateRollback = false
	})

	Describe("loadConfig", func() {
		It("should fall back to defaults without a config file", func() {
			cfg, err := loadConfig(GinkgoT().TempDir())
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Storage.Driver).To(Equal(internal.StorageDriverFile))
			Expect(cfg.Storage.LedgerKey).To(Equal("budgetFlowData"))
			Expect(cfg.Storage.ThemeKey).To(Equal("budgetFlowTheme"))
			Expect(cfg.Theme.Default).To(Equal("light"))
			Expect(cfg.Ledger.CurrencySymbol).To(Equal("£"))
			Expect(cfg.Server.Port).To(Equal(8080))
		})

		It("should let environment variables override the file", func() {
			Expect(os.Setenv("BUDGETFLOW_THEME_DEFAULT", "dark")).To(Succeed())
			DeferCleanup(os.Unsetenv, "BUDGETFLOW_THEME_DEFAULT")

			cfg, err := loadConfig(dir)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Theme.Default).To(Equal("dark"))
		})

		It("should reject an invalid configuration", func() {
			writeConfig("storage:\n  driver: floppy\n")
			_, err := loadConfig(dir)
			Expect(err).To(MatchError(ContainSubstring("unknown driver")))
		})
	})

	Describe("entry", func() {
		It("should record and list entries", func() {
			out, err := run("entry", "add", "income", "Acme Ltd", "Salary", "2500")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("Recorded income"))

			out, err = run("entry", "list", "income")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("Acme Ltd"))
			Expect(out).To(ContainSubstring("£2,500.00"))
		})

		It("should report ledger errors", func() {
			_, err := run("entry", "add", "income", "Acme", "Lottery", "10")
			Expect(err).To(MatchError(internal.ErrUnknownCategory))

			_, err = run("entry", "add", "savings", "Acme", "Salary", "10")
			Expect(err).To(MatchError(internal.ErrInvalidKind))

			_, err = run("entry", "delete", "income", "42")
			Expect(err).To(MatchError(internal.ErrEntryNotFound))
		})

		It("should reject an amount that is not a number", func() {
			_, err := run("entry", "add", "expense", "Rent", "Housing", "lots")
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeValidationFailed))
		})
	})

	Describe("category", func() {
		It("should add and remove categories", func() {
			_, err := run("category", "add", "expense", "Pets")
			Expect(err).NotTo(HaveOccurred())

			out, err := run("category", "list", "expense")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("Pets"))

			_, err = run("category", "add", "expense", " Pets ")
			Expect(err).To(MatchError(internal.ErrDuplicateCategory))

			_, err = run("category", "remove", "expense", "Pets")
			Expect(err).NotTo(HaveOccurred())
		})

		It("should refuse to remove a category in use", func() {
			_, err := run("entry", "add", "expense", "Rent", "Housing", "900")
			Expect(err).NotTo(HaveOccurred())

			_, err = run("category", "remove", "expense", "Housing")
			Expect(err).To(MatchError(internal.ErrCategoryInUse))
		})
	})

	Describe("data", func() {
		It("should require confirmation to reset", func() {
			_, err := run("reset")
			Expect(err).To(MatchError(internal.ErrResetNotConfirmed))
		})

		It("should export, reset and import the ledger", func() {
			_, err := run("seed")
			Expect(err).NotTo(HaveOccurred())

			exportPath := filepath.Join(dir, "out", "budgetflow_data.json")
			_, err = run("export", "--out", exportPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(exportPath).To(BeAnExistingFile())

			_, err = run("reset", "--yes")
			Expect(err).NotTo(HaveOccurred())
			resetConfirmed = false

			out, err := run("entry", "list", "asset")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("No assets recorded."))

			out, err = run("import", exportPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("Imported 12 entries"))

			out, err = run("summary", "--breakdown")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("Net wealth"))
			Expect(out).To(ContainSubstring("Mortgage"))
		})

		It("should reject a corrupt import", func() {
			bad := filepath.Join(dir, "bad.json")
			Expect(os.WriteFile(bad, []byte("{not json"), 0o644)).To(Succeed())

			_, err := run("import", bad)
			Expect(err).To(MatchError(internal.ErrCorruptDocument))
		})
	})

	Describe("theme", func() {
		It("should default to light and remember the choice", func() {
			out, err := run("theme")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("light\n"))

			_, err = run("theme", "dark")
			Expect(err).NotTo(HaveOccurred())

			out, err = run("theme")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("dark\n"))

			_, err = run("theme", "neon")
			Expect(err).To(MatchError(internal.ErrInvalidTheme))
		})
	})

	Describe("sqlite storage", func() {
		BeforeEach(func() {
			writeConfig("logging:\n  level: error\nstorage:\n  driver: sqlite\n  path: " + filepath.Join(dir, "budgetflow.db") + "\n")
		})

		It("should migrate and keep entries in the database", func() {
			out, err := run("migrate")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("schema at version 1"))

			_, err = run("entry", "add", "liability", "Car loan", "Loan", "5400")
			Expect(err).NotTo(HaveOccurred())

			out, err = run("entry", "list", "liability")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("Car loan"))
		})
	})
})
