package ledger_test

import (
	"errors"

	"github.com/frahmantamala/budgetflow/internal"
	"github.com/frahmantamala/budgetflow/internal/ledger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Category taxonomy", func() {
	var l *ledger.Ledger

	BeforeEach(func() {
		l = ledger.New(ledger.WithClock(frozenClock))
	})

	Describe("Categories", func() {
		It("should list labels in collated order", func() {
			Expect(l.Categories(ledger.KindExpense)).To(Equal([]string{
				"Education", "Entertainment", "Food", "Healthcare", "Housing", "Transportation", "Utilities",
			}))
		})

		It("should ignore case when ordering", func() {
			_, err := l.AddCategory(ledger.KindIncome, "apple")
			Expect(err).NotTo(HaveOccurred())
			Expect(l.Categories(ledger.KindIncome)).To(Equal([]string{
				"apple", "Business", "Freelance", "Investment", "Rental", "Salary",
			}))
		})

		It("should not change storage order", func() {
			before := l.State().Categories[ledger.KindExpense]
			_ = l.Categories(ledger.KindExpense)
			Expect(l.State().Categories[ledger.KindExpense]).To(Equal(before))
			Expect(before).To(Equal(ledger.LegacyExpenseCategories))
		})
	})

	Describe("AddCategory", func() {
		It("should trim and append the label", func() {
			label, err := l.AddCategory(ledger.KindAsset, "  Crypto ")
			Expect(err).NotTo(HaveOccurred())
			Expect(label).To(Equal("Crypto"))
			Expect(l.HasCategory(ledger.KindAsset, "Crypto")).To(BeTrue())
			Expect(l.State().Categories[ledger.KindAsset]).To(HaveLen(len(ledger.DefaultAssetTypes) + 1))
		})

		It("should keep each label exactly once", func() {
			_, err := l.AddCategory(ledger.KindAsset, "Crypto")
			Expect(err).NotTo(HaveOccurred())

			_, err = l.AddCategory(ledger.KindAsset, "Crypto ")
			Expect(errors.Is(err, internal.ErrDuplicateCategory)).To(BeTrue())

			count := 0
			for _, c := range l.Categories(ledger.KindAsset) {
				if c == "Crypto" {
					count++
				}
			}
			Expect(count).To(Equal(1))
		})

		It("should compare labels case-sensitively", func() {
			_, err := l.AddCategory(ledger.KindIncome, "salary")
			Expect(err).NotTo(HaveOccurred())
		})

		It("should keep kinds independent", func() {
			_, err := l.AddCategory(ledger.KindAsset, "Salary")
			Expect(err).NotTo(HaveOccurred())
		})

		It("should reject blank labels", func() {
			_, err := l.AddCategory(ledger.KindIncome, " \t ")
			Expect(errors.Is(err, internal.ErrInvalidLabel)).To(BeTrue())
		})
	})

	Describe("RemoveCategory", func() {
		It("should remove an unused label", func() {
			Expect(l.RemoveCategory(ledger.KindLiability, "Mortgage")).To(Succeed())
			Expect(l.HasCategory(ledger.KindLiability, "Mortgage")).To(BeFalse())
		})

		It("should refuse to remove a label in use", func() {
			_, err := l.Create(ledger.KindLiability, ledger.Fields{Label: "House", Category: "Mortgage", Amount: 150000})
			Expect(err).NotTo(HaveOccurred())

			err = l.RemoveCategory(ledger.KindLiability, "Mortgage")
			Expect(errors.Is(err, internal.ErrCategoryInUse)).To(BeTrue())
			Expect(l.HasCategory(ledger.KindLiability, "Mortgage")).To(BeTrue())
		})

		It("should report not found for an absent label", func() {
			before := l.State()
			err := l.RemoveCategory(ledger.KindIncome, "Lottery")
			Expect(errors.Is(err, internal.ErrCategoryNotFound)).To(BeTrue())
			Expect(l.State()).To(Equal(before))
		})

		It("should fail with CategoryInUse exactly when IsInUse held before the call", func() {
			l = ledger.New(ledger.WithClock(frozenClock), ledger.WithTrustedCategories())
			_, _ = l.Create(ledger.KindIncome, ledger.Fields{Label: "Job", Category: "Salary", Amount: 1})
			_, _ = l.Create(ledger.KindExpense, ledger.Fields{Label: "Vet", Category: "Pets", Amount: 1})
			_, _ = l.Create(ledger.KindAsset, ledger.Fields{Label: "Car", Category: "Vehicle", Amount: 1})

			candidates := []string{"Salary", "Pets", "Vehicle", "Food", "Loan", "Ghost"}
			for _, k := range ledger.Kinds() {
				for _, c := range candidates {
					inUse := l.IsInUse(k, c)
					err := l.RemoveCategory(k, c)
					Expect(errors.Is(err, internal.ErrCategoryInUse)).To(Equal(inUse), "kind=%s label=%s", k, c)
				}
			}
		})
	})

	Describe("NewTaxonomy", func() {
		It("should drop duplicates and blanks while keeping first occurrence order", func() {
			t := ledger.NewTaxonomy(map[ledger.Kind][]string{
				ledger.KindExpense: {"Food", "", "Rent", "Food", " Rent "},
			})
			Expect(t.Raw(ledger.KindExpense)).To(Equal([]string{"Food", "Rent"}))
			Expect(t.Raw(ledger.KindIncome)).To(Equal(ledger.LegacyIncomeCategories))
		})
	})
})
