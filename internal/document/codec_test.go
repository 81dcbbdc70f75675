package document_test

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/frahmantamala/budgetflow/internal"
	"github.com/frahmantamala/budgetflow/internal/document"
	"github.com/frahmantamala/budgetflow/internal/ledger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func populated() *ledger.Ledger {
	l := ledger.New(ledger.WithClock(func() time.Time { return time.UnixMilli(1700000000000) }))
	_, _ = l.Create(ledger.KindIncome, ledger.Fields{Label: "Acme", Category: "Salary", Amount: 2500.25})
	_, _ = l.Create(ledger.KindIncome, ledger.Fields{Label: "Etsy", Category: "Business", Amount: 120})
	e, _ := l.Create(ledger.KindExpense, ledger.Fields{Label: "Rent", Category: "Housing", Amount: 900})
	_, _ = l.Update(ledger.KindExpense, e.ID, ledger.Fields{Label: "Rent (Jan)", Category: "Housing", Amount: 950})
	gone, _ := l.Create(ledger.KindExpense, ledger.Fields{Label: "Typo", Category: "Food", Amount: 1})
	_ = l.Delete(ledger.KindExpense, gone.ID)
	_, _ = l.AddCategory(ledger.KindAsset, "Crypto")
	_, _ = l.Create(ledger.KindAsset, ledger.Fields{Label: "BTC", Category: "Crypto", Amount: 0.1})
	_, _ = l.Create(ledger.KindLiability, ledger.Fields{Label: "Visa", Category: "Credit Card", Amount: 320.4})
	_ = l.RemoveCategory(ledger.KindLiability, "Student Loan")
	return l
}

var _ = Describe("Codec", func() {
	Describe("round trip", func() {
		It("should rebuild a structurally equal ledger", func() {
			l := populated()

			data, err := document.Marshal(document.Serialize(l), false)
			Expect(err).NotTo(HaveOccurred())

			restored, err := document.Deserialize(data)
			Expect(err).NotTo(HaveOccurred())
			Expect(restored.State()).To(Equal(l.State()))
		})

		It("should round trip the default ledger", func() {
			l := ledger.New()
			data, err := document.Marshal(document.Serialize(l), true)
			Expect(err).NotTo(HaveOccurred())

			restored, err := document.Deserialize(data)
			Expect(err).NotTo(HaveOccurred())
			Expect(restored.State()).To(Equal(l.State()))
		})

		It("should round trip through the document view", func() {
			l := populated()
			Expect(document.Serialize(l).State()).To(Equal(l.State()))
		})
	})

	Describe("Marshal", func() {
		It("should use the per-kind field names", func() {
			data, err := document.Marshal(document.Serialize(populated()), false)
			Expect(err).NotTo(HaveOccurred())

			var generic map[string]any
			Expect(json.Unmarshal(data, &generic)).To(Succeed())
			Expect(generic).To(HaveKey("categories"))

			income := generic["incomes"].([]any)[0].(map[string]any)
			Expect(income).To(HaveKey("source"))
			Expect(income).To(HaveKey("category"))

			expense := generic["expenses"].([]any)[0].(map[string]any)
			Expect(expense).To(HaveKeyWithValue("description", "Rent (Jan)"))

			asset := generic["assets"].([]any)[0].(map[string]any)
			Expect(asset).To(HaveKey("type"))
			Expect(asset).To(HaveKey("value"))

			liability := generic["liabilities"].([]any)[0].(map[string]any)
			Expect(liability).To(HaveKeyWithValue("amount", 320.4))
		})

		It("should emit empty lists rather than null", func() {
			data, err := document.Marshal(document.Serialize(ledger.New()), false)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(ContainSubstring(`"incomes":[]`))
			Expect(string(data)).NotTo(ContainSubstring("null"))
		})

		It("should indent pretty output with two spaces", func() {
			data, err := document.Marshal(document.Serialize(ledger.New()), true)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(HavePrefix("{\n  \"incomes\": []"))
		})
	})

	Describe("Deserialize", func() {
		It("should fill defaults for a missing taxonomy", func() {
			l, err := document.Deserialize([]byte(`{"incomes":[{"id":5,"source":"Job","category":"Salary","amount":10}]}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(l.Entries(ledger.KindIncome)).To(Equal([]ledger.Entry{{ID: 5, Label: "Job", Category: "Salary", Amount: 10}}))
			Expect(l.Entries(ledger.KindAsset)).To(BeEmpty())
			Expect(l.State().Categories).To(Equal(ledger.New().State().Categories))
		})

		It("should fill defaults only for kinds missing from the mapping", func() {
			l, err := document.Deserialize([]byte(`{"categories":{"income":["Salary"],"asset":[]}}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(l.Categories(ledger.KindIncome)).To(Equal([]string{"Salary"}))
			Expect(l.Categories(ledger.KindAsset)).To(BeEmpty())
			Expect(l.Categories(ledger.KindExpense)).To(ConsistOf(ledger.LegacyExpenseCategories))
		})

		It("should read only the exact kind names from the mapping", func() {
			data := []byte(`{"categories":{"income":["A"],"Income":["B"]," expense ":["C"]}}`)
			for i := 0; i < 20; i++ {
				l, err := document.Deserialize(data)
				Expect(err).NotTo(HaveOccurred())
				Expect(l.Categories(ledger.KindIncome)).To(Equal([]string{"A"}))
				Expect(l.Categories(ledger.KindExpense)).To(ConsistOf(ledger.LegacyExpenseCategories))
			}
		})

		It("should continue ids after the largest stored id", func() {
			l, err := document.Deserialize([]byte(`{"expenses":[{"id":9999999999999,"description":"x","category":"Food","amount":1}]}`))
			Expect(err).NotTo(HaveOccurred())

			e, err := l.Create(ledger.KindIncome, ledger.Fields{Label: "y", Category: "Salary", Amount: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(e.ID).To(BeNumerically(">", int64(9999999999999)))
		})

		DescribeTable("should reject malformed input with CorruptDocument",
			func(input string) {
				l, err := document.Deserialize([]byte(input))
				Expect(l).To(BeNil())
				Expect(errors.Is(err, internal.ErrCorruptDocument)).To(BeTrue())
			},
			Entry("empty", ""),
			Entry("not json", "definitely not json"),
			Entry("truncated", `{"incomes":[`),
			Entry("top-level array", `[1,2,3]`),
			Entry("top-level null", `null`),
			Entry("wrong collection type", `{"incomes":{"id":1}}`),
			Entry("string amount", `{"expenses":[{"id":1,"description":"x","category":"Food","amount":"12"}]}`),
			Entry("numeric categories", `{"categories":42}`),
			Entry("non-string legacy labels", `{"categories":[1,2]}`),
			Entry("non-list kind labels", `{"categories":{"income":"Salary"}}`),
		)
	})

	Describe("IsLegacy", func() {
		It("should detect the flat category list", func() {
			Expect(document.IsLegacy([]byte(`{"categories":["Salary"]}`))).To(BeTrue())
			Expect(document.IsLegacy([]byte(`{"categories":{"income":["Salary"]}}`))).To(BeFalse())
			Expect(document.IsLegacy([]byte(`{}`))).To(BeFalse())
			Expect(document.IsLegacy([]byte(strings.Repeat("x", 3)))).To(BeFalse())
		})
	})
})
