package receipt

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ProcessRequest", func() {
	var (
		req     *ProcessRequest
		receipt *Receipt
		err     error
	)

	BeforeEach(func() {
		req = validRequest()
	})

	JustBeforeEach(func() {
		receipt, err = req.Validate()
	})

	fieldsOf := func(err error) []string {
		verrs, ok := err.(ValidationErrors)
		Expect(ok).To(BeTrue(), "expected ValidationErrors, got %T", err)
		fields := make([]string, 0, len(verrs))
		for _, e := range verrs {
			fields = append(fields, e.Field)
		}
		return fields
	}

	When("every field is valid", func() {
		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("should parse the purchase date", func() {
			Expect(receipt.PurchaseDate).To(Equal(time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)))
		})

		It("should parse the purchase time", func() {
			Expect(receipt.PurchaseTime).To(Equal(Clock{Hour: 13, Minute: 1}))
			Expect(receipt.PurchaseTime.Minutes()).To(Equal(781))
		})

		It("should keep the items in order", func() {
			Expect(receipt.Items).To(Equal(req.Items))
		})

		It("should keep the literal total", func() {
			Expect(receipt.Total).To(Equal("18.74"))
		})
	})

	When("the purchase time includes seconds", func() {
		BeforeEach(func() {
			req.PurchaseTime = "14:01:59"
		})

		It("should drop the seconds", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(receipt.PurchaseTime).To(Equal(Clock{Hour: 14, Minute: 1}))
		})
	})

	When("descriptions and retailers use allowed punctuation", func() {
		BeforeEach(func() {
			req.Retailer = "M&M Corner-Market_2"
			req.Items = []Item{
				{ShortDescription: "   Klarbrunn 12-PK 12 FL OZ  ", Price: "12.00"},
				{ShortDescription: "   ", Price: "0.00"},
			}
		})

		It("should accept them", func() {
			Expect(err).NotTo(HaveOccurred())
		})
	})

	DescribeTable("rejecting invalid fields",
		func(mutate func(r *ProcessRequest), field string) {
			r := validRequest()
			mutate(r)
			_, err := r.Validate()
			Expect(err).To(HaveOccurred())
			Expect(fieldsOf(err)).To(ConsistOf(field))
		},
		Entry("missing retailer", func(r *ProcessRequest) { r.Retailer = "" }, "retailer"),
		Entry("retailer with punctuation", func(r *ProcessRequest) { r.Retailer = "Target!" }, "retailer"),
		Entry("missing purchase date", func(r *ProcessRequest) { r.PurchaseDate = "" }, "purchaseDate"),
		Entry("non-ISO purchase date", func(r *ProcessRequest) { r.PurchaseDate = "01/01/2022" }, "purchaseDate"),
		Entry("impossible purchase date", func(r *ProcessRequest) { r.PurchaseDate = "2022-02-30" }, "purchaseDate"),
		Entry("missing purchase time", func(r *ProcessRequest) { r.PurchaseTime = "" }, "purchaseTime"),
		Entry("out of range purchase time", func(r *ProcessRequest) { r.PurchaseTime = "25:00" }, "purchaseTime"),
		Entry("no items", func(r *ProcessRequest) { r.Items = nil }, "items"),
		Entry("empty description", func(r *ProcessRequest) { r.Items[1].ShortDescription = "" }, "items[1].shortDescription"),
		Entry("description with punctuation", func(r *ProcessRequest) { r.Items[0].ShortDescription = "Dew & Co" }, "items[0].shortDescription"),
		Entry("price without cents", func(r *ProcessRequest) { r.Items[0].Price = "6" }, "items[0].price"),
		Entry("negative price", func(r *ProcessRequest) { r.Items[0].Price = "-6.49" }, "items[0].price"),
		Entry("missing total", func(r *ProcessRequest) { r.Total = "" }, "total"),
		Entry("total with three decimals", func(r *ProcessRequest) { r.Total = "18.740" }, "total"),
		Entry("price beyond a trillion", func(r *ProcessRequest) { r.Items[1].Price = "1000000000000.00" }, "items[1].price"),
		Entry("price that overflows int64 points", func(r *ProcessRequest) { r.Items[0].Price = "50000000000000000000.00" }, "items[0].price"),
		Entry("total beyond a trillion", func(r *ProcessRequest) { r.Total = "1000000000000.00" }, "total"),
		Entry("single digit hour", func(r *ProcessRequest) { r.PurchaseTime = "1:05" }, "purchaseTime"),
		Entry("single digit minute", func(r *ProcessRequest) { r.PurchaseTime = "14:5" }, "purchaseTime"),
		Entry("time with trailing text", func(r *ProcessRequest) { r.PurchaseTime = "14:05pm" }, "purchaseTime"),
	)

	When("amounts use the maximum number of digits", func() {
		BeforeEach(func() {
			req.Items[0].Price = "999999999999.99"
			req.Total = "999999999999.99"
		})

		It("should accept them", func() {
			Expect(err).NotTo(HaveOccurred())
		})
	})

	When("an amount is too large", func() {
		BeforeEach(func() {
			req.Total = "12345678901234.00"
		})

		It("should explain the digit limit", func() {
			Expect(err).To(MatchError(ContainSubstring("at most 12 digits before the decimal point")))
		})
	})

	When("names contain non-breaking spaces", func() {
		BeforeEach(func() {
			req.Retailer = "M&M\u00a0Corner\u00a0Market"
			req.Items[0].ShortDescription = "Mountain\u00a0Dew 12PK"
		})

		It("should accept them as whitespace", func() {
			Expect(err).NotTo(HaveOccurred())
		})
	})

	When("several fields are invalid", func() {
		BeforeEach(func() {
			req.Retailer = ""
			req.Total = "abc"
			req.Items[0].Price = "1.5"
		})

		It("should report all of them", func() {
			Expect(fieldsOf(err)).To(ConsistOf("retailer", "items[0].price", "total"))
		})

		It("should not return a receipt", func() {
			Expect(receipt).To(BeNil())
		})

		It("should describe every field in the message", func() {
			Expect(err.Error()).To(ContainSubstring("retailer: is required"))
			Expect(err.Error()).To(ContainSubstring("total:"))
		})
	})
})
