package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("TokenizedName", func() {
	It("should parse name", func() {
		name, err := ParseName("Market[0].Sawtooth[0]")
		Expect(err).ToNot(HaveOccurred())
		Expect(name.Tokens[0].ElemName).To(Equal("Market"))
		Expect(name.Tokens[0].Index).To(Equal([]int{0}))
		Expect(name.Tokens[1].ElemName).To(Equal("Sawtooth"))
		Expect(name.Tokens[1].Index).To(Equal([]int{0}))
	})

	It("should parse multi-dimensional index", func() {
		name, err := ParseName("Market[0][1].Clock[0][1]")
		Expect(err).ToNot(HaveOccurred())
		Expect(name.Tokens[0].Index).To(Equal([]int{0, 1}))
		Expect(name.Tokens[1].ElemName).To(Equal("Clock"))
		Expect(name.Tokens[1].Index).To(Equal([]int{0, 1}))
	})

	DescribeTable("invalid names",
		func(name string) {
			Expect(ValidateName(name)).To(MatchError(ErrInvalidName))
		},
		Entry("empty", ""),
		Entry("underscore", "Stock_0"),
		Entry("dash", "Stock-0"),
		Entry("space", "Stock 0"),
		Entry("not capitalized", "stock"),
		Entry("open bracket", "Stock[0"),
		Entry("close bracket", "Stock0]"),
		Entry("empty element", "Market..Stock"),
		Entry("trailing dot", "Market.Stock."),
		Entry("non-integer index", "Stock[a]"),
	)

	It("should accept valid names", func() {
		Expect(ValidateName("Sawtooth")).To(Succeed())
		Expect(ValidateName("Market.Stock[2]")).To(Succeed())
	})

	It("should build name", func() {
		Expect(BuildName("", "Market")).To(Equal("Market"))
		Expect(BuildName("Market", "Clock")).To(Equal("Market.Clock"))
	})

	It("should build name with index", func() {
		Expect(BuildNameWithIndex("", "Stock", 0)).To(Equal("Stock[0]"))
		Expect(BuildNameWithIndex("Market", "Stock", 3)).
			To(Equal("Market.Stock[3]"))
	})
})
