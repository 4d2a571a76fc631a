package password_test

import (
	"quizzer/pkg/password"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

var _ = Describe("Hasher", func() {
	var hasher password.Hasher

	BeforeEach(func() {
		// minimum cost keeps the suite fast
		hasher = password.New(bcrypt.MinCost)
	})

	Describe("Hash", func() {
		It("should produce a digest that verifies against the plaintext", func() {
			hash, err := hasher.Hash("secret1")
			Expect(err).NotTo(HaveOccurred())
			Expect(hash).NotTo(BeEmpty())
			Expect(hasher.Verify("secret1", hash)).To(BeTrue())
		})

		It("should salt each digest", func() {
			first, err := hasher.Hash("secret1")
			Expect(err).NotTo(HaveOccurred())
			second, err := hasher.Hash("secret1")
			Expect(err).NotTo(HaveOccurred())
			Expect(first).NotTo(Equal(second))
		})
	})

	Describe("Verify", func() {
		var hash string

		BeforeEach(func() {
			var err error
			hash, err = hasher.Hash("secret1")
			Expect(err).NotTo(HaveOccurred())
		})

		It("should reject a wrong password", func() {
			Expect(hasher.Verify("secret2", hash)).To(BeFalse())
		})

		It("should reject a malformed digest", func() {
			Expect(hasher.Verify("secret1", "not-a-bcrypt-hash")).To(BeFalse())
		})
	})

	Describe("New", func() {
		When("the cost is below the bcrypt minimum", func() {
			It("should fall back to the default cost", func() {
				fallback := password.New(0)
				hash, err := fallback.Hash("secret1")
				Expect(err).NotTo(HaveOccurred())

				cost, err := bcrypt.Cost([]byte(hash))
				Expect(err).NotTo(HaveOccurred())
				Expect(cost).To(Equal(bcrypt.DefaultCost))
			})
		})
	})
})
