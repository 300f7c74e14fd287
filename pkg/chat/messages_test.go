package chat_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sagehq/sage/pkg/chat"
)

var _ = Describe("Messages", func() {
	Describe("NewUserMessage", func() {
		It("creates a user message with a unique ID", func() {
			msg := chat.NewUserMessage("hello")

			Expect(msg.ID).NotTo(BeEmpty())
			Expect(msg.Role).To(Equal(chat.RoleUser))
			Expect(msg.Content).To(Equal("hello"))
			Expect(msg.IsUser()).To(BeTrue())
		})

		It("trims surrounding whitespace", func() {
			msg := chat.NewUserMessage("  hello  \n")
			Expect(msg.Content).To(Equal("hello"))
		})

		It("assigns distinct IDs to each message", func() {
			a := chat.NewUserMessage("one")
			b := chat.NewUserMessage("two")
			Expect(a.ID).NotTo(Equal(b.ID))
		})
	})

	Describe("NewCompleteMessage", func() {
		It("carries the answer and the thinking trace", func() {
			msg := chat.NewCompleteMessage("the answer", "the trace")

			Expect(msg.Role).To(Equal(chat.RoleAssistant))
			Expect(msg.Kind).To(Equal(chat.KindComplete))
			Expect(msg.Content).To(Equal("the answer"))
			Expect(msg.ThinkingContent).To(Equal("the trace"))
			Expect(msg.IsComplete()).To(BeTrue())
			Expect(msg.HasThinking()).To(BeTrue())
		})

		It("reports no thinking for a blank trace", func() {
			msg := chat.NewCompleteMessage("the answer", "   ")
			Expect(msg.HasThinking()).To(BeFalse())
		})
	})

	Describe("role predicates", func() {
		It("distinguishes roles", func() {
			Expect(chat.NewAssistantMessage("a").IsAssistant()).To(BeTrue())
			Expect(chat.Message{Role: chat.RoleSystem}.IsSystem()).To(BeTrue())
			Expect(chat.NewErrorMessage("e").IsError()).To(BeTrue())
			Expect(chat.NewErrorMessage("e").IsAssistant()).To(BeFalse())
		})

		It("detects empty content", func() {
			Expect(chat.NewAssistantMessage("  ").IsEmpty()).To(BeTrue())
			Expect(chat.NewAssistantMessage("x").IsEmpty()).To(BeFalse())
		})
	})
})

var _ = Describe("Answer sentinels", func() {
	Describe("StripAnswerTags", func() {
		It("removes a matched pair of markers", func() {
			Expect(chat.StripAnswerTags("<ANSWER>Hi there</ANSWER>")).To(Equal("Hi there"))
		})

		It("removes markers case-insensitively", func() {
			Expect(chat.StripAnswerTags("<answer>Hi</Answer>")).To(Equal("Hi"))
		})

		It("removes an unmatched opening marker from a partial stream", func() {
			Expect(chat.StripAnswerTags("<ANSWER>Hi the")).To(Equal("Hi the"))
		})

		It("leaves marker-free text untouched apart from trimming", func() {
			Expect(chat.StripAnswerTags("  plain text ")).To(Equal("plain text"))
		})
	})

	Describe("ExtractAnswer", func() {
		It("extracts the delimited block", func() {
			content := "preamble <ANSWER>the real answer</ANSWER> trailing"
			Expect(chat.ExtractAnswer(content)).To(Equal("the real answer"))
		})

		It("joins multiple blocks", func() {
			content := "<ANSWER>first</ANSWER> noise <ANSWER>second</ANSWER>"
			Expect(chat.ExtractAnswer(content)).To(Equal("first\n\nsecond"))
		})

		It("falls back to stripping when no complete block exists", func() {
			Expect(chat.ExtractAnswer("<ANSWER>dangling")).To(Equal("dangling"))
		})
	})
})
