package chatbot

import (
	"strings"

	"github.com/krishisaathi/krishisaathi/pkg/utils"
)

// Fixed conversational responses. Texts match the deployed assistant.
const (
	promptForTopicResponse = "Please ask me about agricultural topics like crops, soil, fertilizers, or pest management."

	greetingResponse = "🙏 Hello! I'm KrishiSaathi, your AI agricultural assistant powered by advanced language models. Ask me about farming, crops, soil management, or pest control!"

	identityResponse = "🤖 I'm KrishiSaathi, your intelligent agricultural companion! I'm an AI assistant specifically designed to help farmers with:\n\n" +
		"🌱 Crop cultivation guidance\n🌾 Soil management advice\n💧 Irrigation recommendations\n🐛 Pest and disease control\n🧪 Fertilizer suggestions\n📊 Agricultural best practices\n\n" +
		"I have access to over 100,000 agricultural Q&A pairs and use advanced AI to provide accurate, helpful farming advice. How can I help you with your farming needs today?"

	thanksResponse = "🙏 You're welcome! Happy farming! Feel free to ask more agricultural questions anytime."

	troubleResponse = "I'm having trouble processing your question. Please try asking about specific agricultural topics like crop cultivation, soil management, or pest control."

	preparingResponse = "I'm still loading my agricultural knowledge base. Please try again in a moment."
)

var (
	greetingKeywords = []string{"hello", "hi", "hey", "namaste", "good morning", "good evening"}
	identityPhrases  = []string{"who are you", "what are you", "who r u", "what r u", "introduce yourself", "tell me about yourself"}
	thanksKeywords   = []string{"thank", "thanks", "dhanyawad"}

	// Short conversational turns only; "hi, how do I water rice" is a real
	// question, not a greeting.
	maxShortCircuitWords = 3
)

// shortCircuit answers greetings, identity questions, and thanks before any
// retrieval happens. Returns ("", false) when the input needs the selector.
// Order matters: a greeting that also contains an identity phrase hits the
// greeting branch first.
func shortCircuit(input string) (string, bool) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return promptForTopicResponse, true
	}
	words := utils.WordCount(trimmed)
	if utils.ContainsAny(trimmed, greetingKeywords) && words <= maxShortCircuitWords {
		return greetingResponse, true
	}
	if utils.ContainsAny(trimmed, identityPhrases) {
		return identityResponse, true
	}
	if utils.ContainsAny(trimmed, thanksKeywords) && words <= maxShortCircuitWords {
		return thanksResponse, true
	}
	return "", false
}
