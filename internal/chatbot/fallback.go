package chatbot

import "github.com/krishisaathi/krishisaathi/pkg/utils"

// Canned template answers, served when retrieval yields nothing usable.
// The texts match the deployed assistant's responses.
const (
	cottonGuideResponse = "🌱 **Complete Cotton Growing Guide:**\n\n" +
		"**1. Soil Requirements:**\n• Black cotton soil or well-drained loamy soil\n• pH 5.8-8.0, optimal 6.0-7.5\n• Good drainage essential\n\n" +
		"**2. Climate:**\n• Temperature 21-27°C during growing season\n• 500-1000mm annual rainfall\n• 180-200 frost-free days\n\n" +
		"**3. Seeds & Planting:**\n• Use certified Bt cotton varieties\n• Plant spacing: 90cm x 45cm\n• Sowing depth: 2-3cm\n• Seed rate: 1.5-2 kg/hectare\n\n" +
		"**4. Fertilizers:**\n• NPK: 120:60:60 kg/hectare\n• Apply in 2-3 splits\n• Add organic manure 5-10 tons/hectare\n\n" +
		"**5. Irrigation:**\n• Critical stages: flowering & boll formation\n• Drip irrigation recommended\n• 6-8 irrigations needed\n\n" +
		"**6. Pest Management:**\n• Monitor for bollworm, aphids, whitefly\n• Use IPM approach\n• Pheromone traps\n• Neem-based pesticides\n\n" +
		"**7. Harvest:**\n• 160-180 days after sowing\n• Pick when bolls fully open\n• Multiple pickings needed"

	cottonResponse = "🌱 For cotton cultivation: Choose appropriate variety, prepare soil well, maintain proper spacing, monitor pests regularly, and ensure adequate irrigation. What specific aspect of cotton farming do you need help with?"

	riceResponse = "🌾 For rice cultivation: Prepare puddled fields, use quality seeds, maintain water levels, apply fertilizers in splits, and control weeds. What specific rice farming question do you have?"

	wheatResponse = "🌾 For wheat cultivation: Sow at right time, use recommended varieties, apply balanced fertilizers, ensure proper irrigation, and monitor for diseases. What wheat farming aspect interests you?"

	soilResponse = "🏞️ For soil management: Test soil regularly, add organic matter, maintain proper pH, ensure good drainage, and practice crop rotation. What soil issue are you facing?"

	fertilizerResponse = "🧪 For fertilizers: Use based on soil test, apply NPK in right ratios, consider organic options, time application properly, and avoid over-fertilization. What crop are you fertilizing?"

	pestResponse = "🐛 For pest management: Use IPM approach, monitor regularly, apply organic treatments first, encourage beneficial insects, and practice crop rotation. What pest problem are you seeing?"

	capabilitiesResponse = "🤖 I'm KrishiSaathi, your agricultural AI assistant. I can help with:\n• Crop cultivation (cotton, rice, wheat, etc.)\n• Soil management\n• Fertilizer recommendations\n• Pest and disease control\n• Irrigation practices\n\nWhat specific farming topic would you like to discuss?"
)

// Topic keyword sets, tested in priority order. The vernacular terms come
// from the original dataset's Hindi transliterations.
var (
	cottonKeywords       = []string{"cotton", "kapas"}
	cottonIntentKeywords = []string{"grow", "need", "cultivation", "farming"}
	riceKeywords         = []string{"rice", "paddy", "dhan"}
	wheatKeywords        = []string{"wheat", "gehun"}
	soilKeywords         = []string{"soil", "mitti"}
	fertilizerKeywords   = []string{"fertilizer", "khad"}
	pestKeywords         = []string{"pest", "disease", "keet"}
)

// Fallback returns the canned answer for the first matching topic keyword
// set, or the generic capability description when nothing matches.
func Fallback(query string) string {
	switch {
	case utils.ContainsAny(query, cottonKeywords) && utils.ContainsAny(query, cottonIntentKeywords):
		return cottonGuideResponse
	case utils.ContainsAny(query, cottonKeywords):
		return cottonResponse
	case utils.ContainsAny(query, riceKeywords):
		return riceResponse
	case utils.ContainsAny(query, wheatKeywords):
		return wheatResponse
	case utils.ContainsAny(query, soilKeywords):
		return soilResponse
	case utils.ContainsAny(query, fertilizerKeywords):
		return fertilizerResponse
	case utils.ContainsAny(query, pestKeywords):
		return pestResponse
	default:
		return capabilitiesResponse
	}
}
