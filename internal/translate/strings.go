package translate

// Languages maps the supported UI language names to their ISO 639-1 codes.
var Languages = map[string]string{
	"english":   "en",
	"hindi":     "hi",
	"bengali":   "bn",
	"telugu":    "te",
	"marathi":   "mr",
	"tamil":     "ta",
	"gujarati":  "gu",
	"kannada":   "kn",
	"malayalam": "ml",
	"punjabi":   "pa",
	"odia":      "or",
}

// IsSupported reports whether code is one of the supported language codes.
func IsSupported(code string) bool {
	for _, c := range Languages {
		if c == code {
			return true
		}
	}
	return false
}

// baseKeys fixes the iteration order of baseTexts so batch translations can
// be zipped back to their keys.
var baseKeys = []string{
	"welcome",
	"login",
	"register",
	"username",
	"password",
	"email",
	"language",
	"crop_recommendation",
	"fertilizer_recommendation",
	"disease_detection",
	"logout",
	"nitrogen",
	"phosphorus",
	"potassium",
	"temperature",
	"humidity",
	"ph_level",
	"rainfall",
	"get_recommendation",
	"analyzing",
	"crop_desc",
	"description",
	"welcome_user",
	"results",
	"submit_data",
}

// baseTexts holds the English UI strings served to clients. Translations are
// produced on demand and cached per language.
var baseTexts = map[string]string{
	"welcome":                   "Welcome to KrishiSaathi",
	"login":                     "Login",
	"register":                  "Register",
	"username":                  "Username",
	"password":                  "Password",
	"email":                     "Email",
	"language":                  "Language",
	"crop_recommendation":       "Crop Recommendation",
	"fertilizer_recommendation": "Fertilizer Recommendation",
	"disease_detection":         "Disease Detection",
	"logout":                    "Logout",
	"nitrogen":                  "Nitrogen (N)",
	"phosphorus":                "Phosphorus (P)",
	"potassium":                 "Potassium (K)",
	"temperature":               "Temperature (°C)",
	"humidity":                  "Humidity (%)",
	"ph_level":                  "pH Level",
	"rainfall":                  "Rainfall (mm)",
	"get_recommendation":        "Get Recommendation",
	"analyzing":                 "Analyzing...",
	"crop_desc":                 "Find the best crop for your soil conditions",
	"description":               "Get personalized crop recommendations, fertilizer guidance, and disease detection using advanced machine learning algorithms trained on agricultural data.",
	"welcome_user":              "Welcome",
	"results":                   "Results & Insights",
	"submit_data":               "Submit your data to get AI-powered recommendations",
}

// BaseTexts returns a copy of the English UI strings.
func BaseTexts() map[string]string {
	out := make(map[string]string, len(baseTexts))
	for k, v := range baseTexts {
		out[k] = v
	}
	return out
}
