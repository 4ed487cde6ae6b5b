package config

// Tier and filter defaults. These reproduce the deployed chatbot's behavior
// exactly; the boundaries are strict greater-than comparisons downstream.
const (
	DefaultTopK                 = 5
	DefaultRetrievalThreshold   = 0.2
	DefaultDirectMatchThreshold = 0.8
	DefaultModerateThreshold    = 0.5
	DefaultLowThreshold         = 0.2
	DefaultMinAnswerChars       = 30
	DefaultMinAnswerWords       = 5
)

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/krishisaathi/data/db/krishisaathi.db"
	}
	if cfg.Storage.VectorSnapshotPath == "" {
		cfg.Storage.VectorSnapshotPath = "/usr/local/var/krishisaathi/data/indices/questions.vec"
	}
	if cfg.Corpus.Dir == "" {
		cfg.Corpus.Dir = "/usr/local/var/krishisaathi/data/faqs"
	}
	if cfg.KCC.SnapshotPath == "" {
		cfg.KCC.SnapshotPath = "/usr/local/var/krishisaathi/data/kcc_agricultural_data.json"
	}
	if cfg.KCC.APIURL == "" {
		cfg.KCC.APIURL = "https://api.data.gov.in/resource/cef25fe2-9231-4128-8aec-2c948fedd43f"
	}
	if len(cfg.KCC.States) == 0 {
		cfg.KCC.States = []string{
			"PUNJAB", "HARYANA", "UTTAR PRADESH", "MAHARASHTRA", "KARNATAKA",
			"TAMIL NADU", "ANDHRA PRADESH", "WEST BENGAL", "GUJARAT", "RAJASTHAN",
		}
	}
	if cfg.KCC.LimitPerState == 0 {
		cfg.KCC.LimitPerState = 100
	}
	if cfg.KCC.TimeoutSeconds == 0 {
		cfg.KCC.TimeoutSeconds = 10
	}
	if cfg.Embedding.MaxFeatures == 0 {
		cfg.Embedding.MaxFeatures = 5000
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 10000
	}
	if cfg.Chatbot.TopK == 0 {
		cfg.Chatbot.TopK = DefaultTopK
	}
	if cfg.Chatbot.RetrievalThreshold == 0 {
		cfg.Chatbot.RetrievalThreshold = DefaultRetrievalThreshold
	}
	if cfg.Chatbot.DirectMatchThreshold == 0 {
		cfg.Chatbot.DirectMatchThreshold = DefaultDirectMatchThreshold
	}
	if cfg.Chatbot.ModerateThreshold == 0 {
		cfg.Chatbot.ModerateThreshold = DefaultModerateThreshold
	}
	if cfg.Chatbot.LowThreshold == 0 {
		cfg.Chatbot.LowThreshold = DefaultLowThreshold
	}
	if cfg.Chatbot.MinAnswerChars == 0 {
		cfg.Chatbot.MinAnswerChars = DefaultMinAnswerChars
	}
	if cfg.Chatbot.MinAnswerWords == 0 {
		cfg.Chatbot.MinAnswerWords = DefaultMinAnswerWords
	}
	if cfg.Translate.Endpoint == "" {
		cfg.Translate.Endpoint = "https://translate.googleapis.com/translate_a/single"
	}
	if cfg.Translate.TimeoutSeconds == 0 {
		cfg.Translate.TimeoutSeconds = 3
	}
	if cfg.Predict.ModelsDir == "" {
		cfg.Predict.ModelsDir = "/usr/local/var/krishisaathi/data/models"
	}
}
