package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/krishisaathi/krishisaathi/internal/models"
	"github.com/krishisaathi/krishisaathi/internal/storage"
	"github.com/krishisaathi/krishisaathi/internal/translate"
)

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.logger.Debug("chat request", zap.String("language", req.Language))
	resp := s.engine.Respond(r.Context(), req.Text, req.Language)
	if s.translator != nil && req.Language != "en" {
		resp.Reply = s.translator.Translate(r.Context(), resp.Reply, "en", req.Language)
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePredictCrop(w http.ResponseWriter, r *http.Request) {
	if s.predictor == nil {
		s.respondError(w, http.StatusServiceUnavailable, "prediction models not configured")
		return
	}
	var features models.CropFeatures
	if err := json.NewDecoder(r.Body).Decode(&features); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	result, err := s.predictor.PredictCrop(r.Context(), &features)
	if err != nil {
		s.logger.Error("crop prediction failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handlePredictFertilizer(w http.ResponseWriter, r *http.Request) {
	if s.predictor == nil {
		s.respondError(w, http.StatusServiceUnavailable, "prediction models not configured")
		return
	}
	var features models.FertilizerFeatures
	if err := json.NewDecoder(r.Body).Decode(&features); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	result, err := s.predictor.PredictFertilizer(r.Context(), &features)
	if err != nil {
		s.logger.Error("fertilizer prediction failed", zap.Error(err))
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handlePredictDisease(w http.ResponseWriter, r *http.Request) {
	if s.predictor == nil {
		s.respondError(w, http.StatusServiceUnavailable, "prediction models not configured")
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	imageBytes, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "failed to read upload")
		return
	}
	result, err := s.predictor.PredictDisease(r.Context(), imageBytes)
	if err != nil {
		s.logger.Error("disease prediction failed", zap.Error(err))
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Language string `json:"language"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		s.respondError(w, http.StatusBadRequest, "username, email and password are required")
		return
	}
	if req.Language == "" {
		req.Language = "en"
	}
	if !translate.IsSupported(req.Language) {
		s.respondError(w, http.StatusBadRequest, "invalid language")
		return
	}

	created, err := s.storage.CreateUser(r.Context(), req.Username, req.Email, req.Password, req.Language)
	if err != nil {
		s.logger.Error("register failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "registration failed")
		return
	}
	if !created {
		s.respondError(w, http.StatusConflict, "username or email already taken")
		return
	}
	s.respondJSON(w, http.StatusCreated, map[string]string{"message": "User registered successfully"})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user, err := s.storage.VerifyUser(r.Context(), req.Username, req.Password)
	if err != nil {
		s.logger.Error("login failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "login failed")
		return
	}
	if user == nil {
		s.respondError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"user":    user,
	})
}

type languageUpdateRequest struct {
	Username string `json:"username"`
	Language string `json:"language"`
}

func (s *Server) handleUpdateLanguage(w http.ResponseWriter, r *http.Request) {
	var req languageUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !translate.IsSupported(req.Language) {
		s.respondError(w, http.StatusBadRequest, "invalid language")
		return
	}
	if err := s.storage.UpdateLanguage(r.Context(), req.Username, req.Language); err != nil {
		s.logger.Error("language update failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "language update failed")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"message": "Language updated successfully"})
}

func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, translate.Languages)
}

func (s *Server) handleTranslations(w http.ResponseWriter, r *http.Request) {
	language := chi.URLParam(r, "language")
	if !translate.IsSupported(language) {
		s.respondError(w, http.StatusBadRequest, "invalid language")
		return
	}
	if s.translator == nil {
		s.respondJSON(w, http.StatusOK, translate.BaseTexts())
		return
	}
	s.respondJSON(w, http.StatusOK, s.translator.UITranslations(r.Context(), language))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resp := map[string]interface{}{
		"ready":       s.engine.Ready(),
		"corpus_size": s.engine.CorpusSize(),
	}

	if s.storage != nil {
		if count, err := s.storage.CountQARecords(ctx); err != nil {
			s.logger.Error("status: count qa records failed", zap.Error(err))
		} else {
			resp["stored_records"] = count
		}
	}

	diskBytes, err := storage.DiskUsageBytes(
		s.config.Storage.DatabasePath,
		s.config.Storage.VectorSnapshotPath,
	)
	if err == nil {
		resp["disk_usage_bytes"] = diskBytes
	}

	resp["config"] = map[string]interface{}{
		"corpus_dir":    s.config.Corpus.Dir,
		"top_k":         s.config.Chatbot.TopK,
		"database_path": s.config.Storage.DatabasePath,
		"kcc_enabled":   s.config.KCC.Enabled,
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
