package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/spam-triage/internal/dispatch"
	"github.com/sells-group/spam-triage/internal/model"
	"github.com/sells-group/spam-triage/internal/resolve"
)

type checkSpamResponse struct {
	Success        bool   `json:"success"`
	Status         string `json:"status,omitempty"`
	Phone          string `json:"phone,omitempty"`
	SpamScore      *int   `json:"spamScore,omitempty"`
	Category       string `json:"category,omitempty"`
	Message        string `json:"message,omitempty"`
	Error          string `json:"error,omitempty"`
	ProcessingTime string `json:"processingTime,omitempty"`
}

// checkSpam classifies and mutates one lead before answering.
func (h *handlers) checkSpam(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	elapsed := func() string { return fmt.Sprintf("%dms", time.Since(start).Milliseconds()) }

	body, err := decodeBody(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, checkSpamResponse{Error: err.Error()})
		return
	}
	zap.L().Info("server: check-spam webhook received", zap.Any("body", body))

	if missing(body["phone"]) {
		writeJSON(w, http.StatusBadRequest, checkSpamResponse{Error: "Отсутствует обязательное поле: phone"})
		return
	}
	if missing(body["lead_id"]) {
		writeJSON(w, http.StatusBadRequest, checkSpamResponse{Error: "Отсутствует обязательное поле: lead_id"})
		return
	}
	leadID, err := resolve.LeadID(model.RawLead{"lead_id": body["lead_id"]})
	if err != nil {
		writeJSON(w, http.StatusBadRequest, checkSpamResponse{Error: "Некорректное поле: lead_id"})
		return
	}

	// Once started, the mutation chain must finish even if the caller hangs up.
	res, err := h.Pipeline.Process(context.WithoutCancel(r.Context()), leadID, body["phone"])
	if err != nil {
		zap.L().Error("server: check-spam failed", zap.Int64("lead_id", leadID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, checkSpamResponse{Error: err.Error(), ProcessingTime: elapsed()})
		return
	}

	v := res.Verdict
	resp := checkSpamResponse{
		Success:        true,
		Status:         v.Status(),
		Phone:          v.Phone,
		SpamScore:      &v.Score,
		ProcessingTime: elapsed(),
	}
	if v.IsSpam {
		resp.Category = v.CategoryName
		resp.Message = fmt.Sprintf("Сделка %d переведена в статус СПАМ", leadID)
	} else {
		resp.Message = "Номер чистый, примечание добавлено"
	}
	ok(w, resp)
}

// amocrm acknowledges batch notifications immediately and processes them in
// the background. It always answers 200 so the CRM does not retry.
func (h *handlers) amocrm(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		zap.L().Error("server: amocrm webhook decode failed", zap.Error(err))
		ok(w, map[string]string{"status": "error", "message": err.Error()})
		return
	}
	zap.L().Info("server: amocrm webhook received", zap.Any("body", body))

	if missing(body["leads"]) {
		ok(w, map[string]string{"status": "ok", "message": "No leads data"})
		return
	}

	payload, err := toPayload(body)
	if err != nil {
		zap.L().Error("server: amocrm webhook payload invalid", zap.Error(err))
		ok(w, map[string]string{"status": "error", "message": err.Error()})
		return
	}

	sum := h.Dispatcher.Dispatch(r.Context(), dispatch.Entries(payload))
	zap.L().Info("server: amocrm batch dispatched",
		zap.Int("received", sum.Received),
		zap.Int("submitted", sum.Submitted),
		zap.Int("skipped", sum.Skipped),
	)
	ok(w, map[string]string{"status": "ok"})
}

func toPayload(body map[string]any) (model.WebhookPayload, error) {
	var p model.WebhookPayload
	raw, err := json.Marshal(body)
	if err != nil {
		return p, err
	}
	err = json.Unmarshal(raw, &p)
	return p, err
}

type testResult struct {
	Phone        string  `json:"phone"`
	IsSpam       bool    `json:"isSpam"`
	SpamScore    int     `json:"spamScore"`
	Category     string  `json:"category"`
	ReviewsCount int     `json:"reviewsCount"`
	Organization *string `json:"organization"`
	Region       *string `json:"region"`
	Operator     *string `json:"operator"`
}

// testCheck classifies a number without touching the CRM.
func (h *handlers) testCheck(w http.ResponseWriter, r *http.Request) {
	p := r.URL.Query().Get("phone")
	if strings.TrimSpace(p) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":   "Укажите номер телефона",
			"example": "/test/check?phone=79001234567",
		})
		return
	}

	v, err := h.Classifier.Classify(r.Context(), p)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": err.Error()})
		return
	}
	ok(w, map[string]any{
		"success": true,
		"result": testResult{
			Phone:        v.Phone,
			IsSpam:       v.IsSpam,
			SpamScore:    v.Score,
			Category:     v.CategoryName,
			ReviewsCount: v.ReviewsCount,
			Organization: v.Organization,
			Region:       v.Region,
			Operator:     v.Operator,
		},
	})
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	ok(w, map[string]string{"status": "healthy", "timestamp": h.Now().UTC().Format(time.RFC3339Nano)})
}

func (h *handlers) status(w http.ResponseWriter, _ *http.Request) {
	cfg := map[string]any{
		"spravportal":          h.Info.ReputationURL,
		"amocrm":               h.Info.CRMDomain,
		"spamThreshold":        h.Info.Threshold,
		"spamStatusConfigured": h.Info.StatusConfigured,
	}
	if h.Breakers != nil {
		cfg["circuits"] = h.Breakers.States()
	}
	ok(w, map[string]any{
		"status":    "ok",
		"service":   "amoCRM Spam Checker",
		"version":   Version,
		"timestamp": h.Now().UTC().Format(time.RFC3339Nano),
		"config":    cfg,
		"endpoints": map[string]string{
			"POST /webhook/check-spam": "Основной webhook (phone, lead_id)",
			"POST /webhook/amocrm":     "Webhook в формате amoCRM",
			"GET /test/check?phone=X":  "Тест проверки номера",
			"GET /":                    "Health check (эта страница)",
			"GET /health":              "Health check (для мониторинга)",
		},
	})
}

// missing mirrors loose truthiness checks on webhook fields.
func missing(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case json.Number:
		return t == "0"
	case bool:
		return !t
	default:
		return false
	}
}
