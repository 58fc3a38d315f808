package service

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/mmynk/smartsplit/internal/calculator"
	"github.com/mmynk/smartsplit/internal/metrics"
	"github.com/mmynk/smartsplit/internal/models"
	"github.com/mmynk/smartsplit/internal/rules"
)

// AllocationService handles allocation calculation and rule parsing.
type AllocationService struct {
	interpreter    *rules.Service
	metrics        *metrics.Metrics
	defaultTaxRate float64
	defaultTipRate float64
}

// NewAllocationService creates the allocation service.
func NewAllocationService(interpreter *rules.Service, m *metrics.Metrics, defaultTaxRate, defaultTipRate float64) *AllocationService {
	return &AllocationService{
		interpreter:    interpreter,
		metrics:        m,
		defaultTaxRate: defaultTaxRate,
		defaultTipRate: defaultTipRate,
	}
}

// AllocationRequest is the calculate endpoint's input. Rates default to the
// configured values when omitted.
type AllocationRequest struct {
	Items      []models.Item   `json:"items"`
	People     []models.Person `json:"people"`
	Rules      []models.Rule   `json:"rules"`
	TaxRate    *float64        `json:"tax_rate"`
	TipRate    *float64        `json:"tip_rate"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// HandleCalculate computes the per-person breakdown for a bill.
func (s *AllocationService) HandleCalculate(w http.ResponseWriter, r *http.Request) {
	var req AllocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	taxRate := s.defaultTaxRate
	if req.TaxRate != nil {
		taxRate = *req.TaxRate
	}
	tipRate := s.defaultTipRate
	if req.TipRate != nil {
		tipRate = *req.TipRate
	}
	if taxRate < 0 || taxRate > 1 {
		writeError(w, http.StatusBadRequest, "tax_rate must be between 0 and 1")
		return
	}
	if tipRate < 0 || tipRate > 1 {
		writeError(w, http.StatusBadRequest, "tip_rate must be between 0 and 1")
		return
	}

	slog.Debug("Allocation request",
		"items", len(req.Items),
		"people", len(req.People),
		"rules", len(req.Rules),
		"grand_total", req.GrandTotal,
	)

	result, err := calculator.Calculate(req.Items, req.People, req.Rules, taxRate, tipRate, req.GrandTotal)
	if err != nil {
		slog.Error("Calculate failed", "error", err)
		s.metrics.RecordAllocation("invalid")
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.metrics.RecordAllocation("ok")
	writeJSON(w, http.StatusOK, result)
}

// ParseRulesRequest is the parse-rules endpoint's input: free-text rule
// lines plus the known person names.
type ParseRulesRequest struct {
	Rules  []string `json:"rules"`
	People []string `json:"people"`
}

// ParseRulesResponse carries the structured rules.
type ParseRulesResponse struct {
	ParsedRules []models.Rule `json:"parsed_rules"`
}

// HandleParseRules turns free-text rules into structured rules.
func (s *AllocationService) HandleParseRules(w http.ResponseWriter, r *http.Request) {
	var req ParseRulesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	parsed, source := s.interpreter.Parse(r.Context(), req.Rules, req.People)
	s.metrics.RecordRuleParse(source)

	if parsed == nil {
		parsed = []models.Rule{}
	}
	writeJSON(w, http.StatusOK, ParseRulesResponse{ParsedRules: parsed})
}
