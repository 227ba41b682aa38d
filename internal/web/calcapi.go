package web

import (
	"net/http"

	"github.com/local/toolbench/internal/calc"
	"github.com/local/toolbench/internal/metrics"
)

// The calculators are pure functions; the handlers only decode, compute and
// encode. Inputs are taken as-is, matching how the on-page tools behave.

func (s *Server) handleCalcProfit(w http.ResponseWriter, r *http.Request) {
	var in calc.ProfitInput
	if !decodeBody(w, r, &in) {
		return
	}
	metrics.IncCalculator("profit")
	writeJSON(w, http.StatusOK, calc.Profit(in))
}

func (s *Server) handleCalcROAS(w http.ResponseWriter, r *http.Request) {
	var in calc.ROASInput
	if !decodeBody(w, r, &in) {
		return
	}
	metrics.IncCalculator("roas")
	writeJSON(w, http.StatusOK, calc.BreakEvenROAS(in))
}

func (s *Server) handleCalcLTV(w http.ResponseWriter, r *http.Request) {
	var in calc.LTVInput
	if !decodeBody(w, r, &in) {
		return
	}
	metrics.IncCalculator("ltv")
	writeJSON(w, http.StatusOK, calc.LTVCAC(in))
}

func (s *Server) handleCalcReturns(w http.ResponseWriter, r *http.Request) {
	var in calc.ReturnsInput
	if !decodeBody(w, r, &in) {
		return
	}
	metrics.IncCalculator("returns")
	writeJSON(w, http.StatusOK, calc.ReturnsImpact(in))
}

func (s *Server) handleCalcBundle(w http.ResponseWriter, r *http.Request) {
	var in calc.BundleInput
	if !decodeBody(w, r, &in) {
		return
	}
	metrics.IncCalculator("bundle")
	writeJSON(w, http.StatusOK, calc.BundlePricing(in))
}

func (s *Server) handleCalcFees(w http.ResponseWriter, r *http.Request) {
	var in calc.FeesInput
	if !decodeBody(w, r, &in) {
		return
	}
	metrics.IncCalculator("fees")
	writeJSON(w, http.StatusOK, calc.ShopifyFees(in))
}
