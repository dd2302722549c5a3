package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/CrowdChain-Network/registry_layer/internal/registry"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.node != nil {
		if _, err := s.node.GetBlockCount(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "error": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListCampaigns(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if owner := r.URL.Query().Get("owner"); owner != "" {
		campaigns, err := s.cache.GetByOwner(ctx, owner)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, campaignList(campaigns))
		return
	}

	if statusParam := r.URL.Query().Get("status"); statusParam != "" {
		status, err := registry.ParseStatus(statusParam)
		if err != nil {
			writeError(w, err)
			return
		}
		campaigns, err := s.cache.GetByStatus(ctx, status)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, campaignList(campaigns))
		return
	}

	snap, err := s.cache.GetAll(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	snap, err := s.cache.Refresh(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Target      string `json:"target"`
		Deadline    string `json:"deadline"`
		Image       string `json:"image"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: %v", registry.ErrInvalidArgument, err))
		return
	}

	target, err := parseAmount(req.Target)
	if err != nil {
		writeError(w, err)
		return
	}

	receipt, err := s.publisher.Publish(r.Context(), registry.Draft{
		Title:       req.Title,
		Description: req.Description,
		Target:      target,
		Deadline:    req.Deadline,
		Image:       req.Image,
	})
	if err != nil && receipt == nil {
		writeError(w, err)
		return
	}
	writeReceipt(w, receipt, err)
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	id, err := campaignID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	receipt, err := s.moderator.Approve(r.Context(), id)
	if err != nil && receipt == nil {
		writeError(w, err)
		return
	}
	writeReceipt(w, receipt, err)
}

func (s *Server) handleReject(w http.ResponseWriter, r *http.Request) {
	id, err := campaignID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: %v", registry.ErrInvalidArgument, err))
		return
	}

	receipt, err := s.moderator.Reject(r.Context(), id, req.Reason)
	if err != nil && receipt == nil {
		writeError(w, err)
		return
	}
	writeReceipt(w, receipt, err)
}

func (s *Server) handleDonate(w http.ResponseWriter, r *http.Request) {
	id, err := campaignID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		Amount string `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: %v", registry.ErrInvalidArgument, err))
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}

	receipt, err := s.recorder.Donate(r.Context(), id, amount)
	if err != nil && receipt == nil {
		writeError(w, err)
		return
	}
	writeReceipt(w, receipt, err)
}

func (s *Server) handleListDonations(w http.ResponseWriter, r *http.Request) {
	id, err := campaignID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	donations, err := s.recorder.ListDonations(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if donations == nil {
		donations = []registry.Donation{}
	}
	writeJSON(w, http.StatusOK, donations)
}

func (s *Server) handleAuthorization(w http.ResponseWriter, r *http.Request) {
	identity := r.URL.Query().Get("identity")
	decision := s.gate.Check(r.Context(), identity)
	writeJSON(w, http.StatusOK, decision)
}

// =============================================================================
// Helpers
// =============================================================================

func campaignID(r *http.Request) (int64, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid campaign id %q", registry.ErrInvalidArgument, raw)
	}
	return id, nil
}

func parseAmount(s string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("%w: invalid amount %q", registry.ErrInvalidArgument, s)
	}
	return n, nil
}

func campaignList(campaigns []registry.Campaign) []registry.Campaign {
	if campaigns == nil {
		return []registry.Campaign{}
	}
	return campaigns
}

type receiptResponse struct {
	Receipt *registry.Receipt `json:"receipt"`
	// Warning is set when the write committed but the follow-up cache
	// refresh failed; the snapshot self-heals past the TTL.
	Warning string `json:"warning,omitempty"`
}

func writeReceipt(w http.ResponseWriter, receipt *registry.Receipt, err error) {
	resp := receiptResponse{Receipt: receipt}
	if err != nil {
		resp.Warning = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, registry.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, registry.ErrNotAuthorized):
		status = http.StatusForbidden
	case errors.Is(err, registry.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, registry.ErrRemoteRead), errors.Is(err, registry.ErrRemoteWrite):
		status = http.StatusBadGateway
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
