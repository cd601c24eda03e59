package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	claimservice "tipdrop/contexts/distribution/claim-service"
	claimentities "tipdrop/contexts/distribution/claim-service/domain/entities"
	dropservice "tipdrop/contexts/distribution/drop-service"
	dropmemory "tipdrop/contexts/distribution/drop-service/adapters/memory"
	dropentities "tipdrop/contexts/distribution/drop-service/domain/entities"
	drophttp "tipdrop/contexts/distribution/drop-service/transport/http"
	jarservice "tipdrop/contexts/tipping/jar-service"
	"tipdrop/internal/platform/messaging"
)

const (
	testCreator = "0x1111111111111111111111111111111111111111"
	testClaimer = "0x5555555555555555555555555555555555555555"
	seededDrop  = "0x00000000000000000000000000000000000000000000000000000000000000e1"
)

func newTestServer() *Server {
	drops := dropservice.NewInMemoryModule(nil, "https://tipdrop.example", nil)
	claims := claimservice.NewInMemoryModule(messaging.NewBus(nil), nil)
	claims.Store.PutDrop(claimentities.DropView{DropID: seededDrop, Capacity: 2})
	jar := jarservice.NewInMemoryModule(nil)
	return New(drops, claims, jar, nil, "")
}

func postJSON(t *testing.T, server *Server, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	return rr
}

func get(server *Server, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	return rr
}

func TestCreateDropEndpoint(t *testing.T) {
	server := newTestServer()

	rr := postJSON(t, server, "/v1/drops", drophttp.CreateDropRequest{
		Token:         "AVAX",
		Amount:        "1",
		Recipients:    5,
		CreatorWallet: testCreator,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}

	var resp drophttp.CreateDropResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Drop.DropID == "" || resp.Drop.ShortCode == "" {
		t.Fatalf("incomplete drop payload: %+v", resp.Drop)
	}

	rr = get(server, "/v1/drops/"+resp.Drop.DropID)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	rr = get(server, "/r/"+resp.Drop.ShortCode)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestCreateDropValidationReturns400(t *testing.T) {
	server := newTestServer()

	rr := postJSON(t, server, "/v1/drops", drophttp.CreateDropRequest{
		Token:         "AVAX",
		Amount:        "0",
		Recipients:    5,
		CreatorWallet: testCreator,
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}

	var resp drophttp.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if resp.Code != "invalid_request" {
		t.Fatalf("expected invalid_request, got %s", resp.Code)
	}
}

func TestCreateDropMalformedJSONReturns400(t *testing.T) {
	server := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/v1/drops", bytes.NewReader([]byte("{")))
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestListDropsRequiresCreator(t *testing.T) {
	server := newTestServer()

	rr := get(server, "/v1/drops")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestResolveUnknownShortCodeReturns404(t *testing.T) {
	server := newTestServer()

	rr := get(server, "/r/NOPE1")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}

// registryFailingStore settles mints but refuses registry writes, to drive
// the reconciliation payload.
type registryFailingStore struct {
	*dropmemory.Store
}

func (registryFailingStore) CreateDrop(context.Context, dropentities.Drop) error {
	return errors.New("connection refused")
}

func TestRegistryWriteFailureCarriesMintedDropID(t *testing.T) {
	store := dropmemory.NewStore(nil, nil)
	drops := dropservice.NewModule(dropservice.Dependencies{
		Repository:    registryFailingStore{Store: store},
		Settlement:    dropmemory.NewSettlement(),
		ShortCodes:    dropmemory.RandomShortCodes{},
		Clock:         store,
		PublicBaseURL: "https://tipdrop.example",
	})
	claims := claimservice.NewInMemoryModule(messaging.NewBus(nil), nil)
	server := New(drops, claims, jarservice.NewInMemoryModule(nil), nil, "")

	rr := postJSON(t, server, "/v1/drops", drophttp.CreateDropRequest{
		Token:         "AVAX",
		Amount:        "1",
		Recipients:    5,
		CreatorWallet: testCreator,
	})
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d body=%s", rr.Code, rr.Body.String())
	}

	var resp drophttp.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if resp.Code != "registry_write_failed" {
		t.Fatalf("expected registry_write_failed, got %s", resp.Code)
	}
	if resp.MintedDropID == "" {
		t.Fatalf("expected the minted drop id in the error payload")
	}
}

func TestAttemptClaimEndpoint(t *testing.T) {
	server := newTestServer()

	rr := postJSON(t, server, "/v1/drops/"+seededDrop+"/claims", map[string]string{
		"wallet_address": testClaimer,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}

	// A repeat settles nothing and is reported, not created.
	rr = postJSON(t, server, "/v1/drops/"+seededDrop+"/claims", map[string]string{
		"wallet_address": testClaimer,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for repeat claim, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = get(server, "/v1/drops/"+seededDrop+"/claims")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	rr = get(server, "/v1/wallets/"+testClaimer+"/claims")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestCheckEligibilityRequiresWalletQuery(t *testing.T) {
	server := newTestServer()

	rr := get(server, "/v1/drops/"+seededDrop+"/eligibility")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = get(server, "/v1/drops/"+seededDrop+"/eligibility?wallet="+testClaimer)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestJarEndpoints(t *testing.T) {
	server := newTestServer()

	rr := postJSON(t, server, "/v1/jar/deposits", map[string]string{
		"wallet_address": testClaimer,
		"amount":         "2",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = get(server, "/v1/jar/"+testClaimer+"/balance")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = postJSON(t, server, "/v1/tips", map[string]string{
		"author_handle": "author",
		"sender_wallet": testClaimer,
		"amount":        "1",
		"token":         "AVAX",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = get(server, "/v1/tips?limit=10")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = get(server, "/v1/tips/totals")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("totals without handle should 400, got %d", rr.Code)
	}
	rr = get(server, "/v1/tips/totals?handle=author")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
}
