package company

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHandler_CreateApproveList(t *testing.T) {
	svc, _ := newTestService()
	router := NewHandler(svc).Routes()

	body, _ := json.Marshal(map[string]string{"name": "Hydro Co", "email": "ops@hydro.example"})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body)))
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d body=%s", rr.Code, rr.Body.String())
	}
	var created struct {
		Data CreateResponse `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if created.Data.APIKey == "" || created.Data.Company == nil {
		t.Fatalf("create response = %+v", created.Data)
	}
	if bytes.Contains(rr.Body.Bytes(), []byte(created.Data.Company.APIKeyHash)) {
		t.Error("api key hash leaked in response")
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/"+created.Data.Company.ID.String()+"/approve", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("approve status = %d body=%s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/?status=approved", nil))
	var list struct {
		Data []Company `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &list); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(list.Data) != 1 || list.Data[0].Status != StatusApproved {
		t.Errorf("approved companies = %+v", list.Data)
	}
}

func TestHandler_Errors(t *testing.T) {
	svc, _ := newTestService()
	router := NewHandler(svc).Routes()

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"invalid email", http.MethodPost, "/", `{"name":"X","email":"nope"}`, http.StatusUnprocessableEntity},
		{"malformed json", http.MethodPost, "/", `{`, http.StatusBadRequest},
		{"bad id", http.MethodPut, "/not-a-uuid/approve", "", http.StatusBadRequest},
		{"unknown company", http.MethodPut, "/7f2c1a8e-9a51-4a3b-bd0e-2b1c1f9e0a11/approve", "", http.StatusNotFound},
		{"unknown status filter", http.MethodGet, "/?status=deleted", "", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, bytes.NewBufferString(tt.body)))
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d body=%s", rr.Code, tt.want, rr.Body.String())
			}
		})
	}
}
