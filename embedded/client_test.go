package embedded

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCreateUserSendsAPIKey(t *testing.T) {
	var gotKey, gotPath string
	var gotUser User
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-Key")
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotUser)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "secret-key")
	user := User{Name: "Partner X", Email: "x@partner.com", Role: 1}
	if err := client.CreateUser(context.Background(), user); err != nil {
		t.Fatal(err)
	}

	if gotKey != "secret-key" {
		t.Errorf("expected API key header, got %q", gotKey)
	}
	if gotPath != "/user" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if gotUser.Email != "x@partner.com" {
		t.Errorf("unexpected payload email %q", gotUser.Email)
	}
}

func TestFindUserByEmailMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("email") != "x@partner.com" {
			t.Errorf("unexpected email query %q", r.URL.Query().Get("email"))
		}
		json.NewEncoder(w).Encode(userListResponse{Data: []User{{ID: "remote-1", Email: "x@partner.com"}}})
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "k")
	user, err := client.FindUserByEmail(context.Background(), "x@partner.com")
	if err != nil {
		t.Fatal(err)
	}
	if user == nil || user.ID != "remote-1" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestFindUserByEmailNoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(userListResponse{Data: []User{}})
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "k")
	user, err := client.FindUserByEmail(context.Background(), "nobody@partner.com")
	if err != nil {
		t.Fatal(err)
	}
	if user != nil {
		t.Fatalf("expected nil user, got %+v", user)
	}
}

func TestDeleteUserByEmail404IsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"user not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "k")
	if err := client.DeleteUserByEmail(context.Background(), "gone@partner.com"); err != nil {
		t.Fatalf("404 on delete should be success, got %v", err)
	}
}

func TestUnauthorizedClassified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid api key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "wrong")
	err := client.CreateUser(context.Background(), User{Email: "x@partner.com"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsUnauthorized(err) {
		t.Fatalf("expected unauthorized classification, got %v", err)
	}
	if IsNotFound(err) {
		t.Error("401 must not classify as not found")
	}
	if !strings.Contains(err.Error(), "invalid api key") {
		t.Errorf("error should carry the remote message, got %q", err.Error())
	}
}

func TestBadRequestMessageExtracted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors":{"email":["already in use"]}}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "k")
	err := client.CreateUser(context.Background(), User{Email: "dup@partner.com"})
	if !IsBadRequest(err) {
		t.Fatalf("expected bad request classification, got %v", err)
	}
	if !strings.Contains(err.Error(), "already in use") {
		t.Errorf("error should carry field details, got %q", err.Error())
	}
}

func TestConnectionFailureIsNotAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // closed before the call: connection refused

	client := NewHTTPClient(srv.URL, "k")
	err := client.CreateUser(context.Background(), User{Email: "x@partner.com"})
	if err == nil {
		t.Fatal("expected connection error")
	}
	if IsNotFound(err) || IsUnauthorized(err) || IsForbidden(err) || IsBadRequest(err) {
		t.Fatalf("network failure must not classify as an API error: %v", err)
	}
	if !strings.Contains(err.Error(), "connection to user API failed") {
		t.Errorf("unexpected error text: %q", err.Error())
	}
}

func TestSetPassword(t *testing.T) {
	var gotPath string
	var gotBody setPasswordRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "k")
	if err := client.SetPassword(context.Background(), "x@partner.com", "new-password-1"); err != nil {
		t.Fatal(err)
	}
	if gotPath != "/user/x@partner.com/password" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if gotBody.Password != "new-password-1" {
		t.Errorf("unexpected password payload %q", gotBody.Password)
	}
}

func TestDefaultBaseURLApplied(t *testing.T) {
	client := NewHTTPClient("", "k")
	if client.baseURL != DefaultBaseURL {
		t.Fatalf("expected default base URL, got %q", client.baseURL)
	}
}
