package openai_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tailored-agentic-units/supra/core/menu"
	"github.com/tailored-agentic-units/supra/core/response"
	"github.com/tailored-agentic-units/supra/oracle"
	"github.com/tailored-agentic-units/supra/oracle/openai"
)

// completionServer answers chat completion requests with content and records
// the last request body.
func completionServer(t *testing.T, status int, content string, captured *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		body, _ := io.ReadAll(r.Body)
		if captured != nil {
			_ = json.Unmarshal(body, captured)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error": {"message": "upstream failure", "type": "server_error"}}`))
			return
		}

		resp := map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 1,
			"model":   "test-model",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": "stop",
			}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func testView() oracle.View {
	return oracle.View{
		Preferences:  "no pork",
		InitialQuery: "hearty dinner",
		TurnCount:    1,
		Mode:         response.ModeAddition,
		Request:      "add a soup",
		Selection:    []menu.Item{{RestaurantName: "Sakhli", ItemName: "Khinkali", Price: 12}},
		Excluded:     []menu.Key{{Restaurant: "Sakhli", Item: "Kupati"}},
		Catalog: []menu.Restaurant{{
			ID:     "r1",
			Name:   "Sakhli",
			Dishes: []menu.Dish{{Name: "Kharcho", Price: 9}},
		}},
	}
}

func TestNew_RequiresKeyOrBaseURL(t *testing.T) {
	if _, err := openai.New(&oracle.Config{}); !errors.Is(err, openai.ErrMissingAPIKey) {
		t.Errorf("got %v, want ErrMissingAPIKey", err)
	}
	if _, err := openai.New(&oracle.Config{BaseURL: "http://localhost:11434/v1"}); err != nil {
		t.Errorf("keyless local base URL should be accepted: %v", err)
	}
}

func TestRegistered(t *testing.T) {
	o, err := oracle.New(&oracle.Config{Provider: openai.ProviderName, APIKey: "test"})
	if err != nil {
		t.Fatalf("oracle.New failed: %v", err)
	}
	if o == nil {
		t.Fatal("registry returned nil oracle")
	}
}

func TestPropose(t *testing.T) {
	content := `{"conversation_response": "A warming soup.", "results": [
		{"restaurant_id": "r1", "restaurant_name": "Sakhli", "item_name": "Kharcho", "price": 9, "reason": "beef and walnut soup"}
	]}`

	var captured map[string]any
	srv := completionServer(t, http.StatusOK, content, &captured)
	defer srv.Close()

	o, err := openai.New(&oracle.Config{APIKey: "test", BaseURL: srv.URL + "/v1", Model: "test-model", MaxTokens: 100})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	p, err := o.Propose(context.Background(), testView(), 3, nil)
	if err != nil {
		t.Fatalf("Propose failed: %v", err)
	}

	if p.Message != "A warming soup." {
		t.Errorf("got message %q", p.Message)
	}
	if len(p.Candidates) != 1 || p.Candidates[0].ItemName != "Kharcho" {
		t.Errorf("unexpected candidates %+v", p.Candidates)
	}

	if captured["model"] != "test-model" {
		t.Errorf("got model %v, want test-model", captured["model"])
	}
	format, _ := captured["response_format"].(map[string]any)
	if format["type"] != "json_object" {
		t.Errorf("expected json_object response format, got %v", captured["response_format"])
	}

	msgs, _ := captured["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	user, _ := msgs[1].(map[string]any)
	prompt, _ := user["content"].(string)
	for _, want := range []string{"SEARCH TYPE: ADDITION", "USER PREFERENCES: no pork", "Sakhli_Kupati", "Find 3 NEW items", "Kharcho"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestPropose_Attachment(t *testing.T) {
	var captured map[string]any
	srv := completionServer(t, http.StatusOK, `{"conversation_response": "ok", "results": []}`, &captured)
	defer srv.Close()

	o, err := openai.New(&oracle.Config{APIKey: "test", BaseURL: srv.URL + "/v1"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	attachment := &oracle.Attachment{Data: []byte{0xff, 0xd8, 0xff}, MIMEType: "image/jpeg"}
	if _, err := o.Propose(context.Background(), testView(), 1, attachment); err != nil {
		t.Fatalf("Propose failed: %v", err)
	}

	msgs, _ := captured["messages"].([]any)
	user, _ := msgs[1].(map[string]any)
	parts, ok := user["content"].([]any)
	if !ok || len(parts) != 2 {
		t.Fatalf("expected two content parts, got %v", user["content"])
	}
	image, _ := parts[1].(map[string]any)
	url, _ := image["image_url"].(map[string]any)
	if u, _ := url["url"].(string); !strings.HasPrefix(u, "data:image/jpeg;base64,") {
		t.Errorf("got image url %q, want data URL", u)
	}
}

func TestPropose_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		content string
		want    error
	}{
		{name: "upstream error", status: http.StatusInternalServerError},
		{name: "unparseable content", status: http.StatusOK, content: "sorry, no JSON today", want: oracle.ErrInvalidProposal},
		{name: "error object content", status: http.StatusOK, content: `{"error": "quota exceeded"}`, want: oracle.ErrInvalidProposal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := completionServer(t, tt.status, tt.content, nil)
			defer srv.Close()

			o, err := openai.New(&oracle.Config{APIKey: "test", BaseURL: srv.URL + "/v1"})
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}

			_, err = o.Propose(context.Background(), testView(), 1, nil)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}
