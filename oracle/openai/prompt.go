package openai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tailored-agentic-units/supra/core/response"
	"github.com/tailored-agentic-units/supra/oracle"
)

const systemPrompt = `You are a cuisine expert helping a guest assemble a meal from the restaurant data provided.
Answer with a single JSON object and nothing else.`

const outputFormat = `OUTPUT FORMAT (JSON ONLY):
{
  "conversation_response": "Brief response acknowledging the request",
  "results": [
    {
      "restaurant_id": "...",
      "restaurant_name": "...",
      "item_name": "...",
      "price": 0.00,
      "reason": "Why this item fits the request"
    }
  ]
}`

func buildPrompt(view oracle.View, requested int) (string, error) {
	catalog, err := json.Marshal(view.Catalog)
	if err != nil {
		return "", fmt.Errorf("failed to encode catalog: %w", err)
	}

	var b strings.Builder

	fmt.Fprintf(&b, "SEARCH TYPE: %s\n", strings.ToUpper(string(view.Mode)))
	fmt.Fprintf(&b, "CONVERSATION TURN: %d\n", view.TurnCount)
	if view.InitialQuery != "" {
		fmt.Fprintf(&b, "INITIAL QUERY: %s\n", view.InitialQuery)
	}
	if view.Preferences != "" {
		fmt.Fprintf(&b, "USER PREFERENCES: %s\n", view.Preferences)
	}

	if len(view.Selection) > 0 {
		parts := make([]string, len(view.Selection))
		for i, it := range view.Selection {
			parts[i] = it.String()
		}
		fmt.Fprintf(&b, "CURRENT SELECTION (%d items): %s\n", len(view.Selection), strings.Join(parts, ", "))
	}
	if len(view.Excluded) > 0 {
		fmt.Fprintf(&b, "EXCLUDED ITEMS (never suggest): %s\n", joinKeys(view.Excluded))
	}
	if len(view.Suggested) > 0 {
		fmt.Fprintf(&b, "ALREADY SHOWN (do not repeat): %s\n", joinKeys(view.Suggested))
	}
	if len(view.History) > 0 {
		b.WriteString("RECENT CONVERSATION:\n")
		for _, h := range view.History {
			fmt.Fprintf(&b, "User: %s\n", h)
		}
	}

	fmt.Fprintf(&b, "\nREQUEST: %q\n", view.Request)
	b.WriteString(instruction(view.Mode, requested, len(view.Selection)))
	b.WriteString("\n\nRESTAURANT DATA:\n")
	b.Write(catalog)
	b.WriteString("\n\nRULES:\n")
	b.WriteString("1. Never suggest items from the EXCLUDED list.\n")
	b.WriteString("2. Never repeat items from CURRENT SELECTION or ALREADY SHOWN.\n")
	b.WriteString("3. Respect the user preferences and dietary needs.\n")
	b.WriteString("4. Each item must be unique and exist in RESTAURANT DATA.\n\n")
	b.WriteString(outputFormat)

	return b.String(), nil
}

func instruction(mode response.Mode, requested, current int) string {
	switch mode {
	case response.ModeReplacement:
		return fmt.Sprintf("The user wants to replace the selection. Find %d completely different items.", requested)
	case response.ModeAddition:
		return fmt.Sprintf("The user wants to ADD to the current %d items. Find %d NEW items.", current, requested)
	default:
		return fmt.Sprintf("This is the initial search. Find %d items matching the request.", requested)
	}
}

func joinKeys[K fmt.Stringer](keys []K) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k.String()
	}
	return strings.Join(parts, ", ")
}
