// Package ai wraps the Gemini SDK behind the five assistant operations
// the app uses. Every call is best-effort: when the key is missing, the
// network is down, or the model errors, callers get a static fallback
// string (or nil image), never an error they have to handle.
package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net"
	"strings"
	"time"

	"go-retail-pos/internal/models"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	textModel  = "gemini-2.0-flash-001"
	imageModel = "gemini-2.0-flash-exp-image-generation"

	// FallbackMessage is what callers render when the assistant is
	// unavailable. Everything the assistant returns is optional.
	FallbackMessage = "AI assistant is unavailable right now. Please try again later."
)

// InventoryReport is the structured inventory briefing.
type InventoryReport struct {
	RestockAlerts []string `json:"restock_alerts"`
	MarketingTips []string `json:"marketing_tips"`
	Summary       string   `json:"summary"`
}

// Task is one suggested daily task.
type Task struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

type Assistant struct {
	apiKey string
	// online is swappable for tests; defaults to a quick TCP probe.
	online func() bool
}

func New(apiKey string) *Assistant {
	return &Assistant{apiKey: apiKey, online: probeNetwork}
}

// probeNetwork is the go/no-go gate before dialing the model. There is
// no retry: a failed call surfaces the fallback and that is that.
func probeNetwork() bool {
	conn, err := net.DialTimeout("tcp", "generativelanguage.googleapis.com:443", 2*time.Second)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

func (a *Assistant) ready() bool {
	return a.apiKey != "" && a.online()
}

// generate runs one prompt through the text model.
func (a *Assistant) generate(ctx context.Context, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(a.apiKey))
	if err != nil {
		return "", err
	}
	defer client.Close()

	model := client.GenerativeModel(textModel)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			return string(txt), nil
		}
	}
	return "", fmt.Errorf("no text in model response")
}

// GetInsight answers a free-text business question grounded on snapshots
// of the catalog and the recent transactions.
func (a *Assistant) GetInsight(ctx context.Context, products []models.Product, txs []models.Transaction, query string) string {
	if !a.ready() {
		return FallbackMessage
	}

	productsJSON, _ := json.Marshal(summarizeProducts(products))
	txJSON, _ := json.Marshal(summarizeTransactions(txs, 50))

	prompt := fmt.Sprintf(`SYSTEM: Today is %s. You are a retail shop assistant.
Answer the owner's question using ONLY the data below. Be concise and concrete.

INVENTORY: %s
RECENT TRANSACTIONS: %s

QUESTION: %s`, time.Now().Format("2006-01-02"), productsJSON, txJSON, query)

	text, err := a.generate(ctx, prompt)
	if err != nil {
		return FallbackMessage
	}
	return text
}

// GetInventoryReport asks the model for a structured restock/marketing
// briefing over the catalog snapshot.
func (a *Assistant) GetInventoryReport(ctx context.Context, products []models.Product) InventoryReport {
	fallback := InventoryReport{Summary: FallbackMessage}
	if !a.ready() {
		return fallback
	}

	productsJSON, _ := json.Marshal(summarizeProducts(products))
	prompt := fmt.Sprintf(`You are a retail inventory analyst. Given this inventory,
reply with ONLY a JSON object: {"restock_alerts": [..], "marketing_tips": [..], "summary": ".."}.
No markdown fences.

INVENTORY: %s`, productsJSON)

	text, err := a.generate(ctx, prompt)
	if err != nil {
		return fallback
	}
	var report InventoryReport
	if err := json.Unmarshal([]byte(stripFences(text)), &report); err != nil {
		return fallback
	}
	return report
}

// GetDailyTasks suggests prioritized tasks from the catalog and sales
// snapshots. Empty slice on any failure.
func (a *Assistant) GetDailyTasks(ctx context.Context, products []models.Product, txs []models.Transaction) []Task {
	if !a.ready() {
		return nil
	}

	productsJSON, _ := json.Marshal(summarizeProducts(products))
	txJSON, _ := json.Marshal(summarizeTransactions(txs, 30))
	prompt := fmt.Sprintf(`You are a shop operations assistant. Given the inventory and
recent sales, reply with ONLY a JSON array of at most 5 tasks:
[{"title": "..", "description": "..", "priority": "high|medium|low"}]. No markdown fences.

INVENTORY: %s
RECENT TRANSACTIONS: %s`, productsJSON, txJSON)

	text, err := a.generate(ctx, prompt)
	if err != nil {
		return nil
	}
	var tasks []Task
	if err := json.Unmarshal([]byte(stripFences(text)), &tasks); err != nil {
		return nil
	}
	return tasks
}

// GetProfitBriefing narrates the P&L figures for the owner.
func (a *Assistant) GetProfitBriefing(ctx context.Context, revenue, expenses, cogs float64, topCategories []string) string {
	if !a.ready() {
		return FallbackMessage
	}

	prompt := fmt.Sprintf(`You are a small-business financial advisor. Write a short
plain-language briefing (max 120 words) on these figures. No markdown.

Revenue: %.2f
Expenses: %.2f
Cost of goods sold: %.2f
Top categories: %s`, revenue, expenses, cogs, strings.Join(topCategories, ", "))

	text, err := a.generate(ctx, prompt)
	if err != nil {
		return FallbackMessage
	}
	return text
}

// GenerateImage produces a data URL for storefront art, or "" on any
// failure — the caller must treat the result as optional.
func (a *Assistant) GenerateImage(ctx context.Context, prompt, aspectRatio string) string {
	if !a.ready() {
		return ""
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(a.apiKey))
	if err != nil {
		return ""
	}
	defer client.Close()

	model := client.GenerativeModel(imageModel)
	full := fmt.Sprintf("%s. Aspect ratio %s. Clean product-photography style.", prompt, aspectRatio)
	resp, err := model.GenerateContent(ctx, genai.Text(full))
	if err != nil {
		return ""
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if blob, ok := part.(genai.Blob); ok {
			return "data:" + blob.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(blob.Data)
		}
	}
	return ""
}

// --- snapshot helpers: keep prompts small and free of cost prices ---

type productSummary struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
}

func summarizeProducts(products []models.Product) []productSummary {
	out := make([]productSummary, 0, len(products))
	for _, p := range products {
		out = append(out, productSummary{Name: p.Name, Category: p.Category, Price: p.Price, Stock: p.Stock})
	}
	return out
}

type txSummary struct {
	Date   string  `json:"date"`
	Total  float64 `json:"total"`
	Method string  `json:"method"`
	Items  int     `json:"items"`
}

func summarizeTransactions(txs []models.Transaction, limit int) []txSummary {
	out := make([]txSummary, 0, limit)
	for _, tx := range txs {
		if len(out) == limit {
			break
		}
		if tx.IsSettlement {
			continue
		}
		count := 0
		for _, line := range tx.Items {
			count += line.Quantity
		}
		out = append(out, txSummary{
			Date:   tx.Timestamp.Format("2006-01-02"),
			Total:  tx.Total,
			Method: tx.PaymentMethod,
			Items:  count,
		})
	}
	return out
}

// stripFences removes markdown code fences models sometimes wrap JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
