// Package ai is the admin assistant: a Gemini agent with read-only tools
// over the catalog, stock lots and sales figures.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pichoendo/pos-backoffice-api/internal/database"
	"github.com/pichoendo/pos-backoffice-api/internal/models"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

func RunAgent(userMessage string, apiKey string) (string, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return "", err
	}
	defer client.Close()

	model := client.GenerativeModel("gemini-2.0-flash-001")

	today := time.Now().Format("2006-01-02")

	systemPrompt := fmt.Sprintf(`SYSTEM: Today is %s. You are the back-office assistant of a retail POS.

RULES:
1. READ: If a user asks for PRICE, STOCK, or DETAILS of an item:
   - Call 'check_inventory' to get the full list with available stock.
   - Read the JSON to find the specific item and answer the user.
2. SALES: If the user asks for sales or revenue figures, use 'get_sales_report'.
   Only successful sales count as revenue.
3. RESTOCK: If the user asks what needs restocking, use 'low_stock'.
4. You have no write access. Suggest the matching dashboard action instead.

USER: %s`, today, userMessage)

	model.Tools = []*genai.Tool{
		{
			FunctionDeclarations: []*genai.FunctionDeclaration{
				{
					Name:        "check_inventory",
					Description: "Get the full item list with price and available stock summed over stock lots.",
				},
				{
					Name:        "get_sales_report",
					Description: "Get total revenue and order count for successful sales in a date range.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"start_date": {Type: genai.TypeString, Description: "Start date (YYYY-MM-DD)"},
							"end_date":   {Type: genai.TypeString, Description: "End date (YYYY-MM-DD)"},
						},
						Required: []string{"start_date", "end_date"},
					},
				},
				{
					Name:        "low_stock",
					Description: "List items whose available stock is at or below a threshold.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"threshold": {Type: genai.TypeInteger, Description: "Stock level to alert at"},
						},
						Required: []string{"threshold"},
					},
				},
			},
		},
	}

	session := model.StartChat()

	resp, err := session.SendMessage(ctx, genai.Text(systemPrompt))
	if err != nil {
		return "", err
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if funcCall, ok := part.(genai.FunctionCall); ok {
			switch funcCall.Name {
			case "check_inventory":
				return executeCheckInventory(ctx, session), nil
			case "get_sales_report":
				return executeSalesReport(ctx, session, funcCall), nil
			case "low_stock":
				return executeLowStock(ctx, session, funcCall), nil
			}
		}
	}

	return printResponse(resp), nil
}

type inventoryRow struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
	Stock int    `json:"stock"`
}

func loadInventory() []inventoryRow {
	var rows []inventoryRow
	database.DB.Model(&models.Item{}).
		Select("items.id, items.name, items.price, COALESCE(SUM(stock_lots.qty), 0) AS stock").
		Joins("LEFT JOIN stock_lots ON stock_lots.item_id = items.id AND stock_lots.deleted_at IS NULL").
		Group("items.id, items.name, items.price").
		Scan(&rows)
	return rows
}

func executeCheckInventory(ctx context.Context, session *genai.ChatSession) string {
	jsonBytes, _ := json.Marshal(loadInventory())

	finalResp, err := session.SendMessage(ctx, genai.FunctionResponse{
		Name:     "check_inventory",
		Response: map[string]interface{}{"inventory": string(jsonBytes)},
	})
	if err != nil {
		return "Error reading inventory."
	}
	return printResponse(finalResp)
}

func executeSalesReport(ctx context.Context, session *genai.ChatSession, funcCall genai.FunctionCall) string {
	args := funcCall.Args
	startStr := args["start_date"].(string)
	endStr := args["end_date"].(string)

	start, err1 := time.Parse("2006-01-02", startStr)
	end, err2 := time.Parse("2006-01-02", endStr)

	if err1 != nil || err2 != nil {
		return "Error: Dates must be in YYYY-MM-DD format."
	}
	end = end.Add(23*time.Hour + 59*time.Minute)

	report, err := database.GetSalesReport(start, end)
	if err != nil {
		return "Error calculating sales."
	}

	finalResp, _ := session.SendMessage(ctx, genai.FunctionResponse{
		Name: "get_sales_report",
		Response: map[string]interface{}{
			"revenue":     report.TotalRevenue,
			"sales_count": report.TotalCount,
		},
	})
	return printResponse(finalResp)
}

func executeLowStock(ctx context.Context, session *genai.ChatSession, funcCall genai.FunctionCall) string {
	threshold := int(funcCall.Args["threshold"].(float64))

	var low []inventoryRow
	for _, row := range loadInventory() {
		if row.Stock <= threshold {
			low = append(low, row)
		}
	}
	jsonBytes, _ := json.Marshal(low)

	finalResp, _ := session.SendMessage(ctx, genai.FunctionResponse{
		Name:     "low_stock",
		Response: map[string]interface{}{"items": string(jsonBytes)},
	})
	return printResponse(finalResp)
}

func printResponse(resp *genai.GenerateContentResponse) string {
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			return string(txt)
		}
	}
	return "I completed the action."
}
