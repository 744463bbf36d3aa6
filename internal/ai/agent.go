package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go-inventory-api/internal/database"
	"go-inventory-api/internal/models"

	"github.com/google/generative-ai-go/genai"
	"github.com/shopspring/decimal"
	"google.golang.org/api/option"
)

// RunAgent answers an admin question about the shop using read-only
// tools over the inventory and sales data. It never mutates rows.
func RunAgent(userMessage string, apiKey string) (string, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return "", err
	}
	defer client.Close()

	model := client.GenerativeModel("gemini-2.0-flash-001")

	today := time.Now().Format("2006-01-02")

	systemPrompt := fmt.Sprintf(`SYSTEM: Today is %s. You are an inventory assistant for a point-of-sale backend.

	RULES:
	1. INVENTORY: If the user asks about stock levels, prices, lots, or products, call 'check_inventory' and read the JSON to answer.
	2. OVERVIEW: If the user asks for totals, valuation, or low-stock counts, call 'get_dashboard_stats'.
	3. SALES: If the user asks for sales or revenue over a period, call 'get_sales_report'.
	4. You have no tools that modify data. If asked to change something, explain that changes go through the normal endpoints.

	USER: %s`, today, userMessage)

	model.Tools = []*genai.Tool{
		{
			FunctionDeclarations: []*genai.FunctionDeclaration{
				{
					Name:        "check_inventory",
					Description: "Get every stock lot with its product name, quantity, cost and selling price.",
				},
				{
					Name:        "get_dashboard_stats",
					Description: "Get record counts, total inventory value, potential sales value, and the low-stock count.",
				},
				{
					Name:        "get_sales_report",
					Description: "Get total sales revenue and order count for a date range.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"start_date": {Type: genai.TypeString, Description: "Start date (YYYY-MM-DD)"},
							"end_date":   {Type: genai.TypeString, Description: "End date (YYYY-MM-DD)"},
						},
						Required: []string{"start_date", "end_date"},
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
				return executeCheckInventory(ctx, session)
			case "get_dashboard_stats":
				return executeDashboardStats(ctx, session)
			case "get_sales_report":
				return executeSalesReport(ctx, session, funcCall), nil
			}
		}
	}

	return printResponse(resp), nil
}

func executeCheckInventory(ctx context.Context, session *genai.ChatSession) (string, error) {
	var stocks []models.Stock
	database.DB.Find(&stocks)

	type lotSummary struct {
		StockID      uint   `json:"stock_id"`
		ProductName  string `json:"product_name"`
		Quantity     int    `json:"quantity"`
		SellingPrice string `json:"selling_price"`
		CostPrice    string `json:"cost_price,omitempty"`
		Location     string `json:"location,omitempty"`
	}

	lots := make([]lotSummary, 0, len(stocks))
	for _, s := range stocks {
		lot := lotSummary{
			StockID:      s.ID,
			Quantity:     s.Quantity,
			SellingPrice: s.SellingPrice.String(),
			Location:     s.Location,
		}
		if s.CostPrice.Valid {
			lot.CostPrice = s.CostPrice.Decimal.String()
		}
		var product models.Product
		if err := database.DB.First(&product, s.ProductID).Error; err == nil {
			lot.ProductName = product.Name
		}
		lots = append(lots, lot)
	}

	jsonBytes, _ := json.Marshal(lots)

	finalResp, err := session.SendMessage(ctx, genai.FunctionResponse{
		Name:     "check_inventory",
		Response: map[string]interface{}{"inventory": string(jsonBytes)},
	})
	if err != nil {
		return "", err
	}
	return printResponse(finalResp), nil
}

func executeDashboardStats(ctx context.Context, session *genai.ChatSession) (string, error) {
	var stocks []models.Stock
	database.DB.Find(&stocks)

	inventoryValue := decimal.Zero
	salesValue := decimal.Zero
	var lowStock int64
	for _, s := range stocks {
		qty := decimal.NewFromInt(int64(s.Quantity))
		if s.CostPrice.Valid {
			inventoryValue = inventoryValue.Add(s.CostPrice.Decimal.Mul(qty))
		}
		salesValue = salesValue.Add(s.SellingPrice.Mul(qty))
		if s.Quantity < 10 {
			lowStock++
		}
	}

	var saleCount, clientCount int64
	database.DB.Model(&models.Sale{}).Count(&saleCount)
	database.DB.Model(&models.Client{}).Count(&clientCount)

	finalResp, err := session.SendMessage(ctx, genai.FunctionResponse{
		Name: "get_dashboard_stats",
		Response: map[string]interface{}{
			"stock_lots":            len(stocks),
			"total_inventory_value": inventoryValue.String(),
			"potential_sales_value": salesValue.String(),
			"low_stock_items":       lowStock,
			"sales":                 saleCount,
			"clients":               clientCount,
		},
	})
	if err != nil {
		return "", err
	}
	return printResponse(finalResp), nil
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

func printResponse(resp *genai.GenerateContentResponse) string {
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			return string(txt)
		}
	}
	return "I completed the action."
}
