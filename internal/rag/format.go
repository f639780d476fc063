package rag

import (
	"fmt"
	"strings"

	"github.com/vivohome/assistant/internal/models"
	"github.com/vivohome/assistant/pkg/utils"
)

const notFoundMessage = `❌ **Không tìm thấy sản phẩm**

Xin lỗi, tôi không tìm thấy sản phẩm phù hợp trong hệ thống.
Bạn có thể thử:
- Mô tả sản phẩm khác đi
- Kiểm tra lại tên sản phẩm
- Hỏi cụ thể hơn (ví dụ: "TV Samsung 55 inch")`

const webSnippetLen = 150

// FormatResponse renders a search result as the user-facing Vietnamese reply.
// The branch is chosen by intent when products were found, by the web list
// when only the fallback fired, and by the fixed apology otherwise.
func FormatResponse(result models.SearchResult) string {
	switch {
	case len(result.Products) > 0:
		switch result.Intent.Intent {
		case models.IntentHighestPrice:
			return formatPriceCard("💎", "giá cao nhất", result)
		case models.IntentLowestPrice:
			return formatPriceCard("💰", "giá rẻ nhất", result)
		case models.IntentCompare:
			return formatCompare(result)
		default:
			return formatGeneric(result)
		}
	case len(result.WebResults) > 0:
		return formatWeb(result.WebResults)
	default:
		return notFoundMessage
	}
}

// formatPriceCard renders the single-product card for price superlatives.
func formatPriceCard(icon, label string, result models.SearchResult) string {
	p := result.Products[0]
	var b strings.Builder
	fmt.Fprintf(&b, "%s **Sản phẩm %s %s:**\n\n", icon, result.Intent.Category, label)
	fmt.Fprintf(&b, "📦 **%s**\n", p.Name)
	fmt.Fprintf(&b, "- Model: %s\n", p.ModelCode)
	fmt.Fprintf(&b, "- Giá: **%s VND**\n", utils.GroupThousands(p.Price))
	fmt.Fprintf(&b, "- Độ phù hợp: %.0f%%\n\n", p.Similarity*100)
	b.WriteString(sourcesLine(result.Sources))
	return b.String()
}

func formatCompare(result models.SearchResult) string {
	category := result.Intent.Category
	if category == "" {
		category = "sản phẩm"
	}
	lines := []string{fmt.Sprintf("📊 **So sánh %s:**\n", category)}
	for i, p := range result.Products {
		if i >= 5 {
			break
		}
		lines = append(lines, fmt.Sprintf("%d. **%s** (%s)", i+1, p.Name, p.ModelCode))
		lines = append(lines, fmt.Sprintf("   - Giá: **%s VND**", utils.GroupThousands(p.Price)))
		if p.Similarity > 0 {
			lines = append(lines, fmt.Sprintf("   - Độ phù hợp: %.0f%%", p.Similarity*100))
		}
	}
	lines = append(lines, "\n"+sourcesLine(result.Sources))
	return strings.Join(lines, "\n")
}

func formatGeneric(result models.SearchResult) string {
	lines := []string{"📦 **Sản phẩm tìm được:**\n"}
	for i, p := range result.Products {
		if i >= 5 {
			break
		}
		lines = append(lines, fmt.Sprintf("%s **%s** (%s)", similarityIcon(p.Similarity), p.Name, p.ModelCode))
		lines = append(lines, fmt.Sprintf("   - Giá: **%s VND**", utils.GroupThousands(p.Price)))
	}
	lines = append(lines, "\n"+sourcesLine(result.Sources))
	return strings.Join(lines, "\n")
}

func formatWeb(results []models.WebResult) string {
	lines := []string{"🌐 **Không tìm thấy trong kho VIVOHOME. Kết quả từ web:**\n"}
	for _, r := range results {
		if r.Type == models.WebTypeAnswer {
			lines = append(lines, fmt.Sprintf("💡 **Tóm tắt:** %s\n", r.Content))
			continue
		}
		lines = append(lines, fmt.Sprintf("🔗 **%s**", r.Title))
		lines = append(lines, "   "+utils.Truncate(r.Content, webSnippetLen))
		if r.URL != "" {
			lines = append(lines, fmt.Sprintf("   [Xem thêm](%s)", r.URL))
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func similarityIcon(similarity float64) string {
	switch {
	case similarity > 0.7:
		return "🟢"
	case similarity > 0.5:
		return "🟡"
	default:
		return "🔴"
	}
}

func sourcesLine(sources []string) string {
	return "📍 Nguồn: " + strings.Join(sources, ", ")
}
